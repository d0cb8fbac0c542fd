package generator

import (
	"fmt"
	"sort"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/neurostack/spiketrace/internal/models"
	"github.com/neurostack/spiketrace/internal/utils"
)

// Generator simulates spike trains from a homogeneous Poisson process.
//
// Each Generate call owns its pseudorandom source, seeded explicitly, so
// runs are reproducible and independent of any global random state.
type Generator struct{}

// New creates a spike train generator.
func New() *Generator {
	return &Generator{}
}

// Generate produces a sorted spike train for the given mean rate (Hz) over
// a recording window of duration milliseconds.
//
// The spike count is drawn from a Poisson distribution with mean
// rate*duration/1000, and timestamps are uniform order statistics over
// [0, duration) — equivalent to exponential waiting times but simpler.
func (g *Generator) Generate(rate, duration float64, seed uint64) (models.SpikeTrain, error) {
	if rate < 0 {
		return nil, utils.NewInvalidParameter("generate", fmt.Sprintf("rate must be >= 0, got %g", rate))
	}
	if duration <= 0 {
		return nil, utils.NewInvalidParameter("generate", fmt.Sprintf("duration must be > 0, got %g", duration))
	}

	lambda := rate * duration / 1000.0
	if lambda == 0 {
		return models.SpikeTrain{}, nil
	}

	src := rand.NewSource(seed)
	poisson := distuv.Poisson{Lambda: lambda, Src: src}
	uniform := distuv.Uniform{Min: 0, Max: duration, Src: src}

	n := int(poisson.Rand())
	train := make(models.SpikeTrain, n)
	for i := range train {
		train[i] = uniform.Rand()
	}
	sort.Float64s(train)

	return train, nil
}
