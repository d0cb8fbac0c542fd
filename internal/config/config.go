package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config captures the settings required to run spiketrace.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Simulation SimulationConfig `yaml:"simulation"`
	Analysis   AnalysisConfig   `yaml:"analysis"`
	Output     OutputConfig     `yaml:"output"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// ServerConfig controls the HTTP API listeners.
type ServerConfig struct {
	Address         string        `yaml:"address"`
	MetricsAddress  string        `yaml:"metricsAddress"`
	GracefulTimeout time.Duration `yaml:"gracefulTimeout"`
}

// UnmarshalYAML accepts Go duration strings (e.g. "10s") for gracefulTimeout.
// Fields absent from the document keep their current values.
func (s *ServerConfig) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		Address         string `yaml:"address"`
		MetricsAddress  string `yaml:"metricsAddress"`
		GracefulTimeout string `yaml:"gracefulTimeout"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	if raw.Address != "" {
		s.Address = raw.Address
	}
	if raw.MetricsAddress != "" {
		s.MetricsAddress = raw.MetricsAddress
	}
	if raw.GracefulTimeout != "" {
		d, err := time.ParseDuration(raw.GracefulTimeout)
		if err != nil {
			return fmt.Errorf("parse gracefulTimeout: %w", err)
		}
		s.GracefulTimeout = d
	}
	return nil
}

// SimulationConfig holds default spike generation parameters.
type SimulationConfig struct {
	RateHz     float64 `yaml:"rateHz"`
	DurationMs float64 `yaml:"durationMs"`
	Seed       uint64  `yaml:"seed"`
}

// AnalysisConfig holds default estimation parameters.
type AnalysisConfig struct {
	BinSizeMs float64 `yaml:"binSizeMs"`
}

// OutputConfig controls the rendered figure location.
type OutputConfig struct {
	FigurePath string `yaml:"figurePath"`
}

// LoggingConfig controls structured logging.
type LoggingConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// Load initialises Config from a YAML file and optional environment overrides.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("SPIKETRACE_CONFIG")
	}

	cfg := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("config file %s not found: %w", path, err)
			}
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnvOverrides(&cfg)
	return &cfg, nil
}

func defaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Address:         ":8085",
			MetricsAddress:  ":2112",
			GracefulTimeout: 10 * time.Second,
		},
		Simulation: SimulationConfig{
			RateHz:     15,
			DurationMs: 1000,
			Seed:       42,
		},
		Analysis: AnalysisConfig{BinSizeMs: 50},
		Output:   OutputConfig{FigurePath: "figures/spike_analysis.png"},
		Logging:  LoggingConfig{Level: "info", JSON: false},
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SPIKETRACE_SERVER_ADDRESS"); v != "" {
		cfg.Server.Address = v
	}
	if v := os.Getenv("SPIKETRACE_METRICS_ADDRESS"); v != "" {
		cfg.Server.MetricsAddress = v
	}
	if v := os.Getenv("SPIKETRACE_RATE_HZ"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Simulation.RateHz = f
		}
	}
	if v := os.Getenv("SPIKETRACE_DURATION_MS"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Simulation.DurationMs = f
		}
	}
	if v := os.Getenv("SPIKETRACE_SEED"); v != "" {
		if s, err := strconv.ParseUint(v, 10, 64); err == nil {
			cfg.Simulation.Seed = s
		}
	}
	if v := os.Getenv("SPIKETRACE_BIN_SIZE_MS"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Analysis.BinSizeMs = f
		}
	}
	if v := os.Getenv("SPIKETRACE_FIGURE_PATH"); v != "" {
		cfg.Output.FigurePath = v
	}
	if v := os.Getenv("SPIKETRACE_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("SPIKETRACE_LOG_FORMAT"); strings.EqualFold(v, "json") {
		cfg.Logging.JSON = true
	}
}
