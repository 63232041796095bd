package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"neuroevo/internal/ga"
)

// ErrInvalid is returned by Validate for out-of-range settings
var ErrInvalid = errors.New("invalid config")

// Selection strategies
const (
	SelectionTruncation = "truncation"
	SelectionThreshold  = "threshold"
)

// Config is the root configuration structure
type Config struct {
	Seed    int64     `yaml:"seed"`
	NN      NNConfig  `yaml:"nn"`
	GA      GAConfig  `yaml:"ga"`
	Run     RunConfig `yaml:"run"`
	Logging LogConfig `yaml:"logging"`
}

// NNConfig defines the network topology
type NNConfig struct {
	Layers []int `yaml:"layers"` // layer sizes, input first
}

// GAConfig defines genetic algorithm parameters
type GAConfig struct {
	Population        int     `yaml:"population"`         // target size after crossover
	InitialPopulation int     `yaml:"initial_population"` // size of generation zero
	Survivors         int     `yaml:"survivors"`          // agents kept by truncation
	Selection         string  `yaml:"selection"`          // truncation|threshold
	SelectionDelta    float64 `yaml:"selection_delta"`    // threshold: keep fitness >= mean + delta
	MutationRate      float64 `yaml:"mutation_rate"`      // 0 disables mutation
}

// RunConfig defines the outer loop
type RunConfig struct {
	Generations int   `yaml:"generations"`
	TargetSeed  int64 `yaml:"target_seed"`
}

// LogConfig defines logging parameters
type LogConfig struct {
	Level    string `yaml:"level"` // debug|info|warn|error
	CSVPath  string `yaml:"csv_path"`
	JSONPath string `yaml:"json_path"`
}

// Default returns a config with every default applied
func Default() *Config {
	cfg := newConfig()
	applyDefaults(cfg)
	return cfg
}

// Load reads a YAML config file and returns a Config.
// An empty path yields Default().
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := newConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	// Apply defaults
	applyDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newConfig presets fields whose zero value is meaningful.
// yaml.Unmarshal leaves them alone when the key is absent.
func newConfig() *Config {
	return &Config{
		GA: GAConfig{MutationRate: ga.DefaultMutationRate},
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Seed == 0 {
		cfg.Seed = 1337
	}
	if len(cfg.NN.Layers) == 0 {
		cfg.NN.Layers = []int{4, 8, 2}
	}
	if cfg.GA.Population == 0 {
		cfg.GA.Population = 50
	}
	if cfg.GA.InitialPopulation == 0 {
		cfg.GA.InitialPopulation = cfg.GA.Population
	}
	if cfg.GA.Survivors == 0 {
		cfg.GA.Survivors = cfg.GA.Population / 2
		// crossover fills an even gap exactly
		if (cfg.GA.Population-cfg.GA.Survivors)%2 == 1 {
			cfg.GA.Survivors++
		}
	}
	if cfg.GA.Selection == "" {
		cfg.GA.Selection = SelectionTruncation
	}
	if cfg.Run.Generations == 0 {
		cfg.Run.Generations = 100
	}
	if cfg.Run.TargetSeed == 0 {
		cfg.Run.TargetSeed = 42
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
}

// Validate checks ranges that defaults cannot repair
func (c *Config) Validate() error {
	if len(c.NN.Layers) < 2 {
		return fmt.Errorf("nn.layers needs at least 2 sizes, got %d: %w", len(c.NN.Layers), ErrInvalid)
	}
	for i, size := range c.NN.Layers {
		if size <= 0 {
			return fmt.Errorf("nn.layers[%d] = %d: %w", i, size, ErrInvalid)
		}
	}
	if c.GA.MutationRate < 0 || c.GA.MutationRate > 1 {
		return fmt.Errorf("ga.mutation_rate %v outside [0, 1]: %w", c.GA.MutationRate, ErrInvalid)
	}
	switch c.GA.Selection {
	case SelectionTruncation, SelectionThreshold:
	default:
		return fmt.Errorf("ga.selection %q: %w", c.GA.Selection, ErrInvalid)
	}
	if c.GA.Population < 1 || c.GA.InitialPopulation < 1 {
		return fmt.Errorf("population sizes must be positive: %w", ErrInvalid)
	}
	if c.GA.Survivors < 1 || c.GA.Survivors > c.GA.Population {
		return fmt.Errorf("ga.survivors %d outside [1, %d]: %w", c.GA.Survivors, c.GA.Population, ErrInvalid)
	}
	if c.Run.Generations < 0 {
		return fmt.Errorf("run.generations %d is negative: %w", c.Run.Generations, ErrInvalid)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q: %w", c.Logging.Level, ErrInvalid)
	}
	return nil
}
