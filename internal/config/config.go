// Package config provides a unified configuration system for ddg-opt.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// Config represents the complete ddg-opt configuration.
type Config struct {
	Graph    GraphConfig    `yaml:"graph" json:"graph"`
	TSP      TSPConfig      `yaml:"tsp" json:"tsp"`
	Coloring ColoringConfig `yaml:"coloring" json:"coloring"`
	Bench    BenchConfig    `yaml:"bench" json:"bench"`
	Logging  LoggingConfig  `yaml:"logging" json:"logging"`
	Features map[string]bool `yaml:"features" json:"features"`
	Version  string         `yaml:"version" json:"version"`
	Profile  string         `yaml:"profile" json:"profile"`
}

// GraphConfig controls graph generation (§4.3).
type GraphConfig struct {
	NVertices        int     `yaml:"n_vertices" json:"n_vertices" default:"10"`
	Seed             int64   `yaml:"seed" json:"seed" default:"1"`
	BoundaryTop      float64 `yaml:"boundary_top" json:"boundary_top" default:"100"`
	BoundaryBottom   float64 `yaml:"boundary_bottom" json:"boundary_bottom" default:"0"`
	BoundaryLeft     float64 `yaml:"boundary_left" json:"boundary_left" default:"0"`
	BoundaryRight    float64 `yaml:"boundary_right" json:"boundary_right" default:"100"`
	EdgeMode         string  `yaml:"edge_mode" json:"edge_mode" default:"full"` // full|stochastic
	StochasticP      float64 `yaml:"stochastic_p" json:"stochastic_p" default:"0.35"`
}

// TSPConfig names a TSP variant (§4.4, §4.6). Validate checks it; the
// ddgopt tsp verb does not read it and always runs the DDG-backed search.
type TSPConfig struct {
	Variant string `yaml:"variant" json:"variant" default:"Incremental"` // Fast|Slow|Incremental
}

// ColoringConfig controls the flag-parameterized coloring DDG (§4.5).
type ColoringConfig struct {
	MergeLayers     bool   `yaml:"merge_layers" json:"merge_layers" default:"false"`
	DynamicBranches bool   `yaml:"dynamic_branches" json:"dynamic_branches" default:"false"`
	Firewall        bool   `yaml:"firewall" json:"firewall" default:"false"`
	CostExpr        string `yaml:"cost_expr" json:"cost_expr" default:"2*V*E - V*V"`
}

// BenchConfig controls the benchmark harness (§6.3).
type BenchConfig struct {
	Iterations int  `yaml:"iterations" json:"iterations" default:"10"`
	Trace      bool `yaml:"trace" json:"trace" default:"false"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level       string `yaml:"level" json:"level" default:"info" env:"DDGOPT_LOG_LEVEL"`
	Format      string `yaml:"format" json:"format" default:"text"`
	Output      string `yaml:"output" json:"output" default:"stderr"`
	EnableColor bool   `yaml:"enable_color" json:"enable_color" default:"true"`
}

// Manager manages configuration loading and validation.
type Manager struct {
	config      *Config
	configPath  string
	mu          sync.RWMutex
	changeHooks []func(*Config)
}

// NewManager creates a new configuration manager holding the defaults.
func NewManager() *Manager {
	return &Manager{
		config:      DefaultConfig(),
		changeHooks: make([]func(*Config), 0),
	}
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Graph: GraphConfig{
			NVertices:      10,
			Seed:           1,
			BoundaryTop:    100,
			BoundaryBottom: 0,
			BoundaryLeft:   0,
			BoundaryRight:  100,
			EdgeMode:       "full",
			StochasticP:    0.35,
		},
		TSP: TSPConfig{
			Variant: "Incremental",
		},
		Coloring: ColoringConfig{
			CostExpr: "2*V*E - V*V",
		},
		Bench: BenchConfig{
			Iterations: 10,
		},
		Logging: LoggingConfig{
			Level:       "info",
			Format:      "text",
			Output:      "stderr",
			EnableColor: true,
		},
		Features: make(map[string]bool),
		Version:  "1.0",
		Profile:  "default",
	}
}

// Load loads configuration from a YAML file, applies environment
// overrides, validates, and installs it as current.
func (m *Manager) Load(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	expanded, err := expandPath(path)
	if err != nil {
		return fmt.Errorf("expanding config path: %w", err)
	}

	data, err := os.ReadFile(expanded)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return fmt.Errorf("validating configuration: %w", err)
	}

	m.config = cfg
	m.configPath = expanded
	m.notifyChangeHooks(cfg)
	return nil
}

// Get returns a copy of the current configuration.
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	cfgCopy := *m.config
	return &cfgCopy
}

// Update applies updateFunc to a copy of the current configuration,
// validates it, then installs it.
func (m *Manager) Update(updateFunc func(*Config)) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cfgCopy := *m.config
	updateFunc(&cfgCopy)

	if err := Validate(&cfgCopy); err != nil {
		return fmt.Errorf("validating updated configuration: %w", err)
	}
	m.config = &cfgCopy
	m.notifyChangeHooks(&cfgCopy)
	return nil
}

// OnChange registers a callback invoked whenever the configuration changes.
func (m *Manager) OnChange(hook func(*Config)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.changeHooks = append(m.changeHooks, hook)
}

func (m *Manager) notifyChangeHooks(cfg *Config) {
	for _, hook := range m.changeHooks {
		hook(cfg)
	}
}

func expandPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	if path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(home, path[1:])
	}
	return os.ExpandEnv(path), nil
}
