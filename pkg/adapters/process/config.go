package process

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// HookConfig represents one completion hook: a command run once per sealed session.
type HookConfig struct {
	Name        string            `yaml:"name" json:"name"`
	Command     string            `yaml:"command" json:"command"`
	Args        []string          `yaml:"args" json:"args"`
	Environment map[string]string `yaml:"env" json:"env"`
	Description string            `yaml:"description" json:"description"`
	// Flows restricts the hook to the listed flow IDs. Empty means every flow.
	Flows []string `yaml:"flows" json:"flows"`
	// Timeout bounds a single run, e.g. "10s". Empty means DefaultTimeout.
	Timeout string `yaml:"timeout" json:"timeout"`
}

// ConfigFile represents the structure of hooks.yaml.
type ConfigFile struct {
	Hooks []HookConfig `yaml:"hooks" json:"hooks"`
}

// LoadHooks reads a configuration file (YAML or JSON) and returns the valid hooks.
// A missing file means no hooks are configured.
func LoadHooks(path string) ([]HookConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read hooks config: %w", err)
	}

	var cfg ConfigFile
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	} else {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	}

	seen := make(map[string]bool, len(cfg.Hooks))
	hooks := make([]HookConfig, 0, len(cfg.Hooks))
	for _, h := range cfg.Hooks {
		if h.Name == "" || h.Command == "" {
			return nil, fmt.Errorf("hook %q: name and command are required", h.Name)
		}
		if seen[h.Name] {
			return nil, fmt.Errorf("hook %q declared twice", h.Name)
		}
		if _, err := h.timeout(); err != nil {
			return nil, fmt.Errorf("hook %q: %w", h.Name, err)
		}
		seen[h.Name] = true
		hooks = append(hooks, h)
	}
	return hooks, nil
}

func (h HookConfig) timeout() (time.Duration, error) {
	if h.Timeout == "" {
		return DefaultTimeout, nil
	}
	d, err := time.ParseDuration(h.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q: %w", h.Timeout, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("timeout must be positive, got %s", d)
	}
	return d, nil
}

func (h HookConfig) matches(flowID string) bool {
	if len(h.Flows) == 0 {
		return true
	}
	for _, f := range h.Flows {
		if f == flowID {
			return true
		}
	}
	return false
}
