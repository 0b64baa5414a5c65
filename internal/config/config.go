// Package config reads and writes the CLI configuration file.
//
// Tokens never live here; they belong to internal/secrets. The config file
// carries display preferences and the default project reference.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the CLI configuration
type Config struct {
	// Default output format (text, json, table, yaml)
	Output string `yaml:"output,omitempty"`

	// Default color mode (auto, always, never)
	Color string `yaml:"color,omitempty"`

	// Request timeout for API calls
	Timeout time.Duration `yaml:"timeout,omitempty"`

	// Optional custom GraphQL API URL (for testing/enterprise)
	APIURL string `yaml:"api_url,omitempty"`

	// Default project for issue commands
	DefaultProject *ProjectRef `yaml:"default_project,omitempty"`
}

// ProjectRef identifies a project. The ID is authoritative; the name is
// kept so status output stays readable without an API call.
type ProjectRef struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name,omitempty"`
}

// configPathFunc is the function used to get the default config path
// It can be overridden for testing
var configPathFunc = defaultConfigPath

// SetConfigPathFunc sets the config path function for testing.
// Returns the original function so it can be restored.
func SetConfigPathFunc(fn func() (string, error)) func() (string, error) {
	orig := configPathFunc
	configPathFunc = fn
	return orig
}

// defaultConfigPath returns ~/.config/linear-cli/config.yaml
func defaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "linear-cli", "config.yaml"), nil
}

// DefaultConfigPath returns ~/.config/linear-cli/config.yaml
func DefaultConfigPath() (string, error) {
	return configPathFunc()
}

// Load loads config from the default path, returns empty config if not found
func Load() (*Config, error) {
	path, err := DefaultConfigPath()
	if err != nil {
		return &Config{}, nil
	}
	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Config{}, nil // Return empty config if file doesn't exist
	}
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("invalid config file: %w", err)
	}
	return &cfg, nil
}

// Save saves config to the default path
func (c *Config) Save() error {
	path, err := DefaultConfigPath()
	if err != nil {
		return err
	}
	return c.SaveToPath(path)
}

// SaveToPath saves config to a specific path. The write goes through a
// temp file and rename so concurrent readers never see a partial file.
func (c *Config) SaveToPath(path string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".config-*.yaml")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return os.Rename(tmpPath, path)
}

// GetOutput returns the effective output format (config default or empty)
func (c *Config) GetOutput() string {
	return c.Output
}

// GetColor returns the effective color mode (config default or empty)
func (c *Config) GetColor() string {
	return c.Color
}

// GetDefaultProject returns the default project, or nil when none is set.
func (c *Config) GetDefaultProject() *ProjectRef {
	if c.DefaultProject == nil || c.DefaultProject.ID == "" {
		return nil
	}
	ref := *c.DefaultProject
	return &ref
}

// SetDefaultProject records the default project for issue commands.
func (c *Config) SetDefaultProject(id, name string) error {
	if id == "" {
		return fmt.Errorf("project id cannot be empty")
	}
	c.DefaultProject = &ProjectRef{ID: id, Name: name}
	return nil
}

// ClearDefaultProject removes the default project. Clearing when none is
// set is not an error.
func (c *Config) ClearDefaultProject() {
	c.DefaultProject = nil
}
