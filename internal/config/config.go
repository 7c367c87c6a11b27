// Package config provides configuration management for spyglass with a
// well-defined precedence order: command-line flags, then environment
// variables, then a YAML configuration file, then built-in defaults. The
// file is optional; it mainly serves GitHub Enterprise deployments that need
// custom endpoints or a non-standard token variable.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the complete file-backed configuration for spyglass.
type Config struct {
	GitHub   GitHubConfig   `yaml:"github"`
	Defaults DefaultsConfig `yaml:"defaults"`
}

// GitHubConfig contains GitHub-specific settings: API endpoints and the name
// of the environment variable consulted for the token.
type GitHubConfig struct {
	APIEndpoint     string `yaml:"api_endpoint"`
	GraphQLEndpoint string `yaml:"graphql_endpoint"`
	TokenEnv        string `yaml:"token_env"`
}

// DefaultsConfig contains default settings applied when the corresponding
// flags are not given.
type DefaultsConfig struct {
	SleepSeconds float64 `yaml:"sleep_seconds"`
	Exact        bool    `yaml:"exact"`
}

// DefaultConfig returns a Config with defaults suitable for public
// GitHub.com usage.
func DefaultConfig() *Config {
	return &Config{
		GitHub: GitHubConfig{
			APIEndpoint:     "https://api.github.com",
			GraphQLEndpoint: "https://api.github.com/graphql",
			TokenEnv:        "GITHUB_TOKEN",
		},
	}
}

// Load loads configuration. If configPath is non-empty it must name a
// readable file; otherwise the standard locations are tried in order:
//   - .spyglass.yaml (current directory)
//   - .spyglass.yml (current directory)
//   - ~/.spyglass/config.yaml
//
// Missing files in the standard locations are not an error; the defaults
// are returned.
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if err := loadFile(configPath, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
		return cfg, nil
	}

	defaultPaths := []string{
		".spyglass.yaml",
		".spyglass.yml",
		filepath.Join(os.Getenv("HOME"), ".spyglass", "config.yaml"),
	}
	for _, path := range defaultPaths {
		if _, err := os.Stat(path); err == nil {
			if err := loadFile(path, cfg); err != nil {
				return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
			}
			break
		}
	}
	return cfg, nil
}

// ResolveToken implements the token precedence: the explicit flag value
// wins, then the configured environment variable, then unauthenticated
// (empty string).
func (c *Config) ResolveToken(flagToken string) string {
	if flagToken != "" {
		return flagToken
	}
	tokenEnv := c.GitHub.TokenEnv
	if tokenEnv == "" {
		tokenEnv = "GITHUB_TOKEN"
	}
	return os.Getenv(tokenEnv)
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}
