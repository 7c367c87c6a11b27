package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("defaults when no file exists", func(t *testing.T) {
		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, "https://api.github.com", cfg.GitHub.APIEndpoint)
		assert.Equal(t, "https://api.github.com/graphql", cfg.GitHub.GraphQLEndpoint)
		assert.Equal(t, "GITHUB_TOKEN", cfg.GitHub.TokenEnv)
		assert.Zero(t, cfg.Defaults.SleepSeconds)
		assert.False(t, cfg.Defaults.Exact)
	})

	t.Run("explicit file overrides defaults", func(t *testing.T) {
		path := writeConfigFile(t, `
github:
  api_endpoint: https://github.example.com/api/v3
  graphql_endpoint: https://github.example.com/api/graphql
  token_env: GHE_TOKEN
defaults:
  sleep_seconds: 1.5
  exact: true
`)
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "https://github.example.com/api/v3", cfg.GitHub.APIEndpoint)
		assert.Equal(t, "https://github.example.com/api/graphql", cfg.GitHub.GraphQLEndpoint)
		assert.Equal(t, "GHE_TOKEN", cfg.GitHub.TokenEnv)
		assert.Equal(t, 1.5, cfg.Defaults.SleepSeconds)
		assert.True(t, cfg.Defaults.Exact)
	})

	t.Run("partial file keeps remaining defaults", func(t *testing.T) {
		path := writeConfigFile(t, "defaults:\n  sleep_seconds: 2\n")
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "https://api.github.com", cfg.GitHub.APIEndpoint)
		assert.Equal(t, 2.0, cfg.Defaults.SleepSeconds)
	})

	t.Run("missing explicit file is an error", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("malformed yaml is an error", func(t *testing.T) {
		path := writeConfigFile(t, "github: [not a mapping")
		_, err := Load(path)
		assert.Error(t, err)
	})
}

func TestConfig_ResolveToken(t *testing.T) {
	t.Run("flag wins over environment", func(t *testing.T) {
		t.Setenv("GITHUB_TOKEN", "env-token")
		cfg := DefaultConfig()
		assert.Equal(t, "flag-token", cfg.ResolveToken("flag-token"))
	})

	t.Run("environment used when flag empty", func(t *testing.T) {
		t.Setenv("GITHUB_TOKEN", "env-token")
		cfg := DefaultConfig()
		assert.Equal(t, "env-token", cfg.ResolveToken(""))
	})

	t.Run("custom token_env is honored", func(t *testing.T) {
		t.Setenv("GHE_TOKEN", "enterprise-token")
		cfg := DefaultConfig()
		cfg.GitHub.TokenEnv = "GHE_TOKEN"
		assert.Equal(t, "enterprise-token", cfg.ResolveToken(""))
	})

	t.Run("unauthenticated when nothing configured", func(t *testing.T) {
		t.Setenv("GITHUB_TOKEN", "")
		cfg := DefaultConfig()
		assert.Equal(t, "", cfg.ResolveToken(""))
	})
}
