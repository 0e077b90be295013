package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "default", cfg.CurrentProfile)
	assert.NotNil(t, cfg.Profiles)
	assert.Empty(t, cfg.Profiles)
}

func TestLoad_NoConfigFile(t *testing.T) {
	cfg, err := Load("/nonexistent/path/config.yaml")
	require.NoError(t, err)

	assert.Equal(t, "default", cfg.CurrentProfile)
	assert.Empty(t, cfg.Profiles)
}

func TestLoad_WithConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `current_profile: production
profiles:
  production:
    api_url: https://api.pulsegraph.example.com
    token: test-token-123
`
	err := os.WriteFile(configPath, []byte(configContent), 0600)
	require.NoError(t, err)

	cfg, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.CurrentProfile)
	assert.Contains(t, cfg.Profiles, "production")
	assert.Equal(t, "https://api.pulsegraph.example.com", cfg.Profiles["production"].APIURL)
	assert.Equal(t, "test-token-123", cfg.Profiles["production"].Token)
}

func TestLoad_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	err := os.WriteFile(configPath, []byte("current_profile:\n  - not\n  - a\n  - string"), 0600)
	require.NoError(t, err)

	_, err = Load(configPath)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to unmarshal config")
}

func TestSaveProfile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	cfg := Default()
	cfg.path = configPath

	err := cfg.SaveProfile("staging", "https://staging.example.com", "token-abc")
	require.NoError(t, err)

	assert.Contains(t, cfg.Profiles, "staging")
	assert.Equal(t, "staging", cfg.CurrentProfile)

	loadedCfg, err := Load(configPath)
	require.NoError(t, err)
	assert.Equal(t, "https://staging.example.com", loadedCfg.Profiles["staging"].APIURL)
	assert.Equal(t, "token-abc", loadedCfg.Profiles["staging"].Token)
	assert.Equal(t, "staging", loadedCfg.CurrentProfile)
}

func TestSave_Permissions(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, ".pulsegraph", "config.yaml")

	cfg := Default()
	cfg.path = configPath

	err := cfg.Save()
	require.NoError(t, err)

	dirInfo, err := os.Stat(filepath.Dir(configPath))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0700), dirInfo.Mode().Perm())

	fileInfo, err := os.Stat(configPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), fileInfo.Mode().Perm())
}

func TestGetProfile(t *testing.T) {
	cfg := Default()
	cfg.Profiles["test"] = &Profile{APIURL: "https://test.example.com", Token: "tok"}
	cfg.CurrentProfile = "test"

	profile, err := cfg.GetProfile("test")
	require.NoError(t, err)
	assert.Equal(t, "https://test.example.com", profile.APIURL)

	// Empty name resolves the current profile.
	profile, err = cfg.GetProfile("")
	require.NoError(t, err)
	assert.Equal(t, "tok", profile.Token)

	_, err = cfg.GetProfile("nonexistent")
	assert.Error(t, err)
}

func TestRemoveProfile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	cfg := Default()
	cfg.path = configPath
	cfg.Profiles["dev"] = &Profile{APIURL: "http://dev:8090"}
	cfg.Profiles["prod"] = &Profile{APIURL: "http://prod:8090"}
	cfg.CurrentProfile = "dev"

	err := cfg.RemoveProfile("prod")
	require.NoError(t, err)
	assert.NotContains(t, cfg.Profiles, "prod")
	assert.Equal(t, "dev", cfg.CurrentProfile)

	err = cfg.RemoveProfile("dev")
	require.NoError(t, err)
	assert.Equal(t, "", cfg.CurrentProfile)

	err = cfg.RemoveProfile("nonexistent")
	assert.Error(t, err)
}

func TestGetAPIURL_Fallback(t *testing.T) {
	cfg := Default()
	cfg.Profiles["custom"] = &Profile{APIURL: "https://custom.example.com"}

	assert.Equal(t, "https://custom.example.com", cfg.GetAPIURL("custom"))
	assert.Equal(t, DefaultAPIURL, cfg.GetAPIURL("nonexistent"))

	// A profile with a token but no URL falls back to the default URL.
	cfg.Profiles["tokenonly"] = &Profile{Token: "tok"}
	assert.Equal(t, DefaultAPIURL, cfg.GetAPIURL("tokenonly"))
	assert.Equal(t, "tok", cfg.GetToken("tokenonly"))
}
