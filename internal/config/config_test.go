package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0600))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv(EnvAPIURL, "")
	t.Setenv(EnvStateDir, "/tmp/agentui-state")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultAPIURL, cfg.APIURL)
	assert.Equal(t, DefaultPerPage, cfg.PerPage)
	assert.Equal(t, DefaultTimeout, cfg.HTTPTimeout)
	assert.Equal(t, "/tmp/agentui-state", cfg.StateDir)
	assert.Equal(t, filepath.Join("/tmp/agentui-state", "agentui.log"), cfg.LogFile())
}

func TestLoad_FileAndEnvExpansion(t *testing.T) {
	t.Setenv(EnvAPIURL, "")
	t.Setenv(EnvStateDir, "")
	t.Setenv("BACKEND_HOST", "bots.internal:9000")

	path := writeConfig(t, `
api_url: http://${BACKEND_HOST}
state_dir: /var/lib/agentui
per_page: 25
http_timeout: 5s
log:
  level: debug
  file: /var/log/agentui.log
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://bots.internal:9000", cfg.APIURL)
	assert.Equal(t, "/var/lib/agentui", cfg.StateDir)
	assert.Equal(t, 25, cfg.PerPage)
	assert.Equal(t, 5*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "/var/log/agentui.log", cfg.LogFile())
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv(EnvAPIURL, "https://api.example.com")
	t.Setenv(EnvStateDir, "/env/state")

	path := writeConfig(t, "api_url: http://file.example.com\nstate_dir: /file/state\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com", cfg.APIURL)
	assert.Equal(t, "/env/state", cfg.StateDir)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv(EnvAPIURL, "")
	t.Setenv(EnvStateDir, "/tmp/s")

	tests := []struct {
		name string
		body string
	}{
		{"bad duration", "http_timeout: soon\n"},
		{"bad yaml", "api_url: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestValidate(t *testing.T) {
	t.Setenv(EnvAPIURL, "")
	t.Setenv(EnvStateDir, "/tmp/s")

	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"defaults", "", ""},
		{"relative url", "api_url: localhost:8000\n", "api_url"},
		{"zero per page", "per_page: 0\n", "per_page"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(writeConfig(t, tt.body))
			require.NoError(t, err)
			err = cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_InvalidEnvLeftForCallerOverride(t *testing.T) {
	t.Setenv(EnvAPIURL, "not a url")
	t.Setenv(EnvStateDir, "/tmp/s")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "not a url", cfg.APIURL)
	assert.Error(t, cfg.Validate())

	cfg.APIURL = "http://localhost:8000"
	assert.NoError(t, cfg.Validate())
}

func TestDefaultPath_Env(t *testing.T) {
	t.Setenv(EnvConfig, "/etc/agentui.yaml")
	p, err := DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, "/etc/agentui.yaml", p)
}
