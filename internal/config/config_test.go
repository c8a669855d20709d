package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig_DefaultsWithSecretFromEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "from-env")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"), "")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, int64(16<<20), cfg.Server.MaxUploadBytes)
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, "from-env", cfg.JWT.Secret)
	assert.Equal(t, 24*time.Hour, cfg.AccessTokenTTL())
	assert.False(t, cfg.Seed.Enabled)
}

func TestLoadConfig_YAMLThenEnvPrecedence(t *testing.T) {
	dir := t.TempDir()
	yamlPath := writeFile(t, dir, "config.yaml", `
server:
  port: "9000"
  storage_path: /var/uploads
database:
  driver: memory
jwt:
  secret: yaml-secret
  access_token_expiration: 2h
seed:
  enabled: true
`)
	t.Setenv("SERVER_PORT", "9100")

	cfg, err := LoadConfig(yamlPath, "")
	require.NoError(t, err)

	assert.Equal(t, "9100", cfg.Server.Port)
	assert.Equal(t, "/var/uploads", cfg.Server.StoragePath)
	assert.True(t, cfg.UsesMemoryStore())
	assert.Equal(t, "yaml-secret", cfg.JWT.Secret)
	assert.Equal(t, 2*time.Hour, cfg.AccessTokenTTL())
	assert.True(t, cfg.Seed.Enabled)
}

func TestLoadConfig_DotEnvFile(t *testing.T) {
	dir := t.TempDir()
	envPath := writeFile(t, dir, ".env", "LC_TEST_DOTENV_SECRET=unused\nSEED_ENABLED=true\n")
	t.Setenv("JWT_SECRET", "s")
	// godotenv does not override variables that are already set; make sure
	// the ones it sets are cleaned up after the test.
	t.Cleanup(func() {
		os.Unsetenv("LC_TEST_DOTENV_SECRET")
		os.Unsetenv("SEED_ENABLED")
	})

	cfg, err := LoadConfig(filepath.Join(dir, "none.yaml"), envPath)
	require.NoError(t, err)
	assert.True(t, cfg.Seed.Enabled)
	assert.Equal(t, "unused", os.Getenv("LC_TEST_DOTENV_SECRET"))
}

func TestLoadConfig_MissingDotEnvIsIgnored(t *testing.T) {
	t.Setenv("JWT_SECRET", "s")
	_, err := LoadConfig("", filepath.Join(t.TempDir(), ".env"))
	assert.NoError(t, err)
}

func TestLoadConfig_Validation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing secret", map[string]string{}},
		{"bad driver", map[string]string{"JWT_SECRET": "s", "DB_DRIVER": "sqlite"}},
		{"bad expiration", map[string]string{"JWT_SECRET": "s", "JWT_ACCESS_TOKEN_EXPIRATION": "soon"}},
		{"bad log format", map[string]string{"JWT_SECRET": "s", "LOG_FORMAT": "xml"}},
		{"bad upload size", map[string]string{"JWT_SECRET": "s", "SERVER_MAX_UPLOAD_BYTES": "0"}},
		{"bad int", map[string]string{"JWT_SECRET": "s", "DB_MAX_OPEN_CONNS": "many"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("JWT_SECRET", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := LoadConfig("", "")
			assert.Error(t, err)
		})
	}
}
