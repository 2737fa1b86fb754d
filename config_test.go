package pagseguro_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evaldobarbosa/pagseguro"
)

func validConfig() pagseguro.Config {
	return pagseguro.Config{
		Email: "seller@example.com",
		Token: "0123456789ABCDEF",
		Env:   pagseguro.EnvSandbox,
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*pagseguro.Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*pagseguro.Config) {}},
		{name: "empty env is allowed", mutate: func(c *pagseguro.Config) { c.Env = "" }},
		{
			name:    "missing email",
			mutate:  func(c *pagseguro.Config) { c.Email = "" },
			wantErr: `pagseguro: Email failed "required" validation`,
		},
		{
			name:    "malformed email",
			mutate:  func(c *pagseguro.Config) { c.Email = "seller" },
			wantErr: `pagseguro: Email failed "email" validation`,
		},
		{
			name:    "missing token",
			mutate:  func(c *pagseguro.Config) { c.Token = "" },
			wantErr: `pagseguro: Token failed "required" validation`,
		},
		{
			name:    "unknown environment",
			mutate:  func(c *pagseguro.Config) { c.Env = "staging" },
			wantErr: `pagseguro: Env failed "oneof" validation`,
		},
		{
			name:    "malformed base url",
			mutate:  func(c *pagseguro.Config) { c.BaseURL = "not a url" },
			wantErr: `pagseguro: BaseURL failed "url" validation`,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.EqualError(t, err, tt.wantErr)
		})
	}
}

func TestConfig_DefaultBaseURL(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	assert.Equal(t, "https://ws.sandbox.pagseguro.uol.com.br", cfg.DefaultBaseURL())

	cfg.Env = pagseguro.EnvProduction
	assert.Equal(t, "https://ws.pagseguro.uol.com.br", cfg.DefaultBaseURL())

	cfg.BaseURL = "http://localhost:8080"
	assert.Equal(t, "http://localhost:8080", cfg.DefaultBaseURL())
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("PAGSEGURO_EMAIL", "seller@example.com")
	t.Setenv("PAGSEGURO_TOKEN", "secret")
	t.Setenv("PAGSEGURO_ENV", "production")
	t.Setenv("PAGSEGURO_BASE_URL", "")
	t.Setenv("PAGSEGURO_P12_PATH", "")
	t.Setenv("PAGSEGURO_P12_PASSWORD", "")
	t.Setenv("PAGSEGURO_TIMEOUT", "5s")

	cfg := pagseguro.LoadConfigFromEnv()

	assert.Equal(t, "seller@example.com", cfg.Email)
	assert.Equal(t, "secret", cfg.Token)
	assert.Equal(t, pagseguro.EnvProduction, cfg.Env)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfigFromEnv_DefaultsToSandbox(t *testing.T) {
	t.Setenv("PAGSEGURO_ENV", "")
	t.Setenv("PAGSEGURO_TIMEOUT", "soon")

	cfg := pagseguro.LoadConfigFromEnv()

	assert.Equal(t, pagseguro.EnvSandbox, cfg.Env)
	assert.Zero(t, cfg.Timeout)
}

func TestLoadConfigFromDotEnv_DoesNotOverrideProcessEnv(t *testing.T) {
	t.Setenv("PAGSEGURO_EMAIL", "process@example.com")

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("PAGSEGURO_EMAIL=file@example.com\n"), 0o600))

	cfg := pagseguro.LoadConfigFromDotEnv(path)

	assert.Equal(t, "process@example.com", cfg.Email)
}

func TestLoadConfigFromDotEnv_MissingFile(t *testing.T) {
	t.Setenv("PAGSEGURO_EMAIL", "seller@example.com")

	cfg := pagseguro.LoadConfigFromDotEnv(filepath.Join(t.TempDir(), "missing.env"))

	assert.Equal(t, "seller@example.com", cfg.Email)
}
