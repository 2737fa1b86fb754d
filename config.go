package pagseguro

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Environment represents the PagSeguro environment (sandbox or production).
type Environment string

const (
	EnvSandbox    Environment = "sandbox"
	EnvProduction Environment = "production"
)

// DefaultTimeout bounds each HTTP call when Config.Timeout is zero.
const DefaultTimeout = 30 * time.Second

// Config holds the credentials and settings needed to talk to the
// PagSeguro web services.
type Config struct {
	// Email is the e-mail address of the PagSeguro seller account.
	Email string `validate:"required,email"`

	// Token is the API token generated for the seller account.
	Token string `validate:"required"`

	// Env selects sandbox or production endpoints.
	Env Environment `validate:"omitempty,oneof=sandbox production"`

	// BaseURL optionally overrides the web service root URL.
	// When empty, the URL is derived from Env.
	BaseURL string `validate:"omitempty,url"`

	// P12Path optionally points to a P12/PFX client certificate presented
	// on every TLS handshake.
	P12Path string

	// P12Password is the password that protects the P12 file.
	P12Password string

	// Timeout bounds each HTTP call. Zero means DefaultTimeout.
	Timeout time.Duration `validate:"gte=0"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks that the required configuration fields are present and well formed.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Errorf("pagseguro: %s failed %q validation", fe.Field(), fe.Tag())
	}
	return fmt.Errorf("pagseguro: invalid config: %w", err)
}

// DefaultBaseURL returns the web service root URL for the configured environment.
func (c Config) DefaultBaseURL() string {
	if c.BaseURL != "" {
		return c.BaseURL
	}
	if c.Env == EnvProduction {
		return "https://ws.pagseguro.uol.com.br"
	}
	return "https://ws.sandbox.pagseguro.uol.com.br"
}

func (c Config) timeout() time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}
	return DefaultTimeout
}

// LoadConfigFromEnv creates a Config from environment variables:
//
//	PAGSEGURO_EMAIL         – seller account e-mail (required)
//	PAGSEGURO_TOKEN         – seller API token (required)
//	PAGSEGURO_ENV           – "sandbox" (default) or "production"
//	PAGSEGURO_BASE_URL      – optional web service root override
//	PAGSEGURO_P12_PATH      – optional client certificate
//	PAGSEGURO_P12_PASSWORD  – client certificate password
//	PAGSEGURO_TIMEOUT       – per-call timeout as a Go duration (e.g. "10s")
func LoadConfigFromEnv() Config {
	return configFromEnv()
}

// LoadConfigFromDotEnv loads environment variables from a .env file and then
// reads the Config from them. If the file does not exist it silently falls
// back to the current process environment.
func LoadConfigFromDotEnv(filenames ...string) Config {
	// godotenv.Load does NOT override existing env vars.
	_ = godotenv.Load(filenames...)
	return configFromEnv()
}

func configFromEnv() Config {
	env := EnvSandbox
	if os.Getenv("PAGSEGURO_ENV") == "production" {
		env = EnvProduction
	}

	var timeout time.Duration
	if v := os.Getenv("PAGSEGURO_TIMEOUT"); v != "" {
		// unparsable values fall back to DefaultTimeout
		timeout, _ = time.ParseDuration(v)
	}

	return Config{
		Email:       os.Getenv("PAGSEGURO_EMAIL"),
		Token:       os.Getenv("PAGSEGURO_TOKEN"),
		Env:         env,
		BaseURL:     os.Getenv("PAGSEGURO_BASE_URL"),
		P12Path:     os.Getenv("PAGSEGURO_P12_PATH"),
		P12Password: os.Getenv("PAGSEGURO_P12_PASSWORD"),
		Timeout:     timeout,
	}
}
