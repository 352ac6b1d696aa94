// Package config resolves provider credentials and call budgets once at
// process start. Precedence: YAML settings file, then environment variables.
// The returned Settings value is never mutated after Load; changing provider
// configuration requires a restart.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Default call budgets. The worst-case latency of one assistance call is
// bounded by providers × (MaxRetries+1) × Timeout plus capped backoff.
const (
	DefaultTimeout    = 60 * time.Second
	DefaultMaxRetries = 1
)

// ProviderSettings holds the configuration for a single text-generation
// provider. A provider participates in the fallback chain only when APIKey
// is non-empty.
type ProviderSettings struct {
	APIKey   string `yaml:"api_key"`
	Endpoint string `yaml:"endpoint"`
	Model    string `yaml:"model"`
}

// Configured reports whether this provider has a credential.
func (p ProviderSettings) Configured() bool { return p.APIKey != "" }

// Settings is the process-wide assistance configuration, established at
// startup and immutable for the process lifetime.
type Settings struct {
	Groq       ProviderSettings `yaml:"groq"`
	OpenRouter ProviderSettings `yaml:"openrouter"`
	Gemini     ProviderSettings `yaml:"gemini"`

	// SiteURL and SiteName are sent as attribution headers to OpenRouter.
	SiteURL  string `yaml:"site_url"`
	SiteName string `yaml:"site_name"`

	// Timeout is the hard per-attempt budget for one provider call.
	Timeout time.Duration `yaml:"timeout"`

	// MaxRetries is the number of retries per provider before moving to the
	// next one in the chain.
	MaxRetries int `yaml:"max_retries"`
}

// AnyProviderConfigured reports whether at least one provider has a
// credential. False means the assistance layer runs Disabled.
func (s Settings) AnyProviderConfigured() bool {
	return s.Groq.Configured() || s.OpenRouter.Configured() || s.Gemini.Configured()
}

// Load resolves Settings from an optional YAML file plus environment
// variables. path may be empty; a missing file is not an error, a malformed
// one is.
func Load(path string) (Settings, error) {
	s := Settings{
		SiteName:   "Polar Data Portal",
		Timeout:    DefaultTimeout,
		MaxRetries: DefaultMaxRetries,
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &s); err != nil {
				return Settings{}, fmt.Errorf("parse settings file %s: %w", path, err)
			}
		case !os.IsNotExist(err):
			return Settings{}, fmt.Errorf("read settings file %s: %w", path, err)
		}
	}

	applyEnv(&s)

	if s.Timeout <= 0 {
		s.Timeout = DefaultTimeout
	}
	if s.MaxRetries < 0 {
		s.MaxRetries = 0
	}

	return s, nil
}

// FromEnv resolves Settings from environment variables only.
func FromEnv() Settings {
	s, _ := Load("")
	return s
}

func applyEnv(s *Settings) {
	setIfEnv(&s.Groq.APIKey, "GROQ_API_KEY")
	setIfEnv(&s.Groq.Endpoint, "GROQ_API_ENDPOINT")
	setIfEnv(&s.Groq.Model, "GROQ_MODEL")

	setIfEnv(&s.OpenRouter.APIKey, "OPENROUTER_API_KEY")
	setIfEnv(&s.OpenRouter.Endpoint, "OPENROUTER_API_ENDPOINT")
	setIfEnv(&s.OpenRouter.Model, "OPENROUTER_MODEL")

	setIfEnv(&s.Gemini.APIKey, "GEMINI_API_KEY")
	setIfEnv(&s.Gemini.Model, "GEMINI_MODEL")

	if v := os.Getenv("POLARASSIST_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			s.Timeout = d
		}
	}
	if v := os.Getenv("POLARASSIST_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			s.MaxRetries = n
		}
	}
}

func setIfEnv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
