package provider

import "time"

// GroqConfig holds configuration for the Groq client.
type GroqConfig struct {
	APIKey   string
	Endpoint string
	Model    string
	Timeout  time.Duration
}

// DefaultGroqConfig returns sensible defaults.
func DefaultGroqConfig(apiKey string) GroqConfig {
	return GroqConfig{
		APIKey:   apiKey,
		Endpoint: "https://api.groq.com/openai/v1/chat/completions",
		Model:    "llama-3.1-8b-instant",
		Timeout:  60 * time.Second,
	}
}

// GroqClient implements Client for the Groq chat completions API.
type GroqClient struct {
	*chatClient
}

// NewGroqClient creates a Groq client with default config.
func NewGroqClient(apiKey string) *GroqClient {
	return NewGroqClientWithConfig(DefaultGroqConfig(apiKey))
}

// NewGroqClientWithConfig creates a Groq client with custom config.
func NewGroqClientWithConfig(cfg GroqConfig) *GroqClient {
	def := DefaultGroqConfig(cfg.APIKey)
	if cfg.Endpoint == "" {
		cfg.Endpoint = def.Endpoint
	}
	if cfg.Model == "" {
		cfg.Model = def.Model
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	return &GroqClient{
		chatClient: newChatClient("groq", cfg.Endpoint, cfg.APIKey, cfg.Model, cfg.Timeout, nil),
	}
}
