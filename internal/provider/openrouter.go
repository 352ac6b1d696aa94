package provider

import "time"

// OpenRouterConfig holds configuration for the OpenRouter client.
type OpenRouterConfig struct {
	APIKey   string
	Endpoint string
	Model    string
	Timeout  time.Duration
	SiteURL  string // Optional: sent as HTTP-Referer for rankings
	SiteName string // Optional: sent as X-Title
}

// DefaultOpenRouterConfig returns sensible defaults.
func DefaultOpenRouterConfig(apiKey string) OpenRouterConfig {
	return OpenRouterConfig{
		APIKey:   apiKey,
		Endpoint: "https://openrouter.ai/api/v1/chat/completions",
		Model:    "google/gemma-3-4b-it:free",
		Timeout:  60 * time.Second,
	}
}

// OpenRouterClient implements Client for the OpenRouter API.
type OpenRouterClient struct {
	*chatClient
}

// NewOpenRouterClient creates an OpenRouter client with default config.
func NewOpenRouterClient(apiKey string) *OpenRouterClient {
	return NewOpenRouterClientWithConfig(DefaultOpenRouterConfig(apiKey))
}

// NewOpenRouterClientWithConfig creates an OpenRouter client with custom config.
func NewOpenRouterClientWithConfig(cfg OpenRouterConfig) *OpenRouterClient {
	def := DefaultOpenRouterConfig(cfg.APIKey)
	if cfg.Endpoint == "" {
		cfg.Endpoint = def.Endpoint
	}
	if cfg.Model == "" {
		cfg.Model = def.Model
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}

	headers := map[string]string{}
	if cfg.SiteURL != "" {
		headers["HTTP-Referer"] = cfg.SiteURL
	}
	if cfg.SiteName != "" {
		headers["X-Title"] = cfg.SiteName
	}

	return &OpenRouterClient{
		chatClient: newChatClient("openrouter", cfg.Endpoint, cfg.APIKey, cfg.Model, cfg.Timeout, headers),
	}
}
