package provider

import (
	"context"
	"time"

	"go.uber.org/zap"

	"polarassist/internal/config"
)

// Backoff bounds for retries within a single provider. The delay doubles per
// retry and never exceeds backoffCap, so the gateway's latency bound holds
// even under sustained rate limiting.
const (
	backoffBase = 500 * time.Millisecond
	backoffCap  = 4 * time.Second
)

// Gateway walks the configured providers in priority order. It is immutable
// after construction: concurrent Generate calls share nothing but the client
// slice and may run in parallel without coordination.
type Gateway struct {
	clients    []Client
	timeout    time.Duration
	maxRetries int
	logger     *zap.Logger
}

// New builds a Gateway from process settings. Priority order is Groq,
// OpenRouter, Gemini; a provider joins the chain only when its key is set.
// A Gemini construction error is logged and skips that provider rather than
// failing startup: the chain degrades, the process does not.
func New(settings config.Settings, logger *zap.Logger) *Gateway {
	if logger == nil {
		logger = zap.NewNop()
	}

	clients := make([]Client, 0, 3)
	if settings.Groq.Configured() {
		clients = append(clients, NewGroqClientWithConfig(GroqConfig{
			APIKey:   settings.Groq.APIKey,
			Endpoint: settings.Groq.Endpoint,
			Model:    settings.Groq.Model,
			Timeout:  settings.Timeout,
		}))
	}
	if settings.OpenRouter.Configured() {
		clients = append(clients, NewOpenRouterClientWithConfig(OpenRouterConfig{
			APIKey:   settings.OpenRouter.APIKey,
			Endpoint: settings.OpenRouter.Endpoint,
			Model:    settings.OpenRouter.Model,
			Timeout:  settings.Timeout,
			SiteURL:  settings.SiteURL,
			SiteName: settings.SiteName,
		}))
	}
	if settings.Gemini.Configured() {
		gc, err := NewGeminiClient(GeminiConfig{
			APIKey: settings.Gemini.APIKey,
			Model:  settings.Gemini.Model,
		})
		if err != nil {
			logger.Warn("gemini client unavailable", zap.Error(err))
		} else {
			clients = append(clients, gc)
		}
	}

	return NewWithClients(clients, settings.Timeout, settings.MaxRetries, logger)
}

// NewWithClients builds a Gateway over an explicit client chain. Tests use
// this with stub clients.
func NewWithClients(clients []Client, timeout time.Duration, maxRetries int, logger *zap.Logger) *Gateway {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = config.DefaultTimeout
	}
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &Gateway{
		clients:    clients,
		timeout:    timeout,
		maxRetries: maxRetries,
		logger:     logger,
	}
}

// Disabled reports whether no provider is configured. It is a cheap,
// synchronous check; callers use it to skip AI features without ever
// touching the network.
func (g *Gateway) Disabled() bool { return len(g.clients) == 0 }

// Providers returns the configured provider names in priority order.
func (g *Gateway) Providers() []string {
	names := make([]string, len(g.clients))
	for i, c := range g.clients {
		names[i] = c.Name()
	}
	return names
}

// Generate obtains a raw completion from the highest-priority provider that
// answers. Each provider gets maxRetries+1 attempts with capped exponential
// backoff; each attempt runs under its own hard timeout. When every provider
// is exhausted the returned error is a *ChainError carrying the per-attempt
// failures; when no provider is configured it is ErrDisabled.
func (g *Gateway) Generate(ctx context.Context, req Request) (Response, error) {
	if g.Disabled() {
		return Response{}, ErrDisabled
	}

	start := time.Now()
	chain := &ChainError{}

	for idx, client := range g.clients {
		for attempt := 0; attempt <= g.maxRetries; attempt++ {
			if attempt > 0 {
				if err := sleepBackoff(ctx, attempt); err != nil {
					chain.Attempts = append(chain.Attempts, AttemptFailure{
						Provider: client.Name(), Attempt: attempt,
						Kind: FailureTimeout, Err: err,
					})
					return Response{}, chain
				}
			}

			attemptStart := time.Now()
			attemptCtx, cancel := context.WithTimeout(ctx, g.timeout)
			text, err := client.Complete(attemptCtx, req)
			cancel()

			if err == nil {
				resp := Response{
					Text:     text,
					Provider: client.Name(),
					Fallback: idx > 0,
					Elapsed:  time.Since(start),
				}
				if resp.Fallback {
					g.logger.Warn("provider fallback served request",
						zap.String("task", req.Task),
						zap.String("provider", client.Name()))
				}
				return resp, nil
			}

			failure := classify(err)
			chain.Attempts = append(chain.Attempts, AttemptFailure{
				Provider: client.Name(),
				Attempt:  attempt,
				Kind:     failure.Kind,
				Err:      failure.Err,
				Elapsed:  time.Since(attemptStart),
			})
			g.logger.Warn("provider attempt failed",
				zap.String("task", req.Task),
				zap.String("provider", client.Name()),
				zap.Int("attempt", attempt),
				zap.String("kind", string(failure.Kind)),
				zap.Error(failure.Err))

			// The caller walked away; stop the whole chain.
			if ctx.Err() != nil {
				return Response{}, chain
			}
			if !failure.Retryable() {
				break
			}
		}
	}

	g.logger.Error("all providers failed",
		zap.String("task", req.Task),
		zap.Int("attempts", len(chain.Attempts)))
	return Response{}, chain
}

// sleepBackoff waits for the capped exponential delay of the given retry,
// returning early if ctx is cancelled.
func sleepBackoff(ctx context.Context, attempt int) error {
	delay := backoffBase << (attempt - 1)
	if delay > backoffCap {
		delay = backoffCap
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
