package llm

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Bradwave/parabolawhat/internal/store"
)

// NewProvider builds the configured provider and wraps it so that each
// attempt is logged and transient failures are retried:
// caller → retry → logging → base. events and logger may be nil.
func NewProvider(ctx context.Context, cfg Config, events store.EventRepo, logger *slog.Logger) (Provider, error) {
	if !cfg.Enabled() {
		return nil, ErrNotConfigured
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var (
		base Provider
		err  error
	)
	switch cfg.Provider {
	case ProviderAnthropic:
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case ProviderOpenAI:
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case ProviderGemini:
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case ProviderOpenRouter:
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case ProviderMock:
		base = NewMockProvider()
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	logged := WithLogging(base, events, logger)
	return WithRetry(logged, cfg.Retry, logger), nil
}

// NewProviderFromEnv resolves configuration from PARABOLA_* variables,
// falling back to the vendors' key variables, and builds the provider.
func NewProviderFromEnv(ctx context.Context, events store.EventRepo, logger *slog.Logger) (Provider, Config, error) {
	cfg := ConfigFromEnv()
	if !cfg.Enabled() {
		discovered, ok := DiscoverConfig()
		if !ok {
			return nil, cfg, ErrNotConfigured
		}
		cfg = discovered
	}
	p, err := NewProvider(ctx, cfg, events, logger)
	return p, cfg, err
}
