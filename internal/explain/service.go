// Package explain asks a language model why an answer was wrong.
package explain

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Bradwave/parabolawhat/internal/llm"
)

// ErrUnavailable is returned when no provider is configured.
var ErrUnavailable = errors.New("explanations are not available")

// Service generates explanations. The zero provider disables it.
type Service struct {
	provider llm.Provider
	cfg      Config
}

// NewService creates an explanation service. provider may be nil.
func NewService(provider llm.Provider, cfg Config) *Service {
	return &Service{provider: provider, cfg: cfg}
}

// Enabled reports whether Explain can reach a model.
func (s *Service) Enabled() bool {
	return s != nil && s.provider != nil
}

// Explain generates an explanation for in.
func (s *Service) Explain(ctx context.Context, in Input) (*Explanation, error) {
	if !s.Enabled() {
		return nil, ErrUnavailable
	}
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}
	ctx = llm.WithPurpose(ctx, llm.PurposeExplain)

	resp, err := s.provider.Generate(ctx, llm.Request{
		System:      systemPrompt,
		Messages:    llm.UserMessage(buildUserMessage(in)),
		Schema:      ExplanationSchema,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("explanation generation: %w", err)
	}

	var out Explanation
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("parse explanation response: %w", err)
	}
	return &out, nil
}
