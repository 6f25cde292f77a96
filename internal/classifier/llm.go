package classifier

import (
	"context"
	"errors"

	"contentprep/internal/services/llm"
)

// Completer sends a JSON-only chat completion.
type Completer interface {
	Complete(ctx context.Context, req llm.Request) (string, error)
}

// LLM orders filenames through a chat completion endpoint.
type LLM struct {
	client Completer
}

// NewLLM wraps client.
func NewLLM(client Completer) *LLM {
	return &LLM{client: client}
}

// SuggestOrder asks the model for an order of filenames.
func (l *LLM) SuggestOrder(ctx context.Context, filenames []string, hints map[string]string) ([]string, error) {
	if l == nil || l.client == nil {
		return nil, errors.New("llm classifier is not configured")
	}
	if len(filenames) == 0 {
		return []string{}, nil
	}
	prompt, err := buildUserPrompt(filenames, hints)
	if err != nil {
		return nil, err
	}
	raw, err := l.client.Complete(ctx, llm.Request{Op: "suggest order", System: OrderingPrompt, User: prompt})
	if err != nil {
		return nil, err
	}
	return parseOrder("openrouter", raw)
}
