package gateway

import (
	"context"
	"fmt"
)

// Mock is a scriptable Model for tests and offline runs.
type Mock struct {
	Response string
	Err      error

	// GenerateFunc overrides Response/Err when set.
	GenerateFunc func(ctx context.Context, prompt string) (string, error)

	Prompts []string
}

var _ Model = (*Mock)(nil)

func (m *Mock) Generate(ctx context.Context, prompt string) (string, error) {
	m.Prompts = append(m.Prompts, prompt)

	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, prompt)
	}

	if m.Err != nil {
		return "", fmt.Errorf("%w: %v", ErrGenerationFailed, m.Err)
	}

	return m.Response, nil
}
