// Package gateway is the boundary to the hosted language model. The model
// is stateless across calls; every request carries the full assembled
// prompt and either returns raw text or fails. No retries, no caching.
package gateway

import (
	"context"
	"errors"
)

// ErrGenerationFailed wraps every provider failure so callers can treat
// "the model did not answer" as one condition.
var ErrGenerationFailed = errors.New("generation failed")

type Model interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
