package gateway

import (
	"context"
	"fmt"
	"strings"
	"time"

	"jaws/app/config"

	"github.com/samber/do"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/openai"
)

// LangchainModel serves Generate through a langchaingo provider selected
// by config.
type LangchainModel struct {
	llm         llms.Model
	maxTokens   int
	temperature float64
	timeout     time.Duration
}

var _ Model = (*LangchainModel)(nil)

func New(di *do.Injector) (Model, error) {
	cfg := do.MustInvoke[*config.Config](di)
	appCtx := do.MustInvoke[context.Context](di)

	llm, err := createLLM(appCtx, cfg.Model)
	if err != nil {
		return nil, err
	}

	return &LangchainModel{
		llm:         llm,
		maxTokens:   cfg.Model.MaxTokens,
		temperature: cfg.Model.Temperature,
		timeout:     time.Duration(cfg.Model.TimeoutSeconds) * time.Second,
	}, nil
}

func createLLM(ctx context.Context, cfg config.Model) (llms.Model, error) {
	switch cfg.Provider {
	case "googleai":
		llm, err := googleai.New(ctx,
			googleai.WithAPIKey(cfg.APIKey),
			googleai.WithDefaultModel(cfg.Name),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create googleai client: %w", err)
		}
		return llm, nil

	case "openai":
		opts := []openai.Option{
			openai.WithToken(cfg.APIKey),
			openai.WithModel(cfg.Name),
		}
		if cfg.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
		}

		llm, err := openai.New(opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create openai client: %w", err)
		}
		return llm, nil

	case "anthropic":
		llm, err := anthropic.New(
			anthropic.WithToken(cfg.APIKey),
			anthropic.WithModel(cfg.Name),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create anthropic client: %w", err)
		}
		return llm, nil

	default:
		return nil, fmt.Errorf("unknown model provider %q", cfg.Provider)
	}
}

func (m *LangchainModel) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	opts := []llms.CallOption{
		llms.WithMaxTokens(m.maxTokens),
	}
	if m.temperature > 0 {
		opts = append(opts, llms.WithTemperature(m.temperature))
	}

	result, err := llms.GenerateFromSinglePrompt(ctx, m.llm, prompt, opts...)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	return strings.TrimSpace(result), nil
}
