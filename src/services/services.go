// Package services builds the shared API clients (chat model, embedder,
// tracking client) from configuration in a single factory, so every component
// receives its dependencies explicitly.
package services

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"ragsmith/src/config"
	"ragsmith/src/langsmith"
)

var (
	// ErrMissingOpenAIKey is returned when no OpenAI API key is configured.
	ErrMissingOpenAIKey = errors.New("OPENAI_API_KEY is not set")
	// ErrMissingLangSmithKey is returned when no LangSmith API key is configured.
	ErrMissingLangSmithKey = errors.New("LANGSMITH_API_KEY is not set")
)

// Services groups the external clients used across the pipeline.
type Services struct {
	ChatLLM   llms.Model
	Embedder  embeddings.Embedder
	LangSmith *langsmith.Client
}

// New constructs every client from the resolved configuration. Requires both
// provider credentials; use NewWithoutTracking when the tracking service is
// not needed.
func New(cfg *config.Config) (*Services, error) {
	svc, err := NewWithoutTracking(cfg)
	if err != nil {
		return nil, err
	}

	if cfg.LangSmith.APIKey == "" {
		return nil, ErrMissingLangSmithKey
	}
	svc.LangSmith = langsmith.NewClient(cfg.LangSmith.Endpoint, cfg.LangSmith.APIKey, &http.Client{
		Timeout: 30 * time.Second,
	})
	return svc, nil
}

// NewWithoutTracking constructs the chat model and embedder only.
func NewWithoutTracking(cfg *config.Config) (*Services, error) {
	if cfg.OpenAI.APIKey == "" {
		return nil, ErrMissingOpenAIKey
	}

	opts := []openai.Option{
		openai.WithToken(cfg.OpenAI.APIKey),
		openai.WithModel(cfg.OpenAI.ChatModel),
		openai.WithEmbeddingModel(cfg.OpenAI.EmbeddingModel),
	}
	if cfg.OpenAI.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.OpenAI.BaseURL))
	}

	llm, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create openai client: %w", err)
	}

	embedder, err := embeddings.NewEmbedder(llm)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedder: %w", err)
	}

	return &Services{
		ChatLLM:  llm,
		Embedder: embedder,
	}, nil
}
