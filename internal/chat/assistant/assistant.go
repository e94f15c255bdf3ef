package assistant

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/tair/allergy-scan/pkg/logger"
)

// ErrUnavailable is returned when no assistant is configured
var ErrUnavailable = errors.New("assistant is not configured")

// Assistant answers a single free-text prompt
type Assistant interface {
	Ask(ctx context.Context, prompt string) (string, error)
}

// Config configures the OpenAI-compatible endpoint
type Config struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// LangChain asks an OpenAI-compatible chat model through langchaingo
type LangChain struct {
	llm   llms.Model
	model string
}

// NewLangChain creates the assistant. It fails when the API key is missing.
func NewLangChain(cfg Config) (*LangChain, error) {
	if cfg.APIKey == "" {
		return nil, ErrUnavailable
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	llm, err := openai.New(
		openai.WithBaseURL(cfg.BaseURL),
		openai.WithToken(cfg.APIKey),
		openai.WithModel(cfg.Model),
		openai.WithHTTPClient(&http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   timeout,
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create assistant client: %w", err)
	}

	logger.Logger.Info().
		Str("base_url", cfg.BaseURL).
		Str("model", cfg.Model).
		Msg("Chat assistant initialized")

	return newLangChain(llm, cfg.Model), nil
}

func newLangChain(llm llms.Model, model string) *LangChain {
	return &LangChain{llm: llm, model: model}
}

// Ask sends prompt and returns the trimmed answer
func (a *LangChain) Ask(ctx context.Context, prompt string) (string, error) {
	ctx, span := otel.Tracer("chat-assistant").Start(ctx, "assistant.ask")
	defer span.End()
	span.SetAttributes(
		attribute.String("llm.model", a.model),
		attribute.Int("llm.prompt_length", len(prompt)),
	)

	answer, err := llms.GenerateFromSinglePrompt(ctx, a.llm, prompt, llms.WithTemperature(0.3))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "assistant call failed")
		return "", fmt.Errorf("assistant call failed: %w", err)
	}
	return strings.TrimSpace(answer), nil
}

// Unavailable is used when no API key is configured; every call fails
type Unavailable struct{}

func (Unavailable) Ask(context.Context, string) (string, error) {
	return "", ErrUnavailable
}
