// Package gemini adapts the Google Gen AI SDK to the generation backend port.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/bnema/fitness-advisor-cli/internal/domain"
	"github.com/bnema/fitness-advisor-cli/internal/ports"
	"google.golang.org/genai"
)

const (
	DefaultModel          = "gemini-2.5-flash"
	defaultRequestTimeout = 30 * time.Second
)

type Config struct {
	APIKey         string
	Model          string
	SystemPrompt   string
	BaseURL        string
	HTTPClient     *http.Client
	RequestTimeout time.Duration
}

type Backend struct {
	client  *genai.Client
	model   string
	system  string
	timeout time.Duration
}

var _ ports.Backend = (*Backend)(nil)

func New(ctx context.Context, cfg Config) (*Backend, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("gemini api key is required")
	}

	clientConfig := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: cfg.HTTPClient,
	}
	if cfg.BaseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}

	return &Backend{client: client, model: model, system: strings.TrimSpace(cfg.SystemPrompt), timeout: timeout}, nil
}

func (b *Backend) Kind() domain.BackendKind {
	return domain.BackendGemini
}

func (b *Backend) Generate(ctx context.Context, req domain.GenerationRequest) (domain.GenerationResult, error) {
	if err := ctx.Err(); err != nil {
		return domain.GenerationResult{}, b.fail(domain.KindTimeout, err)
	}
	if strings.TrimSpace(req.Prompt) == "" {
		return domain.GenerationResult{}, b.fail(domain.KindProtocol, errors.New("prompt is empty"))
	}

	ctx, cancel := req.WithDeadline(ctx, b.timeout)
	defer cancel()

	var config *genai.GenerateContentConfig
	if b.system != "" {
		config = &genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(b.system, genai.RoleUser),
		}
	}

	resp, err := b.client.Models.GenerateContent(ctx, b.model, genai.Text(req.Prompt), config)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return domain.GenerationResult{}, b.fail(domain.KindTimeout, fmt.Errorf("generate content: %w", ctxErr))
		}
		return domain.GenerationResult{}, b.fail(domain.KindTransport, fmt.Errorf("generate content: %w", err))
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return domain.GenerationResult{}, b.fail(domain.KindProtocol, errors.New("response has no text candidates"))
	}

	return domain.GenerationResult{Text: text, Backend: domain.BackendGemini}, nil
}

func (b *Backend) fail(kind domain.ErrorKind, err error) error {
	return domain.NewGenerationError(kind, domain.BackendGemini, err)
}
