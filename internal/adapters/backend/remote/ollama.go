package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bnema/fitness-advisor-cli/internal/domain"
	"github.com/bnema/fitness-advisor-cli/internal/ports"
)

type OllamaOptions struct {
	Temperature float64 `json:"temperature"`
	TopP        float64 `json:"top_p"`
	NumCtx      int     `json:"num_ctx"`
}

func DefaultOllamaOptions() OllamaOptions {
	return OllamaOptions{Temperature: 0.7, TopP: 0.8, NumCtx: 2048}
}

type Ollama struct {
	BaseURL        string
	Model          string
	Options        OllamaOptions
	HTTPClient     *http.Client
	RequestTimeout time.Duration
}

var _ ports.Backend = Ollama{}

type ollamaGenerateRequest struct {
	Model   string        `json:"model"`
	Prompt  string        `json:"prompt"`
	Stream  bool          `json:"stream"`
	Options OllamaOptions `json:"options"`
}

type ollamaTagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

func (o Ollama) Kind() domain.BackendKind {
	return domain.BackendOllama
}

func (o Ollama) Generate(ctx context.Context, req domain.GenerationRequest) (domain.GenerationResult, error) {
	kind := o.Kind()
	if err := checkPrompt(ctx, kind, req); err != nil {
		return domain.GenerationResult{}, err
	}

	endpoint, err := buildAPIURL(o.BaseURL, "/api/generate")
	if err != nil {
		return domain.GenerationResult{}, domain.NewGenerationError(domain.KindTransport, kind, err)
	}

	options := o.Options
	if options == (OllamaOptions{}) {
		options = DefaultOllamaOptions()
	}

	var payload json.RawMessage
	err = call{
		kind:     kind,
		client:   o.HTTPClient,
		endpoint: endpoint,
		timeout:  requestTimeout(req, o.RequestTimeout),
	}.postJSON(ctx, ollamaGenerateRequest{Model: o.Model, Prompt: req.Prompt, Options: options}, &payload)
	if err != nil {
		return domain.GenerationResult{}, err
	}

	text, err := ollamaText(payload)
	if err != nil {
		return domain.GenerationResult{}, protocolError(kind, "%w", err)
	}

	return domain.GenerationResult{Text: text, Backend: kind}, nil
}

// Ping lists local models and reports whether the configured one is pulled.
func (o Ollama) Ping(ctx context.Context) (bool, error) {
	endpoint, err := buildAPIURL(o.BaseURL, "/api/tags")
	if err != nil {
		return false, err
	}

	requestCtx, cancel := requestContext(ctx, o.RequestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(requestCtx, http.MethodGet, endpoint, nil)
	if err != nil {
		return false, fmt.Errorf("create ollama tags request: %w", err)
	}

	resp, err := httpClient(o.HTTPClient).Do(req)
	if err != nil {
		return false, fmt.Errorf("request ollama tags: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("request ollama tags: %s", decodeAPIError(resp))
	}

	var tags ollamaTagsResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&tags); err != nil {
		return false, fmt.Errorf("decode ollama tags: %w", err)
	}

	for _, model := range tags.Models {
		if model.Name == o.Model || strings.TrimSuffix(model.Name, ":latest") == o.Model {
			return true, nil
		}
	}
	return false, nil
}

// ollamaText accepts either the usual {"response": "..."} object or a bare
// JSON string body.
func ollamaText(payload json.RawMessage) (string, error) {
	var bare string
	if err := json.Unmarshal(payload, &bare); err == nil {
		if strings.TrimSpace(bare) == "" {
			return "", errors.New("response is an empty string")
		}
		return bare, nil
	}

	var object struct {
		Response *string `json:"response"`
	}
	if err := json.Unmarshal(payload, &object); err != nil {
		return "", fmt.Errorf("decode generate response: %w", err)
	}
	if object.Response == nil || strings.TrimSpace(*object.Response) == "" {
		return "", errors.New("response field is missing or empty")
	}
	return *object.Response, nil
}
