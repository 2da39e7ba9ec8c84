package remote

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/bnema/fitness-advisor-cli/internal/domain"
	"github.com/bnema/fitness-advisor-cli/internal/ports"
)

const dashScopeGenerationPath = "/api/v1/services/aigc/text-generation/generation"

// DashScope talks to the native DashScope (Bailian) text-generation endpoint,
// wrapping each prompt in a system and user message pair.
type DashScope struct {
	BaseURL        string
	APIKey         string
	Model          string
	SystemPrompt   string
	HTTPClient     *http.Client
	RequestTimeout time.Duration
}

var _ ports.Backend = DashScope{}

type dashScopeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type dashScopeRequest struct {
	Model string `json:"model"`
	Input struct {
		Messages []dashScopeMessage `json:"messages"`
	} `json:"input"`
}

type dashScopeResponse struct {
	Output struct {
		Text    string `json:"text"`
		Choices []struct {
			Message dashScopeMessage `json:"message"`
		} `json:"choices"`
	} `json:"output"`
	Message *dashScopeMessage `json:"message"`
}

func (d DashScope) Kind() domain.BackendKind {
	return domain.BackendDashScope
}

func (d DashScope) Generate(ctx context.Context, req domain.GenerationRequest) (domain.GenerationResult, error) {
	kind := d.Kind()
	if err := checkPrompt(ctx, kind, req); err != nil {
		return domain.GenerationResult{}, err
	}

	endpoint, err := buildAPIURL(d.BaseURL, dashScopeGenerationPath)
	if err != nil {
		return domain.GenerationResult{}, domain.NewGenerationError(domain.KindTransport, kind, err)
	}

	var body dashScopeRequest
	body.Model = d.Model
	if system := strings.TrimSpace(d.SystemPrompt); system != "" {
		body.Input.Messages = append(body.Input.Messages, dashScopeMessage{Role: "system", Content: system})
	}
	body.Input.Messages = append(body.Input.Messages, dashScopeMessage{Role: "user", Content: req.Prompt})

	var payload dashScopeResponse
	err = call{
		kind:     kind,
		client:   d.HTTPClient,
		endpoint: endpoint,
		apiKey:   d.APIKey,
		headers:  map[string]string{"X-DashScope-Async": "false"},
		timeout:  requestTimeout(req, d.RequestTimeout),
	}.postJSON(ctx, body, &payload)
	if err != nil {
		return domain.GenerationResult{}, err
	}

	text := payload.Output.Text
	if text == "" && len(payload.Output.Choices) > 0 {
		text = payload.Output.Choices[0].Message.Content
	}
	if text == "" && payload.Message != nil {
		text = payload.Message.Content
	}
	if strings.TrimSpace(text) == "" {
		return domain.GenerationResult{}, protocolError(kind, "response has no output text")
	}

	return domain.GenerationResult{Text: text, Backend: kind}, nil
}
