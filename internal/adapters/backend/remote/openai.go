package remote

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/bnema/fitness-advisor-cli/internal/domain"
	"github.com/bnema/fitness-advisor-cli/internal/ports"
)

// OpenAICompatible posts to a chat/completions endpoint, such as DashScope's
// compatible mode.
type OpenAICompatible struct {
	BaseURL        string
	APIKey         string
	Model          string
	SystemPrompt   string
	HTTPClient     *http.Client
	RequestTimeout time.Duration
}

var _ ports.Backend = OpenAICompatible{}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message *chatMessage `json:"message"`
	} `json:"choices"`
}

func (o OpenAICompatible) Kind() domain.BackendKind {
	return domain.BackendOpenAI
}

func (o OpenAICompatible) Generate(ctx context.Context, req domain.GenerationRequest) (domain.GenerationResult, error) {
	kind := o.Kind()
	if err := checkPrompt(ctx, kind, req); err != nil {
		return domain.GenerationResult{}, err
	}

	endpoint, err := buildAPIURL(o.BaseURL, "chat/completions")
	if err != nil {
		return domain.GenerationResult{}, domain.NewGenerationError(domain.KindTransport, kind, err)
	}

	body := chatCompletionRequest{Model: o.Model}
	if system := strings.TrimSpace(o.SystemPrompt); system != "" {
		body.Messages = append(body.Messages, chatMessage{Role: "system", Content: system})
	}
	body.Messages = append(body.Messages, chatMessage{Role: "user", Content: req.Prompt})

	var payload chatCompletionResponse
	err = call{
		kind:     kind,
		client:   o.HTTPClient,
		endpoint: endpoint,
		apiKey:   o.APIKey,
		timeout:  requestTimeout(req, o.RequestTimeout),
	}.postJSON(ctx, body, &payload)
	if err != nil {
		return domain.GenerationResult{}, err
	}

	if len(payload.Choices) == 0 || payload.Choices[0].Message == nil {
		return domain.GenerationResult{}, protocolError(kind, "response has no choices")
	}
	text := payload.Choices[0].Message.Content
	if strings.TrimSpace(text) == "" {
		return domain.GenerationResult{}, protocolError(kind, "first choice has no content")
	}

	return domain.GenerationResult{Text: text, Backend: kind}, nil
}
