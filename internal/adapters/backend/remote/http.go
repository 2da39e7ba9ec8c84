// Package remote holds the stateless HTTP generation backends.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bnema/fitness-advisor-cli/internal/domain"
)

const (
	defaultRequestTimeout = 30 * time.Second
	maxResponseBytes      = 4 << 20
	maxErrorBodyBytes     = 4 << 10
)

var errEmptyPrompt = errors.New("prompt is empty")

type apiErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Error   *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

type call struct {
	kind     domain.BackendKind
	client   *http.Client
	endpoint string
	apiKey   string
	headers  map[string]string
	timeout  time.Duration
}

// postJSON sends body and decodes a successful response into out. Failures
// come back as *domain.GenerationError.
func (c call) postJSON(ctx context.Context, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return domain.NewGenerationError(domain.KindProtocol, c.kind, fmt.Errorf("encode request: %w", err))
	}

	requestCtx, cancel := requestContext(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(requestCtx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return domain.NewGenerationError(domain.KindTransport, c.kind, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	resp, err := httpClient(c.client).Do(req)
	if err != nil {
		if ctxErr := requestCtx.Err(); ctxErr != nil {
			return domain.NewGenerationError(domain.KindTimeout, c.kind, fmt.Errorf("post %s: %w", c.endpoint, ctxErr))
		}
		return domain.NewGenerationError(domain.KindTransport, c.kind, fmt.Errorf("post %s: %w", c.endpoint, err))
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return domain.NewGenerationError(domain.KindTransport, c.kind, fmt.Errorf("post %s: %s", c.endpoint, decodeAPIError(resp)))
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(out); err != nil {
		if ctxErr := requestCtx.Err(); ctxErr != nil {
			return domain.NewGenerationError(domain.KindTimeout, c.kind, fmt.Errorf("read response: %w", ctxErr))
		}
		return domain.NewGenerationError(domain.KindProtocol, c.kind, fmt.Errorf("decode response: %w", err))
	}
	if ctxErr := requestCtx.Err(); ctxErr != nil {
		return domain.NewGenerationError(domain.KindTimeout, c.kind, fmt.Errorf("post %s: %w", c.endpoint, ctxErr))
	}

	return nil
}

func decodeAPIError(resp *http.Response) string {
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
	if err != nil || len(data) == 0 {
		return fmt.Sprintf("status %d", resp.StatusCode)
	}

	var apiErr apiErrorResponse
	if err := json.Unmarshal(data, &apiErr); err == nil {
		switch {
		case apiErr.Error != nil && apiErr.Error.Message != "":
			return fmt.Sprintf("status %d: %s", resp.StatusCode, apiErr.Error.Message)
		case apiErr.Message != "" && apiErr.Code != "":
			return fmt.Sprintf("status %d: %s: %s", resp.StatusCode, apiErr.Code, apiErr.Message)
		case apiErr.Message != "":
			return fmt.Sprintf("status %d: %s", resp.StatusCode, apiErr.Message)
		}
	}

	return fmt.Sprintf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
}

func protocolError(kind domain.BackendKind, format string, args ...any) error {
	return domain.NewGenerationError(domain.KindProtocol, kind, fmt.Errorf(format, args...))
}

func checkPrompt(ctx context.Context, kind domain.BackendKind, req domain.GenerationRequest) error {
	if err := ctx.Err(); err != nil {
		return domain.NewGenerationError(domain.KindTimeout, kind, err)
	}
	if strings.TrimSpace(req.Prompt) == "" {
		return domain.NewGenerationError(domain.KindProtocol, kind, errEmptyPrompt)
	}
	return nil
}

func requestTimeout(req domain.GenerationRequest, fallback time.Duration) time.Duration {
	if req.Timeout > 0 {
		return req.Timeout
	}
	return fallback
}

func httpClient(client *http.Client) *http.Client {
	if client != nil {
		return client
	}
	return http.DefaultClient
}

// requestContext bounds ctx by timeout; the earlier of the two deadlines wins.
// The package default applies only when neither is set.
func requestContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		if _, hasDeadline := ctx.Deadline(); hasDeadline {
			return context.WithCancel(ctx)
		}
		timeout = defaultRequestTimeout
	}

	return context.WithTimeout(ctx, timeout)
}

func buildAPIURL(baseURL string, path string) (string, error) {
	if baseURL == "" {
		return "", errors.New("api base url is required")
	}
	if path == "" {
		return "", errors.New("api path is required")
	}

	parsed, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("parse api base url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", errors.New("api base url must use http or https")
	}
	if parsed.Host == "" {
		return "", errors.New("api base url host is required")
	}

	return strings.TrimRight(parsed.String(), "/") + "/" + strings.TrimLeft(path, "/"), nil
}
