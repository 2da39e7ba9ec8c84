package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bnema/fitness-advisor-cli/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashScopeSendsSystemAndUserMessages(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, dashScopeGenerationPath, r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		assert.Equal(t, "false", r.Header.Get("X-DashScope-Async"))

		var body dashScopeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "deepseek-r1-distil-qwen-7b", body.Model)
		assert.Equal(t, []dashScopeMessage{
			{Role: "system", Content: "be helpful"},
			{Role: "user", Content: "What is a balanced breakfast?"},
		}, body.Input.Messages)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"output":{"text":"Oats and fruit."},"request_id":"r-1"}`))
	}))
	t.Cleanup(server.Close)

	backend := DashScope{
		BaseURL:      server.URL,
		APIKey:       "sk-test",
		Model:        "deepseek-r1-distil-qwen-7b",
		SystemPrompt: "be helpful",
		HTTPClient:   server.Client(),
	}

	result, err := backend.Generate(context.Background(), domain.GenerationRequest{Prompt: "What is a balanced breakfast?"})
	require.NoError(t, err)
	assert.Equal(t, domain.GenerationResult{Text: "Oats and fruit.", Backend: domain.BackendDashScope}, result)
}

func TestDashScopeReadsAlternativeShapes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "choices", body: `{"output":{"choices":[{"message":{"role":"assistant","content":"from choices"}}]}}`, want: "from choices"},
		{name: "top level message", body: `{"message":{"role":"assistant","content":"from message"}}`, want: "from message"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			}))
			t.Cleanup(server.Close)

			result, err := DashScope{BaseURL: server.URL, HTTPClient: server.Client()}.
				Generate(context.Background(), domain.GenerationRequest{Prompt: "hi"})
			require.NoError(t, err)
			assert.Equal(t, tt.want, result.Text)
		})
	}
}

func TestRemoteErrorMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
		wantMsg string
	}{
		{name: "non 2xx is transport", status: http.StatusUnauthorized, body: `{"code":"InvalidApiKey","message":"Invalid API-key provided."}`, wantErr: domain.ErrTransport, wantMsg: "status 401: InvalidApiKey: Invalid API-key provided."},
		{name: "server error is transport", status: http.StatusBadGateway, body: `upstream down`, wantErr: domain.ErrTransport, wantMsg: "status 502: upstream down"},
		{name: "invalid json is protocol", status: http.StatusOK, body: `<html>`, wantErr: domain.ErrProtocol, wantMsg: "decode response"},
		{name: "missing text is protocol", status: http.StatusOK, body: `{"output":{}}`, wantErr: domain.ErrProtocol, wantMsg: "no output text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			t.Cleanup(server.Close)

			_, err := DashScope{BaseURL: server.URL, HTTPClient: server.Client()}.
				Generate(context.Background(), domain.GenerationRequest{Prompt: "hi"})
			require.ErrorIs(t, err, tt.wantErr)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestRemoteTimeoutWithoutCallerDeadline(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(func() {
		close(release)
		server.Close()
	})

	backend := OpenAICompatible{BaseURL: server.URL, HTTPClient: server.Client(), RequestTimeout: 50 * time.Millisecond}

	started := time.Now()
	_, err := backend.Generate(context.Background(), domain.GenerationRequest{Prompt: "hi"})
	require.ErrorIs(t, err, domain.ErrTimeout)
	assert.Less(t, time.Since(started), 2*time.Second)
}

func TestRequestTimeoutWinsOverLaterCallerDeadline(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
			return
		case <-time.After(2 * time.Second):
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"response":"late"}`))
	}))
	t.Cleanup(func() {
		close(release)
		server.Close()
	})

	ctx, cancel := context.WithTimeout(context.Background(), time.Hour)
	defer cancel()

	backend := Ollama{BaseURL: server.URL, Model: "tinyllama", HTTPClient: server.Client()}

	started := time.Now()
	result, err := backend.Generate(ctx, domain.GenerationRequest{Prompt: "hi", Timeout: 100 * time.Millisecond})
	require.ErrorIs(t, err, domain.ErrTimeout)
	assert.Empty(t, result.Text)
	assert.Less(t, time.Since(started), time.Second)
}

func TestRequestContextKeepsEarlierDeadline(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		callerWait time.Duration
		timeout    time.Duration
		want       time.Duration
	}{
		{name: "request timeout is earlier", callerWait: time.Hour, timeout: time.Second, want: time.Second},
		{name: "caller deadline is earlier", callerWait: time.Second, timeout: time.Hour, want: time.Second},
		{name: "caller deadline without request timeout", callerWait: 2 * time.Second, timeout: 0, want: 2 * time.Second},
		{name: "neither set uses default", timeout: 0, want: defaultRequestTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctx := context.Background()
			if tt.callerWait > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, tt.callerWait)
				defer cancel()
			}

			requestCtx, cancel := requestContext(ctx, tt.timeout)
			defer cancel()

			deadline, ok := requestCtx.Deadline()
			require.True(t, ok)
			assert.WithinDuration(t, time.Now().Add(tt.want), deadline, 500*time.Millisecond)
		})
	}
}

func TestRemoteUnreachableIsTransport(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.NotFoundHandler())
	baseURL := server.URL
	server.Close()

	_, err := Ollama{BaseURL: baseURL, Model: "tinyllama"}.
		Generate(context.Background(), domain.GenerationRequest{Prompt: "hi", Timeout: time.Second})
	require.ErrorIs(t, err, domain.ErrTransport)
}

func TestRemoteRejectsEmptyPromptAndBadBaseURL(t *testing.T) {
	t.Parallel()

	_, err := OpenAICompatible{BaseURL: "https://example.com/v1"}.Generate(context.Background(), domain.GenerationRequest{Prompt: "  "})
	require.ErrorIs(t, err, domain.ErrProtocol)

	_, err = OpenAICompatible{BaseURL: "ftp://example.com"}.Generate(context.Background(), domain.GenerationRequest{Prompt: "hi"})
	require.ErrorIs(t, err, domain.ErrTransport)
	assert.Contains(t, err.Error(), "must use http or https")
}

func TestOpenAICompatibleChatCompletions(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/compatible-mode/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-compat", r.Header.Get("Authorization"))

		var body chatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "qwen-plus", body.Model)
		assert.Equal(t, []chatMessage{{Role: "user", Content: "hello"}}, body.Messages)

		_, _ = w.Write([]byte(`{"choices":[{"index":0,"message":{"role":"assistant","content":"Hi there"}}]}`))
	}))
	t.Cleanup(server.Close)

	backend := OpenAICompatible{
		BaseURL:    server.URL + "/compatible-mode/v1",
		APIKey:     "sk-compat",
		Model:      "qwen-plus",
		HTTPClient: server.Client(),
	}

	result, err := backend.Generate(context.Background(), domain.GenerationRequest{Prompt: "hello"})
	require.NoError(t, err)
	assert.Equal(t, "Hi there", result.Text)
	assert.Equal(t, domain.BackendOpenAI, result.Backend)
}

func TestOpenAICompatibleWithoutChoicesIsProtocol(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	t.Cleanup(server.Close)

	_, err := OpenAICompatible{BaseURL: server.URL, HTTPClient: server.Client()}.
		Generate(context.Background(), domain.GenerationRequest{Prompt: "hello"})
	require.ErrorIs(t, err, domain.ErrProtocol)
}

func TestOllamaGenerate(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))

		var body ollamaGenerateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, ollamaGenerateRequest{
			Model:   "tinyllama",
			Prompt:  "hi",
			Stream:  false,
			Options: DefaultOllamaOptions(),
		}, body)

		_, _ = w.Write([]byte(`{"model":"tinyllama","response":"Hello!","done":true}`))
	}))
	t.Cleanup(server.Close)

	result, err := Ollama{BaseURL: server.URL, Model: "tinyllama", HTTPClient: server.Client()}.
		Generate(context.Background(), domain.GenerationRequest{Prompt: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "Hello!", result.Text)
}

func TestOllamaText(t *testing.T) {
	t.Parallel()

	text, err := ollamaText(json.RawMessage(`"plain body"`))
	require.NoError(t, err)
	assert.Equal(t, "plain body", text)

	_, err = ollamaText(json.RawMessage(`{"done":true}`))
	require.Error(t, err)

	_, err = ollamaText(json.RawMessage(`[1]`))
	require.Error(t, err)
}

func TestOllamaPing(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tags", r.URL.Path)
		_, _ = w.Write([]byte(`{"models":[{"name":"tinyllama:latest"},{"name":"phi3:mini"}]}`))
	}))
	t.Cleanup(server.Close)

	found, err := Ollama{BaseURL: server.URL, Model: "tinyllama", HTTPClient: server.Client()}.Ping(context.Background())
	require.NoError(t, err)
	assert.True(t, found)

	found, err = Ollama{BaseURL: server.URL, Model: "llama3", HTTPClient: server.Client()}.Ping(context.Background())
	require.NoError(t, err)
	assert.False(t, found)
}
