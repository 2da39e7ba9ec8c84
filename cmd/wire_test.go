package cmd

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bnema/fitness-advisor-cli/internal/config"
	"github.com/bnema/fitness-advisor-cli/internal/domain"
	"github.com/bnema/fitness-advisor-cli/internal/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type closableHistory struct {
	*mocks.MockExchangeRepository
	closed bool
}

func (h *closableHistory) Close() error {
	h.closed = true
	return nil
}

func TestRecordExchangeStampsCreationTime(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 3, 9, 8, 30, 0, 0, time.UTC)
	repo := mocks.NewMockExchangeRepository(t)
	history := &closableHistory{MockExchangeRepository: repo}
	a := &app{
		logger:      zap.NewNop(),
		openHistory: func() (historyStore, error) { return history, nil },
		now:         func() time.Time { return now },
	}

	want := domain.Exchange{
		CreatedAt: now,
		Backend:   domain.BackendOllama,
		Action:    domain.ExchangeChat,
		Input:     "hi",
		Reply:     "hello",
	}
	repo.EXPECT().Append(mock.Anything, want).Return(want, nil)

	a.recordExchange(context.Background(), domain.Exchange{
		Backend: domain.BackendOllama,
		Action:  domain.ExchangeChat,
		Input:   "hi",
		Reply:   "hello",
	})

	assert.True(t, history.closed)
}

func TestRecordExchangeLogsFailures(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.WarnLevel)
	repo := mocks.NewMockExchangeRepository(t)
	history := &closableHistory{MockExchangeRepository: repo}
	a := &app{
		logger:      zap.New(core),
		openHistory: func() (historyStore, error) { return history, nil },
		now:         time.Now,
	}
	repo.EXPECT().Append(mock.Anything, mock.Anything).Return(domain.Exchange{}, errors.New("disk full"))

	a.recordExchange(context.Background(), domain.Exchange{Action: domain.ExchangeRecommendation})

	require.Equal(t, 1, logs.FilterMessage("record exchange").Len())
	assert.True(t, history.closed)

	a.openHistory = func() (historyStore, error) { return nil, errors.New("locked") }
	a.recordExchange(context.Background(), domain.Exchange{Action: domain.ExchangeChat})
	assert.Equal(t, 1, logs.FilterMessage("open exchange history").Len())
}

func TestResolveAPIKeyPrefersSecretRef(t *testing.T) {
	t.Setenv("FA_TEST_KEY", "from-env")

	secrets := mocks.NewMockSecretStore(t)
	secrets.EXPECT().Get(mock.Anything, "pass://fitadvisor/dashscope").Return("from-pass", nil)

	key, err := resolveAPIKey(context.Background(), secrets, domain.BackendDashScope, config.RemoteConfig{
		APIKeyRef: "pass://fitadvisor/dashscope",
		APIKeyEnv: "FA_TEST_KEY",
	})
	require.NoError(t, err)
	assert.Equal(t, "from-pass", key)
}

func TestResolveAPIKeyFallsBackToEnv(t *testing.T) {
	t.Setenv("FA_TEST_KEY", "from-env")

	key, err := resolveAPIKey(context.Background(), mocks.NewMockSecretStore(t), domain.BackendOpenAI, config.RemoteConfig{APIKeyEnv: "FA_TEST_KEY"})
	require.NoError(t, err)
	assert.Equal(t, "from-env", key)
}

func TestResolveAPIKeyReportsMissingKey(t *testing.T) {
	t.Setenv("FA_TEST_KEY", "")

	_, err := resolveAPIKey(context.Background(), mocks.NewMockSecretStore(t), domain.BackendGemini, config.RemoteConfig{APIKeyEnv: "FA_TEST_KEY"})
	require.ErrorIs(t, err, errMissingAPIKey)
	assert.Contains(t, err.Error(), "backends.gemini.api_key_ref")
}

func TestBackendFactoriesCoverEveryKind(t *testing.T) {
	t.Parallel()

	factories := backendFactories(config.Config{}, mocks.NewMockSecretStore(t), zap.NewNop())

	for _, kind := range []domain.BackendKind{
		domain.BackendDashScope,
		domain.BackendOpenAI,
		domain.BackendGemini,
		domain.BackendOllama,
		domain.BackendLocal,
	} {
		assert.Contains(t, factories, kind)
	}

	backend, err := factories[domain.BackendOllama](context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.BackendOllama, backend.Kind())
}
