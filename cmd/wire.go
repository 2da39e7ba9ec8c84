package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/bnema/fitness-advisor-cli/internal/adapters/backend/gemini"
	"github.com/bnema/fitness-advisor-cli/internal/adapters/backend/localproc"
	"github.com/bnema/fitness-advisor-cli/internal/adapters/backend/remote"
	statusadapter "github.com/bnema/fitness-advisor-cli/internal/adapters/render/status"
	sqliterepo "github.com/bnema/fitness-advisor-cli/internal/adapters/repo/sqlite"
	tomlrepo "github.com/bnema/fitness-advisor-cli/internal/adapters/repo/toml"
	chainstore "github.com/bnema/fitness-advisor-cli/internal/adapters/secrets/chain"
	"github.com/bnema/fitness-advisor-cli/internal/application"
	"github.com/bnema/fitness-advisor-cli/internal/config"
	"github.com/bnema/fitness-advisor-cli/internal/domain"
	"github.com/bnema/fitness-advisor-cli/internal/logging"
	"github.com/bnema/fitness-advisor-cli/internal/ports"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const backendShutdownTimeout = 10 * time.Second

var errMissingAPIKey = errors.New("api key is not configured")

type app struct {
	cfg            config.Config
	logger         *zap.Logger
	registry       *application.Registry
	advisor        *application.AdvisorService
	records        *tomlrepo.Repository
	secretStore    ports.SecretStore
	openHistory    func() (historyStore, error)
	statusRenderer func([]domain.BackendStatus, statusadapter.RenderOptions) (string, error)
	now            func() time.Time
}

type historyStore interface {
	ports.ExchangeRepository
	Close() error
}

func wireApp() (*app, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	v := viper.New()
	cfg, err := config.Load(v, homeDir)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.New(cfg.Log.Level, os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("wire logger: %w", err)
	}

	records, err := tomlrepo.NewRepository(v)
	if err != nil {
		return nil, fmt.Errorf("wire records repository: %w", err)
	}

	secretStore, err := chainstore.NewPassFirstWithFileFallback(cfg.Secrets.Dir)
	if err != nil {
		return nil, fmt.Errorf("wire secret store chain: %w", err)
	}

	active, err := domain.ParseBackendKind(cfg.Backend.Active)
	if err != nil {
		return nil, fmt.Errorf("parse backend.active: %w", err)
	}

	registry := application.NewRegistry(active, logger.Named("registry"))
	for kind, factory := range backendFactories(cfg, secretStore, logger) {
		if err := registry.Register(kind, factory); err != nil {
			return nil, fmt.Errorf("register %s backend: %w", kind, err)
		}
	}

	historyPath := cfg.History.Path
	return &app{
		cfg:      cfg,
		logger:   logger,
		registry: registry,
		advisor: application.NewAdvisorService(registry, records, application.AdvisorOptions{
			RequestTimeout: cfg.Backend.RequestTimeout,
			RecordLimit:    cfg.Records.Limit,
			Logger:         logger.Named("advisor"),
		}),
		records:     records,
		secretStore: secretStore,
		openHistory: func() (historyStore, error) {
			return sqliterepo.NewHistoryStore(historyPath, ports.SystemClock{})
		},
		statusRenderer: statusadapter.Render,
		now:            time.Now,
	}, nil
}

func backendFactories(cfg config.Config, secrets ports.SecretStore, logger *zap.Logger) map[domain.BackendKind]application.BackendFactory {
	backends := cfg.Backends
	timeout := cfg.Backend.RequestTimeout

	return map[domain.BackendKind]application.BackendFactory{
		domain.BackendDashScope: func(ctx context.Context) (ports.Backend, error) {
			key, err := resolveAPIKey(ctx, secrets, domain.BackendDashScope, backends.DashScope)
			if err != nil {
				return nil, err
			}
			return remote.DashScope{
				BaseURL:        backends.DashScope.BaseURL,
				APIKey:         key,
				Model:          backends.DashScope.Model,
				SystemPrompt:   backends.DashScope.SystemPrompt,
				RequestTimeout: timeout,
			}, nil
		},
		domain.BackendOpenAI: func(ctx context.Context) (ports.Backend, error) {
			key, err := resolveAPIKey(ctx, secrets, domain.BackendOpenAI, backends.OpenAI)
			if err != nil {
				return nil, err
			}
			return remote.OpenAICompatible{
				BaseURL:        backends.OpenAI.BaseURL,
				APIKey:         key,
				Model:          backends.OpenAI.Model,
				SystemPrompt:   backends.OpenAI.SystemPrompt,
				RequestTimeout: timeout,
			}, nil
		},
		domain.BackendGemini: func(ctx context.Context) (ports.Backend, error) {
			key, err := resolveAPIKey(ctx, secrets, domain.BackendGemini, backends.Gemini)
			if err != nil {
				return nil, err
			}
			return gemini.New(ctx, gemini.Config{
				APIKey:         key,
				Model:          backends.Gemini.Model,
				SystemPrompt:   backends.Gemini.SystemPrompt,
				BaseURL:        backends.Gemini.BaseURL,
				RequestTimeout: timeout,
			})
		},
		domain.BackendOllama: func(context.Context) (ports.Backend, error) {
			return remote.Ollama{
				BaseURL: backends.Ollama.BaseURL,
				Model:   backends.Ollama.Model,
				Options: remote.OllamaOptions{
					Temperature: backends.Ollama.Temperature,
					TopP:        backends.Ollama.TopP,
					NumCtx:      backends.Ollama.NumCtx,
				},
				RequestTimeout: timeout,
			}, nil
		},
		domain.BackendLocal: func(context.Context) (ports.Backend, error) {
			local := backends.Local
			return localproc.New(localproc.Config{
				Command:        local.Command,
				Args:           local.Args,
				Dir:            local.Dir,
				ReadySentinel:  local.ReadySentinel,
				StartupTimeout: local.StartupTimeout,
				RequestTimeout: timeout,
				Pipelined:      local.Pipelined,
				MaxRestarts:    local.MaxRestarts,
				RestartBackoff: local.RestartBackoff,
				ShutdownGrace:  local.ShutdownGrace,
			}, logger.Named("localproc")), nil
		},
	}
}

func resolveAPIKey(ctx context.Context, secrets ports.SecretStore, kind domain.BackendKind, rc config.RemoteConfig) (string, error) {
	key, err := rc.APIKey(func(ref string) (string, error) {
		return secrets.Get(ctx, ref)
	})
	if err != nil {
		return "", err
	}
	if key == "" {
		return "", fmt.Errorf("%w: set backends.%s.api_key_ref or $%s", errMissingAPIKey, kind, rc.APIKeyEnv)
	}
	return key, nil
}

// shutdownBackends stops every backend instance the command created. It runs
// even after the command context is cancelled.
func (a *app) shutdownBackends(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), backendShutdownTimeout)
	defer cancel()

	if err := a.registry.Shutdown(ctx); err != nil {
		return fmt.Errorf("shut down backends: %w", err)
	}
	return nil
}

// recordExchange appends a finished exchange to the history database. A
// failure is logged and does not fail the command.
func (a *app) recordExchange(ctx context.Context, exchange domain.Exchange) {
	store, err := a.openHistory()
	if err != nil {
		a.logger.Warn("open exchange history", zap.Error(err))
		return
	}
	defer func() { _ = store.Close() }()

	if exchange.CreatedAt.IsZero() {
		exchange.CreatedAt = a.now()
	}
	if _, err := store.Append(ctx, exchange); err != nil {
		a.logger.Warn("record exchange", zap.String("action", string(exchange.Action)), zap.Error(err))
	}
}

func (a *app) renderOptions() statusadapter.RenderOptions {
	return statusadapter.RenderOptions{MaxRestarts: a.cfg.Backends.Local.MaxRestarts}
}
