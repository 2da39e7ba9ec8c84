package application

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/bnema/fitness-advisor-cli/internal/domain"
	"github.com/bnema/fitness-advisor-cli/internal/ports"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var errRegistryClosed = errors.New("backend registry is shut down")

// BackendFactory builds the single instance of a backend kind on first use.
type BackendFactory func(ctx context.Context) (ports.Backend, error)

type Registry struct {
	mu        sync.Mutex
	factories map[domain.BackendKind]BackendFactory
	instances map[domain.BackendKind]ports.Backend
	active    domain.BackendKind
	closed    bool
	logger    *zap.Logger
}

var _ ports.BackendSelector = (*Registry)(nil)

func NewRegistry(active domain.BackendKind, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Registry{
		factories: make(map[domain.BackendKind]BackendFactory),
		instances: make(map[domain.BackendKind]ports.Backend),
		active:    active,
		logger:    logger,
	}
}

func (r *Registry) Register(kind domain.BackendKind, factory BackendFactory) error {
	if factory == nil {
		return fmt.Errorf("register backend %s: factory is nil", kind)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[kind]; exists {
		return fmt.Errorf("register backend %s: already registered", kind)
	}
	r.factories[kind] = factory
	return nil
}

func (r *Registry) ActiveKind() domain.BackendKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active
}

func (r *Registry) SetActive(kind domain.BackendKind) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.factories[kind]; !ok {
		return fmt.Errorf("%w: %s", domain.ErrBackendNotRegistered, kind)
	}
	r.active = kind
	return nil
}

func (r *Registry) Active(ctx context.Context) (ports.Backend, error) {
	return r.Get(ctx, r.ActiveKind())
}

// Get returns the instance for kind, creating it on first use.
func (r *Registry) Get(ctx context.Context, kind domain.BackendKind) (ports.Backend, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil, domain.NewGenerationError(domain.KindShuttingDown, kind, errRegistryClosed)
	}
	if backend, ok := r.instances[kind]; ok {
		return backend, nil
	}

	factory, ok := r.factories[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrBackendNotRegistered, kind)
	}

	backend, err := factory(ctx)
	if err != nil {
		return nil, fmt.Errorf("create %s backend: %w", kind, err)
	}
	r.instances[kind] = backend
	r.logger.Debug("backend instantiated", zap.String("backend", string(kind)))

	return backend, nil
}

func (r *Registry) Kinds() []domain.BackendKind {
	r.mu.Lock()
	defer r.mu.Unlock()

	kinds := make([]domain.BackendKind, 0, len(r.factories))
	for kind := range r.factories {
		kinds = append(kinds, kind)
	}
	slices.Sort(kinds)
	return kinds
}

// Statuses reports every registered kind without instantiating any backend.
func (r *Registry) Statuses() []domain.BackendStatus {
	kinds := r.Kinds()

	r.mu.Lock()
	defer r.mu.Unlock()

	statuses := make([]domain.BackendStatus, 0, len(kinds))
	for _, kind := range kinds {
		status := domain.BackendStatus{Kind: kind}
		if backend, ok := r.instances[kind]; ok {
			if reporter, ok := backend.(ports.StatusReporter); ok {
				status = reporter.Status()
				status.Kind = kind
			}
			status.Instantiated = true
		}
		status.Active = kind == r.active
		statuses = append(statuses, status)
	}
	return statuses
}

// Warmup instantiates the active backend and starts it when it owns a
// long-lived resource.
func (r *Registry) Warmup(ctx context.Context) error {
	backend, err := r.Active(ctx)
	if err != nil {
		return fmt.Errorf("warm up backend: %w", err)
	}

	lifecycle, ok := backend.(ports.Lifecycle)
	if !ok {
		return nil
	}
	if err := lifecycle.Start(ctx); err != nil {
		return fmt.Errorf("warm up %s backend: %w", backend.Kind(), err)
	}
	return nil
}

func (r *Registry) Shutdown(ctx context.Context) error {
	r.mu.Lock()
	r.closed = true
	instances := make([]ports.Backend, 0, len(r.instances))
	for _, backend := range r.instances {
		instances = append(instances, backend)
	}
	r.mu.Unlock()

	errs := make([]error, len(instances))
	group, groupCtx := errgroup.WithContext(ctx)
	for i, backend := range instances {
		lifecycle, ok := backend.(ports.Lifecycle)
		if !ok {
			continue
		}
		group.Go(func() error {
			if err := lifecycle.Shutdown(groupCtx); err != nil {
				r.logger.Error("backend shutdown failed", zap.String("backend", string(backend.Kind())), zap.Error(err))
				errs[i] = fmt.Errorf("shut down %s backend: %w", backend.Kind(), err)
			}
			return nil
		})
	}
	_ = group.Wait()

	return errors.Join(errs...)
}
