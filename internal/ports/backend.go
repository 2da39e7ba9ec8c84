package ports

import (
	"context"

	"github.com/bnema/fitness-advisor-cli/internal/domain"
)

type Backend interface {
	Kind() domain.BackendKind
	Generate(ctx context.Context, req domain.GenerationRequest) (domain.GenerationResult, error)
}

// Lifecycle is implemented by backends that own long-lived resources.
type Lifecycle interface {
	Start(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

type StatusReporter interface {
	Status() domain.BackendStatus
}

type BackendSelector interface {
	Active(ctx context.Context) (Backend, error)
	ActiveKind() domain.BackendKind
}
