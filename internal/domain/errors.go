package domain

import (
	"errors"
	"fmt"
)

var (
	ErrBackendNotRegistered = errors.New("backend not registered")
	ErrEmptyMessage         = errors.New("message is required")
	ErrUnknownCategory      = errors.New("unknown category")
	ErrRestartsExhausted    = errors.New("worker restart budget exhausted")
	ErrStartupTimeout       = errors.New("worker did not become ready in time")
	ErrSecretNotFound       = errors.New("secret not found")
)

type ErrorKind string

const (
	KindTransport      ErrorKind = "transport"
	KindProtocol       ErrorKind = "protocol"
	KindTimeout        ErrorKind = "timeout"
	KindBackendCrashed ErrorKind = "backend_crashed"
	KindShuttingDown   ErrorKind = "shutting_down"
)

// Kind sentinels for errors.Is against a *GenerationError.
var (
	ErrTransport      = &GenerationError{Kind: KindTransport}
	ErrProtocol       = &GenerationError{Kind: KindProtocol}
	ErrTimeout        = &GenerationError{Kind: KindTimeout}
	ErrBackendCrashed = &GenerationError{Kind: KindBackendCrashed}
	ErrShuttingDown   = &GenerationError{Kind: KindShuttingDown}
)

type GenerationError struct {
	Kind     ErrorKind
	Backend  BackendKind
	Category Category
	Err      error
}

func NewGenerationError(kind ErrorKind, backend BackendKind, err error) *GenerationError {
	return &GenerationError{Kind: kind, Backend: backend, Err: err}
}

func (e *GenerationError) Error() string {
	msg := string(e.Kind)
	if e.Backend != "" {
		msg = fmt.Sprintf("%s backend: %s", e.Backend, msg)
	}
	if e.Category != "" {
		msg = fmt.Sprintf("%s (category %s)", msg, e.Category)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// Is matches any *GenerationError of the same kind.
func (e *GenerationError) Is(target error) bool {
	t, ok := target.(*GenerationError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func KindOf(err error) (ErrorKind, bool) {
	var genErr *GenerationError
	if !errors.As(err, &genErr) {
		return "", false
	}
	return genErr.Kind, true
}
