package chain

import (
	"context"
	"errors"
	"fmt"
	"strings"

	filestore "github.com/bnema/fitness-advisor-cli/internal/adapters/secrets/file"
	passstore "github.com/bnema/fitness-advisor-cli/internal/adapters/secrets/pass"
	"github.com/bnema/fitness-advisor-cli/internal/ports"
)

// Store routes pass:// references to pass and file:// references to the file
// store. Bare references try pass first and fall back to the file store.
type Store struct {
	pass ports.SecretStore
	file ports.SecretStore
}

var _ ports.SecretStore = (*Store)(nil)

var (
	errNilPassStore = errors.New("pass secret store is nil")
	errNilFileStore = errors.New("file secret store is nil")
)

func NewStore(pass ports.SecretStore, file ports.SecretStore) (*Store, error) {
	if pass == nil {
		return nil, errNilPassStore
	}
	if file == nil {
		return nil, errNilFileStore
	}

	return &Store{pass: pass, file: file}, nil
}

func NewPassFirstWithFileFallback(fileRoot string) (*Store, error) {
	return NewStore(passstore.NewStore(), filestore.NewStore(fileRoot))
}

func (s *Store) Put(ctx context.Context, key string, value string) error {
	if target := s.route(key); target != nil {
		return target.Put(ctx, key, value)
	}

	err := s.pass.Put(ctx, key, value)
	if err == nil || shouldSkipFallback(err) {
		return err
	}

	if fallbackErr := s.file.Put(ctx, key, value); fallbackErr != nil {
		return fmt.Errorf("pass put failed: %w; file put failed: %w", err, fallbackErr)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	if target := s.route(key); target != nil {
		return target.Get(ctx, key)
	}

	value, err := s.pass.Get(ctx, key)
	if err == nil || shouldSkipFallback(err) {
		return value, err
	}

	fallbackValue, fallbackErr := s.file.Get(ctx, key)
	if fallbackErr != nil {
		return "", fmt.Errorf("pass get failed: %w; file get failed: %w", err, fallbackErr)
	}
	return fallbackValue, nil
}

// Delete removes a bare reference from both stores.
func (s *Store) Delete(ctx context.Context, key string) error {
	if target := s.route(key); target != nil {
		return target.Delete(ctx, key)
	}

	passErr := s.pass.Delete(ctx, key)
	if shouldSkipFallback(passErr) {
		return passErr
	}
	fileErr := s.file.Delete(ctx, key)
	if passErr != nil && fileErr != nil {
		return fmt.Errorf("pass delete failed: %w; file delete failed: %w", passErr, fileErr)
	}
	return nil
}

func (s *Store) route(key string) ports.SecretStore {
	trimmed := strings.TrimSpace(key)
	switch {
	case strings.HasPrefix(trimmed, passstore.Scheme):
		return s.pass
	case strings.HasPrefix(trimmed, filestore.Scheme):
		return s.file
	default:
		return nil
	}
}

func shouldSkipFallback(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
