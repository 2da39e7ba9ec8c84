package domain

import (
	"context"
	"time"
)

type GenerationRequest struct {
	Prompt  string
	Timeout time.Duration
}

// WithDeadline bounds ctx by the request timeout, or by fallback when the
// request carries none. An existing earlier deadline on ctx wins.
func (r GenerationRequest) WithDeadline(ctx context.Context, fallback time.Duration) (context.Context, context.CancelFunc) {
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = fallback
	}
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, timeout)
}

type GenerationResult struct {
	Text    string
	Backend BackendKind
}
