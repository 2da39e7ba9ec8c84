// Package echo is a minimal worker speaking the local backend protocol. It
// answers every prompt with the prompt itself, optionally prefixed and
// delayed.
package echo

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

var ErrCrashRequested = errors.New("crash requested by prompt")

type Options struct {
	Sentinel string
	Prefix   string
	Delay    time.Duration
	// Concurrent answers each request in its own goroutine, so replies can
	// leave in a different order than requests arrived.
	Concurrent bool
	// CrashOn makes Run fail as soon as this prompt is received.
	CrashOn string
}

type request struct {
	CorrelationID string `json:"correlationId"`
	Prompt        string `json:"prompt"`
}

type response struct {
	CorrelationID string `json:"correlationId"`
	Text          string `json:"text,omitempty"`
	Error         string `json:"error,omitempty"`
}

// Run serves requests from in until it reaches EOF or ctx is done.
func Run(ctx context.Context, in io.Reader, out io.Writer, opts Options) error {
	if opts.Sentinel == "" {
		opts.Sentinel = "MODEL_READY"
	}

	w := &writer{out: out}
	if err := w.line([]byte(opts.Sentinel)); err != nil {
		return fmt.Errorf("write readiness sentinel: %w", err)
	}

	group, groupCtx := errgroup.WithContext(ctx)
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)

	for scanner.Scan() {
		if groupCtx.Err() != nil {
			break
		}

		var req request
		if err := json.Unmarshal(scanner.Bytes(), &req); err != nil || req.CorrelationID == "" {
			continue
		}
		if opts.CrashOn != "" && req.Prompt == opts.CrashOn {
			return ErrCrashRequested
		}

		if opts.Concurrent {
			group.Go(func() error { return answer(groupCtx, w, req, opts) })
			continue
		}
		if err := answer(groupCtx, w, req, opts); err != nil {
			return err
		}
	}

	if err := group.Wait(); err != nil {
		return err
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read requests: %w", err)
	}
	return ctx.Err()
}

func answer(ctx context.Context, w *writer, req request, opts Options) error {
	if opts.Delay > 0 {
		timer := time.NewTimer(opts.Delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		}
	}

	resp := response{CorrelationID: req.CorrelationID}
	if req.Prompt == "" {
		resp.Error = "prompt is required"
	} else {
		resp.Text = opts.Prefix + req.Prompt
	}

	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("encode response: %w", err)
	}
	return w.line(data)
}

type writer struct {
	mu  sync.Mutex
	out io.Writer
}

func (w *writer) line(data []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, err := w.out.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write response: %w", err)
	}
	return nil
}
