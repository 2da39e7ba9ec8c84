// Package localproc runs a text-generation worker as a supervised child
// process and correlates line-delimited JSON requests and responses over its
// stdin and stdout.
package localproc

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/bnema/fitness-advisor-cli/internal/domain"
	"github.com/bnema/fitness-advisor-cli/internal/ports"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var errShutdown = errors.New("backend shut down")

type Backend struct {
	cfg    Config
	logger *zap.Logger
	spawn  spawnFunc
	newID  func() string

	// slot admits one caller at a time in serialized mode.
	slot chan struct{}

	mu           sync.Mutex
	state        domain.ProcessState
	changed      chan struct{}
	done         chan struct{}
	inst         *instance
	pending      map[string]*pendingCall
	failures     int
	restarts     int
	lastErr      error
	restartTimer *time.Timer

	wg sync.WaitGroup
}

type instance struct {
	proc          process
	writeMu       sync.Mutex
	startupTimer  *time.Timer
	startupExpiry bool
	stderrDone    chan struct{}
	exited        chan struct{}
}

type pendingCall struct {
	id     string
	result chan callResult
}

type callResult struct {
	text string
	err  error
}

var (
	_ ports.Backend        = (*Backend)(nil)
	_ ports.Lifecycle      = (*Backend)(nil)
	_ ports.StatusReporter = (*Backend)(nil)
)

func New(cfg Config, logger *zap.Logger) *Backend {
	return newBackend(cfg, logger, spawnExec)
}

func newBackend(cfg Config, logger *zap.Logger, spawn spawnFunc) *Backend {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Backend{
		cfg:     cfg.withDefaults(),
		logger:  logger.With(zap.String("backend", string(domain.BackendLocal))),
		spawn:   spawn,
		newID:   uuid.NewString,
		slot:    make(chan struct{}, 1),
		state:   domain.ProcessUninitialized,
		changed: make(chan struct{}),
		done:    make(chan struct{}),
		pending: map[string]*pendingCall{},
	}
}

func (b *Backend) Kind() domain.BackendKind {
	return domain.BackendLocal
}

func (b *Backend) Generate(ctx context.Context, req domain.GenerationRequest) (domain.GenerationResult, error) {
	if err := ctx.Err(); err != nil {
		return domain.GenerationResult{}, b.fail(domain.KindTimeout, err)
	}

	ctx, cancel := req.WithDeadline(ctx, b.cfg.RequestTimeout)
	defer cancel()

	if !b.cfg.Pipelined {
		select {
		case b.slot <- struct{}{}:
			defer func() { <-b.slot }()
		case <-ctx.Done():
			return domain.GenerationResult{}, b.fail(domain.KindTimeout, ctx.Err())
		case <-b.done:
			return domain.GenerationResult{}, b.terminatedError()
		}
	}

	call := &pendingCall{id: b.newID(), result: make(chan callResult, 1)}
	inst, err := b.awaitReady(ctx, call)
	if err != nil {
		return domain.GenerationResult{}, err
	}

	line, err := encodeRequest(call.id, req.Prompt)
	if err != nil {
		b.complete(call.id, callResult{err: b.fail(domain.KindProtocol, err)})
		return b.collect(call)
	}

	written := b.send(inst, call, line)
	for {
		select {
		case err := <-written:
			written = nil
			if err != nil {
				b.complete(call.id, callResult{err: b.fail(domain.KindTransport, fmt.Errorf("write worker request: %w", err))})
				return b.collect(call)
			}
		case res := <-call.result:
			return b.settle(ctx, call, res)
		case <-ctx.Done():
			if b.complete(call.id, callResult{err: b.fail(domain.KindTimeout, ctx.Err())}) {
				b.logger.Warn("worker request timed out", zap.String("correlation_id", call.id))
			}
			return b.collect(call)
		}
	}
}

// send writes line to the worker on its own goroutine. The write is skipped
// when the call was resolved while waiting for writeMu.
func (b *Backend) send(inst *instance, call *pendingCall, line []byte) <-chan error {
	written := make(chan error, 1)
	go func() {
		inst.writeMu.Lock()
		defer inst.writeMu.Unlock()

		if !b.isPending(call.id) {
			written <- nil
			return
		}
		_, err := inst.proc.Stdin().Write(line)
		written <- err
	}()
	return written
}

// settle turns a resolved call into the caller's result. A result that lands
// after the deadline is reported as Timeout.
func (b *Backend) settle(ctx context.Context, call *pendingCall, res callResult) (domain.GenerationResult, error) {
	if err := ctx.Err(); err != nil && res.err == nil {
		b.logger.Warn("worker request timed out", zap.String("correlation_id", call.id))
		return domain.GenerationResult{}, b.fail(domain.KindTimeout, err)
	}
	return toResult(res)
}

// Start spawns the worker if needed and waits for it to become ready.
func (b *Backend) Start(ctx context.Context) error {
	if _, err := b.awaitReady(ctx, nil); err != nil {
		return fmt.Errorf("start local worker: %w", err)
	}
	return nil
}

func (b *Backend) Shutdown(ctx context.Context) error {
	b.mu.Lock()
	if b.state != domain.ProcessTerminated {
		b.failPendingLocked(domain.KindShuttingDown, errShutdown)
		b.lastErr = errShutdown
		b.terminateLocked()
	}
	inst := b.inst
	b.mu.Unlock()

	if inst != nil {
		_ = inst.proc.Stdin().Close()

		timer := time.NewTimer(b.cfg.ShutdownGrace)
		select {
		case <-inst.exited:
		case <-timer.C:
			b.logger.Warn("worker ignored stdin close, killing", zap.Int("pid", inst.proc.Pid()))
			_ = inst.proc.Kill()
		case <-ctx.Done():
			_ = inst.proc.Kill()
		}
		timer.Stop()
	}

	stopped := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(stopped)
	}()

	select {
	case <-stopped:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("wait for local worker exit: %w", ctx.Err())
	}
}

func (b *Backend) Status() domain.BackendStatus {
	b.mu.Lock()
	defer b.mu.Unlock()

	status := domain.BackendStatus{
		Kind:         domain.BackendLocal,
		Instantiated: true,
		State:        b.state,
		Pending:      len(b.pending),
		Restarts:     b.restarts,
	}
	if b.inst != nil {
		status.PID = b.inst.proc.Pid()
	}
	if b.lastErr != nil {
		status.LastError = b.lastErr.Error()
	}
	return status
}

// awaitReady blocks until the worker is ready, starting it on first use.
// A non-nil call is registered as pending in the same critical section that
// observed the ready state.
func (b *Backend) awaitReady(ctx context.Context, call *pendingCall) (*instance, error) {
	for {
		b.mu.Lock()
		switch b.state {
		case domain.ProcessUninitialized:
			b.startLocked()
		case domain.ProcessReady:
			inst := b.inst
			if call != nil {
				b.pending[call.id] = call
			}
			b.mu.Unlock()
			return inst, nil
		case domain.ProcessTerminated:
			b.mu.Unlock()
			return nil, b.terminatedError()
		}
		changed := b.changed
		b.mu.Unlock()

		select {
		case <-changed:
		case <-ctx.Done():
			return nil, b.fail(domain.KindTimeout, fmt.Errorf("waiting for worker readiness: %w", ctx.Err()))
		}
	}
}

// complete resolves a pending call. Only the first resolution for an id wins.
func (b *Backend) complete(id string, res callResult) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	call, ok := b.pending[id]
	if !ok {
		return false
	}
	delete(b.pending, id)
	call.result <- res
	return true
}

func (b *Backend) isPending(id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	_, ok := b.pending[id]
	return ok
}

func (b *Backend) collect(call *pendingCall) (domain.GenerationResult, error) {
	return toResult(<-call.result)
}

func toResult(res callResult) (domain.GenerationResult, error) {
	if res.err != nil {
		return domain.GenerationResult{}, res.err
	}
	return domain.GenerationResult{Text: res.text, Backend: domain.BackendLocal}, nil
}

func (b *Backend) fail(kind domain.ErrorKind, err error) error {
	return domain.NewGenerationError(kind, domain.BackendLocal, err)
}

func (b *Backend) terminatedError() error {
	b.mu.Lock()
	cause := b.lastErr
	b.mu.Unlock()
	if cause == nil {
		cause = errShutdown
	}
	return b.fail(domain.KindShuttingDown, cause)
}

func (b *Backend) startLocked() {
	b.setStateLocked(domain.ProcessStarting)

	proc, err := b.spawn(b.cfg)
	if err != nil {
		b.logger.Error("spawn worker", zap.String("command", b.cfg.Command), zap.Error(err))
		b.recordFailureLocked(fmt.Errorf("spawn worker: %w", err))
		return
	}

	inst := &instance{
		proc:       proc,
		stderrDone: make(chan struct{}),
		exited:     make(chan struct{}),
	}
	inst.startupTimer = time.AfterFunc(b.cfg.StartupTimeout, func() { b.startupExpired(inst) })
	b.inst = inst
	b.logger.Info("worker spawned", zap.Int("pid", proc.Pid()), zap.String("command", b.cfg.Command))

	b.wg.Add(2)
	go b.drainStderr(inst)
	go b.supervise(inst)
}

func (b *Backend) supervise(inst *instance) {
	defer b.wg.Done()

	scanner := bufio.NewScanner(inst.proc.Stdout())
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for scanner.Scan() {
		b.handleLine(inst, scanner.Bytes())
	}
	if err := scanner.Err(); err != nil {
		b.logger.Warn("read worker stdout", zap.Error(err))
	}

	_ = inst.proc.Kill()
	<-inst.stderrDone
	b.handleExit(inst, inst.proc.Wait())
}

func (b *Backend) drainStderr(inst *instance) {
	defer b.wg.Done()
	defer close(inst.stderrDone)

	scanner := bufio.NewScanner(inst.proc.Stderr())
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for scanner.Scan() {
		b.logger.Debug("worker stderr", zap.String("line", scanner.Text()))
	}
}

func (b *Backend) handleLine(inst *instance, line []byte) {
	b.mu.Lock()
	if b.inst != inst {
		b.mu.Unlock()
		return
	}
	if b.state == domain.ProcessStarting {
		if strings.TrimSpace(string(line)) == b.cfg.ReadySentinel {
			inst.startupTimer.Stop()
			b.failures = 0
			b.lastErr = nil
			b.setStateLocked(domain.ProcessReady)
			b.logger.Info("worker ready", zap.Int("pid", inst.proc.Pid()))
		} else {
			b.logger.Debug("worker output before ready", zap.ByteString("line", line))
		}
		b.mu.Unlock()
		return
	}
	b.mu.Unlock()

	trimmed := bytes.TrimSpace(line)
	if len(trimmed) == 0 {
		return
	}

	resp, err := decodeResponse(trimmed)
	if err != nil {
		b.logger.Warn("ignoring malformed worker line", zap.ByteString("line", trimmed), zap.Error(err))
		return
	}

	res := callResult{}
	if resp.Error != nil {
		res.err = b.fail(domain.KindTransport, fmt.Errorf("worker error: %s", *resp.Error))
	} else {
		res.text = *resp.Text
	}

	if !b.complete(resp.CorrelationID, res) {
		b.logger.Warn("discarding unattributable worker response", zap.String("correlation_id", resp.CorrelationID))
	}
}

func (b *Backend) handleExit(inst *instance, waitErr error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	inst.startupTimer.Stop()
	close(inst.exited)
	if b.inst != inst {
		return
	}
	b.inst = nil
	if b.state == domain.ProcessTerminated {
		b.logger.Info("worker stopped", zap.Int("pid", inst.proc.Pid()))
		return
	}

	var cause error
	switch {
	case inst.startupExpiry:
		cause = fmt.Errorf("%w after %s", domain.ErrStartupTimeout, b.cfg.StartupTimeout)
	case waitErr != nil:
		cause = fmt.Errorf("worker exited: %w", waitErr)
	default:
		cause = errors.New("worker exited")
	}

	b.logger.Error("worker crashed",
		zap.Int("pid", inst.proc.Pid()),
		zap.Int("pending", len(b.pending)),
		zap.Error(cause),
	)
	b.failPendingLocked(domain.KindBackendCrashed, cause)
	b.recordFailureLocked(cause)
}

func (b *Backend) startupExpired(inst *instance) {
	b.mu.Lock()
	if b.inst != inst || b.state != domain.ProcessStarting {
		b.mu.Unlock()
		return
	}
	inst.startupExpiry = true
	b.mu.Unlock()

	b.logger.Error("worker never signalled readiness",
		zap.String("sentinel", b.cfg.ReadySentinel),
		zap.Duration("startup_timeout", b.cfg.StartupTimeout),
	)
	_ = inst.proc.Kill()
}

// recordFailureLocked counts a failed instance and either schedules a
// restart or gives up once the budget is spent.
func (b *Backend) recordFailureLocked(cause error) {
	b.lastErr = cause
	b.failures++
	if b.failures > b.cfg.MaxRestarts {
		b.lastErr = fmt.Errorf("%w: %w", domain.ErrRestartsExhausted, cause)
		b.logger.Error("giving up on worker", zap.Int("failures", b.failures), zap.Error(cause))
		b.terminateLocked()
		return
	}

	b.setStateLocked(domain.ProcessDegraded)
	b.restartTimer = time.AfterFunc(b.cfg.RestartBackoff, b.restart)
}

func (b *Backend) restart() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state != domain.ProcessDegraded {
		return
	}
	b.restarts++
	b.logger.Info("restarting worker", zap.Int("attempt", b.failures))
	b.startLocked()
}

func (b *Backend) failPendingLocked(kind domain.ErrorKind, cause error) {
	for id, call := range b.pending {
		delete(b.pending, id)
		call.result <- callResult{err: b.fail(kind, cause)}
	}
}

func (b *Backend) setStateLocked(state domain.ProcessState) {
	if b.state == state {
		return
	}
	b.logger.Info("worker state", zap.String("from", string(b.state)), zap.String("to", string(state)))
	b.state = state
	close(b.changed)
	b.changed = make(chan struct{})
}

func (b *Backend) terminateLocked() {
	if b.restartTimer != nil {
		b.restartTimer.Stop()
	}
	b.setStateLocked(domain.ProcessTerminated)
	close(b.done)
}
