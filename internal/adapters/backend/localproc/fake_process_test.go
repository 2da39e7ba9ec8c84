package localproc

import (
	"bufio"
	"encoding/json"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var errKilled = errors.New("signal: killed")

type fakeProcess struct {
	pid int

	stdinR  *io.PipeReader
	stdinW  *io.PipeWriter
	stdoutR *io.PipeReader
	stdoutW *io.PipeWriter
	stderrR *io.PipeReader
	stderrW *io.PipeWriter

	requests chan wireRequest

	// keepAlive makes the fake ignore stdin EOF, like a worker stuck loading.
	keepAlive atomic.Bool
	// deaf leaves stdin unread, so writes block until the pipe is closed.
	deaf bool

	exitOnce sync.Once
	exited   chan struct{}
	exitErr  error
}

func newFakeProcess(pid int, deaf bool) *fakeProcess {
	p := &fakeProcess{
		pid:      pid,
		deaf:     deaf,
		requests: make(chan wireRequest, 64),
		exited:   make(chan struct{}),
	}
	p.stdinR, p.stdinW = io.Pipe()
	p.stdoutR, p.stdoutW = io.Pipe()
	p.stderrR, p.stderrW = io.Pipe()

	go p.readRequests()
	return p
}

func (p *fakeProcess) Stdin() io.WriteCloser { return p.stdinW }
func (p *fakeProcess) Stdout() io.Reader     { return p.stdoutR }
func (p *fakeProcess) Stderr() io.Reader     { return p.stderrR }
func (p *fakeProcess) Pid() int              { return p.pid }

func (p *fakeProcess) Kill() error {
	p.exit(errKilled)
	return nil
}

func (p *fakeProcess) Wait() error {
	<-p.exited
	return p.exitErr
}

// readRequests exits the fake worker once stdin is closed.
func (p *fakeProcess) readRequests() {
	defer close(p.requests)

	if p.deaf {
		<-p.exited
		return
	}

	scanner := bufio.NewScanner(p.stdinR)
	for scanner.Scan() {
		var req wireRequest
		if err := json.Unmarshal(scanner.Bytes(), &req); err == nil {
			p.requests <- req
		}
	}
	if p.keepAlive.Load() {
		<-p.exited
		return
	}
	p.exit(nil)
}

func (p *fakeProcess) exit(err error) {
	p.exitOnce.Do(func() {
		p.exitErr = err
		_ = p.stdoutW.Close()
		_ = p.stderrW.Close()
		_ = p.stdinR.Close()
		close(p.exited)
	})
}

func (p *fakeProcess) emit(line string) {
	_, _ = p.stdoutW.Write([]byte(line + "\n"))
}

func (p *fakeProcess) logStderr(line string) {
	_, _ = p.stderrW.Write([]byte(line + "\n"))
}

func (p *fakeProcess) reply(id, text string) {
	data, _ := json.Marshal(map[string]string{"correlationId": id, "text": text})
	p.emit(string(data))
}

func (p *fakeProcess) replyError(id, msg string) {
	data, _ := json.Marshal(map[string]string{"correlationId": id, "error": msg})
	p.emit(string(data))
}

// serveEcho answers every request with prefix+prompt until stdin closes.
func (p *fakeProcess) serveEcho(prefix string) {
	go func() {
		for req := range p.requests {
			p.reply(req.CorrelationID, prefix+req.Prompt)
		}
	}()
}

func (p *fakeProcess) nextRequest(t *testing.T) wireRequest {
	t.Helper()

	select {
	case req, ok := <-p.requests:
		require.True(t, ok, "worker stdin closed")
		return req
	case <-time.After(2 * time.Second):
		require.FailNow(t, "timed out waiting for worker request")
		return wireRequest{}
	}
}

type fakeSpawner struct {
	mu      sync.Mutex
	nextPID int
	procs   chan *fakeProcess
	onSpawn func(*fakeProcess)
	deaf    bool
}

func newFakeSpawner(onSpawn func(*fakeProcess)) *fakeSpawner {
	return &fakeSpawner{nextPID: 100, procs: make(chan *fakeProcess, 16), onSpawn: onSpawn}
}

func (s *fakeSpawner) spawn(Config) (process, error) {
	s.mu.Lock()
	s.nextPID++
	pid := s.nextPID
	s.mu.Unlock()

	p := newFakeProcess(pid, s.deaf)
	s.procs <- p
	if s.onSpawn != nil {
		go s.onSpawn(p)
	}
	return p, nil
}

func (s *fakeSpawner) next(t *testing.T) *fakeProcess {
	t.Helper()

	select {
	case p := <-s.procs:
		return p
	case <-time.After(2 * time.Second):
		require.FailNow(t, "timed out waiting for worker spawn")
		return nil
	}
}

func readyEcho(prefix string) func(*fakeProcess) {
	return func(p *fakeProcess) {
		p.emit(DefaultReadySentinel)
		p.serveEcho(prefix)
	}
}
