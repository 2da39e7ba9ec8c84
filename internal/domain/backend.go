package domain

import (
	"fmt"
	"strings"
)

type BackendKind string

const (
	BackendDashScope BackendKind = "dashscope"
	BackendOpenAI    BackendKind = "openai"
	BackendOllama    BackendKind = "ollama"
	BackendGemini    BackendKind = "gemini"
	BackendLocal     BackendKind = "local"
)

func ParseBackendKind(raw string) (BackendKind, error) {
	kind := BackendKind(strings.ToLower(strings.TrimSpace(raw)))
	switch kind {
	case BackendDashScope, BackendOpenAI, BackendOllama, BackendGemini, BackendLocal:
		return kind, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrBackendNotRegistered, raw)
	}
}

type ProcessState string

const (
	ProcessUninitialized ProcessState = "uninitialized"
	ProcessStarting      ProcessState = "starting"
	ProcessReady         ProcessState = "ready"
	ProcessDegraded      ProcessState = "degraded"
	ProcessTerminated    ProcessState = "terminated"
)

// BackendStatus is a point-in-time view of a backend. State is empty for
// stateless backends.
type BackendStatus struct {
	Kind         BackendKind
	Active       bool
	Instantiated bool
	State        ProcessState
	PID          int
	Pending      int
	Restarts     int
	LastError    string
}
