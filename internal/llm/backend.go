package llm

import (
	"context"
	"fmt"
)

// BackendKind tags the two interchangeable generation backend implementations.
type BackendKind string

const (
	BackendManaged BackendKind = "managed"
	BackendLocal   BackendKind = "local"
)

// GenerateRequest describes one self-contained field generation call. There is
// no cross-field memory inside a backend; each prompt must carry whatever
// prior context it needs.
type GenerateRequest struct {
	SystemPrompt string
	UserPrompt   string
	MaxTokens    int
	Temperature  float32
}

// Backend is the capability contract both generation backends satisfy.
// onChunk receives the cumulative text generated so far (never deltas), zero
// or more times; consumers overwrite rather than append. The final cumulative
// text is returned on success.
type Backend interface {
	Kind() BackendKind
	Generate(ctx context.Context, req GenerateRequest, onChunk func(cumulative string)) (string, error)
}

// BackendError reports a generation failure. Callers treat it as fatal for
// the running session; there is no automatic per-field retry.
type BackendError struct {
	Backend BackendKind
	Reason  string
	Err     error
}

func (e *BackendError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s backend: %s: %v", e.Backend, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s backend: %s", e.Backend, e.Reason)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

// ManagedState describes managed-backend availability.
type ManagedState string

const (
	ManagedAvailable    ManagedState = "available"
	ManagedUnavailable  ManagedState = "unavailable"
	ManagedInitializing ManagedState = "initializing"
)

type ManagedStatus struct {
	State  ManagedState
	Reason string // set when unavailable
}

// LocalState describes local-backend readiness.
type LocalState string

const (
	LocalReady         LocalState = "ready"
	LocalDownloading   LocalState = "downloading"
	LocalNotDownloaded LocalState = "not-downloaded"
)

type LocalStatus struct {
	State    LocalState
	Progress float64 // download progress in [0,1] while downloading
}
