package llm

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBackendError_Format(t *testing.T) {
	inner := errors.New("connection refused")
	err := &BackendError{Backend: BackendManaged, Reason: "openai request failed", Err: inner}

	assert.Equal(t, "managed backend: openai request failed: connection refused", err.Error())
	assert.ErrorIs(t, err, inner)
}

func TestBackendError_FormatWithoutCause(t *testing.T) {
	err := &BackendError{Backend: BackendLocal, Reason: "model weights are not loaded"}

	assert.Equal(t, "local backend: model weights are not loaded", err.Error())
	assert.Nil(t, err.Unwrap())
}

func TestBackendError_MatchesErrorsAs(t *testing.T) {
	var wrapped error = &BackendError{Backend: BackendLocal, Reason: "local inference failed"}

	var backendErr *BackendError
	assert.True(t, errors.As(wrapped, &backendErr))
	assert.Equal(t, BackendLocal, backendErr.Backend)
}
