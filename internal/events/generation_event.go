package events

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventFieldUpdate EventType = "field-update"
	EventStatus      EventType = "status"
	EventComplete    EventType = "complete"
	EventError       EventType = "error"
)

const (
	GenerationField  = "events:generation:field"
	GenerationStatus = "events:generation:status"
	GenerationDone   = "events:generation:done"
	GenerationFailed = "events:generation:error"
)

// GenerationEvent is the payload emitted while a generation session runs.
// Field/Value carry the latest cumulative, normalized value for one field;
// observers overwrite rather than append.
type GenerationEvent struct {
	ID         string    `json:"id"`
	Type       EventType `json:"type"`
	SessionKey string    `json:"sessionKey,omitempty"`
	Field      string    `json:"field,omitempty"`
	Value      string    `json:"value,omitempty"`
	Progress   float64   `json:"progress"`
	Message    string    `json:"message,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

type contextKey string

const sessionContextKey contextKey = "ideaforge/events/session"

// WithSession returns a derived context annotated with the given session key
// so event emitters can automatically scope payloads.
func WithSession(ctx context.Context, sessionKey string) context.Context {
	if strings.TrimSpace(sessionKey) == "" {
		return ctx
	}
	return context.WithValue(ctx, sessionContextKey, sessionKey)
}

// SessionFromContext extracts the session key associated with ctx.
func SessionFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(sessionContextKey).(string); ok {
		return v
	}
	return ""
}

func newEvent(eventType EventType) GenerationEvent {
	return GenerationEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now(),
	}
}

// NewFieldUpdate creates a field-update event carrying the field's latest value.
func NewFieldUpdate(field, value string, progress float64) GenerationEvent {
	evt := newEvent(EventFieldUpdate)
	evt.Field = field
	evt.Value = value
	evt.Progress = progress
	return evt
}

// NewStatus creates a status event with a human-readable phase description.
func NewStatus(message string, progress float64) GenerationEvent {
	evt := newEvent(EventStatus)
	evt.Message = message
	evt.Progress = progress
	return evt
}

// NewComplete creates a completion event.
func NewComplete() GenerationEvent {
	evt := newEvent(EventComplete)
	evt.Progress = 1.0
	return evt
}

// NewError creates an error event.
func NewError(message string) GenerationEvent {
	evt := newEvent(EventError)
	evt.Message = message
	return evt
}
