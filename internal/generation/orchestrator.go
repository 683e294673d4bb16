package generation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ideaforge/internal/events"
	"ideaforge/internal/llm"
)

// approxCharsPerToken estimates streamed characters per token when
// interpolating within-field progress.
const approxCharsPerToken = 4

// streamShare caps within-field interpolation at 80% of a field's progress
// slice; the remaining share lands when the field finalizes, so progress never
// reaches the next field's floor early.
const streamShare = 0.8

const defaultFieldDelay = 250 * time.Millisecond

var (
	ErrNoBackend      = errors.New("no generation backend resolved for session")
	ErrEmptySchema    = errors.New("session has no field schema")
	ErrAlreadyStarted = errors.New("session was already started")
)

// Orchestrator drives one session through its field loop: one backend request
// per field, strictly sequential, streaming normalized values out as events.
type Orchestrator struct {
	// FieldDelay paces the gap between consecutive field requests to keep the
	// stream legible and avoid request storms. Zero is valid.
	FieldDelay time.Duration
}

func NewOrchestrator() *Orchestrator {
	return &Orchestrator{FieldDelay: defaultFieldDelay}
}

// Run executes the full field loop for session. It blocks until the session
// reaches Complete or Error, or ctx is cancelled. Cancellation is terminal:
// the loop stops issuing backend calls and late chunks are dropped.
func (o *Orchestrator) Run(ctx context.Context, session *Session) error {
	ctx = events.WithSession(ctx, session.ID())

	if session.backend == nil {
		session.fail(ErrNoBackend.Error())
		events.Emit(ctx, events.GenerationFailed, events.NewError(ErrNoBackend.Error()))
		return ErrNoBackend
	}
	if len(session.schema) == 0 {
		session.fail(ErrEmptySchema.Error())
		events.Emit(ctx, events.GenerationFailed, events.NewError(ErrEmptySchema.Error()))
		return ErrEmptySchema
	}
	if !session.markProcessing() {
		return ErrAlreadyStarted
	}

	n := len(session.schema)
	for i, spec := range session.schema {
		if err := ctx.Err(); err != nil {
			return err
		}

		// Each field starts from an explicit empty value so observers see the
		// reset before the first chunk arrives.
		session.storeFieldValue(spec.Name, "")
		session.setStatusText(fmt.Sprintf("Generating %s (%d of %d)", spec.Name, i+1, n))
		floor := float64(i) / float64(n)
		p := session.advanceProgress(floor)
		events.Emit(ctx, events.GenerationField, events.NewFieldUpdate(spec.Name, "", p))
		events.Emit(ctx, events.GenerationStatus, events.NewStatus(fmt.Sprintf("Generating %s (%d of %d)", spec.Name, i+1, n), p))

		systemPrompt, userPrompt := spec.BuildPrompt(session.promptInput(i))
		req := llm.GenerateRequest{
			SystemPrompt: systemPrompt,
			UserPrompt:   userPrompt,
			MaxTokens:    spec.MaxTokens,
			Temperature:  DefaultTemperature,
		}

		final, err := session.backend.Generate(ctx, req, func(cumulative string) {
			if ctx.Err() != nil {
				// Late chunk from an abandoned request; never applied.
				return
			}
			normalized := NormalizeField(cumulative, spec)
			frac := float64(len(cumulative)) / float64(spec.MaxTokens*approxCharsPerToken)
			if frac > 1 {
				frac = 1
			}
			p := session.advanceProgress(floor + streamShare*frac/float64(n))
			if session.storeFieldValue(spec.Name, normalized) {
				events.Emit(ctx, events.GenerationField, events.NewFieldUpdate(spec.Name, normalized, p))
			}
		})
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			message := fmt.Sprintf("generation failed for field %q: %v", spec.Name, err)
			session.fail(message)
			events.Emit(ctx, events.GenerationFailed, events.NewError(message))
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			// The request finished but the session was abandoned; drop the value.
			return ctxErr
		}

		normalized := NormalizeField(final, spec)
		session.storeFieldValue(spec.Name, normalized)
		p = session.advanceProgress(float64(i+1) / float64(n))
		events.Emit(ctx, events.GenerationField, events.NewFieldUpdate(spec.Name, normalized, p))
		events.Emit(ctx, events.GenerationStatus, events.NewStatus(fmt.Sprintf("Finished %s (%d of %d)", spec.Name, i+1, n), p))

		if o.FieldDelay > 0 && i < n-1 {
			select {
			case <-time.After(o.FieldDelay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}

	session.complete()
	events.Emit(ctx, events.GenerationDone, events.NewComplete())
	return nil
}
