package generation

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"ideaforge/internal/llm"
)

// Status is the lifecycle state of a generation session. Processing is entered
// exactly once; Complete and Error are terminal.
type Status string

const (
	StatusIdle       Status = "idle"
	StatusProcessing Status = "processing"
	StatusComplete   Status = "complete"
	StatusError      Status = "error"
)

// Session is the unit of work for one user-triggered generation. The backend
// is fixed at creation; fallback selection happens before the session starts.
// Mutation happens on the orchestrator's goroutine only; the mutex guards
// concurrent Snapshot readers and post-completion edits.
type Session struct {
	id              string
	useCase         UseCase
	inputText       string
	contextSnapshot string
	backend         llm.Backend
	schema          []FieldSpec

	mu           sync.Mutex
	fieldValues  map[string]string
	status       Status
	progress     float64
	statusText   string
	errorMessage string
}

func NewSession(useCase UseCase, inputText, contextSnapshot string, backend llm.Backend) *Session {
	schema := SchemaFor(useCase)
	values := make(map[string]string, len(schema))
	for _, spec := range schema {
		values[spec.Name] = ""
	}
	return &Session{
		id:              uuid.NewString(),
		useCase:         useCase,
		inputText:       inputText,
		contextSnapshot: contextSnapshot,
		backend:         backend,
		schema:          schema,
		fieldValues:     values,
		status:          StatusIdle,
	}
}

func (s *Session) ID() string           { return s.id }
func (s *Session) UseCase() UseCase     { return s.useCase }
func (s *Session) InputText() string    { return s.inputText }
func (s *Session) Backend() llm.Backend { return s.backend }

// Snapshot is an observer's copy of the session state at one instant.
type Snapshot struct {
	ID           string            `json:"id"`
	UseCase      UseCase           `json:"useCase"`
	Status       Status            `json:"status"`
	Progress     float64           `json:"progress"`
	StatusText   string            `json:"statusText"`
	ErrorMessage string            `json:"errorMessage,omitempty"`
	FieldOrder   []string          `json:"fieldOrder"`
	FieldValues  map[string]string `json:"fieldValues"`
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	order := make([]string, 0, len(s.schema))
	values := make(map[string]string, len(s.schema))
	for _, spec := range s.schema {
		order = append(order, spec.Name)
		values[spec.Name] = s.fieldValues[spec.Name]
	}
	return Snapshot{
		ID:           s.id,
		UseCase:      s.useCase,
		Status:       s.status,
		Progress:     s.progress,
		StatusText:   s.statusText,
		ErrorMessage: s.errorMessage,
		FieldOrder:   order,
		FieldValues:  values,
	}
}

func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *Session) Progress() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.progress
}

func (s *Session) FieldValue(name string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fieldValues[name]
}

// SetFieldValue applies a user edit to a finished session. Edits are rejected
// while the session is still generating.
func (s *Session) SetFieldValue(name, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status == StatusProcessing {
		return fmt.Errorf("cannot edit field %q while the session is processing", name)
	}
	if _, ok := s.fieldValues[name]; !ok {
		return fmt.Errorf("unknown field %q for use case %s", name, s.useCase)
	}
	s.fieldValues[name] = value
	return nil
}

// promptInput assembles the prompt context for the field at index i, exposing
// all earlier fields as prior context.
func (s *Session) promptInput(i int) PromptInput {
	s.mu.Lock()
	defer s.mu.Unlock()

	prior := make([]PriorField, 0, i)
	for _, spec := range s.schema[:i] {
		prior = append(prior, PriorField{Name: spec.Name, Value: s.fieldValues[spec.Name]})
	}
	return PromptInput{
		InputText:       s.inputText,
		ContextSnapshot: s.contextSnapshot,
		PriorFields:     prior,
	}
}

// markProcessing transitions Idle -> Processing. Returns false if the session
// was started before; Processing is entered at most once.
func (s *Session) markProcessing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != StatusIdle {
		return false
	}
	s.status = StatusProcessing
	return true
}

// storeFieldValue overwrites a field with the latest cumulative value and
// reports whether the stored value changed.
func (s *Session) storeFieldValue(name, value string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fieldValues[name] == value {
		return false
	}
	s.fieldValues[name] = value
	return true
}

// advanceProgress raises progress monotonically and returns the stored value.
// Late or reordered updates can never move progress backward.
func (s *Session) advanceProgress(p float64) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p > s.progress {
		s.progress = p
	}
	return s.progress
}

func (s *Session) setStatusText(text string) {
	s.mu.Lock()
	s.statusText = text
	s.mu.Unlock()
}

func (s *Session) complete() {
	s.mu.Lock()
	s.status = StatusComplete
	s.progress = 1.0
	s.statusText = "Done"
	s.mu.Unlock()
}

func (s *Session) fail(message string) {
	s.mu.Lock()
	s.status = StatusError
	s.errorMessage = message
	s.statusText = "Failed"
	s.mu.Unlock()
}
