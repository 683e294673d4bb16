package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"ideaforge/internal/generation"
	"ideaforge/internal/llm"
	"ideaforge/internal/models"
)

// StartResult is the outcome of a start request. Wait means no session was
// created yet; callers surface the reason and retry once readiness changes.
type StartResult struct {
	SessionID         string `json:"sessionId,omitempty"`
	Wait              bool   `json:"wait"`
	Reason            string `json:"reason,omitempty"`
	TriggeredDownload bool   `json:"triggeredDownload,omitempty"`
}

// CommitResult identifies the row written by a successful commit.
type CommitResult struct {
	BusinessModelID uint `json:"businessModelId,omitempty"`
	IdeaDumpID      uint `json:"ideaDumpId,omitempty"`
}

type GenerationService interface {
	Startup(ctx context.Context)
	ManagedStatus() llm.ManagedStatus
	LocalStatus() llm.LocalStatus
	StartBusinessModelGeneration(inputText string) (*StartResult, error)
	StartDumpAnalysis(rawText string, businessModelID uint) (*StartResult, error)
	SessionSnapshot(sessionID string) (*generation.Snapshot, error)
	UpdateSessionField(sessionID, field, value string) error
	CancelSession(sessionID string) error
	CommitSession(sessionID string) (*CommitResult, error)
}

// BackendFactory builds the backend a resolved session will stream from. The
// default factory wires the real managed and local backends; tests substitute
// scripted ones.
type BackendFactory func(kind llm.BackendKind) (llm.Backend, error)

type sessionEntry struct {
	session         *generation.Session
	cancel          context.CancelFunc
	cancelled       bool
	businessModelID *uint
}

type generationService struct {
	appSettings    AppSettingsService
	modelConfigs   ModelConfigService
	businessModels BusinessModelService
	ideaDumps      IdeaDumpService
	keyring        *KeyringService
	weights        *llm.WeightsManager
	localCfg       llm.LocalConfig
	resolver       *generation.AvailabilityResolver
	orchestrator   *generation.Orchestrator
	backendFactory BackendFactory

	ctx context.Context

	mu       sync.Mutex
	sessions map[string]*sessionEntry
}

func NewGenerationService(db *DbServices, keyring *KeyringService, weights *llm.WeightsManager, localCfg llm.LocalConfig) GenerationService {
	return NewGenerationServiceWithFactory(db, keyring, weights, localCfg, nil)
}

// NewGenerationServiceWithFactory injects a custom backend factory. A nil
// factory falls back to the real managed and local backends.
func NewGenerationServiceWithFactory(db *DbServices, keyring *KeyringService, weights *llm.WeightsManager, localCfg llm.LocalConfig, factory BackendFactory) GenerationService {
	s := &generationService{
		appSettings:    db.AppSettings,
		modelConfigs:   db.ModelConfigs,
		businessModels: db.BusinessModels,
		ideaDumps:      db.IdeaDumps,
		keyring:        keyring,
		weights:        weights,
		localCfg:       localCfg,
		resolver:       generation.NewAvailabilityResolver(weights),
		orchestrator:   generation.NewOrchestrator(),
		sessions:       make(map[string]*sessionEntry),
	}
	if factory == nil {
		factory = s.buildBackend
	}
	s.backendFactory = factory
	return s
}

func (s *generationService) Startup(ctx context.Context) {
	s.ctx = ctx
}

// ManagedStatus reports managed-backend eligibility. The backend is available
// only when an enabled catalog model and a stored API key for its provider
// both exist.
func (s *generationService) ManagedStatus() llm.ManagedStatus {
	if s.ctx == nil {
		return llm.ManagedStatus{State: llm.ManagedInitializing}
	}
	if _, _, reason := s.eligibleManagedModel(); reason != "" {
		return llm.ManagedStatus{State: llm.ManagedUnavailable, Reason: reason}
	}
	return llm.ManagedStatus{State: llm.ManagedAvailable}
}

func (s *generationService) LocalStatus() llm.LocalStatus {
	return s.weights.Readiness()
}

// eligibleManagedModel picks the managed model a new session would use. A
// non-empty reason means the managed backend is ineligible right now.
func (s *generationService) eligibleManagedModel() (*models.LLMModel, string, string) {
	settings, err := s.appSettings.Get()
	if err != nil {
		return nil, "", fmt.Sprintf("failed to load settings: %v", err)
	}

	var model *models.LLMModel
	if key := strings.TrimSpace(settings.DefaultModelKey); key != "" {
		model, err = s.modelConfigs.GetModel(key)
		if err != nil {
			return nil, "", fmt.Sprintf("configured model is not in the catalog: %v", err)
		}
		if !model.Enabled {
			return nil, "", fmt.Sprintf("configured model %s is disabled", model.DisplayName)
		}
	} else {
		model, err = s.modelConfigs.FirstEnabled()
		if err != nil {
			return nil, "", fmt.Sprintf("failed to list models: %v", err)
		}
		if model == nil {
			return nil, "", "no managed model is enabled"
		}
	}

	apiKey, err := s.keyring.GetApiKey(model.ProviderID)
	if err != nil || strings.TrimSpace(apiKey) == "" {
		return nil, "", fmt.Sprintf("no API key stored for %s", model.ProviderID)
	}
	return model, apiKey, ""
}

func (s *generationService) StartBusinessModelGeneration(inputText string) (*StartResult, error) {
	return s.start(generation.UseCaseBusinessModel, inputText, "", nil)
}

func (s *generationService) StartDumpAnalysis(rawText string, businessModelID uint) (*StartResult, error) {
	var (
		snapshot string
		linkedID *uint
	)
	if businessModelID != 0 {
		var err error
		snapshot, err = s.businessModels.ContextSnapshot(businessModelID)
		if err != nil {
			return nil, err
		}
		id := businessModelID
		linkedID = &id
	}
	return s.start(generation.UseCaseDumpAnalysis, rawText, snapshot, linkedID)
}

func (s *generationService) start(useCase generation.UseCase, inputText, contextSnapshot string, businessModelID *uint) (*StartResult, error) {
	if s.ctx == nil {
		return nil, fmt.Errorf("generation service is not started")
	}

	pref := s.backendPreference()
	resolution := s.resolver.Resolve(s.ctx, pref, s.ManagedStatus(), s.weights.Readiness())
	if resolution.Wait {
		return &StartResult{
			Wait:              true,
			Reason:            resolution.Reason,
			TriggeredDownload: resolution.TriggeredDownload,
		}, nil
	}

	backend, err := s.backendFactory(resolution.Backend)
	if err != nil {
		return nil, err
	}

	session := generation.NewSession(useCase, inputText, contextSnapshot, backend)
	runCtx, cancel := context.WithCancel(s.ctx)

	s.mu.Lock()
	s.sessions[session.ID()] = &sessionEntry{
		session:         session,
		cancel:          cancel,
		businessModelID: businessModelID,
	}
	s.mu.Unlock()

	go func() {
		defer cancel()
		if err := s.orchestrator.Run(runCtx, session); err != nil {
			log.Printf("generation: session %s ended with error: %v", session.ID(), err)
		}
	}()

	return &StartResult{SessionID: session.ID()}, nil
}

// backendPreference reads the stored preference, falling back to auto when the
// settings row is unreadable or carries an unknown value.
func (s *generationService) backendPreference() generation.BackendPreference {
	settings, err := s.appSettings.Get()
	if err != nil {
		log.Printf("generation: failed to load settings, defaulting to auto: %v", err)
		return generation.PreferAuto
	}
	switch settings.PreferredBackend {
	case "managed":
		return generation.PreferManaged
	case "local":
		return generation.PreferLocal
	default:
		return generation.PreferAuto
	}
}

func (s *generationService) buildBackend(kind llm.BackendKind) (llm.Backend, error) {
	switch kind {
	case llm.BackendManaged:
		model, apiKey, reason := s.eligibleManagedModel()
		if reason != "" {
			return nil, fmt.Errorf("managed backend is not eligible: %s", reason)
		}
		return llm.NewManagedBackend(s.ctx, llm.ManagedConfig{
			ProviderID: model.ProviderID,
			APIName:    model.APIName,
			APIKey:     apiKey,
		})
	case llm.BackendLocal:
		return llm.NewLocalBackend(s.ctx, s.localCfg, s.weights)
	default:
		return nil, fmt.Errorf("unsupported backend kind: %s", kind)
	}
}

func (s *generationService) entry(sessionID string) (*sessionEntry, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, fmt.Errorf("session ID is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("session %s not found", sessionID)
	}
	return entry, nil
}

func (s *generationService) SessionSnapshot(sessionID string) (*generation.Snapshot, error) {
	entry, err := s.entry(sessionID)
	if err != nil {
		return nil, err
	}
	snap := entry.session.Snapshot()
	return &snap, nil
}

func (s *generationService) UpdateSessionField(sessionID, field, value string) error {
	entry, err := s.entry(sessionID)
	if err != nil {
		return err
	}
	return entry.session.SetFieldValue(field, value)
}

// CancelSession abandons a running session. Cancellation is terminal; the
// session cannot be resumed or committed afterwards.
func (s *generationService) CancelSession(sessionID string) error {
	entry, err := s.entry(sessionID)
	if err != nil {
		return err
	}
	s.mu.Lock()
	entry.cancelled = true
	s.mu.Unlock()
	entry.cancel()
	return nil
}

// CommitSession persists the session's current field values. Commits are
// explicit and never happen while the session is still processing; committing
// twice inserts two rows.
func (s *generationService) CommitSession(sessionID string) (*CommitResult, error) {
	entry, err := s.entry(sessionID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	cancelled := entry.cancelled
	s.mu.Unlock()
	if cancelled {
		return nil, fmt.Errorf("session %s was cancelled", sessionID)
	}

	snap := entry.session.Snapshot()
	if snap.Status == generation.StatusProcessing {
		return nil, fmt.Errorf("cannot commit session %s while it is processing", sessionID)
	}

	switch snap.UseCase {
	case generation.UseCaseBusinessModel:
		record, err := s.businessModels.CreateFromFields(entry.session.InputText(), snap.FieldValues)
		if err != nil {
			return nil, err
		}
		return &CommitResult{BusinessModelID: record.ID}, nil
	case generation.UseCaseDumpAnalysis:
		record, err := s.ideaDumps.CreateFromFields(entry.session.InputText(), entry.businessModelID, snap.FieldValues)
		if err != nil {
			return nil, err
		}
		return &CommitResult{IdeaDumpID: record.ID}, nil
	default:
		return nil, fmt.Errorf("unsupported use case: %s", snap.UseCase)
	}
}
