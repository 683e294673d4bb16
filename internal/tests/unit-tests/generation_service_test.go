package unit_tests

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"ideaforge/internal/generation"
	"ideaforge/internal/llm"
	"ideaforge/internal/models"
	"ideaforge/internal/services"
	"ideaforge/internal/tests/mocks"
	"ideaforge/internal/utils"
)

// newTestGenerationService wires a generation service whose managed backend is
// ineligible (every catalog model disabled) so no keyring or network access
// happens during tests.
func newTestGenerationService(t *testing.T, preferredBackend string) services.GenerationService {
	t.Helper()

	settingsRepo := &mocks.AppSettingsRepositoryMock{
		GetFunc: func(ctx context.Context) (*models.AppSettings, error) {
			return &models.AppSettings{ID: 1, Version: 1, PreferredBackend: preferredBackend, Locale: "en"}, nil
		},
	}
	modelConfigs := services.NewModelConfigService(&mocks.ModelSettingRepositoryMock{})
	utils.NilError(t, modelConfigs.Startup(context.Background()))
	for _, provider := range []string{"openai", "anthropic", "gemini"} {
		_, err := modelConfigs.SetProviderEnabled(provider, false)
		utils.NilError(t, err)
	}

	db := &services.DbServices{
		BusinessModels: services.NewBusinessModelService(&mocks.BusinessModelRepositoryMock{}),
		IdeaDumps:      services.NewIdeaDumpService(&mocks.IdeaDumpRepositoryMock{}),
		AppSettings:    services.NewAppSettingsService(settingsRepo),
		ModelConfigs:   modelConfigs,
	}

	weights := llm.NewWeightsManager(t.TempDir(), "")
	return services.NewGenerationService(db, services.NewKeyringService(), weights, llm.LocalConfig{
		ModelName: "test-local",
	})
}

func TestGenerationService_InitializingBeforeStartup(t *testing.T) {
	service := newTestGenerationService(t, "auto")

	status := service.ManagedStatus()
	utils.Equal(t, status.State, llm.ManagedInitializing)

	_, err := service.StartBusinessModelGeneration("idea")
	utils.Equal(t, err.Error(), "generation service is not started")
}

func TestGenerationService_ManagedUnavailableWithoutEnabledModel(t *testing.T) {
	service := newTestGenerationService(t, "auto")
	service.Startup(context.Background())

	status := service.ManagedStatus()
	utils.Equal(t, status.State, llm.ManagedUnavailable)
	utils.Equal(t, status.Reason, "no managed model is enabled")
}

func TestGenerationService_WaitsForWeights(t *testing.T) {
	service := newTestGenerationService(t, "local")
	service.Startup(context.Background())

	result, err := service.StartBusinessModelGeneration("A marketplace for recipe sharing")
	utils.NilError(t, err)
	utils.Equal(t, result.Wait, true)
	utils.Equal(t, result.Reason, "local model weights are not downloaded")
	utils.Equal(t, result.SessionID, "")
}

func TestGenerationService_UnknownSession(t *testing.T) {
	service := newTestGenerationService(t, "auto")
	service.Startup(context.Background())

	_, err := service.SessionSnapshot("missing")
	if err == nil || !strings.Contains(err.Error(), "missing") {
		t.Fatalf("expected unknown-session error, got %v", err)
	}

	utils.Equal(t, service.UpdateSessionField("missing", "summary", "x").Error(), "session missing not found")
	utils.Equal(t, service.CancelSession("missing").Error(), "session missing not found")

	_, err = service.CommitSession("")
	utils.Equal(t, err.Error(), "session ID is required")
}

func TestGenerationService_LocalStatusTracksWeights(t *testing.T) {
	service := newTestGenerationService(t, "auto")
	service.Startup(context.Background())

	status := service.LocalStatus()
	utils.Equal(t, status.State, llm.LocalNotDownloaded)
}

// scriptedBackend answers every field with a fixed value. A non-nil release
// channel parks each request until the channel is closed, which holds the
// session in Processing for as long as a test needs.
type scriptedBackend struct {
	release chan struct{}
}

func (b *scriptedBackend) Kind() llm.BackendKind { return llm.BackendLocal }

func (b *scriptedBackend) Generate(ctx context.Context, req llm.GenerateRequest, onChunk func(string)) (string, error) {
	if b.release != nil {
		select {
		case <-b.release:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	onChunk("Generated answer")
	return "Generated answer", nil
}

// newCommitTestService wires a generation service around a scripted backend.
// The stored preference is local and a seeded weights file makes the local
// backend resolve immediately; the injected factory then substitutes the
// scripted backend for the real one.
func newCommitTestService(t *testing.T, businessRepo *mocks.BusinessModelRepositoryMock, dumpRepo *mocks.IdeaDumpRepositoryMock, backend llm.Backend) services.GenerationService {
	t.Helper()

	settingsRepo := &mocks.AppSettingsRepositoryMock{
		GetFunc: func(ctx context.Context) (*models.AppSettings, error) {
			return &models.AppSettings{ID: 1, Version: 1, PreferredBackend: "local", Locale: "en"}, nil
		},
	}
	modelConfigs := services.NewModelConfigService(&mocks.ModelSettingRepositoryMock{})
	utils.NilError(t, modelConfigs.Startup(context.Background()))
	for _, provider := range []string{"openai", "anthropic", "gemini"} {
		_, err := modelConfigs.SetProviderEnabled(provider, false)
		utils.NilError(t, err)
	}

	db := &services.DbServices{
		BusinessModels: services.NewBusinessModelService(businessRepo),
		IdeaDumps:      services.NewIdeaDumpService(dumpRepo),
		AppSettings:    services.NewAppSettingsService(settingsRepo),
		ModelConfigs:   modelConfigs,
	}

	weightsDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(weightsDir, "model.gguf"), []byte("weights"), 0644); err != nil {
		t.Fatalf("seed weights file: %v", err)
	}
	weights := llm.NewWeightsManager(weightsDir, "")

	service := services.NewGenerationServiceWithFactory(db, services.NewKeyringService(), weights, llm.LocalConfig{ModelName: "test-local"},
		func(kind llm.BackendKind) (llm.Backend, error) { return backend, nil })
	service.Startup(context.Background())
	return service
}

func waitForSessionStatus(t *testing.T, service services.GenerationService, sessionID string, status generation.Status) *generation.Snapshot {
	t.Helper()

	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		snap, err := service.SessionSnapshot(sessionID)
		utils.NilError(t, err)
		if snap.Status == status {
			return snap
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("session %s never reached status %s", sessionID, status)
	return nil
}

func TestGenerationService_CommitRejectedWhileProcessing(t *testing.T) {
	backend := &scriptedBackend{release: make(chan struct{})}
	service := newCommitTestService(t, &mocks.BusinessModelRepositoryMock{}, &mocks.IdeaDumpRepositoryMock{}, backend)

	result, err := service.StartBusinessModelGeneration("A marketplace for recipe sharing")
	utils.NilError(t, err)
	utils.Equal(t, result.Wait, false)
	waitForSessionStatus(t, service, result.SessionID, generation.StatusProcessing)

	_, err = service.CommitSession(result.SessionID)
	utils.Equal(t, err.Error(), "cannot commit session "+result.SessionID+" while it is processing")

	utils.NilError(t, service.CancelSession(result.SessionID))
}

func TestGenerationService_CommitRefusedAfterCancel(t *testing.T) {
	backend := &scriptedBackend{release: make(chan struct{})}
	service := newCommitTestService(t, &mocks.BusinessModelRepositoryMock{}, &mocks.IdeaDumpRepositoryMock{}, backend)

	result, err := service.StartBusinessModelGeneration("A marketplace for recipe sharing")
	utils.NilError(t, err)
	waitForSessionStatus(t, service, result.SessionID, generation.StatusProcessing)

	utils.NilError(t, service.CancelSession(result.SessionID))

	_, err = service.CommitSession(result.SessionID)
	utils.Equal(t, err.Error(), "session "+result.SessionID+" was cancelled")

	// Cancellation stays terminal even once the backend would have finished.
	close(backend.release)
	_, err = service.CommitSession(result.SessionID)
	utils.Equal(t, err.Error(), "session "+result.SessionID+" was cancelled")
}

func TestGenerationService_CommitTwiceInsertsTwoRows(t *testing.T) {
	var created []models.BusinessModel
	businessRepo := &mocks.BusinessModelRepositoryMock{
		CreateFunc: func(ctx context.Context, model *models.BusinessModel) error {
			model.ID = uint(len(created) + 1)
			created = append(created, *model)
			return nil
		},
	}
	service := newCommitTestService(t, businessRepo, &mocks.IdeaDumpRepositoryMock{}, &scriptedBackend{})

	result, err := service.StartBusinessModelGeneration("A marketplace for recipe sharing")
	utils.NilError(t, err)
	utils.Equal(t, result.Wait, false)
	waitForSessionStatus(t, service, result.SessionID, generation.StatusComplete)

	first, err := service.CommitSession(result.SessionID)
	utils.NilError(t, err)
	second, err := service.CommitSession(result.SessionID)
	utils.NilError(t, err)

	utils.Equal(t, len(created), 2)
	utils.Equal(t, first.BusinessModelID, uint(1))
	utils.Equal(t, second.BusinessModelID, uint(2))
	utils.Equal(t, created[0].SourceIdea, "A marketplace for recipe sharing")
	utils.Equal(t, created[0].Summary, "Generated answer")
	utils.Equal(t, created[1].Summary, "Generated answer")
}
