package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"gorm.io/gorm/logger"

	"ideaforge/internal/database"
	"ideaforge/internal/generation"
	"ideaforge/internal/llm"
	"ideaforge/internal/models"
	"ideaforge/internal/services"
)

// App struct
type App struct {
	ctx            context.Context
	BusinessModels services.BusinessModelService
	IdeaDumps      services.IdeaDumpService
	AppSettings    services.AppSettingsService
	ModelConfigs   services.ModelConfigService
	Generation     services.GenerationService
	keyring        *services.KeyringService
	weights        *llm.WeightsManager
	dbClose        func() error
}

// NewApp creates a new App application struct
func NewApp() *App {
	return &App{}
}

// startup opens the database and wires every service. The context is saved so
// long-running work can be cancelled on shutdown.
func (a *App) startup(ctx context.Context) error {
	a.ctx = ctx

	db, err := database.Init(database.Config{
		LogLevel: logger.Warn,
	})
	if err != nil {
		return fmt.Errorf("failed to open database: %v", err)
	}

	// Capture DB close for graceful shutdown
	if sqlDB, err := db.DB(); err != nil {
		log.Printf("failed to get sql.DB: %v", err)
	} else {
		a.dbClose = sqlDB.Close
	}

	// Wire services and inject only needed interfaces into App
	svc := services.NewDbServices(db)
	if err := services.StartDbServices(ctx, svc); err != nil {
		return err
	}
	a.BusinessModels = svc.BusinessModels
	a.IdeaDumps = svc.IdeaDumps
	a.AppSettings = svc.AppSettings
	a.ModelConfigs = svc.ModelConfigs

	a.keyring = services.NewKeyringService()
	a.weights = llm.NewWeightsManager(weightsDir(), os.Getenv("IDEAFORGE_WEIGHTS_URL"))

	a.Generation = services.NewGenerationService(svc, a.keyring, a.weights, llm.LocalConfig{
		BaseURL:   os.Getenv("IDEAFORGE_LOCAL_BASE_URL"),
		ModelName: localModelName(),
	})
	a.Generation.Startup(ctx)

	return nil
}

// shutdown is called when the app is closing. Clean up resources here.
func (a *App) shutdown(ctx context.Context) {
	if a.dbClose != nil {
		if err := a.dbClose(); err != nil {
			log.Printf("failed to close database: %v", err)
		} else {
			log.Printf("database closed")
		}
		a.dbClose = nil
	}
}

// GetAppSettings returns the current application settings
func (a *App) GetAppSettings() (*models.AppSettings, error) {
	if a.AppSettings == nil {
		return nil, fmt.Errorf("app settings service not available")
	}
	return a.AppSettings.Get()
}

// UpdateAppSettings updates backend preference and locale and returns the
// updated settings
func (a *App) UpdateAppSettings(preferredBackend, locale string) (*models.AppSettings, error) {
	if a.AppSettings == nil {
		return nil, fmt.Errorf("app settings service not available")
	}
	return a.AppSettings.Update(preferredBackend, locale)
}

// SetDefaultModel stores the managed model used for new sessions
func (a *App) SetDefaultModel(modelKey string) (*models.AppSettings, error) {
	if a.AppSettings == nil {
		return nil, fmt.Errorf("app settings service not available")
	}
	return a.AppSettings.SetDefaultModelKey(modelKey)
}

// ListModelGroups returns the managed-model catalog grouped by provider
func (a *App) ListModelGroups() ([]models.LLMModelGroup, error) {
	if a.ModelConfigs == nil {
		return nil, fmt.Errorf("model config service not available")
	}
	return a.ModelConfigs.ListModelGroups()
}

// StoreApiKey saves a provider API key in the OS keyring
func (a *App) StoreApiKey(provider, apiKey string) error {
	if a.keyring == nil {
		return fmt.Errorf("keyring service not available")
	}
	return a.keyring.StoreApiKey(provider, []byte(apiKey))
}

// BackendStatus reports current readiness of both generation backends
func (a *App) BackendStatus() (llm.ManagedStatus, llm.LocalStatus) {
	if a.Generation == nil {
		return llm.ManagedStatus{State: llm.ManagedInitializing}, llm.LocalStatus{State: llm.LocalNotDownloaded}
	}
	return a.Generation.ManagedStatus(), a.Generation.LocalStatus()
}

// StartBusinessModelGeneration starts a session that turns free-text input
// into a structured business model
func (a *App) StartBusinessModelGeneration(inputText string) (*services.StartResult, error) {
	if a.Generation == nil {
		return nil, fmt.Errorf("generation service not available")
	}
	return a.Generation.StartBusinessModelGeneration(inputText)
}

// StartDumpAnalysis starts a session that analyzes a raw idea dump, optionally
// against an existing business model
func (a *App) StartDumpAnalysis(rawText string, businessModelID uint) (*services.StartResult, error) {
	if a.Generation == nil {
		return nil, fmt.Errorf("generation service not available")
	}
	return a.Generation.StartDumpAnalysis(rawText, businessModelID)
}

// GetSession returns a snapshot of a running or finished session
func (a *App) GetSession(sessionID string) (*generation.Snapshot, error) {
	if a.Generation == nil {
		return nil, fmt.Errorf("generation service not available")
	}
	return a.Generation.SessionSnapshot(sessionID)
}

// UpdateSessionField applies a manual edit to a finished session's field
func (a *App) UpdateSessionField(sessionID, field, value string) error {
	if a.Generation == nil {
		return fmt.Errorf("generation service not available")
	}
	return a.Generation.UpdateSessionField(sessionID, field, value)
}

// CancelSession abandons a running session
func (a *App) CancelSession(sessionID string) error {
	if a.Generation == nil {
		return fmt.Errorf("generation service not available")
	}
	return a.Generation.CancelSession(sessionID)
}

// CommitSession persists a finished session's field values
func (a *App) CommitSession(sessionID string) (*services.CommitResult, error) {
	if a.Generation == nil {
		return nil, fmt.Errorf("generation service not available")
	}
	return a.Generation.CommitSession(sessionID)
}

// GetBusinessModels returns committed business models, newest first
func (a *App) GetBusinessModels() ([]models.BusinessModel, error) {
	if a.BusinessModels == nil {
		return nil, fmt.Errorf("business model service not available")
	}
	return a.BusinessModels.List(100, 0)
}

// GetIdeaDumps returns committed idea dumps, newest first
func (a *App) GetIdeaDumps() ([]models.IdeaDump, error) {
	if a.IdeaDumps == nil {
		return nil, fmt.Errorf("idea dump service not available")
	}
	return a.IdeaDumps.List(100, 0)
}

func weightsDir() string {
	if dir := os.Getenv("IDEAFORGE_WEIGHTS_DIR"); dir != "" {
		return dir
	}
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "weights"
	}
	return filepath.Join(configDir, "ideaforge", "weights")
}

func localModelName() string {
	if name := os.Getenv("IDEAFORGE_LOCAL_MODEL"); name != "" {
		return name
	}
	return "ideaforge-local"
}
