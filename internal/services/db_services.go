package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"ideaforge/internal/repositories"
)

// DbServices aggregates all domain services backed by the database.
// Fields use plural names (e.g., BusinessModels) to align with Go conventions
// seen in service/store containers.
type DbServices struct {
	BusinessModels BusinessModelService
	IdeaDumps      IdeaDumpService
	AppSettings    AppSettingsService
	ModelConfigs   ModelConfigService
}

// NewDbServices constructs the service container using repositories backed by db.
func NewDbServices(db *gorm.DB) *DbServices {
	businessModelRepo := repositories.NewBusinessModelRepository(db)
	ideaDumpRepo := repositories.NewIdeaDumpRepository(db)
	appSettingsRepo := repositories.NewAppSettingsRepository(db)
	modelSettingRepo := repositories.NewModelSettingRepository(db)

	return &DbServices{
		BusinessModels: NewBusinessModelService(businessModelRepo),
		IdeaDumps:      NewIdeaDumpService(ideaDumpRepo),
		AppSettings:    NewAppSettingsService(appSettingsRepo),
		ModelConfigs:   NewModelConfigService(modelSettingRepo),
	}
}

// StartDbServices runs the startup hook of every contained service.
func StartDbServices(ctx context.Context, svcs *DbServices) error {
	svcs.BusinessModels.Startup(ctx)
	svcs.IdeaDumps.Startup(ctx)
	svcs.AppSettings.Startup(ctx)
	if err := svcs.ModelConfigs.Startup(ctx); err != nil {
		return fmt.Errorf("start model config service: %w", err)
	}
	return nil
}
