package unit_tests

import (
	"context"
	"errors"
	"testing"

	"ideaforge/internal/models"
	"ideaforge/internal/services"
	"ideaforge/internal/tests/mocks"
	"ideaforge/internal/utils"
)

func TestAppSettingsService_Get_Success(t *testing.T) {
	expectedSettings := &models.AppSettings{
		ID:               1,
		Version:          1,
		PreferredBackend: "local",
		Locale:           "fr",
	}

	mockRepo := &mocks.AppSettingsRepositoryMock{
		GetFunc: func(ctx context.Context) (*models.AppSettings, error) {
			return expectedSettings, nil
		},
	}
	service := services.NewAppSettingsService(mockRepo)

	settings, err := service.Get()
	utils.NilError(t, err)
	utils.Equal(t, settings.ID, expectedSettings.ID)
	utils.Equal(t, settings.Version, expectedSettings.Version)
	utils.Equal(t, settings.PreferredBackend, expectedSettings.PreferredBackend)
	utils.Equal(t, settings.Locale, expectedSettings.Locale)
}

func TestAppSettingsService_Get_RepositoryError(t *testing.T) {
	mockRepo := &mocks.AppSettingsRepositoryMock{
		GetFunc: func(ctx context.Context) (*models.AppSettings, error) {
			return nil, errors.New("database error")
		},
	}
	service := services.NewAppSettingsService(mockRepo)

	_, err := service.Get()
	utils.Equal(t, err.Error(), "database error")
}

func TestAppSettingsService_Update_Success(t *testing.T) {
	currentSettings := &models.AppSettings{
		ID:               1,
		Version:          1,
		PreferredBackend: "auto",
		Locale:           "en",
	}

	mockRepo := &mocks.AppSettingsRepositoryMock{
		GetFunc: func(ctx context.Context) (*models.AppSettings, error) {
			return currentSettings, nil
		},
		UpdateFunc: func(ctx context.Context, settings *models.AppSettings) error {
			utils.Equal(t, settings.ID, uint(1))
			utils.Equal(t, settings.PreferredBackend, "local")
			utils.Equal(t, settings.Locale, "fr")
			return nil
		},
	}
	service := services.NewAppSettingsService(mockRepo)

	updatedSettings, err := service.Update("local", "fr")
	utils.NilError(t, err)
	utils.Equal(t, updatedSettings.PreferredBackend, "local")
	utils.Equal(t, updatedSettings.Locale, "fr")
	utils.Equal(t, updatedSettings.ID, uint(1))
}

func TestAppSettingsService_Update_EmptyBackend(t *testing.T) {
	mockRepo := &mocks.AppSettingsRepositoryMock{}
	service := services.NewAppSettingsService(mockRepo)

	_, err := service.Update("", "en")
	utils.Equal(t, err.Error(), "preferred backend is required")
}

func TestAppSettingsService_Update_EmptyLocale(t *testing.T) {
	mockRepo := &mocks.AppSettingsRepositoryMock{}
	service := services.NewAppSettingsService(mockRepo)

	_, err := service.Update("auto", "")
	utils.Equal(t, err.Error(), "locale is required")
}

func TestAppSettingsService_Update_InvalidBackend(t *testing.T) {
	mockRepo := &mocks.AppSettingsRepositoryMock{}
	service := services.NewAppSettingsService(mockRepo)

	_, err := service.Update("cloud", "en")
	utils.Equal(t, err.Error(), "preferred backend must be 'auto', 'managed', or 'local'")
}

func TestAppSettingsService_Update_GetError(t *testing.T) {
	mockRepo := &mocks.AppSettingsRepositoryMock{
		GetFunc: func(ctx context.Context) (*models.AppSettings, error) {
			return nil, errors.New("get error")
		},
	}
	service := services.NewAppSettingsService(mockRepo)

	_, err := service.Update("managed", "en")
	utils.Equal(t, err.Error(), "get error")
}

func TestAppSettingsService_SetDefaultModelKey(t *testing.T) {
	var saved *models.AppSettings
	mockRepo := &mocks.AppSettingsRepositoryMock{
		UpdateFunc: func(ctx context.Context, settings *models.AppSettings) error {
			saved = settings
			return nil
		},
	}
	service := services.NewAppSettingsService(mockRepo)

	updated, err := service.SetDefaultModelKey("openai|gpt-4.1-mini")
	utils.NilError(t, err)
	utils.Equal(t, updated.DefaultModelKey, "openai|gpt-4.1-mini")
	utils.Equal(t, saved.DefaultModelKey, "openai|gpt-4.1-mini")

	// Clearing the key is allowed; auto-selection takes over.
	updated, err = service.SetDefaultModelKey("")
	utils.NilError(t, err)
	utils.Equal(t, updated.DefaultModelKey, "")
}
