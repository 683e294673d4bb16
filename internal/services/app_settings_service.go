package services

import (
	"context"
	"errors"
	"time"

	"ideaforge/internal/models"
	"ideaforge/internal/repositories"
)

type AppSettingsService interface {
	Get() (*models.AppSettings, error)
	Update(preferredBackend, locale string) (*models.AppSettings, error)
	SetDefaultModelKey(modelKey string) (*models.AppSettings, error)
	Startup(ctx context.Context)
}

type appSettingsService struct {
	appSettings repositories.AppSettingsRepository
	context     context.Context
}

func (s *appSettingsService) Startup(ctx context.Context) {
	s.context = ctx
}

func NewAppSettingsService(appSettings repositories.AppSettingsRepository) AppSettingsService {
	return &appSettingsService{appSettings: appSettings}
}

func (s *appSettingsService) Get() (*models.AppSettings, error) {
	return s.appSettings.Get(context.Background())
}

func (s *appSettingsService) Update(preferredBackend, locale string) (*models.AppSettings, error) {
	if preferredBackend == "" {
		return nil, errors.New("preferred backend is required")
	}
	if locale == "" {
		return nil, errors.New("locale is required")
	}

	// Validate backend preference values
	if preferredBackend != "auto" && preferredBackend != "managed" && preferredBackend != "local" {
		return nil, errors.New("preferred backend must be 'auto', 'managed', or 'local'")
	}

	// Get current settings
	current, err := s.appSettings.Get(context.Background())
	if err != nil {
		return nil, err
	}

	// Update fields
	current.PreferredBackend = preferredBackend
	current.Locale = locale
	current.UpdatedAt = time.Now().Format(time.RFC3339)

	if err := s.appSettings.Update(context.Background(), current); err != nil {
		return nil, err
	}

	return current, nil
}

func (s *appSettingsService) SetDefaultModelKey(modelKey string) (*models.AppSettings, error) {
	current, err := s.appSettings.Get(context.Background())
	if err != nil {
		return nil, err
	}

	// An empty key clears the selection and lets eligibility pick the model.
	current.DefaultModelKey = modelKey
	current.UpdatedAt = time.Now().Format(time.RFC3339)

	if err := s.appSettings.Update(context.Background(), current); err != nil {
		return nil, err
	}
	return current, nil
}
