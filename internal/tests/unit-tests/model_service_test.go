package unit_tests

import (
	"context"
	"testing"

	"ideaforge/internal/models"
	"ideaforge/internal/services"
	"ideaforge/internal/tests/mocks"
	"ideaforge/internal/utils"
)

func startedModelConfigService(t *testing.T, repo *mocks.ModelSettingRepositoryMock) services.ModelConfigService {
	t.Helper()
	service := services.NewModelConfigService(repo)
	utils.NilError(t, service.Startup(context.Background()))
	return service
}

func TestModelConfigService_StartupSeedsCatalog(t *testing.T) {
	var seeded []string
	repo := &mocks.ModelSettingRepositoryMock{
		UpsertFunc: func(modelKey, provider string, enabled bool) (*models.ModelSetting, error) {
			seeded = append(seeded, modelKey)
			utils.Equal(t, enabled, true)
			return &models.ModelSetting{ModelKey: modelKey, Provider: provider, Enabled: enabled}, nil
		},
	}
	startedModelConfigService(t, repo)

	// The embedded catalog carries five models across three providers.
	utils.Equal(t, len(seeded), 5)
}

func TestModelConfigService_StartupKeepsStoredToggles(t *testing.T) {
	repo := &mocks.ModelSettingRepositoryMock{
		ListFunc: func() ([]models.ModelSetting, error) {
			return []models.ModelSetting{
				{ModelKey: "openai|gpt-4.1-mini", Provider: "openai", Enabled: false},
			}, nil
		},
	}
	service := startedModelConfigService(t, repo)

	model, err := service.GetModel("openai|gpt-4.1-mini")
	utils.NilError(t, err)
	utils.Equal(t, model.Enabled, false)
}

func TestModelConfigService_ListModelGroups(t *testing.T) {
	service := startedModelConfigService(t, &mocks.ModelSettingRepositoryMock{})

	groups, err := service.ListModelGroups()
	utils.NilError(t, err)
	utils.Equal(t, len(groups), 3)
	utils.Equal(t, groups[0].ProviderID, "openai")
	utils.Equal(t, groups[1].ProviderID, "anthropic")
	utils.Equal(t, groups[2].ProviderID, "gemini")
	utils.Equal(t, groups[2].ProviderName, "Google")
	utils.Equal(t, len(groups[0].Models), 2)
	utils.Equal(t, len(groups[2].Models), 1)
}

func TestModelConfigService_SetModelEnabled(t *testing.T) {
	service := startedModelConfigService(t, &mocks.ModelSettingRepositoryMock{})

	model, err := service.SetModelEnabled("anthropic|claude-3-5-haiku-20241022", false)
	utils.NilError(t, err)
	utils.Equal(t, model.Enabled, false)

	refetched, err := service.GetModel("anthropic|claude-3-5-haiku-20241022")
	utils.NilError(t, err)
	utils.Equal(t, refetched.Enabled, false)
}

func TestModelConfigService_SetModelEnabled_UnknownKey(t *testing.T) {
	service := startedModelConfigService(t, &mocks.ModelSettingRepositoryMock{})

	_, err := service.SetModelEnabled("openai|no-such-model", true)
	utils.Equal(t, err.Error(), "model openai|no-such-model not found")
}

func TestModelConfigService_SetProviderEnabled(t *testing.T) {
	service := startedModelConfigService(t, &mocks.ModelSettingRepositoryMock{})

	updated, err := service.SetProviderEnabled("openai", false)
	utils.NilError(t, err)
	utils.Equal(t, len(updated), 2)
	for _, model := range updated {
		utils.Equal(t, model.Enabled, false)
	}
}

func TestModelConfigService_FirstEnabled(t *testing.T) {
	service := startedModelConfigService(t, &mocks.ModelSettingRepositoryMock{})

	model, err := service.FirstEnabled()
	utils.NilError(t, err)
	if model == nil {
		t.Fatalf("expected an enabled model from the default catalog")
	}
	utils.Equal(t, model.ProviderID, "openai")
}

func TestModelConfigService_FirstEnabled_AllDisabled(t *testing.T) {
	service := startedModelConfigService(t, &mocks.ModelSettingRepositoryMock{})

	for _, provider := range []string{"openai", "anthropic", "gemini"} {
		_, err := service.SetProviderEnabled(provider, false)
		utils.NilError(t, err)
	}

	model, err := service.FirstEnabled()
	utils.NilError(t, err)
	if model != nil {
		t.Fatalf("expected no enabled model, got %s", model.Key)
	}
}
