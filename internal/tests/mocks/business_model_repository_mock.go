package mocks

import (
	"context"

	"ideaforge/internal/models"
)

type BusinessModelRepositoryMock struct {
	CreateFunc   func(ctx context.Context, model *models.BusinessModel) error
	UpdateFunc   func(ctx context.Context, model *models.BusinessModel) error
	FindByIDFunc func(ctx context.Context, id uint) (*models.BusinessModel, error)
	ListFunc     func(ctx context.Context, limit, offset int) ([]models.BusinessModel, error)
	DeleteFunc   func(ctx context.Context, id uint) error
}

func (m *BusinessModelRepositoryMock) Create(ctx context.Context, model *models.BusinessModel) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, model)
	}
	return nil
}

func (m *BusinessModelRepositoryMock) Update(ctx context.Context, model *models.BusinessModel) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, model)
	}
	return nil
}

func (m *BusinessModelRepositoryMock) FindByID(ctx context.Context, id uint) (*models.BusinessModel, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *BusinessModelRepositoryMock) List(ctx context.Context, limit, offset int) ([]models.BusinessModel, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	return nil, nil
}

func (m *BusinessModelRepositoryMock) Delete(ctx context.Context, id uint) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}
