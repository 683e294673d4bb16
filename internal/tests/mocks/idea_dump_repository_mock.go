package mocks

import (
	"context"

	"ideaforge/internal/models"
)

type IdeaDumpRepositoryMock struct {
	CreateFunc              func(ctx context.Context, dump *models.IdeaDump) error
	UpdateFunc              func(ctx context.Context, dump *models.IdeaDump) error
	FindByIDFunc            func(ctx context.Context, id uint) (*models.IdeaDump, error)
	ListFunc                func(ctx context.Context, limit, offset int) ([]models.IdeaDump, error)
	ListByBusinessModelFunc func(ctx context.Context, businessModelID uint) ([]models.IdeaDump, error)
	DeleteFunc              func(ctx context.Context, id uint) error
}

func (m *IdeaDumpRepositoryMock) Create(ctx context.Context, dump *models.IdeaDump) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, dump)
	}
	return nil
}

func (m *IdeaDumpRepositoryMock) Update(ctx context.Context, dump *models.IdeaDump) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, dump)
	}
	return nil
}

func (m *IdeaDumpRepositoryMock) FindByID(ctx context.Context, id uint) (*models.IdeaDump, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *IdeaDumpRepositoryMock) List(ctx context.Context, limit, offset int) ([]models.IdeaDump, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	return nil, nil
}

func (m *IdeaDumpRepositoryMock) ListByBusinessModel(ctx context.Context, businessModelID uint) ([]models.IdeaDump, error) {
	if m.ListByBusinessModelFunc != nil {
		return m.ListByBusinessModelFunc(ctx, businessModelID)
	}
	return nil, nil
}

func (m *IdeaDumpRepositoryMock) Delete(ctx context.Context, id uint) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}
