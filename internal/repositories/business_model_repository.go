package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"ideaforge/internal/models"
)

type BusinessModelRepository interface {
	Create(ctx context.Context, model *models.BusinessModel) error
	Update(ctx context.Context, model *models.BusinessModel) error
	FindByID(ctx context.Context, id uint) (*models.BusinessModel, error)
	List(ctx context.Context, limit, offset int) ([]models.BusinessModel, error)
	Delete(ctx context.Context, id uint) error
}

type businessModelRepository struct {
	db *gorm.DB
}

func NewBusinessModelRepository(db *gorm.DB) BusinessModelRepository {
	return &businessModelRepository{db: db}
}

func (r *businessModelRepository) Create(ctx context.Context, model *models.BusinessModel) error {
	return r.db.WithContext(ctx).Create(model).Error
}

func (r *businessModelRepository) Update(ctx context.Context, model *models.BusinessModel) error {
	return r.db.WithContext(ctx).Save(model).Error
}

func (r *businessModelRepository) FindByID(ctx context.Context, id uint) (*models.BusinessModel, error) {
	var model models.BusinessModel
	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &model, nil
}

func (r *businessModelRepository) List(ctx context.Context, limit, offset int) ([]models.BusinessModel, error) {
	var results []models.BusinessModel
	err := r.db.WithContext(ctx).Order("updated_at desc").Limit(limit).Offset(offset).Find(&results).Error
	return results, err
}

func (r *businessModelRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.BusinessModel{}, id).Error
}
