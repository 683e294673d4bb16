package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"ideaforge/internal/models"
)

type IdeaDumpRepository interface {
	Create(ctx context.Context, dump *models.IdeaDump) error
	Update(ctx context.Context, dump *models.IdeaDump) error
	FindByID(ctx context.Context, id uint) (*models.IdeaDump, error)
	List(ctx context.Context, limit, offset int) ([]models.IdeaDump, error)
	ListByBusinessModel(ctx context.Context, businessModelID uint) ([]models.IdeaDump, error)
	Delete(ctx context.Context, id uint) error
}

type ideaDumpRepository struct {
	db *gorm.DB
}

func NewIdeaDumpRepository(db *gorm.DB) IdeaDumpRepository {
	return &ideaDumpRepository{db: db}
}

func (r *ideaDumpRepository) Create(ctx context.Context, dump *models.IdeaDump) error {
	return r.db.WithContext(ctx).Create(dump).Error
}

func (r *ideaDumpRepository) Update(ctx context.Context, dump *models.IdeaDump) error {
	return r.db.WithContext(ctx).Save(dump).Error
}

func (r *ideaDumpRepository) FindByID(ctx context.Context, id uint) (*models.IdeaDump, error) {
	var dump models.IdeaDump
	if err := r.db.WithContext(ctx).First(&dump, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &dump, nil
}

func (r *ideaDumpRepository) List(ctx context.Context, limit, offset int) ([]models.IdeaDump, error) {
	var results []models.IdeaDump
	err := r.db.WithContext(ctx).Order("updated_at desc").Limit(limit).Offset(offset).Find(&results).Error
	return results, err
}

func (r *ideaDumpRepository) ListByBusinessModel(ctx context.Context, businessModelID uint) ([]models.IdeaDump, error) {
	var results []models.IdeaDump
	err := r.db.WithContext(ctx).
		Where("business_model_id = ?", businessModelID).
		Order("updated_at desc").
		Find(&results).Error
	return results, err
}

func (r *ideaDumpRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.IdeaDump{}, id).Error
}
