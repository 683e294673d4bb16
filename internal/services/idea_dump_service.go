package services

import (
	"context"
	"fmt"

	"ideaforge/internal/models"
	"ideaforge/internal/repositories"
)

type IdeaDumpService interface {
	Startup(ctx context.Context)
	List(limit, offset int) ([]models.IdeaDump, error)
	ListByBusinessModel(businessModelID uint) ([]models.IdeaDump, error)
	GetByID(id uint) (*models.IdeaDump, error)
	CreateFromFields(rawText string, businessModelID *uint, fields map[string]string) (*models.IdeaDump, error)
	UpdateFields(id uint, fields map[string]string) (*models.IdeaDump, error)
	Delete(id uint) error
}

type ideaDumpService struct {
	repo repositories.IdeaDumpRepository
	ctx  context.Context
}

func NewIdeaDumpService(repo repositories.IdeaDumpRepository) IdeaDumpService {
	return &ideaDumpService{repo: repo}
}

func (s *ideaDumpService) Startup(ctx context.Context) {
	s.ctx = ctx
}

func (s *ideaDumpService) List(limit, offset int) ([]models.IdeaDump, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.repo.List(context.Background(), limit, offset)
}

func (s *ideaDumpService) ListByBusinessModel(businessModelID uint) ([]models.IdeaDump, error) {
	if businessModelID == 0 {
		return nil, fmt.Errorf("business model ID is required")
	}
	return s.repo.ListByBusinessModel(context.Background(), businessModelID)
}

func (s *ideaDumpService) GetByID(id uint) (*models.IdeaDump, error) {
	if id == 0 {
		return nil, fmt.Errorf("idea dump ID is required")
	}
	return s.repo.FindByID(context.Background(), id)
}

// CreateFromFields persists a finished dump analysis. businessModelID is
// optional; when set the dump stays attached to the model whose snapshot the
// analysis was generated against.
func (s *ideaDumpService) CreateFromFields(rawText string, businessModelID *uint, fields map[string]string) (*models.IdeaDump, error) {
	record := &models.IdeaDump{
		RawText:         rawText,
		BusinessModelID: businessModelID,
	}
	if err := applyIdeaDumpFields(record, fields); err != nil {
		return nil, err
	}
	if err := s.repo.Create(context.Background(), record); err != nil {
		return nil, err
	}
	return record, nil
}

func (s *ideaDumpService) UpdateFields(id uint, fields map[string]string) (*models.IdeaDump, error) {
	if id == 0 {
		return nil, fmt.Errorf("idea dump ID is required")
	}
	record, err := s.repo.FindByID(context.Background(), id)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, fmt.Errorf("idea dump %d not found", id)
	}
	if err := applyIdeaDumpFields(record, fields); err != nil {
		return nil, err
	}
	if err := s.repo.Update(context.Background(), record); err != nil {
		return nil, err
	}
	return record, nil
}

func (s *ideaDumpService) Delete(id uint) error {
	if id == 0 {
		return fmt.Errorf("idea dump ID is required")
	}
	return s.repo.Delete(context.Background(), id)
}

func applyIdeaDumpFields(record *models.IdeaDump, fields map[string]string) error {
	for name, value := range fields {
		switch name {
		case "title":
			record.Title = value
		case "summary":
			record.Summary = value
		case "pros":
			record.Pros = value
		case "cons":
			record.Cons = value
		case "classification":
			record.Classification = value
		default:
			return fmt.Errorf("unknown idea dump field %q", name)
		}
	}
	return nil
}
