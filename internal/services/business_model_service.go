package services

import (
	"context"
	"fmt"
	"strings"

	"ideaforge/internal/models"
	"ideaforge/internal/repositories"
)

// contextExcerptLimit bounds each field's contribution to a context snapshot
// so prompts stay small.
const contextExcerptLimit = 240

type BusinessModelService interface {
	Startup(ctx context.Context)
	List(limit, offset int) ([]models.BusinessModel, error)
	GetByID(id uint) (*models.BusinessModel, error)
	CreateFromFields(sourceIdea string, fields map[string]string) (*models.BusinessModel, error)
	UpdateFields(id uint, fields map[string]string) (*models.BusinessModel, error)
	Delete(id uint) error
	ContextSnapshot(id uint) (string, error)
}

type businessModelService struct {
	repo repositories.BusinessModelRepository
	ctx  context.Context
}

func NewBusinessModelService(repo repositories.BusinessModelRepository) BusinessModelService {
	return &businessModelService{repo: repo}
}

func (s *businessModelService) Startup(ctx context.Context) {
	s.ctx = ctx
}

func (s *businessModelService) List(limit, offset int) ([]models.BusinessModel, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.repo.List(context.Background(), limit, offset)
}

func (s *businessModelService) GetByID(id uint) (*models.BusinessModel, error) {
	if id == 0 {
		return nil, fmt.Errorf("business model ID is required")
	}
	return s.repo.FindByID(context.Background(), id)
}

// CreateFromFields persists a new business model from a finished session's
// field values. The caller decides when to commit; nothing writes rows while
// a generation is still running.
func (s *businessModelService) CreateFromFields(sourceIdea string, fields map[string]string) (*models.BusinessModel, error) {
	record := &models.BusinessModel{SourceIdea: sourceIdea}
	if err := applyBusinessModelFields(record, fields); err != nil {
		return nil, err
	}
	if err := s.repo.Create(context.Background(), record); err != nil {
		return nil, err
	}
	return record, nil
}

func (s *businessModelService) UpdateFields(id uint, fields map[string]string) (*models.BusinessModel, error) {
	if id == 0 {
		return nil, fmt.Errorf("business model ID is required")
	}
	record, err := s.repo.FindByID(context.Background(), id)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, fmt.Errorf("business model %d not found", id)
	}
	if err := applyBusinessModelFields(record, fields); err != nil {
		return nil, err
	}
	if err := s.repo.Update(context.Background(), record); err != nil {
		return nil, err
	}
	return record, nil
}

func (s *businessModelService) Delete(id uint) error {
	if id == 0 {
		return fmt.Errorf("business model ID is required")
	}
	return s.repo.Delete(context.Background(), id)
}

// ContextSnapshot renders a bounded read-only excerpt of a stored business
// model, used as prompt context when analyzing a dump attached to it.
func (s *businessModelService) ContextSnapshot(id uint) (string, error) {
	record, err := s.GetByID(id)
	if err != nil {
		return "", err
	}
	if record == nil {
		return "", fmt.Errorf("business model %d not found", id)
	}

	var b strings.Builder
	for _, entry := range []struct {
		name  string
		value string
	}{
		{"summary", record.Summary},
		{"problem", record.Problem},
		{"solution", record.Solution},
		{"customerSegments", record.CustomerSegments},
		{"uniqueValueProposition", record.UniqueValueProposition},
	} {
		value := strings.TrimSpace(entry.value)
		if value == "" {
			continue
		}
		if len(value) > contextExcerptLimit {
			value = value[:contextExcerptLimit] + "..."
		}
		fmt.Fprintf(&b, "%s: %s\n", entry.name, value)
	}
	return strings.TrimSpace(b.String()), nil
}

func applyBusinessModelFields(record *models.BusinessModel, fields map[string]string) error {
	for name, value := range fields {
		switch name {
		case "summary":
			record.Summary = value
		case "problem":
			record.Problem = value
		case "solution":
			record.Solution = value
		case "uniqueValueProposition":
			record.UniqueValueProposition = value
		case "customerSegments":
			record.CustomerSegments = value
		case "earlyAdopters":
			record.EarlyAdopters = value
		case "existingAlternatives":
			record.ExistingAlternatives = value
		case "channels":
			record.Channels = value
		case "revenueStreams":
			record.RevenueStreams = value
		case "costs":
			record.Costs = value
		case "keyMetrics":
			record.KeyMetrics = value
		case "unfairAdvantage":
			record.UnfairAdvantage = value
		case "highLevelConcept":
			record.HighLevelConcept = value
		default:
			return fmt.Errorf("unknown business model field %q", name)
		}
	}
	return nil
}
