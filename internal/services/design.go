package service

import (
	"context"
	stdErrors "errors"

	"github.com/google/uuid"
	"github.com/revorbit/auto-frames/internal/errors"
	"github.com/revorbit/auto-frames/internal/models"
	"github.com/revorbit/auto-frames/internal/pricing"
	repository "github.com/revorbit/auto-frames/internal/repositories"
)

type DesignService interface {
	Options() pricing.StudioOptions
	SaveDesign(ctx context.Context, customerID uuid.UUID, designID *uuid.UUID, req *models.SaveDesignRequest) (*models.Design, error)
	GetDesign(ctx context.Context, customerID, designID uuid.UUID) (*models.Design, error)
	ListDesigns(ctx context.Context, customerID uuid.UUID) ([]*models.Design, error)
}

type designService struct {
	repo repository.DesignRepository
}

func NewDesignService(repo repository.DesignRepository) DesignService {
	return &designService{repo: repo}
}

func (s *designService) Options() pricing.StudioOptions {
	return pricing.Options()
}

// SaveDesign prices the configuration from the studio catalog. A nil designID creates a new draft.
func (s *designService) SaveDesign(ctx context.Context, customerID uuid.UUID, designID *uuid.UUID, req *models.SaveDesignRequest) (*models.Design, error) {

	frame, ok := pricing.LookupFrameStyle(req.FrameStyleID)
	if !ok {
		return nil, errors.AddValidationError("frame_style_id", "unknown frame style")
	}

	material, ok := pricing.LookupMaterial(req.MaterialID)
	if !ok {
		return nil, errors.AddValidationError("material_id", "unknown material")
	}

	personalization := req.Personalization
	personalization.Text = sanitizeText(personalization.Text)

	cfg := models.DesignConfiguration{
		FrameStyle:      frame,
		Material:        material,
		Personalization: personalization,
		Features:        req.Features,
	}

	price, err := pricing.DesignPrice(cfg)
	if err != nil {
		return nil, errors.ValidationError("Design configuration is invalid").WithDetail(err.Error()).WithError(err)
	}

	design := &models.Design{
		ID:         uuid.New(),
		CustomerID: customerID,
		Name:       sanitizeText(req.Name),
		Status:     models.DesignStatusDraft,
		Config:     cfg,
		Price:      price,
	}

	if designID != nil {
		design.ID = *designID
	}

	if design.Name == "" {
		design.Name = frame.Name + " in " + material.Name
	}

	if err := s.repo.SaveDraft(ctx, design); err != nil {
		if stdErrors.Is(err, repository.ErrNotFound) {
			return nil, errors.NotFoundError("Design not found or no longer editable").WithError(err)
		}
		return nil, errors.DatabaseError("Failed to save design").WithError(err)
	}

	return design, nil
}

// GetDesign hides designs owned by other customers behind a not found.
func (s *designService) GetDesign(ctx context.Context, customerID, designID uuid.UUID) (*models.Design, error) {

	design, err := s.repo.GetDesign(ctx, designID)
	if err != nil {
		return nil, repoError(err, "Design not found", "Failed to get design")
	}

	if design.CustomerID != customerID {
		return nil, errors.NotFoundError("Design not found")
	}

	return design, nil
}

func (s *designService) ListDesigns(ctx context.Context, customerID uuid.UUID) ([]*models.Design, error) {

	designs, err := s.repo.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, errors.DatabaseError("Failed to list designs").WithError(err)
	}

	return designs, nil
}
