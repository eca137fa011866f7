package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"

	"slotwise/internal/resources/repository"
	"slotwise/pkg/config"
	apperrors "slotwise/pkg/errors"
	"slotwise/pkg/model"
	"slotwise/pkg/timeutil"
)

type ResourceService interface {
	Create(ctx context.Context, resource *model.Resource) error
	GetByID(ctx context.Context, id string) (*model.Resource, error)
	GetByBusiness(ctx context.Context, businessID string) ([]*model.Resource, error)
}

type resourceService struct {
	repo     repository.ResourceRepository
	validate *validator.Validate
	cfg      *config.Config
}

func NewResourceService(repo repository.ResourceRepository, cfg *config.Config) ResourceService {
	return &resourceService{
		repo:     repo,
		validate: validator.New(),
		cfg:      cfg,
	}
}

func (s *resourceService) Create(ctx context.Context, resource *model.Resource) error {
	if resource.DurationMinutes == 0 && resource.Duration != "" {
		minutes, err := timeutil.ParseDurationMinutes(resource.Duration)
		if err != nil {
			return apperrors.InvalidInput(err.Error())
		}
		resource.DurationMinutes = minutes
	}

	if err := s.validate.StructCtx(ctx, resource); err != nil {
		s.cfg.Log.Warn("Resource validation failed", "error", err)
		return apperrors.Validation("Resource validation failed", map[string]any{
			"error": err.Error(),
		})
	}
	if err := s.repo.Create(ctx, resource); err != nil {
		s.cfg.Log.Error("Failed to create resource", "business_id", resource.BusinessID, "error", err)
		return apperrors.Internal("Failed to create resource", err)
	}

	s.cfg.Log.Info("Resource created",
		"resource_id", resource.ID,
		"business_id", resource.BusinessID,
		"capacity", resource.Capacity,
	)
	return nil
}

func (s *resourceService) GetByID(ctx context.Context, id string) (*model.Resource, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Resource ID cannot be empty")
	}

	resource, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapResourceError(err, id, s.cfg)
	}
	return resource, nil
}

func (s *resourceService) GetByBusiness(ctx context.Context, businessID string) ([]*model.Resource, error) {
	if businessID == "" {
		return nil, apperrors.InvalidInput("Business ID cannot be empty")
	}

	resources, err := s.repo.FindByBusiness(ctx, businessID)
	if err != nil {
		s.cfg.Log.Error("Failed to list resources", "business_id", businessID, "error", err)
		return nil, apperrors.Internal("Failed to list resources", err)
	}
	return resources, nil
}

func mapResourceError(err error, id string, cfg *config.Config) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return apperrors.NotFoundWithID("Resource", id)
	case errors.Is(err, repository.ErrInvalidID):
		return apperrors.InvalidInput("Invalid resource ID: " + id)
	default:
		cfg.Log.Error("Failed to load resource", "resource_id", id, "error", err)
		return apperrors.Internal("Failed to load resource", err)
	}
}
