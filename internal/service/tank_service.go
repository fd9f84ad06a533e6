package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/floatlab/booking-api/internal/dto"
	"github.com/floatlab/booking-api/internal/models"
	"github.com/floatlab/booking-api/internal/repository"
	appErrors "github.com/floatlab/booking-api/pkg/errors"
)

type tankRepository interface {
	List(ctx context.Context, activeOnly bool) ([]models.Tank, error)
	CountActive(ctx context.Context) (int, error)
	GetByID(ctx context.Context, id string) (*models.Tank, error)
	Create(ctx context.Context, tank *models.Tank) error
	Update(ctx context.Context, tank *models.Tank) error
	Delete(ctx context.Context, id string) error
}

// TankService manages the physical tank inventory. The tank count used by
// the slot engine lives in facility settings; this catalogue carries the
// names and maintenance state shown in the admin UI.
type TankService struct {
	repo      tankRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTankService constructs a TankService.
func NewTankService(repo tankRepository, validate *validator.Validate, logger *zap.Logger) *TankService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TankService{repo: repo, validator: validate, logger: logger}
}

// List returns tanks, optionally restricted to active ones.
func (s *TankService) List(ctx context.Context, activeOnly bool) ([]models.Tank, error) {
	tanks, err := s.repo.List(ctx, activeOnly)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list tanks")
	}
	return tanks, nil
}

// CountActive returns the number of tanks currently in service.
func (s *TankService) CountActive(ctx context.Context) (int, error) {
	count, err := s.repo.CountActive(ctx)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count tanks")
	}
	return count, nil
}

// Get returns one tank.
func (s *TankService) Get(ctx context.Context, id string) (*models.Tank, error) {
	tank, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "tank not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load tank")
	}
	return tank, nil
}

// Create adds a tank to the catalogue.
func (s *TankService) Create(ctx context.Context, req dto.SaveTankRequest) (*models.Tank, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid tank payload")
	}
	now := time.Now().UTC()
	tank := &models.Tank{
		ID:               uuid.NewString(),
		Name:             req.Name,
		Description:      req.Description,
		Active:           true,
		MaintenanceNotes: req.MaintenanceNotes,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if req.Active != nil {
		tank.Active = *req.Active
	}
	if err := s.repo.Create(ctx, tank); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create tank")
	}
	return tank, nil
}

// Update replaces a tank's mutable fields.
func (s *TankService) Update(ctx context.Context, id string, req dto.SaveTankRequest) (*models.Tank, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid tank payload")
	}
	tank, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	tank.Name = req.Name
	tank.Description = req.Description
	tank.MaintenanceNotes = req.MaintenanceNotes
	if req.Active != nil {
		tank.Active = *req.Active
	}
	if err := s.repo.Update(ctx, tank); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "tank not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update tank")
	}
	return tank, nil
}

// Delete removes a tank from the catalogue.
func (s *TankService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return appErrors.Clone(appErrors.ErrNotFound, "tank not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete tank")
	}
	return nil
}
