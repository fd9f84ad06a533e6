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

type packageRepository interface {
	List(ctx context.Context, activeOnly bool) ([]models.Package, error)
	GetByID(ctx context.Context, id string) (*models.Package, error)
	Create(ctx context.Context, pkg *models.Package) error
	Update(ctx context.Context, pkg *models.Package) error
	Delete(ctx context.Context, id string) error
}

// PackageService manages the session packages on sale.
type PackageService struct {
	repo      packageRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewPackageService constructs a PackageService.
func NewPackageService(repo packageRepository, validate *validator.Validate, logger *zap.Logger) *PackageService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PackageService{repo: repo, validator: validate, logger: logger}
}

// List returns packages, optionally restricted to active ones.
func (s *PackageService) List(ctx context.Context, activeOnly bool) ([]models.Package, error) {
	packages, err := s.repo.List(ctx, activeOnly)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list packages")
	}
	return packages, nil
}

// Get returns one package.
func (s *PackageService) Get(ctx context.Context, id string) (*models.Package, error) {
	pkg, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "package not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load package")
	}
	return pkg, nil
}

// Create adds a package.
func (s *PackageService) Create(ctx context.Context, req dto.SavePackageRequest) (*models.Package, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid package payload")
	}
	now := time.Now().UTC()
	pkg := &models.Package{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Description:  req.Description,
		SessionCount: req.SessionCount,
		PriceCents:   req.PriceCents,
		ValidityDays: req.ValidityDays,
		Active:       true,
		DisplayOrder: req.DisplayOrder,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if req.Active != nil {
		pkg.Active = *req.Active
	}
	if err := s.repo.Create(ctx, pkg); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create package")
	}
	return pkg, nil
}

// Update replaces a package's mutable fields.
func (s *PackageService) Update(ctx context.Context, id string, req dto.SavePackageRequest) (*models.Package, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid package payload")
	}
	pkg, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	pkg.Name = req.Name
	pkg.Description = req.Description
	pkg.SessionCount = req.SessionCount
	pkg.PriceCents = req.PriceCents
	pkg.ValidityDays = req.ValidityDays
	pkg.DisplayOrder = req.DisplayOrder
	if req.Active != nil {
		pkg.Active = *req.Active
	}
	if err := s.repo.Update(ctx, pkg); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "package not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update package")
	}
	return pkg, nil
}

// Delete removes a package.
func (s *PackageService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return appErrors.Clone(appErrors.ErrNotFound, "package not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete package")
	}
	return nil
}
