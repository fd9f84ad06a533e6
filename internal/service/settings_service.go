package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/floatlab/booking-api/internal/dto"
	"github.com/floatlab/booking-api/internal/models"
	"github.com/floatlab/booking-api/internal/scheduling"
	appErrors "github.com/floatlab/booking-api/pkg/errors"
)

type settingsRepository interface {
	Get(ctx context.Context) (*models.FacilitySettings, error)
	Upsert(ctx context.Context, settings *models.FacilitySettings) error
}

type settingsCacheInvalidator interface {
	InvalidateSchedule(ctx context.Context)
}

// SettingsService manages the facility defaults that drive slot computation.
type SettingsService struct {
	repo      settingsRepository
	cache     settingsCacheInvalidator
	audit     auditRecorder
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSettingsService constructs a SettingsService.
func NewSettingsService(repo settingsRepository, cache settingsCacheInvalidator, audit auditRecorder, validate *validator.Validate, logger *zap.Logger) *SettingsService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SettingsService{repo: repo, cache: cache, audit: audit, validator: validate, logger: logger}
}

// Get returns the stored facility settings.
func (s *SettingsService) Get(ctx context.Context) (*models.FacilitySettings, error) {
	settings, err := s.repo.Get(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "facility settings not initialised")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load settings")
	}
	return settings, nil
}

// Defaults converts the stored settings into scheduling inputs.
func (s *SettingsService) Defaults(ctx context.Context) (scheduling.DayDefaults, int64, error) {
	settings, err := s.Get(ctx)
	if err != nil {
		return scheduling.DayDefaults{}, 0, err
	}
	return defaultsFromSettings(settings), settings.DefaultFloatPriceCents, nil
}

// Update validates and replaces the facility settings, then invalidates
// any cached schedule expansions built from the old values.
func (s *SettingsService) Update(ctx context.Context, req dto.UpdateSettingsRequest, actor *models.JWTClaims) (*models.FacilitySettings, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid settings payload")
	}
	if _, err := s.preview(req); err != nil {
		return nil, err
	}

	settings := &models.FacilitySettings{
		DefaultFloatPriceCents:     req.DefaultFloatPriceCents,
		SessionDurationMinutes:     req.SessionDurationMinutes,
		CleaningBufferMinutes:      req.CleaningBufferMinutes,
		SessionsPerDay:             req.SessionsPerDay,
		OpenTime:                   req.OpenTime,
		CloseTime:                  req.CloseTime,
		NumberOfTanks:              req.NumberOfTanks,
		TankStaggerIntervalMinutes: req.TankStaggerIntervalMinutes,
		UpdatedBy:                  userIDPtr(actor),
	}
	if err := s.repo.Upsert(ctx, settings); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save settings")
	}

	if s.cache != nil {
		s.cache.InvalidateSchedule(ctx)
	}
	s.emitAudit(actor, models.AuditActionSettingsUpdate, "settings", "facility",
		fmt.Sprintf("open=%s close=%s duration=%d buffer=%d tanks=%d",
			req.OpenTime, req.CloseTime, req.SessionDurationMinutes, req.CleaningBufferMinutes, req.NumberOfTanks))

	return settings, nil
}

// Preview computes the capacity a settings payload would yield without saving.
func (s *SettingsService) Preview(ctx context.Context, req dto.UpdateSettingsRequest) (*dto.SettingsPreview, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid settings payload")
	}
	return s.preview(req)
}

func (s *SettingsService) preview(req dto.UpdateSettingsRequest) (*dto.SettingsPreview, error) {
	defaults := scheduling.DayDefaults{
		Window: scheduling.OperatingWindow{OpenTime: req.OpenTime, CloseTime: req.CloseTime},
		Policy: scheduling.SessionPolicy{
			SessionDurationMinutes: req.SessionDurationMinutes,
			CleaningBufferMinutes:  req.CleaningBufferMinutes,
		},
		Resources: scheduling.ResourceConfig{
			ResourceCount:          req.NumberOfTanks,
			StaggerIntervalMinutes: req.TankStaggerIntervalMinutes,
		},
	}
	date := time.Now().UTC().Format(scheduling.DateLayout)
	summary, _, err := scheduling.ComputeFacilitySummary(date, defaults.Window, defaults.Policy, defaults.Resources, nil)
	if err != nil {
		return nil, err
	}
	return &dto.SettingsPreview{
		SlotsPerTank:    summary.SlotsPerResource,
		TotalSlots:      summary.TotalSlots,
		ActualCloseTime: summary.ActualCloseTime,
	}, nil
}

func (s *SettingsService) emitAudit(actor *models.JWTClaims, action, entity, entityID, detail string) {
	if s.audit == nil {
		return
	}
	s.audit.Record(models.AuditLog{
		UserID:   userIDPtr(actor),
		Action:   action,
		Entity:   entity,
		EntityID: &entityID,
		Detail:   &detail,
	})
}

func defaultsFromSettings(settings *models.FacilitySettings) scheduling.DayDefaults {
	return scheduling.DayDefaults{
		Window: scheduling.OperatingWindow{OpenTime: settings.OpenTime, CloseTime: settings.CloseTime},
		Policy: scheduling.SessionPolicy{
			SessionDurationMinutes: settings.SessionDurationMinutes,
			CleaningBufferMinutes:  settings.CleaningBufferMinutes,
		},
		Resources: scheduling.ResourceConfig{
			ResourceCount:          settings.NumberOfTanks,
			StaggerIntervalMinutes: settings.TankStaggerIntervalMinutes,
		},
	}
}

func userIDPtr(actor *models.JWTClaims) *string {
	if actor == nil || actor.UserID == "" {
		return nil
	}
	id := actor.UserID
	return &id
}
