package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/floatlab/booking-api/internal/dto"
	"github.com/floatlab/booking-api/internal/models"
	"github.com/floatlab/booking-api/internal/repository"
	"github.com/floatlab/booking-api/internal/scheduling"
	appErrors "github.com/floatlab/booking-api/pkg/errors"
)

type appointmentRepository interface {
	GetByID(ctx context.Context, id string) (*models.Appointment, error)
	List(ctx context.Context, filter models.AppointmentFilter) ([]models.Appointment, int, error)
	CountActiveSlot(ctx context.Context, date, startTime string, tankIndex int) (int, error)
	CreateWithReservation(ctx context.Context, appointment *models.Appointment, snapshot *models.ScheduleOverride) error
	CancelWithRelease(ctx context.Context, id string, cancelledAt time.Time) error
	UpdateStatus(ctx context.Context, id string, status models.AppointmentStatus) error
}

type appointmentPackageReader interface {
	GetByID(ctx context.Context, id string) (*models.Package, error)
}

type appointmentScheduleReader interface {
	GetByDate(ctx context.Context, date string) (*models.ScheduleOverride, error)
}

type appointmentCacheInvalidator interface {
	InvalidateSchedule(ctx context.Context)
}

// AppointmentServiceConfig governs booking window rules. Location is the
// facility's wall-clock timezone; slot times are local to it.
type AppointmentServiceConfig struct {
	MinNoticeMinutes   int
	AdvanceBookingDays int
	Location           *time.Location
}

// AppointmentService books, lists and cancels float sessions. Every
// booking is checked against the slot engine so a client can only hold
// an interval a tank can physically run.
type AppointmentService struct {
	repo      appointmentRepository
	packages  appointmentPackageReader
	overrides appointmentScheduleReader
	settings  settingsRepository
	cache     appointmentCacheInvalidator
	audit     auditRecorder
	validator *validator.Validate
	logger    *zap.Logger
	config    AppointmentServiceConfig
	metrics   *MetricsService
	now       func() time.Time
}

// NewAppointmentService constructs an AppointmentService.
func NewAppointmentService(repo appointmentRepository, packages appointmentPackageReader, overrides appointmentScheduleReader, settings settingsRepository, cache appointmentCacheInvalidator, audit auditRecorder, validate *validator.Validate, logger *zap.Logger, cfg AppointmentServiceConfig) *AppointmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MinNoticeMinutes < 0 {
		cfg.MinNoticeMinutes = 0
	}
	if cfg.AdvanceBookingDays <= 0 {
		cfg.AdvanceBookingDays = 90
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &AppointmentService{
		repo:      repo,
		packages:  packages,
		overrides: overrides,
		settings:  settings,
		cache:     cache,
		audit:     audit,
		validator: validate,
		logger:    logger,
		config:    cfg,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// WithMetrics attaches Prometheus instrumentation. Safe to skip in tests.
func (s *AppointmentService) WithMetrics(metrics *MetricsService) *AppointmentService {
	s.metrics = metrics
	return s
}

// Create books one slot for the acting user.
func (s *AppointmentService) Create(ctx context.Context, req dto.CreateAppointmentRequest, actor *models.JWTClaims) (*models.Appointment, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid booking payload")
	}
	day, err := time.Parse(scheduling.DateLayout, req.Date)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date must be YYYY-MM-DD")
	}

	settingsRow, err := s.settings.Get(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "facility settings not initialised")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load settings")
	}
	defaults := defaultsFromSettings(settingsRow)

	stored, err := s.overrides.GetByDate(ctx, req.Date)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load day override")
	}
	var engineOverride *scheduling.DayOverride
	if stored != nil {
		engineOverride = overrideToScheduling(stored)
	}

	summary, slots, err := scheduling.ComputeFacilitySummary(req.Date, defaults.Window, defaults.Policy, defaults.Resources, engineOverride)
	if err != nil {
		return nil, err
	}
	if summary.Status == scheduling.StatusClosed {
		return nil, appErrors.Clone(appErrors.ErrDayClosed, "")
	}
	if summary.AvailableSlots <= 0 {
		return nil, appErrors.Clone(appErrors.ErrSlotUnavailable, "day is sold out")
	}

	slot, ok := findSlot(slots, req.TankIndex, req.StartTime)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrSlotUnavailable, "no session starts at the requested time")
	}

	if err := s.checkBookingWindow(day, slot.SessionStart); err != nil {
		return nil, err
	}

	taken, err := s.repo.CountActiveSlot(ctx, req.Date, req.StartTime, req.TankIndex)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check slot")
	}
	if taken > 0 {
		return nil, appErrors.Clone(appErrors.ErrSlotUnavailable, "slot is already booked")
	}

	price, err := s.resolvePrice(ctx, req.PackageID, settingsRow.DefaultFloatPriceCents)
	if err != nil {
		return nil, err
	}

	now := s.now()
	appointment := &models.Appointment{
		ID:         uuid.NewString(),
		UserID:     actor.UserID,
		PackageID:  req.PackageID,
		Date:       req.Date,
		StartTime:  slot.StartTime(),
		EndTime:    slot.EndTime(),
		TankIndex:  req.TankIndex,
		Status:     models.AppointmentBooked,
		PriceCents: price,
		Notes:      req.Notes,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	snapshot := s.daySnapshot(req.Date, stored, summary, now)
	if err := s.repo.CreateWithReservation(ctx, appointment, snapshot); err != nil {
		if errors.Is(err, repository.ErrNoCapacity) {
			s.metrics.RecordBooking("sold_out")
			return nil, appErrors.Clone(appErrors.ErrSlotUnavailable, "day capacity was taken by another booking")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to book appointment")
	}
	s.metrics.RecordBooking("created")

	if s.cache != nil {
		s.cache.InvalidateSchedule(ctx)
	}
	s.emitAudit(actor, models.AuditActionBookingCreate, appointment.ID,
		fmt.Sprintf("date=%s start=%s tank=%d", appointment.Date, appointment.StartTime, appointment.TankIndex))
	return appointment, nil
}

// Cancel releases one booked slot. Clients may only cancel their own
// appointments; admins may cancel any.
func (s *AppointmentService) Cancel(ctx context.Context, id string, actor *models.JWTClaims) error {
	if actor == nil {
		return appErrors.ErrUnauthorized
	}
	appointment, err := s.getOwned(ctx, id, actor)
	if err != nil {
		return err
	}
	if appointment.Status != models.AppointmentBooked {
		return appErrors.Clone(appErrors.ErrConflict, "only booked appointments can be cancelled")
	}

	if err := s.repo.CancelWithRelease(ctx, id, s.now()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrConflict, "appointment is no longer booked")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to cancel appointment")
	}

	s.metrics.RecordBooking("cancelled")
	if s.cache != nil {
		s.cache.InvalidateSchedule(ctx)
	}
	s.emitAudit(actor, models.AuditActionBookingCancel, id,
		fmt.Sprintf("date=%s start=%s", appointment.Date, appointment.StartTime))
	return nil
}

// Get returns one appointment, enforcing ownership for clients.
func (s *AppointmentService) Get(ctx context.Context, id string, actor *models.JWTClaims) (*models.Appointment, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	return s.getOwned(ctx, id, actor)
}

// List returns appointments matching the filter. Clients are always
// scoped to their own bookings.
func (s *AppointmentService) List(ctx context.Context, filter models.AppointmentFilter, actor *models.JWTClaims) ([]models.Appointment, int, error) {
	if actor == nil {
		return nil, 0, appErrors.ErrUnauthorized
	}
	if actor.Role != models.RoleAdmin {
		id := actor.UserID
		filter.UserID = &id
	}
	appointments, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list appointments")
	}
	return appointments, total, nil
}

// UpdateStatus marks an appointment COMPLETED or NO_SHOW. Admin only.
func (s *AppointmentService) UpdateStatus(ctx context.Context, id string, status models.AppointmentStatus, actor *models.JWTClaims) error {
	if actor == nil || actor.Role != models.RoleAdmin {
		return appErrors.ErrForbidden
	}
	if status != models.AppointmentCompleted && status != models.AppointmentNoShow {
		return appErrors.Clone(appErrors.ErrValidation, "status must be COMPLETED or NO_SHOW")
	}
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return appErrors.Clone(appErrors.ErrNotFound, "appointment not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update appointment")
	}
	return nil
}

func (s *AppointmentService) getOwned(ctx context.Context, id string, actor *models.JWTClaims) (*models.Appointment, error) {
	appointment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "appointment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load appointment")
	}
	if actor.Role != models.RoleAdmin && appointment.UserID != actor.UserID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "appointment belongs to another user")
	}
	return appointment, nil
}

// checkBookingWindow enforces minimum notice and the advance horizon.
// Slot offsets are facility-local wall-clock minutes, so midnight is
// anchored in the facility timezone before comparing against now.
// Offsets past 1439 belong to the following calendar day.
func (s *AppointmentService) checkBookingWindow(day time.Time, startOffset int) error {
	startAt := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, s.config.Location).
		Add(time.Duration(startOffset) * time.Minute)
	now := s.now()
	if startAt.Before(now.Add(time.Duration(s.config.MinNoticeMinutes) * time.Minute)) {
		return appErrors.Clone(appErrors.ErrValidation,
			fmt.Sprintf("bookings require at least %d minutes notice", s.config.MinNoticeMinutes))
	}
	if startAt.After(now.AddDate(0, 0, s.config.AdvanceBookingDays)) {
		return appErrors.Clone(appErrors.ErrValidation,
			fmt.Sprintf("bookings open %d days in advance", s.config.AdvanceBookingDays))
	}
	return nil
}

func (s *AppointmentService) resolvePrice(ctx context.Context, packageID *string, defaultPrice int64) (int64, error) {
	if packageID == nil {
		return defaultPrice, nil
	}
	pkg, err := s.packages.GetByID(ctx, *packageID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, appErrors.Clone(appErrors.ErrNotFound, "package not found")
		}
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load package")
	}
	if !pkg.Active {
		return 0, appErrors.Clone(appErrors.ErrValidation, "package is not active")
	}
	if pkg.SessionCount <= 0 {
		return pkg.PriceCents, nil
	}
	return pkg.PriceCents / int64(pkg.SessionCount), nil
}

// daySnapshot is the override row seeded for a date booked for the first
// time: the engine's computed capacity becomes the stored sell target.
func (s *AppointmentService) daySnapshot(date string, stored *models.ScheduleOverride, summary scheduling.FacilityDaySummary, now time.Time) *models.ScheduleOverride {
	if stored != nil {
		return stored
	}
	return &models.ScheduleOverride{
		Date:           date,
		Status:         string(scheduling.StatusBookable),
		SessionsToSell: summary.TotalSlots,
		BookedSessions: 0,
		UpdatedAt:      now,
	}
}

func findSlot(slots []scheduling.Slot, tankIndex int, startTime string) (scheduling.Slot, bool) {
	for _, slot := range slots {
		if slot.ResourceIndex == tankIndex && slot.StartTime() == startTime {
			return slot, true
		}
	}
	return scheduling.Slot{}, false
}

func (s *AppointmentService) emitAudit(actor *models.JWTClaims, action, id, detail string) {
	if s.audit == nil {
		return
	}
	s.audit.Record(models.AuditLog{
		UserID:   userIDPtr(actor),
		Action:   action,
		Entity:   "appointment",
		EntityID: &id,
		Detail:   &detail,
	})
}
