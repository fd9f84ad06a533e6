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
	"github.com/floatlab/booking-api/internal/repository"
	"github.com/floatlab/booking-api/internal/scheduling"
	appErrors "github.com/floatlab/booking-api/pkg/errors"
	"github.com/floatlab/booking-api/pkg/export"
)

type scheduleOverrideRepository interface {
	GetByDate(ctx context.Context, date string) (*models.ScheduleOverride, error)
	ListRange(ctx context.Context, start, end string) ([]models.ScheduleOverride, error)
	Upsert(ctx context.Context, override *models.ScheduleOverride) error
	Delete(ctx context.Context, date string) error
}

type scheduleSettingsReader interface {
	Get(ctx context.Context) (*models.FacilitySettings, error)
}

type scheduleCacheStore interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// ScheduleServiceConfig tunes range expansion and caching.
type ScheduleServiceConfig struct {
	CacheEnabled bool
	CacheTTL     time.Duration
	MaxRangeDays int
}

const scheduleCachePrefix = "schedule:range:"

// ScheduleService exposes the booking calendar: expanded day ranges,
// per-day slot lists, override management and front-desk exports.
type ScheduleService struct {
	overrides scheduleOverrideRepository
	settings  scheduleSettingsReader
	cache     scheduleCacheStore
	audit     auditRecorder
	validator *validator.Validate
	logger    *zap.Logger
	config    ScheduleServiceConfig
	metrics   *MetricsService

	csv *export.CSVExporter
	pdf *export.PDFExporter
}

// NewScheduleService constructs a ScheduleService.
func NewScheduleService(overrides scheduleOverrideRepository, settings scheduleSettingsReader, cache scheduleCacheStore, audit auditRecorder, validate *validator.Validate, logger *zap.Logger, cfg ScheduleServiceConfig) *ScheduleService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxRangeDays <= 0 {
		cfg.MaxRangeDays = 62
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	return &ScheduleService{
		overrides: overrides,
		settings:  settings,
		cache:     cache,
		audit:     audit,
		validator: validate,
		logger:    logger,
		config:    cfg,
		csv:       export.NewCSVExporter(),
		pdf:       export.NewPDFExporter(),
	}
}

// WithMetrics attaches Prometheus instrumentation. Safe to skip in tests.
func (s *ScheduleService) WithMetrics(metrics *MetricsService) *ScheduleService {
	s.metrics = metrics
	return s
}

// GetMonth expands one calendar month into day summaries.
func (s *ScheduleService) GetMonth(ctx context.Context, year int, month time.Month) ([]dto.DaySummaryItem, error) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)
	return s.GetRange(ctx, start.Format(scheduling.DateLayout), end.Format(scheduling.DateLayout))
}

// GetRange expands [start, end) into day summaries, serving from cache
// when a previous identical expansion is still fresh.
func (s *ScheduleService) GetRange(ctx context.Context, start, end string) ([]dto.DaySummaryItem, error) {
	startDay, endDay, err := s.parseRange(start, end)
	if err != nil {
		return nil, err
	}

	cacheKey := scheduleCachePrefix + start + ":" + end
	if s.cacheEnabled() {
		var cached []dto.DaySummaryItem
		if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
			s.metrics.RecordCacheLookup(true)
			return cached, nil
		} else if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("schedule cache read failed", zap.Error(err))
		}
		s.metrics.RecordCacheLookup(false)
	}

	computeStart := time.Now()
	items, err := s.expand(ctx, startDay, endDay)
	if err != nil {
		return nil, err
	}
	s.metrics.ObserveSlotComputation(time.Since(computeStart))

	if s.cacheEnabled() {
		if err := s.cache.Set(ctx, cacheKey, items, s.config.CacheTTL); err != nil {
			s.logger.Warn("schedule cache write failed", zap.Error(err))
		}
	}
	return items, nil
}

// GetDaySlots returns one day's capacity summary plus its full slot list.
func (s *ScheduleService) GetDaySlots(ctx context.Context, date string) (*dto.DaySlotsResponse, error) {
	if _, err := time.Parse(scheduling.DateLayout, date); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date must be YYYY-MM-DD")
	}

	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	defaults := defaultsFromSettings(settings)

	stored, note, err := s.loadOverride(ctx, date)
	if err != nil {
		return nil, err
	}

	summary, slots, err := scheduling.ComputeFacilitySummary(date, defaults.Window, defaults.Policy, defaults.Resources, stored)
	if err != nil {
		return nil, err
	}

	resp := &dto.DaySlotsResponse{Day: daySummaryItem(summary, note)}
	resp.Slots = make([]dto.DaySlotItem, 0, len(slots))
	for _, slot := range slots {
		resp.Slots = append(resp.Slots, dto.DaySlotItem{
			TankIndex:       slot.ResourceIndex,
			SequenceNumber:  slot.SequenceNumber,
			StartTime:       slot.StartTime(),
			EndTime:         slot.EndTime(),
			CleaningEndTime: slot.CleaningEndTime(),
		})
	}
	return resp, nil
}

// UpsertOverride creates or replaces the override for one date. Omitted
// capacity fields are filled from the computed default capacity on create
// and preserved from the stored row on update.
func (s *ScheduleService) UpsertOverride(ctx context.Context, date string, req dto.UpsertOverrideRequest, actor *models.JWTClaims) (*models.ScheduleOverride, error) {
	if _, err := time.Parse(scheduling.DateLayout, date); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date must be YYYY-MM-DD")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid override payload")
	}

	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	defaults := defaultsFromSettings(settings)

	existing, err := s.overrides.GetByDate(ctx, date)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load existing override")
	}

	override := &models.ScheduleOverride{
		Date:      date,
		Status:    req.Status,
		OpenTime:  req.OpenTime,
		CloseTime: req.CloseTime,
		Note:      req.Note,
		UpdatedBy: userIDPtr(actor),
	}
	if existing != nil {
		if override.OpenTime == nil {
			override.OpenTime = existing.OpenTime
		}
		if override.CloseTime == nil {
			override.CloseTime = existing.CloseTime
		}
		override.BookedSessions = existing.BookedSessions
		override.SessionsToSell = existing.SessionsToSell
	}
	if req.SessionsToSell != nil {
		override.SessionsToSell = *req.SessionsToSell
	}
	if req.BookedSessions != nil {
		override.BookedSessions = *req.BookedSessions
	}

	// Run the day through the engine before saving: this rejects malformed
	// times and fills the default capacity for a brand-new bookable override.
	summary, _, err := scheduling.ComputeFacilitySummary(date, defaults.Window, defaults.Policy, defaults.Resources, overrideToScheduling(override))
	if err != nil {
		return nil, err
	}
	if existing == nil && req.SessionsToSell == nil && override.Status != string(scheduling.StatusClosed) {
		override.SessionsToSell = summary.SlotsPerResource * defaults.Resources.ResourceCount
	}

	if err := s.overrides.Upsert(ctx, override); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save override")
	}

	s.InvalidateSchedule(ctx)
	s.emitAudit(actor, models.AuditActionOverrideUpsert, date,
		fmt.Sprintf("status=%s sell=%d booked=%d", override.Status, override.SessionsToSell, override.BookedSessions))
	return override, nil
}

// DeleteOverride removes the override for one date, restoring defaults.
func (s *ScheduleService) DeleteOverride(ctx context.Context, date string, actor *models.JWTClaims) error {
	if _, err := time.Parse(scheduling.DateLayout, date); err != nil {
		return appErrors.Clone(appErrors.ErrValidation, "date must be YYYY-MM-DD")
	}
	if err := s.overrides.Delete(ctx, date); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return appErrors.Clone(appErrors.ErrNotFound, "no override stored for date")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete override")
	}
	s.InvalidateSchedule(ctx)
	s.emitAudit(actor, models.AuditActionOverrideDelete, date, "override removed")
	return nil
}

// ExportRangeCSV renders a date range as CSV for the front desk.
func (s *ScheduleService) ExportRangeCSV(ctx context.Context, start, end string) ([]byte, error) {
	dataset, err := s.exportDataset(ctx, start, end)
	if err != nil {
		return nil, err
	}
	return s.csv.Render(*dataset)
}

// ExportRangePDF renders a date range as a printable PDF.
func (s *ScheduleService) ExportRangePDF(ctx context.Context, start, end string) ([]byte, error) {
	dataset, err := s.exportDataset(ctx, start, end)
	if err != nil {
		return nil, err
	}
	title := fmt.Sprintf("Schedule %s to %s", start, end)
	return s.pdf.Render(*dataset, title)
}

// InvalidateSchedule drops every cached range expansion.
func (s *ScheduleService) InvalidateSchedule(ctx context.Context) {
	if !s.cacheEnabled() {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, scheduleCachePrefix+"*"); err != nil {
		s.logger.Warn("schedule cache invalidation failed", zap.Error(err))
	}
}

func (s *ScheduleService) cacheEnabled() bool {
	return s.config.CacheEnabled && s.cache != nil
}

func (s *ScheduleService) parseRange(start, end string) (time.Time, time.Time, error) {
	startDay, err := time.Parse(scheduling.DateLayout, start)
	if err != nil {
		return time.Time{}, time.Time{}, appErrors.Clone(appErrors.ErrValidation, "start must be YYYY-MM-DD")
	}
	endDay, err := time.Parse(scheduling.DateLayout, end)
	if err != nil {
		return time.Time{}, time.Time{}, appErrors.Clone(appErrors.ErrValidation, "end must be YYYY-MM-DD")
	}
	if !endDay.After(startDay) {
		return time.Time{}, time.Time{}, appErrors.Clone(appErrors.ErrValidation, "end must be after start")
	}
	if int(endDay.Sub(startDay).Hours()/24) > s.config.MaxRangeDays {
		return time.Time{}, time.Time{}, appErrors.Clone(appErrors.ErrValidation,
			fmt.Sprintf("range must not exceed %d days", s.config.MaxRangeDays))
	}
	return startDay, endDay, nil
}

func (s *ScheduleService) expand(ctx context.Context, startDay, endDay time.Time) ([]dto.DaySummaryItem, error) {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	defaults := defaultsFromSettings(settings)

	rows, err := s.overrides.ListRange(ctx, startDay.Format(scheduling.DateLayout), endDay.Format(scheduling.DateLayout))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load overrides")
	}

	overridesByDate := make(map[string]scheduling.DayOverride, len(rows))
	notesByDate := make(map[string]*string, len(rows))
	for _, row := range rows {
		overridesByDate[row.Date] = *overrideToScheduling(&row)
		notesByDate[row.Date] = row.Note
	}

	summaries, err := scheduling.ExpandRange(startDay, endDay, defaults, overridesByDate)
	if err != nil {
		return nil, err
	}

	items := make([]dto.DaySummaryItem, 0, len(summaries))
	for _, summary := range summaries {
		items = append(items, daySummaryItem(summary, notesByDate[summary.Date]))
	}
	return items, nil
}

func (s *ScheduleService) exportDataset(ctx context.Context, start, end string) (*export.Dataset, error) {
	items, err := s.GetRange(ctx, start, end)
	if err != nil {
		return nil, err
	}
	headers := []string{"Date", "Status", "Open", "Close", "Actual Close", "Capacity", "Booked", "Available"}
	rows := make([]map[string]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, map[string]string{
			"Date":         item.Date,
			"Status":       item.Status,
			"Open":         item.OpenTime,
			"Close":        item.CloseTime,
			"Actual Close": item.ActualCloseTime,
			"Capacity":     fmt.Sprintf("%d", item.TotalSlots),
			"Booked":       fmt.Sprintf("%d", item.TotalBooked),
			"Available":    fmt.Sprintf("%d", item.AvailableSlots),
		})
	}
	return &export.Dataset{Headers: headers, Rows: rows}, nil
}

func (s *ScheduleService) loadOverride(ctx context.Context, date string) (*scheduling.DayOverride, *string, error) {
	row, err := s.overrides.GetByDate(ctx, date)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, nil
		}
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load override")
	}
	return overrideToScheduling(row), row.Note, nil
}

func (s *ScheduleService) emitAudit(actor *models.JWTClaims, action, date, detail string) {
	if s.audit == nil {
		return
	}
	s.audit.Record(models.AuditLog{
		UserID:   userIDPtr(actor),
		Action:   action,
		Entity:   "schedule_override",
		EntityID: &date,
		Detail:   &detail,
	})
}

func overrideToScheduling(row *models.ScheduleOverride) *scheduling.DayOverride {
	return &scheduling.DayOverride{
		Date:           row.Date,
		Status:         scheduling.DayStatus(row.Status),
		OpenTime:       row.OpenTime,
		CloseTime:      row.CloseTime,
		SessionsToSell: row.SessionsToSell,
		BookedSessions: row.BookedSessions,
	}
}

func daySummaryItem(summary scheduling.FacilityDaySummary, note *string) dto.DaySummaryItem {
	return dto.DaySummaryItem{
		Date:            summary.Date,
		Status:          string(summary.Status),
		OpenTime:        summary.EffectiveWindow.OpenTime,
		CloseTime:       summary.EffectiveWindow.CloseTime,
		SlotsPerTank:    summary.SlotsPerResource,
		TotalSlots:      summary.TotalSlots,
		TotalBooked:     summary.TotalBooked,
		AvailableSlots:  summary.AvailableSlots,
		ActualCloseTime: summary.ActualCloseTime,
		HasOverride:     summary.HasOverride,
		Note:            note,
	}
}
