package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/floatlab/booking-api/internal/dto"
	"github.com/floatlab/booking-api/internal/models"
	"github.com/floatlab/booking-api/internal/repository"
	appErrors "github.com/floatlab/booking-api/pkg/errors"
)

type stubOverrideRepo struct {
	byDate    map[string]models.ScheduleOverride
	upserted  *models.ScheduleOverride
	deleted   []string
	deleteErr error
}

func (s *stubOverrideRepo) GetByDate(ctx context.Context, date string) (*models.ScheduleOverride, error) {
	if row, ok := s.byDate[date]; ok {
		return &row, nil
	}
	return nil, sql.ErrNoRows
}

func (s *stubOverrideRepo) ListRange(ctx context.Context, start, end string) ([]models.ScheduleOverride, error) {
	rows := make([]models.ScheduleOverride, 0)
	for date, row := range s.byDate {
		if date >= start && date < end {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

func (s *stubOverrideRepo) Upsert(ctx context.Context, override *models.ScheduleOverride) error {
	s.upserted = override
	if s.byDate == nil {
		s.byDate = map[string]models.ScheduleOverride{}
	}
	s.byDate[override.Date] = *override
	return nil
}

func (s *stubOverrideRepo) Delete(ctx context.Context, date string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.deleted = append(s.deleted, date)
	return nil
}

type stubSettingsReader struct {
	settings models.FacilitySettings
}

func (s *stubSettingsReader) Get(ctx context.Context) (*models.FacilitySettings, error) {
	row := s.settings
	return &row, nil
}

type stubCacheStore struct {
	store  map[string][]byte
	hits   int
	misses int
}

func (s *stubCacheStore) Get(ctx context.Context, key string, dest interface{}) error {
	payload, ok := s.store[key]
	if !ok {
		s.misses++
		return appErrors.ErrCacheMiss
	}
	s.hits++
	return json.Unmarshal(payload, dest)
}

func (s *stubCacheStore) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if s.store == nil {
		s.store = map[string][]byte{}
	}
	s.store[key] = payload
	return nil
}

func (s *stubCacheStore) DeleteByPattern(ctx context.Context, pattern string) error {
	s.store = map[string][]byte{}
	return nil
}

func defaultTestSettings() models.FacilitySettings {
	return models.FacilitySettings{
		DefaultFloatPriceCents:     8500,
		SessionDurationMinutes:     60,
		CleaningBufferMinutes:      30,
		OpenTime:                   "09:00",
		CloseTime:                  "21:00",
		NumberOfTanks:              2,
		TankStaggerIntervalMinutes: 0,
	}
}

func newTestScheduleService(overrides *stubOverrideRepo, cache *stubCacheStore) *ScheduleService {
	return NewScheduleService(
		overrides,
		&stubSettingsReader{settings: defaultTestSettings()},
		cache,
		nil, nil, nil,
		ScheduleServiceConfig{CacheEnabled: cache != nil, CacheTTL: time.Minute, MaxRangeDays: 62},
	)
}

func TestScheduleServiceGetRangeExpandsDefaults(t *testing.T) {
	svc := newTestScheduleService(&stubOverrideRepo{}, nil)

	items, err := svc.GetRange(context.Background(), "2026-09-01", "2026-09-04")
	require.NoError(t, err)
	require.Len(t, items, 3)
	for _, item := range items {
		assert.Equal(t, "BOOKABLE", item.Status)
		assert.Equal(t, 8, item.SlotsPerTank)
		assert.Equal(t, 16, item.TotalSlots)
		assert.Equal(t, 16, item.AvailableSlots)
		assert.False(t, item.HasOverride)
	}
}

func TestScheduleServiceGetRangeAppliesOverrides(t *testing.T) {
	overrides := &stubOverrideRepo{byDate: map[string]models.ScheduleOverride{
		"2026-09-02": {Date: "2026-09-02", Status: "CLOSED"},
		"2026-09-03": {Date: "2026-09-03", Status: "BOOKABLE", SessionsToSell: 10, BookedSessions: 10},
	}}
	svc := newTestScheduleService(overrides, nil)

	items, err := svc.GetRange(context.Background(), "2026-09-01", "2026-09-04")
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "BOOKABLE", items[0].Status)
	assert.Equal(t, "CLOSED", items[1].Status)
	assert.Equal(t, 0, items[1].TotalSlots)
	assert.Equal(t, "SOLD_OUT", items[2].Status)
	assert.Equal(t, 0, items[2].AvailableSlots)
	assert.True(t, items[2].HasOverride)
}

func TestScheduleServiceGetRangeServedFromCache(t *testing.T) {
	cache := &stubCacheStore{}
	svc := newTestScheduleService(&stubOverrideRepo{}, cache)

	_, err := svc.GetRange(context.Background(), "2026-09-01", "2026-09-03")
	require.NoError(t, err)
	assert.Equal(t, 1, cache.misses)

	items, err := svc.GetRange(context.Background(), "2026-09-01", "2026-09-03")
	require.NoError(t, err)
	assert.Equal(t, 1, cache.hits)
	require.Len(t, items, 2)
}

func TestScheduleServiceGetRangeRejectsOversizedRange(t *testing.T) {
	svc := newTestScheduleService(&stubOverrideRepo{}, nil)

	_, err := svc.GetRange(context.Background(), "2026-01-01", "2026-12-01")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestScheduleServiceGetMonth(t *testing.T) {
	svc := newTestScheduleService(&stubOverrideRepo{}, nil)

	items, err := svc.GetMonth(context.Background(), 2026, time.September)
	require.NoError(t, err)
	require.Len(t, items, 30)
	assert.Equal(t, "2026-09-01", items[0].Date)
	assert.Equal(t, "2026-09-30", items[29].Date)
}

func TestScheduleServiceGetDaySlots(t *testing.T) {
	svc := newTestScheduleService(&stubOverrideRepo{}, nil)

	resp, err := svc.GetDaySlots(context.Background(), "2026-09-01")
	require.NoError(t, err)
	require.Len(t, resp.Slots, 16)
	assert.Equal(t, "09:00", resp.Slots[0].StartTime)
	assert.Equal(t, "10:00", resp.Slots[0].EndTime)
	assert.Equal(t, "10:30", resp.Slots[0].CleaningEndTime)
}

func TestScheduleServiceUpsertOverrideFillsDefaultCapacity(t *testing.T) {
	overrides := &stubOverrideRepo{}
	cache := &stubCacheStore{store: map[string][]byte{scheduleCachePrefix + "x": []byte("[]")}}
	svc := newTestScheduleService(overrides, cache)

	result, err := svc.UpsertOverride(context.Background(), "2026-09-01", dto.UpsertOverrideRequest{Status: "BOOKABLE"}, nil)
	require.NoError(t, err)
	assert.Equal(t, 16, result.SessionsToSell)
	assert.Equal(t, 0, result.BookedSessions)
	assert.Empty(t, cache.store, "writes must drop cached expansions")
}

func TestScheduleServiceUpsertOverridePreservesBookedCount(t *testing.T) {
	overrides := &stubOverrideRepo{byDate: map[string]models.ScheduleOverride{
		"2026-09-01": {Date: "2026-09-01", Status: "BOOKABLE", SessionsToSell: 16, BookedSessions: 5},
	}}
	svc := newTestScheduleService(overrides, nil)

	sell := 12
	result, err := svc.UpsertOverride(context.Background(), "2026-09-01", dto.UpsertOverrideRequest{
		Status:         "BOOKABLE",
		SessionsToSell: &sell,
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, 12, result.SessionsToSell)
	assert.Equal(t, 5, result.BookedSessions)
}

func TestScheduleServiceUpsertOverrideRejectsBadTime(t *testing.T) {
	svc := newTestScheduleService(&stubOverrideRepo{}, nil)

	open := "9am"
	_, err := svc.UpsertOverride(context.Background(), "2026-09-01", dto.UpsertOverrideRequest{
		Status:   "BOOKABLE",
		OpenTime: &open,
	}, nil)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidTimeFormat.Code, appErrors.FromError(err).Code)
}

func TestScheduleServiceDeleteOverrideNotFound(t *testing.T) {
	svc := newTestScheduleService(&stubOverrideRepo{deleteErr: repository.ErrNotFound}, nil)

	err := svc.DeleteOverride(context.Background(), "2026-09-01", nil)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestScheduleServiceExportCSV(t *testing.T) {
	svc := newTestScheduleService(&stubOverrideRepo{}, nil)

	payload, err := svc.ExportRangeCSV(context.Background(), "2026-09-01", "2026-09-03")
	require.NoError(t, err)
	assert.Contains(t, string(payload), "Date,Status,Open,Close")
	assert.Contains(t, string(payload), "2026-09-01,BOOKABLE")
}
