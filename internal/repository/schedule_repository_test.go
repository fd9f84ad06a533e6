package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/floatlab/booking-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	sqlxDB := sqlx.NewDb(db, "postgres")
	return sqlxDB, mock, func() {
		sqlxDB.Close()
		db.Close()
	}
}

func strPtr(value string) *string {
	return &value
}

func TestScheduleRepositoryGetByDate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewScheduleRepository(db)
	rows := sqlmock.NewRows([]string{"date", "status", "open_time", "close_time", "sessions_to_sell", "booked_sessions", "note", "updated_by", "updated_at"}).
		AddRow("2026-09-01", "BOOKABLE", nil, nil, 16, 3, nil, "admin", time.Now())
	mock.ExpectQuery("SELECT date, status").
		WithArgs("2026-09-01").
		WillReturnRows(rows)

	override, err := repo.GetByDate(context.Background(), "2026-09-01")
	require.NoError(t, err)
	assert.Equal(t, "BOOKABLE", override.Status)
	assert.Equal(t, 16, override.SessionsToSell)
	assert.Equal(t, 3, override.BookedSessions)
	assert.Nil(t, override.OpenTime)
}

func TestScheduleRepositoryListRange(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewScheduleRepository(db)
	rows := sqlmock.NewRows([]string{"date", "status", "open_time", "close_time", "sessions_to_sell", "booked_sessions", "note", "updated_by", "updated_at"}).
		AddRow("2026-09-01", "CLOSED", nil, strPtr("14:00"), 0, 0, strPtr("maintenance"), "admin", time.Now()).
		AddRow("2026-09-03", "BOOKABLE", strPtr("12:00"), strPtr("18:00"), 8, 2, nil, "admin", time.Now())
	mock.ExpectQuery("SELECT date, status").
		WithArgs("2026-09-01", "2026-10-01").
		WillReturnRows(rows)

	overrides, err := repo.ListRange(context.Background(), "2026-09-01", "2026-10-01")
	require.NoError(t, err)
	require.Len(t, overrides, 2)
	assert.Equal(t, "CLOSED", overrides[0].Status)
	assert.Equal(t, "12:00", *overrides[1].OpenTime)
}

func TestScheduleRepositoryUpsert(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewScheduleRepository(db)
	mock.ExpectExec("INSERT INTO schedule_overrides").
		WithArgs("2026-09-01", "CLOSED", nil, nil, 0, 0, nil, "admin", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	override := &models.ScheduleOverride{
		Date:      "2026-09-01",
		Status:    "CLOSED",
		UpdatedBy: strPtr("admin"),
	}
	require.NoError(t, repo.Upsert(context.Background(), override))
	assert.False(t, override.UpdatedAt.IsZero())
}

func TestScheduleRepositoryDeleteMissing(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewScheduleRepository(db)
	mock.ExpectExec("DELETE FROM schedule_overrides").
		WithArgs("2026-09-01").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), "2026-09-01")
	assert.ErrorIs(t, err, ErrNotFound)
}
