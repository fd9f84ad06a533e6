package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/floatlab/booking-api/internal/models"
)

func testBookingSnapshot(date string) *models.ScheduleOverride {
	return &models.ScheduleOverride{
		Date:           date,
		Status:         "BOOKABLE",
		SessionsToSell: 16,
		BookedSessions: 0,
		UpdatedAt:      time.Now().UTC(),
	}
}

func testAppointment(date string) *models.Appointment {
	now := time.Now().UTC()
	return &models.Appointment{
		ID:         "apt-1",
		UserID:     "user-1",
		Date:       date,
		StartTime:  "10:30",
		EndTime:    "11:30",
		TankIndex:  0,
		Status:     models.AppointmentBooked,
		PriceCents: 8500,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func TestAppointmentRepositoryCreateWithReservation(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewAppointmentRepository(db)
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO schedule_overrides").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("UPDATE schedule_overrides").
		WithArgs("2026-09-01", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO appointments").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := repo.CreateWithReservation(context.Background(), testAppointment("2026-09-01"), testBookingSnapshot("2026-09-01"))
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppointmentRepositoryCreateWithReservationSoldOut(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewAppointmentRepository(db)
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO schedule_overrides").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("UPDATE schedule_overrides").
		WithArgs("2026-09-01", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.CreateWithReservation(context.Background(), testAppointment("2026-09-01"), testBookingSnapshot("2026-09-01"))
	assert.ErrorIs(t, err, ErrNoCapacity)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppointmentRepositoryCancelWithRelease(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewAppointmentRepository(db)
	cancelledAt := time.Now().UTC()
	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE appointments").
		WithArgs("apt-1", cancelledAt).
		WillReturnRows(sqlmock.NewRows([]string{"date"}).AddRow("2026-09-01"))
	mock.ExpectExec("UPDATE schedule_overrides").
		WithArgs("2026-09-01", cancelledAt).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.CancelWithRelease(context.Background(), "apt-1", cancelledAt)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppointmentRepositoryList(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewAppointmentRepository(db)
	mock.ExpectQuery("SELECT COUNT").
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	rows := sqlmock.NewRows([]string{"id", "user_id", "package_id", "date", "start_time", "end_time", "tank_index", "status", "price_cents", "notes", "cancelled_at", "created_at", "updated_at"}).
		AddRow("apt-1", "user-1", nil, "2026-09-01", "10:30", "11:30", 0, "BOOKED", 8500, nil, nil, time.Now(), time.Now())
	mock.ExpectQuery("SELECT id, user_id").
		WithArgs("user-1", 20, 0).
		WillReturnRows(rows)

	userID := "user-1"
	result, total, err := repo.List(context.Background(), models.AppointmentFilter{UserID: &userID, Page: 1, PageSize: 20})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, result, 1)
	assert.Equal(t, "10:30", result[0].StartTime)
}

func TestAppointmentRepositoryCountActiveSlot(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewAppointmentRepository(db)
	mock.ExpectQuery("SELECT COUNT").
		WithArgs("2026-09-01", "10:30", 0).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	count, err := repo.CountActiveSlot(context.Background(), "2026-09-01", "10:30", 0)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
