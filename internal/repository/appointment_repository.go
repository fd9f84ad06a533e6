package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/floatlab/booking-api/internal/models"
)

// AppointmentRepository persists appointments and keeps the per-day
// booked counter on schedule_overrides in step with them.
type AppointmentRepository struct {
	db *sqlx.DB
}

// NewAppointmentRepository constructs the repository.
func NewAppointmentRepository(db *sqlx.DB) *AppointmentRepository {
	return &AppointmentRepository{db: db}
}

const appointmentColumns = `id, user_id, package_id, date, start_time, end_time, tank_index, status, price_cents, notes, cancelled_at, created_at, updated_at`

// GetByID fetches one appointment.
func (r *AppointmentRepository) GetByID(ctx context.Context, id string) (*models.Appointment, error) {
	query := fmt.Sprintf(`SELECT %s FROM appointments WHERE id = $1`, appointmentColumns)
	var appointment models.Appointment
	if err := r.db.GetContext(ctx, &appointment, query, id); err != nil {
		return nil, err
	}
	return &appointment, nil
}

// List returns appointments matching the filter plus the total count.
func (r *AppointmentRepository) List(ctx context.Context, filter models.AppointmentFilter) ([]models.Appointment, int, error) {
	where := ` WHERE 1=1`
	args := []interface{}{}
	idx := 1
	if filter.UserID != nil {
		where += fmt.Sprintf(` AND user_id = $%d`, idx)
		args = append(args, *filter.UserID)
		idx++
	}
	if filter.Date != nil {
		where += fmt.Sprintf(` AND date = $%d`, idx)
		args = append(args, *filter.Date)
		idx++
	}
	if filter.StartDate != nil {
		where += fmt.Sprintf(` AND date >= $%d`, idx)
		args = append(args, *filter.StartDate)
		idx++
	}
	if filter.EndDate != nil {
		where += fmt.Sprintf(` AND date < $%d`, idx)
		args = append(args, *filter.EndDate)
		idx++
	}
	if filter.Status != nil {
		where += fmt.Sprintf(` AND status = $%d`, idx)
		args = append(args, *filter.Status)
		idx++
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM appointments` + where
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count appointments: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM appointments%s ORDER BY date ASC, start_time ASC`, appointmentColumns, where)
	if filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		if offset < 0 {
			offset = 0
		}
		query += fmt.Sprintf(` LIMIT $%d OFFSET $%d`, idx, idx+1)
		args = append(args, filter.PageSize, offset)
	}

	var appointments []models.Appointment
	if err := r.db.SelectContext(ctx, &appointments, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list appointments: %w", err)
	}
	return appointments, total, nil
}

// ListByDate returns active appointments on one date ordered by start time.
func (r *AppointmentRepository) ListByDate(ctx context.Context, date string) ([]models.Appointment, error) {
	query := fmt.Sprintf(`SELECT %s FROM appointments WHERE date = $1 AND status IN ('BOOKED', 'COMPLETED') ORDER BY start_time ASC, tank_index ASC`, appointmentColumns)
	var appointments []models.Appointment
	if err := r.db.SelectContext(ctx, &appointments, query, date); err != nil {
		return nil, fmt.Errorf("list appointments by date: %w", err)
	}
	return appointments, nil
}

// CountActiveSlot returns the number of active appointments holding one slot.
func (r *AppointmentRepository) CountActiveSlot(ctx context.Context, date, startTime string, tankIndex int) (int, error) {
	const query = `SELECT COUNT(*) FROM appointments
WHERE date = $1 AND start_time = $2 AND tank_index = $3 AND status IN ('BOOKED', 'COMPLETED')`
	var count int
	if err := r.db.GetContext(ctx, &count, query, date, startTime, tankIndex); err != nil {
		return 0, fmt.Errorf("count slot appointments: %w", err)
	}
	return count, nil
}

// CreateWithReservation books an appointment and takes one unit of day
// capacity in a single transaction. The day's override row is created
// from the supplied snapshot when it does not exist yet; the conditional
// increment then guarantees booked_sessions never passes sessions_to_sell
// even under concurrent bookings. Returns ErrNoCapacity when the day is
// closed or sold out.
func (r *AppointmentRepository) CreateWithReservation(ctx context.Context, appointment *models.Appointment, snapshot *models.ScheduleOverride) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin booking tx: %w", err)
	}
	defer tx.Rollback()

	const seed = `INSERT INTO schedule_overrides (date, status, open_time, close_time, sessions_to_sell, booked_sessions, note, updated_by, updated_at)
VALUES (:date, :status, :open_time, :close_time, :sessions_to_sell, :booked_sessions, :note, :updated_by, :updated_at)
ON CONFLICT (date) DO NOTHING`
	if _, err := tx.NamedExecContext(ctx, seed, snapshot); err != nil {
		return fmt.Errorf("seed day override: %w", err)
	}

	const reserve = `UPDATE schedule_overrides
SET booked_sessions = booked_sessions + 1, updated_at = $2
WHERE date = $1 AND status = 'BOOKABLE' AND booked_sessions < sessions_to_sell`
	result, err := tx.ExecContext(ctx, reserve, appointment.Date, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("reserve day capacity: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("reserve day capacity: %w", err)
	}
	if affected == 0 {
		return ErrNoCapacity
	}

	const insert = `INSERT INTO appointments (id, user_id, package_id, date, start_time, end_time, tank_index, status, price_cents, notes, cancelled_at, created_at, updated_at)
VALUES (:id, :user_id, :package_id, :date, :start_time, :end_time, :tank_index, :status, :price_cents, :notes, :cancelled_at, :created_at, :updated_at)`
	if _, err := tx.NamedExecContext(ctx, insert, appointment); err != nil {
		return fmt.Errorf("insert appointment: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit booking tx: %w", err)
	}
	return nil
}

// CancelWithRelease cancels an appointment and returns its unit of day
// capacity in a single transaction.
func (r *AppointmentRepository) CancelWithRelease(ctx context.Context, id string, cancelledAt time.Time) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin cancel tx: %w", err)
	}
	defer tx.Rollback()

	const cancel = `UPDATE appointments
SET status = 'CANCELLED', cancelled_at = $2, updated_at = $2
WHERE id = $1 AND status = 'BOOKED'
RETURNING date`
	var date string
	if err := tx.GetContext(ctx, &date, cancel, id, cancelledAt); err != nil {
		return err
	}

	const release = `UPDATE schedule_overrides
SET booked_sessions = GREATEST(booked_sessions - 1, 0), updated_at = $2
WHERE date = $1`
	if _, err := tx.ExecContext(ctx, release, date, cancelledAt); err != nil {
		return fmt.Errorf("release day capacity: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit cancel tx: %w", err)
	}
	return nil
}

// UpdateStatus marks an appointment COMPLETED or NO_SHOW.
func (r *AppointmentRepository) UpdateStatus(ctx context.Context, id string, status models.AppointmentStatus) error {
	const query = `UPDATE appointments SET status = $2, updated_at = $3 WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id, status, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update appointment status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update appointment status: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// CountByStatusRange aggregates appointment counts per status over a date range.
func (r *AppointmentRepository) CountByStatusRange(ctx context.Context, start, end string) (map[models.AppointmentStatus]int, error) {
	const query = `SELECT status, COUNT(*) AS count FROM appointments
WHERE date >= $1 AND date < $2 GROUP BY status`
	rows := []struct {
		Status models.AppointmentStatus `db:"status"`
		Count  int                      `db:"count"`
	}{}
	if err := r.db.SelectContext(ctx, &rows, query, start, end); err != nil {
		return nil, fmt.Errorf("count appointments by status: %w", err)
	}
	counts := make(map[models.AppointmentStatus]int, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// RevenueRange sums realized revenue over a date range. Cancelled and
// no-show appointments do not count.
func (r *AppointmentRepository) RevenueRange(ctx context.Context, start, end string) (int64, error) {
	const query = `SELECT COALESCE(SUM(price_cents), 0) FROM appointments
WHERE date >= $1 AND date < $2 AND status IN ('BOOKED', 'COMPLETED')`
	var total int64
	if err := r.db.GetContext(ctx, &total, query, start, end); err != nil {
		return 0, fmt.Errorf("sum appointment revenue: %w", err)
	}
	return total, nil
}
