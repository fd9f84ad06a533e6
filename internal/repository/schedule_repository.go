package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/floatlab/booking-api/internal/models"
)

// ScheduleRepository persists per-date schedule overrides.
type ScheduleRepository struct {
	db *sqlx.DB
}

// NewScheduleRepository constructs the repository.
func NewScheduleRepository(db *sqlx.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

const overrideColumns = `date, status, open_time, close_time, sessions_to_sell, booked_sessions, note, updated_by, updated_at`

// GetByDate fetches the override for one date.
func (r *ScheduleRepository) GetByDate(ctx context.Context, date string) (*models.ScheduleOverride, error) {
	query := fmt.Sprintf(`SELECT %s FROM schedule_overrides WHERE date = $1`, overrideColumns)
	var override models.ScheduleOverride
	if err := r.db.GetContext(ctx, &override, query, date); err != nil {
		return nil, err
	}
	return &override, nil
}

// ListRange returns overrides with start <= date < end, ascending.
func (r *ScheduleRepository) ListRange(ctx context.Context, start, end string) ([]models.ScheduleOverride, error) {
	query := fmt.Sprintf(`SELECT %s FROM schedule_overrides WHERE date >= $1 AND date < $2 ORDER BY date ASC`, overrideColumns)
	var overrides []models.ScheduleOverride
	if err := r.db.SelectContext(ctx, &overrides, query, start, end); err != nil {
		return nil, fmt.Errorf("list schedule overrides: %w", err)
	}
	return overrides, nil
}

// Upsert inserts or replaces the override for one date.
func (r *ScheduleRepository) Upsert(ctx context.Context, override *models.ScheduleOverride) error {
	const query = `INSERT INTO schedule_overrides (date, status, open_time, close_time, sessions_to_sell, booked_sessions, note, updated_by, updated_at)
VALUES (:date, :status, :open_time, :close_time, :sessions_to_sell, :booked_sessions, :note, :updated_by, :updated_at)
ON CONFLICT (date)
DO UPDATE SET status = EXCLUDED.status, open_time = EXCLUDED.open_time, close_time = EXCLUDED.close_time,
              sessions_to_sell = EXCLUDED.sessions_to_sell, booked_sessions = EXCLUDED.booked_sessions,
              note = EXCLUDED.note, updated_by = EXCLUDED.updated_by, updated_at = EXCLUDED.updated_at`
	override.UpdatedAt = time.Now().UTC()
	if _, err := r.db.NamedExecContext(ctx, query, override); err != nil {
		return fmt.Errorf("upsert schedule override: %w", err)
	}
	return nil
}

// Delete removes the override for one date, restoring defaults.
func (r *ScheduleRepository) Delete(ctx context.Context, date string) error {
	const query = `DELETE FROM schedule_overrides WHERE date = $1`
	result, err := r.db.ExecContext(ctx, query, date)
	if err != nil {
		return fmt.Errorf("delete schedule override: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete schedule override: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
