package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/floatlab/booking-api/internal/models"
)

// SettingsRepository persists the single-row facility configuration.
type SettingsRepository struct {
	db *sqlx.DB
}

// NewSettingsRepository constructs the repository.
func NewSettingsRepository(db *sqlx.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Get fetches the facility settings row.
func (r *SettingsRepository) Get(ctx context.Context) (*models.FacilitySettings, error) {
	const query = `SELECT id, default_float_price_cents, session_duration_minutes, cleaning_buffer_minutes,
sessions_per_day, open_time, close_time, number_of_tanks, tank_stagger_interval_minutes, updated_by, updated_at
FROM facility_settings WHERE id = 1`
	var settings models.FacilitySettings
	if err := r.db.GetContext(ctx, &settings, query); err != nil {
		return nil, err
	}
	return &settings, nil
}

// Upsert replaces the facility settings row.
func (r *SettingsRepository) Upsert(ctx context.Context, settings *models.FacilitySettings) error {
	const query = `INSERT INTO facility_settings
(id, default_float_price_cents, session_duration_minutes, cleaning_buffer_minutes, sessions_per_day,
 open_time, close_time, number_of_tanks, tank_stagger_interval_minutes, updated_by, updated_at)
VALUES (1, :default_float_price_cents, :session_duration_minutes, :cleaning_buffer_minutes, :sessions_per_day,
 :open_time, :close_time, :number_of_tanks, :tank_stagger_interval_minutes, :updated_by, :updated_at)
ON CONFLICT (id)
DO UPDATE SET default_float_price_cents = EXCLUDED.default_float_price_cents,
              session_duration_minutes = EXCLUDED.session_duration_minutes,
              cleaning_buffer_minutes = EXCLUDED.cleaning_buffer_minutes,
              sessions_per_day = EXCLUDED.sessions_per_day,
              open_time = EXCLUDED.open_time,
              close_time = EXCLUDED.close_time,
              number_of_tanks = EXCLUDED.number_of_tanks,
              tank_stagger_interval_minutes = EXCLUDED.tank_stagger_interval_minutes,
              updated_by = EXCLUDED.updated_by,
              updated_at = EXCLUDED.updated_at`
	settings.ID = 1
	settings.UpdatedAt = time.Now().UTC()
	if _, err := r.db.NamedExecContext(ctx, query, settings); err != nil {
		return fmt.Errorf("upsert facility settings: %w", err)
	}
	return nil
}
