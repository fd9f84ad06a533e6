package models

import "time"

// FacilitySettings is the single-row facility configuration that feeds the
// scheduling engine on any date without a stored override.
type FacilitySettings struct {
	ID                         int       `db:"id" json:"-"`
	DefaultFloatPriceCents     int64     `db:"default_float_price_cents" json:"default_float_price_cents"`
	SessionDurationMinutes     int       `db:"session_duration_minutes" json:"session_duration_minutes"`
	CleaningBufferMinutes      int       `db:"cleaning_buffer_minutes" json:"cleaning_buffer_minutes"`
	SessionsPerDay             int       `db:"sessions_per_day" json:"sessions_per_day"`
	OpenTime                   string    `db:"open_time" json:"open_time"`
	CloseTime                  string    `db:"close_time" json:"close_time"`
	NumberOfTanks              int       `db:"number_of_tanks" json:"number_of_tanks"`
	TankStaggerIntervalMinutes int       `db:"tank_stagger_interval_minutes" json:"tank_stagger_interval_minutes"`
	UpdatedBy                  *string   `db:"updated_by" json:"updated_by,omitempty"`
	UpdatedAt                  time.Time `db:"updated_at" json:"updated_at"`
}
