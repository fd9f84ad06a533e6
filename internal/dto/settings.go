package dto

// UpdateSettingsRequest replaces the facility defaults. All fields are
// required so an admin cannot accidentally zero a value by omission.
type UpdateSettingsRequest struct {
	DefaultFloatPriceCents     int64  `json:"default_float_price_cents" validate:"min=0"`
	SessionDurationMinutes     int    `json:"session_duration_minutes" validate:"required,min=1"`
	CleaningBufferMinutes      int    `json:"cleaning_buffer_minutes" validate:"min=0"`
	SessionsPerDay             int    `json:"sessions_per_day" validate:"min=0"`
	OpenTime                   string `json:"open_time" validate:"required"`
	CloseTime                  string `json:"close_time" validate:"required"`
	NumberOfTanks              int    `json:"number_of_tanks" validate:"required,min=1"`
	TankStaggerIntervalMinutes int    `json:"tank_stagger_interval_minutes" validate:"min=0"`
}

// SettingsPreview echoes the capacity a settings change would produce, so
// admins see the slot math before saving.
type SettingsPreview struct {
	SlotsPerTank    int    `json:"slots_per_tank"`
	TotalSlots      int    `json:"total_slots"`
	ActualCloseTime string `json:"actual_close_time"`
}
