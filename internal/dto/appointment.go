package dto

// CreateAppointmentRequest books one session slot.
type CreateAppointmentRequest struct {
	Date      string  `json:"date" validate:"required"`
	StartTime string  `json:"start_time" validate:"required"`
	TankIndex int     `json:"tank_index" validate:"min=0"`
	PackageID *string `json:"package_id,omitempty"`
	Notes     *string `json:"notes,omitempty"`
}
