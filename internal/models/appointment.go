package models

import "time"

// AppointmentStatus tracks an appointment through its lifecycle.
type AppointmentStatus string

const (
	AppointmentBooked    AppointmentStatus = "BOOKED"
	AppointmentCompleted AppointmentStatus = "COMPLETED"
	AppointmentCancelled AppointmentStatus = "CANCELLED"
	AppointmentNoShow    AppointmentStatus = "NO_SHOW"
)

// Active reports whether the status still occupies a slot.
func (s AppointmentStatus) Active() bool {
	return s == AppointmentBooked || s == AppointmentCompleted
}

// Appointment is one booked float session on one tank.
type Appointment struct {
	ID          string            `db:"id" json:"id"`
	UserID      string            `db:"user_id" json:"user_id"`
	PackageID   *string           `db:"package_id" json:"package_id,omitempty"`
	Date        string            `db:"date" json:"date"`
	StartTime   string            `db:"start_time" json:"start_time"`
	EndTime     string            `db:"end_time" json:"end_time"`
	TankIndex   int               `db:"tank_index" json:"tank_index"`
	Status      AppointmentStatus `db:"status" json:"status"`
	PriceCents  int64             `db:"price_cents" json:"price_cents"`
	Notes       *string           `db:"notes" json:"notes,omitempty"`
	CancelledAt *time.Time        `db:"cancelled_at" json:"cancelled_at,omitempty"`
	CreatedAt   time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time         `db:"updated_at" json:"updated_at"`
}

// AppointmentFilter narrows down appointment listings.
type AppointmentFilter struct {
	UserID    *string
	Date      *string
	StartDate *string
	EndDate   *string
	Status    *AppointmentStatus
	Page      int
	PageSize  int
}
