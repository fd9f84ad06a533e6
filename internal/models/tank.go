package models

import "time"

// Tank is one physical float tank.
type Tank struct {
	ID               string     `db:"id" json:"id"`
	Name             string     `db:"name" json:"name"`
	Description      *string    `db:"description" json:"description,omitempty"`
	Active           bool       `db:"active" json:"active"`
	MaintenanceNotes *string    `db:"maintenance_notes" json:"maintenance_notes,omitempty"`
	LastServicedAt   *time.Time `db:"last_serviced_at" json:"last_serviced_at,omitempty"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updated_at"`
}
