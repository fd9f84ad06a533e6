package dto

// SaveTankRequest creates or updates a tank.
type SaveTankRequest struct {
	Name             string  `json:"name" validate:"required"`
	Description      *string `json:"description,omitempty"`
	Active           *bool   `json:"active,omitempty"`
	MaintenanceNotes *string `json:"maintenance_notes,omitempty"`
}

// SavePackageRequest creates or updates a session package.
type SavePackageRequest struct {
	Name         string  `json:"name" validate:"required"`
	Description  *string `json:"description,omitempty"`
	SessionCount int     `json:"session_count" validate:"required,min=1"`
	PriceCents   int64   `json:"price_cents" validate:"min=0"`
	ValidityDays int     `json:"validity_days" validate:"min=0"`
	Active       *bool   `json:"active,omitempty"`
	DisplayOrder int     `json:"display_order" validate:"min=0"`
}
