package models

import "time"

// Audit actions recorded by the API.
const (
	AuditActionLogin          = "LOGIN"
	AuditActionLogout         = "LOGOUT"
	AuditActionPasswordChange = "PASSWORD_CHANGE"
	AuditActionRegister       = "REGISTER"
	AuditActionSettingsUpdate = "SETTINGS_UPDATE"
	AuditActionOverrideUpsert = "OVERRIDE_UPSERT"
	AuditActionOverrideDelete = "OVERRIDE_DELETE"
	AuditActionBookingCreate  = "BOOKING_CREATE"
	AuditActionBookingCancel  = "BOOKING_CANCEL"
)

// AuditLog records an admin or auth action for traceability.
type AuditLog struct {
	ID         string    `db:"id" json:"id"`
	UserID     *string   `db:"user_id" json:"user_id,omitempty"`
	Action     string    `db:"action" json:"action"`
	Entity     string    `db:"entity" json:"entity"`
	EntityID   *string   `db:"entity_id" json:"entity_id,omitempty"`
	Detail     *string   `db:"detail" json:"detail,omitempty"`
	IPAddress  string    `db:"ip_address" json:"-"`
	OccurredAt time.Time `db:"occurred_at" json:"occurred_at"`
}
