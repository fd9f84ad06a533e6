package models

import "time"

// ScheduleOverride is the persisted admin exception for one calendar date.
// Open/close times are nullable: a null falls back to the facility default.
type ScheduleOverride struct {
	Date           string    `db:"date" json:"date"`
	Status         string    `db:"status" json:"status"`
	OpenTime       *string   `db:"open_time" json:"open_time,omitempty"`
	CloseTime      *string   `db:"close_time" json:"close_time,omitempty"`
	SessionsToSell int       `db:"sessions_to_sell" json:"sessions_to_sell"`
	BookedSessions int       `db:"booked_sessions" json:"booked_sessions"`
	Note           *string   `db:"note" json:"note,omitempty"`
	UpdatedBy      *string   `db:"updated_by" json:"updated_by,omitempty"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}
