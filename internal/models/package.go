package models

import "time"

// Package is a bundle of float sessions sold at a discounted price.
type Package struct {
	ID           string    `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Description  *string   `db:"description" json:"description,omitempty"`
	SessionCount int       `db:"session_count" json:"session_count"`
	PriceCents   int64     `db:"price_cents" json:"price_cents"`
	ValidityDays int       `db:"validity_days" json:"validity_days"`
	Active       bool      `db:"active" json:"active"`
	DisplayOrder int       `db:"display_order" json:"display_order"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}
