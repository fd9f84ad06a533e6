package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/floatlab/booking-api/internal/models"
)

// TankRepository persists float tanks.
type TankRepository struct {
	db *sqlx.DB
}

// NewTankRepository constructs the repository.
func NewTankRepository(db *sqlx.DB) *TankRepository {
	return &TankRepository{db: db}
}

const tankColumns = `id, name, description, active, maintenance_notes, last_serviced_at, created_at, updated_at`

// List returns tanks, optionally only active ones, ordered by name.
func (r *TankRepository) List(ctx context.Context, activeOnly bool) ([]models.Tank, error) {
	query := fmt.Sprintf(`SELECT %s FROM tanks`, tankColumns)
	if activeOnly {
		query += ` WHERE active = TRUE`
	}
	query += ` ORDER BY name ASC`
	var tanks []models.Tank
	if err := r.db.SelectContext(ctx, &tanks, query); err != nil {
		return nil, fmt.Errorf("list tanks: %w", err)
	}
	return tanks, nil
}

// CountActive returns the number of active tanks.
func (r *TankRepository) CountActive(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM tanks WHERE active = TRUE`); err != nil {
		return 0, fmt.Errorf("count active tanks: %w", err)
	}
	return count, nil
}

// GetByID fetches a tank.
func (r *TankRepository) GetByID(ctx context.Context, id string) (*models.Tank, error) {
	query := fmt.Sprintf(`SELECT %s FROM tanks WHERE id = $1`, tankColumns)
	var tank models.Tank
	if err := r.db.GetContext(ctx, &tank, query, id); err != nil {
		return nil, err
	}
	return &tank, nil
}

// Create inserts a new tank.
func (r *TankRepository) Create(ctx context.Context, tank *models.Tank) error {
	const query = `INSERT INTO tanks (id, name, description, active, maintenance_notes, last_serviced_at, created_at, updated_at)
VALUES (:id, :name, :description, :active, :maintenance_notes, :last_serviced_at, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, tank); err != nil {
		return fmt.Errorf("create tank: %w", err)
	}
	return nil
}

// Update replaces a tank's mutable fields.
func (r *TankRepository) Update(ctx context.Context, tank *models.Tank) error {
	const query = `UPDATE tanks SET name = :name, description = :description, active = :active,
maintenance_notes = :maintenance_notes, last_serviced_at = :last_serviced_at, updated_at = :updated_at
WHERE id = :id`
	tank.UpdatedAt = time.Now().UTC()
	result, err := r.db.NamedExecContext(ctx, query, tank)
	if err != nil {
		return fmt.Errorf("update tank: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update tank: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a tank.
func (r *TankRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tanks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete tank: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete tank: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
