package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/floatlab/booking-api/internal/models"
)

// PackageRepository persists session packages.
type PackageRepository struct {
	db *sqlx.DB
}

// NewPackageRepository constructs the repository.
func NewPackageRepository(db *sqlx.DB) *PackageRepository {
	return &PackageRepository{db: db}
}

const packageColumns = `id, name, description, session_count, price_cents, validity_days, active, display_order, created_at, updated_at`

// List returns packages, optionally only active ones, in display order.
func (r *PackageRepository) List(ctx context.Context, activeOnly bool) ([]models.Package, error) {
	query := fmt.Sprintf(`SELECT %s FROM packages`, packageColumns)
	if activeOnly {
		query += ` WHERE active = TRUE`
	}
	query += ` ORDER BY display_order ASC, name ASC`
	var packages []models.Package
	if err := r.db.SelectContext(ctx, &packages, query); err != nil {
		return nil, fmt.Errorf("list packages: %w", err)
	}
	return packages, nil
}

// GetByID fetches a package.
func (r *PackageRepository) GetByID(ctx context.Context, id string) (*models.Package, error) {
	query := fmt.Sprintf(`SELECT %s FROM packages WHERE id = $1`, packageColumns)
	var pkg models.Package
	if err := r.db.GetContext(ctx, &pkg, query, id); err != nil {
		return nil, err
	}
	return &pkg, nil
}

// Create inserts a new package.
func (r *PackageRepository) Create(ctx context.Context, pkg *models.Package) error {
	const query = `INSERT INTO packages (id, name, description, session_count, price_cents, validity_days, active, display_order, created_at, updated_at)
VALUES (:id, :name, :description, :session_count, :price_cents, :validity_days, :active, :display_order, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, pkg); err != nil {
		return fmt.Errorf("create package: %w", err)
	}
	return nil
}

// Update replaces a package's mutable fields.
func (r *PackageRepository) Update(ctx context.Context, pkg *models.Package) error {
	const query = `UPDATE packages SET name = :name, description = :description, session_count = :session_count,
price_cents = :price_cents, validity_days = :validity_days, active = :active, display_order = :display_order,
updated_at = :updated_at WHERE id = :id`
	pkg.UpdatedAt = time.Now().UTC()
	result, err := r.db.NamedExecContext(ctx, query, pkg)
	if err != nil {
		return fmt.Errorf("update package: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update package: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a package.
func (r *PackageRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM packages WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete package: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete package: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
