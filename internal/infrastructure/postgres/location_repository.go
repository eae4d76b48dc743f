package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/almacen-pro/almacen-api/internal/domain/entity"
	"github.com/almacen-pro/almacen-api/internal/domain/repository"
)

var _ repository.LocationRepository = (*LocationRepo)(nil)

// LocationRepo implementación de LocationRepository sobre PostgreSQL (usable con pool o tx).
type LocationRepo struct {
	q Querier
}

// NewLocationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLocationRepository(q Querier) *LocationRepo {
	return &LocationRepo{q: q}
}

// Create persiste una bodega nueva.
func (r *LocationRepo) Create(location *entity.Location) error {
	query := `
		INSERT INTO locations (id, company_id, name, address, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		location.ID, location.CompanyID, location.Name, location.Address,
		location.Description, location.CreatedAt, location.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create location: %w", err)
	}
	return nil
}

// GetByID obtiene una bodega por ID.
func (r *LocationRepo) GetByID(id string) (*entity.Location, error) {
	query := `
		SELECT id, company_id, name, address, description, created_at, updated_at
		FROM locations WHERE id = $1`
	var l entity.Location
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&l.ID, &l.CompanyID, &l.Name, &l.Address, &l.Description, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get location: %w", err)
	}
	return &l, nil
}

// Update actualiza nombre, dirección y descripción.
func (r *LocationRepo) Update(location *entity.Location) error {
	query := `
		UPDATE locations
		SET name = $2, address = $3, description = $4, updated_at = $5
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		location.ID, location.Name, location.Address, location.Description, location.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update location: %w", err)
	}
	return nil
}

// ListByCompany lista bodegas por empresa con paginación.
func (r *LocationRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Location, error) {
	query := `
		SELECT id, company_id, name, address, description, created_at, updated_at
		FROM locations WHERE company_id = $1
		ORDER BY name LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	defer rows.Close()
	var list []*entity.Location
	for rows.Next() {
		var l entity.Location
		if err := rows.Scan(&l.ID, &l.CompanyID, &l.Name, &l.Address, &l.Description, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}

// HasReferences indica si la bodega tiene stock o movimientos asociados.
func (r *LocationRepo) HasReferences(id string) (bool, error) {
	query := `
		SELECT EXISTS(SELECT 1 FROM stock WHERE location_id = $1)
		    OR EXISTS(SELECT 1 FROM movements WHERE location_id = $1)`
	var inUse bool
	if err := r.q.QueryRow(context.Background(), query, id).Scan(&inUse); err != nil {
		return false, fmt.Errorf("location references: %w", err)
	}
	return inUse, nil
}

// Delete elimina la bodega. El caso de uso verifica antes que no tenga referencias.
func (r *LocationRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM locations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete location: %w", err)
	}
	return nil
}
