package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/almacen-pro/almacen-api/internal/domain/entity"
	"github.com/almacen-pro/almacen-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación sobre PostgreSQL (usable con pool o tx).
// Solo inserta y lee: la tabla movements no tiene UPDATE ni DELETE en este código.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

const movementColumns = `id, transaction_id, company_id, product_id, location_id, type,
	quantity, quantity_before, quantity_after, reference, date, created_at, created_by`

// Create persiste un movimiento de inventario.
func (r *MovementRepo) Create(movement *entity.Movement) error {
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	query := `
		INSERT INTO movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	createdBy := (*string)(nil)
	if movement.CreatedBy != "" {
		createdBy = &movement.CreatedBy
	}
	_, err := r.q.Exec(context.Background(), query,
		movement.ID, movement.TransactionID, movement.CompanyID, movement.ProductID,
		movement.LocationID, movement.Type, movement.Quantity,
		movement.QuantityBefore, movement.QuantityAfter,
		movement.Reference, movement.Date, movement.CreatedAt, createdBy,
	)
	if err != nil {
		return fmt.Errorf("create movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID.
func (r *MovementRepo) GetByID(id string) (*entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM movements WHERE id = $1`
	row := r.q.QueryRow(context.Background(), query, id)
	m, err := scanMovementRow(row.Scan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return m, nil
}

// ListByLocation lista movimientos de una bodega en un rango de fechas.
func (r *MovementRepo) ListByLocation(locationID string, from, to *time.Time, limit, offset int) ([]*entity.Movement, error) {
	return r.listFiltered("location_id", locationID, from, to, limit, offset)
}

// ListByProduct lista movimientos de un producto en un rango de fechas.
func (r *MovementRepo) ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.Movement, error) {
	return r.listFiltered("product_id", productID, from, to, limit, offset)
}

// ListSince devuelve los movimientos de la empresa posteriores a after,
// del más reciente al más antiguo (insumo de la reconstrucción histórica).
func (r *MovementRepo) ListSince(companyID string, after time.Time) ([]*entity.Movement, error) {
	query := `
		SELECT ` + movementColumns + `
		FROM movements
		WHERE company_id = $1 AND date > $2
		ORDER BY date DESC, created_at DESC, id DESC`
	rows, err := r.q.Query(context.Background(), query, companyID, after)
	if err != nil {
		return nil, fmt.Errorf("list since: %w", err)
	}
	defer rows.Close()
	return scanMovements(rows)
}

func (r *MovementRepo) listFiltered(column, value string, from, to *time.Time, limit, offset int) ([]*entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM movements WHERE ` + column + ` = $1`
	args := []any{value}
	pos := 2
	if from != nil {
		query += fmt.Sprintf(" AND date >= $%d", pos)
		args = append(args, *from)
		pos++
	}
	if to != nil {
		query += fmt.Sprintf(" AND date <= $%d", pos)
		args = append(args, *to)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY date DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	return scanMovements(rows)
}

func scanMovements(rows pgx.Rows) ([]*entity.Movement, error) {
	var list []*entity.Movement
	for rows.Next() {
		m, err := scanMovementRow(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

func scanMovementRow(scan func(dest ...any) error) (*entity.Movement, error) {
	var m entity.Movement
	var createdBy *string
	err := scan(&m.ID, &m.TransactionID, &m.CompanyID, &m.ProductID, &m.LocationID,
		&m.Type, &m.Quantity, &m.QuantityBefore, &m.QuantityAfter,
		&m.Reference, &m.Date, &m.CreatedAt, &createdBy)
	if err != nil {
		return nil, err
	}
	if createdBy != nil {
		m.CreatedBy = *createdBy
	}
	return &m, nil
}
