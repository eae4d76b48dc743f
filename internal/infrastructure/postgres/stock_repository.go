package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/almacen-pro/almacen-api/internal/domain/entity"
	"github.com/almacen-pro/almacen-api/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// Get obtiene el stock actual de un producto en una bodega.
// Sin fila se asume cero (el producto aún no ha tenido movimientos allí).
func (r *StockRepo) Get(productID, locationID string) (*entity.Stock, error) {
	query := `
		SELECT product_id, location_id, quantity, updated_at
		FROM stock WHERE product_id = $1 AND location_id = $2`
	var s entity.Stock
	err := r.q.QueryRow(context.Background(), query, productID, locationID).Scan(
		&s.ProductID, &s.LocationID, &s.Quantity, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.Stock{ProductID: productID, LocationID: locationID, Quantity: decimal.Zero}, nil
		}
		return nil, fmt.Errorf("get stock: %w", err)
	}
	return &s, nil
}

// GetForUpdate obtiene el stock y bloquea la fila para update (SELECT FOR UPDATE).
func (r *StockRepo) GetForUpdate(productID, locationID string) (*entity.Stock, error) {
	query := `
		SELECT product_id, location_id, quantity, updated_at
		FROM stock WHERE product_id = $1 AND location_id = $2
		FOR UPDATE`
	var s entity.Stock
	err := r.q.QueryRow(context.Background(), query, productID, locationID).Scan(
		&s.ProductID, &s.LocationID, &s.Quantity, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.Stock{ProductID: productID, LocationID: locationID, Quantity: decimal.Zero}, nil
		}
		return nil, fmt.Errorf("get stock for update: %w", err)
	}
	return &s, nil
}

// Upsert inserta o actualiza la cantidad en stock (por producto y bodega).
func (r *StockRepo) Upsert(stock *entity.Stock) error {
	query := `
		INSERT INTO stock (product_id, location_id, quantity, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (product_id, location_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = now()`
	_, err := r.q.Exec(context.Background(), query, stock.ProductID, stock.LocationID, stock.Quantity)
	if err != nil {
		return fmt.Errorf("upsert stock: %w", err)
	}
	return nil
}

// ListByProduct devuelve el stock de un producto en todas las bodegas.
func (r *StockRepo) ListByProduct(productID string) ([]repository.StockLevel, error) {
	query := `
		SELECT product_id, location_id, quantity
		FROM stock WHERE product_id = $1
		ORDER BY location_id`
	return r.listLevels(query, productID)
}

// ListByLocation devuelve el stock de todos los productos en una bodega.
func (r *StockRepo) ListByLocation(locationID string) ([]repository.StockLevel, error) {
	query := `
		SELECT product_id, location_id, quantity
		FROM stock WHERE location_id = $1
		ORDER BY product_id`
	return r.listLevels(query, locationID)
}

// ListByCompany devuelve el ledger completo de la empresa (join con products).
func (r *StockRepo) ListByCompany(companyID string) ([]repository.StockLevel, error) {
	query := `
		SELECT s.product_id, s.location_id, s.quantity
		FROM stock s
		JOIN products p ON p.id = s.product_id
		WHERE p.company_id = $1
		ORDER BY s.product_id, s.location_id`
	return r.listLevels(query, companyID)
}

// TotalByProduct devuelve la suma de stock sobre todas las bodegas.
func (r *StockRepo) TotalByProduct(productID string) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(quantity), 0) FROM stock WHERE product_id = $1`
	var total decimal.Decimal
	if err := r.q.QueryRow(context.Background(), query, productID).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("total by product: %w", err)
	}
	return total, nil
}

func (r *StockRepo) listLevels(query string, arg any) ([]repository.StockLevel, error) {
	rows, err := r.q.Query(context.Background(), query, arg)
	if err != nil {
		return nil, fmt.Errorf("list stock: %w", err)
	}
	defer rows.Close()
	var list []repository.StockLevel
	for rows.Next() {
		var lvl repository.StockLevel
		if err := rows.Scan(&lvl.ProductID, &lvl.LocationID, &lvl.Quantity); err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		list = append(list, lvl)
	}
	return list, rows.Err()
}
