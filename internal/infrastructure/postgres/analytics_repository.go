package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/almacen-pro/almacen-api/internal/domain/entity"
	"github.com/almacen-pro/almacen-api/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas de solo lectura para dashboard y reposición.
type AnalyticsRepo struct {
	q Querier
}

// NewAnalyticsRepository construye el adaptador de analítica.
func NewAnalyticsRepository(q Querier) *AnalyticsRepo {
	return &AnalyticsRepo{q: q}
}

// GetProductsBelowMinStock devuelve los productos activos con stock bajo su
// mínimo, ordenados por mayor déficit. Si locationID es vacío compara contra el
// stock global (suma de todas las bodegas).
func (r *AnalyticsRepo) GetProductsBelowMinStock(ctx context.Context, companyID, locationID string) ([]repository.ReplenishmentItem, error) {
	query := `
		SELECT p.id, p.sku, p.name,
		       COALESCE(SUM(s.quantity), 0) AS current_stock,
		       p.min_stock, p.cost, p.price
		FROM products p
		LEFT JOIN stock s ON s.product_id = p.id`
	args := []any{companyID}
	if locationID != "" {
		query += ` AND s.location_id = $2`
		args = append(args, locationID)
	}
	query += `
		WHERE p.company_id = $1 AND p.is_active = true AND p.min_stock > 0
		GROUP BY p.id, p.sku, p.name, p.min_stock, p.cost, p.price
		HAVING COALESCE(SUM(s.quantity), 0) < p.min_stock
		ORDER BY p.min_stock - COALESCE(SUM(s.quantity), 0) DESC`

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("products below min stock: %w", err)
	}
	defer rows.Close()
	var items []repository.ReplenishmentItem
	for rows.Next() {
		var it repository.ReplenishmentItem
		if err := rows.Scan(&it.ProductID, &it.SKU, &it.ProductName,
			&it.CurrentStock, &it.MinStock, &it.UnitCost, &it.Price); err != nil {
			return nil, fmt.Errorf("scan replenishment item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// GetInventoryValue devuelve el valor total del inventario (stock * costo).
func (r *AnalyticsRepo) GetInventoryValue(ctx context.Context, companyID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(s.quantity * p.cost), 0)
		FROM stock s
		JOIN products p ON p.id = s.product_id
		WHERE p.company_id = $1 AND p.is_active = true`
	var total decimal.Decimal
	if err := r.q.QueryRow(ctx, query, companyID).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("inventory value: %w", err)
	}
	return total, nil
}

// GetTopProductsByValue devuelve los productos con mayor valor de inventario.
func (r *AnalyticsRepo) GetTopProductsByValue(ctx context.Context, companyID string, limit int) ([]repository.ProductStockValue, error) {
	query := `
		SELECT p.id, p.sku, p.name,
		       COALESCE(SUM(s.quantity), 0) AS total_stock,
		       COALESCE(SUM(s.quantity * p.cost), 0) AS stock_value
		FROM products p
		LEFT JOIN stock s ON s.product_id = p.id
		WHERE p.company_id = $1 AND p.is_active = true
		GROUP BY p.id, p.sku, p.name
		ORDER BY stock_value DESC
		LIMIT $2`
	rows, err := r.q.Query(ctx, query, companyID, limit)
	if err != nil {
		return nil, fmt.Errorf("top products by value: %w", err)
	}
	defer rows.Close()
	var list []repository.ProductStockValue
	for rows.Next() {
		var v repository.ProductStockValue
		if err := rows.Scan(&v.ProductID, &v.SKU, &v.ProductName, &v.TotalStock, &v.StockValue); err != nil {
			return nil, fmt.Errorf("scan product value: %w", err)
		}
		list = append(list, v)
	}
	return list, rows.Err()
}

// GetMovementStats cuenta movimientos por tipo en el rango de fechas.
func (r *AnalyticsRepo) GetMovementStats(ctx context.Context, companyID string, startDate, endDate time.Time) (repository.MovementStats, error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE type = $4),
			COUNT(*) FILTER (WHERE type = $5),
			COUNT(*) FILTER (WHERE type = $6),
			COUNT(*) FILTER (WHERE type = $7)
		FROM movements
		WHERE company_id = $1 AND date >= $2 AND date <= $3`
	var stats repository.MovementStats
	err := r.q.QueryRow(ctx, query, companyID, startDate, endDate,
		entity.MovementTypeIN, entity.MovementTypeOUT,
		entity.MovementTypeTRANSFER, entity.MovementTypeADJUSTMENT,
	).Scan(&stats.Entries, &stats.Exits, &stats.Transfers, &stats.Adjustments)
	if err != nil {
		return repository.MovementStats{}, fmt.Errorf("movement stats: %w", err)
	}
	return stats, nil
}

// CountActive devuelve productos activos y bodegas registradas de la empresa.
func (r *AnalyticsRepo) CountActive(ctx context.Context, companyID string) (products, locations int, err error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM products WHERE company_id = $1 AND is_active = true),
			(SELECT COUNT(*) FROM locations WHERE company_id = $1)`
	if err := r.q.QueryRow(ctx, query, companyID).Scan(&products, &locations); err != nil {
		return 0, 0, fmt.Errorf("count active: %w", err)
	}
	return products, locations, nil
}
