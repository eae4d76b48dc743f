package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// ReplenishmentItem resultado crudo del repositorio para un producto bajo su mínimo.
type ReplenishmentItem struct {
	ProductID    string
	SKU          string
	ProductName  string
	CurrentStock decimal.Decimal
	MinStock     decimal.Decimal
	UnitCost     decimal.Decimal
	Price        decimal.Decimal
}

// ProductStockValue valor de inventario de un producto (stock total * costo).
type ProductStockValue struct {
	ProductID   string
	SKU         string
	ProductName string
	TotalStock  decimal.Decimal
	StockValue  decimal.Decimal
}

// MovementStats actividad del log de movimientos en un rango de fechas.
type MovementStats struct {
	Entries     int
	Exits       int
	Transfers   int
	Adjustments int
}

// AnalyticsRepository define las consultas de lectura para el dashboard y la
// lista de reposición. Las implementaciones son read-only (no modifican datos).
type AnalyticsRepository interface {
	// GetProductsBelowMinStock devuelve los productos activos cuyo stock actual
	// (en la bodega indicada, o global si warehouseID es vacío) es inferior a su
	// mínimo, ordenados por mayor déficit primero.
	GetProductsBelowMinStock(ctx context.Context, companyID, locationID string) ([]ReplenishmentItem, error)

	// GetInventoryValue devuelve el valor total del inventario de la empresa
	// (sum(stock * costo)) usando COALESCE para devolver cero sin stock.
	GetInventoryValue(ctx context.Context, companyID string) (decimal.Decimal, error)

	// GetTopProductsByValue devuelve los `limit` productos con mayor valor de
	// inventario (stock total * costo).
	GetTopProductsByValue(ctx context.Context, companyID string, limit int) ([]ProductStockValue, error)

	// GetMovementStats cuenta movimientos por tipo en el rango de fechas dado.
	GetMovementStats(ctx context.Context, companyID string, startDate, endDate time.Time) (MovementStats, error)

	// CountActive devuelve productos activos y bodegas de la empresa.
	CountActive(ctx context.Context, companyID string) (products, locations int, err error)
}
