package dto

import "github.com/shopspring/decimal"

// TopProductDTO widget de productos con mayor valor de inventario.
type TopProductDTO struct {
	ProductID   string          `json:"product_id"`
	SKU         string          `json:"sku"`
	ProductName string          `json:"product_name"`
	TotalStock  decimal.Decimal `json:"total_stock"`
	StockValue  decimal.Decimal `json:"stock_value"`
}

// DashboardSummaryDTO resumen del dashboard de inventario.
type DashboardSummaryDTO struct {
	InventoryValue decimal.Decimal `json:"inventory_value"`
	ActiveProducts int             `json:"active_products"`
	Locations      int             `json:"locations"`
	LowStockCount  int             `json:"low_stock_count"`
	WeekEntries    int             `json:"week_entries"`
	WeekExits      int             `json:"week_exits"`
	WeekTransfers  int             `json:"week_transfers"`
	WeekAdjusts    int             `json:"week_adjustments"`
	TopProducts    []TopProductDTO `json:"top_products"`
}

// SnapshotRowDTO fila del stock reconstruido a una fecha.
type SnapshotRowDTO struct {
	ProductID  string          `json:"product_id"`
	LocationID string          `json:"location_id"`
	Quantity   decimal.Decimal `json:"quantity"`
}

// HistoryRowDTO fila tabular de la comparación de stock entre dos fechas.
type HistoryRowDTO struct {
	ProductID  string          `json:"product_id"`
	LocationID string          `json:"location_id"`
	QuantityA  decimal.Decimal `json:"quantity_a"`
	QuantityB  decimal.Decimal `json:"quantity_b"`
	Delta      decimal.Decimal `json:"delta"`
}
