package repository

import (
	"github.com/shopspring/decimal"

	"github.com/almacen-pro/almacen-api/internal/domain/entity"
)

// StockLevel es la cantidad actual de un producto en una bodega.
type StockLevel struct {
	ProductID  string
	LocationID string
	Quantity   decimal.Decimal
}

// StockRepository define el puerto para consultar/actualizar stock por bodega+producto.
// Usado dentro de transacciones para garantizar consistencia.
type StockRepository interface {
	Get(productID, locationID string) (*entity.Stock, error)
	// GetForUpdate bloquea la fila para update (SELECT FOR UPDATE): garantiza un
	// único escritor lógico por producto+bodega dentro de la transacción.
	GetForUpdate(productID, locationID string) (*entity.Stock, error)
	Upsert(stock *entity.Stock) error
	ListByProduct(productID string) ([]StockLevel, error)
	ListByLocation(locationID string) ([]StockLevel, error)
	// ListByCompany devuelve el estado completo del ledger de la empresa,
	// insumo de la reconstrucción histórica.
	ListByCompany(companyID string) ([]StockLevel, error)
	// TotalByProduct devuelve la suma sobre todas las bodegas (total derivado,
	// nunca almacenado de forma independiente).
	TotalByProduct(productID string) (decimal.Decimal, error)
}
