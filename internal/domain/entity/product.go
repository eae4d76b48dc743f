package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto o SKU del inventario (multi-bodega).
// El stock se maneja por bodega en la tabla stock; el total por producto es
// siempre la suma de sus bodegas, nunca un campo independiente.
// IsActive implementa borrado lógico: un producto referenciado por movimientos
// no se elimina físicamente.
type Product struct {
	ID          string
	CompanyID   string
	SKU         string // código único por empresa
	Name        string
	Description string
	CategoryID  string          // referencia a categories (puede ser vacío)
	Price       decimal.Decimal // precio de venta
	Cost        decimal.Decimal // costo unitario
	MinStock    decimal.Decimal // umbral mínimo para reposición
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
