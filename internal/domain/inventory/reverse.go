// Package inventory contiene la lógica pura del motor de inventario:
// reversión de movimientos para reconstrucción histórica.
package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/almacen-pro/almacen-api/internal/domain"
	"github.com/almacen-pro/almacen-api/internal/domain/entity"
)

// LedgerDelta es el cambio de cantidad que deshace un movimiento sobre una bodega.
type LedgerDelta struct {
	ProductID  string
	LocationID string
	Quantity   decimal.Decimal
}

// Reverse devuelve el delta que deshace un movimiento. Única implementación de
// la reversión: la usan la reconstrucción histórica y cualquier futura función
// de deshacer. Cada fila de movimiento lleva su delta con signo (los traslados
// son dos filas), así que deshacer es aplicar el delta opuesto sobre la misma
// bodega; el match exhaustivo rechaza tipos desconocidos en lugar de
// reversarlos en silencio.
func Reverse(m *entity.Movement) (LedgerDelta, error) {
	switch m.Type {
	case entity.MovementTypeIN, entity.MovementTypeOUT,
		entity.MovementTypeADJUSTMENT, entity.MovementTypeTRANSFER:
		return LedgerDelta{
			ProductID:  m.ProductID,
			LocationID: m.LocationID,
			Quantity:   m.Quantity.Neg(),
		}, nil
	default:
		return LedgerDelta{}, domain.ErrInvalidInput
	}
}
