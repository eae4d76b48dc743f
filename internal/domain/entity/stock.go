package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Stock representa el stock actual de un producto en una bodega (fila del ledger).
// Invariante: Quantity >= 0 en todo punto observable; las salidas que lo
// violarían se rechazan sin mutar nada.
type Stock struct {
	ProductID  string
	LocationID string
	Quantity   decimal.Decimal
	UpdatedAt  time.Time
}
