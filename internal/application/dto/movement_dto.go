package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegisterMovementRequest body para POST /api/inventory/movements.
// Para IN/OUT: product_id, location_id, type, quantity (positiva).
// Para TRANSFER: product_id, from_location_id, to_location_id, quantity.
type RegisterMovementRequest struct {
	ProductID      string          `json:"product_id"`
	LocationID     string          `json:"location_id,omitempty"`
	FromLocationID string          `json:"from_location_id,omitempty"`
	ToLocationID   string          `json:"to_location_id,omitempty"`
	Type           string          `json:"type"`
	Quantity       decimal.Decimal `json:"quantity"`
	Reference      string          `json:"reference,omitempty"`
}

// MovementResponse representación de un movimiento en la API.
type MovementResponse struct {
	ID             string          `json:"id"`
	TransactionID  string          `json:"transaction_id"`
	ProductID      string          `json:"product_id"`
	LocationID     string          `json:"location_id"`
	Type           string          `json:"type"`
	Quantity       decimal.Decimal `json:"quantity"`
	QuantityBefore decimal.Decimal `json:"quantity_before"`
	QuantityAfter  decimal.Decimal `json:"quantity_after"`
	Reference      string          `json:"reference,omitempty"`
	Date           time.Time       `json:"date"`
	CreatedBy      string          `json:"created_by,omitempty"`
}
