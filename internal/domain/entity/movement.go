package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/almacen-pro/almacen-api/internal/domain"
)

// Tipos de movimiento de inventario.
const (
	MovementTypeIN         = "IN"         // entrada
	MovementTypeOUT        = "OUT"        // salida
	MovementTypeADJUSTMENT = "ADJUSTMENT" // ajuste por conteo físico
	MovementTypeTRANSFER   = "TRANSFER"   // traslado entre bodegas
)

// ValidMovementType indica si type es uno de los tipos conocidos.
func ValidMovementType(t string) bool {
	switch t {
	case MovementTypeIN, MovementTypeOUT, MovementTypeADJUSTMENT, MovementTypeTRANSFER:
		return true
	}
	return false
}

// Movement es el registro de auditoría inmutable de un cambio de cantidad en una bodega.
// Quantity es el delta con signo (positivo entrada, negativo salida). Un traslado genera
// dos registros (salida en origen, entrada en destino) con el mismo TransactionID.
// Nunca se actualiza ni se borra: es la fuente de verdad para reconstrucción histórica.
type Movement struct {
	ID             string
	TransactionID  string
	CompanyID      string
	ProductID      string
	LocationID     string
	Type           string
	Quantity       decimal.Decimal // delta con signo
	QuantityBefore decimal.Decimal // cantidad en la bodega antes del movimiento
	QuantityAfter  decimal.Decimal // cantidad en la bodega después del movimiento
	Reference      string          // nota libre o ID de sesión de conteo en ajustes
	Date           time.Time
	CreatedAt      time.Time
	CreatedBy      string // UserID del actor (proveedor de identidad externo)
}

// NewMovement construye un movimiento validando el invariante
// QuantityAfter = QuantityBefore + Quantity y que el resultado no sea negativo.
func NewMovement(
	companyID, productID, locationID, movType string,
	quantity, before, after decimal.Decimal,
	reference, createdBy string,
	date time.Time,
	transactionID string,
) (*Movement, error) {
	if !ValidMovementType(movType) {
		return nil, domain.ErrInvalidInput
	}
	if !after.Equal(before.Add(quantity)) {
		return nil, domain.ErrInvalidInput
	}
	if after.IsNegative() || before.IsNegative() {
		return nil, domain.ErrInsufficientStock
	}
	return &Movement{
		TransactionID:  transactionID,
		CompanyID:      companyID,
		ProductID:      productID,
		LocationID:     locationID,
		Type:           movType,
		Quantity:       quantity,
		QuantityBefore: before,
		QuantityAfter:  after,
		Reference:      reference,
		Date:           date,
		CreatedAt:      date,
		CreatedBy:      createdBy,
	}, nil
}
