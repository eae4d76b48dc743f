package repository

import (
	"time"

	"github.com/almacen-pro/almacen-api/internal/domain/entity"
)

// MovementRepository define el puerto de persistencia para el log de movimientos.
// Solo append: no existe Update ni Delete — el log es inmutable.
type MovementRepository interface {
	Create(movement *entity.Movement) error
	GetByID(id string) (*entity.Movement, error)
	ListByLocation(locationID string, from, to *time.Time, limit, offset int) ([]*entity.Movement, error)
	ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.Movement, error)
	// ListSince devuelve los movimientos de la empresa con date posterior a after,
	// ordenados del más reciente al más antiguo (insumo de la reconstrucción).
	ListSince(companyID string, after time.Time) ([]*entity.Movement, error)
}
