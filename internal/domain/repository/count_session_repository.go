package repository

import "github.com/almacen-pro/almacen-api/internal/domain/entity"

// CountSessionRepository define el puerto de persistencia para sesiones de conteo.
type CountSessionRepository interface {
	Create(session *entity.CountSession) error
	// GetByID devuelve la sesión con sus líneas.
	GetByID(id string) (*entity.CountSession, error)
	// GetByIDForUpdate devuelve la sesión bloqueando su fila de cabecera.
	// Se usa dentro de la transacción de aplicación: dos Apply concurrentes
	// se serializan sobre la fila y el perdedor observa el estado APPLIED.
	GetByIDForUpdate(id string) (*entity.CountSession, error)
	// Update persiste cabecera y líneas (reemplazo completo de líneas).
	Update(session *entity.CountSession) error
	// UpdateStatus cambia solo el estado y sellos de aplicación; se usa dentro
	// de la transacción de aplicación para que el cambio de estado y los
	// ajustes de stock sean atómicos.
	UpdateStatus(session *entity.CountSession) error
	ListByCompany(companyID string, status string, limit, offset int) ([]*entity.CountSession, error)
}
