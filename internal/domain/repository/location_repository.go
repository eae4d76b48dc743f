package repository

import "github.com/almacen-pro/almacen-api/internal/domain/entity"

// LocationRepository define el puerto de persistencia para Location (DIP).
type LocationRepository interface {
	Create(location *entity.Location) error
	GetByID(id string) (*entity.Location, error)
	Update(location *entity.Location) error
	ListByCompany(companyID string, limit, offset int) ([]*entity.Location, error)
	// HasReferences indica si la bodega tiene stock o movimientos asociados;
	// en ese caso el borrado se bloquea (ErrLocationInUse en el caso de uso).
	HasReferences(id string) (bool, error)
	Delete(id string) error
}
