package repository

import "github.com/almacen-pro/almacen-api/internal/domain/entity"

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetByCompanyAndSKU(companyID, sku string) (*entity.Product, error)
	Update(product *entity.Product) error
	ListByCompany(companyID string, onlyActive bool, limit, offset int) ([]*entity.Product, error)
	// Deactivate implementa borrado lógico (is_active = false); los movimientos
	// que referencian el producto se conservan.
	Deactivate(id string) error
}
