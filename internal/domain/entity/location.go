package entity

import "time"

// Location representa una bodega o sucursal donde se almacena inventario (multi-bodega).
// Una bodega referenciada por stock o movimientos no se elimina; se permite renombrar.
type Location struct {
	ID          string
	CompanyID   string
	Name        string
	Address     string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
