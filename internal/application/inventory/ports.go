package inventory

import (
	"context"

	"github.com/almacen-pro/almacen-api/internal/domain/entity"
	"github.com/almacen-pro/almacen-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios
// atados a esa tx. Garantiza atomicidad para el motor de inventario: o se confirma
// todo (stock + movimientos + estado de sesión) o nada. La implementación reintenta
// ante conflictos de serialización con un presupuesto acotado y devuelve
// domain.ErrConflict al agotarlo.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.MovementRepository,
		stockRepo repository.StockRepository,
		productRepo repository.ProductRepository,
		sessionRepo repository.CountSessionRepository,
	) error) error
}

// SessionQueue es la cola local durable de sesiones de conteo capturadas sin conexión.
// Desacoplada de la tecnología de almacenamiento: la implementación puede ser Redis,
// un KV embebido o memoria (tests). La sincronización es at-least-once; MarkSynced
// evita resubir una sesión en reintentos.
type SessionQueue interface {
	Enqueue(ctx context.Context, session *entity.CountSession) error
	Pending(ctx context.Context) ([]*entity.CountSession, error)
	MarkSynced(ctx context.Context, sessionID string) error
}
