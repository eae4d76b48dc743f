package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/almacen-pro/almacen-api/internal/application/inventory"
	"github.com/almacen-pro/almacen-api/internal/domain"
	"github.com/almacen-pro/almacen-api/internal/domain/repository"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL con reintento
// acotado ante conflictos de serialización o deadlock. Al agotar el presupuesto
// devuelve domain.ErrConflict para que el caller reintente la operación completa.
type TxRunner struct {
	pool       *pgxpool.Pool
	maxRetries int
}

// NewTxRunner construye el runner con el pool. maxRetries < 1 se normaliza a 1 intento.
func NewTxRunner(pool *pgxpool.Pool, maxRetries int) *TxRunner {
	if maxRetries < 1 {
		maxRetries = 1
	}
	return &TxRunner{pool: pool, maxRetries: maxRetries}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit
// o Rollback. Reintenta la transacción completa ante errores transitorios.
func (r *TxRunner) Run(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	stockRepo repository.StockRepository,
	productRepo repository.ProductRepository,
	sessionRepo repository.CountSessionRepository,
) error) error {
	return withTxRetry(r.maxRetries, func() error {
		return r.runOnce(ctx, fn)
	})
}

// withTxRetry ejecuta op hasta maxRetries veces mientras el error sea
// transitorio (serialización 40001 o deadlock 40P01). Un error de negocio corta
// de inmediato; al agotar el presupuesto el último error transitorio se
// envuelve en domain.ErrConflict.
func withTxRetry(maxRetries int, op func() error) error {
	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		err := op()
		if err == nil {
			return nil
		}
		if !isRetryableTxError(err) {
			return err
		}
		lastErr = err
	}
	return fmt.Errorf("%w: %v", domain.ErrConflict, lastErr)
}

func (r *TxRunner) runOnce(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	stockRepo repository.StockRepository,
	productRepo repository.ProductRepository,
	sessionRepo repository.CountSessionRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	movRepo := NewMovementRepository(tx)
	stockRepo := NewStockRepository(tx)
	productRepo := NewProductRepository(tx)
	sessionRepo := NewCountSessionRepository(tx)

	if err := fn(movRepo, stockRepo, productRepo, sessionRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
