package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/almacen-pro/almacen-api/internal/application/dto"
	"github.com/almacen-pro/almacen-api/internal/domain"
	"github.com/almacen-pro/almacen-api/internal/domain/entity"
	"github.com/almacen-pro/almacen-api/internal/domain/repository"
)

// ReconciliationUseCase compara una sesión de conteo concluida contra el stock
// del sistema y aplica las diferencias de forma transaccional: todos los ajustes
// de la sesión más su cambio de estado a APPLIED se confirman juntos o ninguno.
// Reintentar sobre una sesión ya aplicada devuelve ErrAlreadyApplied (no es un
// no-op silencioso) y no genera movimientos ni cambios de stock.
type ReconciliationUseCase struct {
	txRunner     TxRunner
	sessionRepo  repository.CountSessionRepository
	productRepo  repository.ProductRepository
	locationRepo repository.LocationRepository
}

// NewReconciliationUseCase construye el caso de uso.
func NewReconciliationUseCase(
	txRunner TxRunner,
	sessionRepo repository.CountSessionRepository,
	productRepo repository.ProductRepository,
	locationRepo repository.LocationRepository,
) *ReconciliationUseCase {
	return &ReconciliationUseCase{
		txRunner:     txRunner,
		sessionRepo:  sessionRepo,
		productRepo:  productRepo,
		locationRepo: locationRepo,
	}
}

// PreviewAdjustments devuelve las líneas de la sesión con su diferencia, en forma
// tabular serializable (nombre de producto y bodega incluidos) para revisión del
// usuario y para exportadores externos. Solo lectura: no muta nada.
func (uc *ReconciliationUseCase) PreviewAdjustments(ctx context.Context, companyID, sessionID string) ([]dto.AdjustmentPreviewDTO, error) {
	session, err := uc.sessionRepo.GetByID(sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, domain.ErrSessionNotFound
	}
	if session.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}

	rows := make([]dto.AdjustmentPreviewDTO, 0, len(session.Lines))
	for _, line := range session.Lines {
		row := dto.AdjustmentPreviewDTO{
			ProductID:  line.ProductID,
			LocationID: line.LocationID,
			Expected:   line.Expected,
			Counted:    line.Counted,
			Difference: line.Difference(),
		}
		if p, _ := uc.productRepo.GetByID(line.ProductID); p != nil {
			row.SKU = p.SKU
			row.ProductName = p.Name
		}
		if l, _ := uc.locationRepo.GetByID(line.LocationID); l != nil {
			row.LocationName = l.Name
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Apply aplica la sesión: por cada línea con diferencia, fija el stock de la
// bodega en la cantidad contada (set absoluto: el conteo es la verdad física,
// no un delta) y registra un movimiento ADJUSTMENT con before/after reales al
// momento de aplicar. El cambio de estado de la sesión va en la misma
// transacción; si algo falla (p. ej. un producto desactivado entre conteo y
// aplicación) se revierte todo y la sesión sigue CONCLUDED para reintento.
func (uc *ReconciliationUseCase) Apply(ctx context.Context, companyID, sessionID, userID string) error {
	session, err := uc.sessionRepo.GetByID(sessionID)
	if err != nil {
		return err
	}
	if session == nil {
		return domain.ErrSessionNotFound
	}
	if session.CompanyID != companyID {
		return domain.ErrForbidden
	}
	if session.Status == entity.CountStatusApplied {
		return domain.ErrAlreadyApplied
	}
	if session.Status != entity.CountStatusConcluded {
		return domain.ErrConflict
	}
	if !session.Synced {
		// Una sesión capturada offline debe sincronizarse antes de aplicarse.
		return domain.ErrConflict
	}

	now := time.Now()
	txID := uuid.New().String()
	reference := "conteo " + session.ID

	return uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		stockRepo repository.StockRepository,
		productRepo repository.ProductRepository,
		sessionRepo repository.CountSessionRepository,
	) error {
		// Releer con bloqueo de fila dentro de la tx: dos Apply concurrentes
		// se serializan aquí y el perdedor ve el estado APPLIED del ganador.
		fresh, err := sessionRepo.GetByIDForUpdate(session.ID)
		if err != nil {
			return err
		}
		if fresh == nil {
			return domain.ErrSessionNotFound
		}
		if err := fresh.MarkApplied(userID, now); err != nil {
			return err
		}

		for _, line := range fresh.Lines {
			if line.Difference().IsZero() {
				continue // sin diferencia, sin ruido de movimientos
			}

			product, err := productRepo.GetByID(line.ProductID)
			if err != nil {
				return err
			}
			if product == nil || !product.IsActive {
				return fmt.Errorf("producto %s: %w", line.ProductID, domain.ErrProductNotFound)
			}

			stock, err := stockRepo.GetForUpdate(line.ProductID, line.LocationID)
			if err != nil {
				return err
			}
			before := stock.Quantity
			after := line.Counted
			delta := after.Sub(before)
			if delta.IsZero() {
				// El stock derivó hasta coincidir con lo contado: el set
				// absoluto es un no-op, no registramos movimiento.
				continue
			}

			stock.Quantity = after
			stock.UpdatedAt = now
			if err := stockRepo.Upsert(stock); err != nil {
				return err
			}

			mov, err := entity.NewMovement(
				fresh.CompanyID, line.ProductID, line.LocationID, entity.MovementTypeADJUSTMENT,
				delta, before, after,
				reference, userID, now, txID,
			)
			if err != nil {
				return err
			}
			if err := movRepo.Create(mov); err != nil {
				return err
			}
		}

		return sessionRepo.UpdateStatus(fresh)
	})
}
