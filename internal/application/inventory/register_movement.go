package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/almacen-pro/almacen-api/internal/application/dto"
	"github.com/almacen-pro/almacen-api/internal/domain"
	"github.com/almacen-pro/almacen-api/internal/domain/entity"
	"github.com/almacen-pro/almacen-api/internal/domain/repository"
)

// RegisterMovementUseCase registra movimientos de inventario de forma transaccional
// (IN, OUT, ADJUSTMENT, TRANSFER) con bloqueo de fila (SELECT FOR UPDATE) y Commit/Rollback.
// Cada mutación del stock va acompañada de su registro de auditoría en la misma
// transacción: nunca se observa uno sin el otro.
type RegisterMovementUseCase struct {
	txRunner     TxRunner
	productRepo  repository.ProductRepository
	locationRepo repository.LocationRepository
}

// NewRegisterMovementUseCase construye el caso de uso.
func NewRegisterMovementUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	locationRepo repository.LocationRepository,
) *RegisterMovementUseCase {
	return &RegisterMovementUseCase{
		txRunner:     txRunner,
		productRepo:  productRepo,
		locationRepo: locationRepo,
	}
}

// MovementInput entrada para registrar un movimiento de inventario.
// Para IN/OUT/ADJUSTMENT: ProductID, LocationID, Type, Quantity.
// Para TRANSFER: ProductID, FromLocationID, ToLocationID, Type=TRANSFER, Quantity.
type MovementInput struct {
	CompanyID      string
	UserID         string
	ProductID      string
	LocationID     string
	FromLocationID string
	ToLocationID   string
	Type           string
	Quantity       decimal.Decimal
	Reference      string
}

// RegisterMovement valida la entrada, verifica producto y bodega(s), e inicia una
// transacción que bloquea la fila de stock, aplica la lógica según tipo y hace
// Commit o Rollback.
func (uc *RegisterMovementUseCase) RegisterMovement(ctx context.Context, input MovementInput) error {
	switch input.Type {
	case entity.MovementTypeIN, entity.MovementTypeOUT:
		if input.ProductID == "" || input.LocationID == "" {
			return domain.ErrInvalidInput
		}
		if !input.Quantity.GreaterThan(decimal.Zero) {
			return domain.ErrInvalidInput
		}
	case entity.MovementTypeADJUSTMENT:
		// Ajuste manual: delta con signo, distinto de cero.
		if input.ProductID == "" || input.LocationID == "" || input.Quantity.IsZero() {
			return domain.ErrInvalidInput
		}
	case entity.MovementTypeTRANSFER:
		if input.ProductID == "" || input.FromLocationID == "" || input.ToLocationID == "" {
			return domain.ErrInvalidInput
		}
		if input.FromLocationID == input.ToLocationID || !input.Quantity.GreaterThan(decimal.Zero) {
			return domain.ErrInvalidInput
		}
	default:
		return domain.ErrInvalidInput
	}

	product, err := uc.productRepo.GetByID(input.ProductID)
	if err != nil {
		return err
	}
	if product == nil || !product.IsActive {
		return domain.ErrProductNotFound
	}
	if product.CompanyID != input.CompanyID {
		return domain.ErrForbidden
	}

	if input.Type == entity.MovementTypeTRANSFER {
		fromLoc, _ := uc.locationRepo.GetByID(input.FromLocationID)
		toLoc, _ := uc.locationRepo.GetByID(input.ToLocationID)
		if fromLoc == nil || toLoc == nil || fromLoc.CompanyID != input.CompanyID || toLoc.CompanyID != input.CompanyID {
			return domain.ErrLocationNotFound
		}
	} else {
		loc, _ := uc.locationRepo.GetByID(input.LocationID)
		if loc == nil || loc.CompanyID != input.CompanyID {
			return domain.ErrLocationNotFound
		}
	}

	now := time.Now()
	txID := uuid.New().String()

	return uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		stockRepo repository.StockRepository,
		_ repository.ProductRepository,
		_ repository.CountSessionRepository,
	) error {
		switch input.Type {
		case entity.MovementTypeIN:
			return applyDelta(movRepo, stockRepo, input, input.LocationID, input.Quantity, entity.MovementTypeIN, now, txID)
		case entity.MovementTypeOUT:
			return applyDelta(movRepo, stockRepo, input, input.LocationID, input.Quantity.Neg(), entity.MovementTypeOUT, now, txID)
		case entity.MovementTypeADJUSTMENT:
			return applyDelta(movRepo, stockRepo, input, input.LocationID, input.Quantity, entity.MovementTypeADJUSTMENT, now, txID)
		case entity.MovementTypeTRANSFER:
			// Resta en bodega origen y suma en destino, misma transacción,
			// dos registros de movimiento con el mismo TransactionID.
			if err := applyDelta(movRepo, stockRepo, input, input.FromLocationID, input.Quantity.Neg(), entity.MovementTypeTRANSFER, now, txID); err != nil {
				return err
			}
			return applyDelta(movRepo, stockRepo, input, input.ToLocationID, input.Quantity, entity.MovementTypeTRANSFER, now, txID)
		}
		return domain.ErrInvalidInput
	})
}

// applyDelta bloquea la fila de stock, verifica que el resultado no sea negativo,
// actualiza la cantidad y guarda el movimiento con before/after. delta lleva signo.
func applyDelta(
	movRepo repository.MovementRepository,
	stockRepo repository.StockRepository,
	input MovementInput,
	locationID string,
	delta decimal.Decimal,
	movType string,
	now time.Time, txID string,
) error {
	stock, err := stockRepo.GetForUpdate(input.ProductID, locationID)
	if err != nil {
		return err
	}
	before := stock.Quantity
	after := before.Add(delta)
	if after.IsNegative() {
		return domain.ErrInsufficientStock
	}

	stock.Quantity = after
	stock.UpdatedAt = now
	if err := stockRepo.Upsert(stock); err != nil {
		return err
	}

	mov, err := entity.NewMovement(
		input.CompanyID, input.ProductID, locationID, movType,
		delta, before, after,
		input.Reference, input.UserID, now, txID,
	)
	if err != nil {
		return err
	}
	return movRepo.Create(mov)
}

// RegisterMovementFromRequest adapta el request HTTP al caso de uso RegisterMovement.
func (uc *RegisterMovementUseCase) RegisterMovementFromRequest(ctx context.Context, companyID, userID string, in dto.RegisterMovementRequest) error {
	input := MovementInput{
		CompanyID:      companyID,
		UserID:         userID,
		ProductID:      in.ProductID,
		LocationID:     in.LocationID,
		FromLocationID: in.FromLocationID,
		ToLocationID:   in.ToLocationID,
		Type:           in.Type,
		Quantity:       in.Quantity,
		Reference:      in.Reference,
	}
	return uc.RegisterMovement(ctx, input)
}
