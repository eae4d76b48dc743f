package inventory

import (
	"context"
	"time"

	"github.com/almacen-pro/almacen-api/internal/application/dto"
	"github.com/almacen-pro/almacen-api/internal/domain"
	"github.com/almacen-pro/almacen-api/internal/domain/entity"
	"github.com/almacen-pro/almacen-api/internal/domain/repository"
)

// MovementQueryUseCase consultas de solo lectura sobre el log de movimientos.
// El log es inmutable: no hay casos de uso de edición ni borrado.
type MovementQueryUseCase struct {
	movRepo      repository.MovementRepository
	productRepo  repository.ProductRepository
	locationRepo repository.LocationRepository
}

// NewMovementQueryUseCase construye el caso de uso.
func NewMovementQueryUseCase(
	movRepo repository.MovementRepository,
	productRepo repository.ProductRepository,
	locationRepo repository.LocationRepository,
) *MovementQueryUseCase {
	return &MovementQueryUseCase{
		movRepo:      movRepo,
		productRepo:  productRepo,
		locationRepo: locationRepo,
	}
}

// ListByProduct lista movimientos de un producto (más recientes primero).
func (uc *MovementQueryUseCase) ListByProduct(ctx context.Context, companyID, productID string, from, to *time.Time, limit, offset int) ([]dto.MovementResponse, error) {
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil || product.CompanyID != companyID {
		return nil, domain.ErrProductNotFound
	}
	movements, err := uc.movRepo.ListByProduct(productID, from, to, limit, offset)
	if err != nil {
		return nil, err
	}
	return toMovementResponses(movements), nil
}

// ListByLocation lista movimientos de una bodega (más recientes primero).
func (uc *MovementQueryUseCase) ListByLocation(ctx context.Context, companyID, locationID string, from, to *time.Time, limit, offset int) ([]dto.MovementResponse, error) {
	loc, err := uc.locationRepo.GetByID(locationID)
	if err != nil {
		return nil, err
	}
	if loc == nil || loc.CompanyID != companyID {
		return nil, domain.ErrLocationNotFound
	}
	movements, err := uc.movRepo.ListByLocation(locationID, from, to, limit, offset)
	if err != nil {
		return nil, err
	}
	return toMovementResponses(movements), nil
}

func toMovementResponses(movements []*entity.Movement) []dto.MovementResponse {
	out := make([]dto.MovementResponse, 0, len(movements))
	for _, m := range movements {
		out = append(out, dto.MovementResponse{
			ID:             m.ID,
			TransactionID:  m.TransactionID,
			ProductID:      m.ProductID,
			LocationID:     m.LocationID,
			Type:           m.Type,
			Quantity:       m.Quantity,
			QuantityBefore: m.QuantityBefore,
			QuantityAfter:  m.QuantityAfter,
			Reference:      m.Reference,
			Date:           m.Date,
			CreatedBy:      m.CreatedBy,
		})
	}
	return out
}
