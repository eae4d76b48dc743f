package inventory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/almacen-pro/almacen-api/internal/application/dto"
	"github.com/almacen-pro/almacen-api/internal/domain/repository"
)

// ReplenishmentUseCase genera la lista de compras: productos bajo su stock mínimo
// con la cantidad sugerida de pedido y un ranking de prioridad por déficit.
type ReplenishmentUseCase struct {
	analyticsRepo repository.AnalyticsRepository
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(analyticsRepo repository.AnalyticsRepository) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{analyticsRepo: analyticsRepo}
}

// GenerateReplenishmentList devuelve los productos bajo stock mínimo con la
// cantidad sugerida de pedido (ideal = mínimo * 1.5) y su costo estimado.
// locationID puede ser vacío para considerar stock global de la empresa.
func (uc *ReplenishmentUseCase) GenerateReplenishmentList(
	ctx context.Context,
	companyID, locationID string,
) ([]dto.ReplenishmentSuggestionDTO, error) {

	rawItems, err := uc.analyticsRepo.GetProductsBelowMinStock(ctx, companyID, locationID)
	if err != nil {
		return nil, err
	}
	if len(rawItems) == 0 {
		return []dto.ReplenishmentSuggestionDTO{}, nil
	}

	suggestions := make([]dto.ReplenishmentSuggestionDTO, 0, len(rawItems))
	for _, item := range rawItems {
		idealStock := item.MinStock.Mul(decimal.NewFromFloat(1.5))
		suggestedQty := idealStock.Sub(item.CurrentStock)
		if suggestedQty.LessThanOrEqual(decimal.Zero) {
			suggestedQty = decimal.Zero
		}

		suggestions = append(suggestions, dto.ReplenishmentSuggestionDTO{
			ProductID:          item.ProductID,
			SKU:                item.SKU,
			ProductName:        item.ProductName,
			CurrentStock:       item.CurrentStock,
			MinStock:           item.MinStock,
			IdealStock:         idealStock,
			SuggestedOrderQty:  suggestedQty,
			UnitCost:           item.UnitCost,
			EstimatedOrderCost: suggestedQty.Mul(item.UnitCost),
		})
	}

	// Ordenar por déficit relativo (caída porcentual bajo el mínimo), luego
	// por déficit absoluto.
	sort.SliceStable(suggestions, func(i, j int) bool {
		a, b := suggestions[i], suggestions[j]
		relA := relativeDeficit(a.MinStock, a.CurrentStock)
		relB := relativeDeficit(b.MinStock, b.CurrentStock)
		if !relA.Equal(relB) {
			return relA.GreaterThan(relB)
		}
		defA := a.MinStock.Sub(a.CurrentStock)
		defB := b.MinStock.Sub(b.CurrentStock)
		return defA.GreaterThan(defB)
	})

	// Prioridad 1 = más urgente
	for i := range suggestions {
		suggestions[i].Priority = i + 1
	}

	return suggestions, nil
}

func relativeDeficit(minStock, current decimal.Decimal) decimal.Decimal {
	if minStock.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return minStock.Sub(current).Div(minStock)
}
