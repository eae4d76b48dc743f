package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/almacen-pro/almacen-api/internal/application/inventory"
	"github.com/almacen-pro/almacen-api/internal/domain/repository"
)

// stubAnalyticsRepo devuelve respuestas fijas; la lógica de SQL se prueba aparte.
type stubAnalyticsRepo struct {
	belowMin []repository.ReplenishmentItem
	// lastLocationID guarda el filtro recibido para verificar el passthrough.
	lastLocationID string
}

var _ repository.AnalyticsRepository = (*stubAnalyticsRepo)(nil)

func (r *stubAnalyticsRepo) GetProductsBelowMinStock(_ context.Context, _, locationID string) ([]repository.ReplenishmentItem, error) {
	r.lastLocationID = locationID
	return r.belowMin, nil
}

func (r *stubAnalyticsRepo) GetInventoryValue(context.Context, string) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

func (r *stubAnalyticsRepo) GetTopProductsByValue(context.Context, string, int) ([]repository.ProductStockValue, error) {
	return nil, nil
}

func (r *stubAnalyticsRepo) GetMovementStats(context.Context, string, time.Time, time.Time) (repository.MovementStats, error) {
	return repository.MovementStats{}, nil
}

func (r *stubAnalyticsRepo) CountActive(context.Context, string) (int, int, error) {
	return 0, 0, nil
}

func item(productID, sku string, current, min, cost string) repository.ReplenishmentItem {
	return repository.ReplenishmentItem{
		ProductID:    productID,
		SKU:          sku,
		ProductName:  "Producto " + sku,
		CurrentStock: dec(current),
		MinStock:     dec(min),
		UnitCost:     dec(cost),
	}
}

func TestGenerateReplenishmentList_CantidadSugerida(t *testing.T) {
	repo := &stubAnalyticsRepo{belowMin: []repository.ReplenishmentItem{
		item("prod-1", "SKU-001", "2", "10", "60"),
	}}
	uc := inventory.NewReplenishmentUseCase(repo)

	list, err := uc.GenerateReplenishmentList(context.Background(), "company-1", "")
	require.NoError(t, err)
	require.Len(t, list, 1)

	s := list[0]
	// ideal = mínimo * 1.5; pedido sugerido = ideal - stock actual.
	assert.True(t, s.IdealStock.Equal(dec("15")))
	assert.True(t, s.SuggestedOrderQty.Equal(dec("13")))
	assert.True(t, s.EstimatedOrderCost.Equal(dec("780")), "13 unidades a costo 60")
	assert.Equal(t, 1, s.Priority)
}

// La prioridad ordena por déficit relativo: un producto en cero absoluto es más
// urgente que uno apenas por debajo de un mínimo grande.
func TestGenerateReplenishmentList_PrioridadPorDeficitRelativo(t *testing.T) {
	repo := &stubAnalyticsRepo{belowMin: []repository.ReplenishmentItem{
		item("prod-b", "SKU-B", "90", "100", "10"), // déficit relativo 0.10
		item("prod-a", "SKU-A", "2", "10", "10"),   // déficit relativo 0.80
		item("prod-c", "SKU-C", "0", "4", "10"),    // déficit relativo 1.00
	}}
	uc := inventory.NewReplenishmentUseCase(repo)

	list, err := uc.GenerateReplenishmentList(context.Background(), "company-1", "")
	require.NoError(t, err)
	require.Len(t, list, 3)

	assert.Equal(t, "prod-c", list[0].ProductID)
	assert.Equal(t, "prod-a", list[1].ProductID)
	assert.Equal(t, "prod-b", list[2].ProductID)
	for i, s := range list {
		assert.Equal(t, i+1, s.Priority)
	}
}

// Mismo déficit relativo: desempata el déficit absoluto más grande.
func TestGenerateReplenishmentList_DesempatePorDeficitAbsoluto(t *testing.T) {
	repo := &stubAnalyticsRepo{belowMin: []repository.ReplenishmentItem{
		item("prod-a", "SKU-A", "5", "10", "10"),   // 50%, faltan 5
		item("prod-b", "SKU-B", "50", "100", "10"), // 50%, faltan 50
	}}
	uc := inventory.NewReplenishmentUseCase(repo)

	list, err := uc.GenerateReplenishmentList(context.Background(), "company-1", "")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "prod-b", list[0].ProductID)
}

func TestGenerateReplenishmentList_SinFaltantes(t *testing.T) {
	uc := inventory.NewReplenishmentUseCase(&stubAnalyticsRepo{})
	list, err := uc.GenerateReplenishmentList(context.Background(), "company-1", "")
	require.NoError(t, err)
	assert.NotNil(t, list, "lista vacía, no nil, para serializar como []")
	assert.Empty(t, list)
}

func TestGenerateReplenishmentList_FiltraPorBodega(t *testing.T) {
	repo := &stubAnalyticsRepo{}
	uc := inventory.NewReplenishmentUseCase(repo)

	_, err := uc.GenerateReplenishmentList(context.Background(), "company-1", "loc-1")
	require.NoError(t, err)
	assert.Equal(t, "loc-1", repo.lastLocationID)
}
