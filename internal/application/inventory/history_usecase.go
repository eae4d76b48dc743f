package inventory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/almacen-pro/almacen-api/internal/application/dto"
	domaininv "github.com/almacen-pro/almacen-api/internal/domain/inventory"
	"github.com/almacen-pro/almacen-api/internal/domain/repository"
)

// HistoryUseCase reconstruye el estado histórico del stock a una fecha dada
// reversando el log de movimientos sobre una copia en memoria del ledger actual.
// Función pura de (ledger actual + log): mismas entradas, misma salida; nunca
// muta el stock real.
type HistoryUseCase struct {
	stockRepo repository.StockRepository
	movRepo   repository.MovementRepository
}

// NewHistoryUseCase construye el caso de uso.
func NewHistoryUseCase(stockRepo repository.StockRepository, movRepo repository.MovementRepository) *HistoryUseCase {
	return &HistoryUseCase{stockRepo: stockRepo, movRepo: movRepo}
}

// StockSnapshot es producto -> bodega -> cantidad en un instante.
type StockSnapshot map[string]map[string]decimal.Decimal

// ReconstructAt devuelve el stock de la empresa como estaba en target:
// parte del ledger actual, toma los movimientos con fecha posterior a target
// ordenados del más reciente al más antiguo y aplica el delta inverso de cada uno.
func (uc *HistoryUseCase) ReconstructAt(ctx context.Context, companyID string, target time.Time) (StockSnapshot, error) {
	levels, err := uc.stockRepo.ListByCompany(companyID)
	if err != nil {
		return nil, err
	}
	snapshot := make(StockSnapshot)
	for _, lvl := range levels {
		setQty(snapshot, lvl.ProductID, lvl.LocationID, lvl.Quantity)
	}

	movements, err := uc.movRepo.ListSince(companyID, target)
	if err != nil {
		return nil, err
	}
	// Orden determinista: más reciente primero; CreatedAt e ID como desempate.
	sort.SliceStable(movements, func(i, j int) bool {
		if !movements[i].Date.Equal(movements[j].Date) {
			return movements[i].Date.After(movements[j].Date)
		}
		if !movements[i].CreatedAt.Equal(movements[j].CreatedAt) {
			return movements[i].CreatedAt.After(movements[j].CreatedAt)
		}
		return movements[i].ID > movements[j].ID
	})

	for _, m := range movements {
		delta, err := domaininv.Reverse(m)
		if err != nil {
			return nil, err
		}
		current := getQty(snapshot, delta.ProductID, delta.LocationID)
		setQty(snapshot, delta.ProductID, delta.LocationID, current.Add(delta.Quantity))
	}
	return snapshot, nil
}

// Compare reconstruye el stock en dos fechas y devuelve la resta por producto y
// bodega en filas tabulares ordenadas (forma serializable para reportes).
func (uc *HistoryUseCase) Compare(ctx context.Context, companyID string, dateA, dateB time.Time) ([]dto.HistoryRowDTO, error) {
	snapA, err := uc.ReconstructAt(ctx, companyID, dateA)
	if err != nil {
		return nil, err
	}
	snapB, err := uc.ReconstructAt(ctx, companyID, dateB)
	if err != nil {
		return nil, err
	}

	type key struct{ product, location string }
	keys := make(map[key]struct{})
	for p, locs := range snapA {
		for l := range locs {
			keys[key{p, l}] = struct{}{}
		}
	}
	for p, locs := range snapB {
		for l := range locs {
			keys[key{p, l}] = struct{}{}
		}
	}

	rows := make([]dto.HistoryRowDTO, 0, len(keys))
	for k := range keys {
		qa := getQty(snapA, k.product, k.location)
		qb := getQty(snapB, k.product, k.location)
		rows = append(rows, dto.HistoryRowDTO{
			ProductID:  k.product,
			LocationID: k.location,
			QuantityA:  qa,
			QuantityB:  qb,
			Delta:      qb.Sub(qa),
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].ProductID != rows[j].ProductID {
			return rows[i].ProductID < rows[j].ProductID
		}
		return rows[i].LocationID < rows[j].LocationID
	})
	return rows, nil
}

func getQty(s StockSnapshot, productID, locationID string) decimal.Decimal {
	if locs, ok := s[productID]; ok {
		if q, ok := locs[locationID]; ok {
			return q
		}
	}
	return decimal.Zero
}

func setQty(s StockSnapshot, productID, locationID string, q decimal.Decimal) {
	locs, ok := s[productID]
	if !ok {
		locs = make(map[string]decimal.Decimal)
		s[productID] = locs
	}
	locs[locationID] = q
}
