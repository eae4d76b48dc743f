// Package analytics contiene los casos de uso de lectura para el dashboard de
// inventario.
package analytics

import (
	"context"
	"time"

	"github.com/almacen-pro/almacen-api/internal/application/dto"
	"github.com/almacen-pro/almacen-api/internal/domain/repository"
)

const dashboardTopProducts = 5 // número de productos en el widget del dashboard

// DashboardUseCase genera el resumen de inventario de la empresa.
//
// Fuente de datos: AnalyticsRepository (consultas read-only).
// No accede directamente a las tablas; delega todo en el repositorio.
type DashboardUseCase struct {
	analyticsRepo repository.AnalyticsRepository
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(analyticsRepo repository.AnalyticsRepository) *DashboardUseCase {
	return &DashboardUseCase{analyticsRepo: analyticsRepo}
}

// GetSummary construye el DashboardSummaryDTO para la empresa indicada:
// valor de inventario, conteos de productos/bodegas, productos bajo mínimo,
// actividad de movimientos de los últimos 7 días y top de productos por valor.
func (uc *DashboardUseCase) GetSummary(ctx context.Context, companyID string) (*dto.DashboardSummaryDTO, error) {
	now := time.Now()
	weekStart := now.AddDate(0, 0, -7)

	value, err := uc.analyticsRepo.GetInventoryValue(ctx, companyID)
	if err != nil {
		return nil, err
	}
	products, locations, err := uc.analyticsRepo.CountActive(ctx, companyID)
	if err != nil {
		return nil, err
	}
	lowStock, err := uc.analyticsRepo.GetProductsBelowMinStock(ctx, companyID, "")
	if err != nil {
		return nil, err
	}
	stats, err := uc.analyticsRepo.GetMovementStats(ctx, companyID, weekStart, now)
	if err != nil {
		return nil, err
	}
	top, err := uc.analyticsRepo.GetTopProductsByValue(ctx, companyID, dashboardTopProducts)
	if err != nil {
		return nil, err
	}

	topDTOs := make([]dto.TopProductDTO, 0, len(top))
	for _, p := range top {
		topDTOs = append(topDTOs, dto.TopProductDTO{
			ProductID:   p.ProductID,
			SKU:         p.SKU,
			ProductName: p.ProductName,
			TotalStock:  p.TotalStock,
			StockValue:  p.StockValue,
		})
	}

	return &dto.DashboardSummaryDTO{
		InventoryValue: value,
		ActiveProducts: products,
		Locations:      locations,
		LowStockCount:  len(lowStock),
		WeekEntries:    stats.Entries,
		WeekExits:      stats.Exits,
		WeekTransfers:  stats.Transfers,
		WeekAdjusts:    stats.Adjustments,
		TopProducts:    topDTOs,
	}, nil
}
