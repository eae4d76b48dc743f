package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/almacen-pro/almacen-api/internal/application/analytics"
	"github.com/almacen-pro/almacen-api/internal/application/dto"
)

// DashboardHandler resumen de inventario de la empresa (protegido, solo lectura).
type DashboardHandler struct {
	uc *analytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *analytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// Summary godoc
// @Summary      Resumen del dashboard de inventario
// @Description  Valor de inventario, productos bajo mínimo, actividad de la semana y top por valor.
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DashboardSummaryDTO
// @Router       /api/dashboard [get]
func (h *DashboardHandler) Summary(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "company_id requerido"})
	}
	out, err := h.uc.GetSummary(c.Context(), companyID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
