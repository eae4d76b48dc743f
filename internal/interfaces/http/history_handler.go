package http

import (
	"sort"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/almacen-pro/almacen-api/internal/application/dto"
	"github.com/almacen-pro/almacen-api/internal/application/inventory"
)

// HistoryHandler reconstrucción histórica del stock (protegido, solo lectura).
type HistoryHandler struct {
	uc *inventory.HistoryUseCase
}

// NewHistoryHandler construye el handler.
func NewHistoryHandler(uc *inventory.HistoryUseCase) *HistoryHandler {
	return &HistoryHandler{uc: uc}
}

// Reconstruct godoc
// @Summary      Stock de la empresa como estaba en una fecha
// @Description  Reconstruye el ledger reversando los movimientos posteriores a la fecha. No muta nada.
// @Tags         history
// @Security     Bearer
// @Produce      json
// @Param        at  query  string  true  "Fecha objetivo (RFC3339)"
// @Success      200  {array}  dto.SnapshotRowDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/history [get]
func (h *HistoryHandler) Reconstruct(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "company_id requerido"})
	}
	at, err := time.Parse(time.RFC3339, c.Query("at"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "at debe ser RFC3339"})
	}
	snapshot, err := h.uc.ReconstructAt(c.Context(), companyID, at)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(snapshotRows(snapshot))
}

// Compare godoc
// @Summary      Comparar el stock entre dos fechas
// @Tags         history
// @Security     Bearer
// @Produce      json
// @Param        a  query  string  true  "Primera fecha (RFC3339)"
// @Param        b  query  string  true  "Segunda fecha (RFC3339)"
// @Success      200  {array}  dto.HistoryRowDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/history/compare [get]
func (h *HistoryHandler) Compare(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "company_id requerido"})
	}
	dateA, errA := time.Parse(time.RFC3339, c.Query("a"))
	dateB, errB := time.Parse(time.RFC3339, c.Query("b"))
	if errA != nil || errB != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "a y b deben ser RFC3339"})
	}
	rows, err := h.uc.Compare(c.Context(), companyID, dateA, dateB)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(rows)
}

func snapshotRows(snapshot inventory.StockSnapshot) []dto.SnapshotRowDTO {
	rows := make([]dto.SnapshotRowDTO, 0)
	for productID, locations := range snapshot {
		for locationID, qty := range locations {
			rows = append(rows, dto.SnapshotRowDTO{
				ProductID:  productID,
				LocationID: locationID,
				Quantity:   qty,
			})
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].ProductID != rows[j].ProductID {
			return rows[i].ProductID < rows[j].ProductID
		}
		return rows[i].LocationID < rows[j].LocationID
	})
	return rows
}
