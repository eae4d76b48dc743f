package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/almacen-pro/almacen-api/internal/application/dto"
	"github.com/almacen-pro/almacen-api/internal/application/inventory"
)

// InventoryHandler maneja movimientos de stock y la lista de reposición (protegido).
type InventoryHandler struct {
	registerUC *inventory.RegisterMovementUseCase
	queryUC    *inventory.MovementQueryUseCase
	replenUC   *inventory.ReplenishmentUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(
	registerUC *inventory.RegisterMovementUseCase,
	queryUC *inventory.MovementQueryUseCase,
	replenUC *inventory.ReplenishmentUseCase,
) *InventoryHandler {
	return &InventoryHandler{registerUC: registerUC, queryUC: queryUC, replenUC: replenUC}
}

// RegisterMovement godoc
// @Summary      Registrar movimiento de stock (IN, OUT, ADJUSTMENT, TRANSFER)
// @Description  Cada mutación de stock genera su registro de auditoría en la misma transacción.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterMovementRequest  true  "Datos del movimiento"
// @Success      201
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [post]
func (h *InventoryHandler) RegisterMovement(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "company_id requerido"})
	}
	var in dto.RegisterMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.registerUC.RegisterMovementFromRequest(c.Context(), companyID, GetUserID(c), in); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusCreated)
}

// ListMovementsByProduct godoc
// @Summary      Listar movimientos de un producto
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "ID del producto"
// @Param        from    query  string  false  "Fecha inicial (RFC3339)"
// @Param        to      query  string  false  "Fecha final (RFC3339)"
// @Param        limit   query  int     false  "Límite"  default(50)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200  {array}  dto.MovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/products/{id}/movements [get]
func (h *InventoryHandler) ListMovementsByProduct(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "company_id requerido"})
	}
	from, to, ok := parseDateRange(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from/to deben ser RFC3339"})
	}
	limit, offset := parsePage(c, 50)
	out, err := h.queryUC.ListByProduct(c.Context(), companyID, c.Params("id"), from, to, limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ListMovementsByLocation godoc
// @Summary      Listar movimientos de una bodega
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "ID de la bodega"
// @Param        from    query  string  false  "Fecha inicial (RFC3339)"
// @Param        to      query  string  false  "Fecha final (RFC3339)"
// @Param        limit   query  int     false  "Límite"  default(50)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200  {array}  dto.MovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/locations/{id}/movements [get]
func (h *InventoryHandler) ListMovementsByLocation(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "company_id requerido"})
	}
	from, to, ok := parseDateRange(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from/to deben ser RFC3339"})
	}
	limit, offset := parsePage(c, 50)
	out, err := h.queryUC.ListByLocation(c.Context(), companyID, c.Params("id"), from, to, limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ReplenishmentList godoc
// @Summary      Lista de reposición (productos bajo stock mínimo, por prioridad)
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        location_id  query  string  false  "Limitar a una bodega (vacío = stock global)"
// @Success      200  {array}  dto.ReplenishmentSuggestionDTO
// @Router       /api/inventory/replenishment [get]
func (h *InventoryHandler) ReplenishmentList(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "company_id requerido"})
	}
	out, err := h.replenUC.GenerateReplenishmentList(c.Context(), companyID, c.Query("location_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

func parseDateRange(c *fiber.Ctx) (from, to *time.Time, ok bool) {
	if v := c.Query("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return nil, nil, false
		}
		from = &t
	}
	if v := c.Query("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return nil, nil, false
		}
		to = &t
	}
	return from, to, true
}

func parsePage(c *fiber.Ctx, defaultLimit int) (limit, offset int) {
	limit = c.QueryInt("limit", defaultLimit)
	offset = c.QueryInt("offset", 0)
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > 200 {
		limit = 200
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
