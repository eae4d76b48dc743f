package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/almacen-pro/almacen-api/internal/application/dto"
	"github.com/almacen-pro/almacen-api/internal/application/inventory"
	"github.com/almacen-pro/almacen-api/internal/domain/entity"
)

// CountHandler maneja sesiones de conteo físico: captura, conclusión,
// reporte, aplicación transaccional y sincronización offline (protegido).
type CountHandler struct {
	sessionUC *inventory.CountSessionUseCase
	reconUC   *inventory.ReconciliationUseCase
	syncUC    *inventory.SyncUseCase
}

// NewCountHandler construye el handler.
func NewCountHandler(
	sessionUC *inventory.CountSessionUseCase,
	reconUC *inventory.ReconciliationUseCase,
	syncUC *inventory.SyncUseCase,
) *CountHandler {
	return &CountHandler{sessionUC: sessionUC, reconUC: reconUC, syncUC: syncUC}
}

// Create godoc
// @Summary      Iniciar sesión de conteo físico
// @Tags         counts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateCountSessionRequest  true  "Bodega a contar (vacío = todas)"
// @Success      201   {object}  dto.CountSessionResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/counts [post]
func (h *CountHandler) Create(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "company_id requerido"})
	}
	var in dto.CreateCountSessionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	session, err := h.sessionUC.CreateSession(c.Context(), companyID, GetUserID(c), in.LocationID)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(inventory.ToSessionResponse(session))
}

// RecordLine godoc
// @Summary      Registrar cantidad contada de un producto
// @Description  La cantidad esperada se captura del stock al registrar la línea por primera vez.
// @Tags         counts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la sesión"
// @Param        body  body  dto.RecordCountLineRequest  true  "Producto, bodega y cantidad contada"
// @Success      200   {object}  dto.CountSessionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/counts/{id}/lines [post]
func (h *CountHandler) RecordLine(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "company_id requerido"})
	}
	var in dto.RecordCountLineRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.ProductID == "" || in.LocationID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "product_id y location_id son requeridos"})
	}
	session, err := h.sessionUC.RecordLine(c.Context(), companyID, c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(inventory.ToSessionResponse(session))
}

// Conclude godoc
// @Summary      Concluir la captura de la sesión
// @Tags         counts
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la sesión"
// @Success      200  {object}  dto.CountSessionResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/counts/{id}/conclude [post]
func (h *CountHandler) Conclude(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "company_id requerido"})
	}
	session, err := h.sessionUC.Conclude(c.Context(), companyID, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(inventory.ToSessionResponse(session))
}

// GetByID godoc
// @Summary      Obtener sesión de conteo con sus líneas
// @Tags         counts
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la sesión"
// @Success      200  {object}  dto.CountSessionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/counts/{id} [get]
func (h *CountHandler) GetByID(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "company_id requerido"})
	}
	session, err := h.sessionUC.Get(c.Context(), companyID, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(inventory.ToSessionResponse(session))
}

// List godoc
// @Summary      Listar sesiones de conteo
// @Tags         counts
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "Filtrar por estado (IN_PROGRESS, CONCLUDED, APPLIED)"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200  {array}  dto.CountSessionResponse
// @Router       /api/counts [get]
func (h *CountHandler) List(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "company_id requerido"})
	}
	limit, offset := parsePage(c, 20)
	sessions, err := h.sessionUC.List(c.Context(), companyID, c.Query("status"), limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.CountSessionResponse, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, *inventory.ToSessionResponse(s))
	}
	return c.JSON(out)
}

// Preview godoc
// @Summary      Reporte de diferencias de la sesión (solo lectura)
// @Tags         counts
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la sesión"
// @Success      200  {array}  dto.AdjustmentPreviewDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/counts/{id}/preview [get]
func (h *CountHandler) Preview(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "company_id requerido"})
	}
	out, err := h.reconUC.PreviewAdjustments(c.Context(), companyID, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Apply godoc
// @Summary      Aplicar la sesión: ajustar stock a lo contado
// @Description  Todos los ajustes y el cambio de estado van en una sola transacción.
//               Reaplicar una sesión ya aplicada devuelve 409 ALREADY_APPLIED.
// @Tags         counts
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la sesión"
// @Success      200  {object}  dto.CountSessionResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/counts/{id}/apply [post]
func (h *CountHandler) Apply(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "company_id requerido"})
	}
	sessionID := c.Params("id")
	if err := h.reconUC.Apply(c.Context(), companyID, sessionID, GetUserID(c)); err != nil {
		return respondError(c, err)
	}
	session, err := h.sessionUC.Get(c.Context(), companyID, sessionID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(inventory.ToSessionResponse(session))
}

// EnqueueOffline godoc
// @Summary      Encolar una sesión capturada sin conexión
// @Description  La sesión queda en la cola local durable con synced=false hasta sincronizarse.
// @Tags         counts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.OfflineCountSessionRequest  true  "Sesión capturada offline"
// @Success      202   {object}  dto.CountSessionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/counts/offline [post]
func (h *CountHandler) EnqueueOffline(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "company_id requerido"})
	}
	var in dto.OfflineCountSessionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.ID == "" || len(in.Lines) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id y al menos una línea son requeridos"})
	}

	createdAt := in.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	session, err := entity.NewCountSession(in.ID, companyID, in.LocationID, GetUserID(c), createdAt)
	if err != nil {
		return respondError(c, err)
	}
	for _, line := range in.Lines {
		if err := session.RecordLine(line.ProductID, line.LocationID, line.Expected, line.Counted, createdAt); err != nil {
			return respondError(c, err)
		}
	}
	if err := session.Conclude(time.Now()); err != nil {
		return respondError(c, err)
	}
	if err := h.syncUC.EnqueueOffline(c.Context(), session); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusAccepted).JSON(inventory.ToSessionResponse(session))
}

// Sync godoc
// @Summary      Drenar la cola offline hacia el servidor
// @Description  At-least-once y acotado a la empresa del actor: las sesiones ya
//               subidas se descartan como duplicados y las de otras empresas no se tocan.
// @Tags         counts
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SyncResultDTO
// @Router       /api/counts/sync [post]
func (h *CountHandler) Sync(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "company_id requerido"})
	}
	uploaded, duplicates, err := h.syncUC.Sync(c.Context(), companyID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.SyncResultDTO{Uploaded: uploaded, Duplicates: duplicates})
}
