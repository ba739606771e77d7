package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jcastellr/gestion-api/internal/application/dto"
	"github.com/jcastellr/gestion-api/internal/application/inventory"
	"github.com/jcastellr/gestion-api/internal/domain/entity"
	"github.com/jcastellr/gestion-api/internal/domain/repository"
)

// InventoryHandler expone el ledger de movimientos de stock.
type InventoryHandler struct {
	uc *inventory.RegisterMovementUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.RegisterMovementUseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc}
}

// RegisterMovement godoc
// @Summary      Registrar movimiento de stock
// @Description  entrada suma, salida descuenta (falla si no alcanza), ajuste fija el saldo absoluto
// @Tags         inventario
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterMovementRequest  true  "movimiento"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse "INSUFFICIENT_STOCK"
// @Security     BearerAuth
// @Router       /api/inventario/movimientos [post]
func (h *InventoryHandler) RegisterMovement(c *fiber.Ctx) error {
	var in dto.RegisterMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}

	mov, err := h.uc.RegisterMovement(c.UserContext(), inventory.MovementInputDTO{
		UsuarioID:  GetUserID(c),
		ProductID:  in.ProductID,
		Tipo:       in.Tipo,
		Cantidad:   in.Cantidad,
		Motivo:     in.Motivo,
		Referencia: in.Referencia,
	})
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toMovementResponse(mov))
}

// ListMovements godoc
// @Summary      Historial de movimientos de un producto
// @Tags         inventario
// @Produce      json
// @Param        product_id  query  string  true   "producto"
// @Param        tipo        query  string  false  "entrada|salida|ajuste"
// @Param        desde       query  string  false  "YYYY-MM-DD"
// @Param        hasta       query  string  false  "YYYY-MM-DD"
// @Success      200  {object}  dto.MovementListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/inventario/movimientos [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	var in dto.ListMovementsRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "parámetros inválidos"})
	}
	in.DefaultPage()

	filter := repository.MovementFilter{Tipo: in.Tipo}
	if in.Desde != "" {
		t, err := time.Parse("2006-01-02", in.Desde)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "desde debe ser YYYY-MM-DD"})
		}
		filter.Desde = &t
	}
	if in.Hasta != "" {
		t, err := time.Parse("2006-01-02", in.Hasta)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "hasta debe ser YYYY-MM-DD"})
		}
		// inclusivo hasta el final del día
		fin := t.Add(24*time.Hour - time.Nanosecond)
		filter.Hasta = &fin
	}

	movs, err := h.uc.ListMovements(c.UserContext(), in.ProductID, filter, in.Limit, in.Offset)
	if err != nil {
		return mapDomainError(c, err)
	}

	out := dto.MovementListResponse{
		Movimientos: make([]dto.MovementResponse, 0, len(movs)),
		Page:        dto.PageResponse{Limit: in.Limit, Offset: in.Offset},
	}
	for _, m := range movs {
		out.Movimientos = append(out.Movimientos, toMovementResponse(m))
	}
	return c.JSON(out)
}

func toMovementResponse(m *entity.StockMovement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:             m.ID,
		ProductID:      m.ProductID,
		ProductoNombre: m.ProductoNombre,
		Tipo:           m.Tipo,
		Cantidad:       m.Cantidad,
		StockAnterior:  m.StockAnterior,
		StockNuevo:     m.StockNuevo,
		Motivo:         m.Motivo,
		Referencia:     m.Referencia,
		EntregaID:      m.EntregaID,
		UsuarioID:      m.UsuarioID,
		UsuarioNombre:  m.UsuarioNombre,
		Fecha:          m.CreatedAt,
	}
}
