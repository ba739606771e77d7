package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	appdelivery "github.com/jcastellr/gestion-api/internal/application/delivery"
	"github.com/jcastellr/gestion-api/internal/application/dto"
	"github.com/jcastellr/gestion-api/internal/domain/entity"
	"github.com/jcastellr/gestion-api/internal/domain/repository"
)

// DeliveryHandler expone el flujo de entregas a producción.
type DeliveryHandler struct {
	uc  *appdelivery.DeliveryUseCase
	pdf appdelivery.ActaPDFGenerator
}

// NewDeliveryHandler construye el handler. pdf puede ser nil si el
// endpoint de acta no se expone.
func NewDeliveryHandler(uc *appdelivery.DeliveryUseCase, pdf appdelivery.ActaPDFGenerator) *DeliveryHandler {
	return &DeliveryHandler{uc: uc, pdf: pdf}
}

// Create godoc
// @Summary      Crear entrega
// @Description  Crea la entrega en estado pendiente con número ENT-YYYYMMDD-NNNN. No descuenta stock.
// @Tags         entregas
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateDeliveryRequest  true  "entrega"
// @Success      201   {object}  dto.DeliveryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/entregas [post]
func (h *DeliveryHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateDeliveryRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	d, err := h.uc.Create(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toDeliveryResponse(d))
}

// Process godoc
// @Summary      Procesar entrega
// @Description  Descuenta stock de todas las líneas en una sola transacción y pasa la entrega a entregado. Si una línea no tiene saldo suficiente, nada cambia.
// @Tags         entregas
// @Produce      json
// @Param        id  path  string  true  "id de la entrega"
// @Success      200  {object}  dto.DeliveryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse "INSUFFICIENT_STOCK o INVALID_STATE"
// @Security     BearerAuth
// @Router       /api/entregas/{id}/procesar [post]
func (h *DeliveryHandler) Process(c *fiber.Ctx) error {
	d, err := h.uc.Process(c.UserContext(), c.Params("id"), GetUserID(c))
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(toDeliveryResponse(d))
}

// Cancel godoc
// @Summary      Cancelar entrega
// @Description  Solo una entrega pendiente puede cancelarse; no toca el stock.
// @Tags         entregas
// @Produce      json
// @Param        id  path  string  true  "id de la entrega"
// @Success      200  {object}  dto.DeliveryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse "INVALID_STATE"
// @Security     BearerAuth
// @Router       /api/entregas/{id}/cancelar [post]
func (h *DeliveryHandler) Cancel(c *fiber.Ctx) error {
	d, err := h.uc.Cancel(c.UserContext(), c.Params("id"))
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(toDeliveryResponse(d))
}

// GetByID godoc
// @Summary      Consultar entrega
// @Tags         entregas
// @Produce      json
// @Param        id  path  string  true  "id de la entrega"
// @Success      200  {object}  dto.DeliveryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/entregas/{id} [get]
func (h *DeliveryHandler) GetByID(c *fiber.Ctx) error {
	d, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(toDeliveryResponse(d))
}

// List godoc
// @Summary      Listar entregas
// @Tags         entregas
// @Produce      json
// @Param        estado  query  string  false  "pendiente|entregado|cancelado"
// @Success      200  {object}  dto.DeliveryListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/entregas [get]
func (h *DeliveryHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "parámetros inválidos"})
	}
	page.DefaultPage()

	filter := repository.DeliveryFilter{Estado: c.Query("estado")}
	entregas, err := h.uc.List(c.UserContext(), filter, page.Limit, page.Offset)
	if err != nil {
		return mapDomainError(c, err)
	}

	out := dto.DeliveryListResponse{
		Entregas: make([]dto.DeliveryResponse, 0, len(entregas)),
		Page:     dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}
	for _, d := range entregas {
		out.Entregas = append(out.Entregas, toDeliveryResponse(d))
	}
	return c.JSON(out)
}

// ActaPDF godoc
// @Summary      Acta de entrega en PDF
// @Tags         entregas
// @Produce      application/pdf
// @Param        id  path  string  true  "id de la entrega"
// @Success      200  {file}  file
// @Failure      404  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/entregas/{id}/acta [get]
func (h *DeliveryHandler) ActaPDF(c *fiber.Ctx) error {
	d, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return mapDomainError(c, err)
	}
	pdfBytes, err := h.pdf.GenerateActaPDF(c.UserContext(), d)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", "acta-"+d.NumeroEntrega+".pdf"))
	return c.Send(pdfBytes)
}

func toDeliveryResponse(d *entity.Delivery) dto.DeliveryResponse {
	out := dto.DeliveryResponse{
		ID:              d.ID,
		NumeroEntrega:   d.NumeroEntrega,
		UsuarioAsignado: d.UsuarioAsignado,
		AsignadoNombre:  d.AsignadoNombre,
		UsuarioEntrega:  d.UsuarioEntrega,
		EntregaNombre:   d.EntregaNombre,
		FechaEntrega:    d.FechaEntrega,
		Motivo:          d.Motivo,
		Observaciones:   d.Observaciones,
		Estado:          d.Estado,
		CreadoPor:       d.CreadoPor,
		CreatedAt:       d.CreatedAt,
		Detalles:        make([]dto.DeliveryLineResponse, 0, len(d.Detalles)),
	}
	for _, l := range d.Detalles {
		out.Detalles = append(out.Detalles, dto.DeliveryLineResponse{
			ID:             l.ID,
			ProductID:      l.ProductID,
			ProductoCodigo: l.ProductoCodigo,
			ProductoNombre: l.ProductoNombre,
			UnidadMedida:   l.UnidadMedida,
			Cantidad:       l.Cantidad,
			PrecioUnitario: l.PrecioUnitario,
			Observaciones:  l.Observaciones,
		})
	}
	return out
}
