package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jcastellr/gestion-api/internal/application/reporting"
)

// ReportingHandler expone reportes de inventario.
type ReportingHandler struct {
	uc *reporting.ReportingUseCase
}

// NewReportingHandler construye el handler.
func NewReportingHandler(uc *reporting.ReportingUseCase) *ReportingHandler {
	return &ReportingHandler{uc: uc}
}

// LowStock godoc
// @Summary      Productos en o bajo stock mínimo
// @Description  Incluye la cantidad sugerida de reposición hacia el stock máximo.
// @Tags         reportes
// @Produce      json
// @Success      200  {array}  dto.LowStockItemDTO
// @Security     BearerAuth
// @Router       /api/reportes/stock-bajo [get]
func (h *ReportingHandler) LowStock(c *fiber.Ctx) error {
	items, err := h.uc.LowStock(c.UserContext())
	if err != nil {
		return mapDomainError(c, err)
	}
	return c.JSON(items)
}
