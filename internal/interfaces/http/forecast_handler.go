package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/liquor-ledger/internal/application/inventory"
)

// ForecastHandler pronóstico de agotamiento y lista de reposición (protegido).
type ForecastHandler struct {
	uc *inventory.ReplenishmentUseCase
}

// NewForecastHandler construye el handler.
func NewForecastHandler(uc *inventory.ReplenishmentUseCase) *ForecastHandler {
	return &ForecastHandler{uc: uc}
}

// List godoc
// @Summary      Pronóstico y lista de reposición
// @Description  Pronóstico de todos los productos con saldo y los pedidos sugeridos,
//
//	ordenados por días de cobertura.
//
// @Tags         forecast
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ForecastListResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/forecast [get]
func (h *ForecastHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.Forecasts(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Pronóstico de un producto
// @Tags         forecast
// @Security     Bearer
// @Produce      json
// @Param        productID  path  string  true  "ID del producto"
// @Success      200  {object}  dto.ForecastResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/forecast/{productID} [get]
func (h *ForecastHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.GetForecast(c.Context(), param(c, "productID"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
