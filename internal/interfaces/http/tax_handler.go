package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"github.com/jhoicas/liquor-ledger/internal/application/billing"
	"github.com/jhoicas/liquor-ledger/internal/application/dto"
)

// TaxHandler consulta de tasas y cálculo de impuestos de cuentas (protegido).
type TaxHandler struct {
	uc *billing.TaxUseCase
}

// NewTaxHandler construye el handler.
func NewTaxHandler(uc *billing.TaxUseCase) *TaxHandler {
	return &TaxHandler{uc: uc}
}

// GetRates godoc
// @Summary      Tasas de una categoría
// @Tags         tax
// @Security     Bearer
// @Produce      json
// @Param        category     query  string  true   "food, beverages, liquor, room, other"
// @Param        inter_state  query  bool    false  "Venta interestatal (IGST en lugar de CGST+SGST)"
// @Success      200  {object}  dto.TaxRatesResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/tax/rates [get]
func (h *TaxHandler) GetRates(c *fiber.Ctx) error {
	category := utils.CopyString(c.Query("category"))
	if category == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "category requerido"})
	}
	interState := false
	if raw := c.Query("inter_state"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "inter_state debe ser true o false"})
		}
		interState = v
	}
	out, err := h.uc.GetTaxRates(c.Context(), category, interState)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// CalculateBill godoc
// @Summary      Calcular impuestos de una cuenta
// @Description  Agrupa las líneas por categoría; excise se aplica antes del GST en licores.
// @Tags         tax
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.BillTaxRequest  true  "Líneas de la cuenta"
// @Success      200  {object}  dto.BillTaxResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/tax/bill [post]
func (h *TaxHandler) CalculateBill(c *fiber.Ctx) error {
	var in dto.BillTaxRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.CalculateBillTax(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
