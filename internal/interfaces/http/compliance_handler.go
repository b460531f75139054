package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/liquor-ledger/internal/application/compliance"
	"github.com/jhoicas/liquor-ledger/internal/application/dto"
)

// ComplianceHandler conciliación para el inspector y gestión de alertas (protegido).
type ComplianceHandler struct {
	uc *compliance.UseCase
}

// NewComplianceHandler construye el handler.
func NewComplianceHandler(uc *compliance.UseCase) *ComplianceHandler {
	return &ComplianceHandler{uc: uc}
}

// Audit godoc
// @Summary      Informe de conciliación
// @Description  Verifica opening + compras - ventas - merma = saldo en cada producto y abre
//
//	una alerta por descuadre. No corrige el libro.
//
// @Tags         compliance
// @Security     Bearer
// @Produce      json
// @Param        history  query  bool  false  "Incluir periodos cerrados"
// @Success      200  {object}  dto.ComplianceReportResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/compliance/audit [get]
func (h *ComplianceHandler) Audit(c *fiber.Ctx) error {
	includeHistory := false
	if raw := c.Query("history"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "history debe ser true o false"})
		}
		includeHistory = v
	}
	out, err := h.uc.Audit(c.Context(), includeHistory)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ListFlags godoc
// @Summary      Alertas de descuadre abiertas
// @Tags         compliance
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.DiscrepancyFlagDTO
// @Router       /api/compliance/flags [get]
func (h *ComplianceHandler) ListFlags(c *fiber.Ctx) error {
	out, err := h.uc.ListOpenFlags(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(out), "flags": out})
}

// ResolveFlag godoc
// @Summary      Resolver alerta
// @Tags         compliance
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID de la alerta"
// @Param        body  body  dto.ResolveFlagRequest  true  "Explicación del descuadre"
// @Success      200  {object}  dto.DiscrepancyFlagDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/compliance/flags/{id}/resolve [post]
func (h *ComplianceHandler) ResolveFlag(c *fiber.Ctx) error {
	var in dto.ResolveFlagRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.ResolveFlag(c.Context(), param(c, "id"), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
