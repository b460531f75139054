package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/liquor-ledger/internal/application/dto"
	"github.com/jhoicas/liquor-ledger/internal/application/inventory"
)

// InventoryHandler maneja el libro de existencias: saldos, periodos y movimientos (protegido).
type InventoryHandler struct {
	uc *inventory.LedgerUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.LedgerUseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc}
}

// List godoc
// @Summary      Saldos vigentes
// @Tags         ledger
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.LedgerListResponse
// @Router       /api/ledger [get]
func (h *InventoryHandler) List(c *fiber.Ctx) error {
	return c.JSON(h.uc.ListSnapshots(c.Context()))
}

// GetSnapshot godoc
// @Summary      Saldo vigente de un producto
// @Tags         ledger
// @Security     Bearer
// @Produce      json
// @Param        productID  path  string  true  "ID del producto"
// @Success      200  {object}  dto.LedgerEntryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/ledger/{productID} [get]
func (h *InventoryHandler) GetSnapshot(c *fiber.Ctx) error {
	out, err := h.uc.GetSnapshot(c.Context(), param(c, "productID"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// History godoc
// @Summary      Periodos cerrados y diario de movimientos
// @Tags         ledger
// @Security     Bearer
// @Produce      json
// @Param        productID  path   string  true   "ID del producto"
// @Param        limit      query  int     false  "Máximo de movimientos (1-100, por defecto 20)"
// @Param        offset     query  int     false  "Desplazamiento"
// @Success      200  {object}  dto.LedgerHistoryResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/ledger/{productID}/history [get]
func (h *InventoryHandler) History(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.Normalize()
	if err := validate.Struct(page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: validationMessage(err)})
	}
	out, err := h.uc.History(c.Context(), param(c, "productID"), page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// LoadOpeningStock godoc
// @Summary      Cargar stock inicial
// @Description  Abre el periodo con el conteo físico. Sin period se usa el día actual.
// @Tags         ledger
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        productID  path  string                   true  "ID del producto"
// @Param        body       body  dto.OpeningStockRequest  true  "Botellas y pegs contados"
// @Success      200  {object}  dto.LedgerEntryResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/ledger/{productID}/opening [post]
func (h *InventoryHandler) LoadOpeningStock(c *fiber.Ctx) error {
	var in dto.OpeningStockRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.LoadOpeningStock(c.Context(), GetUserID(c), param(c, "productID"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ClosePeriod godoc
// @Summary      Cerrar periodo
// @Description  Archiva el periodo vigente y abre el siguiente con el saldo actual como stock inicial.
// @Tags         ledger
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        productID  path  string                  true   "ID del producto"
// @Param        body       body  dto.ClosePeriodRequest  false  "Periodo siguiente (por defecto el día posterior)"
// @Success      200  {object}  dto.LedgerEntryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/ledger/{productID}/close [post]
func (h *InventoryHandler) ClosePeriod(c *fiber.Ctx) error {
	var in dto.ClosePeriodRequest
	if len(c.Body()) > 0 {
		if ok, err := parseBody(c, &in); !ok {
			return err
		}
	}
	out, err := h.uc.ClosePeriod(c.Context(), GetUserID(c), param(c, "productID"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// RecordPurchase godoc
// @Summary      Registrar compra
// @Tags         ledger
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        productID  path  string               true  "ID del producto"
// @Param        body       body  dto.PurchaseRequest  true  "Botellas y/o pegs recibidos"
// @Success      200  {object}  dto.LedgerEntryResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/ledger/{productID}/purchases [post]
func (h *InventoryHandler) RecordPurchase(c *fiber.Ctx) error {
	var in dto.PurchaseRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.RecordPurchase(c.Context(), GetUserID(c), param(c, "productID"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// RecordSale godoc
// @Summary      Registrar venta
// @Description  Descuenta count servicios de volume_ml. Rechaza la venta si el saldo no alcanza.
// @Tags         ledger
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        productID  path  string           true  "ID del producto"
// @Param        body       body  dto.SaleRequest  true  "volume_ml y count"
// @Success      200  {object}  dto.LedgerEntryResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/ledger/{productID}/sales [post]
func (h *InventoryHandler) RecordSale(c *fiber.Ctx) error {
	var in dto.SaleRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.RecordSale(c.Context(), GetUserID(c), param(c, "productID"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// RecordWastage godoc
// @Summary      Registrar merma
// @Tags         ledger
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        productID  path  string              true  "ID del producto"
// @Param        body       body  dto.WastageRequest  true  "ml perdidos"
// @Success      200  {object}  dto.LedgerEntryResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/ledger/{productID}/wastage [post]
func (h *InventoryHandler) RecordWastage(c *fiber.Ctx) error {
	var in dto.WastageRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.RecordWastage(c.Context(), GetUserID(c), param(c, "productID"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
