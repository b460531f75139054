package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias de infraestructura).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrInvalidQuantity   = errors.New("cantidad inválida")
	ErrInvalidConfig     = errors.New("configuración de producto inválida")
	ErrInvalidCategory   = errors.New("categoría de impuesto desconocida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConflict          = errors.New("conflicto de versión: vuelva a leer el saldo")
	ErrInsufficientStock = errors.New("no se puede vender: stock insuficiente")
	ErrDiscrepancy       = errors.New("descuadre de conciliación")
	ErrPeriodClosed      = errors.New("el periodo ya está cerrado")
)

// DiscrepancyError describe un descuadre del invariante de conciliación de un producto.
// errors.Is(err, ErrDiscrepancy) es verdadero para este tipo.
type DiscrepancyError struct {
	ProductID string
	Period    string
	DeltaMl   decimal.Decimal // real - esperado
}

func (e *DiscrepancyError) Error() string {
	return fmt.Sprintf("%s: producto %s periodo %s delta %s ml", ErrDiscrepancy, e.ProductID, e.Period, e.DeltaMl.StringFixed(2))
}

// Is permite comparar contra ErrDiscrepancy.
func (e *DiscrepancyError) Is(target error) bool {
	return target == ErrDiscrepancy
}
