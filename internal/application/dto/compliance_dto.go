package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AuditReportDTO resultado de conciliar un registro.
type AuditReportDTO struct {
	ProductID  string          `json:"product_id"`
	Period     string          `json:"period"`
	OK         bool            `json:"ok"`
	DeltaMl    decimal.Decimal `json:"delta_ml"`
	ExpectedMl decimal.Decimal `json:"expected_ml"`
	ActualMl   decimal.Decimal `json:"actual_ml"`
}

// DiscrepancyFlagDTO alerta de descuadre.
type DiscrepancyFlagDTO struct {
	ID         string          `json:"id"`
	ProductID  string          `json:"product_id"`
	Period     string          `json:"period"`
	DeltaMl    decimal.Decimal `json:"delta_ml"`
	DetectedAt time.Time       `json:"detected_at"`
	ResolvedAt *time.Time      `json:"resolved_at,omitempty"`
	ResolvedBy string          `json:"resolved_by,omitempty"`
	Resolution string          `json:"resolution,omitempty"`
}

// ComplianceReportResponse registros auditados, resultados y alertas abiertas.
type ComplianceReportResponse struct {
	GeneratedAt time.Time             `json:"generated_at"`
	ToleranceMl decimal.Decimal       `json:"tolerance_ml"`
	Entries     []LedgerEntryResponse `json:"entries"`
	Reports     []AuditReportDTO      `json:"reports"`
	Failed      int                   `json:"failed"`
	OpenFlags   []DiscrepancyFlagDTO  `json:"open_flags"`
}

// ResolveFlagRequest body para POST /api/compliance/flags/:id/resolve.
type ResolveFlagRequest struct {
	Resolution string `json:"resolution" validate:"required,min=3,max=500"`
}
