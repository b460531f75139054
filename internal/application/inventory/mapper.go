package inventory

import (
	"github.com/jhoicas/liquor-ledger/internal/application/dto"
	"github.com/jhoicas/liquor-ledger/internal/domain/entity"
)

// ToProductResponse convierte la entidad a su representación HTTP.
func ToProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:             p.ID,
		Name:           p.Name,
		Size:           p.Config.Size,
		MlPerBottle:    p.Config.MlPerBottle,
		PegsPerBottle:  p.Config.PegsPerBottle(),
		BottlesPerCase: p.Config.BottlesPerCase,
		Category:       p.Config.Category,
		TaxCategory:    string(p.TaxCategory),
		CreatedAt:      p.CreatedAt,
	}
}

// ToLedgerEntryResponse convierte un saldo del libro a su representación HTTP.
func ToLedgerEntryResponse(e entity.ProductLedgerEntry) dto.LedgerEntryResponse {
	return dto.LedgerEntryResponse{
		ProductID:    e.ProductID,
		Period:       e.Period,
		Status:       e.Status,
		Version:      e.Version,
		OpeningStock: toStockQuantityDTO(e.OpeningStock),
		Purchases:    toStockQuantityDTO(e.Purchases),
		SalesPegs:    e.SalesPegs,
		WastageMl:    e.WastageMl,
		CurrentStock: toStockQuantityDTO(e.CurrentStock),
		OpenedAt:     e.OpenedAt,
		ClosedAt:     e.ClosedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}

// ToLedgerEntryResponses convierte una lista de saldos.
func ToLedgerEntryResponses(entries []entity.ProductLedgerEntry) []dto.LedgerEntryResponse {
	out := make([]dto.LedgerEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, ToLedgerEntryResponse(e))
	}
	return out
}

func toStockQuantityDTO(q entity.StockQuantity) dto.StockQuantityDTO {
	return dto.StockQuantityDTO{
		TotalBottles: q.TotalBottles,
		TotalPegs:    q.TotalPegs,
		LoosePegs:    q.DisplayLoosePegs(),
		TotalMl:      q.TotalMl,
	}
}

func toMovementResponse(m *entity.Movement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:        m.ID,
		ProductID: m.ProductID,
		Period:    m.Period,
		Type:      m.Type,
		VolumeMl:  m.VolumeMl,
		Count:     m.Count,
		TotalMl:   m.TotalMl,
		Version:   m.Version,
		At:        m.At,
		CreatedBy: m.CreatedBy,
		Note:      m.Note,
	}
}

func toQuantity(in dto.QuantityRequest) entity.Quantity {
	return entity.Quantity{Bottles: in.Bottles, Pegs: in.Pegs}
}
