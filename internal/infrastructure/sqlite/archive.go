package sqlite

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/jhoicas/liquor-ledger/internal/domain/entity"
	"github.com/jhoicas/liquor-ledger/internal/domain/units"
)

// archivedEntry periodo cerrado serializado con msgpack. Los decimales van como texto
// para no perder precisión; botellas y pegs se reconstruyen desde los ml.
type archivedEntry struct {
	ProductID      string `msgpack:"product_id"`
	Period         string `msgpack:"period"`
	Size           string `msgpack:"size,omitempty"`
	MlPerBottle    string `msgpack:"ml_per_bottle"`
	BottlesPerCase int    `msgpack:"bottles_per_case"`
	Category       string `msgpack:"category,omitempty"`
	OpeningMl      string `msgpack:"opening_ml"`
	PurchasesMl    string `msgpack:"purchases_ml"`
	SalesPegs      string `msgpack:"sales_pegs"`
	WastageMl      string `msgpack:"wastage_ml"`
	CurrentMl      string `msgpack:"current_ml"`
	Version        int64  `msgpack:"version"`
	OpenedAtMs     int64  `msgpack:"opened_at"`
	ClosedAtMs     int64  `msgpack:"closed_at"`
	UpdatedAtMs    int64  `msgpack:"updated_at"`
}

func encodeArchive(e entity.ProductLedgerEntry) ([]byte, error) {
	rec := archivedEntry{
		ProductID:      e.ProductID,
		Period:         e.Period,
		Size:           e.Config.Size,
		MlPerBottle:    e.Config.MlPerBottle.String(),
		BottlesPerCase: e.Config.BottlesPerCase,
		Category:       e.Config.Category,
		OpeningMl:      e.OpeningStock.TotalMl.String(),
		PurchasesMl:    e.Purchases.TotalMl.String(),
		SalesPegs:      e.SalesPegs.String(),
		WastageMl:      e.WastageMl.String(),
		CurrentMl:      e.CurrentStock.TotalMl.String(),
		Version:        e.Version,
		OpenedAtMs:     e.OpenedAt.UnixMilli(),
		UpdatedAtMs:    e.UpdatedAt.UnixMilli(),
	}
	if e.ClosedAt != nil {
		rec.ClosedAtMs = e.ClosedAt.UnixMilli()
	}
	return msgpack.Marshal(&rec)
}

func decodeArchive(payload []byte) (entity.ProductLedgerEntry, error) {
	var rec archivedEntry
	if err := msgpack.Unmarshal(payload, &rec); err != nil {
		return entity.ProductLedgerEntry{}, err
	}
	dec := decimals{}
	e := entity.ProductLedgerEntry{
		ProductID: rec.ProductID,
		Period:    rec.Period,
		Config: entity.ProductConfig{
			Size:           rec.Size,
			MlPerBottle:    dec.parse(rec.MlPerBottle),
			BottlesPerCase: rec.BottlesPerCase,
			Category:       rec.Category,
		},
		SalesPegs: dec.parse(rec.SalesPegs),
		WastageMl: dec.parse(rec.WastageMl),
		Version:   rec.Version,
		Status:    entity.PeriodStatusClosed,
		OpenedAt:  time.UnixMilli(rec.OpenedAtMs).UTC(),
		UpdatedAt: time.UnixMilli(rec.UpdatedAtMs).UTC(),
	}
	closedAt := time.UnixMilli(rec.ClosedAtMs).UTC()
	e.ClosedAt = &closedAt
	if dec.err != nil {
		return entity.ProductLedgerEntry{}, dec.err
	}

	var err error
	if e.OpeningStock, err = units.FromMl(dec.parse(rec.OpeningMl), e.Config); err != nil {
		return entity.ProductLedgerEntry{}, err
	}
	if e.Purchases, err = units.FromMl(dec.parse(rec.PurchasesMl), e.Config); err != nil {
		return entity.ProductLedgerEntry{}, err
	}
	if e.CurrentStock, err = units.FromMl(dec.parse(rec.CurrentMl), e.Config); err != nil {
		return entity.ProductLedgerEntry{}, err
	}
	return e, dec.err
}

// decimals acumula el primer error de conversión.
type decimals struct{ err error }

func (d *decimals) parse(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil && d.err == nil {
		d.err = err
	}
	return v
}
