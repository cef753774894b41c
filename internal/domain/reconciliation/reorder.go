package reconciliation

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockStatus classifies a product/warehouse pair in the reorder report
type StockStatus string

const (
	StockStatusOutOfStock StockStatus = "OUT_OF_STOCK"
	StockStatusLowStock   StockStatus = "LOW_STOCK"
)

// InventoryFact is the availability snapshot for one product at one
// warehouse, as supplied by the inventory query service
type InventoryFact struct {
	ProductID       uuid.UUID
	ProductName     string
	SupplierID      uuid.UUID
	SupplierName    string
	Warehouse       string
	OnHand          decimal.Decimal
	Available       decimal.Decimal
	OnOrder         decimal.Decimal
	ReorderPoint    decimal.Decimal
	ReorderQuantity *decimal.Decimal
	CostPrice       *decimal.Decimal
}

// ShortfallRecord is one row of the reorder report. It is derived, never
// persisted: recomputed on demand from current inventory facts.
type ShortfallRecord struct {
	ProductID    uuid.UUID       `json:"product_id"`
	ProductName  string          `json:"product_name"`
	SupplierID   uuid.UUID       `json:"supplier_id"`
	SupplierName string          `json:"supplier_name"`
	Warehouse    string          `json:"warehouse"`
	Status       StockStatus     `json:"status"`
	OnHand       decimal.Decimal `json:"on_hand"`
	Available    decimal.Decimal `json:"available"`
	OnOrder      decimal.Decimal `json:"on_order"`
	ReorderPoint decimal.Decimal `json:"reorder_point"`
	Shortfall    decimal.Decimal `json:"shortfall"`
	SuggestedQty decimal.Decimal `json:"suggested_qty"`
	CostPrice    decimal.Decimal `json:"cost_price"`
}

// ComputeReorderShortfalls computes the reorder report rows from the given
// inventory facts. Healthy products (available at or above the reorder
// point with stock on hand) are excluded. For each flagged row:
// shortfall = max(0, reorderPoint - available), and the suggested order
// quantity is the product's configured reorder quantity, falling back to
// the shortfall itself.
func ComputeReorderShortfalls(facts []InventoryFact) []ShortfallRecord {
	records := make([]ShortfallRecord, 0, len(facts))
	for _, f := range facts {
		var status StockStatus
		switch {
		case f.OnHand.IsZero():
			status = StockStatusOutOfStock
		case f.Available.LessThan(f.ReorderPoint):
			status = StockStatusLowStock
		default:
			continue
		}

		shortfall := f.ReorderPoint.Sub(f.Available)
		if shortfall.IsNegative() {
			shortfall = decimal.Zero
		}

		suggested := shortfall
		if f.ReorderQuantity != nil {
			suggested = *f.ReorderQuantity
		}

		cost := decimal.Zero
		if f.CostPrice != nil {
			cost = *f.CostPrice
		}

		records = append(records, ShortfallRecord{
			ProductID:    f.ProductID,
			ProductName:  f.ProductName,
			SupplierID:   f.SupplierID,
			SupplierName: f.SupplierName,
			Warehouse:    f.Warehouse,
			Status:       status,
			OnHand:       f.OnHand,
			Available:    f.Available,
			OnOrder:      f.OnOrder,
			ReorderPoint: f.ReorderPoint,
			Shortfall:    shortfall,
			SuggestedQty: suggested,
			CostPrice:    cost,
		})
	}
	return records
}
