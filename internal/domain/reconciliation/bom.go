package reconciliation

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BomStatus is the job-level bill-of-materials readiness
type BomStatus string

const (
	BomStatusReady    BomStatus = "READY"
	BomStatusShortage BomStatus = "SHORTAGE"
)

// BomFact is one component row of a product's bill of materials together
// with its current available stock, as supplied by the BOM lookup service
type BomFact struct {
	ComponentProductID uuid.UUID
	ComponentName      string
	QuantityPerUnit    decimal.Decimal
	AvailableStock     decimal.Decimal
	IsOptional         bool
}

// BomComponent is one expanded component requirement for a job. Derived,
// never persisted.
type BomComponent struct {
	ProductID        uuid.UUID       `json:"product_id"`
	ProductName      string          `json:"product_name"`
	QuantityPerUnit  decimal.Decimal `json:"quantity_per_unit"`
	RequiredQuantity decimal.Decimal `json:"required_quantity"`
	AvailableStock   decimal.Decimal `json:"available_stock"`
	IsOptional       bool            `json:"is_optional"`
	Shortfall        decimal.Decimal `json:"shortfall"`
	CanFulfill       bool            `json:"can_fulfill"`
}

// BomResult is the expanded component list plus the job-level status
type BomResult struct {
	Components []BomComponent `json:"components"`
	Status     BomStatus      `json:"status"`
}

// ComputeBomStatus expands a job's bill of materials for the given job
// quantity. For every row: requiredQuantity = quantityPerUnit x jobQuantity,
// shortfall = max(0, requiredQuantity - availableStock), canFulfill iff the
// shortfall is zero. The job is SHORTAGE if any non-optional component has
// a shortfall, READY otherwise. Optional components are reported but never
// force a shortage.
func ComputeBomStatus(jobQuantity decimal.Decimal, facts []BomFact) BomResult {
	components := make([]BomComponent, 0, len(facts))
	status := BomStatusReady

	for _, f := range facts {
		required := f.QuantityPerUnit.Mul(jobQuantity)
		shortfall := required.Sub(f.AvailableStock)
		if shortfall.IsNegative() {
			shortfall = decimal.Zero
		}

		component := BomComponent{
			ProductID:        f.ComponentProductID,
			ProductName:      f.ComponentName,
			QuantityPerUnit:  f.QuantityPerUnit,
			RequiredQuantity: required,
			AvailableStock:   f.AvailableStock,
			IsOptional:       f.IsOptional,
			Shortfall:        shortfall,
			CanFulfill:       shortfall.IsZero(),
		}
		components = append(components, component)

		if !f.IsOptional && shortfall.GreaterThan(decimal.Zero) {
			status = BomStatusShortage
		}
	}

	return BomResult{Components: components, Status: status}
}
