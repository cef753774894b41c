package reconciliation

import (
	"context"

	"github.com/google/uuid"
	"github.com/portal/backend/internal/domain/reconciliation"
	"github.com/portal/backend/internal/domain/shared"
	"github.com/portal/backend/internal/domain/workflow"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// InventoryReader supplies current availability snapshots. Implementations
// sit over the inventory store of the wider system.
type InventoryReader interface {
	// Snapshot returns the availability facts for every stocked product,
	// optionally restricted to one warehouse (empty means all)
	Snapshot(ctx context.Context, warehouse string) ([]reconciliation.InventoryFact, error)
}

// BomReader supplies bill-of-materials rows joined with current stock
type BomReader interface {
	// ComponentsFor returns the BOM rows for one assembled product
	ComponentsFor(ctx context.Context, productID uuid.UUID) ([]reconciliation.BomFact, error)
}

// ReorderReportService computes the reorder shortfall report on demand.
// Nothing is persisted; every call reflects current inventory.
type ReorderReportService struct {
	inventory InventoryReader
	logger    *zap.Logger
}

// NewReorderReportService creates a new ReorderReportService
func NewReorderReportService(inventory InventoryReader, logger *zap.Logger) *ReorderReportService {
	return &ReorderReportService{inventory: inventory, logger: logger}
}

// Report returns the shortfall rows for the warehouse (empty for all)
func (s *ReorderReportService) Report(ctx context.Context, warehouse string) ([]reconciliation.ShortfallRecord, error) {
	facts, err := s.inventory.Snapshot(ctx, warehouse)
	if err != nil {
		return nil, err
	}

	records := reconciliation.ComputeReorderShortfalls(facts)

	s.logger.Debug("reorder report computed",
		zap.String("warehouse", warehouse),
		zap.Int("products_checked", len(facts)),
		zap.Int("flagged", len(records)),
	)
	return records, nil
}

// BomStatusResponse is the API representation of a job card's BOM readiness
type BomStatusResponse struct {
	JobCardID  uuid.UUID                     `json:"job_card_id"`
	Number     string                        `json:"number"`
	Status     reconciliation.BomStatus      `json:"status"`
	Components []reconciliation.BomComponent `json:"components"`
}

// BomStatusService expands and checks bills of materials for job cards
type BomStatusService struct {
	documents workflow.DocumentRepository
	bom       BomReader
	logger    *zap.Logger
}

// NewBomStatusService creates a new BomStatusService
func NewBomStatusService(documents workflow.DocumentRepository, bom BomReader, logger *zap.Logger) *BomStatusService {
	return &BomStatusService{documents: documents, bom: bom, logger: logger}
}

// StatusForJobCard computes the BOM readiness for the job card, aggregating
// component requirements across all of its lines
func (s *BomStatusService) StatusForJobCard(ctx context.Context, jobCardID uuid.UUID) (*BomStatusResponse, error) {
	doc, err := s.documents.FindByID(ctx, jobCardID)
	if err != nil {
		return nil, err
	}
	if doc.Kind != workflow.KindJobCard {
		return nil, shared.NewValidationError("Document %s is not a job card", doc.Number)
	}

	result, err := s.compute(ctx, doc)
	if err != nil {
		return nil, err
	}

	return &BomStatusResponse{
		JobCardID:  doc.ID,
		Number:     doc.Number,
		Status:     result.Status,
		Components: result.Components,
	}, nil
}

// IsBomReady reports whether every non-optional component requirement of
// the job card can be met from available stock
func (s *BomStatusService) IsBomReady(ctx context.Context, doc *workflow.Document) (bool, error) {
	result, err := s.compute(ctx, doc)
	if err != nil {
		return false, err
	}
	return result.Status == reconciliation.BomStatusReady, nil
}

// compute merges the BOM rows of every job line into one requirement set,
// then runs the readiness calculator over it. A component used by several
// lines is checked once against the sum of its requirements.
func (s *BomStatusService) compute(ctx context.Context, doc *workflow.Document) (reconciliation.BomResult, error) {
	merged := make(map[uuid.UUID]reconciliation.BomFact)
	order := make([]uuid.UUID, 0)

	for _, line := range doc.Lines {
		facts, err := s.bom.ComponentsFor(ctx, line.ProductID)
		if err != nil {
			return reconciliation.BomResult{}, err
		}
		for _, fact := range facts {
			requirement := fact.QuantityPerUnit.Mul(line.QuantityOrdered)
			existing, seen := merged[fact.ComponentProductID]
			if !seen {
				merged[fact.ComponentProductID] = reconciliation.BomFact{
					ComponentProductID: fact.ComponentProductID,
					ComponentName:      fact.ComponentName,
					QuantityPerUnit:    requirement,
					AvailableStock:     fact.AvailableStock,
					IsOptional:         fact.IsOptional,
				}
				order = append(order, fact.ComponentProductID)
				continue
			}
			existing.QuantityPerUnit = existing.QuantityPerUnit.Add(requirement)
			// A component is optional only if every line treats it as optional
			existing.IsOptional = existing.IsOptional && fact.IsOptional
			merged[fact.ComponentProductID] = existing
		}
	}

	facts := make([]reconciliation.BomFact, 0, len(order))
	for _, id := range order {
		facts = append(facts, merged[id])
	}

	// Per-line requirements are already folded into QuantityPerUnit
	return reconciliation.ComputeBomStatus(decimal.NewFromInt(1), facts), nil
}
