package replenishment

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/portal/backend/internal/domain/reconciliation"
	"github.com/portal/backend/internal/domain/shared"
	"github.com/portal/backend/internal/domain/workflow"
	"go.uber.org/zap"
)

// CreatedPurchaseOrder identifies one draft purchase order produced by a
// batch run
type CreatedPurchaseOrder struct {
	ID           uuid.UUID `json:"id"`
	Number       string    `json:"number"`
	SupplierID   uuid.UUID `json:"supplier_id"`
	SupplierName string    `json:"supplier_name"`
	LineCount    int       `json:"line_count"`
}

// BatchResult reports a batch run. Created always lists the purchase
// orders committed before any failure.
type BatchResult struct {
	Created []CreatedPurchaseOrder `json:"created"`
}

// BatchGenerator turns selected reorder shortfall rows into draft purchase
// orders, one per supplier. Groups are processed sequentially; on the first
// failure the run stops and already committed orders are kept, never rolled
// back. The caller decides what to do about the remainder.
type BatchGenerator struct {
	documents workflow.DocumentRepository
	audit     workflow.AuditTrailRepository
	logger    *zap.Logger
}

// NewBatchGenerator creates a new BatchGenerator
func NewBatchGenerator(documents workflow.DocumentRepository, audit workflow.AuditTrailRepository, logger *zap.Logger) *BatchGenerator {
	return &BatchGenerator{
		documents: documents,
		audit:     audit,
		logger:    logger,
	}
}

// supplierGroup collects the records selected for one supplier
type supplierGroup struct {
	supplierID   uuid.UUID
	supplierName string
	warehouse    string
	records      []reconciliation.ShortfallRecord
}

// GenerateDraftPOs creates one draft purchase order per supplier found in
// the selected shortfall records. Records with a non-positive suggested
// quantity are skipped. Returns the orders created so far together with a
// PARTIAL_BATCH_FAILURE error if any group fails.
func (g *BatchGenerator) GenerateDraftPOs(ctx context.Context, selected []reconciliation.ShortfallRecord, actor workflow.Actor) (*BatchResult, error) {
	groups := groupBySupplier(selected)
	result := &BatchResult{Created: make([]CreatedPurchaseOrder, 0, len(groups))}

	for _, group := range groups {
		if err := ctx.Err(); err != nil {
			return result, g.partialFailure(result, group.supplierName, err)
		}

		created, err := g.createOrder(ctx, group, actor)
		if err != nil {
			return result, g.partialFailure(result, group.supplierName, err)
		}
		if created != nil {
			result.Created = append(result.Created, *created)
		}
	}

	g.logger.Info("draft purchase orders generated",
		zap.Int("selected", len(selected)),
		zap.Int("created", len(result.Created)),
		zap.String("actor_id", actor.ID.String()),
	)
	return result, nil
}

// groupBySupplier buckets records by supplier in first-seen order, then
// sorts the buckets by supplier display name for a stable batch order
func groupBySupplier(selected []reconciliation.ShortfallRecord) []supplierGroup {
	index := make(map[uuid.UUID]int)
	groups := make([]supplierGroup, 0)

	for _, record := range selected {
		pos, seen := index[record.SupplierID]
		if !seen {
			pos = len(groups)
			index[record.SupplierID] = pos
			groups = append(groups, supplierGroup{
				supplierID:   record.SupplierID,
				supplierName: record.SupplierName,
				warehouse:    record.Warehouse,
			})
		}
		groups[pos].records = append(groups[pos].records, record)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].supplierName < groups[j].supplierName
	})
	return groups
}

// createOrder builds, fills and saves the draft purchase order for one
// supplier group. Returns nil without error when every record in the group
// was skipped.
func (g *BatchGenerator) createOrder(ctx context.Context, group supplierGroup, actor workflow.Actor) (*CreatedPurchaseOrder, error) {
	lines := 0
	for _, record := range group.records {
		if record.SuggestedQty.IsPositive() {
			lines++
		}
	}
	if lines == 0 {
		return nil, nil
	}

	number, err := g.documents.GenerateNumber(ctx, workflow.KindPurchaseOrder)
	if err != nil {
		return nil, err
	}

	order, err := workflow.NewPurchaseOrder(number, group.supplierID, group.supplierName, actor.ID)
	if err != nil {
		return nil, err
	}
	order.SetWarehouse(group.warehouse)
	order.SetNotes(fmt.Sprintf("generated from reorder report, %d items", lines))

	for _, record := range group.records {
		if !record.SuggestedQty.IsPositive() {
			continue
		}
		if _, err := order.AddLine(record.ProductID, record.ProductName, record.SuggestedQty, record.CostPrice); err != nil {
			return nil, err
		}
	}
	order.AddDomainEvent(workflow.NewDraftPurchaseOrderGeneratedEvent(order))

	if err := g.documents.Save(ctx, order); err != nil {
		return nil, err
	}

	entry := workflow.NewAuditEntry(order.ID, "Created from reorder report", actor.ID,
		fmt.Sprintf("%d items for %s", lines, group.supplierName), workflow.AuditNeutral)
	if err := g.audit.Append(ctx, entry); err != nil {
		g.logger.Error("failed to append audit entry",
			zap.String("document_id", order.ID.String()),
			zap.Error(err),
		)
	}

	return &CreatedPurchaseOrder{
		ID:           order.ID,
		Number:       order.Number,
		SupplierID:   group.supplierID,
		SupplierName: group.supplierName,
		LineCount:    lines,
	}, nil
}

// partialFailure wraps the failing group's error, logging what was kept
func (g *BatchGenerator) partialFailure(result *BatchResult, supplierName string, cause error) error {
	g.logger.Warn("batch generation stopped",
		zap.String("failed_supplier", supplierName),
		zap.Int("created_before_failure", len(result.Created)),
		zap.Error(cause),
	)
	return shared.NewDomainError(shared.CodePartialBatchFailure,
		fmt.Sprintf("Batch stopped at supplier %q after %d orders: %s", supplierName, len(result.Created), cause.Error()))
}
