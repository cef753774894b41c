package reconciliation

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/portal/backend/internal/domain/reconciliation"
	"github.com/portal/backend/internal/domain/shared"
	"github.com/portal/backend/internal/domain/workflow"
	"github.com/portal/backend/internal/infrastructure/persistence/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubInventoryReader struct {
	facts []reconciliation.InventoryFact
	err   error
}

func (s *stubInventoryReader) Snapshot(ctx context.Context, warehouse string) ([]reconciliation.InventoryFact, error) {
	return s.facts, s.err
}

type stubBomReader struct {
	byProduct map[uuid.UUID][]reconciliation.BomFact
	err       error
}

func (s *stubBomReader) ComponentsFor(ctx context.Context, productID uuid.UUID) ([]reconciliation.BomFact, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.byProduct[productID], nil
}

func TestReorderReportService_Report(t *testing.T) {
	inventory := &stubInventoryReader{facts: []reconciliation.InventoryFact{
		{ProductID: uuid.New(), ProductName: "M8 bolts", SupplierID: uuid.New(),
			OnHand: decimal.Zero, Available: decimal.Zero, ReorderPoint: decimal.NewFromInt(50)},
		{ProductID: uuid.New(), ProductName: "Washers", SupplierID: uuid.New(),
			OnHand: decimal.NewFromInt(500), Available: decimal.NewFromInt(500), ReorderPoint: decimal.NewFromInt(100)},
	}}
	svc := NewReorderReportService(inventory, zap.NewNop())

	records, err := svc.Report(context.Background(), "MAIN")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "M8 bolts", records[0].ProductName)
	assert.Equal(t, reconciliation.StockStatusOutOfStock, records[0].Status)
}

func TestReorderReportService_PropagatesError(t *testing.T) {
	svc := NewReorderReportService(&stubInventoryReader{err: assert.AnError}, zap.NewNop())
	_, err := svc.Report(context.Background(), "")
	require.Error(t, err)
}

func seedJobCard(t *testing.T, docs *memory.DocumentRepository, productID uuid.UUID, quantity int64) *workflow.Document {
	doc, err := workflow.NewJobCard("JC-2026-00200", uuid.New())
	require.NoError(t, err)
	_, err = doc.AddLine(productID, "Pump assembly", decimal.NewFromInt(quantity), decimal.Zero)
	require.NoError(t, err)
	require.NoError(t, docs.Save(context.Background(), doc))
	return doc
}

func TestBomStatusService_StatusForJobCard_Shortage(t *testing.T) {
	docs := memory.NewDocumentRepository()
	productID := uuid.New()
	doc := seedJobCard(t, docs, productID, 5)

	bom := &stubBomReader{byProduct: map[uuid.UUID][]reconciliation.BomFact{
		productID: {{
			ComponentProductID: uuid.New(), ComponentName: "Drive belt",
			QuantityPerUnit: decimal.NewFromInt(2), AvailableStock: decimal.NewFromInt(4),
		}},
	}}
	svc := NewBomStatusService(docs, bom, zap.NewNop())

	resp, err := svc.StatusForJobCard(context.Background(), doc.ID)
	require.NoError(t, err)
	assert.Equal(t, reconciliation.BomStatusShortage, resp.Status)
	require.Len(t, resp.Components, 1)
	assert.True(t, resp.Components[0].RequiredQuantity.Equal(decimal.NewFromInt(10)))
	assert.True(t, resp.Components[0].Shortfall.Equal(decimal.NewFromInt(6)))
}

func TestBomStatusService_AggregatesSharedComponentsAcrossLines(t *testing.T) {
	docs := memory.NewDocumentRepository()
	productA := uuid.New()
	productB := uuid.New()
	sharedComponent := uuid.New()

	doc, err := workflow.NewJobCard("JC-2026-00201", uuid.New())
	require.NoError(t, err)
	_, err = doc.AddLine(productA, "Pump assembly", decimal.NewFromInt(2), decimal.Zero)
	require.NoError(t, err)
	_, err = doc.AddLine(productB, "Valve assembly", decimal.NewFromInt(3), decimal.Zero)
	require.NoError(t, err)
	require.NoError(t, docs.Save(context.Background(), doc))

	// Both assemblies use the same bearing; 2*2 + 3*1 = 7 required, 6 on hand
	bom := &stubBomReader{byProduct: map[uuid.UUID][]reconciliation.BomFact{
		productA: {{ComponentProductID: sharedComponent, ComponentName: "Bearing",
			QuantityPerUnit: decimal.NewFromInt(2), AvailableStock: decimal.NewFromInt(6)}},
		productB: {{ComponentProductID: sharedComponent, ComponentName: "Bearing",
			QuantityPerUnit: decimal.NewFromInt(1), AvailableStock: decimal.NewFromInt(6)}},
	}}
	svc := NewBomStatusService(docs, bom, zap.NewNop())

	resp, err := svc.StatusForJobCard(context.Background(), doc.ID)
	require.NoError(t, err)
	assert.Equal(t, reconciliation.BomStatusShortage, resp.Status)
	require.Len(t, resp.Components, 1)
	assert.True(t, resp.Components[0].RequiredQuantity.Equal(decimal.NewFromInt(7)))
	assert.True(t, resp.Components[0].Shortfall.Equal(decimal.NewFromInt(1)))
}

func TestBomStatusService_RejectsNonJobCard(t *testing.T) {
	docs := memory.NewDocumentRepository()
	doc, err := workflow.NewPurchaseRequisition("PR-2026-00200", uuid.New())
	require.NoError(t, err)
	require.NoError(t, docs.Save(context.Background(), doc))

	svc := NewBomStatusService(docs, &stubBomReader{}, zap.NewNop())
	_, err = svc.StatusForJobCard(context.Background(), doc.ID)
	require.Error(t, err)
	assert.True(t, shared.IsCode(err, shared.CodeValidationError))
}

func TestBomStatusService_IsBomReady(t *testing.T) {
	docs := memory.NewDocumentRepository()
	productID := uuid.New()
	doc := seedJobCard(t, docs, productID, 5)

	bom := &stubBomReader{byProduct: map[uuid.UUID][]reconciliation.BomFact{
		productID: {{
			ComponentProductID: uuid.New(), ComponentName: "Drive belt",
			QuantityPerUnit: decimal.NewFromInt(2), AvailableStock: decimal.NewFromInt(10),
		}},
	}}
	svc := NewBomStatusService(docs, bom, zap.NewNop())

	ready, err := svc.IsBomReady(context.Background(), doc)
	require.NoError(t, err)
	assert.True(t, ready)
}
