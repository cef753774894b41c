package workflow

import (
	"testing"

	"github.com/google/uuid"
	"github.com/portal/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPurchaseOrder(t *testing.T) *Document {
	doc, err := NewPurchaseOrder("PO-2026-00042", uuid.New(), "Acme Components", uuid.New())
	require.NoError(t, err)
	return doc
}

func addTestLine(t *testing.T, doc *Document, name string, quantity float64) *LineItem {
	line, err := doc.AddLine(uuid.New(), name, decimal.NewFromFloat(quantity), decimal.NewFromFloat(9.5))
	require.NoError(t, err)
	return line
}

func TestApply_UndefinedTransition(t *testing.T) {
	registry := DefaultRegistry()
	doc := newTestPurchaseOrder(t)
	actor := NewActor(uuid.New(), RoleAdmin)

	_, err := registry.Apply(doc, ActionApprove, TransitionPayload{}, actor)
	require.Error(t, err)
	assert.True(t, shared.IsCode(err, shared.CodeInvalidTransition))
	assert.Contains(t, err.Error(), "approve")
	assert.Contains(t, err.Error(), "DRAFT")
	assert.Equal(t, StatusDraft, doc.Status, "document must be unchanged")
}

func TestApply_SubmitAndApprove(t *testing.T) {
	registry := DefaultRegistry()
	doc := newTestPurchaseOrder(t)
	addTestLine(t, doc, "M8 bolts", 100)
	versionBefore := doc.Version

	result, err := registry.Apply(doc, ActionSubmit, TransitionPayload{}, NewActor(uuid.New(), RolePurchaser))
	require.NoError(t, err)
	assert.Equal(t, StatusPendingApproval, result.NewStatus)
	assert.Equal(t, versionBefore+1, result.NewVersion)
	assert.NotNil(t, doc.SubmittedAt)

	manager := NewActor(uuid.New(), RoleManager)
	result, err = registry.Apply(doc, ActionApprove, TransitionPayload{}, manager)
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, result.NewStatus)
	assert.Equal(t, versionBefore+2, result.NewVersion)
	assert.NotNil(t, doc.ApprovedAt)
	assert.Equal(t, "Approved", result.AuditEntry.Label)
	assert.Equal(t, manager.ID, result.AuditEntry.ActorID)
	assert.Equal(t, AuditSuccess, result.AuditEntry.Variant)
}

func TestApply_PurchaserMayNotApprove(t *testing.T) {
	registry := DefaultRegistry()
	doc := newTestPurchaseOrder(t)
	addTestLine(t, doc, "M8 bolts", 100)

	_, err := registry.Apply(doc, ActionSubmit, TransitionPayload{}, NewActor(uuid.New(), RolePurchaser))
	require.NoError(t, err)

	_, err = registry.Apply(doc, ActionApprove, TransitionPayload{}, NewActor(uuid.New(), RolePurchaser))
	require.Error(t, err)
	assert.True(t, shared.IsCode(err, shared.CodeForbidden))
	assert.Equal(t, StatusPendingApproval, doc.Status, "status must be unchanged after a rejected guard")
}

func TestApply_RejectRequiresReason(t *testing.T) {
	registry := DefaultRegistry()
	doc := newTestPurchaseOrder(t)
	addTestLine(t, doc, "M8 bolts", 100)

	_, err := registry.Apply(doc, ActionSubmit, TransitionPayload{}, NewActor(uuid.New(), RolePurchaser))
	require.NoError(t, err)

	manager := NewActor(uuid.New(), RoleManager)
	_, err = registry.Apply(doc, ActionReject, TransitionPayload{Reason: "  "}, manager)
	require.Error(t, err)
	assert.True(t, shared.IsCode(err, shared.CodeValidationError))

	result, err := registry.Apply(doc, ActionReject, TransitionPayload{Reason: "wrong supplier quoted"}, manager)
	require.NoError(t, err)
	assert.Equal(t, StatusDraft, result.NewStatus)
	assert.Equal(t, "wrong supplier quoted", doc.RejectionReason)
	assert.Equal(t, "wrong supplier quoted", result.AuditEntry.Detail)
	assert.Equal(t, AuditWarning, result.AuditEntry.Variant)
}

func TestApply_ReceiveDrivesPartialAndFullStatus(t *testing.T) {
	registry := DefaultRegistry()
	doc := newTestPurchaseOrder(t)
	line := addTestLine(t, doc, "M8 bolts", 100)
	actor := NewActor(uuid.New(), RoleWarehouse)

	_, err := registry.Apply(doc, ActionSend, TransitionPayload{}, actor)
	require.NoError(t, err)
	_, err = registry.Apply(doc, ActionAcknowledge, TransitionPayload{}, actor)
	require.NoError(t, err)

	// Partial receipt
	result, err := registry.Apply(doc, ActionReceive, TransitionPayload{
		Quantities: []QuantityChange{{ProductID: line.ProductID, Quantity: decimal.NewFromInt(40)}},
	}, actor)
	require.NoError(t, err)
	assert.Equal(t, StatusPartiallyReceived, result.NewStatus)

	// Remainder
	result, err = registry.Apply(doc, ActionReceive, TransitionPayload{
		Quantities: []QuantityChange{{ProductID: line.ProductID, Quantity: decimal.NewFromInt(60)}},
	}, actor)
	require.NoError(t, err)
	assert.Equal(t, StatusReceived, result.NewStatus)

	// Close out
	result, err = registry.Apply(doc, ActionClose, TransitionPayload{}, actor)
	require.NoError(t, err)
	assert.Equal(t, StatusClosed, result.NewStatus)
	assert.NotNil(t, doc.ClosedAt)
}

func TestApply_ReceiveRejectsExcessQuantity(t *testing.T) {
	registry := DefaultRegistry()
	doc := newTestPurchaseOrder(t)
	line := addTestLine(t, doc, "M8 bolts", 10)
	actor := NewActor(uuid.New(), RoleWarehouse)

	_, err := registry.Apply(doc, ActionSend, TransitionPayload{}, actor)
	require.NoError(t, err)

	_, err = registry.Apply(doc, ActionReceive, TransitionPayload{
		Quantities: []QuantityChange{{ProductID: line.ProductID, Quantity: decimal.NewFromInt(11)}},
	}, actor)
	require.Error(t, err)
	assert.True(t, shared.IsCode(err, shared.CodeValidationError))
}

func TestApply_ReceiveRequiresQuantities(t *testing.T) {
	registry := DefaultRegistry()
	doc := newTestPurchaseOrder(t)
	addTestLine(t, doc, "M8 bolts", 10)
	actor := NewActor(uuid.New(), RoleWarehouse)

	_, err := registry.Apply(doc, ActionSend, TransitionPayload{}, actor)
	require.NoError(t, err)

	_, err = registry.Apply(doc, ActionReceive, TransitionPayload{}, actor)
	require.Error(t, err)
	assert.True(t, shared.IsCode(err, shared.CodeValidationError))
}

func TestApply_CancelRecordsReasonAndTimestamp(t *testing.T) {
	registry := DefaultRegistry()
	doc := newTestPurchaseOrder(t)

	result, err := registry.Apply(doc, ActionCancel, TransitionPayload{Reason: "duplicate order"}, NewActor(uuid.New(), RolePurchaser))
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, result.NewStatus)
	assert.Equal(t, "duplicate order", doc.CancelReason)
	assert.NotNil(t, doc.CancelledAt)
}

func TestApply_SalesOrderDispatchFlow(t *testing.T) {
	registry := DefaultRegistry()
	doc, err := NewSalesOrder("SO-2026-00007", uuid.New(), "Globex Retail", uuid.New())
	require.NoError(t, err)
	lineA := addTestLine(t, doc, "Widget A", 5)
	lineB := addTestLine(t, doc, "Widget B", 3)
	actor := NewActor(uuid.New(), RoleSales)

	_, err = registry.Apply(doc, ActionConfirm, TransitionPayload{}, actor)
	require.NoError(t, err)

	result, err := registry.Apply(doc, ActionDispatch, TransitionPayload{
		Quantities: []QuantityChange{{ProductID: lineA.ProductID, Quantity: decimal.NewFromInt(5)}},
	}, actor)
	require.NoError(t, err)
	assert.Equal(t, StatusPartiallyDispatched, result.NewStatus)

	result, err = registry.Apply(doc, ActionDispatch, TransitionPayload{
		Quantities: []QuantityChange{{ProductID: lineB.ProductID, Quantity: decimal.NewFromInt(3)}},
	}, actor)
	require.NoError(t, err)
	assert.Equal(t, StatusDispatched, result.NewStatus)

	_, err = registry.Apply(doc, ActionDeliver, TransitionPayload{}, actor)
	require.NoError(t, err)
	_, err = registry.Apply(doc, ActionInvoice, TransitionPayload{}, actor)
	require.NoError(t, err)
	result, err = registry.Apply(doc, ActionClose, TransitionPayload{}, actor)
	require.NoError(t, err)
	assert.Equal(t, StatusClosed, result.NewStatus)
}

func TestApply_SalesOrderHoldAndRelease(t *testing.T) {
	registry := DefaultRegistry()
	doc, err := NewSalesOrder("SO-2026-00008", uuid.New(), "Globex Retail", uuid.New())
	require.NoError(t, err)
	actor := NewActor(uuid.New(), RoleSales)

	_, err = registry.Apply(doc, ActionConfirm, TransitionPayload{}, actor)
	require.NoError(t, err)

	result, err := registry.Apply(doc, ActionHold, TransitionPayload{Reason: "credit check pending"}, actor)
	require.NoError(t, err)
	assert.Equal(t, StatusOnHold, result.NewStatus)
	assert.Equal(t, "credit check pending", doc.HoldReason)

	result, err = registry.Apply(doc, ActionRelease, TransitionPayload{}, actor)
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, result.NewStatus)
	assert.Empty(t, doc.HoldReason, "hold reason is cleared on release")
}

func TestApply_JobCardStartRequiresBomReadiness(t *testing.T) {
	registry := DefaultRegistry()
	doc, err := NewJobCard("JC-2026-00003", uuid.New())
	require.NoError(t, err)
	addTestLine(t, doc, "Pump assembly", 10)
	actor := NewActor(uuid.New(), RoleTechnician)

	_, err = registry.Apply(doc, ActionSchedule, TransitionPayload{}, actor)
	require.NoError(t, err)

	short := false
	_, err = registry.Apply(doc, ActionStart, TransitionPayload{BomReady: &short}, actor)
	require.Error(t, err)
	assert.True(t, shared.IsCode(err, shared.CodeValidationError))
	assert.Equal(t, StatusScheduled, doc.Status)

	ready := true
	result, err := registry.Apply(doc, ActionStart, TransitionPayload{BomReady: &ready}, actor)
	require.NoError(t, err)
	assert.Equal(t, StatusInProgress, result.NewStatus)
	assert.NotNil(t, doc.StartedAt)
}

func TestApply_ReturnAuthorizationSelfApproval(t *testing.T) {
	registry := DefaultRegistry()
	requester := uuid.New()
	doc, err := NewReturnAuthorization("RA-2026-00011", uuid.New(), "Globex Retail", requester)
	require.NoError(t, err)

	_, err = registry.Apply(doc, ActionApprove, TransitionPayload{}, NewActor(requester, RoleManager))
	require.Error(t, err)
	assert.True(t, shared.IsCode(err, shared.CodeForbidden))
	assert.Equal(t, StatusRequested, doc.Status)

	result, err := registry.Apply(doc, ActionApprove, TransitionPayload{}, NewActor(uuid.New(), RoleManager))
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, result.NewStatus)
}

func TestApply_ReturnAuthorizationReceiveWithDamage(t *testing.T) {
	registry := DefaultRegistry()
	doc, err := NewReturnAuthorization("RA-2026-00012", uuid.New(), "Globex Retail", uuid.New())
	require.NoError(t, err)
	line := addTestLine(t, doc, "Widget A", 4)
	manager := NewActor(uuid.New(), RoleManager)
	warehouse := NewActor(uuid.New(), RoleWarehouse)

	_, err = registry.Apply(doc, ActionApprove, TransitionPayload{}, manager)
	require.NoError(t, err)

	result, err := registry.Apply(doc, ActionReceive, TransitionPayload{
		Quantities: []QuantityChange{{ProductID: line.ProductID, Quantity: decimal.NewFromInt(4), Damaged: decimal.NewFromInt(1)}},
	}, warehouse)
	require.NoError(t, err)
	assert.Equal(t, StatusReceived, result.NewStatus)
	assert.True(t, doc.Lines[0].QuantityDamaged.Equal(decimal.NewFromInt(1)))

	_, err = registry.Apply(doc, ActionInspect, TransitionPayload{}, warehouse)
	require.NoError(t, err)
	_, err = registry.Apply(doc, ActionCredit, TransitionPayload{}, manager)
	require.NoError(t, err)
	result, err = registry.Apply(doc, ActionClose, TransitionPayload{}, manager)
	require.NoError(t, err)
	assert.Equal(t, StatusClosed, result.NewStatus)
}

func TestApply_PurchaseRequisitionPipeline(t *testing.T) {
	registry := DefaultRegistry()
	requester := uuid.New()
	doc, err := NewPurchaseRequisition("PR-2026-00019", requester)
	require.NoError(t, err)
	addTestLine(t, doc, "Bearing kit", 12)

	_, err = registry.Apply(doc, ActionSubmit, TransitionPayload{}, NewActor(requester, RolePurchaser))
	require.NoError(t, err)

	// The requester cannot approve their own requisition, regardless of role
	_, err = registry.Apply(doc, ActionApprove, TransitionPayload{}, NewActor(requester, RoleAdmin))
	require.Error(t, err)
	assert.True(t, shared.IsCode(err, shared.CodeForbidden))

	_, err = registry.Apply(doc, ActionApprove, TransitionPayload{}, NewActor(uuid.New(), RoleManager))
	require.NoError(t, err)

	result, err := registry.Apply(doc, ActionConvert, TransitionPayload{}, NewActor(uuid.New(), RolePurchaser))
	require.NoError(t, err)
	assert.Equal(t, StatusConverted, result.NewStatus)
	assert.True(t, DefaultRegistry().IsTerminal(KindPurchaseRequisition, StatusConverted))
}

func TestApply_VersionIncrementsByExactlyOnePerTransition(t *testing.T) {
	registry := DefaultRegistry()
	doc := newTestPurchaseOrder(t)
	addTestLine(t, doc, "M8 bolts", 100)
	actor := NewActor(uuid.New(), RolePurchaser)

	start := doc.Version
	_, err := registry.Apply(doc, ActionSubmit, TransitionPayload{}, actor)
	require.NoError(t, err)
	assert.Equal(t, start+1, doc.Version)

	_, err = registry.Apply(doc, ActionSend, TransitionPayload{}, actor)
	require.NoError(t, err)
	assert.Equal(t, start+2, doc.Version)
}

func TestApply_EmitsDomainEvent(t *testing.T) {
	registry := DefaultRegistry()
	doc := newTestPurchaseOrder(t)
	doc.ClearDomainEvents()
	actor := NewActor(uuid.New(), RolePurchaser)

	_, err := registry.Apply(doc, ActionSubmit, TransitionPayload{}, actor)
	require.NoError(t, err)

	events := doc.GetDomainEvents()
	require.Len(t, events, 1)
	transitioned, ok := events[0].(*DocumentTransitionedEvent)
	require.True(t, ok)
	assert.Equal(t, EventTypeDocumentTransitioned, transitioned.EventType())
	assert.Equal(t, StatusDraft, transitioned.FromStatus)
	assert.Equal(t, StatusPendingApproval, transitioned.ToStatus)
	assert.Equal(t, actor.ID, transitioned.ActorID)
}
