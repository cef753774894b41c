package workflow

import (
	"github.com/google/uuid"
	"github.com/portal/backend/internal/domain/shared"
)

// Event types produced by the workflow domain
const (
	EventTypeDocumentCreated      = "workflow.document.created"
	EventTypeDocumentTransitioned = "workflow.document.transitioned"
	EventTypeDraftPOGenerated     = "workflow.purchase_order.generated"
)

const aggregateTypeDocument = "Document"

// DocumentCreatedEvent is raised when a document is created in its
// initial status
type DocumentCreatedEvent struct {
	shared.BaseDomainEvent
	Kind   DocumentKind `json:"kind"`
	Number string       `json:"number"`
	Status Status       `json:"status"`
}

// NewDocumentCreatedEvent creates a DocumentCreatedEvent
func NewDocumentCreatedEvent(doc *Document) *DocumentCreatedEvent {
	return &DocumentCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDocumentCreated, doc.ID, aggregateTypeDocument),
		Kind:            doc.Kind,
		Number:          doc.Number,
		Status:          doc.Status,
	}
}

// DocumentTransitionedEvent is raised on every successful status transition
type DocumentTransitionedEvent struct {
	shared.BaseDomainEvent
	Kind       DocumentKind `json:"kind"`
	Number     string       `json:"number"`
	Action     Action       `json:"action"`
	FromStatus Status       `json:"from_status"`
	ToStatus   Status       `json:"to_status"`
	ActorID    uuid.UUID    `json:"actor_id"`
	NewVersion int          `json:"new_version"`
}

// NewDocumentTransitionedEvent creates a DocumentTransitionedEvent
func NewDocumentTransitionedEvent(doc *Document, action Action, from Status, actor Actor) *DocumentTransitionedEvent {
	return &DocumentTransitionedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDocumentTransitioned, doc.ID, aggregateTypeDocument),
		Kind:            doc.Kind,
		Number:          doc.Number,
		Action:          action,
		FromStatus:      from,
		ToStatus:        doc.Status,
		ActorID:         actor.ID,
		NewVersion:      doc.Version,
	}
}

// DraftPurchaseOrderGeneratedEvent is raised when the replenishment batch
// generator creates a draft purchase order for a supplier group
type DraftPurchaseOrderGeneratedEvent struct {
	shared.BaseDomainEvent
	Number       string    `json:"number"`
	SupplierID   uuid.UUID `json:"supplier_id"`
	SupplierName string    `json:"supplier_name"`
	LineCount    int       `json:"line_count"`
}

// NewDraftPurchaseOrderGeneratedEvent creates a DraftPurchaseOrderGeneratedEvent
func NewDraftPurchaseOrderGeneratedEvent(doc *Document) *DraftPurchaseOrderGeneratedEvent {
	var supplierID uuid.UUID
	if doc.SupplierID != nil {
		supplierID = *doc.SupplierID
	}
	return &DraftPurchaseOrderGeneratedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDraftPOGenerated, doc.ID, aggregateTypeDocument),
		Number:          doc.Number,
		SupplierID:      supplierID,
		SupplierName:    doc.SupplierName,
		LineCount:       doc.LineCount(),
	}
}
