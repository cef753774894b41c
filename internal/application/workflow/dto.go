package workflow

import (
	"time"

	"github.com/google/uuid"
	"github.com/portal/backend/internal/domain/workflow"
	"github.com/shopspring/decimal"
)

// CreateDocumentRequest is the request to create a new document
type CreateDocumentRequest struct {
	Kind         string              `json:"kind" binding:"required"`
	SupplierID   *uuid.UUID          `json:"supplier_id,omitempty"`
	SupplierName string              `json:"supplier_name,omitempty"`
	CustomerID   *uuid.UUID          `json:"customer_id,omitempty"`
	CustomerName string              `json:"customer_name,omitempty"`
	Warehouse    string              `json:"warehouse,omitempty"`
	Notes        string              `json:"notes,omitempty"`
	Lines        []CreateLineRequest `json:"lines,omitempty"`
}

// CreateLineRequest is one product line of a create request
type CreateLineRequest struct {
	ProductID   uuid.UUID       `json:"product_id" binding:"required"`
	ProductName string          `json:"product_name" binding:"required"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
}

// TransitionRequest asks for an action against a document snapshot. The
// expected version is the version the client loaded the document at.
type TransitionRequest struct {
	Action          string                    `json:"action" binding:"required"`
	ExpectedVersion int                       `json:"expected_version" binding:"required"`
	Reason          string                    `json:"reason,omitempty"`
	Detail          string                    `json:"detail,omitempty"`
	Quantities      []workflow.QuantityChange `json:"quantities,omitempty"`
}

// TransitionResponse reports a successful transition
type TransitionResponse struct {
	DocumentID uuid.UUID          `json:"document_id"`
	Status     string             `json:"status"`
	Version    int                `json:"version"`
	AuditEntry AuditEntryResponse `json:"audit_entry"`
}

// LineResponse is one document line in API responses
type LineResponse struct {
	ID                 uuid.UUID       `json:"id"`
	ProductID          uuid.UUID       `json:"product_id"`
	ProductName        string          `json:"product_name"`
	QuantityOrdered    decimal.Decimal `json:"quantity_ordered"`
	QuantityDispatched decimal.Decimal `json:"quantity_dispatched"`
	QuantityReceived   decimal.Decimal `json:"quantity_received"`
	QuantityReturned   decimal.Decimal `json:"quantity_returned"`
	QuantityDamaged    decimal.Decimal `json:"quantity_damaged"`
	UnitCost           decimal.Decimal `json:"unit_cost"`
	Amount             decimal.Decimal `json:"amount"`
}

// DocumentResponse is the API representation of a document
type DocumentResponse struct {
	ID             uuid.UUID       `json:"id"`
	Kind           string          `json:"kind"`
	Number         string          `json:"number"`
	Status         string          `json:"status"`
	Version        int             `json:"version"`
	RequestedBy    uuid.UUID       `json:"requested_by"`
	SupplierID     *uuid.UUID      `json:"supplier_id,omitempty"`
	SupplierName   string          `json:"supplier_name,omitempty"`
	CustomerID     *uuid.UUID      `json:"customer_id,omitempty"`
	CustomerName   string          `json:"customer_name,omitempty"`
	Warehouse      string          `json:"warehouse,omitempty"`
	Notes          string          `json:"notes,omitempty"`
	HoldReason     string          `json:"hold_reason,omitempty"`
	CancelReason   string          `json:"cancel_reason,omitempty"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	Lines          []LineResponse  `json:"lines"`
	AllowedActions []string        `json:"allowed_actions"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// AuditEntryResponse is one audit timeline row in API responses
type AuditEntryResponse struct {
	ID        uuid.UUID `json:"id"`
	Label     string    `json:"label"`
	ActorID   uuid.UUID `json:"actor_id"`
	Timestamp time.Time `json:"timestamp"`
	Detail    string    `json:"detail,omitempty"`
	Variant   string    `json:"variant"`
}

// ToLineResponse converts a line item to its API representation
func ToLineResponse(line workflow.LineItem) LineResponse {
	return LineResponse{
		ID:                 line.ID,
		ProductID:          line.ProductID,
		ProductName:        line.ProductName,
		QuantityOrdered:    line.QuantityOrdered,
		QuantityDispatched: line.QuantityDispatched,
		QuantityReceived:   line.QuantityReceived,
		QuantityReturned:   line.QuantityReturned,
		QuantityDamaged:    line.QuantityDamaged,
		UnitCost:           line.UnitCost,
		Amount:             line.Amount,
	}
}

// ToDocumentResponse converts a document to its API representation,
// including the actions the registry allows from its current status
func ToDocumentResponse(doc *workflow.Document, registry *workflow.Registry) DocumentResponse {
	lines := make([]LineResponse, 0, len(doc.Lines))
	for _, line := range doc.Lines {
		lines = append(lines, ToLineResponse(line))
	}

	actions := registry.AllowedActions(doc.Kind, doc.Status)
	allowed := make([]string, 0, len(actions))
	for _, a := range actions {
		allowed = append(allowed, a.String())
	}

	return DocumentResponse{
		ID:             doc.ID,
		Kind:           doc.Kind.String(),
		Number:         doc.Number,
		Status:         doc.Status.String(),
		Version:        doc.Version,
		RequestedBy:    doc.RequestedBy,
		SupplierID:     doc.SupplierID,
		SupplierName:   doc.SupplierName,
		CustomerID:     doc.CustomerID,
		CustomerName:   doc.CustomerName,
		Warehouse:      doc.Warehouse,
		Notes:          doc.Notes,
		HoldReason:     doc.HoldReason,
		CancelReason:   doc.CancelReason,
		TotalAmount:    doc.TotalAmount(),
		Lines:          lines,
		AllowedActions: allowed,
		CreatedAt:      doc.CreatedAt,
		UpdatedAt:      doc.UpdatedAt,
	}
}

// ToAuditEntryResponse converts an audit entry to its API representation
func ToAuditEntryResponse(entry workflow.AuditEntry) AuditEntryResponse {
	return AuditEntryResponse{
		ID:        entry.ID,
		Label:     entry.Label,
		ActorID:   entry.ActorID,
		Timestamp: entry.Timestamp,
		Detail:    entry.Detail,
		Variant:   string(entry.Variant),
	}
}
