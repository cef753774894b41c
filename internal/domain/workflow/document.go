package workflow

import (
	"time"

	"github.com/google/uuid"
	"github.com/portal/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Document is the aggregate root shared by all five commercial document
// kinds. Status moves exclusively through registry-validated transitions;
// Version is bumped once per successful mutation and backs the
// compare-and-swap write in the repository.
type Document struct {
	shared.BaseAggregateRoot
	Kind            DocumentKind `gorm:"type:varchar(30);not null;index"`
	Number          string       `gorm:"type:varchar(50);not null;uniqueIndex"`
	Status          Status       `gorm:"type:varchar(30);not null;index"`
	RequestedBy     uuid.UUID    `gorm:"type:uuid;not null;index"`
	SupplierID      *uuid.UUID   `gorm:"type:uuid;index"`
	SupplierName    string       `gorm:"type:varchar(200)"`
	CustomerID      *uuid.UUID   `gorm:"type:uuid;index"`
	CustomerName    string       `gorm:"type:varchar(200)"`
	Warehouse       string       `gorm:"type:varchar(100)"`
	Notes           string       `gorm:"type:text"`
	HoldReason      string       `gorm:"type:varchar(500)"`
	RejectionReason string       `gorm:"type:varchar(500)"`
	CancelReason    string       `gorm:"type:varchar(500)"`
	Lines           []LineItem   `gorm:"foreignKey:DocumentID;references:ID"`
	SubmittedAt     *time.Time
	ApprovedAt      *time.Time
	SentAt          *time.Time
	ConfirmedAt     *time.Time
	ScheduledAt     *time.Time
	StartedAt       *time.Time
	CompletedAt     *time.Time
	CancelledAt     *time.Time
	ClosedAt        *time.Time
}

// TableName returns the table name for GORM
func (Document) TableName() string {
	return "documents"
}

// NewDocument creates a document of the given kind in its initial status
func NewDocument(kind DocumentKind, number string, requestedBy uuid.UUID) (*Document, error) {
	if !kind.IsValid() {
		return nil, shared.NewValidationError("Unknown document kind %q", string(kind))
	}
	if number == "" {
		return nil, shared.NewValidationError("Document number cannot be empty")
	}
	if len(number) > 50 {
		return nil, shared.NewValidationError("Document number cannot exceed 50 characters")
	}
	if requestedBy == uuid.Nil {
		return nil, shared.NewValidationError("Requesting user cannot be empty")
	}

	doc := &Document{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Kind:              kind,
		Number:            number,
		Status:            InitialStatus(kind),
		RequestedBy:       requestedBy,
		Lines:             make([]LineItem, 0),
	}
	doc.AddDomainEvent(NewDocumentCreatedEvent(doc))
	return doc, nil
}

// NewPurchaseOrder creates a draft purchase order for a supplier
func NewPurchaseOrder(number string, supplierID uuid.UUID, supplierName string, requestedBy uuid.UUID) (*Document, error) {
	if supplierID == uuid.Nil {
		return nil, shared.NewValidationError("Supplier ID cannot be empty")
	}
	if supplierName == "" {
		return nil, shared.NewValidationError("Supplier name cannot be empty")
	}
	doc, err := NewDocument(KindPurchaseOrder, number, requestedBy)
	if err != nil {
		return nil, err
	}
	doc.SupplierID = &supplierID
	doc.SupplierName = supplierName
	return doc, nil
}

// NewSalesOrder creates a draft sales order for a customer
func NewSalesOrder(number string, customerID uuid.UUID, customerName string, requestedBy uuid.UUID) (*Document, error) {
	if customerID == uuid.Nil {
		return nil, shared.NewValidationError("Customer ID cannot be empty")
	}
	if customerName == "" {
		return nil, shared.NewValidationError("Customer name cannot be empty")
	}
	doc, err := NewDocument(KindSalesOrder, number, requestedBy)
	if err != nil {
		return nil, err
	}
	doc.CustomerID = &customerID
	doc.CustomerName = customerName
	return doc, nil
}

// NewJobCard creates a pending job card
func NewJobCard(number string, requestedBy uuid.UUID) (*Document, error) {
	return NewDocument(KindJobCard, number, requestedBy)
}

// NewReturnAuthorization creates a requested return authorization for a customer
func NewReturnAuthorization(number string, customerID uuid.UUID, customerName string, requestedBy uuid.UUID) (*Document, error) {
	if customerID == uuid.Nil {
		return nil, shared.NewValidationError("Customer ID cannot be empty")
	}
	doc, err := NewDocument(KindReturnAuthorization, number, requestedBy)
	if err != nil {
		return nil, err
	}
	doc.CustomerID = &customerID
	doc.CustomerName = customerName
	return doc, nil
}

// NewPurchaseRequisition creates a draft purchase requisition
func NewPurchaseRequisition(number string, requestedBy uuid.UUID) (*Document, error) {
	return NewDocument(KindPurchaseRequisition, number, requestedBy)
}

// AddLine adds a product line to the document.
// Only allowed while the document is in its initial status.
func (d *Document) AddLine(productID uuid.UUID, productName string, quantity, unitCost decimal.Decimal) (*LineItem, error) {
	if d.Status != InitialStatus(d.Kind) {
		return nil, shared.NewValidationError("Cannot add lines to a document in %s status", d.Status)
	}
	for _, line := range d.Lines {
		if line.ProductID == productID {
			return nil, shared.NewValidationError("Product already exists on document, update the line instead")
		}
	}

	line, err := NewLineItem(d.ID, productID, productName, quantity, unitCost)
	if err != nil {
		return nil, err
	}
	d.Lines = append(d.Lines, *line)
	d.UpdatedAt = time.Now()
	d.IncrementVersion()
	return line, nil
}

// RemoveLine removes a product line from the document.
// Only allowed while the document is in its initial status.
func (d *Document) RemoveLine(lineID uuid.UUID) error {
	if d.Status != InitialStatus(d.Kind) {
		return shared.NewValidationError("Cannot remove lines from a document in %s status", d.Status)
	}
	for idx, line := range d.Lines {
		if line.ID == lineID {
			d.Lines = append(d.Lines[:idx], d.Lines[idx+1:]...)
			d.UpdatedAt = time.Now()
			d.IncrementVersion()
			return nil
		}
	}
	return shared.NewDomainError(shared.CodeNotFound, "Document line not found")
}

// SetWarehouse sets the delivery/receiving location
func (d *Document) SetWarehouse(warehouse string) {
	d.Warehouse = warehouse
	d.UpdatedAt = time.Now()
}

// SetNotes sets the free-form notes
func (d *Document) SetNotes(notes string) {
	d.Notes = notes
	d.UpdatedAt = time.Now()
}

// GetLine returns a line by its ID
func (d *Document) GetLine(lineID uuid.UUID) *LineItem {
	for idx := range d.Lines {
		if d.Lines[idx].ID == lineID {
			return &d.Lines[idx]
		}
	}
	return nil
}

// GetLineByProduct returns a line by product ID
func (d *Document) GetLineByProduct(productID uuid.UUID) *LineItem {
	for idx := range d.Lines {
		if d.Lines[idx].ProductID == productID {
			return &d.Lines[idx]
		}
	}
	return nil
}

// LineCount returns the number of lines on the document
func (d *Document) LineCount() int {
	return len(d.Lines)
}

// TotalAmount returns the sum of all line amounts
func (d *Document) TotalAmount() decimal.Decimal {
	total := decimal.Zero
	for _, line := range d.Lines {
		total = total.Add(line.Amount)
	}
	return total
}

// TotalOrderedQuantity returns the total ordered quantity across lines
func (d *Document) TotalOrderedQuantity() decimal.Decimal {
	total := decimal.Zero
	for _, line := range d.Lines {
		total = total.Add(line.QuantityOrdered)
	}
	return total
}

// allLinesReceived checks if every line has been fully received
func (d *Document) allLinesReceived() bool {
	for _, line := range d.Lines {
		if !line.IsFullyReceived() {
			return false
		}
	}
	return len(d.Lines) > 0
}

// allLinesDispatched checks if every line has been fully dispatched
func (d *Document) allLinesDispatched() bool {
	for _, line := range d.Lines {
		if !line.IsFullyDispatched() {
			return false
		}
	}
	return len(d.Lines) > 0
}
