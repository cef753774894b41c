package workflow

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/portal/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// LineItem represents a single product line on a document. The stage
// quantities obey: received <= dispatched <= ordered and damaged <= received
// (returned plays the received role on return authorizations).
type LineItem struct {
	ID                 uuid.UUID       `gorm:"type:uuid;primary_key"`
	DocumentID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID          uuid.UUID       `gorm:"type:uuid;not null"`
	ProductName        string          `gorm:"type:varchar(200);not null"`
	QuantityOrdered    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	QuantityDispatched decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	QuantityReceived   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	QuantityReturned   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	QuantityDamaged    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitCost           decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Amount             decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CreatedAt          time.Time       `gorm:"not null"`
	UpdatedAt          time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (LineItem) TableName() string {
	return "document_lines"
}

// NewLineItem creates a new line item for a document
func NewLineItem(documentID, productID uuid.UUID, productName string, quantity, unitCost decimal.Decimal) (*LineItem, error) {
	if productID == uuid.Nil {
		return nil, shared.NewValidationError("Product ID cannot be empty")
	}
	if productName == "" {
		return nil, shared.NewValidationError("Product name cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewValidationError("Quantity must be positive")
	}
	if unitCost.IsNegative() {
		return nil, shared.NewValidationError("Unit cost cannot be negative")
	}

	now := time.Now()
	return &LineItem{
		ID:                 uuid.New(),
		DocumentID:         documentID,
		ProductID:          productID,
		ProductName:        productName,
		QuantityOrdered:    quantity,
		QuantityDispatched: decimal.Zero,
		QuantityReceived:   decimal.Zero,
		QuantityReturned:   decimal.Zero,
		QuantityDamaged:    decimal.Zero,
		UnitCost:           unitCost,
		Amount:             quantity.Mul(unitCost),
		CreatedAt:          now,
		UpdatedAt:          now,
	}, nil
}

// UpdateQuantity updates the ordered quantity and recalculates the amount
func (l *LineItem) UpdateQuantity(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewValidationError("Quantity must be positive")
	}
	if quantity.LessThan(l.maxProgress()) {
		return shared.NewValidationError("Ordered quantity cannot be less than quantity already processed")
	}
	l.QuantityOrdered = quantity
	l.Amount = quantity.Mul(l.UnitCost)
	l.UpdatedAt = time.Now()
	return nil
}

// AddDispatched records a dispatch against the line
func (l *LineItem) AddDispatched(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewValidationError("Dispatch quantity must be positive")
	}
	next := l.QuantityDispatched.Add(quantity)
	if next.GreaterThan(l.QuantityOrdered) {
		return shared.NewValidationError("Cannot dispatch %s, only %s remaining", quantity.String(), l.QuantityOrdered.Sub(l.QuantityDispatched).String())
	}
	l.QuantityDispatched = next
	l.UpdatedAt = time.Now()
	return nil
}

// AddReceived records a goods receipt against the line
func (l *LineItem) AddReceived(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewValidationError("Receive quantity must be positive")
	}
	next := l.QuantityReceived.Add(quantity)
	if next.GreaterThan(l.QuantityOrdered) {
		return shared.NewValidationError("Cannot receive %s, only %s remaining", quantity.String(), l.RemainingToReceive().String())
	}
	// On documents that track dispatches, receipts cannot outrun them
	if l.QuantityDispatched.GreaterThan(decimal.Zero) && next.GreaterThan(l.QuantityDispatched) {
		return shared.NewValidationError("Received quantity cannot exceed dispatched quantity")
	}
	l.QuantityReceived = next
	l.UpdatedAt = time.Now()
	return nil
}

// AddReturned records a returned quantity, optionally with a damaged portion
func (l *LineItem) AddReturned(quantity, damaged decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewValidationError("Return quantity must be positive")
	}
	if damaged.IsNegative() {
		return shared.NewValidationError("Damaged quantity cannot be negative")
	}
	nextReturned := l.QuantityReturned.Add(quantity)
	if nextReturned.GreaterThan(l.QuantityOrdered) {
		return shared.NewValidationError("Cannot return %s, only %s remaining", quantity.String(), l.QuantityOrdered.Sub(l.QuantityReturned).String())
	}
	nextDamaged := l.QuantityDamaged.Add(damaged)
	if nextDamaged.GreaterThan(nextReturned) {
		return shared.NewValidationError("Damaged quantity cannot exceed returned quantity")
	}
	l.QuantityReturned = nextReturned
	l.QuantityDamaged = nextDamaged
	l.UpdatedAt = time.Now()
	return nil
}

// RemainingToReceive returns the quantity still to be received
func (l *LineItem) RemainingToReceive() decimal.Decimal {
	remaining := l.QuantityOrdered.Sub(l.QuantityReceived)
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}

// IsFullyReceived returns true if all ordered quantity has been received
func (l *LineItem) IsFullyReceived() bool {
	return l.QuantityReceived.GreaterThanOrEqual(l.QuantityOrdered)
}

// IsFullyDispatched returns true if all ordered quantity has been dispatched
func (l *LineItem) IsFullyDispatched() bool {
	return l.QuantityDispatched.GreaterThanOrEqual(l.QuantityOrdered)
}

// IsFullyReturned returns true if all ordered quantity has been returned
func (l *LineItem) IsFullyReturned() bool {
	return l.QuantityReturned.GreaterThanOrEqual(l.QuantityOrdered)
}

// maxProgress returns the largest stage quantity already recorded
func (l *LineItem) maxProgress() decimal.Decimal {
	max := l.QuantityDispatched
	if l.QuantityReceived.GreaterThan(max) {
		max = l.QuantityReceived
	}
	if l.QuantityReturned.GreaterThan(max) {
		max = l.QuantityReturned
	}
	return max
}

// String returns a short description of the line for logs and audit details
func (l *LineItem) String() string {
	return fmt.Sprintf("%s x %s", l.ProductName, l.QuantityOrdered.String())
}
