package workflow

import (
	"time"

	"github.com/google/uuid"
)

// AuditVariant categorizes an audit entry for display
type AuditVariant string

const (
	AuditNeutral AuditVariant = "neutral"
	AuditSuccess AuditVariant = "success"
	AuditWarning AuditVariant = "warning"
)

// AuditEntry is one immutable record on a document's timeline. Entries are
// append-only: they are never edited or removed, including when the document
// is later cancelled.
type AuditEntry struct {
	ID         uuid.UUID    `gorm:"type:uuid;primary_key" json:"id"`
	DocumentID uuid.UUID    `gorm:"type:uuid;not null;index" json:"document_id"`
	Label      string       `gorm:"type:varchar(200);not null" json:"label"`
	ActorID    uuid.UUID    `gorm:"type:uuid;not null" json:"actor_id"`
	Timestamp  time.Time    `gorm:"not null;index" json:"timestamp"`
	Detail     string       `gorm:"type:varchar(500)" json:"detail,omitempty"`
	Variant    AuditVariant `gorm:"type:varchar(20);not null;default:'neutral'" json:"variant"`
}

// TableName returns the table name for GORM
func (AuditEntry) TableName() string {
	return "audit_entries"
}

// NewAuditEntry creates an audit entry for a document action
func NewAuditEntry(documentID uuid.UUID, label string, actorID uuid.UUID, detail string, variant AuditVariant) AuditEntry {
	return AuditEntry{
		ID:         uuid.New(),
		DocumentID: documentID,
		Label:      label,
		ActorID:    actorID,
		Timestamp:  time.Now(),
		Detail:     detail,
		Variant:    variant,
	}
}

// auditVariantFor maps an action to its display variant
func auditVariantFor(action Action) AuditVariant {
	switch action {
	case ActionApprove, ActionComplete, ActionClose, ActionCredit, ActionConvert:
		return AuditSuccess
	case ActionReject, ActionCancel, ActionHold:
		return AuditWarning
	}
	return AuditNeutral
}
