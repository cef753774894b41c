package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/portal/backend/internal/domain/workflow"
)

// AuditTrailRepository is an in-memory workflow.AuditTrailRepository for
// application-service tests
type AuditTrailRepository struct {
	mu      sync.RWMutex
	entries []workflow.AuditEntry

	// AppendErr, when set, makes the next Append fail
	AppendErr error
}

// NewAuditTrailRepository creates an empty in-memory audit trail
func NewAuditTrailRepository() *AuditTrailRepository {
	return &AuditTrailRepository{entries: make([]workflow.AuditEntry, 0)}
}

func (r *AuditTrailRepository) Append(ctx context.Context, entry workflow.AuditEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.AppendErr != nil {
		err := r.AppendErr
		r.AppendErr = nil
		return err
	}
	r.entries = append(r.entries, entry)
	return nil
}

func (r *AuditTrailRepository) ListByDocument(ctx context.Context, documentID uuid.UUID) ([]workflow.AuditEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entries := make([]workflow.AuditEntry, 0)
	for _, entry := range r.entries {
		if entry.DocumentID == documentID {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

// All returns every entry recorded, in append order
func (r *AuditTrailRepository) All() []workflow.AuditEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]workflow.AuditEntry(nil), r.entries...)
}
