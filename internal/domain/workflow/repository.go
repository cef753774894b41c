package workflow

import (
	"context"

	"github.com/google/uuid"
	"github.com/portal/backend/internal/domain/shared"
)

// DocumentRepository persists documents. SaveWithLock must perform a
// compare-and-swap against the caller's in-memory version: the write
// applies only if the stored version equals the version the document was
// loaded at, otherwise it fails with VERSION_CONFLICT and leaves the
// stored document unchanged.
type DocumentRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Document, error)
	FindByNumber(ctx context.Context, number string) (*Document, error)
	FindByKind(ctx context.Context, kind DocumentKind, filter shared.Filter) ([]Document, error)
	CountByStatus(ctx context.Context, kind DocumentKind, status Status) (int64, error)
	Save(ctx context.Context, doc *Document) error
	SaveWithLock(ctx context.Context, doc *Document) error
	Delete(ctx context.Context, id uuid.UUID) error
	// GenerateNumber produces the next human-readable document number for
	// the kind, e.g. PO-2026-00001
	GenerateNumber(ctx context.Context, kind DocumentKind) (string, error)
}

// AuditTrailRepository appends and reads the immutable per-document
// timeline. Entries are never updated or deleted.
type AuditTrailRepository interface {
	Append(ctx context.Context, entry AuditEntry) error
	ListByDocument(ctx context.Context, documentID uuid.UUID) ([]AuditEntry, error)
}
