package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/portal/backend/internal/domain/workflow"
	"gorm.io/gorm"
)

// GormAuditTrailRepository implements workflow.AuditTrailRepository using
// GORM. The table is insert-only; there is no update or delete path.
type GormAuditTrailRepository struct {
	db *gorm.DB
}

// NewGormAuditTrailRepository creates a new GormAuditTrailRepository
func NewGormAuditTrailRepository(db *gorm.DB) *GormAuditTrailRepository {
	return &GormAuditTrailRepository{db: db}
}

// Append inserts one audit entry
func (r *GormAuditTrailRepository) Append(ctx context.Context, entry workflow.AuditEntry) error {
	return r.db.WithContext(ctx).Create(&entry).Error
}

// ListByDocument returns the document's entries, oldest first
func (r *GormAuditTrailRepository) ListByDocument(ctx context.Context, documentID uuid.UUID) ([]workflow.AuditEntry, error) {
	var entries []workflow.AuditEntry
	err := r.db.WithContext(ctx).
		Where("document_id = ?", documentID).
		Order("timestamp ASC").
		Find(&entries).Error
	return entries, err
}
