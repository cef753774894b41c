package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/portal/backend/internal/domain/shared"
	"github.com/portal/backend/internal/domain/workflow"
	"gorm.io/gorm"
)

// GormDocumentRepository implements workflow.DocumentRepository using GORM
type GormDocumentRepository struct {
	db *gorm.DB
}

// NewGormDocumentRepository creates a new GormDocumentRepository
func NewGormDocumentRepository(db *gorm.DB) *GormDocumentRepository {
	return &GormDocumentRepository{db: db}
}

// FindByID finds a document by its ID
func (r *GormDocumentRepository) FindByID(ctx context.Context, id uuid.UUID) (*workflow.Document, error) {
	var doc workflow.Document
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		First(&doc, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &doc, nil
}

// FindByNumber finds a document by its human-readable number
func (r *GormDocumentRepository) FindByNumber(ctx context.Context, number string) (*workflow.Document, error) {
	var doc workflow.Document
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		First(&doc, "number = ?", number).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &doc, nil
}

// FindByKind lists documents of one kind with basic filtering
func (r *GormDocumentRepository) FindByKind(ctx context.Context, kind workflow.DocumentKind, filter shared.Filter) ([]workflow.Document, error) {
	var docs []workflow.Document

	query := r.db.WithContext(ctx).
		Model(&workflow.Document{}).
		Where("kind = ?", kind)

	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	if warehouse, ok := filter.Filters["warehouse"]; ok {
		query = query.Where("warehouse = ?", warehouse)
	}

	query = applyPagination(query, filter)
	if err := query.Preload("Lines").Find(&docs).Error; err != nil {
		return nil, err
	}
	return docs, nil
}

// CountByStatus counts documents of one kind in one status
func (r *GormDocumentRepository) CountByStatus(ctx context.Context, kind workflow.DocumentKind, status workflow.Status) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&workflow.Document{}).
		Where("kind = ? AND status = ?", kind, status).
		Count(&count).Error
	return count, err
}

// Save persists a new document or fully replaces an existing one together
// with its lines
func (r *GormDocumentRepository) Save(ctx context.Context, doc *workflow.Document) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(doc).Error
	})
}

// SaveWithLock persists the mutated document only if nobody else has
// written it since it was loaded. The domain has already bumped the
// in-memory version, so the stored row must still carry version-1; the
// conditional update is the compare-and-swap. A conflict is reported as
// VERSION_CONFLICT and is never retried here.
func (r *GormDocumentRepository) SaveWithLock(ctx context.Context, doc *workflow.Document) error {
	expected := doc.Version - 1

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&workflow.Document{}).
			Where("id = ? AND version = ?", doc.ID, expected).
			Updates(map[string]interface{}{
				"status":           doc.Status,
				"version":          doc.Version,
				"warehouse":        doc.Warehouse,
				"notes":            doc.Notes,
				"hold_reason":      doc.HoldReason,
				"rejection_reason": doc.RejectionReason,
				"cancel_reason":    doc.CancelReason,
				"submitted_at":     doc.SubmittedAt,
				"approved_at":      doc.ApprovedAt,
				"sent_at":          doc.SentAt,
				"confirmed_at":     doc.ConfirmedAt,
				"scheduled_at":     doc.ScheduledAt,
				"started_at":       doc.StartedAt,
				"completed_at":     doc.CompletedAt,
				"cancelled_at":     doc.CancelledAt,
				"closed_at":        doc.ClosedAt,
				"updated_at":       time.Now(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			var stored int
			err := tx.Model(&workflow.Document{}).
				Where("id = ?", doc.ID).
				Select("version").
				Scan(&stored).Error
			if err != nil {
				return err
			}
			if stored == 0 {
				return shared.ErrNotFound
			}
			return shared.NewVersionConflictError(expected, stored)
		}

		// Line progress (received/dispatched/returned quantities) rides on
		// the same write
		for idx := range doc.Lines {
			if err := tx.Save(&doc.Lines[idx]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete removes a document and its lines
func (r *GormDocumentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("document_id = ?", id).Delete(&workflow.LineItem{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&workflow.Document{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// GenerateNumber generates the next document number for the kind.
// Format: <prefix>-YYYY-NNNNN (e.g. PO-2026-00001)
func (r *GormDocumentRepository) GenerateNumber(ctx context.Context, kind workflow.DocumentKind) (string, error) {
	year := time.Now().Year()
	prefix := fmt.Sprintf("%s-%d-", kind.NumberPrefix(), year)

	var numbers []string
	err := r.db.WithContext(ctx).
		Model(&workflow.Document{}).
		Where("kind = ? AND number LIKE ?", kind, prefix+"%").
		Order("number DESC").
		Limit(1).
		Pluck("number", &numbers).Error
	if err != nil {
		return "", err
	}

	var next int64 = 1
	if len(numbers) > 0 {
		parts := strings.Split(numbers[0], "-")
		if len(parts) == 3 {
			var num int64
			if _, parseErr := fmt.Sscanf(parts[2], "%d", &num); parseErr == nil {
				next = num + 1
			}
		}
	}

	return fmt.Sprintf("%s%05d", prefix, next), nil
}

// applyPagination applies page/size and ordering from the filter
func applyPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	orderBy := ValidateSortField(filter.OrderBy, DocumentSortFields, "created_at")
	direction := ValidateSortOrder(filter.OrderDir)
	query = query.Order(fmt.Sprintf("%s %s", orderBy, direction))

	if filter.PageSize > 0 {
		offset := 0
		if filter.Page > 1 {
			offset = (filter.Page - 1) * filter.PageSize
		}
		query = query.Offset(offset).Limit(filter.PageSize)
	}
	return query
}
