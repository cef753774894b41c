package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/portal/backend/internal/domain/shared"
	"github.com/portal/backend/internal/domain/workflow"
)

// DocumentRepository is an in-memory workflow.DocumentRepository used by
// application-service tests. It enforces the same compare-and-swap
// semantics as the gorm implementation.
type DocumentRepository struct {
	mu        sync.RWMutex
	documents map[uuid.UUID]*workflow.Document
	sequences map[workflow.DocumentKind]int

	// SaveErr, when set, makes Save fail once FailSaveAfter successful
	// saves have happened. Used to test stop-on-failure behavior.
	SaveErr       error
	FailSaveAfter int
	saveCalls     int
}

// NewDocumentRepository creates an empty in-memory document repository
func NewDocumentRepository() *DocumentRepository {
	return &DocumentRepository{
		documents: make(map[uuid.UUID]*workflow.Document),
		sequences: make(map[workflow.DocumentKind]int),
	}
}

func (r *DocumentRepository) FindByID(ctx context.Context, id uuid.UUID) (*workflow.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	doc, ok := r.documents[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	snapshot := *doc
	snapshot.Lines = append([]workflow.LineItem(nil), doc.Lines...)
	return &snapshot, nil
}

func (r *DocumentRepository) FindByNumber(ctx context.Context, number string) (*workflow.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, doc := range r.documents {
		if doc.Number == number {
			snapshot := *doc
			snapshot.Lines = append([]workflow.LineItem(nil), doc.Lines...)
			return &snapshot, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *DocumentRepository) FindByKind(ctx context.Context, kind workflow.DocumentKind, filter shared.Filter) ([]workflow.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	docs := make([]workflow.Document, 0)
	for _, doc := range r.documents {
		if doc.Kind == kind {
			docs = append(docs, *doc)
		}
	}
	return docs, nil
}

func (r *DocumentRepository) CountByStatus(ctx context.Context, kind workflow.DocumentKind, status workflow.Status) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var count int64
	for _, doc := range r.documents {
		if doc.Kind == kind && doc.Status == status {
			count++
		}
	}
	return count, nil
}

func (r *DocumentRepository) Save(ctx context.Context, doc *workflow.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.SaveErr != nil && r.saveCalls >= r.FailSaveAfter {
		return r.SaveErr
	}
	r.saveCalls++
	stored := *doc
	stored.Lines = append([]workflow.LineItem(nil), doc.Lines...)
	r.documents[doc.ID] = &stored
	return nil
}

// SaveWithLock applies the write only if the stored version is exactly one
// behind the document's in-memory version
func (r *DocumentRepository) SaveWithLock(ctx context.Context, doc *workflow.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.documents[doc.ID]
	if !ok {
		return shared.ErrNotFound
	}
	if stored.Version != doc.Version-1 {
		return shared.NewVersionConflictError(doc.Version-1, stored.Version)
	}
	next := *doc
	next.Lines = append([]workflow.LineItem(nil), doc.Lines...)
	next.UpdatedAt = time.Now()
	r.documents[doc.ID] = &next
	return nil
}

func (r *DocumentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.documents[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.documents, id)
	return nil
}

func (r *DocumentRepository) GenerateNumber(ctx context.Context, kind workflow.DocumentKind) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sequences[kind]++
	return fmt.Sprintf("%s-%d-%05d", kind.NumberPrefix(), time.Now().Year(), r.sequences[kind]), nil
}
