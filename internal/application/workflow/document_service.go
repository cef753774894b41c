package workflow

import (
	"context"

	"github.com/google/uuid"
	"github.com/portal/backend/internal/domain/shared"
	"github.com/portal/backend/internal/domain/workflow"
	"go.uber.org/zap"
)

// DocumentService handles document creation and queries
type DocumentService struct {
	documents workflow.DocumentRepository
	audit     workflow.AuditTrailRepository
	registry  *workflow.Registry
	logger    *zap.Logger
}

// NewDocumentService creates a new DocumentService
func NewDocumentService(
	documents workflow.DocumentRepository,
	audit workflow.AuditTrailRepository,
	registry *workflow.Registry,
	logger *zap.Logger,
) *DocumentService {
	return &DocumentService{
		documents: documents,
		audit:     audit,
		registry:  registry,
		logger:    logger,
	}
}

// Create creates a new document of the requested kind in its initial status
func (s *DocumentService) Create(ctx context.Context, req CreateDocumentRequest, actor workflow.Actor) (*DocumentResponse, error) {
	kind := workflow.DocumentKind(req.Kind)
	if !kind.IsValid() {
		return nil, shared.NewValidationError("Unknown document kind %q", req.Kind)
	}

	number, err := s.documents.GenerateNumber(ctx, kind)
	if err != nil {
		return nil, err
	}

	doc, err := s.buildDocument(kind, number, req, actor)
	if err != nil {
		return nil, err
	}

	if req.Warehouse != "" {
		doc.SetWarehouse(req.Warehouse)
	}
	if req.Notes != "" {
		doc.SetNotes(req.Notes)
	}
	for _, line := range req.Lines {
		if _, err := doc.AddLine(line.ProductID, line.ProductName, line.Quantity, line.UnitCost); err != nil {
			return nil, err
		}
	}

	if err := s.documents.Save(ctx, doc); err != nil {
		return nil, err
	}

	entry := workflow.NewAuditEntry(doc.ID, "Created", actor.ID, "", workflow.AuditNeutral)
	if err := s.audit.Append(ctx, entry); err != nil {
		s.logger.Error("failed to append audit entry",
			zap.String("document_id", doc.ID.String()),
			zap.Error(err),
		)
	}

	s.logger.Info("document created",
		zap.String("document_id", doc.ID.String()),
		zap.String("kind", kind.String()),
		zap.String("number", doc.Number),
		zap.Int("lines", doc.LineCount()),
	)

	response := ToDocumentResponse(doc, s.registry)
	return &response, nil
}

func (s *DocumentService) buildDocument(kind workflow.DocumentKind, number string, req CreateDocumentRequest, actor workflow.Actor) (*workflow.Document, error) {
	switch kind {
	case workflow.KindPurchaseOrder:
		if req.SupplierID == nil {
			return nil, shared.NewValidationError("Supplier is required for a purchase order")
		}
		return workflow.NewPurchaseOrder(number, *req.SupplierID, req.SupplierName, actor.ID)
	case workflow.KindSalesOrder:
		if req.CustomerID == nil {
			return nil, shared.NewValidationError("Customer is required for a sales order")
		}
		return workflow.NewSalesOrder(number, *req.CustomerID, req.CustomerName, actor.ID)
	case workflow.KindReturnAuthorization:
		if req.CustomerID == nil {
			return nil, shared.NewValidationError("Customer is required for a return authorization")
		}
		return workflow.NewReturnAuthorization(number, *req.CustomerID, req.CustomerName, actor.ID)
	case workflow.KindJobCard:
		return workflow.NewJobCard(number, actor.ID)
	case workflow.KindPurchaseRequisition:
		return workflow.NewPurchaseRequisition(number, actor.ID)
	}
	return nil, shared.NewValidationError("Unknown document kind %q", kind.String())
}

// GetByID retrieves a document by ID
func (s *DocumentService) GetByID(ctx context.Context, id uuid.UUID) (*DocumentResponse, error) {
	doc, err := s.documents.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToDocumentResponse(doc, s.registry)
	return &response, nil
}

// GetByNumber retrieves a document by its human-readable number
func (s *DocumentService) GetByNumber(ctx context.Context, number string) (*DocumentResponse, error) {
	doc, err := s.documents.FindByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	response := ToDocumentResponse(doc, s.registry)
	return &response, nil
}

// ListByKind lists documents of one kind with pagination
func (s *DocumentService) ListByKind(ctx context.Context, kind workflow.DocumentKind, filter shared.Filter) ([]DocumentResponse, error) {
	if !kind.IsValid() {
		return nil, shared.NewValidationError("Unknown document kind %q", kind.String())
	}
	docs, err := s.documents.FindByKind(ctx, kind, filter)
	if err != nil {
		return nil, err
	}
	responses := make([]DocumentResponse, 0, len(docs))
	for idx := range docs {
		responses = append(responses, ToDocumentResponse(&docs[idx], s.registry))
	}
	return responses, nil
}

// AuditTrail returns the document's timeline, oldest first
func (s *DocumentService) AuditTrail(ctx context.Context, documentID uuid.UUID) ([]AuditEntryResponse, error) {
	if _, err := s.documents.FindByID(ctx, documentID); err != nil {
		return nil, err
	}
	entries, err := s.audit.ListByDocument(ctx, documentID)
	if err != nil {
		return nil, err
	}
	responses := make([]AuditEntryResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, ToAuditEntryResponse(entry))
	}
	return responses, nil
}
