package workflow

import (
	"context"

	"github.com/google/uuid"
	"github.com/portal/backend/internal/domain/shared"
	"github.com/portal/backend/internal/domain/workflow"
	"go.uber.org/zap"
)

// BomReadinessChecker supplies the bill-of-materials readiness fact for a
// job card. Implemented by the reconciliation BOM status service.
type BomReadinessChecker interface {
	IsBomReady(ctx context.Context, doc *workflow.Document) (bool, error)
}

// TransitionService executes guarded status transitions against documents.
// Writes go through the repository's compare-and-swap; a version conflict
// is returned to the caller and never retried here.
type TransitionService struct {
	documents workflow.DocumentRepository
	audit     workflow.AuditTrailRepository
	registry  *workflow.Registry
	bom       BomReadinessChecker
	logger    *zap.Logger
}

// NewTransitionService creates a new TransitionService
func NewTransitionService(
	documents workflow.DocumentRepository,
	audit workflow.AuditTrailRepository,
	registry *workflow.Registry,
	logger *zap.Logger,
) *TransitionService {
	return &TransitionService{
		documents: documents,
		audit:     audit,
		registry:  registry,
		logger:    logger,
	}
}

// SetBomReadinessChecker wires the BOM readiness lookup used before a job
// card is started
func (s *TransitionService) SetBomReadinessChecker(checker BomReadinessChecker) {
	s.bom = checker
}

// Execute applies the requested action to the document. The flow is:
// load, compare the caller's expected version against the stored one,
// resolve business facts the guards need, apply the transition in memory,
// then persist with a version-checked write and append the audit entry.
func (s *TransitionService) Execute(ctx context.Context, documentID uuid.UUID, req TransitionRequest, actor workflow.Actor) (*TransitionResponse, error) {
	doc, err := s.documents.FindByID(ctx, documentID)
	if err != nil {
		return nil, err
	}

	if req.ExpectedVersion != doc.Version {
		return nil, shared.NewVersionConflictError(req.ExpectedVersion, doc.Version)
	}

	action := workflow.Action(req.Action)
	payload := workflow.TransitionPayload{
		Reason:     req.Reason,
		Detail:     req.Detail,
		Quantities: req.Quantities,
	}

	if doc.Kind == workflow.KindJobCard && action == workflow.ActionStart && s.bom != nil {
		ready, err := s.bom.IsBomReady(ctx, doc)
		if err != nil {
			return nil, err
		}
		payload.BomReady = &ready
	}

	result, err := s.registry.Apply(doc, action, payload, actor)
	if err != nil {
		return nil, err
	}

	if err := s.documents.SaveWithLock(ctx, doc); err != nil {
		return nil, err
	}

	if err := s.audit.Append(ctx, result.AuditEntry); err != nil {
		// The transition is already committed; losing the timeline row is
		// logged rather than undone
		s.logger.Error("failed to append audit entry",
			zap.String("document_id", documentID.String()),
			zap.String("action", req.Action),
			zap.Error(err),
		)
	}

	s.logger.Info("document transitioned",
		zap.String("document_id", documentID.String()),
		zap.String("kind", doc.Kind.String()),
		zap.String("number", doc.Number),
		zap.String("action", req.Action),
		zap.String("status", result.NewStatus.String()),
		zap.Int("version", result.NewVersion),
		zap.String("actor_id", actor.ID.String()),
	)

	return &TransitionResponse{
		DocumentID: documentID,
		Status:     result.NewStatus.String(),
		Version:    result.NewVersion,
		AuditEntry: ToAuditEntryResponse(result.AuditEntry),
	}, nil
}
