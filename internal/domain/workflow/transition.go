package workflow

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/portal/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// QuantityChange is one product's quantity carried by a receive, dispatch
// or return transition
type QuantityChange struct {
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	Damaged   decimal.Decimal `json:"damaged,omitempty"`
}

// TransitionPayload carries the optional inputs of a transition request
type TransitionPayload struct {
	Reason     string           `json:"reason,omitempty"`
	Detail     string           `json:"detail,omitempty"`
	Quantities []QuantityChange `json:"quantities,omitempty"`
	// BomReady is the bill-of-materials readiness fact for job card starts,
	// computed by the reconciliation calculator and supplied by the caller
	BomReady *bool `json:"-"`
}

// TransitionResult reports a successful transition
type TransitionResult struct {
	NewStatus  Status     `json:"new_status"`
	NewVersion int        `json:"new_version"`
	AuditEntry AuditEntry `json:"audit_entry"`
}

// Apply executes the requested action against the document snapshot.
// It resolves the edge, evaluates its guards in registered order, applies
// quantity changes and reason/timestamp side effects, moves the status,
// bumps the version, and returns the audit entry for the transition.
// The document is mutated in memory only; on error the caller must discard
// the snapshot.
func (r *Registry) Apply(doc *Document, action Action, payload TransitionPayload, actor Actor) (*TransitionResult, error) {
	edge, ok := r.Resolve(doc.Kind, doc.Status, action)
	if !ok {
		return nil, shared.NewInvalidTransitionError(doc.Status.String(), action.String())
	}

	guardCtx := GuardContext{Document: doc, Actor: actor, Action: action, Payload: payload}
	if err := checkGuards(edge.Guards, guardCtx); err != nil {
		return nil, err
	}

	from := doc.Status
	now := time.Now()

	target := edge.To
	if edge.PartialTo != "" {
		complete, err := doc.applyQuantities(action, payload.Quantities)
		if err != nil {
			return nil, err
		}
		if !complete {
			target = edge.PartialTo
		}
	}

	doc.applyReason(action, payload.Reason)
	doc.Status = target
	doc.stampTransition(action, now)
	doc.UpdatedAt = now
	doc.IncrementVersion()

	entry := NewAuditEntry(doc.ID, action.Label(), actor.ID, auditDetail(action, payload), auditVariantFor(action))
	doc.AddDomainEvent(NewDocumentTransitionedEvent(doc, action, from, actor))

	return &TransitionResult{
		NewStatus:  doc.Status,
		NewVersion: doc.Version,
		AuditEntry: entry,
	}, nil
}

// applyQuantities applies the payload quantities to the document lines and
// reports whether the quantity-driven stage is now complete across all lines
func (d *Document) applyQuantities(action Action, changes []QuantityChange) (bool, error) {
	if len(changes) == 0 {
		return false, shared.NewValidationError("Action %q requires at least one quantity", action)
	}
	for _, change := range changes {
		line := d.GetLineByProduct(change.ProductID)
		if line == nil {
			return false, shared.NewValidationError("Product %s not found on document", change.ProductID)
		}
		var err error
		switch {
		case action == ActionDispatch:
			err = line.AddDispatched(change.Quantity)
		case action == ActionReceive && d.Kind == KindReturnAuthorization:
			err = line.AddReturned(change.Quantity, change.Damaged)
		case action == ActionReceive:
			err = line.AddReceived(change.Quantity)
		default:
			err = shared.NewValidationError("Action %q does not accept quantities", action)
		}
		if err != nil {
			return false, err
		}
	}

	switch {
	case action == ActionDispatch:
		return d.allLinesDispatched(), nil
	case action == ActionReceive && d.Kind == KindReturnAuthorization:
		for _, line := range d.Lines {
			if !line.IsFullyReturned() {
				return false, nil
			}
		}
		return len(d.Lines) > 0, nil
	default:
		return d.allLinesReceived(), nil
	}
}

// applyReason records the reason on the field matching the action
func (d *Document) applyReason(action Action, reason string) {
	reason = strings.TrimSpace(reason)
	switch action {
	case ActionHold:
		d.HoldReason = reason
	case ActionReject:
		d.RejectionReason = reason
	case ActionCancel:
		d.CancelReason = reason
	case ActionRelease, ActionResume:
		d.HoldReason = ""
	}
}

// stampTransition records the per-transition timestamp for the action
func (d *Document) stampTransition(action Action, now time.Time) {
	switch action {
	case ActionSubmit:
		d.SubmittedAt = &now
	case ActionApprove:
		d.ApprovedAt = &now
	case ActionSend:
		d.SentAt = &now
	case ActionConfirm:
		d.ConfirmedAt = &now
	case ActionSchedule:
		d.ScheduledAt = &now
	case ActionStart, ActionResume:
		d.StartedAt = &now
	case ActionComplete:
		d.CompletedAt = &now
	case ActionCancel:
		d.CancelledAt = &now
	case ActionClose:
		d.ClosedAt = &now
	}
}

// auditDetail derives the optional detail string for the audit entry
func auditDetail(action Action, payload TransitionPayload) string {
	if payload.Detail != "" {
		return payload.Detail
	}
	if reason := strings.TrimSpace(payload.Reason); reason != "" {
		return reason
	}
	if len(payload.Quantities) > 0 {
		total := decimal.Zero
		for _, q := range payload.Quantities {
			total = total.Add(q.Quantity)
		}
		return fmt.Sprintf("%s units across %d lines", total.String(), len(payload.Quantities))
	}
	return ""
}
