package workflow

import (
	"fmt"
	"sort"
)

// Edge is one valid transition in a document kind's pipeline. PartialTo,
// when set, is the target used while quantity-driven progress is still
// incomplete (e.g. a goods receipt that does not cover every line).
type Edge struct {
	Kind      DocumentKind
	From      Status
	Action    Action
	To        Status
	PartialTo Status
	Guards    []Guard
}

// edgeKey indexes the registry by (kind, from, action)
type edgeKey struct {
	Kind   DocumentKind
	From   Status
	Action Action
}

// Registry is the data-driven table of valid transitions for every
// document kind. It replaces per-page, per-kind status checks with a
// single lookup keyed by (kind, fromStatus, action).
type Registry struct {
	index map[edgeKey]Edge
}

// NewRegistry builds a registry from the given edges. Duplicate
// (kind, from, action) tuples are rejected.
func NewRegistry(edges []Edge) (*Registry, error) {
	index := make(map[edgeKey]Edge, len(edges))
	for _, e := range edges {
		if !e.Kind.IsValid() {
			return nil, fmt.Errorf("registry: unknown document kind %q", string(e.Kind))
		}
		key := edgeKey{Kind: e.Kind, From: e.From, Action: e.Action}
		if _, exists := index[key]; exists {
			return nil, fmt.Errorf("registry: duplicate edge %s/%s/%s", e.Kind, e.From, e.Action)
		}
		index[key] = e
	}
	return &Registry{index: index}, nil
}

// Resolve returns the edge for (kind, from, action), if one is defined
func (r *Registry) Resolve(kind DocumentKind, from Status, action Action) (Edge, bool) {
	edge, ok := r.index[edgeKey{Kind: kind, From: from, Action: action}]
	return edge, ok
}

// AllowedActions returns the actions available from the given status,
// sorted for deterministic output
func (r *Registry) AllowedActions(kind DocumentKind, from Status) []Action {
	actions := make([]Action, 0, 4)
	for key := range r.index {
		if key.Kind == kind && key.From == from {
			actions = append(actions, key.Action)
		}
	}
	sort.Slice(actions, func(i, j int) bool { return actions[i] < actions[j] })
	return actions
}

// IsTerminal reports whether the status has no outgoing edges for the kind
func (r *Registry) IsTerminal(kind DocumentKind, status Status) bool {
	return len(r.AllowedActions(kind, status)) == 0
}

// DefaultRegistry builds the registry for the five document pipelines.
// Guard lists are constructed in the fixed evaluation order:
// role, status, self-action, reason, business facts.
func DefaultRegistry() *Registry {
	edges := make([]Edge, 0, 64)

	// Purchase order pipeline
	edges = append(edges,
		Edge{Kind: KindPurchaseOrder, From: StatusDraft, Action: ActionSubmit, To: StatusPendingApproval,
			Guards: []Guard{StatusGuard(StatusDraft)}},
		Edge{Kind: KindPurchaseOrder, From: StatusPendingApproval, Action: ActionApprove, To: StatusApproved,
			Guards: []Guard{RoleGuard(RoleAdmin, RoleManager), StatusGuard(StatusPendingApproval)}},
		Edge{Kind: KindPurchaseOrder, From: StatusPendingApproval, Action: ActionReject, To: StatusDraft,
			Guards: []Guard{RoleGuard(RoleAdmin, RoleManager), StatusGuard(StatusPendingApproval), ReasonRequiredGuard()}},
		Edge{Kind: KindPurchaseOrder, From: StatusDraft, Action: ActionSend, To: StatusSent,
			Guards: []Guard{StatusGuard(StatusDraft, StatusPendingApproval, StatusApproved)}},
		Edge{Kind: KindPurchaseOrder, From: StatusPendingApproval, Action: ActionSend, To: StatusSent,
			Guards: []Guard{StatusGuard(StatusDraft, StatusPendingApproval, StatusApproved)}},
		Edge{Kind: KindPurchaseOrder, From: StatusApproved, Action: ActionSend, To: StatusSent,
			Guards: []Guard{StatusGuard(StatusDraft, StatusPendingApproval, StatusApproved)}},
		Edge{Kind: KindPurchaseOrder, From: StatusSent, Action: ActionAcknowledge, To: StatusAcknowledged,
			Guards: []Guard{StatusGuard(StatusSent)}},
		Edge{Kind: KindPurchaseOrder, From: StatusSent, Action: ActionReceive, To: StatusReceived, PartialTo: StatusPartiallyReceived,
			Guards: []Guard{StatusGuard(StatusSent, StatusAcknowledged, StatusPartiallyReceived)}},
		Edge{Kind: KindPurchaseOrder, From: StatusAcknowledged, Action: ActionReceive, To: StatusReceived, PartialTo: StatusPartiallyReceived,
			Guards: []Guard{StatusGuard(StatusSent, StatusAcknowledged, StatusPartiallyReceived)}},
		Edge{Kind: KindPurchaseOrder, From: StatusPartiallyReceived, Action: ActionReceive, To: StatusReceived, PartialTo: StatusPartiallyReceived,
			Guards: []Guard{StatusGuard(StatusSent, StatusAcknowledged, StatusPartiallyReceived)}},
		Edge{Kind: KindPurchaseOrder, From: StatusDraft, Action: ActionCancel, To: StatusCancelled,
			Guards: []Guard{StatusGuard(StatusDraft, StatusPendingApproval), ReasonRequiredGuard()}},
		Edge{Kind: KindPurchaseOrder, From: StatusPendingApproval, Action: ActionCancel, To: StatusCancelled,
			Guards: []Guard{StatusGuard(StatusDraft, StatusPendingApproval), ReasonRequiredGuard()}},
		Edge{Kind: KindPurchaseOrder, From: StatusReceived, Action: ActionClose, To: StatusClosed,
			Guards: []Guard{StatusGuard(StatusReceived)}},
	)

	// Sales order pipeline
	edges = append(edges,
		Edge{Kind: KindSalesOrder, From: StatusDraft, Action: ActionConfirm, To: StatusConfirmed,
			Guards: []Guard{StatusGuard(StatusDraft)}},
		Edge{Kind: KindSalesOrder, From: StatusConfirmed, Action: ActionHold, To: StatusOnHold,
			Guards: []Guard{StatusGuard(StatusConfirmed), ReasonRequiredGuard()}},
		Edge{Kind: KindSalesOrder, From: StatusOnHold, Action: ActionRelease, To: StatusConfirmed,
			Guards: []Guard{StatusGuard(StatusOnHold)}},
		Edge{Kind: KindSalesOrder, From: StatusConfirmed, Action: ActionDispatch, To: StatusDispatched, PartialTo: StatusPartiallyDispatched,
			Guards: []Guard{StatusGuard(StatusConfirmed, StatusPartiallyDispatched)}},
		Edge{Kind: KindSalesOrder, From: StatusPartiallyDispatched, Action: ActionDispatch, To: StatusDispatched, PartialTo: StatusPartiallyDispatched,
			Guards: []Guard{StatusGuard(StatusConfirmed, StatusPartiallyDispatched)}},
		Edge{Kind: KindSalesOrder, From: StatusDispatched, Action: ActionDeliver, To: StatusDelivered,
			Guards: []Guard{StatusGuard(StatusDispatched)}},
		Edge{Kind: KindSalesOrder, From: StatusDelivered, Action: ActionInvoice, To: StatusInvoiced,
			Guards: []Guard{StatusGuard(StatusDelivered)}},
		Edge{Kind: KindSalesOrder, From: StatusInvoiced, Action: ActionClose, To: StatusClosed,
			Guards: []Guard{StatusGuard(StatusInvoiced)}},
		Edge{Kind: KindSalesOrder, From: StatusDraft, Action: ActionCancel, To: StatusCancelled,
			Guards: []Guard{StatusGuard(StatusDraft, StatusConfirmed, StatusOnHold), ReasonRequiredGuard()}},
		Edge{Kind: KindSalesOrder, From: StatusConfirmed, Action: ActionCancel, To: StatusCancelled,
			Guards: []Guard{StatusGuard(StatusDraft, StatusConfirmed, StatusOnHold), ReasonRequiredGuard()}},
		Edge{Kind: KindSalesOrder, From: StatusOnHold, Action: ActionCancel, To: StatusCancelled,
			Guards: []Guard{StatusGuard(StatusDraft, StatusConfirmed, StatusOnHold), ReasonRequiredGuard()}},
	)

	// Job card pipeline
	edges = append(edges,
		Edge{Kind: KindJobCard, From: StatusPending, Action: ActionSchedule, To: StatusScheduled,
			Guards: []Guard{StatusGuard(StatusPending)}},
		Edge{Kind: KindJobCard, From: StatusScheduled, Action: ActionStart, To: StatusInProgress,
			Guards: []Guard{StatusGuard(StatusScheduled), BomReadyGuard()}},
		Edge{Kind: KindJobCard, From: StatusInProgress, Action: ActionHold, To: StatusOnHold,
			Guards: []Guard{StatusGuard(StatusInProgress), ReasonRequiredGuard()}},
		Edge{Kind: KindJobCard, From: StatusOnHold, Action: ActionResume, To: StatusInProgress,
			Guards: []Guard{StatusGuard(StatusOnHold)}},
		Edge{Kind: KindJobCard, From: StatusInProgress, Action: ActionComplete, To: StatusCompleted,
			Guards: []Guard{StatusGuard(StatusInProgress)}},
		Edge{Kind: KindJobCard, From: StatusCompleted, Action: ActionClose, To: StatusClosed,
			Guards: []Guard{StatusGuard(StatusCompleted)}},
		Edge{Kind: KindJobCard, From: StatusPending, Action: ActionCancel, To: StatusCancelled,
			Guards: []Guard{StatusGuard(StatusPending, StatusScheduled), ReasonRequiredGuard()}},
		Edge{Kind: KindJobCard, From: StatusScheduled, Action: ActionCancel, To: StatusCancelled,
			Guards: []Guard{StatusGuard(StatusPending, StatusScheduled), ReasonRequiredGuard()}},
	)

	// Return authorization pipeline
	edges = append(edges,
		Edge{Kind: KindReturnAuthorization, From: StatusRequested, Action: ActionApprove, To: StatusApproved,
			Guards: []Guard{RoleGuard(RoleAdmin, RoleManager), StatusGuard(StatusRequested), SelfActionGuard()}},
		Edge{Kind: KindReturnAuthorization, From: StatusRequested, Action: ActionReject, To: StatusRejected,
			Guards: []Guard{RoleGuard(RoleAdmin, RoleManager), StatusGuard(StatusRequested), SelfActionGuard(), ReasonRequiredGuard()}},
		Edge{Kind: KindReturnAuthorization, From: StatusApproved, Action: ActionReceive, To: StatusReceived, PartialTo: StatusApproved,
			Guards: []Guard{StatusGuard(StatusApproved)}},
		Edge{Kind: KindReturnAuthorization, From: StatusReceived, Action: ActionInspect, To: StatusInspected,
			Guards: []Guard{StatusGuard(StatusReceived)}},
		Edge{Kind: KindReturnAuthorization, From: StatusInspected, Action: ActionCredit, To: StatusCredited,
			Guards: []Guard{StatusGuard(StatusInspected)}},
		Edge{Kind: KindReturnAuthorization, From: StatusCredited, Action: ActionClose, To: StatusClosed,
			Guards: []Guard{StatusGuard(StatusCredited)}},
		Edge{Kind: KindReturnAuthorization, From: StatusRequested, Action: ActionCancel, To: StatusCancelled,
			Guards: []Guard{StatusGuard(StatusRequested), ReasonRequiredGuard()}},
	)

	// Purchase requisition pipeline
	edges = append(edges,
		Edge{Kind: KindPurchaseRequisition, From: StatusDraft, Action: ActionSubmit, To: StatusSubmitted,
			Guards: []Guard{StatusGuard(StatusDraft)}},
		Edge{Kind: KindPurchaseRequisition, From: StatusSubmitted, Action: ActionApprove, To: StatusApproved,
			Guards: []Guard{RoleGuard(RoleAdmin, RoleManager), StatusGuard(StatusSubmitted), SelfActionGuard()}},
		Edge{Kind: KindPurchaseRequisition, From: StatusSubmitted, Action: ActionReject, To: StatusRejected,
			Guards: []Guard{RoleGuard(RoleAdmin, RoleManager), StatusGuard(StatusSubmitted), SelfActionGuard(), ReasonRequiredGuard()}},
		Edge{Kind: KindPurchaseRequisition, From: StatusApproved, Action: ActionConvert, To: StatusConverted,
			Guards: []Guard{RoleGuard(RoleAdmin, RoleManager, RolePurchaser), StatusGuard(StatusApproved)}},
		Edge{Kind: KindPurchaseRequisition, From: StatusDraft, Action: ActionCancel, To: StatusCancelled,
			Guards: []Guard{StatusGuard(StatusDraft, StatusSubmitted), ReasonRequiredGuard()}},
		Edge{Kind: KindPurchaseRequisition, From: StatusSubmitted, Action: ActionCancel, To: StatusCancelled,
			Guards: []Guard{StatusGuard(StatusDraft, StatusSubmitted), ReasonRequiredGuard()}},
	)

	registry, err := NewRegistry(edges)
	if err != nil {
		// The default table is static; a construction error is a programming bug
		panic(err)
	}
	return registry
}
