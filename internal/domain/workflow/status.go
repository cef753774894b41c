package workflow

// DocumentKind identifies which commercial document pipeline a document
// belongs to
type DocumentKind string

const (
	KindSalesOrder          DocumentKind = "SALES_ORDER"
	KindPurchaseOrder       DocumentKind = "PURCHASE_ORDER"
	KindJobCard             DocumentKind = "JOB_CARD"
	KindReturnAuthorization DocumentKind = "RETURN_AUTHORIZATION"
	KindPurchaseRequisition DocumentKind = "PURCHASE_REQUISITION"
)

// IsValid checks if the kind is a known DocumentKind
func (k DocumentKind) IsValid() bool {
	switch k {
	case KindSalesOrder, KindPurchaseOrder, KindJobCard, KindReturnAuthorization, KindPurchaseRequisition:
		return true
	}
	return false
}

// String returns the string representation of DocumentKind
func (k DocumentKind) String() string {
	return string(k)
}

// NumberPrefix returns the document number prefix for the kind
func (k DocumentKind) NumberPrefix() string {
	switch k {
	case KindSalesOrder:
		return "SO"
	case KindPurchaseOrder:
		return "PO"
	case KindJobCard:
		return "JC"
	case KindReturnAuthorization:
		return "RA"
	case KindPurchaseRequisition:
		return "PR"
	}
	return "DOC"
}

// Status represents a document status within its kind's pipeline
type Status string

// Purchase order statuses
const (
	StatusDraft             Status = "DRAFT"
	StatusPendingApproval   Status = "PENDING_APPROVAL"
	StatusApproved          Status = "APPROVED"
	StatusSent              Status = "SENT"
	StatusAcknowledged      Status = "ACKNOWLEDGED"
	StatusPartiallyReceived Status = "PARTIALLY_RECEIVED"
	StatusReceived          Status = "RECEIVED"
	StatusClosed            Status = "CLOSED"
	StatusCancelled         Status = "CANCELLED"
)

// Sales order statuses (DRAFT/CANCELLED/CLOSED shared)
const (
	StatusConfirmed           Status = "CONFIRMED"
	StatusOnHold              Status = "ON_HOLD"
	StatusPartiallyDispatched Status = "PARTIALLY_DISPATCHED"
	StatusDispatched          Status = "DISPATCHED"
	StatusDelivered           Status = "DELIVERED"
	StatusInvoiced            Status = "INVOICED"
)

// Job card statuses
const (
	StatusPending    Status = "PENDING"
	StatusScheduled  Status = "SCHEDULED"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
)

// Return authorization / requisition statuses
const (
	StatusRequested Status = "REQUESTED"
	StatusRejected  Status = "REJECTED"
	StatusInspected Status = "INSPECTED"
	StatusCredited  Status = "CREDITED"
	StatusSubmitted Status = "SUBMITTED"
	StatusConverted Status = "CONVERTED"
)

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// Action represents a requested operation on a document
type Action string

const (
	ActionSubmit      Action = "submit"
	ActionApprove     Action = "approve"
	ActionReject      Action = "reject"
	ActionSend        Action = "send"
	ActionAcknowledge Action = "acknowledge"
	ActionReceive     Action = "receive"
	ActionCancel      Action = "cancel"
	ActionClose       Action = "close"
	ActionConfirm     Action = "confirm"
	ActionHold        Action = "hold"
	ActionRelease     Action = "release"
	ActionDispatch    Action = "dispatch"
	ActionDeliver     Action = "deliver"
	ActionInvoice     Action = "invoice"
	ActionSchedule    Action = "schedule"
	ActionStart       Action = "start"
	ActionResume      Action = "resume"
	ActionComplete    Action = "complete"
	ActionInspect     Action = "inspect"
	ActionCredit      Action = "credit"
	ActionConvert     Action = "convert"
)

// String returns the string representation of Action
func (a Action) String() string {
	return string(a)
}

// Label returns the human-readable audit label for the action
func (a Action) Label() string {
	switch a {
	case ActionSubmit:
		return "Submitted for approval"
	case ActionApprove:
		return "Approved"
	case ActionReject:
		return "Rejected"
	case ActionSend:
		return "Sent to supplier"
	case ActionAcknowledge:
		return "Acknowledged by supplier"
	case ActionReceive:
		return "Goods received"
	case ActionCancel:
		return "Cancelled"
	case ActionClose:
		return "Closed"
	case ActionConfirm:
		return "Confirmed"
	case ActionHold:
		return "Placed on hold"
	case ActionRelease:
		return "Released from hold"
	case ActionDispatch:
		return "Goods dispatched"
	case ActionDeliver:
		return "Delivered"
	case ActionInvoice:
		return "Invoiced"
	case ActionSchedule:
		return "Scheduled"
	case ActionStart:
		return "Work started"
	case ActionResume:
		return "Work resumed"
	case ActionComplete:
		return "Work completed"
	case ActionInspect:
		return "Inspected"
	case ActionCredit:
		return "Credit note issued"
	case ActionConvert:
		return "Converted to purchase order"
	}
	return string(a)
}

// InitialStatus returns the status a newly created document of the given
// kind starts in
func InitialStatus(kind DocumentKind) Status {
	switch kind {
	case KindSalesOrder, KindPurchaseOrder, KindPurchaseRequisition:
		return StatusDraft
	case KindJobCard:
		return StatusPending
	case KindReturnAuthorization:
		return StatusRequested
	}
	return StatusDraft
}
