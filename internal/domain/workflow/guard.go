package workflow

import (
	"strings"

	"github.com/portal/backend/internal/domain/shared"
)

// GuardContext carries everything a guard may inspect. Guards are pure:
// they never mutate the document or the payload.
type GuardContext struct {
	Document *Document
	Actor    Actor
	Action   Action
	Payload  TransitionPayload
}

// Guard is a single precondition on a transition. Check returns nil when
// the transition is permitted.
type Guard interface {
	Name() string
	Check(ctx GuardContext) error
}

// guardFunc adapts a function to the Guard interface
type guardFunc struct {
	name  string
	check func(ctx GuardContext) error
}

func (g guardFunc) Name() string                 { return g.name }
func (g guardFunc) Check(ctx GuardContext) error { return g.check(ctx) }

// RoleGuard permits the transition only for actors holding one of the
// allowed roles. Failure kind: FORBIDDEN.
func RoleGuard(roles ...Role) Guard {
	allowed := make(map[Role]struct{}, len(roles))
	names := make([]string, len(roles))
	for i, r := range roles {
		allowed[r] = struct{}{}
		names[i] = string(r)
	}
	return guardFunc{
		name: "role",
		check: func(ctx GuardContext) error {
			if _, ok := allowed[ctx.Actor.Role]; !ok {
				return shared.NewForbiddenError("Role %s may not %s this document (requires one of: %s)",
					ctx.Actor.Role, ctx.Action, strings.Join(names, ", "))
			}
			return nil
		},
	}
}

// StatusGuard cross-checks the document status against the edge's allowed
// source statuses. The registry lookup already enforces this; the guard is
// kept as an independent check so a registry mistake cannot let a
// transition through from the wrong status.
func StatusGuard(from ...Status) Guard {
	allowed := make(map[Status]struct{}, len(from))
	for _, s := range from {
		allowed[s] = struct{}{}
	}
	return guardFunc{
		name: "status",
		check: func(ctx GuardContext) error {
			if _, ok := allowed[ctx.Document.Status]; !ok {
				return shared.NewInvalidTransitionError(ctx.Document.Status.String(), ctx.Action.String())
			}
			return nil
		},
	}
}

// SelfActionGuard forbids an actor from approving or rejecting their own
// request. Failure kind: FORBIDDEN.
func SelfActionGuard() Guard {
	return guardFunc{
		name: "self-action",
		check: func(ctx GuardContext) error {
			if ctx.Document.RequestedBy == ctx.Actor.ID {
				return shared.NewForbiddenError("Cannot %s your own request", ctx.Action)
			}
			return nil
		},
	}
}

// ReasonRequiredGuard requires a non-empty reason (after trimming) on the
// payload. Failure kind: VALIDATION_ERROR.
func ReasonRequiredGuard() Guard {
	return guardFunc{
		name: "reason-required",
		check: func(ctx GuardContext) error {
			if strings.TrimSpace(ctx.Payload.Reason) == "" {
				return shared.NewValidationError("A reason is required to %s this document", ctx.Action)
			}
			return nil
		},
	}
}

// BomReadyGuard blocks starting a job card while its bill of materials has
// component shortages. The readiness fact is computed by the reconciliation
// calculator and supplied on the payload by the caller.
func BomReadyGuard() Guard {
	return guardFunc{
		name: "bom-ready",
		check: func(ctx GuardContext) error {
			if ctx.Payload.BomReady == nil {
				return shared.NewValidationError("Bill of materials readiness has not been evaluated")
			}
			if !*ctx.Payload.BomReady {
				return shared.NewValidationError("Bill of materials has component shortages")
			}
			return nil
		},
	}
}

// checkGuards evaluates guards in their registered order, short-circuiting
// on the first failure. The registry constructs every edge's guard list in
// the canonical order: role, status, self-action, reason, business facts.
func checkGuards(guards []Guard, ctx GuardContext) error {
	for _, g := range guards {
		if err := g.Check(ctx); err != nil {
			return err
		}
	}
	return nil
}
