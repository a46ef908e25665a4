// Package fulfillment holds the order item status lifecycle and the pure
// folds that derive order-level and vendor-level statuses from it. Statuses
// are never stored at the order level; every consumer derives them through
// the same functions so vendor boards and admin boards cannot drift.
package fulfillment

import (
	"github.com/Kobby-jnrr/kstore-backend/pkg/enums"
	pkgerrors "github.com/Kobby-jnrr/kstore-backend/pkg/errors"
)

// Action is a vendor/admin transition request. Customers never transition
// items.
type Action string

const (
	ActionAccept  Action = "accept"
	ActionReject  Action = "reject"
	ActionAdvance Action = "advance"
)

// IsValid reports whether the action is one of the known transitions.
func (a Action) IsValid() bool {
	switch a {
	case ActionAccept, ActionReject, ActionAdvance:
		return true
	}
	return false
}

// ParseAction validates a raw action string.
func ParseAction(raw string) (Action, error) {
	a := Action(raw)
	if !a.IsValid() {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "unknown fulfillment action").
			WithDetails(map[string]string{"action": raw})
	}
	return a, nil
}

// ErrInvalidTransition reports a transition requested from a terminal state
// or via an undefined edge. The input state is never mutated.
func ErrInvalidTransition(from enums.OrderItemStatus, action Action) error {
	return pkgerrors.New(pkgerrors.CodeStateConflict, "invalid fulfillment transition").
		WithDetails(map[string]string{
			"from":   from.String(),
			"action": string(action),
		})
}

// Accept moves a pending item to accepted.
func Accept(from enums.OrderItemStatus) (enums.OrderItemStatus, error) {
	if from != enums.OrderItemStatusPending {
		return from, ErrInvalidTransition(from, ActionAccept)
	}
	return enums.OrderItemStatusAccepted, nil
}

// Reject moves a pending item to rejected.
func Reject(from enums.OrderItemStatus) (enums.OrderItemStatus, error) {
	if from != enums.OrderItemStatusPending {
		return from, ErrInvalidTransition(from, ActionReject)
	}
	return enums.OrderItemStatusRejected, nil
}

// Advance maps each post-acceptance status to its successor:
// accepted -> preparing -> ready -> delivered. Advancing pending, delivered,
// or rejected is an InvalidTransition.
func Advance(from enums.OrderItemStatus) (enums.OrderItemStatus, error) {
	switch from {
	case enums.OrderItemStatusAccepted:
		return enums.OrderItemStatusPreparing, nil
	case enums.OrderItemStatusPreparing:
		return enums.OrderItemStatusReady, nil
	case enums.OrderItemStatusReady:
		return enums.OrderItemStatusDelivered, nil
	}
	return from, ErrInvalidTransition(from, ActionAdvance)
}

// Apply dispatches one action against the current status.
func Apply(from enums.OrderItemStatus, action Action) (enums.OrderItemStatus, error) {
	switch action {
	case ActionAccept:
		return Accept(from)
	case ActionReject:
		return Reject(from)
	case ActionAdvance:
		return Advance(from)
	}
	return from, ErrInvalidTransition(from, action)
}

// DeliverAllStep applies one Advance step to every eligible status in the
// batch. Pending items are skipped (they need an explicit accept or reject
// first) and rejected items are terminal; neither surfaces an error from the
// bulk path. Callers invoke once per desired step rather than looping items
// to delivered in one call.
func DeliverAllStep(statuses []enums.OrderItemStatus) []enums.OrderItemStatus {
	out := make([]enums.OrderItemStatus, len(statuses))
	for i, from := range statuses {
		next, err := Advance(from)
		if err != nil {
			out[i] = from
			continue
		}
		out[i] = next
	}
	return out
}
