package fulfillment

import (
	"testing"

	"github.com/Kobby-jnrr/kstore-backend/pkg/enums"
	pkgerrors "github.com/Kobby-jnrr/kstore-backend/pkg/errors"
)

func requireStateConflict(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected InvalidTransition error")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestAcceptOnlyFromPending(t *testing.T) {
	t.Parallel()

	got, err := Accept(enums.OrderItemStatusPending)
	if err != nil {
		t.Fatalf("accept(pending): %v", err)
	}
	if got != enums.OrderItemStatusAccepted {
		t.Fatalf("accept(pending) = %s, want accepted", got)
	}

	for _, from := range []enums.OrderItemStatus{
		enums.OrderItemStatusAccepted,
		enums.OrderItemStatusPreparing,
		enums.OrderItemStatusReady,
		enums.OrderItemStatusDelivered,
		enums.OrderItemStatusRejected,
	} {
		got, err := Accept(from)
		requireStateConflict(t, err)
		if got != from {
			t.Fatalf("failed accept mutated state: %s -> %s", from, got)
		}
	}
}

func TestRejectOnlyFromPending(t *testing.T) {
	t.Parallel()

	got, err := Reject(enums.OrderItemStatusPending)
	if err != nil {
		t.Fatalf("reject(pending): %v", err)
	}
	if got != enums.OrderItemStatusRejected {
		t.Fatalf("reject(pending) = %s, want rejected", got)
	}

	for _, from := range []enums.OrderItemStatus{
		enums.OrderItemStatusAccepted,
		enums.OrderItemStatusDelivered,
		enums.OrderItemStatusRejected,
	} {
		got, err := Reject(from)
		requireStateConflict(t, err)
		if got != from {
			t.Fatalf("failed reject mutated state: %s -> %s", from, got)
		}
	}
}

func TestAdvanceChain(t *testing.T) {
	t.Parallel()

	steps := []struct {
		from enums.OrderItemStatus
		want enums.OrderItemStatus
	}{
		{enums.OrderItemStatusAccepted, enums.OrderItemStatusPreparing},
		{enums.OrderItemStatusPreparing, enums.OrderItemStatusReady},
		{enums.OrderItemStatusReady, enums.OrderItemStatusDelivered},
	}
	for _, step := range steps {
		got, err := Advance(step.from)
		if err != nil {
			t.Fatalf("advance(%s): %v", step.from, err)
		}
		if got != step.want {
			t.Fatalf("advance(%s) = %s, want %s", step.from, got, step.want)
		}
	}
}

func TestAdvanceGuardsPendingAndTerminal(t *testing.T) {
	t.Parallel()

	for _, from := range []enums.OrderItemStatus{
		enums.OrderItemStatusPending,
		enums.OrderItemStatusDelivered,
		enums.OrderItemStatusRejected,
	} {
		got, err := Advance(from)
		requireStateConflict(t, err)
		if got != from {
			t.Fatalf("failed advance mutated state: %s -> %s", from, got)
		}
	}
}

func TestApplyDispatch(t *testing.T) {
	t.Parallel()

	got, err := Apply(enums.OrderItemStatusPending, ActionAccept)
	if err != nil || got != enums.OrderItemStatusAccepted {
		t.Fatalf("apply accept = (%s, %v)", got, err)
	}
	got, err = Apply(enums.OrderItemStatusPending, ActionReject)
	if err != nil || got != enums.OrderItemStatusRejected {
		t.Fatalf("apply reject = (%s, %v)", got, err)
	}
	got, err = Apply(enums.OrderItemStatusReady, ActionAdvance)
	if err != nil || got != enums.OrderItemStatusDelivered {
		t.Fatalf("apply advance = (%s, %v)", got, err)
	}

	if _, err := Apply(enums.OrderItemStatusPending, Action("ship")); err == nil {
		t.Fatal("expected error for unknown action")
	}
}

func TestParseAction(t *testing.T) {
	t.Parallel()

	if _, err := ParseAction("advance"); err != nil {
		t.Fatalf("parse advance: %v", err)
	}
	if _, err := ParseAction("teleport"); err == nil {
		t.Fatal("expected validation error for unknown action")
	}
}

func TestDeliverAllStepSkipsIneligible(t *testing.T) {
	t.Parallel()

	in := []enums.OrderItemStatus{
		enums.OrderItemStatusPending,
		enums.OrderItemStatusAccepted,
		enums.OrderItemStatusPreparing,
		enums.OrderItemStatusReady,
		enums.OrderItemStatusDelivered,
		enums.OrderItemStatusRejected,
	}
	want := []enums.OrderItemStatus{
		enums.OrderItemStatusPending,   // skipped: needs explicit accept/reject
		enums.OrderItemStatusPreparing, // one step only
		enums.OrderItemStatusReady,
		enums.OrderItemStatusDelivered,
		enums.OrderItemStatusDelivered, // terminal, untouched
		enums.OrderItemStatusRejected,  // terminal, untouched
	}

	got := DeliverAllStep(in)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("index %d: got %s, want %s", i, got[i], want[i])
		}
	}
}

func TestDeliverAllStepConvergesInThreeSteps(t *testing.T) {
	t.Parallel()

	statuses := []enums.OrderItemStatus{
		enums.OrderItemStatusAccepted,
		enums.OrderItemStatusPreparing,
		enums.OrderItemStatusReady,
	}
	for i := 0; i < 3; i++ {
		statuses = DeliverAllStep(statuses)
	}
	for i, s := range statuses {
		if s != enums.OrderItemStatusDelivered {
			t.Fatalf("index %d not delivered after three steps: %s", i, s)
		}
	}
}
