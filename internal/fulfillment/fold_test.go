package fulfillment

import (
	"testing"

	"github.com/google/uuid"

	"github.com/Kobby-jnrr/kstore-backend/pkg/db/models"
	"github.com/Kobby-jnrr/kstore-backend/pkg/enums"
)

func TestOrderStatusFold(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		statuses []enums.OrderItemStatus
		want     enums.OrderStatus
	}{
		{
			name:     "delivered plus rejected is completed",
			statuses: []enums.OrderItemStatus{enums.OrderItemStatusDelivered, enums.OrderItemStatusRejected},
			want:     enums.OrderStatusCompleted,
		},
		{
			name:     "all rejected wins over completed",
			statuses: []enums.OrderItemStatus{enums.OrderItemStatusRejected, enums.OrderItemStatusRejected},
			want:     enums.OrderStatusRejected,
		},
		{
			name:     "mixed in-flight is pending",
			statuses: []enums.OrderItemStatus{enums.OrderItemStatusPending, enums.OrderItemStatusAccepted},
			want:     enums.OrderStatusPending,
		},
		{
			name:     "all delivered is completed",
			statuses: []enums.OrderItemStatus{enums.OrderItemStatusDelivered, enums.OrderItemStatusDelivered},
			want:     enums.OrderStatusCompleted,
		},
		{
			name:     "one in-flight blocks completion",
			statuses: []enums.OrderItemStatus{enums.OrderItemStatusDelivered, enums.OrderItemStatusReady},
			want:     enums.OrderStatusPending,
		},
		{
			name:     "empty order is pending",
			statuses: nil,
			want:     enums.OrderStatusPending,
		},
		{
			name:     "single rejected is rejected",
			statuses: []enums.OrderItemStatus{enums.OrderItemStatusRejected},
			want:     enums.OrderStatusRejected,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := OrderStatusOf(tc.statuses); got != tc.want {
				t.Fatalf("got %s, want %s", got, tc.want)
			}
		})
	}
}

func TestVendorStatusFoldUsesAcceptedLabel(t *testing.T) {
	t.Parallel()

	got := VendorStatusOf([]enums.OrderItemStatus{
		enums.OrderItemStatusDelivered,
		enums.OrderItemStatusRejected,
	})
	if got != enums.VendorOrderStatusAccepted {
		t.Fatalf("got %s, want accepted", got)
	}

	got = VendorStatusOf([]enums.OrderItemStatus{enums.OrderItemStatusRejected})
	if got != enums.VendorOrderStatusRejected {
		t.Fatalf("got %s, want rejected", got)
	}

	got = VendorStatusOf([]enums.OrderItemStatus{enums.OrderItemStatusPreparing})
	if got != enums.VendorOrderStatusPending {
		t.Fatalf("got %s, want pending", got)
	}
}

func TestVendorStatusesPartition(t *testing.T) {
	t.Parallel()

	v1 := uuid.New()
	v2 := uuid.New()
	items := []models.OrderItem{
		{VendorID: v1, Status: enums.OrderItemStatusDelivered},
		{VendorID: v2, Status: enums.OrderItemStatusPending},
		{VendorID: v1, Status: enums.OrderItemStatusDelivered},
	}

	statuses := VendorStatuses(items, v1)
	if len(statuses) != 2 {
		t.Fatalf("expected 2 statuses for vendor 1, got %d", len(statuses))
	}
	if VendorStatusOf(statuses) != enums.VendorOrderStatusAccepted {
		t.Fatal("vendor 1 should fold to accepted")
	}
	if VendorStatusOf(VendorStatuses(items, v2)) != enums.VendorOrderStatusPending {
		t.Fatal("vendor 2 should fold to pending")
	}
}
