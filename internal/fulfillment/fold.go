package fulfillment

import (
	"github.com/google/uuid"

	"github.com/Kobby-jnrr/kstore-backend/pkg/db/models"
	"github.com/Kobby-jnrr/kstore-backend/pkg/enums"
)

// OrderStatusOf folds item statuses into the order-level status:
// Rejected iff every item is rejected, Completed iff every item is terminal
// (checked after the all-rejected case), Pending otherwise. An order with no
// items is Pending.
func OrderStatusOf(statuses []enums.OrderItemStatus) enums.OrderStatus {
	if len(statuses) == 0 {
		return enums.OrderStatusPending
	}

	allRejected := true
	allTerminal := true
	for _, s := range statuses {
		if s != enums.OrderItemStatusRejected {
			allRejected = false
		}
		if !s.IsTerminal() {
			allTerminal = false
		}
	}

	switch {
	case allRejected:
		return enums.OrderStatusRejected
	case allTerminal:
		return enums.OrderStatusCompleted
	default:
		return enums.OrderStatusPending
	}
}

// VendorStatusOf is the same fold restricted to one vendor's items, with the
// in-progress label "accepted" where the order-level fold says completed.
// The label is a display nuance, not a distinct state.
func VendorStatusOf(statuses []enums.OrderItemStatus) enums.VendorOrderStatus {
	switch OrderStatusOf(statuses) {
	case enums.OrderStatusRejected:
		return enums.VendorOrderStatusRejected
	case enums.OrderStatusCompleted:
		return enums.VendorOrderStatusAccepted
	default:
		return enums.VendorOrderStatusPending
	}
}

// StatusesOf extracts the status column from order items.
func StatusesOf(items []models.OrderItem) []enums.OrderItemStatus {
	out := make([]enums.OrderItemStatus, len(items))
	for i, item := range items {
		out[i] = item.Status
	}
	return out
}

// VendorStatuses extracts one vendor's item statuses from an order.
func VendorStatuses(items []models.OrderItem, vendorID uuid.UUID) []enums.OrderItemStatus {
	out := make([]enums.OrderItemStatus, 0, len(items))
	for _, item := range items {
		if item.VendorID == vendorID {
			out = append(out, item.Status)
		}
	}
	return out
}
