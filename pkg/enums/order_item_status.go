package enums

import "fmt"

// OrderItemStatus tracks the fulfillment lifecycle of a single order item.
type OrderItemStatus string

const (
	OrderItemStatusPending   OrderItemStatus = "pending"
	OrderItemStatusAccepted  OrderItemStatus = "accepted"
	OrderItemStatusPreparing OrderItemStatus = "preparing"
	OrderItemStatusReady     OrderItemStatus = "ready"
	OrderItemStatusDelivered OrderItemStatus = "delivered"
	OrderItemStatusRejected  OrderItemStatus = "rejected"
)

var validOrderItemStatuses = []OrderItemStatus{
	OrderItemStatusPending,
	OrderItemStatusAccepted,
	OrderItemStatusPreparing,
	OrderItemStatusReady,
	OrderItemStatusDelivered,
	OrderItemStatusRejected,
}

// String implements fmt.Stringer.
func (s OrderItemStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known OrderItemStatus.
func (s OrderItemStatus) IsValid() bool {
	for _, candidate := range validOrderItemStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is possible.
func (s OrderItemStatus) IsTerminal() bool {
	return s == OrderItemStatusDelivered || s == OrderItemStatusRejected
}

// ParseOrderItemStatus converts raw input into an OrderItemStatus.
func ParseOrderItemStatus(value string) (OrderItemStatus, error) {
	for _, candidate := range validOrderItemStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order item status %q", value)
}
