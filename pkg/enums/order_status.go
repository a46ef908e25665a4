package enums

// OrderStatus is the order-level status derived from item statuses. It is
// computed on read and never stored.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusRejected  OrderStatus = "rejected"
)

// String implements fmt.Stringer.
func (s OrderStatus) String() string {
	return string(s)
}

// VendorOrderStatus is the vendor-scoped projection of the same fold. It
// reuses the order-level values but labels in-progress groups "accepted"
// instead of "completed" for vendor board display.
type VendorOrderStatus string

const (
	VendorOrderStatusPending  VendorOrderStatus = "pending"
	VendorOrderStatusAccepted VendorOrderStatus = "accepted"
	VendorOrderStatusRejected VendorOrderStatus = "rejected"
)

// String implements fmt.Stringer.
func (s VendorOrderStatus) String() string {
	return string(s)
}
