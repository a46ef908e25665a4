package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/Kobby-jnrr/kstore-backend/pkg/enums"
)

// PlaceOrderInput captures what a customer submits at checkout. Line data
// comes from the persisted cart, never from the request body.
type PlaceOrderInput struct {
	CustomerID      uuid.UUID
	FulfillmentType enums.FulfillmentType
	PaymentMethod   enums.PaymentMethod
}

// ItemView is one order item as rendered to clients. ProductID may be nil
// when the catalog entry was deleted after the order was placed; the
// snapshot fields keep the line renderable.
type ItemView struct {
	ID             uuid.UUID             `json:"id"`
	ProductID      *uuid.UUID            `json:"productId,omitempty"`
	VendorID       uuid.UUID             `json:"vendorId"`
	Title          string                `json:"title"`
	Quantity       int                   `json:"quantity"`
	UnitPriceCents int                   `json:"unitPriceCents"`
	TotalCents     int                   `json:"totalCents"`
	Status         enums.OrderItemStatus `json:"status"`
	Notes          *string               `json:"notes,omitempty"`
}

// VendorGroupView is one vendor's slice of an order with the vendor-scoped
// status fold applied.
type VendorGroupView struct {
	VendorID uuid.UUID               `json:"vendorId"`
	Status   enums.VendorOrderStatus `json:"status"`
	Items    []ItemView              `json:"items"`
}

// View is the full order projection. Status is derived from item statuses on
// every read and never stored.
type View struct {
	ID               uuid.UUID             `json:"id"`
	OrderNumber      int64                 `json:"orderNumber"`
	CustomerID       uuid.UUID             `json:"customerId"`
	FulfillmentType  enums.FulfillmentType `json:"fulfillmentType"`
	PaymentMethod    enums.PaymentMethod   `json:"paymentMethod"`
	SubtotalCents    int                   `json:"subtotalCents"`
	DeliveryFeeCents int                   `json:"deliveryFeeCents"`
	TotalCents       int                   `json:"totalCents"`
	Status           enums.OrderStatus     `json:"status"`
	Items            []ItemView            `json:"items"`
	VendorGroups     []VendorGroupView     `json:"vendorGroups"`
	CreatedAt        time.Time             `json:"createdAt"`
	Warnings         []string              `json:"warnings,omitempty"`
}

// Summary is the compact order row returned by list endpoints.
type Summary struct {
	ID          uuid.UUID         `json:"id"`
	OrderNumber int64             `json:"orderNumber"`
	CustomerID  uuid.UUID         `json:"customerId"`
	Status      enums.OrderStatus `json:"status"`
	TotalCents  int               `json:"totalCents"`
	ItemCount   int               `json:"itemCount"`
	CreatedAt   time.Time         `json:"createdAt"`
}

// List wraps paginated order summaries plus the next page cursor.
type List struct {
	Orders     []Summary `json:"orders"`
	NextCursor string    `json:"nextCursor,omitempty"`
}

// VendorOrderView is one order as seen by a vendor: only that vendor's items
// with the vendor-scoped status fold.
type VendorOrderView struct {
	OrderID         uuid.UUID               `json:"orderId"`
	OrderNumber     int64                   `json:"orderNumber"`
	CustomerID      uuid.UUID               `json:"customerId"`
	FulfillmentType enums.FulfillmentType   `json:"fulfillmentType"`
	Status          enums.VendorOrderStatus `json:"status"`
	SubtotalCents   int                     `json:"subtotalCents"`
	Items           []ItemView              `json:"items"`
	CreatedAt       time.Time               `json:"createdAt"`
}

// VendorOrderList wraps paginated vendor order views plus the next cursor.
type VendorOrderList struct {
	Orders     []VendorOrderView `json:"orders"`
	NextCursor string            `json:"nextCursor,omitempty"`
}

// ItemTransitionInput carries one explicit accept/reject/advance request.
// VendorID is nil for admin actors, who may transition any item.
type ItemTransitionInput struct {
	OrderID     uuid.UUID
	ItemID      uuid.UUID
	Action      string
	Notes       *string
	ActorUserID uuid.UUID
	ActorVendor *uuid.UUID
	ActorRole   enums.UserRole
}

// DeliverAllInput drives the bulk one-step advance over an order's items.
type DeliverAllInput struct {
	OrderID     uuid.UUID
	ActorUserID uuid.UUID
	ActorVendor *uuid.UUID
	ActorRole   enums.UserRole
}

// OrderCreatedEvent is the outbox payload emitted when an order is placed.
type OrderCreatedEvent struct {
	OrderID         uuid.UUID             `json:"orderId"`
	OrderNumber     int64                 `json:"orderNumber"`
	CustomerID      uuid.UUID             `json:"customerId"`
	VendorIDs       []uuid.UUID           `json:"vendorIds"`
	FulfillmentType enums.FulfillmentType `json:"fulfillmentType"`
	TotalCents      int                   `json:"totalCents"`
	ItemCount       int                   `json:"itemCount"`
}

// ItemStatusChange is one item's transition inside a status event.
type ItemStatusChange struct {
	ItemID   uuid.UUID             `json:"itemId"`
	VendorID uuid.UUID             `json:"vendorId"`
	From     enums.OrderItemStatus `json:"from"`
	To       enums.OrderItemStatus `json:"to"`
}

// ItemStatusChangedEvent is the outbox payload for one or more item
// transitions applied to a single order.
type ItemStatusChangedEvent struct {
	OrderID     uuid.UUID          `json:"orderId"`
	OrderNumber int64              `json:"orderNumber"`
	CustomerID  uuid.UUID          `json:"customerId"`
	OrderStatus enums.OrderStatus  `json:"orderStatus"`
	Changes     []ItemStatusChange `json:"changes"`
}

// MultiVendorPickupWarning is surfaced when a pickup order spans more than
// one vendor: the customer will have to collect from multiple locations.
const MultiVendorPickupWarning = "multi_vendor_pickup"
