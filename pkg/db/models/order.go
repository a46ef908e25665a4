package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/Kobby-jnrr/kstore-backend/pkg/enums"
)

// Order is a customer order, possibly spanning multiple vendors. The
// order-level status is a pure fold over item statuses and is never stored.
type Order struct {
	ID               uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderNumber      int64                 `gorm:"column:order_number;not null;uniqueIndex"`
	CustomerID       uuid.UUID             `gorm:"column:customer_id;type:uuid;not null;index"`
	FulfillmentType  enums.FulfillmentType `gorm:"column:fulfillment_type;type:text;not null"`
	PaymentMethod    enums.PaymentMethod   `gorm:"column:payment_method;type:text;not null"`
	SubtotalCents    int                   `gorm:"column:subtotal_cents;not null"`
	DeliveryFeeCents int                   `gorm:"column:delivery_fee_cents;not null;default:0"`
	TotalCents       int                   `gorm:"column:total_cents;not null"`
	Items            []OrderItem           `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt        time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}
