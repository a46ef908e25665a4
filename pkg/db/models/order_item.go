package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/Kobby-jnrr/kstore-backend/pkg/enums"
)

// OrderItem snapshots one product within an order. ProductID is nullable:
// when the referenced product is later deleted the snapshot fields keep the
// item renderable.
type OrderItem struct {
	ID             uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID        uuid.UUID             `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID      *uuid.UUID            `gorm:"column:product_id;type:uuid"`
	VendorID       uuid.UUID             `gorm:"column:vendor_id;type:uuid;not null;index"`
	Title          string                `gorm:"column:title;type:text;not null"`
	Quantity       int                   `gorm:"column:quantity;not null"`
	UnitPriceCents int                   `gorm:"column:unit_price_cents;not null"`
	TotalCents     int                   `gorm:"column:total_cents;not null"`
	Status         enums.OrderItemStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	Notes          *string               `gorm:"column:notes;type:text"`
	CreatedAt      time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}
