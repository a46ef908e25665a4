package models

import (
	"time"

	"github.com/google/uuid"
)

// CartItem is one cart line: a product display snapshot captured at add-time
// plus a quantity. Quantity is always >= 1; a line that would drop to zero is
// deleted instead.
type CartItem struct {
	ID             uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CartID         uuid.UUID `gorm:"column:cart_id;type:uuid;not null;index"`
	ProductID      uuid.UUID `gorm:"column:product_id;type:uuid;not null"`
	VendorID       uuid.UUID `gorm:"column:vendor_id;type:uuid;not null"`
	Title          string    `gorm:"column:title;type:text;not null"`
	UnitPriceCents int       `gorm:"column:unit_price_cents;not null"`
	ImageURL       *string   `gorm:"column:image_url;type:text"`
	Quantity       int       `gorm:"column:quantity;not null"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
