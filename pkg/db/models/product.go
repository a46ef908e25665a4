package models

import (
	"time"

	"github.com/google/uuid"
)

// Product is a vendor catalog entry.
type Product struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	VendorID    uuid.UUID `gorm:"column:vendor_id;type:uuid;not null;index"`
	Title       string    `gorm:"column:title;type:text;not null"`
	Description *string   `gorm:"column:description;type:text"`
	Category    string    `gorm:"column:category;type:text;not null"`
	PriceCents  int       `gorm:"column:price_cents;not null"`
	ImageURL    *string   `gorm:"column:image_url;type:text"`
	IsActive    bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
