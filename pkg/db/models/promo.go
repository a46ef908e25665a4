package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/Kobby-jnrr/kstore-backend/pkg/enums"
)

// Promo boosts one vendor's products on the storefront until it expires.
type Promo struct {
	ID        uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	VendorID  uuid.UUID         `gorm:"column:vendor_id;type:uuid;not null;index"`
	CreatedBy uuid.UUID         `gorm:"column:created_by;type:uuid;not null"`
	Status    enums.PromoStatus `gorm:"column:status;type:text;not null;default:'active'"`
	StartsAt  time.Time         `gorm:"column:starts_at;not null"`
	ExpiresAt time.Time         `gorm:"column:expires_at;not null"`
	CreatedAt time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
