package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/Kobby-jnrr/kstore-backend/pkg/enums"
)

// User is a marketplace account: customer, vendor, or admin.
type User struct {
	ID        uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string           `gorm:"column:name;type:text;not null"`
	Email     string           `gorm:"column:email;type:text;not null;uniqueIndex"`
	Role      enums.UserRole   `gorm:"column:role;type:text;not null;default:'customer'"`
	Status    enums.UserStatus `gorm:"column:status;type:text;not null;default:'active'"`
	StoreName *string          `gorm:"column:store_name;type:text"`
	CreatedAt time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
