package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/Kobby-jnrr/kstore-backend/pkg/enums"
)

// Notification is an in-app announcement targeted at vendors, customers, or
// both. Per-user read state lives in notification_reads.
type Notification struct {
	ID        uuid.UUID                `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Title     string                   `gorm:"column:title;type:text;not null"`
	Message   string                   `gorm:"column:message;type:text;not null"`
	Target    enums.NotificationTarget `gorm:"column:target;type:text;not null"`
	Reads     []NotificationRead       `gorm:"foreignKey:NotificationID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time                `gorm:"column:created_at;autoCreateTime"`
}

// NotificationRead marks one notification as read by one user.
type NotificationRead struct {
	NotificationID uuid.UUID `gorm:"column:notification_id;type:uuid;primaryKey"`
	UserID         uuid.UUID `gorm:"column:user_id;type:uuid;primaryKey"`
	ReadAt         time.Time `gorm:"column:read_at;autoCreateTime"`
}
