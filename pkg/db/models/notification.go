package models

import (
	"time"

	"github.com/storefront-labs/storefront-backend/pkg/enums"
)

// Notification stores an in-app message for a user.
type Notification struct {
	ID        int64                      `gorm:"column:id;primaryKey;autoIncrement"`
	UserID    int64                      `gorm:"column:user_id;not null;index"`
	Category  enums.NotificationCategory `gorm:"column:category;type:text;not null"`
	Message   string                     `gorm:"column:message;type:text;not null"`
	ReadAt    *time.Time                 `gorm:"column:read_at"`
	CreatedAt time.Time                  `gorm:"column:created_at;autoCreateTime"`
}
