package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/argvision/argvision-backend/pkg/enums"
)

// Notification stores an in-app notification addressed to a single user.
type Notification struct {
	ID        uuid.UUID              `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID              `gorm:"column:user_id;type:uuid;not null" json:"user_id"`
	Kind      enums.NotificationKind `gorm:"column:kind;type:notification_kind;not null" json:"kind"`
	Message   string                 `gorm:"column:message;not null" json:"message"`
	MatchID   *uuid.UUID             `gorm:"column:match_id;type:uuid" json:"match_id"`
	ReadAt    *time.Time             `gorm:"column:read_at" json:"read_at"`
	CreatedAt time.Time              `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (n *Notification) BeforeCreate(*gorm.DB) error {
	ensureID(&n.ID)
	return nil
}
