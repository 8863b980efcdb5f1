package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/argvision/argvision-backend/pkg/enums"
)

// Discussion is a chat thread scoped to a group of users, a match or a team.
type Discussion struct {
	ID        uuid.UUID            `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Type      enums.DiscussionType `gorm:"column:discussion_type;type:discussion_type;not null" json:"discussion_type"`
	Title     string               `gorm:"column:title;not null;default:''" json:"title"`
	MatchID   *uuid.UUID           `gorm:"column:match_id;type:uuid" json:"match_id"`
	TeamID    *uuid.UUID           `gorm:"column:team_id;type:uuid" json:"team_id"`
	CreatedBy *uuid.UUID           `gorm:"column:created_by;type:uuid" json:"created_by"`
	Archived  bool                 `gorm:"column:archived;not null;default:false" json:"archived"`
	CreatedAt time.Time            `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time            `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (d *Discussion) BeforeCreate(*gorm.DB) error {
	ensureID(&d.ID)
	return nil
}

// DiscussionParticipant lists the members of a group discussion.
type DiscussionParticipant struct {
	DiscussionID uuid.UUID `gorm:"column:discussion_id;type:uuid;primaryKey" json:"discussion_id"`
	UserID       uuid.UUID `gorm:"column:user_id;type:uuid;primaryKey" json:"user_id"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

// Message is a single chat entry, optionally replying to another message.
type Message struct {
	ID           uuid.UUID         `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	DiscussionID uuid.UUID         `gorm:"column:discussion_id;type:uuid;not null" json:"discussion_id"`
	SenderID     *uuid.UUID        `gorm:"column:sender_id;type:uuid" json:"sender_id"`
	Content      string            `gorm:"column:content;not null" json:"content"`
	Type         enums.MessageType `gorm:"column:message_type;type:message_type;not null" json:"message_type"`
	ReplyingToID *uuid.UUID        `gorm:"column:replying_to_id;type:uuid" json:"replying_to_id"`
	CreatedAt    time.Time         `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (m *Message) BeforeCreate(*gorm.DB) error {
	ensureID(&m.ID)
	return nil
}
