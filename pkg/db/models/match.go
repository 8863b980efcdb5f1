package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/argvision/argvision-backend/pkg/enums"
)

// Match is a single contest between two sides.
type Match struct {
	ID              uuid.UUID             `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Name            string                `gorm:"column:name;not null" json:"name"`
	Description     string                `gorm:"column:description;not null;default:''" json:"description"`
	GameID          *uuid.UUID            `gorm:"column:game_id;type:uuid" json:"game_id"`
	Status          enums.MatchStatus     `gorm:"column:status;type:match_status;not null" json:"status"`
	Visibility      enums.MatchVisibility `gorm:"column:visibility;type:match_visibility;not null" json:"visibility"`
	CreatedBy       *uuid.UUID            `gorm:"column:created_by;type:uuid" json:"created_by"`
	MaxParticipants int                   `gorm:"column:max_participants;not null" json:"max_participants"`
	WinnerSide      int                   `gorm:"column:winner_side;not null;default:0" json:"winner_side"`
	Reward          int64                 `gorm:"column:reward;not null;default:0" json:"reward"`
	StartsAt        *time.Time            `gorm:"column:starts_at" json:"starts_at"`
	Archived        bool                  `gorm:"column:archived;not null;default:false" json:"archived"`
	CreatedAt       time.Time             `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time             `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (m *Match) BeforeCreate(*gorm.DB) error {
	ensureID(&m.ID)
	return nil
}

// IsCreator reports whether userID created the match.
func (m *Match) IsCreator(userID uuid.UUID) bool {
	return m != nil && m.CreatedBy != nil && *m.CreatedBy == userID
}

// MatchMembership is the single row tracking a user's standing in a match.
type MatchMembership struct {
	ID        uuid.UUID                   `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	MatchID   uuid.UUID                   `gorm:"column:match_id;type:uuid;not null" json:"match_id"`
	UserID    uuid.UUID                   `gorm:"column:user_id;type:uuid;not null" json:"user_id"`
	Status    enums.MatchMembershipStatus `gorm:"column:status;type:match_membership_status;not null" json:"status"`
	Side      int                         `gorm:"column:side;not null;default:0" json:"side"`
	Archived  bool                        `gorm:"column:archived;not null;default:false" json:"archived"`
	InvitedBy *uuid.UUID                  `gorm:"column:invited_by;type:uuid" json:"invited_by"`
	CreatedAt time.Time                   `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time                   `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (m *MatchMembership) BeforeCreate(*gorm.DB) error {
	ensureID(&m.ID)
	return nil
}
