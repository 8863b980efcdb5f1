package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/argvision/argvision-backend/pkg/enums"
)

// Team groups users who play together.
type Team struct {
	ID        uuid.UUID  `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Title     string     `gorm:"column:title;not null" json:"title"`
	Slogan    string     `gorm:"column:slogan;not null;default:''" json:"slogan"`
	GameID    *uuid.UUID `gorm:"column:game_id;type:uuid" json:"game_id"`
	CreatedBy *uuid.UUID `gorm:"column:created_by;type:uuid" json:"created_by"`
	Archived  bool       `gorm:"column:archived;not null;default:false" json:"archived"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (t *Team) BeforeCreate(*gorm.DB) error {
	ensureID(&t.ID)
	return nil
}

// TeamMembership is the single row tracking a user's standing in a team.
type TeamMembership struct {
	ID        uuid.UUID                  `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	TeamID    uuid.UUID                  `gorm:"column:team_id;type:uuid;not null" json:"team_id"`
	UserID    uuid.UUID                  `gorm:"column:user_id;type:uuid;not null" json:"user_id"`
	Status    enums.TeamMembershipStatus `gorm:"column:status;type:team_membership_status;not null" json:"status"`
	InvitedBy *uuid.UUID                 `gorm:"column:invited_by;type:uuid" json:"invited_by"`
	CreatedAt time.Time                  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time                  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (m *TeamMembership) BeforeCreate(*gorm.DB) error {
	ensureID(&m.ID)
	return nil
}
