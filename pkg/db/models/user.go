package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/argvision/argvision-backend/pkg/enums"
)

// User mirrors the identity record owned by the external auth service.
type User struct {
	ID        uuid.UUID      `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Username  string         `gorm:"column:username;not null" json:"username"`
	Email     string         `gorm:"column:email;not null" json:"email"`
	Role      enums.UserRole `gorm:"column:role;type:user_role;not null" json:"role"`
	IsStaff   bool           `gorm:"column:is_staff;not null;default:false" json:"is_staff"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (u *User) BeforeCreate(*gorm.DB) error {
	ensureID(&u.ID)
	return nil
}

// Game is a discipline that matches are played in and rankings are kept for.
type Game struct {
	ID         uuid.UUID      `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Name       string         `gorm:"column:name;not null" json:"name"`
	GameType   enums.GameType `gorm:"column:game_type;type:game_type;not null" json:"game_type"`
	BasePoints int64          `gorm:"column:base_points;not null;default:0" json:"base_points"`
	Archived   bool           `gorm:"column:archived;not null;default:false" json:"archived"`
	CreatedAt  time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (g *Game) BeforeCreate(*gorm.DB) error {
	ensureID(&g.ID)
	return nil
}
