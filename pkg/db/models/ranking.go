package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/argvision/argvision-backend/pkg/enums"
)

// Ranking accumulates a user's score for a game, optionally within a team.
// RankTier and LevelTier are derived from Score on every save.
type Ranking struct {
	ID        uuid.UUID         `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID         `gorm:"column:user_id;type:uuid;not null" json:"user_id"`
	GameID    uuid.UUID         `gorm:"column:game_id;type:uuid;not null" json:"game_id"`
	TeamID    *uuid.UUID        `gorm:"column:team_id;type:uuid" json:"team_id"`
	Type      enums.RankingType `gorm:"column:ranking_type;type:ranking_type;not null" json:"ranking_type"`
	Score     int64             `gorm:"column:score;not null;default:0" json:"score"`
	RankTier  enums.RankTier    `gorm:"column:rank_tier;type:rank_tier;not null" json:"rank_tier"`
	LevelTier enums.LevelTier   `gorm:"column:level_tier;type:level_tier;not null" json:"level_tier"`
	CreatedAt time.Time         `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time         `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (r *Ranking) BeforeCreate(*gorm.DB) error {
	ensureID(&r.ID)
	return nil
}

func (r *Ranking) BeforeSave(*gorm.DB) error {
	r.Recompute()
	return nil
}

// Recompute refreshes the derived tiers from the current score.
func (r *Ranking) Recompute() {
	if r.Score < 0 {
		r.Score = 0
	}
	if r.Type == "" {
		r.Type = enums.RankingTypeStandard
	}
	r.RankTier = enums.RankTierForScore(r.Score)
	r.LevelTier = enums.LevelTierForScore(r.Score)
}
