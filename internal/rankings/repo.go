package rankings

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/argvision/argvision-backend/internal/repo"
	"github.com/argvision/argvision-backend/pkg/db/models"
)

// Repository defines persistence operations for rankings.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	InsertIgnore(ctx context.Context, ranking *models.Ranking) (bool, error)
	Find(ctx context.Context, userID, gameID uuid.UUID, teamID *uuid.UUID) (*models.Ranking, error)
	AddScore(ctx context.Context, id uuid.UUID, points int64) (*models.Ranking, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Ranking, error)
	Leaderboard(ctx context.Context, gameID uuid.UUID, limit int) ([]LeaderboardEntry, error)
}

type repository struct {
	repo.Base
}

// NewRepository builds a rankings repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{Base: r.Base.WithTx(tx)}
}

// InsertIgnore inserts the ranking unless a row for the same owner already
// exists. It reports whether a row was inserted.
func (r *repository) InsertIgnore(ctx context.Context, ranking *models.Ranking) (bool, error) {
	if ranking == nil {
		return false, errors.New("ranking is required")
	}
	res := r.DB(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(ranking)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) Find(ctx context.Context, userID, gameID uuid.UUID, teamID *uuid.UUID) (*models.Ranking, error) {
	query := r.DB(ctx).Where("user_id = ? AND game_id = ?", userID, gameID)
	if teamID == nil {
		query = query.Where("team_id IS NULL")
	} else {
		query = query.Where("team_id = ?", *teamID)
	}
	var ranking models.Ranking
	if err := query.First(&ranking).Error; err != nil {
		return nil, err
	}
	return &ranking, nil
}

// AddScore increments the score in SQL, so concurrent settlements of the
// same ranking both land, then re-reads the row under lock and stores the
// tiers derived from the new score.
func (r *repository) AddScore(ctx context.Context, id uuid.UUID, points int64) (*models.Ranking, error) {
	res := r.DB(ctx).
		Model(&models.Ranking{}).
		Where("id = ?", id).
		UpdateColumns(map[string]any{
			"score":      gorm.Expr("score + ?", points),
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	var ranking models.Ranking
	if err := r.ForUpdate(ctx).First(&ranking, "id = ?", id).Error; err != nil {
		return nil, err
	}
	ranking.Recompute()
	err := r.DB(ctx).
		Model(&models.Ranking{}).
		Where("id = ?", id).
		UpdateColumns(map[string]any{
			"rank_tier":  ranking.RankTier,
			"level_tier": ranking.LevelTier,
		}).Error
	if err != nil {
		return nil, err
	}
	return &ranking, nil
}

func (r *repository) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Ranking, error) {
	var rows []models.Ranking
	err := r.DB(ctx).
		Where("user_id = ?", userID).
		Order("score DESC").
		Order("id ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) Leaderboard(ctx context.Context, gameID uuid.UUID, limit int) ([]LeaderboardEntry, error) {
	var rows []LeaderboardEntry
	err := r.DB(ctx).
		Model(&models.Ranking{}).
		Select("rankings.user_id, users.username, rankings.score, rankings.rank_tier, rankings.level_tier").
		Joins("JOIN users ON users.id = rankings.user_id").
		Where("rankings.game_id = ? AND rankings.team_id IS NULL", gameID).
		Order("rankings.score DESC").
		Order("rankings.updated_at ASC").
		Order("rankings.user_id ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i].Position = i + 1
	}
	return rows, nil
}
