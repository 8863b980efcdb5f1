package rankings

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/argvision/argvision-backend/pkg/db/models"
	"github.com/argvision/argvision-backend/pkg/enums"
	pkgerrors "github.com/argvision/argvision-backend/pkg/errors"
	"github.com/argvision/argvision-backend/pkg/pagination"
)

// LeaderboardEntry is one row of a game leaderboard.
type LeaderboardEntry struct {
	Position  int             `json:"position" gorm:"-"`
	UserID    uuid.UUID       `json:"user_id"`
	Username  string          `json:"username"`
	Score     int64           `json:"score"`
	RankTier  enums.RankTier  `json:"rank_tier"`
	LevelTier enums.LevelTier `json:"level_tier"`
}

// Service owns ranking creation and score settlement. Methods taking a tx
// join the caller's transaction; a nil tx runs on the base connection.
type Service interface {
	GetOrCreate(ctx context.Context, tx *gorm.DB, userID, gameID uuid.UUID, teamID *uuid.UUID) (*models.Ranking, error)
	Settle(ctx context.Context, tx *gorm.DB, userID, gameID uuid.UUID, points int64) (*models.Ranking, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Ranking, error)
	Leaderboard(ctx context.Context, gameID uuid.UUID, limit int) ([]LeaderboardEntry, error)
}

type service struct {
	repo Repository
}

// NewService wires the rankings dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("rankings repository required")
	}
	return &service{repo: repo}, nil
}

// RankTierFor maps a score onto the rank ladder.
func RankTierFor(score int64) enums.RankTier {
	return enums.RankTierForScore(score)
}

// LevelTierFor maps a score onto the level ladder.
func LevelTierFor(score int64) enums.LevelTier {
	return enums.LevelTierForScore(score)
}

// GetOrCreate returns the ranking of (user, game, team), creating it with a
// zero score when missing. Concurrent callers converge on the same row.
func (s *service) GetOrCreate(ctx context.Context, tx *gorm.DB, userID, gameID uuid.UUID, teamID *uuid.UUID) (*models.Ranking, error) {
	if userID == uuid.Nil || gameID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeBadRequest, "user and game are required")
	}
	repo := s.repo.WithTx(tx)

	candidate := &models.Ranking{
		UserID: userID,
		GameID: gameID,
		TeamID: teamID,
		Type:   enums.RankingTypeStandard,
	}
	inserted, err := repo.InsertIgnore(ctx, candidate)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create ranking")
	}
	if inserted {
		return candidate, nil
	}

	existing, err := repo.Find(ctx, userID, gameID, teamID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "ranking vanished after conflict")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load ranking")
	}
	return existing, nil
}

// Settle adds points to the user's solo ranking for the game. The increment
// happens in SQL; tiers are recomputed from the stored score.
func (s *service) Settle(ctx context.Context, tx *gorm.DB, userID, gameID uuid.UUID, points int64) (*models.Ranking, error) {
	if points < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeBadRequest, "points must be non-negative")
	}
	ranking, err := s.GetOrCreate(ctx, tx, userID, gameID, nil)
	if err != nil {
		return nil, err
	}
	settled, err := s.repo.WithTx(tx).AddScore(ctx, ranking.ID, points)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save ranking")
	}
	return settled, nil
}

func (s *service) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Ranking, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeBadRequest, "user id required")
	}
	rows, err := s.repo.ListForUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list rankings")
	}
	return rows, nil
}

func (s *service) Leaderboard(ctx context.Context, gameID uuid.UUID, limit int) ([]LeaderboardEntry, error) {
	if gameID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeBadRequest, "game id required")
	}
	rows, err := s.repo.Leaderboard(ctx, gameID, pagination.NormalizeLimit(limit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load leaderboard")
	}
	return rows, nil
}
