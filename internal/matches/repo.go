package matches

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/argvision/argvision-backend/internal/repo"
	"github.com/argvision/argvision-backend/pkg/db/models"
	"github.com/argvision/argvision-backend/pkg/enums"
	"github.com/argvision/argvision-backend/pkg/pagination"
)

// Repository exposes match persistence operations.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	LockMatch(ctx context.Context, id uuid.UUID) (*models.Match, error)
	FindMatch(ctx context.Context, id uuid.UUID) (*models.Match, error)
	FindGame(ctx context.Context, id uuid.UUID) (*models.Game, error)
	Create(ctx context.Context, match *models.Match) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.MatchStatus) error
	RecordResult(ctx context.Context, id uuid.UUID, winnerSide int, reward int64) error
	MarkArchived(ctx context.Context, id uuid.UUID) error
	ArchiveDiscussions(ctx context.Context, matchID uuid.UUID) (int64, error)
	ListVisible(ctx context.Context, params listVisibleParams) ([]models.Match, error)
	ListMine(ctx context.Context, userID uuid.UUID) ([]models.Match, error)
}

type listVisibleParams struct {
	ViewerID     uuid.UUID
	Visibilities []enums.MatchVisibility
	Status       *enums.MatchStatus
	GameID       *uuid.UUID
	Limit        int
	Cursor       *pagination.Cursor
}

type repository struct {
	repo.Base
}

// NewRepository binds the repo to the provided GORM connection.
func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{Base: r.Base.WithTx(tx)}
}

func (r *repository) FindGame(ctx context.Context, id uuid.UUID) (*models.Game, error) {
	var game models.Game
	if err := r.DB(ctx).First(&game, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &game, nil
}

func (r *repository) Create(ctx context.Context, match *models.Match) error {
	if match == nil {
		return errors.New("match is required")
	}
	return r.DB(ctx).Create(match).Error
}

func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.MatchStatus) error {
	return r.update(ctx, id, map[string]any{"status": status})
}

// RecordResult completes the match with its winning side and reward.
func (r *repository) RecordResult(ctx context.Context, id uuid.UUID, winnerSide int, reward int64) error {
	return r.update(ctx, id, map[string]any{
		"status":      enums.MatchStatusCompleted,
		"winner_side": winnerSide,
		"reward":      reward,
	})
}

func (r *repository) MarkArchived(ctx context.Context, id uuid.UUID) error {
	return r.update(ctx, id, map[string]any{"archived": true})
}

// ArchiveDiscussions archives the MATCH discussions attached to the match.
func (r *repository) ArchiveDiscussions(ctx context.Context, matchID uuid.UUID) (int64, error) {
	res := r.DB(ctx).
		Model(&models.Discussion{}).
		Where("match_id = ? AND discussion_type = ? AND archived = ?", matchID, enums.DiscussionTypeMatch, false).
		Updates(map[string]any{
			"archived":   true,
			"updated_at": time.Now().UTC(),
		})
	return res.RowsAffected, res.Error
}

// ListVisible returns unarchived matches that are listed publicly, created by
// the viewer, or that the viewer holds a non-banned membership in.
func (r *repository) ListVisible(ctx context.Context, params listVisibleParams) ([]models.Match, error) {
	memberOf := r.DB(ctx).
		Model(&models.MatchMembership{}).
		Select("match_id").
		Where("user_id = ? AND status <> ?", params.ViewerID, enums.MatchMembershipBanned)

	query := r.DB(ctx).
		Model(&models.Match{}).
		Where("matches.archived = ?", false).
		Where(
			r.DB(ctx).
				Where("matches.visibility IN ?", params.Visibilities).
				Or("matches.created_by = ?", params.ViewerID).
				Or("matches.id IN (?)", memberOf),
		)
	if params.Status != nil {
		query = query.Where("matches.status = ?", *params.Status)
	}
	if params.GameID != nil {
		query = query.Where("matches.game_id = ?", *params.GameID)
	}

	var rows []models.Match
	err := query.
		Scopes(pagination.Newest("matches", params.Cursor, params.Limit)).
		Find(&rows).Error
	return rows, err
}

// ListMine returns the unarchived matches the user created or participates in.
func (r *repository) ListMine(ctx context.Context, userID uuid.UUID) ([]models.Match, error) {
	participating := r.DB(ctx).
		Model(&models.MatchMembership{}).
		Select("match_id").
		Where("user_id = ? AND status IN ?", userID, enums.ParticipantMatchMembershipStatuses())

	var rows []models.Match
	err := r.DB(ctx).
		Where("archived = ?", false).
		Where(r.DB(ctx).Where("created_by = ?", userID).Or("id IN (?)", participating)).
		Order("created_at DESC").
		Order("id DESC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	updates["updated_at"] = time.Now().UTC()
	return r.DB(ctx).
		Model(&models.Match{}).
		Where("id = ?", id).
		Updates(updates).Error
}
