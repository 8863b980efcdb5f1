package memberships

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/argvision/argvision-backend/internal/repo"
	"github.com/argvision/argvision-backend/pkg/db/models"
	"github.com/argvision/argvision-backend/pkg/enums"
)

// Repository exposes match membership persistence operations.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	LockMatch(ctx context.Context, id uuid.UUID) (*models.Match, error)
	FindMatch(ctx context.Context, id uuid.UUID) (*models.Match, error)
	FindUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.MatchMembership, error)
	FindByUserAndMatch(ctx context.Context, userID, matchID uuid.UUID) (*models.MatchMembership, error)
	Create(ctx context.Context, membership *models.MatchMembership) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.MatchMembershipStatus, side int, invitedBy *uuid.UUID) error
	UpdateSide(ctx context.Context, id uuid.UUID, side int) error
	ListForMatch(ctx context.Context, matchID uuid.UUID) ([]models.MatchMembership, error)
	ListParticipants(ctx context.Context, matchID uuid.UUID) ([]models.MatchMembership, error)
	ListForUser(ctx context.Context, userID uuid.UUID, status *enums.MatchMembershipStatus) ([]MembershipView, error)
	SideHolder(ctx context.Context, matchID uuid.UUID, side int) (*models.MatchMembership, error)
	ArchiveForMatch(ctx context.Context, matchID uuid.UUID) (int64, error)
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

func (r *repository) FindUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.DB(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.MatchMembership, error) {
	var membership models.MatchMembership
	if err := r.DB(ctx).First(&membership, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &membership, nil
}

// FindByUserAndMatch returns the single membership row of a user in a match.
func (r *repository) FindByUserAndMatch(ctx context.Context, userID, matchID uuid.UUID) (*models.MatchMembership, error) {
	var membership models.MatchMembership
	err := r.DB(ctx).
		Where("user_id = ? AND match_id = ?", userID, matchID).
		First(&membership).Error
	if err != nil {
		return nil, err
	}
	return &membership, nil
}

func (r *repository) Create(ctx context.Context, membership *models.MatchMembership) error {
	if membership == nil {
		return errors.New("membership is required")
	}
	return r.DB(ctx).Create(membership).Error
}

// UpdateStatus writes status and side together so a membership leaving the
// roster never keeps a side.
func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.MatchMembershipStatus, side int, invitedBy *uuid.UUID) error {
	updates := map[string]any{
		"status":     status,
		"side":       side,
		"updated_at": time.Now().UTC(),
	}
	if invitedBy != nil {
		updates["invited_by"] = *invitedBy
	}
	return r.DB(ctx).
		Model(&models.MatchMembership{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repository) UpdateSide(ctx context.Context, id uuid.UUID, side int) error {
	return r.DB(ctx).
		Model(&models.MatchMembership{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"side":       side,
			"updated_at": time.Now().UTC(),
		}).Error
}

func (r *repository) ListForMatch(ctx context.Context, matchID uuid.UUID) ([]models.MatchMembership, error) {
	var rows []models.MatchMembership
	err := r.DB(ctx).
		Where("match_id = ?", matchID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&rows).Error
	return rows, err
}

// ListParticipants returns the MEMBER and ADMIN rows of a match.
func (r *repository) ListParticipants(ctx context.Context, matchID uuid.UUID) ([]models.MatchMembership, error) {
	var rows []models.MatchMembership
	err := r.DB(ctx).
		Where("match_id = ? AND status IN ?", matchID, enums.ParticipantMatchMembershipStatuses()).
		Order("created_at ASC").
		Order("id ASC").
		Find(&rows).Error
	return rows, err
}

// ListForUser joins each membership with its match for the "my matches and
// invitations" view.
func (r *repository) ListForUser(ctx context.Context, userID uuid.UUID, status *enums.MatchMembershipStatus) ([]MembershipView, error) {
	query := r.DB(ctx).
		Model(&models.MatchMembership{}).
		Select("match_memberships.*, matches.name AS match_name, matches.status AS match_status, matches.starts_at AS match_starts_at").
		Joins("JOIN matches ON matches.id = match_memberships.match_id").
		Where("match_memberships.user_id = ? AND match_memberships.archived = ?", userID, false)
	if status != nil {
		query = query.Where("match_memberships.status = ?", *status)
	}

	var rows []MembershipView
	err := query.
		Order("match_memberships.updated_at DESC").
		Order("match_memberships.id DESC").
		Scan(&rows).Error
	return rows, err
}

// SideHolder returns the membership holding side in the match, if any.
func (r *repository) SideHolder(ctx context.Context, matchID uuid.UUID, side int) (*models.MatchMembership, error) {
	var membership models.MatchMembership
	err := r.DB(ctx).
		Where("match_id = ? AND side = ?", matchID, side).
		First(&membership).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &membership, nil
}

func (r *repository) ArchiveForMatch(ctx context.Context, matchID uuid.UUID) (int64, error) {
	res := r.DB(ctx).
		Model(&models.MatchMembership{}).
		Where("match_id = ? AND archived = ?", matchID, false).
		Updates(map[string]any{
			"archived":   true,
			"updated_at": time.Now().UTC(),
		})
	return res.RowsAffected, res.Error
}
