package teams

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

// Repository exposes team persistence operations.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	LockTeam(ctx context.Context, id uuid.UUID) (*models.Team, error)
	FindTeam(ctx context.Context, id uuid.UUID) (*models.Team, error)
	FindGame(ctx context.Context, id uuid.UUID) (*models.Game, error)
	FindUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	CreateTeam(ctx context.Context, team *models.Team) error
	FindMembership(ctx context.Context, id uuid.UUID) (*models.TeamMembership, error)
	FindMembershipByUser(ctx context.Context, teamID, userID uuid.UUID) (*models.TeamMembership, error)
	CreateMembership(ctx context.Context, membership *models.TeamMembership) error
	UpdateMembershipStatus(ctx context.Context, id uuid.UUID, status enums.TeamMembershipStatus, invitedBy *uuid.UUID) error
	ListMembers(ctx context.Context, teamID uuid.UUID) ([]models.TeamMembership, error)
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

// LockTeam loads a team and holds its row lock for the transaction.
func (r *repository) LockTeam(ctx context.Context, id uuid.UUID) (*models.Team, error) {
	var team models.Team
	if err := r.ForUpdate(ctx).First(&team, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &team, nil
}

func (r *repository) FindTeam(ctx context.Context, id uuid.UUID) (*models.Team, error) {
	var team models.Team
	if err := r.DB(ctx).First(&team, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &team, nil
}

func (r *repository) FindGame(ctx context.Context, id uuid.UUID) (*models.Game, error) {
	var game models.Game
	if err := r.DB(ctx).First(&game, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &game, nil
}

func (r *repository) FindUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.DB(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *repository) CreateTeam(ctx context.Context, team *models.Team) error {
	if team == nil {
		return errors.New("team is required")
	}
	return r.DB(ctx).Create(team).Error
}

func (r *repository) FindMembership(ctx context.Context, id uuid.UUID) (*models.TeamMembership, error) {
	var membership models.TeamMembership
	if err := r.DB(ctx).First(&membership, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &membership, nil
}

func (r *repository) FindMembershipByUser(ctx context.Context, teamID, userID uuid.UUID) (*models.TeamMembership, error) {
	var membership models.TeamMembership
	err := r.DB(ctx).
		Where("team_id = ? AND user_id = ?", teamID, userID).
		First(&membership).Error
	if err != nil {
		return nil, err
	}
	return &membership, nil
}

func (r *repository) CreateMembership(ctx context.Context, membership *models.TeamMembership) error {
	if membership == nil {
		return errors.New("team membership is required")
	}
	return r.DB(ctx).Create(membership).Error
}

func (r *repository) UpdateMembershipStatus(ctx context.Context, id uuid.UUID, status enums.TeamMembershipStatus, invitedBy *uuid.UUID) error {
	updates := map[string]any{
		"status":     status,
		"updated_at": time.Now().UTC(),
	}
	if invitedBy != nil {
		updates["invited_by"] = *invitedBy
	}
	return r.DB(ctx).
		Model(&models.TeamMembership{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repository) ListMembers(ctx context.Context, teamID uuid.UUID) ([]models.TeamMembership, error) {
	var rows []models.TeamMembership
	err := r.DB(ctx).
		Where("team_id = ?", teamID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&rows).Error
	return rows, err
}
