package discussions

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/argvision/argvision-backend/internal/repo"
	"github.com/argvision/argvision-backend/pkg/db/models"
	"github.com/argvision/argvision-backend/pkg/enums"
	"github.com/argvision/argvision-backend/pkg/pagination"
)

// Repository exposes discussion persistence operations.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindDiscussion(ctx context.Context, id uuid.UUID) (*models.Discussion, error)
	CreateDiscussion(ctx context.Context, discussion *models.Discussion) error
	AddParticipants(ctx context.Context, discussionID uuid.UUID, userIDs []uuid.UUID) error
	IsParticipant(ctx context.Context, discussionID, userID uuid.UUID) (bool, error)
	CountUsers(ctx context.Context, ids []uuid.UUID) (int64, error)
	FindMatch(ctx context.Context, id uuid.UUID) (*models.Match, error)
	IsMatchParticipant(ctx context.Context, matchID, userID uuid.UUID) (bool, error)
	FindTeam(ctx context.Context, id uuid.UUID) (*models.Team, error)
	IsTeamMember(ctx context.Context, teamID, userID uuid.UUID) (bool, error)
	FindMessage(ctx context.Context, id uuid.UUID) (*models.Message, error)
	CreateMessage(ctx context.Context, message *models.Message) error
	ListMessages(ctx context.Context, discussionID uuid.UUID, cursor *pagination.Cursor, limit int) ([]models.Message, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Discussion, error)
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

func (r *repository) FindDiscussion(ctx context.Context, id uuid.UUID) (*models.Discussion, error) {
	var discussion models.Discussion
	if err := r.DB(ctx).First(&discussion, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &discussion, nil
}

func (r *repository) CreateDiscussion(ctx context.Context, discussion *models.Discussion) error {
	if discussion == nil {
		return errors.New("discussion is required")
	}
	return r.DB(ctx).Create(discussion).Error
}

func (r *repository) AddParticipants(ctx context.Context, discussionID uuid.UUID, userIDs []uuid.UUID) error {
	if len(userIDs) == 0 {
		return nil
	}
	rows := make([]models.DiscussionParticipant, 0, len(userIDs))
	for _, id := range userIDs {
		rows = append(rows, models.DiscussionParticipant{DiscussionID: discussionID, UserID: id})
	}
	return r.DB(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
}

func (r *repository) IsParticipant(ctx context.Context, discussionID, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.DB(ctx).
		Model(&models.DiscussionParticipant{}).
		Where("discussion_id = ? AND user_id = ?", discussionID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) CountUsers(ctx context.Context, ids []uuid.UUID) (int64, error) {
	var count int64
	err := r.DB(ctx).Model(&models.User{}).Where("id IN ?", ids).Count(&count).Error
	return count, err
}

func (r *repository) IsMatchParticipant(ctx context.Context, matchID, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.DB(ctx).
		Model(&models.MatchMembership{}).
		Where("match_id = ? AND user_id = ? AND status IN ?", matchID, userID, enums.ParticipantMatchMembershipStatuses()).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) FindTeam(ctx context.Context, id uuid.UUID) (*models.Team, error) {
	var team models.Team
	if err := r.DB(ctx).First(&team, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &team, nil
}

func (r *repository) IsTeamMember(ctx context.Context, teamID, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.DB(ctx).
		Model(&models.TeamMembership{}).
		Where("team_id = ? AND user_id = ? AND status IN ?", teamID, userID, activeTeamStatuses()).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) FindMessage(ctx context.Context, id uuid.UUID) (*models.Message, error) {
	var message models.Message
	if err := r.DB(ctx).First(&message, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &message, nil
}

func (r *repository) CreateMessage(ctx context.Context, message *models.Message) error {
	if message == nil {
		return errors.New("message is required")
	}
	return r.DB(ctx).Create(message).Error
}

// ListMessages returns messages oldest first, starting after cursor.
func (r *repository) ListMessages(ctx context.Context, discussionID uuid.UUID, cursor *pagination.Cursor, limit int) ([]models.Message, error) {
	var rows []models.Message
	err := r.DB(ctx).
		Where("messages.discussion_id = ?", discussionID).
		Scopes(pagination.Oldest("messages", cursor, limit)).
		Find(&rows).Error
	return rows, err
}

// ListForUser returns the unarchived discussions the user can read.
func (r *repository) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Discussion, error) {
	groups := r.DB(ctx).
		Model(&models.DiscussionParticipant{}).
		Select("discussion_id").
		Where("user_id = ?", userID)
	matches := r.DB(ctx).
		Model(&models.MatchMembership{}).
		Select("match_id").
		Where("user_id = ? AND status IN ?", userID, enums.ParticipantMatchMembershipStatuses())
	teams := r.DB(ctx).
		Model(&models.TeamMembership{}).
		Select("team_id").
		Where("user_id = ? AND status IN ?", userID, activeTeamStatuses())

	var rows []models.Discussion
	err := r.DB(ctx).
		Where("archived = ?", false).
		Where(
			r.DB(ctx).
				Where("discussion_type = ? AND id IN (?)", enums.DiscussionTypeGroup, groups).
				Or("discussion_type = ? AND match_id IN (?)", enums.DiscussionTypeMatch, matches).
				Or("discussion_type = ? AND team_id IN (?)", enums.DiscussionTypeTeam, teams),
		).
		Order("updated_at DESC").
		Order("id DESC").
		Find(&rows).Error
	return rows, err
}

func activeTeamStatuses() []enums.TeamMembershipStatus {
	return []enums.TeamMembershipStatus{
		enums.TeamMembershipMember,
		enums.TeamMembershipAdmin,
		enums.TeamMembershipWinner,
	}
}
