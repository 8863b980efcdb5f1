package teams

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/argvision/argvision-backend/internal/notifications"
	"github.com/argvision/argvision-backend/internal/repo"
	"github.com/argvision/argvision-backend/pkg/db"
	"github.com/argvision/argvision-backend/pkg/db/models"
	"github.com/argvision/argvision-backend/pkg/enums"
	pkgerrors "github.com/argvision/argvision-backend/pkg/errors"
	"github.com/argvision/argvision-backend/pkg/logger"
	"github.com/argvision/argvision-backend/pkg/metrics"
	"github.com/argvision/argvision-backend/pkg/outbox"
	"github.com/argvision/argvision-backend/pkg/outbox/payloads"
	"github.com/argvision/argvision-backend/pkg/types"
)

const metricsEntity = "team_membership"

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// RankingProvisioner creates team-scoped rankings for members.
type RankingProvisioner interface {
	GetOrCreate(ctx context.Context, tx *gorm.DB, userID, gameID uuid.UUID, teamID *uuid.UUID) (*models.Ranking, error)
}

// CreateInput describes a new team.
type CreateInput struct {
	Title    string
	Slogan   string
	GameID   *uuid.UUID
	Invitees []uuid.UUID
}

// Detail is a team with its roster.
type Detail struct {
	models.Team
	Members []models.TeamMembership `json:"members"`
}

// Service applies ledger actions to teams.
type Service interface {
	Create(ctx context.Context, actor types.Actor, input CreateInput) (*Detail, error)
	Invite(ctx context.Context, teamID uuid.UUID, inviter types.Actor, inviteeID uuid.UUID) (*models.TeamMembership, error)
	Accept(ctx context.Context, membershipID uuid.UUID, actor types.Actor) (*models.TeamMembership, error)
	Deny(ctx context.Context, membershipID uuid.UUID, actor types.Actor) (*models.TeamMembership, error)
	Kick(ctx context.Context, membershipID uuid.UUID, actor types.Actor) (*models.TeamMembership, error)
	Leave(ctx context.Context, membershipID uuid.UUID, actor types.Actor) (*models.TeamMembership, error)
	Get(ctx context.Context, teamID uuid.UUID) (*Detail, error)
	ListMembers(ctx context.Context, teamID uuid.UUID) ([]models.TeamMembership, error)
}

// ServiceParams groups the team ledger dependencies.
type ServiceParams struct {
	Repo     Repository
	Tx       txRunner
	Outbox   outboxPublisher
	Rankings RankingProvisioner
	Notifier notifications.Notifier
	Logger   *logger.Logger
	Metrics  *metrics.Metrics
}

type service struct {
	repo     Repository
	tx       txRunner
	outbox   outboxPublisher
	rankings RankingProvisioner
	notifier notifications.Notifier
	logg     *logger.Logger
	metrics  *metrics.Metrics
}

// NewService builds the team ledger with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("teams repository required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if params.Outbox == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	if params.Rankings == nil {
		return nil, fmt.Errorf("ranking provisioner required")
	}
	if params.Notifier == nil {
		return nil, fmt.Errorf("notifier required")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{
		repo:     params.Repo,
		tx:       params.Tx,
		outbox:   params.Outbox,
		rankings: params.Rankings,
		notifier: params.Notifier,
		logg:     logg,
		metrics:  params.Metrics,
	}, nil
}

func (s *service) Create(ctx context.Context, actor types.Actor, input CreateInput) (*Detail, error) {
	if actor.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, pkgerrors.New(pkgerrors.CodeBadRequest, "title is required")
	}
	invitees := make([]uuid.UUID, 0, len(input.Invitees))
	seen := map[uuid.UUID]struct{}{}
	for _, id := range input.Invitees {
		if id == uuid.Nil || id == actor.UserID {
			return nil, pkgerrors.New(pkgerrors.CodeBadRequest, "invalid invitee")
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		invitees = append(invitees, id)
	}

	var detail *Detail
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if input.GameID != nil {
			game, err := repo.FindGame(ctx, *input.GameID)
			if err != nil {
				return translate(err, "game not found", "load game")
			}
			if game.Archived {
				return pkgerrors.New(pkgerrors.CodeBadRequest, "game is archived")
			}
		}

		team := &models.Team{
			Title:     title,
			Slogan:    strings.TrimSpace(input.Slogan),
			GameID:    input.GameID,
			CreatedBy: &actor.UserID,
		}
		if err := repo.CreateTeam(ctx, team); err != nil {
			return translate(err, "", "create team")
		}

		members := []models.TeamMembership{{TeamID: team.ID, UserID: actor.UserID, Status: enums.TeamMembershipAdmin}}
		for _, id := range invitees {
			if _, err := repo.FindUser(ctx, id); err != nil {
				return translate(err, "user not found", "load invitee")
			}
			invitedBy := actor.UserID
			members = append(members, models.TeamMembership{
				TeamID:    team.ID,
				UserID:    id,
				Status:    enums.TeamMembershipInvited,
				InvitedBy: &invitedBy,
			})
		}
		for i := range members {
			if err := repo.CreateMembership(ctx, &members[i]); err != nil {
				return translate(err, "", "create team membership")
			}
		}
		if team.GameID != nil {
			if _, err := s.rankings.GetOrCreate(ctx, tx, actor.UserID, *team.GameID, &team.ID); err != nil {
				return err
			}
		}
		for i := range members {
			if err := s.emit(ctx, tx, actor, ActionInvite, &members[i]); err != nil {
				return err
			}
		}
		detail = &Detail{Team: *team, Members: members}
		return nil
	})
	if err != nil {
		s.metrics.IncTransitionRejected("team", "create", string(pkgerrors.CodeOf(err)))
		return nil, err
	}

	s.metrics.IncTransition("team", "create")
	s.logg.Info(s.logg.WithField(ctx, "team_id", detail.ID.String()), "team created")
	for _, id := range invitees {
		s.notifyInvite(ctx, &detail.Team, id)
	}
	return detail, nil
}

func (s *service) Invite(ctx context.Context, teamID uuid.UUID, inviter types.Actor, inviteeID uuid.UUID) (*models.TeamMembership, error) {
	if teamID == uuid.Nil || inviteeID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeBadRequest, "team and invitee are required")
	}
	if inviter.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	var (
		team       *models.Team
		membership *models.TeamMembership
	)
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		locked, err := repo.LockTeam(ctx, teamID)
		if err != nil {
			return translate(err, "team not found", "lock team")
		}
		if _, err := repo.FindUser(ctx, inviteeID); err != nil {
			return translate(err, "user not found", "load invitee")
		}
		if err := requireAdmin(ctx, repo, locked.ID, inviter.UserID); err != nil {
			return err
		}
		if err := ensureOpen(locked); err != nil {
			return err
		}

		existing, err := repo.FindMembershipByUser(ctx, locked.ID, inviteeID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return translate(err, "", "load team membership")
		}
		from := statusNone
		if existing != nil {
			from = existing.Status
		}
		next, err := Next(from, ActionInvite)
		if err != nil {
			return err
		}

		invitedBy := inviter.UserID
		if existing == nil {
			existing = &models.TeamMembership{TeamID: locked.ID, UserID: inviteeID, Status: next, InvitedBy: &invitedBy}
			if err := repo.CreateMembership(ctx, existing); err != nil {
				return translate(err, "", "create team membership")
			}
		} else {
			if err := repo.UpdateMembershipStatus(ctx, existing.ID, next, &invitedBy); err != nil {
				return translate(err, "", "reset team membership")
			}
			existing.Status = next
			existing.InvitedBy = &invitedBy
		}
		team, membership = locked, existing
		return s.emit(ctx, tx, inviter, ActionInvite, membership)
	})
	if err != nil {
		s.metrics.IncTransitionRejected(metricsEntity, string(ActionInvite), string(pkgerrors.CodeOf(err)))
		return nil, err
	}

	s.committed(ctx, ActionInvite, membership)
	s.notifyInvite(ctx, team, inviteeID)
	return membership, nil
}

func (s *service) Accept(ctx context.Context, membershipID uuid.UUID, actor types.Actor) (*models.TeamMembership, error) {
	return s.apply(ctx, membershipID, actor, ActionAccept)
}

func (s *service) Deny(ctx context.Context, membershipID uuid.UUID, actor types.Actor) (*models.TeamMembership, error) {
	return s.apply(ctx, membershipID, actor, ActionDeny)
}

func (s *service) Kick(ctx context.Context, membershipID uuid.UUID, actor types.Actor) (*models.TeamMembership, error) {
	return s.apply(ctx, membershipID, actor, ActionKick)
}

func (s *service) Leave(ctx context.Context, membershipID uuid.UUID, actor types.Actor) (*models.TeamMembership, error) {
	return s.apply(ctx, membershipID, actor, ActionLeave)
}

func (s *service) apply(ctx context.Context, membershipID uuid.UUID, actor types.Actor, action Action) (*models.TeamMembership, error) {
	if membershipID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeBadRequest, "membership id required")
	}
	if actor.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	var (
		team       *models.Team
		membership *models.TeamMembership
	)
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		current, err := repo.FindMembership(ctx, membershipID)
		if err != nil {
			return translate(err, "team membership not found", "load team membership")
		}
		locked, err := repo.LockTeam(ctx, current.TeamID)
		if err != nil {
			return translate(err, "team not found", "lock team")
		}
		if current, err = repo.FindMembership(ctx, membershipID); err != nil {
			return translate(err, "team membership not found", "reload team membership")
		}

		switch requiredRoles[action] {
		case RoleSelf:
			if current.UserID != actor.UserID {
				return pkgerrors.New(pkgerrors.CodeForbidden, "membership belongs to another user")
			}
		case RoleAdmin:
			if err := requireAdmin(ctx, repo, locked.ID, actor.UserID); err != nil {
				return err
			}
			if current.UserID == actor.UserID {
				return pkgerrors.New(pkgerrors.CodeBadRequest, fmt.Sprintf("cannot %s yourself", action))
			}
		}
		if err := ensureOpen(locked); err != nil {
			return err
		}

		next, err := Next(current.Status, action)
		if err != nil {
			return err
		}
		if err := repo.UpdateMembershipStatus(ctx, current.ID, next, nil); err != nil {
			return translate(err, "", "update team membership")
		}
		current.Status = next

		if action == ActionAccept && locked.GameID != nil {
			if _, err := s.rankings.GetOrCreate(ctx, tx, current.UserID, *locked.GameID, &locked.ID); err != nil {
				return err
			}
		}
		team, membership = locked, current
		return s.emit(ctx, tx, actor, action, membership)
	})
	if err != nil {
		s.metrics.IncTransitionRejected(metricsEntity, string(action), string(pkgerrors.CodeOf(err)))
		return nil, err
	}

	s.committed(ctx, action, membership)
	if action == ActionAccept && team.CreatedBy != nil && *team.CreatedBy != actor.UserID {
		s.notifier.Notify(ctx, notifications.Notice{
			UserID:  *team.CreatedBy,
			Kind:    enums.NotificationTeamAccept,
			Message: fmt.Sprintf("A player joined %s", team.Title),
		})
	}
	return membership, nil
}

func (s *service) Get(ctx context.Context, teamID uuid.UUID) (*Detail, error) {
	team, err := s.repo.FindTeam(ctx, teamID)
	if err != nil {
		return nil, translate(err, "team not found", "load team")
	}
	if team.Archived {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "team not found")
	}
	members, err := s.repo.ListMembers(ctx, teamID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list team members")
	}
	return &Detail{Team: *team, Members: members}, nil
}

func (s *service) ListMembers(ctx context.Context, teamID uuid.UUID) ([]models.TeamMembership, error) {
	detail, err := s.Get(ctx, teamID)
	if err != nil {
		return nil, err
	}
	return detail.Members, nil
}

func (s *service) emit(ctx context.Context, tx *gorm.DB, actor types.Actor, action Action, membership *models.TeamMembership) error {
	event := outbox.DomainEvent{
		EventType:     enums.EventTeamMembership,
		AggregateType: enums.AggregateTeam,
		AggregateID:   membership.TeamID,
		Version:       1,
		Actor:         &outbox.ActorRef{UserID: actor.UserID, Staff: actor.Staff},
		Data: payloads.TeamMembershipEvent{
			TeamID:       membership.TeamID,
			MembershipID: membership.ID,
			UserID:       membership.UserID,
			Action:       string(action),
			Status:       membership.Status,
		},
	}
	if err := s.outbox.Emit(ctx, tx, event); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "emit team event")
	}
	return nil
}

func (s *service) committed(ctx context.Context, action Action, membership *models.TeamMembership) {
	s.metrics.IncTransition(metricsEntity, string(action))
	ctx = s.logg.WithFields(ctx, map[string]any{
		"team_id":       membership.TeamID.String(),
		"membership_id": membership.ID.String(),
		"action":        string(action),
		"status":        string(membership.Status),
	})
	s.logg.Info(ctx, "team membership updated")
}

func (s *service) notifyInvite(ctx context.Context, team *models.Team, userID uuid.UUID) {
	s.notifier.Notify(ctx, notifications.Notice{
		UserID:  userID,
		Kind:    enums.NotificationTeamInvite,
		Message: fmt.Sprintf("You have been invited to join %s", team.Title),
	})
}

func requireAdmin(ctx context.Context, repo Repository, teamID, userID uuid.UUID) error {
	own, err := repo.FindMembershipByUser(ctx, teamID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeForbidden, "team admin required")
		}
		return translate(err, "", "load actor membership")
	}
	if own.Status != enums.TeamMembershipAdmin {
		return pkgerrors.New(pkgerrors.CodeForbidden, "team admin required")
	}
	return nil
}

func ensureOpen(team *models.Team) error {
	if team.Archived {
		return pkgerrors.New(pkgerrors.CodeInvalidTransition, "team is archived")
	}
	return nil
}

func translate(err error, notFound, op string) error {
	if db.IsUniqueViolation(err, "") {
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "user is already on the team")
	}
	return repo.Translate(err, notFound, op)
}
