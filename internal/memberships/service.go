package memberships

import (
	"context"
	"errors"
	"fmt"

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
	"github.com/argvision/argvision-backend/pkg/visibility"
)

const metricsEntity = "membership"

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// RankingProvisioner creates the ranking a user needs to play a game.
type RankingProvisioner interface {
	GetOrCreate(ctx context.Context, tx *gorm.DB, userID, gameID uuid.UUID, teamID *uuid.UUID) (*models.Ranking, error)
}

// Service applies ledger actions to match memberships.
type Service interface {
	Invite(ctx context.Context, matchID uuid.UUID, inviter types.Actor, inviteeID uuid.UUID) (*models.MatchMembership, error)
	Accept(ctx context.Context, membershipID uuid.UUID, actor types.Actor) (*models.MatchMembership, error)
	Deny(ctx context.Context, membershipID uuid.UUID, actor types.Actor) (*models.MatchMembership, error)
	Kick(ctx context.Context, membershipID uuid.UUID, actor types.Actor) (*models.MatchMembership, error)
	Ban(ctx context.Context, membershipID uuid.UUID, actor types.Actor) (*models.MatchMembership, error)
	Leave(ctx context.Context, membershipID uuid.UUID, actor types.Actor) (*models.MatchMembership, error)
	// Enroll inserts a membership for a match being created in tx and
	// provisions the user's ranking for the match game.
	Enroll(ctx context.Context, tx *gorm.DB, match *models.Match, userID uuid.UUID, status enums.MatchMembershipStatus, invitedBy *uuid.UUID) (*models.MatchMembership, error)
	ListForMatch(ctx context.Context, matchID uuid.UUID, viewer types.Actor) ([]models.MatchMembership, error)
	ListForUser(ctx context.Context, userID uuid.UUID, status *enums.MatchMembershipStatus) ([]MembershipView, error)
}

// ServiceParams groups the ledger dependencies.
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

// NewService builds the membership ledger with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("memberships repository required")
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

// outcome is what a committed ledger action needs for its side effects.
type outcome struct {
	match      *models.Match
	membership *models.MatchMembership
}

func (s *service) Invite(ctx context.Context, matchID uuid.UUID, inviter types.Actor, inviteeID uuid.UUID) (*models.MatchMembership, error) {
	if matchID == uuid.Nil || inviteeID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeBadRequest, "match and invitee are required")
	}
	if inviter.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	var result outcome
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		match, err := repo.LockMatch(ctx, matchID)
		if err != nil {
			return translate(err, "match not found", "lock match")
		}
		if _, err := repo.FindUser(ctx, inviteeID); err != nil {
			return translate(err, "user not found", "load invitee")
		}
		if err := s.requireAdmin(ctx, repo, match.ID, inviter.UserID); err != nil {
			return err
		}
		if err := ensureRosterOpen(match); err != nil {
			return err
		}

		existing, err := repo.FindByUserAndMatch(ctx, inviteeID, match.ID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return translate(err, "", "load membership")
		}
		from := StatusNone
		if existing != nil {
			from = existing.Status
		}
		next, err := Next(from, ActionInvite)
		if err != nil {
			return err
		}

		invitedBy := inviter.UserID
		membership := existing
		if membership == nil {
			membership = &models.MatchMembership{
				MatchID:   match.ID,
				UserID:    inviteeID,
				Status:    next,
				InvitedBy: &invitedBy,
			}
			if err := repo.Create(ctx, membership); err != nil {
				return translate(err, "", "create membership")
			}
		} else {
			if err := repo.UpdateStatus(ctx, membership.ID, next, 0, &invitedBy); err != nil {
				return translate(err, "", "reset membership")
			}
			membership.Status = next
			membership.Side = 0
			membership.InvitedBy = &invitedBy
		}

		if match.GameID != nil {
			if _, err := s.rankings.GetOrCreate(ctx, tx, inviteeID, *match.GameID, nil); err != nil {
				return err
			}
		}
		if err := s.emit(ctx, tx, inviter, ActionInvite, membership); err != nil {
			return err
		}
		result = outcome{match: match, membership: membership}
		return nil
	})
	if err != nil {
		s.rejected(ctx, ActionInvite, err)
		return nil, err
	}

	s.committed(ctx, ActionInvite, result)
	s.notifier.Notify(ctx, notifications.Notice{
		UserID:  inviteeID,
		Kind:    enums.NotificationMatchInvite,
		Message: fmt.Sprintf("You have been invited to %s", result.match.Name),
		MatchID: &result.match.ID,
	})
	return result.membership, nil
}

func (s *service) Accept(ctx context.Context, membershipID uuid.UUID, actor types.Actor) (*models.MatchMembership, error) {
	return s.apply(ctx, membershipID, actor, ActionAccept)
}

func (s *service) Deny(ctx context.Context, membershipID uuid.UUID, actor types.Actor) (*models.MatchMembership, error) {
	return s.apply(ctx, membershipID, actor, ActionDeny)
}

func (s *service) Kick(ctx context.Context, membershipID uuid.UUID, actor types.Actor) (*models.MatchMembership, error) {
	return s.apply(ctx, membershipID, actor, ActionKick)
}

func (s *service) Ban(ctx context.Context, membershipID uuid.UUID, actor types.Actor) (*models.MatchMembership, error) {
	return s.apply(ctx, membershipID, actor, ActionBan)
}

func (s *service) Leave(ctx context.Context, membershipID uuid.UUID, actor types.Actor) (*models.MatchMembership, error) {
	return s.apply(ctx, membershipID, actor, ActionLeave)
}

// apply runs an action on an existing membership. The match row is locked
// before the membership is re-read so the action serialises with begin and
// with other roster changes.
func (s *service) apply(ctx context.Context, membershipID uuid.UUID, actor types.Actor, action Action) (*models.MatchMembership, error) {
	if membershipID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeBadRequest, "membership id required")
	}
	if actor.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	role, ok := RequiredRole(action)
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeBadRequest, fmt.Sprintf("unknown membership action %q", action))
	}

	var result outcome
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		current, err := repo.FindByID(ctx, membershipID)
		if err != nil {
			return translate(err, "membership not found", "load membership")
		}
		match, err := repo.LockMatch(ctx, current.MatchID)
		if err != nil {
			return translate(err, "match not found", "lock match")
		}
		if current, err = repo.FindByID(ctx, membershipID); err != nil {
			return translate(err, "membership not found", "reload membership")
		}

		switch role {
		case RoleSelf:
			if current.UserID != actor.UserID {
				return pkgerrors.New(pkgerrors.CodeForbidden, "membership belongs to another user")
			}
		case RoleAdmin:
			if err := s.requireAdmin(ctx, repo, match.ID, actor.UserID); err != nil {
				return err
			}
			if current.UserID == actor.UserID {
				return pkgerrors.New(pkgerrors.CodeBadRequest, fmt.Sprintf("cannot %s yourself", action))
			}
		}
		if err := ensureRosterOpen(match); err != nil {
			return err
		}

		next, err := Next(current.Status, action)
		if err != nil {
			return err
		}
		side := current.Side
		if LeavesRoster(next) {
			side = 0
		}
		if err := repo.UpdateStatus(ctx, current.ID, next, side, nil); err != nil {
			return translate(err, "", "update membership")
		}
		current.Status = next
		current.Side = side

		if err := s.emit(ctx, tx, actor, action, current); err != nil {
			return err
		}
		result = outcome{match: match, membership: current}
		return nil
	})
	if err != nil {
		s.rejected(ctx, action, err)
		return nil, err
	}

	s.committed(ctx, action, result)
	if notice, ok := noticeFor(action, result, actor); ok {
		s.notifier.Notify(ctx, notice)
	}
	return result.membership, nil
}

func (s *service) Enroll(ctx context.Context, tx *gorm.DB, match *models.Match, userID uuid.UUID, status enums.MatchMembershipStatus, invitedBy *uuid.UUID) (*models.MatchMembership, error) {
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "enroll requires a transaction")
	}
	if match == nil || userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeBadRequest, "match and user are required")
	}
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeBadRequest, "invalid membership status")
	}
	repo := s.repo.WithTx(tx)
	if _, err := repo.FindUser(ctx, userID); err != nil {
		return nil, translate(err, "user not found", "load user")
	}

	membership := &models.MatchMembership{
		MatchID:   match.ID,
		UserID:    userID,
		Status:    status,
		InvitedBy: invitedBy,
	}
	if err := repo.Create(ctx, membership); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "user is listed more than once")
		}
		return nil, translate(err, "", "create membership")
	}
	if match.GameID != nil {
		if _, err := s.rankings.GetOrCreate(ctx, tx, userID, *match.GameID, nil); err != nil {
			return nil, err
		}
	}
	return membership, nil
}

func (s *service) ListForMatch(ctx context.Context, matchID uuid.UUID, viewer types.Actor) ([]models.MatchMembership, error) {
	if matchID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeBadRequest, "match id required")
	}
	match, err := s.repo.FindMatch(ctx, matchID)
	if err != nil {
		return nil, translate(err, "match not found", "load match")
	}
	own, err := s.repo.FindByUserAndMatch(ctx, viewer.UserID, matchID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, translate(err, "", "load viewer membership")
	}
	if err := visibility.EnsureMatchVisible(visibility.MatchVisibilityInput{
		Match:      match,
		Viewer:     viewer,
		Membership: own,
	}); err != nil {
		return nil, err
	}

	rows, err := s.repo.ListForMatch(ctx, matchID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list memberships")
	}
	return rows, nil
}

func (s *service) ListForUser(ctx context.Context, userID uuid.UUID, status *enums.MatchMembershipStatus) ([]MembershipView, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if status != nil && !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeBadRequest, "invalid membership status")
	}
	rows, err := s.repo.ListForUser(ctx, userID, status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list user memberships")
	}
	if rows == nil {
		rows = []MembershipView{}
	}
	return rows, nil
}

func (s *service) requireAdmin(ctx context.Context, repo Repository, matchID, userID uuid.UUID) error {
	own, err := repo.FindByUserAndMatch(ctx, userID, matchID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeForbidden, "match admin required")
		}
		return translate(err, "", "load actor membership")
	}
	if own.Status != enums.MatchMembershipAdmin {
		return pkgerrors.New(pkgerrors.CodeForbidden, "match admin required")
	}
	return nil
}

func (s *service) emit(ctx context.Context, tx *gorm.DB, actor types.Actor, action Action, membership *models.MatchMembership) error {
	event := outbox.DomainEvent{
		EventType:     enums.EventMembershipChanged,
		AggregateType: enums.AggregateMatch,
		AggregateID:   membership.MatchID,
		Version:       1,
		Actor:         &outbox.ActorRef{UserID: actor.UserID, Staff: actor.Staff},
		Data: payloads.MembershipChangedEvent{
			MatchID:      membership.MatchID,
			MembershipID: membership.ID,
			UserID:       membership.UserID,
			Action:       string(action),
			Status:       membership.Status,
			Side:         membership.Side,
		},
	}
	if err := s.outbox.Emit(ctx, tx, event); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "emit membership event")
	}
	return nil
}

func (s *service) committed(ctx context.Context, action Action, result outcome) {
	s.metrics.IncTransition(metricsEntity, string(action))
	ctx = s.logg.WithMatchID(ctx, result.membership.MatchID.String())
	ctx = s.logg.WithMembershipID(ctx, result.membership.ID.String())
	ctx = s.logg.WithFields(ctx, map[string]any{
		"action": string(action),
		"status": string(result.membership.Status),
	})
	s.logg.Info(ctx, "membership updated")
}

func (s *service) rejected(ctx context.Context, action Action, err error) {
	code := pkgerrors.CodeOf(err)
	s.metrics.IncTransitionRejected(metricsEntity, string(action), string(code))
	if pkgerrors.IsRetryable(err) {
		s.logg.Error(s.logg.WithField(ctx, "action", string(action)), "membership action failed", err)
	}
}

// noticeFor picks the recipient of a committed action: the match creator
// for the invitee's own decisions, the target for kicks and bans.
func noticeFor(action Action, result outcome, actor types.Actor) (notifications.Notice, bool) {
	match := result.match
	membership := result.membership

	var kind enums.NotificationKind
	var message string
	recipient := membership.UserID
	switch action {
	case ActionAccept:
		kind, message = enums.NotificationMatchAccept, "A player joined %s"
	case ActionDeny:
		kind, message = enums.NotificationMatchDeny, "A player declined the invitation to %s"
	case ActionLeave:
		kind, message = enums.NotificationMatchLeave, "A player left %s"
	case ActionKick:
		kind, message = enums.NotificationMatchKick, "You were removed from %s"
	case ActionBan:
		kind, message = enums.NotificationMatchBan, "You were banned from %s"
	default:
		return notifications.Notice{}, false
	}
	if action == ActionAccept || action == ActionDeny || action == ActionLeave {
		if match.CreatedBy == nil || *match.CreatedBy == actor.UserID {
			return notifications.Notice{}, false
		}
		recipient = *match.CreatedBy
	}
	return notifications.Notice{
		UserID:  recipient,
		Kind:    kind,
		Message: fmt.Sprintf(message, match.Name),
		MatchID: &match.ID,
	}, true
}

// ensureRosterOpen rejects roster changes once the match has started or was
// archived.
func ensureRosterOpen(match *models.Match) error {
	if match.Archived {
		return pkgerrors.New(pkgerrors.CodeInvalidTransition, "match is archived").
			WithDetails(map[string]any{"match_status": match.Status, "archived": true})
	}
	if match.Status != enums.MatchStatusUpcoming {
		return pkgerrors.New(pkgerrors.CodeInvalidTransition, fmt.Sprintf("roster is frozen once the match is %s", match.Status)).
			WithDetails(map[string]any{"match_status": match.Status})
	}
	return nil
}

func translate(err error, notFound, op string) error {
	return repo.Translate(err, notFound, op)
}
