package matches

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/argvision/argvision-backend/internal/memberships"
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
	"github.com/argvision/argvision-backend/pkg/pagination"
	"github.com/argvision/argvision-backend/pkg/types"
	"github.com/argvision/argvision-backend/pkg/visibility"
)

const metricsEntity = "match"

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Enroller adds memberships to a match that is being created.
type Enroller interface {
	Enroll(ctx context.Context, tx *gorm.DB, match *models.Match, userID uuid.UUID, status enums.MatchMembershipStatus, invitedBy *uuid.UUID) (*models.MatchMembership, error)
}

// Settler credits points to a user's ranking inside the caller's transaction.
type Settler interface {
	Settle(ctx context.Context, tx *gorm.DB, userID, gameID uuid.UUID, points int64) (*models.Ranking, error)
}

// Service drives the match lifecycle.
type Service interface {
	Create(ctx context.Context, actor types.Actor, input CreateInput) (*models.Match, error)
	SelectSide(ctx context.Context, matchID uuid.UUID, actor types.Actor, side int) (*models.MatchMembership, error)
	Begin(ctx context.Context, matchID uuid.UUID, actor types.Actor) (*models.Match, error)
	Complete(ctx context.Context, matchID uuid.UUID, actor types.Actor, winningSide int, reward int64) (*models.Match, error)
	Cancel(ctx context.Context, matchID uuid.UUID, actor types.Actor) (*models.Match, error)
	Archive(ctx context.Context, matchID uuid.UUID, actor types.Actor) (*models.Match, error)
	Get(ctx context.Context, matchID uuid.UUID, viewer types.Actor) (*models.Match, error)
	ListVisible(ctx context.Context, viewer types.Actor, params ListParams) (*pagination.Page[models.Match], error)
	ListMine(ctx context.Context, actor types.Actor) ([]models.Match, error)
}

// ServiceParams groups the lifecycle dependencies.
type ServiceParams struct {
	Repo        Repository
	Roster      memberships.Repository
	Memberships Enroller
	Rankings    Settler
	Tx          txRunner
	Outbox      outboxPublisher
	Notifier    notifications.Notifier
	Logger      *logger.Logger
	Metrics     *metrics.Metrics
}

type service struct {
	repo        Repository
	roster      memberships.Repository
	memberships Enroller
	rankings    Settler
	tx          txRunner
	outbox      outboxPublisher
	notifier    notifications.Notifier
	logg        *logger.Logger
	metrics     *metrics.Metrics
}

// NewService builds the lifecycle controller with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("matches repository required")
	}
	if params.Roster == nil {
		return nil, fmt.Errorf("memberships repository required")
	}
	if params.Memberships == nil {
		return nil, fmt.Errorf("membership enroller required")
	}
	if params.Rankings == nil {
		return nil, fmt.Errorf("ranking settler required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if params.Outbox == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	if params.Notifier == nil {
		return nil, fmt.Errorf("notifier required")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{
		repo:        params.Repo,
		roster:      params.Roster,
		memberships: params.Memberships,
		rankings:    params.Rankings,
		tx:          params.Tx,
		outbox:      params.Outbox,
		notifier:    params.Notifier,
		logg:        logg,
		metrics:     params.Metrics,
	}, nil
}

func (s *service) Create(ctx context.Context, actor types.Actor, input CreateInput) (*models.Match, error) {
	if actor.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	invitees, err := validateCreate(actor, &input)
	if err != nil {
		return nil, err
	}

	var created *models.Match
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
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

		match := &models.Match{
			Name:            input.Name,
			Description:     input.Description,
			GameID:          input.GameID,
			Status:          enums.MatchStatusUpcoming,
			Visibility:      input.Visibility,
			CreatedBy:       &actor.UserID,
			MaxParticipants: input.MaxParticipants,
			Reward:          input.Reward,
			StartsAt:        input.StartsAt,
		}
		if err := repo.Create(ctx, match); err != nil {
			return translate(err, "", "create match")
		}
		if _, err := s.memberships.Enroll(ctx, tx, match, actor.UserID, enums.MatchMembershipAdmin, nil); err != nil {
			return err
		}
		for _, inviteeID := range invitees {
			if _, err := s.memberships.Enroll(ctx, tx, match, inviteeID, enums.MatchMembershipInvited, &actor.UserID); err != nil {
				return err
			}
		}

		created = match
		return s.emit(ctx, tx, actor, enums.EventMatchCreated, match)
	})
	if err != nil {
		s.rejected(ctx, ActionCreate, err)
		return nil, err
	}

	s.committed(ctx, ActionCreate, created)
	for _, inviteeID := range invitees {
		s.notifier.Notify(ctx, notifications.Notice{
			UserID:  inviteeID,
			Kind:    enums.NotificationMatchInvite,
			Message: fmt.Sprintf("You have been invited to %s", created.Name),
			MatchID: &created.ID,
		})
	}
	return created, nil
}

// validateCreate normalises the input and returns the de-duplicated invitees.
func validateCreate(actor types.Actor, input *CreateInput) ([]uuid.UUID, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Description = strings.TrimSpace(input.Description)
	if input.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeBadRequest, "name is required")
	}
	if input.MaxParticipants <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeBadRequest, "max_participants must be positive")
	}
	if input.Reward < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeBadRequest, "reward must not be negative")
	}
	if input.Visibility == "" {
		input.Visibility = enums.MatchVisibilityPublic
	}
	if !input.Visibility.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeBadRequest, fmt.Sprintf("invalid visibility %q", input.Visibility))
	}

	seen := make(map[uuid.UUID]struct{}, len(input.Invitees))
	invitees := make([]uuid.UUID, 0, len(input.Invitees))
	for _, id := range input.Invitees {
		if id == uuid.Nil {
			return nil, pkgerrors.New(pkgerrors.CodeBadRequest, "invitee id required")
		}
		if id == actor.UserID {
			return nil, pkgerrors.New(pkgerrors.CodeBadRequest, "the creator cannot invite themselves")
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		invitees = append(invitees, id)
	}
	return invitees, nil
}

func (s *service) SelectSide(ctx context.Context, matchID uuid.UUID, actor types.Actor, side int) (*models.MatchMembership, error) {
	if side != 1 && side != 2 {
		return nil, pkgerrors.New(pkgerrors.CodeBadRequest, "side must be 1 or 2")
	}
	if actor.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	var (
		result  *models.MatchMembership
		changed bool
	)
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		roster := s.roster.WithTx(tx)

		match, err := repo.LockMatch(ctx, matchID)
		if err != nil {
			return translate(err, "match not found", "lock match")
		}
		own, err := roster.FindByUserAndMatch(ctx, actor.UserID, match.ID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeForbidden, "only participants can pick a side")
			}
			return translate(err, "", "load membership")
		}
		if !own.Status.IsParticipant() {
			return pkgerrors.New(pkgerrors.CodeForbidden, "only participants can pick a side")
		}
		if match.Archived || match.Status != enums.MatchStatusUpcoming {
			return pkgerrors.New(pkgerrors.CodeInvalidTransition, "sides are fixed once the match has started").
				WithDetails(map[string]any{"match_status": match.Status, "archived": match.Archived})
		}
		if own.Side == side {
			result = own
			return nil
		}

		holder, err := roster.SideHolder(ctx, match.ID, side)
		if err != nil {
			return translate(err, "", "load side holder")
		}
		if holder != nil && holder.ID != own.ID {
			return sideTaken(side)
		}
		if err := roster.UpdateSide(ctx, own.ID, side); err != nil {
			if db.IsUniqueViolation(err, "") {
				return sideTaken(side)
			}
			return translate(err, "", "update side")
		}
		own.Side = side

		event := outbox.DomainEvent{
			EventType:     enums.EventSideSelected,
			AggregateType: enums.AggregateMatch,
			AggregateID:   match.ID,
			Version:       1,
			Actor:         actorRef(actor),
			Data: payloads.MembershipChangedEvent{
				MatchID:      match.ID,
				MembershipID: own.ID,
				UserID:       own.UserID,
				Action:       string(ActionSelectSide),
				Status:       own.Status,
				Side:         side,
			},
		}
		if err := s.outbox.Emit(ctx, tx, event); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "emit side event")
		}
		result = own
		changed = true
		return nil
	})
	if err != nil {
		s.rejected(ctx, ActionSelectSide, err)
		return nil, err
	}
	if changed {
		s.metrics.IncTransition(metricsEntity, string(ActionSelectSide))
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"match_id":      result.MatchID.String(),
			"membership_id": result.ID.String(),
			"side":          side,
		})
		s.logg.Info(logCtx, "side selected")
	}
	return result, nil
}

func sideTaken(side int) error {
	return pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("side %d is already taken", side))
}

func (s *service) Begin(ctx context.Context, matchID uuid.UUID, actor types.Actor) (*models.Match, error) {
	if actor.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	var (
		started      *models.Match
		participants []models.MatchMembership
	)
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		match, err := repo.LockMatch(ctx, matchID)
		if err != nil {
			return translate(err, "match not found", "lock match")
		}
		if !match.IsCreator(actor.UserID) {
			return pkgerrors.New(pkgerrors.CodeForbidden, "only the match creator can begin it")
		}
		next, err := Next(match.Status, ActionBegin)
		if err != nil {
			return err
		}
		if match.Archived {
			return archivedError()
		}

		participants, err = s.roster.WithTx(tx).ListParticipants(ctx, match.ID)
		if err != nil {
			return translate(err, "", "list participants")
		}
		if len(participants) != match.MaxParticipants {
			return pkgerrors.New(pkgerrors.CodeBadRequest, "participant count must equal max_participants").
				WithDetails(map[string]any{"participants": len(participants), "max_participants": match.MaxParticipants})
		}
		for _, p := range participants {
			if p.Side != 1 && p.Side != 2 {
				return pkgerrors.New(pkgerrors.CodeBadRequest, "every participant must pick a side").
					WithDetails(map[string]any{"user_id": p.UserID})
			}
		}

		if err := repo.UpdateStatus(ctx, match.ID, next); err != nil {
			return translate(err, "", "begin match")
		}
		match.Status = next
		started = match
		return s.emit(ctx, tx, actor, enums.EventMatchStarted, match)
	})
	if err != nil {
		s.rejected(ctx, ActionBegin, err)
		return nil, err
	}

	s.committed(ctx, ActionBegin, started)
	s.notifyAll(ctx, started, participants, actor.UserID, enums.NotificationMatchStarted, "%s has started")
	return started, nil
}

func (s *service) Complete(ctx context.Context, matchID uuid.UUID, actor types.Actor, winningSide int, reward int64) (*models.Match, error) {
	if winningSide != 1 && winningSide != 2 {
		return nil, pkgerrors.New(pkgerrors.CodeBadRequest, "winning side must be 1 or 2")
	}
	if reward < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeBadRequest, "reward must not be negative")
	}
	if actor.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	var (
		completed    *models.Match
		participants []models.MatchMembership
		winners      []uuid.UUID
	)
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		match, err := repo.LockMatch(ctx, matchID)
		if err != nil {
			return translate(err, "match not found", "lock match")
		}
		if !match.IsCreator(actor.UserID) && !actor.Staff {
			return pkgerrors.New(pkgerrors.CodeForbidden, "only the match creator or staff can complete it")
		}
		next, err := Next(match.Status, ActionComplete)
		if err != nil {
			return err
		}
		if match.Archived {
			return archivedError()
		}

		if err := repo.RecordResult(ctx, match.ID, winningSide, reward); err != nil {
			return translate(err, "", "complete match")
		}
		match.Status = next
		match.WinnerSide = winningSide
		match.Reward = reward

		participants, err = s.roster.WithTx(tx).ListParticipants(ctx, match.ID)
		if err != nil {
			return translate(err, "", "list participants")
		}
		if err := s.emit(ctx, tx, actor, enums.EventMatchCompleted, match); err != nil {
			return err
		}

		for _, p := range participants {
			if p.Side != winningSide {
				continue
			}
			winners = append(winners, p.UserID)
			if match.GameID == nil {
				continue
			}
			ranking, err := s.rankings.Settle(ctx, tx, p.UserID, *match.GameID, reward)
			if err != nil {
				return err
			}
			event := outbox.DomainEvent{
				EventType:     enums.EventRankingSettled,
				AggregateType: enums.AggregateMatch,
				AggregateID:   match.ID,
				Version:       1,
				Actor:         actorRef(actor),
				Data: payloads.RankingSettledEvent{
					MatchID:   match.ID,
					UserID:    p.UserID,
					GameID:    *match.GameID,
					Points:    reward,
					Score:     ranking.Score,
					RankTier:  ranking.RankTier,
					LevelTier: ranking.LevelTier,
				},
			}
			if err := s.outbox.Emit(ctx, tx, event); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "emit ranking event")
			}
		}
		completed = match
		return nil
	})
	if err != nil {
		s.rejected(ctx, ActionComplete, err)
		return nil, err
	}

	s.committed(ctx, ActionComplete, completed)
	s.notifyAll(ctx, completed, participants, uuid.Nil, enums.NotificationMatchCompleted, "%s has finished")
	if completed.GameID != nil {
		for _, userID := range winners {
			s.notifier.Notify(ctx, notifications.Notice{
				UserID:  userID,
				Kind:    enums.NotificationRankingSettled,
				Message: fmt.Sprintf("You earned %d points in %s", reward, completed.Name),
				MatchID: &completed.ID,
			})
		}
	}
	return completed, nil
}

func (s *service) Cancel(ctx context.Context, matchID uuid.UUID, actor types.Actor) (*models.Match, error) {
	if actor.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	var (
		canceled     *models.Match
		participants []models.MatchMembership
	)
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		match, err := repo.LockMatch(ctx, matchID)
		if err != nil {
			return translate(err, "match not found", "lock match")
		}
		if !match.IsCreator(actor.UserID) && !actor.Staff {
			return pkgerrors.New(pkgerrors.CodeForbidden, "only the match creator or staff can cancel it")
		}
		next, err := Next(match.Status, ActionCancel)
		if err != nil {
			return err
		}
		if match.Archived {
			return archivedError()
		}

		if err := repo.UpdateStatus(ctx, match.ID, next); err != nil {
			return translate(err, "", "cancel match")
		}
		match.Status = next
		participants, err = s.roster.WithTx(tx).ListParticipants(ctx, match.ID)
		if err != nil {
			return translate(err, "", "list participants")
		}
		canceled = match
		return s.emit(ctx, tx, actor, enums.EventMatchCanceled, match)
	})
	if err != nil {
		s.rejected(ctx, ActionCancel, err)
		return nil, err
	}

	s.committed(ctx, ActionCancel, canceled)
	s.notifyAll(ctx, canceled, participants, actor.UserID, enums.NotificationMatchCanceled, "%s was canceled")
	return canceled, nil
}

// Archive soft-deletes the match together with its memberships and match
// discussions.
func (s *service) Archive(ctx context.Context, matchID uuid.UUID, actor types.Actor) (*models.Match, error) {
	if actor.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	var archived *models.Match
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		match, err := repo.LockMatch(ctx, matchID)
		if err != nil {
			return translate(err, "match not found", "lock match")
		}
		if !match.IsCreator(actor.UserID) && !actor.Staff {
			return pkgerrors.New(pkgerrors.CodeForbidden, "only the match creator or staff can archive it")
		}
		if match.Archived {
			return pkgerrors.New(pkgerrors.CodeConflict, "match is already archived")
		}
		if !CanArchive(match.Status) {
			return pkgerrors.New(pkgerrors.CodeInvalidTransition, fmt.Sprintf("cannot archive a match that is %s", match.Status)).
				WithDetails(map[string]any{"status": match.Status, "action": ActionArchive})
		}

		if err := repo.MarkArchived(ctx, match.ID); err != nil {
			return translate(err, "", "archive match")
		}
		if _, err := s.roster.WithTx(tx).ArchiveForMatch(ctx, match.ID); err != nil {
			return translate(err, "", "archive memberships")
		}
		if _, err := repo.ArchiveDiscussions(ctx, match.ID); err != nil {
			return translate(err, "", "archive discussions")
		}
		match.Archived = true
		archived = match
		return s.emit(ctx, tx, actor, enums.EventMatchArchived, match)
	})
	if err != nil {
		s.rejected(ctx, ActionArchive, err)
		return nil, err
	}

	s.committed(ctx, ActionArchive, archived)
	return archived, nil
}

func (s *service) Get(ctx context.Context, matchID uuid.UUID, viewer types.Actor) (*models.Match, error) {
	if matchID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeBadRequest, "match id required")
	}
	match, err := s.repo.FindMatch(ctx, matchID)
	if err != nil {
		return nil, translate(err, "match not found", "load match")
	}
	own, err := s.roster.FindByUserAndMatch(ctx, viewer.UserID, matchID)
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
	return match, nil
}

func (s *service) ListVisible(ctx context.Context, viewer types.Actor, params ListParams) (*pagination.Page[models.Match], error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeBadRequest, err, "invalid cursor")
	}
	if params.Status != nil && !params.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeBadRequest, "invalid status filter")
	}

	rows, err := s.repo.ListVisible(ctx, listVisibleParams{
		ViewerID:     viewer.UserID,
		Visibilities: visibility.ListedVisibilities(),
		Status:       params.Status,
		GameID:       params.GameID,
		Limit:        params.Limit,
		Cursor:       cursor,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list matches")
	}
	page := pagination.BuildPage(rows, params.Limit, func(m models.Match) pagination.Cursor {
		return pagination.Cursor{CreatedAt: m.CreatedAt, ID: m.ID}
	})
	return &page, nil
}

func (s *service) ListMine(ctx context.Context, actor types.Actor) ([]models.Match, error) {
	if actor.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	rows, err := s.repo.ListMine(ctx, actor.UserID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list my matches")
	}
	if rows == nil {
		rows = []models.Match{}
	}
	return rows, nil
}

func (s *service) emit(ctx context.Context, tx *gorm.DB, actor types.Actor, eventType enums.OutboxEventType, match *models.Match) error {
	event := outbox.DomainEvent{
		EventType:     eventType,
		AggregateType: enums.AggregateMatch,
		AggregateID:   match.ID,
		Version:       1,
		Actor:         actorRef(actor),
		Data: payloads.MatchEvent{
			MatchID:    match.ID,
			Status:     match.Status,
			Archived:   match.Archived,
			WinnerSide: match.WinnerSide,
			Reward:     match.Reward,
		},
	}
	if err := s.outbox.Emit(ctx, tx, event); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "emit match event")
	}
	return nil
}

// notifyAll sends one notice per participant, skipping the user who
// triggered the change.
func (s *service) notifyAll(ctx context.Context, match *models.Match, participants []models.MatchMembership, skip uuid.UUID, kind enums.NotificationKind, format string) {
	for _, p := range participants {
		if p.UserID == skip {
			continue
		}
		s.notifier.Notify(ctx, notifications.Notice{
			UserID:  p.UserID,
			Kind:    kind,
			Message: fmt.Sprintf(format, match.Name),
			MatchID: &match.ID,
		})
	}
}

func (s *service) committed(ctx context.Context, action Action, match *models.Match) {
	s.metrics.IncTransition(metricsEntity, string(action))
	ctx = s.logg.WithMatchID(ctx, match.ID.String())
	ctx = s.logg.WithFields(ctx, map[string]any{
		"action": string(action),
		"status": string(match.Status),
	})
	s.logg.Info(ctx, "match updated")
}

func (s *service) rejected(ctx context.Context, action Action, err error) {
	s.metrics.IncTransitionRejected(metricsEntity, string(action), string(pkgerrors.CodeOf(err)))
	if pkgerrors.IsRetryable(err) {
		s.logg.Error(s.logg.WithField(ctx, "action", string(action)), "match action failed", err)
	}
}

func archivedError() error {
	return pkgerrors.New(pkgerrors.CodeInvalidTransition, "match is archived").
		WithDetails(map[string]any{"archived": true})
}

func actorRef(actor types.Actor) *outbox.ActorRef {
	return &outbox.ActorRef{UserID: actor.UserID, Staff: actor.Staff}
}

func translate(err error, notFound, op string) error {
	return repo.Translate(err, notFound, op)
}
