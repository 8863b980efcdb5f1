package discussions

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/argvision/argvision-backend/internal/repo"
	"github.com/argvision/argvision-backend/pkg/config"
	"github.com/argvision/argvision-backend/pkg/db/models"
	"github.com/argvision/argvision-backend/pkg/enums"
	pkgerrors "github.com/argvision/argvision-backend/pkg/errors"
	"github.com/argvision/argvision-backend/pkg/logger"
	"github.com/argvision/argvision-backend/pkg/outbox"
	"github.com/argvision/argvision-backend/pkg/outbox/payloads"
	"github.com/argvision/argvision-backend/pkg/pagination"
	"github.com/argvision/argvision-backend/pkg/types"
)

const maxContentLength = 2000

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// RateLimiter throttles writes per scope over a fixed window.
type RateLimiter interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, error)
}

// CreateInput describes a new discussion. Exactly one scope must be set and
// it must match Type.
type CreateInput struct {
	Type           enums.DiscussionType
	Title          string
	MatchID        *uuid.UUID
	TeamID         *uuid.UUID
	ParticipantIDs []uuid.UUID
}

// Service manages discussions and their messages.
type Service interface {
	Create(ctx context.Context, actor types.Actor, input CreateInput) (*models.Discussion, error)
	Get(ctx context.Context, actor types.Actor, discussionID uuid.UUID) (*models.Discussion, error)
	ListForUser(ctx context.Context, actor types.Actor) ([]models.Discussion, error)
	PostMessage(ctx context.Context, actor types.Actor, discussionID uuid.UUID, content string, replyTo *uuid.UUID) (*models.Message, error)
	ListMessages(ctx context.Context, actor types.Actor, discussionID uuid.UUID, params pagination.Params) (*pagination.Page[models.Message], error)
	// CanAccess reports whether actor may read the discussion.
	CanAccess(ctx context.Context, actor types.Actor, discussionID uuid.UUID) error
}

// ServiceParams groups the discussion dependencies. Limiter is optional.
type ServiceParams struct {
	Repo    Repository
	Tx      txRunner
	Outbox  outboxPublisher
	Limiter RateLimiter
	Config  config.DiscussionsConfig
	Logger  *logger.Logger
}

type service struct {
	repo    Repository
	tx      txRunner
	outbox  outboxPublisher
	limiter RateLimiter
	cfg     config.DiscussionsConfig
	logg    *logger.Logger
}

// NewService builds the discussions service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("discussions repository required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if params.Outbox == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{
		repo:    params.Repo,
		tx:      params.Tx,
		outbox:  params.Outbox,
		limiter: params.Limiter,
		cfg:     params.Config,
		logg:    logg,
	}, nil
}

func (s *service) Create(ctx context.Context, actor types.Actor, input CreateInput) (*models.Discussion, error) {
	if actor.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if !input.Type.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeBadRequest, "invalid discussion type")
	}

	discussion := &models.Discussion{
		Type:      input.Type,
		Title:     strings.TrimSpace(input.Title),
		CreatedBy: &actor.UserID,
	}
	var participants []uuid.UUID

	switch input.Type {
	case enums.DiscussionTypeGroup:
		if input.MatchID != nil || input.TeamID != nil {
			return nil, pkgerrors.New(pkgerrors.CodeBadRequest, "group discussions take participants only")
		}
		participants = dedupe(actor.UserID, input.ParticipantIDs)
		if len(participants) < 2 {
			return nil, pkgerrors.New(pkgerrors.CodeBadRequest, "group discussions need at least one other participant")
		}
		count, err := s.repo.CountUsers(ctx, participants)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count participants")
		}
		if count != int64(len(participants)) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "participant not found")
		}
	case enums.DiscussionTypeMatch:
		if input.MatchID == nil || input.TeamID != nil || len(input.ParticipantIDs) > 0 {
			return nil, pkgerrors.New(pkgerrors.CodeBadRequest, "match discussions take a match only")
		}
		match, err := s.repo.FindMatch(ctx, *input.MatchID)
		if err != nil {
			return nil, repo.Translate(err, "match not found", "load match")
		}
		if match.Archived {
			return nil, pkgerrors.New(pkgerrors.CodeInvalidTransition, "match is archived")
		}
		ok, err := s.repo.IsMatchParticipant(ctx, match.ID, actor.UserID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check match participant")
		}
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only match participants can open a match discussion")
		}
		discussion.MatchID = &match.ID
	case enums.DiscussionTypeTeam:
		if input.TeamID == nil || input.MatchID != nil || len(input.ParticipantIDs) > 0 {
			return nil, pkgerrors.New(pkgerrors.CodeBadRequest, "team discussions take a team only")
		}
		team, err := s.repo.FindTeam(ctx, *input.TeamID)
		if err != nil {
			return nil, repo.Translate(err, "team not found", "load team")
		}
		ok, err := s.repo.IsTeamMember(ctx, team.ID, actor.UserID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check team member")
		}
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only team members can open a team discussion")
		}
		discussion.TeamID = &team.ID
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if err := txRepo.CreateDiscussion(ctx, discussion); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create discussion")
		}
		if err := txRepo.AddParticipants(ctx, discussion.ID, participants); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "add participants")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"discussion_id":   discussion.ID.String(),
		"discussion_type": string(discussion.Type),
	}), "discussion created")
	return discussion, nil
}

func (s *service) Get(ctx context.Context, actor types.Actor, discussionID uuid.UUID) (*models.Discussion, error) {
	discussion, err := s.repo.FindDiscussion(ctx, discussionID)
	if err != nil {
		return nil, repo.Translate(err, "discussion not found", "load discussion")
	}
	if err := s.authorize(ctx, actor, discussion); err != nil {
		return nil, err
	}
	return discussion, nil
}

func (s *service) CanAccess(ctx context.Context, actor types.Actor, discussionID uuid.UUID) error {
	_, err := s.Get(ctx, actor, discussionID)
	return err
}

func (s *service) ListForUser(ctx context.Context, actor types.Actor) ([]models.Discussion, error) {
	if actor.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	rows, err := s.repo.ListForUser(ctx, actor.UserID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list discussions")
	}
	if rows == nil {
		rows = []models.Discussion{}
	}
	return rows, nil
}

func (s *service) PostMessage(ctx context.Context, actor types.Actor, discussionID uuid.UUID, content string, replyTo *uuid.UUID) (*models.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, pkgerrors.New(pkgerrors.CodeBadRequest, "content is required")
	}
	if utf8.RuneCountInString(content) > maxContentLength {
		return nil, pkgerrors.New(pkgerrors.CodeBadRequest, fmt.Sprintf("content exceeds %d characters", maxContentLength))
	}

	discussion, err := s.Get(ctx, actor, discussionID)
	if err != nil {
		return nil, err
	}
	if discussion.Archived {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidTransition, "discussion is archived")
	}
	if err := s.throttle(ctx, actor.UserID); err != nil {
		return nil, err
	}

	message := &models.Message{
		DiscussionID: discussion.ID,
		SenderID:     &actor.UserID,
		Content:      content,
		Type:         enums.MessageTypeMessage,
	}
	if replyTo != nil {
		parent, err := s.repo.FindMessage(ctx, *replyTo)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeBadRequest, "replied message does not exist")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load replied message")
		}
		if parent.DiscussionID != discussion.ID {
			return nil, pkgerrors.New(pkgerrors.CodeBadRequest, "replied message belongs to another discussion")
		}
		message.Type = enums.MessageTypeReply
		message.ReplyingToID = &parent.ID
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).CreateMessage(ctx, message); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create message")
		}
		event := outbox.DomainEvent{
			EventType:     enums.EventMessagePosted,
			AggregateType: enums.AggregateDiscussion,
			AggregateID:   discussion.ID,
			Version:       1,
			Actor:         &outbox.ActorRef{UserID: actor.UserID, Staff: actor.Staff},
			Data: payloads.MessagePostedEvent{
				DiscussionID: discussion.ID,
				MessageID:    message.ID,
				SenderID:     message.SenderID,
				Content:      message.Content,
				Type:         message.Type,
				ReplyingToID: message.ReplyingToID,
			},
		}
		if err := s.outbox.Emit(ctx, tx, event); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "emit message event")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return message, nil
}

func (s *service) ListMessages(ctx context.Context, actor types.Actor, discussionID uuid.UUID, params pagination.Params) (*pagination.Page[models.Message], error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeBadRequest, err, "invalid cursor")
	}
	if _, err := s.Get(ctx, actor, discussionID); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListMessages(ctx, discussionID, cursor, params.Limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list messages")
	}
	page := pagination.BuildPage(rows, params.Limit, func(m models.Message) pagination.Cursor {
		return pagination.Cursor{CreatedAt: m.CreatedAt, ID: m.ID}
	})
	return &page, nil
}

// authorize hides discussions from users outside their scope.
func (s *service) authorize(ctx context.Context, actor types.Actor, discussion *models.Discussion) error {
	if actor.Staff {
		return nil
	}
	var (
		ok  bool
		err error
	)
	switch discussion.Type {
	case enums.DiscussionTypeGroup:
		ok, err = s.repo.IsParticipant(ctx, discussion.ID, actor.UserID)
	case enums.DiscussionTypeMatch:
		if discussion.MatchID != nil {
			ok, err = s.repo.IsMatchParticipant(ctx, *discussion.MatchID, actor.UserID)
		}
	case enums.DiscussionTypeTeam:
		if discussion.TeamID != nil {
			ok, err = s.repo.IsTeamMember(ctx, *discussion.TeamID, actor.UserID)
		}
	}
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check discussion access")
	}
	if !ok {
		return pkgerrors.New(pkgerrors.CodeNotFound, "discussion not found")
	}
	return nil
}

func (s *service) throttle(ctx context.Context, userID uuid.UUID) error {
	if s.limiter == nil || s.cfg.MessageLimit <= 0 || s.cfg.MessageWindow <= 0 {
		return nil
	}
	allowed, err := s.limiter.FixedWindowAllow(ctx, "messages:"+userID.String(), s.cfg.MessageLimit, s.cfg.MessageWindow)
	if err != nil {
		// A cache outage must not block chat.
		s.logg.Warn(s.logg.WithUserID(ctx, userID.String()), "message rate limit unavailable")
		return nil
	}
	if !allowed {
		return pkgerrors.New(pkgerrors.CodeRateLimited, "too many messages, slow down")
	}
	return nil
}

func dedupe(self uuid.UUID, ids []uuid.UUID) []uuid.UUID {
	out := []uuid.UUID{self}
	seen := map[uuid.UUID]struct{}{self: {}}
	for _, id := range ids {
		if id == uuid.Nil {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
