package discussions

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/argvision/argvision-backend/pkg/config"
	"github.com/argvision/argvision-backend/pkg/db"
	"github.com/argvision/argvision-backend/pkg/db/dbtest"
	"github.com/argvision/argvision-backend/pkg/db/models"
	"github.com/argvision/argvision-backend/pkg/enums"
	pkgerrors "github.com/argvision/argvision-backend/pkg/errors"
	"github.com/argvision/argvision-backend/pkg/outbox"
	"github.com/argvision/argvision-backend/pkg/pagination"
	"github.com/argvision/argvision-backend/pkg/types"
)

type countingLimiter struct {
	limit int64
	seen  map[string]int64
}

func (l *countingLimiter) FixedWindowAllow(_ context.Context, scope string, limit int64, _ time.Duration) (bool, error) {
	if l.seen == nil {
		l.seen = map[string]int64{}
	}
	l.seen[scope]++
	return l.seen[scope] <= limit, nil
}

func newDiscussionService(t *testing.T, limiter RateLimiter) (Service, *db.Client) {
	t.Helper()
	client := dbtest.Open(t)
	svc, err := NewService(ServiceParams{
		Repo:    NewRepository(client.DB()),
		Tx:      client,
		Outbox:  outbox.NewService(outbox.NewRepository(client.DB()), nil),
		Limiter: limiter,
		Config:  config.DiscussionsConfig{MessageLimit: 2, MessageWindow: time.Minute},
	})
	require.NoError(t, err)
	return svc, client
}

func seedMatch(t *testing.T, client *db.Client, creator uuid.UUID, members map[uuid.UUID]enums.MatchMembershipStatus) models.Match {
	t.Helper()
	match := models.Match{
		Name:            "friendly",
		Status:          enums.MatchStatusUpcoming,
		Visibility:      enums.MatchVisibilityPublic,
		CreatedBy:       &creator,
		MaxParticipants: 2,
	}
	require.NoError(t, client.DB().Create(&match).Error)
	for userID, status := range members {
		require.NoError(t, client.DB().Create(&models.MatchMembership{
			MatchID: match.ID,
			UserID:  userID,
			Status:  status,
		}).Error)
	}
	return match
}

func TestCreateGroupDiscussion(t *testing.T) {
	svc, client := newDiscussionService(t, nil)
	ctx := context.Background()
	ana := dbtest.CreateUser(t, client, "ana")
	bea := dbtest.CreateUser(t, client, "bea")
	carl := dbtest.CreateUser(t, client, "carl")

	discussion, err := svc.Create(ctx, types.Actor{UserID: ana.ID}, CreateInput{
		Type:           enums.DiscussionTypeGroup,
		Title:          "tactics",
		ParticipantIDs: []uuid.UUID{bea.ID, bea.ID, ana.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, enums.DiscussionTypeGroup, discussion.Type)

	var participants int64
	require.NoError(t, client.DB().Model(&models.DiscussionParticipant{}).
		Where("discussion_id = ?", discussion.ID).Count(&participants).Error)
	assert.Equal(t, int64(2), participants)

	_, err = svc.Get(ctx, types.Actor{UserID: bea.ID}, discussion.ID)
	require.NoError(t, err)
	_, err = svc.Get(ctx, types.Actor{UserID: carl.ID}, discussion.ID)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound))
	_, err = svc.Get(ctx, types.Actor{UserID: carl.ID, Staff: true}, discussion.ID)
	require.NoError(t, err)

	listed, err := svc.ListForUser(ctx, types.Actor{UserID: bea.ID})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, discussion.ID, listed[0].ID)
}

func TestCreateValidatesScope(t *testing.T) {
	svc, client := newDiscussionService(t, nil)
	ctx := context.Background()
	ana := dbtest.CreateUser(t, client, "ana")
	bea := dbtest.CreateUser(t, client, "bea")
	actor := types.Actor{UserID: ana.ID}

	_, err := svc.Create(ctx, actor, CreateInput{Type: enums.DiscussionTypeGroup})
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeBadRequest))

	_, err = svc.Create(ctx, actor, CreateInput{Type: enums.DiscussionTypeGroup, ParticipantIDs: []uuid.UUID{uuid.New()}})
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound))

	matchID := uuid.New()
	_, err = svc.Create(ctx, actor, CreateInput{Type: enums.DiscussionTypeGroup, MatchID: &matchID, ParticipantIDs: []uuid.UUID{bea.ID}})
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeBadRequest))

	_, err = svc.Create(ctx, actor, CreateInput{Type: enums.DiscussionTypeMatch})
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeBadRequest))

	_, err = svc.Create(ctx, actor, CreateInput{Type: enums.DiscussionTypeMatch, MatchID: &matchID})
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound))

	_, err = svc.Create(ctx, actor, CreateInput{Type: "private"})
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeBadRequest))
}

func TestMatchDiscussionRequiresParticipant(t *testing.T) {
	svc, client := newDiscussionService(t, nil)
	ctx := context.Background()
	ana := dbtest.CreateUser(t, client, "ana")
	bea := dbtest.CreateUser(t, client, "bea")
	carl := dbtest.CreateUser(t, client, "carl")
	match := seedMatch(t, client, ana.ID, map[uuid.UUID]enums.MatchMembershipStatus{
		ana.ID:  enums.MatchMembershipAdmin,
		bea.ID:  enums.MatchMembershipMember,
		carl.ID: enums.MatchMembershipInvited,
	})

	_, err := svc.Create(ctx, types.Actor{UserID: carl.ID}, CreateInput{Type: enums.DiscussionTypeMatch, MatchID: &match.ID})
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeForbidden))

	discussion, err := svc.Create(ctx, types.Actor{UserID: bea.ID}, CreateInput{Type: enums.DiscussionTypeMatch, MatchID: &match.ID})
	require.NoError(t, err)
	require.NotNil(t, discussion.MatchID)

	_, err = svc.PostMessage(ctx, types.Actor{UserID: ana.ID}, discussion.ID, "good luck", nil)
	require.NoError(t, err)
	_, err = svc.PostMessage(ctx, types.Actor{UserID: carl.ID}, discussion.ID, "hi", nil)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound))
}

func TestTeamDiscussionRequiresActiveMember(t *testing.T) {
	svc, client := newDiscussionService(t, nil)
	ctx := context.Background()
	ana := dbtest.CreateUser(t, client, "ana")
	bea := dbtest.CreateUser(t, client, "bea")
	team := models.Team{Title: "Lions", CreatedBy: &ana.ID}
	require.NoError(t, client.DB().Create(&team).Error)
	require.NoError(t, client.DB().Create(&models.TeamMembership{TeamID: team.ID, UserID: ana.ID, Status: enums.TeamMembershipAdmin}).Error)
	require.NoError(t, client.DB().Create(&models.TeamMembership{TeamID: team.ID, UserID: bea.ID, Status: enums.TeamMembershipInvited}).Error)

	_, err := svc.Create(ctx, types.Actor{UserID: bea.ID}, CreateInput{Type: enums.DiscussionTypeTeam, TeamID: &team.ID})
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeForbidden))

	discussion, err := svc.Create(ctx, types.Actor{UserID: ana.ID}, CreateInput{Type: enums.DiscussionTypeTeam, TeamID: &team.ID})
	require.NoError(t, err)
	assert.Equal(t, team.ID, *discussion.TeamID)
}

func TestPostMessageAndReply(t *testing.T) {
	svc, client := newDiscussionService(t, nil)
	ctx := context.Background()
	ana := dbtest.CreateUser(t, client, "ana")
	bea := dbtest.CreateUser(t, client, "bea")
	actor := types.Actor{UserID: ana.ID}

	discussion, err := svc.Create(ctx, actor, CreateInput{Type: enums.DiscussionTypeGroup, ParticipantIDs: []uuid.UUID{bea.ID}})
	require.NoError(t, err)

	_, err = svc.PostMessage(ctx, actor, discussion.ID, "   ", nil)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeBadRequest))

	first, err := svc.PostMessage(ctx, actor, discussion.ID, " hello ", nil)
	require.NoError(t, err)
	assert.Equal(t, "hello", first.Content)
	assert.Equal(t, enums.MessageTypeMessage, first.Type)

	reply, err := svc.PostMessage(ctx, types.Actor{UserID: bea.ID}, discussion.ID, "hey", &first.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.MessageTypeReply, reply.Type)
	assert.Equal(t, first.ID, *reply.ReplyingToID)

	missing := uuid.New()
	_, err = svc.PostMessage(ctx, actor, discussion.ID, "lost", &missing)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeBadRequest))

	events, err := outbox.NewRepository(client.DB()).ListForAggregate(discussion.ID)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, enums.EventMessagePosted, events[0].EventType)

	require.NoError(t, client.DB().Model(&models.Discussion{}).Where("id = ?", discussion.ID).Update("archived", true).Error)
	_, err = svc.PostMessage(ctx, actor, discussion.ID, "late", nil)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeInvalidTransition))
}

func TestPostMessageRateLimited(t *testing.T) {
	svc, client := newDiscussionService(t, &countingLimiter{})
	ctx := context.Background()
	ana := dbtest.CreateUser(t, client, "ana")
	bea := dbtest.CreateUser(t, client, "bea")
	actor := types.Actor{UserID: ana.ID}

	discussion, err := svc.Create(ctx, actor, CreateInput{Type: enums.DiscussionTypeGroup, ParticipantIDs: []uuid.UUID{bea.ID}})
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err = svc.PostMessage(ctx, actor, discussion.ID, "spam", nil)
		require.NoError(t, err)
	}
	_, err = svc.PostMessage(ctx, actor, discussion.ID, "spam", nil)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeRateLimited))

	_, err = svc.PostMessage(ctx, types.Actor{UserID: bea.ID}, discussion.ID, "calm", nil)
	require.NoError(t, err)
}

func TestListMessagesOldestFirst(t *testing.T) {
	svc, client := newDiscussionService(t, nil)
	ctx := context.Background()
	ana := dbtest.CreateUser(t, client, "ana")
	bea := dbtest.CreateUser(t, client, "bea")
	actor := types.Actor{UserID: ana.ID}

	discussion, err := svc.Create(ctx, actor, CreateInput{Type: enums.DiscussionTypeGroup, ParticipantIDs: []uuid.UUID{bea.ID}})
	require.NoError(t, err)

	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	ids := make([]uuid.UUID, 0, 3)
	for i := 0; i < 3; i++ {
		msg := models.Message{
			DiscussionID: discussion.ID,
			SenderID:     &ana.ID,
			Content:      "m",
			Type:         enums.MessageTypeMessage,
			CreatedAt:    base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, client.DB().Create(&msg).Error)
		ids = append(ids, msg.ID)
	}

	page, err := svc.ListMessages(ctx, actor, discussion.ID, pagination.Params{Limit: 2})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, ids[0], page.Items[0].ID)
	assert.Equal(t, ids[1], page.Items[1].ID)
	require.NotEmpty(t, page.NextCursor)

	rest, err := svc.ListMessages(ctx, actor, discussion.ID, pagination.Params{Limit: 2, Cursor: page.NextCursor})
	require.NoError(t, err)
	require.Len(t, rest.Items, 1)
	assert.Equal(t, ids[2], rest.Items[0].ID)
	assert.Empty(t, rest.NextCursor)

	_, err = svc.ListMessages(ctx, actor, discussion.ID, pagination.Params{Cursor: "%%"})
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeBadRequest))
}
