package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/argvision/argvision-backend/internal/memberships"
	"github.com/argvision/argvision-backend/pkg/db/models"
	"github.com/argvision/argvision-backend/pkg/enums"
	pkgerrors "github.com/argvision/argvision-backend/pkg/errors"
	"github.com/argvision/argvision-backend/pkg/types"
)

type stubMembershipsService struct {
	calls    []string
	inviteFn func(ctx context.Context, matchID uuid.UUID, inviter types.Actor, inviteeID uuid.UUID) (*models.MatchMembership, error)
	err      error
}

func (s *stubMembershipsService) record(action string, id uuid.UUID) (*models.MatchMembership, error) {
	s.calls = append(s.calls, action)
	if s.err != nil {
		return nil, s.err
	}
	return &models.MatchMembership{ID: id}, nil
}

func (s *stubMembershipsService) Invite(ctx context.Context, matchID uuid.UUID, inviter types.Actor, inviteeID uuid.UUID) (*models.MatchMembership, error) {
	return s.inviteFn(ctx, matchID, inviter, inviteeID)
}

func (s *stubMembershipsService) Accept(_ context.Context, id uuid.UUID, _ types.Actor) (*models.MatchMembership, error) {
	return s.record("accept", id)
}

func (s *stubMembershipsService) Deny(_ context.Context, id uuid.UUID, _ types.Actor) (*models.MatchMembership, error) {
	return s.record("deny", id)
}

func (s *stubMembershipsService) Kick(_ context.Context, id uuid.UUID, _ types.Actor) (*models.MatchMembership, error) {
	return s.record("kick", id)
}

func (s *stubMembershipsService) Ban(_ context.Context, id uuid.UUID, _ types.Actor) (*models.MatchMembership, error) {
	return s.record("ban", id)
}

func (s *stubMembershipsService) Leave(_ context.Context, id uuid.UUID, _ types.Actor) (*models.MatchMembership, error) {
	return s.record("leave", id)
}

func (s *stubMembershipsService) Enroll(context.Context, *gorm.DB, *models.Match, uuid.UUID, enums.MatchMembershipStatus, *uuid.UUID) (*models.MatchMembership, error) {
	return nil, nil
}

func (s *stubMembershipsService) ListForMatch(context.Context, uuid.UUID, types.Actor) ([]models.MatchMembership, error) {
	return nil, nil
}

func (s *stubMembershipsService) ListForUser(context.Context, uuid.UUID, *enums.MatchMembershipStatus) ([]memberships.MembershipView, error) {
	return []memberships.MembershipView{}, nil
}

func TestMembershipActionsDispatch(t *testing.T) {
	svc := &stubMembershipsService{}
	handlers := []http.HandlerFunc{
		AcceptMembership(svc, testLogger()),
		DenyMembership(svc, testLogger()),
		KickMembership(svc, testLogger()),
		BanMembership(svc, testLogger()),
		LeaveMembership(svc, testLogger()),
	}
	for _, handler := range handlers {
		id := uuid.New()
		req := newRequest(http.MethodPost, "/", "", types.Actor{UserID: uuid.New()}, map[string]string{"membershipId": id.String()})
		resp := httptest.NewRecorder()
		handler(resp, req)
		require.Equal(t, http.StatusOK, resp.Code)
	}
	assert.Equal(t, []string{"accept", "deny", "kick", "ban", "leave"}, svc.calls)
}

func TestMembershipActionRejectsBadID(t *testing.T) {
	svc := &stubMembershipsService{}
	req := newRequest(http.MethodPost, "/", "", types.Actor{UserID: uuid.New()}, map[string]string{"membershipId": "nope"})
	resp := httptest.NewRecorder()
	KickMembership(svc, testLogger())(resp, req)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Empty(t, svc.calls)
}

func TestBanSelfSurfacesBadRequest(t *testing.T) {
	svc := &stubMembershipsService{err: pkgerrors.New(pkgerrors.CodeBadRequest, "cannot ban yourself")}
	req := newRequest(http.MethodPost, "/", "", types.Actor{UserID: uuid.New()}, map[string]string{"membershipId": uuid.NewString()})
	resp := httptest.NewRecorder()
	BanMembership(svc, testLogger())(resp, req)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestInviteToMatch(t *testing.T) {
	matchID := uuid.New()
	invitee := uuid.New()
	svc := &stubMembershipsService{
		inviteFn: func(_ context.Context, gotMatch uuid.UUID, _ types.Actor, gotInvitee uuid.UUID) (*models.MatchMembership, error) {
			assert.Equal(t, matchID, gotMatch)
			assert.Equal(t, invitee, gotInvitee)
			return &models.MatchMembership{ID: uuid.New(), MatchID: gotMatch, UserID: gotInvitee, Status: enums.MatchMembershipInvited}, nil
		},
	}
	req := newRequest(http.MethodPost, "/", `{"user_id":"`+invitee.String()+`"}`,
		types.Actor{UserID: uuid.New()}, map[string]string{"matchId": matchID.String()})
	resp := httptest.NewRecorder()
	InviteToMatch(svc, testLogger())(resp, req)
	assert.Equal(t, http.StatusCreated, resp.Code)
}

func TestInviteToMatchRequiresUser(t *testing.T) {
	req := newRequest(http.MethodPost, "/", `{}`, types.Actor{UserID: uuid.New()}, map[string]string{"matchId": uuid.NewString()})
	resp := httptest.NewRecorder()
	InviteToMatch(&stubMembershipsService{}, testLogger())(resp, req)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestListMyMembershipsRejectsUnknownStatus(t *testing.T) {
	req := newRequest(http.MethodGet, "/api/v1/memberships?status=lurking", "", types.Actor{UserID: uuid.New()}, nil)
	resp := httptest.NewRecorder()
	ListMyMemberships(&stubMembershipsService{}, testLogger())(resp, req)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}
