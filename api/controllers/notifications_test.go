package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/argvision/argvision-backend/internal/notifications"
	"github.com/argvision/argvision-backend/pkg/db/models"
	"github.com/argvision/argvision-backend/pkg/pagination"
	"github.com/argvision/argvision-backend/pkg/types"
)

type testNotificationsService struct {
	listFn        func(ctx context.Context, params notifications.ListParams) (*pagination.Page[models.Notification], error)
	markReadFn    func(ctx context.Context, userID, notificationID uuid.UUID) error
	markAllReadFn func(ctx context.Context, userID uuid.UUID) (int64, error)
}

func (s *testNotificationsService) List(ctx context.Context, params notifications.ListParams) (*pagination.Page[models.Notification], error) {
	if s.listFn != nil {
		return s.listFn(ctx, params)
	}
	return &pagination.Page[models.Notification]{}, nil
}

func (s *testNotificationsService) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	if s.markReadFn != nil {
		return s.markReadFn(ctx, userID, notificationID)
	}
	return nil
}

func (s *testNotificationsService) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	if s.markAllReadFn != nil {
		return s.markAllReadFn(ctx, userID)
	}
	return 0, nil
}

func TestListNotificationsScopesToActor(t *testing.T) {
	actor := types.Actor{UserID: uuid.New()}
	svc := &testNotificationsService{
		listFn: func(_ context.Context, params notifications.ListParams) (*pagination.Page[models.Notification], error) {
			assert.Equal(t, actor.UserID, params.UserID)
			assert.True(t, params.UnreadOnly)
			assert.Equal(t, "abc", params.Cursor)
			return &pagination.Page[models.Notification]{Items: []models.Notification{}}, nil
		},
	}
	req := newRequest(http.MethodGet, "/api/v1/notifications?unreadOnly=true&cursor=abc", "", actor, nil)
	resp := httptest.NewRecorder()
	ListNotifications(svc, testLogger())(resp, req)
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestListNotificationsRejectsBadLimit(t *testing.T) {
	req := newRequest(http.MethodGet, "/api/v1/notifications?limit=0", "", types.Actor{UserID: uuid.New()}, nil)
	resp := httptest.NewRecorder()
	ListNotifications(&testNotificationsService{}, testLogger())(resp, req)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestMarkNotificationReadSuccess(t *testing.T) {
	actor := types.Actor{UserID: uuid.New()}
	notificationID := uuid.New()
	called := false
	svc := &testNotificationsService{
		markReadFn: func(_ context.Context, userID, nid uuid.UUID) error {
			called = true
			assert.Equal(t, actor.UserID, userID)
			assert.Equal(t, notificationID, nid)
			return nil
		},
	}
	req := newRequest(http.MethodPost, "/", "", actor, map[string]string{"notificationId": notificationID.String()})
	resp := httptest.NewRecorder()
	MarkNotificationRead(svc, testLogger())(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	assert.True(t, called)
	var envelope struct {
		Data map[string]bool `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	assert.True(t, envelope.Data["read"])
}

func TestMarkAllNotificationsRead(t *testing.T) {
	svc := &testNotificationsService{
		markAllReadFn: func(context.Context, uuid.UUID) (int64, error) { return 4, nil },
	}
	req := newRequest(http.MethodPost, "/", "", types.Actor{UserID: uuid.New()}, nil)
	resp := httptest.NewRecorder()
	MarkAllNotificationsRead(svc, testLogger())(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	var envelope struct {
		Data map[string]int64 `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	assert.Equal(t, int64(4), envelope.Data["updated"])
}
