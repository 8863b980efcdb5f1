package realtime

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/argvision/argvision-backend/pkg/auth"
	"github.com/argvision/argvision-backend/pkg/config"
	"github.com/argvision/argvision-backend/pkg/enums"
	"github.com/argvision/argvision-backend/pkg/types"
)

type allowRooms struct{}

func (allowRooms) Authorize(context.Context, types.Actor, Room) error { return nil }

func testJWT() config.JWTConfig {
	return config.JWTConfig{Secret: "secret", Issuer: "argvision", ExpirationMinutes: 5}
}

func newTestServer(t *testing.T, hub *Hub) *httptest.Server {
	t.Helper()
	h := NewHandler(HandlerParams{
		Hub:   hub,
		Rooms: allowRooms{},
		JWT:   testJWT(),
		Realtime: config.RealtimeConfig{
			WriteWait:  time.Second,
			PongWait:   time.Minute,
			SendBuffer: 4,
		},
	})
	r := chi.NewRouter()
	r.Get("/ws/notifications", h.Notifications)
	r.Get("/ws/rooms/{room}", h.Room)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func wsURL(srv *httptest.Server, path string) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + path
}

func mintToken(t *testing.T, userID uuid.UUID) string {
	t.Helper()
	token, err := auth.MintAccessToken(testJWT(), time.Now(), auth.AccessTokenPayload{UserID: userID, Role: enums.UserRolePlayer})
	require.NoError(t, err)
	return token
}

func TestNotificationsSocketReceivesUserFrames(t *testing.T) {
	hub := NewHub(nil, nil)
	srv := newTestServer(t, hub)
	user := uuid.New()

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, "/ws/notifications?token="+mintToken(t, user)), nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.UserClients(user) == 1 }, time.Second, 10*time.Millisecond)
	hub.SendToUser(user, []byte(`{"type":"notification"}`))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"notification"}`, string(msg))
}

func TestRoomSocketJoinsRoom(t *testing.T) {
	hub := NewHub(nil, nil)
	srv := newTestServer(t, hub)
	room := MatchRoom(uuid.New())

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, "/ws/rooms/"+room+"?token="+mintToken(t, uuid.New())), nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.RoomClients(room) == 1 }, time.Second, 10*time.Millisecond)
}

func TestSocketRejectsMissingOrBadCredentials(t *testing.T) {
	srv := newTestServer(t, NewHub(nil, nil))

	_, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, "/ws/notifications"), nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	_, resp, err = websocket.DefaultDialer.Dial(wsURL(srv, "/ws/notifications?token=garbage"), nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	_, resp, err = websocket.DefaultDialer.Dial(wsURL(srv, "/ws/rooms/store:1?token="+mintToken(t, uuid.New())), nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
