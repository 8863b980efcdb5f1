package realtime

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/argvision/argvision-backend/api/responses"
	"github.com/argvision/argvision-backend/pkg/auth"
	"github.com/argvision/argvision-backend/pkg/config"
	pkgerrors "github.com/argvision/argvision-backend/pkg/errors"
	"github.com/argvision/argvision-backend/pkg/logger"
	"github.com/argvision/argvision-backend/pkg/types"
)

// Authorizer decides whether an actor may join a room.
type Authorizer interface {
	Authorize(ctx context.Context, actor types.Actor, room Room) error
}

// HandlerParams groups the websocket endpoint dependencies.
type HandlerParams struct {
	Hub      *Hub
	Rooms    Authorizer
	JWT      config.JWTConfig
	Realtime config.RealtimeConfig
	Logger   *logger.Logger
}

// Handler upgrades authenticated requests to websocket clients.
type Handler struct {
	hub      *Hub
	rooms    Authorizer
	jwt      config.JWTConfig
	cfg      config.RealtimeConfig
	logg     *logger.Logger
	upgrader websocket.Upgrader
}

// NewHandler builds the websocket endpoints.
func NewHandler(params HandlerParams) *Handler {
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	h := &Handler{
		hub:   params.Hub,
		rooms: params.Rooms,
		jwt:   params.JWT,
		cfg:   params.Realtime,
		logg:  logg,
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

// Notifications streams the caller's notifications.
func (h *Handler) Notifications(w http.ResponseWriter, r *http.Request) {
	actor, err := h.authenticate(r)
	if err != nil {
		responses.WriteError(r.Context(), h.logg, w, err)
		return
	}
	h.serve(w, r, actor, "")
}

// Room streams the events of the {room} path parameter.
func (h *Handler) Room(w http.ResponseWriter, r *http.Request) {
	actor, err := h.authenticate(r)
	if err != nil {
		responses.WriteError(r.Context(), h.logg, w, err)
		return
	}
	room, err := ParseRoom(chi.URLParam(r, "room"))
	if err != nil {
		responses.WriteError(r.Context(), h.logg, w, err)
		return
	}
	if h.rooms == nil {
		responses.WriteError(r.Context(), h.logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "room not found"))
		return
	}
	if err := h.rooms.Authorize(r.Context(), actor, room); err != nil {
		responses.WriteError(r.Context(), h.logg, w, err)
		return
	}
	h.serve(w, r, actor, room.String())
}

func (h *Handler) serve(w http.ResponseWriter, r *http.Request, actor types.Actor, room string) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		h.logg.Warn(h.logg.WithUserID(r.Context(), actor.UserID.String()), "websocket upgrade failed")
		return
	}
	client := newClient(h.hub, conn, actor.UserID, room, h.cfg)
	h.hub.Register(client)

	logCtx := h.logg.WithFields(r.Context(), map[string]any{
		"user_id": actor.UserID.String(),
		"room":    room,
	})
	h.logg.Debug(logCtx, "websocket connected")

	go client.writePump()
	go client.readPump()
}

// authenticate reads the access token from the token query parameter,
// falling back to the Authorization header.
func (h *Handler) authenticate(r *http.Request) (types.Actor, error) {
	token := strings.TrimSpace(r.URL.Query().Get("token"))
	if token == "" {
		raw := strings.TrimSpace(r.Header.Get("Authorization"))
		if strings.HasPrefix(strings.ToLower(raw), "bearer ") {
			token = strings.TrimSpace(raw[7:])
		}
	}
	if token == "" {
		return types.Actor{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}
	claims, err := auth.ParseAccessToken(h.jwt, token)
	if err != nil {
		return types.Actor{}, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token")
	}
	return types.Actor{UserID: claims.UserID, Staff: claims.Privileged()}, nil
}

func (h *Handler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range h.cfg.AllowedOrigins {
		allowed = strings.TrimSpace(allowed)
		if allowed == "*" || strings.EqualFold(allowed, origin) {
			return true
		}
	}
	return false
}
