package controllers

import (
	"net/http"
	"strings"

	"github.com/argvision/argvision-backend/api/responses"
	"github.com/argvision/argvision-backend/api/validators"
	"github.com/argvision/argvision-backend/internal/games"
	"github.com/argvision/argvision-backend/pkg/enums"
	pkgerrors "github.com/argvision/argvision-backend/pkg/errors"
	"github.com/argvision/argvision-backend/pkg/logger"
)

// ListGames returns the game catalogue.
func ListGames(svc games.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("games"))
			return
		}
		actor, err := requireActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		includeArchived, err := validators.ParseQueryBool(r, "include_archived")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		params := games.ListParams{IncludeArchived: includeArchived}
		if raw := strings.TrimSpace(r.URL.Query().Get("type")); raw != "" {
			gameType, err := enums.ParseGameType(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeBadRequest, err, "invalid game type"))
				return
			}
			params.Type = &gameType
		}

		rows, err := svc.List(r.Context(), actor, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

// GetGame returns one game.
func GetGame(svc games.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("games"))
			return
		}
		gameID, err := validators.ParseURLUUID(r, "gameId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		game, err := svc.Get(r.Context(), gameID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, game)
	}
}

type createGameRequest struct {
	Name       string `json:"name" validate:"required,max=100"`
	Type       string `json:"type" validate:"required"`
	BasePoints int64  `json:"base_points" validate:"gte=0"`
}

type archiveGameRequest struct {
	Archived *bool `json:"archived" validate:"required"`
}

// CreateGame adds a catalogue entry. Staff only.
func CreateGame(svc games.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("games"))
			return
		}
		actor, err := requireActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req createGameRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		gameType, err := enums.ParseGameType(strings.TrimSpace(req.Type))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeBadRequest, err, "invalid game type").
				WithDetails(map[string]any{"field": "type"}))
			return
		}

		game, err := svc.Create(r.Context(), actor, games.CreateParams{
			Name:       validators.SanitizeString(req.Name, 100),
			Type:       gameType,
			BasePoints: req.BasePoints,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, game)
	}
}

// ArchiveGame retires or restores a game. Staff only.
func ArchiveGame(svc games.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("games"))
			return
		}
		actor, err := requireActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		gameID, err := validators.ParseURLUUID(r, "gameId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req archiveGameRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		game, err := svc.SetArchived(r.Context(), actor, gameID, *req.Archived)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, game)
	}
}
