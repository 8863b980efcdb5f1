package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/argvision/argvision-backend/api/responses"
	"github.com/argvision/argvision-backend/api/validators"
	"github.com/argvision/argvision-backend/internal/matches"
	"github.com/argvision/argvision-backend/pkg/enums"
	pkgerrors "github.com/argvision/argvision-backend/pkg/errors"
	"github.com/argvision/argvision-backend/pkg/logger"
	"github.com/argvision/argvision-backend/pkg/pagination"
	"github.com/argvision/argvision-backend/pkg/types"
)

type createMatchRequest struct {
	Name            string      `json:"name" validate:"required,max=120"`
	Description     string      `json:"description,omitempty" validate:"max=2000"`
	GameID          *uuid.UUID  `json:"game_id,omitempty"`
	Visibility      string      `json:"visibility,omitempty"`
	MaxParticipants int         `json:"max_participants" validate:"gte=1,lte=64"`
	Reward          int64       `json:"reward" validate:"gte=0"`
	StartsAt        *time.Time  `json:"starts_at,omitempty"`
	Invitees        []uuid.UUID `json:"invitees,omitempty" validate:"max=63"`
}

func (r createMatchRequest) toInput() (matches.CreateInput, error) {
	var visibility enums.MatchVisibility
	if raw := strings.TrimSpace(r.Visibility); raw != "" {
		parsed, err := enums.ParseMatchVisibility(raw)
		if err != nil {
			return matches.CreateInput{}, pkgerrors.Wrap(pkgerrors.CodeBadRequest, err, "invalid visibility").
				WithDetails(map[string]any{"field": "visibility"})
		}
		visibility = parsed
	}
	return matches.CreateInput{
		Name:            validators.SanitizeString(r.Name, 120),
		Description:     validators.SanitizeString(r.Description, 2000),
		GameID:          r.GameID,
		Visibility:      visibility,
		MaxParticipants: r.MaxParticipants,
		Reward:          r.Reward,
		StartsAt:        r.StartsAt,
		Invitees:        r.Invitees,
	}, nil
}

type selectSideRequest struct {
	Side int `json:"side" validate:"oneof=1 2"`
}

type completeMatchRequest struct {
	WinningSide int   `json:"winning_side" validate:"oneof=1 2"`
	Reward      int64 `json:"reward" validate:"gte=0"`
}

// CreateMatch opens a new match with the caller as creator.
func CreateMatch(svc matches.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("matches"))
			return
		}
		actor, err := requireActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req createMatchRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := req.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		match, err := svc.Create(r.Context(), actor, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, match)
	}
}

// ListMatches returns the matches the caller can discover.
func ListMatches(svc matches.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("matches"))
			return
		}
		actor, err := requireActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		gameID, err := validators.ParseQueryUUID(r, "game_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		params := matches.ListParams{
			GameID: gameID,
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status, err := enums.ParseMatchStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeBadRequest, err, "invalid status filter"))
				return
			}
			params.Status = &status
		}

		page, err := svc.ListVisible(r.Context(), actor, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

// ListMyMatches returns the matches the caller takes part in.
func ListMyMatches(svc matches.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("matches"))
			return
		}
		actor, err := requireActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		rows, err := svc.ListMine(r.Context(), actor)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

// GetMatch returns one match when the caller may see it.
func GetMatch(svc matches.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("matches"))
			return
		}
		actor, err := requireActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		matchID, err := validators.ParseURLUUID(r, "matchId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		match, err := svc.Get(r.Context(), matchID, actor)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, match)
	}
}

// SelectMatchSide assigns the caller to side 1 or 2.
func SelectMatchSide(svc matches.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("matches"))
			return
		}
		actor, err := requireActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		matchID, err := validators.ParseURLUUID(r, "matchId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req selectSideRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		membership, err := svc.SelectSide(r.Context(), matchID, actor, req.Side)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, membership)
	}
}

// CompleteMatch records the winning side and settles rankings.
func CompleteMatch(svc matches.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("matches"))
			return
		}
		actor, err := requireActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		matchID, err := validators.ParseURLUUID(r, "matchId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req completeMatchRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		match, err := svc.Complete(r.Context(), matchID, actor, req.WinningSide, req.Reward)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, match)
	}
}

// BeginMatch moves a full, side-assigned match into progress.
func BeginMatch(svc matches.Service, logg *logger.Logger) http.HandlerFunc {
	return matchTransition(svc, logg, func(r *http.Request, matchID uuid.UUID, actor types.Actor) (any, error) {
		return svc.Begin(r.Context(), matchID, actor)
	})
}

// CancelMatch cancels a match that has not finished.
func CancelMatch(svc matches.Service, logg *logger.Logger) http.HandlerFunc {
	return matchTransition(svc, logg, func(r *http.Request, matchID uuid.UUID, actor types.Actor) (any, error) {
		return svc.Cancel(r.Context(), matchID, actor)
	})
}

// ArchiveMatch hides a finished match and closes its discussions.
func ArchiveMatch(svc matches.Service, logg *logger.Logger) http.HandlerFunc {
	return matchTransition(svc, logg, func(r *http.Request, matchID uuid.UUID, actor types.Actor) (any, error) {
		return svc.Archive(r.Context(), matchID, actor)
	})
}

func matchTransition(svc matches.Service, logg *logger.Logger, apply func(r *http.Request, matchID uuid.UUID, actor types.Actor) (any, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("matches"))
			return
		}
		actor, err := requireActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		matchID, err := validators.ParseURLUUID(r, "matchId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := apply(r, matchID, actor)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
