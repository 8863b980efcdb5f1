package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/argvision/argvision-backend/api/responses"
	"github.com/argvision/argvision-backend/api/validators"
	"github.com/argvision/argvision-backend/internal/discussions"
	"github.com/argvision/argvision-backend/pkg/enums"
	pkgerrors "github.com/argvision/argvision-backend/pkg/errors"
	"github.com/argvision/argvision-backend/pkg/logger"
	"github.com/argvision/argvision-backend/pkg/pagination"
)

type createDiscussionRequest struct {
	Type           string      `json:"type" validate:"required,oneof=group match team"`
	Title          string      `json:"title,omitempty" validate:"max=120"`
	MatchID        *uuid.UUID  `json:"match_id,omitempty"`
	TeamID         *uuid.UUID  `json:"team_id,omitempty"`
	ParticipantIDs []uuid.UUID `json:"participant_ids,omitempty" validate:"max=50"`
}

type postMessageRequest struct {
	Content string     `json:"content" validate:"required"`
	ReplyTo *uuid.UUID `json:"reply_to,omitempty"`
}

// CreateDiscussion opens a group, match or team discussion.
func CreateDiscussion(svc discussions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("discussions"))
			return
		}
		actor, err := requireActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req createDiscussionRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		discussionType, err := enums.ParseDiscussionType(req.Type)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeBadRequest, err, "invalid discussion type"))
			return
		}

		discussion, err := svc.Create(r.Context(), actor, discussions.CreateInput{
			Type:           discussionType,
			Title:          validators.SanitizeString(req.Title, 120),
			MatchID:        req.MatchID,
			TeamID:         req.TeamID,
			ParticipantIDs: req.ParticipantIDs,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, discussion)
	}
}

// ListDiscussions returns the discussions the caller can read.
func ListDiscussions(svc discussions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("discussions"))
			return
		}
		actor, err := requireActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		rows, err := svc.ListForUser(r.Context(), actor)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

// GetDiscussion returns one discussion.
func GetDiscussion(svc discussions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("discussions"))
			return
		}
		actor, err := requireActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		discussionID, err := validators.ParseURLUUID(r, "discussionId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		discussion, err := svc.Get(r.Context(), actor, discussionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, discussion)
	}
}

// PostMessage appends a message to a discussion.
func PostMessage(svc discussions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("discussions"))
			return
		}
		actor, err := requireActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		discussionID, err := validators.ParseURLUUID(r, "discussionId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req postMessageRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		message, err := svc.PostMessage(r.Context(), actor, discussionID, req.Content, req.ReplyTo)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, message)
	}
}

// ListMessages pages through a discussion oldest first.
func ListMessages(svc discussions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("discussions"))
			return
		}
		actor, err := requireActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		discussionID, err := validators.ParseURLUUID(r, "discussionId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.ListMessages(r.Context(), actor, discussionID, pagination.Params{
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}
