package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/argvision/argvision-backend/api/responses"
	"github.com/argvision/argvision-backend/api/validators"
	"github.com/argvision/argvision-backend/internal/memberships"
	"github.com/argvision/argvision-backend/pkg/db/models"
	"github.com/argvision/argvision-backend/pkg/enums"
	pkgerrors "github.com/argvision/argvision-backend/pkg/errors"
	"github.com/argvision/argvision-backend/pkg/logger"
	"github.com/argvision/argvision-backend/pkg/types"
)

type inviteRequest struct {
	UserID uuid.UUID `json:"user_id" validate:"required"`
}

// membershipAction is one ledger action keyed by membership id.
type membershipAction func(ctx context.Context, membershipID uuid.UUID, actor types.Actor) (*models.MatchMembership, error)

// InviteToMatch invites a user into the match roster.
func InviteToMatch(svc memberships.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("memberships"))
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
		var req inviteRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		membership, err := svc.Invite(r.Context(), matchID, actor, req.UserID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, membership)
	}
}

// ListMatchMemberships returns the roster of a match.
func ListMatchMemberships(svc memberships.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("memberships"))
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
		rows, err := svc.ListForMatch(r.Context(), matchID, actor)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

// ListMyMemberships returns the caller's memberships, optionally filtered by
// status.
func ListMyMemberships(svc memberships.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("memberships"))
			return
		}
		actor, err := requireActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var status *enums.MatchMembershipStatus
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			parsed, err := enums.ParseMatchMembershipStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeBadRequest, err, "invalid status filter"))
				return
			}
			status = &parsed
		}

		rows, err := svc.ListForUser(r.Context(), actor.UserID, status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

// AcceptMembership turns an invitation into a participant seat.
func AcceptMembership(svc memberships.Service, logg *logger.Logger) http.HandlerFunc {
	return membershipHandler(svc, logg, func(svc memberships.Service) membershipAction { return svc.Accept })
}

// DenyMembership declines an invitation.
func DenyMembership(svc memberships.Service, logg *logger.Logger) http.HandlerFunc {
	return membershipHandler(svc, logg, func(svc memberships.Service) membershipAction { return svc.Deny })
}

// KickMembership removes another user from the roster.
func KickMembership(svc memberships.Service, logg *logger.Logger) http.HandlerFunc {
	return membershipHandler(svc, logg, func(svc memberships.Service) membershipAction { return svc.Kick })
}

// BanMembership bars another user from the match.
func BanMembership(svc memberships.Service, logg *logger.Logger) http.HandlerFunc {
	return membershipHandler(svc, logg, func(svc memberships.Service) membershipAction { return svc.Ban })
}

// LeaveMembership gives up the caller's own seat.
func LeaveMembership(svc memberships.Service, logg *logger.Logger) http.HandlerFunc {
	return membershipHandler(svc, logg, func(svc memberships.Service) membershipAction { return svc.Leave })
}

func membershipHandler(svc memberships.Service, logg *logger.Logger, pick func(memberships.Service) membershipAction) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("memberships"))
			return
		}
		actor, err := requireActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		membershipID, err := validators.ParseURLUUID(r, "membershipId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		membership, err := pick(svc)(r.Context(), membershipID, actor)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, membership)
	}
}
