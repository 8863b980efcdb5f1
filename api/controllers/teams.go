package controllers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/argvision/argvision-backend/api/responses"
	"github.com/argvision/argvision-backend/api/validators"
	"github.com/argvision/argvision-backend/internal/teams"
	"github.com/argvision/argvision-backend/pkg/db/models"
	"github.com/argvision/argvision-backend/pkg/logger"
	"github.com/argvision/argvision-backend/pkg/types"
)

type createTeamRequest struct {
	Title    string      `json:"title" validate:"required,max=80"`
	Slogan   string      `json:"slogan,omitempty" validate:"max=200"`
	GameID   *uuid.UUID  `json:"game_id,omitempty"`
	Invitees []uuid.UUID `json:"invitees,omitempty" validate:"max=50"`
}

type teamAction func(ctx context.Context, membershipID uuid.UUID, actor types.Actor) (*models.TeamMembership, error)

// CreateTeam creates a team led by the caller.
func CreateTeam(svc teams.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("teams"))
			return
		}
		actor, err := requireActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req createTeamRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		detail, err := svc.Create(r.Context(), actor, teams.CreateInput{
			Title:    validators.SanitizeString(req.Title, 80),
			Slogan:   validators.SanitizeString(req.Slogan, 200),
			GameID:   req.GameID,
			Invitees: req.Invitees,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, detail)
	}
}

// GetTeam returns a team with its roster.
func GetTeam(svc teams.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("teams"))
			return
		}
		teamID, err := validators.ParseURLUUID(r, "teamId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		detail, err := svc.Get(r.Context(), teamID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, detail)
	}
}

// InviteToTeam invites a user onto the team.
func InviteToTeam(svc teams.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("teams"))
			return
		}
		actor, err := requireActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		teamID, err := validators.ParseURLUUID(r, "teamId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req inviteRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		membership, err := svc.Invite(r.Context(), teamID, actor, req.UserID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, membership)
	}
}

// AcceptTeamMembership joins the team.
func AcceptTeamMembership(svc teams.Service, logg *logger.Logger) http.HandlerFunc {
	return teamMembershipHandler(svc, logg, func(svc teams.Service) teamAction { return svc.Accept })
}

// DenyTeamMembership declines a team invitation.
func DenyTeamMembership(svc teams.Service, logg *logger.Logger) http.HandlerFunc {
	return teamMembershipHandler(svc, logg, func(svc teams.Service) teamAction { return svc.Deny })
}

// KickTeamMembership removes a member from the team.
func KickTeamMembership(svc teams.Service, logg *logger.Logger) http.HandlerFunc {
	return teamMembershipHandler(svc, logg, func(svc teams.Service) teamAction { return svc.Kick })
}

// LeaveTeamMembership leaves the team.
func LeaveTeamMembership(svc teams.Service, logg *logger.Logger) http.HandlerFunc {
	return teamMembershipHandler(svc, logg, func(svc teams.Service) teamAction { return svc.Leave })
}

func teamMembershipHandler(svc teams.Service, logg *logger.Logger, pick func(teams.Service) teamAction) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable("teams"))
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
