package teams

import (
	"fmt"

	"github.com/argvision/argvision-backend/pkg/enums"
	pkgerrors "github.com/argvision/argvision-backend/pkg/errors"
)

// Action is a ledger operation on a team membership.
type Action string

const (
	ActionInvite Action = "invite"
	ActionAccept Action = "accept"
	ActionDeny   Action = "deny"
	ActionKick   Action = "kick"
	ActionLeave  Action = "leave"
)

// Role is the authority an action requires from the actor.
type Role string

const (
	RoleSelf  Role = "self"
	RoleAdmin Role = "admin"
)

const statusNone enums.TeamMembershipStatus = ""

var requiredRoles = map[Action]Role{
	ActionInvite: RoleAdmin,
	ActionAccept: RoleSelf,
	ActionDeny:   RoleSelf,
	ActionKick:   RoleAdmin,
	ActionLeave:  RoleSelf,
}

var actionTargets = map[Action]enums.TeamMembershipStatus{
	ActionInvite: enums.TeamMembershipInvited,
	ActionAccept: enums.TeamMembershipMember,
	ActionDeny:   enums.TeamMembershipDenied,
	ActionKick:   enums.TeamMembershipKicked,
	ActionLeave:  enums.TeamMembershipLeft,
}

// transitions has no ban edge: teams have no BANNED status.
var transitions = map[enums.TeamMembershipStatus][]Action{
	statusNone:                  {ActionInvite},
	enums.TeamMembershipInvited: {ActionAccept, ActionDeny},
	enums.TeamMembershipMember:  {ActionKick, ActionLeave},
	enums.TeamMembershipAdmin:   {ActionKick, ActionLeave},
	enums.TeamMembershipWinner:  {ActionKick, ActionLeave},
	enums.TeamMembershipDenied:  {ActionInvite},
	enums.TeamMembershipLeft:    {ActionInvite},
	enums.TeamMembershipKicked:  {},
}

// Next resolves the status produced by applying action in status from, with
// the same error kinds as the match ledger.
func Next(from enums.TeamMembershipStatus, action Action) (enums.TeamMembershipStatus, error) {
	target, ok := actionTargets[action]
	if !ok {
		return "", pkgerrors.New(pkgerrors.CodeBadRequest, fmt.Sprintf("unknown team action %q", action))
	}
	for _, allowed := range transitions[from] {
		if allowed == action {
			return target, nil
		}
	}
	if target == from {
		return "", pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("team membership is already %s", from))
	}
	if action == ActionInvite {
		return "", pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("user already has a %s team membership", from))
	}
	state := string(from)
	if from == statusNone {
		state = "absent"
	}
	return "", pkgerrors.New(pkgerrors.CodeInvalidTransition, fmt.Sprintf("cannot %s a team membership that is %s", action, state)).
		WithDetails(map[string]any{"from": state, "action": action})
}
