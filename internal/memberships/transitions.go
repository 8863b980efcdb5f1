package memberships

import (
	"fmt"

	"github.com/argvision/argvision-backend/pkg/enums"
	pkgerrors "github.com/argvision/argvision-backend/pkg/errors"
)

// Action is a ledger operation on a match membership.
type Action string

const (
	ActionInvite Action = "invite"
	ActionAccept Action = "accept"
	ActionDeny   Action = "deny"
	ActionKick   Action = "kick"
	ActionBan    Action = "ban"
	ActionLeave  Action = "leave"
)

// Role is the authority an action requires from the actor.
type Role string

const (
	// RoleSelf is the user the membership belongs to.
	RoleSelf Role = "self"
	// RoleAdmin holds an ADMIN membership on the same match.
	RoleAdmin Role = "admin"
	// RoleCreator created the match.
	RoleCreator Role = "creator"
)

// StatusNone stands for "no membership row yet" in the table.
const StatusNone enums.MatchMembershipStatus = ""

// Transition is one allowed edge of the membership state machine.
type Transition struct {
	To   enums.MatchMembershipStatus
	Role Role
}

var requiredRoles = map[Action]Role{
	ActionInvite: RoleAdmin,
	ActionAccept: RoleSelf,
	ActionDeny:   RoleSelf,
	ActionKick:   RoleAdmin,
	ActionBan:    RoleAdmin,
	ActionLeave:  RoleSelf,
}

var actionTargets = map[Action]enums.MatchMembershipStatus{
	ActionInvite: enums.MatchMembershipInvited,
	ActionAccept: enums.MatchMembershipMember,
	ActionDeny:   enums.MatchMembershipDenied,
	ActionKick:   enums.MatchMembershipKicked,
	ActionBan:    enums.MatchMembershipBanned,
	ActionLeave:  enums.MatchMembershipLeft,
}

func edge(action Action) Transition {
	return Transition{To: actionTargets[action], Role: requiredRoles[action]}
}

var transitions = map[enums.MatchMembershipStatus]map[Action]Transition{
	StatusNone: {
		ActionInvite: edge(ActionInvite),
	},
	enums.MatchMembershipInvited: {
		ActionAccept: edge(ActionAccept),
		ActionDeny:   edge(ActionDeny),
		ActionBan:    edge(ActionBan),
	},
	enums.MatchMembershipMember: {
		ActionKick:  edge(ActionKick),
		ActionBan:   edge(ActionBan),
		ActionLeave: edge(ActionLeave),
	},
	enums.MatchMembershipAdmin: {
		ActionKick:  edge(ActionKick),
		ActionBan:   edge(ActionBan),
		ActionLeave: edge(ActionLeave),
	},
	enums.MatchMembershipDenied: {
		ActionInvite: edge(ActionInvite),
		ActionBan:    edge(ActionBan),
	},
	enums.MatchMembershipKicked: {
		ActionBan: edge(ActionBan),
	},
	enums.MatchMembershipLeft: {
		ActionInvite: edge(ActionInvite),
		ActionBan:    edge(ActionBan),
	},
	enums.MatchMembershipBanned: {},
}

// RequiredRole returns the authority needed to perform action.
func RequiredRole(action Action) (Role, bool) {
	role, ok := requiredRoles[action]
	return role, ok
}

// Next resolves the status produced by applying action in status from.
// Re-applying an action whose result is the current status is a Conflict, as
// is inviting a user who already holds a live or banned membership. Every
// other edge missing from the table is an InvalidTransition.
func Next(from enums.MatchMembershipStatus, action Action) (enums.MatchMembershipStatus, error) {
	if _, ok := requiredRoles[action]; !ok {
		return "", pkgerrors.New(pkgerrors.CodeBadRequest, fmt.Sprintf("unknown membership action %q", action))
	}
	if t, ok := transitions[from][action]; ok {
		return t.To, nil
	}
	if actionTargets[action] == from {
		return "", pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("membership is already %s", from))
	}
	if action == ActionInvite {
		return "", pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("user already has a %s membership", from))
	}
	return "", pkgerrors.New(pkgerrors.CodeInvalidTransition, fmt.Sprintf("cannot %s a membership that is %s", action, displayStatus(from))).
		WithDetails(map[string]any{"from": displayStatus(from), "action": action})
}

// LeavesRoster reports whether status removes the user from the roster,
// which also releases any side they held.
func LeavesRoster(status enums.MatchMembershipStatus) bool {
	switch status {
	case enums.MatchMembershipDenied, enums.MatchMembershipKicked, enums.MatchMembershipBanned, enums.MatchMembershipLeft:
		return true
	default:
		return false
	}
}

func displayStatus(status enums.MatchMembershipStatus) string {
	if status == StatusNone {
		return "absent"
	}
	return string(status)
}
