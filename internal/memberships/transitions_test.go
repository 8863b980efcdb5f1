package memberships

import (
	"testing"

	"github.com/argvision/argvision-backend/pkg/enums"
	pkgerrors "github.com/argvision/argvision-backend/pkg/errors"
)

func TestNextTable(t *testing.T) {
	tests := []struct {
		from     enums.MatchMembershipStatus
		action   Action
		want     enums.MatchMembershipStatus
		wantCode pkgerrors.Code
	}{
		{StatusNone, ActionInvite, enums.MatchMembershipInvited, ""},
		{enums.MatchMembershipInvited, ActionAccept, enums.MatchMembershipMember, ""},
		{enums.MatchMembershipInvited, ActionDeny, enums.MatchMembershipDenied, ""},
		{enums.MatchMembershipInvited, ActionBan, enums.MatchMembershipBanned, ""},
		{enums.MatchMembershipMember, ActionKick, enums.MatchMembershipKicked, ""},
		{enums.MatchMembershipAdmin, ActionLeave, enums.MatchMembershipLeft, ""},
		{enums.MatchMembershipLeft, ActionInvite, enums.MatchMembershipInvited, ""},
		{enums.MatchMembershipDenied, ActionInvite, enums.MatchMembershipInvited, ""},
		{enums.MatchMembershipKicked, ActionBan, enums.MatchMembershipBanned, ""},

		{enums.MatchMembershipInvited, ActionKick, "", pkgerrors.CodeInvalidTransition},
		{enums.MatchMembershipMember, ActionAccept, "", pkgerrors.CodeConflict},
		{enums.MatchMembershipAdmin, ActionAccept, "", pkgerrors.CodeInvalidTransition},
		{enums.MatchMembershipLeft, ActionLeave, "", pkgerrors.CodeConflict},
		{enums.MatchMembershipBanned, ActionBan, "", pkgerrors.CodeConflict},
		{enums.MatchMembershipKicked, ActionKick, "", pkgerrors.CodeConflict},
		{enums.MatchMembershipBanned, ActionInvite, "", pkgerrors.CodeConflict},
		{enums.MatchMembershipMember, ActionInvite, "", pkgerrors.CodeConflict},
		{enums.MatchMembershipInvited, ActionInvite, "", pkgerrors.CodeConflict},
		{enums.MatchMembershipKicked, ActionInvite, "", pkgerrors.CodeConflict},
		{enums.MatchMembershipDenied, ActionAccept, "", pkgerrors.CodeInvalidTransition},
		{enums.MatchMembershipBanned, ActionLeave, "", pkgerrors.CodeInvalidTransition},
		{StatusNone, ActionAccept, "", pkgerrors.CodeInvalidTransition},
		{enums.MatchMembershipMember, "promote", "", pkgerrors.CodeBadRequest},
	}

	for _, tc := range tests {
		got, err := Next(tc.from, tc.action)
		if tc.wantCode == "" {
			if err != nil {
				t.Fatalf("%s --%s--> unexpected error %v", tc.from, tc.action, err)
			}
			if got != tc.want {
				t.Fatalf("%s --%s--> got %s, want %s", tc.from, tc.action, got, tc.want)
			}
			continue
		}
		if !pkgerrors.Is(err, tc.wantCode) {
			t.Fatalf("%s --%s--> expected %s, got %v", tc.from, tc.action, tc.wantCode, err)
		}
	}
}

func TestBanAllowedFromEveryStatusButBanned(t *testing.T) {
	for from := range transitions {
		if from == StatusNone {
			continue
		}
		_, err := Next(from, ActionBan)
		if from == enums.MatchMembershipBanned {
			if !pkgerrors.Is(err, pkgerrors.CodeConflict) {
				t.Fatalf("ban from banned should conflict, got %v", err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ban from %s should be allowed: %v", from, err)
		}
	}
}

func TestEveryEdgeLeavingRosterTargetsTerminalStatus(t *testing.T) {
	for from, edges := range transitions {
		for action, tr := range edges {
			if tr.Role != requiredRoles[action] {
				t.Fatalf("%s --%s--> role %s differs from %s", from, action, tr.Role, requiredRoles[action])
			}
			switch action {
			case ActionDeny, ActionKick, ActionBan, ActionLeave:
				if !LeavesRoster(tr.To) {
					t.Fatalf("%s should leave the roster", tr.To)
				}
			default:
				if LeavesRoster(tr.To) {
					t.Fatalf("%s should keep the user on the roster", tr.To)
				}
			}
		}
	}
}
