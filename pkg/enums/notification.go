package enums

import "fmt"

// NotificationKind identifies why a user was notified.
type NotificationKind string

const (
	NotificationMatchInvite    NotificationKind = "match_invite"
	NotificationMatchAccept    NotificationKind = "match_accept"
	NotificationMatchDeny      NotificationKind = "match_deny"
	NotificationMatchKick      NotificationKind = "match_kick"
	NotificationMatchBan       NotificationKind = "match_ban"
	NotificationMatchLeave     NotificationKind = "match_leave"
	NotificationMatchStarted   NotificationKind = "match_started"
	NotificationMatchCompleted NotificationKind = "match_completed"
	NotificationMatchCanceled  NotificationKind = "match_canceled"
	NotificationRankingSettled NotificationKind = "ranking_settled"
	NotificationTeamInvite     NotificationKind = "team_invite"
	NotificationTeamAccept     NotificationKind = "team_accept"
	NotificationMessage        NotificationKind = "message"
)

var validNotificationKinds = []NotificationKind{
	NotificationMatchInvite,
	NotificationMatchAccept,
	NotificationMatchDeny,
	NotificationMatchKick,
	NotificationMatchBan,
	NotificationMatchLeave,
	NotificationMatchStarted,
	NotificationMatchCompleted,
	NotificationMatchCanceled,
	NotificationRankingSettled,
	NotificationTeamInvite,
	NotificationTeamAccept,
	NotificationMessage,
}

// String implements fmt.Stringer.
func (n NotificationKind) String() string {
	return string(n)
}

// IsValid reports whether the value matches a known NotificationKind.
func (n NotificationKind) IsValid() bool {
	for _, candidate := range validNotificationKinds {
		if candidate == n {
			return true
		}
	}
	return false
}

// ParseNotificationKind converts raw input into a NotificationKind.
func ParseNotificationKind(value string) (NotificationKind, error) {
	for _, candidate := range validNotificationKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid notification kind %q", value)
}
