package matches

import (
	"fmt"

	"github.com/argvision/argvision-backend/pkg/enums"
	pkgerrors "github.com/argvision/argvision-backend/pkg/errors"
)

// Action is a lifecycle operation on a match.
type Action string

const (
	ActionCreate     Action = "create"
	ActionSelectSide Action = "select_side"
	ActionBegin      Action = "begin"
	ActionComplete   Action = "complete"
	ActionCancel     Action = "cancel"
	ActionArchive    Action = "archive"
)

// transitions lists every status change a match can go through. Status only
// moves forward; archive is a separate flag and is not part of the table.
var transitions = map[enums.MatchStatus]map[Action]enums.MatchStatus{
	enums.MatchStatusUpcoming: {
		ActionBegin:  enums.MatchStatusInProgress,
		ActionCancel: enums.MatchStatusCanceled,
	},
	enums.MatchStatusInProgress: {
		ActionComplete: enums.MatchStatusCompleted,
		ActionCancel:   enums.MatchStatusCanceled,
	},
	enums.MatchStatusCompleted: {},
	enums.MatchStatusCanceled:  {},
}

// Next returns the status reached by applying action in status from. A
// missing edge is a Conflict: the request raced with, or came after, another
// lifecycle change.
func Next(from enums.MatchStatus, action Action) (enums.MatchStatus, error) {
	if to, ok := transitions[from][action]; ok {
		return to, nil
	}
	return "", pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("cannot %s a match that is %s", action, from)).
		WithDetails(map[string]any{"status": from, "action": action})
}

// CanArchive reports whether a match may be archived. Terminal matches keep
// their history and are never archived.
func CanArchive(status enums.MatchStatus) bool {
	return !status.IsTerminal()
}
