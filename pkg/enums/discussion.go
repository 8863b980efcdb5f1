package enums

import "fmt"

// DiscussionType names the single scope a discussion belongs to.
type DiscussionType string

const (
	DiscussionTypeGroup DiscussionType = "group"
	DiscussionTypeMatch DiscussionType = "match"
	DiscussionTypeTeam  DiscussionType = "team"
)

var validDiscussionTypes = []DiscussionType{
	DiscussionTypeGroup,
	DiscussionTypeMatch,
	DiscussionTypeTeam,
}

// IsValid reports whether the value matches a known DiscussionType.
func (d DiscussionType) IsValid() bool {
	for _, candidate := range validDiscussionTypes {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseDiscussionType converts raw input into a DiscussionType.
func ParseDiscussionType(value string) (DiscussionType, error) {
	for _, candidate := range validDiscussionTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid discussion type %q", value)
}

// MessageType classifies a chat message.
type MessageType string

const (
	MessageTypeMessage MessageType = "message"
	MessageTypeReply   MessageType = "reply"
	MessageTypeReact   MessageType = "react"
)

// IsValid reports whether the value matches a known MessageType.
func (m MessageType) IsValid() bool {
	switch m {
	case MessageTypeMessage, MessageTypeReply, MessageTypeReact:
		return true
	default:
		return false
	}
}
