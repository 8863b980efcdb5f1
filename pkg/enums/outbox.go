package enums

import "fmt"

// OutboxAggregateType maps to the aggregate_type column of outbox_events.
type OutboxAggregateType string

const (
	AggregateMatch      OutboxAggregateType = "match"
	AggregateDiscussion OutboxAggregateType = "discussion"
	AggregateTeam       OutboxAggregateType = "team"
)

var validAggregateTypes = []OutboxAggregateType{
	AggregateMatch,
	AggregateDiscussion,
	AggregateTeam,
}

// IsValid reports whether the value matches a known aggregate type.
func (a OutboxAggregateType) IsValid() bool {
	for _, candidate := range validAggregateTypes {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseOutboxAggregateType converts raw input into OutboxAggregateType.
func ParseOutboxAggregateType(value string) (OutboxAggregateType, error) {
	for _, candidate := range validAggregateTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid aggregate type %q", value)
}

// OutboxEventType maps to the event_type column of outbox_events.
type OutboxEventType string

const (
	EventMatchCreated      OutboxEventType = "match.created"
	EventMembershipChanged OutboxEventType = "membership.changed"
	EventSideSelected      OutboxEventType = "match.side_selected"
	EventMatchStarted      OutboxEventType = "match.started"
	EventMatchCompleted    OutboxEventType = "match.completed"
	EventMatchCanceled     OutboxEventType = "match.canceled"
	EventMatchArchived     OutboxEventType = "match.archived"
	EventRankingSettled    OutboxEventType = "ranking.settled"
	EventTeamMembership    OutboxEventType = "team.membership_changed"
	EventMessagePosted     OutboxEventType = "message.posted"
)

var validOutboxEventTypes = []OutboxEventType{
	EventMatchCreated,
	EventMembershipChanged,
	EventSideSelected,
	EventMatchStarted,
	EventMatchCompleted,
	EventMatchCanceled,
	EventMatchArchived,
	EventRankingSettled,
	EventTeamMembership,
	EventMessagePosted,
}

// IsValid reports whether the value matches a known event type.
func (e OutboxEventType) IsValid() bool {
	for _, candidate := range validOutboxEventTypes {
		if candidate == e {
			return true
		}
	}
	return false
}

// ParseOutboxEventType converts raw input into OutboxEventType.
func ParseOutboxEventType(value string) (OutboxEventType, error) {
	for _, candidate := range validOutboxEventTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid outbox event type %q", value)
}
