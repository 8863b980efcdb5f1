package registry

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/argvision/argvision-backend/pkg/db/models"
	"github.com/argvision/argvision-backend/pkg/enums"
	"github.com/argvision/argvision-backend/pkg/outbox"
	"github.com/argvision/argvision-backend/pkg/outbox/payloads"
)

// EventDescriptor links an event type to its aggregate and payload schema.
type EventDescriptor struct {
	EventType      enums.OutboxEventType
	AggregateType  enums.OutboxAggregateType
	PayloadFactory func() any
}

// ResolvedEvent is the result of decoding an outbox row.
type ResolvedEvent struct {
	Descriptor EventDescriptor
	Envelope   outbox.PayloadEnvelope
	Payload    any
	Room       string
}

// EventRegistry maps each supported event type to its descriptor.
type EventRegistry struct {
	entries map[enums.OutboxEventType]EventDescriptor
}

// NonRetryableError signals the publisher should stop retrying a row.
type NonRetryableError struct {
	Err error
}

func (e NonRetryableError) Error() string {
	if e.Err == nil {
		return "non-retryable error"
	}
	return e.Err.Error()
}

func (e NonRetryableError) Unwrap() error {
	return e.Err
}

func NewNonRetryableError(err error) error {
	return NonRetryableError{Err: err}
}

// NewEventRegistry builds the registry of every event the service emits.
func NewEventRegistry() *EventRegistry {
	reg := &EventRegistry{entries: make(map[enums.OutboxEventType]EventDescriptor)}
	matchPayload := func() any { return &payloads.MatchEvent{} }
	for _, eventType := range []enums.OutboxEventType{
		enums.EventMatchCreated,
		enums.EventMatchStarted,
		enums.EventMatchCompleted,
		enums.EventMatchCanceled,
		enums.EventMatchArchived,
	} {
		reg.register(EventDescriptor{EventType: eventType, AggregateType: enums.AggregateMatch, PayloadFactory: matchPayload})
	}
	reg.register(EventDescriptor{
		EventType:      enums.EventMembershipChanged,
		AggregateType:  enums.AggregateMatch,
		PayloadFactory: func() any { return &payloads.MembershipChangedEvent{} },
	})
	reg.register(EventDescriptor{
		EventType:      enums.EventSideSelected,
		AggregateType:  enums.AggregateMatch,
		PayloadFactory: func() any { return &payloads.MembershipChangedEvent{} },
	})
	reg.register(EventDescriptor{
		EventType:      enums.EventRankingSettled,
		AggregateType:  enums.AggregateMatch,
		PayloadFactory: func() any { return &payloads.RankingSettledEvent{} },
	})
	reg.register(EventDescriptor{
		EventType:      enums.EventTeamMembership,
		AggregateType:  enums.AggregateTeam,
		PayloadFactory: func() any { return &payloads.TeamMembershipEvent{} },
	})
	reg.register(EventDescriptor{
		EventType:      enums.EventMessagePosted,
		AggregateType:  enums.AggregateDiscussion,
		PayloadFactory: func() any { return &payloads.MessagePostedEvent{} },
	})
	return reg
}

func (r *EventRegistry) register(desc EventDescriptor) {
	r.entries[desc.EventType] = desc
}

// Descriptor returns the descriptor registered for eventType.
func (r *EventRegistry) Descriptor(eventType enums.OutboxEventType) (EventDescriptor, bool) {
	desc, ok := r.entries[eventType]
	return desc, ok
}

// Resolve decodes an outbox row and names the room it fans out to. Every
// failure is non-retryable: a malformed row never becomes valid.
func (r *EventRegistry) Resolve(event models.OutboxEvent) (*ResolvedEvent, error) {
	desc, ok := r.entries[event.EventType]
	if !ok {
		return nil, NewNonRetryableError(fmt.Errorf("event type %s not registered", event.EventType))
	}
	if desc.AggregateType != event.AggregateType {
		return nil, NewNonRetryableError(fmt.Errorf("event %s expects aggregate %s, got %s", event.EventType, desc.AggregateType, event.AggregateType))
	}

	var envelope outbox.PayloadEnvelope
	if err := json.Unmarshal(event.Payload, &envelope); err != nil {
		return nil, NewNonRetryableError(fmt.Errorf("decode envelope: %w", err))
	}
	if envelope.EventID == "" {
		return nil, NewNonRetryableError(fmt.Errorf("event %s envelope missing id", event.ID))
	}

	payload := desc.PayloadFactory()
	decoder := json.NewDecoder(bytes.NewReader(envelope.Data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(payload); err != nil {
		return nil, NewNonRetryableError(fmt.Errorf("decode %s payload: %w", event.EventType, err))
	}

	return &ResolvedEvent{
		Descriptor: desc,
		Envelope:   envelope,
		Payload:    payload,
		Room:       RoomFor(event.AggregateType, event.AggregateID.String()),
	}, nil
}

// RoomFor names the realtime room of an aggregate, e.g. "match:<id>".
func RoomFor(aggregate enums.OutboxAggregateType, id string) string {
	return fmt.Sprintf("%s:%s", aggregate, id)
}
