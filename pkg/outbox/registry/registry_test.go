package registry

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/argvision/argvision-backend/pkg/db/models"
	"github.com/argvision/argvision-backend/pkg/enums"
	"github.com/argvision/argvision-backend/pkg/outbox"
	"github.com/argvision/argvision-backend/pkg/outbox/payloads"
)

func buildRow(t *testing.T, eventType enums.OutboxEventType, aggregate enums.OutboxAggregateType, data any) models.OutboxEvent {
	t.Helper()
	raw, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("marshal data: %v", err)
	}
	envelope, err := json.Marshal(outbox.PayloadEnvelope{
		Version:   1,
		EventID:   uuid.NewString(),
		EventType: string(eventType),
		Data:      raw,
	})
	if err != nil {
		t.Fatalf("marshal envelope: %v", err)
	}
	return models.OutboxEvent{
		ID:            uuid.New(),
		EventType:     eventType,
		AggregateType: aggregate,
		AggregateID:   uuid.New(),
		Payload:       envelope,
	}
}

func TestResolveMatchCompleted(t *testing.T) {
	reg := NewEventRegistry()
	matchID := uuid.New()
	row := buildRow(t, enums.EventMatchCompleted, enums.AggregateMatch, payloads.MatchEvent{
		MatchID:    matchID,
		Status:     enums.MatchStatusCompleted,
		WinnerSide: 1,
		Reward:     100,
	})

	resolved, err := reg.Resolve(row)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	payload, ok := resolved.Payload.(*payloads.MatchEvent)
	if !ok {
		t.Fatalf("unexpected payload type %T", resolved.Payload)
	}
	if payload.MatchID != matchID || payload.WinnerSide != 1 || payload.Reward != 100 {
		t.Fatalf("unexpected payload %+v", payload)
	}
	if resolved.Room != "match:"+row.AggregateID.String() {
		t.Fatalf("unexpected room %s", resolved.Room)
	}
}

func TestResolveRejectsUnknownFields(t *testing.T) {
	reg := NewEventRegistry()
	row := buildRow(t, enums.EventMessagePosted, enums.AggregateDiscussion, map[string]any{
		"discussion_id": uuid.NewString(),
		"surprise":      true,
	})

	_, err := reg.Resolve(row)
	var nonRetry NonRetryableError
	if !errors.As(err, &nonRetry) {
		t.Fatalf("expected non-retryable error, got %v", err)
	}
}

func TestResolveRejectsAggregateMismatch(t *testing.T) {
	reg := NewEventRegistry()
	row := buildRow(t, enums.EventMatchStarted, enums.AggregateTeam, payloads.MatchEvent{})

	if _, err := reg.Resolve(row); err == nil {
		t.Fatal("expected aggregate mismatch error")
	}
}

func TestEveryEventTypeIsRegistered(t *testing.T) {
	reg := NewEventRegistry()
	for _, eventType := range []enums.OutboxEventType{
		enums.EventMatchCreated,
		enums.EventMembershipChanged,
		enums.EventSideSelected,
		enums.EventMatchStarted,
		enums.EventMatchCompleted,
		enums.EventMatchCanceled,
		enums.EventMatchArchived,
		enums.EventRankingSettled,
		enums.EventTeamMembership,
		enums.EventMessagePosted,
	} {
		if _, ok := reg.Descriptor(eventType); !ok {
			t.Fatalf("event %s not registered", eventType)
		}
	}
}
