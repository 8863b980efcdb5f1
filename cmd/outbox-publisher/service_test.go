package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/argvision/argvision-backend/pkg/config"
	"github.com/argvision/argvision-backend/pkg/db/models"
	"github.com/argvision/argvision-backend/pkg/enums"
	"github.com/argvision/argvision-backend/pkg/logger"
	"github.com/argvision/argvision-backend/pkg/outbox"
	"github.com/argvision/argvision-backend/pkg/outbox/registry"
)

func TestServiceProcessBatchContinuesAfterFailure(t *testing.T) {
	repo := &fakeRepo{events: []models.OutboxEvent{matchEvent(t, "event-one"), matchEvent(t, "event-two")}}
	pub := &fakePublisher{errs: []error{errors.New("transient"), nil}}
	service := newTestService(t, repo, pub, &fakeRegistry{}, nil, nil)

	processed, err := service.processBatch(context.Background())
	require.NoError(t, err)
	assert.True(t, processed)
	assert.Equal(t, []uuid.UUID{repo.events[0].ID}, repo.failed)
	assert.Equal(t, []uuid.UUID{repo.events[1].ID}, repo.published)
	assert.Empty(t, repo.terminal)
}

func TestPublishRelaysEnvelopeToRoomChannel(t *testing.T) {
	event := matchEvent(t, "event-one")
	repo := &fakeRepo{events: []models.OutboxEvent{event}}
	pub := &fakePublisher{}
	service := newTestService(t, repo, pub, &fakeRegistry{}, nil, nil)

	_, err := service.processBatch(context.Background())
	require.NoError(t, err)
	require.Len(t, pub.sent, 1)
	assert.Equal(t, "test:rooms:match:"+event.AggregateID.String(), pub.sent[0].channel)
	assert.JSONEq(t, string(event.Payload), string(pub.sent[0].payload))
}

func TestServiceProcessBatchMarksUnresolvableTerminal(t *testing.T) {
	event := matchEvent(t, "event-one")
	event.EventType = "unknown_event"
	repo := &fakeRepo{events: []models.OutboxEvent{event}}
	pub := &fakePublisher{}
	service := newTestService(t, repo, pub, registry.NewEventRegistry(), nil, nil)

	_, err := service.processBatch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{event.ID}, repo.terminal)
	assert.Empty(t, pub.sent)
}

func TestServiceProcessBatchMarksTerminalOnMaxAttempts(t *testing.T) {
	event := matchEvent(t, "event-one")
	event.AttemptCount = 2
	repo := &fakeRepo{events: []models.OutboxEvent{event}}
	pub := &fakePublisher{errs: []error{errors.New("redis down")}}
	service := newTestService(t, repo, pub, &fakeRegistry{}, nil, &config.OutboxConfig{MaxAttempts: 3})

	_, err := service.processBatch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{event.ID}, repo.terminal)
	assert.Empty(t, repo.failed)
}

func TestDedupeSkipsAlreadyRelayedEvents(t *testing.T) {
	event := matchEvent(t, "event-one")
	repo := &fakeRepo{events: []models.OutboxEvent{event}}
	pub := &fakePublisher{}
	dedupe := &fakeDedupe{seen: map[string]bool{"event-one": true}}
	service := newTestService(t, repo, pub, &fakeRegistry{}, dedupe, nil)

	_, err := service.processBatch(context.Background())
	require.NoError(t, err)
	assert.Empty(t, pub.sent)
	assert.Equal(t, []uuid.UUID{event.ID}, repo.published)
}

func TestDedupeForgetsMarkerWhenPublishFails(t *testing.T) {
	event := matchEvent(t, "event-one")
	repo := &fakeRepo{events: []models.OutboxEvent{event}}
	pub := &fakePublisher{errs: []error{errors.New("redis down")}}
	dedupe := &fakeDedupe{seen: map[string]bool{}}
	service := newTestService(t, repo, pub, &fakeRegistry{}, dedupe, nil)

	_, err := service.processBatch(context.Background())
	require.NoError(t, err)
	assert.False(t, dedupe.seen["event-one"])
	assert.Equal(t, []uuid.UUID{event.ID}, repo.failed)
}

func TestNextBackoffCaps(t *testing.T) {
	assert.Equal(t, 2*time.Second, nextBackoff(time.Second, time.Second, maxBackoff))
	assert.Equal(t, maxBackoff, nextBackoff(8*time.Second, time.Second, maxBackoff))
	assert.Equal(t, 2*time.Second, nextBackoff(0, time.Second, maxBackoff))
}

func newTestService(t *testing.T, repo outboxRepository, pub roomPublisher, resolver registryResolver, dedupe deduper, outboxCfgOverride *config.OutboxConfig) *Service {
	t.Helper()
	cfg := &config.Config{Outbox: config.OutboxConfig{BatchSize: 10, PollIntervalMS: 10, MaxAttempts: 5}}
	if outboxCfgOverride != nil {
		cfg.Outbox = *outboxCfgOverride
	}
	params := ServiceParams{
		Config:     cfg,
		Logger:     logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
		DB:         &fakeDB{},
		Publisher:  pub,
		Repository: repo,
		Registry:   resolver,
	}
	if dedupe != nil {
		params.Dedupe = dedupe
	}
	service, err := NewService(params)
	require.NoError(t, err)
	return service
}

func matchEvent(tb testing.TB, eventID string) models.OutboxEvent {
	tb.Helper()
	envelope := outbox.PayloadEnvelope{
		Version:    1,
		EventID:    eventID,
		EventType:  string(enums.EventMatchCreated),
		OccurredAt: time.Now().UTC(),
		Data:       json.RawMessage(`{}`),
	}
	payload, err := json.Marshal(envelope)
	require.NoError(tb, err)
	return models.OutboxEvent{
		ID:            uuid.New(),
		EventType:     enums.EventMatchCreated,
		AggregateType: enums.AggregateMatch,
		AggregateID:   uuid.New(),
		Payload:       payload,
	}
}

type fakeRepo struct {
	events    []models.OutboxEvent
	published []uuid.UUID
	failed    []uuid.UUID
	terminal  []uuid.UUID
}

func (f *fakeRepo) FetchUnpublishedForPublish(*gorm.DB, int, int) ([]models.OutboxEvent, error) {
	return f.events, nil
}

func (f *fakeRepo) MarkPublishedTx(_ *gorm.DB, id uuid.UUID) error {
	f.published = append(f.published, id)
	return nil
}

func (f *fakeRepo) MarkFailedTx(_ *gorm.DB, id uuid.UUID, _ error) error {
	f.failed = append(f.failed, id)
	return nil
}

func (f *fakeRepo) MarkTerminalTx(_ *gorm.DB, id uuid.UUID, _ error) error {
	f.terminal = append(f.terminal, id)
	return nil
}

type fakeDB struct{}

func (f *fakeDB) Ping(context.Context) error {
	return nil
}

func (f *fakeDB) WithTx(_ context.Context, fn func(*gorm.DB) error) error {
	return fn(nil)
}

type sentMessage struct {
	channel string
	payload []byte
}

type fakePublisher struct {
	errs []error
	sent []sentMessage
}

func (f *fakePublisher) Ping(context.Context) error {
	return nil
}

func (f *fakePublisher) Publish(_ context.Context, channel string, payload []byte) error {
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		if err != nil {
			return err
		}
	}
	f.sent = append(f.sent, sentMessage{channel: channel, payload: payload})
	return nil
}

func (f *fakePublisher) RoomChannel(room string) string {
	return "test:rooms:" + room
}

// fakeRegistry resolves any row to its aggregate room without decoding data.
type fakeRegistry struct{}

func (f *fakeRegistry) Resolve(event models.OutboxEvent) (*registry.ResolvedEvent, error) {
	var envelope outbox.PayloadEnvelope
	if err := json.Unmarshal(event.Payload, &envelope); err != nil {
		return nil, registry.NewNonRetryableError(err)
	}
	return &registry.ResolvedEvent{
		Descriptor: registry.EventDescriptor{EventType: event.EventType, AggregateType: event.AggregateType},
		Envelope:   envelope,
		Room:       registry.RoomFor(event.AggregateType, event.AggregateID.String()),
	}, nil
}

type fakeDedupe struct {
	seen map[string]bool
}

func (f *fakeDedupe) CheckAndMark(_ context.Context, _ string, eventID string) (bool, error) {
	if f.seen[eventID] {
		return true, nil
	}
	f.seen[eventID] = true
	return false, nil
}

func (f *fakeDedupe) Forget(_ context.Context, _ string, eventID string) error {
	delete(f.seen, eventID)
	return nil
}
