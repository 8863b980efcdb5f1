package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/argvision/argvision-backend/pkg/config"
	"github.com/argvision/argvision-backend/pkg/db/dbtest"
	"github.com/argvision/argvision-backend/pkg/db/models"
	"github.com/argvision/argvision-backend/pkg/enums"
	"github.com/argvision/argvision-backend/pkg/metrics"
)

type recordingPublisher struct {
	mu       sync.Mutex
	messages map[string][][]byte
	err      error
}

func (p *recordingPublisher) Publish(_ context.Context, channel string, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	if p.messages == nil {
		p.messages = map[string][][]byte{}
	}
	p.messages[channel] = append(p.messages[channel], payload)
	return nil
}

// blockingRepository holds every Create until release is closed.
type blockingRepository struct {
	fakeRepository
	release chan struct{}
}

func (b *blockingRepository) Create(ctx context.Context, n *models.Notification) error {
	<-b.release
	return nil
}

func dispatcherConfig(queue, workers int) config.NotificationsConfig {
	return config.NotificationsConfig{QueueSize: queue, Workers: workers, DeliveryTimeout: time.Second}
}

func TestDispatcherPersistsAndPublishes(t *testing.T) {
	client := dbtest.Open(t)
	user := dbtest.CreateUser(t, client, "dana")
	pub := &recordingPublisher{}

	dispatcher, err := NewDispatcher(DispatcherParams{
		Repo:      NewRepository(client.DB()),
		Publisher: pub,
		Channel:   "av:notifications",
		Config:    dispatcherConfig(8, 2),
	})
	require.NoError(t, err)
	dispatcher.Start()

	matchID := uuid.New()
	dispatcher.Notify(context.Background(), Notice{
		UserID:  user.ID,
		Kind:    enums.NotificationMatchInvite,
		Message: "you are invited",
		MatchID: &matchID,
	})
	dispatcher.Close()

	var rows []models.Notification
	require.NoError(t, client.DB().Where("user_id = ?", user.ID).Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, enums.NotificationMatchInvite, rows[0].Kind)
	require.NotNil(t, rows[0].MatchID)
	assert.Equal(t, matchID, *rows[0].MatchID)

	require.Len(t, pub.messages["av:notifications"], 1)
	var delivery Delivery
	require.NoError(t, json.Unmarshal(pub.messages["av:notifications"][0], &delivery))
	assert.Equal(t, user.ID, delivery.UserID)
	assert.Equal(t, "you are invited", delivery.Notification.Message)
}

func TestDispatcherDropsWhenQueueFull(t *testing.T) {
	repo := &blockingRepository{release: make(chan struct{})}
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	dispatcher, err := NewDispatcher(DispatcherParams{
		Repo:    repo,
		Config:  dispatcherConfig(1, 1),
		Metrics: m,
	})
	require.NoError(t, err)

	// Without workers the queue holds exactly one notice.
	notice := Notice{UserID: uuid.New(), Kind: enums.NotificationMatchKick, Message: "kicked"}
	done := make(chan struct{})
	go func() {
		dispatcher.Notify(context.Background(), notice)
		dispatcher.Notify(context.Background(), notice)
		dispatcher.Notify(context.Background(), notice)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Notify blocked on a full queue")
	}

	mfs, err := reg.Gather()
	require.NoError(t, err)
	var dropped float64
	for _, mf := range mfs {
		if mf.GetName() != "argvision_notifications_total" {
			continue
		}
		for _, metric := range mf.GetMetric() {
			for _, label := range metric.GetLabel() {
				if label.GetName() == "outcome" && label.GetValue() == "dropped" {
					dropped = metric.GetCounter().GetValue()
				}
			}
		}
	}
	assert.Equal(t, float64(2), dropped)

	close(repo.release)
	dispatcher.Close()
}

func TestDispatcherSwallowsFailures(t *testing.T) {
	repo := &fakeRepository{createErr: errors.New("db down")}
	dispatcher, err := NewDispatcher(DispatcherParams{Repo: repo, Config: dispatcherConfig(4, 1)})
	require.NoError(t, err)
	dispatcher.Start()

	dispatcher.Notify(context.Background(), Notice{UserID: uuid.New(), Kind: enums.NotificationMatchBan, Message: "banned"})
	dispatcher.Close()

	// Notify after Close is dropped rather than panicking.
	dispatcher.Notify(context.Background(), Notice{UserID: uuid.New(), Kind: enums.NotificationMatchBan, Message: "late"})
	assert.Empty(t, repo.created)
}

func TestDispatcherDiscardsMalformedNotice(t *testing.T) {
	repo := &fakeRepository{}
	dispatcher, err := NewDispatcher(DispatcherParams{Repo: repo, Config: dispatcherConfig(4, 1)})
	require.NoError(t, err)
	dispatcher.Start()

	dispatcher.Notify(context.Background(), Notice{Kind: enums.NotificationMatchBan})
	dispatcher.Notify(context.Background(), Notice{UserID: uuid.New(), Kind: "bogus"})
	dispatcher.Close()
	assert.Empty(t, repo.created)
}

func TestNewDispatcherValidatesConfig(t *testing.T) {
	_, err := NewDispatcher(DispatcherParams{Config: dispatcherConfig(1, 1)})
	assert.Error(t, err)
	_, err = NewDispatcher(DispatcherParams{Repo: &fakeRepository{}, Config: dispatcherConfig(0, 1)})
	assert.Error(t, err)
	_, err = NewDispatcher(DispatcherParams{Repo: &fakeRepository{}, Config: dispatcherConfig(1, 0)})
	assert.Error(t, err)
}
