package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/argvision/argvision-backend/pkg/config"
	"github.com/argvision/argvision-backend/pkg/db/models"
	"github.com/argvision/argvision-backend/pkg/enums"
	"github.com/argvision/argvision-backend/pkg/logger"
	"github.com/argvision/argvision-backend/pkg/metrics"
)

// Notice is a message for one user.
type Notice struct {
	UserID  uuid.UUID
	Kind    enums.NotificationKind
	Message string
	MatchID *uuid.UUID
}

// Notifier accepts notices without reporting failures. Callers invoke it
// only after their transaction has committed.
type Notifier interface {
	Notify(ctx context.Context, notice Notice)
}

// Delivery is the payload published on the notifications channel.
type Delivery struct {
	UserID       uuid.UUID           `json:"user_id"`
	Notification models.Notification `json:"notification"`
}

type publisher interface {
	Publish(ctx context.Context, channel string, payload []byte) error
}

// DispatcherParams groups the dispatcher dependencies.
type DispatcherParams struct {
	Repo      Repository
	Publisher publisher
	Channel   string
	Config    config.NotificationsConfig
	Logger    *logger.Logger
	Metrics   *metrics.Metrics
}

type queued struct {
	ctx    context.Context
	notice Notice
}

// Dispatcher delivers notices on a fixed worker pool. Notify never blocks:
// when the queue is full the notice is dropped and logged.
type Dispatcher struct {
	repo      Repository
	publisher publisher
	channel   string
	timeout   time.Duration
	workers   int
	logg      *logger.Logger
	metrics   *metrics.Metrics

	mu      sync.RWMutex
	queue   chan queued
	closed  bool
	started bool
	wg      sync.WaitGroup
}

// NewDispatcher validates the params and allocates the queue.
func NewDispatcher(params DispatcherParams) (*Dispatcher, error) {
	if params.Repo == nil {
		return nil, errors.New("notifications repository required")
	}
	if params.Config.Workers <= 0 {
		return nil, errors.New("notification workers must be positive")
	}
	if params.Config.QueueSize <= 0 {
		return nil, errors.New("notification queue size must be positive")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	timeout := params.Config.DeliveryTimeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Dispatcher{
		repo:      params.Repo,
		publisher: params.Publisher,
		channel:   params.Channel,
		timeout:   timeout,
		workers:   params.Config.Workers,
		logg:      logg,
		metrics:   params.Metrics,
		queue:     make(chan queued, params.Config.QueueSize),
	}, nil
}

// Start launches the worker pool. It is a no-op after the first call.
func (d *Dispatcher) Start() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.started || d.closed {
		return
	}
	d.started = true
	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.work()
	}
}

// Notify enqueues the notice for asynchronous delivery.
func (d *Dispatcher) Notify(ctx context.Context, notice Notice) {
	if ctx == nil {
		ctx = context.Background()
	}
	if notice.UserID == uuid.Nil || !notice.Kind.IsValid() {
		d.logg.Warn(d.logg.WithField(ctx, "kind", notice.Kind), "discarding malformed notification")
		d.metrics.IncNotification("dropped")
		return
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		d.logg.Warn(d.logg.WithUserID(ctx, notice.UserID.String()), "notification dispatcher closed; dropping notice")
		d.metrics.IncNotification("dropped")
		return
	}
	select {
	case d.queue <- queued{ctx: context.WithoutCancel(ctx), notice: notice}:
		d.metrics.SetNotificationQueueDepth(len(d.queue))
	default:
		logCtx := d.logg.WithFields(ctx, map[string]any{
			"user_id": notice.UserID.String(),
			"kind":    notice.Kind,
		})
		d.logg.Warn(logCtx, "notification queue full; dropping notice")
		d.metrics.IncNotification("dropped")
	}
}

// Close stops accepting notices, drains the queue and waits for the workers.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.queue)
	started := d.started
	d.mu.Unlock()

	if !started {
		for item := range d.queue {
			d.deliver(item)
		}
		return
	}
	d.wg.Wait()
}

func (d *Dispatcher) work() {
	defer d.wg.Done()
	for item := range d.queue {
		d.metrics.SetNotificationQueueDepth(len(d.queue))
		d.deliver(item)
	}
}

func (d *Dispatcher) deliver(item queued) {
	ctx, cancel := context.WithTimeout(item.ctx, d.timeout)
	defer cancel()

	ctx = d.logg.WithFields(ctx, map[string]any{
		"user_id": item.notice.UserID.String(),
		"kind":    item.notice.Kind,
	})

	row := models.Notification{
		UserID:  item.notice.UserID,
		Kind:    item.notice.Kind,
		Message: item.notice.Message,
		MatchID: item.notice.MatchID,
	}
	if err := d.repo.Create(ctx, &row); err != nil {
		d.logg.Error(ctx, "persist notification", err)
		d.metrics.IncNotification("failed")
		return
	}

	if d.publisher != nil && d.channel != "" {
		payload, err := json.Marshal(Delivery{UserID: row.UserID, Notification: row})
		if err == nil {
			err = d.publisher.Publish(ctx, d.channel, payload)
		}
		if err != nil {
			d.logg.Error(ctx, "publish notification", err)
			d.metrics.IncNotification("publish_failed")
			return
		}
	}
	d.metrics.IncNotification("delivered")
}
