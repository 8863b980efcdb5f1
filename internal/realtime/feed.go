package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/argvision/argvision-backend/internal/notifications"
	"github.com/argvision/argvision-backend/pkg/logger"
	pkgredis "github.com/argvision/argvision-backend/pkg/redis"
)

// Frame is the JSON document written to sockets.
type Frame struct {
	Type string          `json:"type"`
	Room string          `json:"room,omitempty"`
	Data json.RawMessage `json:"data"`
}

// Frame types.
const (
	FrameNotification = "notification"
	FrameEvent        = "event"
)

// Source is the pub/sub surface the feed consumes.
type Source interface {
	Listen(ctx context.Context, handler pkgredis.MessageHandler, patterns ...string) error
	RoomPattern() string
	RoomFromChannel(channel string) (string, bool)
}

// Feed relays pub/sub deliveries into the hub.
type Feed struct {
	hub                  *Hub
	source               Source
	notificationsChannel string
	logg                 *logger.Logger
	retryDelay           time.Duration
}

// NewFeed wires a hub to source. notificationsChannel is the fully
// qualified channel the notification dispatcher publishes to.
func NewFeed(hub *Hub, source Source, notificationsChannel string, logg *logger.Logger) (*Feed, error) {
	if hub == nil {
		return nil, errors.New("realtime hub required")
	}
	if source == nil {
		return nil, errors.New("pubsub source required")
	}
	if notificationsChannel == "" {
		return nil, errors.New("notifications channel required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &Feed{
		hub:                  hub,
		source:               source,
		notificationsChannel: notificationsChannel,
		logg:                 logg,
		retryDelay:           time.Second,
	}, nil
}

// Run listens until ctx is done, resubscribing after transport errors.
func (f *Feed) Run(ctx context.Context) error {
	for {
		err := f.source.Listen(ctx, f.Handle, f.notificationsChannel, f.source.RoomPattern())
		if ctx.Err() != nil {
			return nil
		}
		if err != nil {
			f.logg.Error(ctx, "realtime subscription failed", err)
		}
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(f.retryDelay):
		}
	}
}

// Handle routes one delivery to the matching sockets.
func (f *Feed) Handle(channel string, payload []byte) {
	ctx := f.logg.WithField(context.Background(), "channel", channel)

	if channel == f.notificationsChannel {
		var delivery notifications.Delivery
		if err := json.Unmarshal(payload, &delivery); err != nil {
			f.logg.Error(ctx, "decode notification delivery", err)
			return
		}
		data, err := json.Marshal(delivery.Notification)
		if err != nil {
			f.logg.Error(ctx, "encode notification frame", err)
			return
		}
		frame, err := json.Marshal(Frame{Type: FrameNotification, Data: data})
		if err != nil {
			f.logg.Error(ctx, "encode notification frame", err)
			return
		}
		f.hub.SendToUser(delivery.UserID, frame)
		return
	}

	room, ok := f.source.RoomFromChannel(channel)
	if !ok {
		f.logg.Warn(ctx, "ignoring delivery on unknown channel")
		return
	}
	if !json.Valid(payload) {
		f.logg.Warn(ctx, "ignoring malformed room event")
		return
	}
	frame, err := json.Marshal(Frame{Type: FrameEvent, Room: room, Data: payload})
	if err != nil {
		f.logg.Error(ctx, "encode room frame", err)
		return
	}
	f.hub.Broadcast(room, frame)
}
