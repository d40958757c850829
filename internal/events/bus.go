// Package events relays progression events between server instances over Redis pub/sub,
// so a pilot connected to one instance sees rounds saved through another.
package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"galaxymath/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Channel is the Redis channel every instance publishes to and subscribes on
const Channel = "galaxymath:progress"

const publishTimeout = 2 * time.Second

// Publisher delivers events to the sockets connected to this process
type Publisher interface {
	Publish(event models.GamificationEvent)
}

// envelope tags each event with its origin so an instance can tell its own messages apart
type envelope struct {
	Origin string                   `json:"origin"`
	Event  models.GamificationEvent `json:"event"`
}

// Bus publishes through Redis when it is configured and straight to the local hub otherwise
type Bus struct {
	rdb      *redis.Client
	local    Publisher
	origin   string
	logger   *zap.Logger
	ready    chan struct{}
	readyOne sync.Once
}

func NewBus(rdb *redis.Client, local Publisher, logger *zap.Logger) *Bus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bus{
		rdb:    rdb,
		local:  local,
		origin: uuid.NewString(),
		logger: logger,
		ready:  make(chan struct{}),
	}
}

// Publish delivers event locally at once and fans it out to the other instances
func (b *Bus) Publish(event models.GamificationEvent) {
	b.local.Publish(event)
	if b.rdb == nil {
		return
	}

	raw, err := json.Marshal(envelope{Origin: b.origin, Event: event})
	if err != nil {
		b.logger.Error("failed to encode progress event", zap.Error(err))
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	if err := b.rdb.Publish(ctx, Channel, raw).Err(); err != nil {
		b.logger.Warn("failed to relay progress event", zap.String("type", event.Type), zap.Error(err))
	}
}

// Ready is closed once Run holds a live subscription, or at once when Redis is off
func (b *Bus) Ready() <-chan struct{} {
	if b.rdb == nil {
		b.readyOne.Do(func() { close(b.ready) })
	}
	return b.ready
}

// Run forwards events published by other instances to the local hub until ctx is done
func (b *Bus) Run(ctx context.Context) error {
	if b.rdb == nil {
		b.readyOne.Do(func() { close(b.ready) })
		<-ctx.Done()
		return nil
	}

	sub := b.rdb.Subscribe(ctx, Channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return err
	}
	b.readyOne.Do(func() { close(b.ready) })

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var env envelope
			if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
				b.logger.Warn("dropping malformed progress event", zap.Error(err))
				continue
			}
			if env.Origin == b.origin {
				continue
			}
			b.local.Publish(env.Event)
		}
	}
}
