package realtime

import (
	"context"
	"encoding/json"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"sprintos.backend/internal/domain/entities"
	"sprintos.backend/pkg/logger"
	"sprintos.backend/pkg/redis"
)

// DefaultChannel is the redis pub/sub channel carrying changes between instances
const DefaultChannel = "sprintos:changes"

var (
	publishMessage   = redis.Publish
	subscribeChannel = redis.Subscribe
)

// RedisBroker publishes changes to redis and relays every change received
// from redis (including its own) into the local hub.
type RedisBroker struct {
	hub     *Hub
	channel string
}

// NewRedisBroker creates a broker bound to hub
func NewRedisBroker(hub *Hub, channel string) *RedisBroker {
	if channel == "" {
		channel = DefaultChannel
	}
	return &RedisBroker{hub: hub, channel: channel}
}

// Publish sends change to every instance. When redis is unreachable the
// change is still delivered to local subscribers.
func (b *RedisBroker) Publish(ctx context.Context, change entities.Change) error {
	payload, err := json.Marshal(change)
	if err != nil {
		return fmt.Errorf("marshal change: %w", err)
	}

	if err := publishMessage(ctx, b.channel, payload); err != nil {
		logger.Warn(ctx, "Realtime publish failed, delivering locally",
			zap.String("table", change.Table),
			zap.Error(err),
		)
		b.hub.Deliver(change)
	}
	return nil
}

// Start subscribes to the channel and relays messages until ctx is done.
// It returns once the subscription is confirmed by redis.
func (b *RedisBroker) Start(ctx context.Context) error {
	sub := subscribeChannel(ctx, b.channel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("subscribe %s: %w", b.channel, err)
	}

	go b.relay(ctx, sub)
	return nil
}

func (b *RedisBroker) relay(ctx context.Context, sub *goredis.PubSub) {
	defer sub.Close()

	msgs := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-msgs:
			if !ok {
				return
			}
			var change entities.Change
			if err := json.Unmarshal([]byte(msg.Payload), &change); err != nil {
				logger.Warn(ctx, "Dropping malformed realtime message", zap.Error(err))
				continue
			}
			b.hub.Deliver(change)
		}
	}
}
