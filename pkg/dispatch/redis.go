package dispatch

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tilewright/tilewright/pkg/errors"
	"github.com/tilewright/tilewright/pkg/observability"
)

// channelPrefix namespaces map channels so a shared Redis instance can
// serve other applications.
const channelPrefix = "tilewright:map:"

// RedisConfig configures the Redis-backed bus.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// RedisBus is a Bus backed by Redis pub/sub, one channel per map. It lets
// multiple server instances share live-update traffic: a proxy publishing
// on one instance reaches viewers connected to any other.
type RedisBus struct {
	client *redis.Client
}

// NewRedisBus connects to Redis and verifies the connection with a ping.
func NewRedisBus(ctx context.Context, cfg RedisConfig) (*RedisBus, error) {
	client := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		PoolSize:    4,
		DialTimeout: 3 * time.Second,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "connecting to redis at %s", cfg.Addr)
	}
	return &RedisBus{client: client}, nil
}

// Publish sends msg on the channel for msg.MapID.
func (b *RedisBus) Publish(ctx context.Context, msg Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encoding dispatch message")
	}
	if err := b.client.Publish(ctx, channelPrefix+msg.MapID, data).Err(); err != nil {
		wrapped := errors.Wrap(errors.ErrCodeNetwork, err, "publishing to map %s", msg.MapID)
		observability.Dispatch().OnPublish(ctx, msg.MapID, msg.Method, wrapped)
		return wrapped
	}
	observability.Dispatch().OnPublish(ctx, msg.MapID, msg.Method, nil)
	return nil
}

// Subscribe listens on the channel for mapID and delivers decoded messages
// to h in arrival order. Messages that fail to decode are dropped.
func (b *RedisBus) Subscribe(ctx context.Context, mapID string, h Handler) (func(), error) {
	sub := b.client.Subscribe(ctx, channelPrefix+mapID)
	// Force the subscription onto the wire before returning, so callers can
	// publish immediately after.
	if _, err := sub.Receive(ctx); err != nil {
		sub.Close()
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "subscribing to map %s", mapID)
	}

	go func() {
		for redisMsg := range sub.Channel() {
			var msg Message
			if err := json.Unmarshal([]byte(redisMsg.Payload), &msg); err != nil {
				continue
			}
			h(msg)
		}
	}()
	observability.Dispatch().OnSubscribe(mapID)

	return func() {
		_ = sub.Close()
		observability.Dispatch().OnUnsubscribe(mapID)
	}, nil
}

// Close releases the Redis connection pool, ending all subscriptions.
func (b *RedisBus) Close() error {
	return b.client.Close()
}

var _ Bus = (*RedisBus)(nil)
