package notify

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	gateerr "github.com/mrz1836/tokengate/pkg/errors"
)

// RedisChannel publishes JSON envelopes on a Redis pub/sub channel.
type RedisChannel struct {
	client  redis.UniversalClient
	channel string
	now     func() time.Time
	owned   bool
}

// NewRedisChannel connects to addr and publishes on channel.
func NewRedisChannel(addr, channel string, timeout time.Duration) (*RedisChannel, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, gateerr.WithDetails(gateerr.ErrConfigInvalid, map[string]string{"auth.redis_addr": "required"})
	}
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}

	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  timeout,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
	})
	ch := NewRedisChannelWithClient(client, channel)
	ch.owned = true
	return ch, nil
}

// NewRedisChannelWithClient publishes through an existing client. The
// caller keeps ownership of client.
func NewRedisChannelWithClient(client redis.UniversalClient, channel string) *RedisChannel {
	return &RedisChannel{
		client:  client,
		channel: channel,
		now:     time.Now,
	}
}

// Channel returns the pub/sub channel name.
func (c *RedisChannel) Channel() string {
	return c.channel
}

// Send publishes one envelope.
func (c *RedisChannel) Send(ctx context.Context, msgType string, payload any) error {
	env, err := newEnvelope(msgType, payload, c.now())
	if err != nil {
		return gateerr.WithCause(gateerr.ErrSendFailed, err)
	}

	data, err := json.Marshal(env)
	if err != nil {
		return gateerr.WithCause(gateerr.ErrSendFailed, err)
	}

	if err = c.client.Publish(ctx, c.channel, data).Err(); err != nil {
		return gateerr.WithDetails(gateerr.WithCause(gateerr.ErrSendFailed, err),
			map[string]string{"channel": c.channel})
	}
	return nil
}

// Close releases the client if the channel created it.
func (c *RedisChannel) Close() error {
	if !c.owned {
		return nil
	}
	return c.client.Close()
}
