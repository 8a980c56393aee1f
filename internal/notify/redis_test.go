package notify

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gateerr "github.com/mrz1836/tokengate/pkg/errors"
)

func newMiniredisClient(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestNewRedisChannel(t *testing.T) {
	t.Parallel()

	_, err := NewRedisChannel("", "tokengate:builder", time.Second)
	require.ErrorIs(t, err, gateerr.ErrConfigInvalid)

	mr := miniredis.RunT(t)
	ch, err := NewRedisChannel(mr.Addr(), "tokengate:builder", 0)
	require.NoError(t, err)
	assert.Equal(t, "tokengate:builder", ch.Channel())
	require.NoError(t, ch.Send(context.Background(), MsgRevokeBuilder, nil))
	require.NoError(t, ch.Close())
}

func TestRedisChannel_Publish(t *testing.T) {
	t.Parallel()

	_, rdb := newMiniredisClient(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	sub := rdb.Subscribe(ctx, "tokengate:builder")
	defer func() { _ = sub.Close() }()
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	ch := NewRedisChannelWithClient(rdb, "tokengate:builder")
	require.NoError(t, ch.Send(ctx, MsgRequestBuilder, BuilderRequest{WalletAddress: testAddress, TokenBalance: 12000}))

	var msg *redis.Message
	select {
	case msg = <-sub.Channel():
	case <-ctx.Done():
		t.Fatal("no message published")
	}

	var env Envelope
	require.NoError(t, json.Unmarshal([]byte(msg.Payload), &env))
	assert.Equal(t, MsgRequestBuilder, env.Type)
	assert.NotEmpty(t, env.ID)

	var payload BuilderRequest
	require.NoError(t, json.Unmarshal(env.Payload, &payload))
	assert.Equal(t, testAddress, payload.WalletAddress)
	assert.InDelta(t, 12000.0, payload.TokenBalance, 0)

	require.NoError(t, ch.Close(), "borrowed client is left open")
	require.NoError(t, rdb.Ping(ctx).Err())
}

func TestRedisChannel_ServerDown(t *testing.T) {
	t.Parallel()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = rdb.Close() })
	mr.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	err = NewRedisChannelWithClient(rdb, "tokengate:builder").Send(ctx, MsgRevokeBuilder, nil)
	require.ErrorIs(t, err, gateerr.ErrSendFailed)
}

func TestNopChannel(t *testing.T) {
	t.Parallel()
	assert.NoError(t, NopChannel{}.Send(context.Background(), MsgRevokeBuilder, nil))
}
