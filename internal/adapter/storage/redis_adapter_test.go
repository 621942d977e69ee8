package storage

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rl1809/vending/internal/core/domain"
	"github.com/rl1809/vending/internal/port"
)

func testSnapshot() domain.Snapshot {
	return domain.Snapshot{
		Items: []domain.Item{
			{Name: "chips", Price: decimal.RequireFromString("1.50"), Quantity: 9},
			{Name: "soda", Price: decimal.RequireFromString("2.00"), Quantity: 0},
		},
		Balance: decimal.RequireFromString("0.50"),
	}
}

func newMiniRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func TestRedisAdapter_SaveLoad(t *testing.T) {
	mr, client := newMiniRedis(t)
	ctx := context.Background()
	adapter := NewRedisAdapter(client, 0)

	require.NoError(t, adapter.Save(ctx, "lobby", testSnapshot()))
	assert.True(t, mr.Exists("vending:snapshot:lobby"))

	got, err := adapter.Load(ctx, "lobby")
	require.NoError(t, err)
	require.Len(t, got.Items, 2)
	assert.Equal(t, "chips", got.Items[0].Name)
	assert.Equal(t, 9, got.Items[0].Quantity)
	assert.True(t, got.Balance.Equal(decimal.RequireFromString("0.50")))
}

func TestRedisAdapter_LoadMissing(t *testing.T) {
	_, client := newMiniRedis(t)

	_, err := NewRedisAdapter(client, 0).Load(context.Background(), "nowhere")

	assert.ErrorIs(t, err, port.ErrSnapshotNotFound)
}

func TestRedisAdapter_TTL(t *testing.T) {
	mr, client := newMiniRedis(t)
	ctx := context.Background()
	adapter := NewRedisAdapter(client, time.Minute)

	require.NoError(t, adapter.Save(ctx, "lobby", testSnapshot()))
	mr.FastForward(2 * time.Minute)

	_, err := adapter.Load(ctx, "lobby")
	assert.ErrorIs(t, err, port.ErrSnapshotNotFound)
}

func TestRedisAdapter_CorruptSnapshot(t *testing.T) {
	mr, client := newMiniRedis(t)
	require.NoError(t, mr.Set("vending:snapshot:lobby", "{not json"))

	_, err := NewRedisAdapter(client, 0).Load(context.Background(), "lobby")

	require.Error(t, err)
	assert.NotErrorIs(t, err, port.ErrSnapshotNotFound)
}
