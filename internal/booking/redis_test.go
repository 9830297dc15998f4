package booking

import (
	"context"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autosync/serving/internal/domain"
)

func newRedisCalendarForTest(t *testing.T) *RedisCalendar {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisCalendar(client)
}

func TestRedisFindAndBook(t *testing.T) {
	c := newRedisCalendarForTest(t)
	ctx := context.Background()

	slot, err := c.FindAvailableSlot(ctx)
	require.NoError(t, err)
	require.NotNil(t, slot)
	assert.Equal(t, "S1", slot.SlotID)

	ok, err := c.BookSlot(ctx, slot.SlotID, "TN-22-BJ-2730")
	require.NoError(t, err)
	assert.True(t, ok)

	next, err := c.FindAvailableSlot(ctx)
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, "S2", next.SlotID)
}

func TestRedisDoubleBookReturnsFalse(t *testing.T) {
	c := newRedisCalendarForTest(t)
	ctx := context.Background()

	ok, err := c.BookSlot(ctx, "S1", "TN-22-BJ-2730")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = c.BookSlot(ctx, "S1", "KA-01-AB-1234")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisCalendarExhausted(t *testing.T) {
	c := newRedisCalendarForTest(t)
	ctx := context.Background()

	for _, slot := range DemoSlots {
		ok, err := c.BookSlot(ctx, slot.SlotID, "TN-22-BJ-2730")
		require.NoError(t, err)
		require.True(t, ok)
	}

	slot, err := c.FindAvailableSlot(ctx)
	require.NoError(t, err)
	assert.Nil(t, slot, "no slot once the calendar is full")
}

func TestRedisHistoryRoundTrip(t *testing.T) {
	c := newRedisCalendarForTest(t)
	ctx := context.Background()
	reg := "TN-22-BJ-2730"

	_, err := c.BookSlot(ctx, "S1", reg)
	require.NoError(t, err)
	_, err = c.BookSlot(ctx, "S2", reg)
	require.NoError(t, err)

	records, err := c.History(ctx, reg)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "S1", records[0].SlotID)
	assert.Equal(t, "2024-03-15", records[0].Date)
	assert.Equal(t, domain.BookingBooked, records[0].Status)
	assert.Equal(t, reg, records[0].VehicleReg)
}

func TestRedisConcurrentClaimsSingleWinner(t *testing.T) {
	c := newRedisCalendarForTest(t)
	ctx := context.Background()

	const racers = 10
	var wg sync.WaitGroup
	var mu sync.Mutex
	winners := 0

	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := c.BookSlot(ctx, "S4", "TN-22-BJ-2730")
			assert.NoError(t, err)
			if ok {
				mu.Lock()
				winners++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, winners, "SetNX admits exactly one claim")
}
