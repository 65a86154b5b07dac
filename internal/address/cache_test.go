package address

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) Cache {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return Cache{R: client, Max: 5, TTL: time.Hour}
}

func sampleAddr(street string) Address {
	a := fullAddress()
	a.Street = street
	return a
}

func TestRememberAndRecent(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Remember(ctx, "cust-1", sampleAddr("First St")))
	require.NoError(t, c.Remember(ctx, "cust-1", sampleAddr("Second St")))

	got, err := c.Recent(ctx, "cust-1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "Second St", got[0].Street)
	require.Equal(t, "First St", got[1].Street)
}

func TestRememberEvictsOldest(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	for i := 1; i <= 7; i++ {
		require.NoError(t, c.Remember(ctx, "cust-1", sampleAddr("Street "+strconv.Itoa(i))))
	}

	got, err := c.Recent(ctx, "cust-1")
	require.NoError(t, err)
	require.Len(t, got, 5)
	require.Equal(t, "Street 7", got[0].Street)
	require.Equal(t, "Street 3", got[4].Street)
}

func TestRememberMovesDuplicateToFront(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Remember(ctx, "cust-1", sampleAddr("A")))
	require.NoError(t, c.Remember(ctx, "cust-1", sampleAddr("B")))
	require.NoError(t, c.Remember(ctx, "cust-1", sampleAddr("A")))

	got, err := c.Recent(ctx, "cust-1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "A", got[0].Street)
	require.Equal(t, "B", got[1].Street)
}

func TestRecentIsolatedPerCustomer(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Remember(ctx, "cust-1", sampleAddr("Mine")))

	got, err := c.Recent(ctx, "cust-2")
	require.NoError(t, err)
	require.Empty(t, got)
}
