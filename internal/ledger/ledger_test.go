package ledger_test

import (
	"context"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/offerlab/coupon-api/internal/ledger"
)

func newStore(t *testing.T) ledger.Store {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return ledger.Store{R: client}
}

func TestCountDefaultsToZero(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	count, err := store.Count(ctx, "user-1", "WELCOME100")
	require.NoError(t, err)
	require.Zero(t, count)
}

func TestIncrementAndCount(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	for i := int64(1); i <= 3; i++ {
		count, err := store.Increment(ctx, "user-1", "IN-FREEDEL")
		require.NoError(t, err)
		require.Equal(t, i, count)
	}

	count, err := store.Count(ctx, "user-1", "IN-FREEDEL")
	require.NoError(t, err)
	require.Equal(t, int64(3), count)

	// Another user's ledger is untouched.
	other, err := store.Count(ctx, "user-2", "IN-FREEDEL")
	require.NoError(t, err)
	require.Zero(t, other)
}

func TestCountsLoadsWholeLedger(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	_, err := store.Increment(ctx, "user-1", "WELCOME100")
	require.NoError(t, err)
	_, err = store.Increment(ctx, "user-1", "GOLD20")
	require.NoError(t, err)
	_, err = store.Increment(ctx, "user-1", "GOLD20")
	require.NoError(t, err)

	counts, err := store.Counts(ctx, "user-1")
	require.NoError(t, err)
	require.Equal(t, map[string]int64{"WELCOME100": 1, "GOLD20": 2}, counts)
}
