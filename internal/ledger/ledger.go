// Package ledger tracks per-user coupon redemption counts. Counts live in a
// redis hash per user, which keeps the read-check-increment on the apply path
// atomic at the command level and makes the whole ledger for one user
// loadable in a single round trip.
package ledger

import (
	"context"
	"errors"
	"strconv"
	"time"

	redis "github.com/redis/go-redis/v9"
)

const defaultPrefix = "ledger:"

// Store is the redis-backed usage ledger.
type Store struct {
	R      *redis.Client
	Prefix string
}

func (s Store) key(userID string) string {
	prefix := s.Prefix
	if prefix == "" {
		prefix = defaultPrefix
	}
	return prefix + userID
}

// Count returns how many times the user has redeemed the coupon code.
// Unknown users and codes report zero.
func (s Store) Count(ctx context.Context, userID, code string) (int64, error) {
	if s.R == nil {
		return 0, errors.New("ledger: redis client not configured")
	}
	value, err := s.R.HGet(ctx, s.key(userID), code).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, err
	}
	count, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// Counts loads every redemption count for the user in one round trip.
func (s Store) Counts(ctx context.Context, userID string) (map[string]int64, error) {
	if s.R == nil {
		return nil, errors.New("ledger: redis client not configured")
	}
	values, err := s.R.HGetAll(ctx, s.key(userID)).Result()
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(values))
	for code, raw := range values {
		count, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			continue
		}
		counts[code] = count
	}
	return counts, nil
}

// Increment records one redemption and returns the new count. Entries are
// created lazily on first apply and never pruned.
func (s Store) Increment(ctx context.Context, userID, code string) (int64, error) {
	if s.R == nil {
		return 0, errors.New("ledger: redis client not configured")
	}
	return s.R.HIncrBy(ctx, s.key(userID), code, 1).Result()
}

// Ping probes the underlying store for readiness checks.
func (s Store) Ping(ctx context.Context, timeout time.Duration) error {
	if s.R == nil {
		return errors.New("ledger: redis client not configured")
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return s.R.Ping(ctx).Err()
}
