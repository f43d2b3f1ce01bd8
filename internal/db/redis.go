package db

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Defaults used when a store is created without explicit limits.
const (
	DefaultViewWindow = 720 * time.Hour
	DefaultMaxViews   = 50
)

// RedisStore keeps per-user flight view history in Redis. Each (user, flight)
// pair is a sorted set of view timestamps scored by epoch seconds, and each
// user has a set indexing the flights they have seen.
type RedisStore struct {
	Client *redis.Client
	// Window bounds how far back views are kept.
	Window time.Duration
	// MaxViews caps the timestamps kept per flight, newest first.
	MaxViews int
}

// InitRedis initializes a Redis client and returns a RedisStore.
func InitRedis(ctx context.Context, addr string, window time.Duration, maxViews int) (*RedisStore, error) {
	rs := NewRedisStore(redis.NewClient(&redis.Options{Addr: addr}), window, maxViews)

	if err := redisotel.InstrumentTracing(rs.Client); err != nil {
		return nil, fmt.Errorf("failed to instrument redis tracing: %w", err)
	}

	if err := rs.Client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	zap.L().Info("Connected to Redis", zap.String("addr", addr))
	return rs, nil
}

// NewRedisStore wraps an existing client. Non-positive limits take the defaults.
func NewRedisStore(client *redis.Client, window time.Duration, maxViews int) *RedisStore {
	if window <= 0 {
		window = DefaultViewWindow
	}
	if maxViews <= 0 {
		maxViews = DefaultMaxViews
	}
	return &RedisStore{Client: client, Window: window, MaxViews: maxViews}
}

func viewKey(userKey string, flightID int) string {
	return fmt.Sprintf("flightviews:%s:%d", userKey, flightID)
}

func indexKey(userKey string) string {
	return fmt.Sprintf("flightviews:%s", userKey)
}

// RecordFlightView stores one view of flightID at viewedAt (epoch seconds).
// Views at the same second collapse into one.
func (r *RedisStore) RecordFlightView(ctx context.Context, userKey string, flightID int, viewedAt int64) error {
	return r.RecordFlightViews(ctx, userKey, []int{flightID}, viewedAt)
}

// RecordFlightViews stores a view of every flight in one round trip, then
// prunes each flight's history to the window and the per-flight cap.
func (r *RedisStore) RecordFlightViews(ctx context.Context, userKey string, flightIDs []int, viewedAt int64) error {
	if len(flightIDs) == 0 {
		return nil
	}
	cutoff := viewedAt - int64(r.Window/time.Second)
	member := strconv.FormatInt(viewedAt, 10)

	pipe := r.Client.TxPipeline()
	for _, id := range flightIDs {
		key := viewKey(userKey, id)
		pipe.ZAdd(ctx, key, redis.Z{Score: float64(viewedAt), Member: member})
		pipe.ZRemRangeByScore(ctx, key, "-inf", "("+strconv.FormatInt(cutoff, 10))
		pipe.ZRemRangeByRank(ctx, key, 0, int64(-(r.MaxViews + 1)))
		pipe.Expire(ctx, key, r.Window)
		pipe.SAdd(ctx, indexKey(userKey), id)
	}
	pipe.Expire(ctx, indexKey(userKey), r.Window)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("record flight views: %w", err)
	}
	return nil
}

// FlightViewTimes returns every flight the user saw in the window ending at
// now, with timestamps in ascending order. Flights whose history has been
// pruned away are left out.
func (r *RedisStore) FlightViewTimes(ctx context.Context, userKey string, now int64) (map[int][]int64, error) {
	members, err := r.Client.SMembers(ctx, indexKey(userKey)).Result()
	if err != nil {
		return nil, fmt.Errorf("read flight index: %w", err)
	}
	result := make(map[int][]int64)
	if len(members) == 0 {
		return result, nil
	}

	minScore := strconv.FormatInt(now-int64(r.Window/time.Second), 10)
	pipe := r.Client.Pipeline()
	cmds := make(map[int]*redis.StringSliceCmd, len(members))
	for _, m := range members {
		id, err := strconv.Atoi(m)
		if err != nil {
			continue
		}
		cmds[id] = pipe.ZRangeByScore(ctx, viewKey(userKey, id), &redis.ZRangeBy{Min: minScore, Max: "+inf"})
	}
	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return nil, fmt.Errorf("read flight views: %w", err)
	}

	for id, cmd := range cmds {
		vals, err := cmd.Result()
		if err != nil || len(vals) == 0 {
			continue
		}
		ts := make([]int64, 0, len(vals))
		for _, v := range vals {
			if n, err := strconv.ParseInt(v, 10, 64); err == nil {
				ts = append(ts, n)
			}
		}
		sort.Slice(ts, func(i, j int) bool { return ts[i] < ts[j] })
		result[id] = ts
	}
	return result, nil
}

// ClearUser removes all stored history for userKey.
func (r *RedisStore) ClearUser(ctx context.Context, userKey string) error {
	members, err := r.Client.SMembers(ctx, indexKey(userKey)).Result()
	if err != nil {
		return err
	}
	keys := []string{indexKey(userKey)}
	for _, m := range members {
		if id, err := strconv.Atoi(m); err == nil {
			keys = append(keys, viewKey(userKey, id))
		}
	}
	return r.Client.Del(ctx, keys...).Err()
}

// Close shuts down the Redis client.
func (r *RedisStore) Close() {
	if r != nil && r.Client != nil {
		if err := r.Client.Close(); err != nil {
			zap.L().Error("redis close", zap.Error(err))
		}
	}
}
