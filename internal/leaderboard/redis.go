package leaderboard

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// lengthWeight separates lengths in the sorted-set score so ticks only
// break ties. Scores are ascending: lower is better.
const lengthWeight = 1e9

// Redis stores the ranking in a sorted set and entry details in a hash.
type Redis struct {
	client   *redis.Client
	key      string
	capacity int
}

// DialRedis connects to addr and checks the connection.
func DialRedis(ctx context.Context, addr, key string, capacity int) (*Redis, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return NewRedis(client, key, capacity), nil
}

// NewRedis wraps an existing client.
func NewRedis(client *redis.Client, key string, capacity int) *Redis {
	return &Redis{client: client, key: key, capacity: capacity}
}

func (r *Redis) entriesKey() string { return r.key + ":entries" }

func score(e Entry) float64 {
	return float64(e.Ticks) - float64(e.Length)*lengthWeight
}

func (r *Redis) Submit(ctx context.Context, e Entry) error {
	if err := e.validate(); err != nil {
		return err
	}
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("leaderboard: encode entry: %w", err)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZAdd(ctx, r.key, redis.Z{Score: score(e), Member: e.ID})
		pipe.HSet(ctx, r.entriesKey(), e.ID, data)
		return nil
	})
	if err != nil {
		return fmt.Errorf("leaderboard: submit %s: %w", e.ID, err)
	}

	return r.trim(ctx)
}

// trim drops everything ranked below capacity.
func (r *Redis) trim(ctx context.Context) error {
	if r.capacity <= 0 {
		return nil
	}
	evicted, err := r.client.ZRange(ctx, r.key, int64(r.capacity), -1).Result()
	if err != nil {
		return fmt.Errorf("leaderboard: trim: %w", err)
	}
	if len(evicted) == 0 {
		return nil
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZRemRangeByRank(ctx, r.key, int64(r.capacity), -1)
		pipe.HDel(ctx, r.entriesKey(), evicted...)
		return nil
	})
	if err != nil {
		return fmt.Errorf("leaderboard: trim: %w", err)
	}
	return nil
}

func (r *Redis) Top(ctx context.Context, n int) ([]Entry, error) {
	stop := int64(-1)
	if n > 0 {
		stop = int64(n - 1)
	}

	ids, err := r.client.ZRange(ctx, r.key, 0, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("leaderboard: top: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	values, err := r.client.HMGet(ctx, r.entriesKey(), ids...).Result()
	if err != nil {
		return nil, fmt.Errorf("leaderboard: top: %w", err)
	}

	entries := make([]Entry, 0, len(values))
	for i, v := range values {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("leaderboard: entry %s missing details", ids[i])
		}
		var e Entry
		if err := json.Unmarshal([]byte(s), &e); err != nil {
			return nil, fmt.Errorf("leaderboard: decode entry %s: %w", ids[i], err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}
