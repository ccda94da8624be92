package history

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/netherd-io/netherd/pkg/util"
)

// redisKey is the list holding run records, newest first.
const redisKey = "netherd:history"

const redisTimeout = 5 * time.Second

// RedisStore keeps run records in a Redis list via LPUSH+LTRIM, so the
// trim-to-cap is a single server-side operation.
type RedisStore struct {
	client *redis.Client
	limit  int
}

// NewRedisStore connects to Redis and verifies it is reachable.
func NewRedisStore(addr string, db, limit int) (*RedisStore, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	client := redis.NewClient(&redis.Options{Addr: addr, DB: db})

	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("history redis at %s: %w", addr, err)
	}
	return &RedisStore{client: client, limit: limit}, nil
}

// Append pushes one record and trims the list to the cap.
func (s *RedisStore) Append(rec Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()

	pipe := s.client.TxPipeline()
	pipe.LPush(ctx, redisKey, data)
	pipe.LTrim(ctx, redisKey, 0, int64(s.limit)-1)
	_, err = pipe.Exec(ctx)
	return err
}

// List returns up to limit records, newest first.
func (s *RedisStore) List(limit int) ([]Record, error) {
	if limit <= 0 || limit > s.limit {
		limit = s.limit
	}

	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()

	lines, err := s.client.LRange(ctx, redisKey, 0, int64(limit)-1).Result()
	if err != nil {
		return nil, err
	}
	records := make([]Record, 0, len(lines))
	for _, line := range lines {
		var rec Record
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			util.Warnf("history: skipping malformed redis entry: %v", err)
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// Get finds a record by run id or short-id prefix.
func (s *RedisStore) Get(runID string) (*Record, bool, error) {
	records, err := s.List(0)
	if err != nil {
		return nil, false, err
	}
	for i := range records {
		if matchRun(records[i], runID) {
			return &records[i], true, nil
		}
	}
	return nil, false, nil
}

// Close releases the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
