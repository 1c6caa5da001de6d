package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/wordrush/internal/model"
	"github.com/mcoot/wordrush/internal/storage"
)

// Storage archives rounds and the word list in Redis
type Storage struct {
	client *redis.Client
	cfg    Config
}

var _ storage.Storage = (*Storage)(nil)

// New connects to the Redis server at cfg.URL
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return NewWithClient(client, cfg), nil
}

// NewWithClient wraps an existing client
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{client: client, cfg: cfg}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ping checks the connection is alive
func (s *Storage) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// SaveRoundResult stores the round with ResultTTL and indexes it by end time
func (s *Storage) SaveRoundResult(ctx context.Context, result *model.RoundResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, resultKey(result.SessionID), data, s.cfg.ResultTTL)
	pipe.ZAdd(ctx, resultIndexKey(), redis.Z{
		Score:  float64(result.EndedAt.UnixMilli()),
		Member: string(result.SessionID),
	})
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetRoundResult(ctx context.Context, id model.SessionID) (*model.RoundResult, error) {
	data, err := s.client.Get(ctx, resultKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, model.ErrResultNotFound
	}
	if err != nil {
		return nil, err
	}
	return decodeResult(data)
}

func (s *Storage) RoundResultExists(ctx context.Context, id model.SessionID) (bool, error) {
	n, err := s.client.Exists(ctx, resultKey(id)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// RecentRoundResults reads the index newest first. Ids whose result has
// expired are pruned from the index as they are found.
func (s *Storage) RecentRoundResults(ctx context.Context, limit int) ([]*model.RoundResult, error) {
	if limit <= 0 {
		return []*model.RoundResult{}, nil
	}

	results := make([]*model.RoundResult, 0, limit)
	for start := int64(0); len(results) < limit; {
		ids, err := s.client.ZRevRange(ctx, resultIndexKey(), start, start+int64(limit)-1).Result()
		if err != nil {
			return nil, err
		}
		if len(ids) == 0 {
			break
		}
		start += int64(len(ids))

		keys := make([]string, len(ids))
		for i, id := range ids {
			keys[i] = resultKey(model.SessionID(id))
		}
		values, err := s.client.MGet(ctx, keys...).Result()
		if err != nil {
			return nil, err
		}

		var expired []any
		for i, v := range values {
			raw, ok := v.(string)
			if !ok {
				expired = append(expired, ids[i])
				continue
			}
			result, err := decodeResult([]byte(raw))
			if err != nil {
				return nil, err
			}
			if len(results) < limit {
				results = append(results, result)
			}
		}

		if len(expired) > 0 {
			if err := s.client.ZRem(ctx, resultIndexKey(), expired...).Err(); err != nil {
				return nil, err
			}
			start -= int64(len(expired))
		}
	}

	return results, nil
}

func decodeResult(data []byte) (*model.RoundResult, error) {
	var result model.RoundResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("decode round result: %w", err)
	}
	return &result, nil
}

// GetDictionaryWords returns the stored word set in no particular order
func (s *Storage) GetDictionaryWords(ctx context.Context) ([]string, error) {
	key := dictionaryKey()

	exists, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return nil, err
	}
	if exists == 0 {
		return nil, model.ErrDictionaryNotLoaded
	}

	return s.client.SMembers(ctx, key).Result()
}

// SaveDictionaryWords replaces the stored word set atomically
func (s *Storage) SaveDictionaryWords(ctx context.Context, words []string) error {
	key := dictionaryKey()

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, key)
	if len(words) > 0 {
		members := make([]any, len(words))
		for i, w := range words {
			members[i] = w
		}
		pipe.SAdd(ctx, key, members...)
	}

	_, err := pipe.Exec(ctx)
	return err
}
