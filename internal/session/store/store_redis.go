package store

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"greenreg/pkg/platform/sentinel"
)

const defaultRecordKey = "greenreg:admin_session"

// touchScript refreshes established-at only when the record still exists, so
// a Touch racing a Purge can never leave a timestamp without an identity.
var touchScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 1 then
  redis.call('HSET', KEYS[1], 'established_at', ARGV[1])
  return 1
end
return 0
`)

// RedisRecordStore keeps the session record in a single hash key. One HSET
// writes both fields; one DEL purges both.
type RedisRecordStore struct {
	client *redis.Client
	key    string
}

type RedisOption func(*RedisRecordStore)

// WithKey overrides the hash key, useful when tests share a server.
func WithKey(key string) RedisOption {
	return func(s *RedisRecordStore) {
		s.key = key
	}
}

func NewRedis(client *redis.Client, opts ...RedisOption) *RedisRecordStore {
	store := &RedisRecordStore{client: client, key: defaultRecordKey}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

func (s *RedisRecordStore) Save(ctx context.Context, signedToken string, establishedAt time.Time) error {
	err := s.client.HSet(ctx, s.key,
		"token", signedToken,
		"established_at", strconv.FormatInt(establishedAt.UnixMilli(), 10),
	).Err()
	if err != nil {
		return fmt.Errorf("%w: save session record: %w", sentinel.ErrUnavailable, err)
	}
	return nil
}

func (s *RedisRecordStore) Load(ctx context.Context) (string, time.Time, error) {
	fields, err := s.client.HGetAll(ctx, s.key).Result()
	if err != nil {
		return "", time.Time{}, fmt.Errorf("%w: load session record: %w", sentinel.ErrUnavailable, err)
	}
	if len(fields) == 0 {
		return "", time.Time{}, sentinel.ErrNotFound
	}

	token := fields["token"]
	millis, parseErr := strconv.ParseInt(fields["established_at"], 10, 64)
	if token == "" || parseErr != nil {
		// Half a record is as good as no record; treat it as absent so the
		// caller purges.
		return "", time.Time{}, sentinel.ErrNotFound
	}
	return token, time.UnixMilli(millis), nil
}

func (s *RedisRecordStore) Touch(ctx context.Context, establishedAt time.Time) error {
	err := touchScript.Run(ctx, s.client, []string{s.key},
		strconv.FormatInt(establishedAt.UnixMilli(), 10),
	).Err()
	if err != nil {
		return fmt.Errorf("%w: touch session record: %w", sentinel.ErrUnavailable, err)
	}
	return nil
}

func (s *RedisRecordStore) Purge(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("%w: purge session record: %w", sentinel.ErrUnavailable, err)
	}
	return nil
}
