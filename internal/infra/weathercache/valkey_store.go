package weathercache

import (
	"context"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/ecosense/internal/domain/weather"
)

// ValkeyStore caches provider responses in a Valkey-compatible database.
type ValkeyStore struct {
	client valkey.Client
	prefix string
}

// NewValkeyStore constructs a new store backed by Valkey.
func NewValkeyStore(client valkey.Client, prefix string) *ValkeyStore {
	if prefix == "" {
		prefix = "ecosense"
	}
	return &ValkeyStore{client: client, prefix: prefix}
}

// Get implements weather.Cache.
func (s *ValkeyStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	payload, err := s.client.Do(ctx, s.client.B().Get().Key(s.key(key)).Build()).AsBytes()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return payload, true, nil
}

// Set stores value with an expiry of at least one second. A non-positive ttl stores nothing.
func (s *ValkeyStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if ttl < time.Second {
		ttl = time.Second
	}
	cmd := s.client.B().Set().Key(s.key(key)).Value(valkey.BinaryString(value)).Ex(ttl).Build()
	return s.client.Do(ctx, cmd).Error()
}

func (s *ValkeyStore) key(k string) string {
	return s.prefix + ":weather:" + k
}

var _ weather.Cache = (*ValkeyStore)(nil)
