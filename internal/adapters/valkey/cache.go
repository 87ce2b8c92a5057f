package valkey

import (
	"context"
	"fmt"
	"time"

	"github.com/valkey-io/valkey-go"
)

// Cache implements ports.CacheService using Valkey (Redis-compatible).
type Cache struct {
	client valkey.Client
	prefix string
}

// New creates a new Valkey cache client. Keys are namespaced under "trailhead:".
func New(addr string) (*Cache, error) {
	client, err := valkey.NewClient(valkey.ClientOption{
		InitAddress: []string{addr},
	})
	if err != nil {
		return nil, fmt.Errorf("valkey connect: %w", err)
	}
	return &Cache{client: client, prefix: "trailhead:"}, nil
}

func (c *Cache) key(k string) string {
	return c.prefix + k
}

// Get retrieves a value by key. A missing key is reported as an error, like any other failure,
// so callers fall through to the source of truth.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := c.client.Do(ctx, c.client.B().Get().Key(c.key(key)).Build()).AsBytes()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return nil, fmt.Errorf("cache miss: %s", key)
		}
		return nil, err
	}
	return b, nil
}

// Set stores a value with a TTL in seconds.
func (c *Cache) Set(ctx context.Context, key string, value []byte, ttlSeconds int) error {
	cmd := c.client.Do(ctx,
		c.client.B().Set().Key(c.key(key)).Value(valkey.BinaryString(value)).Ex(time.Duration(ttlSeconds)*time.Second).Build(),
	)
	return cmd.Error()
}

// Delete removes a key.
func (c *Cache) Delete(ctx context.Context, key string) error {
	return c.client.Do(ctx, c.client.B().Del().Key(c.key(key)).Build()).Error()
}

// Ping is used by the readiness probe.
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Do(ctx, c.client.B().Ping().Build()).Error()
}

// Close releases the client.
func (c *Cache) Close() {
	c.client.Close()
}

// Revocations implements ports.TokenRevoker on the same connection. Entries expire with the token.
type Revocations struct {
	cache *Cache
}

// NewRevocations shares the cache's client.
func NewRevocations(c *Cache) *Revocations {
	return &Revocations{cache: c}
}

func revokedKey(tokenID string) string {
	return "session:revoked:" + tokenID
}

func (r *Revocations) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil
	}
	if ttl < time.Second {
		ttl = time.Second
	}
	c := r.cache
	return c.client.Do(ctx,
		c.client.B().Set().Key(c.key(revokedKey(tokenID))).Value("1").Ex(ttl).Build(),
	).Error()
}

func (r *Revocations) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	c := r.cache
	n, err := c.client.Do(ctx, c.client.B().Exists().Key(c.key(revokedKey(tokenID))).Build()).AsInt64()
	if err != nil {
		return false, fmt.Errorf("check revocation: %w", err)
	}
	return n > 0, nil
}
