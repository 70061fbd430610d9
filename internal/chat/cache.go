package chat

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"github.com/valkey-io/valkey-go"

	"github.com/studyace/studyace-server/internal/config"
	"github.com/studyace/studyace-server/internal/llm"
)

type cacheBackend int

const (
	cacheBackendMemory cacheBackend = iota
	cacheBackendValkey
)

// Cache keeps recently used chat transcripts close to the server. The
// database stays authoritative; a cache miss is never an error.
type Cache struct {
	client  valkey.Client
	cfg     *config.Config
	backend cacheBackend

	mu        sync.RWMutex
	entries   map[int64][]llm.Message
	expiresAt map[int64]time.Time
}

// NewCache builds a valkey-backed cache, or an in-memory one when the
// valkey backend is disabled.
func NewCache(cfg *config.Config) (*Cache, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	if !cfg.ChatCache.Enabled {
		if cfg.ChatCache.Required {
			return nil, errors.New("chat cache required but disabled")
		}
		return newMemoryCache(cfg), nil
	}

	conn, err := parseCacheURL(cfg.ChatCache.URL)
	if err != nil {
		return nil, fmt.Errorf("parse chat cache url: %w", err)
	}

	var tlsConfig *tls.Config
	if conn.useTLS {
		host, _, splitErr := net.SplitHostPort(conn.addr)
		if splitErr != nil {
			return nil, fmt.Errorf("parse chat cache addr: %w", splitErr)
		}
		tlsConfig = &tls.Config{MinVersion: tls.VersionTLS12, ServerName: host}
	}

	client, err := valkey.NewClient(valkey.ClientOption{
		TLSConfig:    tlsConfig,
		Username:     conn.username,
		Password:     conn.password,
		InitAddress:  []string{conn.addr},
		SelectDB:     conn.selectDB,
		DisableCache: cfg.ChatCache.DisableCache,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to valkey: %w", err)
	}

	return &Cache{
		client:  client,
		cfg:     cfg,
		backend: cacheBackendValkey,
	}, nil
}

func newMemoryCache(cfg *config.Config) *Cache {
	return &Cache{
		cfg:       cfg,
		backend:   cacheBackendMemory,
		entries:   make(map[int64][]llm.Message),
		expiresAt: make(map[int64]time.Time),
	}
}

func (c *Cache) key(userID int64) string {
	return fmt.Sprintf("chat:history:%d", userID)
}

func (c *Cache) ttl() time.Duration {
	return time.Duration(c.cfg.ChatCache.TTLMinutes) * time.Minute
}

// Get returns the cached transcript for a user, if present.
func (c *Cache) Get(ctx context.Context, userID int64) ([]llm.Message, bool, error) {
	if c.backend == cacheBackendMemory {
		return c.getMemory(userID)
	}

	cmd := c.client.B().Get().Key(c.key(userID)).Build()
	raw, err := c.client.Do(ctx, cmd).AsBytes()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("get chat cache: %w", err)
	}

	decoded, err := decompressZstd(raw)
	if err != nil {
		// A corrupt entry only costs a database read.
		return nil, false, nil
	}

	var messages []llm.Message
	if err := json.Unmarshal(decoded, &messages); err != nil {
		return nil, false, nil
	}
	return messages, true, nil
}

// Set stores a user's transcript, compressed, with the configured TTL.
func (c *Cache) Set(ctx context.Context, userID int64, messages []llm.Message) error {
	if c.backend == cacheBackendMemory {
		return c.setMemory(userID, messages)
	}

	encoded, err := json.Marshal(messages)
	if err != nil {
		return fmt.Errorf("marshal chat transcript: %w", err)
	}
	compressed, err := compressZstd(encoded)
	if err != nil {
		return err
	}

	cmd := c.client.B().Set().Key(c.key(userID)).Value(string(compressed)).Ex(c.ttl()).Build()
	if err := c.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("set chat cache: %w", err)
	}
	return nil
}

// Invalidate drops a user's cached transcript.
func (c *Cache) Invalidate(ctx context.Context, userID int64) error {
	if c.backend == cacheBackendMemory {
		c.mu.Lock()
		delete(c.entries, userID)
		delete(c.expiresAt, userID)
		c.mu.Unlock()
		return nil
	}

	cmd := c.client.B().Del().Key(c.key(userID)).Build()
	if err := c.client.Do(ctx, cmd).Error(); err != nil && !valkey.IsValkeyNil(err) {
		return fmt.Errorf("invalidate chat cache: %w", err)
	}
	return nil
}

// Ping verifies the valkey connection. The memory backend is always up.
func (c *Cache) Ping(ctx context.Context) error {
	if c.backend == cacheBackendMemory {
		return nil
	}
	cmd := c.client.B().Ping().Build()
	if err := c.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("ping valkey: %w", err)
	}
	return nil
}

// Close releases the valkey connection.
func (c *Cache) Close() {
	if c == nil {
		return
	}
	if c.backend == cacheBackendValkey && c.client != nil {
		c.client.Close()
	}
}

func (c *Cache) getMemory(userID int64) ([]llm.Message, bool, error) {
	c.mu.RLock()
	messages, ok := c.entries[userID]
	deadline := c.expiresAt[userID]
	c.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if !deadline.IsZero() && time.Now().After(deadline) {
		c.mu.Lock()
		delete(c.entries, userID)
		delete(c.expiresAt, userID)
		c.mu.Unlock()
		return nil, false, nil
	}

	copied := make([]llm.Message, len(messages))
	copy(copied, messages)
	return copied, true, nil
}

func (c *Cache) setMemory(userID int64, messages []llm.Message) error {
	copied := make([]llm.Message, len(messages))
	copy(copied, messages)

	c.mu.Lock()
	c.entries[userID] = copied
	if ttl := c.ttl(); ttl > 0 {
		c.expiresAt[userID] = time.Now().Add(ttl)
	} else {
		delete(c.expiresAt, userID)
	}
	c.mu.Unlock()
	return nil
}
