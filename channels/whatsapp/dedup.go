package whatsapp

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/Abraxas-365/facturamelo/channels"
)

// dedupTTL ventana en la que Meta puede reintentar la entrega de un webhook
const dedupTTL = 24 * time.Hour

// RedisDeduper absorbe reentregas de webhook usando SetNX con TTL
type RedisDeduper struct {
	redis *redis.Client
}

var _ channels.Deduper = (*RedisDeduper)(nil)

// NewRedisDeduper creates a new Redis-backed message deduper
func NewRedisDeduper(redisClient *redis.Client) *RedisDeduper {
	return &RedisDeduper{redis: redisClient}
}

// getDedupKey generates Redis key for a processed message
func (d *RedisDeduper) getDedupKey(messageID string) string {
	return fmt.Sprintf("facturamelo:dedup:%s", messageID)
}

// Seen marca el mensaje como procesado; retorna true si ya lo estaba
func (d *RedisDeduper) Seen(ctx context.Context, messageID string) (bool, error) {
	key := d.getDedupKey(messageID)

	set, err := d.redis.SetNX(ctx, key, "1", dedupTTL).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check message dedup: %w", err)
	}

	// SetNX returns false when the key already existed
	return !set, nil
}
