package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/fancard/internal/gateway"
	"github.com/Nixie-Tech-LLC/fancard/internal/model"
)

const keyPrefix = "fancard:landing:published:"

func NewClient(address, username, password string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     address,
		Username: username,
		Password: password,
		DB:       0,
	})
}

// PageCache keeps published landing pages for the public route.
type PageCache struct {
	rdb redis.Cmdable
	ttl time.Duration
}

var _ gateway.Cache = (*PageCache)(nil)

func NewPageCache(rdb redis.Cmdable, ttl time.Duration) *PageCache {
	return &PageCache{rdb: rdb, ttl: ttl}
}

func publishedKey(albumID string) string { return keyPrefix + albumID }

func (c *PageCache) GetPublished(ctx context.Context, albumID string) (*model.Document, bool, error) {
	b, err := c.rdb.Get(ctx, publishedKey(albumID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var doc model.Document
	if err := json.Unmarshal(b, &doc); err != nil {
		log.Warn().Err(err).Str("album_id", albumID).Msg("[cache] dropping undecodable entry")
		c.rdb.Del(ctx, publishedKey(albumID))
		return nil, false, nil
	}
	return &doc, true, nil
}

func (c *PageCache) PutPublished(ctx context.Context, doc model.Document) error {
	b, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode landing page: %w", err)
	}
	return c.rdb.Set(ctx, publishedKey(doc.AlbumID), b, c.ttl).Err()
}

func (c *PageCache) Invalidate(ctx context.Context, albumID string) error {
	return c.rdb.Del(ctx, publishedKey(albumID)).Err()
}
