package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"sciarticles/models"

	"github.com/go-redis/redis/v8"
)

const publishedArticlesKey = "articles:published"

// ErrCacheMiss is returned by ArticleCache.GetPublished when nothing is cached.
var ErrCacheMiss = errors.New("cache miss")

type ArticleCache interface {
	GetPublished(ctx context.Context) ([]models.PublicArticle, error)
	SetPublished(ctx context.Context, articles []models.PublicArticle) error
	Invalidate(ctx context.Context) error
}

type redisArticleCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewArticleCache returns a redis backed cache, or a disabled one when client is nil.
func NewArticleCache(client *redis.Client, ttl time.Duration) ArticleCache {
	if client == nil {
		return noopArticleCache{}
	}
	return &redisArticleCache{client: client, ttl: ttl}
}

func (c *redisArticleCache) GetPublished(ctx context.Context) ([]models.PublicArticle, error) {
	data, err := c.client.Get(ctx, publishedArticlesKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, err
	}

	var articles []models.PublicArticle
	if err := json.Unmarshal(data, &articles); err != nil {
		return nil, err
	}
	return articles, nil
}

func (c *redisArticleCache) SetPublished(ctx context.Context, articles []models.PublicArticle) error {
	data, err := json.Marshal(articles)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, publishedArticlesKey, data, c.ttl).Err()
}

func (c *redisArticleCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, publishedArticlesKey).Err()
}

type noopArticleCache struct{}

func (noopArticleCache) GetPublished(context.Context) ([]models.PublicArticle, error) {
	return nil, ErrCacheMiss
}

func (noopArticleCache) SetPublished(context.Context, []models.PublicArticle) error { return nil }

func (noopArticleCache) Invalidate(context.Context) error { return nil }
