package enrich

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/harukit/likes-archive/model"
	"github.com/harukit/likes-archive/utils"
	Logger "github.com/harukit/likes-archive/utils/log"
)

const tweetCacheTTL = 7 * 24 * time.Hour

// CachedProvider wraps a Provider with a redis read-through cache so that
// repeated pipeline runs do not re-fetch tweets the provider already served.
// Tombstoned and deleted tweets are evicted rather than cached, matching the
// site-side cache behavior.
type CachedProvider struct {
	inner Provider
	redis *redis.Client
}

func NewCachedProvider(inner Provider) *CachedProvider {
	return &CachedProvider{
		inner: inner,
		redis: utils.GetRedisClient(),
	}
}

func (c *CachedProvider) Fetch(ctx context.Context, tweetID string) (model.FetchResult, error) {
	cached, err := c.redis.Get(ctx, utils.TweetCacheKey(tweetID)).Result()
	if err == nil {
		return model.Fetched(json.RawMessage(cached)), nil
	}
	if err != redis.Nil {
		// Cache trouble must not block enrichment, fall through to the
		// provider.
		Logger.Log.Warnf("tweet cache read failed for %s: %v", tweetID, err)
	}

	res, err := c.inner.Fetch(ctx, tweetID)
	if err != nil {
		return res, err
	}

	switch res.Kind {
	case model.OutcomeFetched:
		if err := c.redis.Set(ctx, utils.TweetCacheKey(tweetID), []byte(res.Data), tweetCacheTTL).Err(); err != nil {
			Logger.Log.Warnf("tweet cache write failed for %s: %v", tweetID, err)
		}
	default:
		if err := c.redis.Del(ctx, utils.TweetCacheKey(tweetID)).Err(); err != nil {
			Logger.Log.Warnf("tweet cache eviction failed for %s: %v", tweetID, err)
		}
	}
	return res, nil
}
