package app

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"review_prep/internal/domain"
)

// CachedChecker memoizes Suggest results in a shared cache so repeated runs
// over similar data skip the expensive candidate search. Cache failures are
// logged and fall through to the wrapped checker; lookups never fail.
type CachedChecker struct {
	inner  domain.SpellChecker
	cache  domain.Cache
	ttl    time.Duration
	prefix string
}

func NewCachedChecker(inner domain.SpellChecker, cache domain.Cache, ttl time.Duration, namespace string) *CachedChecker {
	return &CachedChecker{inner: inner, cache: cache, ttl: ttl, prefix: "suggest:" + namespace + ":"}
}

func (c *CachedChecker) IsCorrect(word string) bool { return c.inner.IsCorrect(word) }

func (c *CachedChecker) Suggest(word string) []string {
	ctx := context.Background()
	key := c.prefix + word

	var cached []string
	ok, err := c.cache.Get(ctx, key, &cached)
	if err != nil {
		log.Debug().Err(err).Str("key", key).Msg("suggestion cache get failed")
	}
	if ok && err == nil {
		return cached
	}

	sug := c.inner.Suggest(word)
	if sug == nil {
		sug = []string{} // cache the miss too
	}
	if err := c.cache.Set(ctx, key, sug, int(c.ttl.Seconds())); err != nil {
		log.Debug().Err(err).Str("key", key).Msg("suggestion cache set failed")
	}
	return sug
}
