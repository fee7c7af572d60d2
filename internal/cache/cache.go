// Package cache keeps Lacework access tokens between invocations of a warm
// lambda function.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"sync/atomic"
	"time"

	"github.com/duncangrant/cloudformation-laceworks-resource-providers/internal/keyvaluestore"
	"github.com/duncangrant/cloudformation-laceworks-resource-providers/internal/shared"
)

// tokens this close to expiry are treated as missing
const expiryMargin = time.Minute

type TokenCache interface {
	Get(key TokenCacheKey) (string, bool)
	Set(key TokenCacheKey, value CachedToken)
	Delete(key TokenCacheKey)
	GetCacheHits() int32
	GetCacheMisses() int32
}

type _TokenCache struct {
	cache       keyvaluestore.KeyValueStore
	cacheHits   atomic.Int32
	cacheMisses atomic.Int32
}

// TokenCacheKey identifies the api key a token was issued for. The secret
// takes part as a hash so a rotated or wrong secret never reuses a token.
type TokenCacheKey struct {
	BaseURL     string
	AccessKeyId string
	SecretHash  string
}

// NewTokenCacheKey hashes secretKey with sha256.
func NewTokenCacheKey(baseURL, accessKeyId, secretKey string) TokenCacheKey {
	sum := sha256.Sum256([]byte(secretKey))
	return TokenCacheKey{
		BaseURL:     baseURL,
		AccessKeyId: accessKeyId,
		SecretHash:  hex.EncodeToString(sum[:]),
	}
}

type CachedToken struct {
	Token     string
	ExpiresAt time.Time
}

func NewTokenCache() TokenCache {
	return newTokenCache(time.Now)
}

func newTokenCache(now func() time.Time) *_TokenCache {
	return &_TokenCache{cache: keyvaluestore.NewKeyValueStore(now)}
}

func (k TokenCacheKey) storeKey() shared.Key {
	return shared.Key{
		PrimaryKey: k.BaseURL,
		SortKey:    k.AccessKeyId + "|" + k.SecretHash,
	}
}

func (c *_TokenCache) Get(key TokenCacheKey) (string, bool) {
	result, ok := c.cache.Get(key.storeKey())
	if ok {
		c.cacheHits.Add(1)
		return result.(string), true
	}
	c.cacheMisses.Add(1)
	return "", false
}

// Set ignores tokens without an expiry.
func (c *_TokenCache) Set(key TokenCacheKey, value CachedToken) {
	if value.Token == "" || value.ExpiresAt.IsZero() {
		return
	}
	c.cache.Set(key.storeKey(), value.Token, value.ExpiresAt.Add(-expiryMargin))
}

func (c *_TokenCache) Delete(key TokenCacheKey) {
	c.cache.Delete(key.storeKey())
}

func (c *_TokenCache) GetCacheHits() int32 {
	return c.cacheHits.Load()
}

func (c *_TokenCache) GetCacheMisses() int32 {
	return c.cacheMisses.Load()
}
