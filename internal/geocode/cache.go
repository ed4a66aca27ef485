package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// cacheTTL is long on purpose: street addresses don't move. The cache exists
// because reps re-create projects at the same handful of addresses and each
// Google call costs money.
const cacheTTL = 30 * 24 * time.Hour

// Geocoder is a Client with an optional Redis read-through cache. A nil
// redis client (REDIS_ADDR unset) means every lookup goes straight to
// Google; a nil inner client means geocoding is disabled entirely.
type Geocoder struct {
	client *Client
	rdb    *redis.Client
}

// NewGeocoder builds a Geocoder from the environment.
// Returns nil, nil when GOOGLE_MAPS_API_KEY is not set.
func NewGeocoder() (*Geocoder, error) {
	client, err := NewClient()
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, nil
	}
	return &Geocoder{client: client, rdb: openRedisFromEnv()}, nil
}

// openRedisFromEnv opens a Redis client from REDIS_ADDR / REDIS_PASS.
// Returns nil when no address is configured.
func openRedisFromEnv() *redis.Client {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASS"),
	})
}

// cacheKey normalizes an address into a stable Redis key.
func cacheKey(address string) string {
	folded := strings.ToLower(strings.Join(strings.Fields(address), " "))
	return "geocode:" + folded
}

// Lookup geocodes an address, serving from Redis when a previous lookup
// already paid for it. Cache failures degrade to a direct API call.
func (g *Geocoder) Lookup(ctx context.Context, address string) (*Result, error) {
	if g == nil || g.client == nil {
		return nil, fmt.Errorf("geocoding not configured")
	}

	key := cacheKey(address)

	if g.rdb != nil {
		cached, err := g.rdb.Get(ctx, key).Bytes()
		if err == nil {
			var result Result
			if err := json.Unmarshal(cached, &result); err == nil {
				return &result, nil
			}
			// Unreadable entry; fall through and overwrite it.
		} else if err != redis.Nil {
			log.Printf("[Lookup] redis get err=%v", err)
		}
	}

	result, err := g.client.Geocode(ctx, address)
	if err != nil {
		return nil, err
	}

	if g.rdb != nil {
		if data, err := json.Marshal(result); err == nil {
			if err := g.rdb.Set(ctx, key, data, cacheTTL).Err(); err != nil {
				log.Printf("[Lookup] redis set err=%v", err)
			}
		}
	}

	return result, nil
}
