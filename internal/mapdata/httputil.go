package mapdata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/lahvjal/aveyo-ahj-planner-sub001/internal/db"
)

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// helper: write JSON with a specific HTTP status code
func writeJSONStatus(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func addServerTiming(w http.ResponseWriter, kv ...[2]string) {
	// kv: [][2]string{{"dbread","12.3"}, {"rank","4.0"}}
	if len(kv) == 0 {
		return
	}
	val := ""
	for i, p := range kv {
		if i > 0 {
			val += ", "
		}
		val += fmt.Sprintf("%s;dur=%s", p[0], p[1])
	}
	// Additive header (can call multiple times if you want)
	w.Header().Add("Server-Timing", val)
}

// addCacheHeaders marks a response CDN-cacheable with stale-while-revalidate.
func addCacheHeaders(w http.ResponseWriter, maxAgeSeconds, swrSeconds int) {
	w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d, stale-while-revalidate=%d", maxAgeSeconds, swrSeconds))
}

// addNoStore prevents any caching of the response.
func addNoStore(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
}

// tryAcquireLock grabs a session-scoped Postgres advisory lock. Returns true
// when this process now owns the lock for the given key.
func tryAcquireLock(ctx context.Context, key string) bool {
	var got bool
	if err := db.DB.WithContext(ctx).
		Raw(`SELECT pg_try_advisory_lock(hashtext(?))`, key).
		Scan(&got).Error; err != nil {
		return false
	}
	return got
}

func releaseLock(ctx context.Context, key string) {
	var released bool
	_ = db.DB.WithContext(ctx).
		Raw(`SELECT pg_advisory_unlock(hashtext(?))`, key).
		Scan(&released).Error
}

// isSyncInProgress probes an advisory lock without holding it: if we can
// acquire it, nobody is syncing, so release immediately.
func isSyncInProgress(ctx context.Context, key string) bool {
	var got bool
	if err := db.DB.WithContext(ctx).
		Raw(`SELECT pg_try_advisory_lock(hashtext(?))`, key).
		Scan(&got).Error; err != nil {
		return false
	}
	if got {
		var released bool
		_ = db.DB.WithContext(ctx).
			Raw(`SELECT pg_advisory_unlock(hashtext(?))`, key).
			Scan(&released).Error
		return false
	}
	return true
}
