package mapdata

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/paulmach/orb"

	"github.com/lahvjal/aveyo-ahj-planner-sub001/internal/db"
	"github.com/lahvjal/aveyo-ahj-planner-sub001/internal/proximity"
)

const (
	// Jurisdiction data moves slowly; a month-old row is still useful on a
	// doorstep. Stale data is served immediately while a resync runs.
	maxAge          = 30 * 24 * time.Hour
	shortWait       = 10 * time.Second
	shortWaitTick   = 200 * time.Millisecond
	cdnTTLWhenFresh = 3600
	swrSeconds      = 86400

	// defaultNearbyLimit caps the ranked payload; the map only surfaces the
	// nearest handful anyway.
	defaultNearbyLimit = 50
	maxNearbyLimit     = 500
)

var stateRegex = regexp.MustCompile(`^[A-Z]{2}$`)

func isState(s string) bool {
	return stateRegex.MatchString(s)
}

// SyncStatusResponse reports feed freshness for one state.
type SyncStatusResponse struct {
	State        string     `json:"state"`
	Fresh        bool       `json:"fresh"`
	Syncing      bool       `json:"syncing"`
	LastFetched  *time.Time `json:"last_fetched,omitempty"`
	AHJCount     int64      `json:"ahj_count"`
	UtilityCount int64      `json:"utility_count"`
}

// stampFresh reports whether the state's sync stamp exists and is inside
// maxAge.
func stampFresh(ctx context.Context, state string) bool {
	var stamp SyncStamp
	err := db.DB.WithContext(ctx).Where("state = ?", state).First(&stamp).Error
	return err == nil && time.Since(stamp.LastFetched) < maxAge
}

// GetSyncStatus returns feed freshness for a state and kicks a background
// sync when the data is stale.
func GetSyncStatus(w http.ResponseWriter, r *http.Request) {
	state := strings.ToUpper(r.URL.Query().Get("state"))
	if !isState(state) {
		http.Error(w, "Missing or invalid state parameter", http.StatusBadRequest)
		return
	}

	log.Printf("[GetSyncStatus] state=%s from=%s", state, r.RemoteAddr)
	t0 := time.Now()
	ctx := r.Context()

	resp := SyncStatusResponse{State: state}

	var stamp SyncStamp
	if err := db.DB.WithContext(ctx).Where("state = ?", state).First(&stamp).Error; err == nil {
		resp.LastFetched = &stamp.LastFetched
		resp.Fresh = time.Since(stamp.LastFetched) < maxAge
	}
	db.DB.WithContext(ctx).Model(&AHJ{}).Where("state = ?", state).Count(&resp.AHJCount)
	db.DB.WithContext(ctx).Model(&Utility{}).Where("state = ?", state).Count(&resp.UtilityCount)

	if !resp.Fresh {
		if startBackgroundSync(ctx, state) {
			resp.Syncing = true
		} else {
			resp.Syncing = isSyncInProgress(ctx, "sync-"+state)
		}
	}

	addServerTiming(w, [2]string{"total", fmt.Sprintf("%d", time.Since(t0).Milliseconds())})
	if resp.Syncing {
		w.Header().Set("Retry-After", "3")
	}
	w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate")
	writeJSON(w, resp)
}

// ListAHJs returns the permitting jurisdictions for a state, with optional
// classification/county filters and diacritic-folded name search.
func ListAHJs(w http.ResponseWriter, r *http.Request) {
	state := strings.ToUpper(r.URL.Query().Get("state"))
	if !isState(state) {
		http.Error(w, "Missing or invalid state parameter", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	t0 := time.Now()

	fresh := stampFresh(ctx, state)
	if !fresh {
		startBackgroundSync(ctx, state)
	}

	tDB := time.Now()
	rows, err := fetchAHJsFromDB(ctx, state, r.URL.Query().Get("classification"), r.URL.Query().Get("county"))
	if err != nil {
		log.Printf("[ListAHJs] state=%s err=%v", state, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	dbReadMs := time.Since(tDB).Milliseconds()

	rows = filterAHJsBySearch(rows, r.URL.Query().Get("q"))

	if len(rows) > 0 {
		addServerTiming(w, [2]string{"dbread", fmt.Sprintf("%d", dbReadMs)})
		if fresh {
			w.Header().Set("X-Data-Status", "fresh")
			addCacheHeaders(w, cdnTTLWhenFresh, swrSeconds)
		} else {
			w.Header().Set("X-Data-Status", "stale")
			addNoStore(w)
		}
		writeJSON(w, rows)
		return
	}

	// Cold miss: wait briefly for the sync to land the first rows.
	tWait := time.Now()
	if warmed, ok := waitForAHJMin(ctx, state, shortWait, shortWaitTick, 3); ok {
		addServerTiming(w,
			[2]string{"dbread", fmt.Sprintf("%d", dbReadMs)},
			[2]string{"wait", fmt.Sprintf("%d", time.Since(tWait).Milliseconds())},
			[2]string{"total", fmt.Sprintf("%d", time.Since(t0).Milliseconds())},
		)
		w.Header().Set("X-Data-Status", "warmed")
		addNoStore(w)
		writeJSON(w, filterAHJsBySearch(warmed, r.URL.Query().Get("q")))
		return
	}

	addServerTiming(w,
		[2]string{"dbread", fmt.Sprintf("%d", dbReadMs)},
		[2]string{"wait", fmt.Sprintf("%d", time.Since(tWait).Milliseconds())},
		[2]string{"total", fmt.Sprintf("%d", time.Since(t0).Milliseconds())},
	)
	w.Header().Set("X-Data-Status", "syncing")
	w.Header().Set("Retry-After", "3")
	w.Header().Set("Cache-Control", "no-store")
	writeJSONStatus(w, http.StatusAccepted, map[string]string{"status": "syncing"})
}

// GetAHJByID returns a single jurisdiction.
func GetAHJByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var ahj AHJ
	if err := db.DB.WithContext(r.Context()).First(&ahj, "id = ?", id).Error; err != nil {
		http.Error(w, "AHJ not found", http.StatusNotFound)
		return
	}

	writeJSON(w, ahj)
}

// ListUtilities returns the electric utilities for a state with optional
// name search.
func ListUtilities(w http.ResponseWriter, r *http.Request) {
	state := strings.ToUpper(r.URL.Query().Get("state"))
	if !isState(state) {
		http.Error(w, "Missing or invalid state parameter", http.StatusBadRequest)
		return
	}

	ctx := r.Context()

	fresh := stampFresh(ctx, state)
	if !fresh {
		startBackgroundSync(ctx, state)
	}

	var utilities []Utility
	if err := db.DB.WithContext(ctx).Where("state = ?", state).Order("name ASC").Find(&utilities).Error; err != nil {
		log.Printf("[ListUtilities] state=%s err=%v", state, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	if q := r.URL.Query().Get("q"); q != "" {
		filtered := utilities[:0]
		for _, u := range utilities {
			if matchesSearch(u.Name, q) || matchesSearch(u.Abbreviation, q) {
				filtered = append(filtered, u)
			}
		}
		utilities = filtered
	}

	if fresh {
		w.Header().Set("X-Data-Status", "fresh")
		addCacheHeaders(w, cdnTTLWhenFresh, swrSeconds)
	} else {
		w.Header().Set("X-Data-Status", "stale")
		addNoStore(w)
	}
	writeJSON(w, utilities)
}

// GetUtilityByID returns a single utility.
func GetUtilityByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var utility Utility
	if err := db.DB.WithContext(r.Context()).First(&utility, "id = ?", id).Error; err != nil {
		http.Error(w, "Utility not found", http.StatusNotFound)
		return
	}

	writeJSON(w, utility)
}

// Nearby returns AHJs and utilities ranked by distance from the caller.
//
// Origin resolution order: explicit lat/lng query params, then a GeoIP guess
// from the client address, then none (entities come back in unranked order
// with sentinel distances).
func Nearby(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	t0 := time.Now()

	state := strings.ToUpper(r.URL.Query().Get("state"))
	if state != "" && !isState(state) {
		http.Error(w, "Invalid state parameter", http.StatusBadRequest)
		return
	}
	kind := r.URL.Query().Get("kind")
	if kind != "" && kind != "ahj" && kind != "utility" {
		http.Error(w, "Invalid kind parameter", http.StatusBadRequest)
		return
	}

	origin, err := originFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	bound, err := parseBBox(r.URL.Query().Get("bbox"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	limit := defaultNearbyLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxNearbyLimit {
			http.Error(w, fmt.Sprintf("Invalid limit parameter (1-%d)", maxNearbyLimit), http.StatusBadRequest)
			return
		}
		limit = n
	}

	if state != "" && !stampFresh(ctx, state) {
		startBackgroundSync(ctx, state)
	}

	tDB := time.Now()
	entities, err := loadEntities(ctx, state, kind)
	if err != nil {
		log.Printf("[Nearby] state=%s err=%v", state, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	dbReadMs := time.Since(tDB).Milliseconds()

	if bound != nil {
		entities = filterByBound(entities, *bound)
	}

	tRank := time.Now()
	ranked := proximity.NewRanker().RankByProximity(origin, entities)
	rankMs := time.Since(tRank).Milliseconds()

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	addServerTiming(w,
		[2]string{"dbread", fmt.Sprintf("%d", dbReadMs)},
		[2]string{"rank", fmt.Sprintf("%d", rankMs)},
		[2]string{"total", fmt.Sprintf("%d", time.Since(t0).Milliseconds())},
	)
	addNoStore(w)
	writeJSON(w, map[string]any{
		"origin":   origin,
		"entities": ranked,
	})
}

// originFromRequest resolves the ranking origin for a request. Explicit
// lat/lng wins; otherwise GeoIP may produce a coarse city-level guess; a nil
// origin is a valid outcome and skips ranking downstream.
func originFromRequest(r *http.Request) (*proximity.Point, error) {
	latStr := r.URL.Query().Get("lat")
	lngStr := r.URL.Query().Get("lng")

	if latStr != "" || lngStr != "" {
		lat, latErr := strconv.ParseFloat(latStr, 64)
		lng, lngErr := strconv.ParseFloat(lngStr, 64)
		if latErr != nil || lngErr != nil {
			return nil, fmt.Errorf("lat and lng must both be valid numbers")
		}
		p := proximity.Point{Lat: lat, Lng: lng}
		if !p.Valid() {
			return nil, fmt.Errorf("lat/lng out of range")
		}
		return &p, nil
	}

	if IPResolver != nil {
		return IPResolver.OriginForRequest(r), nil
	}
	return nil, nil
}

// parseBBox parses a "minLng,minLat,maxLng,maxLat" viewport parameter into
// an orb.Bound. Empty input means no viewport filter.
func parseBBox(s string) (*orb.Bound, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return nil, fmt.Errorf("bbox must be minLng,minLat,maxLng,maxLat")
	}
	vals := make([]float64, 4)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("bbox must be minLng,minLat,maxLng,maxLat")
		}
		vals[i] = v
	}
	bound := orb.Bound{
		Min: orb.Point{vals[0], vals[1]},
		Max: orb.Point{vals[2], vals[3]},
	}
	if bound.Min.Lon() > bound.Max.Lon() || bound.Min.Lat() > bound.Max.Lat() {
		return nil, fmt.Errorf("bbox min must not exceed max")
	}
	return &bound, nil
}

// filterByBound keeps entities inside the viewport. Entities without
// coordinates are kept; they belong in the list view even when the map
// cannot place them.
func filterByBound(entities []proximity.Entity, bound orb.Bound) []proximity.Entity {
	out := make([]proximity.Entity, 0, len(entities))
	for _, e := range entities {
		if !e.HasCoordinates() {
			out = append(out, e)
			continue
		}
		if bound.Contains(orb.Point{e.Lng, e.Lat}) {
			out = append(out, e)
		}
	}
	return out
}

// loadEntities reads AHJ and utility rows and lifts them into the core's
// entity shape. Swappable in tests.
var loadEntities = loadEntitiesFromDB

func loadEntitiesFromDB(ctx context.Context, state, kind string) ([]proximity.Entity, error) {
	var entities []proximity.Entity

	if kind == "" || kind == "ahj" {
		var ahjs []AHJ
		q := db.DB.WithContext(ctx).Model(&AHJ{})
		if state != "" {
			q = q.Where("state = ?", state)
		}
		if err := q.Find(&ahjs).Error; err != nil {
			return nil, fmt.Errorf("fetch ahjs: %w", err)
		}
		for _, a := range ahjs {
			entities = append(entities, a.ToEntity())
		}
	}

	if kind == "" || kind == "utility" {
		var utilities []Utility
		q := db.DB.WithContext(ctx).Model(&Utility{})
		if state != "" {
			q = q.Where("state = ?", state)
		}
		if err := q.Find(&utilities).Error; err != nil {
			return nil, fmt.Errorf("fetch utilities: %w", err)
		}
		for _, u := range utilities {
			entities = append(entities, u.ToEntity())
		}
	}

	return entities, nil
}

func fetchAHJsFromDB(ctx context.Context, state, classification, county string) ([]AHJ, error) {
	q := db.DB.WithContext(ctx).Where("state = ?", state)
	if classification != "" {
		q = q.Where("classification = ?", classification)
	}
	if county != "" {
		q = q.Where("county = ? OR ? = ANY(counties_served)", county, county)
	}

	var rows []AHJ
	if err := q.Order("name ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("fetch ahjs: %w", err)
	}
	return rows, nil
}

func filterAHJsBySearch(rows []AHJ, q string) []AHJ {
	if q == "" {
		return rows
	}
	filtered := make([]AHJ, 0, len(rows))
	for _, row := range rows {
		if matchesSearch(row.Name, q) || matchesSearch(row.County, q) {
			filtered = append(filtered, row)
		}
	}
	return filtered
}

// waitForAHJMin polls the database until at least minCount jurisdictions
// exist for the state or maxWait elapses. Used on cold misses while a
// background sync runs.
func waitForAHJMin(ctx context.Context, state string, maxWait, tick time.Duration, minCount int64) ([]AHJ, bool) {
	deadline := time.Now().Add(maxWait)
	for time.Now().Before(deadline) {
		select {
		case <-ctx.Done():
			return nil, false
		case <-time.After(tick):
		}

		var count int64
		if err := db.DB.WithContext(ctx).Model(&AHJ{}).Where("state = ?", state).Count(&count).Error; err != nil {
			continue
		}
		if count >= minCount {
			rows, err := fetchAHJsFromDB(ctx, state, "", "")
			if err == nil {
				return rows, true
			}
		}
	}
	return nil, false
}
