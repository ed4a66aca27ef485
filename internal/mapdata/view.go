package mapdata

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/lahvjal/aveyo-ahj-planner-sub001/internal/proximity"
	"github.com/lahvjal/aveyo-ahj-planner-sub001/internal/utils"
)

// repView is one rep's ranked map view. Origin updates and entity refreshes
// each start a ranking pass; the Publisher drops passes that were overtaken
// and suppresses publishes that would not change the rendered order.
type repView struct {
	mu        sync.Mutex
	publisher proximity.Publisher
	origin    *proximity.Point
	state     string
	kind      string
	updatedAt time.Time
}

var (
	viewsMu sync.Mutex
	views   = make(map[string]*repView)
)

func viewFor(userID string) *repView {
	viewsMu.Lock()
	defer viewsMu.Unlock()
	v, ok := views[userID]
	if !ok {
		v = &repView{}
		views[userID] = v
	}
	return v
}

// startRankingPass fetches entities and ranks them against the view's
// current origin. The fetch runs off the request goroutine; a pass that
// loses the race to a newer one still completes, but its result is dropped
// at the publish boundary.
func (v *repView) startRankingPass() uint64 {
	token := v.publisher.Begin()
	fetch := loadEntities

	v.mu.Lock()
	origin := v.origin
	state, kind := v.state, v.kind
	v.mu.Unlock()

	go func() {
		entities, err := fetch(context.Background(), state, kind)
		if err != nil {
			log.Printf("[startRankingPass] token=%d err=%v", token, err)
			return
		}
		ranked := proximity.NewRanker().RankByProximity(origin, entities)
		if v.publisher.Publish(token, ranked) {
			log.Printf("[startRankingPass] token=%d published %d entities", token, len(ranked))
		}
	}()

	return token
}

// UpdateViewOrigin sets the rep's origin (or clears it with null) and starts
// a fresh ranking pass.
//
// Body: {"origin": {"lat": 40.76, "lng": -111.89} | null, "state": "UT", "kind": "ahj"}
func UpdateViewOrigin(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized: missing user ID in context", http.StatusUnauthorized)
		return
	}

	var body struct {
		Origin *proximity.Point `json:"origin"`
		State  string           `json:"state"`
		Kind   string           `json:"kind"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if body.Origin != nil && !body.Origin.Valid() {
		// Out-of-range device readings degrade to "no origin", same as the
		// feeds' (0,0) rows. The view just stops ranking.
		body.Origin = nil
	}
	if body.Kind != "" && body.Kind != "ahj" && body.Kind != "utility" {
		http.Error(w, "Invalid kind", http.StatusBadRequest)
		return
	}

	v := viewFor(userID)
	v.mu.Lock()
	v.origin = body.Origin
	v.state = body.State
	v.kind = body.Kind
	v.updatedAt = time.Now()
	v.mu.Unlock()

	token := v.startRankingPass()

	writeJSONStatus(w, http.StatusAccepted, map[string]any{
		"pass":   token,
		"origin": body.Origin,
	})
}

// GetView returns the rep's most recently published ranking.
func GetView(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized: missing user ID in context", http.StatusUnauthorized)
		return
	}

	v := viewFor(userID)
	v.mu.Lock()
	origin := v.origin
	updatedAt := v.updatedAt
	v.mu.Unlock()

	addNoStore(w)
	writeJSON(w, map[string]any{
		"origin":     origin,
		"updated_at": updatedAt,
		"entities":   v.publisher.Current(),
	})
}

// RefreshView re-runs the rep's ranking pass against freshly fetched
// entities without moving the origin.
func RefreshView(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized: missing user ID in context", http.StatusUnauthorized)
		return
	}

	v := viewFor(userID)
	token := v.startRankingPass()

	writeJSONStatus(w, http.StatusAccepted, map[string]any{"pass": token})
}
