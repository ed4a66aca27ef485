package mapdata

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/lahvjal/aveyo-ahj-planner-sub001/internal/proximity"
	"github.com/lahvjal/aveyo-ahj-planner-sub001/internal/utils"
)

func stubEntities(t *testing.T, entities []proximity.Entity) {
	t.Helper()
	prev := loadEntities
	loadEntities = func(ctx context.Context, state, kind string) ([]proximity.Entity, error) {
		return entities, nil
	}
	t.Cleanup(func() { loadEntities = prev })
}

func waitForView(t *testing.T, v *repView, want int) []proximity.Entity {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if current := v.publisher.Current(); len(current) == want {
			return current
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("View never published %d entities", want)
	return nil
}

func TestStartRankingPass(t *testing.T) {
	stubEntities(t, []proximity.Entity{
		{ID: "far", Name: "Denver", Lat: 39.74, Lng: -104.99},
		{ID: "near", Name: "Provo", Lat: 40.23, Lng: -111.66},
	})

	v := &repView{origin: &proximity.Point{Lat: 40.76, Lng: -111.89}}
	token := v.startRankingPass()
	if token == 0 {
		t.Fatal("Expected a nonzero pass token")
	}

	current := waitForView(t, v, 2)
	if current[0].ID != "near" {
		t.Errorf("Expected nearest entity first, got %q", current[0].ID)
	}
	if current[0].DistanceMiles >= current[1].DistanceMiles {
		t.Error("Expected ascending distance order")
	}
}

func TestStartRankingPassTokensIncrease(t *testing.T) {
	stubEntities(t, nil)

	v := &repView{}
	first := v.startRankingPass()
	second := v.startRankingPass()
	if second <= first {
		t.Errorf("Expected tokens to increase, got %d then %d", first, second)
	}
}

func requestWithUser(method, target, body, userID string) *http.Request {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	ctx := context.WithValue(req.Context(), utils.ContextUserIDKey, userID)
	return req.WithContext(ctx)
}

func TestUpdateViewOrigin(t *testing.T) {
	stubEntities(t, []proximity.Entity{
		{ID: "slc", Name: "Salt Lake City", Lat: 40.76, Lng: -111.89},
	})

	body := `{"origin": {"lat": 40.76, "lng": -111.89}, "state": "UT", "kind": "ahj"}`
	req := requestWithUser("PUT", "/view/origin", body, "user-origin-test")
	rec := httptest.NewRecorder()
	UpdateViewOrigin(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("Expected 202, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Pass   uint64           `json:"pass"`
		Origin *proximity.Point `json:"origin"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Bad response body: %v", err)
	}
	if resp.Pass == 0 {
		t.Error("Expected a pass token in the response")
	}
	if resp.Origin == nil || resp.Origin.Lat != 40.76 {
		t.Errorf("Expected origin echoed back, got %+v", resp.Origin)
	}

	waitForView(t, viewFor("user-origin-test"), 1)
}

func TestUpdateViewOriginDegradesBadOrigin(t *testing.T) {
	stubEntities(t, nil)

	// Out-of-range device readings clear the origin instead of erroring.
	body := `{"origin": {"lat": 999, "lng": 999}, "state": "UT"}`
	req := requestWithUser("PUT", "/view/origin", body, "user-bad-origin")
	rec := httptest.NewRecorder()
	UpdateViewOrigin(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("Expected 202, got %d", rec.Code)
	}

	var resp struct {
		Origin *proximity.Point `json:"origin"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Bad response body: %v", err)
	}
	if resp.Origin != nil {
		t.Errorf("Expected nil origin after degrade, got %+v", resp.Origin)
	}
}

func TestUpdateViewOriginRejectsBadKind(t *testing.T) {
	req := requestWithUser("PUT", "/view/origin", `{"kind": "pizza"}`, "user-bad-kind")
	rec := httptest.NewRecorder()
	UpdateViewOrigin(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for unknown kind, got %d", rec.Code)
	}
}

func TestUpdateViewOriginRequiresUser(t *testing.T) {
	req := httptest.NewRequest("PUT", "/view/origin", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	UpdateViewOrigin(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 without user context, got %d", rec.Code)
	}
}

func TestGetView(t *testing.T) {
	stubEntities(t, []proximity.Entity{
		{ID: "one", Name: "Provo", Lat: 40.23, Lng: -111.66},
	})

	v := viewFor("user-get-view")
	v.mu.Lock()
	v.origin = &proximity.Point{Lat: 40.76, Lng: -111.89}
	v.mu.Unlock()
	v.startRankingPass()
	waitForView(t, v, 1)

	req := requestWithUser("GET", "/view", "", "user-get-view")
	rec := httptest.NewRecorder()
	GetView(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var resp struct {
		Entities []proximity.Entity `json:"entities"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Bad response body: %v", err)
	}
	if len(resp.Entities) != 1 || resp.Entities[0].ID != "one" {
		t.Errorf("Expected the published ranking, got %+v", resp.Entities)
	}
}
