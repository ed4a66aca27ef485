package mapdata

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// SyncJob tracks the progress of a bulk state refresh.
type SyncJob struct {
	ID           string     `json:"id"`
	Status       string     `json:"status"` // "running", "completed", "completed_with_errors"
	TotalStates  int        `json:"total_states"`
	Completed    int        `json:"completed"`
	Failed       int        `json:"failed"`
	CurrentState string     `json:"current_state,omitempty"`
	FailedStates []string   `json:"failed_states,omitempty"`
	DelayMs      int        `json:"delay_between_ms"`
	StartedAt    time.Time  `json:"started_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
}

var (
	syncJobs   = make(map[string]*SyncJob)
	syncJobsMu sync.Mutex
)

// StartBulkSync handles POST /admin/refresh
// Accepts {"states": ["UT", "CO"], "delay_between_ms": 3000}
func StartBulkSync(w http.ResponseWriter, r *http.Request) {
	var body struct {
		States       []string `json:"states"`
		DelayBetween int      `json:"delay_between_ms"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if len(body.States) == 0 {
		http.Error(w, "At least one state is required", http.StatusBadRequest)
		return
	}
	if len(body.States) > 50 {
		http.Error(w, "Maximum 50 states per refresh", http.StatusBadRequest)
		return
	}

	states := make([]string, 0, len(body.States))
	for _, s := range body.States {
		s = strings.ToUpper(strings.TrimSpace(s))
		if !isState(s) {
			http.Error(w, fmt.Sprintf("Invalid state: %s", s), http.StatusBadRequest)
			return
		}
		states = append(states, s)
	}

	if Provider == nil {
		http.Error(w, "No entity provider configured", http.StatusServiceUnavailable)
		return
	}

	delay := body.DelayBetween
	if delay <= 0 {
		delay = 3000 // default 3 seconds
	}

	job := &SyncJob{
		ID:          uuid.New().String(),
		Status:      "running",
		TotalStates: len(states),
		DelayMs:     delay,
		StartedAt:   time.Now(),
	}

	syncJobsMu.Lock()
	syncJobs[job.ID] = job
	syncJobsMu.Unlock()

	go runBulkSync(job, states)

	writeJSONStatus(w, http.StatusAccepted, map[string]string{
		"job_id": job.ID,
		"status": "running",
	})
}

// GetSyncJob handles GET /admin/refresh/{jobID}
func GetSyncJob(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")

	syncJobsMu.Lock()
	job, ok := syncJobs[jobID]
	if !ok {
		syncJobsMu.Unlock()
		http.Error(w, "Job not found", http.StatusNotFound)
		return
	}
	snapshot := *job
	if job.FailedStates != nil {
		snapshot.FailedStates = make([]string, len(job.FailedStates))
		copy(snapshot.FailedStates, job.FailedStates)
	}
	syncJobsMu.Unlock()

	writeJSON(w, snapshot)
}

// ListSyncJobs handles GET /admin/refresh
func ListSyncJobs(w http.ResponseWriter, r *http.Request) {
	syncJobsMu.Lock()
	jobs := make([]SyncJob, 0, len(syncJobs))
	for _, job := range syncJobs {
		snapshot := *job
		if job.FailedStates != nil {
			snapshot.FailedStates = make([]string, len(job.FailedStates))
			copy(snapshot.FailedStates, job.FailedStates)
		}
		jobs = append(jobs, snapshot)
	}
	syncJobsMu.Unlock()

	writeJSON(w, jobs)
}

// runBulkSync processes states sequentially with a delay between each so a
// multi-state refresh doesn't hammer the vendor API.
func runBulkSync(job *SyncJob, states []string) {
	ctx := context.Background()
	delay := time.Duration(job.DelayMs) * time.Millisecond

	log.Printf("[BulkSync] job=%s starting refresh of %d states", job.ID, len(states))

	for i, state := range states {
		syncJobsMu.Lock()
		job.CurrentState = state
		syncJobsMu.Unlock()

		log.Printf("[BulkSync] job=%s refreshing state %s (%d/%d)", job.ID, state, i+1, len(states))

		err := func() error {
			if !tryAcquireLock(ctx, "sync-"+state) {
				return fmt.Errorf("state %s already syncing", state)
			}
			defer releaseLock(ctx, "sync-"+state)
			return SyncState(ctx, state)
		}()

		if err != nil {
			log.Printf("[BulkSync] job=%s state %s failed: %v", job.ID, state, err)
			syncJobsMu.Lock()
			job.Failed++
			job.FailedStates = append(job.FailedStates, state)
			syncJobsMu.Unlock()
		} else {
			syncJobsMu.Lock()
			job.Completed++
			syncJobsMu.Unlock()
		}

		// Delay between states to avoid rate limiting (skip after last)
		if i < len(states)-1 {
			time.Sleep(delay)
		}
	}

	now := time.Now()
	syncJobsMu.Lock()
	job.CurrentState = ""
	job.CompletedAt = &now
	if job.Failed > 0 {
		job.Status = "completed_with_errors"
	} else {
		job.Status = "completed"
	}
	syncJobsMu.Unlock()

	log.Printf("[BulkSync] job=%s finished completed=%d failed=%d", job.ID, job.Completed, job.Failed)
}
