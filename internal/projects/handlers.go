package projects

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/lahvjal/aveyo-ahj-planner-sub001/internal/db"
	"github.com/lahvjal/aveyo-ahj-planner-sub001/internal/proximity"
	"github.com/lahvjal/aveyo-ahj-planner-sub001/internal/utils"
)

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// ListProjects returns the rep's projects, optionally filtered by status.
// When lat/lng query params are present the list comes back ranked by
// distance, nearest first, with per-project distances attached.
func ListProjects(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized: missing user ID in context", http.StatusUnauthorized)
		return
	}

	query := db.DB.WithContext(r.Context()).Where("user_id = ?", userID)
	if status := r.URL.Query().Get("status"); status != "" {
		query = query.Where("status = ?", NormalizeStatus(status))
	}

	var projects []Project
	if err := query.Order("created_at DESC").Find(&projects).Error; err != nil {
		http.Error(w, "Failed to fetch projects: "+err.Error(), http.StatusInternalServerError)
		return
	}

	latStr := r.URL.Query().Get("lat")
	lngStr := r.URL.Query().Get("lng")
	if latStr == "" && lngStr == "" {
		writeJSON(w, projects)
		return
	}

	lat, latErr := strconv.ParseFloat(latStr, 64)
	lng, lngErr := strconv.ParseFloat(lngStr, 64)
	if latErr != nil || lngErr != nil {
		http.Error(w, "lat and lng must both be valid numbers", http.StatusBadRequest)
		return
	}
	origin := &proximity.Point{Lat: lat, Lng: lng}

	entities := make([]proximity.Entity, 0, len(projects))
	byID := make(map[string]Project, len(projects))
	for _, p := range projects {
		entities = append(entities, p.ToEntity())
		byID[p.ID.String()] = p
	}

	ranked := proximity.NewRanker().RankByProximity(origin, entities)

	type rankedProject struct {
		Project
		DistanceMiles float64 `json:"distance_miles"`
	}
	out := make([]rankedProject, 0, len(ranked))
	for _, e := range ranked {
		out = append(out, rankedProject{Project: byID[e.ID], DistanceMiles: e.DistanceMiles})
	}

	writeJSON(w, out)
}

// GetProject returns one of the rep's projects by ID.
func GetProject(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized: missing user ID in context", http.StatusUnauthorized)
		return
	}
	projectID := chi.URLParam(r, "project_id")

	var project Project
	if err := db.DB.First(&project, "id = ? AND user_id = ?", projectID, userID).Error; err != nil {
		http.Error(w, "Project not found", http.StatusNotFound)
		return
	}

	writeJSON(w, project)
}

// CreateProject creates a project for the rep. When the body carries no
// coordinates but has an address, the address is geocoded; geocoding
// failures leave the project at (0,0) rather than rejecting it.
func CreateProject(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized: missing user ID in context", http.StatusUnauthorized)
		return
	}

	var project Project
	if err := json.NewDecoder(r.Body).Decode(&project); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if project.Name == "" {
		http.Error(w, "Name is required", http.StatusBadRequest)
		return
	}

	project.ID = uuid.Nil
	project.UserID = userID
	project.Status = NormalizeStatus(project.Status)

	if project.Lat == 0 && project.Lng == 0 && project.Address != "" && Geocoder != nil {
		result, err := Geocoder.Lookup(r.Context(), project.Address)
		if err != nil {
			log.Printf("[CreateProject] geocode address=%q err=%v", project.Address, err)
		} else {
			project.Lat = result.Lat
			project.Lng = result.Lng
		}
	}

	if err := db.DB.Create(&project).Error; err != nil {
		http.Error(w, "Failed to create project: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(project)
}

// UpdateProject applies partial updates to one of the rep's projects. A
// changed address is re-geocoded unless the body also set coordinates
// explicitly.
func UpdateProject(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized: missing user ID in context", http.StatusUnauthorized)
		return
	}
	projectID := chi.URLParam(r, "project_id")

	var project Project
	if err := db.DB.First(&project, "id = ? AND user_id = ?", projectID, userID).Error; err != nil {
		http.Error(w, "Project not found", http.StatusNotFound)
		return
	}

	var updates struct {
		Name      *string    `json:"name,omitempty"`
		Address   *string    `json:"address,omitempty"`
		Status    *string    `json:"status,omitempty"`
		Lat       *float64   `json:"lat,omitempty"`
		Lng       *float64   `json:"lng,omitempty"`
		AHJID     *uuid.UUID `json:"ahj_id,omitempty"`
		UtilityID *uuid.UUID `json:"utility_id,omitempty"`
		Tags      *[]string  `json:"tags,omitempty"`
		Notes     *string    `json:"notes,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	updateMap := make(map[string]interface{})
	if updates.Name != nil {
		updateMap["name"] = *updates.Name
	}
	if updates.Status != nil {
		updateMap["status"] = NormalizeStatus(*updates.Status)
	}
	if updates.Lat != nil {
		updateMap["lat"] = *updates.Lat
	}
	if updates.Lng != nil {
		updateMap["lng"] = *updates.Lng
	}
	if updates.AHJID != nil {
		updateMap["ahj_id"] = *updates.AHJID
	}
	if updates.UtilityID != nil {
		updateMap["utility_id"] = *updates.UtilityID
	}
	if updates.Tags != nil {
		updateMap["tags"] = pq.StringArray(*updates.Tags)
	}
	if updates.Notes != nil {
		updateMap["notes"] = *updates.Notes
	}
	if updates.Address != nil {
		updateMap["address"] = *updates.Address
		if updates.Lat == nil && updates.Lng == nil && *updates.Address != "" && Geocoder != nil {
			result, err := Geocoder.Lookup(r.Context(), *updates.Address)
			if err != nil {
				log.Printf("[UpdateProject] geocode address=%q err=%v", *updates.Address, err)
			} else {
				updateMap["lat"] = result.Lat
				updateMap["lng"] = result.Lng
			}
		}
	}

	if err := db.DB.Model(&project).Updates(updateMap).Error; err != nil {
		http.Error(w, "Failed to update project: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "Project updated successfully")
}

// DeleteProject removes one of the rep's projects.
func DeleteProject(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized: missing user ID in context", http.StatusUnauthorized)
		return
	}
	projectID := chi.URLParam(r, "project_id")

	result := db.DB.Delete(&Project{}, "id = ? AND user_id = ?", projectID, userID)
	if result.Error != nil {
		http.Error(w, "Failed to delete project: "+result.Error.Error(), http.StatusInternalServerError)
		return
	}
	if result.RowsAffected == 0 {
		http.Error(w, "Project not found", http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
