package mapdata

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lahvjal/aveyo-ahj-planner-sub001/internal/auth"
	"github.com/lahvjal/aveyo-ahj-planner-sub001/internal/middleware"
)

func SetupRoutes() http.Handler {
	r := chi.NewRouter()
	sessionFetcher := auth.SessionInfo{}

	// Public routes
	r.Get("/ahjs", ListAHJs)
	r.Get("/ahjs/{id}", GetAHJByID)
	r.Get("/utilities", ListUtilities)
	r.Get("/utilities/{id}", GetUtilityByID)
	r.Get("/nearby", Nearby)
	r.Get("/status", GetSyncStatus)

	// Per-rep map view state
	r.Group(func(r chi.Router) {
		r.Use(middleware.SessionMiddleware(sessionFetcher))
		r.Get("/view", GetView)
		r.Put("/view/origin", UpdateViewOrigin)
		r.Post("/view/refresh", RefreshView)
	})

	// Admin routes - require authentication
	r.Group(func(r chi.Router) {
		r.Use(middleware.SessionMiddleware(sessionFetcher))
		r.Use(middleware.AdminMiddleware(sessionFetcher))

		r.Post("/admin/refresh", StartBulkSync)
		r.Get("/admin/refresh", ListSyncJobs)
		r.Get("/admin/refresh/{jobID}", GetSyncJob)
	})

	return r
}
