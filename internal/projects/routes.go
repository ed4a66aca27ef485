package projects

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lahvjal/aveyo-ahj-planner-sub001/internal/auth"
	"github.com/lahvjal/aveyo-ahj-planner-sub001/internal/middleware"
)

func SetupRoutes() http.Handler {
	r := chi.NewRouter()
	sessionFetcher := auth.SessionInfo{}

	// Every project route is rep-scoped; nothing here is public.
	r.Group(func(r chi.Router) {
		r.Use(middleware.SessionMiddleware(sessionFetcher))

		r.Get("/", ListProjects)
		r.Post("/", CreateProject)
		r.Get("/{project_id}", GetProject)
		r.Put("/{project_id}", UpdateProject)
		r.Delete("/{project_id}", DeleteProject)
	})

	return r
}
