package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lahvjal/aveyo-ahj-planner-sub001/internal/middleware"
)

func SetupRoutes() http.Handler {
	sessionFetcher := SessionInfo{}

	r := chi.NewRouter()

	// Public routes
	r.Post("/register", RegisterHandler)
	r.Post("/login", LoginHandler)

	// Session-guarded routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.SessionMiddleware(sessionFetcher))
		r.Post("/logout", LogoutHandler)
		r.Get("/me", MeHandler)
		r.Post("/password", UpdatePasswordHandler)
	})

	return r
}
