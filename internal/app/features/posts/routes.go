// internal/app/features/posts/routes.go
package posts

import (
	"github.com/dalemusser/collabboard/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes returns a subrouter for the post board, mounted under /api/posts.
// Reading is public; every mutation requires a signed-in user.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ServeList)
	r.Get("/search", h.ServeSearch)
	r.Get("/stream", h.ServeStream)

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireSignedIn)
		r.Post("/", h.ServeCreate)
		r.Delete("/{id}", h.ServeDelete)
		r.Post("/{id}/interest", h.ServeInterest)
	})

	return r
}
