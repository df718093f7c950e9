// internal/app/features/profile/routes.go
package profile

import (
	"github.com/dalemusser/collabboard/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes returns a subrouter for the profile endpoints,
// mounted under /api/profile. Requires a signed-in user.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireSignedIn)
	r.Get("/", h.ServeGet)
	r.Put("/", h.ServePut)
	return r
}
