// internal/app/features/notifications/routes.go
package notifications

import (
	"github.com/dalemusser/collabboard/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes returns a subrouter for the notification endpoints,
// mounted under /api/notifications. Requires a signed-in user.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireSignedIn)
	r.Get("/", h.ServeGet)
	r.Post("/read", h.ServeMarkRead)
	return r
}
