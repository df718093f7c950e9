// internal/app/features/profile/handler.go
package profile

import (
	"context"
	"encoding/json"
	"net/http"

	apierrors "github.com/dalemusser/collabboard/internal/app/features/errors"
	userstore "github.com/dalemusser/collabboard/internal/app/store/users"
	"github.com/dalemusser/collabboard/internal/app/system/auth"
	"github.com/dalemusser/collabboard/internal/app/system/normalize"
	"github.com/dalemusser/collabboard/internal/app/system/timeouts"
	"github.com/dalemusser/collabboard/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Handler serves profile resolution and completion.
type Handler struct {
	Users      *userstore.Store
	SessionMgr *auth.SessionManager
	Log        *zap.Logger
}

// NewHandler constructs the profile Handler.
func NewHandler(users *userstore.Store, sessionMgr *auth.SessionManager, logger *zap.Logger) *Handler {
	return &Handler{Users: users, SessionMgr: sessionMgr, Log: logger}
}

// profileView is the caller-facing profile document.
type profileView struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	CollegeName string `json:"college_name"`
	Branch      string `json:"branch"`
	Year        string `json:"year"`
	Skills      string `json:"skills"`
	Social      string `json:"social"`
}

// resolveResponse answers "who am I, and is my profile usable yet".
type resolveResponse struct {
	ProfileComplete bool         `json:"profile_complete"`
	Profile         *profileView `json:"profile"`
}

func toView(u *models.User) *profileView {
	return &profileView{
		Name:        u.Name,
		Email:       u.Email,
		CollegeName: u.CollegeName,
		Branch:      u.Branch,
		Year:        u.Year,
		Skills:      u.Skills,
		Social:      u.Social,
	}
}

// ServeGet handles GET /api/profile: resolve the session identity to its
// profile document. An account stub with no name reports
// profile_complete=false with a null profile.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	su, ok := auth.CurrentUser(r)
	if !ok {
		apierrors.Unauthorized(w)
		return
	}
	userID, err := primitive.ObjectIDFromHex(su.ID)
	if err != nil {
		apierrors.Unauthorized(w)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.GetByID(ctx, userID)
	if err == userstore.ErrNotFound {
		apierrors.NotFound(w, "account not found")
		return
	}
	if err != nil {
		apierrors.Internal(w, h.Log, err)
		return
	}

	resp := resolveResponse{ProfileComplete: u.ProfileComplete()}
	if u.ProfileComplete() {
		resp.Profile = toView(u)
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

// profileRequest is the JSON body of the profile-completion form.
type profileRequest struct {
	Name        string `json:"name"`
	CollegeName string `json:"college_name"`
	Branch      string `json:"branch"`
	Year        string `json:"year"`
	Skills      string `json:"skills"`
	Social      string `json:"social"`
}

// ServePut handles PUT /api/profile: writes the profile field set onto the
// account and refreshes the cached session name so later notifications
// carry it.
func (h *Handler) ServePut(w http.ResponseWriter, r *http.Request) {
	su, ok := auth.CurrentUser(r)
	if !ok {
		apierrors.Unauthorized(w)
		return
	}
	userID, err := primitive.ObjectIDFromHex(su.ID)
	if err != nil {
		apierrors.Unauthorized(w)
		return
	}

	var req profileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.BadRequest(w, "invalid request body")
		return
	}
	if normalize.Name(req.Name) == "" {
		apierrors.BadRequest(w, "name is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.SaveProfile(ctx, userID, userstore.ProfileUpdate{
		Name:        req.Name,
		CollegeName: req.CollegeName,
		Branch:      req.Branch,
		Year:        req.Year,
		Skills:      req.Skills,
		Social:      req.Social,
	})
	if err == userstore.ErrNotFound {
		apierrors.NotFound(w, "account not found")
		return
	}
	if err != nil {
		apierrors.Internal(w, h.Log, err)
		return
	}

	if err := h.SessionMgr.RefreshName(w, r, u.Name); err != nil {
		h.Log.Warn("failed to refresh session name", zap.Error(err),
			zap.String("user_id", su.ID))
	}

	h.Log.Info("profile saved", zap.String("user_id", su.ID))

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resolveResponse{
		ProfileComplete: u.ProfileComplete(),
		Profile:         toView(u),
	})
}
