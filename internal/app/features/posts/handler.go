// internal/app/features/posts/handler.go
package posts

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	apierrors "github.com/dalemusser/collabboard/internal/app/features/errors"
	notificationstore "github.com/dalemusser/collabboard/internal/app/store/notifications"
	poststore "github.com/dalemusser/collabboard/internal/app/store/posts"
	userstore "github.com/dalemusser/collabboard/internal/app/store/users"
	"github.com/dalemusser/collabboard/internal/app/system/auth"
	"github.com/dalemusser/collabboard/internal/app/system/htmlsanitize"
	"github.com/dalemusser/collabboard/internal/app/system/livefeed"
	"github.com/dalemusser/collabboard/internal/app/system/search"
	"github.com/dalemusser/collabboard/internal/app/system/timeouts"
	"github.com/dalemusser/collabboard/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Handler serves the post board: create, list, search, delete, interest.
type Handler struct {
	Posts         *poststore.Store
	Users         *userstore.Store
	Notifications *notificationstore.Store
	Feed          *livefeed.Hub
	Log           *zap.Logger

	// StreamRefresh bounds how stale a live stream can get when no
	// mutation signal arrives (missed wakeups, other writers).
	StreamRefresh time.Duration
}

// NewHandler constructs the posts Handler.
func NewHandler(
	posts *poststore.Store,
	users *userstore.Store,
	notifications *notificationstore.Store,
	feed *livefeed.Hub,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		Posts:         posts,
		Users:         users,
		Notifications: notifications,
		Feed:          feed,
		Log:           logger,
		StreamRefresh: 30 * time.Second,
	}
}

// interestView mirrors one interest record in JSON.
type interestView struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Skills string `json:"skills"`
	Social string `json:"social"`
	Email  string `json:"email"`
}

// postView is the caller-facing shape of a post.
type postView struct {
	ID              string         `json:"id"`
	Title           string         `json:"title"`
	Description     string         `json:"description"`
	OwnerID         string         `json:"owner_id"`
	OwnerName       string         `json:"owner_name"`
	EventDate       *time.Time     `json:"event_date,omitempty"`
	TeamSize        string         `json:"team_size"`
	SkillsNeeded    []string       `json:"skills_needed"`
	ContactInfo     string         `json:"contact_info"`
	InterestedUsers []interestView `json:"interested_users"`
	CreatedAt       time.Time      `json:"created_at"`
}

func toView(p models.Post) postView {
	v := postView{
		ID:              p.ID.Hex(),
		Title:           p.Title,
		Description:     p.Description,
		OwnerID:         p.OwnerID.Hex(),
		OwnerName:       p.OwnerName,
		EventDate:       p.EventDate,
		TeamSize:        p.TeamSize,
		SkillsNeeded:    p.SkillsNeeded,
		ContactInfo:     p.ContactInfo,
		InterestedUsers: make([]interestView, 0, len(p.InterestedUsers)),
		CreatedAt:       p.CreatedAt,
	}
	if v.SkillsNeeded == nil {
		v.SkillsNeeded = []string{}
	}
	for _, rec := range p.InterestedUsers {
		v.InterestedUsers = append(v.InterestedUsers, interestView{
			UserID: rec.UserID.Hex(),
			Name:   rec.Name,
			Skills: rec.Skills,
			Social: rec.Social,
			Email:  rec.Email,
		})
	}
	return v
}

func toViews(posts []models.Post) []postView {
	views := make([]postView, 0, len(posts))
	for _, p := range posts {
		views = append(views, toView(p))
	}
	return views
}

// requireCompleteProfile resolves the session identity to a stored user
// with a finished profile. Posting and expressing interest both need the
// profile snapshot.
func (h *Handler) requireCompleteProfile(ctx context.Context, w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	su, ok := auth.CurrentUser(r)
	if !ok {
		apierrors.Unauthorized(w)
		return nil, false
	}
	userID, err := primitive.ObjectIDFromHex(su.ID)
	if err != nil {
		apierrors.Unauthorized(w)
		return nil, false
	}

	u, err := h.Users.GetByID(ctx, userID)
	if err == userstore.ErrNotFound {
		apierrors.Unauthorized(w)
		return nil, false
	}
	if err != nil {
		apierrors.Internal(w, h.Log, err)
		return nil, false
	}
	if !u.ProfileComplete() {
		apierrors.Forbidden(w, "complete your profile first")
		return nil, false
	}
	return u, true
}

// createRequest is the JSON body for post creation.
type createRequest struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	EventDate    string `json:"event_date"`
	TeamSize     string `json:"team_size"`
	SkillsNeeded string `json:"skills_needed"`
	ContactInfo  string `json:"contact_info"`
}

// ServeCreate handles POST /api/posts.
func (h *Handler) ServeCreate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	u, ok := h.requireCompleteProfile(ctx, w, r)
	if !ok {
		return
	}

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierrors.BadRequest(w, "invalid request body")
		return
	}

	title := strings.TrimSpace(htmlsanitize.Sanitize(req.Title))
	if title == "" {
		apierrors.BadRequest(w, "title is required")
		return
	}

	var eventDate *time.Time
	if req.EventDate != "" {
		d, err := parseEventDate(req.EventDate)
		if err != nil {
			apierrors.BadRequest(w, "event_date must be an RFC 3339 date")
			return
		}
		eventDate = &d
	}

	p, err := h.Posts.Create(ctx, models.Post{
		Title:        title,
		Description:  htmlsanitize.Sanitize(req.Description),
		OwnerID:      u.ID,
		OwnerName:    u.Name,
		EventDate:    eventDate,
		TeamSize:     strings.TrimSpace(req.TeamSize),
		SkillsNeeded: splitSkills(req.SkillsNeeded),
		ContactInfo:  strings.TrimSpace(req.ContactInfo),
	})
	if err != nil {
		apierrors.Internal(w, h.Log, err)
		return
	}

	h.Feed.Notify()
	h.Log.Info("post created",
		zap.String("post_id", p.ID.Hex()),
		zap.String("owner_id", u.ID.Hex()))

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(toView(p))
}

// ServeList handles GET /api/posts. An optional ?q= narrows the list by
// title substring; the wider title-or-description scope lives at /search.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	posts, err := h.Posts.List(ctx)
	if err != nil {
		apierrors.Internal(w, h.Log, err)
		return
	}

	if q := query.Get(r, "q"); q != "" {
		posts = search.FilterByTitle(posts, q)
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(toViews(posts))
}

// ServeSearch handles GET /api/posts/search?q=. Matches title OR
// description, case-insensitive.
func (h *Handler) ServeSearch(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	posts, err := h.Posts.List(ctx)
	if err != nil {
		apierrors.Internal(w, h.Log, err)
		return
	}

	posts = search.FilterPosts(posts, query.Get(r, "q"))

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(toViews(posts))
}

// ServeDelete handles DELETE /api/posts/{id}. Only the owner may delete;
// the ownership check runs against a fresh read of the post.
func (h *Handler) ServeDelete(w http.ResponseWriter, r *http.Request) {
	su, ok := auth.CurrentUser(r)
	if !ok {
		apierrors.Unauthorized(w)
		return
	}
	requesterID, err := primitive.ObjectIDFromHex(su.ID)
	if err != nil {
		apierrors.Unauthorized(w)
		return
	}

	postID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		apierrors.NotFound(w, "post not found")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	switch err := h.Posts.Delete(ctx, requesterID, postID); err {
	case nil:
		h.Feed.Notify()
		h.Log.Info("post deleted",
			zap.String("post_id", postID.Hex()),
			zap.String("owner_id", su.ID))
		w.WriteHeader(http.StatusNoContent)
	case poststore.ErrNotFound:
		apierrors.NotFound(w, "post not found")
	case poststore.ErrNotOwner:
		apierrors.Forbidden(w, "only the owner can delete this post")
	default:
		apierrors.Internal(w, h.Log, err)
	}
}

// interestResponse reports what the append did.
type interestResponse struct {
	Status string `json:"status"` // "interested" or "already_interested"
}

// ServeInterest handles POST /api/posts/{id}/interest. Appends a profile
// snapshot to the post's interest set and notifies the owner. A repeat
// call by the same user is a no-op.
func (h *Handler) ServeInterest(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	u, ok := h.requireCompleteProfile(ctx, w, r)
	if !ok {
		return
	}

	postID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		apierrors.NotFound(w, "post not found")
		return
	}

	added, err := h.Posts.AddInterest(ctx, postID, models.InterestRecord{
		UserID: u.ID,
		Name:   u.Name,
		Skills: u.Skills,
		Social: u.Social,
		Email:  u.Email,
	})
	if err == poststore.ErrNotFound {
		apierrors.NotFound(w, "post not found")
		return
	}
	if err != nil {
		apierrors.Internal(w, h.Log, err)
		return
	}

	resp := interestResponse{Status: "already_interested"}
	if added {
		resp.Status = "interested"

		// Owner id and title come from a fresh read at append time.
		p, err := h.Posts.GetByID(ctx, postID)
		if err != nil {
			// The post vanished between append and read; the interest
			// went with it.
			apierrors.Internal(w, h.Log, err)
			return
		}

		if p.OwnerID != u.ID {
			n := models.Notification{
				Type:         models.NotificationTypeInterest,
				PostID:       p.ID,
				FromUserID:   u.ID,
				FromUserName: u.Name,
				Message:      fmt.Sprintf("%s is interested in your post %q", u.Name, p.Title),
				Timestamp:    time.Now().UTC(),
			}
			if err := h.Notifications.Append(ctx, p.OwnerID, n); err != nil {
				// The interest itself landed; the owner just misses the ping.
				h.Log.Error("failed to append notification",
					zap.Error(err),
					zap.String("post_id", postID.Hex()),
					zap.String("owner_id", p.OwnerID.Hex()))
			}
		}

		h.Feed.Notify()
		h.Log.Info("interest recorded",
			zap.String("post_id", postID.Hex()),
			zap.String("user_id", u.ID.Hex()))
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

// splitSkills parses a comma-separated skills string into trimmed,
// ordered tags, dropping empties.
func splitSkills(s string) []string {
	parts := strings.Split(s, ",")
	skills := make([]string, 0, len(parts))
	for _, p := range parts {
		if tag := strings.TrimSpace(p); tag != "" {
			skills = append(skills, tag)
		}
	}
	return skills
}

// parseEventDate accepts a full RFC 3339 timestamp or a bare date.
func parseEventDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
