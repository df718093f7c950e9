// internal/app/features/notifications/handler.go
package notifications

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	apierrors "github.com/dalemusser/collabboard/internal/app/features/errors"
	notificationstore "github.com/dalemusser/collabboard/internal/app/store/notifications"
	"github.com/dalemusser/collabboard/internal/app/system/auth"
	"github.com/dalemusser/collabboard/internal/app/system/timeouts"
	"github.com/dalemusser/collabboard/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Handler serves the per-user notification inbox.
type Handler struct {
	Notifications *notificationstore.Store
	Log           *zap.Logger
}

// NewHandler constructs the notifications Handler.
func NewHandler(notifications *notificationstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Notifications: notifications, Log: logger}
}

// notificationView mirrors one inbox entry in JSON.
type notificationView struct {
	Type         string    `json:"type"`
	PostID       string    `json:"post_id"`
	FromUserID   string    `json:"from_user_id"`
	FromUserName string    `json:"from_user_name"`
	Message      string    `json:"message"`
	Read         bool      `json:"read"`
	Timestamp    time.Time `json:"timestamp"`
}

// inboxResponse is the full inbox plus its unread flag.
type inboxResponse struct {
	HasUnread     bool               `json:"has_unread"`
	Notifications []notificationView `json:"notifications"`
}

func toInboxResponse(doc models.NotificationDoc) inboxResponse {
	resp := inboxResponse{
		HasUnread:     doc.HasUnread,
		Notifications: make([]notificationView, 0, len(doc.Notifications)),
	}
	for _, n := range doc.Notifications {
		resp.Notifications = append(resp.Notifications, notificationView{
			Type:         n.Type,
			PostID:       n.PostID.Hex(),
			FromUserID:   n.FromUserID.Hex(),
			FromUserName: n.FromUserName,
			Message:      n.Message,
			Read:         n.Read,
			Timestamp:    n.Timestamp,
		})
	}
	return resp
}

func currentUserID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	su, ok := auth.CurrentUser(r)
	if !ok {
		apierrors.Unauthorized(w)
		return primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(su.ID)
	if err != nil {
		apierrors.Unauthorized(w)
		return primitive.NilObjectID, false
	}
	return id, true
}

// ServeGet handles GET /api/notifications: the acting user's inbox.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	doc, err := h.Notifications.Get(ctx, userID)
	if err != nil {
		apierrors.Internal(w, h.Log, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(toInboxResponse(doc))
}

// ServeMarkRead handles POST /api/notifications/read: marks every entry
// read and clears the unread flag.
func (h *Handler) ServeMarkRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Notifications.MarkAllRead(ctx, userID); err != nil {
		apierrors.Internal(w, h.Log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
