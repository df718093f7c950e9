// internal/domain/models/notification.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotificationDoc is the per-user notification document. Its _id is the
// owning user's id, so appends are single-document atomic operations.
type NotificationDoc struct {
	UserID        primitive.ObjectID `bson:"_id" json:"user_id"`
	Notifications []Notification     `bson:"notifications" json:"notifications"`
	HasUnread     bool               `bson:"has_unread" json:"has_unread"`
}

// Notification is one entry in a user's notification list. Today the only
// type is "interest", emitted when someone expresses interest in the user's
// post.
type Notification struct {
	Type         string             `bson:"type" json:"type"`
	PostID       primitive.ObjectID `bson:"post_id" json:"post_id"`
	FromUserID   primitive.ObjectID `bson:"from_user_id" json:"from_user_id"`
	FromUserName string             `bson:"from_user_name" json:"from_user_name"`
	Message      string             `bson:"message" json:"message"`
	Read         bool               `bson:"read" json:"read"`
	Timestamp    time.Time          `bson:"timestamp" json:"timestamp"`
}

// NotificationTypeInterest is emitted on a new interest in one of the
// recipient's posts.
const NotificationTypeInterest = "interest"
