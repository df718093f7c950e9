// internal/app/store/notifications/store.go
package notificationstore

import (
	"context"

	"github.com/dalemusser/collabboard/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store manages per-user notification documents. Each user has at most one
// document, keyed by their user id, so every mutation here is a
// single-document atomic operation.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("notifications")}
}

// Append pushes a notification onto the user's list and lights the unread
// flag, creating the document on first delivery. $push never replaces
// existing entries, so concurrent appends from different senders all land.
func (s *Store) Append(ctx context.Context, userID primitive.ObjectID, n models.Notification) error {
	opts := options.Update().SetUpsert(true)
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{
		"$push": bson.M{"notifications": n},
		"$set":  bson.M{"has_unread": true},
	}, opts)
	return err
}

// Get returns the user's notification document. A user who has never
// received a notification gets an empty document, not an error.
func (s *Store) Get(ctx context.Context, userID primitive.ObjectID) (models.NotificationDoc, error) {
	var doc models.NotificationDoc
	err := s.c.FindOne(ctx, bson.M{"_id": userID}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return models.NotificationDoc{
			UserID:        userID,
			Notifications: []models.Notification{},
		}, nil
	}
	if err != nil {
		return models.NotificationDoc{}, err
	}
	if doc.Notifications == nil {
		doc.Notifications = []models.Notification{}
	}
	return doc, nil
}

// MarkAllRead flips every entry to read and clears the unread flag. A user
// with no notification document is a no-op.
func (s *Store) MarkAllRead(ctx context.Context, userID primitive.ObjectID) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{
		"$set": bson.M{
			"has_unread":             false,
			"notifications.$[].read": true,
		},
	})
	return err
}
