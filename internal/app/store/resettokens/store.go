// internal/app/store/resettokens/store.go
package resettokens

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Token is a single-use password-reset token mailed to the account email.
type Token struct {
	Token     string             `bson:"token"`
	UserID    primitive.ObjectID `bson:"user_id"`
	ExpiresAt time.Time          `bson:"expires_at"`
	CreatedAt time.Time          `bson:"created_at"`
}

// Store manages password-reset tokens in MongoDB.
type Store struct {
	c      *mongo.Collection
	expiry time.Duration
}

// New creates a reset-token Store. expiry controls how long issued tokens
// stay valid.
func New(db *mongo.Database, expiry time.Duration) *Store {
	return &Store{c: db.Collection("password_resets"), expiry: expiry}
}

// EnsureIndexes creates the token lookup index and the TTL index.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "token", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("idx_reset_token"),
		},
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0).SetName("idx_reset_ttl"),
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}

// Issue stores a new token for the user and returns its expiry time.
func (s *Store) Issue(ctx context.Context, token string, userID primitive.ObjectID) (time.Time, error) {
	expiresAt := time.Now().UTC().Add(s.expiry)
	_, err := s.c.InsertOne(ctx, Token{
		Token:     token,
		UserID:    userID,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now().UTC(),
	})
	return expiresAt, err
}

// Consume validates and deletes a token (one-time use), returning the user
// it was issued for. valid=false when the token is unknown or expired.
func (s *Store) Consume(ctx context.Context, token string) (userID primitive.ObjectID, valid bool, err error) {
	var t Token
	err = s.c.FindOneAndDelete(ctx, bson.M{
		"token":      token,
		"expires_at": bson.M{"$gt": time.Now().UTC()},
	}).Decode(&t)

	if err == mongo.ErrNoDocuments {
		return primitive.NilObjectID, false, nil
	}
	if err != nil {
		return primitive.NilObjectID, false, err
	}
	return t.UserID, true, nil
}
