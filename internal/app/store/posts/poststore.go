package poststore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/collabboard/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("posts")}
}

var (
	// ErrNotFound is returned when no post matches the id.
	ErrNotFound = errors.New("post not found")
	// ErrNotOwner is returned when a delete is attempted by a non-owner.
	ErrNotOwner = errors.New("only the post owner can delete a post")
)

// Create inserts a new post. The interest set starts empty and CreatedAt is
// stamped here; callers supply title, description, owner id/name snapshot,
// and the optional fields.
func (s *Store) Create(ctx context.Context, p models.Post) (models.Post, error) {
	p.ID = primitive.NewObjectID()
	p.TitleCI = text.Fold(p.Title)
	p.CreatedAt = time.Now().UTC()
	if p.TeamSize == "" {
		p.TeamSize = "Flexible"
	}
	if p.SkillsNeeded == nil {
		p.SkillsNeeded = []string{}
	}
	if p.InterestedUsers == nil {
		p.InterestedUsers = []models.InterestRecord{}
	}

	if _, err := s.c.InsertOne(ctx, p); err != nil {
		return models.Post{}, err
	}
	return p, nil
}

// GetByID loads a single post. Returns ErrNotFound if absent.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	var p models.Post
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// List returns every post, newest first. No pagination: the board shows the
// whole collection.
func (s *Store) List(ctx context.Context) ([]models.Post, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	posts := []models.Post{}
	if err := cur.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// Delete removes a post iff the requester owns it. The post is re-fetched
// here, not trusted from the caller's view of the list, so the owner check
// runs against current state. ErrNotFound if the post is already gone,
// ErrNotOwner (and no mutation) if the requester does not own it.
func (s *Store) Delete(ctx context.Context, requesterID, postID primitive.ObjectID) error {
	p, err := s.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if p.OwnerID != requesterID {
		return ErrNotOwner
	}

	res, err := s.c.DeleteOne(ctx, bson.M{"_id": postID, "owner_id": requesterID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		// Deleted between the fetch and the delete.
		return ErrNotFound
	}
	return nil
}

// AddInterest appends an interest record to the post's interest set, at most
// once per user. The filter excludes posts that already hold this user's
// record, so the append is add-to-set at the server: concurrent appends by
// different users both land, and a repeat by the same user is a no-op.
//
// Returns added=false with a nil error when the user was already interested.
func (s *Store) AddInterest(ctx context.Context, postID primitive.ObjectID, rec models.InterestRecord) (added bool, err error) {
	filter := bson.M{
		"_id":                       postID,
		"interested_users.user_id": bson.M{"$ne": rec.UserID},
	}
	res, err := s.c.UpdateOne(ctx, filter, bson.M{
		"$push": bson.M{"interested_users": rec},
	})
	if err != nil {
		return false, err
	}
	if res.MatchedCount == 0 {
		// Either the post is gone or the user is already in the set.
		if _, gerr := s.GetByID(ctx, postID); gerr != nil {
			return false, gerr
		}
		return false, nil
	}
	return true, nil
}

// DeleteOlderThan removes every post created strictly before cutoff in a
// single batch and reports how many were removed. Used by the retention
// sweeper.
func (s *Store) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"created_at": bson.M{"$lt": cutoff}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// EnsureIndexes creates the posts indexes: the list path (created_at desc)
// and the interest-membership lookup used by AddInterest's guard filter.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.c.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_posts_created_desc"),
		},
		{
			Keys:    bson.D{{Key: "owner_id", Value: 1}},
			Options: options.Index().SetName("idx_posts_owner"),
		},
		{
			Keys:    bson.D{{Key: "interested_users.user_id", Value: 1}},
			Options: options.Index().SetName("idx_posts_interested_user"),
		},
	})
	return err
}
