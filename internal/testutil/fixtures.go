package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/collabboard/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser creates a test user with a complete profile.
func (f *Fixtures) CreateUser(ctx context.Context, name, email string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:          primitive.NewObjectID(),
		Email:       email,
		Name:        name,
		NameCI:      text.Fold(name),
		AuthMethod:  "password",
		CollegeName: "Test College",
		Branch:      "CSE",
		Year:        "3",
		Skills:      "Go, MongoDB",
		Social:      "https://example.com/" + text.Fold(name),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := f.db.Collection("users").InsertOne(ctx, user); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateStubUser creates a test user who has signed up but has no profile.
func (f *Fixtures) CreateStubUser(ctx context.Context, email string) models.User {
	f.t.Helper()

	user := models.User{
		ID:         primitive.NewObjectID(),
		Email:      email,
		AuthMethod: "password",
		CreatedAt:  time.Now().UTC(),
	}

	if _, err := f.db.Collection("users").InsertOne(ctx, user); err != nil {
		f.t.Fatalf("failed to create stub test user: %v", err)
	}
	return user
}

// CreatePost creates a test post owned by the given user.
func (f *Fixtures) CreatePost(ctx context.Context, owner models.User, title string) models.Post {
	f.t.Helper()
	return f.CreatePostAt(ctx, owner, title, time.Now().UTC())
}

// CreatePostAt creates a test post with an explicit creation time, for
// retention-sweep tests.
func (f *Fixtures) CreatePostAt(ctx context.Context, owner models.User, title string, createdAt time.Time) models.Post {
	f.t.Helper()

	post := models.Post{
		ID:              primitive.NewObjectID(),
		Title:           title,
		TitleCI:         text.Fold(title),
		Description:     "Test description",
		OwnerID:         owner.ID,
		OwnerName:       owner.Name,
		TeamSize:        "Flexible",
		SkillsNeeded:    []string{"Go"},
		InterestedUsers: []models.InterestRecord{},
		CreatedAt:       createdAt,
	}

	if _, err := f.db.Collection("posts").InsertOne(ctx, post); err != nil {
		f.t.Fatalf("failed to create test post: %v", err)
	}
	return post
}
