package userstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/collabboard/internal/app/system/normalize"
	"github.com/dalemusser/collabboard/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
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
	return &Store{c: db.Collection("users")}
}

var (
	// ErrDuplicateEmail is returned when attempting to create a user with an email that already exists.
	ErrDuplicateEmail = errors.New("an account with this email already exists")
	// ErrNotFound is returned when no user matches the lookup.
	ErrNotFound = errors.New("user not found")
)

// GetByID loads a user by ObjectID. Returns ErrNotFound if absent.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// GetByEmail looks up a user by case-insensitive email. Returns ErrNotFound if absent.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"email": normalize.Email(email)}).Decode(&u); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// CreateWithPassword inserts the minimal signup stub: email, password hash,
// creation time. The profile stays empty until the user completes it.
// Exactly one document per email; a duplicate signup returns
// ErrDuplicateEmail without inserting anything.
func (s *Store) CreateWithPassword(ctx context.Context, email, passwordHash string) (models.User, error) {
	u := models.User{
		ID:           primitive.NewObjectID(),
		Email:        normalize.Email(email),
		PasswordHash: passwordHash,
		AuthMethod:   "password",
		CreatedAt:    time.Now().UTC(),
	}
	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}
	return u, nil
}

// EnsureGoogleUser returns the account for a Google identity, creating the
// stub on first sign-in. The stub carries no profile; the caller routes the
// user to profile completion when Name is still empty.
func (s *Store) EnsureGoogleUser(ctx context.Context, email string) (models.User, error) {
	email = normalize.Email(email)

	var u models.User
	err := s.c.FindOne(ctx, bson.M{"email": email}).Decode(&u)
	if err == nil {
		return u, nil
	}
	if err != mongo.ErrNoDocuments {
		return models.User{}, err
	}

	u = models.User{
		ID:         primitive.NewObjectID(),
		Email:      email,
		AuthMethod: "google",
		CreatedAt:  time.Now().UTC(),
	}
	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			// Lost a race with a concurrent first sign-in; read the winner.
			if ferr := s.c.FindOne(ctx, bson.M{"email": email}).Decode(&u); ferr == nil {
				return u, nil
			}
		}
		return models.User{}, err
	}
	return u, nil
}

// ProfileUpdate holds the fields of the profile-completion form.
type ProfileUpdate struct {
	Name        string
	CollegeName string
	Branch      string
	Year        string
	Skills      string
	Social      string
}

// SaveProfile writes the full profile field set onto the user document,
// leaving identity fields (email, password) untouched. Returns the
// updated user.
func (s *Store) SaveProfile(ctx context.Context, id primitive.ObjectID, upd ProfileUpdate) (*models.User, error) {
	name := normalize.Name(upd.Name)
	set := bson.M{
		"name":         name,
		"name_ci":      text.Fold(name),
		"college_name": upd.CollegeName,
		"branch":       upd.Branch,
		"year":         upd.Year,
		"skills":       upd.Skills,
		"social":       upd.Social,
		"updated_at":   time.Now().UTC(),
	}

	var u models.User
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&u)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// EnsureIndexes creates the unique email index that backs duplicate
// signup detection.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.c.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "email", Value: 1}},
		Options: options.Index().
			SetName("idx_users_email").
			SetUnique(true),
	})
	return err
}

// UpdatePassword replaces the stored password hash (password reset).
func (s *Store) UpdatePassword(ctx context.Context, id primitive.ObjectID, passwordHash string) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"password_hash": passwordHash,
		"auth_method":   "password",
		"updated_at":    time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
