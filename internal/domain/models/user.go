// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is a CollabBoard account. The document is created as a minimal stub
// (email + created_at) at email/password signup, or on first profile
// completion for Google sign-ins. Profile fields stay empty until the user
// completes their profile; a user with an empty Name has not done so yet.
type User struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email  string             `bson:"email" json:"email"`
	NameCI string             `bson:"name_ci,omitempty" json:"-"` // lowercase, diacritics-stripped

	// Credentials. PasswordHash is empty for Google-only accounts.
	PasswordHash string `bson:"password_hash,omitempty" json:"-"`
	AuthMethod   string `bson:"auth_method,omitempty" json:"auth_method,omitempty"` // password | google

	// Profile (collected by the profile-completion form).
	Name        string `bson:"name,omitempty" json:"name,omitempty"`
	CollegeName string `bson:"college_name,omitempty" json:"college_name,omitempty"`
	Branch      string `bson:"branch,omitempty" json:"branch,omitempty"`
	Year        string `bson:"year,omitempty" json:"year,omitempty"`
	Skills      string `bson:"skills,omitempty" json:"skills,omitempty"` // free text
	Social      string `bson:"social,omitempty" json:"social,omitempty"` // free-text link

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

// ProfileComplete reports whether the user has finished the profile form.
// Posting and expressing interest require a complete profile.
func (u *User) ProfileComplete() bool {
	return u != nil && u.Name != ""
}
