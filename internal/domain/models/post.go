// internal/domain/models/post.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post is a collaboration opportunity. The owner id is immutable after
// creation; OwnerName is a snapshot of the owner's profile name at creation
// time and is not updated when the profile changes later.
type Post struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title        string             `bson:"title" json:"title"`
	TitleCI      string             `bson:"title_ci" json:"-"` // lowercase, diacritics-stripped
	Description  string             `bson:"description" json:"description"`
	OwnerID      primitive.ObjectID `bson:"owner_id" json:"owner_id"`
	OwnerName    string             `bson:"owner_name" json:"owner_name"`
	EventDate    *time.Time         `bson:"event_date,omitempty" json:"event_date,omitempty"`
	TeamSize     string             `bson:"team_size" json:"team_size"`
	SkillsNeeded []string           `bson:"skills_needed" json:"skills_needed"`
	ContactInfo  string             `bson:"contact_info,omitempty" json:"contact_info,omitempty"`

	// InterestedUsers holds at most one record per user, enforced by the
	// guarded append in the posts store.
	InterestedUsers []InterestRecord `bson:"interested_users" json:"interested_users"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// InterestRecord captures a user's profile at the moment they expressed
// interest. The snapshot is deliberately not kept in sync with later
// profile edits.
type InterestRecord struct {
	UserID primitive.ObjectID `bson:"user_id" json:"user_id"`
	Name   string             `bson:"name" json:"name"`
	Skills string             `bson:"skills,omitempty" json:"skills,omitempty"`
	Social string             `bson:"social,omitempty" json:"social,omitempty"`
	Email  string             `bson:"email" json:"email"`
}
