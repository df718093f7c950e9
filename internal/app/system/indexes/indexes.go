// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dalemusser/collabboard/internal/app/store/oauthstate"
	poststore "github.com/dalemusser/collabboard/internal/app/store/posts"
	"github.com/dalemusser/collabboard/internal/app/store/resettokens"
	userstore "github.com/dalemusser/collabboard/internal/app/store/users"
	"go.mongodb.org/mongo-driver/mongo"
)

/*
EnsureAll is called at startup. Each store's EnsureIndexes is idempotent.
We aggregate errors so any problem is visible and startup can fail fast.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	if err := userstore.New(db).EnsureIndexes(ctx); err != nil {
		problems = append(problems, "users: "+err.Error())
	}
	if err := poststore.New(db).EnsureIndexes(ctx); err != nil {
		problems = append(problems, "posts: "+err.Error())
	}
	if err := oauthstate.New(db).EnsureIndexes(ctx); err != nil {
		problems = append(problems, "oauth_states: "+err.Error())
	}
	// Reset-token expiry is a per-store setting; indexes don't depend on it.
	if err := resettokens.New(db, time.Hour).EnsureIndexes(ctx); err != nil {
		problems = append(problems, "password_resets: "+err.Error())
	}
	// notifications are keyed by _id only; no extra indexes needed.

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}
