package workers_test

import (
	"testing"
	"time"

	poststore "github.com/dalemusser/collabboard/internal/app/store/posts"
	"github.com/dalemusser/collabboard/internal/app/system/workers"
	"github.com/dalemusser/collabboard/internal/testutil"
	"go.uber.org/zap"
)

func TestRetentionSweep_RemovesOnlyExpired(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := poststore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "Ada Lovelace", "ada@example.com")
	now := time.Now().UTC()
	fixtures.CreatePostAt(ctx, owner, "fresh", now.AddDate(0, 0, -5))
	fixtures.CreatePostAt(ctx, owner, "edge", now.AddDate(0, 0, -9))
	fixtures.CreatePostAt(ctx, owner, "stale", now.AddDate(0, 0, -11))
	fixtures.CreatePostAt(ctx, owner, "ancient", now.AddDate(0, 0, -30))

	w := workers.NewRetentionSweep(store, zap.NewNop(), time.Hour, 240*time.Hour)
	w.Start()
	defer w.Stop()

	// The worker sweeps once at startup; poll until the expired posts are gone.
	deadline := time.Now().Add(5 * time.Second)
	for {
		posts, err := store.List(ctx)
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(posts) == 2 {
			for _, p := range posts {
				if p.Title != "fresh" && p.Title != "edge" {
					t.Fatalf("unexpected surviving post %q", p.Title)
				}
			}
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("sweep did not converge: %d posts remain", len(posts))
		}
		time.Sleep(50 * time.Millisecond)
	}
}

func TestRetentionSweep_StartStop(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := poststore.New(db)

	w := workers.NewRetentionSweep(store, zap.NewNop(), time.Hour, 240*time.Hour)
	w.Start()
	w.Stop() // must not hang or panic
}
