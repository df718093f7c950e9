package notificationstore_test

import (
	"testing"
	"time"

	notificationstore "github.com/dalemusser/collabboard/internal/app/store/notifications"
	"github.com/dalemusser/collabboard/internal/domain/models"
	"github.com/dalemusser/collabboard/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_Get_Empty(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := notificationstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	doc, err := store.Get(ctx, primitive.NewObjectID())
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if doc.HasUnread {
		t.Error("empty inbox should not report unread")
	}
	if doc.Notifications == nil {
		t.Error("Notifications should be an empty slice, not nil")
	}
	if len(doc.Notifications) != 0 {
		t.Errorf("expected empty inbox, got %d entries", len(doc.Notifications))
	}
}

func TestStore_Append(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := notificationstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := primitive.NewObjectID()
	from := primitive.NewObjectID()
	postID := primitive.NewObjectID()

	n := models.Notification{
		Type:         models.NotificationTypeInterest,
		PostID:       postID,
		FromUserID:   from,
		FromUserName: "Grace Hopper",
		Message:      `Grace Hopper is interested in your post "Build a game"`,
		Timestamp:    time.Now().UTC(),
	}
	if err := store.Append(ctx, owner, n); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if err := store.Append(ctx, owner, n); err != nil {
		t.Fatalf("second Append failed: %v", err)
	}

	doc, err := store.Get(ctx, owner)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !doc.HasUnread {
		t.Error("inbox with appended entries should report unread")
	}
	if len(doc.Notifications) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(doc.Notifications))
	}
	got := doc.Notifications[0]
	if got.Type != models.NotificationTypeInterest {
		t.Errorf("Type: got %q", got.Type)
	}
	if got.Read {
		t.Error("appended entry should start unread")
	}
	if got.Message != n.Message {
		t.Errorf("Message: got %q, want %q", got.Message, n.Message)
	}
	if got.PostID != postID {
		t.Errorf("PostID: got %v, want %v", got.PostID, postID)
	}
}

func TestStore_MarkAllRead(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := notificationstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := primitive.NewObjectID()
	for i := 0; i < 3; i++ {
		err := store.Append(ctx, owner, models.Notification{
			Type:      models.NotificationTypeInterest,
			Message:   "hello",
			Timestamp: time.Now().UTC(),
		})
		if err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}

	if err := store.MarkAllRead(ctx, owner); err != nil {
		t.Fatalf("MarkAllRead failed: %v", err)
	}

	doc, err := store.Get(ctx, owner)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if doc.HasUnread {
		t.Error("HasUnread should be cleared")
	}
	for i, n := range doc.Notifications {
		if !n.Read {
			t.Errorf("notification %d still unread", i)
		}
	}
	if len(doc.Notifications) != 3 {
		t.Errorf("MarkAllRead must not drop entries, got %d", len(doc.Notifications))
	}
}

func TestStore_MarkAllRead_NoInbox(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := notificationstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	// A user who never received anything has no inbox document.
	if err := store.MarkAllRead(ctx, primitive.NewObjectID()); err != nil {
		t.Fatalf("MarkAllRead on missing inbox should be a no-op: %v", err)
	}
}
