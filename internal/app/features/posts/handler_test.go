package posts_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dalemusser/collabboard/internal/app/features/posts"
	notificationstore "github.com/dalemusser/collabboard/internal/app/store/notifications"
	poststore "github.com/dalemusser/collabboard/internal/app/store/posts"
	userstore "github.com/dalemusser/collabboard/internal/app/store/users"
	"github.com/dalemusser/collabboard/internal/app/system/livefeed"
	"github.com/dalemusser/collabboard/internal/domain/models"
	"github.com/dalemusser/collabboard/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newHandler(db *mongo.Database) *posts.Handler {
	return posts.NewHandler(
		poststore.New(db),
		userstore.New(db),
		notificationstore.New(db),
		livefeed.NewHub(zap.NewNop()),
		zap.NewNop(),
	)
}

func asSessionUser(u models.User) testutil.TestUser {
	return testutil.TestUser{ID: u.ID.Hex(), Name: u.Name, Email: u.Email}
}

func postJSON(handler http.HandlerFunc, target, body string, user testutil.TestUser) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req = testutil.WithUser(req, user)
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestServeCreate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newHandler(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fixtures.CreateUser(ctx, "Ada Lovelace", "ada@example.com")

	body := `{"title":"Build a game","description":"Unity side-scroller","skills_needed":" Unity , C# ,,","contact_info":"discord: ada"}`
	rec := postJSON(h.ServeCreate, "/api/posts", body, asSessionUser(u))
	if rec.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want 201 (body %s)", rec.Code, rec.Body.String())
	}

	var resp struct {
		ID           string   `json:"id"`
		Title        string   `json:"title"`
		OwnerID      string   `json:"owner_id"`
		OwnerName    string   `json:"owner_name"`
		TeamSize     string   `json:"team_size"`
		SkillsNeeded []string `json:"skills_needed"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp.OwnerID != u.ID.Hex() || resp.OwnerName != "Ada Lovelace" {
		t.Errorf("owner snapshot: %+v", resp)
	}
	if resp.TeamSize != "Flexible" {
		t.Errorf("TeamSize default: got %q", resp.TeamSize)
	}
	want := []string{"Unity", "C#"}
	if len(resp.SkillsNeeded) != len(want) {
		t.Fatalf("skills: got %v, want %v", resp.SkillsNeeded, want)
	}
	for i := range want {
		if resp.SkillsNeeded[i] != want[i] {
			t.Errorf("skills[%d]: got %q, want %q", i, resp.SkillsNeeded[i], want[i])
		}
	}
}

func TestServeCreate_SanitizesMarkup(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newHandler(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fixtures.CreateUser(ctx, "Ada Lovelace", "ada@example.com")

	body := `{"title":"hello <script>alert(1)</script>","description":"<b>bold</b> <script>x</script>"}`
	rec := postJSON(h.ServeCreate, "/api/posts", body, asSessionUser(u))
	if rec.Code != http.StatusCreated {
		t.Fatalf("status: got %d (body %s)", rec.Code, rec.Body.String())
	}

	var resp struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if strings.Contains(resp.Title, "<script>") || strings.Contains(resp.Description, "<script>") {
		t.Errorf("script tags survived sanitization: %+v", resp)
	}
	if !strings.Contains(resp.Description, "<b>bold</b>") {
		t.Errorf("benign markup should survive: %q", resp.Description)
	}
}

func TestServeCreate_RequiresTitle(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newHandler(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fixtures.CreateUser(ctx, "Ada Lovelace", "ada@example.com")

	rec := postJSON(h.ServeCreate, "/api/posts", `{"title":"   "}`, asSessionUser(u))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400", rec.Code)
	}
}

func TestServeCreate_IncompleteProfile(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newHandler(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	stub := fixtures.CreateStubUser(ctx, "new@example.com")

	rec := postJSON(h.ServeCreate, "/api/posts", `{"title":"x"}`, asSessionUser(stub))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status: got %d, want 403", rec.Code)
	}
}

func TestServeCreate_Unauthenticated(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newHandler(db)

	req := httptest.NewRequest("POST", "/api/posts", strings.NewReader(`{"title":"x"}`))
	rec := httptest.NewRecorder()
	h.ServeCreate(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status: got %d, want 401", rec.Code)
	}
}

func TestServeList_NewestFirstAndFilter(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newHandler(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fixtures.CreateUser(ctx, "Ada Lovelace", "ada@example.com")
	fixtures.CreatePost(ctx, u, "Robotics team")
	fixtures.CreatePost(ctx, u, "Game jam crew")

	req := httptest.NewRequest("GET", "/api/posts", nil)
	rec := httptest.NewRecorder()
	h.ServeList(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
	var all []struct {
		Title string `json:"title"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &all); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("got %d posts, want 2", len(all))
	}

	// ?q= narrows by title substring.
	req = httptest.NewRequest("GET", "/api/posts?q=robot", nil)
	rec = httptest.NewRecorder()
	h.ServeList(rec, req)

	var filtered []struct {
		Title string `json:"title"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &filtered); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if len(filtered) != 1 || filtered[0].Title != "Robotics team" {
		t.Errorf("filtered: got %+v", filtered)
	}
}

func TestServeSearch_MatchesDescription(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newHandler(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fixtures.CreateUser(ctx, "Ada Lovelace", "ada@example.com")
	store := poststore.New(db)
	if _, err := store.Create(ctx, models.Post{
		Title:       "Weekend project",
		Description: "Building a robotics arm",
		OwnerID:     u.ID,
		OwnerName:   u.Name,
	}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// Title-only filtering misses it; search finds it via description.
	req := httptest.NewRequest("GET", "/api/posts?q=robotics", nil)
	rec := httptest.NewRecorder()
	h.ServeList(rec, req)
	var byTitle []json.RawMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &byTitle); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if len(byTitle) != 0 {
		t.Errorf("title filter should not match description, got %d", len(byTitle))
	}

	req = httptest.NewRequest("GET", "/api/posts/search?q=robotics", nil)
	rec = httptest.NewRecorder()
	h.ServeSearch(rec, req)
	var bySearch []json.RawMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &bySearch); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if len(bySearch) != 1 {
		t.Errorf("search should match description, got %d", len(bySearch))
	}
}

func TestServeDelete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newHandler(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "Ada Lovelace", "ada@example.com")
	other := fixtures.CreateUser(ctx, "Grace Hopper", "grace@example.com")
	post := fixtures.CreatePost(ctx, owner, "Build a game")

	// Non-owner gets 403 and the post survives.
	req := testutil.NewAuthenticatedRequest("DELETE", "/api/posts/"+post.ID.Hex(), asSessionUser(other))
	req = testutil.WithChiURLParam(req, "id", post.ID.Hex())
	rec := httptest.NewRecorder()
	h.ServeDelete(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("non-owner delete: got %d, want 403", rec.Code)
	}

	// Owner succeeds.
	req = testutil.NewAuthenticatedRequest("DELETE", "/api/posts/"+post.ID.Hex(), asSessionUser(owner))
	req = testutil.WithChiURLParam(req, "id", post.ID.Hex())
	rec = httptest.NewRecorder()
	h.ServeDelete(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("owner delete: got %d, want 204", rec.Code)
	}

	// Gone now.
	req = testutil.NewAuthenticatedRequest("DELETE", "/api/posts/"+post.ID.Hex(), asSessionUser(owner))
	req = testutil.WithChiURLParam(req, "id", post.ID.Hex())
	rec = httptest.NewRecorder()
	h.ServeDelete(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("repeat delete: got %d, want 404", rec.Code)
	}
}

func TestServeInterest(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newHandler(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "Ada Lovelace", "ada@example.com")
	fan := fixtures.CreateUser(ctx, "Grace Hopper", "grace@example.com")
	post := fixtures.CreatePost(ctx, owner, "Build a game")

	interest := func(u models.User) *httptest.ResponseRecorder {
		req := testutil.NewAuthenticatedRequest("POST", "/api/posts/"+post.ID.Hex()+"/interest", asSessionUser(u))
		req = testutil.WithChiURLParam(req, "id", post.ID.Hex())
		rec := httptest.NewRecorder()
		h.ServeInterest(rec, req)
		return rec
	}

	rec := interest(fan)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d (body %s)", rec.Code, rec.Body.String())
	}
	var resp struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp.Status != "interested" {
		t.Errorf("status: got %q, want %q", resp.Status, "interested")
	}

	// Owner got exactly one notification with the expected message.
	inbox, err := notificationstore.New(db).Get(ctx, owner.ID)
	if err != nil {
		t.Fatalf("Get inbox failed: %v", err)
	}
	if !inbox.HasUnread || len(inbox.Notifications) != 1 {
		t.Fatalf("inbox: has_unread=%v entries=%d", inbox.HasUnread, len(inbox.Notifications))
	}
	n := inbox.Notifications[0]
	if n.Type != models.NotificationTypeInterest {
		t.Errorf("type: got %q", n.Type)
	}
	wantMsg := `Grace Hopper is interested in your post "Build a game"`
	if n.Message != wantMsg {
		t.Errorf("message: got %q, want %q", n.Message, wantMsg)
	}
	if n.FromUserID != fan.ID {
		t.Errorf("from_user_id: got %v", n.FromUserID)
	}

	// Repeat is a no-op, reported as such, with no second notification.
	rec = interest(fan)
	if rec.Code != http.StatusOK {
		t.Fatalf("repeat status: got %d", rec.Code)
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp.Status != "already_interested" {
		t.Errorf("repeat status: got %q", resp.Status)
	}
	inbox, err = notificationstore.New(db).Get(ctx, owner.ID)
	if err != nil {
		t.Fatalf("Get inbox failed: %v", err)
	}
	if len(inbox.Notifications) != 1 {
		t.Errorf("repeat interest must not duplicate notifications, got %d", len(inbox.Notifications))
	}
}

func TestServeInterest_OwnPostNoNotification(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newHandler(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "Ada Lovelace", "ada@example.com")
	post := fixtures.CreatePost(ctx, owner, "Build a game")

	req := testutil.NewAuthenticatedRequest("POST", "/api/posts/"+post.ID.Hex()+"/interest", asSessionUser(owner))
	req = testutil.WithChiURLParam(req, "id", post.ID.Hex())
	rec := httptest.NewRecorder()
	h.ServeInterest(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}

	inbox, err := notificationstore.New(db).Get(ctx, owner.ID)
	if err != nil {
		t.Fatalf("Get inbox failed: %v", err)
	}
	if len(inbox.Notifications) != 0 {
		t.Errorf("self-interest should not notify, got %d entries", len(inbox.Notifications))
	}
}
