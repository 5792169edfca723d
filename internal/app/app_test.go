package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"jamco/internal/config"
	"jamco/internal/pkg/identity"
	"jamco/internal/pkg/token"
	"jamco/internal/repository/memory"

	"github.com/gofiber/fiber/v3"
)

type semanticResponse struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// mockVerifier treats the credential as the Google subject.
type mockVerifier struct{}

func (mockVerifier) Verify(_ context.Context, credential, clientID string) (identity.Claims, error) {
	if clientID != "client" || credential == "" || credential == "bad" {
		return identity.Claims{}, identity.ErrInvalidCredential
	}
	return identity.Claims{
		Subject:    credential,
		Email:      credential + "@example.com",
		GivenName:  strings.ToUpper(credential[:1]) + credential[1:],
		FamilyName: "Tester",
	}, nil
}

type session struct {
	userID int64
	token  string
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	key, err := token.DeriveKey(strings.Repeat("k", 32))
	if err != nil {
		t.Fatalf("derive key: %v", err)
	}
	a := New(Deps{
		Auth:     config.AuthConfig{TokenTTL: time.Hour, GoogleClientID: "client"},
		Logger:   log.New(io.Discard, "", 0),
		Store:    memory.NewStore(),
		Verifier: mockVerifier{},
		Tokens:   token.NewHMACService(key, time.Hour),
	})
	return a.Fiber
}

func call(t *testing.T, app *fiber.App, method, path, tok string, body any) semanticResponse {
	t.Helper()

	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	var sr semanticResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		t.Fatalf("%s %s: decode: %v", method, path, err)
	}
	if sr.Status != resp.StatusCode {
		t.Fatalf("%s %s: envelope status %d != http status %d", method, path, sr.Status, resp.StatusCode)
	}
	return sr
}

func expectStatus(t *testing.T, sr semanticResponse, want int) {
	t.Helper()
	if sr.Status != want {
		t.Fatalf("expected status=%d, got %d (message=%s data=%s)", want, sr.Status, sr.Message, sr.Data)
	}
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("decode data %s: %v", raw, err)
	}
	return out
}

func login(t *testing.T, app *fiber.App, sub string) session {
	t.Helper()

	sr := call(t, app, "POST", "/api/v1/auth/google", "", map[string]string{"credential": sub, "client_id": "client"})
	if sr.Status != fiber.StatusOK && sr.Status != fiber.StatusCreated {
		t.Fatalf("login %s: status=%d message=%s", sub, sr.Status, sr.Message)
	}
	data := decode[struct {
		User struct {
			ID int64 `json:"id"`
		} `json:"user"`
		Token string `json:"token"`
	}](t, sr.Data)
	if data.Token == "" || data.User.ID == 0 {
		t.Fatalf("login %s: missing token or user: %s", sub, sr.Data)
	}
	return session{userID: data.User.ID, token: data.Token}
}

func usersPath(id int64, rest string) string {
	return fmt.Sprintf("/api/v1/users/%d%s", id, rest)
}

type columnItem struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	ColumnNumber int    `json:"column_number"`
}

type friendRequestItem struct {
	ID           int64      `json:"id"`
	FromUserID   int64      `json:"from_user_id"`
	ToUserID     int64      `json:"to_user_id"`
	Accepted     bool       `json:"accepted"`
	Acknowledged *time.Time `json:"acknowledged"`
	Status       string     `json:"status"`
}

func TestFriendsShareBoards(t *testing.T) {
	app := newTestApp(t)
	u1 := login(t, app, "ada")
	u2 := login(t, app, "alan")

	cols := decode[[]columnItem](t, call(t, app, "GET", usersPath(u1.userID, "/columns"), u1.token, nil).Data)
	if len(cols) != 4 || cols[0].Name != "To Apply" || cols[3].Name != "Interview" {
		t.Fatalf("expected default board, got %+v", cols)
	}

	expectStatus(t, call(t, app, "GET", usersPath(u2.userID, "/columns"), u1.token, nil), fiber.StatusUnauthorized)

	sr := call(t, app, "POST", usersPath(u1.userID, "/friend-requests"), u1.token, map[string]int64{"to_user_id": u2.userID})
	expectStatus(t, sr, fiber.StatusCreated)
	fr := decode[friendRequestItem](t, sr.Data)
	if fr.Status != "pending" || fr.Acknowledged != nil {
		t.Fatalf("expected pending request, got %+v", fr)
	}

	expectStatus(t, call(t, app, "POST", usersPath(u1.userID, "/friend-requests"), u1.token, map[string]int64{"to_user_id": u2.userID}), fiber.StatusConflict)

	status := decode[struct {
		Received []friendRequestItem `json:"received"`
	}](t, call(t, app, "GET", usersPath(u2.userID, "/friend-requests"), u2.token, nil).Data)
	if len(status.Received) != 1 || status.Received[0].ID != fr.ID {
		t.Fatalf("expected one received request, got %+v", status.Received)
	}

	acceptPath := usersPath(u2.userID, fmt.Sprintf("/friend-requests/%d/accept", fr.ID))
	sr = call(t, app, "POST", acceptPath, u2.token, map[string]int64{"from_user_id": u1.userID})
	expectStatus(t, sr, fiber.StatusOK)
	accepted := decode[friendRequestItem](t, sr.Data)
	if !accepted.Accepted || accepted.Acknowledged == nil {
		t.Fatalf("expected accepted request, got %+v", accepted)
	}
	expectStatus(t, call(t, app, "POST", acceptPath, u2.token, map[string]int64{"from_user_id": u1.userID}), fiber.StatusNotFound)

	for _, s := range []session{u1, u2} {
		friends := decode[[]struct {
			ID int64 `json:"id"`
		}](t, call(t, app, "GET", usersPath(s.userID, "/friends"), s.token, nil).Data)
		if len(friends) != 1 {
			t.Fatalf("user %d: expected one friend, got %+v", s.userID, friends)
		}
	}

	shared := decode[[]columnItem](t, call(t, app, "GET", usersPath(u2.userID, "/columns"), u1.token, nil).Data)
	if len(shared) != 4 {
		t.Fatalf("expected friend board, got %+v", shared)
	}
	expectStatus(t, call(t, app, "GET", usersPath(u2.userID, "/privacy"), u1.token, nil), fiber.StatusUnauthorized)
	expectStatus(t, call(t, app, "PUT", usersPath(u2.userID, "/columns"), u1.token, map[string]any{"payload": []any{}}), fiber.StatusUnauthorized)

	expectStatus(t, call(t, app, "PATCH", usersPath(u2.userID, "/privacy"), u2.token, map[string]bool{"share_kanban": false}), fiber.StatusOK)
	expectStatus(t, call(t, app, "GET", usersPath(u2.userID, "/columns"), u1.token, nil), fiber.StatusUnauthorized)

	expectStatus(t, call(t, app, "PATCH", usersPath(u2.userID, "/privacy"), u2.token, map[string]bool{"share_kanban": true}), fiber.StatusOK)
	expectStatus(t, call(t, app, "DELETE", usersPath(u1.userID, fmt.Sprintf("/friends/%d", u2.userID)), u1.token, nil), fiber.StatusOK)
	expectStatus(t, call(t, app, "GET", usersPath(u2.userID, "/columns"), u1.token, nil), fiber.StatusUnauthorized)
	expectStatus(t, call(t, app, "GET", usersPath(u1.userID, "/columns"), u2.token, nil), fiber.StatusUnauthorized)
}

func TestFriendshipRequiresAcceptedRequest(t *testing.T) {
	app := newTestApp(t)
	caller := login(t, app, "ada")
	target := login(t, app, "alan")

	expectStatus(t, call(t, app, "PATCH", usersPath(target.userID, "/privacy"), target.token, map[string]bool{"is_searchable": false}), fiber.StatusOK)
	expectStatus(t, call(t, app, "POST", usersPath(caller.userID, "/friend-requests"), caller.token, map[string]int64{"to_user_id": target.userID}), fiber.StatusConflict)

	sr := call(t, app, "PUT", usersPath(caller.userID, fmt.Sprintf("/friends/%d", target.userID)), caller.token, nil)
	if sr.Status < 400 {
		t.Fatalf("direct friend link accepted: status=%d", sr.Status)
	}

	expectStatus(t, call(t, app, "GET", usersPath(target.userID, "/columns"), caller.token, nil), fiber.StatusUnauthorized)
	expectStatus(t, call(t, app, "GET", usersPath(target.userID, "/jobs"), caller.token, nil), fiber.StatusUnauthorized)
	friends := decode[[]struct {
		ID int64 `json:"id"`
	}](t, call(t, app, "GET", usersPath(target.userID, "/friends"), target.token, nil).Data)
	if len(friends) != 0 {
		t.Fatalf("expected no friends, got %+v", friends)
	}
}

func TestAuthRequired(t *testing.T) {
	app := newTestApp(t)
	u1 := login(t, app, "ada")

	sr := call(t, app, "GET", usersPath(u1.userID, ""), "", nil)
	expectStatus(t, sr, fiber.StatusUnauthorized)
	if string(sr.Data) != "null" {
		t.Fatalf("expected null data, got %s", sr.Data)
	}
	expectStatus(t, call(t, app, "GET", usersPath(u1.userID, ""), "garbage", nil), fiber.StatusUnauthorized)
	expectStatus(t, call(t, app, "POST", "/api/v1/auth/google", "", map[string]string{"credential": "bad", "client_id": "client"}), fiber.StatusUnauthorized)
	expectStatus(t, call(t, app, "POST", "/api/v1/auth/google", "", map[string]string{"credential": "ada", "client_id": "other"}), fiber.StatusUnauthorized)
	expectStatus(t, call(t, app, "POST", "/api/v1/auth/google", "", map[string]string{"credential": "ada"}), fiber.StatusBadRequest)

	expectStatus(t, call(t, app, "POST", "/api/v1/auth/validate", u1.token, nil), fiber.StatusOK)
	expectStatus(t, call(t, app, "GET", usersPath(9999, ""), u1.token, nil), fiber.StatusUnauthorized)
}

func TestLoginRotatesSession(t *testing.T) {
	app := newTestApp(t)
	first := login(t, app, "ada")
	time.Sleep(2 * time.Millisecond)
	second := login(t, app, "ada")

	if first.userID != second.userID {
		t.Fatalf("second login created a new user")
	}
	expectStatus(t, call(t, app, "POST", "/api/v1/auth/validate", first.token, nil), fiber.StatusUnauthorized)
	expectStatus(t, call(t, app, "POST", "/api/v1/auth/validate", second.token, nil), fiber.StatusOK)
}

func TestUpdateColumns(t *testing.T) {
	app := newTestApp(t)
	u := login(t, app, "ada")
	path := usersPath(u.userID, "/columns")

	cols := decode[[]columnItem](t, call(t, app, "GET", path, u.token, nil).Data)

	sr := call(t, app, "PUT", path, u.token, map[string]any{"payload": []map[string]any{
		{"id": cols[2].ID, "name": "Online Assessment", "column_number": -50},
		{"id": nil, "name": "Offer", "column_number": 500},
		{"id": cols[0].ID, "name": "To Apply", "column_number": 1},
	}})
	expectStatus(t, sr, fiber.StatusOK)
	got := decode[[]columnItem](t, sr.Data)
	if len(got) != 3 || got[0].ID != cols[2].ID || got[0].ColumnNumber != -50 || got[2].Name != "Offer" {
		t.Fatalf("unexpected board: %+v", got)
	}

	expectStatus(t, call(t, app, "PUT", path, u.token, map[string]any{"payload": []map[string]any{
		{"id": nil, "column_number": 0},
	}}), fiber.StatusBadRequest)
	expectStatus(t, call(t, app, "PUT", path, u.token, map[string]any{}), fiber.StatusBadRequest)
	expectStatus(t, call(t, app, "PUT", path, u.token, map[string]any{"payload": []map[string]any{
		{"id": nil, "name": "Huge", "column_number": 3000000000},
	}}), fiber.StatusBadRequest)

	after := decode[[]columnItem](t, call(t, app, "GET", path, u.token, nil).Data)
	if len(after) != 3 {
		t.Fatalf("rejected update changed the board: %+v", after)
	}
}

func TestJobsAndReviews(t *testing.T) {
	app := newTestApp(t)
	owner := login(t, app, "ada")
	reviewer := login(t, app, "alan")

	cols := decode[[]columnItem](t, call(t, app, "GET", usersPath(owner.userID, "/columns"), owner.token, nil).Data)

	sr := call(t, app, "POST", usersPath(owner.userID, "/jobs"), owner.token, map[string]any{
		"kcolumn_id":     cols[0].ID,
		"position_title": "Backend Engineer",
		"company":        "Acme",
		"cover_letter":   "Dear Acme",
		"deadlines":      []map[string]string{{"name": "OA", "date": "2024-05-01"}},
	})
	expectStatus(t, sr, fiber.StatusCreated)
	created := decode[struct {
		ID        int64           `json:"id"`
		Deadlines json.RawMessage `json:"deadlines"`
	}](t, sr.Data)

	expectStatus(t, call(t, app, "POST", usersPath(owner.userID, "/jobs"), owner.token, map[string]any{"kcolumn_id": cols[0].ID}), fiber.StatusBadRequest)
	expectStatus(t, call(t, app, "PATCH", usersPath(owner.userID, fmt.Sprintf("/jobs/%d", created.ID)), owner.token, map[string]any{"user_id": 7}), fiber.StatusBadRequest)

	summaries := decode[[]map[string]any](t, call(t, app, "GET", usersPath(owner.userID, "/jobs"), owner.token, nil).Data)
	if len(summaries) != 1 {
		t.Fatalf("expected one job, got %+v", summaries)
	}
	if _, leaked := summaries[0]["cover_letter"]; leaked {
		t.Fatalf("summary exposes cover letter: %+v", summaries[0])
	}

	sr = call(t, app, "POST", usersPath(owner.userID, fmt.Sprintf("/jobs/%d/review-requests", created.ID)), owner.token, map[string]any{
		"reviewer_id": reviewer.userID,
		"message":     "thoughts?",
	})
	expectStatus(t, sr, fiber.StatusCreated)
	rr := decode[struct {
		ID int64 `json:"id"`
	}](t, sr.Data)

	incoming := decode[[]struct {
		ID          int64  `json:"id"`
		CoverLetter string `json:"cover_letter"`
	}](t, call(t, app, "GET", usersPath(reviewer.userID, "/review-requests"), reviewer.token, nil).Data)
	if len(incoming) != 1 || incoming[0].CoverLetter != "Dear Acme" {
		t.Fatalf("unexpected incoming: %+v", incoming)
	}

	reviewPath := usersPath(reviewer.userID, fmt.Sprintf("/review-requests/%d/reviews", rr.ID))
	expectStatus(t, call(t, app, "POST", reviewPath, reviewer.token, map[string]string{}), fiber.StatusBadRequest)
	expectStatus(t, call(t, app, "POST", reviewPath, reviewer.token, map[string]string{"response": "Strong opener"}), fiber.StatusCreated)

	reviews := decode[[]struct {
		Response string `json:"response"`
	}](t, call(t, app, "GET", usersPath(owner.userID, "/reviews"), owner.token, nil).Data)
	if len(reviews) != 1 || reviews[0].Response != "Strong opener" {
		t.Fatalf("unexpected reviews: %+v", reviews)
	}

	expectStatus(t, call(t, app, "DELETE", usersPath(owner.userID, fmt.Sprintf("/review-requests/%d", rr.ID)), owner.token, nil), fiber.StatusOK)
	expectStatus(t, call(t, app, "GET", usersPath(owner.userID, fmt.Sprintf("/jobs/%d", created.ID)), reviewer.token, nil), fiber.StatusUnauthorized)
}

func TestSearchUsers(t *testing.T) {
	app := newTestApp(t)
	caller := login(t, app, "ada")
	_ = login(t, app, "alan")

	found := decode[[]struct {
		Username string `json:"username"`
	}](t, call(t, app, "GET", "/api/v1/users/search?name=ala", caller.token, nil).Data)
	if len(found) != 1 || found[0].Username != "alan" {
		t.Fatalf("unexpected search result: %+v", found)
	}
	expectStatus(t, call(t, app, "GET", "/api/v1/users/search?name=", caller.token, nil), fiber.StatusBadRequest)
}

func TestMalformedBody(t *testing.T) {
	app := newTestApp(t)
	u := login(t, app, "ada")

	cases := []struct {
		method string
		path   string
	}{
		{"POST", usersPath(u.userID, "/friend-requests")},
		{"PATCH", usersPath(u.userID, "")},
		{"PUT", usersPath(u.userID, "/columns")},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(tc.method, tc.path, strings.NewReader(`{"payload":`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+u.token)
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("%s %s: %v", tc.method, tc.path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != fiber.StatusBadRequest {
			t.Fatalf("%s %s: expected 400, got %d", tc.method, tc.path, resp.StatusCode)
		}
	}
}

func TestHealth(t *testing.T) {
	app := newTestApp(t)
	sr := call(t, app, "GET", "/health", "", nil)
	expectStatus(t, sr, fiber.StatusOK)
}

func TestListenAddr(t *testing.T) {
	for in, want := range map[string]string{"8080": ":8080", ":9000": ":9000", " 80 ": ":80"} {
		got, err := ListenAddr(in)
		if err != nil || got != want {
			t.Fatalf("ListenAddr(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ListenAddr(""); err == nil {
		t.Fatalf("expected error for empty port")
	}
}

func TestNewContainer_MemoryDriver(t *testing.T) {
	cfg := config.Config{
		Database: config.DatabaseConfig{Driver: config.DriverMemory},
		Auth:     config.AuthConfig{Secret: strings.Repeat("k", 32), TokenTTL: time.Hour, UseStubVerifier: true},
	}
	c, err := NewContainer(cfg)
	if err != nil {
		t.Fatalf("new container: %v", err)
	}
	defer func() {
		if err := c.Close(); err != nil {
			t.Fatalf("close: %v", err)
		}
	}()

	if c.DB != nil || c.Cache != nil {
		t.Fatalf("memory driver opened external resources")
	}
	if _, err := c.Store.Users().GetByGoogleID(context.Background(), "demo-ada"); err != nil {
		t.Fatalf("expected seeded demo user: %v", err)
	}
	if err := c.Pinger.Ping(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}
}
