package auth_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"github.com/lahvjal/aveyo-ahj-planner-sub001/internal/auth"
	"github.com/lahvjal/aveyo-ahj-planner-sub001/internal/db"
	"github.com/lahvjal/aveyo-ahj-planner-sub001/internal/middleware"
)

// dbAvailable tracks whether the database connection was established.
var dbAvailable bool

// testServer is the shared httptest server for all integration tests.
var testServer *httptest.Server

func TestMain(m *testing.M) {
	_ = godotenv.Load("../../.env.local")

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		// No database available — skip all integration tests gracefully.
		os.Exit(m.Run())
	}

	// Clearing PORT forces local cookie mode (Secure=false, SameSite=Lax) so
	// the session cookie survives httptest's plain-HTTP transport.
	os.Setenv("PORT", "")

	db.Connect()
	dbAvailable = true

	// Set up auth tables (idempotent).
	auth.Init()

	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(middleware.CORSMiddleware)
	r.Mount("/auth", auth.SetupRoutes())

	testServer = httptest.NewServer(r)
	defer testServer.Close()

	os.Exit(m.Run())
}

// createTestRep inserts a unique rep account with a role and market and
// registers a cleanup to remove it. Returns the username and plaintext
// password.
func createTestRep(t *testing.T, role, market string) (username, password string) {
	t.Helper()
	if !dbAvailable {
		t.Skip("skipping integration test (requires DATABASE_URL)")
	}

	username = fmt.Sprintf("rep_%s", uuid.New().String()[:8])
	password = "TestPass123!"
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("bcrypt error: %v", err)
	}

	user := auth.User{
		UserID:         uuid.New().String(),
		Username:       username,
		HashedPassword: string(hashed),
		Role:           role,
		Market:         market,
	}
	if err := db.DB.Create(&user).Error; err != nil {
		t.Fatalf("failed to create test rep: %v", err)
	}

	t.Cleanup(func() {
		db.DB.Where("user_id = ?", user.UserID).Delete(&auth.Session{})
		db.DB.Where("user_id = ?", user.UserID).Delete(&auth.User{})
	})

	return username, password
}

// newClientWithJar returns an http.Client whose cookie jar carries the
// session cookie between requests.
func newClientWithJar(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookiejar.New: %v", err)
	}
	return &http.Client{Jar: jar}
}

func loginRep(t *testing.T, client *http.Client, username, password string) *http.Response {
	t.Helper()
	body, _ := json.Marshal(map[string]string{
		"username": username,
		"password": password,
	})
	resp, err := client.Post(testServer.URL+"/auth/login", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST /auth/login: %v", err)
	}
	return resp
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(b)
}

// TestLoginReturnsSessionCookie verifies that POST /auth/login with valid
// credentials returns 200, a session_id Set-Cookie header, and a JSON body
// with user_id and username.
func TestLoginReturnsSessionCookie(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test (requires DATABASE_URL)")
	}
	username, password := createTestRep(t, "rep", "SLC")
	client := newClientWithJar(t)

	resp := loginRep(t, client, username, password)
	body := readBody(t, resp)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d; body: %s", resp.StatusCode, body)
	}

	setCookie := resp.Header.Get("Set-Cookie")
	if !strings.Contains(setCookie, "session_id") {
		t.Errorf("expected Set-Cookie to contain 'session_id', got: %q", setCookie)
	}

	var result map[string]string
	if err := json.Unmarshal([]byte(body), &result); err != nil {
		t.Fatalf("invalid JSON body: %s", body)
	}
	if result["user_id"] == "" {
		t.Error("expected user_id in response body")
	}
	if result["username"] != username {
		t.Errorf("expected username %q, got %q", username, result["username"])
	}
}

// TestMeReturnsRoleAndMarket verifies that GET /auth/me on a live session
// returns the rep's role and home market alongside the identity fields, and
// that the session survives repeated calls (a tab reload in practice).
func TestMeReturnsRoleAndMarket(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test (requires DATABASE_URL)")
	}
	username, password := createTestRep(t, "admin", "DEN")
	client := newClientWithJar(t)

	loginResp := loginRep(t, client, username, password)
	loginBody := readBody(t, loginResp)
	if loginResp.StatusCode != http.StatusOK {
		t.Fatalf("login failed: %d %s", loginResp.StatusCode, loginBody)
	}

	for i := 0; i < 2; i++ {
		meResp, err := client.Get(testServer.URL + "/auth/me")
		if err != nil {
			t.Fatalf("GET /auth/me (call %d): %v", i+1, err)
		}
		meBody := readBody(t, meResp)
		if meResp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200 from /auth/me (call %d), got %d; body: %s", i+1, meResp.StatusCode, meBody)
		}

		var me auth.MeResponse
		if err := json.Unmarshal([]byte(meBody), &me); err != nil {
			t.Fatalf("invalid JSON body: %s", meBody)
		}
		if me.Username != username {
			t.Errorf("expected username %q, got %q", username, me.Username)
		}
		if me.Role != "admin" {
			t.Errorf("expected role admin, got %q", me.Role)
		}
		if me.Market != "DEN" {
			t.Errorf("expected market DEN, got %q", me.Market)
		}
	}
}

// TestLogoutClearsSession verifies the full logout flow: login, logout, then
// /auth/me returns 401. This confirms the session row is deleted.
func TestLogoutClearsSession(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test (requires DATABASE_URL)")
	}
	username, password := createTestRep(t, "rep", "SLC")
	client := newClientWithJar(t)

	loginResp := loginRep(t, client, username, password)
	loginBody := readBody(t, loginResp)
	if loginResp.StatusCode != http.StatusOK {
		t.Fatalf("login failed: %d %s", loginResp.StatusCode, loginBody)
	}

	logoutResp, err := client.Post(testServer.URL+"/auth/logout", "application/json", nil)
	if err != nil {
		t.Fatalf("POST /auth/logout: %v", err)
	}
	logoutBody := readBody(t, logoutResp)
	if logoutResp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 from /auth/logout, got %d; body: %s", logoutResp.StatusCode, logoutBody)
	}

	meResp, err := client.Get(testServer.URL + "/auth/me")
	if err != nil {
		t.Fatalf("GET /auth/me after logout: %v", err)
	}
	meBody := readBody(t, meResp)

	if meResp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 from /auth/me after logout, got %d; body: %s", meResp.StatusCode, meBody)
	}
}

// TestSecondLoginTakesOverSession verifies the one-session-per-rep rule: a
// login from a second client invalidates the first client's cookie.
func TestSecondLoginTakesOverSession(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test (requires DATABASE_URL)")
	}
	username, password := createTestRep(t, "rep", "SLC")

	first := newClientWithJar(t)
	resp := loginRep(t, first, username, password)
	readBody(t, resp)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("first login failed: %d", resp.StatusCode)
	}

	second := newClientWithJar(t)
	resp = loginRep(t, second, username, password)
	readBody(t, resp)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("second login failed: %d", resp.StatusCode)
	}

	meResp, err := first.Get(testServer.URL + "/auth/me")
	if err != nil {
		t.Fatalf("GET /auth/me on first client: %v", err)
	}
	readBody(t, meResp)
	if meResp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 on the taken-over session, got %d", meResp.StatusCode)
	}

	meResp, err = second.Get(testServer.URL + "/auth/me")
	if err != nil {
		t.Fatalf("GET /auth/me on second client: %v", err)
	}
	readBody(t, meResp)
	if meResp.StatusCode != http.StatusOK {
		t.Errorf("expected 200 on the new session, got %d", meResp.StatusCode)
	}
}

// TestExpiredSessionRejected verifies that a session expired in the database
// is rejected with 401 and the body names the expiry.
func TestExpiredSessionRejected(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test (requires DATABASE_URL)")
	}
	username, password := createTestRep(t, "rep", "SLC")
	client := newClientWithJar(t)

	loginResp := loginRep(t, client, username, password)
	loginBody := readBody(t, loginResp)
	if loginResp.StatusCode != http.StatusOK {
		t.Fatalf("login failed: %d %s", loginResp.StatusCode, loginBody)
	}

	var loginResult map[string]string
	if err := json.Unmarshal([]byte(loginBody), &loginResult); err != nil {
		t.Fatalf("invalid login response JSON: %s", loginBody)
	}
	userID := loginResult["user_id"]

	if err := db.DB.Model(&auth.Session{}).
		Where("user_id = ?", userID).
		Update("expires_at", time.Now().Add(-1*time.Hour)).Error; err != nil {
		t.Fatalf("failed to expire session: %v", err)
	}

	meResp, err := client.Get(testServer.URL + "/auth/me")
	if err != nil {
		t.Fatalf("GET /auth/me after expiry: %v", err)
	}
	meBody := readBody(t, meResp)

	if meResp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 with expired session, got %d; body: %s", meResp.StatusCode, meBody)
	}
	if !strings.Contains(meBody, "Session expired") {
		t.Errorf("expected body to contain %q, got: %q", "Session expired", meBody)
	}
}
