package authapi_test

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dalemusser/subtracker/internal/app/features/authapi"
	uierrors "github.com/dalemusser/subtracker/internal/app/features/errors"
	userstore "github.com/dalemusser/subtracker/internal/app/store/users"
	"github.com/dalemusser/subtracker/internal/app/store/audit"
	"github.com/dalemusser/subtracker/internal/app/system/auditlog"
	"github.com/dalemusser/subtracker/internal/app/system/auth"
	"github.com/dalemusser/subtracker/internal/app/system/authutil"
	"github.com/dalemusser/subtracker/internal/app/system/mailer"
	"github.com/dalemusser/subtracker/internal/app/system/ratelimit"
	"github.com/dalemusser/subtracker/internal/domain/models"
	"github.com/dalemusser/subtracker/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/time/rate"
)

const sessionName = "test-session"

// fakeAccounts keeps users keyed by email.
type fakeAccounts struct {
	mu    sync.Mutex
	users map[string]models.User
}

func newFakeAccounts() *fakeAccounts {
	return &fakeAccounts{users: map[string]models.User{}}
}

func (f *fakeAccounts) GetByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[email]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return &u, nil
}

func (f *fakeAccounts) Create(_ context.Context, u models.User) (models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[u.Email]; ok {
		return models.User{}, userstore.ErrDuplicateEmail
	}
	u.ID = primitive.NewObjectID()
	u.CreatedAt = time.Now().UTC()
	u.UpdatedAt = u.CreatedAt
	f.users[u.Email] = u
	return u, nil
}

func (f *fakeAccounts) add(t *testing.T, name, email, password string) models.User {
	t.Helper()
	hash, err := authutil.HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	u, err := f.Create(context.Background(), models.User{Name: name, Email: email, Password: hash})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return u
}

// fakeMail records sent messages.
type fakeMail struct {
	sent chan mailer.Email
}

func (m *fakeMail) Send(_ context.Context, e mailer.Email) error {
	m.sent <- e
	return nil
}

func newTestHandler(t *testing.T, store *fakeAccounts) (*authapi.Handler, *uierrors.Handler) {
	t.Helper()
	logger := zap.NewNop()
	tokens, err := auth.NewTokens([]byte("test-jwt-secret-must-be-32-chars-long"), time.Hour)
	if err != nil {
		t.Fatalf("NewTokens: %v", err)
	}
	sm, err := auth.NewManager(tokens, "test-session-key-must-be-32-chars-long", sessionName, "", false, logger)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	errLog := uierrors.NewErrorLogger(logger)
	h := &authapi.Handler{Users: store, Sessions: sm, Log: logger, ErrLog: errLog}
	return h, uierrors.NewHandler(errLog)
}

func TestSignUp_CreatesUserAndToken(t *testing.T) {
	store := newFakeAccounts()
	h, errH := newTestHandler(t, store)

	req := testutil.NewJSONRequest("POST", "/api/v1/auth/sign-up",
		`{"name":"<b>Alice</b>","email":" Alice@Example.com ","password":"s3cret-pass"}`)
	rec := testutil.NewRecorder()
	errH.Wrap(h.SignUp)(rec, req)

	rec.AssertStatus(t, http.StatusCreated)
	body := rec.DecodeJSON(t)
	if body["message"] != "User created successfully" {
		t.Errorf("message: got %v", body["message"])
	}
	data := body["data"].(map[string]any)
	user := data["user"].(map[string]any)
	if user["name"] != "Alice" || user["email"] != "alice@example.com" {
		t.Errorf("user: got %v", user)
	}
	if _, has := user["password"]; has {
		t.Error("password must not be returned")
	}

	id, err := h.Sessions.Tokens().Parse(data["token"].(string))
	if err != nil {
		t.Fatalf("token does not parse: %v", err)
	}
	if id != user["id"] {
		t.Errorf("token subject %q, want %v", id, user["id"])
	}

	stored, _ := store.GetByEmail(context.Background(), "alice@example.com")
	if stored == nil || !authutil.CheckPassword("s3cret-pass", stored.Password) {
		t.Error("stored password is not a hash of the submitted one")
	}
}

func TestSignUp_Validation(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
		msg    string
	}{
		{"missing name", `{"email":"a@b.co","password":"s3cret-pass"}`, http.StatusBadRequest, "Name, email and password are required"},
		{"markup only name", `{"name":"<script>x</script>","email":"a@b.co","password":"s3cret-pass"}`, http.StatusBadRequest, "Name, email and password are required"},
		{"bad email", `{"name":"A","email":"nope","password":"s3cret-pass"}`, http.StatusBadRequest, "Please provide a valid email address"},
		{"short password", `{"name":"A","email":"a@b.co","password":"12345"}`, http.StatusBadRequest, "Password must be at least 6 characters"},
		{"unknown field", `{"name":"A","email":"a@b.co","password":"s3cret-pass","role":"admin"}`, http.StatusBadRequest, "Invalid request body"},
		{"not json", `name=A`, http.StatusBadRequest, "Invalid request body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, errH := newTestHandler(t, newFakeAccounts())
			rec := testutil.NewRecorder()
			errH.Wrap(h.SignUp)(rec, testutil.NewJSONRequest("POST", "/api/v1/auth/sign-up", tt.body))

			rec.AssertStatus(t, tt.status)
			if body := rec.DecodeJSON(t); body["error"] != tt.msg {
				t.Errorf("error: got %v, want %q", body["error"], tt.msg)
			}
		})
	}
}

func TestSignUp_RequiresJSONContentType(t *testing.T) {
	h, errH := newTestHandler(t, newFakeAccounts())

	req := testutil.NewRequest("POST", "/api/v1/auth/sign-up")
	rec := testutil.NewRecorder()
	errH.Wrap(h.SignUp)(rec, req)

	rec.AssertStatus(t, http.StatusUnsupportedMediaType)
}

func TestSignUp_DuplicateEmail(t *testing.T) {
	store := newFakeAccounts()
	store.add(t, "Alice", "alice@example.com", "s3cret-pass")
	h, errH := newTestHandler(t, store)

	rec := testutil.NewRecorder()
	errH.Wrap(h.SignUp)(rec, testutil.NewJSONRequest("POST", "/api/v1/auth/sign-up",
		`{"name":"Other","email":"alice@example.com","password":"an0ther-pass"}`))

	rec.AssertStatus(t, http.StatusConflict)
	rec.AssertContains(t, "User already exists")
}

func TestSignUp_SendsWelcomeEmail(t *testing.T) {
	h, errH := newTestHandler(t, newFakeAccounts())
	mail := &fakeMail{sent: make(chan mailer.Email, 1)}
	h.Mail = mail

	rec := testutil.NewRecorder()
	errH.Wrap(h.SignUp)(rec, testutil.NewJSONRequest("POST", "/api/v1/auth/sign-up",
		`{"name":"Alice","email":"alice@example.com","password":"s3cret-pass"}`))
	rec.AssertStatus(t, http.StatusCreated)

	select {
	case e := <-mail.sent:
		if e.To != "alice@example.com" {
			t.Errorf("To: got %q", e.To)
		}
		if !strings.Contains(e.TextBody, "Alice") {
			t.Errorf("body does not greet the user: %q", e.TextBody)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("welcome email was not sent")
	}
}

func TestSignIn_Success(t *testing.T) {
	store := newFakeAccounts()
	alice := store.add(t, "Alice", "alice@example.com", "s3cret-pass")
	h, errH := newTestHandler(t, store)

	rec := testutil.NewRecorder()
	errH.Wrap(h.SignIn)(rec, testutil.NewJSONRequest("POST", "/api/v1/auth/sign-in",
		`{"email":"ALICE@example.com","password":"s3cret-pass"}`))

	rec.AssertStatus(t, http.StatusOK)
	body := rec.DecodeJSON(t)
	if body["message"] != "User signed in successfully" {
		t.Errorf("message: got %v", body["message"])
	}
	data := body["data"].(map[string]any)
	if id, err := h.Sessions.Tokens().Parse(data["token"].(string)); err != nil || id != alice.ID.Hex() {
		t.Errorf("token: id=%q err=%v", id, err)
	}
	if strings.Contains(rec.Body.String(), "password") {
		t.Error("password leaked in sign-in response")
	}

	found := false
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionName && c.Value != "" {
			found = true
		}
	}
	if !found {
		t.Error("expected session cookie to be set")
	}
}

func TestSignIn_Failures(t *testing.T) {
	store := newFakeAccounts()
	store.add(t, "Alice", "alice@example.com", "s3cret-pass")

	tests := []struct {
		name   string
		body   string
		status int
		msg    string
	}{
		{"unknown email", `{"email":"bob@example.com","password":"s3cret-pass"}`, http.StatusNotFound, "User not found"},
		{"wrong password", `{"email":"alice@example.com","password":"wrong-pass"}`, http.StatusUnauthorized, "Invalid password"},
		{"missing password", `{"email":"alice@example.com"}`, http.StatusBadRequest, "Email and password are required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, errH := newTestHandler(t, store)
			rec := testutil.NewRecorder()
			errH.Wrap(h.SignIn)(rec, testutil.NewJSONRequest("POST", "/api/v1/auth/sign-in", tt.body))

			rec.AssertStatus(t, tt.status)
			if body := rec.DecodeJSON(t); body["error"] != tt.msg {
				t.Errorf("error: got %v, want %q", body["error"], tt.msg)
			}
		})
	}
}

func TestRoutes_SignInRateLimited(t *testing.T) {
	store := newFakeAccounts()
	store.add(t, "Alice", "alice@example.com", "s3cret-pass")
	h, errH := newTestHandler(t, store)
	h.Limiter = ratelimit.New(rate.Limit(0.001), 1, 0)
	defer h.Limiter.Stop()

	router := authapi.Routes(h, errH)

	first := testutil.NewRecorder()
	router.ServeHTTP(first, testutil.NewJSONRequest("POST", "/sign-in", `{"email":"alice@example.com","password":"wrong-pass"}`))
	first.AssertStatus(t, http.StatusUnauthorized)

	second := testutil.NewRecorder()
	router.ServeHTTP(second, testutil.NewJSONRequest("POST", "/sign-in", `{"email":"alice@example.com","password":"s3cret-pass"}`))
	second.AssertStatus(t, http.StatusTooManyRequests)
}

func TestSignOut_ExpiresCookie(t *testing.T) {
	h, errH := newTestHandler(t, newFakeAccounts())

	rec := testutil.NewRecorder()
	errH.Wrap(h.SignOut)(rec, testutil.NewRequest("POST", "/api/v1/auth/sign-out"))

	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, "User signed out successfully")

	expired := false
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionName && c.MaxAge < 0 {
			expired = true
		}
	}
	if !expired {
		t.Error("expected session cookie to be expired")
	}
}

func TestSignIn_WritesAuditEvents(t *testing.T) {
	store := newFakeAccounts()
	store.add(t, "Alice", "alice@example.com", "s3cret-pass")
	h, errH := newTestHandler(t, store)

	core, logs := observer.New(zapcore.DebugLevel)
	h.Audit = auditlog.New(nil, zap.New(core), auditlog.Config{Auth: "log"})

	for _, body := range []string{
		`{"email":"bob@example.com","password":"s3cret-pass"}`,
		`{"email":"alice@example.com","password":"wrong-pass"}`,
		`{"email":"alice@example.com","password":"s3cret-pass"}`,
	} {
		errH.Wrap(h.SignIn)(testutil.NewRecorder(), testutil.NewJSONRequest("POST", "/api/v1/auth/sign-in", body))
	}

	want := []string{
		audit.EventSignInFailedUserNotFound,
		audit.EventSignInFailedWrongPassword,
		audit.EventSignInSuccess,
	}
	entries := logs.FilterField(zap.Bool("audit", true)).All()
	if len(entries) != len(want) {
		t.Fatalf("expected %d audit entries, got %d", len(want), len(entries))
	}
	for i, e := range entries {
		if got := e.ContextMap()["event_type"]; got != want[i] {
			t.Errorf("entry %d: event_type %v, want %s", i, got, want[i])
		}
	}
}
