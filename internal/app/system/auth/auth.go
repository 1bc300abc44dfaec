package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/dalemusser/subtracker/internal/app/system/respond"
	"github.com/gorilla/sessions"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

/*─────────────────────────────────────────────────────────────────────────────*
| Current-User helper                                                        |
*─────────────────────────────────────────────────────────────────────────────*/

const userIDKey = "user_id"

// SessionUser is the authenticated caller injected into r.Context().
type SessionUser struct {
	ID    primitive.ObjectID
	Name  string
	Email string
}

// UserFetcher loads the current user for an id taken from a token or cookie.
// It returns nil when the user no longer exists.
type UserFetcher interface {
	FetchUser(ctx context.Context, userID string) *SessionUser
}

type ctxKey string

const currentUserKey ctxKey = "currentUser"

// CurrentUser returns the user & "found?" flag.
func CurrentUser(r *http.Request) (*SessionUser, bool) {
	u, ok := r.Context().Value(currentUserKey).(*SessionUser)
	return u, ok && u != nil
}

// WithTestUser injects u into the request context. Tests use it to bypass
// token and cookie handling.
func WithTestUser(r *http.Request, u *SessionUser) *http.Request {
	return withUser(r, u)
}

/*─────────────────────────────────────────────────────────────────────────────*
| Manager                                                                    |
*─────────────────────────────────────────────────────────────────────────────*/

// Manager resolves the caller from a bearer token or a session cookie.
type Manager struct {
	tokens  *Tokens
	store   *sessions.CookieStore
	name    string
	fetcher UserFetcher
	log     *zap.Logger
}

// NewManager builds a Manager. sessionKey signs the cookie; secure marks the
// cookie Secure and switches SameSite to None for cross-site use over HTTPS.
func NewManager(tokens *Tokens, sessionKey, sessionName, domain string, secure bool, logger *zap.Logger) (*Manager, error) {
	if tokens == nil {
		return nil, errors.New("auth: token issuer is required")
	}
	if sessionKey == "" {
		return nil, fmt.Errorf("session key is empty; provide ≥32 random chars")
	}
	if len(sessionKey) < 32 {
		logger.Warn("session key is short; 32+ chars recommended",
			zap.Int("length", len(sessionKey)))
	}

	store := sessions.NewCookieStore([]byte(sessionKey))
	store.Options = &sessions.Options{
		Domain:   domain,
		Path:     "/",
		MaxAge:   int(tokens.TTL().Seconds()),
		Secure:   secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if secure {
		store.Options.SameSite = http.SameSiteNoneMode
	}

	logger.Info("auth manager initialized",
		zap.Bool("secure", secure),
		zap.String("session_name", sessionName),
		zap.String("domain", domain))

	return &Manager{
		tokens: tokens,
		store:  store,
		name:   sessionName,
		log:    logger,
	}, nil
}

// SetUserFetcher makes LoadSessionUser re-read the user on every request, so
// deleted accounts lose access immediately.
func (m *Manager) SetUserFetcher(f UserFetcher) {
	m.fetcher = f
}

// Tokens returns the access token issuer.
func (m *Manager) Tokens() *Tokens { return m.tokens }

// LoadSessionUser injects the caller into context when a valid bearer token
// or session cookie is present. It never rejects a request.
func (m *Manager) LoadSessionUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := m.userID(r)
		if id == "" {
			next.ServeHTTP(w, r)
			return
		}

		var u *SessionUser
		if m.fetcher != nil {
			u = m.fetcher.FetchUser(r.Context(), id)
		} else if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			u = &SessionUser{ID: oid}
		}
		if u != nil {
			r = withUser(r, u)
		}
		next.ServeHTTP(w, r)
	})
}

// RequireSignedIn rejects requests without a caller with 401.
func (m *Manager) RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r); ok {
			next.ServeHTTP(w, r)
			return
		}
		respond.JSON(w, http.StatusUnauthorized, map[string]any{
			"success": false,
			"message": "Unauthorized",
		})
	})
}

// SignIn stores userID in the session cookie.
func (m *Manager) SignIn(w http.ResponseWriter, r *http.Request, userID string) error {
	sess, _ := m.store.Get(r, m.name)
	sess.Values[userIDKey] = userID
	return sess.Save(r, w)
}

// SignOut expires the session cookie.
func (m *Manager) SignOut(w http.ResponseWriter, r *http.Request) error {
	sess, _ := m.store.Get(r, m.name)
	delete(sess.Values, userIDKey)
	sess.Options.MaxAge = -1
	return sess.Save(r, w)
}

// userID returns the caller id from the Authorization header, falling back
// to the session cookie. Invalid credentials yield "".
func (m *Manager) userID(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		scheme, token, ok := strings.Cut(h, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") {
			return ""
		}
		id, err := m.tokens.Parse(strings.TrimSpace(token))
		if err != nil {
			m.log.Debug("rejecting bearer token", zap.Error(err))
			return ""
		}
		return id
	}

	sess, err := m.store.Get(r, m.name)
	if err != nil {
		return ""
	}
	id, _ := sess.Values[userIDKey].(string)
	return id
}

func withUser(r *http.Request, u *SessionUser) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserKey, u))
}
