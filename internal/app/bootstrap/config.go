// internal/app/bootstrap/config.go
package bootstrap

import (
	"encoding/base64"
	"fmt"
	"os"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/gorilla/securecookie"
	"go.uber.org/zap"
)

// minSecretLen is the shortest jwt_secret or session_key accepted in prod.
const minSecretLen = 32

// appConfigKeys defines the configuration keys for SubTracker.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, session_name, etc.
//   - Environment variables: SUBTRACKER_MONGO_URI, SUBTRACKER_JWT_SECRET, etc.
//   - Command-line flags: --mongo_uri, --jwt_secret, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "subtracker", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},

	{Name: "jwt_secret", Default: "", Desc: "Access token signing key (required in prod, 32+ chars)"},
	{Name: "jwt_expires_in", Default: "24h", Desc: "Access token and session lifetime (e.g., 1h, 24h)"},

	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "subtracker-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},

	// Mail transport. EMAIL_ACCOUNT / EMAIL_PASSWORD are also honoured.
	{Name: "email_service", Default: "gmail", Desc: "Mail provider name (gmail, outlook, yahoo)"},
	{Name: "email_account", Default: "", Desc: "Mail account; blank disables outgoing mail"},
	{Name: "email_password", Default: "", Desc: "Mail account password or app password"},
	{Name: "email_from", Default: "", Desc: "Sender address (defaults to the account)"},

	{Name: "timeout_short", Default: "5s", Desc: "Timeout for single-document store calls"},
	{Name: "timeout_medium", Default: "10s", Desc: "Timeout for list queries and writes"},

	// Audit logging settings
	{Name: "audit_log_auth", Default: "all", Desc: "Auth event logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_retention", Default: "2160h", Desc: "How long audit events are kept (0 keeps them forever)"},
	{Name: "audit_purge_interval", Default: "1h", Desc: "How often expired audit events are purged"},

	{Name: "signin_rate", Default: 10, Desc: "Sign-in attempts per minute per client IP"},
	{Name: "signin_burst", Default: 5, Desc: "Sign-in attempts allowed in a burst per client IP"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, SUBTRACKER_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "SUBTRACKER", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		JWTSecret:    appValues.String("jwt_secret"),
		JWTExpiresIn: appValues.Duration("jwt_expires_in", 24*time.Hour),

		SessionKey:    appValues.String("session_key"),
		SessionName:   appValues.String("session_name"),
		SessionDomain: appValues.String("session_domain"),

		EmailService:  appValues.String("email_service"),
		EmailAccount:  appValues.String("email_account"),
		EmailPassword: appValues.String("email_password"),
		EmailFrom:     appValues.String("email_from"),

		TimeoutShort:  appValues.Duration("timeout_short", 5*time.Second),
		TimeoutMedium: appValues.Duration("timeout_medium", 10*time.Second),

		AuditLogAuth:       appValues.String("audit_log_auth"),
		AuditRetention:     appValues.Duration("audit_retention", 90*24*time.Hour),
		AuditPurgeInterval: appValues.Duration("audit_purge_interval", time.Hour),

		SignInPerMinute: appValues.Int("signin_rate"),
		SignInBurst:     appValues.Int("signin_burst"),
	}

	applyEmailEnv(&appCfg, os.Getenv)

	if err := ensureJWTSecret(coreCfg, &appCfg, logger); err != nil {
		return nil, AppConfig{}, err
	}

	return coreCfg, appCfg, nil
}

// applyEmailEnv fills blank mail credentials from the plain EMAIL_ACCOUNT and
// EMAIL_PASSWORD variables.
func applyEmailEnv(appCfg *AppConfig, getenv func(string) string) {
	if appCfg.EmailAccount == "" {
		appCfg.EmailAccount = getenv("EMAIL_ACCOUNT")
	}
	if appCfg.EmailPassword == "" {
		appCfg.EmailPassword = getenv("EMAIL_PASSWORD")
	}
}

// ensureJWTSecret generates a throwaway signing key outside prod so a fresh
// checkout starts without setup. Tokens signed with it die on restart.
func ensureJWTSecret(coreCfg *config.CoreConfig, appCfg *AppConfig, logger *zap.Logger) error {
	if appCfg.JWTSecret != "" || coreCfg.Env == "prod" {
		return nil
	}
	key := securecookie.GenerateRandomKey(minSecretLen)
	if key == nil {
		return fmt.Errorf("generate jwt secret: random source unavailable")
	}
	appCfg.JWTSecret = base64.RawURLEncoding.EncodeToString(key)
	logger.Warn("jwt_secret not set; using a random key for this process",
		zap.String("env", coreCfg.Env))
	return nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// The MongoDB URI format is checked to catch configuration errors early,
// before attempting to connect. Production requires strong secrets.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	if appCfg.MongoDatabase == "" {
		return fmt.Errorf("mongo_database must be set")
	}

	if coreCfg.Env == "prod" {
		if len(appCfg.JWTSecret) < minSecretLen {
			return fmt.Errorf("jwt_secret must be at least %d characters in prod", minSecretLen)
		}
		if len(appCfg.SessionKey) < minSecretLen {
			return fmt.Errorf("session_key must be at least %d characters in prod", minSecretLen)
		}
	}

	if appCfg.JWTExpiresIn <= 0 {
		return fmt.Errorf("jwt_expires_in must be positive, got %s", appCfg.JWTExpiresIn)
	}
	switch appCfg.AuditLogAuth {
	case "all", "db", "log", "off":
	default:
		return fmt.Errorf("audit_log_auth must be one of all, db, log, off; got %q", appCfg.AuditLogAuth)
	}

	if appCfg.AuditRetention < 0 {
		return fmt.Errorf("audit_retention must not be negative")
	}
	if appCfg.AuditRetention > 0 && appCfg.AuditPurgeInterval <= 0 {
		return fmt.Errorf("audit_purge_interval must be positive when audit_retention is set")
	}

	if appCfg.SignInPerMinute <= 0 || appCfg.SignInBurst <= 0 {
		return fmt.Errorf("signin_rate and signin_burst must be positive")
	}

	return nil
}
