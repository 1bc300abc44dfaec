// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like:
//   - HTTP/HTTPS ports and TLS configuration
//   - Logging level and format
//   - CORS settings
//   - Request body size limits
//
// The struct is passed to most lifecycle hooks, so any configuration needed
// during startup, request handling, or shutdown lives here.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Access tokens
	JWTSecret    string        // HS256 signing key
	JWTExpiresIn time.Duration // token and session cookie lifetime

	// Session management configuration
	SessionKey    string // Secret key for signing session cookies (must be strong in production)
	SessionName   string // Cookie name for sessions (default: subtracker-session)
	SessionDomain string // Cookie domain (blank means current host)

	// Mail transport
	EmailService  string // provider name, e.g. "gmail"
	EmailAccount  string // SMTP account; blank disables mail
	EmailPassword string // SMTP password or app password
	EmailFrom     string // sender address; defaults to EmailAccount

	// Store call timeouts
	TimeoutShort  time.Duration
	TimeoutMedium time.Duration

	// Audit logging of auth events: "all", "db", "log" or "off"
	AuditLogAuth string

	// Audit retention; zero keeps events forever
	AuditRetention     time.Duration
	AuditPurgeInterval time.Duration

	// Sign-in throttling per client IP
	SignInPerMinute int
	SignInBurst     int
}
