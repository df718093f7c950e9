// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration: ports, TLS, log level
// and the like stay in WAFFLE's CoreConfig.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max connection pool size
	MongoMinPoolSize uint64 // Min connection pool size

	// Session management configuration
	SessionKey    string // Secret key for signing session cookies (must be strong in production)
	SessionName   string // Cookie name for sessions (default: collabboard-session)
	SessionDomain string // Cookie domain (blank means current host)

	// Google OAuth configuration
	GoogleClientID     string
	GoogleClientSecret string

	// Email/SMTP configuration
	MailSMTPHost string // SMTP server host (blank disables sending; messages are logged)
	MailSMTPPort int    // SMTP server port
	MailSMTPUser string // SMTP username
	MailSMTPPass string // SMTP password
	MailFrom     string // From email address (e.g., noreply@collabboard.app)

	// Base URL for links in email and OAuth callbacks
	BaseURL string // e.g., "https://collabboard.app" or "http://localhost:8080"

	// SiteName is the display name used in outbound email.
	SiteName string

	// Password reset
	ResetTokenExpiry time.Duration // How long a reset link stays valid

	// Post retention
	PostRetention          time.Duration // Posts older than this are swept (default 240h)
	RetentionSweepInterval time.Duration // How often the sweeper runs (default 1h)
}
