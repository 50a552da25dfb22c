// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like HTTP/HTTPS
// ports, TLS, logging level, CORS, and request body size limits. AppConfig
// is where everything specific to LokoLink lives.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max connections in the driver pool
	MongoMinPoolSize uint64 // Min connections in the driver pool

	// Token configuration
	JWTSecret     string        // Secret for signing bearer tokens (must be strong in production)
	TokenDuration time.Duration // How long issued tokens stay valid

	// AccountTTL bounds the lifetime of accounts created through
	// registration codes. Eternal accounts are exempt.
	AccountTTL time.Duration

	// Organizer contact links served on /api/contact
	ContactWhatsApp    string // WhatsApp group or chat link
	ContactFacebook    string // Facebook page link
	ContactAdminNumber string // Phone number godchildren can call

	// Eternal account bootstrap. When both are set, Startup ensures the
	// account exists; it is never created through a registration code.
	EternalEmail    string
	EternalPassword string
}
