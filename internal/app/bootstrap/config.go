// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for LokoLink.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, jwt_secret, etc.
//   - Environment variables: LOKOLINK_MONGO_URI, LOKOLINK_JWT_SECRET, etc.
//   - Command-line flags: --mongo_uri, --jwt_secret, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "lokolink", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},

	// Tokens and accounts
	{Name: "jwt_secret", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Bearer token signing secret (must be strong in production)"},
	{Name: "token_duration", Default: "720h", Desc: "Issued token lifetime (e.g., 24h, 720h)"},
	{Name: "account_ttl", Default: "8760h", Desc: "Lifetime of accounts created through registration codes"},

	// Organizer contact links
	{Name: "contact_whatsapp", Default: "", Desc: "WhatsApp contact link served on /api/contact"},
	{Name: "contact_facebook", Default: "", Desc: "Facebook page link served on /api/contact"},
	{Name: "contact_admin_number", Default: "", Desc: "Organizer phone number served on /api/contact"},

	// Eternal account bootstrap
	{Name: "eternal_email", Default: "", Desc: "Email of the eternal superadmin (created on startup when set)"},
	{Name: "eternal_password", Default: "", Desc: "Password for the eternal superadmin (only used at creation)"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// It is called early in startup so that both WAFFLE and the app have
// access to configuration before any backends or handlers are built.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, LOKOLINK_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "LOKOLINK", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		JWTSecret:     appValues.String("jwt_secret"),
		TokenDuration: appValues.Duration("token_duration", 30*24*time.Hour),
		AccountTTL:    appValues.Duration("account_ttl", 365*24*time.Hour),

		ContactWhatsApp:    appValues.String("contact_whatsapp"),
		ContactFacebook:    appValues.String("contact_facebook"),
		ContactAdminNumber: appValues.String("contact_admin_number"),

		EternalEmail:    appValues.String("eternal_email"),
		EternalPassword: appValues.String("eternal_password"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// LokoLink validates the MongoDB URI format to catch configuration errors
// early, before attempting to connect, and refuses the development token
// secret outside dev mode.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	if coreCfg.Env != "dev" && appCfg.JWTSecret == "dev-only-change-me-please-0123456789ABCDEF" {
		return fmt.Errorf("jwt_secret must be changed outside dev mode")
	}

	if appCfg.TokenDuration <= 0 {
		return fmt.Errorf("token_duration must be positive")
	}
	if appCfg.AccountTTL <= 0 {
		return fmt.Errorf("account_ttl must be positive")
	}

	if appCfg.EternalEmail != "" && appCfg.EternalPassword == "" {
		return fmt.Errorf("eternal_email is set but eternal_password is empty")
	}

	return nil
}
