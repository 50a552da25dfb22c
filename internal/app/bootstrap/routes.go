// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	adminfeature "github.com/kevyamon/lokolink/internal/app/features/admin"
	contactfeature "github.com/kevyamon/lokolink/internal/app/features/contact"
	healthfeature "github.com/kevyamon/lokolink/internal/app/features/health"
	livefeature "github.com/kevyamon/lokolink/internal/app/features/live"
	loginfeature "github.com/kevyamon/lokolink/internal/app/features/login"
	pairingsfeature "github.com/kevyamon/lokolink/internal/app/features/pairings"
	sessionsfeature "github.com/kevyamon/lokolink/internal/app/features/sessions"
	"github.com/kevyamon/lokolink/internal/app/matching"
	"github.com/kevyamon/lokolink/internal/app/store/pairings"
	"github.com/kevyamon/lokolink/internal/app/store/regcodes"
	"github.com/kevyamon/lokolink/internal/app/store/sessions"
	userstore "github.com/kevyamon/lokolink/internal/app/store/users"
	"github.com/kevyamon/lokolink/internal/app/system/accounts"
	"github.com/kevyamon/lokolink/internal/app/system/auth"
	"github.com/kevyamon/lokolink/internal/app/system/notify"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. LokoLink wires the stores, the single
// matching engine, the notification hub, and the account registrar here,
// then mounts every feature router under its API prefix.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	db := deps.LokoLinkMongoDatabase

	// Stores, one per collection.
	sessionStore := sessions.New(db)
	pairingStore := pairings.New(db)
	userStore := userstore.New(db)
	codeStore := regcodes.New(db)

	// One hub and one engine per process. The engine's lock is the only
	// thing serializing assignment decisions, so it must not be duplicated.
	hub := notify.NewHub(logger)
	engine := matching.NewEngine(sessionStore, pairingStore, hub, logger)

	// Accounts: token manager, registrar, and the verifier middleware.
	tokens := auth.NewManager(appCfg.JWTSecret, appCfg.TokenDuration)
	registrar := accounts.New(userStore, codeStore, tokens, appCfg.AccountTTL, logger)
	verifier := auth.NewVerifier(tokens, userStore, logger)

	r := chi.NewRouter()

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.LokoLinkMongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	r.Route("/api", func(api chi.Router) {
		pairingHandler := pairingsfeature.NewHandler(engine, logger)
		api.Mount("/pairings", pairingsfeature.Routes(pairingHandler))

		sessionHandler := sessionsfeature.NewHandler(sessionStore, hub, logger)
		api.Mount("/sessions", sessionsfeature.Routes(sessionHandler, verifier))

		loginHandler := loginfeature.NewHandler(registrar, logger)
		api.Mount("/auth", loginfeature.Routes(loginHandler))

		adminHandler := adminfeature.NewHandler(sessionStore, pairingStore, codeStore, hub, logger)
		api.Mount("/admin", adminfeature.Routes(adminHandler, verifier))

		contactHandler := contactfeature.NewHandler(contactfeature.Links{
			WhatsApp:    appCfg.ContactWhatsApp,
			Facebook:    appCfg.ContactFacebook,
			AdminNumber: appCfg.ContactAdminNumber,
		}, logger)
		api.Mount("/contact", contactfeature.Routes(contactHandler))

		liveHandler := livefeature.NewHandler(hub, logger)
		api.Mount("/live", livefeature.Routes(liveHandler))
	})

	return r, nil
}
