// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"errors"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	userstore "github.com/kevyamon/lokolink/internal/app/store/users"
	"github.com/kevyamon/lokolink/internal/app/system/timeouts"
	"github.com/kevyamon/lokolink/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built. LokoLink
// uses it to make sure the eternal superadmin account exists, since that
// account can never come from a registration code.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if appCfg.EternalEmail == "" {
		return nil
	}
	startupCtx, cancel := context.WithTimeout(ctx, timeouts.Medium())
	defer cancel()
	return EnsureEternalAccount(startupCtx, deps.LokoLinkMongoDatabase, appCfg.EternalEmail, appCfg.EternalPassword, logger)
}

// EnsureEternalAccount creates the eternal superadmin if it does not exist
// yet. An existing account is left untouched: the configured password only
// matters at creation time.
func EnsureEternalAccount(ctx context.Context, db *mongo.Database, email, password string, logger *zap.Logger) error {
	users := userstore.New(db)

	_, err := users.GetByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, userstore.ErrNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	_, err = users.Create(ctx, models.User{
		Email:        email,
		PasswordHash: string(hash),
		Role:         models.RoleEternal,
		IsActive:     true,
	})
	if errors.Is(err, userstore.ErrDuplicateEmail) {
		// Another instance won the race; the account exists, which is all
		// this hook guarantees.
		return nil
	}
	if err != nil {
		return err
	}

	logger.Info("eternal account created", zap.String("email", email))
	return nil
}
