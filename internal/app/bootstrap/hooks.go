// internal/app/bootstrap/hooks.go
package bootstrap

import (
	"github.com/dalemusser/waffle/app"
)

// Hooks is the service lifecycle handed to app.Run by cmd/lokolink:
// config load/validation, Mongo connect, index creation, the eternal-account
// seed, router assembly, and disconnect on the way down.
var Hooks = app.Hooks[AppConfig, DBDeps]{
	Name:           "lokolink",
	LoadConfig:     LoadConfig,
	ValidateConfig: ValidateConfig,
	ConnectDB:      ConnectDB,
	EnsureSchema:   EnsureSchema,
	Startup:        Startup,
	BuildHandler:   BuildHandler,
	Shutdown:       Shutdown,
}
