// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps carries the Mongo handles every store shares. All four collections
// (sessions, pairings, users, registration_codes) live in the one database,
// so the client and database pair is the whole back-end dependency set.
type DBDeps struct {
	LokoLinkMongoClient   *mongo.Client
	LokoLinkMongoDatabase *mongo.Database
}
