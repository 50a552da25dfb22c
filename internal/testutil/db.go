// internal/testutil/db.go

// Package testutil provides shared helpers for tests that need a real
// MongoDB or canned domain fixtures.
package testutil

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// mongoTestURIEnv names the environment variable that points store tests at
// a MongoDB instance. Tests that need a database skip when it is unset, so
// the rest of the suite runs anywhere.
const mongoTestURIEnv = "MONGO_TEST_URI"

// SetupTestDB connects to the test MongoDB and returns a database unique to
// this test. The database is dropped and the client disconnected during
// cleanup. Skips the test when MONGO_TEST_URI is unset.
func SetupTestDB(t *testing.T) *mongo.Database {
	t.Helper()

	uri := os.Getenv(mongoTestURIEnv)
	if uri == "" {
		t.Skipf("%s not set; skipping database-backed test", mongoTestURIEnv)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		t.Fatalf("mongo connect: %v", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		t.Fatalf("mongo ping: %v", err)
	}

	db := client.Database(fmt.Sprintf("lokolink_test_%s", primitive.NewObjectID().Hex()))

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := db.Drop(ctx); err != nil {
			t.Logf("test database drop failed: %v", err)
		}
		if err := client.Disconnect(ctx); err != nil {
			t.Logf("mongo disconnect failed: %v", err)
		}
	})

	return db
}

// TestContext returns a context with a comfortable margin for a handful of
// store operations. Callers defer the cancel.
func TestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}
