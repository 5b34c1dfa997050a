// Package dbtest opens migrated in-memory sqlite clients for tests.
package dbtest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/boq-builder/pkg/config"
	"github.com/angelmondragon/boq-builder/pkg/db"
	"github.com/angelmondragon/boq-builder/pkg/logger"
	"github.com/angelmondragon/boq-builder/pkg/migrate"
)

// NewClient returns a client backed by a private in-memory sqlite database
// with every migration applied. The database is closed when the test ends.
func NewClient(t testing.TB) *db.Client {
	t.Helper()

	cfg := config.DBConfig{
		Driver:             config.DBDriverSQLite,
		DSN:                fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString()),
		PrepareStatements:  true,
		SlowQueryThreshold: time.Second,
		MaxOpenConns:       1,
		MaxIdleConns:       1,
	}
	ctx := context.Background()
	client, err := db.New(ctx, cfg, logger.Nop(), nil)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	sqlDB, err := client.DB().DB()
	if err != nil {
		t.Fatalf("sql handle: %v", err)
	}
	if err := migrate.Up(ctx, sqlDB, cfg.Driver); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return client
}
