package db

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/angelmondragon/boq-builder/pkg/config"
	"github.com/angelmondragon/boq-builder/pkg/logger"
	"github.com/angelmondragon/boq-builder/pkg/metrics"
)

type testModel struct {
	ID   int
	Name string `gorm:"uniqueIndex"`
}

func memoryDSN() string {
	return fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open(memoryDSN()), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&testModel{}); err != nil {
		t.Fatalf("failed to migrate sqlite: %v", err)
	}
	return conn
}

func newTestClient(t *testing.T, threshold time.Duration) *Client {
	t.Helper()
	cfg := config.DBConfig{
		Driver:             config.DBDriverSQLite,
		DSN:                memoryDSN(),
		PrepareStatements:  true,
		SlowQueryThreshold: threshold,
		MaxOpenConns:       1,
		MaxIdleConns:       1,
	}
	client, err := New(context.Background(), cfg, logger.Nop(), metrics.NewDBMetrics(prometheus.NewRegistry()))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	if err := client.DB().AutoMigrate(&testModel{}); err != nil {
		t.Fatalf("failed to migrate sqlite: %v", err)
	}
	return client
}

func TestWithTx_CommitsAndRollbacks(t *testing.T) {
	db := newTestDB(t)
	client := &Client{conn: db}

	ctx := context.Background()
	if err := client.WithTx(ctx, func(tx *gorm.DB) error {
		return tx.Create(&testModel{Name: "committed"}).Error
	}); err != nil {
		t.Fatalf("WithTx commit failed: %v", err)
	}

	var count int64
	if err := db.Model(&testModel{}).Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 record, got %d", count)
	}

	err := client.WithTx(ctx, func(tx *gorm.DB) error {
		if err := tx.Create(&testModel{Name: "rolled"}).Error; err != nil {
			return err
		}
		return errors.New("boom")
	})
	if err == nil {
		t.Fatal("expected WithTx to return an error")
	}
	if err := db.Model(&testModel{}).Count(&count).Error; err != nil {
		t.Fatalf("count failed after rollback: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected rollback to leave 1 record, got %d", count)
	}
}

func TestNewRequiresDSNAndKnownDriver(t *testing.T) {
	if _, err := New(context.Background(), config.DBConfig{Driver: config.DBDriverSQLite}, nil, nil); err == nil {
		t.Fatal("expected error for empty DSN")
	}
	if _, err := New(context.Background(), config.DBConfig{Driver: "mysql", DSN: "x"}, nil, nil); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}

func TestClientTracksQueryStats(t *testing.T) {
	client := newTestClient(t, 0)
	client.ResetStats()
	ctx := context.Background()

	if err := client.DB().WithContext(ctx).Create(&testModel{Name: "a"}).Error; err != nil {
		t.Fatalf("create: %v", err)
	}
	var rows []testModel
	if err := client.DB().WithContext(ctx).Find(&rows).Error; err != nil {
		t.Fatalf("find: %v", err)
	}
	var missing testModel
	_ = client.DB().WithContext(ctx).First(&missing, "name = ?", "nope").Error

	stats := client.Stats()
	if !stats.PreparedStatements {
		t.Fatal("expected prepared statements flag")
	}
	if got := stats.Operations[OpCreate].Count; got != 1 {
		t.Fatalf("expected 1 create, got %d", got)
	}
	query := stats.Operations[OpQuery]
	if query.Count != 2 {
		t.Fatalf("expected 2 queries, got %d", query.Count)
	}
	if query.Errors != 0 {
		t.Fatalf("record not found must not count as error, got %d", query.Errors)
	}
	if query.Slow != 0 || stats.LastSlow != nil {
		t.Fatalf("slow tracking should be disabled with zero threshold")
	}
	if len(stats.Tables) != 1 || stats.Tables[0] != "test_models" {
		t.Fatalf("unexpected tables %v", stats.Tables)
	}
}

func TestClientRecordsSlowQueriesAndErrors(t *testing.T) {
	client := newTestClient(t, time.Nanosecond)
	client.ResetStats()
	ctx := context.Background()

	if err := client.DB().WithContext(ctx).Create(&testModel{Name: "dup"}).Error; err != nil {
		t.Fatalf("create: %v", err)
	}
	err := client.DB().WithContext(ctx).Create(&testModel{Name: "dup"}).Error
	if !IsUniqueViolation(err, "") {
		t.Fatalf("expected unique violation, got %v", err)
	}

	stats := client.Stats()
	create := stats.Operations[OpCreate]
	if create.Count != 2 || create.Errors != 1 {
		t.Fatalf("unexpected create stats %+v", create)
	}
	if create.Slow != 2 || stats.LastSlow == nil || stats.LastSlow.Table != "test_models" {
		t.Fatalf("expected slow queries to be recorded, got %+v / %+v", create, stats.LastSlow)
	}
}

func TestQueryStatsRecordAggregates(t *testing.T) {
	s := NewQueryStats(10*time.Millisecond, false, nil, nil)
	s.Record(context.Background(), OpQuery, "items", "SELECT 1", 4*time.Millisecond, false)
	s.Record(context.Background(), OpQuery, "items", "SELECT 2", 20*time.Millisecond, true)

	got := s.Snapshot().Operations[OpQuery]
	if got.Count != 2 || got.Errors != 1 || got.Slow != 1 {
		t.Fatalf("unexpected counts %+v", got)
	}
	if got.TotalMs != 24 || got.MaxMs != 20 || got.AvgMs != 12 {
		t.Fatalf("unexpected durations %+v", got)
	}

	s.Reset()
	if len(s.Snapshot().Operations) != 0 {
		t.Fatal("expected reset to clear operations")
	}
}

func TestIsUniqueViolation(t *testing.T) {
	if IsUniqueViolation(nil, "") {
		t.Fatal("nil is not a violation")
	}
	if !IsUniqueViolation(gorm.ErrDuplicatedKey, "idx_items_name") {
		t.Fatal("translated errors should match")
	}
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "idx_categories_name"}
	if !IsUniqueViolation(fmt.Errorf("wrap: %w", pgErr), "idx_categories_name") {
		t.Fatal("expected pg unique violation to match")
	}
	if IsUniqueViolation(pgErr, "other") {
		t.Fatal("constraint name mismatch should not match")
	}
	if !IsUniqueViolation(errors.New("UNIQUE constraint failed: items.name"), "") {
		t.Fatal("expected sqlite message to match")
	}
	if IsUniqueViolation(errors.New("boom"), "") {
		t.Fatal("unrelated error should not match")
	}
}
