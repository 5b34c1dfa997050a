package db

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/angelmondragon/boq-builder/pkg/logger"
	"github.com/angelmondragon/boq-builder/pkg/metrics"
)

const startedAtKey = "boq:query_started_at"

// Operation names tracked by QueryStats.
const (
	OpCreate = "create"
	OpQuery  = "query"
	OpUpdate = "update"
	OpDelete = "delete"
	OpRow    = "row"
	OpRaw    = "raw"
)

// OperationStats summarizes one kind of database operation.
type OperationStats struct {
	Count   int64   `json:"count"`
	Errors  int64   `json:"errors"`
	Slow    int64   `json:"slow"`
	TotalMs float64 `json:"totalMs"`
	AvgMs   float64 `json:"avgMs"`
	MaxMs   float64 `json:"maxMs"`
}

// SlowQuery is the most recent statement that crossed the slow threshold.
type SlowQuery struct {
	Operation  string    `json:"operation"`
	Table      string    `json:"table"`
	SQL        string    `json:"sql"`
	DurationMs float64   `json:"durationMs"`
	At         time.Time `json:"at"`
}

// Stats is a point-in-time copy of the collected query statistics.
type Stats struct {
	PreparedStatements bool                      `json:"preparedStatements"`
	SlowThresholdMs    float64                   `json:"slowThresholdMs"`
	Operations         map[string]OperationStats `json:"operations"`
	Tables             []string                  `json:"tables"`
	LastSlow           *SlowQuery                `json:"lastSlow,omitempty"`
}

type opCounter struct {
	count  int64
	errors int64
	slow   int64
	total  time.Duration
	max    time.Duration
}

// QueryStats times every GORM operation through callbacks and keeps running
// totals per operation. It is safe for concurrent use.
type QueryStats struct {
	threshold time.Duration
	prepared  bool
	logg      *logger.Logger
	metrics   *metrics.DBMetrics

	mu       sync.Mutex
	ops      map[string]*opCounter
	tables   map[string]struct{}
	lastSlow *SlowQuery
}

// NewQueryStats builds an empty collector. A zero threshold disables slow
// query tracking.
func NewQueryStats(threshold time.Duration, prepared bool, logg *logger.Logger, m *metrics.DBMetrics) *QueryStats {
	return &QueryStats{
		threshold: threshold,
		prepared:  prepared,
		logg:      logg,
		metrics:   m,
		ops:       map[string]*opCounter{},
		tables:    map[string]struct{}{},
	}
}

// Register installs before/after callbacks around each GORM processor.
func (s *QueryStats) Register(conn *gorm.DB) error {
	cb := conn.Callback()
	return multierr.Combine(
		cb.Create().Before("gorm:create").Register("boq:stats_before_create", s.start),
		cb.Create().After("gorm:create").Register("boq:stats_after_create", s.finish(OpCreate)),
		cb.Query().Before("gorm:query").Register("boq:stats_before_query", s.start),
		cb.Query().After("gorm:query").Register("boq:stats_after_query", s.finish(OpQuery)),
		cb.Update().Before("gorm:update").Register("boq:stats_before_update", s.start),
		cb.Update().After("gorm:update").Register("boq:stats_after_update", s.finish(OpUpdate)),
		cb.Delete().Before("gorm:delete").Register("boq:stats_before_delete", s.start),
		cb.Delete().After("gorm:delete").Register("boq:stats_after_delete", s.finish(OpDelete)),
		cb.Row().Before("gorm:row").Register("boq:stats_before_row", s.start),
		cb.Row().After("gorm:row").Register("boq:stats_after_row", s.finish(OpRow)),
		cb.Raw().Before("gorm:raw").Register("boq:stats_before_raw", s.start),
		cb.Raw().After("gorm:raw").Register("boq:stats_after_raw", s.finish(OpRaw)),
	)
}

func (s *QueryStats) start(tx *gorm.DB) {
	tx.InstanceSet(startedAtKey, time.Now())
}

func (s *QueryStats) finish(op string) func(*gorm.DB) {
	return func(tx *gorm.DB) {
		v, ok := tx.InstanceGet(startedAtKey)
		if !ok {
			return
		}
		startedAt, ok := v.(time.Time)
		if !ok {
			return
		}
		failed := tx.Error != nil && !errors.Is(tx.Error, gorm.ErrRecordNotFound)
		s.Record(tx.Statement.Context, op, tx.Statement.Table, tx.Statement.SQL.String(), time.Since(startedAt), failed)
	}
}

// Record adds one observed operation.
func (s *QueryStats) Record(ctx context.Context, op, table, sql string, d time.Duration, failed bool) {
	slow := s.threshold > 0 && d >= s.threshold

	s.mu.Lock()
	c, ok := s.ops[op]
	if !ok {
		c = &opCounter{}
		s.ops[op] = c
	}
	c.count++
	c.total += d
	if d > c.max {
		c.max = d
	}
	if failed {
		c.errors++
	}
	if slow {
		c.slow++
		s.lastSlow = &SlowQuery{Operation: op, Table: table, SQL: sql, DurationMs: millis(d), At: time.Now().UTC()}
	}
	if table != "" {
		s.tables[table] = struct{}{}
	}
	s.mu.Unlock()

	s.metrics.ObserveQuery(op, table, d)
	if failed {
		s.metrics.IncError(op, table)
	}
	if slow {
		s.metrics.IncSlow(op, table)
		if s.logg != nil {
			if ctx == nil {
				ctx = context.Background()
			}
			ctx = s.logg.WithFields(ctx, map[string]any{
				"operation":   op,
				"table":       table,
				"duration_ms": millis(d),
				"sql":         sql,
			})
			s.logg.Warn(ctx, "slow database query")
		}
	}
}

// Snapshot copies the current totals.
func (s *QueryStats) Snapshot() Stats {
	if s == nil {
		return Stats{Operations: map[string]OperationStats{}, Tables: []string{}}
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	out := Stats{
		PreparedStatements: s.prepared,
		SlowThresholdMs:    millis(s.threshold),
		Operations:         make(map[string]OperationStats, len(s.ops)),
		Tables:             make([]string, 0, len(s.tables)),
	}
	for op, c := range s.ops {
		stat := OperationStats{
			Count:   c.count,
			Errors:  c.errors,
			Slow:    c.slow,
			TotalMs: millis(c.total),
			MaxMs:   millis(c.max),
		}
		if c.count > 0 {
			stat.AvgMs = millis(c.total / time.Duration(c.count))
		}
		out.Operations[op] = stat
	}
	for table := range s.tables {
		out.Tables = append(out.Tables, table)
	}
	sort.Strings(out.Tables)
	if s.lastSlow != nil {
		last := *s.lastSlow
		out.LastSlow = &last
	}
	return out
}

// Reset clears every counter.
func (s *QueryStats) Reset() {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ops = map[string]*opCounter{}
	s.tables = map[string]struct{}{}
	s.lastSlow = nil
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
