// Package readings stores raw sensor readings in PostgreSQL.
package readings

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const (
	table = "lake_temperature_readings"

	// DefaultBatchSize is the number of rows per multi-row INSERT
	DefaultBatchSize = 2000
)

var columns = []string{"date_recorded", "entry_id", "indoor_temp", "outdoor_temp", "channel_id"}

// Row is one sensor feed entry. Missing temperatures are stored as NULL.
type Row struct {
	DateRecorded time.Time
	EntryID      int64
	IndoorTemp   *float64
	OutdoorTemp  *float64
	ChannelID    int64
}

func (r Row) values() []any {
	return []any{r.DateRecorded, r.EntryID, r.IndoorTemp, r.OutdoorTemp, r.ChannelID}
}

// Store writes and queries lake_temperature_readings
type Store struct {
	pool      *pgxpool.Pool
	batchSize int
	logger    *zap.SugaredLogger
}

// Open connects to PostgreSQL
func Open(ctx context.Context, connStr string, batchSize int, logger *zap.SugaredLogger) (*Store, error) {
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Store{pool: pool, batchSize: batchSize, logger: logger}, nil
}

// Close closes the pool
func (s *Store) Close() {
	s.pool.Close()
}

// BuildInsertQuery returns a multi-row upsert for n rows
func BuildInsertQuery(n int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "INSERT INTO %s (%s) VALUES ", table, strings.Join(columns, ", "))
	for i := 0; i < n; i++ {
		if i > 0 {
			b.WriteString(", ")
		}
		base := i * len(columns)
		b.WriteString("(")
		for j := range columns {
			if j > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "$%d", base+j+1)
		}
		b.WriteString(")")
	}
	b.WriteString(" ON CONFLICT (entry_id, date_recorded) DO UPDATE SET" +
		" indoor_temp = EXCLUDED.indoor_temp," +
		" outdoor_temp = EXCLUDED.outdoor_temp," +
		" channel_id = EXCLUDED.channel_id")
	return b.String()
}

// chunk splits rows into slices of at most size rows
func chunk(rows []Row, size int) [][]Row {
	var out [][]Row
	for len(rows) > size {
		out = append(out, rows[:size])
		rows = rows[size:]
	}
	if len(rows) > 0 {
		out = append(out, rows)
	}
	return out
}

// Insert upserts rows in a single transaction
func (s *Store) Insert(ctx context.Context, rows []Row) (int, error) {
	if len(rows) == 0 {
		s.logger.Debug("no readings to insert")
		return 0, nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	chunks := chunk(rows, s.batchSize)
	b := &pgx.Batch{}
	for _, c := range chunks {
		args := make([]any, 0, len(c)*len(columns))
		for _, r := range c {
			args = append(args, r.values()...)
		}
		b.Queue(BuildInsertQuery(len(c)), args...)
	}

	results := tx.SendBatch(ctx, b)
	for range chunks {
		if _, err := results.Exec(); err != nil {
			results.Close()
			return 0, fmt.Errorf("failed to execute insert: %w", err)
		}
	}
	if err := results.Close(); err != nil {
		return 0, fmt.Errorf("failed to close batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.logger.Debugw("inserted readings", "rows", len(rows), "batches", len(chunks))
	return len(rows), nil
}

// LatestDate returns the most recent reading instant, or nil when empty
func (s *Store) LatestDate(ctx context.Context) (*time.Time, error) {
	var latest *time.Time
	if err := s.pool.QueryRow(ctx, "SELECT max(date_recorded) FROM "+table).Scan(&latest); err != nil {
		return nil, fmt.Errorf("querying latest reading: %w", err)
	}
	return latest, nil
}

// ExistingDates returns the local days in [start, end] that have readings
func (s *Store) ExistingDates(ctx context.Context, start, end string, loc *time.Location) (map[string]struct{}, error) {
	from, err := time.ParseInLocation(time.DateOnly, start, loc)
	if err != nil {
		return nil, fmt.Errorf("invalid start date %q: %w", start, err)
	}
	to, err := time.ParseInLocation(time.DateOnly, end, loc)
	if err != nil {
		return nil, fmt.Errorf("invalid end date %q: %w", end, err)
	}

	rows, err := s.pool.Query(ctx,
		"SELECT DISTINCT to_char((date_recorded AT TIME ZONE $3)::date, 'YYYY-MM-DD') FROM "+table+
			" WHERE date_recorded >= $1 AND date_recorded < $2",
		from, to.AddDate(0, 0, 1), loc.String())
	if err != nil {
		return nil, fmt.Errorf("querying existing dates: %w", err)
	}

	days, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("reading existing dates: %w", err)
	}

	existing := make(map[string]struct{}, len(days))
	for _, d := range days {
		existing[d] = struct{}{}
	}
	return existing, nil
}
