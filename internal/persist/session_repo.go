package persist

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// SessionRow is the summary of one finished simulation run.
type SessionRow struct {
	ID         uuid.UUID
	Scenario   string
	Ticks      uint64
	TickRate   time.Duration
	Entities   int
	Collisions int
	Damage     int
	Reactions  map[string]int
	Destroyed  map[string]int
	Checksum   uint64
	StartedAt  time.Time
	FinishedAt time.Time
}

// NewSessionRow starts a row with a fresh id.
func NewSessionRow(scenario string, tickRate time.Duration, started time.Time) SessionRow {
	return SessionRow{
		ID:        uuid.New(),
		Scenario:  scenario,
		TickRate:  tickRate,
		StartedAt: started,
		Reactions: make(map[string]int),
		Destroyed: make(map[string]int),
	}
}

// Duration is the wall-clock length of the run.
func (r *SessionRow) Duration() time.Duration {
	if r.FinishedAt.Before(r.StartedAt) {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// countRow is one line of session_counts.
type countRow struct {
	Kind  string
	Name  string
	Count int
}

// counts flattens the reaction and destroyed maps in a stable order.
func (r *SessionRow) counts() []countRow {
	out := make([]countRow, 0, len(r.Reactions)+len(r.Destroyed))
	for name, n := range r.Reactions {
		out = append(out, countRow{Kind: "reaction", Name: name, Count: n})
	}
	for name, n := range r.Destroyed {
		out = append(out, countRow{Kind: "destroyed", Name: name, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Kind != out[j].Kind {
			return out[i].Kind < out[j].Kind
		}
		return out[i].Name < out[j].Name
	})
	return out
}

type SessionRepo struct {
	db *DB
}

func NewSessionRepo(db *DB) *SessionRepo {
	return &SessionRepo{db: db}
}

// Save writes the session and its counts in one transaction.
func (r *SessionRepo) Save(ctx context.Context, row SessionRow) error {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("session begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`INSERT INTO sessions (id, scenario, ticks, tick_rate_ms, entities, collisions, damage, checksum, started_at, finished_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		row.ID, row.Scenario, int64(row.Ticks), row.TickRate.Milliseconds(), row.Entities,
		row.Collisions, row.Damage, int64(row.Checksum), row.StartedAt, row.FinishedAt,
	); err != nil {
		return fmt.Errorf("session insert: %w", err)
	}

	batch := &pgx.Batch{}
	for _, c := range row.counts() {
		batch.Queue(
			`INSERT INTO session_counts (session_id, kind, name, count) VALUES ($1, $2, $3, $4)`,
			row.ID, c.Kind, c.Name, c.Count,
		)
	}
	if batch.Len() > 0 {
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("session counts insert: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("session commit: %w", err)
	}
	r.db.log.Debug("session saved", zap.Stringer("id", row.ID), zap.Uint64("ticks", row.Ticks))
	return nil
}

// Recent returns the newest sessions first, without their counts.
func (r *SessionRepo) Recent(ctx context.Context, limit int) ([]SessionRow, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT id, scenario, ticks, tick_rate_ms, entities, collisions, damage, checksum, started_at, finished_at
		 FROM sessions ORDER BY started_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("session query: %w", err)
	}
	defer rows.Close()

	var out []SessionRow
	for rows.Next() {
		var (
			row      SessionRow
			ticks    int64
			rateMS   int64
			checksum int64
		)
		if err := rows.Scan(&row.ID, &row.Scenario, &ticks, &rateMS, &row.Entities,
			&row.Collisions, &row.Damage, &checksum, &row.StartedAt, &row.FinishedAt); err != nil {
			return nil, fmt.Errorf("session scan: %w", err)
		}
		row.Ticks = uint64(ticks)
		row.TickRate = time.Duration(rateMS) * time.Millisecond
		row.Checksum = uint64(checksum)
		out = append(out, row)
	}
	return out, rows.Err()
}
