/* Copyright (c) 2025 Hamed Shams <https://hamedshams.com>
 * SPDX-License-Identifier: BSD-3-Clause */
package repo

import (
    "context"
    "errors"
    "fmt"
    "time"

    "github.com/charleseiq/eiq-manager-tools/internal/domain"
    "github.com/google/uuid"
    "github.com/jackc/pgx/v5"
    "github.com/jackc/pgx/v5/pgxpool"
    "github.com/rs/zerolog"
)

type DB struct {
    Pool *pgxpool.Pool
    log  zerolog.Logger
}

// Open connects and pings. An empty DSN is an error; callers that treat the
// database as optional check the DSN first.
func Open(ctx context.Context, dsn string, log zerolog.Logger) (*DB, error) {
    if dsn == "" { return nil, errors.New("repo: empty dsn") }
    pool, err := pgxpool.New(ctx, dsn)
    if err != nil { return nil, fmt.Errorf("db connect: %w", err) }
    ctx2, cancel := context.WithTimeout(ctx, 10*time.Second); defer cancel()
    if err := pool.Ping(ctx2); err != nil { pool.Close(); return nil, fmt.Errorf("db ping: %w", err) }
    return &DB{Pool: pool, log: log}, nil
}

func MustOpen(ctx context.Context, dsn string, log zerolog.Logger) *DB {
    db, err := Open(ctx, dsn, log)
    if err != nil { log.Fatal().Err(err).Msg("db open failed") }
    return db
}

func (d *DB) Close() { d.Pool.Close() }

var schema = []string{
    `CREATE TABLE IF NOT EXISTS report_runs (
        id           uuid PRIMARY KEY,
        username     text NOT NULL,
        period_key   text NOT NULL,
        started_at   timestamptz NOT NULL DEFAULT now(),
        finished_at  timestamptz,
        ok           boolean NOT NULL DEFAULT false,
        error        text NOT NULL DEFAULT '',
        issues       integer NOT NULL DEFAULT 0,
        sprints      integer NOT NULL DEFAULT 0,
        epics        integer NOT NULL DEFAULT 0,
        report_path  text NOT NULL DEFAULT ''
    )`,
    `CREATE INDEX IF NOT EXISTS report_runs_started_idx ON report_runs (started_at DESC)`,
    `CREATE INDEX IF NOT EXISTS report_runs_user_period_idx ON report_runs (username, period_key)`,
}

// Migrate creates the run log table if it does not exist.
func (d *DB) Migrate(ctx context.Context) error {
    b := &pgx.Batch{}
    for _, q := range schema { b.Queue(q) }
    br := d.Pool.SendBatch(ctx, b)
    defer br.Close()
    for range schema {
        if _, err := br.Exec(); err != nil { return fmt.Errorf("migrate: %w", err) }
    }
    return nil
}

type Repository struct {
    db  *DB
    log zerolog.Logger
}

func NewRepository(d *DB, log zerolog.Logger) *Repository { return &Repository{db: d, log: log} }

func (r *Repository) TryAdvisoryLock(ctx context.Context, key int64) (bool, error) {
    var ok bool
    err := r.db.Pool.QueryRow(ctx, "SELECT pg_try_advisory_lock($1)", key).Scan(&ok)
    return ok, err
}

func (r *Repository) AdvisoryUnlock(ctx context.Context, key int64) error {
    var ok bool
    err := r.db.Pool.QueryRow(ctx, "SELECT pg_advisory_unlock($1)", key).Scan(&ok)
    if !ok && err == nil { return errors.New("advisory unlock returned false") }
    return err
}

// StartReportRun inserts an open run row and returns its id.
func (r *Repository) StartReportRun(ctx context.Context, username, periodKey string) (string, error) {
    id := uuid.New()
    const q = `INSERT INTO report_runs(id, username, period_key, started_at) VALUES($1, $2, $3, now())`
    if _, err := r.db.Pool.Exec(ctx, q, id, username, periodKey); err != nil { return "", err }
    return id.String(), nil
}

func (r *Repository) FinishReportRun(ctx context.Context, run domain.ReportRun) error {
    id, err := uuid.Parse(run.ID)
    if err != nil { return fmt.Errorf("repo: run id: %w", err) }
    const q = `UPDATE report_runs SET finished_at=now(), ok=$2, error=$3, issues=$4, sprints=$5, epics=$6, report_path=$7 WHERE id=$1`
    _, err = r.db.Pool.Exec(ctx, q, id, run.OK, run.Error, run.Issues, run.Sprints, run.Epics, run.ReportPath)
    return err
}

const runColumns = `id::text, username, period_key, started_at, finished_at, ok, error, issues, sprints, epics, report_path`

func scanRun(row pgx.CollectableRow) (domain.ReportRun, error) {
    var rr domain.ReportRun
    err := row.Scan(&rr.ID, &rr.Username, &rr.PeriodKey, &rr.StartedAt, &rr.FinishedAt, &rr.OK, &rr.Error, &rr.Issues, &rr.Sprints, &rr.Epics, &rr.ReportPath)
    return rr, err
}

// LastRun returns the most recent run, or nil when none exists.
func (r *Repository) LastRun(ctx context.Context) (*domain.ReportRun, error) {
    runs, err := r.RecentRuns(ctx, 1)
    if err != nil || len(runs) == 0 { return nil, err }
    return &runs[0], nil
}

func (r *Repository) RecentRuns(ctx context.Context, limit int) ([]domain.ReportRun, error) {
    if limit <= 0 { limit = 20 }
    rows, err := r.db.Pool.Query(ctx, `SELECT `+runColumns+` FROM report_runs ORDER BY started_at DESC LIMIT $1`, limit)
    if err != nil { return nil, err }
    return pgx.CollectRows(rows, scanRun)
}
