// Package journal records every submitted ledger operation of a run in a
// local SQLite database.
//
// The journal is an audit artifact, not a source of truth: the ledger
// service owns the financial state. What the journal enables is after-the-
// fact verification that what a run actually submitted matches what its
// seed and config say it should have submitted (see Compare).
package journal

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"ledgerdrive/internal/config"
	"ledgerdrive/internal/scenario"
)

//go:embed schema.sql
var schemaSQL string

// Journal is a handle on one journal database.
type Journal struct {
	db *sql.DB
}

// Open creates or opens a journal database at the given path.
//
// The database is configured with WAL mode, NORMAL synchronous, a 5-second
// busy timeout, and foreign key enforcement. A single connection is kept:
// the driver is the only writer and SQLite allows one writer at a time.
// Idempotent - safe to call on an existing journal.
func Open(path string) (*Journal, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("journal: open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("journal: connect: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("journal: execute %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("journal: apply schema: %w", err)
	}

	return &Journal{db: db}, nil
}

// Close closes the database connection.
func (j *Journal) Close() error {
	if j.db == nil {
		return nil
	}
	return j.db.Close()
}

// BeginRun registers a run before its first operation is submitted.
func (j *Journal) BeginRun(ctx context.Context, runID string, cfg config.Scenario, digest string) error {
	_, err := j.db.ExecContext(ctx, `
		INSERT INTO runs (id, domain, seed, idem_prefix, digest)
		VALUES (?, ?, ?, ?, ?)
	`, runID, string(cfg.Domain), cfg.Seed, cfg.IdemPrefix, digest)
	if err != nil {
		return fmt.Errorf("journal: begin run: %w", err)
	}
	return nil
}

// Append records one submitted operation. seq is the 0-based submission
// ordinal; ledgerRef is the id the ledger returned (account id or tx id).
func (j *Journal) Append(ctx context.Context, runID string, seq int, op scenario.Operation, ledgerRef string) error {
	_, err := j.db.ExecContext(ctx, `
		INSERT INTO operations
		(run_id, seq, kind, label, currency, account_id, from_id, to_id, amount_cents, idempotency_key, ledger_ref)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		runID,
		seq,
		string(op.Kind),
		op.Label,
		op.Currency,
		op.AccountID,
		op.FromID,
		op.ToID,
		op.AmountCents,
		op.IdemKey,
		ledgerRef,
	)
	if err != nil {
		return fmt.Errorf("journal: append operation %d: %w", seq, err)
	}
	return nil
}

// Entry is one journaled operation.
type Entry struct {
	Seq       int
	Op        scenario.Operation
	LedgerRef string
}

// Operations returns a run's journaled operations in submission order.
func (j *Journal) Operations(ctx context.Context, runID string) ([]Entry, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT seq, kind, label, currency, account_id, from_id, to_id, amount_cents, idempotency_key, ledger_ref
		FROM operations
		WHERE run_id = ?
		ORDER BY seq
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("journal: read operations: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var kind string
		if err := rows.Scan(
			&e.Seq, &kind, &e.Op.Label, &e.Op.Currency,
			&e.Op.AccountID, &e.Op.FromID, &e.Op.ToID,
			&e.Op.AmountCents, &e.Op.IdemKey, &e.LedgerRef,
		); err != nil {
			return nil, fmt.Errorf("journal: scan operation: %w", err)
		}
		e.Op.Kind = scenario.OpKind(kind)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("journal: read operations: %w", err)
	}
	return entries, nil
}

// LastRun returns the id of the most recently started run, or an error if
// the journal holds no runs.
func (j *Journal) LastRun(ctx context.Context) (string, error) {
	var id string
	err := j.db.QueryRowContext(ctx, `
		SELECT id FROM runs ORDER BY started_at DESC, rowid DESC LIMIT 1
	`).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("journal: no runs recorded")
	}
	if err != nil {
		return "", fmt.Errorf("journal: last run: %w", err)
	}
	return id, nil
}
