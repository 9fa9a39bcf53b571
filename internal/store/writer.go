package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/vvka-141/docload/pkg/docload"
)

// Execer is the subset of pgx.Tx and *pgx.Conn the Writer needs.
type Execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// Querier is the subset of pgx.Tx and *pgx.Conn the Fetch needs.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Writer inserts documents one at a time.
// Thread-Safety: NOT safe for concurrent use; a transaction is a single session.
type Writer struct {
	db      Execer
	queries queries
}

// NewWriter returns a Writer that inserts into the table described by t
// through db, normally an open pgx.Tx.
func NewWriter(db Execer, t docload.TableConfig) *Writer {
	if db == nil {
		panic("db cannot be nil")
	}
	return &Writer{db: db, queries: buildQueries(t)}
}

// Insert writes doc. Any rejection by the database is reported as
// docload.ErrWriteFailed and keeps the underlying *pgconn.PgError reachable.
func (w *Writer) Insert(ctx context.Context, doc docload.Document) error {
	_, err := w.db.Exec(ctx, w.queries.insert,
		pgtype.UUID{Bytes: doc.ID, Valid: true},
		doc.Body,
	)
	if err != nil {
		return writeError(fmt.Sprintf("insert %s", doc.ID), err)
	}
	return nil
}

// writeError marks err as a write failure, naming the SQLSTATE when there is one.
func writeError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return fmt.Errorf("%w: %s: %s (SQLSTATE %s): %w", docload.ErrWriteFailed, op, pgErr.Message, pgErr.Code, err)
	}
	return fmt.Errorf("%w: %s: %w", docload.ErrWriteFailed, op, err)
}

// CommitError marks a failed commit as a write failure.
func CommitError(err error) error {
	return writeError("commit", err)
}

// StoredDocument is one row read back from the document table.
type StoredDocument struct {
	ID   uuid.UUID
	Body []byte
}

// Fetch returns the stored documents whose keys are in ids, in the order of ids.
// Keys with no row are skipped.
func Fetch(ctx context.Context, db Querier, t docload.TableConfig, ids []uuid.UUID) ([]StoredDocument, error) {
	keys := make([]pgtype.UUID, len(ids))
	for i, id := range ids {
		keys[i] = pgtype.UUID{Bytes: id, Valid: true}
	}

	rows, err := db.Query(ctx, buildQueries(t).fetch, keys)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}

	found, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (StoredDocument, error) {
		var key pgtype.UUID
		var body []byte
		if err := row.Scan(&key, &body); err != nil {
			return StoredDocument{}, err
		}
		return StoredDocument{ID: key.Bytes, Body: body}, nil
	})
	if err != nil {
		return nil, fmt.Errorf("read documents: %w", err)
	}

	byID := make(map[uuid.UUID]StoredDocument, len(found))
	for _, d := range found {
		byID[d.ID] = d
	}

	out := make([]StoredDocument, 0, len(found))
	for _, id := range ids {
		if d, ok := byID[id]; ok {
			out = append(out, d)
			delete(byID, id)
		}
	}
	return out, nil
}
