package index

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"hrcatalog/internal/catalog/models"
	"hrcatalog/internal/sentinel"
)

// FTS indexes one catalog variant in an FTS5 virtual table. The table's rowid
// is the record id; every descriptive field is an indexed column so queries
// can use column filters such as "code:AAAAA", and the whole record is kept as
// an unindexed JSON document that Search and Get return.
type FTS[E models.Entity] struct {
	db    *sql.DB
	kind  models.Kind[E]
	table string
	cols  []string
}

// NewFTS creates the variant's FTS table if it does not exist yet.
func NewFTS[E models.Entity](ctx context.Context, db *sql.DB, kind models.Kind[E]) (*FTS[E], error) {
	idx := &FTS[E]{
		db:    db,
		kind:  kind,
		table: "search_" + kind.Table,
		cols:  append([]string{"id"}, kind.Columns()...),
	}
	ddl := fmt.Sprintf(
		"CREATE VIRTUAL TABLE IF NOT EXISTS %s USING fts5(%s, document UNINDEXED, tokenize = 'unicode61')",
		idx.table, strings.Join(idx.cols, ", "))
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return nil, fmt.Errorf("create %s: %w", idx.table, err)
	}
	return idx, nil
}

// Upsert replaces the document for the record's id.
func (x *FTS[E]) Upsert(ctx context.Context, e E) error {
	id, ok := e.GetID()
	if !ok {
		return fmt.Errorf("index %s: record has no id: %w", x.kind.Name, sentinel.ErrInvalidInput)
	}
	doc, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode %s %d: %w", x.kind.Name, id, err)
	}

	args := make([]any, 0, len(x.cols)+2)
	args = append(args, id, id)
	for _, f := range e.Fields() {
		args = append(args, f.Text())
	}
	args = append(args, string(doc))

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(args)), ", ")
	insert := fmt.Sprintf("INSERT INTO %s (rowid, %s, document) VALUES (%s)",
		x.table, strings.Join(x.cols, ", "), placeholders)

	tx, err := x.db.BeginTx(ctx, nil)
	if err != nil {
		return unavailable("begin upsert", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, "DELETE FROM "+x.table+" WHERE rowid = ?", id); err != nil {
		return unavailable("replace document", err)
	}
	if _, err := tx.ExecContext(ctx, insert, args...); err != nil {
		return unavailable("insert document", err)
	}
	if err := tx.Commit(); err != nil {
		return unavailable("commit upsert", err)
	}
	return nil
}

// Delete removes the document for id; a missing document is not an error.
func (x *FTS[E]) Delete(ctx context.Context, id int64) error {
	if _, err := x.db.ExecContext(ctx, "DELETE FROM "+x.table+" WHERE rowid = ?", id); err != nil {
		return unavailable("delete document", err)
	}
	return nil
}

func (x *FTS[E]) Exists(ctx context.Context, id int64) (bool, error) {
	var one int
	err := x.db.QueryRowContext(ctx, "SELECT 1 FROM "+x.table+" WHERE rowid = ?", id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, unavailable("exists", err)
	}
	return true, nil
}

// Get returns the index's own copy of the record.
func (x *FTS[E]) Get(ctx context.Context, id int64) (E, error) {
	var doc string
	err := x.db.QueryRowContext(ctx, "SELECT document FROM "+x.table+" WHERE rowid = ?", id).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		var zero E
		return zero, sentinel.ErrNotFound
	}
	if err != nil {
		var zero E
		return zero, unavailable("get document", err)
	}
	return x.decode(doc)
}

// Search runs an FTS5 query and returns a page of documents ranked by bm25,
// ties broken by id. Sort keys on p are ignored: search results are ordered by
// relevance.
func (x *FTS[E]) Search(ctx context.Context, query string, p models.Pageable) (models.Page[E], error) {
	if strings.TrimSpace(query) == "" {
		return models.Page[E]{}, fmt.Errorf("empty query: %w", sentinel.ErrInvalidInput)
	}

	var total int64
	countQuery := "SELECT COUNT(*) FROM " + x.table + " WHERE " + x.table + " MATCH ?"
	if err := x.db.QueryRowContext(ctx, countQuery, query).Scan(&total); err != nil {
		return models.Page[E]{}, classify(err)
	}

	rows, err := x.db.QueryContext(ctx,
		"SELECT document FROM "+x.table+" WHERE "+x.table+" MATCH ? ORDER BY rank, rowid LIMIT ? OFFSET ?",
		query, p.Size, p.Offset())
	if err != nil {
		return models.Page[E]{}, classify(err)
	}
	defer rows.Close()

	var content []E
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return models.Page[E]{}, unavailable("scan document", err)
		}
		record, err := x.decode(doc)
		if err != nil {
			return models.Page[E]{}, err
		}
		content = append(content, record)
	}
	if err := rows.Err(); err != nil {
		return models.Page[E]{}, classify(err)
	}
	return models.NewPage(content, total, p), nil
}

// Clear drops every document of the variant.
func (x *FTS[E]) Clear(ctx context.Context) error {
	if _, err := x.db.ExecContext(ctx, "DELETE FROM "+x.table); err != nil {
		return unavailable("clear", err)
	}
	return nil
}

func (x *FTS[E]) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := x.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+x.table).Scan(&total); err != nil {
		return 0, unavailable("count", err)
	}
	return total, nil
}

// Health probes the variant's table, which fails when the database file is
// gone or locked past the busy timeout.
func (x *FTS[E]) Health(ctx context.Context) error {
	_, err := x.Count(ctx)
	return err
}

func (x *FTS[E]) decode(doc string) (E, error) {
	record := x.kind.New()
	if err := json.Unmarshal([]byte(doc), record); err != nil {
		var zero E
		return zero, fmt.Errorf("decode %s document: %w", x.kind.Name, err)
	}
	return record, nil
}

// classify separates query mistakes from engine failures. FTS5 reports both
// as plain SQL errors, so the message is the only signal.
func classify(err error) error {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "fts5: syntax error"),
		strings.Contains(msg, "no such column"),
		strings.Contains(msg, "unterminated string"),
		strings.Contains(msg, "unknown special query"):
		return fmt.Errorf("%s: %w", msg, sentinel.ErrInvalidInput)
	}
	return unavailable("search", err)
}

func unavailable(op string, err error) error {
	return fmt.Errorf("index %s: %w: %w", op, sentinel.ErrUnavailable, err)
}
