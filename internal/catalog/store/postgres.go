package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"hrcatalog/internal/catalog/models"
	"hrcatalog/internal/sentinel"
	"hrcatalog/pkg/requestcontext"
)

// Postgres persists one catalog variant in its PostgreSQL table.
type Postgres[E models.Entity] struct {
	db   *sql.DB
	kind models.Kind[E]

	selectList  string
	insertQuery string
	updateQuery string
}

type rowScanner interface {
	Scan(dest ...any) error
}

// NewPostgres builds a store for kind. Queries are rendered once from the
// variant's column list.
func NewPostgres[E models.Entity](db *sql.DB, kind models.Kind[E]) *Postgres[E] {
	cols := kind.Columns()
	selectList := "id, " + strings.Join(append(append([]string{}, cols...), auditColumns...), ", ")

	insertCols := append(append([]string{}, cols...), auditColumns...)
	placeholders := make([]string, len(insertCols))
	for i := range insertCols {
		placeholders[i] = "$" + strconv.Itoa(i+1)
	}

	sets := make([]string, 0, len(cols)+2)
	for i, c := range cols {
		sets = append(sets, c+" = $"+strconv.Itoa(i+1))
	}
	n := len(cols)
	sets = append(sets,
		"last_modified_by = $"+strconv.Itoa(n+1),
		"last_modified_at = $"+strconv.Itoa(n+2),
	)

	return &Postgres[E]{
		db:         db,
		kind:       kind,
		selectList: selectList,
		insertQuery: fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING %s",
			kind.Table, strings.Join(insertCols, ", "), strings.Join(placeholders, ", "), selectList),
		updateQuery: fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d RETURNING %s",
			kind.Table, strings.Join(sets, ", "), n+3, selectList),
	}
}

// Save inserts e when it has no id and updates the row in place otherwise.
// The returned record is the row as stored, with id and audit columns set.
func (s *Postgres[E]) Save(ctx context.Context, e E) (E, error) {
	actor := requestcontext.Actor(ctx)
	now := requestcontext.Now(ctx)
	args := fieldArgs(e)

	if id, ok := e.GetID(); ok {
		args = append(args, actor, now, id)
		stored, err := s.scan(s.db.QueryRowContext(ctx, s.updateQuery, args...))
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return stored, sentinel.ErrNotFound
			}
			return stored, fmt.Errorf("update %s %d: %w", s.kind.Table, id, err)
		}
		return stored, nil
	}

	args = append(args, actor, now, actor, now)
	stored, err := s.scan(s.db.QueryRowContext(ctx, s.insertQuery, args...))
	if err != nil {
		return stored, fmt.Errorf("insert %s: %w", s.kind.Table, err)
	}
	return stored, nil
}

func (s *Postgres[E]) FindByID(ctx context.Context, id int64) (E, error) {
	query := "SELECT " + s.selectList + " FROM " + s.kind.Table + " WHERE id = $1"
	record, err := s.scan(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return record, sentinel.ErrNotFound
		}
		return record, fmt.Errorf("find %s %d: %w", s.kind.Table, id, err)
	}
	return record, nil
}

func (s *Postgres[E]) FindAll(ctx context.Context, p models.Pageable) (models.Page[E], error) {
	order, err := orderBy(s.kind, p.Sort)
	if err != nil {
		return models.Page[E]{}, err
	}

	total, err := s.Count(ctx)
	if err != nil {
		return models.Page[E]{}, err
	}

	query := "SELECT " + s.selectList + " FROM " + s.kind.Table + " ORDER BY " + order + " LIMIT $1 OFFSET $2"
	rows, err := s.db.QueryContext(ctx, query, p.Size, p.Offset())
	if err != nil {
		return models.Page[E]{}, fmt.Errorf("list %s: %w", s.kind.Table, err)
	}
	defer rows.Close()

	var content []E
	for rows.Next() {
		record, err := s.scan(rows)
		if err != nil {
			return models.Page[E]{}, fmt.Errorf("scan %s: %w", s.kind.Table, err)
		}
		content = append(content, record)
	}
	if err := rows.Err(); err != nil {
		return models.Page[E]{}, fmt.Errorf("iterate %s: %w", s.kind.Table, err)
	}
	return models.NewPage(content, total, p), nil
}

func (s *Postgres[E]) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+s.kind.Table).Scan(&total); err != nil {
		return 0, fmt.Errorf("count %s: %w", s.kind.Table, err)
	}
	return total, nil
}

func (s *Postgres[E]) Delete(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM "+s.kind.Table+" WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete %s %d: %w", s.kind.Table, id, err)
	}
	return nil
}

func (s *Postgres[E]) scan(row rowScanner) (E, error) {
	record := s.kind.New()
	fields := record.Fields()
	audit := record.AuditInfo()

	var id int64
	dest := make([]any, 0, len(fields)+5)
	dest = append(dest, &id)
	for _, f := range fields {
		dest = append(dest, f.Ref)
	}
	dest = append(dest, &audit.CreatedBy, &audit.CreatedAt, &audit.LastModifiedBy, &audit.LastModifiedAt)

	if err := row.Scan(dest...); err != nil {
		var zero E
		return zero, err
	}
	record.SetID(id)
	return record, nil
}

func fieldArgs(e models.Entity) []any {
	fields := e.Fields()
	args := make([]any, 0, len(fields)+4)
	for _, f := range fields {
		args = append(args, f.Value())
	}
	return args
}
