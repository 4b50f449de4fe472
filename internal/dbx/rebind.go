package dbx

import (
	"context"
	"database/sql"
	"strconv"
	"strings"
)

// Rebind wraps db so that '?' placeholders are rewritten to the dialect's
// positional form. SQLite handles are returned unchanged.
func Rebind(dialect Dialect, db DBTX) DBTX {
	if dialect != DialectPostgres {
		return db
	}
	return &rebinder{db: db}
}

type rebinder struct {
	db DBTX
}

func (r *rebinder) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return r.db.ExecContext(ctx, RebindQuery(query), args...)
}

func (r *rebinder) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return r.db.QueryContext(ctx, RebindQuery(query), args...)
}

func (r *rebinder) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return r.db.QueryRowContext(ctx, RebindQuery(query), args...)
}

// RebindQuery replaces every '?' outside single-quoted literals with $1, $2, ...
func RebindQuery(query string) string {
	var b strings.Builder
	b.Grow(len(query) + 8)

	n := 0
	inQuote := false
	for i := 0; i < len(query); i++ {
		c := query[i]
		switch {
		case c == '\'':
			inQuote = !inQuote
			b.WriteByte(c)
		case c == '?' && !inQuote:
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
