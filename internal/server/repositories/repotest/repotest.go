// Package repotest provides a migrated in-memory SQLite database for
// repository and service tests.
package repotest

import (
	"context"
	"database/sql"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/ukd-dev/ukdportal/internal/dbx"
	"github.com/ukd-dev/ukdportal/internal/server/migrations"
	_ "modernc.org/sqlite"
)

var seq atomic.Int64

// NewSQLite returns a fresh, fully migrated database private to the test.
func NewSQLite(t *testing.T) *dbx.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:repotest_%d?mode=memory&cache=shared&_pragma=foreign_keys(1)", seq.Add(1))
	raw, err := sql.Open("sqlite", dsn)
	require.NoError(t, err)
	raw.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = raw.Close() })

	require.NoError(t, migrations.Up(context.Background(), raw, dbx.DialectSQLite))
	return &dbx.DB{DB: raw, Dialect: dbx.DialectSQLite}
}

// InsertUser adds a bare account row and returns its id.
func InsertUser(t *testing.T, db *dbx.DB, username, role, fullName string) int64 {
	t.Helper()
	var id int64
	err := db.Conn().QueryRowContext(context.Background(),
		`INSERT INTO users (username, email, password_hash, role, full_name, created_at)
		 VALUES (?, ?, 'x', ?, ?, '2026-01-01T00:00:00Z') RETURNING id`,
		username, username+"@ukd.edu.ua", role, fullName).Scan(&id)
	require.NoError(t, err)
	return id
}

// InsertStudent adds a STUDENT account with a profile and returns both ids.
func InsertStudent(t *testing.T, db *dbx.DB, username, first, last string) (userID, profileID int64) {
	t.Helper()
	userID = InsertUser(t, db, username, "STUDENT", first+" "+last)
	err := db.Conn().QueryRowContext(context.Background(),
		`INSERT INTO students (user_id, first_name, last_name) VALUES (?, ?, ?) RETURNING id`,
		userID, first, last).Scan(&profileID)
	require.NoError(t, err)
	return userID, profileID
}

// InsertCompany adds a COMPANY account with a profile and returns both ids.
func InsertCompany(t *testing.T, db *dbx.DB, username, name string) (userID, profileID int64) {
	t.Helper()
	userID = InsertUser(t, db, username, "COMPANY", "")
	err := db.Conn().QueryRowContext(context.Background(),
		`INSERT INTO companies (user_id, company_name) VALUES (?, ?) RETURNING id`,
		userID, name).Scan(&profileID)
	require.NoError(t, err)
	return userID, profileID
}
