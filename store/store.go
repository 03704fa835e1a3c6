// Package store owns the lifecycle of the SQLite database behind the
// to-do list: opening the file, creating the schema and closing the pool.
//
// Every other package receives a *Store by injection; nothing in this
// codebase holds a package-level database handle.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattn/go-sqlite3"
)

type (
	Store struct {
		db *sql.DB
	}
)

func openDatabase(ctx context.Context, dir string) (*sql.DB, error) {
	err := os.MkdirAll(dir, 0755)
	if err != nil {
		return nil, fmt.Errorf("unable to create directory %v to store database, cause %w", dir, err)
	}
	dbfile := filepath.Join(dir, "todolist.db")
	connstr := fmt.Sprintf("file:%v?_journal=wal&_fk=1&mode=rwc", dbfile)
	conn, err := sql.Open("sqlite3", connstr)
	if err != nil {
		return nil, fmt.Errorf("unable to open %v, cause %w", dbfile, err)
	}
	err = conn.PingContext(ctx)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("unable to ping database %v, cause %w", dbfile, err)
	}
	return conn, nil
}

// Open loads (or creates) the to-do list database under dir and applies
// the schema. Callers own the returned handle and must Close it.
func Open(ctx context.Context, dir string) (*Store, error) {
	conn, err := openDatabase(ctx, dir)
	if err != nil {
		return nil, err
	}
	s := &Store{db: conn}
	err = s.init(ctx)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("unable to init database under %v, cause %w", dir, err)
	}
	return s, nil
}

func (s *Store) init(ctx context.Context) error {
	statements := []string{
		`create table if not exists users(
			user_id integer primary key autoincrement,
			username text not null unique,
			username_hash64 integer not null,
			password text not null)`,
		`create index if not exists idx_users_username_hash64 on users(username_hash64)`,
		`create table if not exists authtokens(
			token text primary key,
			user_id integer not null references users(user_id),
			expires_at integer not null)`,
		`create table if not exists tasks(
			task_id integer primary key autoincrement,
			user_id integer not null references users(user_id),
			task_desc text not null,
			is_complete boolean not null default false)`,
	}
	for _, stmt := range statements {
		_, err := s.db.ExecContext(ctx, stmt)
		if err != nil {
			return fmt.Errorf("unable to apply schema statement, cause %w", err)
		}
	}
	return nil
}

// DB exposes the underlying pool for the domain packages. The schema is
// guaranteed to be in place once Open returns.
func (s *Store) DB() *sql.DB {
	return s.db
}

func (s *Store) Close() error {
	return s.db.Close()
}

// IsConstraintViolation reports whether err is the driver signal for a
// unique/primary-key violation. Flows rely on this instead of a
// check-then-insert, which would race across concurrent requests.
func IsConstraintViolation(err error) bool {
	var serr sqlite3.Error
	if !errors.As(err, &serr) {
		return false
	}
	return serr.ExtendedCode == sqlite3.ErrConstraintUnique ||
		serr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
}
