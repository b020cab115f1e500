package store

import (
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// Schema versions:
// 0 - queue(user) relying on rowid order
// 1 - explicit seq column
const currentSchemaVersion = 1

// SQLQueue is Queue persisted in a SQLite database file.
// It is meant to be opened by each short-lived invocation and closed after.
type SQLQueue struct {
	db *sql.DB
}

// Open opens or creates the queue database at path.
// A freshly created file, and its directory if Open created it, are made
// readable and writable by everyone, so invocations running under different
// users can share it. SQLite needs the directory writable for its journal.
func Open(path string) (*SQLQueue, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("database path is required")
	}
	path = filepath.Clean(path)

	dir := filepath.Dir(path)
	_, err := os.Stat(dir)
	dirCreated := errors.Is(err, os.ErrNotExist)
	if dirCreated {
		if err := os.MkdirAll(dir, 0o777); err != nil {
			return nil, fmt.Errorf("create database dir: %w", err)
		}
		// MkdirAll is subject to umask
		if err := os.Chmod(dir, 0o777); err != nil {
			return nil, fmt.Errorf("chmod database dir: %w", err)
		}
	}

	_, err = os.Stat(path)
	created := errors.Is(err, os.ErrNotExist)

	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	// SQLite only supports one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applySchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	if created {
		if err := os.Chmod(path, 0o666); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("chmod database: %w", err)
		}
	}

	return &SQLQueue{db: db}, nil
}

func (q *SQLQueue) Close() error {
	if q == nil || q.db == nil {
		return nil
	}
	return q.db.Close()
}

func (q *SQLQueue) List() ([]string, error) {
	rows, err := q.db.Query("SELECT user FROM queue ORDER BY seq")
	if err != nil {
		return nil, fmt.Errorf("select queue: %w", err)
	}
	defer rows.Close()

	var users []string
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, fmt.Errorf("scan queue row: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate queue: %w", err)
	}
	return users, nil
}

func (q *SQLQueue) Position(userID string) (int, error) {
	users, err := q.List()
	if err != nil {
		return 0, err
	}
	return position(users, userID)
}

func (q *SQLQueue) Size() (int, error) {
	users, err := q.List()
	if err != nil {
		return 0, err
	}
	return len(users), nil
}

func (q *SQLQueue) Has(userID string) (bool, error) {
	_, err := q.Position(userID)
	if errors.Is(err, ErrUserNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (q *SQLQueue) Add(userID string) (int, error) {
	has, err := q.Has(userID)
	if err != nil {
		return 0, err
	}
	if has {
		return 0, ErrUserExists
	}

	if _, err := q.db.Exec("INSERT INTO queue (user) VALUES (?)", userID); err != nil {
		return 0, fmt.Errorf("insert into queue: %w", err)
	}
	return q.Position(userID)
}

func (q *SQLQueue) Remove(userID string) error {
	has, err := q.Has(userID)
	if err != nil || !has {
		return err
	}

	if _, err := q.db.Exec("DELETE FROM queue WHERE user = ?", userID); err != nil {
		return fmt.Errorf("delete from queue: %w", err)
	}
	return nil
}

func (q *SQLQueue) Clear() error {
	if _, err := q.db.Exec("DELETE FROM queue"); err != nil {
		return fmt.Errorf("clear queue: %w", err)
	}
	return nil
}

// Pick reads the front and then deletes it without a transaction; a
// concurrent Remove of the same user between the two steps goes unnoticed.
func (q *SQLQueue) Pick() (string, error) {
	return q.pick(nil)
}

// pick runs between, if set, after the front has been read and before it
// is deleted.
func (q *SQLQueue) pick(between func()) (string, error) {
	users, err := q.List()
	if err != nil {
		return "", err
	}
	if len(users) == 0 {
		return "", ErrQueueEmpty
	}

	first := users[0]
	if between != nil {
		between()
	}
	if err := q.Remove(first); err != nil {
		return "", err
	}
	return first, nil
}

func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}

	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("get user_version: %w", err)
	}
	if version >= currentSchemaVersion {
		return nil
	}

	if err := migrateToV1(db); err != nil {
		return err
	}

	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}
	return nil
}

// migrateToV1 rebuilds a queue table created without the seq column,
// keeping rowid order as service order.
func migrateToV1(db *sql.DB) error {
	var hasSeq int
	err := db.QueryRow("SELECT COUNT(*) FROM pragma_table_info('queue') WHERE name = 'seq'").Scan(&hasSeq)
	if err != nil {
		return fmt.Errorf("inspect queue table: %w", err)
	}
	if hasSeq > 0 {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin migration: %w", err)
	}
	defer tx.Rollback()

	stmts := []string{
		"ALTER TABLE queue RENAME TO queue_v0",
		schemaSQL,
		"INSERT INTO queue (user) SELECT user FROM queue_v0 ORDER BY rowid",
		"DROP TABLE queue_v0",
	}
	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("migrate to v1: %w", err)
		}
	}
	return tx.Commit()
}
