// Package sqlite stores persisted state in a single-file SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"github.com/Apurer/go-gin-storefront/internal/platform/persist"
)

// DefaultPath is used when no database path is configured.
const DefaultPath = "storefront.db"

// KV persists state rows in the state table.
type KV struct {
	db  *sql.DB
	now func() time.Time
}

// Open creates the database file and schema if needed.
func Open(path string) (*KV, error) {
	if strings.TrimSpace(path) == "" {
		path = DefaultPath
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS state (
		key TEXT PRIMARY KEY,
		payload BLOB NOT NULL,
		updated_at INTEGER NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create state table: %w", err)
	}
	return &KV{db: db, now: time.Now}, nil
}

func (k *KV) Close() error {
	if k == nil || k.db == nil {
		return nil
	}
	return k.db.Close()
}

func (k *KV) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := k.ensureDB(); err != nil {
		return nil, false, err
	}
	var payload []byte
	err := k.db.QueryRowContext(ctx, `SELECT payload FROM state WHERE key = ?`, key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("select state: %w", err)
	}
	return payload, true, nil
}

func (k *KV) Set(ctx context.Context, key string, value []byte) error {
	if err := k.ensureDB(); err != nil {
		return err
	}
	_, err := k.db.ExecContext(ctx,
		`INSERT INTO state (key, payload, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
		key, value, k.now().UnixMilli())
	if err != nil {
		return fmt.Errorf("upsert state: %w", err)
	}
	return nil
}

func (k *KV) Delete(ctx context.Context, key string) error {
	if err := k.ensureDB(); err != nil {
		return err
	}
	if _, err := k.db.ExecContext(ctx, `DELETE FROM state WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete state: %w", err)
	}
	return nil
}

func (k *KV) Keys(ctx context.Context, prefix string) ([]string, error) {
	if err := k.ensureDB(); err != nil {
		return nil, err
	}
	rows, err := k.db.QueryContext(ctx, `SELECT key FROM state WHERE substr(key, 1, ?) = ? ORDER BY key`, len(prefix), prefix)
	if err != nil {
		return nil, fmt.Errorf("select keys: %w", err)
	}
	defer func() { _ = rows.Close() }()
	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

// PurgeStale deletes rows not written for olderThan.
func (k *KV) PurgeStale(ctx context.Context, olderThan time.Duration) (int64, error) {
	if err := k.ensureDB(); err != nil {
		return 0, err
	}
	cutoff := k.now().Add(-olderThan).UnixMilli()
	res, err := k.db.ExecContext(ctx, `DELETE FROM state WHERE updated_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge state: %w", err)
	}
	return res.RowsAffected()
}

func (k *KV) ensureDB() error {
	if k == nil || k.db == nil {
		return persist.ErrNotConfigured
	}
	return nil
}

var _ persist.KV = (*KV)(nil)
