package localcache

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/villa-app/villa/internal/common"
	"github.com/villa-app/villa/internal/dbx"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or
// *sql.Tx). Keys are stored with the shared local prefix so other tools
// using the same database file cannot collide with ours.
type SQLiteRepository struct {
	db            dbx.DBTX
	maxValueBytes int
}

// Option configures a SQLiteRepository.
type Option func(*SQLiteRepository)

// WithMaxValueBytes caps the size of a single stored value. Zero means
// unlimited. Oversized writes fail with common.ErrQuotaExceeded.
func WithMaxValueBytes(n int) Option {
	return func(r *SQLiteRepository) { r.maxValueBytes = n }
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX, opts ...Option) *SQLiteRepository {
	r := &SQLiteRepository{db: db}
	for _, o := range opts {
		o(r)
	}
	return r
}

func prefixed(key string) string {
	return common.LocalKeyPrefix + key
}

// Get returns the value for key, or nil when absent.
func (r *SQLiteRepository) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := r.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, prefixed(key)).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get kv[%s]: %w", key, err)
	}
	return value, nil
}

// Set upserts the value for key.
func (r *SQLiteRepository) Set(ctx context.Context, key string, value []byte) error {
	if r.maxValueBytes > 0 && len(value) > r.maxValueBytes {
		return common.ErrQuotaExceeded
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, prefixed(key), value)
	if err != nil {
		return fmt.Errorf("failed to set kv[%s]: %w", key, err)
	}
	return nil
}

// Delete removes the value for key. Deleting an absent key is not an error.
func (r *SQLiteRepository) Delete(ctx context.Context, key string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, prefixed(key))
	if err != nil {
		return fmt.Errorf("failed to delete kv[%s]: %w", key, err)
	}
	return nil
}

// Keys lists all logical keys currently present, without the prefix.
func (r *SQLiteRepository) Keys(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT key FROM kv WHERE key LIKE ? || '%'`, common.LocalKeyPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list kv keys: %w", err)
	}
	defer rows.Close()

	var result []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("failed to scan kv key: %w", err)
		}
		result = append(result, key[len(common.LocalKeyPrefix):])
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate kv keys: %w", err)
	}
	return result, nil
}

// Clear wipes all prefixed entries.
func (r *SQLiteRepository) Clear(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM kv WHERE key LIKE ? || '%'`, common.LocalKeyPrefix)
	if err != nil {
		return fmt.Errorf("failed to clear kv: %w", err)
	}
	return nil
}
