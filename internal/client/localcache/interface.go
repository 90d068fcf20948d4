// Package localcache implements the always-available, single-device tier of
// the hybrid store: a key–value table in a local SQLite database. It is the
// fallback of last resort; a read never fails just because the remote store
// is unreachable, as long as a prior value exists here.
package localcache

import "context"

// Repository is the local key–value store contract.
//
// Set may return common.ErrQuotaExceeded when the value exceeds the
// configured per-value capacity; callers treat the local cache as advisory
// once full and swallow that error.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context) ([]string, error)
	Clear(ctx context.Context) error
}
