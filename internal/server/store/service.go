// Package store implements the per-address remote key/value store. Small
// values live inline in redis; values over the configured limit are offloaded
// to S3-compatible object storage with a pointer record left in redis.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/villa-app/villa/internal/common"
	"github.com/villa-app/villa/internal/server/config"
)

const (
	storeKeyPrefix = "store"

	// value encodings in redis
	inlineMarker  = "i:"
	offloadMarker = "o:"
)

// Service stores profile values per authenticated address. All operations are
// scoped by the address extracted from the caller's token; one address can
// never read another's keys.
type Service struct {
	rdb    *redis.Client
	config *config.Config
}

func NewService(rdb *redis.Client, config *config.Config) *Service {
	return &Service{rdb: rdb, config: config}
}

func (s *Service) key(address, key string) string {
	return storeKeyPrefix + ":" + address + ":" + key
}

// Put writes value under the caller's namespace. Values above the inline
// limit go to object storage; redis keeps only the storage key.
func (s *Service) Put(ctx context.Context, address, key string, value []byte) error {
	record := inlineMarker + string(value)

	if len(value) > s.config.InlineValueLimit {
		storageKey := GetRandomStorageKey()
		if err := s.uploadObject(ctx, storageKey, value); err != nil {
			return fmt.Errorf("failed to offload value: %w", err)
		}
		record = offloadMarker + storageKey
	}

	if err := s.rdb.Set(ctx, s.key(address, key), record, 0).Err(); err != nil {
		return fmt.Errorf("failed to store value: %w", err)
	}
	return nil
}

// Get returns the value stored under the caller's namespace, transparently
// fetching offloaded payloads from object storage.
func (s *Service) Get(ctx context.Context, address, key string) ([]byte, error) {
	record, err := s.rdb.Get(ctx, s.key(address, key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("failed to read value: %w", err)
	}

	switch {
	case strings.HasPrefix(record, inlineMarker):
		return []byte(strings.TrimPrefix(record, inlineMarker)), nil
	case strings.HasPrefix(record, offloadMarker):
		return s.downloadObject(ctx, strings.TrimPrefix(record, offloadMarker))
	default:
		return nil, fmt.Errorf("unrecognized record encoding for %s", key)
	}
}

// Delete removes the value under the caller's namespace. An offloaded object
// is deleted best-effort; a dangling object is garbage, not corruption.
func (s *Service) Delete(ctx context.Context, address, key string) error {
	record, err := s.rdb.GetDel(ctx, s.key(address, key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return fmt.Errorf("failed to delete value: %w", err)
	}

	if strings.HasPrefix(record, offloadMarker) {
		_ = s.deleteObject(ctx, strings.TrimPrefix(record, offloadMarker))
	}
	return nil
}
