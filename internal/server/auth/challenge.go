package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/villa-app/villa/internal/common"
)

const challengeKeyPrefix = "challenge"

// ChallengeStore issues and redeems single-use auth challenges. Challenges
// live in redis under a per-address key with a TTL; redeeming one removes it,
// so a replayed handshake always fails.
type ChallengeStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewChallengeStore(rdb *redis.Client, ttl time.Duration) *ChallengeStore {
	return &ChallengeStore{rdb: rdb, ttl: ttl}
}

func (s *ChallengeStore) key(address string) string {
	return challengeKeyPrefix + ":" + address
}

// Issue creates a fresh challenge for address, replacing any outstanding one.
func (s *ChallengeStore) Issue(ctx context.Context, address string) (string, error) {
	challenge := uuid.NewString()
	if err := s.rdb.Set(ctx, s.key(address), challenge, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("failed to store challenge: %w", err)
	}
	return challenge, nil
}

// Redeem consumes the outstanding challenge for address. It succeeds at most
// once per issued challenge: the redis GETDEL removes the record atomically.
func (s *ChallengeStore) Redeem(ctx context.Context, address, challenge string) error {
	stored, err := s.rdb.GetDel(ctx, s.key(address)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return common.ErrInvalidChallenge
		}
		return fmt.Errorf("failed to read challenge: %w", err)
	}
	if stored != challenge {
		return common.ErrInvalidChallenge
	}
	return nil
}
