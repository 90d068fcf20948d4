package nicknames

import (
	"context"
	"errors"

	"github.com/villa-app/villa/internal/common"
	"github.com/villa-app/villa/internal/identity"
)

// Service enforces the directory rules on top of the repository: global
// uniqueness, idempotent claims and the one-change budget.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Lookup returns the nickname claimed by address, or "" when none.
func (s *Service) Lookup(ctx context.Context, address string) (string, error) {
	record, err := s.repo.GetByAddress(ctx, address)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return "", nil
		}
		return "", err
	}
	return record.Nickname, nil
}

// Check reports whether nickname is available. When taken, it also proposes a
// free alternative built from the candidate plus a short random suffix.
func (s *Service) Check(ctx context.Context, nickname string) (bool, string, error) {
	if err := identity.ValidateNickname(nickname); err != nil {
		return false, "", err
	}

	_, err := s.repo.GetByNickname(ctx, nickname)
	if errors.Is(err, common.ErrNotFound) {
		return true, "", nil
	}
	if err != nil {
		return false, "", err
	}

	return false, s.suggest(ctx, nickname), nil
}

// Claim registers nickname for address.
//
// Rules:
//   - re-claiming a pair the caller already holds is a no-op (idempotent, so
//     a client may safely retry a claim that timed out)
//   - a nickname held by another address is rejected with ErrNicknameTaken
//   - renaming is allowed once; after that ErrNicknameChangeLimit
func (s *Service) Claim(ctx context.Context, address, nickname string) error {
	if err := identity.ValidateNickname(nickname); err != nil {
		return err
	}

	owner, err := s.repo.GetByNickname(ctx, nickname)
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		return err
	}
	if owner != nil {
		if owner.Address == address {
			return nil
		}
		return common.ErrNicknameTaken
	}

	existing, err := s.repo.GetByAddress(ctx, address)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return s.repo.Create(ctx, &Record{Address: address, Nickname: nickname})
		}
		return err
	}

	if existing.ChangeCount >= identity.NicknameChangeLimit {
		return common.ErrNicknameChangeLimit
	}

	existing.Nickname = nickname
	existing.ChangeCount++
	return s.repo.Update(ctx, existing)
}

// suggest derives a free variant of nickname: the candidate plus a 4-char hex
// suffix, with the base truncated so the result still validates. Best-effort:
// after a few collisions it returns the last candidate unchecked.
func (s *Service) suggest(ctx context.Context, nickname string) string {
	base := nickname
	if max := identity.NicknameMaxLen - 4; len(base) > max {
		base = base[:max]
	}

	candidate := base
	for i := 0; i < 3; i++ {
		suffix, err := common.MakeRandHexString(2)
		if err != nil {
			return ""
		}
		candidate = base + suffix
		if _, err := s.repo.GetByNickname(ctx, candidate); errors.Is(err, common.ErrNotFound) {
			return candidate
		}
	}
	return candidate
}
