package identity

import (
	"errors"
	"fmt"
)

const (
	NicknameMinLen = 3
	NicknameMaxLen = 30

	DisplayNameMaxLen = 50

	// NicknameChangeLimit caps post-claim handle changes.
	NicknameChangeLimit = 1
)

// Validation errors carry user-facing messages; the nickname step shows them
// inline and never lets them propagate past the step.
var (
	ErrNicknameTooShort = fmt.Errorf("Handle must be at least %d characters", NicknameMinLen)
	ErrNicknameTooLong  = fmt.Errorf("Handle must be at most %d characters", NicknameMaxLen)
	ErrNicknameCharset  = errors.New("Handle may only contain lowercase letters and numbers")

	ErrDisplayNameTooLong = fmt.Errorf("Display name must be at most %d characters", DisplayNameMaxLen)
)

// ValidateNickname checks the handle format: 3–30 characters, lowercase
// alphanumeric only. It performs no network calls.
func ValidateNickname(nickname string) error {
	if len(nickname) < NicknameMinLen {
		return ErrNicknameTooShort
	}
	if len(nickname) > NicknameMaxLen {
		return ErrNicknameTooLong
	}
	for _, r := range nickname {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return ErrNicknameCharset
		}
	}
	return nil
}

// ValidateDisplayName checks the free-form display label length.
func ValidateDisplayName(name string) error {
	if len(name) > DisplayNameMaxLen {
		return ErrDisplayNameTooLong
	}
	return nil
}
