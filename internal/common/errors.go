// Package common defines shared constants and sentinel errors used across
// the client and server layers of Villa. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrInternal     = errors.New("internal error")
	ErrUnauthorized = errors.New("unauthorized")

	// Local cache capacity. Treated as advisory by callers: the hybrid
	// store swallows it and proceeds remote-only when possible.
	ErrQuotaExceeded = errors.New("local cache quota exceeded")

	// Nickname lifecycle errors.
	ErrNicknameTaken       = errors.New("nickname already taken")
	ErrNicknameChangeLimit = errors.New("nickname change limit reached")

	// Auth errors.
	ErrInvalidToken     = errors.New("invalid token")
	ErrTokenExpired     = errors.New("token expired")
	ErrInvalidChallenge = errors.New("invalid or expired challenge")
	ErrInvalidSignature = errors.New("signature verification failed")
)
