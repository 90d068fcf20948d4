// Package remote implements the client side of the Remote Store capability:
// an authenticated, cross-device key–value blob store unlocked by a signed
// challenge. The hybrid store treats it as best-effort; every error here is
// recoverable by falling back to the local cache.
package remote

import "context"

// Store is the remote capability consumed by the hybrid store. The access
// token is passed per call; the session holder owns it and re-checks the
// active address on every operation.
type Store interface {
	// GenerateChallenge asks the server for a one-time challenge to sign.
	GenerateChallenge(ctx context.Context, address string) (string, error)

	// ExchangeSignature trades a signed challenge for an access token.
	ExchangeSignature(ctx context.Context, address, challenge string, signature, publicKey []byte) (string, error)

	// Put stores value under key for the token's address.
	Put(ctx context.Context, token, key string, value []byte) error

	// Get returns the value under key, or common.ErrNotFound.
	Get(ctx context.Context, token, key string) ([]byte, error)

	// Delete removes the value under key. Deleting an absent key succeeds.
	Delete(ctx context.Context, token, key string) error

	// PresignAvatarUpload returns a storage key and a presigned URL for
	// uploading a large custom-avatar blob directly to object storage.
	PresignAvatarUpload(ctx context.Context, token string) (string, string, error)
}
