package auth

import (
	"crypto/ed25519"

	"github.com/villa-app/villa/internal/common"
	"github.com/villa-app/villa/internal/identity"
)

// VerifyHandshake checks a completed challenge handshake: the signature must
// be a valid ed25519 signature of the challenge by publicKey, and address
// must be the one derived from publicKey. The second check stops a client
// from answering a challenge with someone else's key.
func VerifyHandshake(address, challenge string, signature, publicKey []byte) error {
	if len(publicKey) != ed25519.PublicKeySize {
		return common.ErrInvalidSignature
	}
	if !ed25519.Verify(publicKey, []byte(challenge), signature) {
		return common.ErrInvalidSignature
	}
	if identity.DeriveAddress(publicKey) != address {
		return common.ErrInvalidSignature
	}
	return nil
}
