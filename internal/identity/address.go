package identity

import (
	"crypto/sha256"
	"encoding/hex"
)

// DeriveAddress maps a credential public key to the opaque address used as
// the profile key: "0x" plus the hex of the first 20 bytes of the key's
// SHA-256 digest. Both the client provider and the server handshake use this
// so an address can be checked against a presented public key.
func DeriveAddress(publicKey []byte) string {
	sum := sha256.Sum256(publicKey)
	return "0x" + hex.EncodeToString(sum[:20])
}
