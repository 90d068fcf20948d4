// Package credential defines the capability interface for passkey-style
// credential ceremonies. The flow treats it as opaque: it yields an address,
// signs challenge messages, and can be reset. Ceremony details (WebAuthn,
// platform authenticators) live behind implementations.
package credential

import "context"

// Provider is the credential capability consumed by the auth flow and the
// remote-store handshake.
type Provider interface {
	// CreateAccount runs the account-creation ceremony and returns the new
	// credential's address.
	CreateAccount(ctx context.Context) (string, error)

	// SignIn runs the sign-in ceremony and returns the resolved address.
	SignIn(ctx context.Context) (string, error)

	// SignMessage signs message with the credential behind address.
	SignMessage(ctx context.Context, message string, address string) ([]byte, error)

	// PublicKey returns the public key behind address, for handshake
	// verification on the remote side.
	PublicKey(ctx context.Context, address string) ([]byte, error)

	// Reset clears any provider-side session state. Called on user-initiated
	// retry after a failure.
	Reset(ctx context.Context) error
}
