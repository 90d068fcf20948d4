// Package storage implements the hybrid profile store: every write lands in
// the local cache synchronously, and is mirrored to the remote store when an
// authenticated session for the active address exists. Reads prefer the
// remote store and fall back to the local cache. Remote failures never
// propagate to callers.
package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/villa-app/villa/internal/client/credential"
	"github.com/villa-app/villa/internal/client/remote"
)

// Session tracks which address the remote store is currently unlocked for.
// It is an explicit, injected holder rather than process state so concurrent
// tests (and multiple identities) can each carry their own. The token is only
// handed out when the asking address matches the authenticated one; switching
// the active address invalidates the previous session.
type Session struct {
	mu      sync.Mutex
	address string
	token   string
}

func NewSession() *Session {
	return &Session{}
}

// Establish runs the signed-challenge handshake for address: fetch a
// challenge, sign it with the credential provider, exchange the signature for
// an access token.
func (s *Session) Establish(ctx context.Context, store remote.Store, provider credential.Provider, address string) error {
	challenge, err := store.GenerateChallenge(ctx, address)
	if err != nil {
		return fmt.Errorf("challenge request failed: %w", err)
	}

	signature, err := provider.SignMessage(ctx, challenge, address)
	if err != nil {
		return fmt.Errorf("challenge signing failed: %w", err)
	}

	publicKey, err := provider.PublicKey(ctx, address)
	if err != nil {
		return fmt.Errorf("public key unavailable: %w", err)
	}

	token, err := store.ExchangeSignature(ctx, address, challenge, signature, publicKey)
	if err != nil {
		return fmt.Errorf("signature exchange failed: %w", err)
	}

	s.mu.Lock()
	s.address = address
	s.token = token
	s.mu.Unlock()
	return nil
}

// TokenFor returns the access token when address matches the authenticated
// session. Checked on every remote operation, never cached by callers.
func (s *Session) TokenFor(address string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if address == "" || s.address != address || s.token == "" {
		return "", false
	}
	return s.token, true
}

// Authenticated reports whether a session exists for address.
func (s *Session) Authenticated(address string) bool {
	_, ok := s.TokenFor(address)
	return ok
}

// SetActive records the caller's active address. If it differs from the
// authenticated one, the stale session is dropped.
func (s *Session) SetActive(address string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.address != address {
		s.address = address
		s.token = ""
	}
}

// Invalidate drops the current token, e.g. after the server rejects it.
func (s *Session) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
}
