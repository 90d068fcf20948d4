package credential

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/villa-app/villa/internal/client/localcache"
	"github.com/villa-app/villa/internal/identity"
)

// localKey is the local-cache slot holding the device keypair.
const localKey = "credential-key"

// ErrNoCredential is returned by SignIn when this device has no stored key.
var ErrNoCredential = errors.New("no credential found on this device")

// DevKeyProvider is a development Provider backed by an ed25519 keypair kept
// in the local cache. It stands in for a platform passkey authenticator: one
// keypair per device, address derived from the public key.
type DevKeyProvider struct {
	store localcache.Repository

	mu     sync.Mutex
	cached *keyRecord
}

type keyRecord struct {
	Address    string `json:"address"`
	PublicKey  []byte `json:"publicKey"`
	PrivateKey []byte `json:"privateKey"`
}

func NewDevKeyProvider(store localcache.Repository) *DevKeyProvider {
	return &DevKeyProvider{store: store}
}

// CreateAccount generates a fresh keypair, replacing any existing one, and
// returns the derived address.
func (p *DevKeyProvider) CreateAccount(ctx context.Context) (string, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return "", fmt.Errorf("keygen failed: %w", err)
	}

	rec := &keyRecord{
		Address:    identity.DeriveAddress(pub),
		PublicKey:  pub,
		PrivateKey: priv,
	}
	if err := p.save(ctx, rec); err != nil {
		return "", err
	}
	return rec.Address, nil
}

// SignIn resolves the stored keypair's address, or ErrNoCredential when the
// device has none.
func (p *DevKeyProvider) SignIn(ctx context.Context) (string, error) {
	rec, err := p.load(ctx)
	if err != nil {
		return "", err
	}
	if rec == nil {
		return "", ErrNoCredential
	}
	return rec.Address, nil
}

// SignMessage signs message with the key behind address.
func (p *DevKeyProvider) SignMessage(ctx context.Context, message string, address string) ([]byte, error) {
	rec, err := p.load(ctx)
	if err != nil {
		return nil, err
	}
	if rec == nil || rec.Address != address {
		return nil, ErrNoCredential
	}
	return ed25519.Sign(ed25519.PrivateKey(rec.PrivateKey), []byte(message)), nil
}

// PublicKey returns the public key behind address.
func (p *DevKeyProvider) PublicKey(ctx context.Context, address string) ([]byte, error) {
	rec, err := p.load(ctx)
	if err != nil {
		return nil, err
	}
	if rec == nil || rec.Address != address {
		return nil, ErrNoCredential
	}
	return rec.PublicKey, nil
}

// Reset drops the in-memory session state. The stored keypair survives, as a
// passkey would.
func (p *DevKeyProvider) Reset(_ context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cached = nil
	return nil
}

func (p *DevKeyProvider) save(ctx context.Context, rec *keyRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	if err := p.store.Set(ctx, localKey, data); err != nil {
		return fmt.Errorf("failed to persist credential: %w", err)
	}
	p.mu.Lock()
	p.cached = rec
	p.mu.Unlock()
	return nil
}

func (p *DevKeyProvider) load(ctx context.Context) (*keyRecord, error) {
	p.mu.Lock()
	if p.cached != nil {
		rec := p.cached
		p.mu.Unlock()
		return rec, nil
	}
	p.mu.Unlock()

	data, err := p.store.Get(ctx, localKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read credential: %w", err)
	}
	if data == nil {
		return nil, nil
	}

	var rec keyRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("corrupt credential record: %w", err)
	}

	p.mu.Lock()
	p.cached = &rec
	p.mu.Unlock()
	return &rec, nil
}
