package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/villa-app/villa/internal/client/credential"
	"github.com/villa-app/villa/internal/client/localcache"
	"github.com/villa-app/villa/internal/client/remote"
	"github.com/villa-app/villa/internal/common"
	"github.com/villa-app/villa/internal/identity"
	"github.com/villa-app/villa/internal/logging"
)

// Logical keys managed by the hybrid store.
const (
	IdentityKey       = "identity"
	AvatarKey         = "avatar"
	PreferencesKey    = "preferences"
	SessionKey        = "session"
	RecentAppsKey     = "recent-apps"
	TippingHistoryKey = "tipping-history"
)

// knownKeys is the registry SyncAll walks when reconciling local values up to
// a freshly authenticated remote store.
var knownKeys = []string{
	IdentityKey, AvatarKey, PreferencesKey, SessionKey, RecentAppsKey, TippingHistoryKey,
}

// Hybrid is the two-tier profile store. Local writes are synchronous and
// never skipped; remote writes happen only under an authenticated session for
// the active address, and their failures are logged and swallowed.
type Hybrid struct {
	local   localcache.Repository
	remote  remote.Store
	session *Session
	log     logging.Logger
	now     func() time.Time

	mu      sync.Mutex
	address string
}

// Option configures a Hybrid.
type Option func(*Hybrid)

// WithLogger replaces the default no-op logger.
func WithLogger(l logging.Logger) Option {
	return func(h *Hybrid) { h.log = l }
}

// WithClock replaces the wall clock used for lastSynced stamps.
func WithClock(now func() time.Time) Option {
	return func(h *Hybrid) { h.now = now }
}

func New(local localcache.Repository, remoteStore remote.Store, session *Session, opts ...Option) *Hybrid {
	h := &Hybrid{
		local:   local,
		remote:  remoteStore,
		session: session,
		log:     logging.Nop(),
		now:     time.Now,
	}
	for _, o := range opts {
		o(h)
	}
	return h
}

// SetActiveAddress records whose profile subsequent operations belong to.
// Switching addresses invalidates any session held for the previous one.
func (h *Hybrid) SetActiveAddress(address string) {
	h.mu.Lock()
	h.address = address
	h.mu.Unlock()
	h.session.SetActive(address)
}

// ActiveAddress returns the address set by SetActiveAddress.
func (h *Hybrid) ActiveAddress() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.address
}

// Authenticated reports whether the remote tier is unlocked for the active
// address.
func (h *Hybrid) Authenticated() bool {
	return h.session.Authenticated(h.ActiveAddress())
}

// Authenticate unlocks the remote store for the active address via the
// signed-challenge handshake, then reconciles any values that accumulated
// locally while unauthenticated. The caller may ignore the error: failure
// just leaves the store in local-only mode.
func (h *Hybrid) Authenticate(ctx context.Context, provider credential.Provider) error {
	address := h.ActiveAddress()
	if address == "" {
		return errors.New("no active address")
	}
	if err := h.session.Establish(ctx, h.remote, provider, address); err != nil {
		h.log.Warn(ctx, "remote store authentication failed, staying local-only", "err", err)
		return err
	}
	h.SyncAll(ctx)
	return nil
}

// Save writes value under key: local cache first (capacity errors are
// advisory and swallowed), then the remote store when authenticated. Save
// only fails when value cannot be serialized.
func (h *Hybrid) Save(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}

	if err := h.local.Set(ctx, key, data); err != nil {
		h.log.Warn(ctx, "local cache write failed", "key", key, "err", err)
	}

	h.remotePut(ctx, key, data)
	return nil
}

// Load reads key into dest. When authenticated, the remote store is consulted
// first and, on a hit, its value overwrites the local cache (remote is the
// source of truth when reachable). Any remote failure falls through to the
// local cache. Returns false when both tiers miss.
func (h *Hybrid) Load(ctx context.Context, key string, dest any) (bool, error) {
	if token, ok := h.session.TokenFor(h.ActiveAddress()); ok {
		data, err := h.remote.Get(ctx, token, key)
		switch {
		case err == nil:
			if err := h.local.Set(ctx, key, data); err != nil {
				h.log.Warn(ctx, "local write-back failed", "key", key, "err", err)
			}
			return true, json.Unmarshal(data, dest)
		case errors.Is(err, common.ErrUnauthorized):
			h.session.Invalidate()
			h.log.Warn(ctx, "remote session rejected, falling back to local cache", "key", key)
		case errors.Is(err, common.ErrNotFound):
			// remote miss; the local tier may still hold a value
		default:
			h.log.Warn(ctx, "remote read failed, falling back to local cache", "key", key, "err", err)
		}
	}

	return h.LoadLocal(ctx, key, dest)
}

// LoadLocal reads key from the local cache only. Used on render-blocking
// paths that must not touch the network.
func (h *Hybrid) LoadLocal(ctx context.Context, key string, dest any) (bool, error) {
	data, err := h.local.Get(ctx, key)
	if err != nil {
		return false, fmt.Errorf("local read failed for %s: %w", key, err)
	}
	if data == nil {
		return false, nil
	}
	return true, json.Unmarshal(data, dest)
}

// Delete removes key from the local cache unconditionally and from the
// remote store when authenticated. Remote failures are swallowed.
func (h *Hybrid) Delete(ctx context.Context, key string) error {
	if err := h.local.Delete(ctx, key); err != nil {
		return err
	}

	if token, ok := h.session.TokenFor(h.ActiveAddress()); ok {
		if err := h.remote.Delete(ctx, token, key); err != nil {
			if errors.Is(err, common.ErrUnauthorized) {
				h.session.Invalidate()
			}
			h.log.Warn(ctx, "remote delete failed", "key", key, "err", err)
		}
	}
	return nil
}

// SaveIdentity persists the finalized profile.
func (h *Hybrid) SaveIdentity(ctx context.Context, id *identity.Identity) error {
	return h.Save(ctx, IdentityKey, id)
}

// LoadIdentity returns the stored profile, or nil when none exists.
func (h *Hybrid) LoadIdentity(ctx context.Context) (*identity.Identity, error) {
	var id identity.Identity
	found, err := h.Load(ctx, IdentityKey, &id)
	if err != nil || !found {
		return nil, err
	}
	return &id, nil
}

// remotePut mirrors a prepared payload to the remote store when a session for
// the active address exists. Failures are logged, never returned: a save must
// not fail because the remote tier is unavailable.
func (h *Hybrid) remotePut(ctx context.Context, key string, data []byte) {
	token, ok := h.session.TokenFor(h.ActiveAddress())
	if !ok {
		return
	}
	if err := h.remote.Put(ctx, token, key, data); err != nil {
		if errors.Is(err, common.ErrUnauthorized) {
			h.session.Invalidate()
		}
		h.log.Warn(ctx, "remote write failed", "key", key, "err", err)
	}
}
