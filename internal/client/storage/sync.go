package storage

import (
	"context"
	"time"

	"github.com/sethvargo/go-retry"
)

// SyncAll pushes every known logical key with a local value up to the remote
// store. Invoked after a successful authentication handshake, so values that
// accumulated while unauthenticated reach the newly unlocked remote tier.
// Each key is retried briefly and failures are isolated: one failing key
// never aborts the rest.
func (h *Hybrid) SyncAll(ctx context.Context) {
	token, ok := h.session.TokenFor(h.ActiveAddress())
	if !ok {
		return
	}

	for _, key := range knownKeys {
		data, err := h.local.Get(ctx, key)
		if err != nil {
			h.log.Warn(ctx, "sync: local read failed", "key", key, "err", err)
			continue
		}
		if data == nil {
			continue
		}

		backoff := retry.WithMaxRetries(2, retry.NewConstant(200*time.Millisecond))
		err = retry.Do(ctx, backoff, func(ctx context.Context) error {
			if err := h.remote.Put(ctx, token, key, data); err != nil {
				return retry.RetryableError(err)
			}
			return nil
		})
		if err != nil {
			h.log.Warn(ctx, "sync: remote push failed", "key", key, "err", err)
		}
	}
}
