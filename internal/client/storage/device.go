package storage

import (
	"context"

	"github.com/google/uuid"
)

// deviceIDKey holds the per-device identifier. It is local-only: device
// identity never mirrors to the remote store.
const deviceIDKey = "device-id"

// DeviceID returns this device's identifier, generating and persisting one on
// first use.
func (h *Hybrid) DeviceID(ctx context.Context) (string, error) {
	data, err := h.local.Get(ctx, deviceIDKey)
	if err != nil {
		return "", err
	}
	if len(data) > 0 {
		return string(data), nil
	}

	id := uuid.NewString()
	if err := h.local.Set(ctx, deviceIDKey, []byte(id)); err != nil {
		return "", err
	}
	return id, nil
}
