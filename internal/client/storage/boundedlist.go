package storage

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Caps for the two append-at-head collections. Oldest entries beyond the cap
// are silently dropped.
const (
	RecentAppsCap     = 10
	TippingHistoryCap = 50
)

// AppUsage is one entry in the recently-used-apps list.
type AppUsage struct {
	AppID      string    `json:"appId"`
	Name       string    `json:"name,omitempty"`
	URL        string    `json:"url,omitempty"`
	UsageCount int       `json:"usageCount"`
	LastUsed   time.Time `json:"lastUsed"`
}

// RecentApps is the stored recent-apps record.
type RecentApps struct {
	Apps       []AppUsage `json:"apps"`
	LastSynced time.Time  `json:"lastSynced"`
}

// TipRecord is one entry in the tipping history.
type TipRecord struct {
	ID       string    `json:"id"`
	AppID    string    `json:"appId,omitempty"`
	To       string    `json:"to"`
	Amount   string    `json:"amount"`
	Currency string    `json:"currency,omitempty"`
	Note     string    `json:"note,omitempty"`
	SentAt   time.Time `json:"sentAt"`
}

// TippingHistory is the stored tip-history record.
type TippingHistory struct {
	Tips       []TipRecord `json:"tips"`
	LastSynced time.Time   `json:"lastSynced"`
}

// TrackAppUsage records a visit to app. If the app is already present it
// moves to the head and its usage counter increments; otherwise it is
// prepended. The list is truncated to RecentAppsCap. Read-modify-write over
// Load/Save, so local-first durability comes for free.
func (h *Hybrid) TrackAppUsage(ctx context.Context, app AppUsage) error {
	var list RecentApps
	if _, err := h.Load(ctx, RecentAppsKey, &list); err != nil {
		h.log.Warn(ctx, "recent-apps record unreadable, starting fresh", "err", err)
		list = RecentApps{}
	}

	now := h.now().UTC()

	updated := make([]AppUsage, 0, len(list.Apps)+1)
	entry := AppUsage{AppID: app.AppID, Name: app.Name, URL: app.URL, UsageCount: 1, LastUsed: now}
	for _, existing := range list.Apps {
		if existing.AppID == app.AppID {
			entry.UsageCount = existing.UsageCount + 1
			// a repeat visit may carry only the id; keep the stored metadata
			if entry.Name == "" {
				entry.Name = existing.Name
			}
			if entry.URL == "" {
				entry.URL = existing.URL
			}
			continue
		}
		updated = append(updated, existing)
	}
	updated = append([]AppUsage{entry}, updated...)

	if len(updated) > RecentAppsCap {
		updated = updated[:RecentAppsCap]
	}

	return h.Save(ctx, RecentAppsKey, RecentApps{Apps: updated, LastSynced: now})
}

// AddTipRecord prepends a tip to the history, assigning an id when absent,
// and truncates to TippingHistoryCap.
func (h *Hybrid) AddTipRecord(ctx context.Context, tip TipRecord) error {
	var list TippingHistory
	if _, err := h.Load(ctx, TippingHistoryKey, &list); err != nil {
		h.log.Warn(ctx, "tipping-history record unreadable, starting fresh", "err", err)
		list = TippingHistory{}
	}

	now := h.now().UTC()
	if tip.ID == "" {
		tip.ID = uuid.NewString()
	}
	if tip.SentAt.IsZero() {
		tip.SentAt = now
	}

	tips := append([]TipRecord{tip}, list.Tips...)
	if len(tips) > TippingHistoryCap {
		tips = tips[:TippingHistoryCap]
	}

	return h.Save(ctx, TippingHistoryKey, TippingHistory{Tips: tips, LastSynced: now})
}

// RecentApps returns the stored recent-apps record, empty when none.
func (h *Hybrid) RecentApps(ctx context.Context) (*RecentApps, error) {
	var list RecentApps
	if _, err := h.Load(ctx, RecentAppsKey, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// TippingHistory returns the stored tip history, empty when none.
func (h *Hybrid) TippingHistory(ctx context.Context) (*TippingHistory, error) {
	var list TippingHistory
	if _, err := h.Load(ctx, TippingHistoryKey, &list); err != nil {
		return nil, err
	}
	return &list, nil
}
