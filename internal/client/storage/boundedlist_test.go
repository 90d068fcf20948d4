package storage

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrackAppUsage_NewEntriesPrepend(t *testing.T) {
	h, _, _ := newHybrid(t)
	ctx := context.Background()

	require.NoError(t, h.TrackAppUsage(ctx, AppUsage{AppID: "app1", Name: "One"}))
	require.NoError(t, h.TrackAppUsage(ctx, AppUsage{AppID: "app2", Name: "Two"}))

	list, err := h.RecentApps(ctx)
	require.NoError(t, err)
	require.Len(t, list.Apps, 2)
	assert.Equal(t, "app2", list.Apps[0].AppID, "most recent at head")
	assert.Equal(t, 1, list.Apps[0].UsageCount)
}

func TestTrackAppUsage_DedupMovesToHeadAndCounts(t *testing.T) {
	h, _, _ := newHybrid(t)
	ctx := context.Background()

	require.NoError(t, h.TrackAppUsage(ctx, AppUsage{AppID: "app1"}))
	require.NoError(t, h.TrackAppUsage(ctx, AppUsage{AppID: "app2"}))
	require.NoError(t, h.TrackAppUsage(ctx, AppUsage{AppID: "app1"}))

	list, err := h.RecentApps(ctx)
	require.NoError(t, err)
	require.Len(t, list.Apps, 2, "duplicate must not add a second entry")
	assert.Equal(t, "app1", list.Apps[0].AppID)
	assert.Equal(t, 2, list.Apps[0].UsageCount)
	assert.Equal(t, "app2", list.Apps[1].AppID)
}

func TestTrackAppUsage_RepeatVisitKeepsStoredMetadata(t *testing.T) {
	h, _, _ := newHybrid(t)
	ctx := context.Background()

	require.NoError(t, h.TrackAppUsage(ctx, AppUsage{AppID: "app1", Name: "Checkers", URL: "https://checkers.example"}))
	require.NoError(t, h.TrackAppUsage(ctx, AppUsage{AppID: "app1"}))

	list, err := h.RecentApps(ctx)
	require.NoError(t, err)
	require.Len(t, list.Apps, 1)
	assert.Equal(t, "Checkers", list.Apps[0].Name, "an id-only repeat must not blank the stored name")
	assert.Equal(t, "https://checkers.example", list.Apps[0].URL)
	assert.Equal(t, 2, list.Apps[0].UsageCount)
}

func TestTrackAppUsage_CapEnforced(t *testing.T) {
	h, _, _ := newHybrid(t)
	ctx := context.Background()

	for i := 0; i < RecentAppsCap+5; i++ {
		require.NoError(t, h.TrackAppUsage(ctx, AppUsage{AppID: fmt.Sprintf("app%d", i)}))
	}

	list, err := h.RecentApps(ctx)
	require.NoError(t, err)
	assert.Len(t, list.Apps, RecentAppsCap)
	assert.Equal(t, fmt.Sprintf("app%d", RecentAppsCap+4), list.Apps[0].AppID, "most recently appended at index 0")
}

func TestTrackAppUsage_StampsLastSynced(t *testing.T) {
	fixed := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)
	h, _, _ := newHybrid(t, WithClock(func() time.Time { return fixed }))
	ctx := context.Background()

	require.NoError(t, h.TrackAppUsage(ctx, AppUsage{AppID: "app1"}))

	list, err := h.RecentApps(ctx)
	require.NoError(t, err)
	assert.Equal(t, fixed, list.LastSynced)
	assert.Equal(t, fixed, list.Apps[0].LastUsed)
}

func TestAddTipRecord_PrependsAndAssignsID(t *testing.T) {
	h, _, _ := newHybrid(t)
	ctx := context.Background()

	require.NoError(t, h.AddTipRecord(ctx, TipRecord{To: "bob", Amount: "5"}))
	require.NoError(t, h.AddTipRecord(ctx, TipRecord{To: "carol", Amount: "7"}))

	list, err := h.TippingHistory(ctx)
	require.NoError(t, err)
	require.Len(t, list.Tips, 2)
	assert.Equal(t, "carol", list.Tips[0].To)
	assert.NotEmpty(t, list.Tips[0].ID)
	assert.False(t, list.Tips[0].SentAt.IsZero())
}

func TestAddTipRecord_CapEnforced(t *testing.T) {
	h, _, _ := newHybrid(t)
	ctx := context.Background()

	for i := 0; i < TippingHistoryCap+5; i++ {
		require.NoError(t, h.AddTipRecord(ctx, TipRecord{To: fmt.Sprintf("u%d", i), Amount: "1"}))
	}

	list, err := h.TippingHistory(ctx)
	require.NoError(t, err)
	assert.Len(t, list.Tips, TippingHistoryCap)
	assert.Equal(t, fmt.Sprintf("u%d", TippingHistoryCap+4), list.Tips[0].To)
}

func TestBoundedLists_SurviveUnauthenticated(t *testing.T) {
	h, _, rem := newHybrid(t)
	ctx := context.Background()

	require.NoError(t, h.TrackAppUsage(ctx, AppUsage{AppID: "app1"}))
	assert.Nil(t, rem.value(RecentAppsKey))

	list, err := h.RecentApps(ctx)
	require.NoError(t, err)
	assert.Len(t, list.Apps, 1)
}
