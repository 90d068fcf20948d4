package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/villa-app/villa/internal/client/storage"
)

// Apps lists the recently used apps, most recent first.
func (a *App) Apps(ctx context.Context) error {
	list, err := a.store.RecentApps(ctx)
	if err != nil {
		return err
	}
	if len(list.Apps) == 0 {
		fmt.Println("No app activity yet.")
		return nil
	}

	for i, app := range list.Apps {
		name := app.Name
		if name == "" {
			name = app.AppID
		}
		fmt.Printf("%2d. %s (used %d times, last %s)\n",
			i+1, name, app.UsageCount, app.LastUsed.Format("2006-01-02 15:04"))
	}
	return nil
}

// Use records a visit to an app, feeding the recents list.
func (a *App) Use(ctx context.Context) error {
	appID, err := getSimpleText(a.reader, "Enter app id", os.Stdout)
	if err != nil {
		return err
	}
	if appID == "" {
		fmt.Println("App id is required.")
		return nil
	}
	name, err := getSimpleText(a.reader, "Enter app name (optional)", os.Stdout)
	if err != nil {
		return err
	}

	if err := a.store.TrackAppUsage(ctx, storage.AppUsage{AppID: appID, Name: name}); err != nil {
		return err
	}
	fmt.Println("Recorded.")
	return nil
}

// Tip records an outgoing tip in the local history.
func (a *App) Tip(ctx context.Context) error {
	to, err := getSimpleText(a.reader, "Recipient handle or address", os.Stdout)
	if err != nil {
		return err
	}
	if to == "" {
		fmt.Println("Recipient is required.")
		return nil
	}
	amount, err := getSimpleText(a.reader, "Amount", os.Stdout)
	if err != nil {
		return err
	}
	if amount == "" {
		fmt.Println("Amount is required.")
		return nil
	}

	if err := a.store.AddTipRecord(ctx, storage.TipRecord{To: to, Amount: amount}); err != nil {
		return err
	}
	fmt.Println("Tip recorded.")
	return nil
}

// Tips prints the tipping history, most recent first.
func (a *App) Tips(ctx context.Context) error {
	list, err := a.store.TippingHistory(ctx)
	if err != nil {
		return err
	}
	if len(list.Tips) == 0 {
		fmt.Println("No tips yet.")
		return nil
	}

	for i, tip := range list.Tips {
		fmt.Printf("%2d. %s -> %s (%s)\n", i+1, tip.Amount, tip.To, tip.SentAt.Format("2006-01-02 15:04"))
	}
	return nil
}

// Sync pushes cached state to the remote tier.
func (a *App) Sync(ctx context.Context) error {
	if !a.store.Authenticated() {
		printlnFn("Not signed in; changes stay on this device until you sign in.")
		return nil
	}
	a.store.SyncAll(ctx)
	printlnFn("Sync finished.")
	return nil
}
