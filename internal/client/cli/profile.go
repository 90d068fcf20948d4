package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/villa-app/villa/internal/identity"
)

// WhoAmI prints the cached profile for the active address.
func (a *App) WhoAmI(ctx context.Context) error {
	id, err := a.store.LoadIdentity(ctx)
	if err != nil {
		return err
	}
	if id == nil {
		fmt.Println("No profile on this device. Run 'signin' or 'create' first.")
		return nil
	}

	fmt.Println("Address:     ", id.Address)
	fmt.Println("Handle:      ", id.Nickname)
	if id.DisplayName != "" {
		fmt.Println("Display name:", id.DisplayName)
	}
	if id.Avatar != nil {
		fmt.Printf("Avatar:       %s (%s)\n", id.Avatar.Kind, id.Avatar.Style)
	}

	device, err := a.store.DeviceID(ctx)
	if err == nil {
		fmt.Println("Device:      ", device)
	}
	return nil
}

// SetName updates the profile's display name. Unlike the handle, the display
// name can be changed freely.
func (a *App) SetName(ctx context.Context) error {
	id, err := a.store.LoadIdentity(ctx)
	if err != nil {
		return err
	}
	if id == nil {
		fmt.Println("No profile on this device. Run 'signin' or 'create' first.")
		return nil
	}

	name, err := getSimpleText(a.reader, "Enter display name", os.Stdout)
	if err != nil {
		return err
	}
	if err := identity.ValidateDisplayName(name); err != nil {
		fmt.Println(err.Error())
		return nil
	}

	id.DisplayName = name
	id.UpdatedAt = time.Now().UTC()
	if err := a.store.SaveIdentity(ctx, id); err != nil {
		return err
	}

	fmt.Println("Display name updated.")
	return nil
}

// ChangeHandle renames the profile's handle. Handles can be changed once;
// after that the directory rejects further renames.
func (a *App) ChangeHandle(ctx context.Context) error {
	id, err := a.store.LoadIdentity(ctx)
	if err != nil {
		return err
	}
	if id == nil {
		fmt.Println("No profile on this device. Run 'signin' or 'create' first.")
		return nil
	}
	if !id.CanChangeNickname() {
		fmt.Println("Handle already changed once; further changes are not allowed.")
		return nil
	}

	candidate, err := getSimpleText(a.reader, "Enter new handle", os.Stdout)
	if err != nil {
		return err
	}
	if err := identity.ValidateNickname(candidate); err != nil {
		fmt.Println(err.Error())
		return nil
	}

	if err := a.directory.Claim(ctx, id.Address, candidate); err != nil {
		fmt.Println("Could not claim handle:", err)
		return nil
	}

	id.Nickname = candidate
	id.NicknameChanges++
	id.UpdatedAt = time.Now().UTC()
	if err := a.store.SaveIdentity(ctx, id); err != nil {
		return err
	}

	fmt.Println("Handle updated.")
	return nil
}
