package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/villa-app/villa/internal/client/authflow"
	"github.com/villa-app/villa/internal/client/storage"
	"github.com/villa-app/villa/internal/identity"
)

// getSimpleText and getConfirm are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getConfirm = GetConfirm

// SignIn runs the identity flow for an existing credential.
func (a *App) SignIn(ctx context.Context) error {
	return a.runFlow(ctx, authflow.ActionSignIn)
}

// Create runs the identity flow for a brand-new credential.
func (a *App) Create(ctx context.Context) error {
	return a.runFlow(ctx, authflow.ActionCreateAccount)
}

// Logout clears the locally cached profile and drops the active address.
// Server-side state is left untouched; signing in again restores it.
func (a *App) Logout(ctx context.Context) error {
	if !a.isLoggedIn() {
		fmt.Println("Not signed in.")
		return nil
	}

	ok, err := getConfirm(a.reader, "Remove the cached profile from this device?", os.Stdout)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	if err := a.store.Delete(ctx, storage.IdentityKey); err != nil {
		return err
	}
	a.address = ""
	fmt.Println("Signed out.")
	return nil
}

// runFlow drives the auth-flow controller step by step, prompting at the
// nickname and avatar stops. The controller owns the transition rules; the
// CLI only renders steps and collects input.
func (a *App) runFlow(ctx context.Context, action authflow.Action) error {
	done := make(chan authflow.Result, 1)
	flow := authflow.New(a.provider, a.store, a.directory,
		func(r authflow.Result) { done <- r },
		authflow.WithCelebrationDelay(a.config.CelebrationDelay),
		authflow.WithLogger(a.log),
	)
	defer flow.Close()

	// a ceremony failure lands in the error step, which the loop below turns
	// into a retry prompt; only step-order misuse aborts here
	if err := flow.Begin(ctx, action); err != nil && flow.Step() != authflow.StepError {
		return err
	}

	for {
		switch flow.Step() {
		case authflow.StepWelcome:
			// the user cancelled the ceremony; nothing to do
			return nil

		case authflow.StepNickname:
			if err := a.promptNickname(ctx, flow); err != nil {
				return err
			}

		case authflow.StepAvatar:
			if err := a.promptAvatar(ctx, flow); err != nil {
				return err
			}

		case authflow.StepSuccess:
			st := flow.State()
			a.address = st.Address
			if st.IsReturningUser {
				fmt.Printf("Welcome back, %s!\n", st.Nickname)
			} else {
				fmt.Printf("Welcome to Villa, %s!\n", st.Nickname)
			}
			res := <-done
			if res.OK {
				printlnFn("You're all set.")
			}
			return nil

		case authflow.StepError:
			st := flow.State()
			fmt.Println("Something went wrong:", st.Err)
			retry, err := getConfirm(a.reader, "Try again?", os.Stdout)
			if err != nil {
				return err
			}
			if !retry {
				return fmt.Errorf("%s", st.Err)
			}
			// the failed attempt's result is still buffered; drop it so the
			// success read below sees the next attempt's result
			select {
			case <-done:
			default:
			}
			if err := flow.Retry(ctx); err != nil {
				return err
			}
			if err := flow.Begin(ctx, action); err != nil && flow.Step() != authflow.StepError {
				return err
			}

		default:
			return fmt.Errorf("unexpected flow step %q", flow.Step())
		}
	}
}

func (a *App) promptNickname(ctx context.Context, flow *authflow.Controller) error {
	for {
		candidate, err := getSimpleText(a.reader, "Pick a handle (lowercase letters and numbers)", os.Stdout)
		if err != nil {
			return err
		}

		if ok, suggestion, err := flow.CheckNickname(ctx, candidate); err == nil && !ok {
			if suggestion != "" {
				fmt.Printf("%q is taken; how about %q?\n", candidate, suggestion)
			} else {
				fmt.Printf("%q is taken, try another.\n", candidate)
			}
			continue
		}

		if err := flow.SubmitNickname(ctx, candidate); err != nil {
			fmt.Println(err.Error())
			continue
		}
		return nil
	}
}

func (a *App) promptAvatar(ctx context.Context, flow *authflow.Controller) error {
	st := flow.State()

	style, err := getSimpleText(a.reader, "Avatar style (press Enter for 'pixel')", os.Stdout)
	if err != nil {
		return err
	}
	if style == "" {
		style = "pixel"
	}

	avatar := identity.NewGeneratedAvatar(style, st.Nickname, 0)
	if err := flow.SelectAvatar(ctx, avatar); err != nil {
		fmt.Println("Could not save avatar:", err)
		return err
	}
	return nil
}
