package cli

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
)

func (a *App) getStatus() string {
	if a.address == "" {
		return ""
	}
	return fmt.Sprintf("(%s)", a.address)
}

// restoreProfile rehydrates the cached identity after a restart and
// re-establishes the remote session so sync keeps working. When the handshake
// fails the store stays local-only and the user is told how to reconnect.
func (a *App) restoreProfile(ctx context.Context) {
	id, err := a.store.LoadIdentity(ctx)
	if err != nil || !id.Complete() {
		return
	}

	a.address = id.Address
	a.store.SetActiveAddress(id.Address)
	log.Printf("Restored profile for %s\n", id.Nickname)

	if err := a.store.Authenticate(ctx, a.provider); err != nil {
		log.Println("Remote sync unavailable; run 'signin' to reconnect.")
	}
}

// Root restores any cached profile, then hands control to the REPL.
func (a *App) Root(ctx context.Context) {

	log.Println("Welcome to Villa CLI (type 'help' for commands)")

	a.restoreProfile(ctx)

	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.getStatus, scanner)
}
