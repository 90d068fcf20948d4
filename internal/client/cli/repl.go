package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	SignIn(ctx context.Context) error
	Create(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	SetName(ctx context.Context) error
	ChangeHandle(ctx context.Context) error
	Apps(ctx context.Context) error
	Use(ctx context.Context) error
	Tip(ctx context.Context) error
	Tips(ctx context.Context) error
	Sync(ctx context.Context) error
	Logout(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop for the Villa CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Not signed in:
//	  - help           — show available commands
//	  - create         — create a new identity
//	  - signin         — sign in with an existing credential
//	  - exit | quit    — leave the program
//
//	Signed in:
//	  - help           — show available commands
//	  - whoami         — show the cached profile
//	  - set-name       — change the display name
//	  - set-handle     — change the handle (once)
//	  - apps           — list recently used apps
//	  - use            — record an app visit
//	  - tip            — record a tip
//	  - tips           — show the tipping history
//	  - sync           — push cached state to the server
//	  - logout         — remove the profile from this device
//	  - exit | quit    — leave the program
//
// Any errors returned by command handlers are ignored here; handlers should
// log their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("villa> %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: whoami, set-name, set-handle, apps, use, tip, tips, sync, logout, exit")
			} else {
				printlnFn("Available commands: create, signin, exit")
			}

		case "create":
			_ = a.Create(ctx)

		case "signin":
			_ = a.SignIn(ctx)

		case "whoami":
			_ = a.WhoAmI(ctx)

		case "set-name":
			_ = a.SetName(ctx)

		case "set-handle":
			_ = a.ChangeHandle(ctx)

		case "apps":
			_ = a.Apps(ctx)

		case "use":
			_ = a.Use(ctx)

		case "tip":
			_ = a.Tip(ctx)

		case "tips":
			_ = a.Tips(ctx)

		case "sync":
			_ = a.Sync(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
