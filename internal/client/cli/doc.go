// Package cli implements the interactive Villa command-line client.
//
// The CLI is a thin shell over the identity flow and the hybrid store: it
// renders flow steps as prompts, records app and tipping activity, and lets
// the user inspect or edit the cached profile. All durable state goes through
// the hybrid store; the CLI itself holds only the active address.
package cli
