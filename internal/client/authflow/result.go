package authflow

import (
	"strings"

	"github.com/villa-app/villa/internal/identity"
)

// Step is an auth-flow FSM state.
type Step string

const (
	StepWelcome    Step = "welcome"
	StepConnecting Step = "connecting"
	StepNickname   Step = "nickname"
	StepAvatar     Step = "avatar"
	StepSuccess    Step = "success"
	StepError      Step = "error"
)

// Action records which entry the user chose on the welcome screen. Recovery
// paths differ between the two.
type Action string

const (
	ActionSignIn        Action = "sign-in"
	ActionCreateAccount Action = "create-account"
)

// Code classifies a failed flow for the host application.
type Code string

const (
	CodeCancelled    Code = "CANCELLED"
	CodeAuthFailed   Code = "AUTH_FAILED"
	CodeNetworkError Code = "NETWORK_ERROR"
	CodeTimeout      Code = "TIMEOUT"
)

// Result is the discriminated outcome delivered to the host application's
// completion callback, exactly once per flow attempt.
type Result struct {
	OK       bool
	Identity *identity.Identity
	Err      error
	Code     Code
}

// State is a snapshot of the flow's transient, in-memory-only state. It is
// progressively filled in as steps complete and never persisted.
type State struct {
	Step            Step
	Action          Action
	Address         string
	Nickname        string
	Avatar          *identity.Avatar
	Err             string
	IsReturningUser bool
}

// isCancellation detects user-cancelled credential ceremonies by message.
// Providers report cancellation in free text, so this matches the
// conventional "cancel"/"abort" markers case-insensitively.
func isCancellation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "cancel") || strings.Contains(msg, "abort")
}

// classify maps a failure onto the completion-result code taxonomy.
func classify(err error) Code {
	if err == nil {
		return CodeAuthFailed
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "cancel") || strings.Contains(msg, "abort"):
		return CodeCancelled
	case strings.Contains(msg, "timeout") || strings.Contains(msg, "timed out") || strings.Contains(msg, "deadline"):
		return CodeTimeout
	case strings.Contains(msg, "network") || strings.Contains(msg, "connection") || strings.Contains(msg, "unreachable"):
		return CodeNetworkError
	default:
		return CodeAuthFailed
	}
}
