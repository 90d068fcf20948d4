// Package authflow sequences the identity bootstrap: welcome →
// (create|sign-in) → nickname → avatar → success, with a fast path for
// returning users whose profile is already complete and an error state
// reachable from any step. The controller owns only transient state; durable
// profile data lives in the hybrid store.
package authflow

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/villa-app/villa/internal/client/credential"
	"github.com/villa-app/villa/internal/client/nickname"
	"github.com/villa-app/villa/internal/identity"
	"github.com/villa-app/villa/internal/logging"
)

// DefaultCelebrationDelay is how long the success animation plays before the
// completion callback fires. A UX contract, not a processing wait.
const DefaultCelebrationDelay = 1500 * time.Millisecond

// IdentityStore is the slice of the hybrid store the flow depends on.
// *storage.Hybrid satisfies it.
type IdentityStore interface {
	SetActiveAddress(address string)
	Authenticate(ctx context.Context, provider credential.Provider) error
	SaveIdentity(ctx context.Context, id *identity.Identity) error
	LoadIdentity(ctx context.Context) (*identity.Identity, error)
}

// Controller is the auth-flow state machine. One instance per mount; a new
// flow only starts after the previous instance is closed. All methods are
// driven from a single caller goroutine; the only background work is the
// celebration timer, which is tied to the controller's lifetime.
type Controller struct {
	provider  credential.Provider
	store     IdentityStore
	directory nickname.Directory
	log       logging.Logger

	onComplete func(Result)
	delay      time.Duration

	mu        sync.Mutex
	state     State
	completed bool
	closed    bool
	done      chan struct{}
}

// Option configures a Controller.
type Option func(*Controller)

// WithCelebrationDelay overrides the success-animation delay.
func WithCelebrationDelay(d time.Duration) Option {
	return func(c *Controller) { c.delay = d }
}

// WithLogger replaces the default no-op logger.
func WithLogger(l logging.Logger) Option {
	return func(c *Controller) { c.log = l }
}

// New builds a Controller in the welcome state. onComplete is invoked exactly
// once per flow attempt, after the celebration delay on success or
// immediately on a surfaced failure. It is never invoked after Close.
func New(provider credential.Provider, store IdentityStore, directory nickname.Directory, onComplete func(Result), opts ...Option) *Controller {
	c := &Controller{
		provider:   provider,
		store:      store,
		directory:  directory,
		log:        logging.Nop(),
		onComplete: onComplete,
		delay:      DefaultCelebrationDelay,
		state:      State{Step: StepWelcome},
		done:       make(chan struct{}),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// State returns a snapshot of the flow state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Step returns the current FSM step.
func (c *Controller) Step() Step {
	return c.State().Step
}

// Close releases the controller. Any pending celebration timer is cancelled
// so no callback fires after the host has unmounted.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.done)
	}
}

// Begin leaves welcome for connecting: it runs the chosen credential
// ceremony, then resolves whether the user is returning or brand new.
//
// Provider cancellation ("cancel"/"abort" in the failure message) silently
// resets to welcome; every other ceremony failure surfaces in the error
// state. The returned error mirrors what was surfaced, for callers that want
// it inline.
func (c *Controller) Begin(ctx context.Context, action Action) error {
	c.mu.Lock()
	if c.state.Step != StepWelcome {
		step := c.state.Step
		c.mu.Unlock()
		return fmt.Errorf("cannot begin from step %q", step)
	}
	c.state = State{Step: StepConnecting, Action: action}
	c.mu.Unlock()

	address, err := c.resolveCredential(ctx, action)
	if err != nil {
		if isCancellation(err) {
			// not an error: the user changed their mind
			c.log.Debug(ctx, "credential ceremony cancelled by user")
			c.setState(State{Step: StepWelcome, Action: action})
			return nil
		}
		c.fail(err)
		return err
	}

	c.store.SetActiveAddress(address)

	// Unlock the remote tier opportunistically. Failure means the profile
	// lookup below runs local-only, which is fine.
	if err := c.store.Authenticate(ctx, c.provider); err != nil {
		c.log.Warn(ctx, "remote store unavailable, continuing local-only", "err", err)
	}

	c.resolveReturningUser(ctx, action, address)
	return nil
}

// SubmitNickname validates and claims the candidate handle, then advances to
// the avatar step.
//
// Validation failures block: they are returned for inline display and no
// network call is made. Claim failures do not block: the claim endpoint is
// idempotent and retried later, so the flow advances with the candidate
// rather than stranding the user on a flaky network.
func (c *Controller) SubmitNickname(ctx context.Context, candidate string) error {
	c.mu.Lock()
	if c.state.Step != StepNickname {
		step := c.state.Step
		c.mu.Unlock()
		return fmt.Errorf("cannot submit nickname from step %q", step)
	}
	address := c.state.Address
	c.mu.Unlock()

	if err := identity.ValidateNickname(candidate); err != nil {
		return err
	}

	if err := c.directory.Claim(ctx, address, candidate); err != nil {
		c.log.Warn(ctx, "nickname claim failed, advancing anyway", "nickname", candidate, "err", err)
	}

	c.mu.Lock()
	c.state.Nickname = candidate
	c.state.Step = StepAvatar
	c.state.Err = ""
	c.mu.Unlock()
	return nil
}

// CheckNickname proxies an availability probe for live inline feedback.
func (c *Controller) CheckNickname(ctx context.Context, candidate string) (bool, string, error) {
	if err := identity.ValidateNickname(candidate); err != nil {
		return false, "", err
	}
	return c.directory.Check(ctx, candidate)
}

// SelectAvatar persists the finished profile and enters success. The write
// happens synchronously before the transition; the completion callback fires
// after the celebration delay.
func (c *Controller) SelectAvatar(ctx context.Context, avatar *identity.Avatar) error {
	c.mu.Lock()
	if c.state.Step != StepAvatar {
		step := c.state.Step
		c.mu.Unlock()
		return fmt.Errorf("cannot select avatar from step %q", step)
	}
	if !avatar.Valid() {
		c.mu.Unlock()
		return fmt.Errorf("avatar descriptor is incomplete")
	}
	st := c.state
	c.mu.Unlock()

	id := &identity.Identity{
		Address:   st.Address,
		Nickname:  st.Nickname,
		Avatar:    avatar,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	if err := c.store.SaveIdentity(ctx, id); err != nil {
		c.fail(err)
		return err
	}

	c.mu.Lock()
	c.state.Avatar = avatar
	c.state.Step = StepSuccess
	c.state.Err = ""
	c.mu.Unlock()

	c.scheduleCompletion(Result{OK: true, Identity: id}, c.delay)
	return nil
}

// Back navigates one step backwards: nickname → welcome, avatar → nickname.
// User-initiated, no side effects beyond the step change.
func (c *Controller) Back() {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch c.state.Step {
	case StepNickname:
		c.state.Step = StepWelcome
	case StepAvatar:
		c.state.Step = StepNickname
	}
}

// Retry leaves the error state: it fully resets the credential provider's
// session, clears the error, and re-arms the completion callback for the new
// attempt.
func (c *Controller) Retry(ctx context.Context) error {
	c.mu.Lock()
	if c.state.Step != StepError {
		step := c.state.Step
		c.mu.Unlock()
		return fmt.Errorf("cannot retry from step %q", step)
	}
	c.state = State{Step: StepWelcome}
	c.completed = false
	c.mu.Unlock()

	if err := c.provider.Reset(ctx); err != nil {
		c.log.Warn(ctx, "provider reset failed", "err", err)
	}
	return nil
}

func (c *Controller) resolveCredential(ctx context.Context, action Action) (string, error) {
	if action == ActionCreateAccount {
		return c.provider.CreateAccount(ctx)
	}
	return c.provider.SignIn(ctx)
}

// resolveReturningUser decides where the flow lands after a resolved address:
//
//  1. A stored complete Identity for this address skips straight to success.
//  2. Otherwise, a nickname on record skips to avatar (or success when an
//     avatar is already stored).
//  3. Otherwise the user is brand new and starts at nickname.
//
// The directory lookup is best-effort: if it is unreachable the flow falls
// through to the brand-new path rather than blocking.
func (c *Controller) resolveReturningUser(ctx context.Context, action Action, address string) {
	stored, err := c.store.LoadIdentity(ctx)
	if err != nil {
		c.log.Warn(ctx, "stored identity unreadable", "err", err)
		stored = nil
	}
	if stored != nil && stored.Address != address {
		// profile belongs to a different credential on this device
		stored = nil
	}

	if stored.Complete() {
		c.setState(State{
			Step: StepSuccess, Action: action, Address: address,
			Nickname: stored.Nickname, Avatar: stored.Avatar, IsReturningUser: true,
		})
		c.scheduleCompletion(Result{OK: true, Identity: stored}, c.delay)
		return
	}

	nick, err := c.directory.Lookup(ctx, address)
	if err != nil {
		c.log.Warn(ctx, "nickname lookup unavailable", "err", err)
		nick = ""
	}
	if nick != "" {
		if stored != nil && stored.Avatar.Valid() {
			id := &identity.Identity{
				Address:   address,
				Nickname:  nick,
				Avatar:    stored.Avatar,
				CreatedAt: stored.CreatedAt,
				UpdatedAt: time.Now().UTC(),
			}
			if err := c.store.SaveIdentity(ctx, id); err != nil {
				c.log.Warn(ctx, "identity write failed", "err", err)
			}
			c.setState(State{
				Step: StepSuccess, Action: action, Address: address,
				Nickname: nick, Avatar: stored.Avatar, IsReturningUser: true,
			})
			c.scheduleCompletion(Result{OK: true, Identity: id}, c.delay)
			return
		}
		c.setState(State{
			Step: StepAvatar, Action: action, Address: address,
			Nickname: nick, IsReturningUser: true,
		})
		return
	}

	c.setState(State{Step: StepNickname, Action: action, Address: address})
}

func (c *Controller) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

// fail surfaces err in the error state and delivers the failure result.
func (c *Controller) fail(err error) {
	c.mu.Lock()
	c.state.Step = StepError
	c.state.Err = err.Error()
	c.mu.Unlock()

	c.scheduleCompletion(Result{OK: false, Err: err, Code: classify(err)}, 0)
}

// scheduleCompletion delivers res after delay, unless the controller is
// closed first or this attempt already completed.
func (c *Controller) scheduleCompletion(res Result, delay time.Duration) {
	timer := time.NewTimer(delay)
	go func() {
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-c.done:
			return
		}

		c.mu.Lock()
		if c.closed || c.completed {
			c.mu.Unlock()
			return
		}
		c.completed = true
		cb := c.onComplete
		c.mu.Unlock()

		if cb != nil {
			cb(res)
		}
	}()
}
