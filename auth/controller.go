// Package auth orchestrates the session lifecycle: one-time initialization
// at process start, login/register/logout, and the forced transition back to
// unauthenticated when the backend rejects the stored token.
package auth

import (
	"context"
	"sync"
	"time"

	"github.com/Tabo-ecom/grandline-go/api"
	"github.com/Tabo-ecom/grandline-go/session"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// State is the controller's position in the session state machine.
type State int

const (
	StateUninitialized State = iota
	StateLoading
	StateAuthenticated
	StateUnauthenticated
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateLoading:
		return "loading"
	case StateAuthenticated:
		return "authenticated"
	case StateUnauthenticated:
		return "unauthenticated"
	}
	return "unknown"
}

// Backend is the slice of the access layer the controller needs. Login and
// Register return the issued bearer token without storing it.
type Backend interface {
	Login(ctx context.Context, email, password string) (string, error)
	Register(ctx context.Context, form api.RegisterForm) (string, error)
	Me(ctx context.Context) (*api.User, error)
	Org(ctx context.Context) (*api.Organization, error)
}

var _ Backend = (*api.Client)(nil)

// Controller derives the authenticated identity from the stored session.
// Identity and organization are populated if and only if the state is
// StateAuthenticated.
type Controller struct {
	backend Backend
	tokens  session.Repo
	log     zerolog.Logger
	nowTime func() time.Time

	lock  sync.Mutex
	state State
	user  *api.User
	org   *api.Organization
}

// ControllerOption modifies the Controller instance.
type ControllerOption func(*Controller)

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(log zerolog.Logger) ControllerOption {
	return func(c *Controller) {
		c.log = log
	}
}

// WithNowTime sets the now time function (primarily for testing).
func WithNowTime(nowFunc func() time.Time) ControllerOption {
	return func(c *Controller) {
		c.nowTime = nowFunc
	}
}

// New creates a Controller in StateUninitialized.
func New(backend Backend, tokens session.Repo, options ...ControllerOption) (*Controller, error) {
	if backend == nil {
		return nil, errors.New("[auth.New] backend is required")
	}
	if tokens == nil {
		return nil, errors.New("[auth.New] session repo is required")
	}

	controller := &Controller{
		backend: backend,
		tokens:  tokens,
		log:     zerolog.Nop(),
		nowTime: time.Now,
		state:   StateUninitialized,
	}

	for _, opt := range options {
		opt(controller)
	}

	return controller, nil
}

// State returns the current machine state.
func (c *Controller) State() State {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.state
}

// Identity returns the authenticated user and organization. ok is false
// unless the state is StateAuthenticated; callers must not assume identity
// before that.
func (c *Controller) Identity() (user *api.User, org *api.Organization, ok bool) {
	c.lock.Lock()
	defer c.lock.Unlock()
	if c.state != StateAuthenticated {
		return nil, nil, false
	}
	return c.user, c.org, true
}

// Initialize runs once at process start. Without a stored token it settles
// on StateUnauthenticated without touching the network. With one it derives
// the identity from the backend; any failure clears the token. Calling it
// again after the machine has settled is a no-op.
func (c *Controller) Initialize(ctx context.Context) error {
	c.lock.Lock()
	if c.state != StateUninitialized {
		c.lock.Unlock()
		c.log.Warn().Stringer("state", c.state).Msg("initialize called more than once, ignoring")
		return nil
	}
	c.state = StateLoading
	c.lock.Unlock()

	token, err := c.tokens.Get()
	if err != nil {
		c.log.Error().Err(err).Msg("session repo read failed during initialize")
		c.settle(StateUnauthenticated, nil, nil)
		return errors.Wrap(err, "[Controller.Initialize] tokens.Get")
	}
	if token == "" {
		c.settle(StateUnauthenticated, nil, nil)
		return nil
	}

	if exp, err := session.Expiry(token); err == nil {
		c.log.Debug().Time("expires_at", exp).Dur("remaining", exp.Sub(c.nowTime())).Msg("stored session token")
	}

	user, org, err := c.fetchIdentity(ctx)
	if err != nil {
		if clearErr := c.tokens.Clear(); clearErr != nil {
			c.log.Error().Err(clearErr).Msg("failed to clear stale token")
		}
		c.log.Info().Err(err).Msg("stored session not accepted, starting unauthenticated")
		c.settle(StateUnauthenticated, nil, nil)
		return nil
	}

	c.settle(StateAuthenticated, user, org)
	c.log.Info().Str("email", user.Email).Msg("session restored")
	return nil
}

// Login authenticates with the backend and populates the identity. The
// operation is atomic from the caller's view: on any failure after the
// credential exchange the stored token is cleared again, so either both the
// token and the identity land, or neither does. A credential rejection is
// returned verbatim.
func (c *Controller) Login(ctx context.Context, email, password string) error {
	token, err := c.backend.Login(ctx, email, password)
	if err != nil {
		return err
	}
	return c.adoptToken(ctx, token)
}

// Register creates an account and logs in, with the same atomicity contract
// as Login.
func (c *Controller) Register(ctx context.Context, form api.RegisterForm) error {
	token, err := c.backend.Register(ctx, form)
	if err != nil {
		return err
	}
	return c.adoptToken(ctx, token)
}

func (c *Controller) adoptToken(ctx context.Context, token string) error {
	if err := c.tokens.Set(token); err != nil {
		return errors.Wrap(err, "[Controller.adoptToken] tokens.Set")
	}

	user, org, err := c.fetchIdentity(ctx)
	if err != nil {
		if clearErr := c.tokens.Clear(); clearErr != nil {
			c.log.Error().Err(clearErr).Msg("failed to roll back token after identity fetch failure")
		}
		return errors.Wrap(err, IdentityFetchFailsErr.Error())
	}

	c.settle(StateAuthenticated, user, org)
	c.log.Info().Str("email", user.Email).Msg("authenticated")
	return nil
}

// Logout clears the token and settles on StateUnauthenticated. It never
// fails: a store error is logged and the in-process session ends regardless.
func (c *Controller) Logout() {
	if err := c.tokens.Clear(); err != nil {
		c.log.Error().Err(err).Msg("failed to clear token on logout")
	}
	c.settle(StateUnauthenticated, nil, nil)
	c.log.Info().Msg("logged out")
}

// HandleSessionExpired is the subscription point for the access layer's
// expiry signal. The access layer has already cleared the token; this drops
// the derived identity and forces StateUnauthenticated.
func (c *Controller) HandleSessionExpired() {
	c.settle(StateUnauthenticated, nil, nil)
	c.log.Info().Msg("session expired, forced unauthenticated")
}

func (c *Controller) fetchIdentity(ctx context.Context) (*api.User, *api.Organization, error) {
	user, err := c.backend.Me(ctx)
	if err != nil {
		return nil, nil, errors.Wrap(err, "[Controller.fetchIdentity] Me")
	}
	org, err := c.backend.Org(ctx)
	if err != nil {
		return nil, nil, errors.Wrap(err, "[Controller.fetchIdentity] Org")
	}
	return user, org, nil
}

func (c *Controller) settle(state State, user *api.User, org *api.Organization) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.state = state
	c.user = user
	c.org = org
}
