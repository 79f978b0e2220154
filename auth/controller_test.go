package auth_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/Tabo-ecom/grandline-go/api"
	"github.com/Tabo-ecom/grandline-go/auth"
	fakesessionrepo "github.com/Tabo-ecom/grandline-go/session/repofakes"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

const (
	testEmail    = "nami@grandline.co"
	testPassword = "berries123"
	testToken    = "token-xyz"
)

var (
	testUser = &api.User{ID: 1, Email: testEmail, DisplayName: "Nami", Role: "admin"}
	testOrg  = &api.Organization{ID: 1, Name: "Grandline Store", MainCurrency: "COP"}
)

// fakeBackend satisfies auth.Backend with injectable behavior and call
// counting.
type fakeBackend struct {
	loginFn    func(ctx context.Context, email, password string) (string, error)
	registerFn func(ctx context.Context, form api.RegisterForm) (string, error)
	meFn       func(ctx context.Context) (*api.User, error)
	orgFn      func(ctx context.Context) (*api.Organization, error)
	calls      int
}

var _ auth.Backend = (*fakeBackend)(nil)

func (b *fakeBackend) Login(ctx context.Context, email, password string) (string, error) {
	b.calls++
	return b.loginFn(ctx, email, password)
}

func (b *fakeBackend) Register(ctx context.Context, form api.RegisterForm) (string, error) {
	b.calls++
	return b.registerFn(ctx, form)
}

func (b *fakeBackend) Me(ctx context.Context) (*api.User, error) {
	b.calls++
	return b.meFn(ctx)
}

func (b *fakeBackend) Org(ctx context.Context) (*api.Organization, error) {
	b.calls++
	return b.orgFn(ctx)
}

func healthyBackend() *fakeBackend {
	return &fakeBackend{
		loginFn: func(ctx context.Context, email, password string) (string, error) {
			if email == testEmail && password == testPassword {
				return testToken, nil
			}
			return "", &api.HTTPError{Status: http.StatusUnauthorized, Message: "Incorrect email or password"}
		},
		registerFn: func(ctx context.Context, form api.RegisterForm) (string, error) {
			return testToken, nil
		},
		meFn:  func(ctx context.Context) (*api.User, error) { return testUser, nil },
		orgFn: func(ctx context.Context) (*api.Organization, error) { return testOrg, nil },
	}
}

type testFixture struct {
	backend    *fakeBackend
	tokens     *fakesessionrepo.FakeSessionRepo
	controller *auth.Controller
}

func setupTestFixture(t *testing.T, backend *fakeBackend) *testFixture {
	t.Helper()

	tokens := fakesessionrepo.NewFakeSessionRepo()
	controller, err := auth.New(backend, tokens)
	require.NoError(t, err)

	return &testFixture{backend: backend, tokens: tokens, controller: controller}
}

func TestNewRequiresDependencies(t *testing.T) {
	_, err := auth.New(nil, fakesessionrepo.NewFakeSessionRepo())
	require.Error(t, err)

	_, err = auth.New(healthyBackend(), nil)
	require.Error(t, err)
}

func TestInitializeWithoutTokenSkipsNetwork(t *testing.T) {
	f := setupTestFixture(t, healthyBackend())

	require.NoError(t, f.controller.Initialize(context.Background()))
	require.Equal(t, auth.StateUnauthenticated, f.controller.State())
	require.Zero(t, f.backend.calls)

	_, _, ok := f.controller.Identity()
	require.False(t, ok)
}

func TestInitializeRestoresStoredSession(t *testing.T) {
	f := setupTestFixture(t, healthyBackend())
	require.NoError(t, f.tokens.Set(testToken))

	require.NoError(t, f.controller.Initialize(context.Background()))
	require.Equal(t, auth.StateAuthenticated, f.controller.State())

	user, org, ok := f.controller.Identity()
	require.True(t, ok)
	require.Equal(t, testUser, user)
	require.Equal(t, testOrg, org)
}

func TestInitializeClearsRejectedToken(t *testing.T) {
	backend := healthyBackend()
	backend.meFn = func(ctx context.Context) (*api.User, error) {
		return nil, api.ErrSessionExpired
	}
	f := setupTestFixture(t, backend)
	require.NoError(t, f.tokens.Set("stale-token"))

	require.NoError(t, f.controller.Initialize(context.Background()))
	require.Equal(t, auth.StateUnauthenticated, f.controller.State())

	token, err := f.tokens.Get()
	require.NoError(t, err)
	require.Empty(t, token)
}

func TestInitializeTwiceDoesNotCorruptState(t *testing.T) {
	f := setupTestFixture(t, healthyBackend())
	require.NoError(t, f.tokens.Set(testToken))

	require.NoError(t, f.controller.Initialize(context.Background()))
	callsAfterFirst := f.backend.calls

	require.NoError(t, f.controller.Initialize(context.Background()))
	require.Equal(t, auth.StateAuthenticated, f.controller.State())
	require.Equal(t, callsAfterFirst, f.backend.calls)
}

func TestLoginStoresTokenAndIdentity(t *testing.T) {
	f := setupTestFixture(t, healthyBackend())
	require.NoError(t, f.controller.Initialize(context.Background()))

	require.NoError(t, f.controller.Login(context.Background(), testEmail, testPassword))
	require.Equal(t, auth.StateAuthenticated, f.controller.State())

	token, err := f.tokens.Get()
	require.NoError(t, err)
	require.Equal(t, testToken, token)

	user, org, ok := f.controller.Identity()
	require.True(t, ok)
	require.Equal(t, testEmail, user.Email)
	require.Equal(t, "COP", org.MainCurrency)
}

func TestLoginRejectionIsVerbatimAndStoresNothing(t *testing.T) {
	f := setupTestFixture(t, healthyBackend())
	require.NoError(t, f.controller.Initialize(context.Background()))

	err := f.controller.Login(context.Background(), testEmail, "wrong")
	var httpErr *api.HTTPError
	require.ErrorAs(t, err, &httpErr)
	require.Equal(t, "Incorrect email or password", httpErr.Message)

	require.Equal(t, auth.StateUnauthenticated, f.controller.State())
	token, repoErr := f.tokens.Get()
	require.NoError(t, repoErr)
	require.Empty(t, token)
}

func TestLoginRollsBackTokenWhenIdentityFetchFails(t *testing.T) {
	backend := healthyBackend()
	backend.orgFn = func(ctx context.Context) (*api.Organization, error) {
		return nil, errors.New("org endpoint down")
	}
	f := setupTestFixture(t, backend)
	require.NoError(t, f.controller.Initialize(context.Background()))

	err := f.controller.Login(context.Background(), testEmail, testPassword)
	require.Error(t, err)
	require.NotEqual(t, auth.StateAuthenticated, f.controller.State())

	// Atomicity: the token stored after the credential exchange is gone.
	token, repoErr := f.tokens.Get()
	require.NoError(t, repoErr)
	require.Empty(t, token)
}

func TestRegisterFollowsLoginContract(t *testing.T) {
	f := setupTestFixture(t, healthyBackend())
	require.NoError(t, f.controller.Initialize(context.Background()))

	form := api.RegisterForm{
		Email:        testEmail,
		Password:     testPassword,
		DisplayName:  "Nami",
		OrgName:      "Grandline Store",
		MainCurrency: "COP",
	}
	require.NoError(t, f.controller.Register(context.Background(), form))
	require.Equal(t, auth.StateAuthenticated, f.controller.State())

	token, err := f.tokens.Get()
	require.NoError(t, err)
	require.Equal(t, testToken, token)
}

func TestLogoutNeverFails(t *testing.T) {
	f := setupTestFixture(t, healthyBackend())
	require.NoError(t, f.tokens.Set(testToken))
	require.NoError(t, f.controller.Initialize(context.Background()))
	require.Equal(t, auth.StateAuthenticated, f.controller.State())

	f.controller.Logout()
	require.Equal(t, auth.StateUnauthenticated, f.controller.State())

	token, err := f.tokens.Get()
	require.NoError(t, err)
	require.Empty(t, token)

	_, _, ok := f.controller.Identity()
	require.False(t, ok)

	// Logging out while already logged out is harmless.
	f.controller.Logout()
	require.Equal(t, auth.StateUnauthenticated, f.controller.State())
}

func TestHandleSessionExpiredForcesUnauthenticated(t *testing.T) {
	f := setupTestFixture(t, healthyBackend())
	require.NoError(t, f.tokens.Set(testToken))
	require.NoError(t, f.controller.Initialize(context.Background()))
	require.Equal(t, auth.StateAuthenticated, f.controller.State())

	f.controller.HandleSessionExpired()
	require.Equal(t, auth.StateUnauthenticated, f.controller.State())

	_, _, ok := f.controller.Identity()
	require.False(t, ok)
}
