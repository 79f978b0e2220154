package session_test

import (
	"testing"
	"time"

	"github.com/Tabo-ecom/grandline-go/session"
	fakesessionrepo "github.com/Tabo-ecom/grandline-go/session/repofakes"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestFakeRepoRoundTrip(t *testing.T) {
	repo := fakesessionrepo.NewFakeSessionRepo()

	token, err := repo.Get()
	require.NoError(t, err)
	require.Empty(t, token)

	require.NoError(t, repo.Set("token-1"))
	token, err = repo.Get()
	require.NoError(t, err)
	require.Equal(t, "token-1", token)

	require.NoError(t, repo.Clear())
	token, err = repo.Get()
	require.NoError(t, err)
	require.Empty(t, token)
}

func TestExpiryReadsExpClaim(t *testing.T) {
	expiresAt := time.Now().Add(2 * time.Hour).Truncate(time.Second)
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user-1",
		"exp": expiresAt.Unix(),
	}).SignedString([]byte("backend-only-secret"))
	require.NoError(t, err)

	got, err := session.Expiry(signed)
	require.NoError(t, err)
	require.True(t, got.Equal(expiresAt))
}

func TestExpiryRejectsOpaqueToken(t *testing.T) {
	_, err := session.Expiry("not-a-jwt")
	require.Error(t, err)
}

func TestExpiryRejectsTokenWithoutExp(t *testing.T) {
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user-1",
	}).SignedString([]byte("backend-only-secret"))
	require.NoError(t, err)

	_, err = session.Expiry(signed)
	require.Error(t, err)
}
