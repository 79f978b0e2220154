// Package session holds the bearer token issued at login or registration.
// The token is opaque to the client: it is stored, attached to outgoing
// requests, and cleared, never verified locally. Absence of a token means
// the process is unauthenticated.
package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

// Repo is the session token repository. Get returns the empty string when no
// token is stored; that is the unauthenticated state, not an error.
// Implementations must be safe for concurrent use: login, logout, and the
// access layer's forced-expiry path all mutate through it.
type Repo interface {
	Get() (string, error)
	Set(token string) error
	Clear() error
}

// Expiry reads the exp claim out of a bearer token without verifying the
// signature. The backend is the authority on token validity; this is only a
// hint for display and logging. Returns an error for tokens that are not
// JWTs or carry no expiry.
func Expiry(token string) (time.Time, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, errors.Wrap(err, "[session.Expiry] ParseUnverified")
	}
	exp, err := claims.GetExpirationTime()
	if err != nil {
		return time.Time{}, errors.Wrap(err, "[session.Expiry] GetExpirationTime")
	}
	if exp == nil {
		return time.Time{}, errors.New("[session.Expiry] token has no exp claim")
	}
	return exp.Time, nil
}
