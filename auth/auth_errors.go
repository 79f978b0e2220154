package auth

import "errors"

var (
	IdentityFetchFailsErr = errors.New("identity fetch failed")
)
