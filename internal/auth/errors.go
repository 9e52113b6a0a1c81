package auth

import "errors"

var (
	// ErrInvalidCredentials covers both unknown usernames and wrong
	// passwords so the response never reveals which one it was.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrInvalidGrant means the presented refresh token is not on record.
	ErrInvalidGrant = errors.New("invalid refresh token")

	ErrMissingHeader   = errors.New("missing authorization header")
	ErrMalformedHeader = errors.New("malformed authorization header")
	ErrInvalidToken    = errors.New("invalid token")
	ErrTokenExpired    = errors.New("token expired")
)
