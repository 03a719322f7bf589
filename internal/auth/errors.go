package auth

import "errors"

var (
	// ErrMissingToken means no bearer token was presented.
	ErrMissingToken = errors.New("missing token")
	// ErrInvalidToken covers malformed tokens, bad signatures and unexpected algorithms.
	ErrInvalidToken = errors.New("invalid token")
	// ErrTokenExpired means the token signature is fine but its lifetime has passed.
	ErrTokenExpired = errors.New("token expired")
)
