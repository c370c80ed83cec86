// Package auth provides JWT token issuance/validation and password hashing.
// It resolves "who is the caller" for the transport layer; role and active
// state are loaded from the user store per request so revocations take
// effect immediately.
package auth

import "errors"

// Common authentication service errors
var (
	// ErrInvalidToken indicates the token format is invalid or signature doesn't match
	ErrInvalidToken = errors.New("invalid authentication token")

	// ErrExpiredToken indicates the token has expired
	ErrExpiredToken = errors.New("authentication token has expired")

	// ErrInvalidRefreshToken indicates the refresh token format is invalid or signature doesn't match
	ErrInvalidRefreshToken = errors.New("invalid refresh token")

	// ErrExpiredRefreshToken indicates the refresh token has expired
	ErrExpiredRefreshToken = errors.New("refresh token has expired")

	// ErrWrongTokenType indicates a token was presented in the wrong context,
	// e.g. an access token offered as a refresh token
	ErrWrongTokenType = errors.New("wrong token type")

	// ErrInvalidCredentials indicates a login attempt with a bad email or password
	ErrInvalidCredentials = errors.New("invalid credentials")
)
