package service

import "errors"

var (
	ErrInvalidInput = errors.New("invalid input")

	// ErrRateLimited means too many codes were issued for the same
	// (email, purpose) inside the throttle window.
	ErrRateLimited = errors.New("too many requests, try again later")

	// ErrIssuanceFailed means the issuer exhausted its retries on code
	// collisions. Frequent occurrences indicate code-space exhaustion.
	ErrIssuanceFailed = errors.New("code issuance failed")

	// ErrAuthenticationFailed covers every validation failure: wrong code,
	// expired, already used, unknown email. Callers must not be able to tell
	// the causes apart.
	ErrAuthenticationFailed = errors.New("invalid or expired code")

	ErrUserNotFound = errors.New("user not found")
)
