// Package app contains the application services that sit between the HTTP
// layer and the domain. Services do I/O through ports; decisions are made
// by pure domain functions.
package app

import "errors"

var (
	// ErrNotFound means the requested entity does not exist. Handlers map
	// this to 404 so an unknown code is never confused with a locked one.
	ErrNotFound = errors.New("not found")

	// ErrUnauthenticated means the operation requires a signed-in user.
	ErrUnauthenticated = errors.New("authentication required")

	// ErrSubscriptionRequired means the operation requires an active
	// subscription.
	ErrSubscriptionRequired = errors.New("subscription required")

	// ErrInvalidCredentials is returned on a failed login. Deliberately
	// the same for unknown email and wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrEmailTaken is returned when registering an already-used email.
	ErrEmailTaken = errors.New("email already registered")

	// ErrValidatorUnavailable means the external validation service failed;
	// distinct from a gate denial so clients can retry.
	ErrValidatorUnavailable = errors.New("validation service unavailable")
)
