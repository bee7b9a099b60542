package common

import "errors"

// Standard application-level errors. Repositories and the Schwab gateway wrap
// underlying failures with these sentinels; the HTTP layer maps them onto
// status codes.
var (
	// ErrNotConfigured means Schwab credentials are missing or malformed.
	ErrNotConfigured = errors.New("schwab api credentials not configured")

	// ErrNotInitialized means the gateway client has not been built yet.
	ErrNotInitialized = errors.New("schwab client not initialized")

	// ErrNotAuthenticated means no valid token is available for the call.
	ErrNotAuthenticated = errors.New("not authenticated with schwab api")

	// ErrGateway wraps vendor call failures (network or non-2xx status).
	ErrGateway = errors.New("schwab api call failed")

	// ErrNotFound means no matching row exists.
	ErrNotFound = errors.New("resource not found")

	// ErrValidation means the request input is malformed.
	ErrValidation = errors.New("invalid request")
)
