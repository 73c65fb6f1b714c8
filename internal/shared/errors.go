package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrResolutionUnavailable indicates the backing store could not be read
	// during an authorization check. Callers must treat it as "could not
	// decide" and fail closed, never as an ordinary denial.
	ErrResolutionUnavailable = errors.New("authorization resolution unavailable")
	// ErrDuplicateGrant indicates a second active super-plan grant was
	// attempted for a company that already holds one.
	ErrDuplicateGrant = errors.New("duplicate active grant for company")
	// ErrUnauthorized indicates a request without a valid session token.
	ErrUnauthorized = errors.New("unauthorized")
)
