package qrs

import (
	"errors"
	"fmt"
	"time"
)

// Common static errors that can be wrapped with context.
var (
	ErrConfigRequired       = errors.New("config is required")
	ErrHostRequired         = errors.New("host is required")
	ErrNoCredentials        = errors.New("no credentials configured: provide a certificate or domain credentials")
	ErrMissingIdentifier    = errors.New("entity has no identifier")
	ErrEntityAlreadyTracked = errors.New("entity is already tracked by the unit of work")
	ErrEntityMarkedRemoved  = errors.New("entity is marked for removal")
	ErrTaskFailed           = errors.New("task finished with failure")
)

// AuthError indicates that authentication could not be established: bad or
// missing credential material, or the handshake endpoint rejected the
// credentials. The Session is unusable until a new Authenticate succeeds.
type AuthError struct {
	Reason string
	Err    error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("authentication failed: %s: %v", e.Reason, e.Err)
	}

	return "authentication failed: " + e.Reason
}

func (e *AuthError) Unwrap() error { return e.Err }

// AuthExpiredError indicates the server no longer accepts an established
// session. The Session retries authentication once on its own; this error
// surfaces only when the retry also fails.
type AuthExpiredError struct {
	StatusCode int
}

func (e *AuthExpiredError) Error() string {
	return fmt.Sprintf("session no longer valid (status %d)", e.StatusCode)
}

// TransportError indicates a network-level failure: connection refused, DNS
// failure, timeout, or a server-side 5xx that survived transport retries.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transport failure during %s: %v", e.Op, e.Err)
	}

	return "transport failure during " + e.Op
}

func (e *TransportError) Unwrap() error { return e.Err }

// NotFoundError indicates the platform reported that the resource does not
// exist.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

// ConflictError indicates a uniqueness violation or an optimistic-concurrency
// mismatch reported by the platform.
type ConflictError struct {
	Kind   string
	Detail string
}

func (e *ConflictError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("conflict on %s: %s", e.Kind, e.Detail)
	}

	return "conflict on " + e.Kind
}

// ValidationError indicates an entity failed validation. Remote reports
// whether the platform rejected the payload (the request was sent) or the
// entity failed local validation before any network call was made.
type ValidationError struct {
	Kind   string
	Field  string
	Detail string
	Remote bool
}

func (e *ValidationError) Error() string {
	origin := "local"
	if e.Remote {
		origin = "server"
	}

	if e.Field != "" {
		return fmt.Sprintf("%s validation failed for %s field %q: %s", origin, e.Kind, e.Field, e.Detail)
	}

	return fmt.Sprintf("%s validation failed for %s: %s", origin, e.Kind, e.Detail)
}

// TimeoutError indicates that an action's task did not reach a terminal state
// before the polling deadline. The task may still complete on the platform
// side; callers must re-query to learn the outcome.
type TimeoutError struct {
	Action  string
	TaskID  string
	Elapsed time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("action %q (task %s) did not complete within %s", e.Action, e.TaskID, e.Elapsed)
}

// IsAuth checks if the error is an authentication error.
func IsAuth(err error) bool {
	authErr := &AuthError{}

	return errors.As(err, &authErr)
}

// IsAuthExpired checks if the error reports an invalidated session.
func IsAuthExpired(err error) bool {
	expErr := &AuthExpiredError{}

	return errors.As(err, &expErr)
}

// IsTransport checks if the error is a network-level failure.
func IsTransport(err error) bool {
	transportErr := &TransportError{}

	return errors.As(err, &transportErr)
}

// IsNotFound checks if the error is a not found error.
func IsNotFound(err error) bool {
	nfErr := &NotFoundError{}

	return errors.As(err, &nfErr)
}

// IsConflict checks if the error is a conflict error.
func IsConflict(err error) bool {
	conflictErr := &ConflictError{}

	return errors.As(err, &conflictErr)
}

// IsValidation checks if the error is a validation error, local or remote.
func IsValidation(err error) bool {
	valErr := &ValidationError{}

	return errors.As(err, &valErr)
}

// IsRemoteValidation checks if the error is a validation failure reported by
// the platform, as opposed to one raised before the request was sent.
func IsRemoteValidation(err error) bool {
	valErr := &ValidationError{}
	if errors.As(err, &valErr) {
		return valErr.Remote
	}

	return false
}

// IsTimeout checks if the error is an action polling timeout.
func IsTimeout(err error) bool {
	timeoutErr := &TimeoutError{}

	return errors.As(err, &timeoutErr)
}
