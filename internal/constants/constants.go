// Package constants centralizes timeouts, retry tuning, and platform
// defaults shared across the client.
package constants

import "time"

// HTTP and network timeouts.
const (
	// DefaultRequestTimeout is the default timeout for one HTTP exchange.
	DefaultRequestTimeout = 30 * time.Second
)

// Transport retry tuning for transient failures.
const (
	// DefaultRetryMax is the default maximum number of transport retries.
	DefaultRetryMax = 3

	// DefaultRetryWaitMin is the minimum wait between transport retries.
	DefaultRetryWaitMin = 1 * time.Second

	// DefaultRetryWaitMax is the maximum wait between transport retries.
	DefaultRetryWaitMax = 10 * time.Second
)

// Action task polling.
const (
	// DefaultPollInterval is the fixed interval between task status checks.
	DefaultPollInterval = 2 * time.Second

	// DefaultPollTimeout bounds the total time spent waiting for a task to
	// reach a terminal state.
	DefaultPollTimeout = 30 * time.Second
)

// Platform defaults.
const (
	// DefaultCertPort is the repository service port for mutual-TLS access.
	DefaultCertPort = 4242

	// DefaultProxyPort is the proxy port for domain-credential access.
	DefaultProxyPort = 443

	// DefaultUserDirectory is the impersonation directory used with
	// certificate authentication when none is configured.
	DefaultUserDirectory = "internal"

	// DefaultUserID is the impersonation account used with certificate
	// authentication when none is configured.
	DefaultUserID = "sa_repository"

	// XrfKeyLength is the length of the antiforgery key the platform
	// requires on every request.
	XrfKeyLength = 16
)
