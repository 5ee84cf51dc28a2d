package qrs

import (
	"fmt"
	"time"
)

// ConcurrencyPolicy selects how Update handles concurrent modification.
type ConcurrencyPolicy string

const (
	// ConcurrencyOptimistic sends the modification timestamp captured at
	// fetch time; the platform rejects the update with a conflict when the
	// resource changed in between.
	ConcurrencyOptimistic ConcurrencyPolicy = "optimistic"

	// ConcurrencyLastWriteWins stamps the modification timestamp at send
	// time so the update always applies.
	ConcurrencyLastWriteWins ConcurrencyPolicy = "last-write-wins"
)

// Config represents client configuration for building a repository service
// client.
//
// # Authentication
//
// Exactly one credential mode must be configured:
//   - Certificate: path to the client certificate PEM exported by the
//     platform. The private key is expected next to it with a _key suffix
//     (client.pem / client_key.pem). UserDirectory/UserID select the account
//     to impersonate and default to the internal repository account.
//   - Domain + Username + Password: domain credentials for the NTLM
//     challenge/response exchange through the platform proxy.
type Config struct {
	Host   string
	Port   int
	Scheme string

	// Certificate credential mode.
	Certificate   string
	UserDirectory string
	UserID        string

	// Domain credential mode.
	Domain   string
	Username string
	Password string

	SkipTLSVerify bool

	RequestTimeout time.Duration
	PollInterval   time.Duration
	PollTimeout    time.Duration

	// Transport retry tuning for transient failures.
	RetryMax     int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration

	Concurrency ConcurrencyPolicy

	UserAgent string
	Logger    Logger
}

// BaseURL returns the scheme://host:port prefix for all requests.
func (c *Config) BaseURL() string {
	scheme := c.Scheme
	if scheme == "" {
		scheme = "https"
	}

	if c.Port > 0 {
		return fmt.Sprintf("%s://%s:%d", scheme, c.Host, c.Port)
	}

	return fmt.Sprintf("%s://%s", scheme, c.Host)
}
