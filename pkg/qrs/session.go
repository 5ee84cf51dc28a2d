package qrs

import (
	"context"
	"net/http"
	"net/url"
)

// Request describes one call against the repository service.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	// Body is JSON-encoded when non-nil. []byte and json.RawMessage values
	// are sent as-is.
	Body interface{}
	// ContentType overrides the application/json default for binary bodies.
	ContentType string
}

// Response is the decoded result of one call.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Session owns one authenticated channel to the platform. Implementations
// differ in handshake (mutual TLS vs. domain challenge/response) but share
// this contract; callers never branch on the variant.
//
// Authentication is established lazily on the first Do and cached for the
// Session's lifetime. Every request carries the current antiforgery token and
// cookies; a response may rotate the token, and the Session must use the
// rotated value from then on. A Session is not safe for concurrent use from
// multiple goroutines.
type Session interface {
	// Authenticate establishes the channel eagerly. It fails with AuthError
	// on bad credential material or rejected credentials, and with
	// TransportError when the host is unreachable.
	Authenticate(ctx context.Context) error

	// Do sends one request, re-authenticating once if the server signals
	// the session is no longer valid. It fails with AuthExpiredError when
	// the retry is rejected again, and with TransportError on network
	// failure. Non-2xx statuses are returned in Response, not as errors.
	Do(ctx context.Context, req *Request) (*Response, error)
}
