// Package client implements the repository interfaces declared in pkg/qrs
// over one shared Session: a generic CRUD core, typed per-resource clients,
// and the polling loop behind asynchronous actions.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/tidwall/gjson"

	"github.com/senseops-io/qrs-client/internal/constants"
	"github.com/senseops-io/qrs-client/pkg/qrs"
)

// core bundles what every typed client needs: the session, the concurrency
// policy, the clock, and the logger.
type core struct {
	session qrs.Session
	policy  qrs.ConcurrencyPolicy
	log     qrs.Logger
	clock   clock.Clock
	poller  *TaskPoller
}

func (c *core) now() time.Time { return c.clock.Now() }

// fetch performs one request and maps non-2xx statuses to typed errors. The
// kind and id feed the error messages; id may be empty for collection
// operations.
func (c *core) fetch(ctx context.Context, method, path string, query url.Values, body interface{}, kind, id string) ([]byte, error) {
	resp, err := c.session.Do(ctx, &qrs.Request{Method: method, Path: path, Query: query, Body: body})
	if err != nil {
		return nil, err
	}

	if err := errorFromStatus(method+" "+path, kind, id, resp); err != nil {
		return nil, err
	}

	return resp.Body, nil
}

// errorFromStatus maps the platform's failure statuses onto the typed error
// taxonomy. Authentication statuses never reach here; the session resolves
// them before returning.
func errorFromStatus(op, kind, id string, resp *qrs.Response) error {
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusNotFound:
		return &qrs.NotFoundError{Kind: kind, ID: id}
	case resp.StatusCode == http.StatusConflict:
		return &qrs.ConflictError{Kind: kind, Detail: bodyMessage(resp.Body)}
	case resp.StatusCode == http.StatusBadRequest:
		return &qrs.ValidationError{Kind: kind, Detail: bodyMessage(resp.Body), Remote: true}
	default:
		return &qrs.TransportError{
			Op:  op,
			Err: fmt.Errorf("server returned status %d: %s", resp.StatusCode, bodyMessage(resp.Body)),
		}
	}
}

// bodyMessage pulls the human-readable message out of a platform error
// payload, falling back to the raw body.
func bodyMessage(body []byte) string {
	if msg := gjson.GetBytes(body, "message"); msg.Exists() {
		return msg.String()
	}

	return string(body)
}

// Client is the concrete qrs.Client over one authenticated session.
type Client struct {
	core             *core
	apps             *AppsClient
	streams          *StreamsClient
	users            *UsersClient
	customProperties *CustomPropertiesClient
	tags             *TagsClient
}

// New wires the typed resource clients over the session. The clock is
// injectable for tests; pass clock.New() in production.
func New(cfg *qrs.Config, session qrs.Session, clk clock.Clock) *Client {
	log := cfg.Logger
	if log == nil {
		log = qrs.NoopLogger()
	}

	if clk == nil {
		clk = clock.New()
	}

	interval := cfg.PollInterval
	if interval <= 0 {
		interval = constants.DefaultPollInterval
	}

	timeout := cfg.PollTimeout
	if timeout <= 0 {
		timeout = constants.DefaultPollTimeout
	}

	c := &core{
		session: session,
		policy:  cfg.Concurrency,
		log:     log,
		clock:   clk,
	}
	c.poller = &TaskPoller{core: c, interval: interval, timeout: timeout}

	return &Client{
		core:             c,
		apps:             newAppsClient(c),
		streams:          newStreamsClient(c),
		users:            newUsersClient(c),
		customProperties: newCustomPropertiesClient(c),
		tags:             newTagsClient(c),
	}
}

// Apps returns the apps repository.
func (c *Client) Apps() qrs.AppsRepository { return c.apps }

// Streams returns the streams repository.
func (c *Client) Streams() qrs.StreamsRepository { return c.streams }

// Users returns the users repository.
func (c *Client) Users() qrs.UsersRepository { return c.users }

// CustomProperties returns the custom property definitions repository.
func (c *Client) CustomProperties() qrs.CustomPropertiesRepository { return c.customProperties }

// Tags returns the tags repository.
func (c *Client) Tags() qrs.TagsRepository { return c.tags }

// About fetches build information from the handshake endpoint.
func (c *Client) About(ctx context.Context) (*qrs.About, error) {
	body, err := c.core.fetch(ctx, http.MethodGet, "/qrs/about", nil, nil, "about", "")
	if err != nil {
		return nil, err
	}

	about := &qrs.About{}
	if err := json.Unmarshal(body, about); err != nil {
		return nil, fmt.Errorf("decoding about: %w", err)
	}

	return about, nil
}

// UnitOfWork starts an empty change tracker over this client's repositories.
func (c *Client) UnitOfWork() *qrs.UnitOfWork {
	return qrs.NewUnitOfWork(c.core.log)
}
