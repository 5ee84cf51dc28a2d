// Package session implements the two authenticated-session variants against
// the repository service: mutual TLS with a client certificate pair, and
// NTLM domain credentials through the platform proxy. Both satisfy
// qrs.Session; callers never branch on the variant.
package session

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/senseops-io/qrs-client/internal/constants"
	"github.com/senseops-io/qrs-client/pkg/qrs"
)

// xrfKeyHeader carries the antiforgery token; the same value rides along as
// the Xrfkey query parameter on every request.
const (
	xrfKeyHeader = "X-Qlik-Xrfkey"
	xrfKeyParam  = "Xrfkey"
	userHeader   = "X-Qlik-User"
)

type authenticator interface {
	Authenticate(ctx context.Context) error
}

// base carries the plumbing shared by both variants: antiforgery key
// handling, cookie persistence, token rotation, and the single
// re-authentication retry on an invalidated session.
type base struct {
	cfg         *qrs.Config
	baseURL     string
	httpClient  *http.Client
	xrfKey      string
	userAgent   string
	impersonate string
	basicUser   string
	basicPass   string
	authed      bool
	auth        authenticator
	log         qrs.Logger
}

func (b *base) init(cfg *qrs.Config) {
	b.cfg = cfg
	b.baseURL = cfg.BaseURL()
	b.xrfKey = newXrfKey()
	b.userAgent = cfg.UserAgent

	if b.userAgent == "" {
		b.userAgent = "qrs-client"
	}

	b.log = cfg.Logger
	if b.log == nil {
		b.log = qrs.NoopLogger()
	}
}

// Do implements qrs.Session.Do. Authentication is established lazily on the
// first call and cached; a 401/403 on an established session triggers one
// re-authentication retry before surfacing AuthExpiredError.
func (b *base) Do(ctx context.Context, req *qrs.Request) (*qrs.Response, error) {
	if !b.authed {
		if err := b.auth.Authenticate(ctx); err != nil {
			return nil, err
		}
	}

	resp, err := b.send(ctx, req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusUnauthorized && resp.StatusCode != http.StatusForbidden {
		return resp, nil
	}

	b.log.Info("session no longer valid, re-authenticating", map[string]interface{}{
		"status": resp.StatusCode, "path": req.Path,
	})

	b.authed = false
	if err := b.auth.Authenticate(ctx); err != nil {
		return nil, err
	}

	resp, err = b.send(ctx, req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, &qrs.AuthExpiredError{StatusCode: resp.StatusCode}
	}

	return resp, nil
}

// send performs one HTTP exchange: antiforgery key as header and query
// parameter, cookies via the jar, and token rotation captured from the
// response.
func (b *base) send(ctx context.Context, req *qrs.Request) (*qrs.Response, error) {
	op := req.Method + " " + req.Path

	body, contentType, err := encodeBody(req.Body)
	if err != nil {
		return nil, fmt.Errorf("encoding request body for %s: %w", op, err)
	}

	// The caller may retain req.Query across calls; the antiforgery key goes
	// on a copy.
	query := url.Values{}
	for name, values := range req.Query {
		query[name] = append([]string(nil), values...)
	}

	query.Set(xrfKeyParam, b.xrfKey)

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, b.baseURL+req.Path+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("building request for %s: %w", op, err)
	}

	if body != nil {
		if req.ContentType != "" {
			contentType = req.ContentType
		}

		httpReq.Body = io.NopCloser(bytes.NewReader(body))
		httpReq.ContentLength = int64(len(body))
		httpReq.Header.Set("Content-Type", contentType)
	}

	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set(xrfKeyHeader, b.xrfKey)
	httpReq.Header.Set("User-Agent", b.userAgent)

	if b.impersonate != "" {
		httpReq.Header.Set(userHeader, b.impersonate)
	}

	if b.basicUser != "" {
		httpReq.SetBasicAuth(b.basicUser, b.basicPass)
	}

	b.log.Debug("sending request", map[string]interface{}{"method": req.Method, "path": req.Path})

	httpResp, err := b.httpClient.Do(httpReq)
	if err != nil {
		return nil, &qrs.TransportError{Op: op, Err: err}
	}
	defer func() { _ = httpResp.Body.Close() }()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, &qrs.TransportError{Op: op, Err: err}
	}

	if rotated := httpResp.Header.Get(xrfKeyHeader); rotated != "" && rotated != b.xrfKey {
		b.log.Debug("antiforgery token rotated", nil)
		b.xrfKey = rotated
	}

	b.log.Debug("response received", map[string]interface{}{
		"status": httpResp.StatusCode, "bytes": len(respBody),
	})

	return &qrs.Response{
		StatusCode: httpResp.StatusCode,
		Header:     httpResp.Header,
		Body:       respBody,
	}, nil
}

// handshake confirms the channel against the about endpoint. A network
// failure is a TransportError (unreachable host); a rejection is an
// AuthError (bad credentials).
func (b *base) handshake(ctx context.Context) error {
	resp, err := b.send(ctx, &qrs.Request{Method: http.MethodGet, Path: "/qrs/about"})
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &qrs.AuthError{Reason: fmt.Sprintf("handshake rejected with status %d", resp.StatusCode)}
	}

	b.authed = true
	b.log.Info("session authenticated", map[string]interface{}{"host": b.cfg.Host})

	return nil
}

// newHTTPClient wires the transport stack: variant round tripper at the
// bottom, transient-failure retries above it, cookie jar on top.
func (b *base) newHTTPClient(transport http.RoundTripper) *http.Client {
	retryClient := retryablehttp.NewClient()
	retryClient.Logger = nil
	retryClient.RetryMax = constants.DefaultRetryMax

	if b.cfg.RetryMax > 0 {
		retryClient.RetryMax = b.cfg.RetryMax
	}

	retryClient.RetryWaitMin = constants.DefaultRetryWaitMin
	retryClient.RetryWaitMax = constants.DefaultRetryWaitMax

	if b.cfg.RetryWaitMin > 0 {
		retryClient.RetryWaitMin = b.cfg.RetryWaitMin
	}

	if b.cfg.RetryWaitMax > 0 {
		retryClient.RetryWaitMax = b.cfg.RetryWaitMax
	}

	timeout := constants.DefaultRequestTimeout
	if b.cfg.RequestTimeout > 0 {
		timeout = b.cfg.RequestTimeout
	}

	retryClient.HTTPClient = &http.Client{Transport: transport, Timeout: timeout}

	jar, _ := cookiejar.New(nil)

	client := retryClient.StandardClient()
	client.Jar = jar

	return client
}

func encodeBody(body interface{}) ([]byte, string, error) {
	switch v := body.(type) {
	case nil:
		return nil, "", nil
	case []byte:
		return v, "application/json", nil
	case json.RawMessage:
		return v, "application/json", nil
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return nil, "", err
		}

		return data, "application/json", nil
	}
}

const xrfKeyAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// newXrfKey generates the 16-character antiforgery key the platform expects
// on every request until the server rotates it.
func newXrfKey() string {
	buf := make([]byte, constants.XrfKeyLength)
	_, _ = rand.Read(buf)

	for i, b := range buf {
		buf[i] = xrfKeyAlphabet[int(b)%len(xrfKeyAlphabet)]
	}

	return string(buf)
}
