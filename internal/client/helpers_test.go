package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/require"

	"github.com/senseops-io/qrs-client/pkg/qrs"
)

// testSession satisfies qrs.Session against an httptest server, bypassing
// the real authentication variants.
type testSession struct {
	server *httptest.Server
}

func (s *testSession) Authenticate(_ context.Context) error { return nil }

func (s *testSession) Do(ctx context.Context, req *qrs.Request) (*qrs.Response, error) {
	target := s.server.URL + req.Path
	if req.Query != nil {
		target += "?" + req.Query.Encode()
	}

	var body io.Reader

	switch v := req.Body.(type) {
	case nil:
	case []byte:
		body = bytes.NewReader(v)
	case json.RawMessage:
		body = bytes.NewReader(v)
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}

		body = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, err
	}

	if req.ContentType != "" {
		httpReq.Header.Set("Content-Type", req.ContentType)
	}

	httpResp, err := s.server.Client().Do(httpReq)
	if err != nil {
		return nil, &qrs.TransportError{Op: req.Method + " " + req.Path, Err: err}
	}
	defer func() { _ = httpResp.Body.Close() }()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, err
	}

	return &qrs.Response{StatusCode: httpResp.StatusCode, Header: httpResp.Header, Body: respBody}, nil
}

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()

	return newTestClientWith(t, handler, &qrs.Config{}, clock.New())
}

func newTestClientWith(t *testing.T, handler http.Handler, cfg *qrs.Config, clk clock.Clock) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	require.NotNil(t, cfg)

	return New(cfg, &testSession{server: server}, clk)
}
