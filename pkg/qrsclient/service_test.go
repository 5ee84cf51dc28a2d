package qrsclient

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/senseops-io/qrs-client/internal/client"
	"github.com/senseops-io/qrs-client/pkg/qrs"
)

type stubSession struct {
	server *httptest.Server
}

func (s *stubSession) Authenticate(_ context.Context) error { return nil }

func (s *stubSession) Do(ctx context.Context, req *qrs.Request) (*qrs.Response, error) {
	target := s.server.URL + req.Path
	if req.Query != nil {
		target += "?" + req.Query.Encode()
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, nil)
	if err != nil {
		return nil, err
	}

	httpResp, err := s.server.Client().Do(httpReq)
	if err != nil {
		return nil, &qrs.TransportError{Op: req.Method + " " + req.Path, Err: err}
	}
	defer func() { _ = httpResp.Body.Close() }()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, err
	}

	return &qrs.Response{StatusCode: httpResp.StatusCode, Header: httpResp.Header, Body: body}, nil
}

func newTestService(t *testing.T, handler http.Handler) *Service {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewService(client.New(&qrs.Config{}, &stubSession{server: server}, nil))
}

const salesAppID = "11111111-2222-3333-4444-555555555555"

func TestServiceGetAppByName(t *testing.T) {
	svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/qrs/app":
			assert.Equal(t, "name eq 'Sales' and stream.name eq 'Finance'", r.URL.Query().Get("filter"))
			_, _ = w.Write([]byte(`[{"id":"` + salesAppID + `","name":"Sales"}]`))
		case "/qrs/app/" + salesAppID:
			_, _ = w.Write([]byte(`{"id":"` + salesAppID + `","name":"Sales","description":"Quarterly sales"}`))
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))

	app, err := svc.GetAppByName(context.Background(), "Sales", "Finance")
	require.NoError(t, err)
	assert.Equal(t, salesAppID, app.ID)
	assert.Equal(t, "Quarterly sales", app.Description)
}

func TestServiceGetAppByNameNoMatch(t *testing.T) {
	svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))

	_, err := svc.GetAppByName(context.Background(), "Missing", "")
	require.Error(t, err)
	assert.True(t, qrs.IsNotFound(err))
}

func TestServiceReloadAppByName(t *testing.T) {
	var reloaded bool

	svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/qrs/app":
			_, _ = w.Write([]byte(`[{"id":"` + salesAppID + `","name":"Sales"}]`))
		case "/qrs/app/" + salesAppID:
			_, _ = w.Write([]byte(`{"id":"` + salesAppID + `","name":"Sales"}`))
		case "/qrs/app/" + salesAppID + "/reload":
			reloaded = true
			w.WriteHeader(http.StatusNoContent)
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))

	require.NoError(t, svc.ReloadAppByName(context.Background(), "Sales", ""))
	assert.True(t, reloaded)
}

func TestServicePublishAppByName(t *testing.T) {
	streamID := "aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee"

	svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/qrs/app":
			_, _ = w.Write([]byte(`[{"id":"` + salesAppID + `","name":"Sales"}]`))
		case "/qrs/app/" + salesAppID:
			_, _ = w.Write([]byte(`{"id":"` + salesAppID + `","name":"Sales"}`))
		case "/qrs/stream":
			_, _ = w.Write([]byte(`[{"id":"` + streamID + `","name":"Finance"}]`))
		case "/qrs/stream/" + streamID:
			_, _ = w.Write([]byte(`{"id":"` + streamID + `","name":"Finance"}`))
		case "/qrs/app/" + salesAppID + "/publish":
			assert.Equal(t, streamID, r.URL.Query().Get("stream"))
			_, _ = w.Write([]byte(`{"id":"` + salesAppID + `","name":"Sales","published":true}`))
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))

	app, err := svc.PublishAppByName(context.Background(), "Sales", "Finance")
	require.NoError(t, err)
	assert.True(t, app.Published)
}
