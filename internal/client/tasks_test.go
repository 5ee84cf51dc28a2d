package client

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/senseops-io/qrs-client/pkg/qrs"
)

func TestTaskPollerTimeout(t *testing.T) {
	mock := clock.NewMock()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/qrs/task/") {
			_, _ = w.Write([]byte(`{"id":"task-1","status":"Running"}`))

			return
		}

		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte(`{"value":"task-1"}`))
	})

	c := newTestClientWith(t, handler, &qrs.Config{}, mock)

	done := make(chan error, 1)
	go func() { done <- c.Apps().Reload(context.Background(), appID) }()

	// Default deadline is 30s with a 2s interval; drive the clock past it.
	// Extra advances are harmless once the poller has given up.
	for i := 0; i < 25; i++ {
		time.Sleep(10 * time.Millisecond)
		mock.Add(2 * time.Second)
	}

	err := <-done
	require.Error(t, err)
	assert.True(t, qrs.IsTimeout(err))

	var timeout *qrs.TimeoutError
	require.ErrorAs(t, err, &timeout)
	assert.Equal(t, "reload", timeout.Action)
	assert.Equal(t, "task-1", timeout.TaskID)
	assert.GreaterOrEqual(t, timeout.Elapsed, 30*time.Second)
}

func TestTaskPollerContextCancelled(t *testing.T) {
	mock := clock.NewMock()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/qrs/task/") {
			_, _ = w.Write([]byte(`{"id":"task-1","status":"Running"}`))

			return
		}

		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte(`{"value":"task-1"}`))
	})

	c := newTestClientWith(t, handler, &qrs.Config{}, mock)

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- c.Apps().Reload(ctx, appID) }()

	time.Sleep(10 * time.Millisecond)
	cancel()

	err := <-done
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTaskPollerAbortedTask(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/qrs/task/") {
			_, _ = w.Write([]byte(`{"id":"task-1","status":"Aborted"}`))

			return
		}

		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte(`{"value":"task-1"}`))
	}))

	err := c.Apps().Reload(context.Background(), appID)
	require.Error(t, err)
	assert.ErrorIs(t, err, qrs.ErrTaskFailed)
	assert.Contains(t, err.Error(), "Aborted")
}
