package client

import (
	"context"

	"github.com/senseops-io/qrs-client/pkg/qrs"
)

// StreamsClient implements qrs.StreamsRepository.
type StreamsClient struct {
	*Repository[*qrs.Stream]
}

func newStreamsClient(c *core) *StreamsClient {
	return &StreamsClient{
		Repository: newRepository(c, "/qrs/stream", "stream", func() *qrs.Stream { return &qrs.Stream{} }),
	}
}

// List fetches the condensed attribution of every matching stream.
func (c *StreamsClient) List(ctx context.Context, params *qrs.QueryParams) ([]qrs.StreamCondensed, error) {
	return listCondensed[qrs.StreamCondensed](ctx, c.core, c.basePath, c.kind, params)
}

// ListFull fetches the full attribution of every matching stream.
func (c *StreamsClient) ListFull(ctx context.Context, params *qrs.QueryParams) ([]*qrs.Stream, error) {
	return listFull(ctx, c.core, c.basePath, c.kind, params, c.factory)
}
