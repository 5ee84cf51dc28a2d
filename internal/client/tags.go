package client

import (
	"context"

	"github.com/senseops-io/qrs-client/pkg/qrs"
)

// TagsClient implements qrs.TagsRepository.
type TagsClient struct {
	*Repository[*qrs.Tag]
}

func newTagsClient(c *core) *TagsClient {
	return &TagsClient{
		Repository: newRepository(c, "/qrs/tag", "tag", func() *qrs.Tag { return &qrs.Tag{} }),
	}
}

// List fetches the condensed attribution of every matching tag.
func (c *TagsClient) List(ctx context.Context, params *qrs.QueryParams) ([]qrs.TagCondensed, error) {
	return listCondensed[qrs.TagCondensed](ctx, c.core, c.basePath, c.kind, params)
}

// ListFull fetches the full attribution of every matching tag.
func (c *TagsClient) ListFull(ctx context.Context, params *qrs.QueryParams) ([]*qrs.Tag, error) {
	return listFull(ctx, c.core, c.basePath, c.kind, params, c.factory)
}
