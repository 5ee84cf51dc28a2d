package client

import (
	"context"

	"github.com/senseops-io/qrs-client/pkg/qrs"
)

// UsersClient implements qrs.UsersRepository.
type UsersClient struct {
	*Repository[*qrs.User]
}

func newUsersClient(c *core) *UsersClient {
	return &UsersClient{
		Repository: newRepository(c, "/qrs/user", "user", func() *qrs.User { return &qrs.User{} }),
	}
}

// List fetches the condensed attribution of every matching user.
func (c *UsersClient) List(ctx context.Context, params *qrs.QueryParams) ([]qrs.UserCondensed, error) {
	return listCondensed[qrs.UserCondensed](ctx, c.core, c.basePath, c.kind, params)
}

// ListFull fetches the full attribution of every matching user.
func (c *UsersClient) ListFull(ctx context.Context, params *qrs.QueryParams) ([]*qrs.User, error) {
	return listFull(ctx, c.core, c.basePath, c.kind, params, c.factory)
}
