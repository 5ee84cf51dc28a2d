package client

import (
	"context"

	"github.com/senseops-io/qrs-client/pkg/qrs"
)

// CustomPropertiesClient implements qrs.CustomPropertiesRepository.
type CustomPropertiesClient struct {
	*Repository[*qrs.CustomPropertyDefinition]
}

func newCustomPropertiesClient(c *core) *CustomPropertiesClient {
	return &CustomPropertiesClient{
		Repository: newRepository(c, "/qrs/custompropertydefinition", "custompropertydefinition",
			func() *qrs.CustomPropertyDefinition { return &qrs.CustomPropertyDefinition{} }),
	}
}

// List fetches the condensed attribution of every matching definition.
func (c *CustomPropertiesClient) List(ctx context.Context, params *qrs.QueryParams) ([]qrs.CustomPropertyDefinitionCondensed, error) {
	return listCondensed[qrs.CustomPropertyDefinitionCondensed](ctx, c.core, c.basePath, c.kind, params)
}

// ListFull fetches the full attribution of every matching definition.
func (c *CustomPropertiesClient) ListFull(ctx context.Context, params *qrs.QueryParams) ([]*qrs.CustomPropertyDefinition, error) {
	return listFull(ctx, c.core, c.basePath, c.kind, params, c.factory)
}
