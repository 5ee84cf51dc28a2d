package qrsclient

import (
	"context"
	"fmt"

	"github.com/senseops-io/qrs-client/pkg/qrs"
)

// Service bundles the name-oriented conveniences admins reach for most:
// resolving resources by display name instead of GUID and acting on them in
// one call. It is a thin layer over the repository interfaces; anything it
// does can be done through the client directly.
type Service struct {
	client qrs.Client
}

// NewService wraps an existing client.
func NewService(client qrs.Client) *Service {
	return &Service{client: client}
}

// Client returns the underlying client.
func (s *Service) Client() qrs.Client { return s.client }

// GetAppByName resolves an app by display name, scoped to a stream when
// streamName is non-empty, and returns its full attribution. Names are not
// unique on the platform; when several apps match, the first match in
// platform order is returned.
func (s *Service) GetAppByName(ctx context.Context, name, streamName string) (*qrs.App, error) {
	filter := qrs.FilterByName(name)
	if streamName != "" {
		filter = qrs.FilterByNameAndStream(name, streamName)
	}

	apps, err := s.client.Apps().List(ctx, qrs.NewQueryParams().WithFilter(filter))
	if err != nil {
		return nil, fmt.Errorf("resolving app %q: %w", name, err)
	}

	if len(apps) == 0 {
		return nil, &qrs.NotFoundError{Kind: "app", ID: name}
	}

	return s.client.Apps().Get(ctx, apps[0].ID)
}

// ReloadAppByName resolves an app by display name and triggers a reload,
// waiting for completion the same way Apps().Reload does.
func (s *Service) ReloadAppByName(ctx context.Context, name, streamName string) error {
	app, err := s.GetAppByName(ctx, name, streamName)
	if err != nil {
		return err
	}

	return s.client.Apps().Reload(ctx, app.ID)
}

// GetStreamByName resolves a stream by display name and returns its full
// attribution.
func (s *Service) GetStreamByName(ctx context.Context, name string) (*qrs.Stream, error) {
	streams, err := s.client.Streams().List(ctx, qrs.NewQueryParams().WithFilter(qrs.FilterByName(name)))
	if err != nil {
		return nil, fmt.Errorf("resolving stream %q: %w", name, err)
	}

	if len(streams) == 0 {
		return nil, &qrs.NotFoundError{Kind: "stream", ID: name}
	}

	return s.client.Streams().Get(ctx, streams[0].ID)
}

// PublishAppByName resolves an app and a stream by display name and
// publishes the app into the stream.
func (s *Service) PublishAppByName(ctx context.Context, appName, streamName string) (*qrs.App, error) {
	app, err := s.GetAppByName(ctx, appName, "")
	if err != nil {
		return nil, err
	}

	stream, err := s.GetStreamByName(ctx, streamName)
	if err != nil {
		return nil, err
	}

	return s.client.Apps().Publish(ctx, app.ID, stream.ID)
}
