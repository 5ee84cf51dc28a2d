package qrs

import (
	"context"
	"io"
)

// Mutator is the untyped mutation surface a repository exposes to the unit
// of work. Typed repositories implement it alongside their typed contracts.
type Mutator interface {
	// Kind names the resource kind, e.g. "app".
	Kind() string

	AddEntity(ctx context.Context, e Entity) (Entity, error)
	UpdateEntity(ctx context.Context, e Entity) (Entity, error)
	RemoveEntity(ctx context.Context, id string) error
}

// AppsRepository manages app resources.
type AppsRepository interface {
	Mutator

	Get(ctx context.Context, id string) (*App, error)
	List(ctx context.Context, params *QueryParams) ([]AppCondensed, error)
	ListFull(ctx context.Context, params *QueryParams) ([]*App, error)
	Count(ctx context.Context, filter string) (int, error)
	Add(ctx context.Context, app *App) (*App, error)
	Update(ctx context.Context, app *App) (*App, error)
	Remove(ctx context.Context, id string) error

	// Reload triggers a data reload. When the platform hands back a task,
	// the call polls until the task reaches a terminal state.
	Reload(ctx context.Context, id string) error

	// Publish moves the app into a stream.
	Publish(ctx context.Context, id, streamID string) (*App, error)

	// Copy duplicates the app, optionally under a new name.
	Copy(ctx context.Context, id, name string) (*App, error)

	// Replace overwrites the target app with the contents of this one.
	Replace(ctx context.Context, id, targetID string) (*App, error)

	// Export requests an export and returns the projection carrying the
	// server-issued download path.
	Export(ctx context.Context, id string) (*AppExport, error)

	// Upload creates an app on the platform from a binary app file.
	Upload(ctx context.Context, name string, content io.Reader) (*App, error)

	// Download fetches the exported payload from a path issued by Export.
	Download(ctx context.Context, downloadPath string) (io.ReadCloser, error)
}

// StreamsRepository manages stream resources.
type StreamsRepository interface {
	Mutator

	Get(ctx context.Context, id string) (*Stream, error)
	List(ctx context.Context, params *QueryParams) ([]StreamCondensed, error)
	ListFull(ctx context.Context, params *QueryParams) ([]*Stream, error)
	Count(ctx context.Context, filter string) (int, error)
	Add(ctx context.Context, stream *Stream) (*Stream, error)
	Update(ctx context.Context, stream *Stream) (*Stream, error)
	Remove(ctx context.Context, id string) error
}

// UsersRepository manages user resources.
type UsersRepository interface {
	Mutator

	Get(ctx context.Context, id string) (*User, error)
	List(ctx context.Context, params *QueryParams) ([]UserCondensed, error)
	ListFull(ctx context.Context, params *QueryParams) ([]*User, error)
	Count(ctx context.Context, filter string) (int, error)
	Add(ctx context.Context, user *User) (*User, error)
	Update(ctx context.Context, user *User) (*User, error)
	Remove(ctx context.Context, id string) error
}

// CustomPropertiesRepository manages custom property definitions.
type CustomPropertiesRepository interface {
	Mutator

	Get(ctx context.Context, id string) (*CustomPropertyDefinition, error)
	List(ctx context.Context, params *QueryParams) ([]CustomPropertyDefinitionCondensed, error)
	ListFull(ctx context.Context, params *QueryParams) ([]*CustomPropertyDefinition, error)
	Count(ctx context.Context, filter string) (int, error)
	Add(ctx context.Context, def *CustomPropertyDefinition) (*CustomPropertyDefinition, error)
	Update(ctx context.Context, def *CustomPropertyDefinition) (*CustomPropertyDefinition, error)
	Remove(ctx context.Context, id string) error
}

// TagsRepository manages tag resources.
type TagsRepository interface {
	Mutator

	Get(ctx context.Context, id string) (*Tag, error)
	List(ctx context.Context, params *QueryParams) ([]TagCondensed, error)
	ListFull(ctx context.Context, params *QueryParams) ([]*Tag, error)
	Count(ctx context.Context, filter string) (int, error)
	Add(ctx context.Context, tag *Tag) (*Tag, error)
	Update(ctx context.Context, tag *Tag) (*Tag, error)
	Remove(ctx context.Context, id string) error
}

// Client provides resource-scoped repository handles over one shared Session.
type Client interface {
	Apps() AppsRepository
	Streams() StreamsRepository
	Users() UsersRepository
	CustomProperties() CustomPropertiesRepository
	Tags() TagsRepository

	// About fetches build information from the handshake endpoint.
	About(ctx context.Context) (*About, error)

	// UnitOfWork starts an empty change tracker over this client's
	// repositories.
	UnitOfWork() *UnitOfWork
}
