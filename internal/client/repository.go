package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/tidwall/gjson"

	"github.com/senseops-io/qrs-client/pkg/qrs"
)

// Repository implements the CRUD surface shared by every resource kind. The
// typed clients embed it and add their kind-specific operations on top.
type Repository[E qrs.Entity] struct {
	core     *core
	basePath string
	kind     string
	factory  func() E
}

func newRepository[E qrs.Entity](c *core, basePath, kind string, factory func() E) *Repository[E] {
	return &Repository[E]{core: c, basePath: basePath, kind: kind, factory: factory}
}

// Kind implements qrs.Mutator.
func (r *Repository[E]) Kind() string { return r.kind }

// Get fetches the full attribution of one resource by identifier.
func (r *Repository[E]) Get(ctx context.Context, id string) (E, error) {
	var zero E

	if id == "" {
		return zero, qrs.ErrMissingIdentifier
	}

	body, err := r.core.fetch(ctx, http.MethodGet, r.basePath+"/"+id, nil, nil, r.kind, id)
	if err != nil {
		return zero, err
	}

	entity := r.factory()
	if err := qrs.DecodeEntity(body, entity); err != nil {
		return zero, fmt.Errorf("decoding %s %s: %w", r.kind, id, err)
	}

	return entity, nil
}

// Count returns the number of resources matching the filter without
// transferring them.
func (r *Repository[E]) Count(ctx context.Context, filter string) (int, error) {
	query := url.Values{}
	if filter != "" {
		query.Set("filter", filter)
	}

	body, err := r.core.fetch(ctx, http.MethodGet, r.basePath+"/count", query, nil, r.kind, "")
	if err != nil {
		return 0, err
	}

	count := gjson.GetBytes(body, "value")
	if !count.Exists() {
		return 0, fmt.Errorf("counting %s: response carries no value", r.kind)
	}

	return int(count.Int()), nil
}

// Add creates the resource on the platform and returns the full attribution
// the server assigned.
func (r *Repository[E]) Add(ctx context.Context, entity E) (E, error) {
	var zero E

	if err := entity.Validate(); err != nil {
		return zero, err
	}

	payload, err := qrs.EncodeEntity(entity)
	if err != nil {
		return zero, fmt.Errorf("encoding %s: %w", r.kind, err)
	}

	body, err := r.core.fetch(ctx, http.MethodPost, r.basePath, nil, payload, r.kind, "")
	if err != nil {
		return zero, err
	}

	created := r.factory()
	if err := qrs.DecodeEntity(body, created); err != nil {
		return zero, fmt.Errorf("decoding created %s: %w", r.kind, err)
	}

	r.core.log.Info("resource created", map[string]interface{}{
		"kind": r.kind, "id": created.EntityID(), "name": created.EntityName(),
	})

	return created, nil
}

// Update sends the full attribution of a changed resource. Under the
// last-write-wins policy the modification timestamp is stamped at send time;
// under the optimistic policy the timestamp captured at fetch time rides
// along and a concurrent change surfaces as a ConflictError.
func (r *Repository[E]) Update(ctx context.Context, entity E) (E, error) {
	var zero E

	if err := entity.Validate(); err != nil {
		return zero, err
	}

	id := entity.EntityID()
	if id == "" {
		return zero, qrs.ErrMissingIdentifier
	}

	if r.core.policy == qrs.ConcurrencyLastWriteWins {
		qrs.Touch(entity, r.core.now())
	}

	payload, err := qrs.EncodeEntity(entity)
	if err != nil {
		return zero, fmt.Errorf("encoding %s %s: %w", r.kind, id, err)
	}

	body, err := r.core.fetch(ctx, http.MethodPut, r.basePath+"/"+id, nil, payload, r.kind, id)
	if err != nil {
		return zero, err
	}

	updated := r.factory()
	if err := qrs.DecodeEntity(body, updated); err != nil {
		return zero, fmt.Errorf("decoding updated %s: %w", r.kind, err)
	}

	return updated, nil
}

// Remove deletes the resource by identifier.
func (r *Repository[E]) Remove(ctx context.Context, id string) error {
	if id == "" {
		return qrs.ErrMissingIdentifier
	}

	_, err := r.core.fetch(ctx, http.MethodDelete, r.basePath+"/"+id, nil, nil, r.kind, id)
	if err != nil {
		return err
	}

	r.core.log.Info("resource removed", map[string]interface{}{"kind": r.kind, "id": id})

	return nil
}

// AddEntity implements qrs.Mutator.
func (r *Repository[E]) AddEntity(ctx context.Context, e qrs.Entity) (qrs.Entity, error) {
	typed, ok := e.(E)
	if !ok {
		return nil, fmt.Errorf("cannot add %T to the %s repository", e, r.kind)
	}

	return r.Add(ctx, typed)
}

// UpdateEntity implements qrs.Mutator.
func (r *Repository[E]) UpdateEntity(ctx context.Context, e qrs.Entity) (qrs.Entity, error) {
	typed, ok := e.(E)
	if !ok {
		return nil, fmt.Errorf("cannot update %T in the %s repository", e, r.kind)
	}

	return r.Update(ctx, typed)
}

// RemoveEntity implements qrs.Mutator.
func (r *Repository[E]) RemoveEntity(ctx context.Context, id string) error {
	return r.Remove(ctx, id)
}

// listCondensed fetches a condensed listing into the typed slice the caller
// provides. Condensed forms carry no unknown-field snapshot, so plain JSON
// decoding is enough.
func listCondensed[C any](ctx context.Context, c *core, basePath, kind string, params *qrs.QueryParams) ([]C, error) {
	var query url.Values
	if params != nil {
		query = params.ToValues()
	}

	body, err := c.fetch(ctx, http.MethodGet, basePath, query, nil, kind, "")
	if err != nil {
		return nil, err
	}

	var items []C
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("decoding %s listing: %w", kind, err)
	}

	return items, nil
}

// listFull fetches the full attribution of every matching resource in one
// round trip.
func listFull[E qrs.Entity](ctx context.Context, c *core, basePath, kind string, params *qrs.QueryParams, factory func() E) ([]E, error) {
	var query url.Values
	if params != nil {
		query = params.ToValues()
	}

	body, err := c.fetch(ctx, http.MethodGet, basePath+"/full", query, nil, kind, "")
	if err != nil {
		return nil, err
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("decoding %s listing: %w", kind, err)
	}

	items := make([]E, 0, len(raw))

	for _, item := range raw {
		entity := factory()
		if err := qrs.DecodeEntity(item, entity); err != nil {
			return nil, fmt.Errorf("decoding %s listing item: %w", kind, err)
		}

		items = append(items, entity)
	}

	return items, nil
}
