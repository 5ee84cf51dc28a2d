package qrs

import (
	"context"
	"fmt"
)

// OpState tracks one ledger item through a commit.
type OpState string

// Ledger item states.
const (
	OpStatePending   OpState = "pending"
	OpStateInFlight  OpState = "in_flight"
	OpStateCommitted OpState = "committed"
	OpStateFailed    OpState = "failed"
)

// Op is the kind of pending mutation.
type Op string

// Pending mutation kinds.
const (
	OpAdd    Op = "add"
	OpUpdate Op = "update"
	OpRemove Op = "remove"
)

type ledgerItem struct {
	op     Op
	state  OpState
	repo   Mutator
	entity Entity // nil for removals
	id     string // set for removals and dirty entities
	err    error
}

type removalKey struct {
	repo Mutator
	id   string
}

// UnitOfWork aggregates pending additions, mutations, and removals across
// one or more repositories and commits them as a sequence of network
// operations. It is scoped to one logical transaction performed by one
// caller and is not safe for concurrent use.
type UnitOfWork struct {
	items     []*ledgerItem
	byEntity  map[Entity]*ledgerItem
	byRemoval map[removalKey]*ledgerItem
	log       Logger
}

// NewUnitOfWork creates an empty unit of work.
func NewUnitOfWork(log Logger) *UnitOfWork {
	if log == nil {
		log = NoopLogger()
	}

	return &UnitOfWork{
		byEntity:  make(map[Entity]*ledgerItem),
		byRemoval: make(map[removalKey]*ledgerItem),
		log:       log,
	}
}

// Len returns the number of pending ledger items.
func (u *UnitOfWork) Len() int {
	return len(u.items)
}

// RegisterNew tracks an entity without a server identifier for creation on
// the next Commit. The entity is validated locally first, so a malformed
// entity never costs a round trip.
func (u *UnitOfWork) RegisterNew(repo Mutator, e Entity) error {
	if err := e.Validate(); err != nil {
		return err
	}

	if _, tracked := u.byEntity[e]; tracked {
		return ErrEntityAlreadyTracked
	}

	u.append(&ledgerItem{op: OpAdd, state: OpStatePending, repo: repo, entity: e})
	u.log.Debug("registered new entity", map[string]interface{}{"kind": repo.Kind(), "name": e.EntityName()})

	return nil
}

// RegisterDirty tracks an entity with a server identifier whose fields have
// changed, for update on the next Commit. Registering an entity already
// tracked as new is a no-op: the pending creation will carry the current
// field values anyway.
func (u *UnitOfWork) RegisterDirty(repo Mutator, e Entity) error {
	if err := e.Validate(); err != nil {
		return err
	}

	if e.EntityID() == "" {
		return ErrMissingIdentifier
	}

	if item, tracked := u.byEntity[e]; tracked {
		if item.op == OpAdd {
			return nil
		}

		return ErrEntityAlreadyTracked
	}

	if _, removed := u.byRemoval[removalKey{repo: repo, id: e.EntityID()}]; removed {
		return ErrEntityMarkedRemoved
	}

	u.append(&ledgerItem{op: OpUpdate, state: OpStatePending, repo: repo, entity: e, id: e.EntityID()})
	u.log.Debug("registered dirty entity", map[string]interface{}{"kind": repo.Kind(), "id": e.EntityID()})

	return nil
}

// RegisterRemoved marks an identifier for deletion on the next Commit. When
// the identifier matches an entity tracked as dirty, the pending update is
// cancelled and replaced by the removal. When it matches an entity tracked
// as new, the pending creation is cancelled outright: the platform never saw
// the entity, so there is nothing to delete.
func (u *UnitOfWork) RegisterRemoved(repo Mutator, id string) error {
	if id == "" {
		return ErrMissingIdentifier
	}

	key := removalKey{repo: repo, id: id}
	if _, tracked := u.byRemoval[key]; tracked {
		return nil
	}

	for _, item := range u.items {
		if item.repo != repo || item.entity == nil || item.entity.EntityID() != id {
			continue
		}

		u.drop(item)

		if item.op == OpAdd {
			u.log.Debug("cancelled pending creation", map[string]interface{}{"kind": repo.Kind(), "id": id})

			return nil
		}

		break
	}

	u.append(&ledgerItem{op: OpRemove, state: OpStatePending, repo: repo, id: id})
	u.log.Debug("registered removal", map[string]interface{}{"kind": repo.Kind(), "id": id})

	return nil
}

// Evict drops a tracked entity from the ledger without contacting the
// platform. Callers use it to discard a failed item before retrying Commit.
func (u *UnitOfWork) Evict(e Entity) {
	if item, tracked := u.byEntity[e]; tracked {
		u.drop(item)
	}
}

// EvictRemoval drops a pending removal from the ledger.
func (u *UnitOfWork) EvictRemoval(repo Mutator, id string) {
	if item, tracked := u.byRemoval[removalKey{repo: repo, id: id}]; tracked {
		u.drop(item)
	}
}

// Rollback clears the ledger without contacting the platform. Calling it on
// an empty ledger is a no-op.
func (u *UnitOfWork) Rollback() {
	u.items = nil
	u.byEntity = make(map[Entity]*ledgerItem)
	u.byRemoval = make(map[removalKey]*ledgerItem)
}

// CommitItem records the outcome of one ledger item.
type CommitItem struct {
	Op    Op
	Kind  string
	ID    string
	Name  string
	State OpState
	Err   error
}

// CommitResult records, per item, the outcome of a Commit in execution
// order.
type CommitResult struct {
	Items []CommitItem
}

// Succeeded returns the number of committed items.
func (r *CommitResult) Succeeded() int {
	count := 0

	for _, item := range r.Items {
		if item.State == OpStateCommitted {
			count++
		}
	}

	return count
}

// Failed returns the items that did not commit.
func (r *CommitResult) Failed() []CommitItem {
	var failed []CommitItem

	for _, item := range r.Items {
		if item.State == OpStateFailed {
			failed = append(failed, item)
		}
	}

	return failed
}

// Commit processes the ledger against the platform: removals first (freeing
// unique-name slots), then additions, then updates, each phase in
// registration order. One item's failure never aborts the rest; succeeded
// items leave the ledger and their in-memory entities are refreshed with
// server-assigned fields, failed items stay pending for the next Commit.
// The returned error is non-nil only when the context ends mid-commit.
func (u *UnitOfWork) Commit(ctx context.Context) (*CommitResult, error) {
	result := &CommitResult{}

	for _, phase := range []Op{OpRemove, OpAdd, OpUpdate} {
		for _, item := range u.snapshot(phase) {
			if err := ctx.Err(); err != nil {
				return result, fmt.Errorf("commit interrupted: %w", err)
			}

			u.commitOne(ctx, item, result)
		}
	}

	return result, nil
}

// snapshot returns the pending items of one phase in registration order.
// Commit mutates the ledger as it goes, so iteration works on a copy.
func (u *UnitOfWork) snapshot(phase Op) []*ledgerItem {
	var items []*ledgerItem

	for _, item := range u.items {
		if item.op == phase && item.state == OpStatePending {
			items = append(items, item)
		}
	}

	return items
}

func (u *UnitOfWork) commitOne(ctx context.Context, item *ledgerItem, result *CommitResult) {
	item.state = OpStateInFlight

	var (
		refreshed Entity
		err       error
	)

	switch item.op {
	case OpAdd:
		refreshed, err = item.repo.AddEntity(ctx, item.entity)
	case OpUpdate:
		refreshed, err = item.repo.UpdateEntity(ctx, item.entity)
	case OpRemove:
		err = item.repo.RemoveEntity(ctx, item.id)
	}

	if err == nil && refreshed != nil {
		err = item.entity.absorb(refreshed)
	}

	outcome := CommitItem{Op: item.op, Kind: item.repo.Kind(), ID: item.id}
	if item.entity != nil {
		outcome.ID = item.entity.EntityID()
		outcome.Name = item.entity.EntityName()
	}

	if err != nil {
		item.state = OpStateFailed
		item.err = err
		outcome.State = OpStateFailed
		outcome.Err = err
		u.log.Warn("commit item failed", map[string]interface{}{
			"kind": item.repo.Kind(), "op": string(item.op), "error": err.Error(),
		})
	} else {
		item.state = OpStateCommitted
		outcome.State = OpStateCommitted
		u.drop(item)
	}

	result.Items = append(result.Items, outcome)

	// Failed items stay in the ledger and return to pending so the next
	// Commit retries exactly them.
	if item.state == OpStateFailed {
		item.state = OpStatePending
	}
}

func (u *UnitOfWork) append(item *ledgerItem) {
	u.items = append(u.items, item)

	if item.entity != nil {
		u.byEntity[item.entity] = item
	}

	if item.op == OpRemove {
		u.byRemoval[removalKey{repo: item.repo, id: item.id}] = item
	}
}

func (u *UnitOfWork) drop(item *ledgerItem) {
	for i, candidate := range u.items {
		if candidate == item {
			u.items = append(u.items[:i], u.items[i+1:]...)

			break
		}
	}

	if item.entity != nil {
		delete(u.byEntity, item.entity)
	}

	if item.op == OpRemove {
		delete(u.byRemoval, removalKey{repo: item.repo, id: item.id})
	}
}
