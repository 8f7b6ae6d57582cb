package dbroute

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// Pool is an opaque handle to a live connection pool. Acquiring and
// returning physical connections, executing queries and transport to the
// database stay behind the handle; the router only decides which handle a
// logical operation gets.
type Pool interface {
	Ping(ctx context.Context) error
	Close() error
}

// Instance describes a single pool to register.
type Instance struct {
	// Name is the routing key the pool is registered under. Required and
	// unique within a registry.
	Name Key
	// Role is MasterRole or ReplicaRole.
	Role Role
	// Pool is the live handle served for Name.
	Pool Pool
}

// Registry maps routing keys to connection pools. It is built once from
// configuration, holds exactly one master pool (the default routing target)
// and zero or more replicas, and is immutable afterwards, so concurrent
// reads need no locking. Replica iteration order is registration order.
type Registry struct {
	pools    map[Key]Pool
	order    []Key
	def      Key
	replicas []Key
}

// NewRegistry validates the instances and builds a registry. It fails with
// ErrNoWritePool or ErrMultipleWritePools when master cardinality is not
// exactly one, and with ErrEmptyKey, ErrDuplicateKey, ErrUnknownRole or
// ErrNilPool on malformed entries. A registry is never built in a broken
// state.
func NewRegistry(instances []Instance) (*Registry, error) {
	registry := &Registry{
		pools: make(map[Key]Pool, len(instances)),
		order: make([]Key, 0, len(instances)),
	}

	for _, instance := range instances {
		if instance.Name == "" {
			return nil, ErrEmptyKey
		}
		if instance.Pool == nil {
			return nil, fmt.Errorf("instance %q: %w", string(instance.Name), ErrNilPool)
		}
		if _, found := registry.pools[instance.Name]; found {
			return nil, fmt.Errorf("instance %q: %w", string(instance.Name), ErrDuplicateKey)
		}

		switch instance.Role {
		case MasterRole:
			if registry.def != "" {
				return nil, ErrMultipleWritePools
			}
			registry.def = instance.Name
		case ReplicaRole:
			registry.replicas = append(registry.replicas, instance.Name)
		default:
			return nil, fmt.Errorf("instance %q: %w", string(instance.Name), ErrUnknownRole)
		}

		registry.pools[instance.Name] = instance.Pool
		registry.order = append(registry.order, instance.Name)
	}

	if registry.def == "" {
		return nil, ErrNoWritePool
	}

	return registry, nil
}

// Resolve returns the pool registered under key. It fails with an
// UnknownKeyError when the key is not registered; a key is never silently
// remapped to another pool.
func (r *Registry) Resolve(key Key) (Pool, error) {
	pool, found := r.pools[key]
	if !found {
		return nil, UnknownKeyError{Key: key}
	}

	return pool, nil
}

// DefaultKey returns the key of the single write pool.
func (r *Registry) DefaultKey() Key {
	return r.def
}

// ReplicaKeys returns the replica keys in registration order. The returned
// slice is a copy.
func (r *Registry) ReplicaKeys() []Key {
	ret := make([]Key, len(r.replicas))
	copy(ret, r.replicas)

	return ret
}

// Ping checks every registered pool and joins the failures.
func (r *Registry) Ping(ctx context.Context) error {
	var errs *multierror.Error
	for _, key := range r.order {
		if err := r.pools[key].Ping(ctx); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("pool %q: %w", string(key), err))
		}
	}

	return errs.ErrorOrNil()
}

// Close closes every registered pool in registration order and joins the
// failures. A failed close does not stop the remaining pools from closing.
func (r *Registry) Close() error {
	var errs *multierror.Error
	for _, key := range r.order {
		if err := r.pools[key].Close(); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("pool %q: %w", string(key), err))
		}
	}

	return errs.ErrorOrNil()
}
