// Package dbroute routes individual database operations to one of several
// named connection pools: one writable master and any number of read-only
// replicas. The caller never names a target; a classifier derives read or
// write intent from the operation name, read traffic is spread over the
// replicas round-robin, and the decision is carried on the context for the
// duration of one logical operation.
//
// Main features:
//
// - Per-unit-of-work routing scope, isolated between concurrent requests.
//
// - Round-robin selection over the replica set with a shared atomic cursor.
//
// - Reads degrade to the master when no replica is registered, never fail.
package dbroute

import (
	"context"

	"go.uber.org/zap"
)

// Opts provides additional options for NewRouter.
type Opts struct {
	// Balancer selects the replica for a read. Defaults to NewRoundRobin().
	Balancer Balancer
	// Classifier derives intent from operation names. Defaults to
	// NewClassifier() with DefaultReadPrefixes.
	Classifier *Classifier
	// Logger is used for routing decisions and degraded-mode warnings.
	// Defaults to zap.NewNop().
	Logger *zap.Logger
	// Metrics receives routing decision counters. Optional.
	Metrics *Metrics
}

// Router is the routing decision engine. It intercepts logical operations
// (Do), records the selected key on the unit of work's scope and resolves
// the key to a live pool at connection-acquisition time (Resolve).
type Router struct {
	registry   *Registry
	balancer   Balancer
	classifier *Classifier
	logger     *zap.Logger
	metrics    *Metrics
}

// NewRouter creates a router over the registry.
func NewRouter(registry *Registry, opts Opts) *Router {
	if opts.Balancer == nil {
		opts.Balancer = NewRoundRobin()
	}
	if opts.Classifier == nil {
		opts.Classifier = NewClassifier()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	return &Router{
		registry:   registry,
		balancer:   opts.Balancer,
		classifier: opts.Classifier,
		logger:     opts.Logger,
		metrics:    opts.Metrics,
	}
}

// Registry returns the registry the router resolves against.
func (r *Router) Registry() *Registry {
	return r.registry
}

// Do runs fn as one intercepted data-access operation named operation.
//
// Before fn runs, the operation is classified. A write leaves the scope at
// the default (master) key. A read asks the balancer for a replica key and
// stores it on the scope; if no replica is registered the read degrades to
// the master key with a warning instead of failing. After fn returns the
// scope is cleared again, on the success path, the error path, a panic and
// a canceled context alike, so no routing decision outlives the operation
// even when the unit of work is reused for further operations.
//
// If ctx carries no scope yet, Do attaches a fresh one and passes it down
// via the context given to fn.
//
// Routing is decided at or above the transaction boundary: a connection
// bound before Do is called (for example by a transaction opened at a
// coarser scope) is not re-routed by the classification below it. Resolve
// must be called within fn's execution window.
func (r *Router) Do(ctx context.Context, operation string, fn func(context.Context) error) error {
	scope, found := ScopeFrom(ctx)
	if !found {
		scope = NewScope(r.registry.DefaultKey())
		ctx = WithScope(ctx, scope)
	}

	intent := r.classifier.Classify(operation)
	if intent == ReadIntent {
		key, err := r.balancer.Next(r.registry.ReplicaKeys())
		if err != nil {
			r.logger.Warn("read degrades to the write pool",
				zap.String("operation", operation),
				zap.String("scope", scope.ID()),
				zap.Error(err))
			r.metrics.fallback()
			key = r.registry.DefaultKey()
		}
		scope.Set(key)
	}
	defer scope.Clear()

	r.metrics.decision(intent, scope.Get())
	r.logger.Debug("routing decision",
		zap.String("operation", operation),
		zap.String("scope", scope.ID()),
		zap.Stringer("intent", intent),
		zap.String("key", string(scope.Get())))

	return fn(ctx)
}

// Resolve returns the pool for the routing key currently on the context's
// scope. A context without a scope, or with a cleared scope, resolves to the
// default write pool. A key absent from the registry fails with an
// UnknownKeyError; with the Do discipline above this is unreachable, the
// check guards against a stale key surviving on a reused scope.
func (r *Router) Resolve(ctx context.Context) (Pool, error) {
	key := r.registry.DefaultKey()
	if scope, found := ScopeFrom(ctx); found {
		key = scope.Get()
	}

	return r.registry.Resolve(key)
}
