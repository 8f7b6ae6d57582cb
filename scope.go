package dbroute

import (
	"context"

	"github.com/google/uuid"
)

// Key identifies a registered connection pool, e.g. "master" or "replica-1".
type Key string

// Scope holds the routing decision for a single unit of work (typically one
// inbound request). A Scope is owned exclusively by the execution context
// that created it and must never be shared between concurrent units of work;
// under that ownership rule no locking is needed.
//
// The zero value is not usable, construct scopes with NewScope.
type Scope struct {
	id  string
	def Key
	cur Key
}

// NewScope creates a scope whose unset state resolves to def, normally the
// registry's write key.
func NewScope(def Key) *Scope {
	return &Scope{id: uuid.NewString(), def: def}
}

// ID returns a unique identifier for the scope, used to correlate log lines
// of a single unit of work.
func (s *Scope) ID() string {
	return s.id
}

// Set stores the routing key for the current operation.
func (s *Scope) Set(key Key) {
	s.cur = key
}

// Get returns the stored routing key, or the default key if the scope was
// never set or has been cleared.
func (s *Scope) Get() Key {
	if s.cur == "" {
		return s.def
	}
	return s.cur
}

// Clear resets the scope so that subsequent Get calls yield the default key
// again. Clearing an already clear scope is a no-op.
func (s *Scope) Clear() {
	s.cur = ""
}

// contextKey is a type for context keys to avoid collisions.
type contextKey int

const scopeContextKey contextKey = iota

// WithScope returns a new context carrying the scope.
func WithScope(ctx context.Context, s *Scope) context.Context {
	return context.WithValue(ctx, scopeContextKey, s)
}

// ScopeFrom extracts the scope from the context, if any.
func ScopeFrom(ctx context.Context) (*Scope, bool) {
	s, ok := ctx.Value(scopeContextKey).(*Scope)
	return s, ok
}
