package dbroute

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownRoutingKey   = errors.New("routing key is not registered")
	ErrNoReplicasAvailable = errors.New("no replica pools registered")
	ErrNoWritePool         = errors.New("registry requires exactly one write pool, got none")
	ErrMultipleWritePools  = errors.New("registry requires exactly one write pool, got several")
	ErrDuplicateKey        = errors.New("routing key registered twice")
	ErrEmptyKey            = errors.New("routing key should not be empty")
	ErrUnknownRole         = errors.New("instance role should be master or replica")
	ErrNilPool             = errors.New("pool handle should not be nil")
)

// UnknownKeyError is returned when a routing key reaches resolution without
// being present in the registry. It wraps ErrUnknownRoutingKey and carries
// the offending key.
type UnknownKeyError struct {
	Key Key
}

// Error converts an UnknownKeyError to a string.
func (e UnknownKeyError) Error() string {
	return fmt.Sprintf("routing key %q is not registered", string(e.Key))
}

func (e UnknownKeyError) Unwrap() error {
	return ErrUnknownRoutingKey
}
