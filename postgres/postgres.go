// Package postgres opens pgx connection pools for dbroute registries. It
// only constructs pool handles from configuration; query execution stays
// with the caller.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dbroute-io/dbroute"
	"github.com/dbroute-io/dbroute/config"
)

// poolHandle adapts *pgxpool.Pool to dbroute.Pool. pgx closes without an
// error return.
type poolHandle struct {
	pool *pgxpool.Pool
}

func (h *poolHandle) Ping(ctx context.Context) error {
	return h.pool.Ping(ctx)
}

func (h *poolHandle) Close() error {
	h.pool.Close()
	return nil
}

// Unwrap returns the pgx pool behind a handle produced by Open, for the
// persistence layer to execute queries with. It reports false for handles
// of other providers.
func Unwrap(pool dbroute.Pool) (*pgxpool.Pool, bool) {
	handle, ok := pool.(*poolHandle)
	if !ok {
		return nil, false
	}

	return handle.pool, true
}

// Open connects a single configured pool and verifies it with a ping.
// Replica pools are opened with default_transaction_read_only=on so a
// misrouted write fails loudly on the replica instead of diverging data.
func Open(ctx context.Context, cfg config.PoolConfig) (dbroute.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("pool %q: parse dsn: %w", cfg.Name, err)
	}

	applyPoolConfig(poolConfig, cfg)

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("pool %q: connect: %w", cfg.Name, err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pool %q: ping: %w", cfg.Name, err)
	}

	return &poolHandle{pool: pool}, nil
}

func applyPoolConfig(poolConfig *pgxpool.Config, cfg config.PoolConfig) {
	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolConfig.MinConns = cfg.MinConns
	}
	if cfg.Role == config.RoleRead {
		poolConfig.ConnConfig.RuntimeParams["default_transaction_read_only"] = "on"
	}
}

// NewRegistry opens every configured pool and builds a registry from them.
// On any failure the pools opened so far are closed before the error is
// returned.
func NewRegistry(ctx context.Context, cfg *config.Config) (*dbroute.Registry, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	instances := make([]dbroute.Instance, 0, len(cfg.Pools))
	for _, poolConfig := range cfg.Pools {
		pool, err := Open(ctx, poolConfig)
		if err != nil {
			closeAll(instances)
			return nil, err
		}

		role := dbroute.ReplicaRole
		if poolConfig.Role == config.RoleWrite {
			role = dbroute.MasterRole
		}

		instances = append(instances, dbroute.Instance{
			Name: dbroute.Key(poolConfig.Name),
			Role: role,
			Pool: pool,
		})
	}

	registry, err := dbroute.NewRegistry(instances)
	if err != nil {
		closeAll(instances)
		return nil, err
	}

	return registry, nil
}

func closeAll(instances []dbroute.Instance) {
	for _, instance := range instances {
		instance.Pool.Close()
	}
}
