package postgres

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbroute-io/dbroute/config"
)

func TestOpenBadDSN(t *testing.T) {
	_, err := Open(context.Background(), config.PoolConfig{
		Name: "master",
		Role: config.RoleWrite,
		DSN:  "this is not a dsn",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `pool "master"`)
}

func TestApplyPoolConfig(t *testing.T) {
	poolConfig, err := pgxpool.ParseConfig("postgres://app@r1.db:5432/app")
	require.NoError(t, err)

	applyPoolConfig(poolConfig, config.PoolConfig{
		Name:     "r1",
		Role:     config.RoleRead,
		MaxConns: 15,
		MinConns: 3,
	})

	assert.Equal(t, int32(15), poolConfig.MaxConns)
	assert.Equal(t, int32(3), poolConfig.MinConns)
	assert.Equal(t, "on",
		poolConfig.ConnConfig.RuntimeParams["default_transaction_read_only"])
}

func TestApplyPoolConfigWriteDefaults(t *testing.T) {
	poolConfig, err := pgxpool.ParseConfig("postgres://app@master.db:5432/app")
	require.NoError(t, err)

	defaultMax := poolConfig.MaxConns
	applyPoolConfig(poolConfig, config.PoolConfig{
		Name: "master",
		Role: config.RoleWrite,
	})

	// Zero values leave the pgx defaults untouched; the master stays
	// writable.
	assert.Equal(t, defaultMax, poolConfig.MaxConns)
	assert.NotContains(t, poolConfig.ConnConfig.RuntimeParams,
		"default_transaction_read_only")
}

func TestNewRegistryInvalidConfig(t *testing.T) {
	_, err := NewRegistry(context.Background(), &config.Config{
		Pools: []config.PoolConfig{
			{Name: "r1", Role: config.RoleRead, DSN: "postgres://app@r1.db/app"},
		},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "write pool")
}

func TestUnwrapForeignHandle(t *testing.T) {
	pool, ok := Unwrap(nil)
	assert.Nil(t, pool)
	assert.False(t, ok)
}
