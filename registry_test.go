package dbroute

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubPool implements Pool for tests.
type stubPool struct {
	pingErr  error
	closeErr error
	closed   bool
}

func (p *stubPool) Ping(context.Context) error {
	return p.pingErr
}

func (p *stubPool) Close() error {
	p.closed = true
	return p.closeErr
}

func masterReplicaInstances(replicas ...Key) []Instance {
	instances := []Instance{
		{Name: "master", Role: MasterRole, Pool: &stubPool{}},
	}
	for _, name := range replicas {
		instances = append(instances, Instance{Name: name, Role: ReplicaRole, Pool: &stubPool{}})
	}
	return instances
}

func TestNewRegistry(t *testing.T) {
	registry, err := NewRegistry(masterReplicaInstances("r1", "r2"))
	require.NoError(t, err)

	assert.Equal(t, Key("master"), registry.DefaultKey())
	assert.Equal(t, []Key{"r1", "r2"}, registry.ReplicaKeys())
}

func TestNewRegistryValidation(t *testing.T) {
	cases := []struct {
		name      string
		instances []Instance
		expected  error
	}{
		{
			"no write pool",
			[]Instance{{Name: "r1", Role: ReplicaRole, Pool: &stubPool{}}},
			ErrNoWritePool,
		},
		{
			"no pools at all",
			nil,
			ErrNoWritePool,
		},
		{
			"two write pools",
			[]Instance{
				{Name: "m1", Role: MasterRole, Pool: &stubPool{}},
				{Name: "m2", Role: MasterRole, Pool: &stubPool{}},
			},
			ErrMultipleWritePools,
		},
		{
			"duplicate name",
			[]Instance{
				{Name: "master", Role: MasterRole, Pool: &stubPool{}},
				{Name: "master", Role: ReplicaRole, Pool: &stubPool{}},
			},
			ErrDuplicateKey,
		},
		{
			"empty name",
			[]Instance{{Name: "", Role: MasterRole, Pool: &stubPool{}}},
			ErrEmptyKey,
		},
		{
			"nil pool",
			[]Instance{{Name: "master", Role: MasterRole, Pool: nil}},
			ErrNilPool,
		},
		{
			"unknown role",
			[]Instance{{Name: "master", Role: UnknownRole, Pool: &stubPool{}}},
			ErrUnknownRole,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			registry, err := NewRegistry(tc.instances)
			require.ErrorIs(t, err, tc.expected)
			assert.Nil(t, registry)
		})
	}
}

func TestRegistryResolve(t *testing.T) {
	master := &stubPool{}
	replica := &stubPool{}
	registry, err := NewRegistry([]Instance{
		{Name: "master", Role: MasterRole, Pool: master},
		{Name: "r1", Role: ReplicaRole, Pool: replica},
	})
	require.NoError(t, err)

	pool, err := registry.Resolve("master")
	require.NoError(t, err)
	assert.Same(t, master, pool)

	pool, err = registry.Resolve("r1")
	require.NoError(t, err)
	assert.Same(t, replica, pool)
}

func TestRegistryResolveUnknownKey(t *testing.T) {
	registry, err := NewRegistry(masterReplicaInstances())
	require.NoError(t, err)

	pool, err := registry.Resolve("ghost")
	require.Nil(t, pool)
	require.ErrorIs(t, err, ErrUnknownRoutingKey)

	var unknown UnknownKeyError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, Key("ghost"), unknown.Key)
}

func TestRegistryReplicaKeysCopy(t *testing.T) {
	registry, err := NewRegistry(masterReplicaInstances("r1", "r2"))
	require.NoError(t, err)

	keys := registry.ReplicaKeys()
	keys[0] = "mutated"

	assert.Equal(t, []Key{"r1", "r2"}, registry.ReplicaKeys())
}

func TestRegistryClose(t *testing.T) {
	master := &stubPool{closeErr: errors.New("master close failed")}
	replica := &stubPool{}
	registry, err := NewRegistry([]Instance{
		{Name: "master", Role: MasterRole, Pool: master},
		{Name: "r1", Role: ReplicaRole, Pool: replica},
	})
	require.NoError(t, err)

	err = registry.Close()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "master close failed")

	// A failing pool does not stop the others from closing.
	assert.True(t, master.closed)
	assert.True(t, replica.closed)
}

func TestRegistryPing(t *testing.T) {
	healthy := &stubPool{}
	broken := &stubPool{pingErr: errors.New("connection refused")}
	registry, err := NewRegistry([]Instance{
		{Name: "master", Role: MasterRole, Pool: healthy},
		{Name: "r1", Role: ReplicaRole, Pool: broken},
	})
	require.NoError(t, err)

	err = registry.Ping(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), `pool "r1"`)

	registry, err = NewRegistry(masterReplicaInstances("r1"))
	require.NoError(t, err)
	assert.NoError(t, registry.Ping(context.Background()))
}
