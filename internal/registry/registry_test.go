package registry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/gridflow/internal/state"
)

func noop(_ context.Context, _ state.State, _ map[string]any) (state.State, error) {
	return nil, nil
}

func TestRegisterAndResolve(t *testing.T) {
	r := New()
	require.NoError(t, r.Register("noop", noop))

	fn, err := r.Resolve("noop")
	require.NoError(t, err)
	require.NotNil(t, fn)

	partial, err := fn(context.Background(), state.State{}, nil)
	require.NoError(t, err)
	assert.Nil(t, partial)
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	r := New()
	require.NoError(t, r.Register("noop", noop))

	err := r.Register("noop", noop)
	var dup *DuplicateToolError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "noop", dup.Name)
}

func TestRegisterRejectsMalformedBindings(t *testing.T) {
	r := New()

	var invalid *InvalidToolError
	assert.ErrorAs(t, r.Register("", noop), &invalid)
	assert.ErrorAs(t, r.Register("nilfn", nil), &invalid)
}

func TestResolveUnknown(t *testing.T) {
	r := New()

	_, err := r.Resolve("missing")
	var unknown *UnknownToolError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "missing", unknown.Name)
}

func TestHas(t *testing.T) {
	r := New()
	require.NoError(t, r.Register("noop", noop))

	assert.True(t, r.Has("noop"))
	assert.False(t, r.Has("missing"))
}

func TestNamesSorted(t *testing.T) {
	r := New()
	require.NoError(t, r.Register("zeta", noop))
	require.NoError(t, r.Register("alpha", noop))
	require.NoError(t, r.Register("mid", noop))

	assert.Equal(t, []string{"alpha", "mid", "zeta"}, r.Names())
}

type testModule struct {
	names []string
	fail  error
}

func (m testModule) Register(r *Registry) error {
	if m.fail != nil {
		return m.fail
	}
	for _, name := range m.names {
		if err := r.Register(name, noop); err != nil {
			return err
		}
	}
	return nil
}

func TestInstall(t *testing.T) {
	t.Run("installs all modules in order", func(t *testing.T) {
		r := New()
		err := r.Install(
			testModule{names: []string{"a"}},
			testModule{names: []string{"b", "c"}},
		)
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b", "c"}, r.Names())
	})

	t.Run("stops at the first failure", func(t *testing.T) {
		r := New()
		boom := errors.New("boom")
		err := r.Install(
			testModule{names: []string{"a"}},
			testModule{fail: boom},
			testModule{names: []string{"never"}},
		)
		require.ErrorIs(t, err, boom)
		assert.False(t, r.Has("never"))
	})
}
