package component

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreSetNormalizesKey(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Set("  Data-Foo ", "bar"))
	v, ok := s.Get("DATA-FOO")
	require.True(t, ok)
	assert.Equal(t, "bar", v)
}

func TestStoreSetSameValueIsNoOp(t *testing.T) {
	s := NewStore()
	var sets int
	s.OnMutate(func(k, v string) { sets++ }, nil)

	require.NoError(t, s.Set("k", "v"))
	assert.Equal(t, 1, sets)
	versionAfterFirst := s.Version()

	require.NoError(t, s.Set("k", "v"))
	assert.Equal(t, 1, sets, "setting the same value must not fire on_set_item again")
	assert.Equal(t, versionAfterFirst, s.Version())
}

func TestStoreEmptyKeyRejected(t *testing.T) {
	s := NewStore()
	err := s.Set("   ", "v")
	assert.ErrorIs(t, err, ErrEmptyKey)
}

func TestStoreUpdateSetDefaultPopMatchDirectOps(t *testing.T) {
	// Testable property #3: setdefault/pop/update produce the same
	// post-state and callbacks as equivalent direct Set/Delete calls.
	var viaHelpers, viaDirect []string
	record := func(dst *[]string) OnSetFunc {
		return func(k, v string) { *dst = append(*dst, "set:"+k+"="+v) }
	}
	recordDel := func(dst *[]string) OnDeleteFunc {
		return func(k string) { *dst = append(*dst, "del:"+k) }
	}

	helpers := NewStore()
	helpers.OnMutate(record(&viaHelpers), recordDel(&viaHelpers))
	_, err := helpers.SetDefault("a", "1")
	require.NoError(t, err)
	require.NoError(t, helpers.Update(map[string]string{"b": "2"}, false))
	_, _, err = helpers.Pop("a")
	require.NoError(t, err)

	direct := NewStore()
	direct.OnMutate(record(&viaDirect), recordDel(&viaDirect))
	require.NoError(t, direct.Set("a", "1"))
	require.NoError(t, direct.Set("b", "2"))
	require.NoError(t, direct.Delete("a"))

	assert.Equal(t, direct.Map(), helpers.Map())
	assert.ElementsMatch(t, viaDirect, viaHelpers)
}

func TestStorePopItemLIFO(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Set("a", "1"))
	require.NoError(t, s.Set("b", "2"))

	k, v, ok, err := s.PopItem()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "b", k)
	assert.Equal(t, "2", v)
}

func TestStoreFrozenRejectsWrites(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Set("a", "1"))
	s.freeze()
	assert.ErrorIs(t, s.Set("a", "2"), ErrFrozen)
	assert.ErrorIs(t, s.Delete("a"), ErrFrozen)
}
