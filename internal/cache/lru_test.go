package cache

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLRUEvictsLeastRecentlyUsed(t *testing.T) {
	c := NewLRU[int64, string](2)
	c.Set(1, "one")
	c.Set(2, "two")

	_, ok := c.Get(1) // 2 is now the oldest
	require.True(t, ok)

	c.Set(3, "three")
	assert.Equal(t, 2, c.Len())

	_, ok = c.Get(2)
	assert.False(t, ok)
	v, ok := c.Get(1)
	assert.True(t, ok)
	assert.Equal(t, "one", v)
}

func TestLRUSetOverwrites(t *testing.T) {
	c := NewLRU[string, int](0)
	c.Set("a", 1)
	c.Set("a", 2)

	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 2, v)
	assert.Equal(t, 1, c.Len())
}

func TestGetOrCompute(t *testing.T) {
	c := NewLRU[int64, string](4)
	calls := 0
	fn := func() (string, error) {
		calls++
		return "x", nil
	}

	for i := 0; i < 3; i++ {
		v, err := c.GetOrCompute(7, fn)
		require.NoError(t, err)
		assert.Equal(t, "x", v)
	}
	assert.Equal(t, 1, calls)

	_, err := c.GetOrCompute(8, func() (string, error) { return "", errors.New("boom") })
	assert.Error(t, err)
	_, ok := c.Get(8)
	assert.False(t, ok)

	hits, misses := c.Stats()
	assert.Equal(t, uint64(2), hits)
	assert.Equal(t, uint64(3), misses)
}
