package memcache

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCache(t *testing.T) {
	require := require.New(t)

	c := New[string, string]()
	require.False(c.ContainsKey("a"))

	_, ok := c.Set("a", "apple")
	require.False(ok)
	require.True(c.ContainsKey("a"))
	require.Equal(1, c.Len())

	prev, ok := c.Set("a", "avocado")
	require.True(ok)
	require.Equal("apple", prev)

	val, ok := c.Get("a")
	require.True(ok)
	require.Equal("avocado", val)

	prev, ok = c.Remove("a")
	require.True(ok)
	require.Equal("avocado", prev)
	require.False(c.ContainsKey("a"))
	require.Zero(c.Len())
}

func TestRemoveMissing(t *testing.T) {
	require := require.New(t)

	c := New[int, []byte]()
	val, ok := c.Remove(7)
	require.False(ok)
	require.Nil(val)

	_, ok = c.Get(7)
	require.False(ok)
}
