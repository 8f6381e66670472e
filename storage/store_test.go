package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testStoreContract runs the behavior every Store has to share, regardless of
// its iteration order. newStore must return an empty store.
func testStoreContract(t *testing.T, newStore func(t *testing.T) Store) {
	t.Run("set then get", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.SetItem("greeting", "hello"))

		v, ok, err := s.GetItem("greeting")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "hello", v)
	})

	t.Run("overwrite", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.SetItem("k", "v1"))
		require.NoError(t, s.SetItem("k", "v2"))

		v, ok, err := s.GetItem("k")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "v2", v)

		l, err := s.Length()
		require.NoError(t, err)
		assert.Equal(t, 1, l)
	})

	t.Run("empty key and value", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.SetItem("", ""))

		v, ok, err := s.GetItem("")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "", v)
	})

	t.Run("missing key is absent", func(t *testing.T) {
		s := newStore(t)
		v, ok, err := s.GetItem("nope")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Equal(t, "", v)
	})

	t.Run("two keys by index", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.SetItem("a", "1"))
		require.NoError(t, s.SetItem("b", "2"))

		l, err := s.Length()
		require.NoError(t, err)
		assert.Equal(t, 2, l)

		k, ok, err := s.Key(0)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "a", k)

		k, ok, err = s.Key(1)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "b", k)

		_, ok, err = s.Key(2)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("out of range indexes", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.SetItem("only", "1"))

		for _, n := range []int{-1, -100, 1, 2, 1 << 20} {
			_, ok, err := s.Key(n)
			require.NoError(t, err)
			assert.False(t, ok, "index %d", n)
		}
	})

	t.Run("key is idempotent", func(t *testing.T) {
		s := newStore(t)
		for _, k := range []string{"x", "y", "z"} {
			require.NoError(t, s.SetItem(k, k))
		}
		for n := 0; n < 3; n++ {
			first, _, err := s.Key(n)
			require.NoError(t, err)
			second, _, err := s.Key(n)
			require.NoError(t, err)
			assert.Equal(t, first, second)
		}
	})

	t.Run("set then remove", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.SetItem("x", "1"))
		require.NoError(t, s.RemoveItem("x"))

		_, ok, err := s.GetItem("x")
		require.NoError(t, err)
		assert.False(t, ok)

		l, err := s.Length()
		require.NoError(t, err)
		assert.Equal(t, 0, l)
	})

	t.Run("remove missing key", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.SetItem("keep", "1"))
		assert.NoError(t, s.RemoveItem("never-set"))

		l, err := s.Length()
		require.NoError(t, err)
		assert.Equal(t, 1, l)
	})

	t.Run("clear", func(t *testing.T) {
		s := newStore(t)
		keys := []string{"one", "two", "three"}
		for _, k := range keys {
			require.NoError(t, s.SetItem(k, "v"))
		}
		require.NoError(t, s.Clear())

		l, err := s.Length()
		require.NoError(t, err)
		assert.Equal(t, 0, l)

		for _, k := range keys {
			_, ok, err := s.GetItem(k)
			require.NoError(t, err)
			assert.False(t, ok, k)
		}

		_, ok, err := s.Key(0)
		require.NoError(t, err)
		assert.False(t, ok)

		// The store is still usable afterwards
		require.NoError(t, s.SetItem("after", "clear"))
		l, err = s.Length()
		require.NoError(t, err)
		assert.Equal(t, 1, l)
	})

	t.Run("cleanup and close", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.SetItem("k", "v"))
		assert.NoError(t, s.Cleanup())
	})
}
