package kv

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStorage(t *testing.T) {
	getArgs := func() *Storage {
		return New().
			Add("foo", "bar").
			Add("hello", "world").
			Add("lorem", "ipsum").
			Add("hello", "Pavlo")
	}

	t.Run("first match wins", func(t *testing.T) {
		args := getArgs()
		require.Equal(t, "world", args.Value("hello"))
		require.Equal(t, []string{"world", "Pavlo"}, args.Values("hello"))
	})

	t.Run("exact keys", func(t *testing.T) {
		args := getArgs()
		require.False(t, args.Has("HELLO"))
		require.Equal(t, "fallback", args.ValueOr("Foo", "fallback"))
		require.Nil(t, args.Values("nope"))
	})

	t.Run("order", func(t *testing.T) {
		var keys []string
		for key := range getArgs().Iter() {
			keys = append(keys, key)
		}

		require.Equal(t, []string{"foo", "hello", "lorem", "hello"}, keys)
	})

	t.Run("iter break", func(t *testing.T) {
		var seen int
		for range getArgs().Iter() {
			seen++
			break
		}

		require.Equal(t, 1, seen)
	})

	t.Run("empty", func(t *testing.T) {
		require.True(t, New().Empty())
		require.False(t, getArgs().Empty())
		require.Equal(t, 4, getArgs().Len())
	})
}
