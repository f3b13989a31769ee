package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/masomo-lms/core"
)

// CheckMedium runs the behaviour every core.Medium must share.
func CheckMedium(t *testing.T, medium core.Medium) {
	t.Helper()
	ctx := context.Background()

	t.Run("get missing key", func(t *testing.T) {
		_, err := medium.Get(ctx, "missing")
		assert.Equal(t, core.ErrKeyNotFound, err)
	})

	t.Run("put then get", func(t *testing.T) {
		require.NoError(t, medium.Put(ctx, "k1", []byte(`{"users":[]}`)))
		got, err := medium.Get(ctx, "k1")
		require.NoError(t, err)
		assert.Equal(t, `{"users":[]}`, string(got))
	})

	t.Run("put overwrites", func(t *testing.T) {
		require.NoError(t, medium.Put(ctx, "k1", []byte("v1")))
		require.NoError(t, medium.Put(ctx, "k1", []byte("v2")))
		got, err := medium.Get(ctx, "k1")
		require.NoError(t, err)
		assert.Equal(t, "v2", string(got))
	})

	t.Run("keys are independent", func(t *testing.T) {
		require.NoError(t, medium.Put(ctx, "k1", []byte("main")))
		require.NoError(t, medium.Put(ctx, "k2", []byte("session")))
		require.NoError(t, medium.Delete(ctx, "k2"))

		got, err := medium.Get(ctx, "k1")
		require.NoError(t, err)
		assert.Equal(t, "main", string(got))
		_, err = medium.Get(ctx, "k2")
		assert.Equal(t, core.ErrKeyNotFound, err)
	})

	t.Run("returned bytes are a copy", func(t *testing.T) {
		require.NoError(t, medium.Put(ctx, "k3", []byte("abc")))
		got, err := medium.Get(ctx, "k3")
		require.NoError(t, err)
		got[0] = 'x'

		again, err := medium.Get(ctx, "k3")
		require.NoError(t, err)
		assert.Equal(t, "abc", string(again))
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		assert.NoError(t, medium.Delete(ctx, "never-stored"))
		require.NoError(t, medium.Put(ctx, "k4", []byte("v")))
		assert.NoError(t, medium.Delete(ctx, "k4"))
		assert.NoError(t, medium.Delete(ctx, "k4"))
	})
}
