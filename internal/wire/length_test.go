package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMinimumWidthFor(t *testing.T) {
	cases := []struct {
		n    uint64
		want Width
	}{
		{0, Width1},
		{255, Width1},
		{256, Width2},
		{1<<16 - 1, Width2},
		{1 << 16, Width4},
		{1<<32 - 1, Width4},
	}
	for _, c := range cases {
		got, err := MinimumWidthFor(c.n)
		require.NoError(t, err)
		assert.Equal(t, c.want, got)
	}

	_, err := MinimumWidthFor(1 << 32)
	require.Error(t, err)
	assert.Equal(t, KindTooLong, err.(*Error).Kind)
}

func TestSelectActualNonTLV(t *testing.T) {
	t.Run("fits", func(t *testing.T) {
		w, err := SelectActual(Width2, 100, false, Smallest)
		require.NoError(t, err)
		assert.Equal(t, Width2, w)
	})

	t.Run("too long", func(t *testing.T) {
		_, err := SelectActual(Width1, 1000, false, Smallest)
		require.Error(t, err)
		assert.Equal(t, KindTooLong, err.(*Error).Kind)
	})
}

func TestSelectActualTLV(t *testing.T) {
	t.Run("smallest ignores configured", func(t *testing.T) {
		w, err := SelectActual(Width4, 10, true, Smallest)
		require.NoError(t, err)
		assert.Equal(t, Width1, w)
	})

	t.Run("as-configured keeps configured when it fits", func(t *testing.T) {
		w, err := SelectActual(Width4, 10, true, AsConfigured)
		require.NoError(t, err)
		assert.Equal(t, Width4, w)
	})

	t.Run("as-configured grows when too small", func(t *testing.T) {
		w, err := SelectActual(Width1, 1000, true, AsConfigured)
		require.NoError(t, err)
		assert.Equal(t, Width2, w)
	})
}
