package util

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEaseAliases(t *testing.T) {
	for _, name := range []string{"easeInOutQuad", "in-out-quad", "InOutQuad", " in_out_quad "} {
		f, err := Ease(name)
		require.NoError(t, err, name)
		assert.InDelta(t, 0.5, f(0.5), 1e-9, name)
		assert.InDelta(t, 0.125, f(0.25), 1e-9, name)
	}
}

func TestEaseLinear(t *testing.T) {
	f, err := Ease("linear")
	require.NoError(t, err)
	for _, x := range []float64{0, 0.1, 0.5, 0.9, 1} {
		assert.InDelta(t, x, f(x), 1e-9)
	}
}

func TestEaseEndpoints(t *testing.T) {
	families := []string{"quad", "cubic", "quart", "quint", "sine", "circ"}
	names := []string{"linear"}
	for _, fam := range families {
		names = append(names, "in"+fam, "out"+fam, "inout"+fam)
	}
	for _, name := range names {
		f, err := Ease(name)
		require.NoError(t, err, name)
		assert.InDelta(t, 0, f(0), 1e-6, name)
		assert.InDelta(t, 1, f(1), 1e-6, name)
	}
}

func TestEaseUnknown(t *testing.T) {
	_, err := Ease("wobble")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownEase))
	assert.Contains(t, err.Error(), "wobble")
}

func TestEaseNamesSorted(t *testing.T) {
	names := EaseNames()
	require.NotEmpty(t, names)
	assert.IsIncreasing(t, names)
	assert.Contains(t, names, "linear")
}
