package htable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProbeKind(t *testing.T) {
	cases := map[string]ProbeKind{
		"":            ProbeLinear,
		"linear":      ProbeLinear,
		"quadratic":   ProbeQuadratic,
		"double":      ProbeDoubleHash,
		"double_hash": ProbeDoubleHash,
	}
	for s, want := range cases {
		got, err := ParseProbeKind(s)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseProbeKind("cubic")
	assert.Error(t, err)
}

// Linear probing must cover every slot of a prime-sized table exactly once
// per lap, from any starting position.
func TestLinearFullCoverage(t *testing.T) {
	const capacity = 7
	for start := 0; start < capacity; start++ {
		visited := map[int]bool{start: true}
		pos := start
		for step := 1; step < capacity; step++ {
			pos = ProbeLinear.next(pos, step, 0, capacity)
			assert.False(t, visited[pos], "slot %d revisited before a full lap", pos)
			visited[pos] = true
		}
		assert.Len(t, visited, capacity)
	}
}

func TestProbeStepsStayInRange(t *testing.T) {
	const capacity = 11
	for _, kind := range []ProbeKind{ProbeLinear, ProbeQuadratic, ProbeDoubleHash} {
		pos := 4
		for step := 1; step <= 3*capacity; step++ {
			pos = kind.next(pos, step, 5, capacity)
			assert.GreaterOrEqual(t, pos, 0, "%s step %d", kind, step)
			assert.Less(t, pos, capacity, "%s step %d", kind, step)
		}
	}
}

// Double hashing advances by the same stride every step.
func TestDoubleHashConstantStride(t *testing.T) {
	const capacity, stride = 13, 5
	pos := 2
	for step := 1; step <= capacity; step++ {
		next := ProbeDoubleHash.next(pos, step, stride, capacity)
		assert.Equal(t, (pos+stride)%capacity, next)
		pos = next
	}
}
