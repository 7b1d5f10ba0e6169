package htable

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isPrimeByTrial is the deterministic oracle the tests use to check the
// probabilistic sizing machinery.
func isPrimeByTrial(n int) bool {
	if n < 2 {
		return false
	}
	for d := 2; d*d <= n; d++ {
		if n%d == 0 {
			return false
		}
	}
	return true
}

func TestRoundTrip(t *testing.T) {
	for _, kind := range []ProbeKind{ProbeLinear, ProbeQuadratic, ProbeDoubleHash} {
		t.Run(kind.String(), func(t *testing.T) {
			tbl, err := New[int](50, kind)
			require.NoError(t, err)

			for i := 0; i < 30; i++ {
				require.NoError(t, tbl.Put(fmt.Sprintf("key:%d", i), i*10))
			}
			for i := 0; i < 30; i++ {
				v, ok, err := tbl.Get(fmt.Sprintf("key:%d", i))
				require.NoError(t, err)
				assert.True(t, ok, "key:%d should be present", i)
				assert.Equal(t, i*10, v)
			}
		})
	}
}

func TestOverwrite(t *testing.T) {
	tbl, err := New[string](10, ProbeLinear)
	require.NoError(t, err)

	require.NoError(t, tbl.Put("dup", "first"))
	count := tbl.Len()
	require.NoError(t, tbl.Put("dup", "second"))

	assert.Equal(t, count, tbl.Len(), "overwrite must not change item count")

	v, ok, err := tbl.Get("dup")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "second", v)

	// Exactly one live slot holds the key.
	occupied := 0
	for _, p := range tbl.slots {
		if p != nil && p.key == "dup" {
			occupied++
		}
	}
	assert.Equal(t, 1, occupied)
}

func TestAbsence(t *testing.T) {
	tbl, err := New[bool](100, ProbeLinear)
	require.NoError(t, err)

	_, ok, err := tbl.Get("missing")
	require.NoError(t, err)
	assert.False(t, ok, "empty table must miss")

	require.NoError(t, tbl.Put("yes", true))
	_, ok, err = tbl.Get("no")
	require.NoError(t, err)
	assert.False(t, ok, "populated table must miss a never-inserted key")

	has, err := tbl.HasKey("yes")
	require.NoError(t, err)
	assert.True(t, has)
}

func TestInvalidKeys(t *testing.T) {
	tbl, err := New[int](10, ProbeLinear)
	require.NoError(t, err)

	for _, bad := range []string{"has space", "tab\tkey", "héllo", "semi;colon", "a,b"} {
		err := tbl.Put(bad, 1)
		assert.ErrorIs(t, err, ErrInvalidKey, "key %q", bad)
		_, _, err = tbl.Get(bad)
		assert.ErrorIs(t, err, ErrInvalidKey, "key %q", bad)
	}

	assert.ErrorIs(t, tbl.Put("", 1), ErrEmptyKey)
	assert.Equal(t, 0, tbl.Len(), "rejected keys must not mutate the table")
}

func TestCaseFolding(t *testing.T) {
	tbl, err := New[int](10, ProbeLinear)
	require.NoError(t, err)

	require.NoError(t, tbl.Put("MixedCase", 7))
	v, ok, err := tbl.Get("mixedcase")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 7, v)

	require.NoError(t, tbl.Put("MIXEDCASE", 8))
	assert.Equal(t, 1, tbl.Len(), "folded spellings are one key")
	v, _, _ = tbl.Get("MixedCASE")
	assert.Equal(t, 8, v)
	assert.Equal(t, []string{"mixedcase"}, tbl.Keys())
}

func TestBadCapacityHint(t *testing.T) {
	_, err := New[int](0, ProbeLinear)
	assert.ErrorIs(t, err, ErrBadCapacity)
	_, err = New[int](-5, ProbeLinear)
	assert.ErrorIs(t, err, ErrBadCapacity)
}

func TestCapacityAlwaysPrime(t *testing.T) {
	for _, hint := range []int{1, 3, 9, 20, 100, 1000} {
		tbl, err := New[int](hint, ProbeLinear)
		require.NoError(t, err)
		assert.True(t, isPrimeByTrial(tbl.Capacity()),
			"capacity %d for hint %d is not prime", tbl.Capacity(), hint)
	}

	// Force several resizes and re-check after each capacity change.
	tbl, err := New[int](3, ProbeLinear)
	require.NoError(t, err)
	last := tbl.Capacity()
	for i := 0; i < 200; i++ {
		require.NoError(t, tbl.Put(fmt.Sprintf("k%d", i), i))
		if tbl.Capacity() != last {
			assert.True(t, isPrimeByTrial(tbl.Capacity()),
				"post-resize capacity %d is not prime", tbl.Capacity())
			assert.Greater(t, tbl.Capacity(), 2*last)
			last = tbl.Capacity()
		}
	}
}

func TestLoadFactorCeiling(t *testing.T) {
	tbl, err := New[int](5, ProbeLinear)
	require.NoError(t, err)
	for i := 0; i < 300; i++ {
		require.NoError(t, tbl.Put(fmt.Sprintf("item-%d", i), i))
		lf := float64(tbl.Len()) / float64(tbl.Capacity())
		assert.Less(t, lf, maxLoad, "load factor after put %d", i)
		assert.Less(t, tbl.LoadFactor(), 1.0)
	}
}

func TestResizePreservesContents(t *testing.T) {
	for _, kind := range []ProbeKind{ProbeLinear, ProbeDoubleHash} {
		t.Run(kind.String(), func(t *testing.T) {
			tbl, err := New[int](3, kind)
			require.NoError(t, err)
			startCap := tbl.Capacity()

			const n = 80
			want := map[string]int{}
			for i := 0; i < n; i++ {
				k := fmt.Sprintf("stable:%d", i)
				want[k] = i
				require.NoError(t, tbl.Put(k, i))
			}
			require.Greater(t, tbl.Capacity(), startCap, "expected at least one resize")

			keys := tbl.Keys()
			assert.Len(t, keys, n)
			assert.Equal(t, tbl.Len(), len(keys))

			got := map[string]int{}
			for _, k := range keys {
				v, ok, err := tbl.Get(k)
				require.NoError(t, err)
				require.True(t, ok)
				got[k] = v
			}
			assert.Equal(t, want, got)
		})
	}
}

// The capacity-hint-3 scenario: three inserts, then repeated overwrites of
// the last key must neither grow the table nor lose the newest value.
func TestScenarioLinearOverwrite(t *testing.T) {
	tbl, err := New[int](3, ProbeLinear)
	require.NoError(t, err)
	assert.Equal(t, 5, tbl.Capacity(), "hint 3 / maxLoad 0.6 rounds up to the prime 5")

	require.NoError(t, tbl.Put("abc", 4))
	require.NoError(t, tbl.Put("def", 5))
	require.NoError(t, tbl.Put("ghi", 6))

	before := tbl.Len()
	for _, v := range []int{7, 8, 9, 10} {
		require.NoError(t, tbl.Put("ghi", v))
	}
	assert.Equal(t, before, tbl.Len())

	v, ok, err := tbl.Get("ghi")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 10, v)
}

// Two keys with the same primary slot but different strides must land on
// their own double-hash sequences instead of degrading to a linear scan.
func TestScenarioDoubleHashCollision(t *testing.T) {
	tbl, err := New[int](60, ProbeDoubleHash)
	require.NoError(t, err)
	capacity := tbl.Capacity()

	// Hunt for a colliding pair whose strides differ and are not 1.
	var k1, k2 string
	var stride2 int
search:
	for i := 0; i < 500; i++ {
		for j := i + 1; j < 500; j++ {
			a, b := fmt.Sprintf("col%d", i), fmt.Sprintf("col%d", j)
			if hashKey(a, capacity) != hashKey(b, capacity) {
				continue
			}
			sa, sb := secondaryStride(a), secondaryStride(b)
			if sa != sb && sb != 1 {
				k1, k2, stride2 = a, b, sb
				break search
			}
		}
	}
	require.NotEmpty(t, k1, "no colliding pair found; alphabet or capacity changed?")

	require.NoError(t, tbl.Put(k1, 1))
	require.NoError(t, tbl.Put(k2, 2))

	home := hashKey(k2, capacity)
	require.NotNil(t, tbl.slots[home])
	assert.Equal(t, k1, tbl.slots[home].key, "first key keeps the home slot")

	step := tbl.slots[(home+stride2)%capacity]
	require.NotNil(t, step, "second key must sit one stride away")
	assert.Equal(t, k2, step.key)
	assert.Nil(t, tbl.slots[(home+1)%capacity], "slot next door stays empty: no linear fallback")

	for _, k := range []string{k1, k2} {
		_, ok, err := tbl.Get(k)
		require.NoError(t, err)
		assert.True(t, ok, "key %q retrievable", k)
	}
}

func TestKeysMatchesLiveSet(t *testing.T) {
	tbl, err := New[int](20, ProbeLinear)
	require.NoError(t, err)

	inserted := []string{"bananas", "pyjamas", "kedgeree", "abc", "def"}
	for i, k := range inserted {
		require.NoError(t, tbl.Put(k, i))
	}

	keys := tbl.Keys()
	assert.Len(t, keys, len(inserted))
	assert.ElementsMatch(t, inserted, keys)
}
