// Package htable is an open-addressing hash table mapping string keys to
// values. No chaining, no deletion, no tombstones: every occupied slot
// holds a live pair, so an empty slot is conclusive proof of absence.
// Duplicate inserts overwrite in place. The backing array is always a
// prime length and grows automatically once the load factor reaches
// maxLoad.
//
// A Table is single-goroutine by contract, like the other shared/ds
// structures. Callers that need concurrent access serialize externally;
// internal/engine does exactly that with a sharded RWMutex layer.
package htable

import (
	"fmt"
	"math"
)

// maxLoad is the load-factor ceiling. Put resizes as soon as
// itemCount/capacity reaches it, so steady-state occupancy stays below 60%.
const maxLoad = 0.6

type pair[V any] struct {
	key   string
	value V
}

// Table is the open-addressing container. capacity is prime at all times;
// slots never outlive the Table that owns them.
type Table[V any] struct {
	slots     []*pair[V] // nil = empty slot
	capacity  int
	itemCount int
	probe     ProbeKind
}

// New builds a Table able to hold about initialCapacity items before the
// first resize: the backing array is sized nextPrime(ceil(hint/maxLoad)),
// so the hint counts usable entries, not raw slots.
func New[V any](initialCapacity int, kind ProbeKind) (*Table[V], error) {
	if initialCapacity <= 0 {
		return nil, fmt.Errorf("capacity hint %d: %w", initialCapacity, ErrBadCapacity)
	}
	size, err := nextPrime(int(math.Ceil(float64(initialCapacity) / maxLoad)))
	if err != nil {
		return nil, err
	}
	return &Table[V]{
		slots:    make([]*pair[V], size),
		capacity: size,
		probe:    kind,
	}, nil
}

// walk probes from hash(key) until it hits the key, an empty slot, or has
// made capacity attempts. Returns (pos, true) on a key match, (pos, false)
// on an empty slot, (-1, false) when the walk exhausted its budget without
// seeing either (only reachable with quadratic probing, whose sequence can
// skip slots).
//
// The original formulation is tail-recursive; an iterative loop bounded by
// capacity makes the termination guarantee explicit.
func (t *Table[V]) walk(key string) (int, bool) {
	pos := hashKey(key, t.capacity)
	stride := 0
	if t.probe == ProbeDoubleHash {
		stride = secondaryStride(key)
		// A prime capacity larger than dblHashK can never divide the
		// stride. Tiny tables (capacity <= dblHashK) can, which would pin
		// the walk to one slot; fall back to a unit step there.
		if stride%t.capacity == 0 {
			stride = 1
		}
	}
	for step := 1; step <= t.capacity; step++ {
		p := t.slots[pos]
		if p == nil {
			return pos, false
		}
		if p.key == key {
			return pos, true
		}
		pos = t.probe.next(pos, step, stride, t.capacity)
	}
	return -1, false
}

// Put stores value against key, overwriting any existing value for the
// same key without consuming a second slot. The overwrite check probes
// exactly like a lookup; a blind insert would duplicate the key further
// down its probe sequence. Triggers a resize when the load factor reaches
// maxLoad.
func (t *Table[V]) Put(key string, value V) error {
	k, err := NormalizeKey(key)
	if err != nil {
		return err
	}

	pos, found := t.walk(k)
	if found {
		t.slots[pos].value = value
		return nil
	}
	if pos < 0 {
		return fmt.Errorf("key %q: no empty slot within %d probes: %w", k, t.capacity, ErrTableFull)
	}

	t.slots[pos] = &pair[V]{key: k, value: value}
	t.itemCount++

	if float64(t.itemCount)/float64(t.capacity) >= maxLoad {
		return t.resize()
	}
	return nil
}

// Get returns the value stored for key. The second result is false when
// the key is absent; absence is not an error. Because deletion does not
// exist, the walk can stop at the first empty slot.
func (t *Table[V]) Get(key string) (V, bool, error) {
	var zero V
	k, err := NormalizeKey(key)
	if err != nil {
		return zero, false, err
	}
	pos, found := t.walk(k)
	if !found {
		return zero, false, nil
	}
	return t.slots[pos].value, true, nil
}

// HasKey reports whether key is present.
func (t *Table[V]) HasKey(key string) (bool, error) {
	_, ok, err := t.Get(key)
	return ok, err
}

// Keys returns every live key (normalized form) in arbitrary order.
// len(Keys()) == Len().
func (t *Table[V]) Keys() []string {
	keys := make([]string, 0, t.itemCount)
	for _, p := range t.slots {
		if p != nil {
			keys = append(keys, p.key)
		}
	}
	return keys
}

// Len returns the number of live pairs.
func (t *Table[V]) Len() int {
	return t.itemCount
}

// Capacity returns the raw slot count, which is prime at all times.
func (t *Table[V]) Capacity() int {
	return t.capacity
}

// LoadFactor returns itemCount/capacity rounded to 2 decimal places.
// Always below maxLoad after a successful Put.
func (t *Table[V]) LoadFactor() float64 {
	return math.Round(float64(t.itemCount)/float64(t.capacity)*100) / 100
}

// Probe returns the collision strategy the table was built with.
func (t *Table[V]) Probe() ProbeKind {
	return t.probe
}

// resize grows the backing array to nextPrime(2*capacity) and re-inserts
// every live pair through the ordinary Put path, keeping the same probe
// kind. All-or-nothing: the new storage is built on the side and adopted
// only after every pair landed, so no caller can observe a half-migrated
// table. Cannot recurse into another resize, since oldItemCount is below
// maxLoad*oldCapacity and the new array is at least twice as large.
func (t *Table[V]) resize() error {
	newCap, err := nextPrime(2 * t.capacity)
	if err != nil {
		return err
	}
	grown := &Table[V]{
		slots:    make([]*pair[V], newCap),
		capacity: newCap,
		probe:    t.probe,
	}
	for _, p := range t.slots {
		if p == nil {
			continue
		}
		if err := grown.Put(p.key, p.value); err != nil {
			return fmt.Errorf("rehash of %q failed: %w", p.key, err)
		}
	}
	t.slots = grown.slots
	t.capacity = grown.capacity
	t.itemCount = grown.itemCount
	return nil
}
