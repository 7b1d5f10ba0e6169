// Package bloom is a fixed-size bloom filter used by the engine to skip
// shard lookups for keys that were never inserted. The table above it
// supports no deletion, so a bloom "no" stays correct for the lifetime of
// the store.
//
// Like the other shared/ds structures, a Filter is single-goroutine;
// callers serialize access externally.
package bloom

import (
	"math/bits"

	"github.com/cespare/xxhash/v2"
)

const minBits = 512

type Filter struct {
	data    []uint64
	bitMask uint64 // numBits - 1, numBits is a power of 2
	hashCnt uint64 // number of probe bits per key (k)
	entries uint64
}

// New builds a filter of at least numBits bits (rounded up to a power of
// two) probing k bits per key.
func New(numBits, k uint64) *Filter {
	if numBits < minBits {
		numBits = minBits
	}
	numBits = 1 << bits.Len64(numBits-1)
	if k == 0 {
		k = 4
	}
	return &Filter{
		data:    make([]uint64, numBits/64),
		bitMask: numBits - 1,
		hashCnt: k,
	}
}

// hash derives the double-hashing pair for key: xxhash for h1, a
// SplitMix64 finalizer of it for h2.
func hash(key string) (uint64, uint64) {
	h1 := xxhash.Sum64String(key)
	h2 := h1
	h2 ^= h2 >> 33
	h2 *= 0xff51afd7ed558ccd
	h2 ^= h2 >> 33
	h2 *= 0xc4ceb9fe1a85ec53
	h2 ^= h2 >> 33
	return h1, h2
}

func (f *Filter) Add(key string) {
	h1, h2 := hash(key)
	changed := false
	for i := uint64(0); i < f.hashCnt; i++ {
		idx := (h1 + i*h2) & f.bitMask
		word, bit := idx/64, uint64(1)<<(idx%64)
		if f.data[word]&bit == 0 {
			f.data[word] |= bit
			changed = true
		}
	}
	if changed {
		f.entries++
	}
}

// MayContain reports whether key might have been added. False is
// definitive; true can be a false positive.
func (f *Filter) MayContain(key string) bool {
	h1, h2 := hash(key)
	for i := uint64(0); i < f.hashCnt; i++ {
		idx := (h1 + i*h2) & f.bitMask
		if f.data[idx/64]&(uint64(1)<<(idx%64)) == 0 {
			return false
		}
	}
	return true
}

// Count returns the number of distinct-looking keys added.
func (f *Filter) Count() uint64 {
	return f.entries
}

func (f *Filter) SizeInBytes() int {
	return len(f.data) * 8
}
