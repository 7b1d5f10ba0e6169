// File: internal/engine/store.go
package engine

import (
	"sync"

	"github.com/cespare/xxhash/v2"

	"github.com/AutoCookies/pomai-htable/internal/engine/metrics"
	"github.com/AutoCookies/pomai-htable/shared/ds/bloom"
	"github.com/AutoCookies/pomai-htable/shared/ds/htable"
)

const (
	defaultShardCount   = 32
	defaultCapacityHint = 1024
)

// A htable.Table is single-goroutine by contract. Store is the external
// serialization layer around it: keys are spread over shards by xxhash,
// each shard pairing one table with its own RWMutex.
type shard struct {
	mu    sync.RWMutex
	table *htable.Table[[]byte]
}

type Store struct {
	shards []*shard

	// Optional negative-lookup filter. The table never deletes, so a
	// bloom "no" is always conclusive here.
	bloomMu sync.RWMutex
	bloom   *bloom.Filter
}

// ShardStats is a point-in-time view of one shard.
type ShardStats struct {
	Items      int     `json:"items"`
	Capacity   int     `json:"capacity"`
	LoadFactor float64 `json:"load_factor"`
}

type Stats struct {
	Probe  string       `json:"probe"`
	Items  int          `json:"items"`
	Shards []ShardStats `json:"shards"`
}

// NewStore builds shardCount shards, splitting capacityHint evenly between
// them. Zero or negative arguments fall back to defaults.
func NewStore(shardCount, capacityHint int, kind htable.ProbeKind) (*Store, error) {
	if shardCount <= 0 {
		shardCount = defaultShardCount
	}
	if capacityHint <= 0 {
		capacityHint = defaultCapacityHint
	}
	perShard := capacityHint / shardCount
	if perShard < 1 {
		perShard = 1
	}

	s := &Store{shards: make([]*shard, shardCount)}
	for i := range s.shards {
		t, err := htable.New[[]byte](perShard, kind)
		if err != nil {
			return nil, err
		}
		s.shards[i] = &shard{table: t}
	}
	return s, nil
}

// EnableBloomFilter installs a bloom filter so Get can answer misses
// without touching a shard. numBits is the filter size in bits, k the
// probe bits per key.
func (s *Store) EnableBloomFilter(numBits, k uint64) {
	s.bloomMu.Lock()
	s.bloom = bloom.New(numBits, k)
	s.bloomMu.Unlock()
}

// shardFor picks the shard for an already-normalized key. Normalizing
// first matters: "ABC" and "abc" are the same key and must share a shard.
func (s *Store) shardFor(key string) *shard {
	return s.shards[xxhash.Sum64String(key)%uint64(len(s.shards))]
}

func (s *Store) Put(key string, value []byte) error {
	k, err := htable.NormalizeKey(key)
	if err != nil {
		metrics.IncInvalidKey()
		return err
	}

	sh := s.shardFor(k)
	sh.mu.Lock()
	before := sh.table.Capacity()
	err = sh.table.Put(k, value)
	after := sh.table.Capacity()
	sh.mu.Unlock()
	if err != nil {
		return err
	}

	s.bloomMu.Lock()
	if s.bloom != nil {
		s.bloom.Add(k)
	}
	s.bloomMu.Unlock()

	metrics.IncPut()
	if after != before {
		metrics.IncResize()
	}
	s.publishGauges()
	return nil
}

func (s *Store) Get(key string) ([]byte, bool, error) {
	k, err := htable.NormalizeKey(key)
	if err != nil {
		metrics.IncInvalidKey()
		return nil, false, err
	}

	s.bloomMu.RLock()
	if s.bloom != nil && !s.bloom.MayContain(k) {
		s.bloomMu.RUnlock()
		metrics.IncBloomSkip()
		metrics.IncGet(false)
		return nil, false, nil
	}
	s.bloomMu.RUnlock()

	sh := s.shardFor(k)
	sh.mu.RLock()
	v, ok, err := sh.table.Get(k)
	sh.mu.RUnlock()
	if err != nil {
		return nil, false, err
	}

	metrics.IncGet(ok)
	return v, ok, nil
}

func (s *Store) Has(key string) (bool, error) {
	_, ok, err := s.Get(key)
	return ok, err
}

// Keys collects the live keys of every shard. Arbitrary order, size equals
// the aggregate item count at the moment each shard was visited.
func (s *Store) Keys() []string {
	var keys []string
	for _, sh := range s.shards {
		sh.mu.RLock()
		keys = append(keys, sh.table.Keys()...)
		sh.mu.RUnlock()
	}
	return keys
}

func (s *Store) Len() int {
	total := 0
	for _, sh := range s.shards {
		sh.mu.RLock()
		total += sh.table.Len()
		sh.mu.RUnlock()
	}
	return total
}

func (s *Store) Stats() Stats {
	st := Stats{
		Probe:  s.shards[0].table.Probe().String(),
		Shards: make([]ShardStats, 0, len(s.shards)),
	}
	for _, sh := range s.shards {
		sh.mu.RLock()
		ss := ShardStats{
			Items:      sh.table.Len(),
			Capacity:   sh.table.Capacity(),
			LoadFactor: sh.table.LoadFactor(),
		}
		sh.mu.RUnlock()
		st.Items += ss.Items
		st.Shards = append(st.Shards, ss)
	}
	return st
}

func (s *Store) publishGauges() {
	items, slots := 0, 0
	for _, sh := range s.shards {
		sh.mu.RLock()
		items += sh.table.Len()
		slots += sh.table.Capacity()
		sh.mu.RUnlock()
	}
	metrics.SetItems(items)
	metrics.SetCapacitySlots(slots)
}
