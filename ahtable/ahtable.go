// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package ahtable is an open-addressed array hash table mapping
// byte-string keys to fixed-width uint64 values. It is the bucket leaf of
// the hat-trie in package hattrie, but stands on its own as an
// associative container.
//
// Not safe for concurrent use: the trie above it is single-writer by
// design (see SPEC_FULL.md §5), and this table inherits that assumption
// rather than adding locking no caller needs.
package ahtable

import (
	"bytes"

	"github.com/vechain/hattrie/internal/xxhash32"
	"github.com/vechain/hattrie/metrics"
)

// InitSize is the default number of slots a new Table starts with.
const InitSize = 4096

// maxLoadFactor triggers a resize once (live+tombstoned)/capacity crosses
// it, matching the reference's alpha_max ~= 0.75.
const maxLoadFactorNum, maxLoadFactorDen = 3, 4

type slotState uint8

const (
	slotEmpty slotState = iota
	slotTombstone
	slotOccupied
)

type slot struct {
	state slotState
	hash  uint32
	key   []byte
	val   uint64
}

// Hasher is the external hash(bytes) -> uint32 collaborator named in
// SPEC_FULL.md §1. Any reasonable byte-string hash may be substituted.
type Hasher func([]byte) uint32

// Table is an array hash table keyed by arbitrary byte strings, including
// the empty string.
type Table struct {
	entries []slot
	count   int
	tombs   int
	hasher  Hasher
	initLen int
	stats   Stats
}

var metricResizes = metrics.LazyLoadCounter("ahtable_resizes_total")

// New creates a Table with the default initial size and hasher.
func New() *Table {
	return NewSize(InitSize)
}

// NewSize creates a Table with a caller-chosen initial slot count.
func NewSize(initSize int) *Table {
	return NewSizeHasher(initSize, xxhash32.Sum)
}

// NewSizeHasher creates a Table with a caller-chosen initial slot count
// and hash function, for callers substituting their own hash per
// SPEC_FULL.md's "external pure function" clause.
func NewSizeHasher(initSize int, hasher Hasher) *Table {
	if initSize < 1 {
		initSize = InitSize
	}
	return &Table{hasher: hasher, initLen: initSize}
}

// Size returns the number of live keys in the table.
func (t *Table) Size() int {
	return t.count
}

// TryGet returns a pointer to the value bound to key, or (nil, false) if
// key is absent. It never mutates the table.
func (t *Table) TryGet(key []byte) (*uint64, bool) {
	if len(t.entries) == 0 {
		t.stats.Miss()
		return nil, false
	}
	hash := t.hasher(key)
	idx, found, _ := t.find(key, hash)
	if !found {
		t.stats.Miss()
		return nil, false
	}
	t.stats.Hit()
	return &t.entries[idx].val, true
}

// Get returns a pointer to the value bound to key, inserting a
// zero-valued entry if key is absent. The returned pointer is valid only
// until the next mutating call on the table (Get, Insert, Del, or a
// resize triggered by any of those).
func (t *Table) Get(key []byte) *uint64 {
	t.maybeGrow()

	hash := t.hasher(key)
	idx, found, firstTomb := t.find(key, hash)
	if found {
		t.stats.Hit()
		return &t.entries[idx].val
	}
	t.stats.Miss()

	target := idx
	if firstTomb >= 0 {
		target = firstTomb
		t.tombs--
	}
	e := &t.entries[target]
	e.state = slotOccupied
	e.hash = hash
	e.key = append([]byte(nil), key...)
	e.val = 0
	t.count++
	return &e.val
}

// Insert upserts v for key.
func (t *Table) Insert(key []byte, v uint64) {
	*t.Get(key) = v
}

// Del removes key if present, reporting whether it was.
func (t *Table) Del(key []byte) bool {
	if len(t.entries) == 0 {
		return false
	}
	hash := t.hasher(key)
	idx, found, _ := t.find(key, hash)
	if !found {
		return false
	}
	t.entries[idx] = slot{state: slotTombstone}
	t.count--
	t.tombs++
	return true
}

// find probes for key starting at its hash's home slot. It returns the
// slot index (either key's slot if found, or the first empty slot probed
// otherwise), whether key was found, and the first tombstone slot seen
// along the way (-1 if none), so insertion can reuse a tombstone instead
// of extending the probe chain.
func (t *Table) find(key []byte, hash uint32) (idx int, found bool, firstTomb int) {
	n := len(t.entries)
	firstTomb = -1
	idx = int(hash % uint32(n))
	for range n {
		e := &t.entries[idx]
		switch e.state {
		case slotEmpty:
			return idx, false, firstTomb
		case slotTombstone:
			if firstTomb < 0 {
				firstTomb = idx
			}
		case slotOccupied:
			if e.hash == hash && bytes.Equal(e.key, key) {
				return idx, true, firstTomb
			}
		}
		idx++
		if idx == n {
			idx = 0
		}
	}
	// Every slot probed without an empty one: the load factor guard
	// below should make this unreachable, but fall back to the first
	// tombstone seen (or slot 0) rather than probing forever.
	if firstTomb >= 0 {
		return firstTomb, false, firstTomb
	}
	return 0, false, -1
}

func (t *Table) maybeGrow() {
	if len(t.entries) == 0 {
		t.entries = make([]slot, t.initLen)
		return
	}
	if (t.count+t.tombs)*maxLoadFactorDen >= len(t.entries)*maxLoadFactorNum {
		t.grow()
	}
}

func (t *Table) grow() {
	old := t.entries
	t.entries = make([]slot, len(old)*2)
	t.tombs = 0
	for i := range old {
		e := &old[i]
		if e.state != slotOccupied {
			continue
		}
		idx, _, _ := t.find(e.key, e.hash)
		t.entries[idx] = *e
	}
	metricResizes().Add(1)
}

// Stats returns the table's running hit/miss counters.
func (t *Table) Stats() (hit, miss int64) {
	return t.stats.Get()
}
