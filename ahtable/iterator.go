// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ahtable

import "sort"

// Iterator walks a Table's entries, in hash-slot order (sorted=false) or
// strict lexicographic order (sorted=true). Deleting through the
// iterator tombstones the slot in place rather than compacting, so an
// in-progress iteration is never invalidated by Del (see SPEC_FULL.md
// §4.2 "must not invalidate ongoing iteration").
type Iterator struct {
	t      *Table
	sorted bool
	order  []int // captured slot indices, only populated when sorted
	pos    int
	cur    int
	done   bool
}

// Iter begins an iteration over t.
func (t *Table) Iter(sorted bool) *Iterator {
	it := &Iterator{t: t, sorted: sorted, cur: -1}
	if sorted {
		order := make([]int, 0, t.count)
		for i := range t.entries {
			if t.entries[i].state == slotOccupied {
				order = append(order, i)
			}
		}
		sort.Slice(order, func(a, b int) bool {
			ka, kb := t.entries[order[a]].key, t.entries[order[b]].key
			return lessKey(ka, kb)
		})
		it.order = order
	}
	return it
}

// lessKey orders shorter prefixes before longer keys that share them,
// and otherwise compares unsigned byte values, per SPEC_FULL.md §8.
func lessKey(a, b []byte) bool {
	n := min(len(a), len(b))
	for i := range n {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}

// Next advances the iterator, returning false once exhausted.
func (it *Iterator) Next() bool {
	if it.done {
		return false
	}
	if it.sorted {
		for it.pos < len(it.order) {
			idx := it.order[it.pos]
			it.pos++
			if it.t.entries[idx].state == slotOccupied {
				it.cur = idx
				return true
			}
		}
	} else {
		for it.pos < len(it.t.entries) {
			idx := it.pos
			it.pos++
			if it.t.entries[idx].state == slotOccupied {
				it.cur = idx
				return true
			}
		}
	}
	it.done = true
	it.cur = -1
	return false
}

// Finished reports whether the iterator has no more entries.
func (it *Iterator) Finished() bool {
	return it.done
}

// Key returns the current entry's key. Valid until the next Next or Del call.
func (it *Iterator) Key() []byte {
	return it.t.entries[it.cur].key
}

// Val returns a pointer to the current entry's value.
func (it *Iterator) Val() *uint64 {
	return &it.t.entries[it.cur].val
}

// Del removes the current entry.
func (it *Iterator) Del() {
	e := &it.t.entries[it.cur]
	e.state = slotTombstone
	e.key = nil
	it.t.count--
	it.t.tombs++
}

// Close releases the iterator's resources (the sorted snapshot, if any).
func (it *Iterator) Close() {
	it.t = nil
	it.order = nil
}
