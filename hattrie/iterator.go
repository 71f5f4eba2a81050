// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package hattrie

import "github.com/vechain/hattrie/ahtable"

// Iterator enumerates (key, value) pairs depth-first, either in hash-slot
// order per bucket (sorted=false) or strict lexicographic order
// (sorted=true). It has no parent pointers to lean on, so a key is
// reconstructed incrementally as the walk descends, the same trick used by
// the reference implementation's hattrie_iter_t.
type Iterator struct {
	t      *Trie
	sorted bool

	stack []frame

	key   []byte
	level int

	hasNilKey bool
	nilVal    uint64

	bit *ahtable.Iterator

	started bool
	done    bool
}

// frame is one entry of the explicit DFS stack: the node to visit, the byte
// that routed to it from its parent, and the key-buffer depth it occupies.
type frame struct {
	n     node
	c     byte
	level int
}

// Iter begins an iteration over t. Call Next to advance to the first
// (and each subsequent) entry.
func (t *Trie) Iter(sorted bool) *Iterator {
	return &Iterator{
		t:      t,
		sorted: sorted,
		stack:  []frame{{n: t.root, c: 0, level: 0}},
		key:    make([]byte, 0, 16),
	}
}

func (it *Iterator) ensureCap(n int) {
	if cap(it.key) >= n {
		return
	}
	newCap := cap(it.key)
	if newCap == 0 {
		newCap = 16
	}
	for newCap < n {
		newCap *= 2
	}
	grown := make([]byte, len(it.key), newCap)
	copy(grown, it.key)
	it.key = grown
}

func (it *Iterator) pushChar(level int, c byte) {
	it.ensureCap(level)
	if len(it.key) < level {
		it.key = it.key[:level]
	}
	if level > 0 {
		it.key[level-1] = c
	}
	it.level = level
}

// advanceNode pops one stack frame and processes it: a trie node latches
// its own value (if any) and pushes its children in descending byte order
// (so popping yields ascending order), coalescing runs that share a hybrid
// bucket pointer; a bucket positions a fresh bucket iterator on its first
// entry.
func (it *Iterator) advanceNode() {
	fr := it.stack[len(it.stack)-1]
	it.stack = it.stack[:len(it.stack)-1]

	switch n := fr.n.(type) {
	case *trieNode:
		it.pushChar(fr.level, fr.c)

		if n.hasVal {
			it.hasNilKey = true
			it.nilVal = n.val
		}

		maxChar := int(it.t.maxChar)
		for j := maxChar; j >= 0; j-- {
			if j < maxChar && n.children[j] == n.children[j+1] {
				continue
			}
			it.stack = append(it.stack, frame{n: n.children[j], c: byte(j), level: fr.level + 1})
		}

	case *bucket:
		if n.pure {
			it.pushChar(fr.level, fr.c)
		} else {
			it.level = fr.level - 1
		}

		bit := n.table.Iter(it.sorted)
		if bit.Next() {
			it.bit = bit
		} else {
			bit.Close()
		}
	}
}

func (it *Iterator) settle() {
	for it.bit == nil && !it.hasNilKey && len(it.stack) > 0 {
		it.advanceNode()
	}
}

// Next advances the iterator, returning false once exhausted. Call it
// before the first Key/Val read.
func (it *Iterator) Next() bool {
	if it.done {
		return false
	}

	switch {
	case !it.started:
		it.started = true
	case it.bit != nil:
		if !it.bit.Next() {
			it.bit.Close()
			it.bit = nil
		}
	case it.hasNilKey:
		it.hasNilKey = false
		it.nilVal = 0
	}

	it.settle()

	if it.bit == nil && !it.hasNilKey {
		it.done = true
		return false
	}
	return true
}

// Finished reports whether the iterator has no more entries.
func (it *Iterator) Finished() bool {
	return it.done
}

// Key returns the current entry's full key, reconstructed from the
// committed trie-edge prefix and the active bucket iterator's own key
// bytes. Valid until the next Next call.
func (it *Iterator) Key() []byte {
	var sub []byte
	if !it.hasNilKey && it.bit != nil {
		sub = it.bit.Key()
	}

	total := it.level + len(sub)
	it.ensureCap(total)
	if len(it.key) < total {
		it.key = it.key[:total]
	}
	copy(it.key[it.level:], sub)
	return it.key[:total]
}

// Val returns a pointer to the current entry's value.
func (it *Iterator) Val() *uint64 {
	if it.hasNilKey {
		return &it.nilVal
	}
	if it.bit == nil {
		return nil
	}
	return it.bit.Val()
}

// Close releases the iterator's resources, including any open bucket
// iterator.
func (it *Iterator) Close() {
	if it.bit != nil {
		it.bit.Close()
		it.bit = nil
	}
	it.stack = nil
}
