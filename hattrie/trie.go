// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package hattrie implements a HAT-trie: a hybrid trie / array-hash-table
// associative container mapping byte strings (including the empty string)
// to uint64 values, optimized for cache-efficient insertion and lookup of
// large key sets. See SPEC_FULL.md for the full design.
//
// A Trie is not safe for concurrent use. Callers must serialize all
// mutating and iterating calls themselves; there is no internal locking.
// Pointers returned by Get, TryGet, and the iterator's Val are valid only
// until the next mutating call on the same Trie — a burst triggered by an
// unrelated Get can silently invalidate a pointer obtained moments earlier.
package hattrie

import (
	"github.com/vechain/hattrie/ahtable"
	"github.com/vechain/hattrie/internal/invariant"
	"github.com/vechain/hattrie/internal/xxhash32"
	"github.com/vechain/hattrie/log"
	"github.com/vechain/hattrie/metrics"
	"github.com/vechain/hattrie/slab"
)

type trieNodeEntry = slab.Entry[trieNode]

var logger = log.WithContext("pkg", "hattrie")

// SetLogger overrides the package-level logger, following the override
// hook convention used by this module's other long-lived components.
func SetLogger(l log.Logger) { logger = l }

var metricBursts = metrics.LazyLoadCounterVec("burst_total", []string{"kind"})

func recordBurst(kind string) {
	metricBursts().AddWithLabel(1, map[string]string{"kind": kind})
}

// Trie is a HAT-trie mapping byte strings to uint64 values.
type Trie struct {
	root *trieNode
	m    uint64

	nodes *slab.Cache[trieNode]

	alphabetSize  int
	maxChar       byte
	bucketSize    int
	tableInitSize int
	hasher        ahtable.Hasher
}

// New creates an empty Trie. With no options it uses the reference
// defaults: a 256-wide alphabet, a 16384-entry burst threshold, and
// internal/xxhash32 as the hash primitive.
func New(opts ...Option) *Trie {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.hasher == nil {
		o.hasher = xxhash32.Sum
	}

	t := &Trie{
		alphabetSize:  int(o.maxChar) + 1,
		maxChar:       o.maxChar,
		bucketSize:    o.bucketSize,
		tableInitSize: o.tableInitSize,
		hasher:        o.hasher,
	}
	t.nodes = slab.NewCache[trieNode](o.slabSize, true)

	root := t.newBucket(0x00, o.maxChar, false)
	t.root = t.allocTrieNode(root)

	return t
}

// Close releases every node and bucket owned by the Trie. The Trie must
// not be used afterward.
func (t *Trie) Close() {
	// Walk the trie with an explicit stack rather than recursion: a long
	// shared-prefix trie can run deeper than the goroutine's default stack
	// comfortably tolerates (SPEC_FULL.md §5, "prefer an explicit work
	// stack").
	stack := []*trieNode{t.root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		var prev node
		for _, child := range n.children {
			if child == prev {
				continue
			}
			prev = child
			switch c := child.(type) {
			case *trieNode:
				stack = append(stack, c)
			case *bucket:
				// Nothing to explicitly free: c.table becomes garbage once
				// unreferenced.
			}
		}
		t.freeTrieNode(n)
	}
	t.nodes.Destroy()
	t.root = nil
}

// Size returns the number of keys currently stored.
func (t *Trie) Size() uint64 { return t.m }

func (t *Trie) newBucket(c0, c1 byte, pure bool) *bucket {
	return &bucket{
		table: ahtable.NewSizeHasher(t.tableInitSize, t.hasher),
		c0:    c0,
		c1:    c1,
		pure:  pure,
	}
}

// allocTrieNode creates a fresh trie node whose every child slot initially
// points to child (which may itself be nil only during construction of the
// node literal, never observable by callers).
func (t *Trie) allocTrieNode(child node) *trieNode {
	e := t.nodes.Alloc()
	e.Value = trieNode{
		entry:    e,
		children: make([]node, t.alphabetSize),
	}
	for i := range e.Value.children {
		e.Value.children[i] = child
	}
	return &e.Value
}

func (t *Trie) freeTrieNode(n *trieNode) {
	t.nodes.Free(n.entry)
}

// consume walks trie edges starting at the child of **parent** indexed by
// key[0], advancing past each trie node encountered while len(key) > brk.
// key must be non-empty (callers handle the zero-length key themselves,
// before ever reaching consume). It returns the first non-trie child
// reached, or the last trie node descended into once len(key) drops to
// brk. brk=1 is used by lookup and delete (leaves a byte for the bucket to
// index); brk=0 by insert.
//
// The reference C implementation indexes one byte past the last one
// consumed before checking whether it should have stopped, relying on a
// lookahead byte that brk=0 callers don't actually have once the key is
// fully consumed. The Go port checks length before each index instead,
// landing on the trie node itself in that case — the same outcome the
// spec documents, reached without reading past the key.
func consume(parent **trieNode, key []byte, brk int) (n node, rem []byte) {
	p := *parent
	n = p.children[key[0]]
	for {
		tn, isTrie := n.(*trieNode)
		if !isTrie || len(key) <= brk {
			break
		}
		key = key[1:]
		p = tn
		if len(key) == 0 {
			n = tn
			break
		}
		n = tn.children[key[0]]
	}
	*parent = p
	return n, key
}

// TryGet returns a pointer to the value bound to key, or (nil, false) if
// key is absent. It never mutates the trie.
func (t *Trie) TryGet(key []byte) (*uint64, bool) {
	if len(key) == 0 {
		if t.root.hasVal {
			return &t.root.val, true
		}
		return nil, false
	}

	parent := t.root
	n, rest := consume(&parent, key, 1)

	switch v := n.(type) {
	case *trieNode:
		if v.hasVal {
			return &v.val, true
		}
		return nil, false
	case *bucket:
		if v.pure {
			return v.table.TryGet(rest[1:])
		}
		return v.table.TryGet(rest)
	}
	panic("hattrie: unreachable node kind")
}

// Get returns a pointer to the value bound to key, inserting a zero value
// if key is absent. The returned pointer is valid only until the next
// mutating call on the Trie.
func (t *Trie) Get(key []byte) *uint64 {
	if len(key) == 0 {
		return t.useVal(t.root)
	}

	parent := t.root
	n, rest := consume(&parent, key, 0)

	if len(rest) == 0 {
		switch v := n.(type) {
		case *trieNode:
			return t.useVal(v)
		case *bucket:
			if !v.pure {
				// The empty residual belongs to the parent trie node, per
				// spec.md §4.3.3: reaching a hybrid bucket with len==0
				// means the leading byte that routed us here was the last
				// byte of the key, and that byte is still unconsumed by
				// the bucket itself. The empty suffix is recorded on the
				// trie node one level up instead.
				return t.useVal(parent)
			}
		}
	}

	b := n.(*bucket)
	for b.size() >= t.bucketSize {
		t.burst(parent, b)
		n, rest = consume(&parent, rest, 0)
		if len(rest) == 0 {
			switch v := n.(type) {
			case *trieNode:
				return t.useVal(v)
			case *bucket:
				if !v.pure {
					return t.useVal(parent)
				}
			}
		}
		b = n.(*bucket)
	}

	before := b.size()
	var val *uint64
	if b.pure {
		val = b.table.Get(rest[1:])
	} else {
		val = b.table.Get(rest)
	}
	t.m += uint64(b.size() - before)
	return val
}

func (t *Trie) useVal(n *trieNode) *uint64 {
	if !n.hasVal {
		n.hasVal = true
		t.m++
	}
	return &n.val
}

// Del removes key, reporting whether it was present.
func (t *Trie) Del(key []byte) bool {
	if len(key) == 0 {
		if !t.root.hasVal {
			return false
		}
		t.root.hasVal = false
		t.root.val = 0
		t.m--
		return true
	}

	parent := t.root
	n, rest := consume(&parent, key, 1)

	switch v := n.(type) {
	case *trieNode:
		if !v.hasVal {
			return false
		}
		v.hasVal = false
		v.val = 0
		t.m--
		return true
	case *bucket:
		var ok bool
		before := v.size()
		if v.pure {
			ok = v.table.Del(rest[1:])
		} else {
			ok = v.table.Del(rest)
		}
		t.m -= uint64(before - v.size())
		return ok
	}
	panic("hattrie: unreachable node kind")
}

// burst splits b, reparenting through parent. A pure bucket is promoted to
// a hybrid bucket behind a new trie node; a hybrid bucket is split in two
// by leading byte. See SPEC_FULL.md §4.3.4.
func (t *Trie) burst(parent *trieNode, b *bucket) {
	invariant.Check(b.c1 >= b.c0, "hattrie: burst on bucket with inverted range [%d,%d]", b.c0, b.c1)

	if b.pure {
		t.burstPromote(parent, b)
		return
	}
	t.burstSplit(parent, b)
}

// burstPromote turns a pure bucket into a hybrid one behind a freshly
// allocated trie node, without moving any key (SPEC_FULL.md §4.3.4,
// "pure -> hybrid promotion").
func (t *Trie) burstPromote(parent *trieNode, b *bucket) {
	recordBurst("promotion")
	logger.Trace("burst: pure to hybrid", "leading", b.c0)

	newNode := t.allocTrieNode(b)
	parent.children[b.c0] = newNode

	// If the bucket holds the empty-suffix key (stripped of its leading
	// byte by pure-bucket semantics before reaching here), that value
	// belongs on the new trie node instead.
	if val, ok := b.table.TryGet(nil); ok {
		newNode.hasVal = true
		newNode.val = *val
		b.table.Del(nil)
	}

	b.c0 = 0x00
	b.c1 = t.maxChar
	b.pure = false
}

// burstSplit performs a proper hybrid-bucket split into two ranges,
// reusing b for whichever side stays hybrid (SPEC_FULL.md §4.3.4, "hybrid
// split").
func (t *Trie) burstSplit(parent *trieNode, b *bucket) {
	j, _, _ := t.splitPoint(b)

	c0, c1 := b.c0, b.c1

	var left, right *bucket
	if j+1 == c1 { // right becomes pure
		right = t.newBucket(j+1, c1, true)
		if j == c0 { // left becomes pure as well
			left = t.newBucket(c0, j, true)
		} else {
			left = b
		}
	} else { // right stays hybrid, reuse b
		right = b
		left = t.newBucket(c0, j, j == c0)
	}

	left.c0, left.c1 = c0, j
	left.pure = c0 == j
	right.c0, right.c1 = j+1, c1
	right.pure = right.c0 == right.c1

	for c := int(c0); c <= int(j); c++ {
		parent.children[c] = left
	}
	for c := int(j) + 1; c <= int(c1); c++ {
		parent.children[c] = right
	}

	recordBurst("split")
	logger.Trace("burst: hybrid split", "c0", c0, "c1", c1, "j", j)

	t.splitFill(b, left, right, j)

	// When neither side reuses b, its entries were copied (never deleted)
	// into the two new tables; b itself is simply dropped here and becomes
	// garbage once the parent's child slots above stop referencing it.
}

// splitPoint counts leading-byte occurrences across b's keys and walks a
// greedy balancing loop exactly as the reference implementation does,
// stopping at the first non-improving step rather than searching for a
// global optimum (SPEC_FULL.md §9: "preserved verbatim ... for stable node
// layout").
func (t *Trie) splitPoint(b *bucket) (j byte, leftM, rightM int) {
	var cs [256]int
	it := b.table.Iter(false)
	for it.Next() {
		k := it.Key()
		invariant.Check(len(k) > 0, "hattrie: hybrid bucket holds a zero-length key")
		cs[k[0]]++
	}
	it.Close()

	allM := b.size()
	j = b.c0
	leftM = cs[j]
	rightM = allM - leftM

	for int(j)+1 < int(b.c1) {
		next := cs[j+1]
		d := abs(leftM+next - (rightM - next))
		if d <= abs(leftM-rightM) && leftM+next < allM {
			j++
			leftM += cs[j]
			rightM -= cs[j]
		} else {
			break
		}
	}
	return j, leftM, rightM
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// splitFill redistributes src's keys into left and right according to the
// split byte, mirroring the reference's in-place shuffle: entries destined
// for a bucket that is also src are left untouched, entries destined for
// the other bucket are copied then deleted from src.
func (t *Trie) splitFill(src, left, right *bucket, split byte) {
	it := src.table.Iter(false)
	for it.Next() {
		k := it.Key()
		v := *it.Val()
		invariant.Check(len(k) > 0, "hattrie: hybrid bucket holds a zero-length key")

		if k[0] > split {
			if src != right {
				if right.pure {
					right.table.Insert(k[1:], v)
				} else {
					right.table.Insert(k, v)
				}
				if src == left {
					it.Del()
					continue
				}
			}
		} else {
			if src != left {
				if left.pure {
					left.table.Insert(k[1:], v)
				} else {
					left.table.Insert(k, v)
				}
				if src == right {
					it.Del()
					continue
				}
			}
		}
	}
	it.Close()
}
