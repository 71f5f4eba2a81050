// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package hattrie

import "github.com/vechain/hattrie/ahtable"

// nodeKind discriminates the three kinds a node can be, replacing the
// reference implementation's shared flag byte (a trie-node and a bucket
// record cannot be told apart by address alone in Go, so dispatch is done
// through the node interface instead).
type nodeKind uint8

const (
	kindTrie nodeKind = iota
	kindPureBucket
	kindHybridBucket
)

// node is satisfied by *trieNode and *bucket, replacing the C source's
// tagged union of trie-node and ahtable pointers sharing a flag offset.
type node interface {
	kind() nodeKind
}

// trieNode is an internal branching node: a child slot per possible
// leading byte, plus an optional value for the empty suffix consumed up to
// and including this node's inbound edge.
type trieNode struct {
	entry *trieNodeEntry // back-pointer to the slab record housing this node

	hasVal bool
	val    uint64

	// children[c] holds the node reached by branching on byte c. Several
	// adjacent indices may share the same *bucket pointer, covering a
	// contiguous leading-byte range; see bucket.c0/c1.
	children []node
}

func (n *trieNode) kind() nodeKind { return kindTrie }

// bucket is a leaf array-hash-table, either pure (its keys have had their
// single shared leading byte stripped, consumed by the parent edge) or
// hybrid (keys keep their leading byte, which ranges over [c0, c1]).
type bucket struct {
	table *ahtable.Table
	c0    byte
	c1    byte
	pure  bool
}

func (b *bucket) kind() nodeKind {
	if b.pure {
		return kindPureBucket
	}
	return kindHybridBucket
}

func (b *bucket) size() int { return b.table.Size() }
