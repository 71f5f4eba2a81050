// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package hattrie

import "github.com/vechain/hattrie/ahtable"

const (
	defaultMaxChar       byte = 0xFF
	defaultBucketSize         = 16384
	defaultTableInitSize      = ahtable.InitSize
	defaultSlabSize           = 65536 / 64
)

// Option configures a Trie at construction time, standing in for the
// reference implementation's compile-time `#define` tunables (TRIE_MAXCHAR,
// TRIE_BUCKET_SIZE, AHTABLE_INIT_SIZE, SLAB_SIZE).
type Option func(*options)

type options struct {
	maxChar       byte
	bucketSize    int
	tableInitSize int
	hasher        ahtable.Hasher
	slabSize      int
}

func defaultOptions() options {
	return options{
		maxChar:       defaultMaxChar,
		bucketSize:    defaultBucketSize,
		tableInitSize: defaultTableInitSize,
		slabSize:      defaultSlabSize,
	}
}

// WithMaxChar sets the highest byte value the trie branches on (0xFF by
// default; use 0x7F to restrict the alphabet to ASCII and halve the size of
// every trie node's child array).
func WithMaxChar(c byte) Option {
	return func(o *options) { o.maxChar = c }
}

// WithBucketSize sets the burst threshold: a bucket splits once its entry
// count reaches n. Default 16384.
func WithBucketSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.bucketSize = n
		}
	}
}

// WithTableInitSize sets the initial slot count of every bucket's
// underlying ahtable.Table. Default ahtable.InitSize.
func WithTableInitSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.tableInitSize = n
		}
	}
}

// WithHasher substitutes the hash(bytes) -> uint32 primitive every bucket
// uses, in place of the default internal/xxhash32. Any reasonable
// byte-string hash (FNV-1a, Murmur3, ...) satisfies spec.md §1's "external
// pure function" clause.
func WithHasher(h func([]byte) uint32) Option {
	return func(o *options) { o.hasher = h }
}

// WithSlabSize sets how many trie-node records each underlying slab holds.
// Default packs roughly 64 KiB worth of records, matching the reference
// SLAB_SIZE.
func WithSlabSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.slabSize = n
		}
	}
}
