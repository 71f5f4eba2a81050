// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package xxhash32 supplies the default hash(bytes) -> uint32 primitive
// used by the array hash table. The trie never cares which 32-bit hash
// it is given (callers may substitute their own via hattrie.WithHasher),
// so this just folds the well-tested 64-bit github.com/cespare/xxhash/v2
// digest down to 32 bits rather than reimplementing xxHash32 by hand.
package xxhash32

import "github.com/cespare/xxhash/v2"

// Sum returns a 32-bit hash of key.
func Sum(key []byte) uint32 {
	h := xxhash.Sum64(key)
	return uint32(h ^ (h >> 32))
}
