// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package hattrie

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestPropertyAgainstReferenceMap drives a randomized sequence of Get/Del
// calls against both a Trie and a plain Go map, the same cross-check style
// the teacher's api/fees and txpool tests use against a hand-built
// expectation, and asserts the two never diverge.
func TestPropertyAgainstReferenceMap(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	tr := New(WithBucketSize(12))
	defer tr.Close()

	ref := make(map[string]uint64)
	universe := make([]string, 300)
	for i := range universe {
		universe[i] = fmt.Sprintf("k-%03d", i)
	}
	universe = append(universe, "", "z", "zzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzz")

	for step := 0; step < 20000; step++ {
		k := universe[rng.Intn(len(universe))]

		switch rng.Intn(3) {
		case 0: // insert/overwrite
			v := rng.Uint64()
			*tr.Get([]byte(k)) = v
			ref[k] = v
		case 1: // delete
			_, wasPresent := ref[k]
			gotPresent := tr.Del([]byte(k))
			assert.Equal(t, wasPresent, gotPresent, "key %q", k)
			delete(ref, k)
		case 2: // tryget
			want, wantOK := ref[k]
			got, gotOK := tr.TryGet([]byte(k))
			require.Equal(t, wantOK, gotOK, "key %q", k)
			if wantOK {
				assert.Equal(t, want, *got, "key %q", k)
			}
		}

		if step%500 == 0 {
			checkInvariants(t, tr, ref)
		}
	}
	checkInvariants(t, tr, ref)
}

// checkInvariants verifies spec.md §8's structural invariants: Size matches
// the reference map's cardinality, every stored key round-trips through
// TryGet with the expected value, and no key outside ref is found.
func checkInvariants(t *testing.T, tr *Trie, ref map[string]uint64) {
	t.Helper()

	assert.Equal(t, uint64(len(ref)), tr.Size())

	seen := make(map[string]bool, len(ref))
	it := tr.Iter(false)
	for it.Next() {
		k := string(it.Key())
		v := *it.Val()
		want, ok := ref[k]
		require.True(t, ok, "iterator produced unexpected key %q", k)
		assert.Equal(t, want, v, "key %q", k)
		seen[k] = true
	}
	it.Close()
	assert.Equal(t, len(ref), len(seen))

	for k, want := range ref {
		got, ok := tr.TryGet([]byte(k))
		require.True(t, ok, "missing key %q", k)
		assert.Equal(t, want, *got, "key %q", k)
	}
}
