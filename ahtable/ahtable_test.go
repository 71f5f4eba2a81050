// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ahtable

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetInsertsZeroValue(t *testing.T) {
	tb := New()
	p := tb.Get([]byte("abc"))
	assert.Equal(t, uint64(0), *p)
	assert.Equal(t, 1, tb.Size())
}

func TestInsertThenTryGet(t *testing.T) {
	tb := New()
	tb.Insert([]byte("k"), 42)
	v, ok := tb.TryGet([]byte("k"))
	require.True(t, ok)
	assert.Equal(t, uint64(42), *v)
}

func TestTryGetMissing(t *testing.T) {
	tb := New()
	tb.Insert([]byte("k"), 1)
	_, ok := tb.TryGet([]byte("other"))
	assert.False(t, ok)
}

func TestInsertOverwritesValue(t *testing.T) {
	tb := New()
	tb.Insert([]byte("k"), 1)
	tb.Insert([]byte("k"), 2)
	assert.Equal(t, 1, tb.Size())
	v, _ := tb.TryGet([]byte("k"))
	assert.Equal(t, uint64(2), *v)
}

func TestDelRoundtrip(t *testing.T) {
	tb := New()
	tb.Insert([]byte("k"), 1)
	assert.True(t, tb.Del([]byte("k")))
	assert.False(t, tb.Del([]byte("k")))
	_, ok := tb.TryGet([]byte("k"))
	assert.False(t, ok)
	assert.Equal(t, 0, tb.Size())
}

func TestEmptyKey(t *testing.T) {
	tb := New()
	tb.Insert([]byte(""), 7)
	v, ok := tb.TryGet([]byte(""))
	require.True(t, ok)
	assert.Equal(t, uint64(7), *v)
}

func TestGrowthPreservesAllKeys(t *testing.T) {
	tb := NewSize(4)
	const n = 20000
	for i := range n {
		tb.Insert([]byte(fmt.Sprintf("key-%d", i)), uint64(i))
	}
	assert.Equal(t, n, tb.Size())
	for i := range n {
		v, ok := tb.TryGet([]byte(fmt.Sprintf("key-%d", i)))
		require.True(t, ok)
		assert.Equal(t, uint64(i), *v)
	}
}

func TestDeleteHalfLeavesTheRest(t *testing.T) {
	tb := New()
	const n = 1000
	for i := range n {
		tb.Insert([]byte(fmt.Sprintf("k%d", i)), uint64(i))
	}
	for i := 1; i < n; i += 2 {
		require.True(t, tb.Del([]byte(fmt.Sprintf("k%d", i))))
	}
	assert.Equal(t, n/2, tb.Size())
	for i := range n {
		_, ok := tb.TryGet([]byte(fmt.Sprintf("k%d", i)))
		assert.Equal(t, i%2 == 0, ok)
	}
}

func TestSortedIterationIsLexicographic(t *testing.T) {
	tb := New()
	keys := []string{"banana", "app", "apple", "b", ""}
	for i, k := range keys {
		tb.Insert([]byte(k), uint64(i))
	}

	var got []string
	it := tb.Iter(true)
	for it.Next() {
		got = append(got, string(it.Key()))
	}
	it.Close()

	assert.Equal(t, []string{"", "app", "apple", "b", "banana"}, got)
}

func TestSortedAndUnsortedYieldSameMultiset(t *testing.T) {
	tb := New()
	expected := make(map[string]uint64)
	r := rand.New(rand.NewSource(1))
	for i := range 500 {
		k := fmt.Sprintf("key-%d-%d", i, r.Intn(3))
		v := uint64(r.Int63())
		tb.Insert([]byte(k), v)
		expected[k] = v
	}

	collect := func(sorted bool) map[string]uint64 {
		out := make(map[string]uint64)
		it := tb.Iter(sorted)
		for it.Next() {
			out[string(it.Key())] = *it.Val()
		}
		it.Close()
		return out
	}

	unsorted := collect(false)
	sorted := collect(true)
	assert.Equal(t, expected, unsorted)
	assert.Equal(t, expected, sorted)
}

func TestIterDelDoesNotInvalidateIteration(t *testing.T) {
	tb := New()
	for i := range 100 {
		tb.Insert([]byte(fmt.Sprintf("k%d", i)), uint64(i))
	}

	it := tb.Iter(false)
	deleted := 0
	for it.Next() {
		v := *it.Val()
		if v%2 == 0 {
			it.Del()
			deleted++
		}
	}
	it.Close()

	assert.Equal(t, 50, deleted)
	assert.Equal(t, 50, tb.Size())
}
