// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ahtable

import "sync/atomic"

// Stats collects lookup hit/miss counts for a Table, shaped after the
// teacher's cache.Stats hit/miss counter, for a table that never evicts but
// still benefits from knowing its own hit rate.
type Stats struct {
	hit, miss atomic.Int64
}

// Hit records a successful lookup.
func (s *Stats) Hit() int64 { return s.hit.Add(1) }

// Miss records an unsuccessful lookup.
func (s *Stats) Miss() int64 { return s.miss.Add(1) }

// Get returns the running hit and miss counts.
func (s *Stats) Get() (hit, miss int64) {
	return s.hit.Load(), s.miss.Load()
}
