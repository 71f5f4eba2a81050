// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package hattrie

import "github.com/vechain/hattrie/internal/invariant"

// InvariantError is the panic value raised when a structural invariant
// (§3.6) is found broken during a burst, such as a hybrid bucket holding a
// zero-length key. These are programmer errors, not conditions callers are
// expected to recover from; see SPEC_FULL.md §7.
type InvariantError = invariant.Violation
