// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package invariant holds the single Check helper used to guard the
// structural invariants described in SPEC_FULL.md §7 (corrupted flag byte,
// a zero-length bucket record, a deduplication failure during free). These
// are programmer errors, not reportable conditions, so Check panics rather
// than returning an error.
package invariant

import "github.com/pkg/errors"

// Check panics with a *Violation, carrying a stack trace, if cond is false.
func Check(cond bool, format string, args ...any) {
	if !cond {
		panic(&Violation{err: errors.Errorf(format, args...)})
	}
}

// Violation is the panic value raised by a failed Check.
type Violation struct {
	err error
}

func (v *Violation) Error() string { return v.err.Error() }
func (v *Violation) Unwrap() error { return v.err }
