// Copyright 2026 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package invariant checks structural invariants of the project model.
//
// In strict mode a violated invariant panics. Otherwise it is logged as a
// warning and the caller continues with a best-effort result.
package invariant

import (
	"fmt"
	"sync/atomic"

	"github.com/charmbracelet/log"
)

var strict atomic.Bool

// SetStrict enables or disables strict mode and returns the previous mode.
func SetStrict(v bool) bool {
	return strict.Swap(v)
}

// Strict reports whether strict mode is enabled.
func Strict() bool {
	return strict.Load()
}

// Violation is the panic value used in strict mode.
type Violation struct {
	Msg string
}

func (v Violation) Error() string {
	return "invariant violation: " + v.Msg
}

// Check reports a violation when cond is false.
// It returns cond so callers can bail out in lenient mode.
func Check(cond bool, format string, args ...any) bool {
	if cond {
		return true
	}
	msg := fmt.Sprintf(format, args...)
	if strict.Load() {
		panic(Violation{Msg: msg})
	}
	log.Helper()
	log.Warnf("invariant violation: %s", msg)
	return false
}
