// Copyright 2026 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package setting provides configuration values with inheritance
// and change tracking.
//
// A Setting has an own value, a default, and an optional master.
// While a setting is not modified, its visible value is the master's
// value (or the default if there is no master).
package setting

import (
	"errors"
	"fmt"
	"slices"

	"go.chromium.org/infra/build/makeproj/invariant"
)

// ErrCycle is returned when a master link would create a cycle.
var ErrCycle = errors.New("master chain cycle")

// Setting is a value of type V with default, master link and
// modified/dirty tracking.
type Setting[V any] struct {
	def      V
	value    V
	previous V
	modified bool
	dirty    bool

	// master is not owned. It may be released by its owner independently
	// and must be fixed up by the owner of this setting.
	master *Setting[V]

	equal func(a, b V) bool
	clone func(v V) V
}

// Bool is a boolean setting.
type Bool = Setting[bool]

// Int is an integer setting.
type Int = Setting[int]

// String is a string setting.
type String = Setting[string]

func same[V comparable](a, b V) bool { return a == b }

func ident[V any](v V) V { return v }

func newSetting[V any](def V, equal func(a, b V) bool, clone func(V) V) *Setting[V] {
	return &Setting[V]{
		def:      clone(def),
		value:    clone(def),
		previous: clone(def),
		equal:    equal,
		clone:    clone,
	}
}

// NewBool returns a new boolean setting.
func NewBool(def bool) *Bool {
	return newSetting(def, same[bool], ident[bool])
}

// NewInt returns a new integer setting.
func NewInt(def int) *Int {
	return newSetting(def, same[int], ident[int])
}

// NewString returns a new string setting.
func NewString(def string) *String {
	return newSetting(def, same[string], ident[string])
}

// Value returns the visible value.
func (s *Setting[V]) Value() V {
	if s.modified {
		return s.clone(s.value)
	}
	if s.master != nil {
		return s.master.Value()
	}
	return s.clone(s.def)
}

// Default returns the own default value.
func (s *Setting[V]) Default() V {
	return s.clone(s.def)
}

// EffectiveDefault returns the value the setting would have when
// not modified.
func (s *Setting[V]) EffectiveDefault() V {
	if s.master != nil {
		return s.master.Value()
	}
	return s.clone(s.def)
}

// Set sets the own value.
// The setting is modified iff v differs from the effective default.
func (s *Setting[V]) Set(v V) {
	old := s.Value()
	s.value = s.clone(v)
	s.modified = !s.equal(v, s.EffectiveDefault())
	s.touch(old)
}

// touch marks the setting dirty if the visible value changed from old.
// previous keeps the value seen at the last dirty reset.
func (s *Setting[V]) touch(old V) {
	if s.equal(old, s.Value()) {
		return
	}
	if !s.dirty {
		s.previous = old
	}
	s.dirty = true
}

// Reset drops the own value.
func (s *Setting[V]) Reset() {
	old := s.Value()
	s.value = s.clone(s.def)
	s.modified = false
	s.touch(old)
}

// Modified reports whether the setting has its own value.
func (s *Setting[V]) Modified() bool {
	return s.modified
}

// Dirty reports whether the visible value changed since the last
// SetDirty(false).
func (s *Setting[V]) Dirty() bool {
	return s.dirty
}

// SetDirty sets the dirty flag.
func (s *Setting[V]) SetDirty(dirty bool) {
	if dirty && !s.dirty {
		s.previous = s.Value()
	}
	s.dirty = dirty
}

// Previous returns the value seen before the setting became dirty.
func (s *Setting[V]) Previous() V {
	if !s.dirty {
		return s.Value()
	}
	return s.clone(s.previous)
}

// Changed reports whether the setting is dirty and its value differs
// from Previous.
func (s *Setting[V]) Changed() bool {
	return s.dirty && !s.equal(s.previous, s.Value())
}

// Master returns the master setting, or nil.
func (s *Setting[V]) Master() *Setting[V] {
	return s.master
}

// SetMaster replaces the master link.
// It doesn't copy the master's value.
// It rejects a master from which s is reachable.
func (s *Setting[V]) SetMaster(m *Setting[V]) error {
	seen := map[*Setting[V]]bool{}
	for p := m; p != nil; p = p.master {
		if p == s || seen[p] {
			invariant.Check(false, "setting master cycle")
			return ErrCycle
		}
		seen[p] = true
	}
	s.master = m
	return nil
}

// Masters returns the master chain, nearest first.
func (s *Setting[V]) Masters() []*Setting[V] {
	var chain []*Setting[V]
	seen := map[*Setting[V]]bool{s: true}
	for p := s.master; p != nil; p = p.master {
		if !invariant.Check(!seen[p], "setting master cycle at depth %d", len(chain)) {
			break
		}
		seen[p] = true
		chain = append(chain, p)
	}
	return chain
}

// Assign copies the own value and modified flag from o.
// The master link is not touched.
func (s *Setting[V]) Assign(o *Setting[V]) {
	old := s.Value()
	s.value = o.clone(o.value)
	s.modified = o.modified
	s.touch(old)
}

// Clone returns a copy without master link.
func (s *Setting[V]) Clone() *Setting[V] {
	return &Setting[V]{
		def:      s.clone(s.def),
		value:    s.clone(s.value),
		previous: s.clone(s.previous),
		modified: s.modified,
		equal:    s.equal,
		clone:    s.clone,
	}
}

func (s *Setting[V]) String() string {
	return fmt.Sprint(s.Value())
}

// List is a string list setting.
type List struct {
	*Setting[[]string]
}

// NewList returns a new string list setting.
func NewList(def ...string) *List {
	return &List{Setting: newSetting(def, slices.Equal[[]string], slices.Clone[[]string])}
}

// Add appends values.
func (l *List) Add(values ...string) {
	l.Set(append(l.Value(), values...))
}

// Len returns number of values.
func (l *List) Len() int {
	return len(l.Value())
}

// Clone returns a copy without master link.
func (l *List) Clone() *List {
	return &List{Setting: l.Setting.Clone()}
}

// Assign copies the own value and modified flag from o.
func (l *List) Assign(o *List) {
	l.Setting.Assign(o.Setting)
}

// SetMaster replaces the master link.
func (l *List) SetMaster(m *List) error {
	if m == nil {
		return l.Setting.SetMaster(nil)
	}
	return l.Setting.SetMaster(m.Setting)
}
