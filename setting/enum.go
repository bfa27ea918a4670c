// Copyright 2026 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package setting

import (
	"fmt"

	"go.chromium.org/infra/build/makeproj/invariant"
)

// Enum is an integer setting whose values index a name table.
type Enum struct {
	*Int
	names []string
}

// NewEnum returns a new enum setting.
func NewEnum(def int, names ...string) *Enum {
	invariant.Check(def >= 0 && def < len(names), "enum default %d out of range %q", def, names)
	return &Enum{Int: NewInt(def), names: names}
}

// Names returns the name table.
func (e *Enum) Names() []string {
	return append([]string(nil), e.names...)
}

// Name returns the name of the visible value.
func (e *Enum) Name() string {
	v := e.Value()
	if v < 0 || v >= len(e.names) {
		return fmt.Sprintf("#%d", v)
	}
	return e.names[v]
}

// Set sets the own value.
func (e *Enum) Set(v int) {
	if !invariant.Check(v >= 0 && v < len(e.names), "enum value %d out of range %q", v, e.names) {
		return
	}
	e.Int.Set(v)
}

// SetName sets the value by name.
func (e *Enum) SetName(name string) error {
	for i, n := range e.names {
		if n == name {
			e.Int.Set(i)
			return nil
		}
	}
	return fmt.Errorf("unknown value %q; want one of %q", name, e.names)
}

// SetMaster replaces the master link.
func (e *Enum) SetMaster(m *Enum) error {
	if m == nil {
		return e.Int.SetMaster(nil)
	}
	return e.Int.SetMaster(m.Int)
}

// Assign copies the own value and modified flag from o.
func (e *Enum) Assign(o *Enum) {
	e.Int.Assign(o.Int)
}

// Clone returns a copy without master link.
func (e *Enum) Clone() *Enum {
	return &Enum{Int: e.Int.Clone(), names: e.names}
}
