// Copyright 2026 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package toolconf

import (
	"fmt"

	"go.chromium.org/infra/build/makeproj/invariant"
	"go.chromium.org/infra/build/makeproj/setting"
)

// Capability is a set of optional setting groups of a compiler
// configuration.
type Capability uint

const (
	// Preprocessor enables include directories/files and macros.
	Preprocessor Capability = 1 << iota
	// Standard enables the language standard.
	Standard
	// LibraryLevel enables the C++ library level (managed only).
	LibraryLevel
	// ImportantFlags enables raw important flags (unmanaged only).
	ImportantFlags
)

// Has reports whether c contains all of o.
func (c Capability) Has(o Capability) bool {
	return c&o == o
}

// CapabilitiesOf returns capabilities of a compiler of kind k.
// Managed configurations expose the library level, unmanaged ones the
// important flags; never both.
func CapabilitiesOf(k Kind, managed bool) Capability {
	var c Capability
	switch k {
	case CCompiler, CCCompiler:
		c |= Preprocessor | Standard
		if !managed {
			c |= ImportantFlags
		} else if k == CCCompiler {
			c |= LibraryLevel
		}
	case FortranCompiler:
		c |= Preprocessor
	}
	return c
}

// Compiler is a compiler configuration of one owner (project, folder
// or item) for one tool kind.
type Compiler struct {
	kind Kind
	caps Capability
	root bool

	// master is not owned.
	master *Compiler

	DevelopmentMode *setting.Enum
	Warnings        *setting.Enum
	Architecture    *setting.Enum
	Strip           *setting.Bool
	// Standard, LibraryLevel and ImportantFlags are nil when the
	// capability is absent.
	Standard       *setting.Enum
	LibraryLevel   *setting.Enum
	ImportantFlags *setting.String

	CommandLine            *setting.String
	AdditionalDependencies *setting.String
	Tool                   *setting.String

	// list categories are nil without Preprocessor capability.
	lists   map[ListCategory]*setting.List
	inherit map[ListCategory]*setting.Bool
}

// NewCompiler returns a compiler configuration.
// A root configuration is owned by a build configuration and has no
// master; its standard can't be inherited.
func NewCompiler(k Kind, managed, root bool) *Compiler {
	invariant.Check(k != LinkerTool, "linker kind for compiler configuration")
	c := &Compiler{
		kind:                   k,
		caps:                   CapabilitiesOf(k, managed),
		root:                   root,
		DevelopmentMode:        setting.NewEnum(DevelopmentDebug, DevelopmentModeNames...),
		Warnings:               setting.NewEnum(WarningsSome, WarningNames...),
		Architecture:           setting.NewEnum(ArchDefault, ArchitectureNames...),
		Strip:                  setting.NewBool(false),
		CommandLine:            setting.NewString(""),
		AdditionalDependencies: setting.NewString(""),
		Tool:                   setting.NewString(""),
		lists:                  map[ListCategory]*setting.List{},
		inherit:                map[ListCategory]*setting.Bool{},
	}
	if c.caps.Has(Standard) {
		def := InheritedStandardValue(k)
		if root {
			def = StandardDefault
		}
		c.Standard = setting.NewEnum(def, standardNames(k, root)...)
	}
	if c.caps.Has(LibraryLevel) {
		c.LibraryLevel = setting.NewEnum(LibraryBinaryStandard, LibraryLevelNames...)
	}
	if c.caps.Has(ImportantFlags) {
		c.ImportantFlags = setting.NewString("")
	}
	if c.caps.Has(Preprocessor) {
		cats := ListCategories
		if k == FortranCompiler {
			cats = []ListCategory{IncludeDirectories, Macros}
		}
		for _, cat := range cats {
			c.lists[cat] = setting.NewList()
			c.inherit[cat] = setting.NewBool(true)
		}
	}
	return c
}

// Kind returns the tool kind.
func (c *Compiler) Kind() Kind { return c.kind }

// Capabilities returns the capability set.
func (c *Compiler) Capabilities() Capability { return c.caps }

// IsRoot reports whether c is a root configuration.
func (c *Compiler) IsRoot() bool { return c.root }

// List returns the list setting of the category, or nil.
func (c *Compiler) List(cat ListCategory) *setting.List { return c.lists[cat] }

// Inherit returns the inherit toggle of the category, or nil.
func (c *Compiler) Inherit(cat ListCategory) *setting.Bool { return c.inherit[cat] }

func (c *Compiler) inherits(cat ListCategory) bool {
	t := c.inherit[cat]
	return t == nil || t.Value()
}

// Master returns the master configuration, or nil.
func (c *Compiler) Master() *Compiler { return c.master }

// SetMaster links c to m, or unlinks it if m is nil.
// It rejects a master of another kind and a master from which c is
// reachable.
func (c *Compiler) SetMaster(m *Compiler) error {
	if m != nil {
		if m.kind != c.kind {
			return fmt.Errorf("master kind %s; want %s", m.kind, c.kind)
		}
		seen := map[*Compiler]bool{}
		for p := m; p != nil; p = p.master {
			if p == c || seen[p] {
				invariant.Check(false, "%s compiler configuration master cycle", c.kind)
				return setting.ErrCycle
			}
			seen[p] = true
		}
	}
	c.master = m
	if m == nil {
		c.DevelopmentMode.SetMaster(nil)
		c.Warnings.SetMaster(nil)
		c.Architecture.SetMaster(nil)
		c.Strip.SetMaster(nil)
		c.Tool.SetMaster(nil)
		if c.LibraryLevel != nil {
			c.LibraryLevel.SetMaster(nil)
		}
		if c.ImportantFlags != nil {
			c.ImportantFlags.SetMaster(nil)
		}
		return nil
	}
	// the chain is acyclic, so none of these fail.
	c.DevelopmentMode.SetMaster(m.DevelopmentMode)
	c.Warnings.SetMaster(m.Warnings)
	c.Architecture.SetMaster(m.Architecture)
	c.Strip.SetMaster(m.Strip)
	c.Tool.SetMaster(m.Tool)
	if c.LibraryLevel != nil && m.LibraryLevel != nil {
		c.LibraryLevel.SetMaster(m.LibraryLevel)
	}
	if c.ImportantFlags != nil && m.ImportantFlags != nil {
		c.ImportantFlags.SetMaster(m.ImportantFlags)
	}
	return nil
}

// Masters returns the master chain, nearest first.
// If addThis is true, c is the first element.
func (c *Compiler) Masters(addThis bool) []*Compiler {
	var chain []*Compiler
	if addThis {
		chain = append(chain, c)
	}
	seen := map[*Compiler]bool{c: true}
	for p := c.master; p != nil; p = p.master {
		if !invariant.Check(!seen[p], "%s compiler configuration master cycle", c.kind) {
			break
		}
		seen[p] = true
		chain = append(chain, p)
	}
	return chain
}

// tracked is a setting with change tracking.
type tracked interface {
	Modified() bool
	Dirty() bool
	SetDirty(bool)
}

// settings returns all scalar and list settings for bulk operations.
func (c *Compiler) settings() []tracked {
	s := []tracked{
		c.DevelopmentMode, c.Warnings, c.Architecture, c.Strip,
		c.CommandLine, c.AdditionalDependencies, c.Tool,
	}
	if c.Standard != nil {
		s = append(s, c.Standard)
	}
	if c.LibraryLevel != nil {
		s = append(s, c.LibraryLevel)
	}
	if c.ImportantFlags != nil {
		s = append(s, c.ImportantFlags)
	}
	for _, cat := range ListCategories {
		if l := c.lists[cat]; l != nil {
			s = append(s, l, c.inherit[cat])
		}
	}
	return s
}

// Modified reports whether any setting is modified.
func (c *Compiler) Modified() bool {
	for _, s := range c.settings() {
		if s.Modified() {
			return true
		}
	}
	return false
}

// Dirty reports whether any setting is dirty.
func (c *Compiler) Dirty() bool {
	for _, s := range c.settings() {
		if s.Dirty() {
			return true
		}
	}
	return false
}

// ClearDirty resets all dirty flags.
func (c *Compiler) ClearDirty() {
	for _, s := range c.settings() {
		s.SetDirty(false)
	}
}

// StandardChanged reports whether the standard changed since the last
// ClearDirty.
func (c *Compiler) StandardChanged() bool {
	return c.Standard != nil && c.Standard.Changed()
}

// Assign copies all own values from o. Masters are not touched.
func (c *Compiler) Assign(o *Compiler) {
	if !invariant.Check(c.kind == o.kind, "assign %s configuration to %s", o.kind, c.kind) {
		return
	}
	c.DevelopmentMode.Assign(o.DevelopmentMode)
	c.Warnings.Assign(o.Warnings)
	c.Architecture.Assign(o.Architecture)
	c.Strip.Assign(o.Strip)
	c.CommandLine.Assign(o.CommandLine)
	c.AdditionalDependencies.Assign(o.AdditionalDependencies)
	c.Tool.Assign(o.Tool)
	if c.Standard != nil && o.Standard != nil {
		c.Standard.Assign(o.Standard)
		if c.root && c.Standard.Value() == InheritedStandardValue(c.kind) {
			c.Standard.Reset()
		}
	}
	if c.LibraryLevel != nil && o.LibraryLevel != nil {
		c.LibraryLevel.Assign(o.LibraryLevel)
	}
	if c.ImportantFlags != nil && o.ImportantFlags != nil {
		c.ImportantFlags.Assign(o.ImportantFlags)
	}
	for cat, l := range c.lists {
		if ol := o.lists[cat]; ol != nil {
			l.Assign(ol)
			c.inherit[cat].Assign(o.inherit[cat])
		}
	}
}

// Clone returns a deep copy without master link.
func (c *Compiler) Clone() *Compiler {
	n := &Compiler{
		kind:                   c.kind,
		caps:                   c.caps,
		root:                   c.root,
		DevelopmentMode:        c.DevelopmentMode.Clone(),
		Warnings:               c.Warnings.Clone(),
		Architecture:           c.Architecture.Clone(),
		Strip:                  c.Strip.Clone(),
		CommandLine:            c.CommandLine.Clone(),
		AdditionalDependencies: c.AdditionalDependencies.Clone(),
		Tool:                   c.Tool.Clone(),
		lists:                  map[ListCategory]*setting.List{},
		inherit:                map[ListCategory]*setting.Bool{},
	}
	if c.Standard != nil {
		n.Standard = c.Standard.Clone()
	}
	if c.LibraryLevel != nil {
		n.LibraryLevel = c.LibraryLevel.Clone()
	}
	if c.ImportantFlags != nil {
		n.ImportantFlags = c.ImportantFlags.Clone()
	}
	for cat, l := range c.lists {
		n.lists[cat] = l.Clone()
		n.inherit[cat] = c.inherit[cat].Clone()
	}
	return n
}
