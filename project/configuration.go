// Copyright 2026 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package project

import (
	"fmt"
	"sync"

	"go.chromium.org/infra/build/makeproj/invariant"
	"go.chromium.org/infra/build/makeproj/setting"
	"go.chromium.org/infra/build/makeproj/toolchain"
	"go.chromium.org/infra/build/makeproj/toolconf"
)

// ConfType is a type of build configuration.
type ConfType int

const (
	Application ConfType = iota
	DynamicLibrary
	StaticLibrary
	Makefile
)

var confTypeNames = []string{"application", "dynamic_library", "static_library", "makefile"}

func (t ConfType) String() string {
	if t < 0 || int(t) >= len(confTypeNames) {
		return fmt.Sprintf("ConfType(%d)", int(t))
	}
	return confTypeNames[t]
}

// ParseConfType parses a configuration type name.
func ParseConfType(s string) (ConfType, error) {
	for i, n := range confTypeNames {
		if n == s {
			return ConfType(i), nil
		}
	}
	return Application, fmt.Errorf("unknown configuration type %q", s)
}

// AuxObject is a per-configuration object attached to a folder or an
// item.
type AuxObject interface {
	ID() string
	// HasChanged reports whether the object was changed since the
	// last ClearChanged, in a way that needs to be saved.
	HasChanged() bool
	ClearChanged()
}

// cloner is implemented by aux objects that can be copied into another
// configuration.
type cloner interface {
	cloneFor(conf *Configuration) AuxObject
}

// Configuration is a build configuration, e.g. Debug or Release.
type Configuration struct {
	name string
	typ  ConfType

	CompilerSet             *setting.String
	DependencyChecking      *setting.Bool
	RebuildPropChanged      *setting.Bool
	IncludeInCodeAssistance *setting.Bool

	compilers map[toolconf.Kind]*toolconf.Compiler
	Linker    *toolconf.Linker

	auxMu  sync.RWMutex
	auxIDs []string
	aux    map[string]AuxObject
}

// NewConfiguration returns a configuration with project level
// compiler and linker configurations.
func NewConfiguration(name string, typ ConfType) *Configuration {
	c := &Configuration{
		name:                    name,
		typ:                     typ,
		CompilerSet:             setting.NewString(toolchain.DefaultName),
		DependencyChecking:      setting.NewBool(typ != Makefile),
		RebuildPropChanged:      setting.NewBool(false),
		IncludeInCodeAssistance: setting.NewBool(true),
		compilers:               map[toolconf.Kind]*toolconf.Compiler{},
		Linker:                  toolconf.NewLinker(),
		aux:                     map[string]AuxObject{},
	}
	for _, k := range toolconf.CompilerKinds {
		c.compilers[k] = toolconf.NewCompiler(k, typ != Makefile, true)
	}
	return c
}

// Name returns the configuration name.
func (c *Configuration) Name() string { return c.name }

// Type returns the configuration type.
func (c *Configuration) Type() ConfType { return c.typ }

// IsMakefileConfiguration reports whether the project is built by a
// user makefile. Its compiler configurations are unmanaged.
func (c *Configuration) IsMakefileConfiguration() bool { return c.typ == Makefile }

// Compiler returns the project level compiler configuration of k.
func (c *Configuration) Compiler(k toolconf.Kind) *toolconf.Compiler {
	return c.compilers[k]
}

func (c *Configuration) String() string { return c.name }

// AddAuxObject attaches o. A duplicate id is an invariant violation;
// the later object wins.
func (c *Configuration) AddAuxObject(o AuxObject) {
	c.auxMu.Lock()
	defer c.auxMu.Unlock()
	id := o.ID()
	if _, dup := c.aux[id]; dup {
		invariant.Check(false, "%s: duplicate aux object %q", c.name, id)
	} else {
		c.auxIDs = append(c.auxIDs, id)
	}
	c.aux[id] = o
}

// AuxObject returns the aux object of id, or nil.
func (c *Configuration) AuxObject(id string) AuxObject {
	c.auxMu.RLock()
	defer c.auxMu.RUnlock()
	return c.aux[id]
}

// RemoveAuxObject detaches and returns the aux object of id.
func (c *Configuration) RemoveAuxObject(id string) AuxObject {
	c.auxMu.Lock()
	defer c.auxMu.Unlock()
	o, ok := c.aux[id]
	if !ok {
		return nil
	}
	delete(c.aux, id)
	for i, x := range c.auxIDs {
		if x == id {
			c.auxIDs = append(c.auxIDs[:i], c.auxIDs[i+1:]...)
			break
		}
	}
	return o
}

// AuxObjects returns aux objects in insertion order.
func (c *Configuration) AuxObjects() []AuxObject {
	c.auxMu.RLock()
	defer c.auxMu.RUnlock()
	objs := make([]AuxObject, 0, len(c.auxIDs))
	for _, id := range c.auxIDs {
		objs = append(objs, c.aux[id])
	}
	return objs
}

// Modified reports whether any project level setting is modified.
func (c *Configuration) Modified() bool {
	if c.CompilerSet.Modified() || c.DependencyChecking.Modified() ||
		c.RebuildPropChanged.Modified() || c.IncludeInCodeAssistance.Modified() {
		return true
	}
	for _, cc := range c.compilers {
		if cc.Modified() {
			return true
		}
	}
	return c.Linker.Modified()
}

// clone copies settings and aux objects into a new configuration.
// Masters of the copied aux objects are linked by FixupMasterLinks.
func (c *Configuration) clone(name string) *Configuration {
	n := NewConfiguration(name, c.typ)
	n.CompilerSet.Assign(c.CompilerSet)
	n.DependencyChecking.Assign(c.DependencyChecking)
	n.RebuildPropChanged.Assign(c.RebuildPropChanged)
	n.IncludeInCodeAssistance.Assign(c.IncludeInCodeAssistance)
	for k, cc := range c.compilers {
		n.compilers[k].Assign(cc)
	}
	n.Linker.Assign(c.Linker)
	for _, o := range c.AuxObjects() {
		cl, ok := o.(cloner)
		if !ok {
			continue
		}
		n.AddAuxObject(cl.cloneFor(n))
	}
	return n
}

// clearDirty resets dirty flags of project level settings.
func (c *Configuration) clearDirty() {
	c.CompilerSet.SetDirty(false)
	c.IncludeInCodeAssistance.SetDirty(false)
	for _, cc := range c.compilers {
		cc.ClearDirty()
	}
	c.Linker.ClearDirty()
}
