// Copyright 2026 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package project

import (
	"maps"

	"go.chromium.org/infra/build/makeproj/nativefile"
	"go.chromium.org/infra/build/makeproj/setting"
	"go.chromium.org/infra/build/makeproj/toolconf"
)

// ItemConfiguration is the per-configuration state of an item.
type ItemConfiguration struct {
	conf *Configuration
	item *Item

	Excluded *setting.Bool
	Flavor   *setting.Enum

	tool      Tool
	toolDirty bool

	// compilers are created on first use.
	compilers map[toolconf.Kind]*toolconf.Compiler
	custom    *toolconf.CustomTool

	changed bool
}

var _ AuxObject = (*ItemConfiguration)(nil)

func newItemConfiguration(conf *Configuration, item *Item) *ItemConfiguration {
	return &ItemConfiguration{
		conf:      conf,
		item:      item,
		Excluded:  setting.NewBool(false),
		Flavor:    setting.NewEnum(int(nativefile.Unknown), nativefile.FlavorNames()...),
		tool:      item.DefaultTool(),
		compilers: map[toolconf.Kind]*toolconf.Compiler{},
	}
}

// ID returns the item path.
func (ic *ItemConfiguration) ID() string { return ic.item.ID() }

// Item returns the item.
func (ic *ItemConfiguration) Item() *Item { return ic.item }

// Configuration returns the build configuration.
func (ic *ItemConfiguration) Configuration() *Configuration { return ic.conf }

// Tool returns the tool building the item.
func (ic *ItemConfiguration) Tool() Tool { return ic.tool }

// SetTool changes the tool building the item.
func (ic *ItemConfiguration) SetTool(t Tool) {
	if t == ic.tool {
		return
	}
	ic.tool = t
	ic.toolDirty = true
	ic.changed = true
}

// ToolDirty reports whether the tool changed since the last
// SetToolDirty(false).
func (ic *ItemConfiguration) ToolDirty() bool { return ic.toolDirty }

// SetToolDirty sets the tool dirty flag.
func (ic *ItemConfiguration) SetToolDirty(b bool) { ic.toolDirty = b }

// LanguageFlavor returns the explicit flavor.
func (ic *ItemConfiguration) LanguageFlavor() nativefile.Flavor {
	return nativefile.Flavor(ic.Flavor.Value())
}

// Compiler returns the compiler configuration of the current tool, or
// nil for the custom tool.
func (ic *ItemConfiguration) Compiler() *toolconf.Compiler {
	k, ok := ic.tool.Kind()
	if !ok {
		return nil
	}
	return ic.CompilerOf(k)
}

// CompilerOf returns the compiler configuration of k, creating it on
// first use.
func (ic *ItemConfiguration) CompilerOf(k toolconf.Kind) *toolconf.Compiler {
	c, ok := ic.compilers[k]
	if !ok {
		c = toolconf.NewCompiler(k, !ic.conf.IsMakefileConfiguration(), false)
		_ = c.SetMaster(ic.compilerMaster(k))
		ic.compilers[k] = c
	}
	return c
}

// CustomTool returns the custom tool configuration, creating it on
// first use.
func (ic *ItemConfiguration) CustomTool() *toolconf.CustomTool {
	if ic.custom == nil {
		ic.custom = toolconf.NewCustomTool()
	}
	return ic.custom
}

// Compilers returns the compiler configurations created so far.
func (ic *ItemConfiguration) Compilers() map[toolconf.Kind]*toolconf.Compiler {
	return maps.Clone(ic.compilers)
}

// HasCustomTool reports whether the custom tool configuration exists.
func (ic *ItemConfiguration) HasCustomTool() bool { return ic.custom != nil }

func (ic *ItemConfiguration) compilerMaster(k toolconf.Kind) *toolconf.Compiler {
	if f := ic.item.Folder(); f != nil {
		if fc := f.FolderConfiguration(ic.conf); fc != nil {
			return fc.Compiler(k)
		}
	}
	return ic.conf.Compiler(k)
}

func (ic *ItemConfiguration) linkMasters() {
	for k, c := range ic.compilers {
		_ = c.SetMaster(ic.compilerMaster(k))
	}
}

// IsDefaultConfiguration reports whether the configuration carries
// nothing that needs to be persisted.
func (ic *ItemConfiguration) IsDefaultConfiguration() bool {
	if !ic.Excluded.Value() {
		return false
	}
	for _, c := range ic.compilers {
		if c.Modified() {
			return false
		}
	}
	if ic.custom != nil && ic.custom.Modified() {
		return false
	}
	if ic.LanguageFlavor() != nativefile.Unknown {
		return false
	}
	return ic.item.IsDiskItem() || ic.tool == ic.item.DefaultTool()
}

// Assign copies own values of o.
func (ic *ItemConfiguration) Assign(o *ItemConfiguration) {
	ic.SetTool(o.tool)
	ic.Excluded.Assign(o.Excluded)
	ic.Flavor.Assign(o.Flavor)
	for k, oc := range o.compilers {
		ic.CompilerOf(k).Assign(oc)
	}
	if o.custom != nil {
		ic.CustomTool().Assign(o.custom)
	}
	ic.changed = true
}

func (ic *ItemConfiguration) cloneFor(conf *Configuration) AuxObject {
	n := &ItemConfiguration{
		conf:      conf,
		item:      ic.item,
		Excluded:  ic.Excluded.Clone(),
		Flavor:    ic.Flavor.Clone(),
		tool:      ic.tool,
		compilers: map[toolconf.Kind]*toolconf.Compiler{},
	}
	for k, c := range ic.compilers {
		n.compilers[k] = c.Clone()
	}
	if ic.custom != nil {
		n.custom = ic.custom.Clone()
	}
	return n
}

// HasChanged reports whether the configuration changed in a way that
// needs saving since the last ClearChanged.
func (ic *ItemConfiguration) HasChanged() bool { return ic.changed }

// SetChanged marks the configuration changed.
func (ic *ItemConfiguration) SetChanged() { ic.changed = true }

// ClearChanged clears the changed flag.
func (ic *ItemConfiguration) ClearChanged() { ic.changed = false }
