// Copyright 2026 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package project

import (
	"path"
	"strings"
	"sync"

	"go.chromium.org/infra/build/makeproj/invariant"
	"go.chromium.org/infra/build/makeproj/nativefile"
	"go.chromium.org/infra/build/makeproj/toolchain"
	"go.chromium.org/infra/build/makeproj/toolconf"
)

// Item is a file of a project. Its path is relative to the project
// base directory if the file is under it, and absolute otherwise.
type Item struct {
	path string

	mu     sync.RWMutex
	folder *Folder
	// baseDir of the last descriptor, to resolve paths of removed items.
	baseDir string
}

var _ nativefile.Item = (*Item)(nil)

// NewItem returns an item of path p.
func NewItem(p string) *Item {
	return &Item{path: normalizePath(p)}
}

// Path returns the normalized path.
func (it *Item) Path() string { return it.path }

// ID returns the aux object id of the item's configurations.
func (it *Item) ID() string { return it.path }

// Name returns the base name.
func (it *Item) Name() string { return path.Base(it.path) }

func (it *Item) sortName() string { return it.Name() }

// Folder returns the owning folder, or nil.
func (it *Item) Folder() *Folder {
	it.mu.RLock()
	defer it.mu.RUnlock()
	return it.folder
}

// SetFolder sets the owning folder. An item belongs to at most one
// folder.
func (it *Item) SetFolder(f *Folder) {
	it.mu.Lock()
	defer it.mu.Unlock()
	if f != nil && it.folder != nil && it.folder != f {
		invariant.Check(false, "item %s already in folder %s; added to %s", it.path, it.folder.Path(), f.Path())
	}
	it.folder = f
	if f != nil && f.desc != nil {
		it.baseDir = f.desc.baseDir
	}
}

func (it *Item) descriptor() *Descriptor {
	if f := it.Folder(); f != nil {
		return f.desc
	}
	return nil
}

// AbsolutePath returns the absolute path of the file.
func (it *Item) AbsolutePath() string {
	if isAbs(it.path) {
		return it.path
	}
	d := it.descriptor()
	if d == nil {
		it.mu.RLock()
		defer it.mu.RUnlock()
		if it.baseDir == "" {
			return it.path
		}
		return path.Join(it.baseDir, it.path)
	}
	return d.abs(it.path)
}

// DefaultTool returns the tool of the file's extension.
func (it *Item) DefaultTool() Tool {
	if nativefile.IsAssembler(it.path) {
		return ToolAssembler
	}
	switch nativefile.LanguageOf(it.path) {
	case nativefile.C:
		return ToolC
	case nativefile.CPP:
		return ToolCC
	case nativefile.Fortran:
		return ToolFortran
	}
	return ToolCustom
}

// IsDiskItem reports whether the item is in a disk folder.
func (it *Item) IsDiskItem() bool {
	f := it.Folder()
	return f != nil && f.IsDiskFolder()
}

// ItemConfiguration returns the item's configuration of conf, or nil.
func (it *Item) ItemConfiguration(conf *Configuration) *ItemConfiguration {
	if conf == nil {
		return nil
	}
	ic, _ := conf.AuxObject(it.ID()).(*ItemConfiguration)
	if ic != nil && ic.item != it {
		return nil
	}
	return ic
}

// ItemConfigurations returns the item's configurations of all build
// configurations.
func (it *Item) ItemConfigurations() []*ItemConfiguration {
	d := it.descriptor()
	if d == nil {
		return nil
	}
	var ics []*ItemConfiguration
	for _, conf := range d.Configurations() {
		if ic := it.ItemConfiguration(conf); ic != nil {
			ics = append(ics, ic)
		}
	}
	return ics
}

// HasImportantAttributes reports whether any configuration of the item
// carries non default state.
func (it *Item) HasImportantAttributes() bool {
	for _, ic := range it.ItemConfigurations() {
		if !ic.IsDefaultConfiguration() {
			return true
		}
	}
	return false
}

// CopyConfigurations copies the configurations of src into the item's
// configurations of the same build configurations.
func (it *Item) CopyConfigurations(src *Item) {
	d := it.descriptor()
	if d == nil {
		return
	}
	for _, conf := range d.Configurations() {
		ic := it.ItemConfiguration(conf)
		sc := src.ItemConfiguration(conf)
		if ic == nil || sc == nil {
			continue
		}
		ic.Assign(sc)
	}
}

func (it *Item) String() string { return it.path }

// activeConfiguration returns the item's configuration of the active
// build configuration, or nil.
func (it *Item) activeConfiguration() *ItemConfiguration {
	d := it.descriptor()
	if d == nil {
		return nil
	}
	return it.ItemConfiguration(d.Active())
}

// prepare creates lazy state read by the code model views, so that
// the views may be read concurrently.
func (it *Item) prepare() {
	ic := it.activeConfiguration()
	if ic == nil {
		return
	}
	ic.Compiler()
}

func (it *Item) compiler() *toolconf.Compiler {
	ic := it.activeConfiguration()
	if ic == nil {
		return nil
	}
	return ic.Compiler()
}

func (it *Item) toolchainTool() *toolchain.Tool {
	ic := it.activeConfiguration()
	if ic == nil {
		return nil
	}
	k, ok := ic.Tool().Kind()
	if !ok {
		return nil
	}
	d := it.descriptor()
	tc, ok := d.toolchains.Lookup(ic.conf.CompilerSet.Value())
	if !ok {
		return nil
	}
	return tc.Tool(k)
}

// IsExcluded reports whether the item is excluded from the build in
// the active configuration.
func (it *Item) IsExcluded() bool {
	ic := it.activeConfiguration()
	return ic == nil || ic.Excluded.Value()
}

func (it *Item) values(cat toolconf.ListCategory) []string {
	c := it.compiler()
	if c == nil || c.List(cat) == nil {
		return nil
	}
	return c.Values(cat)
}

func (it *Item) absValues(cat toolconf.ListCategory) []string {
	vs := it.values(cat)
	d := it.descriptor()
	for i, v := range vs {
		if !isAbs(v) && d != nil {
			vs[i] = d.abs(v)
		}
	}
	return vs
}

// UserIncludePaths returns absolute include directories.
func (it *Item) UserIncludePaths() []string { return it.absValues(toolconf.IncludeDirectories) }

// IncludeFiles returns absolute forced include files.
func (it *Item) IncludeFiles() []string { return it.absValues(toolconf.IncludeFiles) }

// UserMacroDefinitions returns macro definitions.
func (it *Item) UserMacroDefinitions() []string { return it.values(toolconf.Macros) }

// UndefinedMacros returns macro undefinitions, or nil if the tool
// doesn't support them.
func (it *Item) UndefinedMacros() []string { return it.values(toolconf.UndefinedMacros) }

// SystemIncludePaths returns the toolchain's include directories.
func (it *Item) SystemIncludePaths() []string {
	if t := it.toolchainTool(); t != nil {
		return append([]string(nil), t.SystemIncludeDirs...)
	}
	return nil
}

// SystemIncludeHeaders returns headers implicitly included by the
// toolchain.
func (it *Item) SystemIncludeHeaders() []string {
	if t := it.toolchainTool(); t != nil {
		return append([]string(nil), t.SystemHeaders...)
	}
	return nil
}

// SystemMacroDefinitions returns the toolchain's predefined macros.
func (it *Item) SystemMacroDefinitions() []string {
	if t := it.toolchainTool(); t != nil {
		return append([]string(nil), t.PredefinedMacros...)
	}
	return nil
}

// Language returns the language of the tool building the item.
func (it *Item) Language() nativefile.Language {
	tool := it.DefaultTool()
	if ic := it.activeConfiguration(); ic != nil {
		tool = ic.Tool()
	}
	switch tool {
	case ToolC:
		return nativefile.C
	case ToolCC:
		return nativefile.CPP
	case ToolFortran:
		return nativefile.Fortran
	case ToolCustom:
		if nativefile.IsHeader(it.path) {
			return nativefile.Header
		}
	}
	return nativefile.Other
}

// LanguageFlavor returns the explicit flavor of the item, or the one
// of the inherited standard.
func (it *Item) LanguageFlavor() nativefile.Flavor {
	ic := it.activeConfiguration()
	if ic == nil {
		return nativefile.Unknown
	}
	if f := ic.LanguageFlavor(); f != nativefile.Unknown {
		return f
	}
	switch it.Language() {
	case nativefile.C:
		return cFlavor(it.compiler().InheritedStandard())
	case nativefile.CPP:
		return cppFlavor(it.compiler().InheritedStandard())
	case nativefile.Fortran:
		switch strings.ToLower(path.Ext(it.path)) {
		case ".f90":
			return nativefile.F90
		case ".f95":
			return nativefile.F95
		}
		return nativefile.F77
	}
	return nativefile.Unknown
}

func cFlavor(std int) nativefile.Flavor {
	switch std {
	case toolconf.CStandardC89:
		return nativefile.C89
	case toolconf.CStandardC99:
		return nativefile.C99
	case toolconf.CStandardC11:
		return nativefile.C11
	case toolconf.CStandardC17:
		return nativefile.C17
	}
	return nativefile.FlavorC
}

func cppFlavor(std int) nativefile.Flavor {
	switch std {
	case toolconf.CppStandardCpp98:
		return nativefile.CPP98
	case toolconf.CppStandardCpp11:
		return nativefile.CPP11
	case toolconf.CppStandardCpp14:
		return nativefile.CPP14
	case toolconf.CppStandardCpp17:
		return nativefile.CPP17
	case toolconf.CppStandardCpp20:
		return nativefile.CPP20
	}
	return nativefile.FlavorCPP
}
