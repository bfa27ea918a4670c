// Copyright 2026 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package project

import (
	"go.chromium.org/infra/build/makeproj/toolconf"
)

// FolderConfiguration is the per-configuration state of a folder.
// Its compiler configurations inherit from the parent folder's, or
// from the project level ones for top level folders.
type FolderConfiguration struct {
	conf   *Configuration
	folder *Folder
	id     string

	compilers map[toolconf.Kind]*toolconf.Compiler
	// Linker is nil except for test folders.
	Linker *toolconf.Linker

	changed bool
}

var _ AuxObject = (*FolderConfiguration)(nil)

func newFolderConfiguration(conf *Configuration, f *Folder) *FolderConfiguration {
	fc := &FolderConfiguration{
		conf:      conf,
		folder:    f,
		id:        f.ID(),
		compilers: map[toolconf.Kind]*toolconf.Compiler{},
	}
	for _, k := range toolconf.CompilerKinds {
		fc.compilers[k] = toolconf.NewCompiler(k, !conf.IsMakefileConfiguration(), false)
	}
	if f.Kind() == TestFolder {
		fc.Linker = toolconf.NewLinker()
	}
	fc.linkMasters()
	return fc
}

// ID returns the aux object id, "f-" followed by the folder path.
func (fc *FolderConfiguration) ID() string { return fc.id }

// Folder returns the folder.
func (fc *FolderConfiguration) Folder() *Folder { return fc.folder }

// Configuration returns the build configuration.
func (fc *FolderConfiguration) Configuration() *Configuration { return fc.conf }

// Compiler returns the compiler configuration of k.
func (fc *FolderConfiguration) Compiler(k toolconf.Kind) *toolconf.Compiler {
	return fc.compilers[k]
}

// HasChanged reports whether Assign or SetChanged was called since the
// last ClearChanged.
func (fc *FolderConfiguration) HasChanged() bool { return fc.changed }

// SetChanged marks the configuration changed.
func (fc *FolderConfiguration) SetChanged() { fc.changed = true }

// ClearChanged clears the changed flag.
func (fc *FolderConfiguration) ClearChanged() { fc.changed = false }

// Modified reports whether any setting is modified.
func (fc *FolderConfiguration) Modified() bool {
	for _, c := range fc.compilers {
		if c.Modified() {
			return true
		}
	}
	return fc.Linker != nil && fc.Linker.Modified()
}

// Assign copies own values of o.
func (fc *FolderConfiguration) Assign(o *FolderConfiguration) {
	for k, c := range fc.compilers {
		c.Assign(o.compilers[k])
	}
	if fc.Linker != nil && o.Linker != nil {
		fc.Linker.Assign(o.Linker)
	}
	fc.changed = true
}

func (fc *FolderConfiguration) cloneFor(conf *Configuration) AuxObject {
	n := &FolderConfiguration{
		conf:      conf,
		folder:    fc.folder,
		id:        fc.id,
		compilers: map[toolconf.Kind]*toolconf.Compiler{},
	}
	for k, c := range fc.compilers {
		n.compilers[k] = c.Clone()
	}
	if fc.Linker != nil {
		n.Linker = fc.Linker.Clone()
	}
	return n
}

// linkMasters links compiler and linker configurations to the parent
// folder's, or to the project level ones.
func (fc *FolderConfiguration) linkMasters() {
	var parent *FolderConfiguration
	if p := fc.folder.Parent(); p != nil {
		parent = p.FolderConfiguration(fc.conf)
	}
	for k, c := range fc.compilers {
		m := fc.conf.Compiler(k)
		if parent != nil {
			m = parent.compilers[k]
		}
		_ = c.SetMaster(m)
	}
	if fc.Linker == nil {
		return
	}
	lm := fc.conf.Linker
	if parent != nil && parent.Linker != nil {
		lm = parent.Linker
	}
	_ = fc.Linker.SetMaster(lm)
}
