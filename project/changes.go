// Copyright 2026 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package project

import (
	"github.com/charmbracelet/log"

	"go.chromium.org/infra/build/makeproj/delta"
	"go.chromium.org/infra/build/makeproj/nativefile"
	"go.chromium.org/infra/build/makeproj/toolconf"
)

// preprocessorDirty reports whether any list category or its inherit
// toggle of c is dirty, and clears them all if so.
func preprocessorDirty(c *toolconf.Compiler) bool {
	if c == nil {
		return false
	}
	dirty := false
	for _, cat := range toolconf.ListCategories {
		if l := c.List(cat); l != nil && (l.Dirty() || c.Inherit(cat).Dirty()) {
			dirty = true
		}
	}
	if !dirty {
		return false
	}
	for _, cat := range toolconf.ListCategories {
		if l := c.List(cat); l != nil {
			l.SetDirty(false)
			c.Inherit(cat).SetDirty(false)
		}
	}
	return true
}

// consumeDirty clears a dirty flag and reports whether it was set.
func consumeDirty(s interface {
	Dirty() bool
	SetDirty(bool)
}) bool {
	if s == nil || !s.Dirty() {
		return false
	}
	s.SetDirty(false)
	return true
}

// compilerChanged consumes the command line, standard and
// architecture changes of c, in that order, stopping at the first.
func compilerChanged(c *toolconf.Compiler) bool {
	if consumeDirty(c.CommandLine) {
		return true
	}
	if c.StandardChanged() {
		c.Standard.SetDirty(false)
		return true
	}
	return consumeDirty(c.Architecture)
}

// CheckForChangedItems consumes dirty flags of the active
// configuration after an edit and notifies listeners about affected
// items. folder, item, or neither (for project level settings) is the
// edited owner.
func (d *Descriptor) CheckForChangedItems(folder *Folder, item *Item) {
	conf := d.Active()
	if conf == nil {
		return
	}
	if consumeDirty(conf.CompilerSet) {
		d.firePropertiesChanged(d.Items(), true, true, true)
		return
	}
	var cFiles, ccFiles, libsChanged, projectChanged bool
	var c, cc *toolconf.Compiler
	var items []*Item
	switch {
	case folder != nil:
		fc := folder.FolderConfiguration(conf)
		if fc == nil {
			return
		}
		c = fc.Compiler(toolconf.CCompiler)
		cc = fc.Compiler(toolconf.CCCompiler)
		items = folder.AllItems()
		if c.StandardChanged() {
			c.Standard.SetDirty(false)
			cFiles = true
		}
		if cc.StandardChanged() {
			cc.Standard.SetDirty(false)
			cFiles = true
		}
	case item != nil:
		ic := item.ItemConfiguration(conf)
		if ic == nil {
			return
		}
		if ic.ToolDirty() {
			ic.SetToolDirty(false)
			cFiles = true
			ccFiles = true
		}
		switch ic.Tool() {
		case ToolC:
			c = ic.CompilerOf(toolconf.CCompiler)
			if compilerChanged(c) {
				cFiles = true
			}
		case ToolCC:
			cc = ic.CompilerOf(toolconf.CCCompiler)
			if compilerChanged(cc) {
				ccFiles = true
			}
		}
		if consumeDirty(ic.Excluded) {
			if ic.Excluded.Value() {
				d.fireFilesRemoved([]nativefile.Item{item})
			} else {
				d.fireFilesAdded([]nativefile.Item{item})
			}
		}
		items = []*Item{item}
	default:
		libsChanged = conf.Linker.Libraries.Dirty()
		c = conf.Compiler(toolconf.CCompiler)
		cc = conf.Compiler(toolconf.CCCompiler)
		if compilerChanged(c) {
			cFiles = true
		}
		if consumeDirty(cc.CommandLine) {
			ccFiles = true
		}
		if consumeDirty(conf.IncludeInCodeAssistance) {
			cFiles = true
			ccFiles = true
		}
		if !ccFiles && cc.StandardChanged() {
			cc.Standard.SetDirty(false)
			ccFiles = true
		}
		if !ccFiles && consumeDirty(cc.Architecture) {
			ccFiles = true
		}
		items = d.Items()
		projectChanged = true
	}
	if preprocessorDirty(c) {
		cFiles = true
	}
	if preprocessorDirty(cc) {
		ccFiles = true
	}
	if libsChanged {
		conf.Linker.Libraries.SetDirty(false)
		cFiles = true
		ccFiles = true
	}
	if cFiles || ccFiles {
		d.firePropertiesChanged(items, cFiles, ccFiles, projectChanged)
	}
}

// firePropertiesChanged notifies listeners about included items of
// the selected languages. Headers are selected with either language.
// projectChanged is reported in the debug log.
func (d *Descriptor) firePropertiesChanged(items []*Item, cFiles, ccFiles, projectChanged bool) {
	log.Debugf("properties changed: c=%t cpp=%t project=%t items=%d", cFiles, ccFiles, projectChanged, len(items))
	var changed []nativefile.Item
	for _, it := range items {
		if it.IsExcluded() {
			continue
		}
		switch it.Language() {
		case nativefile.C:
			if !cFiles {
				continue
			}
		case nativefile.CPP:
			if !ccFiles {
				continue
			}
		case nativefile.Header:
		default:
			continue
		}
		it.prepare()
		changed = append(changed, it)
	}
	d.fireFilesPropertiesChanged(changed)
}

// ApplyDelta notifies listeners about a change of the file set:
// deleted and excluded files are removed, added and included files
// are added, and changed files have changed properties.
func (d *Descriptor) ApplyDelta(dl *delta.Delta) {
	if dl == nil || dl.IsEmpty() {
		return
	}
	d.fireFilesRemoved(append(append([]nativefile.Item(nil), dl.Deleted...), dl.Excluded...))
	d.fireFilesAdded(append(append([]nativefile.Item(nil), dl.Added...), dl.Included...))
	d.fireFilesPropertiesChanged(append([]nativefile.Item(nil), dl.Changed...))
}
