// Copyright 2026 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package toolconf

import (
	"go.chromium.org/infra/build/makeproj/invariant"
	"go.chromium.org/infra/build/makeproj/setting"
)

// Linker is a linker configuration of a build configuration or a test
// folder. Test folders link against their parent test folders'
// settings.
type Linker struct {
	master *Linker

	Output                 *setting.String
	Strip                  *setting.Bool
	CommandLine            *setting.String
	LibrarySearchDirs      *setting.List
	RuntimeSearchDirs      *setting.List
	Libraries              *setting.List
	AdditionalDependencies *setting.String
}

// NewLinker returns a linker configuration.
func NewLinker() *Linker {
	return &Linker{
		Output:                 setting.NewString(""),
		Strip:                  setting.NewBool(false),
		CommandLine:            setting.NewString(""),
		LibrarySearchDirs:      setting.NewList(),
		RuntimeSearchDirs:      setting.NewList(),
		Libraries:              setting.NewList(),
		AdditionalDependencies: setting.NewString(""),
	}
}

// Master returns the master configuration, or nil.
func (l *Linker) Master() *Linker { return l.master }

// SetMaster links l to m.
func (l *Linker) SetMaster(m *Linker) error {
	for p := m; p != nil; p = p.master {
		if p == l {
			invariant.Check(false, "linker configuration master cycle")
			return setting.ErrCycle
		}
	}
	l.master = m
	if m == nil {
		l.Strip.SetMaster(nil)
		return nil
	}
	return l.Strip.SetMaster(m.Strip)
}

// Chain returns l and its masters, outermost first.
func (l *Linker) Chain() []*Linker {
	var chain []*Linker
	seen := map[*Linker]bool{}
	for p := l; p != nil; p = p.master {
		if !invariant.Check(!seen[p], "linker configuration master cycle") {
			break
		}
		seen[p] = true
		chain = append([]*Linker{p}, chain...)
	}
	return chain
}

func (l *Linker) settings() []tracked {
	return []tracked{
		l.Output, l.Strip, l.CommandLine, l.LibrarySearchDirs,
		l.RuntimeSearchDirs, l.Libraries, l.AdditionalDependencies,
	}
}

// Modified reports whether any setting is modified.
func (l *Linker) Modified() bool {
	for _, s := range l.settings() {
		if s.Modified() {
			return true
		}
	}
	return false
}

// Dirty reports whether any setting is dirty.
func (l *Linker) Dirty() bool {
	for _, s := range l.settings() {
		if s.Dirty() {
			return true
		}
	}
	return false
}

// ClearDirty resets all dirty flags.
func (l *Linker) ClearDirty() {
	for _, s := range l.settings() {
		s.SetDirty(false)
	}
}

// Options returns link options of the chain, outermost first.
func (l *Linker) Options(tool Tool) string {
	if tool == nil {
		return ""
	}
	var opts []string
	for _, c := range l.Chain() {
		for _, d := range c.LibrarySearchDirs.Value() {
			opts = append(opts, tool.Flag(LibrarySearchFlag, 0)+EscapeOddCharacters(tool.NormalizePath(d)))
		}
		for _, d := range c.RuntimeSearchDirs.Value() {
			opts = append(opts, tool.Flag(RuntimeSearchFlag, 0)+EscapeOddCharacters(tool.NormalizePath(d)))
		}
		for _, lib := range c.Libraries.Value() {
			opts = append(opts, tool.Flag(LibraryFlag, 0)+lib)
		}
		opts = append(opts, c.CommandLine.Value())
	}
	if l.Strip.Value() {
		opts = append(opts, tool.Flag(StripFlag, 1))
	}
	return join(opts...)
}

// OutputFile returns the output of the link, or def if not set.
func (l *Linker) OutputFile(def string) string {
	if v := l.Output.Value(); v != "" {
		return v
	}
	return def
}

// Assign copies all own values from o.
func (l *Linker) Assign(o *Linker) {
	l.Output.Assign(o.Output)
	l.Strip.Assign(o.Strip)
	l.CommandLine.Assign(o.CommandLine)
	l.LibrarySearchDirs.Assign(o.LibrarySearchDirs)
	l.RuntimeSearchDirs.Assign(o.RuntimeSearchDirs)
	l.Libraries.Assign(o.Libraries)
	l.AdditionalDependencies.Assign(o.AdditionalDependencies)
}

// Clone returns a deep copy without master link.
func (l *Linker) Clone() *Linker {
	return &Linker{
		Output:                 l.Output.Clone(),
		Strip:                  l.Strip.Clone(),
		CommandLine:            l.CommandLine.Clone(),
		LibrarySearchDirs:      l.LibrarySearchDirs.Clone(),
		RuntimeSearchDirs:      l.RuntimeSearchDirs.Clone(),
		Libraries:              l.Libraries.Clone(),
		AdditionalDependencies: l.AdditionalDependencies.Clone(),
	}
}
