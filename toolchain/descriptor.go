// Copyright 2026 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package toolchain provides toolchain descriptors that map
// configuration settings to tool flags.
package toolchain

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"go.chromium.org/infra/build/makeproj/toolconf"
)

// PathStyle is how a toolchain spells absolute Windows paths.
type PathStyle int

const (
	PathStylePOSIX PathStyle = iota
	// PathStyleCygwin maps c:/x to /cygdrive/c/x.
	PathStyleCygwin
	// PathStyleMSYS maps c:/x to /c/x.
	PathStyleMSYS
)

var pathStyleNames = []string{"posix", "cygwin", "msys"}

func (s PathStyle) String() string {
	if s < 0 || int(s) >= len(pathStyleNames) {
		return fmt.Sprintf("PathStyle(%d)", int(s))
	}
	return pathStyleNames[s]
}

// ParsePathStyle parses a path style name.
func ParsePathStyle(s string) (PathStyle, error) {
	for i, n := range pathStyleNames {
		if n == s {
			return PathStyle(i), nil
		}
	}
	return 0, fmt.Errorf("unknown path style %q", s)
}

// Normalize maps p to the path style.
func (s PathStyle) Normalize(p string) string {
	if len(p) < 2 || p[1] != ':' || !isLetter(p[0]) {
		return p
	}
	rest := strings.ReplaceAll(p[2:], "\\", "/")
	drive := strings.ToLower(p[:1])
	switch s {
	case PathStyleCygwin:
		return "/cygdrive/" + drive + rest
	case PathStyleMSYS:
		return "/" + drive + rest
	}
	return p
}

func isLetter(b byte) bool {
	return ('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z')
}

// Tool describes one tool of a toolchain.
type Tool struct {
	kind      toolconf.Kind
	pathStyle PathStyle

	// Path is the executable of the tool.
	Path string
	// Flags maps categories to flags indexed by enum value.
	// Prefix categories have a single entry.
	Flags map[toolconf.Category][]string
	// SystemIncludeDirs are the tool's builtin include directories.
	SystemIncludeDirs []string
	// SystemHeaders are headers implicitly included by the tool.
	SystemHeaders []string
	// PredefinedMacros are the tool's builtin macros.
	PredefinedMacros []string
}

var _ toolconf.Tool = (*Tool)(nil)
var _ toolconf.ImportantFlagger = (*Tool)(nil)

// Kind returns the tool kind.
func (t *Tool) Kind() toolconf.Kind { return t.kind }

// Flag returns the flag of the category and value, or "".
func (t *Tool) Flag(c toolconf.Category, value int) string {
	flags := t.Flags[c]
	switch {
	case len(flags) == 1:
		return flags[0]
	case value < 0 || value >= len(flags):
		return ""
	}
	return flags[value]
}

// NormalizePath maps p to the tool's path style.
func (t *Tool) NormalizePath(p string) string {
	return t.pathStyle.Normalize(p)
}

// ImportantFlags returns flags of a managed configuration that change
// code semantics.
func (t *Tool) ImportantFlags(c *toolconf.Compiler) string {
	return toolconf.ReformatWhitespaces(strings.Join([]string{
		c.StandardFlags(t),
		c.ArchitectureFlags(t),
		c.LibraryLevelFlags(t),
	}, " "))
}

func (t *Tool) clone() *Tool {
	n := *t
	n.Flags = make(map[toolconf.Category][]string, len(t.Flags))
	for k, v := range t.Flags {
		n.Flags[k] = slices.Clone(v)
	}
	n.SystemIncludeDirs = slices.Clone(t.SystemIncludeDirs)
	n.SystemHeaders = slices.Clone(t.SystemHeaders)
	n.PredefinedMacros = slices.Clone(t.PredefinedMacros)
	return &n
}

// Descriptor describes a toolchain (compiler set).
type Descriptor struct {
	Name      string
	Flavor    string
	PathStyle PathStyle
	tools     map[toolconf.Kind]*Tool
}

// NewDescriptor returns a descriptor without tools.
func NewDescriptor(name, flavor string, style PathStyle) *Descriptor {
	return &Descriptor{
		Name:      name,
		Flavor:    flavor,
		PathStyle: style,
		tools:     map[toolconf.Kind]*Tool{},
	}
}

// SetTool sets the tool of the kind.
func (d *Descriptor) SetTool(k toolconf.Kind, t *Tool) {
	t.kind = k
	t.pathStyle = d.PathStyle
	d.tools[k] = t
}

// Tool returns the tool of the kind, or nil.
func (d *Descriptor) Tool(k toolconf.Kind) *Tool {
	if d == nil {
		return nil
	}
	return d.tools[k]
}

// Kinds returns kinds of the tools, sorted.
func (d *Descriptor) Kinds() []toolconf.Kind {
	return slices.Sorted(maps.Keys(d.tools))
}

// Derive returns a copy of d with a new name.
func (d *Descriptor) Derive(name string) *Descriptor {
	n := NewDescriptor(name, d.Flavor, d.PathStyle)
	for k, t := range d.tools {
		n.SetTool(k, t.clone())
	}
	return n
}

// ToolFor returns the tool of the kind as toolconf.Tool. It returns
// a nil interface if the toolchain doesn't have the tool.
func (d *Descriptor) ToolFor(k toolconf.Kind) toolconf.Tool {
	t := d.Tool(k)
	if t == nil {
		return nil
	}
	return t
}
