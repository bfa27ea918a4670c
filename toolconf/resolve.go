// Copyright 2026 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package toolconf

import (
	"strings"

	"go.chromium.org/infra/build/makeproj/invariant"
)

// Chain returns the configurations contributing to the list category,
// c first. It follows masters while the inherit toggle of the current
// element is set, and stops at the first element that doesn't inherit.
func (c *Compiler) Chain(cat ListCategory) []*Compiler {
	chain := []*Compiler{c}
	seen := map[*Compiler]bool{c: true}
	for cur := c; cur.inherits(cat) && cur.master != nil; cur = cur.master {
		if !invariant.Check(!seen[cur.master], "%s compiler configuration master cycle", c.kind) {
			break
		}
		seen[cur.master] = true
		chain = append(chain, cur.master)
	}
	return chain
}

// Values returns effective values of the list category, outermost
// ancestor's values first.
func (c *Compiler) Values(cat ListCategory) []string {
	var values []string
	chain := c.Chain(cat)
	for i := len(chain) - 1; i >= 0; i-- {
		if l := chain[i].lists[cat]; l != nil {
			values = append(values, l.Value()...)
		}
	}
	return values
}

// Options returns effective values of the list category formatted as
// tool options. It returns "" if tool is nil.
func (c *Compiler) Options(cat ListCategory, tool Tool) string {
	if tool == nil {
		return ""
	}
	prefix := tool.Flag(cat.flagCategory(), 0)
	var opts []string
	for _, v := range c.Values(cat) {
		if v == "" {
			continue
		}
		if cat.isPath() {
			v = tool.NormalizePath(v)
		}
		opts = append(opts, prefix+EscapeOddCharacters(v))
	}
	return strings.Join(opts, " ")
}

// IncludeDirectoriesOptions returns include directory options.
func (c *Compiler) IncludeDirectoriesOptions(tool Tool) string {
	return c.Options(IncludeDirectories, tool)
}

// IncludeFilesOptions returns forced include file options.
func (c *Compiler) IncludeFilesOptions(tool Tool) string {
	return c.Options(IncludeFiles, tool)
}

// PreprocessorOptions returns macro definitions followed by
// undefinitions.
func (c *Compiler) PreprocessorOptions(tool Tool) string {
	return ReformatWhitespaces(c.Options(Macros, tool) + " " + c.Options(UndefinedMacros, tool))
}

// InheritedStandard returns the first non-inherited standard along the
// master chain, or StandardDefault.
func (c *Compiler) InheritedStandard() int {
	inherited := InheritedStandardValue(c.kind)
	for _, m := range c.Masters(true) {
		if m.Standard == nil {
			return StandardDefault
		}
		if v := m.Standard.Value(); v != inherited {
			return v
		}
	}
	return StandardDefault
}

func (c *Compiler) standardCategory() Category {
	if c.kind == CCompiler {
		return CStandardFlags
	}
	return CppStandardFlags
}

// StandardFlags returns flags of the inherited standard.
func (c *Compiler) StandardFlags(tool Tool) string {
	if tool == nil || c.Standard == nil {
		return ""
	}
	return tool.Flag(c.standardCategory(), c.InheritedStandard())
}

// DevelopmentModeFlags returns flags of the development mode.
func (c *Compiler) DevelopmentModeFlags(tool Tool) string {
	if tool == nil {
		return ""
	}
	return tool.Flag(DevelopmentModeFlags, c.DevelopmentMode.Value())
}

// WarningFlags returns flags of the warning level.
func (c *Compiler) WarningFlags(tool Tool) string {
	if tool == nil {
		return ""
	}
	return tool.Flag(WarningFlags, c.Warnings.Value())
}

// ArchitectureFlags returns flags of the architecture.
func (c *Compiler) ArchitectureFlags(tool Tool) string {
	if tool == nil {
		return ""
	}
	return tool.Flag(ArchitectureFlags, c.Architecture.Value())
}

// StripFlags returns the strip flag if enabled.
func (c *Compiler) StripFlags(tool Tool) string {
	if tool == nil || !c.Strip.Value() {
		return ""
	}
	return tool.Flag(StripFlag, 1)
}

// LibraryLevelFlags returns flags of the C++ library level.
func (c *Compiler) LibraryLevelFlags(tool Tool) string {
	if tool == nil || c.LibraryLevel == nil {
		return ""
	}
	return tool.Flag(LibraryLevelFlags, c.LibraryLevel.Value())
}

// ImportantFlagsValue returns flags that affect code semantics.
// Unmanaged configurations return the raw setting; managed ones ask the
// tool if it is an ImportantFlagger.
func (c *Compiler) ImportantFlagsValue(tool Tool) string {
	if c.ImportantFlags != nil {
		return c.ImportantFlags.Value()
	}
	if f, ok := tool.(ImportantFlagger); ok {
		return f.ImportantFlags(c)
	}
	return ""
}

// BasicFlags returns flags independent of the item: standard,
// library level, architecture and strip.
func (c *Compiler) BasicFlags(tool Tool) string {
	return join(
		c.StandardFlags(tool),
		c.LibraryLevelFlags(tool),
		c.ArchitectureFlags(tool),
		c.StripFlags(tool),
	)
}

// Flags returns the project level flags line (CFLAGS etc).
func (c *Compiler) Flags(tool Tool) string {
	if tool == nil {
		return ""
	}
	return join(c.BasicFlags(tool), c.CommandLine.Value())
}

// AllOptions2 returns per-compile flags: development mode, warnings,
// preprocessor, include directories and include files.
func (c *Compiler) AllOptions2(tool Tool) string {
	if tool == nil {
		return ""
	}
	return join(
		c.DevelopmentModeFlags(tool),
		c.WarningFlags(tool),
		c.PreprocessorOptions(tool),
		c.IncludeDirectoriesOptions(tool),
		c.IncludeFilesOptions(tool),
	)
}

// commandLines returns the command lines of the first n masters,
// outermost first, followed by c's own.
func (c *Compiler) commandLines(n int) []string {
	masters := c.Masters(false)
	if n > len(masters) {
		n = len(masters)
	}
	var lines []string
	for i := n - 1; i >= 0; i-- {
		lines = append(lines, masters[i].CommandLine.Value())
	}
	return append(lines, c.CommandLine.Value())
}

// AdditionalOptions returns the effective additional command line:
// every ancestor's command line outermost first, then c's own.
func (c *Compiler) AdditionalOptions() string {
	return join(c.commandLines(len(c.Masters(false)))...)
}

// AllOptions returns all options of a compile with c.
func (c *Compiler) AllOptions(tool Tool) string {
	if tool == nil {
		return ""
	}
	return join(c.BasicFlags(tool), c.AdditionalOptions(), c.AllOptions2(tool))
}

// MakefileOptions returns options of a compile rule in a generated
// makefile. The compile macro already carries the root's flags, so
// command lines of all masters but the root are added.
func (c *Compiler) MakefileOptions(tool Tool) string {
	if tool == nil {
		return ""
	}
	masters := c.Masters(false)
	opts := []string{c.kind.CompileMacro(), c.AllOptions2(tool)}
	if len(masters) > 0 {
		root := masters[len(masters)-1]
		if c.Standard != nil && root.Standard != nil && c.InheritedStandard() != root.InheritedStandard() {
			opts = append(opts, c.StandardFlags(tool))
		}
	}
	if len(masters) > 0 {
		opts = append(opts, c.commandLines(len(masters)-1)...)
	}
	return join(opts...)
}

func join(parts ...string) string {
	return ReformatWhitespaces(strings.Join(parts, " "))
}
