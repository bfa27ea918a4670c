// Copyright 2026 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package toolconf provides compiler and linker configurations and
// resolves their effective options through the inheritance chain.
package toolconf

import "fmt"

// Kind is a kind of tool.
type Kind int

const (
	CCompiler Kind = iota
	CCCompiler
	FortranCompiler
	Assembler
	LinkerTool
)

var kindNames = []string{
	CCompiler:       "c",
	CCCompiler:      "cpp",
	FortranCompiler: "fortran",
	Assembler:       "asm",
	LinkerTool:      "linker",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// ParseKind parses a kind name.
func ParseKind(s string) (Kind, error) {
	for i, n := range kindNames {
		if n == s {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown tool kind %q", s)
}

// CompilerKinds are kinds that have a compiler configuration.
var CompilerKinds = []Kind{CCompiler, CCCompiler, FortranCompiler, Assembler}

// CompileMacro returns the makefile variable that expands to
// the compile command of the kind.
func (k Kind) CompileMacro() string {
	switch k {
	case CCompiler:
		return "$(COMPILE.c)"
	case CCCompiler:
		return "$(COMPILE.cc)"
	case FortranCompiler:
		return "$(COMPILE.f)"
	case Assembler:
		return "$(AS) $(ASFLAGS)"
	case LinkerTool:
		return "$(LINK.cc)"
	}
	return ""
}

// FlagsVariable returns the makefile variable holding project level
// flags of the kind.
func (k Kind) FlagsVariable() string {
	switch k {
	case CCompiler:
		return "CFLAGS"
	case CCCompiler:
		return "CCFLAGS"
	case FortranCompiler:
		return "FFLAGS"
	case Assembler:
		return "ASFLAGS"
	case LinkerTool:
		return "LDLIBSOPTIONS"
	}
	return ""
}

// Category is a category of flags supplied by a toolchain.
type Category int

const (
	DevelopmentModeFlags Category = iota
	WarningFlags
	ArchitectureFlags
	StripFlag
	CStandardFlags
	CppStandardFlags
	LibraryLevelFlags
	IncludeDirectoryFlag
	IncludeFileFlag
	DefineFlag
	UndefineFlag
	OutputFlag
	DependencyFlags
	LibrarySearchFlag
	LibraryFlag
	RuntimeSearchFlag
	numCategories
)

var categoryNames = []string{
	DevelopmentModeFlags: "development_mode",
	WarningFlags:         "warnings",
	ArchitectureFlags:    "architecture",
	StripFlag:            "strip",
	CStandardFlags:       "c_standard",
	CppStandardFlags:     "cpp_standard",
	LibraryLevelFlags:    "library_level",
	IncludeDirectoryFlag: "include_dir",
	IncludeFileFlag:      "include_file",
	DefineFlag:           "define",
	UndefineFlag:         "undefine",
	OutputFlag:           "output",
	DependencyFlags:      "dependency",
	LibrarySearchFlag:    "library_search",
	LibraryFlag:          "library",
	RuntimeSearchFlag:    "runtime_search",
}

func (c Category) String() string {
	if c < 0 || c >= numCategories {
		return fmt.Sprintf("Category(%d)", int(c))
	}
	return categoryNames[c]
}

// ParseCategory parses a category name.
func ParseCategory(s string) (Category, error) {
	for i, n := range categoryNames {
		if n == s {
			return Category(i), nil
		}
	}
	return 0, fmt.Errorf("unknown flag category %q", s)
}

// Tool supplies flags of one tool of a toolchain.
// Flag is a pure function of category and enum value. For prefix
// categories (include, define, ...) value is ignored.
type Tool interface {
	Kind() Kind
	Flag(c Category, value int) string
	// NormalizePath maps a path to the form the tool accepts,
	// e.g. drive letters for cygwin.
	NormalizePath(path string) string
}

// ImportantFlagger derives important flags of a managed configuration.
type ImportantFlagger interface {
	ImportantFlags(c *Compiler) string
}

// ListCategory is a category of list valued settings that are
// inherited by concatenation.
type ListCategory int

const (
	IncludeDirectories ListCategory = iota
	IncludeFiles
	Macros
	UndefinedMacros
)

var listCategoryNames = []string{
	IncludeDirectories: "include_directories",
	IncludeFiles:       "include_files",
	Macros:             "macros",
	UndefinedMacros:    "undefined_macros",
}

// ListCategories are all list categories.
var ListCategories = []ListCategory{IncludeDirectories, IncludeFiles, Macros, UndefinedMacros}

func (c ListCategory) String() string {
	if c < 0 || int(c) >= len(listCategoryNames) {
		return fmt.Sprintf("ListCategory(%d)", int(c))
	}
	return listCategoryNames[c]
}

func (c ListCategory) flagCategory() Category {
	switch c {
	case IncludeDirectories:
		return IncludeDirectoryFlag
	case IncludeFiles:
		return IncludeFileFlag
	case Macros:
		return DefineFlag
	case UndefinedMacros:
		return UndefineFlag
	}
	return numCategories
}

func (c ListCategory) isPath() bool {
	return c == IncludeDirectories || c == IncludeFiles
}
