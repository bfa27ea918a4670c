// Copyright 2026 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package nativefile defines the view of project files consumed by code
// models and change listeners.
package nativefile

import (
	"fmt"
	"path"
	"strings"
)

// Language is a source language.
type Language int

const (
	Other Language = iota
	C
	CPP
	Fortran
	Header
)

var languageNames = []string{"other", "c", "cpp", "fortran", "header"}

func (l Language) String() string {
	if l < 0 || int(l) >= len(languageNames) {
		return fmt.Sprintf("Language(%d)", int(l))
	}
	return languageNames[l]
}

// Flavor is a language dialect.
type Flavor int

const (
	Unknown Flavor = iota
	FlavorC
	C89
	C99
	C11
	C17
	FlavorCPP
	CPP98
	CPP11
	CPP14
	CPP17
	CPP20
	F77
	F90
	F95
)

var flavorNames = []string{
	"unknown", "c", "c89", "c99", "c11", "c17",
	"cpp", "cpp98", "cpp11", "cpp14", "cpp17", "cpp20",
	"f77", "f90", "f95",
}

func (f Flavor) String() string {
	if f < 0 || int(f) >= len(flavorNames) {
		return fmt.Sprintf("Flavor(%d)", int(f))
	}
	return flavorNames[f]
}

// FlavorNames returns names of all flavors, indexed by value.
func FlavorNames() []string {
	return append([]string(nil), flavorNames...)
}

// ParseFlavor parses a flavor name.
func ParseFlavor(s string) (Flavor, error) {
	for i, n := range flavorNames {
		if n == s {
			return Flavor(i), nil
		}
	}
	return Unknown, fmt.Errorf("unknown language flavor %q", s)
}

// Source extensions by language. Header extensions are listed in
// headerExts.
var (
	cExts       = []string{".c", ".i"}
	cppExts     = []string{".cc", ".cpp", ".cxx", ".c++", ".C", ".ii", ".mm"}
	fortranExts = []string{".f", ".F", ".f77", ".f90", ".F90", ".f95", ".for"}
	asmExts     = []string{".s", ".S", ".asm", ".as"}
	headerExts  = []string{".h", ".hh", ".hpp", ".hxx", ".h++", ".H", ".inc", ".tcc", ".ipp"}
)

func hasExt(exts []string, ext string) bool {
	for _, e := range exts {
		if e == ext {
			return true
		}
	}
	return false
}

// LanguageOf returns the language of a file name by extension.
func LanguageOf(name string) Language {
	ext := path.Ext(name)
	switch {
	case hasExt(cExts, ext):
		return C
	case hasExt(cppExts, ext):
		return CPP
	case hasExt(fortranExts, ext):
		return Fortran
	case hasExt(headerExts, ext):
		return Header
	}
	return Other
}

// IsAssembler reports whether name is an assembler source.
func IsAssembler(name string) bool {
	return hasExt(asmExts, path.Ext(name))
}

// IsHeader reports whether name is a header.
func IsHeader(name string) bool {
	return LanguageOf(name) == Header
}

// IsSource reports whether name is a C, C++, Fortran, assembler source
// or a header.
func IsSource(name string) bool {
	return LanguageOf(name) != Other || IsAssembler(name)
}

// IsMakefile reports whether name looks like a makefile.
func IsMakefile(name string) bool {
	base := strings.ToLower(path.Base(name))
	return base == "makefile" || base == "gnumakefile" || strings.HasSuffix(base, ".mk") || strings.HasPrefix(base, "makefile.")
}

// Item is a project file as seen with the active configuration.
type Item interface {
	AbsolutePath() string
	IsExcluded() bool
	UserIncludePaths() []string
	IncludeFiles() []string
	UserMacroDefinitions() []string
	// UndefinedMacros returns nil if not applicable.
	UndefinedMacros() []string
	SystemIncludePaths() []string
	SystemIncludeHeaders() []string
	SystemMacroDefinitions() []string
	Language() Language
	LanguageFlavor() Flavor
}

// Listener receives project change notifications.
// Notifications are fire-and-forget.
type Listener interface {
	FilesAdded(items []Item)
	FilesRemoved(items []Item)
	FileRenamed(oldPath string, item Item)
	FilesPropertiesChanged(items []Item)
}
