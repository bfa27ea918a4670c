// Copyright 2026 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package toolconf

// Development modes.
const (
	DevelopmentNoFlags = iota
	DevelopmentDebug
	DevelopmentPerformanceDebug
	DevelopmentTestCoverage
	DevelopmentDiagnosable
	DevelopmentRelease
	DevelopmentPerformanceRelease
)

// DevelopmentModeNames are names of development modes.
var DevelopmentModeNames = []string{
	"No Flags",
	"Debug",
	"Performance Debug",
	"Test Coverage",
	"Diagnosable Release",
	"Release",
	"Performance Release",
}

// Warning levels.
const (
	WarningsNone = iota
	WarningsSome
	WarningsMore
	WarningsAsErrors
)

// WarningNames are names of warning levels.
var WarningNames = []string{
	"No Warnings",
	"Some Warnings",
	"More Warnings",
	"Convert Warnings to Errors",
}

// Architectures.
const (
	ArchDefault = iota
	Arch32
	Arch64
)

// ArchitectureNames are names of architectures.
var ArchitectureNames = []string{"Default", "32 Bits", "64 Bits"}

// C standards. CStandardInherited is a sentinel that defers to the
// master configuration; it is not offered on root configurations.
const (
	StandardDefault = iota
	CStandardC89
	CStandardC99
	CStandardC11
	CStandardC17
	CStandardInherited
)

// CStandardNames are names of C standards.
var CStandardNames = []string{"Default", "C89", "C99", "C11", "C17", "Inherited"}

// C++ standards.
const (
	CppStandardCpp98 = iota + 1
	CppStandardCpp11
	CppStandardCpp14
	CppStandardCpp17
	CppStandardCpp20
	CppStandardInherited
)

// CppStandardNames are names of C++ standards.
var CppStandardNames = []string{"Default", "C++98", "C++11", "C++14", "C++17", "C++20", "Inherited"}

// C++ library levels.
const (
	LibraryNone = iota
	LibraryRuntime
	LibraryClassic
	LibraryBinaryStandard
	LibraryConformingStandard
)

// LibraryLevelNames are names of C++ library levels.
var LibraryLevelNames = []string{
	"No Libraries",
	"Runtime Only",
	"Classic Iostreams",
	"Binary Standard (C++)",
	"Conforming Standard (C++)",
}

func standardNames(k Kind, root bool) []string {
	var names []string
	switch k {
	case CCompiler:
		names = CStandardNames
	case CCCompiler:
		names = CppStandardNames
	default:
		return nil
	}
	if root {
		// the last entry is the inherited sentinel.
		return names[:len(names)-1]
	}
	return names
}

// InheritedStandardValue returns the inherited sentinel of the kind.
func InheritedStandardValue(k Kind) int {
	switch k {
	case CCompiler:
		return CStandardInherited
	case CCCompiler:
		return CppStandardInherited
	}
	return -1
}
