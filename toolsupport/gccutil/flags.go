// Copyright 2026 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package gccutil imports gcc/clang compile lines into compiler
// configurations.
package gccutil

import (
	"path/filepath"
	"strings"

	"go.chromium.org/infra/build/makeproj/nativefile"
	"go.chromium.org/infra/build/makeproj/toolconf"
	"go.chromium.org/infra/build/makeproj/toolsupport/shutil"
)

// Flags are the parts of a compile line a compiler configuration keeps.
type Flags struct {
	Compiler     string
	Files        []string
	Includes     []string
	IncludeFiles []string
	Macros       []string
	Undefines    []string

	// CStandard and CppStandard are toolconf standard values, or
	// toolconf.StandardDefault if -std was not given for the language.
	CStandard   int
	CppStandard int

	// Options are the remaining flags, except output and dependency
	// file flags.
	Options []string
}

// ParseFlags parses args of a gcc or clang compile line.
// args[0] is taken as the compiler if it is not a flag.
// Only major flags are parsed; full set of command line flags can be found in
// https://clang.llvm.org/docs/ClangCommandLineReference.html#include-path-management
func ParseFlags(args []string) Flags {
	var f Flags
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		f.Compiler = args[0]
		args = args[1:]
	}
	for i := 0; i < len(args); i++ {
		arg := args[i]
		next := func() string {
			if i+1 >= len(args) {
				return ""
			}
			i++
			return args[i]
		}
		switch arg {
		case "-I", "--include-directory", "-isystem", "-iquote":
			if v := next(); v != "" {
				f.Includes = append(f.Includes, v)
			}
			continue
		case "-include":
			if v := next(); v != "" {
				f.IncludeFiles = append(f.IncludeFiles, v)
			}
			continue
		case "-D":
			if v := next(); v != "" {
				f.Macros = append(f.Macros, v)
			}
			continue
		case "-U":
			if v := next(); v != "" {
				f.Undefines = append(f.Undefines, v)
			}
			continue
		case "-o", "-MF", "-MT", "-MQ":
			next()
			continue
		case "-c", "-MD", "-MMD", "-M", "-MM", "-MP":
			continue
		}
		switch {
		case strings.HasPrefix(arg, "-I"):
			f.Includes = append(f.Includes, strings.TrimPrefix(arg, "-I"))
		case strings.HasPrefix(arg, "--include-directory="):
			f.Includes = append(f.Includes, strings.TrimPrefix(arg, "--include-directory="))
		case strings.HasPrefix(arg, "-iquote"):
			f.Includes = append(f.Includes, strings.TrimPrefix(arg, "-iquote"))
		case strings.HasPrefix(arg, "-isystem"):
			f.Includes = append(f.Includes, strings.TrimPrefix(arg, "-isystem"))
		case strings.HasPrefix(arg, "-D"):
			f.Macros = append(f.Macros, strings.TrimPrefix(arg, "-D"))
		case strings.HasPrefix(arg, "-U"):
			f.Undefines = append(f.Undefines, strings.TrimPrefix(arg, "-U"))
		case strings.HasPrefix(arg, "-std="):
			if !f.setStandard(strings.TrimPrefix(arg, "-std=")) {
				f.Options = append(f.Options, arg)
			}
		case arg == "-ansi":
			f.CStandard = toolconf.CStandardC89
		case strings.HasPrefix(arg, "-"):
			f.Options = append(f.Options, arg)
		case nativefile.IsSource(arg):
			f.Files = append(f.Files, filepath.ToSlash(arg))
		default:
			f.Options = append(f.Options, arg)
		}
	}
	return f
}

var cStandards = map[string]int{
	"c89": toolconf.CStandardC89, "c90": toolconf.CStandardC89,
	"gnu89": toolconf.CStandardC89, "gnu90": toolconf.CStandardC89,
	"c99": toolconf.CStandardC99, "gnu99": toolconf.CStandardC99,
	"c11": toolconf.CStandardC11, "gnu11": toolconf.CStandardC11,
	"c17": toolconf.CStandardC17, "c18": toolconf.CStandardC17,
	"gnu17": toolconf.CStandardC17, "gnu18": toolconf.CStandardC17,
}

var cppStandards = map[string]int{
	"c++98": toolconf.CppStandardCpp98, "c++03": toolconf.CppStandardCpp98,
	"gnu++98": toolconf.CppStandardCpp98, "gnu++03": toolconf.CppStandardCpp98,
	"c++11": toolconf.CppStandardCpp11, "c++0x": toolconf.CppStandardCpp11,
	"gnu++11": toolconf.CppStandardCpp11,
	"c++14": toolconf.CppStandardCpp14, "c++1y": toolconf.CppStandardCpp14,
	"gnu++14": toolconf.CppStandardCpp14,
	"c++17": toolconf.CppStandardCpp17, "c++1z": toolconf.CppStandardCpp17,
	"gnu++17": toolconf.CppStandardCpp17,
	"c++20": toolconf.CppStandardCpp20, "c++2a": toolconf.CppStandardCpp20,
	"gnu++20": toolconf.CppStandardCpp20,
}

func (f *Flags) setStandard(std string) bool {
	if v, ok := cStandards[std]; ok {
		f.CStandard = v
		return true
	}
	if v, ok := cppStandards[std]; ok {
		f.CppStandard = v
		return true
	}
	return false
}

// Apply adds f to c. Lists c has no category for are skipped.
// Remaining options are appended to the command line.
func Apply(c *toolconf.Compiler, f Flags) {
	for cat, values := range map[toolconf.ListCategory][]string{
		toolconf.IncludeDirectories: f.Includes,
		toolconf.IncludeFiles:       f.IncludeFiles,
		toolconf.Macros:             f.Macros,
		toolconf.UndefinedMacros:    f.Undefines,
	} {
		if l := c.List(cat); l != nil && len(values) > 0 {
			l.Add(values...)
		}
	}
	if c.Standard != nil {
		switch c.Kind() {
		case toolconf.CCompiler:
			if f.CStandard != toolconf.StandardDefault {
				c.Standard.Set(f.CStandard)
			}
		case toolconf.CCCompiler:
			if f.CppStandard != toolconf.StandardDefault {
				c.Standard.Set(f.CppStandard)
			}
		}
	}
	if len(f.Options) > 0 {
		opts := shutil.Join(f.Options)
		if cur := c.CommandLine.Value(); cur != "" {
			opts = cur + " " + opts
		}
		c.CommandLine.Set(opts)
	}
}

// KindOf returns the compiler kind for a compile line.
// A C++ or Fortran driver decides the kind, except for assembler
// sources. Otherwise the kind follows the first source file.
func KindOf(f Flags) toolconf.Kind {
	driver, explicit := driverKind(f.Compiler)
	for _, file := range f.Files {
		if nativefile.IsAssembler(file) {
			return toolconf.Assembler
		}
		if explicit {
			return driver
		}
		switch nativefile.LanguageOf(file) {
		case nativefile.C:
			return toolconf.CCompiler
		case nativefile.CPP:
			return toolconf.CCCompiler
		case nativefile.Fortran:
			return toolconf.FortranCompiler
		}
	}
	return driver
}

// driverKind returns the kind of compiler driver, and whether the
// driver name determines it.
func driverKind(compiler string) (toolconf.Kind, bool) {
	base := strings.TrimSuffix(filepath.Base(compiler), ".exe")
	switch {
	case strings.HasSuffix(base, "++"), strings.HasSuffix(base, "CC"):
		return toolconf.CCCompiler, true
	case strings.Contains(base, "fortran"):
		return toolconf.FortranCompiler, true
	}
	return toolconf.CCompiler, false
}
