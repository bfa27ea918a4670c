// Copyright 2026 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package toolchain

import "go.chromium.org/infra/build/makeproj/toolconf"

func gnuTools(d *Descriptor, cc, cxx string) {
	common := map[toolconf.Category][]string{
		toolconf.DevelopmentModeFlags: {"", "-g", "-g -O", "-g -fprofile-arcs -ftest-coverage", "-g -O2", "-O2", "-O3"},
		toolconf.WarningFlags:         {"-w", "", "-Wall", "-Werror"},
		toolconf.ArchitectureFlags:    {"", "-m32", "-m64"},
		toolconf.StripFlag:            {"", "-s"},
		toolconf.IncludeDirectoryFlag: {"-I"},
		toolconf.IncludeFileFlag:      {"-include "},
		toolconf.DefineFlag:           {"-D"},
		toolconf.UndefineFlag:         {"-U"},
		toolconf.OutputFlag:           {"-o "},
		toolconf.DependencyFlags:      {`-MMD -MP -MF "$@.d"`},
	}
	with := func(extra map[toolconf.Category][]string) map[toolconf.Category][]string {
		m := make(map[toolconf.Category][]string, len(common)+len(extra))
		for k, v := range common {
			m[k] = v
		}
		for k, v := range extra {
			m[k] = v
		}
		return m
	}
	d.SetTool(toolconf.CCompiler, &Tool{
		Path: cc,
		Flags: with(map[toolconf.Category][]string{
			toolconf.CStandardFlags: {"", "-std=c89", "-std=c99", "-std=c11", "-std=c17"},
		}),
		SystemIncludeDirs: []string{"/usr/local/include", "/usr/include"},
		PredefinedMacros:  []string{"__STDC__=1", "__GNUC__"},
	})
	d.SetTool(toolconf.CCCompiler, &Tool{
		Path: cxx,
		Flags: with(map[toolconf.Category][]string{
			toolconf.CppStandardFlags: {"", "-std=c++98", "-std=c++11", "-std=c++14", "-std=c++17", "-std=c++20"},
		}),
		SystemIncludeDirs: []string{"/usr/local/include", "/usr/include"},
		PredefinedMacros:  []string{"__cplusplus", "__GNUC__"},
	})
	d.SetTool(toolconf.FortranCompiler, &Tool{
		Path: "gfortran",
		Flags: with(map[toolconf.Category][]string{
			toolconf.DependencyFlags: nil,
		}),
	})
	d.SetTool(toolconf.Assembler, &Tool{
		Path: "as",
		Flags: map[toolconf.Category][]string{
			toolconf.DevelopmentModeFlags: {"", "-g", "-g", "-g", "-g", "", ""},
			toolconf.ArchitectureFlags:    {"", "--32", "--64"},
			toolconf.OutputFlag:           {"-o "},
		},
	})
	d.SetTool(toolconf.LinkerTool, &Tool{
		Path: cxx,
		Flags: map[toolconf.Category][]string{
			toolconf.StripFlag:         {"", "-s"},
			toolconf.ArchitectureFlags: {"", "-m32", "-m64"},
			toolconf.OutputFlag:        {"-o "},
			toolconf.LibrarySearchFlag: {"-L"},
			toolconf.LibraryFlag:       {"-l"},
			toolconf.RuntimeSearchFlag: {"-Wl,-rpath,"},
		},
	})
}

func studioTools(d *Descriptor) {
	common := func(extra map[toolconf.Category][]string) map[toolconf.Category][]string {
		m := map[toolconf.Category][]string{
			toolconf.DevelopmentModeFlags: {"", "-g", "-g -xO2", "-g -xprofile=tcov", "-g -xO3", "-xO2", "-fast"},
			toolconf.ArchitectureFlags:    {"", "-m32", "-m64"},
			toolconf.StripFlag:            {"", "-s"},
			toolconf.IncludeDirectoryFlag: {"-I"},
			toolconf.IncludeFileFlag:      {"-include "},
			toolconf.DefineFlag:           {"-D"},
			toolconf.UndefineFlag:         {"-U"},
			toolconf.OutputFlag:           {"-o "},
			toolconf.DependencyFlags:      {`-xMMD -xMF "$@.d"`},
		}
		for k, v := range extra {
			m[k] = v
		}
		return m
	}
	d.SetTool(toolconf.CCompiler, &Tool{
		Path: "cc",
		Flags: common(map[toolconf.Category][]string{
			toolconf.WarningFlags:   {"-w", "", "+w", "-errwarn=%all"},
			toolconf.CStandardFlags: {"", "-std=c89", "-std=c99", "-std=c11", "-std=c11"},
		}),
		SystemIncludeDirs: []string{"/opt/developerstudio/lib/compilers/include/cc", "/usr/include"},
		PredefinedMacros:  []string{"__SUNPRO_C", "__STDC__=0"},
	})
	d.SetTool(toolconf.CCCompiler, &Tool{
		Path: "CC",
		Flags: common(map[toolconf.Category][]string{
			toolconf.WarningFlags:      {"-w", "", "+w", "-xwe"},
			toolconf.CppStandardFlags:  {"", "-std=c++03", "-std=c++11", "-std=c++14", "-std=c++14", "-std=c++14"},
			toolconf.LibraryLevelFlags: {"-library=%none", "-library=Crun", "-library=iostream", "", "-library=stlport4"},
		}),
		SystemIncludeDirs: []string{"/opt/developerstudio/lib/compilers/include/CC/Cstd", "/usr/include"},
		PredefinedMacros:  []string{"__SUNPRO_CC", "__cplusplus"},
	})
	d.SetTool(toolconf.FortranCompiler, &Tool{
		Path: "f95",
		Flags: common(map[toolconf.Category][]string{
			toolconf.WarningFlags: {"-w", "", "", "-errwarn=%all"},
		}),
	})
	d.SetTool(toolconf.Assembler, &Tool{
		Path: "as",
		Flags: map[toolconf.Category][]string{
			toolconf.DevelopmentModeFlags: {"", "-g", "-g", "-g", "-g", "", ""},
			toolconf.ArchitectureFlags:    {"", "-m32", "-m64"},
			toolconf.OutputFlag:           {"-o "},
		},
	})
	d.SetTool(toolconf.LinkerTool, &Tool{
		Path: "CC",
		Flags: map[toolconf.Category][]string{
			toolconf.StripFlag:         {"", "-s"},
			toolconf.ArchitectureFlags: {"", "-m32", "-m64"},
			toolconf.OutputFlag:        {"-o "},
			toolconf.LibrarySearchFlag: {"-L"},
			toolconf.LibraryFlag:       {"-l"},
			toolconf.RuntimeSearchFlag: {"-R"},
		},
	})
}

// Builtin returns descriptors of builtin toolchains.
func Builtin() []*Descriptor {
	gnu := NewDescriptor("GNU", "GNU", PathStylePOSIX)
	gnuTools(gnu, "gcc", "g++")

	clang := NewDescriptor("CLang", "CLang", PathStylePOSIX)
	gnuTools(clang, "clang", "clang++")

	cygwin := NewDescriptor("Cygwin", "Cygwin", PathStyleCygwin)
	gnuTools(cygwin, "gcc", "g++")

	mingw := NewDescriptor("MinGW", "MinGW", PathStyleMSYS)
	gnuTools(mingw, "gcc", "g++")

	studio := NewDescriptor("OracleDeveloperStudio", "SunStudio", PathStylePOSIX)
	studioTools(studio)

	return []*Descriptor{gnu, clang, cygwin, mingw, studio}
}
