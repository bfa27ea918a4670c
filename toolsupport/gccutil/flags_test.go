// Copyright 2026 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package gccutil

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"go.chromium.org/infra/build/makeproj/toolconf"
)

func TestParseFlags(t *testing.T) {
	for _, tc := range []struct {
		name string
		args []string
		want Flags
	}{
		{
			name: "clang++",
			args: []string{
				"../../third_party/llvm-build/Release+Asserts/bin/clang++",
				"-MMD",
				"-MF",
				"obj/base/base/base64.o.d",
				"-DDCHECK_ALWAYS_ON=1",
				`-DCR_CLANG_REVISION="llvmorg-17"`,
				"-I../..",
				"-Igen",
				"-isystem",
				"../../buildtools/third_party/libc++/trunk/include",
				"-std=c++17",
				"-fno-exceptions",
				"-c",
				"../../base/base64.cc",
				"-o",
				"obj/base/base/base64.o",
			},
			want: Flags{
				Compiler: "../../third_party/llvm-build/Release+Asserts/bin/clang++",
				Files:    []string{"../../base/base64.cc"},
				Includes: []string{
					"../..",
					"gen",
					"../../buildtools/third_party/libc++/trunk/include",
				},
				Macros:      []string{"DCHECK_ALWAYS_ON=1", `CR_CLANG_REVISION="llvmorg-17"`},
				CppStandard: toolconf.CppStandardCpp17,
				Options:     []string{"-fno-exceptions"},
			},
		},
		{
			name: "gcc",
			args: []string{
				"gcc", "-include", "config.h", "-U", "NDEBUG", "-UDEBUG", "-D", "X",
				"-std=gnu99", "-std=weird", "-O2", "-c", "src/a.c",
			},
			want: Flags{
				Compiler:     "gcc",
				Files:        []string{"src/a.c"},
				IncludeFiles: []string{"config.h"},
				Macros:       []string{"X"},
				Undefines:    []string{"NDEBUG", "DEBUG"},
				CStandard:    toolconf.CStandardC99,
				Options:      []string{"-std=weird", "-O2"},
			},
		},
		{
			name: "flags only",
			args: []string{"-ansi", "-Wall", "-I"},
			want: Flags{
				CStandard: toolconf.CStandardC89,
				Options:   []string{"-Wall"},
			},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseFlags(tc.args)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("ParseFlags(%q) diff -want +got:\n%s", tc.args, diff)
			}
		})
	}
}

func TestApply(t *testing.T) {
	f := ParseFlags([]string{"g++", "-I/opt/x", "-DA=1", "-UB", "-include", "pre.h", "-std=c++14", "-DNAME=my app", "-g", "b.cpp"})
	if got, want := KindOf(f), toolconf.CCCompiler; got != want {
		t.Errorf("KindOf=%s; want %s", got, want)
	}
	c := toolconf.NewCompiler(toolconf.CCCompiler, true, true)
	c.CommandLine.Set("-Wall")
	Apply(c, f)
	for _, tc := range []struct {
		cat  toolconf.ListCategory
		want []string
	}{
		{toolconf.IncludeDirectories, []string{"/opt/x"}},
		{toolconf.IncludeFiles, []string{"pre.h"}},
		{toolconf.Macros, []string{"A=1", "NAME=my app"}},
		{toolconf.UndefinedMacros, []string{"B"}},
	} {
		if diff := cmp.Diff(tc.want, c.List(tc.cat).Value()); diff != "" {
			t.Errorf("%s diff -want +got:\n%s", tc.cat, diff)
		}
	}
	if got, want := c.Standard.Value(), toolconf.CppStandardCpp14; got != want {
		t.Errorf("standard=%d; want %d", got, want)
	}
	if got, want := c.CommandLine.Value(), "-Wall -g"; got != want {
		t.Errorf("command line=%q; want %q", got, want)
	}

	// fortran has no include files nor undefines.
	fc := toolconf.NewCompiler(toolconf.FortranCompiler, true, true)
	Apply(fc, f)
	if diff := cmp.Diff([]string{"/opt/x"}, fc.List(toolconf.IncludeDirectories).Value()); diff != "" {
		t.Errorf("fortran includes diff -want +got:\n%s", diff)
	}
}

func TestKindOf(t *testing.T) {
	for _, tc := range []struct {
		args []string
		want toolconf.Kind
	}{
		{[]string{"cc", "-c", "a.c"}, toolconf.CCompiler},
		{[]string{"gfortran", "-c", "m.f90"}, toolconf.FortranCompiler},
		{[]string{"as", "start.S"}, toolconf.Assembler},
		{[]string{"clang++", "-E"}, toolconf.CCCompiler},
		{[]string{"gfortran"}, toolconf.FortranCompiler},
		{[]string{"g++", "-std=c++17", "-c", "src/a.c"}, toolconf.CCCompiler},
		{[]string{"/usr/bin/clang++", "-c", "a.c"}, toolconf.CCCompiler},
		{[]string{"CC", "-c", "a.c"}, toolconf.CCCompiler},
		{[]string{"gcc", "-c", "a.cpp"}, toolconf.CCCompiler},
		{[]string{"clang", "-c", "a.c"}, toolconf.CCompiler},
		{[]string{"g++", "-c", "start.S"}, toolconf.Assembler},
	} {
		if got := KindOf(ParseFlags(tc.args)); got != tc.want {
			t.Errorf("KindOf(%q)=%s; want %s", tc.args, got, tc.want)
		}
	}
}
