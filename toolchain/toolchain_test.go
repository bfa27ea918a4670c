// Copyright 2026 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package toolchain

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"go.chromium.org/infra/build/makeproj/toolconf"
)

func TestPathStyleNormalize(t *testing.T) {
	for _, tc := range []struct {
		style PathStyle
		in    string
		want  string
	}{
		{style: PathStylePOSIX, in: "C:/src/inc", want: "C:/src/inc"},
		{style: PathStyleCygwin, in: "C:/src/inc", want: "/cygdrive/c/src/inc"},
		{style: PathStyleCygwin, in: `D:\x\y`, want: "/cygdrive/d/x/y"},
		{style: PathStyleMSYS, in: "C:/src", want: "/c/src"},
		{style: PathStyleMSYS, in: "/usr/include", want: "/usr/include"},
		{style: PathStyleCygwin, in: "inc", want: "inc"},
	} {
		if got := tc.style.Normalize(tc.in); got != tc.want {
			t.Errorf("%s.Normalize(%q)=%q; want %q", tc.style, tc.in, got, tc.want)
		}
	}
}

func TestRegistryFlags(t *testing.T) {
	r := NewRegistry()
	tool := r.Tool("GNU", toolconf.CCCompiler)
	if tool == nil {
		t.Fatalf("GNU C++ tool is missing")
	}
	for _, tc := range []struct {
		cat   toolconf.Category
		value int
		want  string
	}{
		{cat: toolconf.DevelopmentModeFlags, value: toolconf.DevelopmentDebug, want: "-g"},
		{cat: toolconf.WarningFlags, value: toolconf.WarningsMore, want: "-Wall"},
		{cat: toolconf.CppStandardFlags, value: toolconf.CppStandardCpp17, want: "-std=c++17"},
		{cat: toolconf.ArchitectureFlags, value: toolconf.Arch64, want: "-m64"},
		{cat: toolconf.IncludeDirectoryFlag, want: "-I"},
		{cat: toolconf.CppStandardFlags, value: 100, want: ""},
		{cat: toolconf.LibraryLevelFlags, value: toolconf.LibraryClassic, want: ""},
	} {
		if got := tool.Flag(tc.cat, tc.value); got != tc.want {
			t.Errorf("Flag(%s, %d)=%q; want %q", tc.cat, tc.value, got, tc.want)
		}
	}
	if got := r.Tool("NoSuchToolchain", toolconf.CCCompiler); got != nil {
		t.Errorf("Tool(NoSuchToolchain)=%v; want nil", got)
	}

	studio := r.Tool("OracleDeveloperStudio", toolconf.CCCompiler)
	c := toolconf.NewCompiler(toolconf.CCCompiler, true, true)
	c.LibraryLevel.Set(toolconf.LibraryConformingStandard)
	c.Architecture.Set(toolconf.Arch64)
	if got, want := c.ImportantFlagsValue(studio), "-m64 -library=stlport4"; got != want {
		t.Errorf("ImportantFlagsValue=%q; want %q", got, want)
	}
}

func TestCygwinIncludeOptions(t *testing.T) {
	r := NewRegistry()
	c := toolconf.NewCompiler(toolconf.CCompiler, true, true)
	c.List(toolconf.IncludeDirectories).Add("C:/sdk/include")
	if got, want := c.IncludeDirectoriesOptions(r.Tool("Cygwin", toolconf.CCompiler)), "-I/cygdrive/c/sdk/include"; got != want {
		t.Errorf("IncludeDirectoriesOptions=%q; want %q", got, want)
	}
}

func TestLoadStar(t *testing.T) {
	ctx := context.Background()
	r := NewRegistry()
	src := `
print("loading")
toolchain(
    name = "arm",
    base = "GNU",
    path_style = "msys",
    c = {
        "path": "arm-none-eabi-gcc",
        "system_include_dirs": ["/opt/arm/include"],
        "flags": {
            "warnings": ["-w", "", "-Wall -Wextra", "-Werror"],
            "include_dir": "-isystem ",
        },
    },
)
`
	names, err := LoadStar(ctx, "toolchains.star", src, r)
	if err != nil {
		t.Fatalf("LoadStar=%v", err)
	}
	if diff := cmp.Diff([]string{"arm"}, names); diff != "" {
		t.Errorf("LoadStar names: diff -want +got:\n%s", diff)
	}
	d, ok := r.Lookup("arm")
	if !ok {
		t.Fatalf("arm is not registered")
	}
	if d.PathStyle != PathStyleMSYS {
		t.Errorf("PathStyle=%s; want msys", d.PathStyle)
	}
	c := d.Tool(toolconf.CCompiler)
	if got, want := c.Path, "arm-none-eabi-gcc"; got != want {
		t.Errorf("Path=%q; want %q", got, want)
	}
	if got, want := c.Flag(toolconf.WarningFlags, toolconf.WarningsMore), "-Wall -Wextra"; got != want {
		t.Errorf("warnings flag=%q; want %q", got, want)
	}
	if got, want := c.NormalizePath("C:/x"), "/c/x"; got != want {
		t.Errorf("NormalizePath=%q; want %q", got, want)
	}
	// base is not modified.
	if got, want := r.Tool("GNU", toolconf.CCompiler).Flag(toolconf.WarningFlags, toolconf.WarningsMore), "-Wall"; got != want {
		t.Errorf("GNU warnings flag=%q; want %q", got, want)
	}
	if got, want := d.Tool(toolconf.CCCompiler).Path, "g++"; got != want {
		t.Errorf("inherited C++ path=%q; want %q", got, want)
	}
}

func TestLoadStarErrors(t *testing.T) {
	ctx := context.Background()
	for _, tc := range []struct {
		name string
		src  string
	}{
		{name: "unknown-base", src: `toolchain(name="x", base="nope")`},
		{name: "unknown-category", src: `toolchain(name="x", c={"flags": {"bogus": "-x"}})`},
		{name: "bad-tool", src: `toolchain(name="x", c="gcc")`},
		{name: "syntax", src: `toolchain(`},
	} {
		t.Run(tc.name, func(t *testing.T) {
			r := NewRegistry()
			_, err := LoadStar(ctx, tc.name+".star", tc.src, r)
			if err == nil {
				t.Fatalf("LoadStar=nil; want error")
			}
			var serr StarError
			if tc.name != "syntax" && !errors.As(err, &serr) {
				t.Errorf("LoadStar=%v; want StarError", err)
			}
			if _, ok := r.Lookup("x"); ok {
				t.Errorf("broken toolchain was registered")
			}
		})
	}
}
