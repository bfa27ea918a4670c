// Copyright 2026 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package importcmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"go.chromium.org/infra/build/makeproj/project"
	"go.chromium.org/infra/build/makeproj/toolconf"
)

func newProject(t *testing.T, files ...string) *project.Descriptor {
	t.Helper()
	ctx := context.Background()
	dir := t.TempDir()
	for _, name := range files {
		fname := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(fname), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(fname, nil, 0644); err != nil {
			t.Fatal(err)
		}
	}
	d, err := project.New(dir, project.Option{})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(d.Close)
	for _, name := range []string{"Debug", "Release"} {
		if err := d.AddConfiguration(project.NewConfiguration(name, project.Application)); err != nil {
			t.Fatal(err)
		}
	}
	d.AddSourceRoot(ctx, "src")
	if err := d.InitLogicalFolders(ctx, true); err != nil {
		t.Fatal(err)
	}
	d.SetState(project.Ready)
	d.SetModified(false)
	return d
}

func TestImport(t *testing.T) {
	d := newProject(t, "src/a.c", "src/b.c")
	conf := d.Active()

	err := Import(d, conf, []string{"gcc", "-DPROJ"}, "", false)
	if err != nil {
		t.Fatalf("Import(project)=%v; want nil", err)
	}
	if !d.IsModified() {
		t.Errorf("modified=false after project import; want true")
	}
	err = Import(d, conf, []string{"gcc", "-Iinc", "-DITEM", "-c", "src/a.c", "-o", "a.o"}, "", false)
	if err != nil {
		t.Fatalf("Import(item)=%v; want nil", err)
	}

	a := d.FindProjectItemByPath("src/a.c")
	if diff := cmp.Diff([]string{"PROJ", "ITEM"}, a.UserMacroDefinitions()); diff != "" {
		t.Errorf("a.c macros diff -want +got:\n%s", diff)
	}
	if diff := cmp.Diff([]string{filepath.ToSlash(filepath.Join(d.BaseDir(), "inc"))}, a.UserIncludePaths()); diff != "" {
		t.Errorf("a.c include paths diff -want +got:\n%s", diff)
	}
	b := d.FindProjectItemByPath("src/b.c")
	if diff := cmp.Diff([]string{"PROJ"}, b.UserMacroDefinitions()); diff != "" {
		t.Errorf("b.c macros diff -want +got:\n%s", diff)
	}

	// other configurations are not affected.
	ic := a.ItemConfiguration(d.Configuration("Release"))
	if got := ic.CompilerOf(toolconf.CCompiler).Values(toolconf.Macros); len(got) != 0 {
		t.Errorf("Release macros=%q; want none", got)
	}
}

func TestImport_ToolChange(t *testing.T) {
	d := newProject(t, "src/a.c")
	conf := d.Active()
	err := Import(d, conf, []string{"g++", "-std=c++17"}, "src/a.c", false)
	if err != nil {
		t.Fatalf("Import=%v; want nil", err)
	}
	ic := d.FindProjectItemByPath("src/a.c").ItemConfiguration(conf)
	if got, want := ic.Tool(), project.ToolCC; got != want {
		t.Errorf("tool=%s; want %s", got, want)
	}
	if got, want := ic.CompilerOf(toolconf.CCCompiler).Standard.Value(), toolconf.CppStandardCpp17; got != want {
		t.Errorf("standard=%d; want %d", got, want)
	}
}

func TestImport_MissingItem(t *testing.T) {
	d := newProject(t, "src/a.c")
	conf := d.Active()
	args := []string{"gcc", "-DX", "-c", "src/new.c"}

	err := Import(d, conf, args, "", false)
	if err == nil {
		t.Errorf("Import(missing, add=false)=nil; want err")
	}
	err = Import(d, conf, args, "", true)
	if err != nil {
		t.Fatalf("Import(missing, add=true)=%v; want nil", err)
	}
	it := d.FindProjectItemByPath("src/new.c")
	if it == nil {
		t.Fatal("src/new.c is not added")
	}
	if it.Folder().Name() != project.SourceFiles {
		t.Errorf("src/new.c folder=%s; want %s", it.Folder().Name(), project.SourceFiles)
	}
	if it.IsExcluded() {
		t.Errorf("src/new.c is excluded")
	}
	if diff := cmp.Diff([]string{"X"}, it.UserMacroDefinitions()); diff != "" {
		t.Errorf("macros diff -want +got:\n%s", diff)
	}
}

func TestImportDeps(t *testing.T) {
	d := newProject(t, "src/a.c", "src/a.h", "include/b.h")
	deps := []string{
		"src/a.c",
		"src/a.h",
		"include/b.h",
		"include/../include/b.h",
		"/usr/include/stdio.h",
		"../outside.h",
	}
	added := ImportDeps(d, deps)
	var got []string
	for _, it := range added {
		got = append(got, it.Path())
	}
	if diff := cmp.Diff([]string{"include/b.h"}, got); diff != "" {
		t.Errorf("ImportDeps diff -want +got:\n%s", diff)
	}
	it := d.FindProjectItemByPath("include/b.h")
	if it == nil {
		t.Fatal("include/b.h is not added")
	}
	if it.Folder().Name() != project.HeaderFiles {
		t.Errorf("include/b.h folder=%s; want %s", it.Folder().Name(), project.HeaderFiles)
	}
}
