// Copyright 2026 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package projectfile

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"go.chromium.org/infra/build/makeproj/nativefile"
	"go.chromium.org/infra/build/makeproj/project"
	"go.chromium.org/infra/build/makeproj/toolconf"
)

func setupFiles(t *testing.T, dir string, files ...string) {
	t.Helper()
	for _, name := range files {
		fname := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(fname), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(fname, nil, 0644); err != nil {
			t.Fatal(err)
		}
	}
}

func newProject(t *testing.T, dir string) *project.Descriptor {
	t.Helper()
	ctx := context.Background()
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
	if err := d.InitLogicalFolders(ctx, true); err != nil {
		t.Fatal(err)
	}
	if _, err := d.AddFilesFromRoot(ctx, d.Root(), "src", false, project.SourceDiskFolder, nil); err != nil {
		t.Fatal(err)
	}
	d.SetState(project.Ready)
	return d
}

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	setupFiles(t, dir, "src/a.c", "src/b.cpp")
	d := newProject(t, dir)
	debug, release := d.Configuration("Debug"), d.Configuration("Release")

	debug.Compiler(toolconf.CCCompiler).List(toolconf.IncludeDirectories).Add("/usr/include/x")
	debug.Linker.Output.Set("dist/app")
	release.CompilerSet.Set("Studio")

	gen := d.LogicalFolder(project.SourceFiles).AddNewFolder("gen", "Generated", true, project.InheritedKind)
	gen.FolderConfiguration(debug).Compiler(toolconf.CCompiler).List(toolconf.Macros).Add("GEN")
	g := gen.AddItem(project.NewItem("gen/g.c"))
	gic := g.ItemConfiguration(debug)
	gic.SetTool(project.ToolCustom)
	gic.CustomTool().CommandLine.Set("gen.sh")
	gic.CustomTool().Outputs.Set("gen/g.o")

	a := d.FindProjectItemByPath("src/a.c")
	aic := a.ItemConfiguration(debug)
	aic.Excluded.Set(true)
	aic.Flavor.Set(int(nativefile.C99))

	b := d.FindProjectItemByPath("src/b.cpp")
	bc := b.ItemConfiguration(release).CompilerOf(toolconf.CCCompiler)
	bc.Inherit(toolconf.IncludeDirectories).Set(false)
	bc.List(toolconf.IncludeDirectories).Add("/opt/b")

	if err := d.SetActive("Release"); err != nil {
		t.Fatal(err)
	}
	if err := d.Save(ctx, Codec{}); err != nil {
		t.Fatalf("Save=%v", err)
	}

	od, err := project.Open(ctx, dir, project.Option{}, Codec{})
	if err != nil {
		t.Fatalf("Open=%v", err)
	}
	t.Cleanup(od.Close)

	var names []string
	for _, conf := range od.Configurations() {
		names = append(names, conf.Name())
	}
	if diff := cmp.Diff([]string{"Debug", "Release"}, names); diff != "" {
		t.Errorf("configurations diff -want +got:\n%s", diff)
	}
	if got, want := od.Active().Name(), "Release"; got != want {
		t.Errorf("active=%q; want %q", got, want)
	}
	if od.IsModified() {
		t.Errorf("IsModified()=true after open")
	}
	odebug, orelease := od.Configuration("Debug"), od.Configuration("Release")
	if got, want := orelease.CompilerSet.Value(), "Studio"; got != want {
		t.Errorf("Release compiler set=%q; want %q", got, want)
	}
	if got, want := odebug.Linker.Output.Value(), "dist/app"; got != want {
		t.Errorf("Debug linker output=%q; want %q", got, want)
	}

	src := od.Root().FindFolderByName("src")
	if src == nil || !src.IsDiskFolder() || src.Root() != "src" {
		t.Fatalf("src folder=%v; want disk folder of src", src)
	}
	oa := od.FindProjectItemByPath("src/a.c")
	if oa == nil {
		t.Fatalf("no src/a.c")
	}
	if ic := oa.ItemConfiguration(odebug); !ic.Excluded.Value() || ic.LanguageFlavor() != nativefile.C99 {
		t.Errorf("Debug a.c excluded=%t flavor=%s; want true, c99", ic.Excluded.Value(), ic.LanguageFlavor())
	}
	if oa.ItemConfiguration(orelease).Excluded.Value() {
		t.Errorf("Release a.c is excluded")
	}
	ob := od.FindProjectItemByPath("src/b.cpp")
	if diff := cmp.Diff([]string{"/opt/b"}, ob.UserIncludePaths()); diff != "" {
		t.Errorf("Release b.cpp include paths diff -want +got:\n%s", diff)
	}
	if diff := cmp.Diff([]string{"/usr/include/x"}, odebug.Compiler(toolconf.CCCompiler).List(toolconf.IncludeDirectories).Value()); diff != "" {
		t.Errorf("Debug include directories diff -want +got:\n%s", diff)
	}

	ogen := od.FindFolderByPath("SourceFiles/gen")
	if ogen == nil {
		t.Fatalf("no folder SourceFiles/gen")
	}
	if got, want := ogen.DisplayName(), "Generated"; got != want {
		t.Errorf("gen display name=%q; want %q", got, want)
	}
	if diff := cmp.Diff([]string{"GEN"}, ogen.FolderConfiguration(odebug).Compiler(toolconf.CCompiler).List(toolconf.Macros).Value()); diff != "" {
		t.Errorf("gen macros diff -want +got:\n%s", diff)
	}
	og := ogen.FindItemByPath("gen/g.c")
	if og == nil {
		t.Fatalf("no gen/g.c")
	}
	ogic := og.ItemConfiguration(odebug)
	if ogic.Tool() != project.ToolCustom || ogic.CustomTool().CommandLine.Value() != "gen.sh" {
		t.Errorf("g.c tool=%s command=%q; want custom, gen.sh", ogic.Tool(), ogic.CustomTool().CommandLine.Value())
	}
	if ogic.ToolDirty() {
		t.Errorf("g.c tool is dirty after open")
	}

	var want, got bytes.Buffer
	if err := (Codec{}).Encode(&want, d); err != nil {
		t.Fatal(err)
	}
	if err := (Codec{}).Encode(&got, od); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(want.String(), got.String()); diff != "" {
		t.Errorf("encoded diff -want +got:\n%s", diff)
	}
}

func TestDecode_Partial(t *testing.T) {
	const doc = `version: 1
root:
  name: root
  kind: root
  folders:
    - name: SourceFiles
      display_name: Source Files
      kind: source_logical
      project_files: true
      items:
        - a.c
    - name: Bogus
      kind: nowhere
configurations:
  - name: Debug
    type: application
    compilers:
      pascal:
        command_line: -O
      c:
        command_line: -g
    items:
      - path: a.c
        flavor: c99
      - path: missing.c
        excluded: true
  - name: Bad
    type: spaceship
`
	d, err := project.New(t.TempDir(), project.Option{})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(d.Close)
	err = (Codec{}).Decode(context.Background(), strings.NewReader(doc), d)
	var derr DecodeError
	if !errors.As(err, &derr) {
		t.Fatalf("Decode=%v; want DecodeError", err)
	}
	for _, section := range []string{"configuration Debug", "configuration Bad", "folders"} {
		if !strings.Contains(err.Error(), "decode "+section+":") {
			t.Errorf("Decode=%v; want error of %s", err, section)
		}
	}

	debug := d.Configuration("Debug")
	if debug == nil {
		t.Fatalf("no Debug configuration")
	}
	if d.Configuration("Bad") != nil {
		t.Errorf("configuration of unknown type was added")
	}
	if got, want := debug.Compiler(toolconf.CCompiler).CommandLine.Value(), "-g"; got != want {
		t.Errorf("C command line=%q; want %q", got, want)
	}
	a := d.FindProjectItemByPath("a.c")
	if a == nil {
		t.Fatalf("no a.c")
	}
	if got, want := a.ItemConfiguration(debug).LanguageFlavor(), nativefile.C99; got != want {
		t.Errorf("a.c flavor=%s; want %s", got, want)
	}
}

func TestDecode_Malformed(t *testing.T) {
	d, err := project.New(t.TempDir(), project.Option{})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(d.Close)
	err = (Codec{}).Decode(context.Background(), strings.NewReader("configurations: [\n"), d)
	var derr DecodeError
	if !errors.As(err, &derr) || derr.Section != "document" {
		t.Errorf("Decode=%v; want DecodeError of document", err)
	}
}

func TestDecodePrivate(t *testing.T) {
	d, err := project.New(t.TempDir(), project.Option{})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(d.Close)
	for _, name := range []string{"Debug", "Release"} {
		if err := d.AddConfiguration(project.NewConfiguration(name, project.Application)); err != nil {
			t.Fatal(err)
		}
	}
	if err := (Codec{}).DecodePrivate(strings.NewReader("version: 1\nactive: Release\n"), d); err != nil {
		t.Fatalf("DecodePrivate=%v", err)
	}
	if got, want := d.Active().Name(), "Release"; got != want {
		t.Errorf("active=%q; want %q", got, want)
	}
	err = (Codec{}).DecodePrivate(strings.NewReader("active: Missing\n"), d)
	var derr DecodeError
	if !errors.As(err, &derr) || derr.Section != "private" {
		t.Errorf("DecodePrivate=%v; want DecodeError of private", err)
	}
}

func TestReload(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	setupFiles(t, dir, "src/a.c", "src/b.c")
	d := newProject(t, dir)
	if err := d.SetActive("Debug"); err != nil {
		t.Fatal(err)
	}
	if err := d.Save(ctx, Codec{}); err != nil {
		t.Fatalf("Save=%v", err)
	}
	// unsaved edit is discarded by reload.
	a := d.FindProjectItemByPath("src/a.c")
	a.ItemConfiguration(d.Active()).CompilerOf(toolconf.CCompiler).List(toolconf.IncludeDirectories).Add("/opt/a")

	nd, dl, err := d.Reload(ctx, Codec{}, nil)
	if err != nil {
		t.Fatalf("Reload=%v", err)
	}
	t.Cleanup(nd.Close)
	paths := func(items []nativefile.Item) []string {
		var r []string
		for _, it := range items {
			r = append(r, it.AbsolutePath())
		}
		return r
	}
	if diff := cmp.Diff([]string{nd.BaseDir() + "/src/a.c"}, paths(dl.Changed)); diff != "" {
		t.Errorf("changed diff -want +got:\n%s", diff)
	}
	if diff := cmp.Diff([]string{nd.BaseDir() + "/src/b.c"}, paths(dl.Replaced)); diff != "" {
		t.Errorf("replaced diff -want +got:\n%s", diff)
	}
	if n := len(dl.Added) + len(dl.Deleted) + len(dl.Excluded) + len(dl.Included); n != 0 {
		t.Errorf("delta %s; want changed and replaced only", dl)
	}
	if got := nd.FindProjectItemByPath("src/a.c").UserIncludePaths(); len(got) != 0 {
		t.Errorf("a.c include paths=%q after reload; want none", got)
	}
}
