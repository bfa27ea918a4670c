// Copyright 2026 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package options

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"go.chromium.org/infra/build/makeproj/project"
)

func setupConfigDir(t *testing.T, content string) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	if content == "" {
		return
	}
	fname := filepath.Join(dir, "makeproj", "options.yaml")
	if err := os.MkdirAll(filepath.Dir(fname), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(fname, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestLoad_Default(t *testing.T) {
	setupConfigDir(t, "")
	var l Loader
	got, err := l.Load()
	if err != nil {
		t.Fatalf("Load=%v", err)
	}
	if diff := cmp.Diff(Default, got); diff != "" {
		t.Errorf("Load diff -want +got:\n%s", diff)
	}
}

func TestLoad_Priority(t *testing.T) {
	setupConfigDir(t, `
strict: true
view_binary_files: true
default_toolchain: OracleDeveloperStudio
ignore_folders_pattern: ^out$
`)
	t.Setenv("MAKEPROJ_DEFAULT_TOOLCHAIN", "Cygwin")
	t.Setenv("MAKEPROJ_VIEW_BINARY_FILES", "false")

	var l Loader
	flagSet := flag.NewFlagSet("test", flag.ContinueOnError)
	l.RegisterFlags(flagSet)
	if err := flagSet.Parse([]string{"-ignore_folders_pattern", "^gen$", "-rebuild_prop_changed"}); err != nil {
		t.Fatal(err)
	}
	got, err := l.Load()
	if err != nil {
		t.Fatalf("Load=%v", err)
	}
	want := Options{
		ViewBinaryFiles:      false,
		IgnoreFoldersPattern: "^gen$",
		DependencyChecking:   true,
		RebuildPropChanged:   true,
		DefaultToolchain:     "Cygwin",
		Strict:               true,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Load diff -want +got:\n%s", diff)
	}
}

func TestLoad_File(t *testing.T) {
	setupConfigDir(t, "")
	fname := filepath.Join(t.TempDir(), "opts.yaml")
	if err := os.WriteFile(fname, []byte("dependency_checking: false\n"), 0644); err != nil {
		t.Fatal(err)
	}
	l := Loader{File: fname}
	got, err := l.Load()
	if err != nil {
		t.Fatalf("Load=%v", err)
	}
	if got.DependencyChecking {
		t.Errorf("DependencyChecking=true; want false")
	}

	l = Loader{File: filepath.Join(t.TempDir(), "missing.yaml")}
	if _, err := l.Load(); err == nil {
		t.Errorf("Load of missing file succeeded")
	}
}

func TestProjectOption(t *testing.T) {
	ctx := context.Background()
	fname := filepath.Join(t.TempDir(), "toolchains.star")
	if err := os.WriteFile(fname, []byte(`toolchain(name = "arm", c = {"path": "arm-none-eabi-gcc"})`), 0644); err != nil {
		t.Fatal(err)
	}
	o := Default
	o.ToolchainFile = fname
	o.DefaultToolchain = "arm"
	popt, err := o.ProjectOption(ctx)
	if err != nil {
		t.Fatalf("ProjectOption=%v", err)
	}
	if _, ok := popt.Toolchains.Lookup("arm"); !ok {
		t.Errorf("toolchain arm is not registered")
	}
	if got, want := popt.IgnoreFoldersPattern, project.DefaultIgnoreFoldersPattern; got != want {
		t.Errorf("IgnoreFoldersPattern=%q; want %q", got, want)
	}

	o = Default
	o.DefaultToolchain = "nope"
	if _, err := o.ProjectOption(ctx); err == nil {
		t.Errorf("ProjectOption with unknown toolchain succeeded")
	}
}

func TestNewConfiguration(t *testing.T) {
	conf := Default.NewConfiguration("Debug", project.Application)
	if conf.Modified() {
		t.Errorf("configuration with default options is modified")
	}

	o := Default
	o.DefaultToolchain = "Cygwin"
	o.DependencyChecking = false
	conf = o.NewConfiguration("Debug", project.Application)
	if got, want := conf.CompilerSet.Value(), "Cygwin"; got != want {
		t.Errorf("CompilerSet=%q; want %q", got, want)
	}
	if conf.DependencyChecking.Value() {
		t.Errorf("DependencyChecking=true; want false")
	}
	if !conf.Modified() {
		t.Errorf("configuration with non default options is not modified")
	}
	if got := o.NewConfiguration("Make", project.Makefile); got.DependencyChecking.Value() {
		t.Errorf("makefile configuration DependencyChecking=true; want false")
	}
}
