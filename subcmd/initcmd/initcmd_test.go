// Copyright 2026 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package initcmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"go.chromium.org/infra/build/makeproj/options"
	"go.chromium.org/infra/build/makeproj/project"
	"go.chromium.org/infra/build/makeproj/projectfile"
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

func TestCreate(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	setupFiles(t, dir, "src/a.c", "src/lib/b.cc", "src/README", "unit/t.c")

	d, err := Create(ctx, dir, project.Option{}, options.Default, Config{
		Confs:     []string{"Debug", "Release"},
		Type:      project.StaticLibrary,
		Roots:     []string{"src"},
		TestRoots: []string{"unit"},
	})
	if err != nil {
		t.Fatalf("Create(...)=_, %v; want nil err", err)
	}
	defer d.Close()

	var confs []string
	for _, conf := range d.Configurations() {
		confs = append(confs, conf.Name())
		if conf.Type() != project.StaticLibrary {
			t.Errorf("conf %s type=%s; want %s", conf.Name(), conf.Type(), project.StaticLibrary)
		}
	}
	if diff := cmp.Diff([]string{"Debug", "Release"}, confs); diff != "" {
		t.Errorf("configurations diff -want +got:\n%s", diff)
	}
	if got := d.Active().Name(); got != "Debug" {
		t.Errorf("active=%q; want %q", got, "Debug")
	}
	if diff := cmp.Diff([]string{"src"}, d.SourceRoots()); diff != "" {
		t.Errorf("source roots diff -want +got:\n%s", diff)
	}
	if diff := cmp.Diff([]string{"unit"}, d.TestRoots()); diff != "" {
		t.Errorf("test roots diff -want +got:\n%s", diff)
	}
	for _, p := range []string{"src/a.c", "src/lib/b.cc"} {
		it := d.FindProjectItemByPath(p)
		if it == nil {
			t.Errorf("FindProjectItemByPath(%q)=nil; want item", p)
			continue
		}
		if it.IsExcluded() {
			t.Errorf("%s is excluded; want included", p)
		}
	}
	if it := d.FindProjectItemByPath("src/README"); it != nil {
		t.Errorf("FindProjectItemByPath(%q)=%v; want nil", "src/README", it)
	}
	if d.State() != project.Ready {
		t.Errorf("state=%s; want %s", d.State(), project.Ready)
	}

	err = d.Save(ctx, projectfile.Codec{})
	if err != nil {
		t.Fatalf("Save=%v; want nil err", err)
	}
	if _, err := os.Stat(filepath.Join(dir, project.ConfigurationsFile)); err != nil {
		t.Errorf("configurations file: %v", err)
	}
}

func TestCreate_NoConfiguration(t *testing.T) {
	d, err := Create(context.Background(), t.TempDir(), project.Option{}, options.Default, Config{})
	if err == nil {
		d.Close()
		t.Fatal("Create(no confs)=_, nil; want err")
	}
}

func TestSplitList(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want []string
	}{
		{in: "", want: nil},
		{in: "Debug", want: []string{"Debug"}},
		{in: "Debug, Release,,", want: []string{"Debug", "Release"}},
	} {
		got := splitList(tc.in)
		if diff := cmp.Diff(tc.want, got); diff != "" {
			t.Errorf("splitList(%q) diff -want +got:\n%s", tc.in, diff)
		}
	}
}
