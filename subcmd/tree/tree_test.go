// Copyright 2026 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package tree

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.chromium.org/infra/build/makeproj/project"
)

func TestBuild(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	for _, name := range []string{"src/a.c", "src/sub/b.cc"} {
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
	defer d.Close()
	if err := d.AddConfiguration(project.NewConfiguration("Debug", project.Application)); err != nil {
		t.Fatal(err)
	}
	d.AddSourceRoot(ctx, "src")
	if err := d.InitLogicalFolders(ctx, true); err != nil {
		t.Fatal(err)
	}
	conf := d.Active()
	d.FindProjectItemByPath("src/sub/b.cc").ItemConfiguration(conf).Excluded.Set(true)

	got := Build(d, conf, true).Print()
	lines := strings.Split(got, "\n")
	if lines[0] != dir {
		t.Errorf("root=%q; want %q", lines[0], dir)
	}
	for _, want := range []string{"src [src]", "a.c", "sub", "b.cc (excluded)", "Source Files", "Header Files"} {
		if !strings.Contains(got, want) {
			t.Errorf("tree does not contain %q\n%s", want, got)
		}
	}

	got = Build(d, conf, false).Print()
	if strings.Contains(got, "b.cc") {
		t.Errorf("tree without excluded items contains b.cc\n%s", got)
	}
	if !strings.Contains(got, "a.c") {
		t.Errorf("tree does not contain a.c\n%s", got)
	}
}
