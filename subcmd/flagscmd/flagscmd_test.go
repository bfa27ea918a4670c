// Copyright 2026 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package flagscmd

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.chromium.org/infra/build/makeproj/project"
)

func TestPrintItem(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "src"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "src/a.c"), nil, 0644); err != nil {
		t.Fatal(err)
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

	var sb strings.Builder
	err = printItem(&sb, d, d.Active(), "src/a.c")
	if err != nil {
		t.Fatalf("printItem(src/a.c)=%v; want nil", err)
	}
	for _, want := range []string{
		"src/a.c tool=",
		"object=${OBJECTDIR}/src/a.o\n",
		"options=",
	} {
		if !strings.Contains(sb.String(), want) {
			t.Errorf("printItem(src/a.c) output %q; want to contain %q", sb.String(), want)
		}
	}

	err = printItem(&sb, d, d.Active(), "src/missing.c")
	if err == nil {
		t.Errorf("printItem(src/missing.c)=nil; want error")
	}
}
