// Copyright 2026 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package project

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"go.chromium.org/infra/build/makeproj/nativefile"
)

func absPaths(items []nativefile.Item) []string {
	if len(items) == 0 {
		return nil
	}
	return itemPaths(items)
}

func addSourceRoot(t *testing.T, d *Descriptor, dir string, attach bool) *Folder {
	t.Helper()
	f, err := d.AddFilesFromRoot(context.Background(), d.Root(), dir, attach, SourceDiskFolder, nil)
	if err != nil {
		t.Fatalf("AddFilesFromRoot(%q)=%v", dir, err)
	}
	return f
}

func TestAddFilesFromRoot(t *testing.T) {
	dir := t.TempDir()
	setupFiles(t, dir, "src/a.c", "src/sub/b.cpp", "src/.hidden/c.c", "src/README", "src/SCCS/d.c")
	d := newTestDescriptor(t, dir, "Debug")
	var r recorder
	d.AddListener(&r)

	src := addSourceRoot(t, d, "src", false)
	if got, want := src.Root(), "src"; got != want {
		t.Errorf("Root()=%q; want %q", got, want)
	}
	if got, want := src.AbsolutePath(), d.BaseDir()+"/src"; got != want {
		t.Errorf("AbsolutePath()=%q; want %q", got, want)
	}
	var got []string
	for _, it := range d.Items() {
		got = append(got, it.Path())
		if it.IsExcluded() {
			t.Errorf("%s is excluded; want included", it)
		}
	}
	if diff := cmp.Diff([]string{"src/a.c", "src/sub/b.cpp"}, got); diff != "" {
		t.Errorf("items diff -want +got:\n%s", diff)
	}
	if diff := cmp.Diff([]string{d.BaseDir() + "/src/a.c", d.BaseDir() + "/src/sub/b.cpp"}, r.added); diff != "" {
		t.Errorf("added diff -want +got:\n%s", diff)
	}
	if diff := cmp.Diff([]string{"src"}, d.SourceRoots()); diff != "" {
		t.Errorf("SourceRoots diff -want +got:\n%s", diff)
	}
	if sub := src.FindFolderByName("sub"); sub == nil || sub.Kind() != SourceDiskFolder {
		t.Errorf("sub folder=%v; want disk folder", sub)
	}
}

func TestRefresh(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	setupFiles(t, dir, "src/a.c")
	d := newTestDescriptor(t, dir, "Debug")
	src := addSourceRoot(t, d, "src", false)
	var r recorder
	d.AddListener(&r)

	setupFiles(t, dir, "src/new.c", "src/later/x.c")
	dl, err := d.Refresh(ctx, nil)
	if err != nil {
		t.Fatal(err)
	}
	wantAdded := []string{d.BaseDir() + "/src/later/x.c", d.BaseDir() + "/src/new.c"}
	if diff := cmp.Diff(wantAdded, absPaths(dl.Added)); diff != "" {
		t.Errorf("added diff -want +got:\n%s", diff)
	}
	// files of new directories may be reported before the delta.
	added := slices.Clone(r.added)
	slices.Sort(added)
	if diff := cmp.Diff(wantAdded, slices.Compact(added)); diff != "" {
		t.Errorf("listener added diff -want +got:\n%s", diff)
	}
	for _, p := range []string{"src/new.c", "src/later/x.c"} {
		it := d.FindProjectItemByPath(p)
		if it == nil {
			t.Fatalf("no item %s after refresh", p)
		}
		if !it.IsExcluded() || it.HasImportantAttributes() {
			t.Errorf("%s excluded=%t important=%t; want true, false", p, it.IsExcluded(), it.HasImportantAttributes())
		}
	}

	for _, p := range []string{"src/new.c", "src/later", "src/a.c"} {
		if err := os.RemoveAll(filepath.Join(dir, p)); err != nil {
			t.Fatal(err)
		}
	}
	r.reset()
	dl, err = d.Refresh(ctx, nil)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(wantAdded, absPaths(dl.Deleted)); diff != "" {
		t.Errorf("deleted diff -want +got:\n%s", diff)
	}
	if diff := cmp.Diff(wantAdded, r.removed); diff != "" {
		t.Errorf("listener removed diff -want +got:\n%s", diff)
	}
	if got := src.FindFolderByName("later"); got != nil {
		t.Errorf("folder later=%v after its directory was removed; want nil", got)
	}
	// included items are important and stay without their files.
	if d.FindProjectItemByPath("src/a.c") == nil {
		t.Errorf("included item src/a.c was removed")
	}

	dl, err = d.Refresh(ctx, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !dl.IsEmpty() {
		t.Errorf("delta of unchanged refresh=%s; want empty", dl)
	}
}

func TestRefreshSymlinkLoop(t *testing.T) {
	dir := t.TempDir()
	setupFiles(t, dir, "src/a.c", "src/sub/b.c")
	if err := os.Symlink("..", filepath.Join(dir, "src/sub/up")); err != nil {
		t.Skipf("symlink: %v", err)
	}
	d := newTestDescriptor(t, dir, "Debug")
	src := addSourceRoot(t, d, "src", false)
	check := func(when string) {
		t.Helper()
		sub := src.FindFolderByName("sub")
		if sub == nil {
			t.Fatalf("%s: no folder sub", when)
		}
		if got := sub.FindFolderByName("up"); got != nil {
			t.Errorf("%s: recursive link folder %v was added", when, got)
		}
		if got, want := len(d.Items()), 2; got != want {
			t.Errorf("%s: %d items; want %d", when, got, want)
		}
	}
	check("add")
	if _, err := d.Refresh(context.Background(), nil); err != nil {
		t.Fatal(err)
	}
	check("refresh")
}

func TestRefreshCanceled(t *testing.T) {
	dir := t.TempDir()
	setupFiles(t, dir, "src/a.c")
	d := newTestDescriptor(t, dir, "Debug")
	addSourceRoot(t, d, "src", false)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := d.Refresh(ctx, nil); err == nil {
		t.Errorf("Refresh with canceled context succeeded")
	}
}

func TestFileRenamed(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	setupFiles(t, dir, "src/a.c")
	d := newTestDescriptor(t, dir, "Debug")
	src := addSourceRoot(t, d, "src", false)
	a := d.FindProjectItemByPath("src/a.c")
	a.ItemConfiguration(d.Active()).Flavor.Set(int(nativefile.C99))
	var r recorder
	d.AddListener(&r)

	oldPath, newPath := d.BaseDir()+"/src/a.c", d.BaseDir()+"/src/b.c"
	if err := os.Rename(filepath.FromSlash(oldPath), filepath.FromSlash(newPath)); err != nil {
		t.Fatal(err)
	}
	d.Root().FileRenamed(ctx, oldPath, newPath)

	if got := d.FindProjectItemByPath("src/a.c"); got != nil {
		t.Errorf("src/a.c=%v after rename; want nil", got)
	}
	b := src.FindItemByPath("src/b.c")
	if b == nil {
		t.Fatalf("no src/b.c after rename")
	}
	if got, want := b.LanguageFlavor(), nativefile.C99; got != want {
		t.Errorf("LanguageFlavor()=%s; want %s", got, want)
	}
	if b.IsExcluded() {
		t.Errorf("renamed item is excluded")
	}
	if diff := cmp.Diff([]string{oldPath + " -> " + newPath}, r.renamed); diff != "" {
		t.Errorf("renamed diff -want +got:\n%s", diff)
	}
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(10 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(20 * time.Millisecond)
	}
}

func TestWatch(t *testing.T) {
	dir := t.TempDir()
	setupFiles(t, dir, "src/a.c")
	d := newTestDescriptor(t, dir, "Debug")
	src := addSourceRoot(t, d, "src", true)
	waitFor(t, "listener attached", func() bool {
		src.mu.RLock()
		defer src.mu.RUnlock()
		return src.listenerAttached
	})
	waitFor(t, "directory watched", func() bool {
		d.mu.RLock()
		w := d.watcher
		d.mu.RUnlock()
		return w != nil && w.owner(src.AbsolutePath()+"/x") == src
	})

	setupFiles(t, dir, "src/w.c")
	waitFor(t, "src/w.c added", func() bool {
		return d.FindProjectItemByPath("src/w.c") != nil
	})
	if it := d.FindProjectItemByPath("src/w.c"); !it.IsExcluded() {
		t.Errorf("created item is included; want excluded")
	}

	if err := os.Remove(filepath.Join(dir, "src/w.c")); err != nil {
		t.Fatal(err)
	}
	waitFor(t, "src/w.c removed", func() bool {
		return d.FindProjectItemByPath("src/w.c") == nil
	})

	src.DetachListener()
	d.mu.RLock()
	w := d.watcher
	d.mu.RUnlock()
	if w != nil && w.owner(src.AbsolutePath()+"/x") != nil {
		t.Errorf("directory still watched after DetachListener")
	}
}
