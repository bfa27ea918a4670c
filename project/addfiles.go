// Copyright 2026 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package project

import (
	"context"
	"fmt"
	"path"
	"slices"

	"github.com/charmbracelet/log"

	"go.chromium.org/infra/build/makeproj/nativefile"
)

// FileFilter selects files and directories to add. name is the
// absolute path.
type FileFilter func(name string, isDir bool) bool

// antiLoop is a directory to scan, with the canonical paths of the
// directories above it.
type antiLoop struct {
	folder *Folder
	dir    string
	stack  []string
}

func (l *antiLoop) push(p string) { l.stack = append(l.stack, p) }

func (l *antiLoop) contains(p string) bool { return slices.Contains(l.stack, p) }

// AddFilesFromRoot adds dir as a disk root folder (or a logical folder
// of kind) under folder and adds the files found under dir. Found
// files are included in the build. If attach is true, file system
// listeners are attached in the background.
func (d *Descriptor) AddFilesFromRoot(ctx context.Context, folder *Folder, dir string, attach bool, kind FolderKind, filter FileFilter) (*Folder, error) {
	if folder == nil {
		return nil, fmt.Errorf("add files from %s: no folder", dir)
	}
	dir = d.abs(dir)
	fi, err := d.fs.Stat(ctx, dir)
	if err != nil {
		return nil, fmt.Errorf("add files from %s: %w", dir, err)
	}
	if !fi.IsDir() {
		return nil, fmt.Errorf("add files from %s: not a directory", dir)
	}
	srcRoot := folder.FindFolderByAbsolutePath(dir)
	if srcRoot == nil {
		name := path.Base(dir)
		if kind == SourceDiskFolder {
			name = d.diskFolderID(folder, name)
		}
		srcRoot = newFolder(d, folder, name, path.Base(dir), true, kind)
		if kind == SourceDiskFolder {
			srcRoot.SetRoot(d.properPath(dir))
		}
		srcRoot = folder.AddFolder(srcRoot, true)
	}
	if srcRoot.Kind() != kind {
		log.Infof("folder %s has unexpected kind %s; want %s", srcRoot.DisplayName(), srcRoot.Kind(), kind)
	}
	added := d.addFilesImpl(ctx, srcRoot, dir, true, true, filter, true)
	d.fireFilesAdded(added)
	if attach {
		err := d.listenerQueue.Post(ctx, func(ctx context.Context) {
			srcRoot.AttachListeners(ctx)
		})
		if err != nil {
			log.Infof("attach listeners to %s: %v", srcRoot, err)
		}
	}
	if kind == SourceDiskFolder {
		d.AddSourceRoot(ctx, dir)
	}
	return srcRoot, nil
}

// AddFilesFromDir adds the directory dir under folder with the files
// found under it. Found files are excluded.
func (d *Descriptor) AddFilesFromDir(ctx context.Context, folder *Folder, dir string, attach, setModified bool, filter FileFilter) (*Folder, error) {
	return d.addFilesFromDirImpl(ctx, folder, dir, attach, setModified, filter, false)
}

func (d *Descriptor) addFilesFromRefreshedDir(ctx context.Context, folder *Folder, dir string, attach, setModified bool, filter FileFilter, useOldScheme bool) (*Folder, error) {
	return d.addFilesFromDirImpl(ctx, folder, dir, attach, setModified, filter, useOldScheme)
}

func (d *Descriptor) addFilesFromDirImpl(ctx context.Context, folder *Folder, dir string, attach, setModified bool, filter FileFilter, useOldScheme bool) (*Folder, error) {
	if folder == nil {
		return nil, fmt.Errorf("add files from %s: no folder", dir)
	}
	dir = d.abs(dir)
	name := path.Base(dir)
	sub := folder.FindFolderByName(name)
	if sub == nil {
		sub = newFolder(d, folder, name, name, true, InheritedKind)
	}
	sub = folder.AddFolder(sub, setModified)
	added := d.addFilesImpl(ctx, sub, dir, true, setModified, filter, useOldScheme)
	d.fireFilesAdded(added)
	if attach {
		sub.AttachListeners(ctx)
	}
	return sub, nil
}

// addFilesImpl adds the tree under dir to folder breadth first.
// It returns the newly added items, also when ctx is done early.
func (d *Descriptor) addFilesImpl(ctx context.Context, root *Folder, rootDir string, notify, setModified bool, filter FileFilter, useOldScheme bool) []nativefile.Item {
	var added []nativefile.Item
	testRoots := d.absoluteTestRoots()
	cp, err := d.fs.Canonical(ctx, rootDir)
	if err != nil {
		log.Infof("canonical path of %s: %v", rootDir, err)
		return nil
	}
	first := &antiLoop{folder: root, dir: rootDir}
	first.push(cp)
	down := []*antiLoop{first}
	for len(down) > 0 {
		var next []*antiLoop
		for _, loop := range down {
			if ctx.Err() != nil {
				return added
			}
			folder := loop.folder
			ents, err := d.fs.ReadDir(ctx, loop.dir)
			if err != nil {
				log.Infof("read dir %s: %v", loop.dir, err)
				continue
			}
			for _, ent := range ents {
				if ctx.Err() != nil {
					return added
				}
				name := ent.Name()
				if !Visible(name) {
					continue
				}
				p := loop.dir + "/" + name
				isDir, err := d.isDir(ctx, p, ent)
				if err != nil {
					log.Infof("stat %s: %v", p, err)
					continue
				}
				if filter != nil && !filter(p, isDir) {
					continue
				}
				if !d.vis.FileVisible(name) {
					continue
				}
				if !isDir && folder.IsDiskFolder() && !d.vis.SourceVisible(name) {
					continue
				}
				if isDir && d.vis.FolderIgnored(name) {
					continue
				}
				if !isDir {
					item := NewItem(d.properPath(p))
					if folder.AddItemFromRefreshDir(item, notify, setModified, useOldScheme) == item {
						added = append(added, item)
					}
					continue
				}
				cp, err := d.fs.Canonical(ctx, p)
				if err != nil {
					log.Infof("canonical path of %s: %v", p, err)
					continue
				}
				if loop.contains(cp) {
					log.Infof("ignore recursive link %s in folder %s", cp, folder.Path())
					continue
				}
				sub := folder.FindFolderByName(name)
				if sub == nil {
					kind := InheritedKind
					if slices.Contains(testRoots, p) || folder.IsTestLogicalFolder() {
						kind = TestLogicalFolder
					}
					sub = folder.AddNewFolder(name, name, true, kind)
				}
				sub.markRemoved(false)
				l := &antiLoop{folder: sub, dir: p, stack: slices.Clone(loop.stack)}
				l.push(cp)
				next = append(next, l)
			}
		}
		down = next
	}
	return added
}

// diskFolderID returns a name for a new disk root folder unique among
// the subfolders of parent.
func (d *Descriptor) diskFolderID(parent *Folder, base string) string {
	name := base
	for i := 1; parent.FindFolderByName(name) != nil; i++ {
		name = fmt.Sprintf("%s_%d", base, i)
	}
	return name
}

// AddSourceRoot records dir as a source root. A root under an existing
// root is not added; existing roots under dir are replaced.
func (d *Descriptor) AddSourceRoot(ctx context.Context, dir string) {
	abs := d.abs(dir)
	canonical, err := d.fs.Canonical(ctx, abs)
	if err != nil {
		canonical = ""
	}
	d.rootsMu.Lock()
	defer d.rootsMu.Unlock()
	add := true
	var kept []string
	for _, root := range d.sourceRoots {
		if canonical == "" || !add {
			kept = append(kept, root)
			continue
		}
		cr, err := d.fs.Canonical(ctx, d.abs(root))
		if err != nil {
			kept = append(kept, root)
			continue
		}
		switch {
		case cr == canonical:
			add = false
		case inDir(cr, canonical):
			// replaced by dir.
			continue
		case inDir(canonical, cr):
			add = false
		}
		kept = append(kept, root)
	}
	d.sourceRoots = kept
	if add {
		d.sourceRoots = append(d.sourceRoots, d.properPath(abs))
		d.SetModified(true)
	}
}

// AddSourceRootRaw records root without checks.
func (d *Descriptor) AddSourceRootRaw(root string) {
	d.rootsMu.Lock()
	defer d.rootsMu.Unlock()
	d.sourceRoots = append(d.sourceRoots, normalizePath(root))
}

// AddTestRoot records dir as a test root.
func (d *Descriptor) AddTestRoot(dir string) {
	d.rootsMu.Lock()
	defer d.rootsMu.Unlock()
	d.testRoots = append(d.testRoots, d.properPath(d.abs(dir)))
	d.SetModified(true)
}

// AddTestRootRaw records root without checks.
func (d *Descriptor) AddTestRootRaw(root string) {
	d.rootsMu.Lock()
	defer d.rootsMu.Unlock()
	d.testRoots = append(d.testRoots, normalizePath(root))
}

// SourceRoots returns the source roots.
func (d *Descriptor) SourceRoots() []string {
	d.rootsMu.Lock()
	defer d.rootsMu.Unlock()
	return slices.Clone(d.sourceRoots)
}

// TestRoots returns the test roots.
func (d *Descriptor) TestRoots() []string {
	d.rootsMu.Lock()
	defer d.rootsMu.Unlock()
	return slices.Clone(d.testRoots)
}

func (d *Descriptor) absoluteTestRoots() []string {
	var roots []string
	for _, r := range d.TestRoots() {
		roots = append(roots, d.abs(r))
	}
	return roots
}
