// Copyright 2026 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package project

import (
	"context"
	"errors"
	"io/fs"
	"path"
	"slices"

	"github.com/charmbracelet/log"
)

// RefreshDiskFolder reconciles the disk folder tree with its
// directory. Files found on disk are added excluded. Items of deleted
// files are removed unless they have important attributes.
// It stops early when ctx is done, leaving a partial result.
func (f *Folder) RefreshDiskFolder(ctx context.Context) {
	f.refreshDiskFolder(ctx, nil, false)
}

// RefreshDiskFolderOldScheme is like RefreshDiskFolder, but added
// files are included in the build.
func (f *Folder) RefreshDiskFolderOldScheme(ctx context.Context) {
	f.refreshDiskFolder(ctx, nil, true)
}

func (f *Folder) refreshDiskFolder(ctx context.Context, antiLoop []string, useOldScheme bool) {
	if log.GetLevel() <= log.DebugLevel {
		log.Debugf("refresh disk folder %s", f.Path())
	}
	if ctx.Err() != nil {
		return
	}
	d := f.desc
	dir := f.AbsolutePath()
	var fi fs.FileInfo
	var err error
	if dir != "" {
		fi, err = d.fs.Stat(ctx, dir)
	}
	if dir == "" || err != nil || !fi.IsDir() || d.vis.FolderIgnored(dir) || !Visible(dir) {
		if f.parent != nil {
			log.Debugf("removing folder %s in %s", f.Path(), f.parent.Path())
			f.parent.removeFolderImpl(f, true, false)
		}
		return
	}
	for _, item := range f.Items() {
		if ctx.Err() != nil {
			return
		}
		p := item.AbsolutePath()
		ifi, err := d.fs.Stat(ctx, p)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			log.Infof("stat %s: %v", p, err)
			continue
		}
		if err != nil || ifi.IsDir() || !d.vis.SourceVisible(path.Base(p)) {
			log.Debugf("removing item %s in %s", item.Path(), f.Path())
			f.removeItemImpl(item, true, false)
		}
	}
	canonical, err := d.fs.Canonical(ctx, dir)
	if err != nil {
		log.Infof("canonical path of %s: %v", dir, err)
		return
	}
	if slices.Contains(antiLoop, canonical) {
		log.Infof("ignore recursive link %s in folder %s", canonical, dir)
		return
	}
	antiLoop = append(antiLoop, canonical)

	ents, err := d.fs.ReadDir(ctx, dir)
	if err != nil {
		log.Infof("read dir %s: %v", dir, err)
		return
	}
	for _, ent := range ents {
		if ctx.Err() != nil {
			return
		}
		name := ent.Name()
		if !Visible(name) {
			continue
		}
		p := dir + "/" + name
		isDir, err := d.isDir(ctx, p, ent)
		if err != nil {
			log.Infof("stat %s: %v", p, err)
			continue
		}
		if isDir {
			if d.vis.FolderIgnored(name) {
				continue
			}
			cp, err := d.fs.Canonical(ctx, p)
			if err != nil {
				log.Infof("canonical path of %s: %v", p, err)
				continue
			}
			if slices.Contains(antiLoop, cp) {
				log.Infof("ignore recursive link %s in folder %s", cp, dir)
				continue
			}
			if existing := f.FindFolderByName(name); existing != nil {
				existing.markRemoved(false)
				continue
			}
			log.Debugf("adding folder %s in %s", p, f.Path())
			if _, err := d.addFilesFromRefreshedDir(ctx, f, p, true, true, nil, useOldScheme); err != nil {
				log.Infof("add files from %s: %v", p, err)
			}
			continue
		}
		if !d.vis.SourceVisible(name) {
			continue
		}
		ip := d.properPath(p)
		if f.FindItemByPath(ip) != nil {
			continue
		}
		log.Debugf("adding item %s in %s excluded=%t", p, f.Path(), !useOldScheme)
		f.AddItemFromRefreshDir(NewItem(ip), true, true, useOldScheme)
	}
	for _, sub := range f.Folders() {
		if ctx.Err() != nil {
			return
		}
		if sub.IsDiskFolder() {
			sub.refreshDiskFolder(ctx, antiLoop, useOldScheme)
		}
	}
}

// isDir reports whether p is a directory, following symlinks.
func (d *Descriptor) isDir(ctx context.Context, p string, ent fs.DirEntry) (bool, error) {
	if ent.Type()&fs.ModeSymlink == 0 {
		return ent.IsDir(), nil
	}
	fi, err := d.fs.Stat(ctx, p)
	if err != nil {
		return false, err
	}
	return fi.IsDir(), nil
}
