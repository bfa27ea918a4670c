// Copyright 2026 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package project

import (
	"context"
	"errors"
	"io/fs"
	"path"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"go.chromium.org/infra/build/makeproj/invariant"
)

// watcher delivers file system events of watched directories to the
// disk folders that attached them.
type watcher struct {
	desc *Descriptor
	fw   *fsnotify.Watcher

	mu   sync.Mutex
	dirs map[string]*Folder
	done chan struct{}
}

func newWatcher(d *Descriptor) (*watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &watcher{
		desc: d,
		fw:   fw,
		dirs: make(map[string]*Folder),
		done: make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

// watcherFor returns the descriptor's watcher, creating it on first use.
func (d *Descriptor) watcherFor() (*watcher, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.watcher != nil {
		return d.watcher, nil
	}
	w, err := newWatcher(d)
	if err != nil {
		return nil, err
	}
	d.watcher = w
	return w, nil
}

func (d *Descriptor) closeWatcher() {
	d.mu.Lock()
	w := d.watcher
	d.watcher = nil
	d.mu.Unlock()
	if w == nil {
		return
	}
	if err := w.fw.Close(); err != nil {
		log.Infof("close watcher: %v", err)
	}
	<-w.done
}

// add watches the tree under dir for folder, skipping hidden and
// ignored directories.
func (w *watcher) add(dir string, folder *Folder) error {
	vis := w.desc.vis
	return filepath.WalkDir(dir, func(p string, ent fs.DirEntry, err error) error {
		if err != nil {
			log.Debugf("watch %s: %v", p, err)
			return nil
		}
		if !ent.IsDir() {
			return nil
		}
		name := ent.Name()
		if p != dir && (!Visible(name) || vis.FolderIgnored(name)) {
			return filepath.SkipDir
		}
		p = filepath.ToSlash(p)
		w.mu.Lock()
		defer w.mu.Unlock()
		if _, ok := w.dirs[p]; ok {
			return nil
		}
		if err := w.fw.Add(p); err != nil {
			return err
		}
		w.dirs[p] = folder
		return nil
	})
}

// remove stops watching the directories attached by folder.
func (w *watcher) remove(folder *Folder) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for dir, f := range w.dirs {
		if f != folder {
			continue
		}
		delete(w.dirs, dir)
		if err := w.fw.Remove(dir); err != nil && !errors.Is(err, fsnotify.ErrNonExistentWatch) {
			log.Debugf("unwatch %s: %v", dir, err)
		}
	}
}

func (w *watcher) owner(p string) *Folder {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.dirs[path.Dir(p)]
}

func (w *watcher) loop() {
	defer close(w.done)
	for {
		select {
		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}
			w.dispatch(ev)
		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			log.Infof("watcher: %v", err)
		}
	}
}

func (w *watcher) dispatch(ev fsnotify.Event) {
	p := normalizePath(filepath.ToSlash(ev.Name))
	folder := w.owner(p)
	if folder == nil {
		return
	}
	d := w.desc
	var fn func(ctx context.Context)
	switch {
	case ev.Has(fsnotify.Create):
		fn = func(ctx context.Context) {
			fi, err := d.fs.Stat(ctx, p)
			if err != nil {
				log.Debugf("stat %s: %v", p, err)
				return
			}
			if !fi.IsDir() {
				folder.FileDataCreated(ctx, p)
				return
			}
			folder.FileFolderCreated(ctx, p)
			if err := w.add(p, folder); err != nil {
				log.Infof("watch %s: %v", p, err)
			}
		}
	case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
		// a rename is followed by a create of the new name.
		fn = func(ctx context.Context) {
			folder.FileDeleted(ctx, p)
		}
	default:
		return
	}
	if err := d.listenerQueue.Post(context.Background(), fn); err != nil {
		log.Debugf("drop event %s: %v", ev, err)
	}
}

// AttachListeners starts watching the directories of the disk folders
// under f. Events are handled on the descriptor's listener queue.
func (f *Folder) AttachListeners(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if f.IsDiskFolder() && f.Root() != "" {
		f.mu.Lock()
		attached := f.listenerAttached
		f.listenerAttached = true
		f.mu.Unlock()
		if !invariant.Check(!attached, "listeners already attached to %s", f) {
			return
		}
		w, err := f.desc.watcherFor()
		if err != nil {
			log.Infof("attach listeners to %s: %v", f, err)
			return
		}
		if err := w.add(f.AbsolutePath(), f); err != nil {
			log.Infof("attach listeners to %s: %v", f, err)
		}
		return
	}
	for _, sub := range f.Folders() {
		if ctx.Err() != nil {
			return
		}
		sub.AttachListeners(ctx)
	}
}

// DetachListener stops watching the directories attached by f.
func (f *Folder) DetachListener() {
	f.mu.Lock()
	attached := f.listenerAttached
	f.listenerAttached = false
	f.mu.Unlock()
	if !attached {
		return
	}
	f.desc.mu.RLock()
	w := f.desc.watcher
	f.desc.mu.RUnlock()
	if w != nil {
		w.remove(f)
	}
}
