// Copyright 2026 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package project provides the configuration tree of a native build
// project: build configurations, logical and disk folders, items and
// their per-configuration settings.
package project

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"go.uber.org/multierr"

	"go.chromium.org/infra/build/makeproj/delta"
	"go.chromium.org/infra/build/makeproj/nativefile"
	"go.chromium.org/infra/build/makeproj/osfs"
	"go.chromium.org/infra/build/makeproj/sync/workqueue"
	"go.chromium.org/infra/build/makeproj/toolchain"
)

// State is a lifecycle state of a descriptor.
type State int32

const (
	Loading State = iota
	Ready
	Closed
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Closed:
		return "closed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Names of logical folders.
const (
	SourceFiles   = "SourceFiles"
	HeaderFiles   = "HeaderFiles"
	ResourceFiles = "ResourceFiles"
	TestFiles     = "TestFiles"
	ExternalFiles = "ExternalFiles"
)

// Project metadata locations relative to the base directory.
const (
	MetadataDir        = "nbproject"
	PrivateMetadataDir = "nbproject/private"
)

// Option is an option of a descriptor.
type Option struct {
	// FS defaults to the OS file system.
	FS FileSystem
	// IgnoreFoldersPattern defaults to DefaultIgnoreFoldersPattern.
	IgnoreFoldersPattern string
	ViewBinaryFiles      bool
	// Toolchains defaults to the builtin toolchains.
	Toolchains *toolchain.Registry
}

// Descriptor is a project: its build configurations and its folder
// tree.
type Descriptor struct {
	baseDir    string
	opt        Option
	fs         FileSystem
	vis        *Visibility
	toolchains *toolchain.Registry

	mu           sync.RWMutex
	confs        []*Configuration
	active       *Configuration
	root         *Folder
	projectItems map[string]*Item
	listeners    []nativefile.Listener

	rootsMu     sync.Mutex
	sourceRoots []string
	testRoots   []string

	modified atomic.Bool
	state    atomic.Int32

	refreshQueue  *workqueue.Queue
	listenerQueue *workqueue.Queue
	watcher       *watcher

	// writeLock serializes save and reload.
	writeLock chan struct{}
	saving    atomic.Bool
}

var (
	_ delta.Source   = (*Descriptor)(nil)
	_ delta.Consumer = (*Descriptor)(nil)
)

// New returns an empty descriptor of the project in baseDir.
func New(baseDir string, opt Option) (*Descriptor, error) {
	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("project dir %s: %w", baseDir, err)
	}
	if opt.FS == nil {
		opt.FS = osfs.New("project", osfs.Option{})
	}
	if opt.IgnoreFoldersPattern == "" {
		opt.IgnoreFoldersPattern = DefaultIgnoreFoldersPattern
	}
	if opt.Toolchains == nil {
		opt.Toolchains = toolchain.NewRegistry()
	}
	vis, err := NewVisibility(opt.IgnoreFoldersPattern, opt.ViewBinaryFiles)
	if err != nil {
		return nil, err
	}
	id := uuid.NewString()
	d := &Descriptor{
		baseDir:       normalizePath(filepath.ToSlash(abs)),
		opt:           opt,
		fs:            opt.FS,
		vis:           vis,
		toolchains:    opt.Toolchains,
		projectItems:  map[string]*Item{},
		refreshQueue:  workqueue.New("project-refresh-"+id, 1),
		listenerQueue: workqueue.New("project-listener-"+id, 1),
		writeLock:     make(chan struct{}, 1),
	}
	d.root = newFolder(d, nil, "root", "root", true, RootFolder)
	d.state.Store(int32(Loading))
	return d, nil
}

// BaseDir returns the absolute project directory.
func (d *Descriptor) BaseDir() string { return d.baseDir }

// Visibility returns the disk file visibility.
func (d *Descriptor) Visibility() *Visibility { return d.vis }

// Toolchains returns the toolchain registry.
func (d *Descriptor) Toolchains() *toolchain.Registry { return d.toolchains }

// State returns the lifecycle state.
func (d *Descriptor) State() State { return State(d.state.Load()) }

// SetState sets the lifecycle state.
func (d *Descriptor) SetState(s State) { d.state.Store(int32(s)) }

// IsModified reports whether the project needs saving.
func (d *Descriptor) IsModified() bool { return d.modified.Load() }

// SetModified sets the modified flag.
func (d *Descriptor) SetModified(b bool) { d.modified.Store(b) }

func (d *Descriptor) abs(p string) string {
	p = normalizePath(p)
	if isAbs(p) {
		return p
	}
	return path.Join(d.baseDir, p)
}

// properPath returns p relative to the base directory if it is under
// it, and absolute otherwise.
func (d *Descriptor) properPath(p string) string {
	p = d.abs(p)
	if p == d.baseDir {
		return "."
	}
	if inDir(p, d.baseDir) {
		return strings.TrimPrefix(p, d.baseDir+"/")
	}
	return p
}

// Root returns the root folder.
func (d *Descriptor) Root() *Folder { return d.root }

// LogicalFolder returns the top level folder of name, or nil.
func (d *Descriptor) LogicalFolder(name string) *Folder {
	return d.root.FindFolderByName(name)
}

// InitLogicalFolders creates the standard logical folders if
// createLogical is true, then adds test and source roots.
func (d *Descriptor) InitLogicalFolders(ctx context.Context, createLogical bool) error {
	if createLogical {
		d.root.AddNewFolder(SourceFiles, "Source Files", true, SourceLogicalFolder)
		d.root.AddNewFolder(HeaderFiles, "Header Files", true, SourceLogicalFolder)
		d.root.AddNewFolder(ResourceFiles, "Resource Files", true, SourceLogicalFolder)
		d.root.AddNewFolder(TestFiles, "Test Files", false, TestLogicalFolder)
		d.root.AddNewFolder(ExternalFiles, "Important Files", false, ImportantFilesFolder)
	}
	var errs error
	if tf := d.LogicalFolder(TestFiles); tf != nil {
		for _, r := range d.TestRoots() {
			if _, err := d.AddFilesFromRoot(ctx, tf, r, false, TestLogicalFolder, nil); err != nil {
				errs = multierr.Append(errs, err)
			}
		}
	}
	for _, r := range d.SourceRoots() {
		if _, err := d.AddFilesFromRoot(ctx, d.root, r, false, SourceDiskFolder, nil); err != nil {
			errs = multierr.Append(errs, err)
		}
	}
	d.SetModified(true)
	if errs != nil {
		return fmt.Errorf("init logical folders: %w", errs)
	}
	return nil
}

// Configurations returns the build configurations.
func (d *Descriptor) Configurations() []*Configuration {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return slices.Clone(d.confs)
}

// Configuration returns the build configuration of name, or nil.
func (d *Descriptor) Configuration(name string) *Configuration {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, c := range d.confs {
		if c.Name() == name {
			return c
		}
	}
	return nil
}

// Active returns the active build configuration, or nil.
func (d *Descriptor) Active() *Configuration {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.active
}

// AddConfiguration adds conf and creates its folder and item
// configurations for the existing tree. The first configuration
// becomes active.
func (d *Descriptor) AddConfiguration(conf *Configuration) error {
	if d.Configuration(conf.Name()) != nil {
		return fmt.Errorf("configuration %q already exists", conf.Name())
	}
	ref := d.Active()
	d.mu.Lock()
	d.confs = append(d.confs, conf)
	if d.active == nil {
		d.active = conf
	}
	d.mu.Unlock()
	d.root.FolderConfiguration(conf)
	for _, f := range d.root.AllFolders(false) {
		f.FolderConfiguration(conf)
	}
	for _, it := range d.Items() {
		if it.ItemConfiguration(conf) != nil {
			continue
		}
		ic := newItemConfiguration(conf, it)
		if rc := it.ItemConfiguration(ref); rc != nil {
			ic.Excluded.Set(rc.Excluded.Value())
		}
		conf.AddAuxObject(ic)
	}
	d.SetModified(true)
	return nil
}

// RemoveConfiguration removes the configuration of name. The active
// configuration can't be removed.
func (d *Descriptor) RemoveConfiguration(name string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, c := range d.confs {
		if c.Name() != name {
			continue
		}
		if c == d.active {
			return fmt.Errorf("configuration %q is active", name)
		}
		d.confs = append(d.confs[:i], d.confs[i+1:]...)
		d.modified.Store(true)
		return nil
	}
	return fmt.Errorf("configuration %q not found", name)
}

// CloneConfiguration adds a copy of the configuration src named name.
func (d *Descriptor) CloneConfiguration(src, name string) (*Configuration, error) {
	s := d.Configuration(src)
	if s == nil {
		return nil, fmt.Errorf("configuration %q not found", src)
	}
	if d.Configuration(name) != nil {
		return nil, fmt.Errorf("configuration %q already exists", name)
	}
	n := s.clone(name)
	d.mu.Lock()
	d.confs = append(d.confs, n)
	d.mu.Unlock()
	d.FixupMasterLinks(n)
	d.SetModified(true)
	return n, nil
}

// FixupMasterLinks links folder and item configurations of conf to
// their current parents. It is needed after cloning and after moving
// folders.
func (d *Descriptor) FixupMasterLinks(conf *Configuration) {
	var items []*ItemConfiguration
	for _, o := range conf.AuxObjects() {
		switch o := o.(type) {
		case *FolderConfiguration:
			o.linkMasters()
		case *ItemConfiguration:
			items = append(items, o)
		}
	}
	// items after folders, so that lazily created parents are linked.
	for _, ic := range items {
		ic.linkMasters()
	}
}

// SetActive makes the configuration of name active. Listeners are
// notified about items whose code model view changed.
func (d *Descriptor) SetActive(name string) error {
	conf := d.Configuration(name)
	if conf == nil {
		return fmt.Errorf("configuration %q not found", name)
	}
	if conf == d.Active() {
		return nil
	}
	snap := delta.Start(d)
	d.mu.Lock()
	d.active = conf
	d.mu.Unlock()
	delta.End(snap, true, nil)
	d.SetModified(true)
	return nil
}

func (d *Descriptor) addProjectItem(it *Item) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.projectItems[it.Path()] = it
}

func (d *Descriptor) removeProjectItem(it *Item) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.projectItems[it.Path()] == it {
		delete(d.projectItems, it.Path())
	}
}

// FindProjectItemByPath returns the project item of path p, given
// relative to the base directory or absolute.
func (d *Descriptor) FindProjectItemByPath(p string) *Item {
	p = normalizePath(p)
	d.mu.RLock()
	defer d.mu.RUnlock()
	if it, ok := d.projectItems[p]; ok {
		return it
	}
	alt := d.abs(p)
	if isAbs(p) {
		alt = d.properPath(p)
	}
	return d.projectItems[alt]
}

// FindFolderByPath returns the folder of a "/" separated path of
// names below the root.
func (d *Descriptor) FindFolderByPath(p string) *Folder {
	return d.root.FindFolderByPath(p)
}

// Items returns the project items sorted by path.
func (d *Descriptor) Items() []*Item {
	d.mu.RLock()
	items := make([]*Item, 0, len(d.projectItems))
	for _, it := range d.projectItems {
		items = append(items, it)
	}
	d.mu.RUnlock()
	slices.SortFunc(items, func(a, b *Item) int {
		return strings.Compare(a.Path(), b.Path())
	})
	return items
}

// ProjectItems returns the project items as code model views, sorted
// by path.
func (d *Descriptor) ProjectItems() []nativefile.Item {
	items := d.Items()
	nitems := make([]nativefile.Item, 0, len(items))
	for _, it := range items {
		it.prepare()
		nitems = append(nitems, it)
	}
	return nitems
}

// AddListener adds a project change listener.
func (d *Descriptor) AddListener(l nativefile.Listener) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.listeners = append(d.listeners, l)
}

// RemoveListener removes a project change listener.
func (d *Descriptor) RemoveListener(l nativefile.Listener) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, x := range d.listeners {
		if x == l {
			d.listeners = append(d.listeners[:i], d.listeners[i+1:]...)
			return
		}
	}
}

func (d *Descriptor) listenersSnapshot() []nativefile.Listener {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return slices.Clone(d.listeners)
}

func (d *Descriptor) fireFilesAdded(items []nativefile.Item) {
	if len(items) == 0 {
		return
	}
	for _, l := range d.listenersSnapshot() {
		l.FilesAdded(items)
	}
}

func (d *Descriptor) fireFilesRemoved(items []nativefile.Item) {
	if len(items) == 0 {
		return
	}
	for _, l := range d.listenersSnapshot() {
		l.FilesRemoved(items)
	}
}

func (d *Descriptor) fireFileRenamed(oldPath string, item nativefile.Item) {
	for _, l := range d.listenersSnapshot() {
		l.FileRenamed(oldPath, item)
	}
}

func (d *Descriptor) fireFilesPropertiesChanged(items []nativefile.Item) {
	if len(items) == 0 {
		return
	}
	for _, l := range d.listenersSnapshot() {
		l.FilesPropertiesChanged(items)
	}
}

// diskRoots returns the disk root folders.
func (d *Descriptor) diskRoots() []*Folder {
	var roots []*Folder
	for _, f := range d.root.Folders() {
		if f.IsDiskFolder() {
			roots = append(roots, f)
		}
	}
	return roots
}

// Refresh reconciles all disk folders with the file system on the
// refresh queue, and returns the change of the project's file set.
// Listeners are notified about the change.
func (d *Descriptor) Refresh(ctx context.Context, logger *log.Logger) (*delta.Delta, error) {
	var dl *delta.Delta
	done := make(chan struct{})
	err := d.refreshQueue.Post(ctx, func(ctx context.Context) {
		defer close(done)
		snap := delta.Start(d)
		for _, f := range d.diskRoots() {
			f.RefreshDiskFolder(ctx)
		}
		dl = delta.End(snap, true, logger)
	})
	if err != nil {
		return nil, err
	}
	select {
	case <-done:
	case <-ctx.Done():
		return nil, context.Cause(ctx)
	}
	return dl, nil
}

// Close releases the descriptor. Pending background requests finish
// first.
func (d *Descriptor) Close() {
	if d.State() == Closed {
		return
	}
	d.SetState(Closed)
	d.refreshQueue.Close()
	d.listenerQueue.Close()
	d.closeWatcher()
	d.root.Close()
}
