// Copyright 2026 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package project

import (
	"context"
	"fmt"
	"path"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"

	"go.chromium.org/infra/build/makeproj/nativefile"
)

// FolderKind is a kind of folder.
type FolderKind int

const (
	// InheritedKind derives the kind from the parent folder.
	InheritedKind FolderKind = iota - 1
	RootFolder
	SourceLogicalFolder
	SourceDiskFolder
	ImportantFilesFolder
	TestLogicalFolder
	TestFolder
)

var folderKindNames = []string{"root", "source_logical", "source_disk", "important_files", "test_logical", "test"}

func (k FolderKind) String() string {
	if k < 0 || int(k) >= len(folderKindNames) {
		return fmt.Sprintf("FolderKind(%d)", int(k))
	}
	return folderKindNames[k]
}

// ParseFolderKind parses a folder kind name.
func ParseFolderKind(s string) (FolderKind, error) {
	for i, n := range folderKindNames {
		if n == s {
			return FolderKind(i), nil
		}
	}
	return InheritedKind, fmt.Errorf("unknown folder kind %q", s)
}

// Element is a child of a folder: *Folder or *Item.
type Element interface {
	Name() string
	sortName() string
}

// ChangeListener is notified when a folder or its contents change.
type ChangeListener interface {
	StateChanged(source any)
}

// Folder is a node of a project tree. Disk folders mirror a directory
// and carry the directory path in their root.
type Folder struct {
	desc         *Descriptor
	parent       *Folder
	name         string
	kind         FolderKind
	projectFiles bool

	mu          sync.RWMutex
	displayName string
	root        string
	children    []Element
	// deletedItems archives configurations of removed items by path.
	deletedItems     map[string]map[*Configuration]*ItemConfiguration
	listeners        []ChangeListener
	listenerAttached bool

	removed atomic.Bool
}

func newFolder(desc *Descriptor, parent *Folder, name, displayName string, projectFiles bool, kind FolderKind) *Folder {
	if kind == InheritedKind {
		switch {
		case parent.IsDiskFolder():
			kind = SourceDiskFolder
		case parent.IsTestLogicalFolder():
			kind = TestLogicalFolder
		default:
			kind = SourceLogicalFolder
		}
	}
	f := &Folder{
		desc:         desc,
		parent:       parent,
		name:         name,
		displayName:  displayName,
		projectFiles: projectFiles,
		kind:         kind,
	}
	if kind != SourceDiskFolder && log.GetLevel() <= log.DebugLevel {
		log.Debugf("logical folder %s", f.Path())
	}
	return f
}

// Name returns the folder name, unique among its siblings.
func (f *Folder) Name() string { return f.name }

func (f *Folder) sortName() string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.displayName
}

// Kind returns the folder kind.
func (f *Folder) Kind() FolderKind { return f.kind }

// Parent returns the parent folder, or nil for the root.
func (f *Folder) Parent() *Folder { return f.parent }

// Descriptor returns the project descriptor.
func (f *Folder) Descriptor() *Descriptor { return f.desc }

// IsProjectFiles reports whether items of the folder are project
// items.
func (f *Folder) IsProjectFiles() bool { return f.projectFiles }

// IsDiskFolder reports whether the folder mirrors a directory.
func (f *Folder) IsDiskFolder() bool { return f != nil && f.kind == SourceDiskFolder }

// IsTest reports whether the folder is a test.
func (f *Folder) IsTest() bool { return f.kind == TestFolder }

// IsTestLogicalFolder reports whether the folder is a logical test
// folder.
func (f *Folder) IsTestLogicalFolder() bool { return f != nil && f.kind == TestLogicalFolder }

// Root returns the directory of a disk root folder, relative to the
// project base directory if under it, or "".
func (f *Folder) Root() string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.root
}

// SetRoot sets the directory of a disk root folder.
func (f *Folder) SetRoot(root string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.root = normalizePath(root)
}

// DisplayName returns the name shown to users. Disk root folders show
// the directory name.
func (f *Folder) DisplayName() string {
	if f.IsDiskFolder() && f.Root() != "" {
		if p := f.AbsolutePath(); p != "" {
			return path.Base(p)
		}
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.displayName
}

// SetDisplayName changes the display name and keeps the parent's
// children ordered.
func (f *Folder) SetDisplayName(name string) {
	f.mu.Lock()
	f.displayName = name
	f.mu.Unlock()
	f.desc.SetModified(true)
	if f.parent != nil {
		f.parent.reInsertElement(f)
	}
}

// IsRemoved reports whether the folder is soft deleted.
func (f *Folder) IsRemoved() bool { return f.removed.Load() }

func (f *Folder) markRemoved(b bool) { f.removed.Store(b) }

// segment returns the folder's own element of Path or RootPath.
func (f *Folder) segment(fromRoot bool) string {
	if fromRoot && f.IsDiskFolder() {
		if root := f.Root(); root != "" {
			return root
		}
	}
	return f.name
}

func (f *Folder) reversePath(fromRoot bool) string {
	var parts []string
	for p := f; p != nil && p.parent != nil; p = p.parent {
		parts = append(parts, p.segment(fromRoot))
	}
	var sb strings.Builder
	for i := len(parts) - 1; i >= 0; i-- {
		sb.WriteString(parts[i])
		if i > 0 {
			sb.WriteByte('/')
		}
	}
	return sb.String()
}

// Path returns the names of the folder and its ancestors below the
// root, joined with "/".
func (f *Folder) Path() string { return f.reversePath(false) }

// RootPath is like Path, but uses the directory of disk root folders.
func (f *Folder) RootPath() string { return f.reversePath(true) }

// ID returns the aux object id of the folder's configurations.
func (f *Folder) ID() string { return "f-" + f.Path() }

// AbsolutePath returns the directory of a disk folder, or "".
func (f *Folder) AbsolutePath() string {
	if root := f.Root(); root != "" {
		return f.desc.abs(root)
	}
	if f.IsDiskFolder() && f.parent.IsDiskFolder() {
		if pp := f.parent.AbsolutePath(); pp != "" {
			return pp + "/" + f.name
		}
	}
	return ""
}

func (f *Folder) String() string {
	var sb strings.Builder
	if f.IsRemoved() {
		sb.WriteString("[removed]")
	}
	fmt.Fprintf(&sb, "%s{[%s][%s]}", f.name, f.Path(), f.RootPath())
	return sb.String()
}

// Elements returns the children in order.
func (f *Folder) Elements() []Element {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return append([]Element(nil), f.children...)
}

// Items returns the items of the folder.
func (f *Folder) Items() []*Item {
	f.mu.RLock()
	defer f.mu.RUnlock()
	var items []*Item
	for _, e := range f.children {
		if it, ok := e.(*Item); ok {
			items = append(items, it)
		}
	}
	return items
}

// Folders returns the subfolders of the folder.
func (f *Folder) Folders() []*Folder {
	f.mu.RLock()
	defer f.mu.RUnlock()
	var folders []*Folder
	for _, e := range f.children {
		if sub, ok := e.(*Folder); ok {
			folders = append(folders, sub)
		}
	}
	return folders
}

// AllItems returns the items of the folder and all subfolders.
func (f *Folder) AllItems() []*Item {
	items := f.Items()
	for _, sub := range f.Folders() {
		items = append(items, sub.AllItems()...)
	}
	return items
}

// AllFolders returns all descendant folders. If projectFilesOnly is
// true, it doesn't descend into non project folders.
func (f *Folder) AllFolders(projectFilesOnly bool) []*Folder {
	var folders []*Folder
	if projectFilesOnly && !f.projectFiles {
		return nil
	}
	for _, sub := range f.Folders() {
		if projectFilesOnly && !sub.projectFiles {
			continue
		}
		folders = append(folders, sub)
		folders = append(folders, sub.AllFolders(projectFilesOnly)...)
	}
	return folders
}

// AllTests returns all descendant test folders.
func (f *Folder) AllTests() []*Folder {
	var tests []*Folder
	for _, sub := range f.Folders() {
		if sub.IsTest() {
			tests = append(tests, sub)
		}
		tests = append(tests, sub.AllTests()...)
	}
	return tests
}

// isAncestorOf reports whether f is o or an ancestor of o.
func (f *Folder) isAncestorOf(o *Folder) bool {
	for p := o; p != nil; p = p.parent {
		if p == f {
			return true
		}
	}
	return false
}

// insertFolderElement inserts sub keeping project folders sorted by
// display name. If the same folder is already present, it is revived
// and returned instead.
func (f *Folder) insertFolderElement(sub *Folder) *Folder {
	if !sub.projectFiles {
		f.children = append(f.children, sub)
		return sub
	}
	name := strings.ToLower(sub.sortName())
	i := len(f.children) - 1
	for ; i >= 0; i-- {
		o, ok := f.children[i].(*Folder)
		if !ok || !o.projectFiles {
			continue
		}
		cmp := strings.Compare(name, strings.ToLower(o.sortName()))
		// siblings have the same root path iff their own segments match.
		if cmp == 0 && o.kind == sub.kind && o.segment(true) == sub.segment(true) {
			o.markRemoved(false)
			return o
		}
		if cmp >= 0 {
			break
		}
	}
	f.children = append(f.children[:i+1], append([]Element{sub}, f.children[i+1:]...)...)
	return sub
}

// insertItemElement inserts item after folders, keeping items sorted
// by name.
func (f *Folder) insertItemElement(item *Item) {
	name := item.sortName()
	i := len(f.children) - 1
	for ; i >= 0; i-- {
		o, ok := f.children[i].(*Item)
		if !ok || strings.Compare(name, o.sortName()) >= 0 {
			break
		}
	}
	f.children = append(f.children[:i+1], append([]Element{item}, f.children[i+1:]...)...)
}

func (f *Folder) addElement(e Element, setModified bool) Element {
	f.mu.Lock()
	switch e := e.(type) {
	case *Folder:
		if found := f.insertFolderElement(e); found != e {
			f.mu.Unlock()
			f.fireChange(f, setModified)
			return found
		}
	case *Item:
		f.insertItemElement(e)
	}
	f.mu.Unlock()
	f.fireChange(f, setModified)
	return e
}

func (f *Folder) removeElement(e Element) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, c := range f.children {
		if c == e {
			f.children = append(f.children[:i], f.children[i+1:]...)
			return true
		}
	}
	return false
}

func (f *Folder) reInsertElement(e Element) {
	if !f.removeElement(e) {
		return
	}
	f.addElement(e, true)
}

// FolderConfiguration returns the folder's configuration of conf,
// creating it on first use. Only project, test and logical test
// folders have configurations.
func (f *Folder) FolderConfiguration(conf *Configuration) *FolderConfiguration {
	if conf == nil || !(f.projectFiles || f.kind == TestFolder || f.kind == TestLogicalFolder) {
		return nil
	}
	id := f.ID()
	if fc, ok := conf.AuxObject(id).(*FolderConfiguration); ok {
		return fc
	}
	fc := newFolderConfiguration(conf, f)
	conf.AddAuxObject(fc)
	return fc
}

// AddItem adds item, notifying listeners.
func (f *Folder) AddItem(item *Item) *Item {
	return f.addItemImpl(item, true, true, false)
}

// AddItemAction adds item as a user action. The item is included in
// all configurations.
func (f *Folder) AddItemAction(item *Item) *Item {
	added := f.addItemActionImpl(item, true, false)
	for _, ic := range added.ItemConfigurations() {
		ic.Excluded.Set(false)
	}
	return added
}

// AddItemFromRefreshDir adds an item found on disk. Unless
// useOldScheme is true, the item is excluded by default.
func (f *Folder) AddItemFromRefreshDir(item *Item, notify, setModified, useOldScheme bool) *Item {
	return f.addItemImpl(item, notify, setModified, !useOldScheme)
}

func (f *Folder) addItemActionImpl(item *Item, setModified, excludedByDefault bool) *Item {
	added := f.addItemImpl(item, true, setModified, excludedByDefault)
	if added == item && f.projectFiles {
		f.desc.fireFilesAdded([]nativefile.Item{added})
	}
	return added
}

func (f *Folder) addItemImpl(item *Item, notify, setModified, excludedByDefault bool) *Item {
	if item == nil {
		return nil
	}
	if f.projectFiles {
		if existing := f.desc.FindProjectItemByPath(item.Path()); existing != nil {
			f.fireChange(existing, setModified)
			return existing
		}
	}
	item.SetFolder(f)
	f.addElement(item, setModified && notify)
	if !f.projectFiles {
		return item
	}
	f.desc.addProjectItem(item)
	if setModified {
		f.desc.SetModified(true)
	}
	f.mu.Lock()
	archived := f.deletedItems[item.Path()]
	delete(f.deletedItems, item.Path())
	f.mu.Unlock()
	for _, conf := range f.desc.Configurations() {
		f.FolderConfiguration(conf)
		ic := newItemConfiguration(conf, item)
		ic.Excluded.Set(excludedByDefault)
		if old := archived[conf]; old != nil {
			ic.SetTool(old.Tool())
			ic.Assign(old)
		}
		conf.AddAuxObject(ic)
	}
	return item
}

// AddFolder adds sub. It returns the folder already present if it is
// the same folder. Adding f or an ancestor of f is ignored.
func (f *Folder) AddFolder(sub *Folder, setModified bool) *Folder {
	if sub.isAncestorOf(f) {
		log.Infof("can't add folder %s to itself or its descendant %s", sub, f)
		return sub
	}
	sub.parent = f
	added := f.addElement(sub, setModified).(*Folder)
	if added.projectFiles {
		for _, conf := range f.desc.Configurations() {
			added.FolderConfiguration(conf)
		}
	}
	return added
}

// AddNewFolder creates and adds a subfolder.
func (f *Folder) AddNewFolder(name, displayName string, projectFiles bool, kind FolderKind) *Folder {
	return f.AddFolder(newFolder(f.desc, f, name, displayName, projectFiles, kind), true)
}

// SuggestedNewFolderName returns an unused folder name and display
// name derived from template.
func (f *Folder) SuggestedNewFolderName(template string) (name, displayName string) {
	for i := 1; ; i++ {
		name = fmt.Sprintf("NewFolder%d", i)
		displayName = fmt.Sprintf("%s %d", template, i)
		if f.FindFolderByName(name) == nil && f.FindFolderByDisplayName(displayName) == nil {
			return name, displayName
		}
	}
}

// RemoveItem removes item.
func (f *Folder) RemoveItem(item *Item) bool {
	return f.removeItemImpl(item, true, true)
}

// RemoveItemAction removes item as a user action and notifies
// listeners.
func (f *Folder) RemoveItemAction(item *Item) bool {
	if !f.removeItemImpl(item, true, true) {
		return false
	}
	if f.projectFiles {
		f.desc.fireFilesRemoved([]nativefile.Item{item})
	}
	return true
}

// removePhysicalItem removes an item whose file was deleted. Items
// with important attributes are kept.
func (f *Folder) removePhysicalItem(item *Item, setModified bool) bool {
	if !f.removeItemImpl(item, setModified, false) {
		return false
	}
	if f.projectFiles {
		f.desc.fireFilesRemoved([]nativefile.Item{item})
	}
	return true
}

func (f *Folder) removeItemImpl(item *Item, setModified, complete bool) bool {
	if !complete && item.HasImportantAttributes() {
		return false
	}
	if !f.removeElement(item) {
		f.fireChange(f, false)
		return false
	}
	if f.projectFiles {
		f.desc.removeProjectItem(item)
		archived := map[*Configuration]*ItemConfiguration{}
		for _, conf := range f.desc.Configurations() {
			if ic, ok := conf.RemoveAuxObject(item.ID()).(*ItemConfiguration); ok {
				archived[conf] = ic
			}
		}
		f.mu.Lock()
		if f.deletedItems == nil {
			f.deletedItems = map[string]map[*Configuration]*ItemConfiguration{}
		}
		f.deletedItems[item.Path()] = archived
		f.mu.Unlock()
	}
	item.SetFolder(nil)
	f.fireChange(item, setModified)
	return true
}

// RemoveFolder removes sub and its contents.
func (f *Folder) RemoveFolder(sub *Folder) bool {
	return f.removeFolderImpl(sub, true, true)
}

// RemoveFolderAction removes sub as a user action and notifies
// listeners about the removed items.
func (f *Folder) RemoveFolderAction(sub *Folder) bool {
	items := sub.AllItems()
	if !f.removeFolderImpl(sub, true, true) {
		return false
	}
	var removed []nativefile.Item
	for _, it := range items {
		if it.Folder() == nil {
			removed = append(removed, it)
		}
	}
	if len(removed) > 0 {
		f.desc.fireFilesRemoved(removed)
	}
	return true
}

func (f *Folder) removeFolderImpl(sub *Folder, setModified, complete bool) bool {
	if sub.IsDiskFolder() {
		sub.DetachListener()
	}
	sub.removeAll(complete)
	sub.markRemoved(true)
	if !complete && sub.HasAttributedItems() {
		f.fireChange(sub, setModified)
		return false
	}
	if !f.removeElement(sub) {
		return false
	}
	if f.projectFiles || (f.kind == TestLogicalFolder && sub.projectFiles) || sub.kind == TestFolder {
		for _, conf := range f.desc.Configurations() {
			conf.RemoveAuxObject(sub.ID())
		}
	}
	f.fireChange(sub, setModified)
	return true
}

func (f *Folder) removeAll(complete bool) {
	for _, it := range f.Items() {
		f.removeItemImpl(it, false, complete)
	}
	for _, sub := range f.Folders() {
		f.removeFolderImpl(sub, false, complete)
	}
}

// FindItemByPath returns the item of the folder with the path.
func (f *Folder) FindItemByPath(p string) *Item {
	p = normalizePath(p)
	for _, it := range f.Items() {
		if it.Path() == p {
			return it
		}
	}
	return nil
}

// FindItemByAbsolutePath returns the item of the folder with the
// absolute path.
func (f *Folder) FindItemByAbsolutePath(p string) *Item {
	p = normalizePath(p)
	for _, it := range f.Items() {
		if it.AbsolutePath() == p {
			return it
		}
	}
	return nil
}

// FindItemByName returns the item of the folder with the name.
func (f *Folder) FindItemByName(name string) *Item {
	for _, it := range f.Items() {
		if it.Name() == name {
			return it
		}
	}
	return nil
}

// FindFolderByName returns the subfolder with the name.
func (f *Folder) FindFolderByName(name string) *Folder {
	for _, sub := range f.Folders() {
		if sub.name == name {
			return sub
		}
	}
	return nil
}

// FindFolderByDisplayName returns the subfolder with the display name.
func (f *Folder) FindFolderByDisplayName(name string) *Folder {
	for _, sub := range f.Folders() {
		if sub.DisplayName() == name {
			return sub
		}
	}
	return nil
}

// FindFolderByAbsolutePath returns the subfolder mirroring the
// directory.
func (f *Folder) FindFolderByAbsolutePath(p string) *Folder {
	p = normalizePath(p)
	for _, sub := range f.Folders() {
		if ap := sub.AbsolutePath(); ap != "" && ap == p {
			return sub
		}
	}
	return nil
}

// FindFolderByRelativePath returns the subfolder whose root is p.
func (f *Folder) FindFolderByRelativePath(p string) *Folder {
	p = normalizePath(p)
	for _, sub := range f.Folders() {
		if sub.Root() == p {
			return sub
		}
	}
	return nil
}

// FindFolderByPath returns the descendant folder of a "/" separated
// path of names.
func (f *Folder) FindFolderByPath(p string) *Folder {
	first, rest, _ := strings.Cut(p, "/")
	sub := f.FindFolderByName(first)
	if sub == nil || rest == "" {
		return sub
	}
	return sub.FindFolderByPath(rest)
}

// HasAttributedItems reports whether the folder must be kept when its
// directory disappears: it is not a disk folder, it is a disk root, or
// it contains important items.
func (f *Folder) HasAttributedItems() bool {
	if !f.IsDiskFolder() || f.Root() != "" {
		return true
	}
	for _, it := range f.Items() {
		if it.HasImportantAttributes() {
			return true
		}
	}
	for _, sub := range f.Folders() {
		if sub.HasAttributedItems() {
			return true
		}
	}
	return false
}

// AddChangeListener adds l.
func (f *Folder) AddChangeListener(l ChangeListener) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listeners = append(f.listeners, l)
}

// RemoveChangeListener removes l.
func (f *Folder) RemoveChangeListener(l ChangeListener) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, x := range f.listeners {
		if x == l {
			f.listeners = append(f.listeners[:i], f.listeners[i+1:]...)
			return
		}
	}
}

func (f *Folder) fireChange(source any, setModified bool) {
	f.mu.RLock()
	ls := append([]ChangeListener(nil), f.listeners...)
	f.mu.RUnlock()
	for _, l := range ls {
		l.StateChanged(source)
	}
	if setModified {
		f.desc.SetModified(true)
	}
}

func (f *Folder) isParentOf(p string) bool {
	ap := f.AbsolutePath()
	return ap != "" && path.Dir(p) == ap
}

func (f *Folder) isAncestorOfPath(p string) bool {
	ap := f.AbsolutePath()
	return ap == "" || inDir(p, ap)
}

func (f *Folder) forward(fn func(sub *Folder)) {
	for _, sub := range f.Folders() {
		fn(sub)
	}
}

// FileDataCreated handles creation of the file p.
func (f *Folder) FileDataCreated(ctx context.Context, p string) {
	p = normalizePath(p)
	if !f.IsDiskFolder() || !f.isParentOf(p) {
		if f.isAncestorOfPath(p) {
			f.forward(func(sub *Folder) { sub.FileDataCreated(ctx, p) })
		}
		return
	}
	if !f.desc.vis.SourceVisible(path.Base(p)) {
		f.fireChange(f, false)
		return
	}
	f.addItemActionImpl(NewItem(f.desc.properPath(p)), true, true)
}

// FileFolderCreated handles creation of the directory p.
func (f *Folder) FileFolderCreated(ctx context.Context, p string) {
	p = normalizePath(p)
	if !f.IsDiskFolder() || !f.isParentOf(p) {
		if f.isAncestorOfPath(p) {
			f.forward(func(sub *Folder) { sub.FileFolderCreated(ctx, p) })
		}
		return
	}
	name := path.Base(p)
	if !Visible(name) || f.desc.vis.FolderIgnored(name) {
		f.fireChange(f, false)
		return
	}
	if _, err := f.desc.AddFilesFromDir(ctx, f, p, true, true, nil); err != nil {
		log.Infof("add files from %s: %v", p, err)
	}
}

// FileDeleted handles deletion of the file or directory p.
func (f *Folder) FileDeleted(ctx context.Context, p string) {
	p = normalizePath(p)
	if !f.IsDiskFolder() || !f.isParentOf(p) {
		if f.isAncestorOfPath(p) {
			f.forward(func(sub *Folder) { sub.FileDeleted(ctx, p) })
		}
		return
	}
	name := path.Base(p)
	item := f.FindItemByAbsolutePath(p)
	if item == nil {
		item = f.FindItemByPath(strings.TrimPrefix(f.RootPath()+"/"+name, "./"))
	}
	if item != nil {
		f.removePhysicalItem(item, true)
		return
	}
	if sub := f.FindFolderByName(name); sub != nil {
		f.removeFolderImpl(sub, true, false)
		return
	}
	f.fireChange(f, false)
}

// FileRenamed handles rename of the file or directory oldPath to
// newPath in the same directory. Configurations are carried over.
func (f *Folder) FileRenamed(ctx context.Context, oldPath, newPath string) {
	oldPath = normalizePath(oldPath)
	newPath = normalizePath(newPath)
	if !f.IsDiskFolder() || !f.isParentOf(oldPath) {
		if f.isAncestorOfPath(oldPath) {
			f.forward(func(sub *Folder) { sub.FileRenamed(ctx, oldPath, newPath) })
		}
		return
	}
	if old := f.FindFolderByName(path.Base(oldPath)); old != nil && old.IsDiskFolder() {
		top, err := f.desc.AddFilesFromDir(ctx, f, newPath, true, false, nil)
		if err != nil {
			log.Infof("add files from %s: %v", newPath, err)
			return
		}
		copyConfigurations(old, top)
		f.RemoveFolderAction(old)
		return
	}
	old := f.FindItemByAbsolutePath(oldPath)
	if old == nil {
		f.fireChange(f, false)
		return
	}
	oldAbs := old.AbsolutePath()
	renamed := f.AddItemFromRefreshDir(NewItem(f.desc.properPath(newPath)), true, true, false)
	renamed.CopyConfigurations(old)
	f.RemoveItem(old)
	if f.projectFiles {
		f.desc.fireFileRenamed(oldAbs, renamed)
	}
}

// copyConfigurations copies configurations of the folder tree src into
// the same named folders and items of dst.
func copyConfigurations(src, dst *Folder) {
	for _, conf := range src.desc.Configurations() {
		sc := src.FolderConfiguration(conf)
		dc := dst.FolderConfiguration(conf)
		if sc != nil && dc != nil {
			dc.Assign(sc)
		}
	}
	for _, it := range dst.Items() {
		if old := src.FindItemByName(it.Name()); old != nil {
			it.CopyConfigurations(old)
		}
	}
	for _, sub := range dst.Folders() {
		if old := src.FindFolderByName(sub.name); old != nil {
			copyConfigurations(old, sub)
		}
	}
}

// Close releases the folder tree.
func (f *Folder) Close() {
	f.DetachListener()
	for _, sub := range f.Folders() {
		sub.Close()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listeners = nil
	f.children = nil
	f.deletedItems = nil
}
