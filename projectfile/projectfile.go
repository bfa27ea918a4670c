// Copyright 2026 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package projectfile reads and writes project metadata as YAML.
//
// Only settings with their own values are written. Folder and item
// configuration records are keyed by their aux object ids, the folder
// id ("f-" and the folder path) and the item path.
package projectfile

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"go.chromium.org/infra/build/makeproj/nativefile"
	"go.chromium.org/infra/build/makeproj/project"
	"go.chromium.org/infra/build/makeproj/toolconf"
)

// DecodeError is returned when project metadata is read only partially.
type DecodeError struct {
	// Section names the part of the document that failed.
	Section string
	err     error
}

func (e DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Section, e.err)
}

func (e DecodeError) Unwrap() error {
	return e.err
}

// Codec is the YAML project metadata codec.
type Codec struct{}

var _ project.Codec = Codec{}

// Encode writes the shared project metadata of d to w.
func (Codec) Encode(w io.Writer, d *project.Descriptor) error {
	doc := &document{
		Version:     Version,
		SourceRoots: d.SourceRoots(),
		TestRoots:   d.TestRoots(),
		Root:        encodeFolder(d.Root()),
	}
	for _, conf := range d.Configurations() {
		doc.Configurations = append(doc.Configurations, encodeConf(conf))
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}

// EncodePrivate writes the per-user project metadata of d to w.
func (Codec) EncodePrivate(w io.Writer, d *project.Descriptor) error {
	doc := &privateDocument{Version: Version}
	if conf := d.Active(); conf != nil {
		doc.Active = conf.Name()
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}

func encodeFolder(f *project.Folder) *folderRecord {
	r := &folderRecord{
		Name:         f.Name(),
		Kind:         f.Kind().String(),
		ProjectFiles: f.IsProjectFiles(),
	}
	if dn := f.DisplayName(); dn != f.Name() {
		r.DisplayName = dn
	}
	if f.IsDiskFolder() {
		r.Root = f.Root()
		return r
	}
	for _, e := range f.Elements() {
		switch e := e.(type) {
		case *project.Item:
			r.Items = append(r.Items, e.Path())
		case *project.Folder:
			r.Folders = append(r.Folders, encodeFolder(e))
		}
	}
	return r
}

func encodeConf(conf *project.Configuration) *confRecord {
	r := &confRecord{
		Name:                    conf.Name(),
		Type:                    conf.Type().String(),
		CompilerSet:             own(conf.CompilerSet),
		DependencyChecking:      own(conf.DependencyChecking),
		RebuildPropChanged:      own(conf.RebuildPropChanged),
		IncludeInCodeAssistance: own(conf.IncludeInCodeAssistance),
		Compilers:               encodeCompilers(conf.Compiler),
		Linker:                  encodeLinker(conf.Linker),
	}
	for _, o := range conf.AuxObjects() {
		switch o := o.(type) {
		case *project.FolderConfiguration:
			if !o.Modified() {
				continue
			}
			r.Folders = append(r.Folders, &folderConfRecord{
				ID:        o.ID(),
				Compilers: encodeCompilers(o.Compiler),
				Linker:    encodeLinker(o.Linker),
			})
		case *project.ItemConfiguration:
			if ir := encodeItemConf(o); ir != nil {
				r.Items = append(r.Items, ir)
			}
		}
	}
	slices.SortFunc(r.Folders, func(a, b *folderConfRecord) int { return strings.Compare(a.ID, b.ID) })
	slices.SortFunc(r.Items, func(a, b *itemConfRecord) int { return strings.Compare(a.Path, b.Path) })
	return r
}

func encodeItemConf(ic *project.ItemConfiguration) *itemConfRecord {
	r := &itemConfRecord{
		Path:     ic.ID(),
		Excluded: own(ic.Excluded),
		Flavor:   ownEnum(ic.Flavor),
	}
	if ic.Tool() != ic.Item().DefaultTool() {
		r.Tool = ic.Tool().String()
	}
	compilers := ic.Compilers()
	r.Compilers = encodeCompilers(func(k toolconf.Kind) *toolconf.Compiler {
		return compilers[k]
	})
	if ic.HasCustomTool() {
		r.Custom = encodeCustom(ic.CustomTool())
	}
	if r.Excluded == nil && r.Flavor == nil && r.Tool == "" && r.Compilers == nil && r.Custom == nil {
		return nil
	}
	return r
}

// Decode reads the shared project metadata from r into the empty
// descriptor d. A document that can't be applied completely is applied
// as far as possible and a DecodeError is returned.
func (Codec) Decode(ctx context.Context, r io.Reader, d *project.Descriptor) error {
	var doc document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil && err != io.EOF {
		return DecodeError{Section: "document", err: err}
	}
	if doc.Version > Version {
		log.Warnf("project %s: document version %d is newer than %d", d.BaseDir(), doc.Version, Version)
	}
	for _, root := range doc.SourceRoots {
		d.AddSourceRootRaw(root)
	}
	for _, root := range doc.TestRoots {
		d.AddTestRootRaw(root)
	}

	var errs error
	var confs []*project.Configuration
	for _, cr := range doc.Configurations {
		conf, err := decodeConf(cr)
		if err != nil {
			errs = multierr.Append(errs, DecodeError{Section: "configuration " + cr.Name, err: err})
		}
		if conf == nil {
			confs = append(confs, nil)
			continue
		}
		if err := d.AddConfiguration(conf); err != nil {
			errs = multierr.Append(errs, DecodeError{Section: "configuration " + cr.Name, err: err})
			conf = nil
		}
		confs = append(confs, conf)
	}
	if doc.Root != nil {
		if err := decodeChildren(ctx, d, d.Root(), doc.Root); err != nil {
			errs = multierr.Append(errs, DecodeError{Section: "folders", err: err})
		}
	}
	for i, cr := range doc.Configurations {
		if confs[i] == nil {
			continue
		}
		if err := decodeAux(d, confs[i], cr); err != nil {
			errs = multierr.Append(errs, DecodeError{Section: "configuration " + cr.Name, err: err})
		}
	}
	return errs
}

// DecodePrivate reads the per-user project metadata from r.
func (Codec) DecodePrivate(r io.Reader, d *project.Descriptor) error {
	var doc privateDocument
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil && err != io.EOF {
		return DecodeError{Section: "private", err: err}
	}
	if doc.Active == "" {
		return nil
	}
	if err := d.SetActive(doc.Active); err != nil {
		return DecodeError{Section: "private", err: err}
	}
	return nil
}

func decodeConf(r *confRecord) (*project.Configuration, error) {
	if r.Name == "" {
		return nil, fmt.Errorf("no name")
	}
	typ, err := project.ParseConfType(r.Type)
	if err != nil {
		return nil, err
	}
	conf := project.NewConfiguration(r.Name, typ)
	set(conf.CompilerSet, r.CompilerSet)
	set(conf.DependencyChecking, r.DependencyChecking)
	set(conf.RebuildPropChanged, r.RebuildPropChanged)
	set(conf.IncludeInCodeAssistance, r.IncludeInCodeAssistance)
	decodeLinker(conf.Linker, r.Linker)
	return conf, decodeCompilers(conf.Compiler, r.Compilers)
}

func decodeChildren(ctx context.Context, d *project.Descriptor, f *project.Folder, r *folderRecord) error {
	var errs error
	for _, p := range r.Items {
		f.AddItem(project.NewItem(p))
	}
	for _, sr := range r.Folders {
		if err := decodeFolder(ctx, d, f, sr); err != nil {
			errs = multierr.Append(errs, err)
		}
	}
	return errs
}

func decodeFolder(ctx context.Context, d *project.Descriptor, parent *project.Folder, r *folderRecord) error {
	kind, err := project.ParseFolderKind(r.Kind)
	if err != nil {
		return fmt.Errorf("folder %s: %w", r.Name, err)
	}
	displayName := r.DisplayName
	if displayName == "" {
		displayName = r.Name
	}
	if kind == project.SourceDiskFolder && r.Root != "" {
		f, err := d.AddFilesFromRoot(ctx, parent, r.Root, false, project.SourceDiskFolder, nil)
		if err != nil {
			// keep the folder so that its configurations survive.
			log.Infof("disk folder %s: %v", r.Root, err)
			f = parent.AddNewFolder(r.Name, displayName, r.ProjectFiles, kind)
			f.SetRoot(r.Root)
		}
		if r.DisplayName != "" {
			f.SetDisplayName(r.DisplayName)
		}
		return nil
	}
	f := parent.AddNewFolder(r.Name, displayName, r.ProjectFiles, kind)
	return decodeChildren(ctx, d, f, r)
}

func decodeAux(d *project.Descriptor, conf *project.Configuration, r *confRecord) error {
	var errs error
	for _, fr := range r.Folders {
		p, ok := strings.CutPrefix(fr.ID, "f-")
		if !ok {
			errs = multierr.Append(errs, fmt.Errorf("bad folder id %q", fr.ID))
			continue
		}
		f := d.Root()
		if p != "" {
			f = d.FindFolderByPath(p)
		}
		if f == nil {
			log.Infof("configuration %s: no folder %s", conf.Name(), p)
			continue
		}
		fc := f.FolderConfiguration(conf)
		if fc == nil {
			continue
		}
		decodeLinker(fc.Linker, fr.Linker)
		if err := decodeCompilers(fc.Compiler, fr.Compilers); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("folder %s: %w", p, err))
		}
	}
	for _, ir := range r.Items {
		it := d.FindProjectItemByPath(ir.Path)
		if it == nil {
			log.Infof("configuration %s: no item %s", conf.Name(), ir.Path)
			continue
		}
		ic := it.ItemConfiguration(conf)
		if ic == nil {
			continue
		}
		if err := decodeItemConf(ic, ir); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("item %s: %w", ir.Path, err))
		}
	}
	return errs
}

func decodeItemConf(ic *project.ItemConfiguration, r *itemConfRecord) error {
	var errs error
	set(ic.Excluded, r.Excluded)
	if r.Tool != "" {
		t, err := project.ParseTool(r.Tool)
		if err != nil {
			errs = multierr.Append(errs, err)
		} else {
			ic.SetTool(t)
		}
	}
	if r.Flavor != nil {
		fl, err := nativefile.ParseFlavor(*r.Flavor)
		if err != nil {
			errs = multierr.Append(errs, err)
		} else {
			ic.Flavor.Set(int(fl))
		}
	}
	errs = multierr.Append(errs, decodeCompilers(ic.CompilerOf, r.Compilers))
	if r.Custom != nil {
		decodeCustom(ic.CustomTool(), r.Custom)
	}
	ic.SetToolDirty(false)
	return errs
}
