// Copyright 2026 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package projectfile

import (
	"fmt"

	"go.uber.org/multierr"

	"go.chromium.org/infra/build/makeproj/setting"
	"go.chromium.org/infra/build/makeproj/toolconf"
)

// Version is the version of the document format.
const Version = 1

type document struct {
	Version        int           `yaml:"version"`
	SourceRoots    []string      `yaml:"source_roots,omitempty"`
	TestRoots      []string      `yaml:"test_roots,omitempty"`
	Root           *folderRecord `yaml:"root"`
	Configurations []*confRecord `yaml:"configurations"`
}

type privateDocument struct {
	Version int    `yaml:"version"`
	Active  string `yaml:"active,omitempty"`
}

// folderRecord is a logical folder with its items. Disk folders are
// recorded by their directory only and are populated from disk.
type folderRecord struct {
	Name         string          `yaml:"name"`
	DisplayName  string          `yaml:"display_name,omitempty"`
	Kind         string          `yaml:"kind"`
	ProjectFiles bool            `yaml:"project_files,omitempty"`
	Root         string          `yaml:"root,omitempty"`
	Items        []string        `yaml:"items,omitempty"`
	Folders      []*folderRecord `yaml:"folders,omitempty"`
}

type confRecord struct {
	Name                    string                     `yaml:"name"`
	Type                    string                     `yaml:"type"`
	CompilerSet             *string                    `yaml:"compiler_set,omitempty"`
	DependencyChecking      *bool                      `yaml:"dependency_checking,omitempty"`
	RebuildPropChanged      *bool                      `yaml:"rebuild_prop_changed,omitempty"`
	IncludeInCodeAssistance *bool                      `yaml:"include_in_code_assistance,omitempty"`
	Compilers               map[string]*compilerRecord `yaml:"compilers,omitempty"`
	Linker                  *linkerRecord              `yaml:"linker,omitempty"`
	Folders                 []*folderConfRecord        `yaml:"folders,omitempty"`
	Items                   []*itemConfRecord          `yaml:"items,omitempty"`
}

type folderConfRecord struct {
	ID        string                     `yaml:"id"`
	Compilers map[string]*compilerRecord `yaml:"compilers,omitempty"`
	Linker    *linkerRecord              `yaml:"linker,omitempty"`
}

type itemConfRecord struct {
	Path      string                     `yaml:"path"`
	Excluded  *bool                      `yaml:"excluded,omitempty"`
	Tool      string                     `yaml:"tool,omitempty"`
	Flavor    *string                    `yaml:"flavor,omitempty"`
	Compilers map[string]*compilerRecord `yaml:"compilers,omitempty"`
	Custom    *customRecord              `yaml:"custom,omitempty"`
}

type listRecord struct {
	Values  *[]string `yaml:"values,omitempty"`
	Inherit *bool     `yaml:"inherit,omitempty"`
}

type compilerRecord struct {
	DevelopmentMode        *string                `yaml:"development_mode,omitempty"`
	Warnings               *string                `yaml:"warnings,omitempty"`
	Architecture           *string                `yaml:"architecture,omitempty"`
	Strip                  *bool                  `yaml:"strip,omitempty"`
	Standard               *string                `yaml:"standard,omitempty"`
	LibraryLevel           *string                `yaml:"library_level,omitempty"`
	ImportantFlags         *string                `yaml:"important_flags,omitempty"`
	CommandLine            *string                `yaml:"command_line,omitempty"`
	AdditionalDependencies *string                `yaml:"additional_dependencies,omitempty"`
	Tool                   *string                `yaml:"tool,omitempty"`
	Lists                  map[string]*listRecord `yaml:"lists,omitempty"`
}

type linkerRecord struct {
	Output                 *string   `yaml:"output,omitempty"`
	Strip                  *bool     `yaml:"strip,omitempty"`
	CommandLine            *string   `yaml:"command_line,omitempty"`
	LibrarySearchDirs      *[]string `yaml:"library_search_dirs,omitempty"`
	RuntimeSearchDirs      *[]string `yaml:"runtime_search_dirs,omitempty"`
	Libraries              *[]string `yaml:"libraries,omitempty"`
	AdditionalDependencies *string   `yaml:"additional_dependencies,omitempty"`
}

type customRecord struct {
	CommandLine            *string `yaml:"command_line,omitempty"`
	Description            *string `yaml:"description,omitempty"`
	Outputs                *string `yaml:"outputs,omitempty"`
	AdditionalDependencies *string `yaml:"additional_dependencies,omitempty"`
}

// own returns the own value of a modified setting, or nil.
func own[V any](s *setting.Setting[V]) *V {
	if s == nil || !s.Modified() {
		return nil
	}
	v := s.Value()
	return &v
}

func ownList(l *setting.List) *[]string {
	if l == nil {
		return nil
	}
	return own(l.Setting)
}

func ownEnum(e *setting.Enum) *string {
	if e == nil || !e.Modified() {
		return nil
	}
	n := e.Name()
	return &n
}

func set[V any](s *setting.Setting[V], v *V) {
	if s != nil && v != nil {
		s.Set(*v)
	}
}

func setList(l *setting.List, v *[]string) {
	if l != nil {
		set(l.Setting, v)
	}
}

func setEnum(e *setting.Enum, v *string) error {
	if e == nil || v == nil {
		return nil
	}
	return e.SetName(*v)
}

func encodeCompiler(c *toolconf.Compiler) *compilerRecord {
	if c == nil || !c.Modified() {
		return nil
	}
	r := &compilerRecord{
		DevelopmentMode:        ownEnum(c.DevelopmentMode),
		Warnings:               ownEnum(c.Warnings),
		Architecture:           ownEnum(c.Architecture),
		Strip:                  own(c.Strip),
		Standard:               ownEnum(c.Standard),
		LibraryLevel:           ownEnum(c.LibraryLevel),
		ImportantFlags:         own(c.ImportantFlags),
		CommandLine:            own(c.CommandLine),
		AdditionalDependencies: own(c.AdditionalDependencies),
		Tool:                   own(c.Tool),
	}
	for _, cat := range toolconf.ListCategories {
		l := c.List(cat)
		if l == nil {
			continue
		}
		lr := &listRecord{Values: ownList(l), Inherit: own(c.Inherit(cat))}
		if lr.Values == nil && lr.Inherit == nil {
			continue
		}
		if r.Lists == nil {
			r.Lists = map[string]*listRecord{}
		}
		r.Lists[cat.String()] = lr
	}
	return r
}

func encodeCompilers(get func(k toolconf.Kind) *toolconf.Compiler) map[string]*compilerRecord {
	var m map[string]*compilerRecord
	for _, k := range toolconf.CompilerKinds {
		r := encodeCompiler(get(k))
		if r == nil {
			continue
		}
		if m == nil {
			m = map[string]*compilerRecord{}
		}
		m[k.String()] = r
	}
	return m
}

func decodeCompiler(c *toolconf.Compiler, r *compilerRecord) error {
	if c == nil || r == nil {
		return nil
	}
	var errs error
	errs = multierr.Append(errs, setEnum(c.DevelopmentMode, r.DevelopmentMode))
	errs = multierr.Append(errs, setEnum(c.Warnings, r.Warnings))
	errs = multierr.Append(errs, setEnum(c.Architecture, r.Architecture))
	set(c.Strip, r.Strip)
	errs = multierr.Append(errs, setEnum(c.Standard, r.Standard))
	errs = multierr.Append(errs, setEnum(c.LibraryLevel, r.LibraryLevel))
	set(c.ImportantFlags, r.ImportantFlags)
	set(c.CommandLine, r.CommandLine)
	set(c.AdditionalDependencies, r.AdditionalDependencies)
	set(c.Tool, r.Tool)
	for _, cat := range toolconf.ListCategories {
		lr, ok := r.Lists[cat.String()]
		if !ok {
			continue
		}
		if c.List(cat) == nil {
			errs = multierr.Append(errs, fmt.Errorf("%s has no %s", c.Kind(), cat))
			continue
		}
		set(c.Inherit(cat), lr.Inherit)
		setList(c.List(cat), lr.Values)
	}
	return errs
}

func decodeCompilers(get func(k toolconf.Kind) *toolconf.Compiler, m map[string]*compilerRecord) error {
	var errs error
	for name, r := range m {
		k, err := toolconf.ParseKind(name)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		if err := decodeCompiler(get(k), r); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("compiler %s: %w", name, err))
		}
	}
	return errs
}

func encodeLinker(l *toolconf.Linker) *linkerRecord {
	if l == nil || !l.Modified() {
		return nil
	}
	return &linkerRecord{
		Output:                 own(l.Output),
		Strip:                  own(l.Strip),
		CommandLine:            own(l.CommandLine),
		LibrarySearchDirs:      ownList(l.LibrarySearchDirs),
		RuntimeSearchDirs:      ownList(l.RuntimeSearchDirs),
		Libraries:              ownList(l.Libraries),
		AdditionalDependencies: own(l.AdditionalDependencies),
	}
}

func decodeLinker(l *toolconf.Linker, r *linkerRecord) {
	if l == nil || r == nil {
		return
	}
	set(l.Output, r.Output)
	set(l.Strip, r.Strip)
	set(l.CommandLine, r.CommandLine)
	setList(l.LibrarySearchDirs, r.LibrarySearchDirs)
	setList(l.RuntimeSearchDirs, r.RuntimeSearchDirs)
	setList(l.Libraries, r.Libraries)
	set(l.AdditionalDependencies, r.AdditionalDependencies)
}

func encodeCustom(t *toolconf.CustomTool) *customRecord {
	if t == nil || !t.Modified() {
		return nil
	}
	return &customRecord{
		CommandLine:            own(t.CommandLine),
		Description:            own(t.Description),
		Outputs:                own(t.Outputs),
		AdditionalDependencies: own(t.AdditionalDependencies),
	}
}

func decodeCustom(t *toolconf.CustomTool, r *customRecord) {
	set(t.CommandLine, r.CommandLine)
	set(t.Description, r.Description)
	set(t.Outputs, r.Outputs)
	set(t.AdditionalDependencies, r.AdditionalDependencies)
}
