// Copyright 2026 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package toolchain

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"go.chromium.org/infra/build/makeproj/toolconf"
)

// StarError is an error in a Starlark toolchain file.
type StarError struct {
	fname string
	err   *starlark.EvalError
}

func (e StarError) Error() string {
	return fmt.Sprintf("failed to load toolchains from %s: %v", e.fname, e.err)
}

// Backtrace returns the Starlark call stack.
func (e StarError) Backtrace() string {
	return e.err.Backtrace()
}

func (e StarError) Unwrap() error {
	return e.err
}

// LoadStar executes a Starlark file that defines toolchains by calling
//
//	toolchain(name, base="GNU", flavor="", path_style="",
//	          c={...}, cpp={...}, fortran={...}, asm={...}, linker={...})
//
// and registers them in r. A tool dict may have "path", "flags"
// (category name to a list of flags indexed by value, or a string for
// prefix categories), "system_include_dirs", "system_headers" and
// "predefined_macros". If src is nil, fname is read.
// It returns names of the loaded toolchains.
func LoadStar(ctx context.Context, fname string, src any, r *Registry) ([]string, error) {
	var loaded []*Descriptor
	builtin := starlark.NewBuiltin("toolchain", func(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		d, err := unpackToolchain(fn, args, kwargs, r)
		if err != nil {
			return nil, err
		}
		loaded = append(loaded, d)
		return starlark.None, nil
	})
	thread := &starlark.Thread{
		Name: "toolchain",
		Print: func(thread *starlark.Thread, msg string) {
			log.Infof("thread:%s %s", thread.Name, msg)
		},
		Load: func(*starlark.Thread, string) (starlark.StringDict, error) {
			return nil, errors.New("load is not allowed in toolchain file")
		},
	}
	stop := context.AfterFunc(ctx, func() {
		thread.Cancel(context.Cause(ctx).Error())
	})
	defer stop()
	_, err := starlark.ExecFileOptions(&syntax.FileOptions{}, thread, fname, src, starlark.StringDict{
		"toolchain": builtin,
	})
	if err != nil {
		var eerr *starlark.EvalError
		if errors.As(err, &eerr) {
			log.Warnf("stacktrace:\n%s", eerr.Backtrace())
			return nil, StarError{fname: fname, err: eerr}
		}
		return nil, fmt.Errorf("failed to load toolchains from %s: %w", fname, err)
	}
	var names []string
	for _, d := range loaded {
		if err := r.Register(d); err != nil {
			return names, err
		}
		names = append(names, d.Name)
	}
	return names, nil
}

var toolKeys = []struct {
	key  string
	kind toolconf.Kind
}{
	{"c", toolconf.CCompiler},
	{"cpp", toolconf.CCCompiler},
	{"fortran", toolconf.FortranCompiler},
	{"asm", toolconf.Assembler},
	{"linker", toolconf.LinkerTool},
}

func unpackToolchain(fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple, r *Registry) (*Descriptor, error) {
	var name, base, flavor, pathStyle string
	tools := make([]starlark.Value, len(toolKeys))
	pairs := []any{"name", &name, "base?", &base, "flavor?", &flavor, "path_style?", &pathStyle}
	for i, tk := range toolKeys {
		pairs = append(pairs, tk.key+"?", &tools[i])
	}
	if err := starlark.UnpackArgs(fn.Name(), args, kwargs, pairs...); err != nil {
		return nil, err
	}
	if base == "" {
		base = DefaultName
	}
	b, ok := r.Lookup(base)
	if !ok {
		return nil, fmt.Errorf("%s: unknown base toolchain %q", name, base)
	}
	d := b.Derive(name)
	if flavor != "" {
		d.Flavor = flavor
	}
	if pathStyle != "" {
		s, err := ParsePathStyle(pathStyle)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		d.PathStyle = s
	}
	for i, tk := range toolKeys {
		t := d.Tool(tk.kind)
		if t == nil {
			t = &Tool{Flags: map[toolconf.Category][]string{}}
		}
		if tools[i] != nil && tools[i] != starlark.None {
			dict, ok := tools[i].(*starlark.Dict)
			if !ok {
				return nil, fmt.Errorf("%s: %s=%s; want dict", name, tk.key, tools[i].Type())
			}
			if err := unpackTool(t, dict); err != nil {
				return nil, fmt.Errorf("%s: %s: %w", name, tk.key, err)
			}
		}
		// re-set to apply the path style.
		d.SetTool(tk.kind, t)
	}
	return d, nil
}

func unpackTool(t *Tool, dict *starlark.Dict) error {
	for _, item := range dict.Items() {
		key, ok := starlark.AsString(item[0])
		if !ok {
			return fmt.Errorf("key %s; want string", item[0].Type())
		}
		v := item[1]
		var err error
		switch key {
		case "path":
			s, ok := starlark.AsString(v)
			if !ok {
				return fmt.Errorf("path %s; want string", v.Type())
			}
			t.Path = s
		case "system_include_dirs":
			t.SystemIncludeDirs, err = unpackList(v)
		case "system_headers":
			t.SystemHeaders, err = unpackList(v)
		case "predefined_macros":
			t.PredefinedMacros, err = unpackList(v)
		case "flags":
			err = unpackFlags(t, v)
		default:
			return fmt.Errorf("unknown key %q", key)
		}
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
	}
	return nil
}

func unpackFlags(t *Tool, v starlark.Value) error {
	dict, ok := v.(*starlark.Dict)
	if !ok {
		return fmt.Errorf("%s; want dict", v.Type())
	}
	if t.Flags == nil {
		t.Flags = map[toolconf.Category][]string{}
	}
	for _, item := range dict.Items() {
		key, ok := starlark.AsString(item[0])
		if !ok {
			return fmt.Errorf("key %s; want string", item[0].Type())
		}
		c, err := toolconf.ParseCategory(key)
		if err != nil {
			return err
		}
		if s, ok := starlark.AsString(item[1]); ok {
			t.Flags[c] = []string{s}
			continue
		}
		flags, err := unpackList(item[1])
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		t.Flags[c] = flags
	}
	return nil
}

func unpackList(v starlark.Value) ([]string, error) {
	iterator := starlark.Iterate(v)
	if iterator == nil {
		return nil, fmt.Errorf("got %v; want iterable", v.Type())
	}
	defer iterator.Done()
	var elem starlark.Value
	var list []string
	for iterator.Next(&elem) {
		s, ok := starlark.AsString(elem)
		if !ok {
			return nil, fmt.Errorf("got %v in %v; want string", elem.Type(), v.Type())
		}
		list = append(list, s)
	}
	return list, nil
}
