// Copyright 2026 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package importcmd is import subcommand to import compile command lines
// into project configurations.
package importcmd

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/maruel/subcommands"
	"go.uber.org/multierr"

	"go.chromium.org/luci/common/cli"
	"go.chromium.org/luci/common/system/signals"

	"go.chromium.org/infra/build/makeproj/nativefile"
	"go.chromium.org/infra/build/makeproj/project"
	"go.chromium.org/infra/build/makeproj/subcmd/projflag"
	"go.chromium.org/infra/build/makeproj/toolsupport/gccutil"
	"go.chromium.org/infra/build/makeproj/toolsupport/makeutil"
	"go.chromium.org/infra/build/makeproj/toolsupport/shutil"
)

func Cmd() *subcommands.Command {
	return &subcommands.Command{
		UsageLine: "import [-C dir] [-conf name] [-file path] [-add] [-depfile file.d] -- <compile command line>",
		ShortDesc: "import a compile command line into a configuration",
		LongDesc: `Import include directories, macros, standard and options of a gcc or
clang compile command line into a configuration, and save the project.

Settings are imported into item configurations of the source files of
the command line, or of -file. Without files, they are imported into the
configuration itself.

With -depfile, headers in the project directory listed in the make
depfile are added to the project.

 $ makeproj import -C dir -conf Debug -- gcc -Iinclude -DDEBUG -c src/a.c
 $ makeproj import -C dir "gcc -std=c11 -Wall"
`,
		CommandRun: func() subcommands.CommandRun {
			c := &run{}
			c.init()
			return c
		},
	}
}

type run struct {
	subcommands.CommandRunBase

	proj    projflag.Flags
	conf    string
	file    string
	add     bool
	depfile string
}

func (c *run) init() {
	c.proj.Register(&c.Flags)
	c.Flags.StringVar(&c.conf, "conf", "", "configuration name. default: active configuration")
	c.Flags.StringVar(&c.file, "file", "", "project item path to import into, instead of files of the command line")
	c.Flags.BoolVar(&c.add, "add", false, "add missing files to the project")
	c.Flags.StringVar(&c.depfile, "depfile", "", "make depfile (relative to -C) to add header dependencies from")
}

func (c *run) Run(a subcommands.Application, args []string, env subcommands.Env) int {
	ctx := cli.GetContext(a, c, env)
	ctx, cancel := context.WithCancel(ctx)
	defer signals.HandleInterrupt(func() {
		cancel()
	})()
	if len(args) == 0 {
		fmt.Fprintf(a.GetErr(), "%s: no command line\n", a.GetName())
		return 1
	}
	if len(args) == 1 {
		var err error
		args, err = shutil.Split(args[0])
		if err != nil {
			fmt.Fprintf(a.GetErr(), "%s: %v\n", a.GetName(), err)
			return 1
		}
	}
	err := c.run(ctx, args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func (c *run) run(ctx context.Context, args []string) error {
	d, err := c.proj.Open(ctx)
	if err != nil {
		return err
	}
	defer d.Close()
	conf := d.Active()
	if c.conf != "" {
		conf = d.Configuration(c.conf)
	}
	if conf == nil {
		return fmt.Errorf("no configuration %q in %s", c.conf, d.BaseDir())
	}
	if err := Import(d, conf, args, c.file, c.add); err != nil {
		return err
	}
	if c.depfile != "" {
		fname := c.depfile
		if !filepath.IsAbs(fname) {
			fname = filepath.Join(d.BaseDir(), fname)
		}
		deps, err := makeutil.ParseDepsFile(os.DirFS(filepath.Dir(fname)), filepath.Base(fname))
		if err != nil {
			return err
		}
		added := ImportDeps(d, deps)
		log.Infof("added %d headers from %s", len(added), c.depfile)
	}
	return projflag.Save(ctx, d)
}

// Import imports the compile command line args into conf of d.
// If file is not empty, it is the only item imported into.
// Missing items are added to the logical folders if add is true.
func Import(d *project.Descriptor, conf *project.Configuration, args []string, file string, add bool) error {
	flags := gccutil.ParseFlags(args)
	if file != "" {
		flags.Files = []string{file}
	}
	k := gccutil.KindOf(flags)
	if len(flags.Files) == 0 {
		gccutil.Apply(conf.Compiler(k), flags)
		log.Infof("imported %s options into %s", k, conf.Name())
		d.SetModified(true)
		if conf == d.Active() {
			d.CheckForChangedItems(nil, nil)
		}
		return nil
	}
	var errs error
	for _, p := range flags.Files {
		it := d.FindProjectItemByPath(p)
		if it == nil && add {
			it = addItem(d, p)
		}
		if it == nil {
			errs = multierr.Append(errs, fmt.Errorf("no item %s in %s", p, d.BaseDir()))
			continue
		}
		ic := it.ItemConfiguration(conf)
		if ic == nil {
			errs = multierr.Append(errs, fmt.Errorf("no configuration %s of %s", conf.Name(), p))
			continue
		}
		if tk, ok := ic.Tool().Kind(); !ok || tk != k {
			ic.SetTool(project.ToolOf(k))
		}
		ic.Excluded.Set(false)
		gccutil.Apply(ic.CompilerOf(k), flags)
		log.Infof("imported %s options into %s of %s", k, p, conf.Name())
		d.SetModified(true)
		if conf == d.Active() {
			d.CheckForChangedItems(nil, it)
		}
	}
	return errs
}

// ImportDeps adds headers in deps that are in the project directory
// and not in the project yet. Relative paths are relative to the project
// directory. It returns added items.
func ImportDeps(d *project.Descriptor, deps []string) []*project.Item {
	var added []*project.Item
	base := d.BaseDir()
	for _, dep := range deps {
		if !nativefile.IsHeader(dep) {
			continue
		}
		p := filepath.ToSlash(dep)
		if !path.IsAbs(p) {
			p = path.Join(base, p)
		}
		p = path.Clean(p)
		if !strings.HasPrefix(p, base+"/") {
			continue
		}
		if d.FindProjectItemByPath(p) != nil {
			continue
		}
		added = append(added, addItem(d, strings.TrimPrefix(p, base+"/")))
	}
	return added
}

func addItem(d *project.Descriptor, p string) *project.Item {
	name := project.SourceFiles
	if nativefile.IsHeader(p) {
		name = project.HeaderFiles
	}
	f := d.LogicalFolder(name)
	if f == nil {
		f = d.Root()
	}
	return f.AddItemAction(project.NewItem(p))
}
