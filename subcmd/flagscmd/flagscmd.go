// Copyright 2026 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package flagscmd is flags subcommand to print resolved compile options.
package flagscmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/maruel/subcommands"

	"go.chromium.org/luci/common/cli"
	"go.chromium.org/luci/common/system/signals"

	"go.chromium.org/infra/build/makeproj/project"
	"go.chromium.org/infra/build/makeproj/subcmd/projflag"
	"go.chromium.org/infra/build/makeproj/toolconf"
)

func Cmd() *subcommands.Command {
	return &subcommands.Command{
		UsageLine: "flags [-C dir] [-conf name] [-file path]",
		ShortDesc: "print resolved compile options",
		LongDesc: `Print resolved compile options of a configuration.

project level flags of each compiler
 $ makeproj flags -C dir -conf Release

options of one file, with its include paths and macros
 $ makeproj flags -C dir -file src/main.c
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

	proj projflag.Flags
	conf string
	file string
}

func (c *run) init() {
	c.proj.Register(&c.Flags)
	c.Flags.StringVar(&c.conf, "conf", "", "configuration name. default: active configuration")
	c.Flags.StringVar(&c.file, "file", "", "project item path")
}

func (c *run) Run(a subcommands.Application, args []string, env subcommands.Env) int {
	ctx := cli.GetContext(a, c, env)
	ctx, cancel := context.WithCancel(ctx)
	defer signals.HandleInterrupt(func() {
		cancel()
	})()
	if len(args) != 0 {
		fmt.Fprintf(a.GetErr(), "%s: position arguments not expected\n", a.GetName())
		return 1
	}
	err := c.run(ctx, a.GetOut())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func (c *run) run(ctx context.Context, w io.Writer) error {
	d, err := c.proj.Open(ctx)
	if err != nil {
		return err
	}
	defer d.Close()
	if c.conf != "" {
		if err := d.SetActive(c.conf); err != nil {
			return err
		}
	}
	conf := d.Active()
	if conf == nil {
		return fmt.Errorf("no configuration in %s", d.BaseDir())
	}
	if c.file != "" {
		return printItem(w, d, conf, c.file)
	}
	return printConfiguration(w, d, conf)
}

func printConfiguration(w io.Writer, d *project.Descriptor, conf *project.Configuration) error {
	set := conf.CompilerSet.Value()
	fmt.Fprintf(w, "configuration %s (%s) compiler set %s\n", conf.Name(), conf.Type(), set)
	for _, k := range toolconf.CompilerKinds {
		tool := d.Toolchains().Tool(set, k)
		c := conf.Compiler(k)
		fmt.Fprintf(w, "%s=%s\n", k.FlagsVariable(), c.Flags(tool))
		if opts := c.AllOptions2(tool); opts != "" {
			fmt.Fprintf(w, "  %s\n", opts)
		}
	}
	tool := d.Toolchains().Tool(set, toolconf.LinkerTool)
	fmt.Fprintf(w, "%s=%s\n", toolconf.LinkerTool.FlagsVariable(), conf.Linker.Options(tool))
	fmt.Fprintf(w, "output=%s\n", conf.Linker.OutputFile("dist/"+conf.Name()+"/"+conf.Name()))
	return nil
}

func printItem(w io.Writer, d *project.Descriptor, conf *project.Configuration, p string) error {
	it := d.FindProjectItemByPath(p)
	if it == nil {
		return fmt.Errorf("no item %s in %s", p, d.BaseDir())
	}
	ic := it.ItemConfiguration(conf)
	if ic == nil {
		return fmt.Errorf("no configuration %s of %s", conf.Name(), p)
	}
	fmt.Fprintf(w, "%s tool=%s excluded=%t language=%s flavor=%s\n", it.Path(), ic.Tool(), it.IsExcluded(), it.Language(), it.LanguageFlavor())
	if ic.Tool() == project.ToolCustom {
		ct := ic.CustomTool()
		fmt.Fprintf(w, "command=%s\noutputs=%s\n", ct.CommandLine.Value(), ct.Outputs.Value())
		return nil
	}
	c := ic.Compiler()
	if c == nil {
		return nil
	}
	tool := d.Toolchains().Tool(conf.CompilerSet.Value(), c.Kind())
	fmt.Fprintf(w, "object=%s\n", toolconf.ObjectFile(it.Path()))
	fmt.Fprintf(w, "options=%s\n", c.AllOptions(tool))
	fmt.Fprintf(w, "makefile=%s\n", c.MakefileOptions(tool))
	for _, l := range []struct {
		name   string
		values []string
	}{
		{"include", it.UserIncludePaths()},
		{"include_file", it.IncludeFiles()},
		{"macro", it.UserMacroDefinitions()},
		{"undefine", it.UndefinedMacros()},
		{"system_include", it.SystemIncludePaths()},
		{"system_macro", it.SystemMacroDefinitions()},
	} {
		if len(l.values) == 0 {
			continue
		}
		fmt.Fprintf(w, "%s:\n  %s\n", l.name, strings.Join(l.values, "\n  "))
	}
	return nil
}
