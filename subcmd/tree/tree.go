// Copyright 2026 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package tree is tree subcommand to print the logical tree of a project.
package tree

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/disiqueira/gotree/v3"
	"github.com/maruel/subcommands"

	"go.chromium.org/luci/common/cli"
	"go.chromium.org/luci/common/system/signals"

	"go.chromium.org/infra/build/makeproj/project"
	"go.chromium.org/infra/build/makeproj/subcmd/projflag"
)

func Cmd() *subcommands.Command {
	return &subcommands.Command{
		UsageLine: "tree [-C dir] [-conf name] [-excluded]",
		ShortDesc: "print the logical tree of a project",
		LongDesc: `Print the logical folders and items of a project.

Items excluded from the build of the configuration are marked with "(excluded)".
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

	proj     projflag.Flags
	conf     string
	excluded bool
}

func (c *run) init() {
	c.proj.Register(&c.Flags)
	c.Flags.StringVar(&c.conf, "conf", "", "configuration name. default: active configuration")
	c.Flags.BoolVar(&c.excluded, "excluded", true, "show excluded items")
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
	conf := d.Active()
	if c.conf != "" {
		conf = d.Configuration(c.conf)
		if conf == nil {
			return fmt.Errorf("no configuration %s in %s", c.conf, d.BaseDir())
		}
	}
	fmt.Fprint(w, Build(d, conf, c.excluded).Print())
	return nil
}

// Build builds the visual tree of d's folders and items with conf.
func Build(d *project.Descriptor, conf *project.Configuration, excluded bool) gotree.Tree {
	t := gotree.New(d.BaseDir())
	addFolder(t, d.Root(), conf, excluded)
	return t
}

func addFolder(t gotree.Tree, f *project.Folder, conf *project.Configuration, excluded bool) {
	for _, e := range f.Elements() {
		switch e := e.(type) {
		case *project.Folder:
			label := e.DisplayName()
			if e.IsDiskFolder() && e.Root() != "" {
				label = fmt.Sprintf("%s [%s]", label, e.Root())
			}
			addFolder(t.Add(label), e, conf, excluded)
		case *project.Item:
			ic := e.ItemConfiguration(conf)
			isExcluded := ic == nil || ic.Excluded.Value()
			switch {
			case !isExcluded:
				t.Add(e.Name())
			case excluded:
				t.Add(e.Name() + " (excluded)")
			}
		}
	}
}
