// Copyright 2026 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package initcmd is init subcommand to create a project.
package initcmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/maruel/subcommands"

	"go.chromium.org/luci/common/cli"
	"go.chromium.org/luci/common/system/signals"

	"go.chromium.org/infra/build/makeproj/options"
	"go.chromium.org/infra/build/makeproj/project"
	"go.chromium.org/infra/build/makeproj/subcmd/projflag"
)

func Cmd() *subcommands.Command {
	return &subcommands.Command{
		UsageLine: "init [-C dir] [-confs Debug,Release] [-type application] [-roots src] [-test_roots tests]",
		ShortDesc: "create a project",
		LongDesc: `Create a project with build configurations and disk folders.

Files found under the source and test roots are included in the build.
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

	proj      projflag.Flags
	confs     string
	typ       string
	roots     string
	testRoots string
	force     bool
}

func (c *run) init() {
	c.proj.Register(&c.Flags)
	c.Flags.StringVar(&c.confs, "confs", "Debug,Release", "comma separated configuration names. the first one is active")
	c.Flags.StringVar(&c.typ, "type", project.Application.String(), "configuration type: application, dynamic_library, static_library or makefile")
	c.Flags.StringVar(&c.roots, "roots", "", "comma separated source root directories")
	c.Flags.StringVar(&c.testRoots, "test_roots", "", "comma separated test root directories")
	c.Flags.BoolVar(&c.force, "force", false, "overwrite an existing project")
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
	err := c.run(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func splitList(s string) []string {
	var list []string
	for _, v := range strings.Split(s, ",") {
		if v = strings.TrimSpace(v); v != "" {
			list = append(list, v)
		}
	}
	return list
}

func (c *run) run(ctx context.Context) error {
	_, err := os.Stat(filepath.Join(c.proj.Dir, project.ConfigurationsFile))
	switch {
	case err == nil && !c.force:
		return fmt.Errorf("project exists in %s. use -force to overwrite", c.proj.Dir)
	case err != nil && !errors.Is(err, fs.ErrNotExist):
		return err
	}
	typ, err := project.ParseConfType(c.typ)
	if err != nil {
		return err
	}
	popt, o, err := c.proj.ProjectOption(ctx)
	if err != nil {
		return err
	}
	d, err := Create(ctx, c.proj.Dir, popt, o, Config{
		Confs:     splitList(c.confs),
		Type:      typ,
		Roots:     splitList(c.roots),
		TestRoots: splitList(c.testRoots),
	})
	if d == nil {
		return err
	}
	defer d.Close()
	if err != nil {
		log.Warnf("create %s: %v", d.BaseDir(), err)
	}
	return projflag.Save(ctx, d)
}

// Config is a configuration of a new project.
type Config struct {
	Confs     []string
	Type      project.ConfType
	Roots     []string
	TestRoots []string
}

// Create creates a project in dir. It returns a ready descriptor even
// if files of some roots could not be added.
func Create(ctx context.Context, dir string, popt project.Option, o options.Options, cfg Config) (*project.Descriptor, error) {
	if len(cfg.Confs) == 0 {
		return nil, errors.New("no configuration")
	}
	d, err := project.New(dir, popt)
	if err != nil {
		return nil, err
	}
	for _, name := range cfg.Confs {
		if err := d.AddConfiguration(o.NewConfiguration(name, cfg.Type)); err != nil {
			d.Close()
			return nil, err
		}
	}
	if err := d.SetActive(cfg.Confs[0]); err != nil {
		d.Close()
		return nil, err
	}
	for _, r := range cfg.TestRoots {
		d.AddTestRoot(r)
	}
	for _, r := range cfg.Roots {
		d.AddSourceRoot(ctx, r)
	}
	err = d.InitLogicalFolders(ctx, true)
	d.SetState(project.Ready)
	return d, err
}
