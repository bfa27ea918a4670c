// Copyright 2026 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package query is query subcommand to list project items, configurations
// and roots.
package query

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/maruel/subcommands"

	"go.chromium.org/luci/common/cli"

	"go.chromium.org/infra/build/makeproj/project"
	"go.chromium.org/infra/build/makeproj/subcmd/projflag"
)

func Cmd() *subcommands.Command {
	return &subcommands.Command{
		UsageLine: "query <items|confs|roots> [-C <dir>] ...",
		ShortDesc: "query project model",
		LongDesc:  "query items, configurations and roots of a project.",
		CommandRun: func() subcommands.CommandRun {
			c := &run{
				app: &subcommands.DefaultApplication{
					Name:  "makeproj query",
					Title: "tool to query project model",
					Commands: []*subcommands.Command{
						cmdItems(),
						cmdConfs(),
						cmdRoots(),
						subcommands.CmdHelp,
					},
				},
			}
			c.Flags.Usage = func() {
				subcommands.Usage(os.Stderr, c.app, true)
			}
			return c
		},
	}
}

type run struct {
	subcommands.CommandRunBase
	app *subcommands.DefaultApplication
}

func (c *run) Run(a subcommands.Application, args []string, env subcommands.Env) int {
	return subcommands.Run(c.app, args)
}

// queryRun is a base of query subcommands that print something of an
// opened project.
type queryRun struct {
	subcommands.CommandRunBase
	proj projflag.Flags
}

func (c *queryRun) init() {
	c.proj.Register(&c.Flags)
}

// main runs fn with the opened project. r is the command run that
// embeds c.
func (c *queryRun) main(r subcommands.CommandRun, a subcommands.Application, env subcommands.Env, args []string, fn func(w io.Writer, d *project.Descriptor) error) int {
	ctx := cli.GetContext(a, r, env)
	if len(args) != 0 {
		fmt.Fprintf(a.GetErr(), "%s: position arguments not expected\n", a.GetName())
		return 1
	}
	err := c.run(ctx, a.GetOut(), fn)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func (c *queryRun) run(ctx context.Context, w io.Writer, fn func(io.Writer, *project.Descriptor) error) error {
	d, err := c.proj.Open(ctx)
	if err != nil {
		return err
	}
	defer d.Close()
	return fn(w, d)
}
