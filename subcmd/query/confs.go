// Copyright 2026 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package query

import (
	"fmt"
	"io"

	"github.com/maruel/subcommands"

	"go.chromium.org/infra/build/makeproj/project"
)

func cmdConfs() *subcommands.Command {
	return &subcommands.Command{
		UsageLine: "confs [-C <dir>]",
		ShortDesc: "list configurations",
		LongDesc: `list configurations of a project.

the active configuration is marked with "*".
`,
		CommandRun: func() subcommands.CommandRun {
			c := &confsRun{}
			c.init()
			return c
		},
	}
}

type confsRun struct {
	queryRun
}

func (c *confsRun) Run(a subcommands.Application, args []string, env subcommands.Env) int {
	return c.main(c, a, env, args, func(w io.Writer, d *project.Descriptor) error {
		Confs(w, d)
		return nil
	})
}

// Confs prints configurations of d with their type and compiler set.
func Confs(w io.Writer, d *project.Descriptor) {
	active := d.Active()
	for _, conf := range d.Configurations() {
		mark := " "
		if conf == active {
			mark = "*"
		}
		fmt.Fprintf(w, "%s %s\t%s\t%s\n", mark, conf.Name(), conf.Type(), conf.CompilerSet.Value())
	}
}

func cmdRoots() *subcommands.Command {
	return &subcommands.Command{
		UsageLine: "roots [-C <dir>]",
		ShortDesc: "list source and test roots",
		LongDesc:  "list source and test roots of a project.",
		CommandRun: func() subcommands.CommandRun {
			c := &rootsRun{}
			c.init()
			return c
		},
	}
}

type rootsRun struct {
	queryRun
}

func (c *rootsRun) Run(a subcommands.Application, args []string, env subcommands.Env) int {
	return c.main(c, a, env, args, func(w io.Writer, d *project.Descriptor) error {
		Roots(w, d)
		return nil
	})
}

// Roots prints source roots and test roots of d.
func Roots(w io.Writer, d *project.Descriptor) {
	for _, r := range d.SourceRoots() {
		fmt.Fprintf(w, "source\t%s\n", r)
	}
	for _, r := range d.TestRoots() {
		fmt.Fprintf(w, "test\t%s\n", r)
	}
}
