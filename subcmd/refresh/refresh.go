// Copyright 2026 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package refresh is refresh subcommand to reconcile disk folders of a
// project with the file system.
package refresh

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/maruel/subcommands"

	"go.chromium.org/luci/common/cli"
	"go.chromium.org/luci/common/system/signals"

	"go.chromium.org/infra/build/makeproj/delta"
	"go.chromium.org/infra/build/makeproj/nativefile"
	"go.chromium.org/infra/build/makeproj/subcmd/projflag"
	"go.chromium.org/infra/build/makeproj/ui"
)

func Cmd() *subcommands.Command {
	return &subcommands.Command{
		UsageLine: "refresh [-C dir] [-save]",
		ShortDesc: "reconcile disk folders with the file system",
		LongDesc: `Reconcile disk folders of a project with the file system, and print
the change of the project's file set.

 A added   D deleted   X excluded   I included   C changed   R replaced

Files found by refresh are added excluded from the build.
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
	save bool
}

func (c *run) init() {
	c.proj.Register(&c.Flags)
	c.Flags.BoolVar(&c.save, "save", false, "save the project if changed")
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

	spin := ui.Default.NewSpinner()
	spin.Start("refreshing %s", d.BaseDir())
	dl, err := d.Refresh(ctx, log.Default())
	if err != nil {
		spin.Stop(err)
		return err
	}
	spin.Done("%s", dl)
	PrintDelta(w, d.BaseDir(), dl)
	if c.save {
		return projflag.Save(ctx, d)
	}
	if d.IsModified() {
		log.Infof("project %s is modified. use -save to save", d.BaseDir())
	}
	return nil
}

// PrintDelta prints dl a file per line, with paths relative to base.
func PrintDelta(w io.Writer, base string, dl *delta.Delta) {
	for _, l := range []struct {
		mark  string
		color ui.SGRCode
		items []nativefile.Item
	}{
		{"A", ui.Green, dl.Added},
		{"D", ui.Red, dl.Deleted},
		{"X", ui.Yellow, dl.Excluded},
		{"I", ui.Green, dl.Included},
		{"C", ui.Bold, dl.Changed},
		{"R", ui.Bold, dl.Replaced},
	} {
		for _, it := range l.items {
			p := strings.TrimPrefix(it.AbsolutePath(), base+"/")
			fmt.Fprintf(w, "%s %s\n", ui.SGR(l.color, l.mark), p)
		}
	}
}
