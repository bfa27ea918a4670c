// Copyright 2026 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package watch is watch subcommand to follow file changes in disk
// folders of a project.
package watch

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/maruel/subcommands"

	"go.chromium.org/luci/common/cli"
	"go.chromium.org/luci/common/system/signals"

	"go.chromium.org/infra/build/makeproj/nativefile"
	"go.chromium.org/infra/build/makeproj/subcmd/projflag"
	"go.chromium.org/infra/build/makeproj/ui"
)

func Cmd() *subcommands.Command {
	return &subcommands.Command{
		UsageLine: "watch [-C dir] [-save]",
		ShortDesc: "follow file changes in disk folders",
		LongDesc: `Watch disk folders of a project and print file changes until interrupted.

 A added   D removed   M renamed   C properties changed
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
	c.Flags.BoolVar(&c.save, "save", false, "save the project on exit if changed")
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

	p := &printer{w: w, base: d.BaseDir()}
	d.AddListener(p)
	defer d.RemoveListener(p)
	d.Root().AttachListeners(ctx)
	log.Infof("watching %q. Ctrl-C to stop", d.SourceRoots())
	<-ctx.Done()
	log.Infof("%d events", p.count())
	if c.save {
		// ctx is canceled on interrupt.
		return projflag.Save(context.WithoutCancel(ctx), d)
	}
	return nil
}

// printer prints listener events.
type printer struct {
	mu   sync.Mutex
	w    io.Writer
	base string
	n    int
}

var _ nativefile.Listener = (*printer)(nil)

func (p *printer) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.n
}

func (p *printer) rel(item nativefile.Item) string {
	return strings.TrimPrefix(item.AbsolutePath(), p.base+"/")
}

func (p *printer) print(mark string, color ui.SGRCode, items []nativefile.Item) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, item := range items {
		p.n++
		state := ""
		if item.IsExcluded() {
			state = " (excluded)"
		}
		fmt.Fprintf(p.w, "%s %s%s\n", ui.SGR(color, mark), p.rel(item), state)
	}
}

func (p *printer) FilesAdded(items []nativefile.Item)   { p.print("A", ui.Green, items) }
func (p *printer) FilesRemoved(items []nativefile.Item) { p.print("D", ui.Red, items) }

func (p *printer) FileRenamed(oldPath string, item nativefile.Item) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.n++
	fmt.Fprintf(p.w, "%s %s -> %s\n", ui.SGR(ui.Yellow, "M"), strings.TrimPrefix(oldPath, p.base+"/"), p.rel(item))
}

func (p *printer) FilesPropertiesChanged(items []nativefile.Item) { p.print("C", ui.Bold, items) }
