// Copyright 2026 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package query

import (
	"fmt"
	"io"
	"sort"

	"github.com/maruel/subcommands"

	"go.chromium.org/infra/build/makeproj/nativefile"
	"go.chromium.org/infra/build/makeproj/project"
)

const itemsUsage = `list project items

 $ makeproj query items -C <dir> [-conf <name>] [-lang c]

prints project items in path order with their tool and language.
excluded items are printed with -excluded.
`

func cmdItems() *subcommands.Command {
	return &subcommands.Command{
		UsageLine: "items [-C <dir>] [-conf <name>] [-lang <language>] [-excluded]",
		ShortDesc: "list project items",
		LongDesc:  itemsUsage,
		CommandRun: func() subcommands.CommandRun {
			c := &itemsRun{}
			c.init()
			return c
		},
	}
}

type itemsRun struct {
	queryRun
	conf     string
	lang     string
	excluded bool
}

func (c *itemsRun) init() {
	c.queryRun.init()
	c.Flags.StringVar(&c.conf, "conf", "", "configuration name. default: active configuration")
	c.Flags.StringVar(&c.lang, "lang", "", "only items of the language: c, cpp, fortran, header or other")
	c.Flags.BoolVar(&c.excluded, "excluded", false, "also print items excluded from the build")
}

func (c *itemsRun) Run(a subcommands.Application, args []string, env subcommands.Env) int {
	return c.main(c, a, env, args, func(w io.Writer, d *project.Descriptor) error {
		conf := d.Active()
		if c.conf != "" {
			conf = d.Configuration(c.conf)
		}
		if conf == nil {
			return fmt.Errorf("no configuration %q in %s", c.conf, d.BaseDir())
		}
		return Items(w, d, conf, ItemFilter{Language: c.lang, Excluded: c.excluded})
	})
}

// ItemFilter selects items to print.
type ItemFilter struct {
	// Language is a name of nativefile.Language. Empty matches any.
	Language string
	// Excluded also selects items excluded from the build.
	Excluded bool
}

// Items prints items of d selected by filter, with tools of conf.
func Items(w io.Writer, d *project.Descriptor, conf *project.Configuration, filter ItemFilter) error {
	items := d.Items()
	sort.Slice(items, func(i, j int) bool {
		return items[i].Path() < items[j].Path()
	})
	for _, it := range items {
		ic := it.ItemConfiguration(conf)
		if ic == nil {
			continue
		}
		lang := nativefile.LanguageOf(it.Path())
		if filter.Language != "" && lang.String() != filter.Language {
			continue
		}
		state := ""
		if ic.Excluded.Value() {
			if !filter.Excluded {
				continue
			}
			state = "\texcluded"
		}
		fmt.Fprintf(w, "%s\t%s\t%s%s\n", it.Path(), ic.Tool(), lang, state)
	}
	return nil
}
