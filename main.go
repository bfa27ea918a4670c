// Copyright 2026 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// makeproj manages native build projects with configuration inheritance.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/maruel/subcommands"

	"go.chromium.org/luci/common/cli"

	"go.chromium.org/infra/build/makeproj/invariant"
	"go.chromium.org/infra/build/makeproj/subcmd/flagscmd"
	"go.chromium.org/infra/build/makeproj/subcmd/help"
	"go.chromium.org/infra/build/makeproj/subcmd/importcmd"
	"go.chromium.org/infra/build/makeproj/subcmd/initcmd"
	"go.chromium.org/infra/build/makeproj/subcmd/query"
	"go.chromium.org/infra/build/makeproj/subcmd/refresh"
	"go.chromium.org/infra/build/makeproj/subcmd/tree"
	"go.chromium.org/infra/build/makeproj/subcmd/version"
	"go.chromium.org/infra/build/makeproj/subcmd/watch"
	"go.chromium.org/infra/build/makeproj/ui"
)

const versionID = "v0.1.0"

var (
	verbose bool
	strict  bool
)

func init() {
	flag.BoolVar(&verbose, "v", false, "verbose logging")
	flag.BoolVar(&strict, "strict", false, "panic on invariant violations")
}

func getApplication() *cli.Application {
	return &cli.Application{
		Name:  "makeproj",
		Title: "native build project manager",
		Context: func(ctx context.Context) context.Context {
			return ctx
		},
		Commands: []*subcommands.Command{
			initcmd.Cmd(),
			flagscmd.Cmd(),
			tree.Cmd(),
			refresh.Cmd(),
			watch.Cmd(),
			importcmd.Cmd(),
			query.Cmd(),
			help.Cmd(),
			version.Cmd(versionID),
		},
	}
}

func main() {
	flag.Parse()
	os.Exit(makeprojMain(flag.Args()))
}

func makeprojMain(args []string) (exitCode int) {
	if verbose {
		log.SetLevel(log.DebugLevel)
	}
	if strict {
		invariant.SetStrict(true)
	}
	ui.Init()
	defer ui.Restore()

	// Print a stack trace when a panic occurs.
	defer func() {
		if r := recover(); r != nil {
			const size = 64 << 10
			buf := make([]byte, size)
			buf = buf[:runtime.Stack(buf, false)]
			log.Errorf("panic: %v\n%s", r, buf)
			exitCode = 2
		}
	}()

	if buildInfo, ok := debug.ReadBuildInfo(); ok {
		log.Debug("buildinfo", "main", version.ModuleInfo(&buildInfo.Main), "vcs", vcsInfo(buildInfo))
	}
	if len(args) == 0 {
		args = []string{"help"}
	}
	return subcommands.Run(getApplication(), args)
}

func vcsInfo(buildInfo *debug.BuildInfo) string {
	m := make(map[string]string)
	for _, bs := range buildInfo.Settings {
		if strings.HasPrefix(bs.Key, "vcs.") {
			m[bs.Key] = bs.Value
		}
	}
	return fmt.Sprintf("revision=%s time=%s modified=%s", m["vcs.revision"], m["vcs.time"], m["vcs.modified"])
}
