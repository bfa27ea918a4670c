// Copyright 2026 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package version provides version subcommand.
package version

import (
	"fmt"
	"io"
	"runtime/debug"
	"strings"

	"github.com/maruel/subcommands"
)

func Cmd(ver string) *subcommands.Command {
	return &subcommands.Command{
		UsageLine: "version",
		ShortDesc: "prints the executable version",
		LongDesc:  "Prints the executable version and the go toolchain and vcs revision it was built with.",
		CommandRun: func() subcommands.CommandRun {
			r := &versionRun{version: ver}
			r.Flags.BoolVar(&r.deps, "deps", false, "also print dependency modules")
			return r
		},
	}
}

type versionRun struct {
	subcommands.CommandRunBase
	version string
	deps    bool
}

func (c *versionRun) Run(a subcommands.Application, args []string, env subcommands.Env) int {
	if len(args) != 0 {
		fmt.Fprintf(a.GetErr(), "%s: position arguments not expected\n", a.GetName())
		return 1
	}
	fmt.Fprintln(a.GetOut(), c.version)
	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return 0
	}
	Print(a.GetOut(), buildInfo, c.deps)
	return 0
}

// Print prints go version and vcs settings of buildInfo.
func Print(w io.Writer, buildInfo *debug.BuildInfo, deps bool) {
	if buildInfo.GoVersion != "" {
		fmt.Fprintf(w, "go\t%s\n", buildInfo.GoVersion)
	}
	for _, s := range buildInfo.Settings {
		if strings.HasPrefix(s.Key, "vcs.") {
			fmt.Fprintf(w, "build\t%s=%s\n", s.Key, s.Value)
		}
	}
	if !deps {
		return
	}
	for _, m := range buildInfo.Deps {
		fmt.Fprintf(w, "dep\t%s\n", ModuleInfo(m))
	}
}

// ModuleInfo formats m in a line.
func ModuleInfo(m *debug.Module) string {
	if m == nil {
		return "<nil>"
	}
	s := fmt.Sprintf("%s@%s", m.Path, m.Version)
	if m.Replace != nil {
		s += " => " + ModuleInfo(m.Replace)
	}
	return s
}
