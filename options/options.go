// Copyright 2026 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package options loads user options of project handling.
package options

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/viper"

	"go.chromium.org/infra/build/makeproj/project"
	"go.chromium.org/infra/build/makeproj/toolchain"
)

// EnvPrefix is the prefix of environment variables overriding options,
// e.g. MAKEPROJ_STRICT=true.
const EnvPrefix = "MAKEPROJ"

// Options are user options.
type Options struct {
	ViewBinaryFiles      bool   `mapstructure:"view_binary_files"`
	IgnoreFoldersPattern string `mapstructure:"ignore_folders_pattern"`
	// DependencyChecking and RebuildPropChanged are defaults of new
	// configurations.
	DependencyChecking bool `mapstructure:"dependency_checking"`
	RebuildPropChanged bool `mapstructure:"rebuild_prop_changed"`
	// DefaultToolchain is the compiler set of new configurations.
	DefaultToolchain string `mapstructure:"default_toolchain"`
	// ToolchainFile is a starlark file defining more toolchains.
	ToolchainFile string `mapstructure:"toolchain_file"`
	Strict        bool   `mapstructure:"strict"`
}

// Default holds the default options.
var Default = Options{
	IgnoreFoldersPattern: project.DefaultIgnoreFoldersPattern,
	DependencyChecking:   true,
	DefaultToolchain:     toolchain.DefaultName,
}

func (o Options) keys() map[string]any {
	return map[string]any{
		"view_binary_files":      o.ViewBinaryFiles,
		"ignore_folders_pattern": o.IgnoreFoldersPattern,
		"dependency_checking":    o.DependencyChecking,
		"rebuild_prop_changed":   o.RebuildPropChanged,
		"default_toolchain":      o.DefaultToolchain,
		"toolchain_file":         o.ToolchainFile,
		"strict":                 o.Strict,
	}
}

// Loader loads options from an options file, MAKEPROJ_* environment
// variables and flags, in increasing priority.
type Loader struct {
	// File is the options file. If empty, options.yaml in the user
	// config dir is used if it exists.
	File string

	flagSet *flag.FlagSet
}

// RegisterFlags registers flags overriding options.
func (l *Loader) RegisterFlags(flagSet *flag.FlagSet) {
	l.flagSet = flagSet
	flagSet.StringVar(&l.File, "options", "", "user options file. default: options.yaml in $XDG_CONFIG_HOME/makeproj")
	flagSet.Bool("view_binary_files", Default.ViewBinaryFiles, "show binary files in disk folders")
	flagSet.String("ignore_folders_pattern", Default.IgnoreFoldersPattern, "regexp of folder names ignored in disk folders")
	flagSet.Bool("dependency_checking", Default.DependencyChecking, "enable dependency checking in new configurations")
	flagSet.Bool("rebuild_prop_changed", Default.RebuildPropChanged, "rebuild on property changes in new configurations")
	flagSet.String("default_toolchain", Default.DefaultToolchain, "compiler set of new configurations")
	flagSet.String("toolchain_file", Default.ToolchainFile, "starlark file of toolchain definitions")
	flagSet.Bool("strict", Default.Strict, "panic on invariant violations")
}

func defaultFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	fname := filepath.Join(dir, "makeproj", "options.yaml")
	if _, err := os.Stat(fname); err != nil {
		return ""
	}
	return fname
}

// Load loads options.
func (l *Loader) Load() (Options, error) {
	v := viper.New()
	for k, val := range Default.keys() {
		v.SetDefault(k, val)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	fname := l.File
	if fname == "" {
		fname = defaultFile()
	}
	if fname != "" {
		v.SetConfigFile(fname)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return Options{}, fmt.Errorf("read options %s: %w", fname, err)
		}
		log.Debugf("options from %s", fname)
	}
	if l.flagSet != nil {
		keys := Default.keys()
		l.flagSet.Visit(func(f *flag.Flag) {
			if _, ok := keys[f.Name]; ok {
				v.Set(f.Name, f.Value.String())
			}
		})
	}
	var o Options
	if err := v.Unmarshal(&o); err != nil {
		return Options{}, fmt.Errorf("decode options: %w", err)
	}
	return o, nil
}

// ProjectOption returns the project option for o, with the toolchain
// file loaded.
func (o Options) ProjectOption(ctx context.Context) (project.Option, error) {
	r := toolchain.NewRegistry()
	if o.ToolchainFile != "" {
		names, err := toolchain.LoadStar(ctx, o.ToolchainFile, nil, r)
		if err != nil {
			return project.Option{}, fmt.Errorf("load toolchains: %w", err)
		}
		log.Infof("toolchains %q from %s", names, o.ToolchainFile)
	}
	if o.DefaultToolchain != "" {
		if _, ok := r.Lookup(o.DefaultToolchain); !ok {
			return project.Option{}, fmt.Errorf("unknown default toolchain %q. known %q", o.DefaultToolchain, r.Names())
		}
	}
	return project.Option{
		IgnoreFoldersPattern: o.IgnoreFoldersPattern,
		ViewBinaryFiles:      o.ViewBinaryFiles,
		Toolchains:           r,
	}, nil
}

// NewConfiguration returns a configuration with defaults of o.
func (o Options) NewConfiguration(name string, typ project.ConfType) *project.Configuration {
	conf := project.NewConfiguration(name, typ)
	if o.DefaultToolchain != "" && o.DefaultToolchain != conf.CompilerSet.Value() {
		conf.CompilerSet.Set(o.DefaultToolchain)
	}
	if typ != project.Makefile && conf.DependencyChecking.Value() != o.DependencyChecking {
		conf.DependencyChecking.Set(o.DependencyChecking)
	}
	if conf.RebuildPropChanged.Value() != o.RebuildPropChanged {
		conf.RebuildPropChanged.Set(o.RebuildPropChanged)
	}
	return conf
}
