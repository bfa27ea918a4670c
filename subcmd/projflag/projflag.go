// Copyright 2026 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package projflag provides project flags shared by subcommands.
package projflag

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"github.com/charmbracelet/log"

	"go.chromium.org/infra/build/makeproj/invariant"
	"go.chromium.org/infra/build/makeproj/options"
	"go.chromium.org/infra/build/makeproj/osfs"
	"go.chromium.org/infra/build/makeproj/project"
	"go.chromium.org/infra/build/makeproj/projectfile"
	"go.chromium.org/infra/build/makeproj/ui"
)

// Flags are flags to open a project.
type Flags struct {
	Dir    string
	Loader options.Loader
	FSOpt  osfs.Option
}

// Register registers flags in flagSet.
func (f *Flags) Register(flagSet *flag.FlagSet) {
	flagSet.StringVar(&f.Dir, "C", ".", "project directory")
	f.Loader.RegisterFlags(flagSet)
	f.FSOpt.RegisterFlags(flagSet)
}

// Options loads user options. It enables strict invariant checks if
// the strict option is set.
func (f *Flags) Options() (options.Options, error) {
	o, err := f.Loader.Load()
	if err != nil {
		return options.Options{}, err
	}
	if o.Strict {
		invariant.SetStrict(true)
	}
	return o, nil
}

// ProjectOption returns user options and the option to create or
// open a project.
func (f *Flags) ProjectOption(ctx context.Context) (project.Option, options.Options, error) {
	o, err := f.Options()
	if err != nil {
		return project.Option{}, o, err
	}
	popt, err := o.ProjectOption(ctx)
	if err != nil {
		return project.Option{}, o, err
	}
	popt.FS = osfs.New("project", f.FSOpt)
	return popt, o, nil
}

// Open opens the project in the directory. A partially read project
// is returned with a warning.
func (f *Flags) Open(ctx context.Context) (*project.Descriptor, error) {
	popt, _, err := f.ProjectOption(ctx)
	if err != nil {
		return nil, err
	}
	spin := ui.Default.NewSpinner()
	spin.Start("loading %s", f.Dir)
	d, err := project.Open(ctx, f.Dir, popt, projectfile.Codec{})
	if d == nil {
		spin.Stop(err)
		return nil, err
	}
	if err != nil {
		var derr projectfile.DecodeError
		if !errors.As(err, &derr) {
			spin.Stop(err)
			d.Close()
			return nil, err
		}
		log.Warnf("project %s is partially read: %v", d.BaseDir(), err)
	}
	spin.Done("%d configurations %d items", len(d.Configurations()), len(d.Items()))
	return d, nil
}

// Save saves d. Shared metadata is written only if d is modified.
func Save(ctx context.Context, d *project.Descriptor) error {
	spin := ui.Default.NewSpinner()
	spin.Start("saving %s", d.BaseDir())
	err := d.Save(ctx, projectfile.Codec{})
	spin.Stop(err)
	if err != nil {
		return fmt.Errorf("save: %w", err)
	}
	return nil
}
