// Copyright 2026 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package project

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"go.chromium.org/infra/build/makeproj/delta"
)

// Metadata file names relative to the base directory.
const (
	ConfigurationsFile = MetadataDir + "/configurations.yaml"
	PrivateFile        = PrivateMetadataDir + "/private.yaml"
	lockFileName       = PrivateMetadataDir + "/.lock"
)

var (
	// ErrNotReady is returned when saving a descriptor that is not
	// completely loaded.
	ErrNotReady = errors.New("project is not ready")

	// ErrSaving is returned by Reload when ctx is done while a save
	// is in progress.
	ErrSaving = errors.New("project is being saved")
)

// Codec reads and writes project metadata.
type Codec interface {
	Encode(w io.Writer, d *Descriptor) error
	Decode(ctx context.Context, r io.Reader, d *Descriptor) error
	EncodePrivate(w io.Writer, d *Descriptor) error
	DecodePrivate(r io.Reader, d *Descriptor) error
}

// UnwritableError is returned by Save when project metadata files
// can't be written.
type UnwritableError struct {
	Project string
	Files   []string
	err     error
}

func (e UnwritableError) Error() string {
	return fmt.Sprintf("project %s: can't write %s: %v", e.Project, strings.Join(e.Files, ", "), e.err)
}

func (e UnwritableError) Unwrap() error {
	return e.err
}

// acquireWriteLock waits for the descriptor's write lock.
func (d *Descriptor) acquireWriteLock(ctx context.Context) (func(), error) {
	select {
	case d.writeLock <- struct{}{}:
		return func() { <-d.writeLock }, nil
	case <-ctx.Done():
		return nil, context.Cause(ctx)
	}
}

// IsSaving reports whether a save is in progress.
func (d *Descriptor) IsSaving() bool { return d.saving.Load() }

// collectChanged folds changes of folder and item configurations into
// the modified flag.
func (d *Descriptor) collectChanged() {
	for _, conf := range d.Configurations() {
		for _, o := range conf.AuxObjects() {
			if o.HasChanged() {
				d.SetModified(true)
				o.ClearChanged()
			}
		}
	}
}

// Save writes the project metadata with codec. Private metadata is
// always written; shared metadata only if the project is modified.
func (d *Descriptor) Save(ctx context.Context, codec Codec) error {
	release, err := d.acquireWriteLock(ctx)
	if err != nil {
		return fmt.Errorf("save %s: %w", d.baseDir, err)
	}
	defer release()
	d.saving.Store(true)
	defer d.saving.Store(false)

	if d.State() != Ready {
		return fmt.Errorf("save %s: %w", d.baseDir, ErrNotReady)
	}
	started := time.Now()
	d.collectChanged()
	modified := d.IsModified()

	if err := d.checkWritable(ctx, modified); err != nil {
		return err
	}
	for _, dir := range []string{MetadataDir, PrivateMetadataDir} {
		if err := d.fs.MkdirAll(ctx, d.abs(dir), 0755); err != nil {
			return fmt.Errorf("save %s: %w", d.baseDir, err)
		}
	}
	lock, err := newLockFile(ctx, d.abs(lockFileName))
	switch {
	case errors.Is(err, errors.ErrUnsupported):
		log.Debugf("no lock file for %s", d.baseDir)
	case err != nil:
		return fmt.Errorf("save %s: %w", d.baseDir, err)
	default:
		defer lock.Close()
		if err := lock.Lock(ctx); err != nil {
			return fmt.Errorf("save %s: %w", d.baseDir, err)
		}
		defer lock.Unlock()
	}

	type output struct {
		name string
		buf  bytes.Buffer
	}
	var outs []*output
	if modified {
		o := &output{name: ConfigurationsFile}
		if err := codec.Encode(&o.buf, d); err != nil {
			return fmt.Errorf("save %s: %w", d.baseDir, err)
		}
		outs = append(outs, o)
	}
	o := &output{name: PrivateFile}
	if err := codec.EncodePrivate(&o.buf, d); err != nil {
		return fmt.Errorf("save %s: %w", d.baseDir, err)
	}
	outs = append(outs, o)

	eg, ectx := errgroup.WithContext(ctx)
	for _, o := range outs {
		eg.Go(func() error {
			return d.fs.WriteFile(ectx, d.abs(o.name), o.buf.Bytes(), 0644)
		})
	}
	if err := eg.Wait(); err != nil {
		return fmt.Errorf("save %s: %w", d.baseDir, err)
	}
	if modified {
		d.SetModified(false)
	}
	log.Infof("saved %s in %s", d.baseDir, time.Since(started))
	return nil
}

// checkWritable checks all metadata directories and files, and reports
// every unwritable one in a single error.
func (d *Descriptor) checkWritable(ctx context.Context, modified bool) error {
	names := []string{PrivateMetadataDir, PrivateFile}
	if modified {
		names = append([]string{MetadataDir, ConfigurationsFile}, names...)
	}
	var errs error
	var files []string
	for _, name := range names {
		if err := d.fs.CheckWritable(ctx, d.abs(name)); err != nil {
			errs = multierr.Append(errs, err)
			files = append(files, name)
		}
	}
	if errs == nil {
		return nil
	}
	log.Infof("project %s: unwritable metadata %q", d.baseDir, files)
	return UnwritableError{Project: d.baseDir, Files: files, err: errs}
}

// Load reads the project metadata with codec. A metadata file that
// can't be parsed leaves a partially read project, which is still
// made ready.
func (d *Descriptor) Load(ctx context.Context, codec Codec) error {
	buf, err := d.fs.ReadFile(ctx, d.abs(ConfigurationsFile))
	if err != nil {
		return fmt.Errorf("load %s: %w", d.baseDir, err)
	}
	var errs error
	if err := codec.Decode(ctx, bytes.NewReader(buf), d); err != nil {
		log.Warnf("load %s: %v", d.abs(ConfigurationsFile), err)
		errs = multierr.Append(errs, err)
	}
	buf, err = d.fs.ReadFile(ctx, d.abs(PrivateFile))
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		errs = multierr.Append(errs, err)
	default:
		if err := codec.DecodePrivate(bytes.NewReader(buf), d); err != nil {
			log.Warnf("load %s: %v", d.abs(PrivateFile), err)
			errs = multierr.Append(errs, err)
		}
	}
	d.collectChanged()
	d.SetModified(false)
	d.SetState(Ready)
	if errs != nil {
		return fmt.Errorf("load %s: %w", d.baseDir, errs)
	}
	return nil
}

// Open loads the project in baseDir. The returned descriptor is
// usable even if err is a decode error.
func Open(ctx context.Context, baseDir string, opt Option, codec Codec) (*Descriptor, error) {
	d, err := New(baseDir, opt)
	if err != nil {
		return nil, err
	}
	if err := d.Load(ctx, codec); err != nil {
		if d.State() != Ready {
			d.Close()
			return nil, err
		}
		return d, err
	}
	return d, nil
}

// Reload reads the project metadata again into a new descriptor and
// closes d. It waits for a save in progress to finish.
// Listeners of d move to the new descriptor, and are notified about
// the delta between the file sets of d and the new descriptor.
func (d *Descriptor) Reload(ctx context.Context, codec Codec, logger *log.Logger) (*Descriptor, *delta.Delta, error) {
	if d.IsSaving() {
		log.Infof("reload %s: waiting for save", d.baseDir)
	}
	release, err := d.acquireWriteLock(ctx)
	if err != nil {
		if d.IsSaving() {
			return nil, nil, fmt.Errorf("reload %s: %w", d.baseDir, ErrSaving)
		}
		return nil, nil, fmt.Errorf("reload %s: %w", d.baseDir, err)
	}
	defer release()
	snap := delta.Start(d)
	nd, err := Open(ctx, d.baseDir, d.opt, codec)
	if nd == nil {
		return nil, nil, err
	}
	for _, l := range d.listenersSnapshot() {
		nd.AddListener(l)
	}
	dl := delta.EndSource(snap, nd, true, logger)
	d.Close()
	return nd, dl, err
}
