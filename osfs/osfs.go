// Copyright 2026 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package osfs provides OS file system access for project trees.
package osfs

import (
	"context"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sys/unix"

	"go.chromium.org/infra/build/makeproj/sync/workqueue"
)

// StatSemaphore is a semaphore to control concurrent stat and
// directory listing, to protect from thread exhaustion on slow file
// systems.
var StatSemaphore = workqueue.NewSemaphore("osfs-stat", runtime.NumCPU()*2)

// Option is an option for osfs.
type Option struct {
	// SlowOp is the duration after which an operation is logged as slow.
	SlowOp time.Duration
}

// RegisterFlags registers flags for the option.
func (o *Option) RegisterFlags(flagSet *flag.FlagSet) {
	flagSet.DurationVar(&o.SlowOp, "fs_slow_op", 1*time.Minute, "log file system operations slower than this")
}

// OSFS provides OS file system access.
type OSFS struct {
	name   string
	slowOp time.Duration
}

// New creates new OSFS.
func New(name string, opt Option) *OSFS {
	if opt.SlowOp <= 0 {
		opt.SlowOp = 1 * time.Minute
	}
	return &OSFS{name: name, slowOp: opt.SlowOp}
}

func (ofs *OSFS) logSlow(op, name string, started time.Time, err error) {
	dur := time.Since(started)
	if dur <= ofs.slowOp {
		return
	}
	buf := make([]byte, 4*1024)
	n := runtime.Stack(buf, false)
	log.Warnf("%s: slow op %s %s: %s %v\n%s", ofs.name, op, name, dur, err, buf[:n])
}

// ReadDir reads the named directory.
func (ofs *OSFS) ReadDir(ctx context.Context, name string) ([]fs.DirEntry, error) {
	var ents []fs.DirEntry
	err := StatSemaphore.Do(ctx, func(ctx context.Context) error {
		started := time.Now()
		var err error
		ents, err = os.ReadDir(name)
		ofs.logSlow("readdir", name, started, err)
		return err
	})
	return ents, err
}

// Stat returns a FileInfo of the named file, following symlinks.
func (ofs *OSFS) Stat(ctx context.Context, name string) (fs.FileInfo, error) {
	var fi fs.FileInfo
	err := StatSemaphore.Do(ctx, func(ctx context.Context) error {
		started := time.Now()
		var err error
		fi, err = os.Stat(name)
		ofs.logSlow("stat", name, started, err)
		return err
	})
	return fi, err
}

// Canonical returns the absolute path of name with all symlinks
// resolved.
func (ofs *OSFS) Canonical(ctx context.Context, name string) (string, error) {
	var p string
	err := StatSemaphore.Do(ctx, func(ctx context.Context) error {
		started := time.Now()
		var err error
		p, err = filepath.Abs(name)
		if err != nil {
			return err
		}
		p, err = filepath.EvalSymlinks(p)
		ofs.logSlow("canonical", name, started, err)
		return err
	})
	return filepath.ToSlash(p), err
}

// CheckWritable returns an error if the named file exists and is not
// writable by the current user.
func (ofs *OSFS) CheckWritable(ctx context.Context, name string) error {
	err := unix.Access(name, unix.W_OK)
	if err == nil || os.IsNotExist(err) {
		return nil
	}
	return &fs.PathError{Op: "access", Path: name, Err: err}
}

// MkdirAll creates a directory named path, along with any necessary
// parents.
func (ofs *OSFS) MkdirAll(ctx context.Context, name string, perm fs.FileMode) error {
	started := time.Now()
	err := os.MkdirAll(name, perm)
	ofs.logSlow("mkdir", name, started, err)
	return err
}

// ReadFile reads the named file.
func (ofs *OSFS) ReadFile(ctx context.Context, name string) ([]byte, error) {
	started := time.Now()
	b, err := os.ReadFile(name)
	ofs.logSlow("read", name, started, err)
	return b, err
}

// WriteFile writes data to the named file atomically by renaming a
// temporary file.
func (ofs *OSFS) WriteFile(ctx context.Context, name string, data []byte, perm fs.FileMode) error {
	started := time.Now()
	tmp := fmt.Sprintf("%s.%d.tmp", name, os.Getpid())
	err := os.WriteFile(tmp, data, perm)
	if err == nil {
		err = os.Rename(tmp, name)
	}
	if err != nil {
		_ = os.Remove(tmp)
	}
	ofs.logSlow("write", name, started, err)
	return err
}
