// Copyright 2026 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

//go:build unix

package project

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/sys/unix"
)

// lockFile is a cross-process lock on the project metadata.
type lockFile struct {
	f *os.File
}

func newLockFile(ctx context.Context, fname string) (*lockFile, error) {
	f, err := os.OpenFile(fname, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return nil, err
	}
	return &lockFile{f: f}, nil
}

func (l *lockFile) Close() error {
	return l.f.Close()
}

// Lock waits until the lock is acquired or ctx is done.
func (l *lockFile) Lock(ctx context.Context) error {
	const interval = 50 * time.Millisecond
	for {
		err := unix.Flock(int(l.f.Fd()), unix.LOCK_EX|unix.LOCK_NB)
		if err == nil {
			break
		}
		if !errors.Is(err, unix.EWOULDBLOCK) {
			return err
		}
		select {
		case <-ctx.Done():
			_, _ = l.f.Seek(0, io.SeekStart)
			buf, rerr := io.ReadAll(l.f)
			if rerr != nil {
				return fmt.Errorf("%s is locked: %w", l.f.Name(), context.Cause(ctx))
			}
			return fmt.Errorf("%s is locked by %s: %w", l.f.Name(), string(buf), context.Cause(ctx))
		case <-time.After(interval):
		}
	}
	if err := l.f.Truncate(0); err != nil {
		return err
	}
	_, err := fmt.Fprintf(l.f, "pid=%d", os.Getpid())
	return err
}

func (l *lockFile) Unlock() error {
	return unix.Flock(int(l.f.Fd()), unix.LOCK_UN)
}
