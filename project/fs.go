// Copyright 2026 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package project

import (
	"context"
	"io/fs"
	"path"
	"strings"

	"go.chromium.org/infra/build/makeproj/osfs"
)

// FileSystem is the file system of a project's base directory.
// Names are slash separated absolute paths.
type FileSystem interface {
	ReadDir(ctx context.Context, name string) ([]fs.DirEntry, error)
	// Stat follows symlinks.
	Stat(ctx context.Context, name string) (fs.FileInfo, error)
	// Canonical resolves symlinks.
	Canonical(ctx context.Context, name string) (string, error)
	// CheckWritable returns an error if name exists and is not writable.
	CheckWritable(ctx context.Context, name string) error
	MkdirAll(ctx context.Context, name string, perm fs.FileMode) error
	ReadFile(ctx context.Context, name string) ([]byte, error)
	WriteFile(ctx context.Context, name string, data []byte, perm fs.FileMode) error
}

var _ FileSystem = (*osfs.OSFS)(nil)

// normalizePath normalizes slashes and dots of p. A relative path
// stays relative.
func normalizePath(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	if p == "" {
		return p
	}
	return path.Clean(p)
}

// isAbs reports whether p is absolute, including drive letter paths.
func isAbs(p string) bool {
	if path.IsAbs(p) {
		return true
	}
	return len(p) > 2 && p[1] == ':' && (p[2] == '/' || p[2] == '\\')
}

// inDir reports whether p is dir or under dir.
func inDir(p, dir string) bool {
	return p == dir || strings.HasPrefix(p, strings.TrimSuffix(dir, "/")+"/")
}
