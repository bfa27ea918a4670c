// Copyright 2026 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package project

import (
	"fmt"
	"path"
	"regexp"
	"strings"
	"sync"

	"go.chromium.org/infra/build/makeproj/nativefile"
)

const (
	// DefaultIgnoreFoldersPattern is the folder ignore pattern of new
	// projects.
	DefaultIgnoreFoldersPattern = `^(nbproject|build|test|tests)$`
	// ExistingProjectIgnoreFoldersPattern is the folder ignore pattern
	// of projects created from existing sources.
	ExistingProjectIgnoreFoldersPattern = `^(nbproject)$`
)

// binaryExts are extensions of build outputs hidden unless binary
// files are viewed.
var binaryExts = map[string]bool{
	".o": true, ".obj": true, ".a": true, ".so": true, ".dylib": true,
	".dll": true, ".exe": true, ".lib": true, ".pdb": true, ".gch": true,
	".pch": true, ".d": true, ".class": true, ".pyc": true,
}

// Visibility decides which disk files and folders belong to disk
// folders.
type Visibility struct {
	mu         sync.RWMutex
	ignore     *regexp.Regexp
	viewBinary bool
}

// NewVisibility returns a visibility with a folder ignore pattern.
// An empty pattern ignores nothing.
func NewVisibility(pattern string, viewBinary bool) (*Visibility, error) {
	v := &Visibility{viewBinary: viewBinary}
	if err := v.SetIgnoredPattern(pattern); err != nil {
		return nil, err
	}
	return v, nil
}

// SetIgnoredPattern sets the folder ignore pattern.
func (v *Visibility) SetIgnoredPattern(pattern string) error {
	var re *regexp.Regexp
	if pattern != "" {
		var err error
		re, err = regexp.Compile(pattern)
		if err != nil {
			return fmt.Errorf("bad ignore folders pattern: %w", err)
		}
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.ignore = re
	return nil
}

// IgnoredPattern returns the folder ignore pattern.
func (v *Visibility) IgnoredPattern() string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if v.ignore == nil {
		return ""
	}
	return v.ignore.String()
}

// SetViewBinaryFiles sets whether binary files are visible.
func (v *Visibility) SetViewBinaryFiles(b bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.viewBinary = b
}

// FolderIgnored reports whether a folder named name is ignored.
func (v *Visibility) FolderIgnored(name string) bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.ignore != nil && v.ignore.MatchString(path.Base(name))
}

// FileVisible reports whether a file named name may be a project item.
func (v *Visibility) FileVisible(name string) bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.viewBinary || !BinaryFile(name)
}

// SourceVisible reports whether a file named name is shown in disk
// folders: a visible source, header or makefile.
func (v *Visibility) SourceVisible(name string) bool {
	return Visible(name) && v.FileVisible(name) && (nativefile.IsSource(name) || nativefile.IsMakefile(name))
}

// BinaryFile reports whether name looks like a build output.
func BinaryFile(name string) bool {
	return binaryExts[strings.ToLower(path.Ext(name))]
}

// Visible reports whether a file or folder named name is shown at all.
// Hidden, backup and version control files are not.
func Visible(name string) bool {
	base := path.Base(name)
	switch {
	case base == "." || base == "..":
		return true
	case strings.HasPrefix(base, "."):
		return false
	case strings.HasSuffix(base, "~"):
		return false
	case len(base) > 1 && strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#"):
		return false
	case base == "CVS" || base == "SCCS":
		return false
	}
	return true
}
