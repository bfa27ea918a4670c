// Copyright 2026 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package toolconf

import (
	"fmt"
	"path"
	"strings"

	"github.com/zeebo/xxh3"
)

// ObjectDirMacro is the makefile variable of the object directory.
const ObjectDirMacro = "${OBJECTDIR}"

const oddCharacters = " \t'\"()&;|<>*?[]#"

// EscapeOddCharacters escapes characters that have a meaning for
// make or shell with a backslash.
func EscapeOddCharacters(s string) string {
	if !strings.ContainsAny(s, oddCharacters) {
		return s
	}
	var sb strings.Builder
	sb.Grow(len(s) + 8)
	for i := 0; i < len(s); i++ {
		if strings.IndexByte(oddCharacters, s[i]) >= 0 && (i == 0 || s[i-1] != '\\') {
			sb.WriteByte('\\')
		}
		sb.WriteByte(s[i])
	}
	return sb.String()
}

// ReformatWhitespaces collapses runs of white space and trims s.
func ReformatWhitespaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func isExternal(p string) bool {
	if path.IsAbs(p) || p == ".." || strings.HasPrefix(p, "../") {
		return true
	}
	// drive letter, e.g. c:/src
	return len(p) >= 2 && p[1] == ':'
}

// ObjectFile returns the object file of an item path relative to the
// project directory. Items outside the project directory are put in a
// directory named after a hash of their parent directory.
func ObjectFile(itemPath string) string {
	p := strings.ReplaceAll(itemPath, "\\", "/")
	dir, base := path.Split(p)
	if ext := path.Ext(base); ext != "" && ext != base {
		base = strings.TrimSuffix(base, ext)
	}
	base += ".o"
	if isExternal(p) {
		return EscapeOddCharacters(fmt.Sprintf("%s/_ext/%08x/%s", ObjectDirMacro, uint32(xxh3.HashString(dir)), base))
	}
	return EscapeOddCharacters(ObjectDirMacro + "/" + path.Join(dir, base))
}
