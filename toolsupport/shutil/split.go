// Copyright 2026 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package shutil splits and joins tool command lines.
package shutil

import (
	"fmt"
	"strings"
)

// Split splits a command line into arguments.
// Double and single quotes and backslash escapes are honored.
// It returns an error for a command line that needs a shell, i.e. one
// with pipes, redirects, substitutions or env overrides.
func Split(cmdline string) ([]string, error) {
	var args []string
	var sb strings.Builder
	hasArg := false
	escaped := false
	var quote rune
	for _, ch := range cmdline {
		switch {
		case escaped:
			sb.WriteRune(ch)
			escaped = false
			continue
		case quote == '\'':
			if ch == '\'' {
				quote = 0
				continue
			}
			sb.WriteRune(ch)
			continue
		case quote == '"':
			switch ch {
			case '"':
				quote = 0
			case '\\':
				escaped = true
			default:
				sb.WriteRune(ch)
			}
			continue
		}
		switch ch {
		case '\\':
			escaped = true
			hasArg = true
		case '"', '\'':
			quote = ch
			hasArg = true
		case ' ', '\t', '\n':
			if hasArg {
				args = append(args, sb.String())
				sb.Reset()
				hasArg = false
			}
		case ';', '&', '|', '<', '>', '$', '#', '`':
			return nil, fmt.Errorf("failed to split: cmdline contains shell metachar %c", ch)
		default:
			sb.WriteRune(ch)
			hasArg = true
		}
	}
	if quote != 0 {
		return nil, fmt.Errorf("failed to split: unterminated quote %c", quote)
	}
	if escaped {
		return nil, fmt.Errorf("failed to split: trailing backslash")
	}
	if hasArg {
		args = append(args, sb.String())
	}
	if len(args) >= 1 && strings.Contains(args[0], "=") {
		// env overrides need sh.
		return nil, fmt.Errorf("argv[0] is env set %q", args[0])
	}
	return args, nil
}
