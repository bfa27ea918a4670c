// Copyright 2026 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package makeutil provides utilities for make.
package makeutil

import (
	"bytes"
	"io/fs"
	"strings"

	"github.com/charmbracelet/log"
)

// Rule is a rule of a depfile.
type Rule struct {
	Targets []string
	Inputs  []string
}

// ParseDepsFile parses *.d file in fname on fsys.
func ParseDepsFile(fsys fs.FS, fname string) ([]string, error) {
	if fname == "" {
		return nil, nil
	}
	b, err := fs.ReadFile(fsys, fname)
	if err != nil {
		return nil, err
	}
	deps := ParseDeps(b)
	log.Debugf("deps %s => %q", fname, deps)
	return deps, nil
}

// ParseDeps parses deps and returns inputs of all rules in order,
// without duplicates. Phony rules of `gcc -MP` have no inputs.
func ParseDeps(b []byte) []string {
	var inputs []string
	seen := make(map[string]bool)
	for _, r := range ParseRules(b) {
		for _, in := range r.Inputs {
			if seen[in] {
				continue
			}
			seen[in] = true
			inputs = append(inputs, in)
		}
	}
	return inputs
}

// ParseRules parses rules in deps.
//
//	<target> ...: <input> ...
//
// '\'+newline is space, and '\'+space is escaped space (not separator).
func ParseRules(b []byte) []Rule {
	b = bytes.ReplaceAll(b, []byte("\\\r\n"), []byte(" "))
	b = bytes.ReplaceAll(b, []byte("\\\n"), []byte(" "))
	var rules []Rule
	for _, line := range bytes.Split(b, []byte("\n")) {
		i := ruleColon(line)
		if i < 0 {
			continue
		}
		targets := fields(line[:i])
		if len(targets) == 0 {
			continue
		}
		rules = append(rules, Rule{
			Targets: targets,
			Inputs:  fields(line[i+1:]),
		})
	}
	return rules
}

// ruleColon returns the index of the colon separating targets and
// inputs. A colon followed by non-space (e.g. drive letter) is a part
// of a path.
func ruleColon(line []byte) int {
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '\\':
			i++
		case ':':
			if i+1 == len(line) {
				return i
			}
			switch line[i+1] {
			case ' ', '\t', '\r':
				return i
			}
		}
	}
	return -1
}

func fields(s []byte) []string {
	var tokens []string
	var sb strings.Builder
	flush := func() {
		if sb.Len() > 0 {
			tokens = append(tokens, sb.String())
			sb.Reset()
		}
	}
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '\\':
			if i+1 < len(s) && s[i+1] == ' ' {
				sb.WriteByte(' ')
				i++
				continue
			}
			sb.WriteByte(c)
		case ' ', '\t', '\r':
			flush()
		default:
			sb.WriteByte(c)
		}
	}
	flush()
	return tokens
}
