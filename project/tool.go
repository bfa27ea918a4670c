// Copyright 2026 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package project

import (
	"fmt"

	"go.chromium.org/infra/build/makeproj/toolconf"
)

// Tool is the tool that builds an item.
type Tool int

const (
	ToolCustom Tool = iota
	ToolC
	ToolCC
	ToolFortran
	ToolAssembler
)

var toolNames = []string{"custom", "c", "cpp", "fortran", "asm"}

func (t Tool) String() string {
	if t < 0 || int(t) >= len(toolNames) {
		return fmt.Sprintf("Tool(%d)", int(t))
	}
	return toolNames[t]
}

// ParseTool parses a tool name.
func ParseTool(s string) (Tool, error) {
	for i, n := range toolNames {
		if n == s {
			return Tool(i), nil
		}
	}
	return ToolCustom, fmt.Errorf("unknown tool %q", s)
}

// Kind returns the compiler kind of the tool. It returns false for
// the custom tool.
func (t Tool) Kind() (toolconf.Kind, bool) {
	switch t {
	case ToolC:
		return toolconf.CCompiler, true
	case ToolCC:
		return toolconf.CCCompiler, true
	case ToolFortran:
		return toolconf.FortranCompiler, true
	case ToolAssembler:
		return toolconf.Assembler, true
	}
	return 0, false
}

// ToolOf returns the tool of a compiler kind.
func ToolOf(k toolconf.Kind) Tool {
	switch k {
	case toolconf.CCompiler:
		return ToolC
	case toolconf.CCCompiler:
		return ToolCC
	case toolconf.FortranCompiler:
		return ToolFortran
	case toolconf.Assembler:
		return ToolAssembler
	}
	return ToolCustom
}
