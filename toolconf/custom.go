// Copyright 2026 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package toolconf

import "go.chromium.org/infra/build/makeproj/setting"

// CustomTool is the configuration of an item built by a user command.
type CustomTool struct {
	CommandLine            *setting.String
	Description            *setting.String
	Outputs                *setting.String
	AdditionalDependencies *setting.String
}

// NewCustomTool returns a custom tool configuration.
func NewCustomTool() *CustomTool {
	return &CustomTool{
		CommandLine:            setting.NewString(""),
		Description:            setting.NewString("Performing Custom Build Step"),
		Outputs:                setting.NewString(""),
		AdditionalDependencies: setting.NewString(""),
	}
}

func (t *CustomTool) settings() []*setting.String {
	return []*setting.String{t.CommandLine, t.Description, t.Outputs, t.AdditionalDependencies}
}

// Modified reports whether any setting is modified.
func (t *CustomTool) Modified() bool {
	for _, s := range t.settings() {
		if s.Modified() {
			return true
		}
	}
	return false
}

// Dirty reports whether any setting is dirty.
func (t *CustomTool) Dirty() bool {
	for _, s := range t.settings() {
		if s.Dirty() {
			return true
		}
	}
	return false
}

// ClearDirty resets all dirty flags.
func (t *CustomTool) ClearDirty() {
	for _, s := range t.settings() {
		s.SetDirty(false)
	}
}

// Assign copies all own values from o.
func (t *CustomTool) Assign(o *CustomTool) {
	t.CommandLine.Assign(o.CommandLine)
	t.Description.Assign(o.Description)
	t.Outputs.Assign(o.Outputs)
	t.AdditionalDependencies.Assign(o.AdditionalDependencies)
}

// Clone returns a deep copy.
func (t *CustomTool) Clone() *CustomTool {
	return &CustomTool{
		CommandLine:            t.CommandLine.Clone(),
		Description:            t.Description.Clone(),
		Outputs:                t.Outputs.Clone(),
		AdditionalDependencies: t.AdditionalDependencies.Clone(),
	}
}
