// Copyright 2026 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package ui reports progress of project operations to the user.
package ui

import (
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/term"
)

// Spinner reports a long running operation.
type Spinner interface {
	// Start starts the spinner with the formatted message.
	Start(format string, args ...any)
	// Stop stops the spinner, reporting err if not nil.
	Stop(err error)
	// Done stops the spinner with the formatted result.
	Done(format string, args ...any)
}

// UI is a user interface.
type UI interface {
	// PrintLines prints status lines.
	// If msgs starts with "\n", it prints after the current line.
	// Otherwise, it replaces the last len(msgs) lines.
	PrintLines(msgs ...string)
	// NewSpinner returns a new spinner.
	NewSpinner() Spinner
}

// Default holds the default UI. It is set by Init and must not be
// changed after that.
var Default UI = LogUI{}

// Init sets Default by whether stdout is a terminal, and prepares the
// terminal for escape sequences.
func Init() {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		Default = LogUI{}
		return
	}
	width, _, err := term.GetSize(fd)
	if err != nil {
		width = 0
	}
	initConsole()
	Default = NewTermUI(os.Stdout, width)
}

// IsTerminal reports whether Default is a terminal UI.
func IsTerminal() bool {
	_, ok := Default.(*TermUI)
	return ok
}

// StripANSIEscapeCodes strips CSI escape sequences.
func StripANSIEscapeCodes(s string) string {
	if !strings.Contains(s, "\033") {
		return s
	}
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '\033' {
			sb.WriteByte(s[i])
			continue
		}
		if i+1 >= len(s) || s[i+1] != '[' {
			continue
		}
		// skip parameters up to the final byte.
		i += 2
		for i < len(s) && (s[i] < 0x40 || s[i] > 0x7e) {
			i++
		}
	}
	return sb.String()
}

// elide shortens msg to fit in width by replacing its middle with "...".
// Escape sequences are dropped from elided messages.
func elide(msg string, width int) string {
	const marker = "..."
	if width <= len(marker)+2 {
		return msg
	}
	plain := StripANSIEscapeCodes(msg)
	n := utf8.RuneCountInString(plain)
	if n < width {
		return msg
	}
	runes := []rune(plain)
	keep := (width - len(marker) - 1) / 2
	return string(runes[:keep]) + marker + string(runes[n-keep:])
}
