// Copyright 2026 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package ui

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// spinnerDelay is the duration a spinner operation must take to be
// reported on Stop.
const spinnerDelay = 500 * time.Millisecond

// TermUI is a terminal UI.
type TermUI struct {
	mu    sync.Mutex
	w     io.Writer
	width int
}

// NewTermUI returns a terminal UI writing to w of width columns.
// Lines are not elided if width is 0.
func NewTermUI(w io.Writer, width int) *TermUI {
	return &TermUI{w: w, width: width}
}

// PrintLines prints status lines.
func (t *TermUI) PrintLines(msgs ...string) {
	var buf bytes.Buffer
	if len(msgs) > 0 && msgs[0] == "\n" {
		msgs = msgs[1:]
		buf.WriteString("\n")
	} else if len(msgs) > 0 {
		buf.WriteString(strings.Repeat("\r\033[K\033[A", len(msgs)-1))
		buf.WriteString("\r\033[K")
	}
	for i, msg := range msgs {
		if i > 0 {
			buf.WriteString("\n")
		}
		buf.WriteString(elide(msg, t.width))
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.w.Write(buf.Bytes())
}

// NewSpinner returns a spinner animated on the current line.
func (t *TermUI) NewSpinner() Spinner {
	return &termSpinner{ui: t}
}

type termSpinner struct {
	ui         *TermUI
	quit, done chan struct{}
	started    time.Time
	msg        string
}

func (s *termSpinner) printf(format string, args ...any) {
	s.ui.mu.Lock()
	defer s.ui.mu.Unlock()
	fmt.Fprintf(s.ui.w, format, args...)
}

func (s *termSpinner) Start(format string, args ...any) {
	s.started = time.Now()
	s.msg = fmt.Sprintf(format, args...)
	s.quit = make(chan struct{})
	s.done = make(chan struct{})
	s.printf("%s... ", s.msg)
	go func() {
		defer close(s.done)
		const chars = `/-\|`
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for n := 0; ; n++ {
			select {
			case <-s.quit:
				return
			case <-ticker.C:
				s.printf("\b%c", chars[n%len(chars)])
			}
		}
	}()
}

func (s *termSpinner) stop() time.Duration {
	close(s.quit)
	<-s.done
	return time.Since(s.started)
}

func (s *termSpinner) Stop(err error) {
	d := s.stop()
	switch {
	case err != nil:
		s.printf("\r\033[K%6s %s %s %v\n", FormatDuration(d), s.msg, SGR(Red, "failed"), err)
	case d < spinnerDelay:
		s.printf("\r\033[K")
	default:
		s.printf("\r\033[K%6s %s\n", FormatDuration(d), s.msg)
	}
}

func (s *termSpinner) Done(format string, args ...any) {
	d := s.stop()
	s.printf("\r\033[K%6s %s %s\n", FormatDuration(d), s.msg, fmt.Sprintf(format, args...))
}

// SGRCode is a select graphic rendition code.
type SGRCode int

const (
	Bold SGRCode = iota
	Red
	Green
	Yellow
	Reset
)

var sgrEscSeq = map[SGRCode]string{
	Bold:   "\033[1m",
	Red:    "\033[31;1m",
	Green:  "\033[32m",
	Yellow: "\033[33m",
	Reset:  "\033[0m",
}

func (s SGRCode) String() string {
	return sgrEscSeq[s]
}

// SGR formats s with n if Default is a terminal UI.
func SGR(n SGRCode, s string) string {
	if !IsTerminal() {
		return s
	}
	return n.String() + s + Reset.String()
}
