// Copyright 2026 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package ui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
)

// LogUI reports through the log, for non terminal output.
type LogUI struct{}

// PrintLines logs msgs without escape sequences.
func (LogUI) PrintLines(msgs ...string) {
	for _, msg := range msgs {
		if msg == "\n" || msg == "" {
			continue
		}
		log.Info(StripANSIEscapeCodes(msg))
	}
}

// NewSpinner returns a spinner that logs start and completion.
func (LogUI) NewSpinner() Spinner {
	return &logSpinner{}
}

type logSpinner struct {
	started time.Time
	msg     string
}

func (s *logSpinner) Start(format string, args ...any) {
	s.started = time.Now()
	s.msg = fmt.Sprintf(format, args...)
	log.Info(s.msg)
}

func (s *logSpinner) Stop(err error) {
	if err != nil {
		log.Warn("failed", "op", s.msg, "duration", FormatDuration(time.Since(s.started)), "err", err)
		return
	}
	log.Info("done", "op", s.msg, "duration", FormatDuration(time.Since(s.started)))
}

func (s *logSpinner) Done(format string, args ...any) {
	log.Info(fmt.Sprintf(format, args...), "op", s.msg, "duration", FormatDuration(time.Since(s.started)))
}
