// Copyright 2026 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package ui

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestStripANSIEscapeCodes(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want string
	}{
		{in: "plain", want: "plain"},
		{in: "foo\033", want: "foo"},
		{in: "foo\033[", want: "foo"},
		{
			in:   "\033[1ma.c:3:15: \033[0m\033[0;1;35mwarning: \033[0m\033[1munused\033[0m",
			want: "a.c:3:15: warning: unused",
		},
	} {
		if got := StripANSIEscapeCodes(tc.in); got != tc.want {
			t.Errorf("StripANSIEscapeCodes(%q)=%q; want %q", tc.in, got, tc.want)
		}
	}
}

func TestElide(t *testing.T) {
	for _, tc := range []struct {
		msg   string
		width int
		want  string
	}{
		{msg: "refresh src", width: 80, want: "refresh src"},
		{msg: "refresh src/very/long/path/name.c", width: 20, want: "refresh ...h/name.c"},
		{msg: "\033[32madded\033[0m src/very/long/path/name.c", width: 20, want: "added sr...h/name.c"},
		{msg: "no width", width: 0, want: "no width"},
	} {
		if got := elide(tc.msg, tc.width); got != tc.want {
			t.Errorf("elide(%q, %d)=%q; want %q", tc.msg, tc.width, got, tc.want)
		}
	}
}

func TestTermUIPrintLines(t *testing.T) {
	var buf bytes.Buffer
	u := NewTermUI(&buf, 0)
	u.PrintLines("items: 1", "added: 0")
	if got, want := buf.String(), "\r\033[K\033[A\r\033[Kitems: 1\nadded: 0"; got != want {
		t.Errorf("PrintLines=%q; want %q", got, want)
	}
	buf.Reset()
	u.PrintLines("\n", "next")
	if got, want := buf.String(), "\nnext"; got != want {
		t.Errorf("PrintLines=%q; want %q", got, want)
	}
}

func TestTermSpinner(t *testing.T) {
	var buf bytes.Buffer
	u := NewTermUI(&buf, 0)
	s := u.NewSpinner()
	s.Start("refresh %s", "src")
	s.Done("%d added", 2)
	if got := buf.String(); !strings.HasPrefix(got, "refresh src... ") || !strings.HasSuffix(got, " refresh src 2 added\n") {
		t.Errorf("spinner output=%q", got)
	}

	buf.Reset()
	s = u.NewSpinner()
	s.Start("save")
	s.Stop(errors.New("permission denied"))
	if got := buf.String(); !strings.Contains(got, "save failed permission denied") {
		t.Errorf("spinner output=%q; want failure", got)
	}
}

func TestFormatDuration(t *testing.T) {
	for _, tc := range []struct {
		dur  time.Duration
		want string
	}{
		{want: "0.00s"},
		{dur: time.Millisecond, want: "0.00s"},
		{dur: 10 * time.Millisecond, want: "0.01s"},
		{dur: time.Second, want: "1.00s"},
		{dur: time.Minute, want: "1m00.00s"},
		{dur: time.Minute + time.Second + 100*time.Millisecond, want: "1m01.10s"},
		{dur: time.Hour + time.Minute + time.Second + 100*time.Millisecond, want: "1h1m01.10s"},
		{dur: time.Hour + 12*time.Minute + 34*time.Second + 100*time.Millisecond, want: "1h12m34.10s"},
	} {
		if got := FormatDuration(tc.dur); got != tc.want {
			t.Errorf("FormatDuration(%v)=%q; want %q", tc.dur, got, tc.want)
		}
	}
}
