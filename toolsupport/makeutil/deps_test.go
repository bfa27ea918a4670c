// Copyright 2026 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package makeutil

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseDeps(t *testing.T) {
	for _, tc := range []struct {
		name     string
		depsfile []byte
		want     []string
	}{
		{
			name:     "simple",
			depsfile: []byte("foo.o:\tbar baz qux"),
			want: []string{
				"bar",
				"baz",
				"qux",
			},
		},
		{
			name:     "spaceinname",
			depsfile: []byte(`foo\ bar.o: baz\ qux`),
			want: []string{
				"baz qux",
			},
		},
		{
			name:     "newlinewhitespaces",
			depsfile: []byte("foo.o :\tbar\\\n\tbaz\\\r\n  qux"),
			want: []string{
				"bar",
				"baz",
				"qux",
			},
		},
		{
			name:     "backslashes",
			depsfile: []byte("foo\\bar.o: baz\\qux\\\n  quux\\corge"),
			want: []string{
				`baz\qux`,
				`quux\corge`,
			},
		},
		{
			name: "drive-letter",
			depsfile: []byte(`C:/out/foo.o: C:/src/foo.c C:/src/foo.h`),
			want: []string{
				"C:/src/foo.c",
				"C:/src/foo.h",
			},
		},
		{
			name: "gcc-phony",
			depsfile: []byte("obj/a.o: src/a.c include/a.h \\\n include/b.h\ninclude/a.h:\n\ninclude/b.h:\nobj/b.o: src/b.c include/a.h\n"),
			want: []string{
				"src/a.c",
				"include/a.h",
				"include/b.h",
				"src/b.c",
			},
		},
		{
			name:     "no-rule",
			depsfile: []byte("foo bar\n"),
			want:     nil,
		},
		{
			name: "rust-multi",
			depsfile: []byte(`clang_x64_for_rust_host_build_tools/obj/third_party/rust/unicode_ident/v1/lib/libunicode_ident-unicode_ident-1.rlib: ../../third_party/rust/unicode_ident/v1/crate/src/lib.rs ../../third_party/rust/unicode_ident/v1/crate/src/tables.rs

../../third_party/rust/unicode_ident/v1/crate/src/lib.rs:
../../third_party/rust/unicode_ident/v1/crate/src/tables.rs:
`),
			want: []string{
				"../../third_party/rust/unicode_ident/v1/crate/src/lib.rs",
				"../../third_party/rust/unicode_ident/v1/crate/src/tables.rs",
			},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseDeps(tc.depsfile)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("ParseDeps(%q) -want +got:\n%s", tc.depsfile, diff)
			}
		})
	}
}

func TestParseRules(t *testing.T) {
	got := ParseRules([]byte("a.o b.o: a.c\na.c:\n"))
	want := []Rule{
		{Targets: []string{"a.o", "b.o"}, Inputs: []string{"a.c"}},
		{Targets: []string{"a.c"}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ParseRules diff -want +got:\n%s", diff)
	}
}
