// Copyright 2026 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package nativefile

import "testing"

func TestLanguageOf(t *testing.T) {
	for _, tc := range []struct {
		name     string
		want     Language
		source   bool
		makefile bool
	}{
		{name: "a.c", want: C, source: true},
		{name: "dir/b.cpp", want: CPP, source: true},
		{name: "B.C", want: CPP, source: true},
		{name: "x.mm", want: CPP, source: true},
		{name: "m.f90", want: Fortran, source: true},
		{name: "inc/h.hpp", want: Header, source: true},
		{name: "start.S", want: Other, source: true},
		{name: "Makefile", want: Other, makefile: true},
		{name: "rules.mk", want: Other, makefile: true},
		{name: "Makefile.linux", want: Other, makefile: true},
		{name: "README", want: Other},
	} {
		if got := LanguageOf(tc.name); got != tc.want {
			t.Errorf("LanguageOf(%q)=%s; want %s", tc.name, got, tc.want)
		}
		if got := IsSource(tc.name); got != tc.source {
			t.Errorf("IsSource(%q)=%t; want %t", tc.name, got, tc.source)
		}
		if got := IsMakefile(tc.name); got != tc.makefile {
			t.Errorf("IsMakefile(%q)=%t; want %t", tc.name, got, tc.makefile)
		}
	}
}

func TestParseFlavor(t *testing.T) {
	for i, name := range FlavorNames() {
		f, err := ParseFlavor(name)
		if err != nil || f != Flavor(i) {
			t.Errorf("ParseFlavor(%q)=%s, %v; want %s, nil", name, f, err, Flavor(i))
		}
		if f.String() != name {
			t.Errorf("%d.String()=%q; want %q", i, f.String(), name)
		}
	}
	if f, err := ParseFlavor("cobol"); err == nil {
		t.Errorf("ParseFlavor(cobol)=%s, nil; want error", f)
	}
}
