// Copyright 2026 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package version

import (
	"bytes"
	"runtime/debug"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestPrint(t *testing.T) {
	bi := &debug.BuildInfo{
		GoVersion: "go1.24.2",
		Deps: []*debug.Module{
			{Path: "github.com/spf13/viper", Version: "v1.19.0"},
			{Path: "go.starlark.net", Version: "v0.0.0", Replace: &debug.Module{Path: "../starlark", Version: "(devel)"}},
		},
		Settings: []debug.BuildSetting{
			{Key: "GOOS", Value: "linux"},
			{Key: "vcs.revision", Value: "abc"},
			{Key: "vcs.modified", Value: "false"},
		},
	}
	for _, tc := range []struct {
		deps bool
		want string
	}{
		{
			deps: false,
			want: "go\tgo1.24.2\nbuild\tvcs.revision=abc\nbuild\tvcs.modified=false\n",
		},
		{
			deps: true,
			want: "go\tgo1.24.2\nbuild\tvcs.revision=abc\nbuild\tvcs.modified=false\n" +
				"dep\tgithub.com/spf13/viper@v1.19.0\n" +
				"dep\tgo.starlark.net@v0.0.0 => ../starlark@(devel)\n",
		},
	} {
		var buf bytes.Buffer
		Print(&buf, bi, tc.deps)
		if diff := cmp.Diff(tc.want, buf.String()); diff != "" {
			t.Errorf("Print(deps=%t) diff -want +got:\n%s", tc.deps, diff)
		}
	}
}
