// Copyright 2026 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package delta

import "go.chromium.org/infra/build/makeproj/nativefile"

// stringHash is the polynomial hash s[0]*31^(n-1) + ... + s[n-1].
func stringHash(s string) int32 {
	var h int32
	for _, r := range s {
		h = 31*h + int32(r)
	}
	return h
}

// CRC returns an order sensitive fingerprint of the code model
// relevant properties of item.
func CRC(item nativefile.Item) int32 {
	var res int32
	fold := func(values []string) {
		for _, v := range values {
			res = 37*res + stringHash(v)
		}
	}
	fold(item.UserIncludePaths())
	fold(item.IncludeFiles())
	fold(item.UserMacroDefinitions())
	fold(item.SystemIncludePaths())
	fold(item.SystemIncludeHeaders())
	fold(item.SystemMacroDefinitions())
	res = 37*res + stringHash(item.Language().String())
	res = 37*res + stringHash(item.LanguageFlavor().String())
	fold(item.UndefinedMacros())
	return res
}
