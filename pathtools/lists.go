// Copyright 2026 The mbuild Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package pathtools

import (
	"path"
	"strings"
)

// PrefixPaths joins prefix onto each of the slash-separated paths.
func PrefixPaths(paths []string, prefix string) []string {
	result := make([]string, len(paths))
	for i, p := range paths {
		result[i] = path.Join(prefix, p)
	}
	return result
}

// ReplaceExtension swaps the extension of the final element of p for
// extension, appending one if there is none. Dots in parent directories are
// ignored.
func ReplaceExtension(p string, extension string) string {
	return TrimExtension(p) + "." + extension
}

// TrimExtension removes the extension of the final element of p, if any.
func TrimExtension(p string) string {
	base := strings.LastIndex(p, "/") + 1
	dot := strings.LastIndex(p[base:], ".")
	if dot == -1 {
		return p
	}
	return p[:base+dot]
}
