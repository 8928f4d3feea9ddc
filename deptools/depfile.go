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

package deptools

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/metabuild/mbuild/pathtools"
	"go.trai.ch/zerr"
)

var pathEscaper = strings.NewReplacer(
	`\`, `\\`,
	` `, `\ `,
	`#`, `\#`,
	`$`, `$$`)

// Format returns the contents of a Makefile-style dependency file stating
// that target depends on every entry in deps.
func Format(target string, deps []string) []byte {
	escaped := make([]string, len(deps))
	for i, dep := range deps {
		escaped[i] = pathEscaper.Replace(dep)
	}

	buf := &bytes.Buffer{}
	if len(escaped) == 0 {
		fmt.Fprintf(buf, "%s:\n", pathEscaper.Replace(target))
	} else {
		fmt.Fprintf(buf, "%s: \\\n %s\n", pathEscaper.Replace(target),
			strings.Join(escaped, " \\\n "))
	}
	return buf.Bytes()
}

// WriteDepFile creates a dependency file for ninja's depfile option. The
// file is only rewritten when its contents change.
func WriteDepFile(filename, target string, deps []string) error {
	_, err := pathtools.WriteFileIfChanged(filename, Format(target, deps), 0666)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to write dependency file"), "target", target)
	}
	return nil
}
