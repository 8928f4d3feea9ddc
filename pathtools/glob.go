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

	"go.trai.ch/zerr"
)

// ErrRecursiveGlob is returned for patterns containing "**".
var ErrRecursiveGlob = zerr.New("recursive wildcards are not supported")

// Glob returns the files in fs matching pattern, along with every directory
// that was listed to find them. A change to the contents of any of those
// directories may change the result.
func Glob(fs FileSystem, pattern string) (matches, dirs []string, err error) {
	pattern = path.Clean(pattern)
	if !isWild(pattern) {
		// Without wildcards the result is just whether the file exists.
		matches, err = fs.glob(pattern)
		return matches, nil, err
	}

	if strings.Contains(pattern, "**") {
		return nil, nil, zerr.With(zerr.Wrap(ErrRecursiveGlob, ""), "pattern", pattern)
	}

	dir, file := saneSplit(pattern)

	dirMatches, dirs, err := Glob(fs, dir)
	if err != nil {
		return nil, nil, err
	}
	for _, m := range dirMatches {
		_, isDir, err := fs.Exists(m)
		if err != nil {
			return nil, nil, zerr.With(zerr.Wrap(err, "unexpected error after glob"), "path", m)
		}
		if !isDir {
			continue
		}
		dirs = append(dirs, m)
		newMatches, err := fs.glob(path.Join(m, file))
		if err != nil {
			return nil, nil, zerr.With(err, "pattern", pattern)
		}
		matches = append(matches, newMatches...)
	}

	return matches, dirs, nil
}

func saneSplit(p string) (dir, file string) {
	dir, file = path.Split(p)
	switch dir {
	case "":
		dir = "."
	case "/":
		// Nothing
	default:
		dir = dir[:len(dir)-1]
	}
	return dir, file
}

func isWild(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[")
}

// GlobPatternList expands every wildcard pattern in patterns against fs.
// Entries without wildcards are passed through unchanged even if they do not
// exist, since they may name generated files. The returned directory list
// has no duplicates.
func GlobPatternList(fs FileSystem, patterns []string) (globbedList []string, depDirs []string, err error) {
	seen := make(map[string]bool)
	globbedList = make([]string, 0, len(patterns))

	for _, pattern := range patterns {
		if !isWild(pattern) {
			globbedList = append(globbedList, path.Clean(pattern))
			continue
		}
		matches, dirs, err := Glob(fs, pattern)
		if err != nil {
			return nil, nil, err
		}
		globbedList = append(globbedList, matches...)
		for _, d := range dirs {
			if !seen[d] {
				seen[d] = true
				depDirs = append(depDirs, d)
			}
		}
	}
	return globbedList, depDirs, nil
}
