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
	"os"
	"path/filepath"
	"sort"
)

// FileSystem is the view of a source tree used while expanding source
// patterns. All names are slash-separated and relative to the root of the
// file system.
type FileSystem interface {
	Exists(name string) (exists, isDir bool, err error)
	glob(pattern string) (matches []string, err error)
}

// DirFs returns a FileSystem rooted at dir on the local disk.
func DirFs(dir string) FileSystem {
	return osFs{root: dir}
}

// MockFs returns an in-memory FileSystem containing files. Parent
// directories of every file are created implicitly.
func MockFs(files map[string][]byte) FileSystem {
	fs := &mockFs{
		files: make(map[string][]byte, len(files)),
		dirs:  make(map[string]bool),
	}

	for f, b := range files {
		f = filepath.ToSlash(filepath.Clean(f))
		fs.files[f] = b
		dir := filepath.ToSlash(filepath.Dir(f))
		for dir != "." && dir != "/" {
			fs.dirs[dir] = true
			dir = filepath.ToSlash(filepath.Dir(dir))
		}
		fs.dirs[dir] = true
	}

	for f := range fs.files {
		fs.all = append(fs.all, f)
	}
	for d := range fs.dirs {
		fs.all = append(fs.all, d)
	}
	sort.Strings(fs.all)

	return fs
}

type osFs struct {
	root string
}

func (fs osFs) Exists(name string) (bool, bool, error) {
	stat, err := os.Stat(filepath.Join(fs.root, filepath.FromSlash(name)))
	if err == nil {
		return true, stat.IsDir(), nil
	} else if os.IsNotExist(err) {
		return false, false, nil
	} else {
		return false, false, err
	}
}

func (fs osFs) glob(pattern string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(fs.root, filepath.FromSlash(pattern)))
	if err != nil {
		return nil, err
	}
	for i, m := range matches {
		rel, err := filepath.Rel(fs.root, m)
		if err != nil {
			return nil, err
		}
		matches[i] = filepath.ToSlash(rel)
	}
	return matches, nil
}

type mockFs struct {
	files map[string][]byte
	dirs  map[string]bool
	all   []string
}

func (m *mockFs) Exists(name string) (bool, bool, error) {
	name = filepath.ToSlash(filepath.Clean(name))
	if _, ok := m.files[name]; ok {
		return true, false, nil
	}
	if _, ok := m.dirs[name]; ok {
		return true, true, nil
	}
	return false, false, nil
}

func (m *mockFs) glob(pattern string) ([]string, error) {
	var matches []string
	for _, f := range m.all {
		match, err := filepath.Match(pattern, f)
		if err != nil {
			return nil, err
		}
		if f == "." && f != pattern {
			// filepath.Glob won't return "." unless the pattern was "."
			match = false
		}
		if match {
			matches = append(matches, f)
		}
	}
	return matches, nil
}
