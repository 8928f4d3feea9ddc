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

package build

import (
	"fmt"
	pathpkg "path"
)

// A Root is the base directory a Path is relative to.
type Root int

const (
	SrcDir Root = iota
	BuildDir
	Prefix
	BinDir
	LibDir
	IncludeDir
)

// InstallRoots lists the install roots in the order their variables are
// declared.
var InstallRoots = []Root{Prefix, BinDir, LibDir, IncludeDir}

var rootNames = [...]string{
	SrcDir:     "srcdir",
	BuildDir:   "builddir",
	Prefix:     "prefix",
	BinDir:     "bindir",
	LibDir:     "libdir",
	IncludeDir: "includedir",
}

// String returns the name of the build file variable holding the root.
func (r Root) String() string {
	if r < 0 || int(r) >= len(rootNames) {
		return fmt.Sprintf("Root(%d)", int(r))
	}
	return rootNames[r]
}

// IsInstall reports whether r is one of the install roots.
func (r Root) IsInstall() bool {
	return r >= Prefix && r <= IncludeDir
}

// A Path is a slash-separated path relative to a Root.  The build directory
// is the working directory of the build executor, so build-tree paths are
// written as their bare relative part.
type Path struct {
	Root Root
	Rel  string
}

// NewPath returns the cleaned path rel under root.
func NewPath(rel string, root Root) Path {
	if rel == "" {
		rel = "."
	}
	return Path{Root: root, Rel: pathpkg.Clean(rel)}
}

// Parent returns the directory containing p.
func (p Path) Parent() Path {
	return Path{Root: p.Root, Rel: pathpkg.Dir(p.Rel)}
}

// Basename returns the last element of p.
func (p Path) Basename() string {
	return pathpkg.Base(p.Rel)
}

// Join returns p extended by the slash-separated elements.
func (p Path) Join(elem ...string) Path {
	return NewPath(pathpkg.Join(append([]string{p.Rel}, elem...)...), p.Root)
}

// Ext returns the file name extension of p, including the dot.
func (p Path) Ext() string {
	return pathpkg.Ext(p.Rel)
}

func (p Path) String() string {
	if p.Rel == "." {
		return "$" + p.Root.String()
	}
	return "$" + p.Root.String() + "/" + p.Rel
}

// InstallPath rebases p under the install root.  Source-tree paths keep only
// their basename, build-tree paths keep their whole relative path.
func InstallPath(p Path, root Root) Path {
	if p.Root == SrcDir {
		return NewPath(p.Basename(), root)
	}
	return NewPath(p.Rel, root)
}
