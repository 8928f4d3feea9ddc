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
	"sort"

	"go.trai.ch/zerr"
)

var (
	ErrNoInputFiles    = zerr.New("link requires at least one input file")
	ErrCommandForm     = zerr.New("exactly one of a command or a command list must be given")
	ErrUnknownLinkMode = zerr.New("unknown link mode")
)

// An Edge is a build action.  The set of edges is closed: Compile, Link,
// Alias and Command.
type Edge interface {
	// Outputs returns the targets the edge produces.
	Outputs() []*Target
	isEdge()
}

// A PICMode is the position-independent code request of a Compile.
type PICMode int

const (
	// PICDefault lets the toolchain decide, which means PIC is enabled when
	// the object ends up in a shared library.
	PICDefault PICMode = iota
	// PICOff forbids position-independent code.
	PICOff
)

// Compile turns one source file into one object file.
type Compile struct {
	File          *Target
	Target        *Target
	Include       []*Target
	SystemInclude []*Target
	Options       []string
	Lang          string
	PIC           PICMode
	ExtraDeps     []*Target

	inSharedLibrary bool
}

// NewCompile returns an edge compiling file into object.
func NewCompile(file, object *Target) *Compile {
	if object.Lang == "" {
		object.Lang = file.Lang
	}
	return &Compile{File: file, Target: object, Lang: file.Lang}
}

// InSharedLibrary reports whether the object is linked into a shared
// library.  It is only meaningful once the Inputs are finalized.
func (c *Compile) InSharedLibrary() bool {
	return c.inSharedLibrary
}

func (c *Compile) Outputs() []*Target { return []*Target{c.Target} }
func (*Compile) isEdge()              {}

// A LinkMode is the kind of artifact a Link produces.
type LinkMode int

const (
	Executable LinkMode = iota
	StaticLibrary
	SharedLibrary
)

var linkModeNames = [...]string{
	Executable:    "executable",
	StaticLibrary: "static_library",
	SharedLibrary: "shared_library",
}

func (m LinkMode) String() string {
	if m < 0 || int(m) >= len(linkModeNames) {
		return "unknown"
	}
	return linkModeNames[m]
}

// Kind returns the target kind of the artifact.
func (m LinkMode) Kind() Kind {
	switch m {
	case StaticLibrary:
		return KindStaticLib
	case SharedLibrary:
		return KindSharedLib
	default:
		return KindExecutable
	}
}

// ParseLinkMode returns the link mode named s.
func ParseLinkMode(s string) (LinkMode, error) {
	for i, name := range linkModeNames {
		if name == s {
			return LinkMode(i), nil
		}
	}
	return 0, zerr.With(zerr.Wrap(ErrUnknownLinkMode, ""), "mode", s)
}

// Link combines object files and libraries into an executable or library.
type Link struct {
	Mode      LinkMode
	Target    *Target
	Files     []*Target
	Libs      []*Target
	Options   []string
	ExtraDeps []*Target
}

// NewLink returns an edge linking files into target.
func NewLink(mode LinkMode, target *Target, files []*Target) (*Link, error) {
	if len(files) == 0 {
		return nil, zerr.With(zerr.Wrap(ErrNoInputFiles, ""), "target", target.String())
	}
	if _, ok := linkModeNamed(mode); !ok {
		return nil, zerr.With(zerr.Wrap(ErrUnknownLinkMode, ""), "mode", int(mode))
	}
	return &Link{Mode: mode, Target: target, Files: files}, nil
}

func linkModeNamed(m LinkMode) (string, bool) {
	if m < 0 || int(m) >= len(linkModeNames) {
		return "", false
	}
	return linkModeNames[m], true
}

// Langs returns the sorted set of languages of the input files.
func (l *Link) Langs() []string {
	seen := make(map[string]bool)
	var langs []string
	for _, f := range l.Files {
		if f.Lang != "" && !seen[f.Lang] {
			seen[f.Lang] = true
			langs = append(langs, f.Lang)
		}
	}
	sort.Strings(langs)
	return langs
}

func (l *Link) Outputs() []*Target { return l.Target.All() }
func (*Link) isEdge()              {}

// Alias is a phony name for a group of dependencies.
type Alias struct {
	Target    *Target
	ExtraDeps []*Target
}

// NewAlias returns an alias named name.
func NewAlias(name string, deps ...*Target) *Alias {
	return &Alias{Target: NewPhony(name), ExtraDeps: deps}
}

func (a *Alias) Outputs() []*Target { return []*Target{a.Target} }
func (*Alias) isEdge()              {}

// Command runs arbitrary commands every time it is built.
type Command struct {
	Target    *Target
	Cmds      [][]string
	Env       map[string]string
	ExtraDeps []*Target
}

// NewCommand returns a command named name.  Exactly one of cmd and cmds must
// be non-nil.
func NewCommand(name string, cmd []string, cmds [][]string) (*Command, error) {
	if (cmd == nil) == (cmds == nil) {
		return nil, zerr.With(zerr.Wrap(ErrCommandForm, ""), "command", name)
	}
	if cmds == nil {
		cmds = [][]string{cmd}
	}
	return &Command{Target: NewPhony(name), Cmds: cmds}, nil
}

func (c *Command) Outputs() []*Target { return []*Target{c.Target} }
func (*Command) isEdge()              {}
