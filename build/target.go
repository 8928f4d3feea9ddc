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

// A Kind classifies a Target.
type Kind int

const (
	KindFile Kind = iota
	KindSource
	KindHeader
	KindHeaderDir
	KindObject
	KindExecutable
	KindStaticLib
	KindSharedLib
	KindDirectory
	KindPhony
)

var kindNames = [...]string{
	KindFile:       "file",
	KindSource:     "source",
	KindHeader:     "header",
	KindHeaderDir:  "header_directory",
	KindObject:     "object",
	KindExecutable: "executable",
	KindStaticLib:  "static_library",
	KindSharedLib:  "shared_library",
	KindDirectory:  "directory",
	KindPhony:      "phony",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// IsLibrary reports whether targets of kind k can be linked against.
func (k Kind) IsLibrary() bool {
	return k == KindStaticLib || k == KindSharedLib
}

// An InstallKind selects how an installed file is copied.
type InstallKind int

const (
	InstallData InstallKind = iota
	InstallProgram
)

// An EdgeID identifies an Edge registered with an Inputs.
type EdgeID int

const noCreator EdgeID = -1

// A Target is a build output or a pre-existing input.  A target is either a
// file, identified by its Path, or a phony name.
type Target struct {
	Kind Kind
	Path Path
	Name string

	// Lang is the source language of source and object files.
	Lang string

	// External marks a system library that is found by the linker's search
	// path rather than by its file path.
	External bool

	// ImportLib is the link-time stub of a shared library on platforms that
	// split it from the runtime binary.
	ImportLib *Target

	// PostInstall names the tool that must run on the installed copy of the
	// target, if any.
	PostInstall string

	// creator holds the producing EdgeID plus one, so that the zero value
	// means no creator.
	creator int
}

// NewFile returns a pre-existing file target.
func NewFile(kind Kind, rel string, root Root) *Target {
	return &Target{Kind: kind, Path: NewPath(rel, root)}
}

// NewSource returns a source file in the source tree.
func NewSource(rel, lang string) *Target {
	t := NewFile(KindSource, rel, SrcDir)
	t.Lang = lang
	return t
}

// NewPhony returns a phony target.
func NewPhony(name string) *Target {
	return &Target{Kind: KindPhony, Name: name}
}

// NewSystemLibrary returns an external library found through the linker's
// search path.
func NewSystemLibrary(name string) *Target {
	return &Target{Kind: KindSharedLib, Name: name, External: true}
}

// Creator returns the edge that produces t, if any.
func (t *Target) Creator() (EdgeID, bool) {
	if t.creator == 0 {
		return noCreator, false
	}
	return EdgeID(t.creator - 1), true
}

// Built reports whether some edge produces t.
func (t *Target) Built() bool {
	_, ok := t.Creator()
	return ok
}

// IsPhony reports whether t names no file.
func (t *Target) IsPhony() bool {
	return t.Kind == KindPhony
}

// All returns t followed by the files produced alongside it.
func (t *Target) All() []*Target {
	if t.ImportLib != nil {
		return []*Target{t, t.ImportLib}
	}
	return []*Target{t}
}

// LinkFile returns the file passed to the linker when linking against t.
func (t *Target) LinkFile() *Target {
	if t.ImportLib != nil {
		return t.ImportLib
	}
	return t
}

// InstallKind returns how t is installed.
func (t *Target) InstallKind() InstallKind {
	switch t.Kind {
	case KindExecutable, KindSharedLib:
		return InstallProgram
	default:
		return InstallData
	}
}

// InstallRoot returns the install root t is installed under.
func (t *Target) InstallRoot() Root {
	switch t.Kind {
	case KindExecutable:
		return BinDir
	case KindStaticLib, KindSharedLib:
		return LibDir
	case KindHeader, KindHeaderDir:
		return IncludeDir
	default:
		return Prefix
	}
}

func (t *Target) String() string {
	if t.IsPhony() || t.Path.Rel == "" {
		return t.Name
	}
	return t.Path.String()
}
