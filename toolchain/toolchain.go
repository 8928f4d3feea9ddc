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

// Package toolchain builds the command lines of compilers, linkers,
// archivers and the auxiliary tools a generated build invokes.  All
// platform and dialect differences are confined to this package.
package toolchain

import (
	"github.com/metabuild/mbuild/build"
	"github.com/metabuild/mbuild/shell"
	"go.trai.ch/zerr"
)

var (
	ErrToolNotFound       = zerr.New("tool not configured")
	ErrUnknownLanguage    = zerr.New("no compiler for language")
	ErrNoLinkerForMode    = zerr.New("no linker for link mode")
	ErrUnknownPostInstall = zerr.New("unknown post-install tool")
)

// A DepsFlavor is the header dependency tracking a compiler supports.
type DepsFlavor int

const (
	DepsNone DepsFlavor = iota
	// DepsGCC compilers write a Makefile-style side-car depfile.
	DepsGCC
	// DepsMSVC compilers print included headers on standard output.
	DepsMSVC
)

// A Tool is an external program referenced from the build file through a
// command variable.
type Tool interface {
	// CommandVar is the name of the build file variable holding the
	// program.
	CommandVar() string
	// Program is the shell text invoking the tool.
	Program() string
}

// A Compiler turns one source file into one object file.
type Compiler interface {
	Tool
	// Name is the rule name of the compiler and the prefix of its flags
	// variables.
	Name() string
	GlobalArgs() []string
	DepsFlavor() DepsFlavor
	// Command returns the compile command.  deps is the depfile for DepsGCC
	// compilers; for DepsMSVC compilers a non-nil deps enables header
	// reporting.
	Command(cmd, input, output, args, deps shell.Word) shell.Command
	IncludeDir(dir build.Path) []shell.Word
	SystemIncludeDir(dir build.Path) []shell.Word
	// LibraryArgs are the arguments of objects linked into a shared
	// library.
	LibraryArgs() []string
	// OutputFile returns the object file compiled from name, a build-tree
	// path without extension.
	OutputFile(name, lang string) *build.Target
}

// A LinkBuilder is the part shared by linkers and archivers.
type LinkBuilder interface {
	Tool
	Name() string
	// LinkVar is the prefix of the link flags variables.
	LinkVar() string
	Mode() build.LinkMode
	GlobalArgs() []string
	ModeArgs() []string
	// OutputFile returns the artifact linked from name, a build-tree path
	// without platform prefix or suffix.
	OutputFile(name string) *build.Target
}

// An Archiver bundles object files into a static library.
type Archiver interface {
	LinkBuilder
	Command(cmd, input, output, args shell.Word) shell.Command
}

// A Linker produces executables and shared libraries.
type Linker interface {
	LinkBuilder
	Command(cmd, input, output, libs, args shell.Word) shell.Command
	GlobalLibs() []string
	LibDirs(libs []*build.Target) []shell.Word
	LinkLib(lib *build.Target) []shell.Word
	// RPath returns the arguments that let an artifact in start find the
	// built shared libraries among libs at run time.
	RPath(libs []*build.Target, start build.Path) []shell.Word
	ImportLib(target *build.Target) []shell.Word
	// PostInstall names the tool that must fix up the installed artifact,
	// or returns "" when none is needed.
	PostInstall(libs []*build.Target) string
}

// PathArg returns p as a command argument.  Build-tree paths are relative to
// the working directory of the build, other roots go through their path
// variable.
func PathArg(p build.Path) shell.Word {
	if p.Root == build.BuildDir {
		return shell.String(p.Rel)
	}
	if p.Rel == "." {
		return shell.Var(p.Root.String())
	}
	return shell.Concat(shell.Var(p.Root.String()), shell.String("/"+p.Rel))
}

func prefixed(prefix string, p build.Path) shell.Word {
	return shell.Concat(shell.String(prefix), PathArg(p))
}
