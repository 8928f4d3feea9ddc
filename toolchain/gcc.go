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

package toolchain

import (
	"path/filepath"
	"strings"

	"github.com/metabuild/mbuild/build"
	"github.com/metabuild/mbuild/shell"
)

// gccCompiler drives GCC and compatible compilers such as clang.
type gccCompiler struct {
	name     string
	program  string
	args     []string
	platform Platform
}

func (c *gccCompiler) Name() string           { return c.name }
func (c *gccCompiler) CommandVar() string     { return c.name }
func (c *gccCompiler) Program() string        { return c.program }
func (c *gccCompiler) GlobalArgs() []string   { return c.args }
func (c *gccCompiler) DepsFlavor() DepsFlavor { return DepsGCC }

func (c *gccCompiler) Command(cmd, input, output, args, deps shell.Word) shell.Command {
	result := shell.Command{cmd}
	if args != nil {
		result = append(result, args)
	}
	result = append(result, shell.String("-c"), input)
	if deps != nil {
		result = append(result, shell.String("-MMD"), shell.String("-MF"), deps)
	}
	return append(result, shell.String("-o"), output)
}

func (c *gccCompiler) IncludeDir(dir build.Path) []shell.Word {
	return []shell.Word{prefixed("-I", dir)}
}

func (c *gccCompiler) SystemIncludeDir(dir build.Path) []shell.Word {
	return []shell.Word{shell.String("-isystem"), PathArg(dir)}
}

func (c *gccCompiler) LibraryArgs() []string {
	// Everything is position-independent on Windows.
	if c.platform.Format == PE {
		return nil
	}
	return []string{"-fPIC"}
}

func (c *gccCompiler) OutputFile(name, lang string) *build.Target {
	t := build.NewFile(build.KindObject, name+".o", build.BuildDir)
	t.Lang = lang
	return t
}

// gccLinker links through the compiler driver.
type gccLinker struct {
	name     string
	program  string
	mode     build.LinkMode
	args     []string
	libs     []string
	platform Platform
}

func (l *gccLinker) Name() string         { return l.name }
func (l *gccLinker) CommandVar() string   { return l.name }
func (l *gccLinker) Program() string      { return l.program }
func (l *gccLinker) LinkVar() string      { return "ld" }
func (l *gccLinker) Mode() build.LinkMode { return l.mode }
func (l *gccLinker) GlobalArgs() []string { return l.args }
func (l *gccLinker) GlobalLibs() []string { return l.libs }

func (l *gccLinker) ModeArgs() []string {
	if l.mode == build.SharedLibrary {
		return []string{"-shared"}
	}
	return nil
}

func (l *gccLinker) Command(cmd, input, output, libs, args shell.Word) shell.Command {
	result := shell.Command{cmd}
	if args != nil {
		result = append(result, args)
	}
	result = append(result, input)
	if libs != nil {
		result = append(result, libs)
	}
	return append(result, shell.String("-o"), output)
}

func (l *gccLinker) OutputFile(name string) *build.Target {
	if l.mode != build.SharedLibrary {
		return build.NewFile(build.KindExecutable, name+l.platform.ExecutableExt, build.BuildDir)
	}

	if l.platform.Format == PE {
		t := build.NewFile(build.KindSharedLib, name+l.platform.SharedLibraryExt, build.BuildDir)
		t.ImportLib = build.NewFile(build.KindStaticLib, libName(name, ".dll.a"), build.BuildDir)
		return t
	}
	return build.NewFile(build.KindSharedLib, libName(name, l.platform.SharedLibraryExt), build.BuildDir)
}

func (l *gccLinker) LibDirs(libs []*build.Target) []shell.Word {
	var result []shell.Word
	seen := make(map[build.Path]bool)
	for _, lib := range libs {
		if lib.Kind != build.KindDirectory || seen[lib.Path] {
			continue
		}
		seen[lib.Path] = true
		result = append(result, prefixed("-L", lib.Path))
	}
	return result
}

func (l *gccLinker) LinkLib(lib *build.Target) []shell.Word {
	if lib.External {
		return []shell.Word{shell.String("-l" + lib.Name)}
	}
	return []shell.Word{PathArg(lib.LinkFile().Path)}
}

func (l *gccLinker) RPath(libs []*build.Target, start build.Path) []shell.Word {
	origin := l.platform.origin()
	if origin == "" {
		return nil
	}

	var dirs []string
	seen := make(map[string]bool)
	for _, lib := range libs {
		if lib.Kind != build.KindSharedLib || lib.External || lib.Path.Root != build.BuildDir {
			continue
		}
		dir := origin
		if rel := relPath(start.Rel, lib.Path.Parent().Rel); rel != "." {
			dir += "/" + rel
		}
		if !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}
	if len(dirs) == 0 {
		return nil
	}
	return []shell.Word{shell.String("-Wl,-rpath," + strings.Join(dirs, ":"))}
}

func (l *gccLinker) ImportLib(target *build.Target) []shell.Word {
	if l.mode != build.SharedLibrary || target.ImportLib == nil {
		return nil
	}
	return []shell.Word{prefixed("-Wl,--out-implib=", target.ImportLib.Path)}
}

func (l *gccLinker) PostInstall(libs []*build.Target) string {
	if l.platform.Format != ELF {
		return ""
	}
	if len(l.RPath(libs, build.NewPath(".", build.BuildDir))) == 0 {
		return ""
	}
	return PatchelfName
}

// relPath returns the slash-separated path of target relative to base.  Both
// are relative to the same directory.
func relPath(base, target string) string {
	rel, err := filepath.Rel(filepath.FromSlash(base), filepath.FromSlash(target))
	if err != nil {
		return target
	}
	return filepath.ToSlash(rel)
}
