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
	"path"

	"github.com/metabuild/mbuild/build"
	"github.com/metabuild/mbuild/shell"
)

// msvcCompiler drives cl and clang-cl.
type msvcCompiler struct {
	name    string
	program string
	args    []string
}

func (c *msvcCompiler) Name() string           { return c.name }
func (c *msvcCompiler) CommandVar() string     { return c.name }
func (c *msvcCompiler) Program() string        { return c.program }
func (c *msvcCompiler) GlobalArgs() []string   { return append([]string{"/nologo"}, c.args...) }
func (c *msvcCompiler) DepsFlavor() DepsFlavor { return DepsMSVC }
func (c *msvcCompiler) LibraryArgs() []string  { return nil }

func (c *msvcCompiler) Command(cmd, input, output, args, deps shell.Word) shell.Command {
	result := shell.Command{cmd}
	if args != nil {
		result = append(result, args)
	}
	if deps != nil {
		result = append(result, shell.String("/showIncludes"))
	}
	result = append(result, shell.String("/c"), input)
	return append(result, shell.Concat(shell.String("/Fo"), output))
}

func (c *msvcCompiler) IncludeDir(dir build.Path) []shell.Word {
	return []shell.Word{prefixed("/I", dir)}
}

func (c *msvcCompiler) SystemIncludeDir(dir build.Path) []shell.Word {
	return c.IncludeDir(dir)
}

func (c *msvcCompiler) OutputFile(name, lang string) *build.Target {
	t := build.NewFile(build.KindObject, name+".obj", build.BuildDir)
	t.Lang = lang
	return t
}

// msvcLinker drives link.
type msvcLinker struct {
	name     string
	program  string
	mode     build.LinkMode
	args     []string
	libs     []string
	platform Platform
}

func (l *msvcLinker) Name() string         { return l.name }
func (l *msvcLinker) CommandVar() string   { return l.name }
func (l *msvcLinker) Program() string      { return l.program }
func (l *msvcLinker) LinkVar() string      { return "ld" }
func (l *msvcLinker) Mode() build.LinkMode { return l.mode }
func (l *msvcLinker) GlobalArgs() []string { return append([]string{"/nologo"}, l.args...) }
func (l *msvcLinker) GlobalLibs() []string { return l.libs }

func (l *msvcLinker) ModeArgs() []string {
	if l.mode == build.SharedLibrary {
		return []string{"/DLL"}
	}
	return nil
}

func (l *msvcLinker) Command(cmd, input, output, libs, args shell.Word) shell.Command {
	result := shell.Command{cmd}
	if args != nil {
		result = append(result, args)
	}
	result = append(result, input)
	if libs != nil {
		result = append(result, libs)
	}
	return append(result, shell.Concat(shell.String("/OUT:"), output))
}

func (l *msvcLinker) OutputFile(name string) *build.Target {
	if l.mode != build.SharedLibrary {
		return build.NewFile(build.KindExecutable, name+".exe", build.BuildDir)
	}
	t := build.NewFile(build.KindSharedLib, name+".dll", build.BuildDir)
	t.ImportLib = build.NewFile(build.KindStaticLib, name+".lib", build.BuildDir)
	return t
}

// LibDirs adds the directory of every library, since libraries are passed
// to link by basename.
func (l *msvcLinker) LibDirs(libs []*build.Target) []shell.Word {
	var result []shell.Word
	seen := make(map[build.Path]bool)
	for _, lib := range libs {
		if lib.External {
			continue
		}
		dir := lib.Path
		if lib.Kind != build.KindDirectory {
			dir = lib.LinkFile().Path.Parent()
		}
		if seen[dir] {
			continue
		}
		seen[dir] = true
		result = append(result, prefixed("/LIBPATH:", dir))
	}
	return result
}

func (l *msvcLinker) LinkLib(lib *build.Target) []shell.Word {
	if lib.External {
		return []shell.Word{shell.String(lib.Name + ".lib")}
	}
	return []shell.Word{shell.String(path.Base(lib.LinkFile().Path.Rel))}
}

func (l *msvcLinker) RPath(libs []*build.Target, start build.Path) []shell.Word { return nil }
func (l *msvcLinker) PostInstall(libs []*build.Target) string                  { return "" }

func (l *msvcLinker) ImportLib(target *build.Target) []shell.Word {
	if l.mode != build.SharedLibrary || target.ImportLib == nil {
		return nil
	}
	return []shell.Word{prefixed("/IMPLIB:", target.ImportLib.Path)}
}

// msvcArchiver drives lib.
type msvcArchiver struct {
	program string
	args    []string
}

func (a *msvcArchiver) Name() string         { return "lib" }
func (a *msvcArchiver) CommandVar() string   { return "lib" }
func (a *msvcArchiver) Program() string      { return a.program }
func (a *msvcArchiver) LinkVar() string      { return "lib" }
func (a *msvcArchiver) Mode() build.LinkMode { return build.StaticLibrary }
func (a *msvcArchiver) GlobalArgs() []string { return a.args }
func (a *msvcArchiver) ModeArgs() []string   { return nil }

func (a *msvcArchiver) Command(cmd, input, output, args shell.Word) shell.Command {
	result := shell.Command{cmd}
	if args != nil {
		result = append(result, args)
	}
	result = append(result, input)
	return append(result, shell.Concat(shell.String("/OUT:"), output))
}

func (a *msvcArchiver) OutputFile(name string) *build.Target {
	return build.NewFile(build.KindStaticLib, name+".lib", build.BuildDir)
}
