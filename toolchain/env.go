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
	"strings"

	"github.com/metabuild/mbuild/build"
	"github.com/metabuild/mbuild/config"
	"github.com/metabuild/mbuild/shell"
	"go.trai.ch/zerr"
)

// Environment is the toolchain lookup used while emitting a build file.
//
//go:generate mockgen -source=env.go -destination=mocks/mock_environment.go -package=mocks
type Environment interface {
	// Dialect is the quoting dialect of the generated commands.
	Dialect() shell.Dialect
	Platform() Platform

	Compiler(lang string) (Compiler, error)
	// Linker returns an Archiver for static libraries and a Linker
	// otherwise.
	Linker(langs []string, mode build.LinkMode) (LinkBuilder, error)

	Installer() *Installer
	DirInstaller() *DirInstaller
	// EnvSetter returns ErrToolNotFound when no helper is configured.
	EnvSetter() (*EnvSetter, error)
	PostInstaller(name string) (*PostInstaller, error)
	Generator() *Generator

	// RunPath returns p as the program of a command.
	RunPath(p build.Path) shell.Word
	// Dirs returns the values of the path variables: the source directory
	// as seen from the build directory and the install roots.
	Dirs() map[build.Root]string
	// Manifest is the build description, which the build file is
	// regenerated from.
	Manifest() build.Path
	BuildDir() string
	NinjaVersion() string
	// LinkPoolDepth limits concurrent links when non-zero.
	LinkPoolDepth() int
}

type family int

const (
	familyGCC family = iota
	familyMSVC
)

var languages = map[string]string{
	"c":   "cc",
	"c++": "cxx",
}

// Env is the Environment described by a configuration.
type Env struct {
	cfg      *config.Config
	dialect  shell.Dialect
	platform Platform
	family   family
	srcdir   string
}

var _ Environment = (*Env)(nil)

// NewEnv returns the Environment of cfg.  The toolchain family is chosen
// from the configured C compiler.
func NewEnv(cfg *config.Config) (*Env, error) {
	dialect, err := shell.Lookup(cfg.ShellName())
	if err != nil {
		return nil, err
	}
	srcdir, err := cfg.SrcDirFromBuildDir()
	if err != nil {
		return nil, zerr.Wrap(err, "failed to resolve srcdir")
	}

	e := &Env{
		cfg:      cfg,
		dialect:  dialect,
		platform: PlatformNamed(cfg.Platform),
		srcdir:   srcdir,
	}
	if isMSVC(dialect, cfg.Tools.CC) {
		e.family = familyMSVC
	}
	return e, nil
}

func isMSVC(d shell.Dialect, cc string) bool {
	words := d.Split(cc)
	if len(words) == 0 {
		return false
	}
	base := words[0][strings.LastIndexAny(words[0], `/\`)+1:]
	base = strings.TrimSuffix(strings.ToLower(base), ".exe")
	return base == "cl" || base == "clang-cl"
}

func (e *Env) Dialect() shell.Dialect { return e.dialect }
func (e *Env) Platform() Platform     { return e.platform }
func (e *Env) BuildDir() string       { return e.cfg.BuildDir }
func (e *Env) NinjaVersion() string   { return e.cfg.NinjaVersion }
func (e *Env) LinkPoolDepth() int     { return e.cfg.LinkPool }

func (e *Env) Manifest() build.Path {
	return build.NewPath(e.cfg.Manifest, build.SrcDir)
}

func (e *Env) split(s string) []string {
	return e.dialect.Split(s)
}

func (e *Env) Compiler(lang string) (Compiler, error) {
	name, ok := languages[lang]
	if !ok {
		return nil, zerr.With(zerr.Wrap(ErrUnknownLanguage, ""), "lang", lang)
	}
	program, args := e.compilerTool(name)

	if e.family == familyMSVC {
		return &msvcCompiler{name: name, program: program, args: args}, nil
	}
	return &gccCompiler{name: name, program: program, args: args, platform: e.platform}, nil
}

func (e *Env) compilerTool(name string) (string, []string) {
	if name == "cxx" {
		return e.cfg.Tools.CXX, e.split(e.cfg.Tools.CXXFlags)
	}
	return e.cfg.Tools.CC, e.split(e.cfg.Tools.CFlags)
}

func (e *Env) Linker(langs []string, mode build.LinkMode) (LinkBuilder, error) {
	tools := e.cfg.Tools

	switch mode {
	case build.StaticLibrary:
		if e.family == familyMSVC {
			return &msvcArchiver{program: orDefault(tools.AR, "lib"), args: e.split(tools.ARFlags)}, nil
		}
		return &arArchiver{program: orDefault(tools.AR, "ar"), args: e.split(orDefault(tools.ARFlags, "cru"))}, nil

	case build.Executable, build.SharedLibrary:
		name := "cc"
		for _, lang := range langs {
			if lang == "c++" {
				name = "cxx"
			}
		}
		driver, _ := e.compilerTool(name)
		args, libs := e.split(tools.LDFlags), e.split(tools.LDLibs)

		if e.family == familyMSVC {
			return &msvcLinker{
				name: "link_" + name, program: orDefault(tools.LD, "link"), mode: mode,
				args: args, libs: libs, platform: e.platform,
			}, nil
		}
		return &gccLinker{
			name: "link_" + name, program: orDefault(tools.LD, driver), mode: mode,
			args: args, libs: libs, platform: e.platform,
		}, nil

	default:
		return nil, zerr.With(zerr.Wrap(ErrNoLinkerForMode, ""), "mode", mode.String())
	}
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func (e *Env) Installer() *Installer {
	return NewInstaller(e.cfg.Tools.Install)
}

func (e *Env) DirInstaller() *DirInstaller {
	return NewDirInstaller(e.cfg.Tools.MkdirP)
}

func (e *Env) EnvSetter() (*EnvSetter, error) {
	if e.cfg.Tools.SetEnv == "" {
		return nil, zerr.With(zerr.Wrap(ErrToolNotFound, ""), "tool", "setenv")
	}
	return NewEnvSetter(e.cfg.Tools.SetEnv), nil
}

func (e *Env) PostInstaller(name string) (*PostInstaller, error) {
	if name != PatchelfName {
		return nil, zerr.With(zerr.Wrap(ErrUnknownPostInstall, ""), "tool", name)
	}
	if e.cfg.Tools.Patchelf == "" {
		return nil, zerr.With(zerr.Wrap(ErrToolNotFound, ""), "tool", name)
	}
	return NewPostInstaller(name, e.cfg.Tools.Patchelf), nil
}

func (e *Env) Generator() *Generator {
	return NewGenerator(e.cfg.Tools.Generator)
}

func (e *Env) RunPath(p build.Path) shell.Word {
	// A bare name would be looked up in PATH by a POSIX shell.
	if p.Root == build.BuildDir && e.dialect == shell.Posix && !strings.Contains(p.Rel, "/") {
		return shell.String("./" + p.Rel)
	}
	return PathArg(p)
}

func (e *Env) Dirs() map[build.Root]string {
	return map[build.Root]string{
		build.SrcDir:     e.srcdir,
		build.Prefix:     e.cfg.Install.Prefix,
		build.BinDir:     e.cfg.Install.BinDir,
		build.LibDir:     e.cfg.Install.LibDir,
		build.IncludeDir: e.cfg.Install.IncludeDir,
	}
}
