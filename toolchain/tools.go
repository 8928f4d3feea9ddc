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
	"github.com/metabuild/mbuild/build"
	"github.com/metabuild/mbuild/shell"
)

// PatchelfName is the name of the post-install tool that removes
// build-tree run paths from installed ELF binaries.
const PatchelfName = "patchelf"

// Installer copies files into the install tree.
type Installer struct {
	program string
}

// NewInstaller returns an Installer running program.
func NewInstaller(program string) *Installer {
	return &Installer{program: program}
}

func (i *Installer) CommandVar() string { return "install" }
func (i *Installer) Program() string    { return i.program }

// DataArgs are added for files that must not be executable.
func (i *Installer) DataArgs() []string {
	return []string{"-m", "644"}
}

// Command copies src to dst, creating the missing parents of dst.
func (i *Installer) Command(cmd shell.Word, src, dst build.Path) shell.Command {
	return shell.Command{cmd, shell.String("-D"), PathArg(src), PathArg(dst)}
}

// DirInstaller copies whole directories into the install tree.
type DirInstaller struct {
	program string
}

// NewDirInstaller returns a DirInstaller creating directories with program.
func NewDirInstaller(program string) *DirInstaller {
	return &DirInstaller{program: program}
}

func (d *DirInstaller) CommandVar() string { return "mkdir_p" }
func (d *DirInstaller) Program() string    { return d.program }

// CopyCommand creates dst and copies the directory src into it.
func (d *DirInstaller) CopyCommand(cmd shell.Word, src, dst build.Path) []shell.Command {
	return []shell.Command{
		{cmd, PathArg(dst)},
		{shell.String("cp"), shell.String("-R"), PathArg(src), PathArg(dst)},
	}
}

// EnvSetter is the helper that binds environment variables for a single
// command on platforms whose shell has no syntax for it.
type EnvSetter struct {
	program string
}

// NewEnvSetter returns an EnvSetter running program.
func NewEnvSetter(program string) *EnvSetter {
	return &EnvSetter{program: program}
}

func (e *EnvSetter) CommandVar() string { return "setenv" }
func (e *EnvSetter) Program() string    { return e.program }

// PostInstaller fixes up an installed binary.
type PostInstaller struct {
	name    string
	program string
}

// NewPostInstaller returns the post-install tool name running program.
func NewPostInstaller(name, program string) *PostInstaller {
	return &PostInstaller{name: name, program: program}
}

func (p *PostInstaller) CommandVar() string { return p.name }
func (p *PostInstaller) Program() string    { return p.program }

// Command removes the run path of the installed copy of target.
func (p *PostInstaller) Command(cmd shell.Word, target *build.Target) shell.Command {
	dst := build.InstallPath(target.Path, target.InstallRoot())
	return shell.Command{cmd, shell.String("--remove-rpath"), PathArg(dst)}
}

// Generator re-runs the generator to rebuild the build file.
type Generator struct {
	program string
}

// NewGenerator returns a Generator running program.
func NewGenerator(program string) *Generator {
	return &Generator{program: program}
}

func (g *Generator) CommandVar() string { return "mbuild" }
func (g *Generator) Program() string    { return g.program }

// Command regenerates the build directory the build runs in.
func (g *Generator) Command(cmd shell.Word) shell.Command {
	return shell.Command{cmd, shell.String("regenerate"), PathArg(build.NewPath(".", build.BuildDir))}
}
