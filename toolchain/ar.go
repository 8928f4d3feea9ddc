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

// arArchiver creates static libraries with ar.
type arArchiver struct {
	program string
	args    []string
}

func (a *arArchiver) Name() string         { return "ar" }
func (a *arArchiver) CommandVar() string   { return "ar" }
func (a *arArchiver) Program() string      { return a.program }
func (a *arArchiver) LinkVar() string      { return "ar" }
func (a *arArchiver) Mode() build.LinkMode { return build.StaticLibrary }
func (a *arArchiver) GlobalArgs() []string { return a.args }
func (a *arArchiver) ModeArgs() []string   { return nil }

func (a *arArchiver) Command(cmd, input, output, args shell.Word) shell.Command {
	result := shell.Command{cmd}
	if args != nil {
		result = append(result, args)
	}
	return append(result, output, input)
}

func (a *arArchiver) OutputFile(name string) *build.Target {
	return build.NewFile(build.KindStaticLib, libName(name, ".a"), build.BuildDir)
}
