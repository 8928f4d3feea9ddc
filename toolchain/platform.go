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
)

// An ObjectFormat is the binary format of a platform.
type ObjectFormat int

const (
	ELF ObjectFormat = iota
	MachO
	PE
)

// A Platform describes the naming of the artifacts built for a target
// operating system.
type Platform struct {
	Name             string
	Format           ObjectFormat
	ExecutableExt    string
	SharedLibraryExt string
}

// PlatformNamed returns the platform named name, using GOOS names.  Any
// platform that is not Darwin or Windows is assumed to use ELF.
func PlatformNamed(name string) Platform {
	switch name {
	case "darwin", "ios":
		return Platform{Name: name, Format: MachO, SharedLibraryExt: ".dylib"}
	case "windows":
		return Platform{Name: name, Format: PE, ExecutableExt: ".exe", SharedLibraryExt: ".dll"}
	default:
		return Platform{Name: name, Format: ELF, SharedLibraryExt: ".so"}
	}
}

// origin returns the token the dynamic loader substitutes with the
// directory of the loading binary.
func (p Platform) origin() string {
	switch p.Format {
	case MachO:
		return "@loader_path"
	case ELF:
		return "$ORIGIN"
	default:
		return ""
	}
}

// libName returns the build-tree path of a library called name, with the
// "lib" prefix on its basename.
func libName(name, suffix string) string {
	dir, base := path.Split(name)
	return dir + "lib" + base + suffix
}
