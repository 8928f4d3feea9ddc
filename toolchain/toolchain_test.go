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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metabuild/mbuild/build"
	"github.com/metabuild/mbuild/config"
	"github.com/metabuild/mbuild/shell"
)

func newTestEnv(t *testing.T, overrides map[string]interface{}) *Env {
	t.Helper()
	if overrides == nil {
		overrides = map[string]interface{}{}
	}
	if _, ok := overrides["platform"]; !ok {
		overrides["platform"] = "linux"
	}
	cfg, err := config.Load(config.Options{Environ: []string{}, Overrides: overrides})
	require.NoError(t, err)
	env, err := NewEnv(cfg)
	require.NoError(t, err)
	return env
}

func msvcOverrides() map[string]interface{} {
	return map[string]interface{}{
		"platform":  "windows",
		"tools.cc":  "cl",
		"tools.cxx": "cl",
	}
}

// str joins the readable forms of words with spaces.
func str(words ...shell.Word) string {
	parts := make([]string, len(words))
	for i, w := range words {
		parts[i] = w.String()
	}
	return strings.Join(parts, " ")
}

func depfile() shell.Word {
	return shell.Concat(shell.Var("out"), shell.Literal(".d"))
}

func TestGCCCompiler(t *testing.T) {
	env := newTestEnv(t, map[string]interface{}{"tools.cflags": "-O2 -Wall"})

	cc, err := env.Compiler("c")
	require.NoError(t, err)
	assert.Equal(t, "cc", cc.Name())
	assert.Equal(t, "cc", cc.CommandVar())
	assert.Equal(t, "cc", cc.Program())
	assert.Equal(t, []string{"-O2", "-Wall"}, cc.GlobalArgs())
	assert.Equal(t, DepsGCC, cc.DepsFlavor())
	assert.Equal(t, []string{"-fPIC"}, cc.LibraryArgs())

	cmd := cc.Command(shell.Var("cc"), shell.Var("in"), shell.Var("out"), shell.Var("ccflags"), depfile())
	assert.Equal(t, "${cc} ${ccflags} -c ${in} -MMD -MF ${out}.d -o ${out}", str(cmd...))

	cmd = cc.Command(shell.Var("cc"), shell.Var("in"), shell.Var("out"), nil, nil)
	assert.Equal(t, "${cc} -c ${in} -o ${out}", str(cmd...))

	include := build.NewPath("include", build.SrcDir)
	assert.Equal(t, "-I${srcdir}/include", str(cc.IncludeDir(include)...))
	assert.Equal(t, "-isystem ${srcdir}/include", str(cc.SystemIncludeDir(include)...))
	assert.Equal(t, "-Igen", str(cc.IncludeDir(build.NewPath("gen", build.BuildDir))...))

	obj := cc.OutputFile("src/main", "c")
	assert.Equal(t, build.KindObject, obj.Kind)
	assert.Equal(t, build.NewPath("src/main.o", build.BuildDir), obj.Path)
	assert.Equal(t, "c", obj.Lang)

	cxx, err := env.Compiler("c++")
	require.NoError(t, err)
	assert.Equal(t, "cxx", cxx.Name())
	assert.Equal(t, "c++", cxx.Program())

	_, err = env.Compiler("fortran")
	assert.ErrorIs(t, err, ErrUnknownLanguage)
}

func TestGCCCompilerOnWindows(t *testing.T) {
	env := newTestEnv(t, map[string]interface{}{"platform": "windows", "tools.cc": "gcc"})
	cc, err := env.Compiler("c")
	require.NoError(t, err)
	assert.Empty(t, cc.LibraryArgs())
}

func TestGCCLinker(t *testing.T) {
	env := newTestEnv(t, map[string]interface{}{"tools.ldflags": "-static-libgcc", "tools.ldlibs": "-lm"})

	lb, err := env.Linker([]string{"c", "c++"}, build.Executable)
	require.NoError(t, err)
	ld, ok := lb.(Linker)
	require.True(t, ok)
	assert.Equal(t, "link_cxx", ld.Name())
	assert.Equal(t, "link_cxx", ld.CommandVar())
	assert.Equal(t, "c++", ld.Program())
	assert.Equal(t, "ld", ld.LinkVar())
	assert.Equal(t, build.Executable, ld.Mode())
	assert.Equal(t, []string{"-static-libgcc"}, ld.GlobalArgs())
	assert.Equal(t, []string{"-lm"}, ld.GlobalLibs())
	assert.Empty(t, ld.ModeArgs())

	cmd := ld.Command(shell.Var("link_cxx"), shell.Var("in"), shell.Var("output"), shell.Var("ldlibs"), shell.Var("ldflags"))
	assert.Equal(t, "${link_cxx} ${ldflags} ${in} ${ldlibs} -o ${output}", str(cmd...))

	exe := ld.OutputFile("bin/app")
	assert.Equal(t, build.KindExecutable, exe.Kind)
	assert.Equal(t, build.NewPath("bin/app", build.BuildDir), exe.Path)

	lb, err = env.Linker([]string{"c"}, build.SharedLibrary)
	require.NoError(t, err)
	so := lb.(Linker)
	assert.Equal(t, "link_cc", so.Name())
	assert.Equal(t, "cc", so.Program())
	assert.Equal(t, []string{"-shared"}, so.ModeArgs())

	lib := so.OutputFile("sub/foo")
	assert.Equal(t, build.KindSharedLib, lib.Kind)
	assert.Equal(t, build.NewPath("sub/libfoo.so", build.BuildDir), lib.Path)
	assert.Nil(t, lib.ImportLib)
	assert.Empty(t, so.ImportLib(lib))

	m := build.NewSystemLibrary("m")
	libdir := build.NewFile(build.KindDirectory, "third_party/lib", build.SrcDir)
	assert.Equal(t, "-lm", str(so.LinkLib(m)...))
	assert.Equal(t, "sub/libfoo.so", str(so.LinkLib(lib)...))
	assert.Equal(t, "-L${srcdir}/third_party/lib", str(so.LibDirs([]*build.Target{m, lib, libdir, libdir})...))

	root := build.NewPath(".", build.BuildDir)
	assert.Equal(t, "-Wl,-rpath,$ORIGIN/sub", str(so.RPath([]*build.Target{m, lib}, root)...))
	assert.Equal(t, "-Wl,-rpath,$ORIGIN", str(so.RPath([]*build.Target{lib}, build.NewPath("sub", build.BuildDir))...))
	assert.Equal(t, "-Wl,-rpath,$ORIGIN/../sub", str(so.RPath([]*build.Target{lib}, build.NewPath("bin", build.BuildDir))...))
	assert.Empty(t, so.RPath([]*build.Target{m}, root))

	assert.Equal(t, PatchelfName, so.PostInstall([]*build.Target{lib}))
	assert.Equal(t, "", so.PostInstall([]*build.Target{m}))
}

func TestGCCLinkerPlatforms(t *testing.T) {
	darwin := newTestEnv(t, map[string]interface{}{"platform": "darwin"})
	lb, err := darwin.Linker([]string{"c"}, build.SharedLibrary)
	require.NoError(t, err)
	ld := lb.(Linker)
	lib := ld.OutputFile("foo")
	assert.Equal(t, "libfoo.dylib", lib.Path.Rel)
	assert.Equal(t, "-Wl,-rpath,@loader_path", str(ld.RPath([]*build.Target{lib}, build.NewPath(".", build.BuildDir))...))
	assert.Equal(t, "", ld.PostInstall([]*build.Target{lib}))

	windows := newTestEnv(t, map[string]interface{}{"platform": "windows", "tools.cc": "gcc"})
	lb, err = windows.Linker([]string{"c"}, build.SharedLibrary)
	require.NoError(t, err)
	ld = lb.(Linker)
	lib = ld.OutputFile("foo")
	assert.Equal(t, "foo.dll", lib.Path.Rel)
	require.NotNil(t, lib.ImportLib)
	assert.Equal(t, "libfoo.dll.a", lib.ImportLib.Path.Rel)
	assert.Equal(t, "-Wl,--out-implib=libfoo.dll.a", str(ld.ImportLib(lib)...))
	assert.Equal(t, "libfoo.dll.a", str(ld.LinkLib(lib)...))
	assert.Empty(t, ld.RPath([]*build.Target{lib}, build.NewPath(".", build.BuildDir)))

	lb, err = windows.Linker([]string{"c"}, build.Executable)
	require.NoError(t, err)
	assert.Equal(t, "app.exe", lb.OutputFile("app").Path.Rel)
}

func TestArArchiver(t *testing.T) {
	env := newTestEnv(t, nil)
	lb, err := env.Linker([]string{"c++"}, build.StaticLibrary)
	require.NoError(t, err)
	ar, ok := lb.(Archiver)
	require.True(t, ok)

	assert.Equal(t, "ar", ar.Name())
	assert.Equal(t, "ar", ar.Program())
	assert.Equal(t, "ar", ar.LinkVar())
	assert.Equal(t, build.StaticLibrary, ar.Mode())
	assert.Equal(t, []string{"cru"}, ar.GlobalArgs())

	cmd := ar.Command(shell.Var("ar"), shell.Var("in"), shell.Var("output"), shell.Var("arflags"))
	assert.Equal(t, "${ar} ${arflags} ${output} ${in}", str(cmd...))

	lib := ar.OutputFile("sub/util")
	assert.Equal(t, build.KindStaticLib, lib.Kind)
	assert.Equal(t, "sub/libutil.a", lib.Path.Rel)

	env = newTestEnv(t, map[string]interface{}{"tools.ar": "gcc-ar", "tools.arflags": "rcs"})
	lb, err = env.Linker(nil, build.StaticLibrary)
	require.NoError(t, err)
	assert.Equal(t, "gcc-ar", lb.Program())
	assert.Equal(t, []string{"rcs"}, lb.GlobalArgs())

	_, err = env.Linker(nil, build.LinkMode(7))
	assert.ErrorIs(t, err, ErrNoLinkerForMode)
}

func TestMSVCCompiler(t *testing.T) {
	env := newTestEnv(t, msvcOverrides())
	assert.Equal(t, shell.Windows, env.Dialect())

	cc, err := env.Compiler("c")
	require.NoError(t, err)
	assert.Equal(t, "cc", cc.Name())
	assert.Equal(t, "cl", cc.Program())
	assert.Equal(t, []string{"/nologo"}, cc.GlobalArgs())
	assert.Equal(t, DepsMSVC, cc.DepsFlavor())
	assert.Empty(t, cc.LibraryArgs())

	cmd := cc.Command(shell.Var("cc"), shell.Var("in"), shell.Var("out"), shell.Var("ccflags"), shell.Literal(""))
	assert.Equal(t, "${cc} ${ccflags} /showIncludes /c ${in} /Fo${out}", str(cmd...))
	cmd = cc.Command(shell.Var("cc"), shell.Var("in"), shell.Var("out"), shell.Var("ccflags"), nil)
	assert.Equal(t, "${cc} ${ccflags} /c ${in} /Fo${out}", str(cmd...))

	include := build.NewPath("include", build.SrcDir)
	assert.Equal(t, "/I${srcdir}/include", str(cc.IncludeDir(include)...))
	assert.Equal(t, "/I${srcdir}/include", str(cc.SystemIncludeDir(include)...))
	assert.Equal(t, "main.obj", cc.OutputFile("main", "c").Path.Rel)
}

func TestMSVCLinker(t *testing.T) {
	env := newTestEnv(t, msvcOverrides())

	lb, err := env.Linker([]string{"c"}, build.Executable)
	require.NoError(t, err)
	exe := lb.(Linker)
	assert.Equal(t, "link_cc", exe.Name())
	assert.Equal(t, "link", exe.Program())
	assert.Equal(t, []string{"/nologo"}, exe.GlobalArgs())
	assert.Equal(t, "app.exe", exe.OutputFile("app").Path.Rel)

	cmd := exe.Command(shell.Var("link_cc"), shell.Var("in"), shell.Var("output"), shell.Var("ldlibs"), shell.Var("ldflags"))
	assert.Equal(t, "${link_cc} ${ldflags} ${in} ${ldlibs} /OUT:${output}", str(cmd...))

	lb, err = env.Linker([]string{"c"}, build.SharedLibrary)
	require.NoError(t, err)
	dll := lb.(Linker)
	assert.Equal(t, []string{"/DLL"}, dll.ModeArgs())

	lib := dll.OutputFile("sub/foo")
	assert.Equal(t, "sub/foo.dll", lib.Path.Rel)
	require.NotNil(t, lib.ImportLib)
	assert.Equal(t, "sub/foo.lib", lib.ImportLib.Path.Rel)
	assert.Equal(t, "/IMPLIB:sub/foo.lib", str(dll.ImportLib(lib)...))

	user32 := build.NewSystemLibrary("user32")
	assert.Equal(t, "foo.lib", str(dll.LinkLib(lib)...))
	assert.Equal(t, "user32.lib", str(dll.LinkLib(user32)...))
	assert.Equal(t, "/LIBPATH:sub", str(dll.LibDirs([]*build.Target{lib, user32})...))
	assert.Empty(t, dll.RPath([]*build.Target{lib}, build.NewPath(".", build.BuildDir)))
	assert.Equal(t, "", dll.PostInstall([]*build.Target{lib}))

	lb, err = env.Linker([]string{"c"}, build.StaticLibrary)
	require.NoError(t, err)
	ar := lb.(Archiver)
	assert.Equal(t, "lib", ar.Name())
	assert.Equal(t, "lib", ar.Program())
	assert.Equal(t, "lib", ar.LinkVar())
	assert.Empty(t, ar.GlobalArgs())
	assert.Equal(t, "util.lib", ar.OutputFile("util").Path.Rel)

	cmd = ar.Command(shell.Var("lib"), shell.Var("in"), shell.Var("output"), shell.Var("libflags"))
	assert.Equal(t, "${lib} ${libflags} ${in} /OUT:${output}", str(cmd...))
}

func TestIsMSVC(t *testing.T) {
	assert.True(t, isMSVC(shell.Windows, `C:\LLVM\bin\clang-cl.exe`))
	assert.True(t, isMSVC(shell.Windows, `"C:\Program Files\MSVC\CL.EXE" /nologo`))
	assert.True(t, isMSVC(shell.Posix, "/usr/bin/cl"))
	assert.False(t, isMSVC(shell.Posix, "ccache gcc"))
	assert.False(t, isMSVC(shell.Posix, "clang"))
	assert.False(t, isMSVC(shell.Posix, ""))
}

func TestTools(t *testing.T) {
	env := newTestEnv(t, nil)

	install := env.Installer()
	assert.Equal(t, "install", install.CommandVar())
	assert.Equal(t, "install", install.Program())
	assert.Equal(t, []string{"-m", "644"}, install.DataArgs())
	src := build.NewPath("doc/README.md", build.SrcDir)
	cmd := install.Command(shell.Var("install_data"), src, build.InstallPath(src, build.Prefix))
	assert.Equal(t, "${install_data} -D ${srcdir}/doc/README.md ${prefix}/README.md", str(cmd...))

	mkdir := env.DirInstaller()
	assert.Equal(t, "mkdir_p", mkdir.CommandVar())
	assert.Equal(t, "mkdir -p", mkdir.Program())
	include := build.NewPath("include", build.SrcDir)
	cmds := mkdir.CopyCommand(shell.Var("mkdir_p"), include, build.InstallPath(include.Parent(), build.IncludeDir))
	require.Len(t, cmds, 2)
	assert.Equal(t, "${mkdir_p} ${includedir}", str(cmds[0]...))
	assert.Equal(t, "cp -R ${srcdir}/include ${includedir}", str(cmds[1]...))

	patchelf, err := env.PostInstaller(PatchelfName)
	require.NoError(t, err)
	assert.Equal(t, "patchelf", patchelf.CommandVar())
	lib := build.NewFile(build.KindSharedLib, "sub/libfoo.so", build.BuildDir)
	assert.Equal(t, "${patchelf} --remove-rpath ${libdir}/sub/libfoo.so", str(patchelf.Command(shell.Var("patchelf"), lib)...))

	gen := env.Generator()
	assert.Equal(t, "mbuild", gen.CommandVar())
	assert.Equal(t, "mbuild", gen.Program())
	assert.Equal(t, "${mbuild} regenerate .", str(gen.Command(shell.Var("mbuild"))...))

	_, err = env.PostInstaller("strip")
	assert.ErrorIs(t, err, ErrUnknownPostInstall)

	_, err = env.EnvSetter()
	assert.ErrorIs(t, err, ErrToolNotFound)

	env = newTestEnv(t, map[string]interface{}{"tools.setenv": "setenv", "tools.patchelf": ""})
	setenv, err := env.EnvSetter()
	require.NoError(t, err)
	assert.Equal(t, "setenv", setenv.CommandVar())
	assert.Equal(t, "setenv", setenv.Program())

	_, err = env.PostInstaller(PatchelfName)
	assert.ErrorIs(t, err, ErrToolNotFound)
}

func TestRunPath(t *testing.T) {
	posix := newTestEnv(t, nil)
	assert.Equal(t, "./test", posix.RunPath(build.NewPath("test", build.BuildDir)).String())
	assert.Equal(t, "sub/test", posix.RunPath(build.NewPath("sub/test", build.BuildDir)).String())
	assert.Equal(t, "${srcdir}/run.sh", posix.RunPath(build.NewPath("run.sh", build.SrcDir)).String())

	windows := newTestEnv(t, msvcOverrides())
	assert.Equal(t, "test.exe", windows.RunPath(build.NewPath("test.exe", build.BuildDir)).String())
}

func TestEnvSettings(t *testing.T) {
	env := newTestEnv(t, map[string]interface{}{"link_pool": 2, "ninja_version": "1.4"})

	assert.Equal(t, "build", env.BuildDir())
	assert.Equal(t, "1.4", env.NinjaVersion())
	assert.Equal(t, 2, env.LinkPoolDepth())
	assert.Equal(t, build.NewPath("build.yaml", build.SrcDir), env.Manifest())
	assert.Equal(t, shell.Posix, env.Dialect())
	assert.Equal(t, ELF, env.Platform().Format)
	assert.Equal(t, map[build.Root]string{
		build.SrcDir:     "..",
		build.Prefix:     "/usr/local",
		build.BinDir:     "/usr/local/bin",
		build.LibDir:     "/usr/local/lib",
		build.IncludeDir: "/usr/local/include",
	}, env.Dirs())
}

func TestPlatformNamed(t *testing.T) {
	testCases := []struct {
		name   string
		format ObjectFormat
		exe    string
		shared string
	}{
		{"linux", ELF, "", ".so"},
		{"freebsd", ELF, "", ".so"},
		{"darwin", MachO, "", ".dylib"},
		{"windows", PE, ".exe", ".dll"},
	}
	for _, testCase := range testCases {
		p := PlatformNamed(testCase.name)
		assert.Equal(t, testCase.format, p.Format, testCase.name)
		assert.Equal(t, testCase.exe, p.ExecutableExt, testCase.name)
		assert.Equal(t, testCase.shared, p.SharedLibraryExt, testCase.name)
	}
}

func TestPathArg(t *testing.T) {
	assert.Equal(t, "${srcdir}", PathArg(build.NewPath(".", build.SrcDir)).String())
	assert.Equal(t, ".", PathArg(build.NewPath("", build.BuildDir)).String())
	assert.Equal(t, "${bindir}/app", PathArg(build.NewPath("app", build.BinDir)).String())
}
