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

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(Options{Environ: []string{}})
	require.NoError(t, err)

	assert.Equal(t, ".", cfg.SrcDir)
	assert.Equal(t, "build", cfg.BuildDir)
	assert.Equal(t, "build.yaml", cfg.Manifest)
	assert.Equal(t, "1.10.0", cfg.NinjaVersion)
	assert.Equal(t, "cc", cfg.Tools.CC)
	assert.Empty(t, cfg.Tools.AR)
	assert.Equal(t, "mkdir -p", cfg.Tools.MkdirP)
	assert.Equal(t, "/usr/local", cfg.Install.Prefix)
	assert.Equal(t, "/usr/local/bin", cfg.Install.BinDir)
	assert.Equal(t, "/usr/local/lib", cfg.Install.LibDir)
	assert.Equal(t, "/usr/local/include", cfg.Install.IncludeDir)
}

func TestLoadPriority(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(configFile, []byte(`
builddir = "out"
link_pool = 2

[tools]
cc = "gcc"
cflags = "-O1"

[install]
prefix = "/opt/app"
`), 0666))

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	require.NoError(t, fs.Parse([]string{"--prefix=/opt/flag", "--link-pool=4"}))

	cfg, err := Load(Options{
		ConfigFile: configFile,
		Environ:    []string{"CC=clang", "MBUILD_TOOLS_CFLAGS=-O2", "MBUILD_NINJA_VERSION=1.4", "HOME=/root"},
		Flags:      fs,
		Overrides:  map[string]interface{}{"tools.cxx": "clang++"},
	})
	require.NoError(t, err)

	assert.Equal(t, "out", cfg.BuildDir)
	assert.Equal(t, "clang", cfg.Tools.CC)
	assert.Equal(t, "-O2", cfg.Tools.CFlags)
	assert.Equal(t, "1.4", cfg.NinjaVersion)
	assert.Equal(t, 4, cfg.LinkPool)
	assert.Equal(t, "clang++", cfg.Tools.CXX)
	assert.Equal(t, "/opt/flag", cfg.Install.Prefix)
	assert.Equal(t, "/opt/flag/lib", cfg.Install.LibDir)
}

func TestLoadMissingConfigFile(t *testing.T) {
	cfg, err := Load(Options{ConfigFile: filepath.Join(t.TempDir(), FileName), Environ: []string{}})
	require.NoError(t, err)
	assert.Equal(t, "build", cfg.BuildDir)
}

func TestLoadUnsetFlagsKeepLowerSources(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	require.NoError(t, fs.Parse(nil))

	cfg, err := Load(Options{
		Environ: []string{"MBUILD_INSTALL_PREFIX=/env"},
		Flags:   fs,
	})
	require.NoError(t, err)
	assert.Equal(t, "/env", cfg.Install.Prefix)
	assert.Equal(t, 0, cfg.LinkPool)
}

func TestValidate(t *testing.T) {
	_, err := Load(Options{Environ: []string{}, Overrides: map[string]interface{}{"shell": "fish"}})
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = Load(Options{Environ: []string{}, Overrides: map[string]interface{}{"link_pool": -1}})
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = Load(Options{Environ: []string{"CC="}})
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestShellName(t *testing.T) {
	assert.Equal(t, "posix", (&Config{Platform: "linux"}).ShellName())
	assert.Equal(t, "windows", (&Config{Platform: "windows"}).ShellName())
	assert.Equal(t, "posix", (&Config{Platform: "windows", Shell: "posix"}).ShellName())
}

func TestSrcDirFromBuildDir(t *testing.T) {
	root := t.TempDir()
	cfg := &Config{SrcDir: root, BuildDir: filepath.Join(root, "build")}
	rel, err := cfg.SrcDirFromBuildDir()
	require.NoError(t, err)
	assert.Equal(t, "..", rel)

	cfg.BuildDir = filepath.Join(root, "out", "debug")
	rel, err = cfg.SrcDirFromBuildDir()
	require.NoError(t, err)
	assert.Equal(t, "../..", rel)
}

func TestSaveAndLoadSaved(t *testing.T) {
	root := t.TempDir()
	builddir := filepath.Join(root, "build")

	cfg, err := Load(Options{
		Environ: []string{"CC=clang", "CFLAGS=-g -O0"},
		Overrides: map[string]interface{}{
			"srcdir":   root,
			"builddir": builddir,
		},
	})
	require.NoError(t, err)

	changed, err := cfg.Save()
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = cfg.Save()
	require.NoError(t, err)
	assert.False(t, changed)

	saved, err := LoadSaved(builddir)
	require.NoError(t, err)
	assert.Equal(t, cfg, saved)

	_, err = LoadSaved(filepath.Join(root, "missing"))
	assert.ErrorIs(t, err, ErrLoad)
}
