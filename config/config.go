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

// Package config resolves the configuration of a build directory.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/knadh/koanf/maps"
	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
	"go.trai.ch/zerr"

	"github.com/metabuild/mbuild/pathtools"
)

const (
	// FileName is the optional configuration file read from the working
	// directory.
	FileName = "mbuild.toml"
	// SavedFileName is the resolved configuration saved in the build
	// directory, which regeneration replays.
	SavedFileName = "mbuild.env.toml"

	envPrefix = "MBUILD_"
)

var (
	ErrLoad    = zerr.New("failed to load configuration")
	ErrInvalid = zerr.New("invalid configuration")
)

// Config holds the resolved configuration of a build directory.
type Config struct {
	SrcDir       string  `koanf:"srcdir"`
	BuildDir     string  `koanf:"builddir"`
	Manifest     string  `koanf:"manifest"`
	Platform     string  `koanf:"platform"`
	Shell        string  `koanf:"shell"`
	NinjaVersion string  `koanf:"ninja_version"`
	LinkPool     int     `koanf:"link_pool"`
	LogLevel     string  `koanf:"log_level"`
	Install      Install `koanf:"install"`
	Tools        Tools   `koanf:"tools"`
}

// Install holds the install roots.
type Install struct {
	Prefix     string `koanf:"prefix"`
	BinDir     string `koanf:"bindir"`
	LibDir     string `koanf:"libdir"`
	IncludeDir string `koanf:"includedir"`
}

// Tools holds the external programs and their flags.  Programs are shell
// text and are written to the build file verbatim.  An empty LD, AR or
// ARFlags selects the default of the toolchain family.
type Tools struct {
	CC        string `koanf:"cc"`
	CXX       string `koanf:"cxx"`
	CFlags    string `koanf:"cflags"`
	CXXFlags  string `koanf:"cxxflags"`
	LDFlags   string `koanf:"ldflags"`
	LDLibs    string `koanf:"ldlibs"`
	LD        string `koanf:"ld"`
	AR        string `koanf:"ar"`
	ARFlags   string `koanf:"arflags"`
	Install   string `koanf:"install"`
	MkdirP    string `koanf:"mkdir_p"`
	SetEnv    string `koanf:"setenv"`
	Patchelf  string `koanf:"patchelf"`
	Generator string `koanf:"generator"`
}

// conventionalEnv maps the customary build variables onto configuration keys.
var conventionalEnv = map[string]string{
	"CC":       "tools.cc",
	"CXX":      "tools.cxx",
	"CFLAGS":   "tools.cflags",
	"CXXFLAGS": "tools.cxxflags",
	"LDFLAGS":  "tools.ldflags",
	"LDLIBS":   "tools.ldlibs",
	"AR":       "tools.ar",
	"ARFLAGS":  "tools.arflags",
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"srcdir":             ".",
		"builddir":           "build",
		"manifest":           "build.yaml",
		"platform":           runtime.GOOS,
		"shell":              "",
		"ninja_version":      "1.10.0",
		"link_pool":          0,
		"log_level":          "info",
		"install.prefix":     "/usr/local",
		"install.bindir":     "",
		"install.libdir":     "",
		"install.includedir": "",
		"tools.cc":           "cc",
		"tools.cxx":          "c++",
		"tools.cflags":       "",
		"tools.cxxflags":     "",
		"tools.ldflags":      "",
		"tools.ldlibs":       "",
		"tools.ld":           "",
		"tools.ar":           "",
		"tools.arflags":      "",
		"tools.install":      "install",
		"tools.mkdir_p":      "mkdir -p",
		"tools.setenv":       "",
		"tools.patchelf":     "patchelf",
		"tools.generator":    "mbuild",
	}
}

// Options selects the sources Load reads.
type Options struct {
	// ConfigFile is read after the defaults; a missing file is ignored.
	ConfigFile string
	// Environ lists the environment in "key=value" form.  The process
	// environment is used when it is nil.
	Environ []string
	// Flags are applied after the environment.
	Flags *pflag.FlagSet
	// Overrides are dotted keys applied last.
	Overrides map[string]interface{}
}

// Load resolves the configuration.
// Priority: Overrides > Flags > Env > Config File > Defaults
func Load(opts Options) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(makeMapProvider(defaults()), nil); err != nil {
		return nil, zerr.Wrap(err, "failed to load defaults")
	}

	// 2. Config file (optional)
	if opts.ConfigFile != "" {
		if _, err := os.Stat(opts.ConfigFile); err == nil {
			if err := k.Load(file.Provider(opts.ConfigFile), toml.Parser()); err != nil {
				return nil, zerr.With(fmt.Errorf("%w: %w", ErrLoad, err), "file", opts.ConfigFile)
			}
		}
	}

	// 3. Environment variables: MBUILD_TOOLS_CC=clang sets tools.cc, and so
	// do the conventional names such as CC.
	if err := loadEnv(k, opts.Environ); err != nil {
		return nil, err
	}

	// 4. Flags
	if opts.Flags != nil {
		if err := k.Load(posflag.ProviderWithValue(opts.Flags, ".", k, flagValue), nil); err != nil {
			return nil, zerr.Wrap(err, "failed to load flags")
		}
	}

	// 5. Overrides
	if len(opts.Overrides) > 0 {
		if err := k.Load(makeMapProvider(opts.Overrides), nil); err != nil {
			return nil, zerr.Wrap(err, "failed to load overrides")
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, zerr.Wrap(err, "failed to unmarshal config")
	}
	cfg.fillInstallDirs()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// flagKeys maps the flags registered by RegisterFlags onto configuration
// keys.
var flagKeys = map[string]string{
	"srcdir":        "srcdir",
	"manifest":      "manifest",
	"platform":      "platform",
	"shell":         "shell",
	"ninja-version": "ninja_version",
	"link-pool":     "link_pool",
	"log-level":     "log_level",
	"prefix":        "install.prefix",
	"bindir":        "install.bindir",
	"libdir":        "install.libdir",
	"includedir":    "install.includedir",
}

// RegisterFlags adds the configuration flags to fs.  Their defaults are
// empty so that unset flags leave lower-priority sources alone.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("srcdir", "", "source directory")
	fs.String("manifest", "", "build description, relative to the source directory")
	fs.String("platform", "", "target platform (linux, darwin, windows)")
	fs.String("shell", "", "quoting dialect of build commands (posix, windows)")
	fs.String("ninja-version", "", "version of ninja the build file is written for")
	fs.Int("link-pool", 0, "maximum number of concurrent links, 0 for no limit")
	fs.String("log-level", "", "log level (debug, info, warn, error)")
	fs.String("prefix", "", "install prefix")
	fs.String("bindir", "", "install directory of executables")
	fs.String("libdir", "", "install directory of libraries")
	fs.String("includedir", "", "install directory of headers")
}

func flagValue(name, value string) (string, interface{}) {
	return flagKeys[name], value
}

func loadEnv(k *koanf.Koanf, environ []string) error {
	if environ != nil {
		return k.Load(makeMapProvider(environMap(environ)), nil)
	}

	if err := k.Load(env.Provider("", ".", func(s string) string {
		return conventionalEnv[s]
	}), nil); err != nil {
		return zerr.Wrap(err, "failed to load env vars")
	}
	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return zerr.Wrap(err, "failed to load env vars")
	}
	return nil
}

// envKey maps MBUILD_TOOLS_CC to tools.cc.  Only the first underscore after
// the prefix separates a section, so MBUILD_NINJA_VERSION is ninja_version.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, envPrefix))
	for _, section := range []string{"tools_", "install_"} {
		if strings.HasPrefix(key, section) {
			return strings.Replace(key, "_", ".", 1)
		}
	}
	return key
}

func environMap(environ []string) map[string]interface{} {
	m := make(map[string]interface{})
	for _, kv := range environ {
		name, value, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		if key, ok := conventionalEnv[name]; ok {
			m[key] = value
		}
	}
	for _, kv := range environ {
		name, value, ok := strings.Cut(kv, "=")
		if ok && strings.HasPrefix(name, envPrefix) {
			m[envKey(name)] = value
		}
	}
	return m
}

func (c *Config) fillInstallDirs() {
	if c.Install.BinDir == "" {
		c.Install.BinDir = c.Install.Prefix + "/bin"
	}
	if c.Install.LibDir == "" {
		c.Install.LibDir = c.Install.Prefix + "/lib"
	}
	if c.Install.IncludeDir == "" {
		c.Install.IncludeDir = c.Install.Prefix + "/include"
	}
}

// Validate checks the values that cannot be defaulted.
func (c *Config) Validate() error {
	switch {
	case c.BuildDir == "":
		return zerr.With(zerr.Wrap(ErrInvalid, ""), "key", "builddir")
	case c.Tools.CC == "":
		return zerr.With(zerr.Wrap(ErrInvalid, ""), "key", "tools.cc")
	case c.LinkPool < 0:
		return zerr.With(zerr.Wrap(ErrInvalid, ""), "key", "link_pool")
	}
	switch c.Shell {
	case "", "posix", "windows":
	default:
		return zerr.With(zerr.With(zerr.Wrap(ErrInvalid, ""), "key", "shell"), "value", c.Shell)
	}
	return nil
}

// ShellName returns the quoting dialect of the build commands.
func (c *Config) ShellName() string {
	if c.Shell != "" {
		return c.Shell
	}
	if c.Platform == "windows" {
		return "windows"
	}
	return "posix"
}

// SrcDirFromBuildDir returns the source directory as seen from the build
// directory, which is where the build executor runs.
func (c *Config) SrcDirFromBuildDir() (string, error) {
	src, err := filepath.Abs(c.SrcDir)
	if err != nil {
		return "", err
	}
	build, err := filepath.Abs(c.BuildDir)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(build, src)
	if err != nil {
		return src, nil
	}
	return filepath.ToSlash(rel), nil
}

// Save writes the configuration into the build directory so that a later
// regeneration resolves the same values.  It returns whether the file
// changed.
func (c *Config) Save() (bool, error) {
	saved := *c
	src, err := filepath.Abs(c.SrcDir)
	if err != nil {
		return false, zerr.Wrap(err, "failed to resolve srcdir")
	}
	saved.SrcDir = src

	k := koanf.New(".")
	if err := k.Load(makeMapProvider(saved.toMap()), nil); err != nil {
		return false, zerr.Wrap(err, "failed to load config")
	}
	data, err := k.Marshal(toml.Parser())
	if err != nil {
		return false, zerr.Wrap(err, "failed to marshal config")
	}
	return pathtools.WriteFileIfChanged(filepath.Join(c.BuildDir, SavedFileName), data, 0666)
}

// LoadSaved reads the configuration saved in builddir.
func LoadSaved(builddir string) (*Config, error) {
	path := filepath.Join(builddir, SavedFileName)
	if _, err := os.Stat(path); err != nil {
		return nil, zerr.With(fmt.Errorf("%w: %w", ErrLoad, err), "file", path)
	}
	return Load(Options{
		ConfigFile: path,
		Environ:    []string{},
		Overrides:  map[string]interface{}{"builddir": builddir},
	})
}

func (c *Config) toMap() map[string]interface{} {
	return map[string]interface{}{
		"srcdir":             c.SrcDir,
		"builddir":           c.BuildDir,
		"manifest":           c.Manifest,
		"platform":           c.Platform,
		"shell":              c.Shell,
		"ninja_version":      c.NinjaVersion,
		"link_pool":          c.LinkPool,
		"log_level":          c.LogLevel,
		"install.prefix":     c.Install.Prefix,
		"install.bindir":     c.Install.BinDir,
		"install.libdir":     c.Install.LibDir,
		"install.includedir": c.Install.IncludeDir,
		"tools.cc":           c.Tools.CC,
		"tools.cxx":          c.Tools.CXX,
		"tools.cflags":       c.Tools.CFlags,
		"tools.cxxflags":     c.Tools.CXXFlags,
		"tools.ldflags":      c.Tools.LDFlags,
		"tools.ldlibs":       c.Tools.LDLibs,
		"tools.ld":           c.Tools.LD,
		"tools.ar":           c.Tools.AR,
		"tools.arflags":      c.Tools.ARFlags,
		"tools.install":      c.Tools.Install,
		"tools.mkdir_p":      c.Tools.MkdirP,
		"tools.setenv":       c.Tools.SetEnv,
		"tools.patchelf":     c.Tools.Patchelf,
		"tools.generator":    c.Tools.Generator,
	}
}

// Helper to use map as a provider
type mapProvider struct {
	m map[string]interface{}
}

func makeMapProvider(m map[string]interface{}) *mapProvider {
	return &mapProvider{m: m}
}

// Read unflattens the dotted keys of the map.
func (p *mapProvider) Read() (map[string]interface{}, error) {
	return maps.Unflatten(p.m, "."), nil
}

func (p *mapProvider) ReadBytes() ([]byte, error) {
	return nil, zerr.New("not implemented")
}
