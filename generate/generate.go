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

// Package generate emits the ninja build file of a finalized build graph.
// Edges are translated in registration order, after which the synthesized
// install, test and regenerate steps are added.
package generate

import (
	"log/slog"
	"path"
	"path/filepath"
	"strings"

	"github.com/metabuild/mbuild/build"
	"github.com/metabuild/mbuild/deptools"
	"github.com/metabuild/mbuild/logging"
	"github.com/metabuild/mbuild/ninja"
	"github.com/metabuild/mbuild/pathtools"
	"github.com/metabuild/mbuild/shell"
	"github.com/metabuild/mbuild/toolchain"
	"go.trai.ch/zerr"
	"golang.org/x/mod/semver"
)

const (
	// FileName is the name of the build file in the build directory.
	FileName = "build.ninja"
	// FindDepsFileName is the depfile listing the directories scanned by
	// the build description.
	FindDepsFileName = ".mbuild_find_deps"

	fileComment = "This file is generated by mbuild and should not be edited."

	linkPool    = "link_pool"
	consolePool = "console"
)

var ErrUnsupportedEdge = zerr.New("unsupported edge")

// An Option configures Generate.
type Option func(*generator)

// WithLogger sets the logger receiving progress and warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(g *generator) {
		g.logger = logger
	}
}

type generator struct {
	env     toolchain.Environment
	inputs  *build.Inputs
	file    *ninja.File
	dialect shell.Dialect
	logger  *slog.Logger
}

func newGenerator(env toolchain.Environment, inputs *build.Inputs, opts []Option) *generator {
	g := &generator{
		env:     env,
		inputs:  inputs,
		file:    ninja.NewFile(),
		dialect: env.Dialect(),
		logger:  logging.Discard(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate translates inputs into a ninja file using the tools of env.
// inputs must be finalized.
func Generate(env toolchain.Environment, inputs *build.Inputs, opts ...Option) (*ninja.File, error) {
	if !inputs.Finalized() {
		return nil, build.ErrNotFinalized
	}

	g := newGenerator(env, inputs, opts)
	if err := g.generate(); err != nil {
		return nil, err
	}
	return g.file, nil
}

// WriteFile generates the build file of inputs and writes it into the build
// directory of env, along with the depfile of the regenerate step.  Files
// whose contents are unchanged are left alone.  It reports whether the
// build file was written.
func WriteFile(env toolchain.Environment, inputs *build.Inputs, opts ...Option) (bool, error) {
	if !inputs.Finalized() {
		return false, build.ErrNotFinalized
	}

	g := newGenerator(env, inputs, opts)
	if err := g.generate(); err != nil {
		return false, err
	}

	builddir := env.BuildDir()
	if len(inputs.FindDirs) > 0 {
		deps := findDepPaths(env.Dirs(), inputs.FindDirs)
		if err := deptools.WriteDepFile(filepath.Join(builddir, FindDepsFileName), FileName, deps); err != nil {
			return false, err
		}
	}

	filename := filepath.Join(builddir, FileName)
	written, err := pathtools.WriteFileIfChanged(filename, g.file.Bytes(), 0666)
	if err != nil {
		return false, err
	}
	g.logger.Info("build file generated", "path", filename, "written", written)
	return written, nil
}

// findDepPaths returns the find directories as paths relative to the build
// directory.
func findDepPaths(dirs map[build.Root]string, find []build.Path) []string {
	deps := make([]string, len(find))
	for i, p := range find {
		if p.Root == build.BuildDir {
			deps[i] = p.Rel
		} else {
			deps[i] = path.Join(dirs[p.Root], p.Rel)
		}
	}
	return deps
}

func (g *generator) generate() error {
	g.file.Comment = fileComment
	g.file.RequiredVersion = "1.3"

	if err := g.pathVars(); err != nil {
		return err
	}
	if err := g.allRule(); err != nil {
		return err
	}
	if depth := g.env.LinkPoolDepth(); depth > 0 {
		if err := g.file.AddPool(linkPool, depth); err != nil {
			return err
		}
	}

	for _, e := range g.inputs.Edges() {
		if err := g.edge(e); err != nil {
			return err
		}
	}

	if err := g.installRule(); err != nil {
		return zerr.Wrap(err, "failed to emit install step")
	}
	if err := g.testRule(); err != nil {
		return zerr.Wrap(err, "failed to emit test step")
	}
	if err := g.regenerateRule(); err != nil {
		return zerr.Wrap(err, "failed to emit regenerate step")
	}
	return nil
}

func (g *generator) pathVars() error {
	dirs := g.env.Dirs()
	if _, err := g.file.AddVariable(build.SrcDir.String(), ninja.Literal(dirs[build.SrcDir]), ninja.SectionPath); err != nil {
		return err
	}
	for _, root := range build.InstallRoots {
		if _, err := g.file.AddVariable(root.String(), ninja.Literal(dirs[root]), ninja.SectionInstall); err != nil {
			return err
		}
	}
	return nil
}

func (g *generator) allRule() error {
	g.file.AddDefault(ninja.Literal("all"))
	return g.file.AddBuild(&ninja.Build{
		Rule:    ninja.PhonyRule,
		Outputs: ninja.Literals("all"),
		Inputs:  targetValues(g.inputs.DefaultTargets()),
	})
}

// cmdVar declares the command variable of tool and returns a reference to
// it.
func (g *generator) cmdVar(tool toolchain.Tool) (shell.Word, error) {
	_, _, err := g.file.EnsureVariable(tool.CommandVar(), ninja.Literal(tool.Program()), ninja.SectionCommand)
	if err != nil {
		return nil, err
	}
	return shell.Var(tool.CommandVar()), nil
}

// flagsVars declares global_<name> holding args and <name> defaulting to
// it, and returns references to both.
func (g *generator) flagsVars(name string, args []string) (global, local shell.Word, err error) {
	gname := "global_" + name
	if _, _, err := g.file.EnsureVariable(gname, g.render(shell.Args(args...)), ninja.SectionFlags); err != nil {
		return nil, nil, err
	}
	if _, _, err := g.file.EnsureVariable(name, ninja.Ref(gname), ninja.SectionOther); err != nil {
		return nil, nil, err
	}
	return shell.Var(gname), shell.Var(name), nil
}

// commandBuild adds an always-stale build of output running cmds through
// the shared command rule.
func (g *generator) commandBuild(output ninja.Value, inputs []ninja.Value, cmds []shell.Command, env map[string]string) error {
	rule := &ninja.Rule{Name: "command", Command: ninja.Ref("cmd")}
	if versionAtLeast(g.env.NinjaVersion(), "v1.5.0") {
		rule.Pool = consolePool
		g.file.RequiredVersion = "1.5"
	}
	if _, _, err := g.file.EnsureRule(rule); err != nil {
		return err
	}
	if _, _, err := g.file.EnsureBuild(&ninja.Build{
		Rule:    ninja.PhonyRule,
		Outputs: ninja.Literals(ninja.Phony),
	}); err != nil {
		return err
	}

	if len(env) > 0 {
		cmds = append(g.dialect.GlobalEnv(env), cmds...)
	}
	b := &ninja.Build{
		Rule:      "command",
		Outputs:   []ninja.Value{output},
		Inputs:    inputs,
		Implicits: ninja.Literals(ninja.Phony),
	}
	b.Set("cmd", wordValue(shell.JoinCommands(g.dialect, cmds)))
	return g.file.AddBuild(b)
}

// render quotes cmd for the shell and converts it into a ninja value.
func (g *generator) render(cmd shell.Command) ninja.Value {
	return wordValue(shell.Render(g.dialect, cmd))
}

// wordValue converts a rendered word into a ninja value.  Variable
// fragments become variable references.
func wordValue(w shell.Word) ninja.Value {
	parts := make([]ninja.Value, len(w))
	for i, f := range w {
		if f.Kind == shell.Variable {
			parts[i] = ninja.Ref(f.Text)
		} else {
			parts[i] = ninja.Literal(f.Text)
		}
	}
	return ninja.Concat(parts...)
}

func pathValue(p build.Path) ninja.Value {
	if p.Root == build.BuildDir {
		return ninja.Literal(p.Rel)
	}
	if p.Rel == "." {
		return ninja.Ref(p.Root.String())
	}
	return ninja.Concat(ninja.Ref(p.Root.String()), ninja.Literal("/"+p.Rel))
}

func targetValue(t *build.Target) ninja.Value {
	if t.IsPhony() {
		return ninja.Literal(t.Name)
	}
	return pathValue(t.Path)
}

func targetValues(targets []*build.Target) []ninja.Value {
	if len(targets) == 0 {
		return nil
	}
	values := make([]ninja.Value, len(targets))
	for i, t := range targets {
		values[i] = targetValue(t)
	}
	return values
}

func builtTargets(targets []*build.Target) []*build.Target {
	var result []*build.Target
	for _, t := range targets {
		if t.Built() {
			result = append(result, t)
		}
	}
	return result
}

// versionAtLeast reports whether the ninja version ver is at least min, a
// semantic version with its "v" prefix.  Unparseable versions compare low.
func versionAtLeast(ver, min string) bool {
	if !strings.HasPrefix(ver, "v") {
		ver = "v" + ver
	}
	return semver.IsValid(ver) && semver.Compare(ver, min) >= 0
}

// concat returns a new slice holding the elements of lists.
func concat[T any](lists ...[]T) []T {
	var result []T
	for _, l := range lists {
		result = append(result, l...)
	}
	return result
}
