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

package generate

import (
	"github.com/metabuild/mbuild/build"
	"github.com/metabuild/mbuild/ninja"
	"github.com/metabuild/mbuild/shell"
)

func (g *generator) installRule() error {
	install := g.inputs.InstallTargets()
	if install.Empty() {
		return nil
	}

	var cmds []shell.Command
	for _, f := range install.Files {
		cmd, err := g.installLine(f)
		if err != nil {
			return err
		}
		cmds = append(cmds, cmd)
	}

	mkdir := g.env.DirInstaller()
	for _, d := range install.Directories {
		cmd, err := g.cmdVar(mkdir)
		if err != nil {
			return err
		}
		dst := build.InstallPath(d.Path.Parent(), d.InstallRoot())
		cmds = append(cmds, mkdir.CopyCommand(cmd, d.Path, dst)...)
	}

	for _, f := range install.Files {
		if f.PostInstall == "" {
			continue
		}
		post, err := g.env.PostInstaller(f.PostInstall)
		if err != nil {
			g.logger.Warn("skipping post-install step", "target", f.String(), "error", err)
			continue
		}
		cmd, err := g.cmdVar(post)
		if err != nil {
			return err
		}
		cmds = append(cmds, post.Command(cmd, f))
	}

	return g.commandBuild(ninja.Literal("install"), ninja.Literals("all"), cmds, nil)
}

func (g *generator) installLine(f *build.Target) (shell.Command, error) {
	installer := g.env.Installer()
	cmd, err := g.cmdVar(installer)
	if err != nil {
		return nil, err
	}

	name, value := "install_program", shell.Command{cmd}
	if f.InstallKind() != build.InstallProgram {
		name = "install_data"
		value = append(value, shell.Words(installer.DataArgs())...)
	}
	if _, _, err := g.file.EnsureVariable(name, g.render(value), ninja.SectionCommand); err != nil {
		return nil, err
	}

	dst := build.InstallPath(f.Path, f.InstallRoot())
	return installer.Command(shell.Var(name), f.Path, dst), nil
}

func (g *generator) testRule() error {
	tests := g.inputs.Tests()
	if tests.Empty() {
		return nil
	}

	var deps []ninja.Value
	if targets := builtTargets(tests.Targets); len(targets) > 0 {
		err := g.file.AddBuild(&ninja.Build{
			Rule:    ninja.PhonyRule,
			Outputs: ninja.Literals("tests"),
			Inputs:  targetValues(targets),
		})
		if err != nil {
			return err
		}
		deps = append(deps, ninja.Literal("tests"))
	}
	deps = append(deps, targetValues(tests.ExtraDeps)...)

	cmds, moredeps, err := g.testCommands(tests.Items, false)
	if err != nil {
		return err
	}
	return g.commandBuild(ninja.Literal("test"), append(deps, targetValues(moredeps)...), cmds, nil)
}

// testCommands returns the invocations of items and the built drivers they
// need.  With collapse set, each invocation is rendered into a single word
// that a driver receives as one argument.
func (g *generator) testCommands(items []build.TestItem, collapse bool) ([]shell.Command, []*build.Target, error) {
	var (
		cmds []shell.Command
		deps []*build.Target
	)
	for _, item := range items {
		var (
			target  *build.Target
			options []string
			env     map[string]string
			args    []shell.Word
		)
		switch item := item.(type) {
		case *build.TestCase:
			target, options, env = item.Target, item.Options, item.Env
		case *build.TestDriver:
			target, options, env = item.Target, item.Options, item.Env
			sub, moredeps, err := g.testCommands(item.Tests, true)
			if err != nil {
				return nil, nil, err
			}
			if target.Built() {
				deps = append(deps, target)
			}
			deps = append(deps, moredeps...)
			for _, c := range sub {
				args = append(args, c...)
			}
		}

		prefix, err := g.localEnv(target, env)
		if err != nil {
			return nil, nil, err
		}
		cmd := shell.Command(concat[shell.Word](prefix, shell.Command{g.env.RunPath(target.Path)}, shell.Words(options), args))

		if collapse {
			w := shell.Render(g.dialect, cmd)
			if len(cmd) > 1 {
				w = shell.QuoteWord(g.dialect, w)
			}
			cmd = shell.Command{w}
		}
		cmds = append(cmds, cmd)
	}
	return cmds, deps, nil
}

// localEnv returns the words binding env for the test target.  The env
// setter is only declared when the dialect needs it.
func (g *generator) localEnv(target *build.Target, env map[string]string) (shell.Command, error) {
	if len(env) == 0 {
		return nil, nil
	}
	if prefix := g.dialect.LocalEnv(env, nil); prefix != nil {
		return prefix, nil
	}

	setter, err := g.env.EnvSetter()
	if err != nil {
		g.logger.Warn("running test without its environment", "target", target.String(), "error", err)
		return nil, nil
	}
	cmd, err := g.cmdVar(setter)
	if err != nil {
		return nil, err
	}
	return g.dialect.LocalEnv(env, cmd), nil
}

func (g *generator) regenerateRule() error {
	gen := g.env.Generator()
	cmd, err := g.cmdVar(gen)
	if err != nil {
		return err
	}

	rule := &ninja.Rule{
		Name:      "regenerate",
		Command:   g.render(gen.Command(cmd)),
		Generator: true,
	}
	if len(g.inputs.FindDirs) > 0 {
		rule.Depfile = ninja.Literal(FindDepsFileName)
	}
	if err := g.file.AddRule(rule); err != nil {
		return err
	}

	return g.file.AddBuild(&ninja.Build{
		Rule:      "regenerate",
		Outputs:   ninja.Literals(FileName),
		Implicits: []ninja.Value{pathValue(g.env.Manifest())},
	})
}
