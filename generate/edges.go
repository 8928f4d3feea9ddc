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
	"fmt"

	"github.com/metabuild/mbuild/build"
	"github.com/metabuild/mbuild/ninja"
	"github.com/metabuild/mbuild/shell"
	"github.com/metabuild/mbuild/toolchain"
	"go.trai.ch/zerr"
)

func (g *generator) edge(e build.Edge) error {
	g.logger.Debug("emitting edge", "kind", edgeKind(e), "outputs", fmt.Sprint(e.Outputs()))

	var err error
	switch e := e.(type) {
	case *build.Compile:
		err = g.compile(e)
	case *build.Link:
		err = g.link(e)
	case *build.Alias:
		err = g.alias(e)
	case *build.Command:
		err = g.command(e)
	default:
		return zerr.With(zerr.Wrap(ErrUnsupportedEdge, ""), "type", fmt.Sprintf("%T", e))
	}
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to emit "+edgeKind(e)), "target", e.Outputs()[0].String())
	}
	return nil
}

func edgeKind(e build.Edge) string {
	switch e.(type) {
	case *build.Compile:
		return "compile"
	case *build.Link:
		return "link"
	case *build.Alias:
		return "alias"
	case *build.Command:
		return "command"
	default:
		return "unknown"
	}
}

func (g *generator) compile(c *build.Compile) error {
	compiler, err := g.env.Compiler(c.Lang)
	if err != nil {
		return err
	}

	flagsName := compiler.CommandVar() + "flags"
	global, flags, err := g.flagsVars(flagsName,
		concat(compiler.GlobalArgs(), g.inputs.GlobalOptions[c.Lang]))
	if err != nil {
		return err
	}

	var args []shell.Word
	for _, i := range c.Include {
		args = append(args, compiler.IncludeDir(i.Path)...)
	}
	for _, i := range c.SystemInclude {
		args = append(args, compiler.SystemIncludeDir(i.Path)...)
	}
	if c.InSharedLibrary() {
		args = append(args, shell.Words(compiler.LibraryArgs())...)
	}
	args = append(args, shell.Words(c.Options)...)

	if _, ok := g.file.Rule(compiler.Name()); !ok {
		cmd, err := g.cmdVar(compiler)
		if err != nil {
			return err
		}

		rule := &ninja.Rule{Name: compiler.Name()}
		var deps shell.Word
		switch compiler.DepsFlavor() {
		case toolchain.DepsGCC:
			deps = shell.Concat(shell.Var("out"), shell.String(".d"))
			rule.Depfile = wordValue(deps)
			rule.Deps = ninja.DepsGCC
		case toolchain.DepsMSVC:
			deps = shell.Word{}
			rule.Deps = ninja.DepsMSVC
		}
		rule.Command = g.render(compiler.Command(cmd, shell.Var("in"), shell.Var("out"), flags, deps))
		if err := g.file.AddRule(rule); err != nil {
			return err
		}
	}

	b := &ninja.Build{
		Rule:      compiler.Name(),
		Outputs:   []ninja.Value{targetValue(c.Target)},
		Inputs:    []ninja.Value{targetValue(c.File)},
		Implicits: targetValues(c.ExtraDeps),
	}
	if len(args) > 0 {
		b.Set(flagsName, g.render(append(shell.Command{global}, args...)))
	}
	return g.file.AddBuild(b)
}

func (g *generator) link(l *build.Link) error {
	builder, err := g.env.Linker(l.Langs(), l.Mode)
	if err != nil {
		return err
	}

	globalArgs := builder.GlobalArgs()
	if l.Mode != build.StaticLibrary {
		globalArgs = concat(globalArgs, g.inputs.GlobalLinkOptions)
	}
	flagsName := builder.LinkVar() + "flags"
	global, flags, err := g.flagsVars(flagsName, globalArgs)
	if err != nil {
		return err
	}

	b := &ninja.Build{
		Rule:    builder.Name(),
		Outputs: targetValues(l.Target.All()),
		Inputs:  targetValues(l.Files),
	}
	b.Set("output", g.render(shell.Command{toolchain.PathArg(l.Target.Path)}))

	args := shell.Words(builder.ModeArgs())
	var cmd shell.Command
	switch linker := builder.(type) {
	case toolchain.Linker:
		args = append(args, shell.Words(l.Options)...)
		args = append(args, linker.LibDirs(l.Libs)...)
		args = append(args, linker.RPath(l.Libs, l.Target.Path.Parent())...)
		args = append(args, linker.ImportLib(l.Target)...)

		libsName := linker.LinkVar() + "libs"
		globalLibs, libs, err := g.flagsVars(libsName, linker.GlobalLibs())
		if err != nil {
			return err
		}
		if len(l.Libs) > 0 {
			libArgs := shell.Command{globalLibs}
			for _, lib := range l.Libs {
				libArgs = append(libArgs, linker.LinkLib(lib)...)
			}
			b.Set(libsName, g.render(libArgs))
		}
		if cmd, err = g.linkCommand(linker, func(v shell.Word) shell.Command {
			return linker.Command(v, shell.Var("in"), shell.Var("output"), libs, flags)
		}); err != nil {
			return err
		}

	case toolchain.Archiver:
		if cmd, err = g.linkCommand(linker, func(v shell.Word) shell.Command {
			return linker.Command(v, shell.Var("in"), shell.Var("output"), flags)
		}); err != nil {
			return err
		}

	default:
		return zerr.With(zerr.Wrap(toolchain.ErrNoLinkerForMode, ""), "mode", l.Mode.String())
	}

	if cmd != nil {
		rule := &ninja.Rule{Name: builder.Name(), Command: g.render(cmd)}
		if g.env.LinkPoolDepth() > 0 {
			rule.Pool = linkPool
		}
		if err := g.file.AddRule(rule); err != nil {
			return err
		}
	}

	if len(args) > 0 {
		b.Set(flagsName, g.render(append(shell.Command{global}, args...)))
	}
	b.Implicits = targetValues(concat(builtTargets(l.Libs), l.ExtraDeps))
	return g.file.AddBuild(b)
}

// linkCommand returns the rule command of a link builder whose rule is not
// declared yet, or nil.
func (g *generator) linkCommand(builder toolchain.LinkBuilder, command func(shell.Word) shell.Command) (shell.Command, error) {
	if _, ok := g.file.Rule(builder.Name()); ok {
		return nil, nil
	}
	cmd, err := g.cmdVar(builder)
	if err != nil {
		return nil, err
	}
	return command(cmd), nil
}

func (g *generator) alias(a *build.Alias) error {
	return g.file.AddBuild(&ninja.Build{
		Rule:    ninja.PhonyRule,
		Outputs: []ninja.Value{targetValue(a.Target)},
		Inputs:  targetValues(a.ExtraDeps),
	})
}

func (g *generator) command(c *build.Command) error {
	cmds := make([]shell.Command, len(c.Cmds))
	for i, args := range c.Cmds {
		cmds[i] = shell.Args(args...)
	}
	return g.commandBuild(targetValue(c.Target), targetValues(c.ExtraDeps), cmds, c.Env)
}
