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

package manifest

import (
	"log/slog"
	"path"
	"path/filepath"
	"strings"

	"go.trai.ch/zerr"

	"github.com/metabuild/mbuild/build"
	"github.com/metabuild/mbuild/logging"
	"github.com/metabuild/mbuild/pathtools"
	"github.com/metabuild/mbuild/toolchain"
)

var languages = map[string]string{
	".c":   "c",
	".cc":  "c++",
	".cpp": "c++",
	".cxx": "c++",
	".c++": "c++",
}

type resolver struct {
	env     toolchain.Environment
	fs      pathtools.FileSystem
	logger  *slog.Logger
	inputs  *build.Inputs
	targets map[string]*build.Target
	dirs    map[string]bool
}

// Load reads the build description of env from the source directory srcdir
// and resolves it.  The returned inputs are finalized.
func Load(env toolchain.Environment, srcdir string, logger *slog.Logger) (*build.Inputs, error) {
	f, err := Read(filepath.Join(srcdir, filepath.FromSlash(env.Manifest().Rel)))
	if err != nil {
		return nil, err
	}
	inputs, err := f.Resolve(env, pathtools.DirFs(srcdir), logger)
	if err != nil {
		return nil, err
	}
	if err := inputs.Finalize(); err != nil {
		return nil, err
	}
	return inputs, nil
}

// Resolve turns f into build inputs, expanding source patterns against fs.
// The returned inputs are not finalized.
func (f *File) Resolve(env toolchain.Environment, fs pathtools.FileSystem, logger *slog.Logger) (*build.Inputs, error) {
	if logger == nil {
		logger = logging.Discard()
	}
	r := &resolver{
		env:     env,
		fs:      fs,
		logger:  logger,
		inputs:  build.NewInputs(),
		targets: make(map[string]*build.Target),
		dirs:    make(map[string]bool),
	}

	for lang, options := range f.Options {
		r.inputs.AddGlobalOptions(lang, options...)
	}
	r.inputs.AddGlobalLinkOptions(f.LinkOptions...)

	for i := range f.Targets {
		t := &f.Targets[i]
		if err := r.target(t); err != nil {
			return nil, zerr.With(err, "target", t.Name)
		}
	}

	for _, item := range f.Install {
		if err := r.install(item); err != nil {
			return nil, err
		}
	}

	for _, item := range f.Tests {
		if err := r.test(item, nil); err != nil {
			return nil, err
		}
	}
	deps, err := r.lookup(f.TestDeps)
	if err != nil {
		return nil, err
	}
	r.inputs.AddTestDeps(deps...)

	defaults, err := r.lookup(f.Default)
	if err != nil {
		return nil, err
	}
	r.inputs.AddDefault(defaults...)

	return r.inputs, nil
}

func (r *resolver) target(t *Target) error {
	if t.Name == "" {
		return zerr.With(zerr.Wrap(ErrInvalidItem, ""), "section", "targets")
	}
	if _, ok := r.targets[t.Name]; ok {
		return zerr.With(zerr.Wrap(ErrDuplicateTarget, ""), "name", t.Name)
	}

	var (
		target *build.Target
		err    error
	)
	switch t.Kind {
	case "object":
		target, err = r.object(t)
	case "executable", "static_library", "shared_library":
		target, err = r.link(t)
	case "alias":
		target, err = r.alias(t)
	case "command":
		target, err = r.command(t)
	default:
		return zerr.With(zerr.Wrap(ErrUnknownKind, ""), "kind", t.Kind)
	}
	if err != nil {
		return err
	}

	r.logger.Debug("resolved target", "name", t.Name, "kind", t.Kind, "output", target.String())
	r.targets[t.Name] = target
	return nil
}

func (r *resolver) object(t *Target) (*build.Target, error) {
	sources, err := r.sources(t.Sources)
	if err != nil {
		return nil, err
	}
	if len(sources) != 1 {
		return nil, zerr.With(zerr.Wrap(ErrSourceCount, ""), "sources", len(sources))
	}
	return r.compile(t, t.Name, sources[0])
}

// objects returns the object files of the sources of t, compiling the
// sources that are not object targets.
func (r *resolver) objects(t *Target) ([]*build.Target, error) {
	var objects []*build.Target
	for _, src := range t.Sources {
		if obj, ok := r.targets[src]; ok && obj.Kind == build.KindObject {
			objects = append(objects, obj)
			continue
		}

		files, err := r.sources([]string{src})
		if err != nil {
			return nil, err
		}
		for _, file := range files {
			obj, err := r.compile(t, pathtools.TrimExtension(file), file)
			if err != nil {
				return nil, err
			}
			objects = append(objects, obj)
		}
	}
	return objects, nil
}

// sources expands the patterns of a source list.  Directories listed while
// expanding them are recorded as find directories.
func (r *resolver) sources(patterns []string) ([]string, error) {
	files, dirs, err := pathtools.GlobPatternList(r.fs, patterns)
	if err != nil {
		return nil, err
	}
	for _, dir := range dirs {
		if !r.dirs[dir] {
			r.dirs[dir] = true
			r.inputs.AddFindDir(build.NewPath(dir, build.SrcDir))
		}
	}
	return files, nil
}

// compile returns the object compiled from the source file src.  A source
// compiled by an earlier target is reused.
func (r *resolver) compile(t *Target, name, src string) (*build.Target, error) {
	lang := t.Lang
	if lang == "" {
		lang = languages[strings.ToLower(path.Ext(src))]
	}
	if lang == "" {
		return nil, zerr.With(zerr.Wrap(ErrUnknownLanguage, ""), "source", src)
	}

	file := build.NewSource(src, lang)
	if obj, err := r.inputs.ObjectFile(file.Path); err == nil {
		return obj, nil
	}

	compiler, err := r.env.Compiler(lang)
	if err != nil {
		return nil, err
	}
	c := build.NewCompile(file, compiler.OutputFile(name, lang))
	c.Include = r.files(build.KindHeaderDir, t.Include)
	c.SystemInclude = r.files(build.KindHeaderDir, t.SystemInclude)
	c.Options = t.Options
	if t.PIC != nil && !*t.PIC {
		c.PIC = build.PICOff
	}
	if _, err := r.inputs.AddEdge(c); err != nil {
		return nil, err
	}
	return c.Target, nil
}

func (r *resolver) files(kind build.Kind, paths []string) []*build.Target {
	var result []*build.Target
	for _, p := range paths {
		result = append(result, build.NewFile(kind, p, build.SrcDir))
	}
	return result
}

func (r *resolver) link(t *Target) (*build.Target, error) {
	mode, err := build.ParseLinkMode(t.Kind)
	if err != nil {
		return nil, err
	}
	objects, err := r.objects(t)
	if err != nil {
		return nil, err
	}
	libs, err := r.libs(t.Libs)
	if err != nil {
		return nil, err
	}
	deps, err := r.lookup(t.Deps)
	if err != nil {
		return nil, err
	}

	langs := make([]string, 0, len(objects))
	for _, obj := range objects {
		langs = append(langs, obj.Lang)
	}
	builder, err := r.env.Linker(langs, mode)
	if err != nil {
		return nil, err
	}

	l, err := build.NewLink(mode, builder.OutputFile(t.Name), objects)
	if err != nil {
		return nil, err
	}
	l.Libs = append(libs, r.files(build.KindDirectory, t.LibDirs)...)
	l.Options = t.LinkOptions
	l.ExtraDeps = deps
	if linker, ok := builder.(toolchain.Linker); ok {
		l.Target.PostInstall = linker.PostInstall(l.Libs)
	}

	if _, err := r.inputs.AddEdge(l); err != nil {
		return nil, err
	}
	return l.Target, nil
}

// libs resolves library names.  Names that are not targets are system
// libraries.
func (r *resolver) libs(names []string) ([]*build.Target, error) {
	var libs []*build.Target
	for _, name := range names {
		t, ok := r.targets[name]
		if !ok {
			libs = append(libs, build.NewSystemLibrary(name))
			continue
		}
		if !t.Kind.IsLibrary() {
			return nil, zerr.With(zerr.Wrap(ErrNotLibrary, ""), "lib", name)
		}
		libs = append(libs, t)
	}
	return libs, nil
}

func (r *resolver) alias(t *Target) (*build.Target, error) {
	deps, err := r.lookup(t.Deps)
	if err != nil {
		return nil, err
	}
	a := build.NewAlias(t.Name, deps...)
	if _, err := r.inputs.AddEdge(a); err != nil {
		return nil, err
	}
	return a.Target, nil
}

func (r *resolver) command(t *Target) (*build.Target, error) {
	deps, err := r.lookup(t.Deps)
	if err != nil {
		return nil, err
	}
	c, err := build.NewCommand(t.Name, t.Cmd, t.Cmds)
	if err != nil {
		return nil, err
	}
	c.Env = t.Env
	c.ExtraDeps = deps
	if _, err := r.inputs.AddEdge(c); err != nil {
		return nil, err
	}
	return c.Target, nil
}

func (r *resolver) lookup(names []string) ([]*build.Target, error) {
	var result []*build.Target
	for _, name := range names {
		t, ok := r.targets[name]
		if !ok {
			return nil, zerr.With(zerr.Wrap(ErrUnknownTarget, ""), "name", name)
		}
		result = append(result, t)
	}
	return result, nil
}

func (r *resolver) install(item InstallItem) error {
	switch {
	case item.Header != "":
		r.inputs.Install(build.NewFile(build.KindHeader, item.Header, build.SrcDir))
	case item.HeaderDir != "":
		r.inputs.Install(build.NewFile(build.KindHeaderDir, item.HeaderDir, build.SrcDir))
	default:
		targets, err := r.lookup([]string{item.Target})
		if err != nil {
			return err
		}
		r.inputs.Install(targets...)
	}
	return nil
}

// test declares item, run by driver when it is non-nil.  A name that is not
// a target is a program of the source tree.
func (r *resolver) test(item TestItem, driver *build.TestDriver) error {
	name := item.Test
	if name == "" {
		name = item.Driver
	}
	target, ok := r.targets[name]
	if !ok {
		target = build.NewFile(build.KindExecutable, name, build.SrcDir)
	}

	if item.Test != "" {
		r.inputs.AddTest(target, item.Options, item.Env, driver)
		return nil
	}

	d := r.inputs.AddTestDriver(target, item.Options, item.Env, driver)
	for _, sub := range item.Tests {
		if err := r.test(sub, d); err != nil {
			return err
		}
	}
	return nil
}
