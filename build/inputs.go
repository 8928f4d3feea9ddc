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

// Package build models a resolved graph of build actions.  The graph is
// assembled in two phases: every edge is registered with an Inputs, then
// Finalize computes the attributes that depend on the whole graph.  Nothing
// may be emitted from an Inputs before it is finalized.
package build

import (
	"slices"

	"go.trai.ch/zerr"
)

var (
	ErrDuplicateCreator = zerr.New("target already has a creator")
	ErrFinalized        = zerr.New("build inputs are already finalized")
	ErrNotFinalized     = zerr.New("build inputs are not finalized")
	ErrNotFound         = zerr.New("target not found")
	ErrPICConflict      = zerr.New("object compiled without PIC is linked into a shared library")
)

// Install is the set of targets copied by the install step.
type Install struct {
	Files       []*Target
	Directories []*Target
}

// Empty reports whether nothing is installed.
func (i *Install) Empty() bool {
	return len(i.Files) == 0 && len(i.Directories) == 0
}

// A TestItem is either a *TestCase or a *TestDriver.
type TestItem interface {
	isTestItem()
}

// TestCase is a test program run directly or by a driver.
type TestCase struct {
	Target  *Target
	Options []string
	Env     map[string]string
}

// TestDriver is a program that runs the tests it wraps.
type TestDriver struct {
	Target  *Target
	Options []string
	Env     map[string]string
	Tests   []TestItem
}

func (*TestCase) isTestItem()   {}
func (*TestDriver) isTestItem() {}

// Tests is the test aggregate.
type Tests struct {
	// Targets holds every test program, including those run by drivers.
	Targets   []*Target
	Items     []TestItem
	ExtraDeps []*Target
}

// Empty reports whether no test was declared.
func (t *Tests) Empty() bool {
	return len(t.Items) == 0
}

// Inputs owns the edges of a build and the aggregates derived from the build
// description.
type Inputs struct {
	edges     []Edge
	finalized bool

	defaults        []*Target
	fallbackDefault *Target

	install Install
	tests   Tests

	// GlobalOptions maps a language to the options of every compile in it.
	GlobalOptions map[string][]string
	// GlobalLinkOptions are passed to every non-static link.
	GlobalLinkOptions []string
	// FindDirs lists the directories scanned while evaluating the build
	// description.
	FindDirs []Path
}

// NewInputs returns an empty Inputs.
func NewInputs() *Inputs {
	return &Inputs{GlobalOptions: make(map[string][]string)}
}

// AddEdge registers e as the creator of its outputs and appends it to the
// edge list.
func (b *Inputs) AddEdge(e Edge) (EdgeID, error) {
	if b.finalized {
		return noCreator, zerr.Wrap(ErrFinalized, "")
	}

	outputs := e.Outputs()
	for _, t := range outputs {
		if t.Built() {
			return noCreator, zerr.With(zerr.Wrap(ErrDuplicateCreator, ""), "target", t.String())
		}
	}

	id := EdgeID(len(b.edges))
	for _, t := range outputs {
		t.creator = int(id) + 1
	}
	b.edges = append(b.edges, e)

	if l, ok := e.(*Link); ok {
		b.fallbackDefault = l.Target
	}
	return id, nil
}

// Edges returns the registered edges in registration order.
func (b *Inputs) Edges() []Edge {
	return b.edges
}

// Edge returns the edge with the given id.
func (b *Inputs) Edge(id EdgeID) Edge {
	return b.edges[id]
}

// CreatorOf returns the edge producing t, or nil.
func (b *Inputs) CreatorOf(t *Target) Edge {
	if id, ok := t.Creator(); ok {
		return b.edges[id]
	}
	return nil
}

// ObjectFile returns the object compiled from the source file at src.
func (b *Inputs) ObjectFile(src Path) (*Target, error) {
	for _, e := range b.edges {
		if c, ok := e.(*Compile); ok && c.File.Path == src {
			return c.Target, nil
		}
	}
	return nil, zerr.With(zerr.Wrap(ErrNotFound, ""), "source", src.String())
}

// Finalize marks every compile linked into a shared library.  It fails if
// such a compile asked for no position-independent code.  Calling Finalize
// again is a no-op.
func (b *Inputs) Finalize() error {
	if b.finalized {
		return nil
	}

	for _, e := range b.edges {
		l, ok := e.(*Link)
		if !ok || l.Mode != SharedLibrary {
			continue
		}
		for _, f := range l.Files {
			c, ok := b.CreatorOf(f).(*Compile)
			if !ok {
				continue
			}
			if c.PIC == PICOff {
				err := zerr.With(zerr.Wrap(ErrPICConflict, ""), "object", c.Target.String())
				return zerr.With(err, "library", l.Target.String())
			}
			c.inSharedLibrary = true
		}
	}

	b.finalized = true
	return nil
}

// Finalized reports whether Finalize has completed.
func (b *Inputs) Finalized() bool {
	return b.finalized
}

// AddDefault adds the built targets among targets to the default set.
// Targets already in the set are skipped.
func (b *Inputs) AddDefault(targets ...*Target) {
	for _, t := range targets {
		if t.Built() && !slices.Contains(b.defaults, t) {
			b.defaults = append(b.defaults, t)
		}
	}
}

// DefaultTargets returns the targets built by default.  Without explicit
// defaults, the target of the last link is used.
func (b *Inputs) DefaultTargets() []*Target {
	if len(b.defaults) > 0 {
		return b.defaults
	}
	if b.fallbackDefault != nil {
		return []*Target{b.fallbackDefault}
	}
	return nil
}

// Install adds targets and the files produced alongside them to the install
// set.  Installed files are also built by default.
func (b *Inputs) Install(targets ...*Target) {
	for _, target := range targets {
		for _, t := range target.All() {
			if t.Kind == KindDirectory || t.Kind == KindHeaderDir {
				b.install.Directories = append(b.install.Directories, t)
				continue
			}
			b.AddDefault(t)
			b.install.Files = append(b.install.Files, t)
		}
	}
}

// InstallTargets returns the install set.
func (b *Inputs) InstallTargets() *Install {
	return &b.install
}

// Tests returns the test aggregate.
func (b *Inputs) Tests() *Tests {
	return &b.tests
}

// AddTest declares a test program.  It is run by driver, or directly when
// driver is nil.
func (b *Inputs) AddTest(target *Target, options []string, env map[string]string, driver *TestDriver) *TestCase {
	b.tests.Targets = append(b.tests.Targets, target)
	tc := &TestCase{Target: target, Options: options, Env: env}
	if driver != nil {
		driver.Tests = append(driver.Tests, tc)
	} else {
		b.tests.Items = append(b.tests.Items, tc)
	}
	return tc
}

// AddTestDriver declares a test driver, nested in parent when it is non-nil.
func (b *Inputs) AddTestDriver(target *Target, options []string, env map[string]string, parent *TestDriver) *TestDriver {
	d := &TestDriver{Target: target, Options: options, Env: env}
	if parent != nil {
		parent.Tests = append(parent.Tests, d)
	} else {
		b.tests.Items = append(b.tests.Items, d)
	}
	return d
}

// AddTestDeps makes the test step depend on the built targets among targets.
func (b *Inputs) AddTestDeps(targets ...*Target) {
	for _, t := range targets {
		if t.Built() {
			b.tests.ExtraDeps = append(b.tests.ExtraDeps, t)
		}
	}
}

// AddGlobalOptions appends options passed to every compile of lang.
func (b *Inputs) AddGlobalOptions(lang string, options ...string) {
	b.GlobalOptions[lang] = append(b.GlobalOptions[lang], options...)
}

// AddGlobalLinkOptions appends options passed to every non-static link.
func (b *Inputs) AddGlobalLinkOptions(options ...string) {
	b.GlobalLinkOptions = append(b.GlobalLinkOptions, options...)
}

// AddFindDir records a directory scanned by the build description.
func (b *Inputs) AddFindDir(p Path) {
	b.FindDirs = append(b.FindDirs, p)
}
