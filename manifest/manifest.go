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

// Package manifest reads the declarative build description of a project and
// resolves it into build inputs.
package manifest

import (
	"fmt"
	"os"

	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// FileName is the default name of the build description in the source
// directory.
const FileName = "build.yaml"

var (
	ErrRead            = zerr.New("failed to read build description")
	ErrParse           = zerr.New("failed to parse build description")
	ErrInvalidItem     = zerr.New("invalid item")
	ErrUnknownKind     = zerr.New("unknown target kind")
	ErrUnknownTarget   = zerr.New("unknown target")
	ErrDuplicateTarget = zerr.New("duplicate target name")
	ErrNotLibrary      = zerr.New("target is not a library")
	ErrUnknownLanguage = zerr.New("cannot determine source language")
	ErrSourceCount     = zerr.New("object target needs exactly one source")
)

// File is a parsed build description.
type File struct {
	// Options maps a language to the options of every compile in it.
	Options     map[string][]string `yaml:"options"`
	LinkOptions []string            `yaml:"link_options"`

	// Targets are resolved in order; a target may only refer to the
	// targets before it.
	Targets []Target `yaml:"targets"`

	Install  []InstallItem `yaml:"install"`
	Tests    []TestItem    `yaml:"tests"`
	TestDeps []string      `yaml:"test_deps"`
	Default  []string      `yaml:"default"`
}

// Target declares one build edge.
type Target struct {
	Name string `yaml:"name"`

	// Kind is one of object, executable, static_library, shared_library,
	// alias and command.
	Kind string `yaml:"kind"`

	// Sources are source-tree paths, wildcard patterns, or names of
	// object targets.
	Sources []string `yaml:"sources"`

	Lang          string   `yaml:"lang"`
	Include       []string `yaml:"include"`
	SystemInclude []string `yaml:"system_include"`
	Options       []string `yaml:"options"`

	// PIC set to false forbids position-independent code.
	PIC *bool `yaml:"pic"`

	LinkOptions []string `yaml:"link_options"`

	// Libs are names of library targets or of system libraries.
	Libs    []string `yaml:"libs"`
	LibDirs []string `yaml:"lib_dirs"`

	Cmd  []string          `yaml:"cmd"`
	Cmds [][]string        `yaml:"cmds"`
	Env  map[string]string `yaml:"env"`

	// Deps are names of targets the edge depends on.
	Deps []string `yaml:"deps"`
}

// InstallItem is a target name, or a mapping naming a header file or a
// header directory of the source tree.
type InstallItem struct {
	Target    string `yaml:"target"`
	Header    string `yaml:"header"`
	HeaderDir string `yaml:"header_dir"`
}

func (i *InstallItem) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		i.Target = value.Value
		return nil
	}

	type plain InstallItem
	if err := value.Decode((*plain)(i)); err != nil {
		return err
	}
	if count(i.Target, i.Header, i.HeaderDir) != 1 {
		return zerr.With(zerr.With(zerr.Wrap(ErrInvalidItem, ""), "section", "install"), "line", value.Line)
	}
	return nil
}

// TestItem is a test program name, or a mapping declaring a test or a test
// driver.
type TestItem struct {
	Test    string            `yaml:"test"`
	Driver  string            `yaml:"driver"`
	Options []string          `yaml:"options"`
	Env     map[string]string `yaml:"env"`

	// Tests are run by the driver.
	Tests []TestItem `yaml:"tests"`
}

func (t *TestItem) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		t.Test = value.Value
		return nil
	}

	type plain TestItem
	if err := value.Decode((*plain)(t)); err != nil {
		return err
	}
	if count(t.Test, t.Driver) != 1 || (t.Test != "" && len(t.Tests) > 0) {
		return zerr.With(zerr.With(zerr.Wrap(ErrInvalidItem, ""), "section", "tests"), "line", value.Line)
	}
	return nil
}

func count(values ...string) int {
	n := 0
	for _, v := range values {
		if v != "" {
			n++
		}
	}
	return n
}

// Parse decodes a build description.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	return &f, nil
}

// Read reads and decodes the build description at filename.
func Read(filename string) (*File, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, zerr.With(fmt.Errorf("%w: %w", ErrRead, err), "path", filename)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, zerr.With(err, "path", filename)
	}
	return f, nil
}
