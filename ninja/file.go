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

// Package ninja holds an in-memory ninja build file and writes it out.
// Variables, rules and builds live in name-keyed registries that keep their
// registration order, so the same sequence of registrations always produces
// the same bytes.
package ninja

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"go.trai.ch/zerr"
)

// PhonyRule is ninja's built-in rule for builds that run no command.
const PhonyRule = "phony"

// Phony is the output of a build that never exists, which makes everything
// depending on it out of date on every run.
const Phony = "PHONY"

var (
	ErrDuplicate    = zerr.New("duplicate definition")
	ErrReservedName = zerr.New("reserved name")
	ErrUnknownRule  = zerr.New("unknown rule")
	ErrNoOutputs    = zerr.New("build has no outputs")
)

// A Deps value indicates the dependency file format that Ninja should expect to
// be output by a compiler.
type Deps int

const (
	DepsNone Deps = iota
	DepsGCC
	DepsMSVC
)

func (d Deps) String() string {
	switch d {
	case DepsNone:
		return "none"
	case DepsGCC:
		return "gcc"
	case DepsMSVC:
		return "msvc"
	default:
		panic(fmt.Sprintf("unknown deps value: %d", d))
	}
}

// A Section groups variables in the written file.
type Section int

const (
	SectionPath Section = iota
	SectionInstall
	SectionCommand
	SectionFlags
	SectionOther
	numSections
)

// A Variable is a top-level variable assignment.
type Variable struct {
	Name    string
	Value   Value
	Section Section
}

// A Pool limits the number of concurrent jobs of the rules that use it.
type Pool struct {
	Name  string
	Depth int
}

// A Rule is a ninja rule definition.
type Rule struct {
	Name        string
	Command     Value // The command that Ninja will run for the rule.
	Depfile     Value // The dependency file name.
	Deps        Deps  // The format of the dependency file.
	Description Value // The description that Ninja will print for the rule.
	Generator   bool  // Whether the rule generates the Ninja manifest file.
	Pool        string
	Restat      bool // Whether Ninja should re-stat the rule's outputs.
}

// An Assignment is a variable set in the scope of one build.
type Assignment struct {
	Name  string
	Value Value
}

// A Build is a ninja build statement.
type Build struct {
	Rule            string
	Outputs         []Value
	ImplicitOutputs []Value
	Inputs          []Value
	Implicits       []Value
	OrderOnly       []Value
	Variables       []Assignment
}

// Set assigns name in the scope of b, replacing an earlier assignment of the
// same name.
func (b *Build) Set(name string, value Value) {
	for i := range b.Variables {
		if b.Variables[i].Name == name {
			b.Variables[i].Value = value
			return
		}
	}
	b.Variables = append(b.Variables, Assignment{Name: name, Value: value})
}

// Get returns the value assigned to name in the scope of b.
func (b *Build) Get(name string) (Value, bool) {
	for _, a := range b.Variables {
		if a.Name == name {
			return a.Value, true
		}
	}
	return Value{}, false
}

// A File is a ninja build file under construction.
type File struct {
	// Comment is written at the top of the file.
	Comment string
	// RequiredVersion is written as ninja_required_version when set.
	RequiredVersion string

	variables     []*Variable
	variableIndex map[string]*Variable

	pools     []*Pool
	poolIndex map[string]*Pool

	rules     []*Rule
	ruleIndex map[string]*Rule

	builds     []*Build
	buildIndex map[string]*Build

	defaults []Value
}

// NewFile returns an empty file.
func NewFile() *File {
	return &File{
		variableIndex: make(map[string]*Variable),
		poolIndex:     make(map[string]*Pool),
		ruleIndex:     make(map[string]*Rule),
		buildIndex:    make(map[string]*Build),
	}
}

// AddVariable declares a top-level variable and returns a reference to it.
func (f *File) AddVariable(name string, value Value, section Section) (Value, error) {
	if err := ValidateName(name); err != nil {
		return Value{}, err
	}
	if _, ok := f.variableIndex[name]; ok {
		return Value{}, zerr.With(zerr.With(zerr.Wrap(ErrDuplicate, ""), "kind", "variable"), "name", name)
	}
	if err := value.Validate(); err != nil {
		return Value{}, zerr.With(err, "variable", name)
	}
	v := &Variable{Name: name, Value: value, Section: section}
	f.variables = append(f.variables, v)
	f.variableIndex[name] = v
	return Ref(name), nil
}

// EnsureVariable declares a top-level variable unless one with the same name
// exists.  It returns a reference to the variable and whether it was
// declared by this call.
func (f *File) EnsureVariable(name string, value Value, section Section) (Value, bool, error) {
	if _, ok := f.variableIndex[name]; ok {
		return Ref(name), false, nil
	}
	ref, err := f.AddVariable(name, value, section)
	if err != nil {
		return Value{}, false, err
	}
	return ref, true, nil
}

// Variable returns the top-level variable name.
func (f *File) Variable(name string) (*Variable, bool) {
	v, ok := f.variableIndex[name]
	return v, ok
}

// Variables returns the top-level variables in declaration order.
func (f *File) Variables() []*Variable {
	return f.variables
}

// AddPool declares a pool.
func (f *File) AddPool(name string, depth int) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	if _, ok := f.poolIndex[name]; ok {
		return zerr.With(zerr.With(zerr.Wrap(ErrDuplicate, ""), "kind", "pool"), "name", name)
	}
	p := &Pool{Name: name, Depth: depth}
	f.pools = append(f.pools, p)
	f.poolIndex[name] = p
	return nil
}

// AddRule declares r.
func (f *File) AddRule(r *Rule) error {
	if r.Name == PhonyRule {
		return zerr.With(zerr.Wrap(ErrReservedName, ""), "name", r.Name)
	}
	if err := ValidateName(r.Name); err != nil {
		return err
	}
	if _, ok := f.ruleIndex[r.Name]; ok {
		return zerr.With(zerr.With(zerr.Wrap(ErrDuplicate, ""), "kind", "rule"), "name", r.Name)
	}
	if err := validateValues(r.Command, r.Depfile, r.Description); err != nil {
		return zerr.With(err, "rule", r.Name)
	}
	f.rules = append(f.rules, r)
	f.ruleIndex[r.Name] = r
	return nil
}

// EnsureRule declares r unless a rule with the same name exists.  It returns
// the registered rule and whether it is r.
func (f *File) EnsureRule(r *Rule) (*Rule, bool, error) {
	if existing, ok := f.ruleIndex[r.Name]; ok {
		return existing, false, nil
	}
	if err := f.AddRule(r); err != nil {
		return nil, false, err
	}
	return r, true, nil
}

// Rule returns the rule name.
func (f *File) Rule(name string) (*Rule, bool) {
	r, ok := f.ruleIndex[name]
	return r, ok
}

// Rules returns the rules in declaration order.
func (f *File) Rules() []*Rule {
	return f.rules
}

func buildKey(output Value) string {
	return output.valueWithEscaper(outputEscaper)
}

// AddBuild declares b.  No output of b may be produced by another build.
func (f *File) AddBuild(b *Build) error {
	if len(b.Outputs) == 0 {
		return zerr.With(zerr.Wrap(ErrNoOutputs, ""), "rule", b.Rule)
	}
	if _, ok := f.ruleIndex[b.Rule]; !ok && b.Rule != PhonyRule {
		return zerr.With(zerr.Wrap(ErrUnknownRule, ""), "rule", b.Rule)
	}

	outputs := append(append([]Value(nil), b.Outputs...), b.ImplicitOutputs...)
	if err := validateBuild(b, outputs); err != nil {
		return zerr.With(err, "rule", b.Rule)
	}
	for _, o := range outputs {
		if _, ok := f.buildIndex[buildKey(o)]; ok {
			return zerr.With(zerr.With(zerr.Wrap(ErrDuplicate, ""), "kind", "build"), "output", buildKey(o))
		}
	}
	for _, o := range outputs {
		f.buildIndex[buildKey(o)] = b
	}
	f.builds = append(f.builds, b)
	return nil
}

func validateBuild(b *Build, outputs []Value) error {
	for _, list := range [][]Value{outputs, b.Inputs, b.Implicits, b.OrderOnly} {
		if err := validateValues(list...); err != nil {
			return err
		}
	}
	for _, a := range b.Variables {
		if err := a.Value.Validate(); err != nil {
			return zerr.With(err, "variable", a.Name)
		}
	}
	return nil
}

func validateValues(values ...Value) error {
	for _, v := range values {
		if err := v.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// EnsureBuild declares b unless a build producing its first output exists.
// It returns the registered build and whether it is b.
func (f *File) EnsureBuild(b *Build) (*Build, bool, error) {
	if len(b.Outputs) > 0 {
		if existing, ok := f.buildIndex[buildKey(b.Outputs[0])]; ok {
			return existing, false, nil
		}
	}
	if err := f.AddBuild(b); err != nil {
		return nil, false, err
	}
	return b, true, nil
}

// Build returns the build producing output.
func (f *File) Build(output Value) (*Build, bool) {
	b, ok := f.buildIndex[buildKey(output)]
	return b, ok
}

// Builds returns the builds in declaration order.
func (f *File) Builds() []*Build {
	return f.builds
}

// AddDefault appends targets to the default statement.
func (f *File) AddDefault(targets ...Value) {
	f.defaults = append(f.defaults, targets...)
}

// WriteTo writes the file in ninja syntax.
func (f *File) WriteTo(w io.Writer) (int64, error) {
	buf := &bytes.Buffer{}
	if err := f.write(newWriter(buf)); err != nil {
		return 0, err
	}
	return buf.WriteTo(w)
}

// Bytes returns the file in ninja syntax.
func (f *File) Bytes() []byte {
	buf := &bytes.Buffer{}
	// Writes to a bytes.Buffer do not fail.
	_ = f.write(newWriter(buf))
	return buf.Bytes()
}

func (f *File) write(nw *writer) error {
	if f.Comment != "" {
		if err := nw.Comment(f.Comment); err != nil {
			return err
		}
		if err := nw.BlankLine(); err != nil {
			return err
		}
	}

	if f.RequiredVersion != "" {
		if err := nw.Assign("ninja_required_version", f.RequiredVersion); err != nil {
			return err
		}
		if err := nw.BlankLine(); err != nil {
			return err
		}
	}

	for section := Section(0); section < numSections; section++ {
		wrote := false
		for _, v := range f.variables {
			if v.Section != section {
				continue
			}
			if err := nw.Assign(v.Name, v.Value.String()); err != nil {
				return err
			}
			wrote = true
		}
		if wrote {
			if err := nw.BlankLine(); err != nil {
				return err
			}
		}
	}

	for _, p := range f.pools {
		if err := nw.Pool(p.Name); err != nil {
			return err
		}
		if err := nw.ScopedAssign("depth", strconv.Itoa(p.Depth)); err != nil {
			return err
		}
		if err := nw.BlankLine(); err != nil {
			return err
		}
	}

	for _, r := range f.rules {
		if err := writeRule(nw, r); err != nil {
			return err
		}
	}

	for _, b := range f.builds {
		if err := writeBuild(nw, b); err != nil {
			return err
		}
	}

	if len(f.defaults) > 0 {
		if err := nw.Default(valueList(f.defaults, outputEscaper)...); err != nil {
			return err
		}
	}

	return nil
}

func writeRule(nw *writer, r *Rule) error {
	if err := nw.Rule(r.Name); err != nil {
		return err
	}

	variables := map[string]string{
		"command": r.Command.String(),
	}
	if !r.Depfile.IsEmpty() {
		variables["depfile"] = r.Depfile.String()
	}
	if r.Deps != DepsNone {
		variables["deps"] = r.Deps.String()
	}
	if !r.Description.IsEmpty() {
		variables["description"] = r.Description.String()
	}
	if r.Generator {
		variables["generator"] = "1"
	}
	if r.Pool != "" {
		variables["pool"] = r.Pool
	}
	if r.Restat {
		variables["restat"] = "1"
	}

	if err := writeVariables(nw, variables); err != nil {
		return err
	}
	return nw.BlankLine()
}

func writeBuild(nw *writer, b *Build) error {
	var (
		outputs       = valueList(b.Outputs, outputEscaper)
		implicitOuts  = valueList(b.ImplicitOutputs, outputEscaper)
		explicitDeps  = valueList(b.Inputs, inputEscaper)
		implicitDeps  = valueList(b.Implicits, inputEscaper)
		orderOnlyDeps = valueList(b.OrderOnly, inputEscaper)
	)

	err := nw.Build(b.Rule, outputs, implicitOuts, explicitDeps, implicitDeps, orderOnlyDeps)
	if err != nil {
		return err
	}

	for _, a := range b.Variables {
		if err := nw.ScopedAssign(a.Name, a.Value.String()); err != nil {
			return err
		}
	}

	return nw.BlankLine()
}

func valueList(list []Value, escaper *strings.Replacer) []string {
	result := make([]string, len(list))
	for i, v := range list {
		result[i] = v.valueWithEscaper(escaper)
	}
	return result
}

func writeVariables(nw *writer, variables map[string]string) error {
	var keys []string
	for k := range variables {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, name := range keys {
		if err := nw.ScopedAssign(name, variables[name]); err != nil {
			return err
		}
	}
	return nil
}
