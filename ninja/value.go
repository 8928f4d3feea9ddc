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

package ninja

import (
	"io"
	"strings"

	"go.trai.ch/zerr"
)

var (
	ErrEmptyName       = zerr.New("empty variable name")
	ErrInvalidNameChar = zerr.New("invalid character in variable name")
	ErrNewline         = zerr.New("newline in value")
)

// A newline has no escape in ninja: "$\n" continues the line.  Values
// holding one are rejected when registered in a File.
var (
	defaultEscaper = strings.NewReplacer(
		"$", "$$")
	inputEscaper = strings.NewReplacer(
		"$", "$$",
		" ", "$ ")
	outputEscaper = strings.NewReplacer(
		"$", "$$",
		" ", "$ ",
		":", "$:")
)

// A Value is a ninja string: literal text interleaved with references to
// ninja variables.  References are written as is and expanded by ninja
// itself.  The literal text is stored unescaped.
type Value struct {
	// len(strings) == len(variables)+1 for any non-zero Value.
	strings   []string
	variables []string
}

// Literal returns a value holding the text s.
func Literal(s string) Value {
	return Value{strings: []string{s}}
}

// Ref returns a value referencing the variable name.
func Ref(name string) Value {
	return Value{strings: []string{"", ""}, variables: []string{name}}
}

// Concat joins values into one.
func Concat(values ...Value) Value {
	var result Value
	for _, v := range values {
		if len(v.strings) == 0 {
			continue
		}
		if len(result.strings) == 0 {
			result.strings = append(result.strings, v.strings...)
			result.variables = append(result.variables, v.variables...)
			continue
		}
		last := len(result.strings) - 1
		result.strings[last] += v.strings[0]
		result.strings = append(result.strings, v.strings[1:]...)
		result.variables = append(result.variables, v.variables...)
	}
	return result
}

// Join concatenates values, placing the literal sep between them.
func Join(values []Value, sep string) Value {
	var parts []Value
	for i, v := range values {
		if i > 0 {
			parts = append(parts, Literal(sep))
		}
		parts = append(parts, v)
	}
	return Concat(parts...)
}

// Literals converts each string into a literal value.
func Literals(strs ...string) []Value {
	if len(strs) == 0 {
		return nil
	}
	values := make([]Value, len(strs))
	for i, s := range strs {
		values[i] = Literal(s)
	}
	return values
}

// IsEmpty reports whether v renders to nothing.
func (v Value) IsEmpty() bool {
	return len(v.variables) == 0 && strings.Join(v.strings, "") == ""
}

// Validate reports an error if the literal text of v cannot be written.
func (v Value) Validate() error {
	for _, s := range v.strings {
		if strings.Contains(s, "\n") {
			return zerr.With(zerr.Wrap(ErrNewline, ""), "value", strings.Join(v.strings, ""))
		}
	}
	return nil
}

// Variables returns the names of the variables v references.
func (v Value) Variables() []string {
	return v.variables
}

// String returns v in ninja syntax as it appears on the right of an
// assignment.
func (v Value) String() string {
	b := &strings.Builder{}
	v.writeTo(b, defaultEscaper, true)
	return b.String()
}

func (v Value) valueWithEscaper(escaper *strings.Replacer) string {
	b := &strings.Builder{}
	v.writeTo(b, escaper, false)
	return b.String()
}

func (v Value) writeTo(w io.StringWriter, escaper *strings.Replacer, leading bool) {
	if len(v.strings) == 0 {
		return
	}

	first := v.strings[0]
	if leading && strings.HasPrefix(first, " ") {
		// Ninja strips the whitespace that follows the '=' of an assignment.
		w.WriteString("$")
	}
	w.WriteString(escaper.Replace(first))

	for i, name := range v.variables {
		next := v.strings[i+1]
		if strings.Contains(name, ".") || next != "" && isSimpleNameChar(rune(next[0])) {
			w.WriteString("${" + name + "}")
		} else {
			w.WriteString("$" + name)
		}
		w.WriteString(escaper.Replace(next))
	}
}

func isSimpleNameChar(r rune) bool {
	return r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' ||
		r >= '0' && r <= '9' || r == '_' || r == '-'
}

// ValidateName reports an error if name is not a valid ninja variable, rule
// or pool name.
func ValidateName(name string) error {
	if name == "" {
		return zerr.Wrap(ErrEmptyName, "")
	}
	for i, r := range name {
		if !isSimpleNameChar(r) && r != '.' {
			return zerr.With(zerr.With(zerr.Wrap(ErrInvalidNameChar, ""), "name", name), "offset", i)
		}
	}
	return nil
}
