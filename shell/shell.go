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

// Package shell implements the command-line quoting dialects used when
// generating commands for a build executor.  Every dialect must be an exact
// inverse of the argument parser that the spawned process will apply, since
// the generated string is reparsed by that parser.
package shell

import (
	"sort"
	"strings"

	"go.trai.ch/zerr"
)

// ErrUnknownDialect is returned by Lookup for an unrecognized dialect name.
var ErrUnknownDialect = zerr.New("unknown shell dialect")

// A Dialect is a platform-specific command-line tokenization and quoting
// grammar.
type Dialect interface {
	// Name returns the configuration name of the dialect.
	Name() string

	// Split breaks a command line into its arguments.
	Split(s string) []string

	// Escape reports whether s needs quoting and returns the escaped form of
	// s that Quote would wrap.
	Escape(s string) (string, bool)

	// Quote returns s in a form that Split reads back as a single argument.
	Quote(s string) string

	// JoinArgs quotes every argument of every command and joins them into
	// one command line.
	JoinArgs(cmds [][]string) string

	// LocalEnv returns the words that bind env for the single command they
	// prefix.  setenv is the helper program some dialects need for this; a
	// dialect that needs one returns nil when setenv is empty.
	LocalEnv(env map[string]string, setenv Word) Command

	// GlobalEnv returns statements that bind env for every command that
	// follows them in the same command line.
	GlobalEnv(env map[string]string) []Command
}

// Lookup returns the dialect registered under name.
func Lookup(name string) (Dialect, error) {
	switch name {
	case "posix":
		return Posix, nil
	case "windows":
		return Windows, nil
	default:
		return nil, zerr.With(zerr.Wrap(ErrUnknownDialect, ""), "dialect", name)
	}
}

// A FragmentKind says how a Fragment must be treated when a command is
// rendered.
type FragmentKind int

const (
	// Plain text is quoted by the dialect as needed.
	Plain FragmentKind = iota
	// Escaped text is already valid shell text and is copied as is.
	Escaped
	// Variable is a build-file variable reference.  The executor expands it
	// before the shell sees the command, so it is never quoted.
	Variable
)

// A Fragment is one piece of a Word.
type Fragment struct {
	Kind FragmentKind
	Text string
}

// A Word is a single command-line argument, possibly assembled from
// fragments of different kinds (e.g. "/Fo" followed by a variable).
type Word []Fragment

// String returns a word holding plain text.
func String(s string) Word {
	return Word{{Kind: Plain, Text: s}}
}

// Literal returns a word holding already-escaped shell text.
func Literal(s string) Word {
	return Word{{Kind: Escaped, Text: s}}
}

// Var returns a word referencing the build-file variable name.
func Var(name string) Word {
	return Word{{Kind: Variable, Text: name}}
}

// Concat joins words into a single word, merging adjacent text fragments of
// the same kind.
func Concat(words ...Word) Word {
	var result Word
	for _, w := range words {
		for _, f := range w {
			n := len(result)
			if n > 0 && f.Kind != Variable && result[n-1].Kind == f.Kind {
				result[n-1].Text += f.Text
				continue
			}
			result = append(result, f)
		}
	}
	return result
}

// String returns a readable form of the word, mainly for diagnostics.
func (w Word) String() string {
	var b strings.Builder
	for _, f := range w {
		if f.Kind == Variable {
			b.WriteString("${" + f.Text + "}")
		} else {
			b.WriteString(f.Text)
		}
	}
	return b.String()
}

// A Command is a sequence of words forming one invocation.
type Command []Word

// Args returns a command of plain-text arguments.
func Args(args ...string) Command {
	cmd := make(Command, len(args))
	for i, a := range args {
		cmd[i] = String(a)
	}
	return cmd
}

// Words converts plain strings into words.
func Words(args []string) []Word {
	words := make([]Word, len(args))
	for i, a := range args {
		words[i] = String(a)
	}
	return words
}

// RenderWord quotes the plain fragments of w with d.  The result holds only
// Escaped and Variable fragments.
func RenderWord(d Dialect, w Word) Word {
	if len(w) == 1 && w[0].Kind == Plain && w[0].Text == "" {
		return Literal(d.Quote(""))
	}

	var result Word
	for _, f := range w {
		switch f.Kind {
		case Plain:
			if f.Text != "" {
				result = Concat(result, Literal(d.Quote(f.Text)))
			}
		default:
			result = Concat(result, Word{f})
		}
	}
	return result
}

// Render renders cmd as a single word with its arguments separated by spaces.
func Render(d Dialect, cmd Command) Word {
	var result Word
	for i, w := range cmd {
		if i > 0 {
			result = Concat(result, Literal(" "))
		}
		result = Concat(result, RenderWord(d, w))
	}
	return result
}

// JoinCommands renders each command and joins them so that each one runs
// only if the previous one succeeded.
func JoinCommands(d Dialect, cmds []Command) Word {
	var result Word
	for i, cmd := range cmds {
		if i > 0 {
			result = Concat(result, Literal(" && "))
		}
		result = Concat(result, Render(d, cmd))
	}
	return result
}

// QuoteWord quotes an already-rendered word again so that it can be passed
// as one argument to another program.  Variable references stay unquoted.
func QuoteWord(d Dialect, w Word) Word {
	plain := make(Word, len(w))
	for i, f := range w {
		if f.Kind == Escaped {
			f.Kind = Plain
		}
		plain[i] = f
	}
	return RenderWord(d, plain)
}

func joinArgs(d Dialect, cmds [][]string) string {
	lines := make([]string, len(cmds))
	for i, cmd := range cmds {
		args := make([]string, len(cmd))
		for j, arg := range cmd {
			args[j] = d.Quote(arg)
		}
		lines[i] = strings.Join(args, " ")
	}
	return strings.Join(lines, " && ")
}

func sortedNames(env map[string]string) []string {
	names := make([]string, 0, len(env))
	for name := range env {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
