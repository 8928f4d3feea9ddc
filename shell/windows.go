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

package shell

import "strings"

// Windows is the dialect of the Microsoft C runtime's argument parser
// (CommandLineToArgvW).
var Windows Dialect = windows{}

type windows struct{}

func (windows) Name() string { return "windows" }

type tokenKind int

const (
	tokenChar tokenKind = iota
	tokenQuote
	tokenSpace
)

type token struct {
	kind tokenKind
	char byte
}

// tokenize turns s into characters, quote toggles and separators.  A run of
// N backslashes followed by a quote becomes N/2 backslashes, followed by a
// literal quote if N is odd or a quote toggle if N is even.  Backslashes
// anywhere else are literal.
func tokenize(s string) []token {
	var (
		tokens  []token
		escapes int
	)

	backslashes := func(n int) {
		for ; n > 0; n-- {
			tokens = append(tokens, token{tokenChar, '\\'})
		}
	}

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '\\':
			escapes++
		case '"':
			backslashes(escapes / 2)
			if escapes%2 == 1 {
				tokens = append(tokens, token{tokenChar, '"'})
			} else {
				tokens = append(tokens, token{tokenQuote, 0})
			}
			escapes = 0
		case ' ', '\t':
			backslashes(escapes)
			tokens = append(tokens, token{tokenSpace, c})
			escapes = 0
		default:
			backslashes(escapes)
			tokens = append(tokens, token{tokenChar, c})
			escapes = 0
		}
	}
	backslashes(escapes)

	return tokens
}

type splitState int

const (
	stateBetween splitState = iota
	stateWord
	stateQuoted
)

func (windows) Split(s string) []string {
	var args []string
	var current *strings.Builder
	state := stateBetween

	push := func() {
		current = &strings.Builder{}
		args = append(args, "")
	}
	commit := func() {
		args[len(args)-1] = current.String()
	}

	for _, tok := range tokenize(s) {
		switch state {
		case stateBetween:
			switch tok.kind {
			case tokenChar:
				push()
				current.WriteByte(tok.char)
				state = stateWord
			case tokenQuote:
				push()
				state = stateQuoted
			}
		case stateWord:
			switch tok.kind {
			case tokenChar:
				current.WriteByte(tok.char)
			case tokenQuote:
				state = stateQuoted
			case tokenSpace:
				commit()
				state = stateBetween
			}
		case stateQuoted:
			switch tok.kind {
			case tokenQuote:
				state = stateWord
			default:
				current.WriteByte(tok.char)
			}
		}
	}
	if state != stateBetween {
		commit()
	}

	return args
}

func windowsNeedsQuote(s string) bool {
	return s == "" ||
		strings.ContainsAny(s, " \t\n\v\"") ||
		strings.HasSuffix(s, `\`)
}

func (windows) Escape(s string) (string, bool) {
	if !windowsNeedsQuote(s) {
		return s, false
	}

	var b strings.Builder
	b.Grow(len(s) + 2)
	escapes := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '\\':
			escapes++
			continue
		case '"':
			// Double the run so it stays literal, then escape the quote.
			b.WriteString(strings.Repeat(`\`, escapes*2))
			b.WriteString(`\"`)
		default:
			b.WriteString(strings.Repeat(`\`, escapes))
			b.WriteByte(c)
		}
		escapes = 0
	}
	// The run is followed by the closing quote.
	b.WriteString(strings.Repeat(`\`, escapes*2))

	return b.String(), true
}

func (w windows) Quote(s string) string {
	escaped, quote := w.Escape(s)
	if quote {
		return `"` + escaped + `"`
	}
	return escaped
}

func (w windows) JoinArgs(cmds [][]string) string {
	return joinArgs(w, cmds)
}

func (windows) LocalEnv(env map[string]string, setenv Word) Command {
	if len(env) == 0 || len(setenv) == 0 {
		return nil
	}

	cmd := Command{setenv}
	for _, name := range sortedNames(env) {
		// The name and value are quoted together so the helper sees one
		// NAME=value argument.
		cmd = append(cmd, String(name+"="+env[name]))
	}
	return append(cmd, Literal("--"))
}

func (windows) GlobalEnv(env map[string]string) []Command {
	var cmds []Command
	for _, name := range sortedNames(env) {
		cmds = append(cmds, Command{Literal("set"), String(name + "=" + env[name])})
	}
	return cmds
}
