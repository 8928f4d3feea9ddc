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

// Posix is the dialect of /bin/sh.  Unsafe characters are escaped one at a
// time with a backslash.
var Posix Dialect = posix{}

type posix struct{}

func (posix) Name() string { return "posix" }

func shellUnsafeChar(c byte) bool {
	switch {
	case 'A' <= c && c <= 'Z',
		'a' <= c && c <= 'z',
		'0' <= c && c <= '9',
		c == '_',
		c == '+',
		c == '-',
		c == '=',
		c == '.',
		c == ',',
		c == '/',
		c == ':',
		c == '@',
		c == '%':
		return false
	default:
		return true
	}
}

func hasShellUnsafeChar(s string) bool {
	for i := 0; i < len(s); i++ {
		if shellUnsafeChar(s[i]) {
			return true
		}
	}
	return false
}

// Escape works on bytes so that strings which are not valid UTF-8 come
// back unchanged from Split.
func (posix) Escape(s string) (string, bool) {
	if s == "" {
		return "", true
	}
	if !hasShellUnsafeChar(s) {
		// No escaping necessary
		return s, false
	}

	var b strings.Builder
	b.Grow(len(s) * 2)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\n':
			// A backslash-newline is a line continuation, so the newline
			// has to be quoted instead.
			b.WriteString("'\n'")
		case shellUnsafeChar(c):
			b.WriteByte('\\')
			b.WriteByte(c)
		default:
			b.WriteByte(c)
		}
	}
	return b.String(), true
}

func (p posix) Quote(s string) string {
	if s == "" {
		return "''"
	}
	escaped, _ := p.Escape(s)
	return escaped
}

func (p posix) JoinArgs(cmds [][]string) string {
	return joinArgs(p, cmds)
}

func (posix) Split(s string) []string {
	var (
		args    []string
		current strings.Builder
		inWord  bool
	)

	flush := func() {
		if inWord {
			args = append(args, current.String())
			current.Reset()
			inWord = false
		}
	}

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n':
			flush()

		case c == '\\':
			inWord = true
			if i+1 < len(s) {
				i++
				if s[i] != '\n' {
					current.WriteByte(s[i])
				}
			}

		case c == '\'':
			inWord = true
			end := strings.IndexByte(s[i+1:], '\'')
			if end == -1 {
				current.WriteString(s[i+1:])
				i = len(s)
			} else {
				current.WriteString(s[i+1 : i+1+end])
				i += end + 1
			}

		case c == '"':
			inWord = true
			for i++; i < len(s) && s[i] != '"'; i++ {
				if s[i] == '\\' && i+1 < len(s) && strings.IndexByte("$`\"\\\n", s[i+1]) != -1 {
					i++
					if s[i] == '\n' {
						continue
					}
				}
				current.WriteByte(s[i])
			}

		default:
			inWord = true
			current.WriteByte(c)
		}
	}
	flush()

	return args
}

func (posix) LocalEnv(env map[string]string, _ Word) Command {
	var cmd Command
	for _, name := range sortedNames(env) {
		cmd = append(cmd, Concat(Literal(name+"="), String(env[name])))
	}
	return cmd
}

func (posix) GlobalEnv(env map[string]string) []Command {
	var cmds []Command
	for _, name := range sortedNames(env) {
		cmds = append(cmds, Command{
			Literal("export"),
			Concat(Literal(name+"="), String(env[name])),
		})
	}
	return cmds
}
