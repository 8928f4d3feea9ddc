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

import (
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
)

type escapeTestCase struct {
	name string
	in   string
	out  string
}

var posixQuoteTestCases = []escapeTestCase{
	{
		name: "no escaping",
		in:   `test`,
		out:  `test`,
	},
	{
		name: "empty",
		in:   ``,
		out:  `''`,
	},
	{
		name: "leading $",
		in:   `$test`,
		out:  `\$test`,
	},
	{
		name: "trailing $",
		in:   `test$`,
		out:  `test\$`,
	},
	{
		name: "space",
		in:   `quad damage`,
		out:  `quad\ damage`,
	},
	{
		name: "single quote",
		in:   `'`,
		out:  `\'`,
	},
	{
		name: "double quote",
		in:   `""`,
		out:  `\"\"`,
	},
	{
		name: "backslash",
		in:   `a\b`,
		out:  `a\\b`,
	},
	{
		name: "newline",
		in:   "a\nb",
		out:  "a'\n'b",
	},
	{
		name: "invalid utf-8",
		in:   "\xff",
		out:  "\\\xff",
	},
	{
		name: "invalid utf-8 with space",
		in:   "a\xfeb c",
		out:  "a\\\xfeb\\ c",
	},
	{
		name: "ORIGIN",
		in:   `-Wl,-rpath,$ORIGIN/../lib`,
		out:  `-Wl,-rpath,\$ORIGIN/../lib`,
	},
	{
		name: "safe punctuation",
		in:   `-DFOO=bar,baz+1:2@3%4`,
		out:  `-DFOO=bar,baz+1:2@3%4`,
	},
}

func TestPosixQuote(t *testing.T) {
	for _, testCase := range posixQuoteTestCases {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.out, Posix.Quote(testCase.in))
		})
	}
}

func TestPosixEscapeSafeToken(t *testing.T) {
	for _, in := range []string{"test", "-O2", "foo/bar.c", "a=b"} {
		out, quoted := Posix.Escape(in)
		assert.False(t, quoted, in)
		assert.Equal(t, in, out)
	}
}

func TestPosixSplit(t *testing.T) {
	testCases := []struct {
		in  string
		out []string
	}{
		{in: ``, out: nil},
		{in: `  foo   bar `, out: []string{"foo", "bar"}},
		{in: `foo\ bar`, out: []string{"foo bar"}},
		{in: `'foo bar' baz`, out: []string{"foo bar", "baz"}},
		{in: `"foo \"bar\"" \$x`, out: []string{`foo "bar"`, "$x"}},
		{in: `"a\b"`, out: []string{`a\b`}},
		{in: `'' x`, out: []string{"", "x"}},
		{in: `-DX="a b"`, out: []string{"-DX=a b"}},
	}

	for _, testCase := range testCases {
		assert.Equal(t, testCase.out, Posix.Split(testCase.in), "input: %q", testCase.in)
	}
}

func TestPosixRoundTrip(t *testing.T) {
	for _, testCase := range posixQuoteTestCases {
		args := []string{testCase.in, "x"}
		assert.Equal(t, args, Posix.Split(Posix.JoinArgs([][]string{args})), testCase.name)
	}
}

func TestPosixRoundTripInvalidUTF8(t *testing.T) {
	for _, in := range []string{"\xff", "a\xfeb c", "\xc3", "caf\xc3\xa9 \x80"} {
		assert.Equal(t, []string{in}, Posix.Split(Posix.Quote(in)), "input: %q", in)
	}
}

func TestPosixEnv(t *testing.T) {
	env := map[string]string{"B": "two words", "A": "1"}

	local := Render(Posix, Posix.LocalEnv(env, nil))
	assert.Equal(t, Literal(`A=1 B=two\ words`), local)

	var global []Command
	global = append(global, Posix.GlobalEnv(env)...)
	assert.Equal(t, Literal(`export A=1 && export B=two\ words`), JoinCommands(Posix, global))
}

func TestExternalPosixQuoting(t *testing.T) {
	if testing.Short() {
		return
	}
	if _, err := exec.LookPath("/bin/sh"); err != nil {
		t.Skip("no /bin/sh")
	}
	for _, testCase := range posixQuoteTestCases {
		cmd := "printf %s " + Posix.Quote(testCase.in)
		got, err := exec.Command("/bin/sh", "-c", cmd).Output()
		if err != nil {
			t.Error(err)
		}
		if string(got) != testCase.in {
			t.Errorf("%s: expected `%s` got `%s`", testCase.name, testCase.in, got)
		}
	}
}
