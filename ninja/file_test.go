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
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileRegistries(t *testing.T) {
	f := NewFile()

	ref, err := f.AddVariable("cc", Literal("cc"), SectionCommand)
	require.NoError(t, err)
	assert.Equal(t, "$cc", ref.String())

	_, err = f.AddVariable("cc", Literal("gcc"), SectionCommand)
	assert.ErrorIs(t, err, ErrDuplicate)

	_, created, err := f.EnsureVariable("cc", Literal("gcc"), SectionCommand)
	require.NoError(t, err)
	assert.False(t, created)
	v, ok := f.Variable("cc")
	require.True(t, ok)
	assert.Equal(t, "cc", v.Value.String())

	_, err = f.AddVariable("bad name", Literal(""), SectionOther)
	assert.ErrorIs(t, err, ErrInvalidNameChar)

	err = f.AddRule(&Rule{Name: PhonyRule, Command: Literal("true")})
	assert.ErrorIs(t, err, ErrReservedName)

	r := &Rule{Name: "cc", Command: Join([]Value{Ref("cc"), Literal("-c"), Ref("in"), Literal("-o"), Ref("out")}, " ")}
	got, created, err := f.EnsureRule(r)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Same(t, r, got)

	got, created, err = f.EnsureRule(&Rule{Name: "cc"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Same(t, r, got)

	err = f.AddBuild(&Build{Rule: "missing", Outputs: Literals("x")})
	assert.ErrorIs(t, err, ErrUnknownRule)

	err = f.AddBuild(&Build{Rule: "cc"})
	assert.ErrorIs(t, err, ErrNoOutputs)

	b := &Build{Rule: "cc", Outputs: Literals("a.o"), Inputs: Literals("a.c")}
	require.NoError(t, f.AddBuild(b))

	err = f.AddBuild(&Build{Rule: PhonyRule, Outputs: Literals("a.o")})
	assert.ErrorIs(t, err, ErrDuplicate)

	got2, created, err := f.EnsureBuild(&Build{Rule: PhonyRule, Outputs: Literals("a.o")})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Same(t, b, got2)

	found, ok := f.Build(Literal("a.o"))
	require.True(t, ok)
	assert.Same(t, b, found)

	require.NoError(t, f.AddPool("link_pool", 2))
	assert.ErrorIs(t, f.AddPool("link_pool", 3), ErrDuplicate)
}

func TestFileRejectsNewlines(t *testing.T) {
	f := NewFile()

	_, err := f.AddVariable("cflags", Literal("-DA=1\n-DB=2"), SectionFlags)
	assert.ErrorIs(t, err, ErrNewline)
	_, ok := f.Variable("cflags")
	assert.False(t, ok)

	err = f.AddRule(&Rule{Name: "gen", Command: Join([]Value{Literal("echo"), Literal("a\nb")}, " ")})
	assert.ErrorIs(t, err, ErrNewline)
	err = f.AddRule(&Rule{Name: "gen", Command: Literal("true"), Description: Literal("line\n")})
	assert.ErrorIs(t, err, ErrNewline)
	_, ok = f.Rule("gen")
	assert.False(t, ok)

	require.NoError(t, f.AddRule(&Rule{Name: "cp", Command: Literal("cp $in $out")}))
	err = f.AddBuild(&Build{Rule: "cp", Outputs: Literals("a\nb"), Inputs: Literals("a")})
	assert.ErrorIs(t, err, ErrNewline)
	err = f.AddBuild(&Build{Rule: "cp", Outputs: Literals("b"), Inputs: Literals("a\n")})
	assert.ErrorIs(t, err, ErrNewline)
	b := &Build{Rule: "cp", Outputs: Literals("b"), Inputs: Literals("a")}
	b.Set("flags", Literal("x\ny"))
	assert.ErrorIs(t, f.AddBuild(b), ErrNewline)
	assert.Empty(t, f.Builds())
}

func TestBuildSet(t *testing.T) {
	b := &Build{}
	b.Set("cflags", Literal("-O2"))
	b.Set("output", Literal("app"))
	b.Set("cflags", Literal("-O3"))

	assert.Equal(t, []Assignment{
		{Name: "cflags", Value: Literal("-O3")},
		{Name: "output", Value: Literal("app")},
	}, b.Variables)

	v, ok := b.Get("output")
	assert.True(t, ok)
	assert.Equal(t, "app", v.String())
	_, ok = b.Get("missing")
	assert.False(t, ok)
}

func TestFileWrite(t *testing.T) {
	f := NewFile()
	f.Comment = "Do not edit."
	f.RequiredVersion = "1.5"

	// Registered out of section order on purpose.
	_, err := f.AddVariable("cflags", Ref("global_cflags"), SectionOther)
	require.NoError(t, err)
	_, err = f.AddVariable("global_cflags", Literal("-O2"), SectionFlags)
	require.NoError(t, err)
	_, err = f.AddVariable("cc", Literal("cc"), SectionCommand)
	require.NoError(t, err)
	_, err = f.AddVariable("srcdir", Literal(".."), SectionPath)
	require.NoError(t, err)
	_, err = f.AddVariable("prefix", Literal("/usr/local"), SectionInstall)
	require.NoError(t, err)

	require.NoError(t, f.AddPool("link_pool", 1))

	require.NoError(t, f.AddRule(&Rule{
		Name:    "cc",
		Command: Join([]Value{
			Ref("cc"), Ref("cflags"), Literal("-c"), Ref("in"),
			Literal("-MMD -MF"), Concat(Ref("out"), Literal(".d")),
			Literal("-o"), Ref("out"),
		}, " "),
		Depfile: Concat(Ref("out"), Literal(".d")),
		Deps:    DepsGCC,
	}))
	require.NoError(t, f.AddRule(&Rule{
		Name:      "regenerate",
		Command:   Literal("mbuild regenerate ."),
		Generator: true,
		Pool:      "console",
	}))

	b := &Build{
		Rule:    "cc",
		Outputs: []Value{Literal("dir with space/a.o")},
		Inputs:  []Value{Concat(Ref("srcdir"), Literal("/a.c"))},
	}
	b.Set("cflags", Join([]Value{Ref("global_cflags"), Literal("-fPIC")}, " "))
	require.NoError(t, f.AddBuild(b))
	require.NoError(t, f.AddBuild(&Build{
		Rule:      PhonyRule,
		Outputs:   Literals("all"),
		Inputs:    Literals("dir with space/a.o"),
		Implicits: Literals("c:d"),
		OrderOnly: Literals("gen"),
	}))
	f.AddDefault(Literal("all"))

	expected := `# Do not edit.

ninja_required_version = 1.5

srcdir = ..

prefix = /usr/local

cc = cc

global_cflags = -O2

cflags = $global_cflags

pool link_pool
    depth = 1

rule cc
    command = $cc $cflags -c $in -MMD -MF $out.d -o $out
    depfile = $out.d
    deps = gcc

rule regenerate
    command = mbuild regenerate .
    generator = 1
    pool = console

build dir$ with$ space/a.o: cc $srcdir/a.c
    cflags = $global_cflags -fPIC

build all: phony dir$ with$ space/a.o | c:d || gen

default all
`
	assert.Equal(t, expected, string(f.Bytes()))

	buf := &bytes.Buffer{}
	n, err := f.WriteTo(buf)
	require.NoError(t, err)
	assert.Equal(t, int64(len(expected)), n)
	assert.Equal(t, expected, buf.String())
}

func TestFileWriteIsDeterministic(t *testing.T) {
	build := func() []byte {
		f := NewFile()
		for _, name := range []string{"z", "a", "m"} {
			_, err := f.AddVariable(name, Literal(name), SectionOther)
			require.NoError(t, err)
			require.NoError(t, f.AddBuild(&Build{Rule: PhonyRule, Outputs: Literals(name + "_out")}))
		}
		return f.Bytes()
	}

	first := build()
	assert.Equal(t, first, build())
	assert.Equal(t, "z = z\na = a\nm = m\n\nbuild z_out: phony\n\nbuild a_out: phony\n\nbuild m_out: phony\n\n", string(first))
}
