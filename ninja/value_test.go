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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValueString(t *testing.T) {
	testCases := []struct {
		value Value
		out   string
	}{
		{value: Literal("a$b"), out: "a$$b"},
		{value: Literal(" lead"), out: "$ lead"},
		{value: Concat(Ref("out"), Literal(".d")), out: "$out.d"},
		{value: Concat(Ref("srcdir"), Literal("/a.c")), out: "$srcdir/a.c"},
		{value: Concat(Ref("cc"), Literal("flags")), out: "${cc}flags"},
		{value: Concat(Ref("a"), Ref("b")), out: "$a$b"},
		{value: Join([]Value{Ref("global_cflags"), Literal("-Iinclude")}, " "), out: "$global_cflags -Iinclude"},
		{value: Concat(Ref("foo.bar"), Literal("baz")), out: "${foo.bar}baz"},
		{value: Concat(Literal("$"), Ref("cmd")), out: "$$$cmd"},
		{value: Literal("$$cmd"), out: "$$$$cmd"},
	}

	for _, testCase := range testCases {
		assert.Equal(t, testCase.out, testCase.value.String())
	}
}

func TestValueEscapers(t *testing.T) {
	v := Concat(Ref("srcdir"), Literal("/dir with space/a:b.c"))
	assert.Equal(t, "$srcdir/dir$ with$ space/a:b.c", v.valueWithEscaper(inputEscaper))
	assert.Equal(t, "$srcdir/dir$ with$ space/a$:b.c", v.valueWithEscaper(outputEscaper))
}

func TestValueIsEmpty(t *testing.T) {
	assert.True(t, Value{}.IsEmpty())
	assert.True(t, Literal("").IsEmpty())
	assert.True(t, Concat(Literal(""), Literal("")).IsEmpty())
	assert.False(t, Ref("x").IsEmpty())
	assert.False(t, Literal(" ").IsEmpty())
}

func TestValidateName(t *testing.T) {
	for _, name := range []string{"cc", "global_cflags", "link_cc", "a.b", "x-1"} {
		assert.NoError(t, ValidateName(name), name)
	}
	assert.ErrorIs(t, ValidateName(""), ErrEmptyName)
	for _, name := range []string{"a b", "c++", "$x"} {
		assert.ErrorIs(t, ValidateName(name), ErrInvalidNameChar, name)
	}
}

func TestValueValidate(t *testing.T) {
	assert.NoError(t, Value{}.Validate())
	assert.NoError(t, Join([]Value{Ref("cc"), Literal("-c"), Ref("in")}, " ").Validate())
	assert.ErrorIs(t, Literal("a\nb").Validate(), ErrNewline)
	assert.ErrorIs(t, Concat(Ref("out"), Literal("\n.d")).Validate(), ErrNewline)
}
