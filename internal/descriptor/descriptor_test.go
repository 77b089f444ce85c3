package descriptor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/textfind/pkg/types"
)

func TestEncode(t *testing.T) {
	tests := []struct {
		name  string
		match types.Match
		want  string
	}{
		{
			name:  "first line",
			match: types.Match{Path: "a.txt", Row: 1, Col: 0, Pos: 0, Len: 5, Line: "alpha"},
			want:  "(a.txt)[1,0,0,5]alpha",
		},
		{
			name:  "second line",
			match: types.Match{Path: "a.txt", Row: 2, Col: 5, Pos: 11, Len: 5, Line: "beta alpha"},
			want:  "(a.txt)[2,5,11,5]beta alpha",
		},
		{
			name:  "no escaping",
			match: types.Match{Path: "/tmp/x,y", Row: 3, Col: 1, Pos: 20, Len: 1, Line: "(a)[1,2]"},
			want:  "(/tmp/x,y)[3,1,20,1](a)[1,2]",
		},
		{
			name:  "empty line and pattern",
			match: types.Match{Path: "e", Row: 7, Col: 0, Pos: 42, Len: 0, Line: ""},
			want:  "(e)[7,0,42,0]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Encode(tt.match))
		})
	}
}

func TestEncodeAll(t *testing.T) {
	assert.Nil(t, EncodeAll(nil))

	got := EncodeAll([]types.Match{
		{Path: "a", Row: 1, Len: 1, Line: "x"},
		{Path: "a", Row: 2, Pos: 2, Len: 1, Line: "x"},
	})
	assert.Equal(t, []string{"(a)[1,0,0,1]x", "(a)[2,0,2,1]x"}, got)
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "well formed",
			input: "(a.txt)[2,5,11,5]beta alpha",
			want:  []string{"a.txt", "2", "5", "11", "5", "beta alpha"},
		},
		{
			name:  "line keeps delimiters",
			input: "(f)[1,0,0,1],](x)",
			want:  []string{"f", "1", "0", "0", "1", ",](x)"},
		},
		{
			name:  "path with comma",
			input: "(/tmp/x,y)[3,1,20,1]z",
			want:  []string{"/tmp/x,y", "3", "1", "20", "1", "z"},
		},
		{
			name:  "non numeric characters dropped from numbers",
			input: "(p)[1a, 2,3x,4]L",
			want:  []string{"p", "1", "2", "3", "4", "L"},
		},
		{
			name:  "path containing close paren is garbled",
			input: "(a)b)[1,0,0,1]x",
			want:  []string{"a", "1", "0", "0", "1", "x"},
		},
		{
			name:  "empty input",
			input: "",
			want:  []string{""},
		},
		{
			name:  "no structure",
			input: "garbage",
			want:  []string{"arbage"},
		},
		{
			name:  "truncated",
			input: "(a)[1,2",
			want:  []string{"a", "1", "2"},
		},
		{
			name:  "unicode line",
			input: "(ü.txt)[1,3,3,2]héllo wörld",
			want:  []string{"ü.txt", "1", "3", "3", "2", "héllo wörld"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Decode(tt.input))
		})
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	matches := []types.Match{
		{Path: "alpha.txt", Row: 1, Col: 0, Pos: 0, Len: 5, Line: "alpha"},
		{Path: "/var/log/app.log", Row: 1200, Col: 17, Pos: 98213, Len: 9, Line: "level=error msg=boom"},
		{Path: "dir/ü.txt", Row: 4, Col: 2, Pos: 30, Len: 2, Line: "日本語 text"},
		{Path: "x", Row: 1, Col: 0, Pos: 0, Len: 0, Line: ""},
	}

	for _, m := range matches {
		fields := Decode(Encode(m))
		require.Len(t, fields, FieldCount)
		assert.Equal(t, m.Path, fields[FieldPath])
		assert.Equal(t, m.Line, fields[FieldLine])

		parsed, err := Parse(Encode(m))
		require.NoError(t, err)
		assert.Equal(t, m, parsed)
	}
}

func TestParse_Malformed(t *testing.T) {
	inputs := []string{
		"",
		"garbage",
		"(a)[1,2",
		"(p)[1a,2,3,4]L",
		"(a)b)[1,0,0,1]x",
		"(a)[01,0,0,1]x",
		"(a)[0,0,0,1]x",
		"(a)[2,5,3,1]x",
	}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			_, err := Parse(in)
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}
}
