package descriptor

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/dshills/textfind/pkg/types"
)

// FieldCount is the number of fields in a well-formed descriptor.
const FieldCount = 6

// Field indexes into the slice returned by Decode.
const (
	FieldPath = iota
	FieldRow
	FieldCol
	FieldPos
	FieldLen
	FieldLine
)

// ErrMalformed is returned by Parse when the input is not a descriptor.
var ErrMalformed = errors.New("malformed descriptor")

// Encode renders m as "(path)[row,col,pos,len]line".
func Encode(m types.Match) string {
	var b strings.Builder
	b.Grow(len(m.Path) + len(m.Line) + 24)

	b.WriteByte('(')
	b.WriteString(m.Path)
	b.WriteString(")[")
	b.WriteString(strconv.Itoa(m.Row))
	b.WriteByte(',')
	b.WriteString(strconv.Itoa(m.Col))
	b.WriteByte(',')
	b.WriteString(strconv.Itoa(m.Pos))
	b.WriteByte(',')
	b.WriteString(strconv.Itoa(m.Len))
	b.WriteByte(']')
	b.WriteString(m.Line)

	return b.String()
}

// EncodeAll encodes every match in order. It returns nil for an empty input.
func EncodeAll(matches []types.Match) []string {
	if len(matches) == 0 {
		return nil
	}
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, Encode(m))
	}
	return out
}

// Decode splits a descriptor into its fields.
//
// The first character is skipped. Everything up to the first ')' is the
// path. Until five fields are closed, ',' and ']' close the current field,
// numeric characters accumulate and anything else is dropped. After that
// the remaining text is taken verbatim as the last field. The accumulator
// is always appended at the end, so the result is never empty.
func Decode(s string) []string {
	result := make([]string, 0, FieldCount)
	var actual strings.Builder
	first := true

	for _, ch := range s {
		if first {
			first = false
			continue
		}

		switch {
		case len(result) == 0:
			if ch == ')' {
				result = append(result, actual.String())
				actual.Reset()
			} else {
				actual.WriteRune(ch)
			}
		case len(result) < FieldCount-1:
			if ch == ',' || ch == ']' {
				result = append(result, actual.String())
				actual.Reset()
			}
			if unicode.IsNumber(ch) {
				actual.WriteRune(ch)
			}
		default:
			actual.WriteRune(ch)
		}
	}

	return append(result, actual.String())
}

// Parse strictly decodes s into a match record.
func Parse(s string) (types.Match, error) {
	fields := Decode(s)
	if len(fields) != FieldCount {
		return types.Match{}, fmt.Errorf("%w: expected %d fields, got %d", ErrMalformed, FieldCount, len(fields))
	}

	var nums [4]int
	for i, name := range []string{"row", "col", "pos", "len"} {
		n, err := strconv.Atoi(fields[FieldRow+i])
		if err != nil {
			return types.Match{}, fmt.Errorf("%w: invalid %s %q", ErrMalformed, name, fields[FieldRow+i])
		}
		nums[i] = n
	}

	m := types.Match{
		Path: fields[FieldPath],
		Row:  nums[0],
		Col:  nums[1],
		Pos:  nums[2],
		Len:  nums[3],
		Line: fields[FieldLine],
	}

	// Decode drops stray characters; reject anything it had to clean up.
	if Encode(m) != s {
		return types.Match{}, fmt.Errorf("%w: %q does not round-trip", ErrMalformed, s)
	}

	if err := m.Validate(); err != nil {
		return types.Match{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	return m, nil
}
