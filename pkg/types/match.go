package types

// Match is a single substring hit inside a text file.
//
// Offsets are byte offsets. Col is measured inside the raw line, before any
// trimming, and Pos is measured from the start of the file, so for every
// record Pos >= Col.
type Match struct {
	// Location
	Path string
	Row  int // Line number (1-based)
	Col  int // Byte offset of the hit within the raw line
	Pos  int // Byte offset of the hit within the file

	// Content
	Len  int    // Byte length of the pattern that matched
	Line string // Line text with surrounding whitespace trimmed
}

// End returns the absolute file offset one past the last matched byte.
func (m Match) End() int {
	return m.Pos + m.Len
}

// Validate checks if the match record is internally consistent
func (m Match) Validate() error {
	if m.Row < 1 {
		return ErrInvalidRow
	}

	if m.Col < 0 {
		return ErrInvalidColumn
	}

	if m.Pos < m.Col {
		return ErrInvalidPosition
	}

	if m.Len < 0 {
		return ErrInvalidLength
	}

	return nil
}
