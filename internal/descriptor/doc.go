// Package descriptor encodes match records as compact single-line strings
// and decodes them back into their fields.
//
// # Format
//
//	(<path>)[<row>,<col>,<pos>,<len>]<line>
//
// Numbers are base-10. Nothing is escaped, so a path containing ")" or a
// decoded line containing anything at all is passed through as-is:
//
//	s := descriptor.Encode(types.Match{Path: "a.txt", Row: 2, Col: 5, Pos: 11, Len: 5, Line: "beta alpha"})
//	// s == "(a.txt)[2,5,11,5]beta alpha"
//
// # Decoding
//
// Decode is a permissive fixed-shape scanner. It never fails: well-formed
// input yields six fields, malformed input yields fewer or garbled fields.
//
//	fields := descriptor.Decode(s)
//	// fields == []string{"a.txt", "2", "5", "11", "5", "beta alpha"}
//
// Parse is the strict counterpart. It returns a types.Match and fails with
// ErrMalformed unless the input is exactly what Encode would have produced.
package descriptor
