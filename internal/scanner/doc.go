// Package scanner finds literal substrings in text files, line by line.
//
// For every line of a file and every pattern, in the order the patterns
// were given, the scanner reports the first occurrence of the pattern in
// that line as a types.Match. A pattern occurring several times on one line
// is reported once; several patterns hitting the same line are reported in
// pattern order.
//
// # Offsets
//
// All offsets are in bytes. Col is the offset inside the raw line and Pos
// the offset inside the file, where every earlier line counts with its
// terminator ("\n" or "\r\n"). Line is the trimmed line text.
//
//	// file: "alpha\nbeta alpha\n"
//	s := scanner.New(nil, nil)
//	matches, err := s.ScanOne("notes.txt", "alpha")
//	// matches[0]: Row 1, Col 0, Pos 0,  Len 5, Line "alpha"
//	// matches[1]: Row 2, Col 5, Pos 11, Len 5, Line "beta alpha"
//
// A file with no hits yields a nil slice and a nil error. Open and read
// failures are reported as *types.IOError and no partial result is
// returned. The empty pattern matches at column 0 of every line.
//
// Content is treated as bytes: invalid UTF-8 (a binary file, say) is
// scanned like any other input and never causes a read failure.
//
// # Filesystems
//
// Files are opened through a go-billy billy.Basic. New(nil, nil) uses the
// native filesystem, where absolute and relative paths are opened exactly
// as given; tests use an in-memory filesystem:
//
//	fs := memfs.New()
//	s := scanner.New(fs, tracelog.Nop())
package scanner
