package finder

import (
	"fmt"
	"strings"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"

	"github.com/dshills/textfind/internal/scanner"
)

// benchmarkCorpus writes files of lines each to an in-memory filesystem.
func benchmarkCorpus(b *testing.B, files, lines int) (*scanner.Scanner, []string) {
	b.Helper()
	fs := memfs.New()
	paths := make([]string, files)

	var sb strings.Builder
	for i := 0; i < lines; i++ {
		if i%10 == 0 {
			fmt.Fprintf(&sb, "line %d TODO: revisit the error path\n", i)
		} else {
			fmt.Fprintf(&sb, "line %d nothing of interest happens here\n", i)
		}
	}
	content := []byte(sb.String())

	for i := range paths {
		paths[i] = fmt.Sprintf("file%03d.txt", i)
		if err := util.WriteFile(fs, paths[i], content, 0644); err != nil {
			b.Fatalf("write %s: %v", paths[i], err)
		}
	}
	return scanner.New(fs, nil), paths
}

func BenchmarkSearchMany(b *testing.B) {
	for _, workers := range []int{1, 2, 4, 8} {
		b.Run(fmt.Sprintf("workers=%d", workers), func(b *testing.B) {
			s, paths := benchmarkCorpus(b, 64, 1000)
			f := New(s, &Config{Workers: workers})
			patterns := []string{"TODO", "error"}

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				descriptors, err := f.SearchMany(paths, patterns)
				if err != nil {
					b.Fatal(err)
				}
				if len(descriptors) == 0 {
					b.Fatal("expected matches")
				}
			}
		})
	}
}
