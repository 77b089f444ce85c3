// Package finder runs a substring search over many files concurrently.
//
// A Finder starts a fixed number of workers for every search. The paths
// are placed on a shared stack; each worker repeatedly claims one path,
// scans it and encodes the hits as descriptors into its own private list.
// Once every worker has finished, the lists are concatenated in the order
// the workers were started.
//
// # Basic Usage
//
//	f := finder.New(scanner.New(nil, nil), &finder.Config{Workers: 4})
//
//	descriptors, err := f.SearchMany([]string{"a.log", "b.log"}, []string{"ERROR", "panic"})
//	if err != nil {
//	    return err // a file could not be opened or read
//	}
//	for _, d := range descriptors {
//	    fmt.Println(d) // (a.log)[12,0,391,5]ERROR disk full
//	}
//
// Workers defaults to runtime.NumCPU().
//
// # Failures
//
// A scan failure stops the worker that hit it; the other workers carry on
// until the stack is empty. The search then fails with the first failure
// in worker start order, and every collected match is discarded. A worker
// that panics is reported as a *types.ConcurrencyError. There is no
// cancellation and no retry.
//
// # Ordering
//
// Matches of one file are contiguous and keep the scanner's order. The
// relative order of files depends on scheduling and must not be relied on.
// With a single worker, paths are claimed from the end of the list.
package finder
