// Package storage provides SQLite-based persistence for search history.
//
// History is an audit log: every recorded run keeps the patterns, the paths,
// the outcome and the descriptors it produced. It is never consulted to
// answer a search; every search re-reads the files.
//
// # Database Schema
//
// Tables:
//   - schema_version: Applied migrations (semantic versions)
//   - runs: One row per search (patterns, paths, workers, outcome, timing)
//   - run_descriptors: Descriptors of a run in result order
//
// # Basic Usage
//
//	store, err := storage.NewSQLiteStorage("/home/me/.textfind/history.db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer store.Close()
//
//	run := &storage.Run{
//	    Patterns:  []string{"ERROR"},
//	    Paths:     []string{"app.log"},
//	    Workers:   report.Workers,
//	    Duration:  report.Duration,
//	    StartedAt: started,
//	}
//	err = store.RecordRun(ctx, run, report.Descriptors)
//	// run.ID now holds the generated UUID
//
// # Transactions
//
// RecordRun writes the run and its descriptors atomically. Callers needing
// finer control use BeginTx:
//
//	tx, err := store.BeginTx(ctx)
//	if err != nil {
//	    return err
//	}
//	defer tx.Rollback()
//
//	if err := tx.CreateRun(ctx, run); err != nil {
//	    return err
//	}
//	if err := tx.AddDescriptors(ctx, run.ID, descriptors); err != nil {
//	    return err
//	}
//	return tx.Commit()
//
// # Migrations
//
// NewSQLiteStorage applies pending migrations on open. Versions are compared
// as semantic versions, so migrations apply in order regardless of when
// they were recorded. RollbackMigration undoes the latest one.
//
// # Build Modes
//
// The default build uses the pure Go driver (modernc.org/sqlite). Building
// with the sqlite_cgo tag switches to github.com/mattn/go-sqlite3:
//
//	CGO_ENABLED=1 go build -tags sqlite_cgo ./...
//
// # Concurrency
//
// The connection pool is limited to a single connection, so all access is
// serialized by database/sql. An in-memory database (":memory:") is
// therefore shared by every caller of one SQLiteStorage.
package storage
