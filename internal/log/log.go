// Package log provides centralised audit logging for ApiLens indexing runs
// and queries. Logs are stored in ~/.apilens/log/apilens-log.db. Entries
// are written by the CLI: one per refresh run and one per search query;
// the index and pipeline packages do not write entries themselves.
//
// # Fluent API
//
// Use the fluent builder API to construct and write log entries:
//
//	log.Event("index", "refresh").
//		Detail("filesToIndex", len(result.FilesToIndex)).
//		Detail("documents", report.TotalDocuments).
//		Write(err)
//
//	log.Event("query", "search").
//		Detail("field", field).
//		Detail("hits", len(hits)).
//		Write(err)
//
// The source parameter names the subsystem that produced the entry: "scan",
// "dedup", "index", "query". The action names the operation: "refresh",
// "indexBatch", "deleteByPackageIds", "search".
package log

import (
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

var (
	global *Logger
	mu     sync.Mutex
)

// Entry represents a single audit log entry.
type Entry struct {
	Source string // e.g., "index", "dedup", "query"
	Action string // verb: refresh, indexBatch, deleteByPackageIds, search

	// Counts populated after the operation completes.
	DocumentCount int
	FailedCount   int

	// Timing.
	Start int64 // unix timestamp when Event() called
	End   int64 // unix timestamp when Write() called

	Success bool           // whether the operation succeeded
	Error   string         // error message if failed
	Detail  map[string]any // additional operation-specific data
}

// Builder constructs a log entry using a fluent API. Create with [Event],
// chain methods to set fields, then call [Builder.Write] to persist it.
type Builder struct {
	entry Entry
}

// Event creates a new log entry builder for an operation.
func Event(source, action string) *Builder {
	return &Builder{
		entry: Entry{
			Source: source,
			Action: action,
			Start:  time.Now().Unix(),
		},
	}
}

// Documents sets the number of documents successfully processed.
func (b *Builder) Documents(n int) *Builder {
	b.entry.DocumentCount = n
	return b
}

// Failed sets the number of documents that failed to process.
func (b *Builder) Failed(n int) *Builder {
	b.entry.FailedCount = n
	return b
}

// Detail adds a key-value pair to the log entry's detail map. Can be
// called multiple times to add multiple details.
//
// Example:
//
//	log.Event("index", "refresh").
//		Detail("packageIdsDeleted", len(result.PackageIdsToDelete)).
//		Detail("concurrency", concurrency)
func (b *Builder) Detail(key string, value any) *Builder {
	if b.entry.Detail == nil {
		b.entry.Detail = make(map[string]any)
	}
	b.entry.Detail[key] = value
	return b
}

// Write writes the log entry to the database, deriving success/failure
// from err. If err is nil, the entry is logged as successful; otherwise
// it is logged as failed with the error message.
func (b *Builder) Write(err error) {
	b.entry.End = time.Now().Unix()
	b.entry.Success = err == nil
	if err != nil {
		b.entry.Error = err.Error()
	}
	Log(b.entry)
}

// Open initialises the global logger. Safe to call multiple times.
// Errors are returned but callers may choose to ignore them (best-effort
// logging should never abort an indexing run).
func Open() error {
	mu.Lock()
	defer mu.Unlock()

	if global != nil {
		return nil
	}

	p := dbPath()
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}

	db, err := sql.Open("sqlite", p)
	if err != nil {
		return err
	}

	if err := migrate(db); err != nil {
		db.Close()
		return err
	}

	global = &Logger{db: db}
	return nil
}

// SetIndex sets the index identifier for subsequent log entries, derived
// from the bleve index's filesystem path so multiple indexes on one
// machine can be distinguished in aggregate log queries without storing
// full paths verbatim.
func SetIndex(indexPath string) {
	mu.Lock()
	defer mu.Unlock()
	if global != nil {
		global.project = hash(indexPath)
	}
}

// Log writes an entry. Safe to call if the logger isn't initialised (no-op).
func Log(e Entry) {
	mu.Lock()
	l := global
	mu.Unlock()

	if l == nil {
		return
	}
	l.log(e)
}

// Close closes the global logger.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	if global != nil {
		global.db.Close()
		global = nil
	}
}
