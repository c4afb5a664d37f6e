// Package apperr defines ApiLens's error taxonomy (spec §7): five kinds
// distinguished by how the caller must react, not by which component
// raised them.
package apperr

import (
	"context"
	"errors"
	"fmt"
)

// Kind is one of the five error kinds in the taxonomy.
type Kind string

const (
	// KindUsage covers nil/empty required arguments, operating on a closed
	// index, negative limits, or min > max on a range query. Always
	// surfaced synchronously to the caller.
	KindUsage Kind = "usage"

	// KindParse is a per-file failure inside the parse→build→commit
	// pipeline (C5). Recorded in a run's error list; the run continues.
	KindParse Kind = "parse"

	// KindBuild is a per-record failure inside the document builder (C3)
	// or during upsert (C4). Recorded; the batch continues.
	KindBuild Kind = "build"

	// KindStorage is a commit failure, lock conflict, or I/O failure.
	// Fatal to the run.
	KindStorage Kind = "storage"

	// KindCancelled marks a cooperative cancellation observed mid-run.
	KindCancelled Kind = "cancelled"
)

// Error wraps an underlying cause with a Kind and, for per-file/per-record
// errors, the path or id that failed.
type Error struct {
	Kind    Kind
	Subject string // file path or record id, when applicable
	Err     error
}

func (e *Error) Error() string {
	if e.Subject == "" {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Subject, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is supports errors.Is(err, apperr.KindStorage) style checks by treating a
// bare Kind value as a sentinel matched against e.Kind.
func (e *Error) Is(target error) bool {
	k, ok := target.(Kind)
	return ok && e.Kind == k
}

// Error implements the error interface on Kind so that apperr.KindUsage can
// itself be used as an errors.Is target.
func (k Kind) Error() string { return string(k) }

func wrap(k Kind, subject string, err error) *Error {
	return &Error{Kind: k, Subject: subject, Err: err}
}

// Usage wraps err as a KindUsage error.
func Usage(format string, args ...any) *Error {
	return wrap(KindUsage, "", fmt.Errorf(format, args...))
}

// Parse wraps err as a KindParse error attributed to path.
func Parse(path string, err error) *Error {
	return wrap(KindParse, path, err)
}

// Build wraps err as a KindBuild error attributed to a record id.
func Build(id string, err error) *Error {
	return wrap(KindBuild, id, err)
}

// Storage wraps err as a KindStorage error.
func Storage(err error) *Error {
	return wrap(KindStorage, "", err)
}

// Cancelled returns a KindCancelled error. There is no wrapped cause beyond
// context.Canceled, which callers can still retrieve via errors.Unwrap.
func Cancelled() *Error {
	return wrap(KindCancelled, "", context.Canceled)
}

// KindOf returns the Kind of err if it is (or wraps) an *Error, and false
// otherwise.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}
