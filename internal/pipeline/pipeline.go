// Package pipeline implements C5, the parse→build→commit pipeline: a
// bounded set of parser goroutines (degree = CPU count by default) feed a
// single bounded channel of parsed work; one writer goroutine drains it,
// batching commits through C4 (spec §4.5).
package pipeline

import (
	"context"
	"os"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jpl-au/apilens/internal/apperr"
	"github.com/jpl-au/apilens/internal/index"
	"github.com/jpl-au/apilens/internal/model"
	"github.com/jpl-au/apilens/internal/parse"
)

// ChannelCapacity is the bounded channel capacity between parsers and the
// writer (spec §4.4 tunables, consumed here rather than in C4 itself).
const ChannelCapacity = 100_000

// writerFlushSize batches records into C4.IndexBatch calls; C4 itself
// enforces the 50,000-document commit boundary, so this only bounds how
// much the writer goroutine holds in memory between IndexBatch calls.
const writerFlushSize = 1_000

// Metrics carries the per-run counters spec §4.5 asks for that aren't
// already part of Report's top-level fields. DocumentsPooled and
// StringsInterned are always zero: they name object-pool and
// string-interning bookkeeping from a runtime that manages its own heap
// explicitly, which Go's garbage collector and string immutability make
// unnecessary to track by hand.
type Metrics struct {
	GCCollections      uint32
	AvgBatchCommitTime time.Duration
	PeakRSSBytes       uint64
	PeakThreadPoolSize int
	DocumentsPooled    int
	StringsInterned    int
}

// Report is IndexingRunReport (spec §6.4).
type Report struct {
	TotalDocuments      int
	SuccessfulDocuments int
	FailedDocuments     int
	ElapsedTime         time.Duration
	BytesProcessed      int64
	Metrics             Metrics
	Errors              []error
}

type workItem struct {
	record      *model.MemberRecord
	emptyMarker *model.EmptyFileMarker
	sentinel    bool
}

// Run parses every path in paths, builds documents, and commits them
// through idx. Cancelling ctx aborts parser goroutines at their next
// await point; the writer still commits whatever it has already
// accumulated before Run returns (spec §4.5, CancelledError).
func Run(ctx context.Context, idx *index.Index, paths []string, concurrency int) (Report, error) {
	if concurrency <= 0 {
		concurrency = runtime.NumCPU()
	}

	start := time.Now()
	gcBefore := readMemStats()

	pathCh := make(chan string)
	docCh := make(chan workItem, ChannelCapacity)

	var parseErrs []error
	var errMu sync.Mutex
	var bytesProcessed int64

	var wg sync.WaitGroup
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range pathCh {
				parseOneFile(ctx, path, docCh, &bytesProcessed, &parseErrs, &errMu)
			}
		}()
	}

	go func() {
		defer close(pathCh)
		for _, p := range paths {
			select {
			case pathCh <- p:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		// A closed channel alone only tells the writer "nothing more is
		// buffered"; it can't distinguish that from a producer pausing
		// mid-select on ctx.Done() above. The sentinel gives the writer an
		// unambiguous last value to observe before the close.
		docCh <- workItem{sentinel: true}
		close(docCh)
	}()

	report := drainAndCommit(idx, docCh)
	report.BytesProcessed = atomic.LoadInt64(&bytesProcessed)

	errMu.Lock()
	report.Errors = append(report.Errors, parseErrs...)
	errMu.Unlock()

	if ctx.Err() != nil {
		report.Errors = append(report.Errors, apperr.Cancelled())
	}

	report.ElapsedTime = time.Since(start)
	gcAfter := readMemStats()
	report.Metrics.GCCollections = gcAfter.numGC - gcBefore.numGC
	report.Metrics.PeakRSSBytes = gcAfter.sys
	report.Metrics.PeakThreadPoolSize = concurrency

	if err := idx.Commit(); err != nil {
		return report, err
	}
	return report, nil
}

func parseOneFile(ctx context.Context, path string, docCh chan<- workItem, bytesProcessed *int64, parseErrs *[]error, errMu *sync.Mutex) {
	if info, statErr := os.Stat(path); statErr == nil {
		atomic.AddInt64(bytesProcessed, info.Size())
	}

	records, errs := parse.ParseFileStream(ctx, path, nil)
	emitted := 0
	for records != nil || errs != nil {
		select {
		case r, ok := <-records:
			if !ok {
				records = nil
				continue
			}
			emitted++
			select {
			case docCh <- workItem{record: &r}:
			case <-ctx.Done():
			}
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			errMu.Lock()
			*parseErrs = append(*parseErrs, err)
			errMu.Unlock()
		}
	}

	if emitted == 0 {
		marker := model.NewEmptyFileMarker(path)
		select {
		case docCh <- workItem{emptyMarker: &marker}:
		case <-ctx.Done():
		}
	}
}

func drainAndCommit(idx *index.Index, docCh <-chan workItem) Report {
	var report Report
	buf := make([]*model.MemberRecord, 0, writerFlushSize)
	var commitDurations []time.Duration

	flush := func() {
		if len(buf) == 0 {
			return
		}
		commitStart := time.Now()
		result, err := idx.IndexBatch(buf)
		commitDurations = append(commitDurations, time.Since(commitStart))

		report.TotalDocuments += len(buf)
		report.SuccessfulDocuments += result.Indexed
		report.FailedDocuments += result.Failed
		report.Errors = append(report.Errors, result.Errors...)
		if err != nil {
			report.Errors = append(report.Errors, err)
		}
		buf = buf[:0]
	}

	for item := range docCh {
		if item.sentinel {
			break
		}
		if item.emptyMarker != nil {
			flush()
			if err := idx.IndexEmptyMarker(*item.emptyMarker); err != nil {
				report.Errors = append(report.Errors, err)
			}
			continue
		}
		buf = append(buf, item.record)
		if len(buf) >= writerFlushSize {
			flush()
		}
	}
	flush()

	if len(commitDurations) > 0 {
		var total time.Duration
		for _, d := range commitDurations {
			total += d
		}
		report.Metrics.AvgBatchCommitTime = total / time.Duration(len(commitDurations))
	}

	return report
}

type memStatsSnapshot struct {
	numGC uint32
	sys   uint64
}

// readMemStats is a stand-in for a true peak-RSS sampler: Sys approximates
// resident memory reasonably well for a batch workload with no external
// profiler wired in, and is read from the standard library alone.
func readMemStats() memStatsSnapshot {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return memStatsSnapshot{numGC: m.NumGC, sys: m.Sys}
}
