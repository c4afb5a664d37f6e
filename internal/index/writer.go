// Package index implements C4, the index writer/reader: a single on-disk
// bleve index, upsert batching, delete-by-packageId, commit, and the
// point/range/existence queries the rest of the core relies on (spec §4.4).
package index

import (
	"fmt"
	"os"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/jpl-au/apilens/internal/analyze"
	"github.com/jpl-au/apilens/internal/apperr"
	"github.com/jpl-au/apilens/internal/build"
	"github.com/jpl-au/apilens/internal/model"
)

type state int32

const (
	stateOpen state = iota
	stateWriting
	stateCommitted
	stateClosed
)

// Tunables fixed by spec §4.4. RAMBufferBytes, MergeMaxMerges, and
// MergeSegmentsPerTier are passed to scorch as advisory kvConfig hints;
// scorch consumes the subset it recognises and ignores the rest, so a
// future bleve release pruning one of these keys degrades gracefully
// rather than failing to open the index.
const (
	BatchSize            = 50_000
	RAMBufferBytes       = 512 * 1024 * 1024
	MergeMaxMerges       = 10
	MergeSegmentsPerTier = 10

	pageSize = 10_000
)

// Doc is a read-side result: a flattened view of a stored document's
// fields, keyed the same way build.Doc is on the write side.
type Doc map[string]any

// Index wraps a bleve.Index with ApiLens's upsert batching and state
// machine. All exported methods are safe for concurrent use.
type Index struct {
	mu    sync.Mutex
	path  string
	bi    bleve.Index
	state state

	batch      *bleve.Batch
	batchCount int
}

// Open opens the index at path, creating it with C2's field mapping if it
// does not already exist.
func Open(path string) (*Index, error) {
	if path == "" {
		return nil, apperr.Usage("index: empty path")
	}

	var bi bleve.Index
	var err error
	if _, statErr := os.Stat(path); statErr == nil {
		bi, err = bleve.Open(path)
	} else {
		bi, err = bleve.NewUsing(path, buildMapping(), bleve.Config.DefaultIndexType, bleve.Config.DefaultKVStore, scorchTunables())
	}
	if err != nil {
		return nil, apperr.Storage(fmt.Errorf("opening index at %s: %w", path, err))
	}

	return &Index{
		path:  path,
		bi:    bi,
		state: stateOpen,
		batch: bi.NewBatch(),
	}, nil
}

func scorchTunables() map[string]interface{} {
	return map[string]interface{}{
		"unsafe_batch":         true,
		"ramBufferBytes":       RAMBufferBytes,
		"mergeMaxMerges":       MergeMaxMerges,
		"mergeSegmentsPerTier": MergeSegmentsPerTier,
		"disableCompoundFile":  true,
	}
}

func (idx *Index) checkOpenLocked() error {
	if idx.state == stateClosed {
		return apperr.Usage("index: operation on closed index")
	}
	return nil
}

// IndexBatchResult summarises one call to IndexBatch.
type IndexBatchResult struct {
	Indexed int
	Failed  int
	Errors  []error
}

// IndexBatch upserts each record (build failures are recorded per-record
// and do not abort the batch), committing automatically every BatchSize
// documents. Each Index call is itself an upsert: bleve replaces any
// existing document sharing the id, so no separate pre-delete step is
// needed (spec §4.4 "upsert semantics").
func (idx *Index) IndexBatch(records []*model.MemberRecord) (IndexBatchResult, error) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if err := idx.checkOpenLocked(); err != nil {
		return IndexBatchResult{}, err
	}
	idx.state = stateWriting

	var result IndexBatchResult
	for _, r := range records {
		doc, err := build.Build(r)
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, apperr.Build(recordID(r), err))
			continue
		}
		id, _ := doc["id"].(string)
		if err := idx.batch.Index(id, map[string]any(doc)); err != nil {
			result.Failed++
			result.Errors = append(result.Errors, apperr.Build(id, err))
			continue
		}
		result.Indexed++
		idx.batchCount++
		if idx.batchCount >= BatchSize {
			if err := idx.flushLocked(); err != nil {
				return result, err
			}
		}
	}
	return result, nil
}

// IndexEmptyMarker upserts a sentinel document for an XML file that parsed
// to zero members (spec §3.1, §4.5).
func (idx *Index) IndexEmptyMarker(marker model.EmptyFileMarker) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	if err := idx.checkOpenLocked(); err != nil {
		return err
	}
	idx.state = stateWriting

	doc := Doc{
		"id":             marker.ID,
		"documentType":   model.EmptyFileMarkerDocType,
		"sourceFilePath": marker.SourceFilePath,
	}
	if err := idx.batch.Index(marker.ID, map[string]any(doc)); err != nil {
		return apperr.Build(marker.ID, err)
	}
	idx.batchCount++
	if idx.batchCount >= BatchSize {
		return idx.flushLocked()
	}
	return nil
}

func recordID(r *model.MemberRecord) string {
	if r == nil {
		return ""
	}
	return r.ID
}

// DeleteByPackageIds deletes every document carrying one of the given
// packageIds, pending until the next commit (spec §4.4).
func (idx *Index) DeleteByPackageIds(packageIDs []string) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	if err := idx.checkOpenLocked(); err != nil {
		return err
	}
	idx.state = stateWriting

	for _, pid := range packageIDs {
		if pid == "" {
			continue
		}
		tq := bleve.NewTermQuery(pid)
		tq.SetField("packageId")
		ids, err := idx.collectIDsLocked(tq)
		if err != nil {
			return apperr.Storage(fmt.Errorf("finding documents for packageId %s: %w", pid, err))
		}
		for _, id := range ids {
			idx.batch.Delete(id)
			idx.batchCount++
		}
	}
	return nil
}

// Commit makes all pending writes durable and visible to new readers.
func (idx *Index) Commit() error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	if err := idx.checkOpenLocked(); err != nil {
		return err
	}
	return idx.flushLocked()
}

func (idx *Index) flushLocked() error {
	if idx.batchCount == 0 {
		idx.state = stateCommitted
		return nil
	}
	if err := idx.bi.Batch(idx.batch); err != nil {
		return apperr.Storage(fmt.Errorf("committing batch: %w", err))
	}
	idx.batch = idx.bi.NewBatch()
	idx.batchCount = 0
	idx.state = stateCommitted
	return nil
}

// Close flushes any pending writes and closes the underlying index.
// Further operations fail with a UsageError.
func (idx *Index) Close() error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	if idx.state == stateClosed {
		return nil
	}
	if idx.batchCount > 0 {
		if err := idx.flushLocked(); err != nil {
			return err
		}
	}
	idx.state = stateClosed
	if err := idx.bi.Close(); err != nil {
		return apperr.Storage(err)
	}
	return nil
}

// DocCount returns the number of live documents.
func (idx *Index) DocCount() (uint64, error) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	if err := idx.checkOpenLocked(); err != nil {
		return 0, err
	}
	n, err := idx.bi.DocCount()
	if err != nil {
		return 0, apperr.Storage(err)
	}
	return n, nil
}

// SearchByField searches field for value, using an exact TermQuery when
// field is keyword-analysed and a MatchQuery (routed through field's
// analyzer) otherwise (spec §4.4).
func (idx *Index) SearchByField(field, value string, limit int) ([]Doc, error) {
	var q query.Query
	if analyze.IsKeyword(field) {
		tq := bleve.NewTermQuery(value)
		tq.SetField(field)
		q = tq
	} else {
		mq := bleve.NewMatchQuery(value)
		mq.SetField(field)
		q = mq
	}
	return idx.search(q, limit)
}

// SearchByIntRange returns documents whose field falls within [lo, hi].
func (idx *Index) SearchByIntRange(field string, lo, hi float64, limit int) ([]Doc, error) {
	if lo > hi {
		return nil, apperr.Usage("index: min > max in range query on %s", field)
	}
	q := bleve.NewNumericRangeQuery(&lo, &hi)
	q.SetField(field)
	return idx.search(q, limit)
}

// SearchByFieldExists returns any document whose field carries at least
// one token. Text/keyword fields use a ".+" regexp against the term
// dictionary; numeric fields use an unbounded range, since bleve has no
// dedicated field-existence query type.
func (idx *Index) SearchByFieldExists(field string, limit int) ([]Doc, error) {
	var q query.Query
	if analyze.KindOf(field) == analyze.KindInteger {
		lo, hi := -1e18, 1e18
		nq := bleve.NewNumericRangeQuery(&lo, &hi)
		nq.SetField(field)
		q = nq
	} else {
		rq := bleve.NewRegexpQuery(".+")
		rq.SetField(field)
		q = rq
	}
	return idx.search(q, limit)
}

// GetById performs a single-document point lookup.
func (idx *Index) GetById(id string) (Doc, bool, error) {
	if id == "" {
		return nil, false, apperr.Usage("index: empty id")
	}
	docs, err := idx.search(bleve.NewDocIDQuery([]string{id}), 1)
	if err != nil {
		return nil, false, err
	}
	if len(docs) == 0 {
		return nil, false, nil
	}
	return docs[0], true, nil
}

func (idx *Index) search(q query.Query, limit int) ([]Doc, error) {
	if limit < 0 {
		return nil, apperr.Usage("index: negative limit")
	}
	if limit == 0 {
		limit = 10
	}

	idx.mu.Lock()
	if err := idx.checkOpenLocked(); err != nil {
		idx.mu.Unlock()
		return nil, err
	}
	bi := idx.bi
	idx.mu.Unlock()

	req := bleve.NewSearchRequestOptions(q, limit, 0, false)
	req.Fields = []string{"*"}
	res, err := bi.Search(req)
	if err != nil {
		return nil, apperr.Storage(fmt.Errorf("search: %w", err))
	}

	docs := make([]Doc, 0, len(res.Hits))
	for _, hit := range res.Hits {
		d := Doc{"id": hit.ID, "_score": hit.Score}
		for k, v := range hit.Fields {
			d[k] = v
		}
		docs = append(docs, d)
	}
	return docs, nil
}

// collectIDsLocked pages through every hit of q, returning their ids.
// Caller must hold idx.mu.
func (idx *Index) collectIDsLocked(q query.Query) ([]string, error) {
	var ids []string
	from := 0
	for {
		req := bleve.NewSearchRequestOptions(q, pageSize, from, false)
		req.Fields = nil
		res, err := idx.bi.Search(req)
		if err != nil {
			return nil, err
		}
		for _, hit := range res.Hits {
			ids = append(ids, hit.ID)
		}
		if len(res.Hits) < pageSize {
			break
		}
		from += pageSize
	}
	return ids, nil
}

// GetIndexSnapshot iterates every live document once to materialise an
// IndexSnapshot, skipping logically-deleted documents implicitly (a
// match-all scan only ever visits live documents in bleve).
func (idx *Index) GetIndexSnapshot() (model.IndexSnapshot, error) {
	idx.mu.Lock()
	if err := idx.checkOpenLocked(); err != nil {
		idx.mu.Unlock()
		return model.IndexSnapshot{}, err
	}
	bi := idx.bi
	idx.mu.Unlock()

	snap := model.NewIndexSnapshot()

	from := 0
	for {
		req := bleve.NewSearchRequestOptions(bleve.NewMatchAllQuery(), pageSize, from, false)
		req.Fields = []string{"documentType", "packageId", "packageVersion", "targetFramework", "sourceFilePath"}
		res, err := bi.Search(req)
		if err != nil {
			return model.IndexSnapshot{}, apperr.Storage(fmt.Errorf("scanning index: %w", err))
		}
		for _, hit := range res.Hits {
			snap.TotalDocuments++
			docType, _ := hit.Fields["documentType"].(string)
			path, _ := hit.Fields["sourceFilePath"].(string)

			if docType == model.EmptyFileMarkerDocType {
				if path != "" {
					snap.EmptyXMLPaths[path] = struct{}{}
				}
				continue
			}

			if pkgID, _ := hit.Fields["packageId"].(string); pkgID != "" {
				version, _ := hit.Fields["packageVersion"].(string)
				framework, _ := hit.Fields["targetFramework"].(string)
				snap.Add(pkgID, version, framework)
			}
			if path != "" {
				snap.IndexedXMLPaths[path] = struct{}{}
			}
		}
		if len(res.Hits) < pageSize {
			break
		}
		from += pageSize
	}
	return snap, nil
}

// GetEmptyXmlPaths returns the normalised paths of every known-empty XML
// file currently recorded in the index.
func (idx *Index) GetEmptyXmlPaths() (map[string]struct{}, error) {
	idx.mu.Lock()
	if err := idx.checkOpenLocked(); err != nil {
		idx.mu.Unlock()
		return nil, err
	}
	bi := idx.bi
	idx.mu.Unlock()

	tq := bleve.NewTermQuery(model.EmptyFileMarkerDocType)
	tq.SetField("documentType")

	paths := make(map[string]struct{})
	from := 0
	for {
		req := bleve.NewSearchRequestOptions(tq, pageSize, from, false)
		req.Fields = []string{"sourceFilePath"}
		res, err := bi.Search(req)
		if err != nil {
			return nil, apperr.Storage(fmt.Errorf("scanning empty markers: %w", err))
		}
		for _, hit := range res.Hits {
			if p, ok := hit.Fields["sourceFilePath"].(string); ok && p != "" {
				paths[p] = struct{}{}
			}
		}
		if len(res.Hits) < pageSize {
			break
		}
		from += pageSize
	}
	return paths, nil
}
