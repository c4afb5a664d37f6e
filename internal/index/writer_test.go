package index_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpl-au/apilens/internal/index"
	"github.com/jpl-au/apilens/internal/model"
)

func openTestIndex(t *testing.T) *index.Index {
	t.Helper()
	idx, err := index.Open(filepath.Join(t.TempDir(), "test.bleve"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = idx.Close() })
	return idx
}

func methodRecord(id, name, packageID string) *model.MemberRecord {
	return &model.MemberRecord{
		ID:              id,
		Kind:            model.KindMethod,
		Name:            name,
		FullName:        "Acme." + name,
		Namespace:       "Acme",
		PackageID:       packageID,
		PackageVersion:  "1.0.0",
		TargetFramework: "net8.0",
	}
}

func TestIndex_OpenRejectsEmptyPath(t *testing.T) {
	_, err := index.Open("")
	assert.Error(t, err)
}

func TestIndex_UpsertIdempotence(t *testing.T) {
	idx := openTestIndex(t)

	r := methodRecord("M:Acme.Spin", "Spin", "acme.widgets")
	for i := 0; i < 3; i++ {
		result, err := idx.IndexBatch([]*model.MemberRecord{r})
		require.NoError(t, err)
		assert.Equal(t, 1, result.Indexed)
	}
	require.NoError(t, idx.Commit())

	count, err := idx.DocCount()
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestIndex_SearchByFieldKeywordExact(t *testing.T) {
	idx := openTestIndex(t)
	r := methodRecord("M:Acme.Spin", "Spin", "acme.widgets")
	_, err := idx.IndexBatch([]*model.MemberRecord{r})
	require.NoError(t, err)
	require.NoError(t, idx.Commit())

	docs, err := idx.SearchByField("name", "Spin", 10)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "M:Acme.Spin", docs[0]["id"])
}

func TestIndex_GetByIdMissingReturnsFalse(t *testing.T) {
	idx := openTestIndex(t)
	_, found, err := idx.GetById("does-not-exist")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestIndex_DeleteByPackageIds(t *testing.T) {
	idx := openTestIndex(t)
	_, err := idx.IndexBatch([]*model.MemberRecord{
		methodRecord("M:Acme.Spin", "Spin", "acme.widgets"),
		methodRecord("M:Acme.Stop", "Stop", "acme.widgets"),
		methodRecord("M:Other.Go", "Go", "other.pkg"),
	})
	require.NoError(t, err)
	require.NoError(t, idx.Commit())

	require.NoError(t, idx.DeleteByPackageIds([]string{"acme.widgets"}))
	require.NoError(t, idx.Commit())

	count, err := idx.DocCount()
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestIndex_EmptyMarkerRoundTrip(t *testing.T) {
	idx := openTestIndex(t)
	marker := model.NewEmptyFileMarker("/cache/acme/1.0.0/lib/net8.0/acme.xml")
	require.NoError(t, idx.IndexEmptyMarker(marker))
	require.NoError(t, idx.Commit())

	paths, err := idx.GetEmptyXmlPaths()
	require.NoError(t, err)
	assert.Contains(t, paths, marker.SourceFilePath)
}

func TestIndex_ClosedIndexRejectsOperations(t *testing.T) {
	idx, err := index.Open(filepath.Join(t.TempDir(), "closed.bleve"))
	require.NoError(t, err)
	require.NoError(t, idx.Close())

	_, err = idx.IndexBatch([]*model.MemberRecord{methodRecord("M:X", "X", "x")})
	assert.Error(t, err)
}

func TestIndex_SearchRejectsNegativeLimit(t *testing.T) {
	idx := openTestIndex(t)
	_, err := idx.SearchByField("name", "Spin", -1)
	assert.Error(t, err)
}

func TestIndex_RangeQueryRejectsMinGreaterThanMax(t *testing.T) {
	idx := openTestIndex(t)
	_, err := idx.SearchByIntRange("parameterCount", 10, 1, 10)
	assert.Error(t, err)
}

func TestIndex_GetIndexSnapshotTracksPackagesAndEmptyFiles(t *testing.T) {
	idx := openTestIndex(t)
	_, err := idx.IndexBatch([]*model.MemberRecord{
		methodRecord("M:Acme.Spin", "Spin", "acme.widgets"),
	})
	require.NoError(t, err)
	require.NoError(t, idx.IndexEmptyMarker(model.NewEmptyFileMarker("/cache/empty.xml")))
	require.NoError(t, idx.Commit())

	snap, err := idx.GetIndexSnapshot()
	require.NoError(t, err)
	assert.True(t, snap.Has("acme.widgets", "1.0.0", "net8.0"))
	assert.Contains(t, snap.EmptyXMLPaths, "/cache/empty.xml")
	assert.EqualValues(t, 2, snap.TotalDocuments)
}
