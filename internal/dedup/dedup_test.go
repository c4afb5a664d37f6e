package dedup_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpl-au/apilens/internal/dedup"
	"github.com/jpl-au/apilens/internal/model"
)

const sharedPath = "cache/microsoft.extensions.logging/8.0.0/lib/netstandard2.0/Microsoft.Extensions.Logging.xml"

func TestDedup_SharedXmlAcrossFourFrameworks(t *testing.T) {
	entries := []model.PackageEntry{
		{PackageID: "microsoft.extensions.logging", Version: "8.0.0", Framework: "net6.0", XMLDocumentationPath: sharedPath},
		{PackageID: "microsoft.extensions.logging", Version: "8.0.0", Framework: "net7.0", XMLDocumentationPath: sharedPath},
		{PackageID: "microsoft.extensions.logging", Version: "8.0.0", Framework: "net8.0", XMLDocumentationPath: sharedPath},
		{PackageID: "microsoft.extensions.logging", Version: "8.0.0", Framework: "net9.0", XMLDocumentationPath: sharedPath},
	}

	result := dedup.Dedup(entries, model.NewIndexSnapshot(), true)

	require.Len(t, result.FilesToIndex, 1)
	assert.Equal(t, sharedPath, result.FilesToIndex[0])
	assert.Empty(t, result.PackageIdsToDelete)
	assert.Equal(t, 1, result.Stats.UniqueXmlFiles)
}

func TestDedup_MixedNewSharedExisting(t *testing.T) {
	snapshot := model.NewIndexSnapshot()
	snapshot.Add("existing.package", "1.0.0", "net6.0")
	snapshot.IndexedXMLPaths["existing/path.xml"] = struct{}{}

	entries := []model.PackageEntry{
		{PackageID: "shared.package", Version: "1.0.0", Framework: "net6.0", XMLDocumentationPath: "shared/path.xml"},
		{PackageID: "shared.package", Version: "1.0.0", Framework: "net7.0", XMLDocumentationPath: "shared/path.xml"},
		{PackageID: "unique.package", Version: "1.0.0", Framework: "net6.0", XMLDocumentationPath: "unique/a.xml"},
		{PackageID: "unique.package", Version: "1.0.0", Framework: "net7.0", XMLDocumentationPath: "unique/b.xml"},
		{PackageID: "existing.package", Version: "1.0.0", Framework: "net6.0", XMLDocumentationPath: "existing/path.xml"},
	}

	result := dedup.Dedup(entries, snapshot, false)

	assert.Len(t, result.FilesToIndex, 3)
	assert.Equal(t, 1, result.Stats.AlreadyIndexedSkipped)
	for _, p := range result.FilesToIndex {
		assert.NotEqual(t, "existing/path.xml", p)
	}
}

func TestDedup_ObsoleteVersionReplacement(t *testing.T) {
	snapshot := model.NewIndexSnapshot()
	snapshot.Add("mypackage", "1.0.0", "net6.0")
	snapshot.Add("mypackage", "2.0.0", "net6.0")

	entries := []model.PackageEntry{
		{PackageID: "mypackage", Version: "3.0.0", Framework: "net6.0", XMLDocumentationPath: "mypackage/3.0.0.xml"},
	}

	result := dedup.Dedup(entries, snapshot, true)

	require.Contains(t, result.PackageIdsToDelete, "mypackage")
	assert.Len(t, result.FilesToIndex, 1)
}

func TestDedup_EmptyXmlPathsAreSkippedAndExcludedFromOutput(t *testing.T) {
	snapshot := model.NewIndexSnapshot()
	snapshot.EmptyXMLPaths["known/empty.xml"] = struct{}{}

	entries := []model.PackageEntry{
		{PackageID: "acme", Version: "1.0.0", Framework: "net8.0", XMLDocumentationPath: "known/empty.xml"},
	}

	result := dedup.Dedup(entries, snapshot, false)

	assert.Empty(t, result.FilesToIndex)
	assert.Equal(t, 1, result.Stats.EmptyXmlFilesSkipped)
}

func TestDedup_PathComparisonIsCaseInsensitive(t *testing.T) {
	snapshot := model.NewIndexSnapshot()
	snapshot.EmptyXMLPaths["Known/Empty.xml"] = struct{}{}

	entries := []model.PackageEntry{
		{PackageID: "acme", Version: "1.0.0", Framework: "net8.0", XMLDocumentationPath: "known/empty.xml"},
	}

	result := dedup.Dedup(entries, snapshot, false)
	assert.Empty(t, result.FilesToIndex)
}

func TestDedup_NewVsUpdatedClassification(t *testing.T) {
	snapshot := model.NewIndexSnapshot()
	snapshot.Add("known.package", "1.0.0", "net6.0")

	entries := []model.PackageEntry{
		{PackageID: "known.package", Version: "2.0.0", Framework: "net6.0", XMLDocumentationPath: "known/2.xml"},
		{PackageID: "brand.new", Version: "1.0.0", Framework: "net6.0", XMLDocumentationPath: "new/1.xml"},
	}

	result := dedup.Dedup(entries, snapshot, false)
	assert.Equal(t, 1, result.Stats.NewPackages)
	assert.Equal(t, 1, result.Stats.UpdatedPackages)
}
