// Package dedup implements C6, the incremental deduplicator: given what C7
// scanned and what C4 already holds, it decides what actually needs
// re-indexing (spec §4.6).
package dedup

import (
	"path/filepath"
	"strings"

	"github.com/jpl-au/apilens/internal/model"
	"github.com/jpl-au/apilens/internal/version"
)

// Stats accumulates the per-run counters spec §4.6 requires alongside the
// dedup decision itself.
type Stats struct {
	TotalScanned          int
	UniqueXmlFiles        int
	EmptyXmlFilesSkipped  int
	AlreadyIndexedSkipped int
	NewPackages           int
	UpdatedPackages       int
}

// Result is C6's output.
type Result struct {
	FilesToIndex       []string
	PackageIdsToDelete map[string]struct{}
	SkippedCount       int
	Stats              Stats
}

type scanned struct {
	entry model.PackageEntry
	path  string // forward-slash normalised, case preserved
}

// Dedup runs the seven-step algorithm of spec §4.6.
func Dedup(entries []model.PackageEntry, snapshot model.IndexSnapshot, latestOnly bool) Result {
	stats := Stats{TotalScanned: len(entries)}

	emptyLower := lowerSet(snapshot.EmptyXMLPaths)
	indexedLower := lowerSet(snapshot.IndexedXMLPaths)

	// Steps 1-2: normalise paths, drop known-empty files.
	var kept []scanned
	for _, e := range entries {
		path := filepath.ToSlash(e.XMLDocumentationPath)
		if _, isEmpty := emptyLower[strings.ToLower(path)]; isEmpty {
			stats.EmptyXmlFilesSkipped++
			continue
		}
		kept = append(kept, scanned{entry: e, path: path})
	}

	// Step 3: group by packageId, preserving first-seen group order.
	groupOrder := make([]string, 0)
	groups := make(map[string][]scanned)
	for _, s := range kept {
		if _, ok := groups[s.entry.PackageID]; !ok {
			groupOrder = append(groupOrder, s.entry.PackageID)
		}
		groups[s.entry.PackageID] = append(groups[s.entry.PackageID], s)
	}

	packageIdsToDelete := make(map[string]struct{})
	var surviving []scanned

	for _, packageID := range groupOrder {
		members := groups[packageID]
		if !latestOnly {
			surviving = append(surviving, members...)
			continue
		}

		// Step 4: pick the scalar greatest version in this group (first
		// encountered wins ties, since CompareVersions returning 0 leaves
		// chosenVersion unchanged).
		chosenVersion := members[0].entry.Version
		for _, m := range members[1:] {
			if version.CompareVersions(m.entry.Version, chosenVersion) > 0 {
				chosenVersion = m.entry.Version
			}
		}

		for _, m := range members {
			if version.CompareVersions(m.entry.Version, chosenVersion) == 0 {
				surviving = append(surviving, m)
			}
		}

		if set, ok := snapshot.PackagesByIDWithFramework[packageID]; ok {
			for vf := range set {
				if version.CompareVersions(vf.Version, chosenVersion) != 0 {
					packageIdsToDelete[packageID] = struct{}{}
					break
				}
			}
		}
	}

	// Steps 5-7: framework-aware skip, path dedup, new/updated classification.
	seenPath := make(map[string]struct{})
	var filesToIndex []string
	skippedCount := 0

	for _, s := range surviving {
		e := s.entry
		_, pathIndexed := indexedLower[strings.ToLower(s.path)]
		if snapshot.Has(e.PackageID, e.Version, e.Framework) && pathIndexed {
			stats.AlreadyIndexedSkipped++
			skippedCount++
			continue
		}

		if _, packageKnown := snapshot.PackagesByIDWithFramework[e.PackageID]; !packageKnown {
			stats.NewPackages++
		} else if !snapshot.Has(e.PackageID, e.Version, e.Framework) {
			stats.UpdatedPackages++
		}

		key := strings.ToLower(s.path)
		if _, seen := seenPath[key]; seen {
			continue
		}
		seenPath[key] = struct{}{}
		filesToIndex = append(filesToIndex, s.path)
	}
	stats.UniqueXmlFiles = len(filesToIndex)

	return Result{
		FilesToIndex:       filesToIndex,
		PackageIdsToDelete: packageIdsToDelete,
		SkippedCount:       skippedCount,
		Stats:              stats,
	}
}

func lowerSet(set map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{}, len(set))
	for p := range set {
		out[strings.ToLower(p)] = struct{}{}
	}
	return out
}
