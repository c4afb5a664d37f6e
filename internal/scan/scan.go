// Package scan implements C7, the package-cache scanner: it walks a NuGet
// style local package cache and yields the PackageEntry records C6
// deduplicates against the index (spec §6.2). The path→packaging-context
// projection is the only part of C7 the spec fixes precisely; everything
// else about cache layout discovery is explicitly out of scope (spec §1).
package scan

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/jpl-au/apilens/internal/apperr"
	"github.com/jpl-au/apilens/internal/model"
	"github.com/jpl-au/apilens/internal/version"
)

// pathPattern matches <cacheRoot>/<packageId>/<version>/(lib|ref)/<framework>/<assembly>.xml,
// separator-insensitive (spec §6.2).
var pathPattern = regexp.MustCompile(`(?i)^([^/]+)/([^/]+)/(?:lib|ref)/([^/]+)/[^/]+\.xml$`)

// suffixPattern is the same projection applied to the tail of an absolute
// path, for callers (the parser, C6.1) that don't know the cache root.
var suffixPattern = regexp.MustCompile(`(?i)([^/]+)/([^/]+)/(?:lib|ref)/([^/]+)/[^/]+\.xml$`)

// ProjectAnyPath applies the §6.2 projection to the tail of any path,
// absolute or relative, without requiring the caller to know the cache
// root.
func ProjectAnyPath(path string) (model.PackageEntry, bool) {
	normalised := strings.ReplaceAll(filepath.ToSlash(path), "\\", "/")
	m := suffixPattern.FindStringSubmatch(normalised)
	if m == nil {
		return model.PackageEntry{}, false
	}
	return model.PackageEntry{
		PackageID: m[1],
		Version:   m[2],
		Framework: m[3],
	}, true
}

// Scan walks cacheRoot and returns one PackageEntry per documentation XML
// file found under the §6.2 layout. Files that don't match the expected
// shape are silently skipped, since C7's only fixed contract is the
// projection itself.
func Scan(cacheRoot string) ([]model.PackageEntry, error) {
	if cacheRoot == "" {
		return nil, apperr.Usage("scan: empty cacheRoot")
	}

	var entries []model.PackageEntry
	err := filepath.Walk(cacheRoot, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if !strings.EqualFold(filepath.Ext(path), ".xml") {
			return nil
		}
		rel, err := filepath.Rel(cacheRoot, path)
		if err != nil {
			return nil
		}
		entry, ok := ProjectPath(rel)
		if !ok {
			return nil
		}
		entry.XMLDocumentationPath = filepath.ToSlash(path)
		entries = append(entries, entry)
		return nil
	})
	if err != nil {
		return nil, apperr.Storage(err)
	}
	return entries, nil
}

// ProjectPath applies the §6.2 projection to a path relative to the cache
// root, returning the (packageId, version, framework) it encodes. ok is
// false when the path does not match the expected shape.
func ProjectPath(relPath string) (model.PackageEntry, bool) {
	normalised := strings.ReplaceAll(filepath.ToSlash(relPath), "\\", "/")
	m := pathPattern.FindStringSubmatch(normalised)
	if m == nil {
		return model.PackageEntry{}, false
	}
	return model.PackageEntry{
		PackageID: m[1],
		Version:   m[2],
		Framework: m[3],
	}, true
}

// LatestVersionsOnly reduces entries to, for each (packageId, framework)
// pair, only the entry with the greatest version under C8's order.
func LatestVersionsOnly(entries []model.PackageEntry) []model.PackageEntry {
	type key struct{ packageID, framework string }
	best := make(map[key]model.PackageEntry)
	order := make([]key, 0, len(entries))

	for _, e := range entries {
		k := key{e.PackageID, e.Framework}
		cur, ok := best[k]
		if !ok {
			best[k] = e
			order = append(order, k)
			continue
		}
		if version.CompareVersions(e.Version, cur.Version) > 0 {
			best[k] = e
		}
	}

	out := make([]model.PackageEntry, 0, len(order))
	for _, k := range order {
		out = append(out, best[k])
	}
	return out
}
