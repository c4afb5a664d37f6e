/*
Copyright © 2026 James Lawson (jpl-au) <hello@caelisco.net>
*/

package cmd

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/jpl-au/apilens/internal/dedup"
	"github.com/jpl-au/apilens/internal/index"
	applog "github.com/jpl-au/apilens/internal/log"
	"github.com/jpl-au/apilens/internal/pipeline"
	"github.com/jpl-au/apilens/internal/progress"
	"github.com/jpl-au/apilens/internal/scan"
)

var (
	refreshCacheRoot   string
	refreshLatestOnly  bool
	refreshConcurrency int
)

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Scan the package cache and bring the index up to date",
	Long: `refresh runs the incremental-refresh protocol: scan the NuGet-style
package cache, deduplicate against the current index state, delete
superseded packages when --latest-only is set, then parse and commit
whatever XML files are new or changed.`,
	RunE: runRefresh,
}

func init() {
	refreshCmd.Flags().StringVar(&refreshCacheRoot, "cache-root", "", "root of the package cache to scan (required)")
	refreshCmd.Flags().BoolVar(&refreshLatestOnly, "latest-only", false, "keep only the greatest version per package/framework")
	refreshCmd.Flags().IntVar(&refreshConcurrency, "concurrency", 0, "parser goroutine count (defaults to runtime.NumCPU())")
	rootCmd.AddCommand(refreshCmd)
}

func runRefresh(_ *cobra.Command, _ []string) error {
	if err := requireIndexPath(); err != nil {
		return err
	}
	if refreshCacheRoot == "" {
		return fmt.Errorf("--cache-root is required")
	}

	event := applog.Event("index", "refresh")
	applog.SetIndex(indexPath)

	idx, err := index.Open(indexPath)
	if err != nil {
		event.Write(err)
		return err
	}
	defer idx.Close()

	entries, err := scan.Scan(refreshCacheRoot)
	if err != nil {
		event.Write(err)
		return err
	}
	if refreshLatestOnly {
		entries = scan.LatestVersionsOnly(entries)
	}

	snapshot, err := idx.GetIndexSnapshot()
	if err != nil {
		event.Write(err)
		return err
	}

	result := dedup.Dedup(entries, snapshot, refreshLatestOnly)

	if len(result.PackageIdsToDelete) > 0 {
		ids := make([]string, 0, len(result.PackageIdsToDelete))
		for id := range result.PackageIdsToDelete {
			ids = append(ids, id)
		}
		if err := idx.DeleteByPackageIds(ids); err != nil {
			event.Write(err)
			return err
		}
	}

	bar := progress.New("indexing", len(result.FilesToIndex))
	report, err := pipeline.Run(context.Background(), idx, result.FilesToIndex, refreshConcurrency)
	bar.Done()
	if err != nil {
		event.Write(err)
		return err
	}

	event.Documents(report.SuccessfulDocuments).Failed(report.FailedDocuments).
		Detail("filesToIndex", len(result.FilesToIndex)).
		Detail("packageIdsDeleted", len(result.PackageIdsToDelete)).
		Detail("newPackages", result.Stats.NewPackages).
		Detail("updatedPackages", result.Stats.UpdatedPackages).
		Write(nil)

	if JSON() {
		return PrintJSON(map[string]any{
			"filesToIndex":        len(result.FilesToIndex),
			"packageIdsDeleted":   len(result.PackageIdsToDelete),
			"stats":               result.Stats,
			"totalDocuments":      report.TotalDocuments,
			"successfulDocuments": report.SuccessfulDocuments,
			"failedDocuments":     report.FailedDocuments,
			"bytesProcessed":      report.BytesProcessed,
			"elapsedTime":         report.ElapsedTime.String(),
			"errors":              errorStrings(report.Errors),
		})
	}

	fmt.Fprintf(out, "scanned %d packages, indexed %d/%d documents from %d files (%s) in %s\n",
		result.Stats.TotalScanned, report.SuccessfulDocuments, report.TotalDocuments,
		len(result.FilesToIndex), humanize.Bytes(uint64(report.BytesProcessed)), report.ElapsedTime)
	if len(report.Errors) > 0 {
		fmt.Fprintf(out, "%d error(s) encountered; see log for detail\n", len(report.Errors))
	}
	return nil
}

func errorStrings(errs []error) []string {
	out := make([]string, len(errs))
	for i, e := range errs {
		out[i] = e.Error()
	}
	return out
}
