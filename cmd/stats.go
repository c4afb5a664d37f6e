/*
Copyright © 2026 James Lawson (jpl-au) <hello@caelisco.net>
*/

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jpl-au/apilens/internal/index"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show document counts and known packages for the index",
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(_ *cobra.Command, _ []string) error {
	if err := requireIndexPath(); err != nil {
		return err
	}

	idx, err := index.Open(indexPath)
	if err != nil {
		return err
	}
	defer idx.Close()

	count, err := idx.DocCount()
	if err != nil {
		return err
	}

	snapshot, err := idx.GetIndexSnapshot()
	if err != nil {
		return err
	}

	if JSON() {
		return PrintJSON(map[string]any{
			"documentCount":  count,
			"packageCount":   len(snapshot.PackagesByIDWithFramework),
			"emptyXmlFiles":  len(snapshot.EmptyXMLPaths),
			"totalDocuments": snapshot.TotalDocuments,
		})
	}

	fmt.Fprintf(out, "%d documents, %d packages, %d empty XML files recorded\n",
		count, len(snapshot.PackagesByIDWithFramework), len(snapshot.EmptyXMLPaths))
	return nil
}
