/*
Copyright © 2026 James Lawson (jpl-au) <hello@caelisco.net>
*/

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jpl-au/apilens/internal/index"
	applog "github.com/jpl-au/apilens/internal/log"
)

var (
	searchField  string
	searchValue  string
	searchExists string
	searchMin    float64
	searchMax    float64
	searchRange  bool
	searchLimit  int
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Query the index by field",
	Long: `search runs one of three query shapes against the index: an exact
or analyzed match on --field/--value, a numeric range on --field with
--min/--max (pass --range), or an existence check with --exists.`,
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringVar(&searchField, "field", "", "field to query")
	searchCmd.Flags().StringVar(&searchValue, "value", "", "value to match against --field")
	searchCmd.Flags().StringVar(&searchExists, "exists", "", "field that must be present on matching documents")
	searchCmd.Flags().BoolVar(&searchRange, "range", false, "treat --field/--min/--max as a numeric range query")
	searchCmd.Flags().Float64Var(&searchMin, "min", 0, "range query lower bound")
	searchCmd.Flags().Float64Var(&searchMax, "max", 0, "range query upper bound")
	searchCmd.Flags().IntVar(&searchLimit, "limit", 10, "maximum number of results")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(_ *cobra.Command, _ []string) error {
	if err := requireIndexPath(); err != nil {
		return err
	}

	idx, err := index.Open(indexPath)
	if err != nil {
		return err
	}
	defer idx.Close()

	event := applog.Event("query", "search").Detail("field", searchField)
	var docs []index.Doc

	switch {
	case searchExists != "":
		docs, err = idx.SearchByFieldExists(searchExists, searchLimit)
	case searchRange:
		docs, err = idx.SearchByIntRange(searchField, searchMin, searchMax, searchLimit)
	default:
		if searchField == "" || searchValue == "" {
			err = fmt.Errorf("--field and --value are required (or use --exists / --range)")
		} else {
			docs, err = idx.SearchByField(searchField, searchValue, searchLimit)
		}
	}

	event.Detail("hits", len(docs)).Write(err)
	if err != nil {
		return err
	}

	if JSON() {
		return PrintJSON(docs)
	}
	for _, d := range docs {
		fmt.Fprintf(out, "%v\n", d["id"])
	}
	return nil
}
