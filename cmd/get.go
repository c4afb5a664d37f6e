/*
Copyright © 2026 James Lawson (jpl-au) <hello@caelisco.net>
*/

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jpl-au/apilens/internal/index"
)

var getCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Fetch a single document by id",
	Args:  cobra.ExactArgs(1),
	RunE:  runGet,
}

func init() {
	rootCmd.AddCommand(getCmd)
}

func runGet(_ *cobra.Command, args []string) error {
	if err := requireIndexPath(); err != nil {
		return err
	}

	idx, err := index.Open(indexPath)
	if err != nil {
		return err
	}
	defer idx.Close()

	doc, found, err := idx.GetById(args[0])
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("no document with id %q", args[0])
	}

	if JSON() {
		return PrintJSON(doc)
	}
	fmt.Fprintf(out, "%v\n", doc)
	return nil
}
