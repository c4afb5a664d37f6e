/*
Copyright © 2026 James Lawson (jpl-au) <hello@caelisco.net>
*/

// flags.go defines global CLI flags shared across subcommands.
package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

var (
	indexPath string
	jsonOut   bool
)

// out is the output writer for commands. Tests can replace this to
// capture output.
var out io.Writer = os.Stdout

// SetOutput redirects command output, for tests.
func SetOutput(w io.Writer) {
	out = w
}

// JSON reports whether output should be JSON-formatted.
func JSON() bool {
	return jsonOut
}

// PrintJSON marshals v as indented JSON to out.
func PrintJSON(v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(out, string(b))
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&indexPath, "index", "", "path to the bleve index directory (required)")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "output JSON instead of plain text")
}

func requireIndexPath() error {
	if indexPath == "" {
		return fmt.Errorf("--index is required")
	}
	return nil
}
