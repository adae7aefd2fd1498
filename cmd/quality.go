package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/brunogennarelli2-del/prospectelettrica/internal/quality"
)

var (
	qualityShow bool
	qualityJSON bool
)

var qualityCmd = &cobra.Command{
	Use:   "quality",
	Short: "Run data quality checks on the unfiltered list",
	RunE: func(cmd *cobra.Command, _ []string) error {
		s, _, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		r := s.Quality()

		if qualityJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(r)
		}

		formatQuality(os.Stdout, r, qualityShow)
		return nil
	},
}

func formatQuality(out io.Writer, r quality.Report, show bool) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "CHECK\tROWS")
	_, _ = fmt.Fprintln(w, "-----\t----")
	for _, c := range r.Checks() {
		_, _ = fmt.Fprintf(w, "%s\t%d\n", c.Label, c.Count)
	}
	_ = w.Flush()

	if !show {
		return
	}
	for _, c := range r.Checks() {
		if c.Count == 0 {
			continue
		}
		_, _ = fmt.Fprintf(out, "\n%s:\n", c.Label)
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintln(w, "NAME\tEMAIL\tCOMPANY\tCOUNTRY\tROLE")
		for _, p := range c.Rows {
			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", p.Name, p.Email, p.Company, p.Country, p.Role)
		}
		_ = w.Flush()
	}
}

func init() {
	qualityCmd.Flags().BoolVar(&qualityShow, "show", false, "list the flagged rows")
	qualityCmd.Flags().BoolVar(&qualityJSON, "json", false, "print as JSON")
	rootCmd.AddCommand(qualityCmd)
}
