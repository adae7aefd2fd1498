package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/brunogennarelli2-del/prospectelettrica/internal/pipeline"
)

var (
	summaryFilters filterFlags
	summaryJSON    bool
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show region, country, company, role and funnel breakdowns",
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, res, err := summaryFilters.explore(cmd.Context())
		if err != nil {
			return err
		}
		sum := pipeline.Summarize(res.Rows)

		if summaryJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(struct {
				Metrics pipeline.Metrics `json:"metrics"`
				pipeline.Summary
			}{res.Metrics, sum})
		}

		formatMetrics(os.Stdout, res.Metrics)
		formatSummary(os.Stdout, sum)
		return nil
	},
}

func formatCounts(out io.Writer, title, label string, counts []pipeline.Count) {
	_, _ = fmt.Fprintf(out, "%s\n", title)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "%s\tPROSPECTS\n", label)
	for _, c := range counts {
		_, _ = fmt.Fprintf(w, "%s\t%d\n", c.Label, c.Prospects)
	}
	_ = w.Flush()
	_, _ = fmt.Fprintln(out)
}

func formatSummary(out io.Writer, s pipeline.Summary) {
	formatCounts(out, "Prospects by region", "REGION", s.ByRegion)
	formatCounts(out, "Top countries", "COUNTRY", s.TopCountries)

	_, _ = fmt.Fprintln(out, "Companies")
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "COMPANY\tPROSPECTS\tCOUNTRIES\tREGIONS")
	for _, c := range s.Companies {
		_, _ = fmt.Fprintf(w, "%s\t%d\t%d\t%d\n", c.Company, c.Prospects, c.Countries, c.Regions)
	}
	_ = w.Flush()
	_, _ = fmt.Fprintln(out)

	formatCounts(out, "Top roles", "ROLE", s.Roles)
	formatCounts(out, "Pipeline funnel", "STAGE", s.Funnel)
}

func init() {
	summaryFilters.register(summaryCmd)
	summaryCmd.Flags().BoolVar(&summaryJSON, "json", false, "print as JSON")
	rootCmd.AddCommand(summaryCmd)
}
