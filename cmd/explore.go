package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/brunogennarelli2-del/prospectelettrica/internal/model"
	"github.com/brunogennarelli2-del/prospectelettrica/internal/pipeline"
)

var (
	exploreFilters filterFlags
	exploreLimit   int
	exploreJSON    bool
)

var exploreCmd = &cobra.Command{
	Use:   "explore",
	Short: "Filter, score and list prospects",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := cfg.Validate("explore"); err != nil {
			return err
		}
		_, res, err := exploreFilters.explore(cmd.Context())
		if err != nil {
			return err
		}
		res.Rows = pipeline.ProspectList(res.Rows)

		if exploreJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		}

		formatMetrics(os.Stdout, res.Metrics)
		if len(res.Rows) == 0 {
			fmt.Fprintln(os.Stderr, "No rows match your filters.")
			return nil
		}
		rows := res.Rows
		if exploreLimit > 0 && len(rows) > exploreLimit {
			rows = rows[:exploreLimit]
		}
		formatProspects(os.Stdout, rows)
		return nil
	},
}

func formatMetrics(out io.Writer, m pipeline.Metrics) {
	_, _ = fmt.Fprintf(out, "Prospects: %d  Countries: %d  Companies: %d  CEOs: %d  Unique domains: %d  Overdue follow-ups: %d\n\n",
		m.Prospects, m.Countries, m.Companies, m.CEOs, m.Domains, m.Overdue)
}

func formatProspects(out io.Writer, rows []model.Prospect) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "NAME\tCOMPANY\tROLE\tCOUNTRY\tREGION\tSTATUS\tPRIORITY\tOWNER\tCRM\tSCORE\tNEXT\tOVERDUE")
	_, _ = fmt.Fprintln(w, "----\t-------\t----\t-------\t------\t------\t--------\t-----\t---\t-----\t----\t-------")
	for _, p := range rows {
		overdue := ""
		if p.Overdue {
			overdue = "yes"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%.2f\t%s\t%s\n",
			truncate(p.Name, 30),
			truncate(p.Company, 30),
			truncate(p.Role, 25),
			p.Country,
			p.Region,
			p.Status,
			p.Priority,
			p.Owner,
			p.PresentInCRM,
			p.Score,
			model.FormatDate(p.NextFollowUp),
			overdue,
		)
	}
	_ = w.Flush()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func init() {
	exploreFilters.register(exploreCmd)
	exploreCmd.Flags().IntVar(&exploreLimit, "limit", 0, "maximum rows to print (0 = all)")
	exploreCmd.Flags().BoolVar(&exploreJSON, "json", false, "print rows and metrics as JSON")
	rootCmd.AddCommand(exploreCmd)
}
