package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/brunogennarelli2-del/prospectelettrica/internal/fetcher"
	"github.com/brunogennarelli2-del/prospectelettrica/internal/model"
	"github.com/brunogennarelli2-del/prospectelettrica/internal/pipeline"
)

var columnsJSON bool

var columnsCmd = &cobra.Command{
	Use:   "columns",
	Short: "Show source columns and the field mapping",
	Long:  "Lists the input's columns (and worksheets for spreadsheets) with the column guessed or overridden for each canonical field. Exits with an error naming the required fields that are still unmapped.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		raw, err := loadTable(cmd.Context())
		if err != nil {
			return err
		}
		m, err := resolveMapping(raw)
		if err != nil {
			return err
		}

		var sheets []string
		if !inputSample && !fetcher.IsRemote(inputFile) {
			if sheets, err = fetcher.ListSheets(inputFile); err != nil {
				return err
			}
		}

		desc := pipeline.DescribeColumns(raw, m)
		if columnsJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(desc)
		}

		formatColumns(os.Stdout, desc, sheets)
		return m.Validate()
	},
}

func formatColumns(out io.Writer, desc pipeline.Columns, sheets []string) {
	_, _ = fmt.Fprintf(out, "Source:  %s\n", desc.Source)
	if len(sheets) > 0 {
		_, _ = fmt.Fprintf(out, "Sheets:  %s\n", strings.Join(sheets, ", "))
	}
	_, _ = fmt.Fprintf(out, "Columns: %s\n\n", strings.Join(desc.Columns, ", "))

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "FIELD\tREQUIRED\tCOLUMN")
	_, _ = fmt.Fprintln(w, "-----\t--------\t------")
	for _, f := range model.Fields {
		col := desc.Mapping[string(f)]
		if col == "" {
			col = "(unmapped)"
		}
		req := ""
		if f.Required() {
			req = "yes"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", f.Label(), req, col)
	}
	_ = w.Flush()
}

func init() {
	columnsCmd.Flags().BoolVar(&columnsJSON, "json", false, "print as JSON")
	rootCmd.AddCommand(columnsCmd)
}
