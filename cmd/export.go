package main

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/brunogennarelli2-del/prospectelettrica/internal/export"
)

var (
	exportFilters  filterFlags
	exportTemplate string
	exportFormat   string
	exportOut      string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the filtered view as CSV or XLSX",
	Long:  "Writes the filtered, scored prospects using a CRM template (None, Salesforce, HubSpot). --out - writes to stdout.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		tmplName := exportTemplate
		if tmplName == "" {
			tmplName = cfg.Export.Template
		}
		tmpl, err := export.ParseTemplate(tmplName)
		if err != nil {
			return err
		}
		format, err := export.ParseFormat(exportFormat)
		if err != nil {
			return err
		}

		_, res, err := exportFilters.explore(cmd.Context())
		if err != nil {
			return err
		}
		tbl := export.Build(res.Rows, tmpl)

		if exportOut == "-" {
			return export.Write(os.Stdout, tbl, format)
		}

		out, err := exportPath(exportOut, format, cmd.Flags().Changed("format"))
		if err != nil {
			return err
		}
		if err := export.WriteFile(out, tbl); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Wrote %d rows to %s (%s template)\n", len(tbl.Records), out, tmpl)
		return nil
	},
}

// exportPath picks the output file. An explicit --format must agree with the
// extension of an explicit --out.
func exportPath(out string, format export.Format, formatSet bool) (string, error) {
	if out == "" {
		if format == export.FormatXLSX {
			return cfg.Export.XLSXName, nil
		}
		return cfg.Export.CSVName, nil
	}
	pathFormat, err := export.FormatForPath(out)
	if err != nil {
		return "", err
	}
	if formatSet && pathFormat != format {
		return "", eris.Errorf("--format %s does not match output file %s", format, out)
	}
	return out, nil
}

func init() {
	exportFilters.register(exportCmd)
	exportCmd.Flags().StringVar(&exportTemplate, "template", "", "None, Salesforce or HubSpot (default from config)")
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "csv or xlsx")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output path, or - for stdout (default from config)")
	rootCmd.AddCommand(exportCmd)
}
