package export

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"
)

// SheetName is the worksheet that holds exported rows.
const SheetName = "Prospects"

// Format is an export file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat accepts "csv" or "xlsx" in any case.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	}
	return "", eris.Errorf("export: unknown format %q (want csv or xlsx)", s)
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv"
}

// WriteCSV writes tbl as UTF-8 comma-separated text with a header row.
func WriteCSV(w io.Writer, tbl Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(tbl.Header); err != nil {
		return eris.Wrap(err, "export: write csv header")
	}
	for _, rec := range tbl.Records {
		if err := cw.Write(rec); err != nil {
			return eris.Wrap(err, "export: write csv row")
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return eris.Wrap(err, "export: flush csv")
	}
	return nil
}

// WriteXLSX writes tbl to a workbook with a single "Prospects" sheet. Every
// cell is stored as text so the sheet matches the CSV output.
func WriteXLSX(w io.Writer, tbl Table) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet(SheetName)
	if err != nil {
		return eris.Wrap(err, "export: add sheet")
	}

	addRow(sheet, tbl.Header)
	for _, rec := range tbl.Records {
		addRow(sheet, rec)
	}

	if err := f.Write(w); err != nil {
		return eris.Wrap(err, "export: write xlsx")
	}
	return nil
}

func addRow(sheet *xlsx.Sheet, values []string) {
	row := sheet.AddRow()
	for _, v := range values {
		row.AddCell().SetString(v)
	}
}

// Write renders tbl in the given format.
func Write(w io.Writer, tbl Table, format Format) error {
	if format == FormatXLSX {
		return WriteXLSX(w, tbl)
	}
	return WriteCSV(w, tbl)
}

// FormatForPath returns the format named by path's extension.
func FormatForPath(path string) (Format, error) {
	return ParseFormat(strings.TrimPrefix(filepath.Ext(path), "."))
}

// WriteFile writes tbl to path, choosing the format from its extension.
func WriteFile(path string, tbl Table) error {
	format, err := FormatForPath(path)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return eris.Wrap(err, "export: create file")
	}
	defer f.Close() //nolint:errcheck

	if err := Write(f, tbl, format); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return eris.Wrap(err, "export: close file")
	}

	zap.L().Info("export: wrote file",
		zap.String("path", path),
		zap.String("format", string(format)),
		zap.Int("rows", len(tbl.Records)),
	)
	return nil
}
