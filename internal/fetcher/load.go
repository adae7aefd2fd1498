package fetcher

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/brunogennarelli2-del/prospectelettrica/internal/model"
)

// LoadError reports an input file that could not be read. Nothing from the
// file is kept when it is returned.
type LoadError struct {
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("couldn't read %s: make sure it's a valid CSV/XLSX: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// LoadFile reads a .csv, .xlsx or .zip file. For workbooks, sheet selects the sheet
// by name; "" selects the first sheet.
func LoadFile(path, sheet string) (*model.RawTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Source: path, Err: eris.Wrap(err, "fetcher: read file")}
	}
	return LoadBytes(filepath.Base(path), data, sheet)
}

// LoadBytes parses an uploaded file; name decides the format by extension.
// A .zip must hold exactly one CSV or workbook.
func LoadBytes(name string, data []byte, sheet string) (*model.RawTable, error) {
	var (
		tbl *model.RawTable
		err error
	)

	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv", ".txt":
		tbl, err = ReadCSV(bytes.NewReader(data), CSVOptions{LazyQuotes: true})
	case ".xlsx", ".xlsm":
		tbl, err = ReadXLSX(data, XLSXOptions{SheetName: sheet})
	case ".zip":
		inner, content, zerr := unzipTable(data)
		if zerr != nil {
			return nil, &LoadError{Source: name, Err: zerr}
		}
		zt, zerr := LoadBytes(inner, content, sheet)
		if zerr != nil {
			return nil, zerr
		}
		zt.Source = name + "/" + inner
		return zt, nil
	default:
		err = eris.Errorf("fetcher: unsupported file type %q", filepath.Ext(name))
	}
	if err != nil {
		return nil, &LoadError{Source: name, Err: err}
	}

	tbl.Source = name
	zap.L().Info("loaded prospect table",
		zap.String("source", name),
		zap.String("sheet", tbl.Sheet),
		zap.Int("columns", len(tbl.Columns)),
		zap.Int("rows", len(tbl.Rows)),
	)
	return tbl, nil
}

// ListSheets returns the sheet names of a workbook file, or nil for CSV.
func ListSheets(path string) ([]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
	default:
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Source: path, Err: eris.Wrap(err, "fetcher: read file")}
	}
	names, err := SheetNames(data)
	if err != nil {
		return nil, &LoadError{Source: path, Err: err}
	}
	return names, nil
}
