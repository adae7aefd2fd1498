// Package fetcher loads prospect tables from CSV and XLSX sources.
package fetcher

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/brunogennarelli2-del/prospectelettrica/internal/model"
)

// CSVOptions configures the CSV parser.
type CSVOptions struct {
	Delimiter  rune // default ','
	Comment    rune // comment character (0 = none)
	LazyQuotes bool
}

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// ReadCSV parses a delimited text table. The first record is the header.
// Cells are whitespace-trimmed; short rows are allowed.
func ReadCSV(r io.Reader, opts CSVOptions) (*model.RawTable, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, eris.Wrap(err, "csv: read input")
	}

	text, enc, err := decodeText(data)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(bytes.NewReader(text))
	if opts.Delimiter != 0 {
		reader.Comma = opts.Delimiter
	}
	if opts.Comment != 0 {
		reader.Comment = opts.Comment
	}
	reader.LazyQuotes = opts.LazyQuotes
	reader.FieldsPerRecord = -1 // allow variable fields

	records, err := reader.ReadAll()
	if err != nil {
		return nil, eris.Wrap(err, "csv: read rows")
	}
	if len(records) == 0 {
		return nil, eris.New("csv: no header row")
	}

	for _, rec := range records {
		for i, field := range rec {
			rec[i] = strings.TrimSpace(field)
		}
	}

	zap.L().Debug("csv: parsed",
		zap.String("encoding", enc),
		zap.Int("columns", len(records[0])),
		zap.Int("rows", len(records)-1),
	)

	return &model.RawTable{
		Columns: uniqueColumns(records[0]),
		Rows:    records[1:],
	}, nil
}

// decodeText strips a byte order mark and converts UTF-16 or Latin-1 input
// to UTF-8. It returns the detected encoding name.
func decodeText(data []byte) ([]byte, string, error) {
	switch {
	case bytes.HasPrefix(data, bomUTF8):
		return data[len(bomUTF8):], "utf-8-bom", nil
	case bytes.HasPrefix(data, bomUTF16LE), bytes.HasPrefix(data, bomUTF16BE):
		dec := unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM).NewDecoder()
		out, _, err := transform.Bytes(dec, data)
		if err != nil {
			return nil, "", eris.Wrap(err, "csv: decode utf-16")
		}
		return out, "utf-16", nil
	case utf8.Valid(data):
		return data, "utf-8", nil
	}

	out, _, err := transform.Bytes(charmap.ISO8859_1.NewDecoder(), data)
	if err != nil {
		return nil, "", eris.Wrap(err, "csv: decode latin-1")
	}
	return out, "latin-1", nil
}

// uniqueColumns trims header names, names blank headers "Unnamed: i" and
// suffixes repeated names with ".1", ".2", ... so every column is addressable.
func uniqueColumns(header []string) []string {
	cols := make([]string, len(header))
	seen := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if h == "" {
			h = fmt.Sprintf("Unnamed: %d", i)
		}
		name := h
		if n, ok := seen[h]; ok {
			name = fmt.Sprintf("%s.%d", h, n)
			seen[h] = n + 1
		} else {
			seen[h] = 1
		}
		cols[i] = name
	}
	return cols
}
