package fetcher

import (
	"archive/zip"
	"bytes"
	"io"
	"path"
	"strings"

	"github.com/rotisserie/eris"
)

// maxZIPEntryBytes caps the uncompressed size of the extracted table.
const maxZIPEntryBytes = 64 << 20

// supportedExt reports whether name has an extension LoadBytes can parse
// directly.
func supportedExt(name string) bool {
	switch strings.ToLower(path.Ext(name)) {
	case ".csv", ".txt", ".xlsx", ".xlsm":
		return true
	}
	return false
}

// unzipTable returns the name and contents of the single CSV or workbook in a
// ZIP archive. Directories and macOS resource forks are ignored.
func unzipTable(data []byte) (string, []byte, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", nil, eris.Wrap(err, "zip: open archive")
	}

	var files []*zip.File
	for _, f := range r.File {
		if f.FileInfo().IsDir() || strings.HasPrefix(f.Name, "__MACOSX/") {
			continue
		}
		if supportedExt(f.Name) {
			files = append(files, f)
		}
	}
	if len(files) != 1 {
		return "", nil, eris.Errorf("zip: expected exactly 1 csv or xlsx file, got %d", len(files))
	}

	rc, err := files[0].Open()
	if err != nil {
		return "", nil, eris.Wrap(err, "zip: open entry")
	}
	defer rc.Close() //nolint:errcheck

	content, err := io.ReadAll(io.LimitReader(rc, maxZIPEntryBytes+1))
	if err != nil {
		return "", nil, eris.Wrap(err, "zip: read entry")
	}
	if len(content) > maxZIPEntryBytes {
		return "", nil, eris.Errorf("zip: %s larger than %d bytes", files[0].Name, maxZIPEntryBytes)
	}

	return path.Base(files[0].Name), content, nil
}
