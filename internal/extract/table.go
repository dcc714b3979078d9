// Package extract turns raw spreadsheet/Word bytes into ordered rows
// of strings and resolves the fuzzy header/column layout of the
// training department's export documents. Everything downstream
// (reduction, reconciliation, conflict checking) is deterministic;
// this package owns the best-effort part of the pipeline.
package extract

import (
	"errors"
	"path/filepath"
	"strings"
)

var (
	// ErrUnsupportedFormat unknown file extension.
	ErrUnsupportedFormat = errors.New("unsupported document format")
	// ErrUnreadable the document could not be opened at all.
	ErrUnreadable = errors.New("unreadable document")
	// ErrHeaderNotFound no row qualifies as a header row. Fatal for
	// the whole import, not per-row.
	ErrHeaderNotFound = errors.New("header row not found")
)

// Table one sheet (Excel) or one table (Word) as raw string rows.
// Date1904 mirrors the workbook's date-system property: serial dates in
// this table count from the 1904 epoch instead of 1900.
type Table struct {
	Name     string
	Rows     [][]string
	Date1904 bool
}

// Tables dispatches on the file extension and returns every sheet or
// table in document order. Legacy binary .doc is not supported; only
// the OOXML .docx container can be read.
func Tables(data []byte, filename string) ([]Table, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx":
		return readXLSX(data)
	case ".xls":
		return readXLS(data)
	case ".docx":
		return readDOCX(data)
	default:
		return nil, ErrUnsupportedFormat
	}
}
