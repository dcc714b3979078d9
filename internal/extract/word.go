package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// Minimal WordprocessingML mapping: a .docx is a zip whose
// word/document.xml holds the tables. encoding/xml matches on local
// names, so the w: namespace needs no special handling.

type wmlDocument struct {
	Body wmlBody `xml:"body"`
}

type wmlBody struct {
	Tables []wmlTable `xml:"tbl"`
}

type wmlTable struct {
	Rows []wmlRow `xml:"tr"`
}

type wmlRow struct {
	Cells []wmlCell `xml:"tc"`
}

type wmlCell struct {
	Paragraphs []wmlParagraph `xml:"p"`
}

type wmlParagraph struct {
	Runs []wmlRun `xml:"r"`
}

type wmlRun struct {
	Texts []string `xml:"t"`
}

// readDOCX extracts every table of a .docx document.
func readDOCX(data []byte) ([]Table, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}

	var docXML []byte
	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
		}
		docXML, err = io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
		}
		break
	}
	if docXML == nil {
		return nil, fmt.Errorf("%w: word/document.xml missing", ErrUnreadable)
	}

	var doc wmlDocument
	if err := xml.Unmarshal(docXML, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	if len(doc.Body.Tables) == 0 {
		return nil, fmt.Errorf("%w: document contains no tables", ErrUnreadable)
	}

	tables := make([]Table, 0, len(doc.Body.Tables))
	for i, tbl := range doc.Body.Tables {
		var rows [][]string
		for _, tr := range tbl.Rows {
			cells := make([]string, 0, len(tr.Cells))
			for _, tc := range tr.Cells {
				cells = append(cells, cellText(tc))
			}
			rows = append(rows, cells)
		}
		tables = append(tables, Table{Name: fmt.Sprintf("table-%d", i+1), Rows: rows})
	}
	return tables, nil
}

func cellText(tc wmlCell) string {
	var parts []string
	for _, p := range tc.Paragraphs {
		var sb strings.Builder
		for _, r := range p.Runs {
			for _, t := range r.Texts {
				sb.WriteString(t)
			}
		}
		if s := strings.TrimSpace(sb.String()); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}
