package extract

import (
	"bytes"
	"fmt"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

// readXLSX loads every sheet of an .xlsx workbook.
func readXLSX(data []byte) ([]Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	defer f.Close()

	// Serial dates count from the 1904 epoch when the workbook says so.
	date1904 := false
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		date1904 = *props.Date1904
	}

	var tables []Table
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
		}
		if len(rows) == 0 {
			continue
		}
		tables = append(tables, Table{Name: sheet, Rows: rows, Date1904: date1904})
	}
	if len(tables) == 0 {
		return nil, fmt.Errorf("%w: workbook has no populated sheets", ErrUnreadable)
	}
	return tables, nil
}

// readXLS loads every sheet of a legacy .xls workbook.
func readXLS(data []byte) ([]Table, error) {
	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}

	var tables []Table
	for i := 0; i < wb.NumSheets(); i++ {
		sheet := wb.GetSheet(i)
		if sheet == nil {
			continue
		}
		var rows [][]string
		for r := 0; r <= int(sheet.MaxRow); r++ {
			row := sheet.Row(r)
			if row == nil {
				rows = append(rows, nil)
				continue
			}
			cells := make([]string, 0, row.LastCol())
			for c := 0; c < row.LastCol(); c++ {
				cells = append(cells, row.Col(c))
			}
			rows = append(rows, cells)
		}
		if len(rows) == 0 {
			continue
		}
		tables = append(tables, Table{Name: sheet.Name, Rows: rows})
	}
	if len(tables) == 0 {
		return nil, fmt.Errorf("%w: workbook has no populated sheets", ErrUnreadable)
	}
	return tables, nil
}
