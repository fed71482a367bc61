package importer

import (
	"bytes"
	"fmt"

	"github.com/extrame/xls"
	"github.com/gabriel-vasile/mimetype"
	"github.com/xuri/excelize/v2"
)

// ReadWorkbook decodes the first worksheet of a spreadsheet into rows of
// formatted cell text. Office Open XML workbooks go through excelize and legacy
// BIFF workbooks through xls. Blank cells come back as empty strings.
func ReadWorkbook(data []byte) ([][]string, error) {
	if isLegacyWorkbook(data) {
		return readLegacyWorkbook(data)
	}
	return readOpenXMLWorkbook(data)
}

func isLegacyWorkbook(data []byte) bool {
	mtype := mimetype.Detect(data)
	return mtype.Is("application/vnd.ms-excel") || mtype.Is("application/x-ole-storage")
}

func readOpenXMLWorkbook(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyWorkbook
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: reading sheet %q: %v", ErrEmptyWorkbook, sheets[0], err)
	}
	return rows, nil
}

func readLegacyWorkbook(data []byte) ([][]string, error) {
	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	// files without a workbook stream open without error
	if wb == nil || wb.NumSheets() == 0 {
		return nil, ErrEmptyWorkbook
	}

	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, ErrEmptyWorkbook
	}

	rows := make([][]string, 0, int(sheet.MaxRow)+1)
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			rows = append(rows, nil)
			continue
		}
		// LastCol is one past the last cell for rows declared by a ROW
		// record and the last cell itself otherwise; missing cells read as ""
		cells := make([]string, row.LastCol()+1)
		for j := row.FirstCol(); j <= row.LastCol(); j++ {
			cells[j] = row.Col(j)
		}
		rows = append(rows, cells)
	}
	return rows, nil
}
