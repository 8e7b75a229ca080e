// Package export encodes tabular report rows into spreadsheet files.
package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ContentType is the MIME type for OOXML workbooks.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const defaultSheet = "Tokens"

// XLSXEncoder writes rows into a single-sheet workbook.
type XLSXEncoder struct {
	sheet string
}

func NewXLSXEncoder(sheet string) *XLSXEncoder {
	if sheet == "" {
		sheet = defaultSheet
	}
	return &XLSXEncoder{sheet: sheet}
}

func (e *XLSXEncoder) Encode(rows [][]any) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", e.sheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return nil, fmt.Errorf("cell name for row %d: %w", i+1, err)
		}
		if err := f.SetSheetRow(e.sheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}
