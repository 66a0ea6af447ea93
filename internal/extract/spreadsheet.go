package extract

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

// maxPreviewRows is the number of data rows (after the header) included in a preview.
const maxPreviewRows = 10

var errNoRows = errors.New("no columns to parse")

// decodeSpreadsheet renders the header and the first maxPreviewRows rows of
// the first sheet as a plain-text table.
func decodeSpreadsheet(ext string, data []byte) (string, error) {
	var (
		rows [][]string
		err  error
	)
	switch ext {
	case "csv":
		rows, err = readCSV(data)
	case "xlsx":
		rows, err = readXLSX(data)
	case "xls":
		rows, err = readXLS(data)
	default:
		return "", fmt.Errorf("no spreadsheet reader for .%s", ext)
	}
	if err != nil {
		return "", err
	}

	rows = dropBlankRows(rows)
	if len(rows) == 0 {
		return "", errNoRows
	}

	header, body := rows[0], rows[1:]
	if len(body) > maxPreviewRows {
		body = body[:maxPreviewRows]
	}
	return renderTable(header, body), nil
}

func readCSV(data []byte) ([][]string, error) {
	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM)))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	return r.ReadAll()
}

func readXLSX(data []byte) (rows [][]string, err error) {
	defer recoverAs(&err, "malformed xlsx")

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	return f.GetRows(sheets[0])
}

func readXLS(data []byte) (rows [][]string, err error) {
	defer recoverAs(&err, "malformed xls")

	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, err
	}
	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, errors.New("workbook has no sheets")
	}

	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			continue
		}
		cells := make([]string, 0, row.LastCol())
		for j := 0; j < row.LastCol(); j++ {
			cells = append(cells, row.Col(j))
		}
		rows = append(rows, cells)
	}
	return rows, nil
}

// dropBlankRows removes rows with no non-empty cell.
func dropBlankRows(rows [][]string) [][]string {
	out := rows[:0]
	for _, row := range rows {
		for _, cell := range row {
			if cell != "" {
				out = append(out, row)
				break
			}
		}
	}
	return out
}
