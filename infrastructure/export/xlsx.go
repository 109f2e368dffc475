// Package export 报表导出为 Excel 工作簿
package export

import (
	"fmt"
	"io"

	"github.com/tealeg/xlsx"
)

// ContentType of an .xlsx workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Table becomes one worksheet: a header row followed by Rows.
type Table struct {
	Name   string
	Header []string
	Rows   [][]any
}

// WriteWorkbook renders tables in order, one sheet each.
func WriteWorkbook(w io.Writer, tables ...Table) error {
	file := xlsx.NewFile()
	for _, table := range tables {
		sheet, err := file.AddSheet(table.Name)
		if err != nil {
			return fmt.Errorf("add sheet %q: %w", table.Name, err)
		}

		headerRow := sheet.AddRow()
		for _, h := range table.Header {
			cell := headerRow.AddCell()
			cell.SetValue(h)
			cell.GetStyle().Font.Bold = true
		}
		for _, values := range table.Rows {
			row := sheet.AddRow()
			for _, v := range values {
				row.AddCell().SetValue(v)
			}
		}
	}
	return file.Write(w)
}
