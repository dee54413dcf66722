package export

import (
	"io"
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/relocate-cli/internal/model"
)

// SheetName is the worksheet XLSX writes results to.
const SheetName = "Results"

// numericColumns are written as numbers so spreadsheets can sort them.
var numericColumns = map[int]bool{0: true, 4: true, 5: true, 6: true, 7: true, 8: true, 9: true, 10: true, 11: true, 12: true, 13: true}

// XLSX writes results to a single-sheet workbook.
func XLSX(w io.Writer, results []model.SimulationResult) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet(SheetName)
	if err != nil {
		return eris.Wrap(err, "export: add sheet")
	}

	header := sheet.AddRow()
	for _, c := range columns {
		header.AddCell().SetString(c)
	}

	for i, r := range results {
		xr := sheet.AddRow()
		for j, v := range row(i+1, r) {
			cell := xr.AddCell()
			if numericColumns[j] {
				if n, err := strconv.ParseFloat(v, 64); err == nil {
					cell.SetFloat(n)
					continue
				}
			}
			cell.SetString(v)
		}
	}

	return eris.Wrap(f.Write(w), "export: write xlsx")
}
