package progress

import (
	"fmt"
	"io"
	"strconv"

	"github.com/samyuktha-jana/SAP-hackathon/internal/models"

	"github.com/xuri/excelize/v2"
)

// WriteXLSX writes one sheet per progress kind for the given rows.
func WriteXLSX(w io.Writer, items []models.Progress) error {
	f := excelize.NewFile()
	defer f.Close()

	kinds := []string{models.ProgressModule, models.ProgressSoftware, models.ProgressDocument}
	next := map[string]int{}
	for i, kind := range kinds {
		sheet := mirrors[kind].column
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				return fmt.Errorf("create sheet: %w", err)
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("create sheet: %w", err)
		}
		f.SetCellValue(sheet, "A1", "Item")
		f.SetCellValue(sheet, "B1", "Completed")
		f.SetCellValue(sheet, "C1", "Updated")
		f.SetColWidth(sheet, "A", "A", 40)
		f.SetColWidth(sheet, "C", "C", 18)
		next[kind] = 2
	}

	for _, it := range items {
		sheet := mirrors[it.Kind].column
		if sheet == "" {
			continue
		}
		row := next[it.Kind]
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), it.Item)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), strconv.FormatBool(it.Completed))
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), it.UpdatedAt.UTC().Format("2006-01-02 15:04"))
		next[it.Kind] = row + 1
	}

	_, err := f.WriteTo(w)
	return err
}
