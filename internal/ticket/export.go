package ticket

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/samyuktha-jana/SAP-hackathon/internal/models"

	"github.com/xuri/excelize/v2"
)

var exportHeaders = []string{"Ticket", "Title", "Category", "Priority", "Status", "Requester", "Assignee", "Created"}

func exportRow(t models.Ticket) []string {
	return []string{
		t.Ref(),
		t.Title,
		t.Category,
		t.Priority,
		t.Status,
		t.RequesterEmail,
		t.AssigneeEmail,
		t.CreatedAt.UTC().Format("2006-01-02 15:04"),
	}
}

// WriteCSV writes tickets as CSV with a UTF-8 BOM so Excel opens it cleanly.
func WriteCSV(w io.Writer, tickets []models.Ticket) error {
	if _, err := w.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeaders); err != nil {
		return err
	}
	for _, t := range tickets {
		if err := cw.Write(exportRow(t)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX writes tickets to a single "Tickets" sheet.
func WriteXLSX(w io.Writer, tickets []models.Ticket) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Tickets"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}

	for i, h := range exportHeaders {
		f.SetCellValue(sheet, fmt.Sprintf("%c1", 'A'+i), h)
	}
	for idx, t := range tickets {
		row := strconv.Itoa(idx + 2)
		for i, v := range exportRow(t) {
			f.SetCellValue(sheet, fmt.Sprintf("%c%s", 'A'+i, row), v)
		}
	}

	f.SetColWidth(sheet, "A", "A", 12)
	f.SetColWidth(sheet, "B", "B", 40)
	f.SetColWidth(sheet, "C", "E", 12)
	f.SetColWidth(sheet, "F", "G", 28)
	f.SetColWidth(sheet, "H", "H", 18)

	_, err := f.WriteTo(w)
	return err
}
