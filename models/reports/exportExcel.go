package reports

import (
	"fmt"
	"io"

	"bitbucket.org/gsosupply/inventory_backend/models"
	"github.com/xuri/excelize/v2"
)

const sheetName = "Sheet1"

func writeSheet(f *excelize.File, headings []string, rows [][]interface{}) error {
	for i, h := range headings {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		f.SetCellValue(sheetName, cell, h)
	}
	for r, row := range rows {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return err
			}
			f.SetCellValue(sheetName, cell, v)
		}
	}
	return nil
}

// ExportSuppliesExcel renders the on-hand catalog as a spreadsheet.
func ExportSuppliesExcel(w io.Writer, supplies []*models.SupplyRow) error {
	f := excelize.NewFile()
	_, err := f.NewSheet(sheetName)
	if err != nil {
		return err
	}

	headings := []string{"Code", "Name", "Unit", "Cluster", "Classification", "Quantity", "Availability", "Date Added"}
	rows := make([][]interface{}, 0, len(supplies))
	for _, s := range supplies {
		rows = append(rows, []interface{}{
			s.Code, s.Name, s.Unit, string(s.Cluster), s.Classification,
			s.Quantity, s.Availability, s.DateAdded.Format("2006-01-02"),
		})
	}
	if err := writeSheet(f, headings, rows); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write excel file: %v", err)
	}
	return nil
}

// ExportStockMovementExcel renders the combined delivery/release ledger view.
func ExportStockMovementExcel(w io.Writer, movements []*StockMovementRow) error {
	f := excelize.NewFile()
	_, err := f.NewSheet(sheetName)
	if err != nil {
		return err
	}

	headings := []string{"Date", "Number", "Movement", "Supply Code", "Supply Name", "Qty In", "Qty Out", "Handled By"}
	rows := make([][]interface{}, 0, len(movements))
	for _, m := range movements {
		rows = append(rows, []interface{}{
			m.CreatedAt.Format("2006-01-02 15:04"), m.Number, m.Movement,
			m.SupplyCode, m.SupplyName, m.QtyIn, m.QtyOut, m.HandledBy,
		})
	}
	if err := writeSheet(f, headings, rows); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write excel file: %v", err)
	}
	return nil
}
