package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/eugenenazirov/shipment-planner/internal/shipment"
)

// Sheet names of the freight workbook.
const (
	SheetFreight    = "Freight"
	SheetWeights    = "Weights"
	SheetUnassigned = "Unassigned"
)

// ContentTypeXLSX is the media type of the workbook.
const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// WriteFreightXLSX writes the report's freight lines, weight summary and
// unassigned items and boxes as an .xlsx workbook.
func WriteFreightXLSX(w io.Writer, report shipment.Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetFreight); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	for _, name := range []string{SheetWeights, SheetUnassigned} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("create sheet %s: %w", name, err)
		}
	}

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	freight := [][]any{{"Container", "Type", "Dimensions (in)", "Boxes", "Weight (lbs)", "Line"}}
	for _, l := range report.Freight {
		freight = append(freight, []any{l.ContainerID, string(l.Type), l.Dimensions, l.Boxes, l.Weight, l.Line})
	}

	wt := report.Weights
	weights := [][]any{
		{"Metric", "Pounds"},
		{"Artwork", wt.ArtworkWeight},
		{"Glass", wt.GlassWeight},
		{"Oversized", wt.OversizedWeight},
		{"Packaging", wt.PackagingWeight},
		{"Final", wt.FinalWeight},
	}

	unassigned := [][]any{{"Kind", "ID", "Pieces", "Reason"}}
	for _, u := range report.UnassignedItems {
		unassigned = append(unassigned, []any{"item", u.Item.ID, u.Item.Quantity, u.Reason})
	}
	for _, u := range report.UnassignedBoxes {
		unassigned = append(unassigned, []any{"box", u.Box.ID, u.Box.Pieces, u.Reason})
	}

	for name, rows := range map[string][][]any{
		SheetFreight:    freight,
		SheetWeights:    weights,
		SheetUnassigned: unassigned,
	} {
		if err := writeRows(f, name, rows, header); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any, headerStyle int) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}

	last, err := excelize.ColumnNumberToName(len(rows[0]))
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last+"1", headerStyle); err != nil {
		return fmt.Errorf("style %s header: %w", sheet, err)
	}
	return f.SetColWidth(sheet, "A", last, 18)
}
