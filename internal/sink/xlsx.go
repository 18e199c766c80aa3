package sink

import (
	"context"
	"fmt"
	"os"

	"github.com/dgallion1/docoutline/internal/outline"
	"github.com/xuri/excelize/v2"
)

// SheetName is the worksheet every XLSX output uses.
const SheetName = "Sheet1"

// XLSX writes rows to a single-sheet spreadsheet with a bold header row.
type XLSX struct {
	Path string
}

func (x *XLSX) Write(ctx context.Context, rows []outline.Row) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := setRow(f, 1, outline.Columns); err != nil {
		return err
	}
	if err := boldHeader(f); err != nil {
		return err
	}
	for i, row := range rows {
		if i%500 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		if err := setRow(f, i+2, row.Values()); err != nil {
			return err
		}
	}

	return replaceFile(x.Path, func(out *os.File) error {
		if _, err := f.WriteTo(out); err != nil {
			return fmt.Errorf("encode xlsx: %w", err)
		}
		return nil
	})
}

func boldHeader(f *excelize.File) error {
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(len(outline.Columns), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetName, "A1", last, style); err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, rowNum int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	cells := make([]any, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return f.SetSheetRow(SheetName, cell, &cells)
}
