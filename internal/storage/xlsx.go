package storage

import (
	"github.com/xuri/excelize/v2"

	"github.com/san-kum/eqlab/internal/batch"
	"github.com/san-kum/eqlab/internal/stability"
)

const (
	summarySheet = "Summary"
	pointsSheet  = "Points"
)

// SaveSweepXLSX writes a sweep workbook: one summary row per configuration
// and one row per critical point. Values keep their model units.
func SaveSweepXLSX(filename string, axes []batch.Axis, entries []batch.Entry) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return err
	}
	if _, err := f.NewSheet(pointsSheet); err != nil {
		return err
	}

	order := make([]string, len(axes))
	for i, a := range axes {
		order[i] = a.Name
	}

	set := func(sheet string, col, row int, v any) error {
		cell, err := excelize.CoordinatesToCellName(col, row)
		if err != nil {
			return err
		}
		return f.SetCellValue(sheet, cell, v)
	}
	writeRow := func(sheet string, row int, cells []any) error {
		for i, v := range cells {
			if err := set(sheet, i+1, row, v); err != nil {
				return err
			}
		}
		return nil
	}

	header := []any{"No"}
	for _, k := range order {
		header = append(header, k)
	}
	summaryHeader := append(append([]any{}, header...),
		"points", "stable", "unstable", "saddle", "indeterminate", "warnings", "global_min", "error")
	if err := writeRow(summarySheet, 1, summaryHeader); err != nil {
		return err
	}
	pointsHeader := append(append([]any{}, header...), "coord", "energy", "class")
	if err := writeRow(pointsSheet, 1, pointsHeader); err != nil {
		return err
	}

	pointRow := 2
	for i, e := range entries {
		row := []any{e.Index + 1}
		for _, k := range order {
			row = append(row, e.Values[k])
		}
		lead := len(row)

		switch {
		case e.Err != nil:
			row = append(row, "", "", "", "", "", "", "", e.Err.Error())
		default:
			res := e.Result
			row = append(row,
				len(res.Points),
				res.Count(stability.Stable),
				res.Count(stability.Unstable),
				res.Count(stability.Saddle),
				res.Count(stability.Indeterminate),
				len(res.Warnings),
			)
			if g, ok := res.Global(); ok {
				row = append(row, g.Energy)
			} else {
				row = append(row, "")
			}
			row = append(row, "")

			for _, p := range res.Points {
				prow := append(append([]any{}, row[:lead]...), coordString(p.Coord), p.Energy, p.Class.String())
				if err := writeRow(pointsSheet, pointRow, prow); err != nil {
					return err
				}
				pointRow++
			}
		}
		if err := writeRow(summarySheet, i+2, row); err != nil {
			return err
		}
	}

	return f.SaveAs(filename)
}

// ReadSweepSummary returns the summary sheet rows, header included.
func ReadSweepSummary(filename string) ([][]string, error) {
	f, err := excelize.OpenFile(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return f.GetRows(summarySheet)
}
