package reconcile

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"
)

const timestampLayout = "20060102_150405"

// WriteCSV renders the report as CSV. Null cells become empty fields, since
// CSV has no null representation; the JSON and Excel outputs keep the
// distinction where their formats allow.
func WriteCSV(w io.Writer, report *Report) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(report.Columns); err != nil {
		return err
	}

	for _, row := range report.Rows {
		rec := make([]string, len(row))
		for i, cell := range row {
			if cell != nil {
				rec[i] = *cell
			}
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// SaveCSV writes the report to <dir>/<basename>_<timestamp>.csv and returns
// the path.
func SaveCSV(dir, basename string, report *Report, now time.Time) (string, error) {
	path, err := outputPath(dir, basename, "csv", now)
	if err != nil {
		return "", err
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("could not create csv report: %w", err)
	}
	defer f.Close()

	if err := WriteCSV(f, report); err != nil {
		return "", fmt.Errorf("could not write csv report: %w", err)
	}

	return path, nil
}

// SaveExcel writes the report as an xlsx workbook with a single sheet. Null
// cells are left unset rather than written as empty strings.
func SaveExcel(dir, basename string, report *Report, now time.Time) (string, error) {
	path, err := outputPath(dir, basename, "xlsx", now)
	if err != nil {
		return "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)

	for i, col := range report.Columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return "", err
		}
		if err := f.SetCellValue(sheet, cell, col); err != nil {
			return "", err
		}
	}

	for r, row := range report.Rows {
		for c, val := range row {
			if val == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return "", err
			}
			if err := f.SetCellValue(sheet, cell, *val); err != nil {
				return "", err
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("could not write excel report: %w", err)
	}

	return path, nil
}

// SaveJSON dumps an arbitrary document (typically the raw query response) to
// <dir>/<basename>_<timestamp>.json.
func SaveJSON(dir, basename string, doc any, now time.Time) (string, error) {
	path, err := outputPath(dir, basename, "json", now)
	if err != nil {
		return "", err
	}

	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("could not marshal document: %w", err)
	}

	if err := os.WriteFile(path, b, 0o644); err != nil {
		return "", fmt.Errorf("could not write json dump: %w", err)
	}

	return path, nil
}

func outputPath(dir, basename, ext string, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("could not create output directory: %w", err)
	}

	name := fmt.Sprintf("%s_%s.%s", basename, now.Format(timestampLayout), ext)
	return filepath.Join(dir, name), nil
}
